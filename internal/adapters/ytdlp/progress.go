package ytdlp

import (
	"bytes"
	"io"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/KenCooper2022/youtube-audio-downloader/internal/core/ports"
)

// The raw 0-100 download percentage is rescaled into the 20-80 band of the
// overall operation, leaving headroom for the pre/post phases. The audio
// extraction marker pins a fixed 85%.
const (
	downloadBandFloor = 20
	downloadBandCeil  = 80
	convertingPercent = 85
)

var downloadPercentRe = regexp.MustCompile(`\[download\]\s+([0-9]+(?:\.[0-9]+)?)%`)

// rescalePercent maps a raw subprocess percentage into the overall band.
func rescalePercent(raw float64) int {
	scaled := downloadBandFloor + int(raw*0.6)
	if scaled > downloadBandCeil {
		scaled = downloadBandCeil
	}
	if scaled < downloadBandFloor {
		scaled = downloadBandFloor
	}
	return scaled
}

// parseProgressLine extracts a normalized progress event from one yt-dlp
// output line. ok is false for lines that carry no progress information.
func parseProgressLine(line string) (percent int, message string, ok bool) {
	if strings.Contains(line, "[ExtractAudio]") {
		return convertingPercent, "Converting to MP3...", true
	}
	m := downloadPercentRe.FindStringSubmatch(line)
	if m == nil {
		return 0, "", false
	}
	raw, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, "", false
	}
	return rescalePercent(raw), "Downloading audio...", true
}

// progressWriter feeds line-buffered subprocess output through
// parseProgressLine, invoking the callback for each progress-bearing line.
// Partial lines are buffered across writes.
type progressWriter struct {
	mu      sync.Mutex
	partial bytes.Buffer
	onEvent ports.ProgressFunc
}

var _ io.Writer = (*progressWriter)(nil)

func newProgressWriter(onEvent ports.ProgressFunc) *progressWriter {
	return &progressWriter{onEvent: onEvent}
}

func (w *progressWriter) Write(chunk []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.partial.Write(chunk)
	for {
		data := w.partial.Bytes()
		idx := bytes.IndexAny(data, "\r\n")
		if idx < 0 {
			break
		}
		line := string(data[:idx])
		w.partial.Next(idx + 1)
		if w.onEvent == nil {
			continue
		}
		if percent, message, ok := parseProgressLine(line); ok {
			w.onEvent(percent, message)
		}
	}
	return len(chunk), nil
}
