package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/KenCooper2022/youtube-audio-downloader/internal/core/domain"
)

// searchTimeout is the hard wall-clock bound on a fallback search
// subprocess. On expiry the process is killed and whatever records were
// parsed so far are returned.
const searchTimeout = 15 * time.Second

// SearchFallback performs video search by running yt-dlp in flat
// metadata-dump mode against a ytsearchN: pseudo-URL and parsing
// newline-delimited JSON records from its stdout incrementally.
type SearchFallback struct {
	runner  Runner
	timeout time.Duration
}

// NewSearchFallback constructs the fallback searcher.
func NewSearchFallback(runner Runner) *SearchFallback {
	return &SearchFallback{runner: runner, timeout: searchTimeout}
}

// Search is best-effort and never errors: subprocess failure or timeout
// yields the candidates collected up to that point.
func (s *SearchFallback) Search(ctx context.Context, query string, limit int) []domain.SearchCandidate {
	if limit <= 0 {
		limit = 20
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	collector := newEntryCollector(limit)
	var stderr bytes.Buffer
	args := []string{
		"--dump-json",
		"--flat-playlist",
		"--no-playlist",
		"--no-warnings",
		"--skip-download",
		fmt.Sprintf("ytsearch%d:%s", limit, query),
	}
	if err := s.runner.Run(ctx, collector, &stderr, args...); err != nil {
		log.Printf("WARN ytdlp adapter: fallback search ended early: %v", err)
	}

	return collector.candidates()
}

// flatEntry is one newline-delimited JSON record from --dump-json
// --flat-playlist output.
type flatEntry struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Channel    string `json:"channel"`
	Uploader   string `json:"uploader"`
	UploadDate string `json:"upload_date"`
	Thumbnail  string `json:"thumbnail"`
	Thumbnails []struct {
		URL    string `json:"url"`
		Height int    `json:"height"`
	} `json:"thumbnails"`
	Description string `json:"description"`
}

// entryCollector is an io.Writer that buffers partial trailing lines across
// stdout chunks and decodes each complete line as one record.
type entryCollector struct {
	mu      sync.Mutex
	partial bytes.Buffer
	found   []domain.SearchCandidate
	limit   int
}

var _ io.Writer = (*entryCollector)(nil)

func newEntryCollector(limit int) *entryCollector {
	return &entryCollector{limit: limit}
}

func (c *entryCollector) Write(chunk []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.partial.Write(chunk)
	for {
		data := c.partial.Bytes()
		idx := bytes.IndexByte(data, '\n')
		if idx < 0 {
			break
		}
		line := make([]byte, idx)
		copy(line, data[:idx])
		c.partial.Next(idx + 1)
		c.consumeLine(line)
	}
	return len(chunk), nil
}

func (c *entryCollector) consumeLine(line []byte) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 || len(c.found) >= c.limit {
		return
	}

	var entry flatEntry
	if err := json.Unmarshal(line, &entry); err != nil {
		return
	}
	if entry.ID == "" {
		return
	}

	channel := entry.Channel
	if channel == "" {
		channel = entry.Uploader
	}
	c.found = append(c.found, domain.SearchCandidate{
		VideoID:      entry.ID,
		Title:        entry.Title,
		ChannelTitle: channel,
		PublishedAt:  entry.UploadDate,
		Thumbnail:    entry.bestThumbnail(),
		Description:  entry.Description,
	})
}

func (c *entryCollector) candidates() []domain.SearchCandidate {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.SearchCandidate, len(c.found))
	copy(out, c.found)
	return out
}

func (e flatEntry) bestThumbnail() string {
	best := ""
	bestHeight := -1
	for _, t := range e.Thumbnails {
		if t.URL != "" && t.Height > bestHeight {
			best = t.URL
			bestHeight = t.Height
		}
	}
	if best != "" {
		return best
	}
	return e.Thumbnail
}
