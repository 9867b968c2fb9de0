package ytdlp

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/KenCooper2022/youtube-audio-downloader/internal/core/domain"
	"github.com/KenCooper2022/youtube-audio-downloader/internal/core/ports"
)

// clientProfiles is the ordered list of request-signing strategies yt-dlp
// supports. Profiles are tried strictly in order; the first clean exit wins.
var clientProfiles = []string{"android", "android_vr", "web", "mweb", "ios"}

// Engine acquires audio for a video by driving yt-dlp through the profile
// fallback chain. Implements ports.Acquirer.
type Engine struct {
	runner   Runner
	profiles []string
}

var _ ports.Acquirer = (*Engine)(nil)

// NewEngine constructs the acquisition engine.
func NewEngine(runner Runner) *Engine {
	return &Engine{runner: runner, profiles: clientProfiles}
}

// Acquire extracts best audio to destPath as MP3 at maximum quality. The
// subprocess lifetime is bound to ctx: cancellation kills a running
// extraction and aborts the fallback chain.
func (e *Engine) Acquire(ctx context.Context, videoID, destPath string, onProgress ports.ProgressFunc) error {
	videoURL := "https://www.youtube.com/watch?v=" + videoID

	var lastErr error
	for _, profile := range e.profiles {
		if err := ctx.Err(); err != nil {
			return err
		}

		args := []string{
			"-f", "bestaudio",
			"--extract-audio",
			"--audio-format", "mp3",
			"--audio-quality", "0",
			"--no-playlist",
			"--newline",
			"--extractor-args", "youtube:player_client=" + profile,
			"-o", destPath,
			videoURL,
		}

		var stderr bytes.Buffer
		err := e.runner.Run(ctx, newProgressWriter(onProgress), &stderr, args...)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		diag := strings.TrimSpace(stderr.String())
		if diag != "" {
			lastErr = fmt.Errorf("profile %s: %s", profile, lastLine(diag))
		} else {
			lastErr = fmt.Errorf("profile %s: %w", profile, err)
		}
		log.Printf("WARN ytdlp adapter: extraction with profile %s failed: %v", profile, lastErr)
	}

	if lastErr == nil {
		return domain.ErrAllProfilesFailed
	}
	return fmt.Errorf("%w: %v", domain.ErrAllProfilesFailed, lastErr)
}

// lastLine keeps diagnostics short: yt-dlp prints its fatal reason last.
func lastLine(s string) string {
	lines := strings.Split(s, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if trimmed := strings.TrimSpace(lines[i]); trimmed != "" {
			return trimmed
		}
	}
	return s
}
