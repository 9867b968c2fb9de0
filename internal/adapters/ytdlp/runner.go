// Package ytdlp drives the external yt-dlp binary: metadata-dump fallback
// search and audio acquisition across client profile fallbacks.
package ytdlp

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Runner executes one yt-dlp invocation, streaming output to the given
// writers. Implementations must honor ctx cancellation by killing the
// subprocess. Abstracted so tests can script subprocess behavior.
type Runner interface {
	Run(ctx context.Context, stdout, stderr io.Writer, args ...string) error
}

type execRunner struct {
	binPath string
}

// NewRunner returns a Runner backed by the yt-dlp binary at binPath.
func NewRunner(binPath string) (Runner, error) {
	if binPath == "" {
		return nil, fmt.Errorf("ytdlp adapter: binary path is empty")
	}
	if _, err := os.Stat(binPath); err != nil {
		return nil, fmt.Errorf("ytdlp adapter: stat binary: %w", err)
	}
	return &execRunner{binPath: binPath}, nil
}

func (r *execRunner) Run(ctx context.Context, stdout, stderr io.Writer, args ...string) error {
	cmd := exec.CommandContext(ctx, r.binPath, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return err
	}
	return nil
}
