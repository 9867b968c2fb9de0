package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/KenCooper2022/youtube-audio-downloader/internal/core/domain"
	"github.com/KenCooper2022/youtube-audio-downloader/internal/core/ports"
)

// DownloadRequest is one client-submitted download.
type DownloadRequest struct {
	VideoID      string
	Title        string
	Thumbnail    string
	ChannelTitle string
	Known        *domain.KnownMetadata
}

// Pipeline runs one download end to end: acquire raw audio, tag, rename,
// report. One request is one strictly sequential pipeline instance; the
// server imposes no cross-request coordination.
type Pipeline struct {
	acquirer    ports.Acquirer
	finalizer   ports.Finalizer
	downloadDir string
}

// NewPipeline constructs a Pipeline writing into downloadDir.
func NewPipeline(acquirer ports.Acquirer, finalizer ports.Finalizer, downloadDir string) *Pipeline {
	return &Pipeline{
		acquirer:    acquirer,
		finalizer:   finalizer,
		downloadDir: downloadDir,
	}
}

// Run executes the pipeline, emitting ordered progress events on stream.
// The stream always ends with exactly one complete or error event.
func (p *Pipeline) Run(ctx context.Context, req DownloadRequest, stream *Stream) {
	fail := func(err error) {
		log.Printf("WARN pipeline: download %s failed: %v", req.VideoID, err)
		stream.Emit(domain.ProgressEvent{
			VideoID:  req.VideoID,
			Progress: 0,
			Phase:    domain.PhaseError,
			Message:  err.Error(),
		})
	}

	if req.VideoID == "" {
		fail(errors.New("videoId is required"))
		return
	}

	stream.Emit(domain.ProgressEvent{
		VideoID:  req.VideoID,
		Progress: 5,
		Phase:    domain.PhasePending,
		Message:  "Connecting...",
	})

	tempPath := filepath.Join(p.downloadDir, "tmp-"+uuid.New().String()+".mp3")
	defer os.Remove(tempPath)

	onProgress := func(percent int, message string) {
		phase := domain.PhaseDownloading
		if percent >= convertingThreshold {
			phase = domain.PhaseProcessing
		}
		stream.Emit(domain.ProgressEvent{
			VideoID:  req.VideoID,
			Progress: percent,
			Phase:    phase,
			Message:  message,
		})
	}

	if err := p.acquirer.Acquire(ctx, req.VideoID, tempPath, onProgress); err != nil {
		fail(err)
		return
	}
	if _, err := os.Stat(tempPath); err != nil {
		fail(fmt.Errorf("%w: %v", domain.ErrOutputMissing, err))
		return
	}

	stream.Emit(domain.ProgressEvent{
		VideoID:  req.VideoID,
		Progress: 90,
		Phase:    domain.PhaseProcessing,
		Message:  "Resolving metadata and tagging...",
	})

	result, err := p.finalizer.Finalize(ctx, ports.FinalizeRequest{
		TempPath:     tempPath,
		VideoID:      req.VideoID,
		RawTitle:     req.Title,
		ChannelTitle: req.ChannelTitle,
		Thumbnail:    req.Thumbnail,
		Known:        req.Known,
	})
	if err != nil {
		fail(err)
		return
	}

	meta := result.Meta
	stream.Emit(domain.ProgressEvent{
		VideoID:  req.VideoID,
		Progress: 100,
		Phase:    domain.PhaseComplete,
		Message:  "Download complete",
		FinalURL: "/api/files/" + filepath.Base(result.FinalPath),
		Song:     &meta,
	})
}

// convertingThreshold separates downloading-band percentages from the
// fixed converting marker.
const convertingThreshold = 85
