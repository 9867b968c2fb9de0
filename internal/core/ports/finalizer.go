package ports

import (
	"context"

	"github.com/KenCooper2022/youtube-audio-downloader/internal/core/domain"
)

// FinalizeRequest carries everything the tagging step needs to turn a raw
// temp file into a tagged, durably named track.
type FinalizeRequest struct {
	TempPath     string
	VideoID      string
	RawTitle     string
	ChannelTitle string
	Thumbnail    string
	Known        *domain.KnownMetadata
}

// FinalizeResult is the outcome of tagging and renaming.
type FinalizeResult struct {
	FinalPath string
	Meta      domain.FinalMetadata
}

// Finalizer merges metadata sources, embeds tags and cover art, and moves
// the file to its collision-safe final name. Metadata and art failures
// degrade gracefully; only filesystem errors are returned.
type Finalizer interface {
	Finalize(ctx context.Context, req FinalizeRequest) (FinalizeResult, error)
	// Retag re-resolves metadata for an already-downloaded file and rewrites
	// its tags in place, without re-acquiring audio or renaming.
	Retag(ctx context.Context, req FinalizeRequest) (domain.FinalMetadata, error)
}
