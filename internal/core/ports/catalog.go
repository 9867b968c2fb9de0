package ports

import (
	"context"

	"github.com/KenCooper2022/youtube-audio-downloader/internal/core/domain"
)

// CatalogProvider resolves canonical track metadata and album listings from
// the public music catalog. A failed lookup is a graceful Found=false match,
// not an error, unless the transport itself failed.
type CatalogProvider interface {
	ResolveTrackMetadata(ctx context.Context, artist, rawTitle string) (domain.CatalogMatch, error)
	SearchAlbums(ctx context.Context, query string) ([]domain.AlbumSummary, error)
	GetAlbumTracks(ctx context.Context, collectionID int64) ([]domain.TrackSummary, error)
}
