package ports

import (
	"context"

	"github.com/KenCooper2022/youtube-audio-downloader/internal/core/domain"
)

// TrackCache is the durable (artist, track) -> resolved video memo table
// behind a narrow get/put/delete interface. Get returns domain.ErrNotFound
// for absent keys. Put is an idempotent upsert: writing an existing key is
// success, not an error.
type TrackCache interface {
	Get(ctx context.Context, key string) (domain.CacheEntry, error)
	Put(ctx context.Context, entry domain.CacheEntry) error
	Delete(ctx context.Context, key string) error
}
