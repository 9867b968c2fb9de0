package ports

import (
	"context"

	"github.com/KenCooper2022/youtube-audio-downloader/internal/core/domain"
)

// SongRepository persists the downloaded-song library. Save upserts on
// VideoID; GetByID returns domain.ErrNotFound for unknown ids.
type SongRepository interface {
	List(ctx context.Context) ([]domain.Song, error)
	GetByID(ctx context.Context, id string) (domain.Song, error)
	Save(ctx context.Context, s domain.Song) (domain.Song, error)
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}
