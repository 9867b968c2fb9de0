package ports

import (
	"context"

	"github.com/KenCooper2022/youtube-audio-downloader/internal/core/domain"
)

// SearchProvider finds candidate videos for a query. Implementations are
// expected to recover from primary-path failures internally (fallback
// search) and only error when every path is exhausted.
type SearchProvider interface {
	Search(ctx context.Context, query string, mode domain.SearchMode, limit int) ([]domain.SearchCandidate, error)
}
