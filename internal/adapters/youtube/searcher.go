package youtube

import (
	"context"
	"log"

	"github.com/KenCooper2022/youtube-audio-downloader/internal/core/domain"
	"github.com/KenCooper2022/youtube-audio-downloader/internal/core/ports"
)

// FallbackSearcher is the subprocess-backed search path used when the Data
// API is unavailable. It is best-effort and never errors: a timeout returns
// whatever candidates were parsed so far.
type FallbackSearcher interface {
	Search(ctx context.Context, query string, limit int) []domain.SearchCandidate
}

// Searcher is the full search adapter: primary Data API call with a single
// hand-off to the subprocess fallback on failure, quota denial, or missing
// credential. There are no retries beyond that hand-off and no caching.
type Searcher struct {
	primary  *Client
	fallback FallbackSearcher
}

var _ ports.SearchProvider = (*Searcher)(nil)

// NewSearcher composes the primary client and the fallback path.
func NewSearcher(primary *Client, fallback FallbackSearcher) *Searcher {
	return &Searcher{primary: primary, fallback: fallback}
}

// Search augments the query for the mode and returns up to limit candidates.
func (s *Searcher) Search(ctx context.Context, query string, mode domain.SearchMode, limit int) ([]domain.SearchCandidate, error) {
	if limit <= 0 {
		limit = 20
	}
	augmented := query + mode.QuerySuffix()

	if s.primary.Configured() {
		candidates, err := s.primary.Search(ctx, augmented, limit)
		if err == nil {
			return candidates, nil
		}
		log.Printf("WARN youtube adapter: primary search failed, using fallback: %v", err)
	}

	return s.fallback.Search(ctx, augmented, limit), nil
}
