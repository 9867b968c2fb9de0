package tagging

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
)

// maxArtBytes bounds a cover download; catalog art is a few hundred KB.
const maxArtBytes = 10 << 20

// fetchCoverArt tries the preferred URL, then the fallback. A nil result
// with empty mime means "tag without an embedded image": art failure is a
// soft degradation, never an error.
func (s *Service) fetchCoverArt(ctx context.Context, coverURL, fallbackURL string) (data []byte, mime string) {
	for _, candidate := range []string{coverURL, fallbackURL} {
		if candidate == "" {
			continue
		}
		body, err := s.fetchImage(ctx, candidate)
		if err != nil {
			log.Printf("WARN tagging: cover art fetch failed for %s: %v", candidate, err)
			continue
		}
		return body, http.DetectContentType(body)
	}
	return nil, ""
}

func (s *Service) fetchImage(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxArtBytes))
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("empty body")
	}
	return body, nil
}
