// Package youtube implements the primary video search path against the
// YouTube Data API v3, with a subprocess-backed fallback wired in by the
// Searcher composite.
package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/KenCooper2022/youtube-audio-downloader/internal/core/domain"
)

const defaultBaseURL = "https://www.googleapis.com/youtube/v3"

// Client is an HTTP client for the YouTube Data API search endpoint.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	maxRetries  int
	baseBackoff time.Duration
}

// NewClient constructs a YouTube search client. An empty apiKey produces a
// client whose Search always fails with ErrNoCredential so callers fall
// through to their fallback path.
func NewClient(httpClient *http.Client, baseURL, apiKey string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	maxRetries, baseBackoff := getRetryConfig()
	return &Client{
		httpClient:  httpClient,
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      apiKey,
		maxRetries:  maxRetries,
		baseBackoff: baseBackoff,
	}
}

// Configured reports whether a credential is available for the primary path.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Search queries the Data API for up to limit video candidates. Candidates
// with no resolvable video id are dropped.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]domain.SearchCandidate, error) {
	if c.apiKey == "" {
		return nil, ErrNoCredential
	}
	if limit <= 0 {
		limit = 20
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("type", "video")
	params.Set("q", query)
	params.Set("maxResults", strconv.Itoa(limit))
	params.Set("key", c.apiKey)

	endpoint := c.baseURL + "/search?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("youtube adapter: %w", err)
	}

	resp, err := c.doRequestWithRetry(req)
	if err != nil {
		return nil, fmt.Errorf("youtube adapter: %w", err)
	}
	defer resp.Body.Close()

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("youtube adapter: %w", err)
	}
	if resp.StatusCode != http.StatusOK || body.Error != nil {
		return nil, upstreamError(resp.StatusCode, body.Error)
	}

	candidates := make([]domain.SearchCandidate, 0, len(body.Items))
	for _, item := range body.Items {
		if item.ID.VideoID == "" {
			continue
		}
		candidates = append(candidates, domain.SearchCandidate{
			VideoID:      item.ID.VideoID,
			Title:        item.Snippet.Title,
			ChannelTitle: item.Snippet.ChannelTitle,
			PublishedAt:  item.Snippet.PublishedAt,
			Thumbnail:    item.Snippet.Thumbnails.bestURL(),
			Description:  item.Snippet.Description,
		})
	}
	return candidates, nil
}

func upstreamError(status int, apiErr *apiError) error {
	if apiErr != nil {
		return fmt.Errorf("youtube adapter: api error %d: %s", apiErr.Code, apiErr.Message)
	}
	return fmt.Errorf("youtube adapter: status %d", status)
}
