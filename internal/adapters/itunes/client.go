// Package itunes resolves canonical track metadata and album listings from
// the iTunes Search API.
package itunes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/KenCooper2022/youtube-audio-downloader/internal/core/domain"
	"github.com/KenCooper2022/youtube-audio-downloader/internal/core/ports"
)

const (
	defaultBaseURL     = "https://itunes.apple.com"
	trackCandidateMax  = 15
	albumResultCap     = 30
	discographyArtists = 2
)

// Client is an HTTP client for the iTunes Search API. The API is
// unauthenticated.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

var _ ports.CatalogProvider = (*Client)(nil)

// NewClient constructs a catalog client.
func NewClient(httpClient *http.Client, baseURL string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// ResolveTrackMetadata finds the best-matching canonical track for a raw
// video title and optional artist hint. A below-threshold best candidate is
// a graceful Found=false match, not an error.
func (c *Client) ResolveTrackMetadata(ctx context.Context, artist, rawTitle string) (domain.CatalogMatch, error) {
	song := CleanTitle(rawTitle)
	if artist == "" {
		if guess, rest := SplitArtistTitle(song); guess != "" {
			artist, song = guess, rest
		}
	}

	term := strings.TrimSpace(artist + " " + song)
	results, err := c.search(ctx, url.Values{
		"term":   {term},
		"entity": {"song"},
		"limit":  {strconv.Itoa(trackCandidateMax)},
	})
	if err != nil {
		return domain.CatalogMatch{}, err
	}

	bestScore := 0.0
	bestIdx := -1
	for i, cand := range results {
		score := trackMatchScore(artist, song, cand)
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	if bestIdx < 0 || bestScore < minMatchScore {
		return domain.CatalogMatch{Found: false}, nil
	}

	best := results[bestIdx]
	return domain.CatalogMatch{
		Found:       true,
		TrackName:   best.TrackName,
		ArtistName:  best.ArtistName,
		AlbumName:   best.CollectionName,
		AlbumArtURL: upgradeArtwork(best.ArtworkURL100),
		ReleaseDate: best.ReleaseDate,
		Genre:       best.PrimaryGenreName,
		TrackNumber: best.TrackNumber,
		TrackCount:  best.TrackCount,
		DiscNumber:  best.DiscNumber,
		DiscCount:   best.DiscCount,
		DurationMs:  best.TrackTimeMillis,
		IsExplicit:  best.TrackExplicitness == "explicit",
		Collection:  best.CollectionType,
		PreviewURL:  best.PreviewURL,
	}, nil
}

// GetAlbumTracks returns the album's tracklist, filtered to track entries,
// preserving the catalog's order.
func (c *Client) GetAlbumTracks(ctx context.Context, collectionID int64) ([]domain.TrackSummary, error) {
	results, err := c.lookup(ctx, collectionID, "song")
	if err != nil {
		return nil, err
	}

	tracks := make([]domain.TrackSummary, 0, len(results))
	for _, r := range results {
		if r.WrapperType != "track" {
			continue
		}
		tracks = append(tracks, domain.TrackSummary{
			TrackID:     r.TrackID,
			Name:        r.TrackName,
			ArtistName:  r.ArtistName,
			AlbumName:   r.CollectionName,
			TrackNumber: r.TrackNumber,
			DurationMs:  r.TrackTimeMillis,
			PreviewURL:  r.PreviewURL,
			ArtworkURL:  upgradeArtwork(r.ArtworkURL100),
		})
	}
	return tracks, nil
}

func (c *Client) search(ctx context.Context, params url.Values) ([]result, error) {
	return c.get(ctx, c.baseURL+"/search?"+params.Encode())
}

func (c *Client) lookup(ctx context.Context, id int64, entity string) ([]result, error) {
	params := url.Values{
		"id":     {strconv.FormatInt(id, 10)},
		"entity": {entity},
	}
	return c.get(ctx, c.baseURL+"/lookup?"+params.Encode())
}

func (c *Client) get(ctx context.Context, endpoint string) ([]result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("itunes adapter: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("itunes adapter: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("itunes adapter: status %d", resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("itunes adapter: %w", err)
	}
	return body.Results, nil
}
