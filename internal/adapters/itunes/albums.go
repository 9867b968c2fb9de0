package itunes

import (
	"context"
	"net/url"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/KenCooper2022/youtube-audio-downloader/internal/core/domain"
)

// Words too common in artist names to signal a meaningful album match.
var fillerWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "of": {}, "and": {}, "in": {}, "on": {},
	"band": {}, "music": {}, "dj": {}, "mc": {}, "la": {}, "el": {},
	"los": {}, "de": {}, "le": {},
}

// SearchAlbums merges three parallel catalog queries: a direct album
// search, a song search re-derived into the songs' albums, and an artist
// search whose discography is expanded. Results are deduplicated by
// collection id, ranked by query-word overlap, and capped to keep
// discography expansion bounded.
func (c *Client) SearchAlbums(ctx context.Context, query string) ([]domain.AlbumSummary, error) {
	var albumHits, songHits, artistAlbums []result

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		albumHits, err = c.search(gctx, url.Values{
			"term": {query}, "entity": {"album"}, "limit": {"25"},
		})
		return err
	})
	g.Go(func() error {
		var err error
		songHits, err = c.search(gctx, url.Values{
			"term": {query}, "entity": {"song"}, "limit": {"25"},
		})
		return err
	})
	g.Go(func() error {
		artists, err := c.search(gctx, url.Values{
			"term": {query}, "entity": {"musicArtist"}, "limit": {"5"},
		})
		if err != nil {
			return err
		}
		limit := discographyArtists
		for _, artist := range artists {
			if limit == 0 {
				break
			}
			if artist.ArtistID == 0 {
				continue
			}
			limit--
			albums, err := c.lookup(gctx, artist.ArtistID, "album")
			if err != nil {
				return err
			}
			artistAlbums = append(artistAlbums, albums...)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[int64]struct{})
	var merged []domain.AlbumSummary
	appendAlbum := func(r result) {
		if r.CollectionID == 0 || r.CollectionName == "" {
			return
		}
		// lookup responses lead with the artist record itself
		if r.WrapperType == "artist" {
			return
		}
		if _, dup := seen[r.CollectionID]; dup {
			return
		}
		seen[r.CollectionID] = struct{}{}
		merged = append(merged, domain.AlbumSummary{
			CollectionID: r.CollectionID,
			Name:         r.CollectionName,
			ArtistName:   r.ArtistName,
			ArtworkURL:   upgradeArtwork(r.ArtworkURL100),
			ReleaseDate:  r.ReleaseDate,
			Genre:        r.PrimaryGenreName,
			TrackCount:   r.TrackCount,
		})
	}

	for _, r := range albumHits {
		appendAlbum(r)
	}
	for _, r := range songHits {
		appendAlbum(r) // a song's collection fields describe its album
	}
	for _, r := range artistAlbums {
		appendAlbum(r)
	}

	rankAlbums(merged, query)
	if len(merged) > albumResultCap {
		merged = merged[:albumResultCap]
	}
	return merged, nil
}

// rankAlbums orders candidates whose name contains a query word above the
// rest; within a tier a matched word weighs 3 unless it is a filler word.
// The sort is stable so the catalog's order breaks ties.
func rankAlbums(albums []domain.AlbumSummary, query string) {
	weights := make(map[int64]int, len(albums))
	queryWords := strings.Fields(strings.ToLower(query))
	for _, album := range albums {
		name := strings.ToLower(album.Name)
		weight := 0
		for _, w := range queryWords {
			if !strings.Contains(name, w) {
				continue
			}
			if _, filler := fillerWords[w]; filler {
				weight++
			} else {
				weight += 3
			}
		}
		weights[album.CollectionID] = weight
	}

	sort.SliceStable(albums, func(i, j int) bool {
		return weights[albums[i].CollectionID] > weights[albums[j].CollectionID]
	})
}
