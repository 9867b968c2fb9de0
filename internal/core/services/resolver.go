// Package services holds the core orchestration logic: video resolution
// with caching, the download pipeline, and library maintenance.
package services

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/KenCooper2022/youtube-audio-downloader/internal/core/domain"
	"github.com/KenCooper2022/youtube-audio-downloader/internal/core/ports"
)

// CacheKey derives the stable cache key for an (artist, track) pair. Key
// derivation is case- and whitespace-insensitive.
func CacheKey(artist, track string) string {
	normalized := strings.ToLower(strings.TrimSpace(artist)) + "|" + strings.ToLower(strings.TrimSpace(track))
	h := fnv.New64a()
	_, _ = h.Write([]byte(normalized))
	return fmt.Sprintf("%016x", h.Sum64())
}

// Resolver maps catalog tracks to playable videos, memoizing successful
// resolutions. Concurrent resolutions of the same key are collapsed into
// one upstream query.
type Resolver struct {
	search ports.SearchProvider
	cache  ports.TrackCache
	group  singleflight.Group
}

// NewResolver constructs a Resolver.
func NewResolver(search ports.SearchProvider, cache ports.TrackCache) *Resolver {
	return &Resolver{search: search, cache: cache}
}

// Resolve returns the video for (artist, track), or nil when no candidate
// exists. A nil result is never cached, so a later retry stays possible.
func (r *Resolver) Resolve(ctx context.Context, artist, track string) (*domain.ResolvedVideo, error) {
	key := CacheKey(artist, track)

	v, err, _ := r.group.Do(key, func() (any, error) {
		return r.resolve(ctx, key, artist, track)
	})
	if err != nil {
		return nil, err
	}
	resolved, _ := v.(*domain.ResolvedVideo)
	return resolved, nil
}

func (r *Resolver) resolve(ctx context.Context, key, artist, track string) (*domain.ResolvedVideo, error) {
	entry, err := r.cache.Get(ctx, key)
	switch {
	case err == nil && entry.VideoID != "":
		return &domain.ResolvedVideo{
			VideoID:   entry.VideoID,
			Title:     entry.Title,
			Thumbnail: entry.Thumbnail,
		}, nil
	case err == nil:
		// A row with an empty video id is stale; heal it and re-resolve.
		if delErr := r.cache.Delete(ctx, key); delErr != nil {
			log.Printf("WARN resolver: failed to delete stale cache row %s: %v", key, delErr)
		}
	case !errors.Is(err, domain.ErrNotFound):
		log.Printf("WARN resolver: cache read failed for %s: %v", key, err)
	}

	query := strings.TrimSpace(artist + " " + track)
	candidates, err := r.search.Search(ctx, query, "", 5)
	if err != nil {
		return nil, fmt.Errorf("resolver: %w", err)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	chosen := candidates[0]
	lowTrack := strings.ToLower(track)
	for _, cand := range candidates {
		if strings.Contains(strings.ToLower(cand.Title), lowTrack) {
			chosen = cand
			break
		}
	}

	if err := r.cache.Put(ctx, domain.CacheEntry{
		Key:        key,
		ArtistName: artist,
		TrackName:  track,
		VideoID:    chosen.VideoID,
		Title:      chosen.Title,
		Thumbnail:  chosen.Thumbnail,
	}); err != nil {
		log.Printf("WARN resolver: cache write failed for %s: %v", key, err)
	}

	return &domain.ResolvedVideo{
		VideoID:   chosen.VideoID,
		Title:     chosen.Title,
		Thumbnail: chosen.Thumbnail,
	}, nil
}
