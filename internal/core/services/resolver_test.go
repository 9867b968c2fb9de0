package services

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/KenCooper2022/youtube-audio-downloader/internal/core/domain"
)

type fakeSearch struct {
	calls   int
	queries []string
	out     []domain.SearchCandidate
	err     error
}

func (f *fakeSearch) Search(ctx context.Context, query string, mode domain.SearchMode, limit int) ([]domain.SearchCandidate, error) {
	f.calls++
	f.queries = append(f.queries, query)
	return f.out, f.err
}

type memCache struct {
	entries map[string]domain.CacheEntry
	puts    int
	deletes int
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string]domain.CacheEntry)}
}

func (m *memCache) Get(ctx context.Context, key string) (domain.CacheEntry, error) {
	entry, ok := m.entries[key]
	if !ok {
		return domain.CacheEntry{}, domain.ErrNotFound
	}
	return entry, nil
}

func (m *memCache) Put(ctx context.Context, entry domain.CacheEntry) error {
	m.puts++
	m.entries[entry.Key] = entry
	return nil
}

func (m *memCache) Delete(ctx context.Context, key string) error {
	m.deletes++
	delete(m.entries, key)
	return nil
}

func TestCacheKey(t *testing.T) {
	base := CacheKey("Imagine Dragons", "Believer")

	if !regexp.MustCompile(`^[0-9a-f]{16}$`).MatchString(base) {
		t.Fatalf("key %q is not 16 hex chars", base)
	}
	if got := CacheKey("  imagine dragons ", "BELIEVER "); got != base {
		t.Fatalf("key is not case/whitespace insensitive: %q vs %q", got, base)
	}
	if got := CacheKey("Imagine Dragons", "Thunder"); got == base {
		t.Fatal("distinct tracks must not collide")
	}
}

func TestResolve_CacheHitSkipsSearch(t *testing.T) {
	search := &fakeSearch{}
	cache := newMemCache()
	key := CacheKey("Imagine Dragons", "Believer")
	cache.entries[key] = domain.CacheEntry{Key: key, VideoID: "cached1", Title: "Believer", Thumbnail: "https://i/t.jpg"}

	r := NewResolver(search, cache)
	got, err := r.Resolve(context.Background(), "Imagine Dragons", "Believer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.VideoID != "cached1" {
		t.Fatalf("got %+v, want cached video", got)
	}
	if search.calls != 0 {
		t.Fatalf("search calls = %d, want 0", search.calls)
	}
}

func TestResolve_MissQueriesAndCaches(t *testing.T) {
	search := &fakeSearch{out: []domain.SearchCandidate{
		{VideoID: "v1", Title: "Imagine Dragons - Believer (Official)", Thumbnail: "https://i/v1.jpg"},
	}}
	cache := newMemCache()

	r := NewResolver(search, cache)
	got, err := r.Resolve(context.Background(), "Imagine Dragons", "Believer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.VideoID != "v1" {
		t.Fatalf("got %+v", got)
	}
	if search.queries[0] != "Imagine Dragons Believer" {
		t.Fatalf("query = %q", search.queries[0])
	}
	if cache.puts != 1 {
		t.Fatalf("puts = %d, want 1", cache.puts)
	}

	// second call is served from the memo
	if _, err := r.Resolve(context.Background(), "Imagine Dragons", "Believer"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if search.calls != 1 {
		t.Fatalf("search calls = %d, want 1", search.calls)
	}
}

func TestResolve_NoCandidateNeverCached(t *testing.T) {
	search := &fakeSearch{}
	cache := newMemCache()

	r := NewResolver(search, cache)
	for i := 0; i < 2; i++ {
		got, err := r.Resolve(context.Background(), "Nobody", "Nothing")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != nil {
			t.Fatalf("got %+v, want nil", got)
		}
	}
	// a miss is retried upstream every time
	if search.calls != 2 {
		t.Fatalf("search calls = %d, want 2", search.calls)
	}
	if cache.puts != 0 {
		t.Fatalf("puts = %d, want 0", cache.puts)
	}
}

func TestResolve_PrefersTitleContainingTrack(t *testing.T) {
	search := &fakeSearch{out: []domain.SearchCandidate{
		{VideoID: "v1", Title: "Imagine Dragons Greatest Hits Mix"},
		{VideoID: "v2", Title: "Imagine Dragons - Believer (Lyrics)"},
	}}

	r := NewResolver(search, newMemCache())
	got, err := r.Resolve(context.Background(), "Imagine Dragons", "Believer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.VideoID != "v2" {
		t.Fatalf("got %q, want the title-matching candidate", got.VideoID)
	}
}

func TestResolve_StaleRowHealed(t *testing.T) {
	search := &fakeSearch{out: []domain.SearchCandidate{{VideoID: "fresh", Title: "Believer"}}}
	cache := newMemCache()
	key := CacheKey("Imagine Dragons", "Believer")
	cache.entries[key] = domain.CacheEntry{Key: key} // empty video id

	r := NewResolver(search, cache)
	got, err := r.Resolve(context.Background(), "Imagine Dragons", "Believer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.VideoID != "fresh" {
		t.Fatalf("got %+v, want re-resolved video", got)
	}
	if cache.deletes != 1 {
		t.Fatalf("deletes = %d, want 1", cache.deletes)
	}
	if cache.entries[key].VideoID != "fresh" {
		t.Fatalf("cache not repopulated: %+v", cache.entries[key])
	}
}

func TestResolve_SearchError(t *testing.T) {
	search := &fakeSearch{err: errors.New("both paths down")}
	r := NewResolver(search, newMemCache())

	if _, err := r.Resolve(context.Background(), "a", "b"); err == nil {
		t.Fatal("expected error when search fails")
	}
}
