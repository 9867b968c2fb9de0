package youtube

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/KenCooper2022/youtube-audio-downloader/internal/core/domain"
)

type fakeFallback struct {
	calls   int
	queries []string
	out     []domain.SearchCandidate
}

func (f *fakeFallback) Search(ctx context.Context, query string, limit int) []domain.SearchCandidate {
	f.calls++
	f.queries = append(f.queries, query)
	return f.out
}

func TestSearcher_NoCredentialUsesFallback(t *testing.T) {
	fallback := &fakeFallback{out: []domain.SearchCandidate{{VideoID: "fb1"}}}
	searcher := NewSearcher(NewClient(nil, "", ""), fallback)

	got, err := searcher.Search(context.Background(), "believer", domain.SearchModeAudio, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fallback.calls != 1 {
		t.Fatalf("fallback calls = %d, want 1", fallback.calls)
	}
	if fallback.queries[0] != "believer official audio" {
		t.Fatalf("fallback query = %q, want mode suffix applied", fallback.queries[0])
	}
	if len(got) != 1 || got[0].VideoID != "fb1" {
		t.Fatalf("got %+v, want fallback candidates", got)
	}
}

func TestSearcher_PrimaryFailureHandsOffOnce(t *testing.T) {
	var primaryCalls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		primaryCalls++
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(searchResponse{Error: &apiError{Code: 403, Message: "quotaExceeded"}})
	}))
	defer srv.Close()

	fallback := &fakeFallback{out: []domain.SearchCandidate{{VideoID: "fb1"}}}
	searcher := NewSearcher(newTestClient(srv, "test-key"), fallback)

	got, err := searcher.Search(context.Background(), "believer", domain.SearchModeLyric, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if primaryCalls != 1 {
		t.Fatalf("primary calls = %d, want 1", primaryCalls)
	}
	if fallback.calls != 1 {
		t.Fatalf("fallback calls = %d, want 1", fallback.calls)
	}
	if fallback.queries[0] != "believer lyric video" {
		t.Fatalf("fallback query = %q, want the augmented query", fallback.queries[0])
	}
	if len(got) != 1 || got[0].VideoID != "fb1" {
		t.Fatalf("got %+v, want fallback candidates", got)
	}
}

func TestSearcher_PrimarySuccessSkipsFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "believer audio OR lyric video" {
			t.Errorf("q = %q, want mode suffix applied", got)
		}
		_ = json.NewEncoder(w).Encode(searchResponse{Items: []searchItem{
			{ID: itemID{VideoID: "primary1"}},
		}})
	}))
	defer srv.Close()

	fallback := &fakeFallback{}
	searcher := NewSearcher(newTestClient(srv, "test-key"), fallback)

	got, err := searcher.Search(context.Background(), "believer", domain.SearchModeBoth, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fallback.calls != 0 {
		t.Fatalf("fallback calls = %d, want 0", fallback.calls)
	}
	if len(got) != 1 || got[0].VideoID != "primary1" {
		t.Fatalf("got %+v", got)
	}
}
