package itunes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/KenCooper2022/youtube-audio-downloader/internal/core/domain"
)

func TestSearchAlbums_MergesAndDeduplicates(t *testing.T) {
	var lookups int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var resp searchResponse
		switch {
		case r.URL.Path == "/search" && r.URL.Query().Get("entity") == "album":
			resp.Results = []result{
				{WrapperType: "collection", CollectionID: 100, CollectionName: "Evolve", ArtistName: "Imagine Dragons"},
				{WrapperType: "collection", CollectionID: 101, CollectionName: "Night Visions", ArtistName: "Imagine Dragons"},
			}
		case r.URL.Path == "/search" && r.URL.Query().Get("entity") == "song":
			resp.Results = []result{
				// same album surfaced through a song hit: must not duplicate
				{WrapperType: "track", CollectionID: 100, CollectionName: "Evolve", ArtistName: "Imagine Dragons"},
				{WrapperType: "track", CollectionID: 102, CollectionName: "Origins", ArtistName: "Imagine Dragons"},
			}
		case r.URL.Path == "/search" && r.URL.Query().Get("entity") == "musicArtist":
			resp.Results = []result{
				{WrapperType: "artist", ArtistID: 7},
				{WrapperType: "artist", ArtistID: 0}, // skipped, no id
				{WrapperType: "artist", ArtistID: 8},
				{WrapperType: "artist", ArtistID: 9}, // beyond the discography budget
			}
		case r.URL.Path == "/lookup":
			lookups++
			resp.Results = []result{
				{WrapperType: "artist", ArtistID: 7, CollectionID: 999, CollectionName: "must be skipped"},
				{WrapperType: "collection", CollectionID: 103, CollectionName: "Smoke + Mirrors", ArtistName: "Imagine Dragons"},
				{WrapperType: "collection", CollectionID: 0, CollectionName: "no id"},
			}
		default:
			t.Errorf("unexpected request: %s", r.URL)
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			t.Errorf("encode response: %v", err)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), srv.URL)
	albums, err := client.SearchAlbums(context.Background(), "evolve")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if lookups != discographyArtists {
		t.Fatalf("discography lookups = %d, want %d", lookups, discographyArtists)
	}

	ids := make(map[int64]int)
	for _, a := range albums {
		ids[a.CollectionID]++
	}
	for id, n := range ids {
		if n > 1 {
			t.Fatalf("collection %d appears %d times", id, n)
		}
	}
	if _, ok := ids[999]; ok {
		t.Fatal("artist lookup header record leaked into results")
	}
	if _, ok := ids[0]; ok {
		t.Fatal("id-less collection leaked into results")
	}
	if len(albums) != 4 {
		t.Fatalf("got %d albums, want 4", len(albums))
	}
	if albums[0].Name != "Evolve" {
		t.Fatalf("query-word match should rank first, got %q", albums[0].Name)
	}
}

func TestRankAlbums(t *testing.T) {
	albums := []domain.AlbumSummary{
		{CollectionID: 1, Name: "Random Record"},
		{CollectionID: 2, Name: "The Greatest Hits"},
		{CollectionID: 3, Name: "Greatest Songs"},
		{CollectionID: 4, Name: "Quiet Storm"},
	}

	rankAlbums(albums, "the greatest")

	// "The Greatest Hits" matches both words (filler "the" weighs 1,
	// "greatest" weighs 3); "Greatest Songs" matches only "greatest".
	if albums[0].CollectionID != 2 || albums[1].CollectionID != 3 {
		t.Fatalf("unexpected order: %+v", albums)
	}
	// stable sort keeps catalog order for the zero-weight tail
	if albums[2].CollectionID != 1 || albums[3].CollectionID != 4 {
		t.Fatalf("tie order not preserved: %+v", albums)
	}
}
