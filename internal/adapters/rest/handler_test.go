package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KenCooper2022/youtube-audio-downloader/internal/adapters/sqlite"
	"github.com/KenCooper2022/youtube-audio-downloader/internal/core/domain"
	"github.com/KenCooper2022/youtube-audio-downloader/internal/core/ports"
	"github.com/KenCooper2022/youtube-audio-downloader/internal/core/services"
	"github.com/KenCooper2022/youtube-audio-downloader/internal/worker"
)

type stubSearch struct {
	results map[string][]domain.SearchCandidate
	err     error
}

func (s *stubSearch) Search(ctx context.Context, query string, mode domain.SearchMode, limit int) ([]domain.SearchCandidate, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.results[query], nil
}

type stubCatalog struct {
	match  domain.CatalogMatch
	tracks []domain.TrackSummary
	albums []domain.AlbumSummary
	err    error
}

func (s *stubCatalog) ResolveTrackMetadata(ctx context.Context, artist, rawTitle string) (domain.CatalogMatch, error) {
	return s.match, s.err
}

func (s *stubCatalog) SearchAlbums(ctx context.Context, query string) ([]domain.AlbumSummary, error) {
	return s.albums, s.err
}

func (s *stubCatalog) GetAlbumTracks(ctx context.Context, collectionID int64) ([]domain.TrackSummary, error) {
	return s.tracks, s.err
}

// stubAcquirer writes a fake audio file and reports one mid-band progress
// tick.
type stubAcquirer struct {
	err error
}

func (s *stubAcquirer) Acquire(ctx context.Context, videoID, destPath string, onProgress ports.ProgressFunc) error {
	if s.err != nil {
		return s.err
	}
	onProgress(50, "Downloading audio...")
	return os.WriteFile(destPath, []byte("audio"), 0o644)
}

// stubFinalizer renames the temp file to a fixed stem, like the real one
// but without touching tags or the network.
type stubFinalizer struct {
	stem string
	meta domain.FinalMetadata
	err  error
}

func (s *stubFinalizer) Finalize(ctx context.Context, req ports.FinalizeRequest) (ports.FinalizeResult, error) {
	if s.err != nil {
		return ports.FinalizeResult{}, s.err
	}
	finalPath := filepath.Join(filepath.Dir(req.TempPath), s.stem+".mp3")
	if err := os.Rename(req.TempPath, finalPath); err != nil {
		return ports.FinalizeResult{}, err
	}
	return ports.FinalizeResult{FinalPath: finalPath, Meta: s.meta}, nil
}

func (s *stubFinalizer) Retag(ctx context.Context, req ports.FinalizeRequest) (domain.FinalMetadata, error) {
	return s.meta, s.err
}

type testEnv struct {
	handler http.Handler
	repo    *sqlite.Adapter
	dir     string
	pool    *worker.Pool
}

func newTestEnv(t *testing.T, search ports.SearchProvider, catalog ports.CatalogProvider, acquirer ports.Acquirer, finalizer ports.Finalizer) *testEnv {
	t.Helper()

	dir := t.TempDir()
	repo, err := sqlite.NewAdapter(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	resolver := services.NewResolver(search, repo.TrackCache())
	pipeline := services.NewPipeline(acquirer, finalizer, dir)
	library := services.NewLibrary(repo, finalizer)

	pool := worker.NewPool(library, 10)
	pool.Start(1)
	t.Cleanup(pool.Stop)

	handler := NewHandler(Config{
		Search:      search,
		Catalog:     catalog,
		Resolver:    resolver,
		Pipeline:    pipeline,
		Library:     library,
		RetagPool:   pool,
		DownloadDir: dir,
		RateLimit:   1000,
		Burst:       1000,
	})
	return &testEnv{handler: handler, repo: repo, dir: dir, pool: pool}
}

func defaultEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnv(t,
		&stubSearch{},
		&stubCatalog{},
		&stubAcquirer{},
		&stubFinalizer{stem: "Imagine_Dragons_-_Believer", meta: domain.FinalMetadata{Title: "Believer", Artist: "Imagine Dragons"}},
	)
}

func doJSON(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	env := defaultEnv(t)
	rec := doJSON(t, env.handler, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("cors header = %q", got)
	}
}

func TestSearchEndpoint(t *testing.T) {
	search := &stubSearch{results: map[string][]domain.SearchCandidate{
		"believer": {{VideoID: "abc123", Title: "Believer"}},
	}}
	env := newTestEnv(t, search, &stubCatalog{}, &stubAcquirer{}, &stubFinalizer{stem: "x"})

	rec := doJSON(t, env.handler, http.MethodGet, "/api/search?q=believer", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var resp searchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Results) != 1 || resp.Results[0].VideoID != "abc123" {
		t.Fatalf("results = %+v", resp.Results)
	}

	if rec := doJSON(t, env.handler, http.MethodGet, "/api/search", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("missing q status = %d", rec.Code)
	}
	if rec := doJSON(t, env.handler, http.MethodGet, "/api/search?q=x&type=bogus", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad type status = %d", rec.Code)
	}
}

func TestSearchEndpoint_UpstreamFailure(t *testing.T) {
	env := newTestEnv(t, &stubSearch{err: errors.New("all paths down")}, &stubCatalog{}, &stubAcquirer{}, &stubFinalizer{stem: "x"})
	rec := doJSON(t, env.handler, http.MethodGet, "/api/search?q=x", nil)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestDownload_StreamEndsComplete(t *testing.T) {
	env := defaultEnv(t)

	rec := doJSON(t, env.handler, http.MethodPost, "/api/download", map[string]string{
		"videoId": "abc123",
		"title":   "Imagine Dragons - Believer",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type = %q", ct)
	}

	events := parseSSE(t, rec.Body.String())
	if len(events) < 3 {
		t.Fatalf("got %d events, want at least pending/progress/complete: %+v", len(events), events)
	}
	final := events[len(events)-1]
	if final.Phase != domain.PhaseComplete || final.Progress != 100 {
		t.Fatalf("final event = %+v", final)
	}
	if final.FinalURL != "/api/files/Imagine_Dragons_-_Believer.mp3" {
		t.Fatalf("download url = %q", final.FinalURL)
	}
	if final.Song == nil || final.Song.Title != "Believer" {
		t.Fatalf("song = %+v", final.Song)
	}
	for _, e := range events[:len(events)-1] {
		if e.Phase.Terminal() {
			t.Fatalf("terminal event before the end: %+v", e)
		}
	}

	// the advertised URL serves the file
	fileRec := doJSON(t, env.handler, http.MethodGet, final.FinalURL, nil)
	if fileRec.Code != http.StatusOK {
		t.Fatalf("file status = %d", fileRec.Code)
	}
	if ct := fileRec.Header().Get("Content-Type"); ct != "audio/mpeg" {
		t.Fatalf("file content type = %q", ct)
	}
	if fileRec.Body.String() != "audio" {
		t.Fatalf("file body = %q", fileRec.Body.String())
	}
}

func TestDownload_MissingVideoID(t *testing.T) {
	env := defaultEnv(t)
	rec := doJSON(t, env.handler, http.MethodPost, "/api/download", map[string]string{"title": "x"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestDownload_AcquireFailureStreamsError(t *testing.T) {
	env := newTestEnv(t, &stubSearch{}, &stubCatalog{}, &stubAcquirer{err: domain.ErrAllProfilesFailed}, &stubFinalizer{stem: "x"})

	rec := doJSON(t, env.handler, http.MethodPost, "/api/download", map[string]string{"videoId": "abc123"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	events := parseSSE(t, rec.Body.String())
	final := events[len(events)-1]
	if final.Phase != domain.PhaseError || final.Progress != 0 {
		t.Fatalf("final event = %+v", final)
	}
}

func parseSSE(t *testing.T, body string) []domain.ProgressEvent {
	t.Helper()
	var events []domain.ProgressEvent
	for _, line := range strings.Split(body, "\n") {
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var event domain.ProgressEvent
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &event); err != nil {
			t.Fatalf("bad sse payload %q: %v", line, err)
		}
		events = append(events, event)
	}
	if len(events) == 0 {
		t.Fatalf("no sse events in body %q", body)
	}
	return events
}

func TestResolveDownloadPath_RejectsEscapes(t *testing.T) {
	h := &Handler{downloadDir: t.TempDir()}

	for _, name := range []string{"", ".", "..", "../secret.mp3", "sub/../../secret.mp3", "/etc/passwd"} {
		if _, ok := h.resolveDownloadPath(name); ok {
			t.Errorf("resolveDownloadPath(%q) accepted an escaping path", name)
		}
	}
	if _, ok := h.resolveDownloadPath("song.mp3"); !ok {
		t.Error("plain filename rejected")
	}
}

func TestServeFile_TraversalRequestNeverServes(t *testing.T) {
	env := defaultEnv(t)
	secret := filepath.Join(filepath.Dir(env.dir), "secret.txt")
	if err := os.WriteFile(secret, []byte("secret"), 0o644); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/files/..%2Fsecret.txt", nil)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	if rec.Code == http.StatusOK && rec.Body.String() == "secret" {
		t.Fatal("path traversal leaked a file outside the download dir")
	}
}

func TestSongsCRUD(t *testing.T) {
	env := defaultEnv(t)

	// invalid: no file path
	rec := doJSON(t, env.handler, http.MethodPost, "/api/songs", domain.Song{VideoID: "abc123", Title: "Believer"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid save status = %d", rec.Code)
	}

	rec = doJSON(t, env.handler, http.MethodPost, "/api/songs", domain.Song{
		VideoID: "abc123", Title: "Believer", Artist: "Imagine Dragons",
		FilePath: filepath.Join(env.dir, "believer.mp3"),
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("save status = %d, body %s", rec.Code, rec.Body)
	}
	var saved domain.Song
	if err := json.Unmarshal(rec.Body.Bytes(), &saved); err != nil {
		t.Fatal(err)
	}
	if saved.ID == "" {
		t.Fatal("saved song has no id")
	}

	rec = doJSON(t, env.handler, http.MethodGet, "/api/songs", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var listed []domain.Song
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatal(err)
	}
	if len(listed) != 1 {
		t.Fatalf("listed %d songs, want 1", len(listed))
	}

	rec = doJSON(t, env.handler, http.MethodGet, "/api/songs/"+saved.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}

	rec = doJSON(t, env.handler, http.MethodDelete, "/api/songs/"+saved.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, body %s", rec.Code, rec.Body)
	}
	rec = doJSON(t, env.handler, http.MethodGet, "/api/songs/"+saved.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d", rec.Code)
	}
}

func TestAlbumTracks_Availability(t *testing.T) {
	search := &stubSearch{results: map[string][]domain.SearchCandidate{
		"Imagine Dragons Believer": {{VideoID: "abc123", Title: "Imagine Dragons - Believer", Thumbnail: "https://i/t.jpg"}},
	}}
	catalog := &stubCatalog{tracks: []domain.TrackSummary{
		{TrackID: 1, Name: "Believer", ArtistName: "Imagine Dragons", TrackNumber: 1},
		{TrackID: 2, Name: "Unreleased Demo", ArtistName: "Imagine Dragons", TrackNumber: 2},
	}}
	env := newTestEnv(t, search, catalog, &stubAcquirer{}, &stubFinalizer{stem: "x"})

	rec := doJSON(t, env.handler, http.MethodGet, "/api/albums/1440839259", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var resp albumTracksResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Tracks) != 2 {
		t.Fatalf("got %d tracks", len(resp.Tracks))
	}
	if !resp.Tracks[0].Available || resp.Tracks[0].YoutubeVideoID != "abc123" {
		t.Fatalf("resolvable track = %+v", resp.Tracks[0])
	}
	if resp.Tracks[1].Available || resp.Tracks[1].YoutubeVideoID != "" {
		t.Fatalf("unresolvable track = %+v", resp.Tracks[1])
	}
}

func TestAlbumArt_DegradesOnCatalogFailure(t *testing.T) {
	env := newTestEnv(t, &stubSearch{}, &stubCatalog{err: errors.New("catalog down")}, &stubAcquirer{}, &stubFinalizer{stem: "x"})

	rec := doJSON(t, env.handler, http.MethodGet, "/api/album-art?artist=a&song=b", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if found, _ := resp["found"].(bool); found {
		t.Fatalf("found = %v, want graceful false", resp["found"])
	}
}

func TestRetagAll_Enqueues(t *testing.T) {
	env := defaultEnv(t)

	path := filepath.Join(env.dir, "believer.mp3")
	if err := os.WriteFile(path, []byte("audio"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := env.repo.Save(context.Background(), domain.Song{
		VideoID: "abc123", Title: "Believer", FilePath: path,
	}); err != nil {
		t.Fatal(err)
	}

	rec := doJSON(t, env.handler, http.MethodPost, "/api/library/retag-all", nil)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var resp map[string]int
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["queued"] != 1 {
		t.Fatalf("queued = %d, want 1", resp["queued"])
	}
}

func TestRateLimit(t *testing.T) {
	env := newTestEnv(t, &stubSearch{}, &stubCatalog{}, &stubAcquirer{}, &stubFinalizer{stem: "x"})

	// the default env has a high limit; build a tight one here
	handler := NewHandler(Config{
		Search:      &stubSearch{},
		Catalog:     &stubCatalog{},
		Resolver:    services.NewResolver(&stubSearch{}, env.repo.TrackCache()),
		Pipeline:    services.NewPipeline(&stubAcquirer{}, &stubFinalizer{stem: "x"}, t.TempDir()),
		Library:     services.NewLibrary(env.repo, &stubFinalizer{stem: "x"}),
		RetagPool:   env.pool,
		DownloadDir: t.TempDir(),
		RateLimit:   1,
		Burst:       1,
	})

	if rec := doJSON(t, handler, http.MethodGet, "/health", nil); rec.Code != http.StatusOK {
		t.Fatalf("first request status = %d", rec.Code)
	}
	if rec := doJSON(t, handler, http.MethodGet, "/health", nil); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", rec.Code)
	}
}
