// Package rest exposes the HTTP interface: search, the download event
// stream, file serving, catalog pass-throughs, and the song library.
package rest

import (
	"net/http"

	"golang.org/x/time/rate"

	"github.com/KenCooper2022/youtube-audio-downloader/internal/core/ports"
	"github.com/KenCooper2022/youtube-audio-downloader/internal/core/services"
	"github.com/KenCooper2022/youtube-audio-downloader/internal/worker"
)

// Handler manages the HTTP interface for the application.
type Handler struct {
	search      ports.SearchProvider
	catalog     ports.CatalogProvider
	resolver    *services.Resolver
	pipeline    *services.Pipeline
	library     *services.Library
	retagPool   *worker.Pool
	downloadDir string
	httpClient  *http.Client
	router      *http.ServeMux
}

// Config carries the handler's collaborators.
type Config struct {
	Search      ports.SearchProvider
	Catalog     ports.CatalogProvider
	Resolver    *services.Resolver
	Pipeline    *services.Pipeline
	Library     *services.Library
	RetagPool   *worker.Pool
	DownloadDir string
	HTTPClient  *http.Client
	RateLimit   rate.Limit
	Burst       int
}

// NewHandler initializes the HTTP adapter and sets up routes.
func NewHandler(cfg Config) http.Handler {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	h := &Handler{
		search:      cfg.Search,
		catalog:     cfg.Catalog,
		resolver:    cfg.Resolver,
		pipeline:    cfg.Pipeline,
		library:     cfg.Library,
		retagPool:   cfg.RetagPool,
		downloadDir: cfg.DownloadDir,
		httpClient:  cfg.HTTPClient,
		router:      http.NewServeMux(),
	}
	h.routes()

	limit := cfg.RateLimit
	if limit == 0 {
		limit = 100
	}
	burst := cfg.Burst
	if burst == 0 {
		burst = 200
	}
	return cors(rateLimit(rate.NewLimiter(limit, burst), h))
}

// ServeHTTP satisfies the http.Handler interface.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) routes() {
	h.router.HandleFunc("GET /health", h.HealthCheck)

	h.router.HandleFunc("GET /api/search", h.Search)
	h.router.HandleFunc("POST /api/download", h.Download)
	h.router.HandleFunc("GET /api/files/{filename}", h.ServeFile)
	h.router.HandleFunc("GET /api/download-image", h.DownloadImage)

	h.router.HandleFunc("GET /api/album-art", h.AlbumArt)
	h.router.HandleFunc("GET /api/song-metadata", h.SongMetadata)
	h.router.HandleFunc("GET /api/albums/search", h.SearchAlbums)
	h.router.HandleFunc("GET /api/albums/{collectionId}", h.AlbumTracks)

	h.router.HandleFunc("GET /api/songs", h.ListSongs)
	h.router.HandleFunc("POST /api/songs", h.SaveSong)
	h.router.HandleFunc("GET /api/songs/{id}", h.GetSong)
	h.router.HandleFunc("DELETE /api/songs/{id}", h.DeleteSong)
	h.router.HandleFunc("POST /api/songs/{id}/retag", h.RetagSong)
	h.router.HandleFunc("POST /api/library/clear", h.ClearLibrary)
	h.router.HandleFunc("POST /api/library/retag-all", h.RetagAll)
}

// HealthCheck is a simple endpoint to verify the API is running.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
