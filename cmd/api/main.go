package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KenCooper2022/youtube-audio-downloader/internal/adapters/itunes"
	"github.com/KenCooper2022/youtube-audio-downloader/internal/adapters/rediscache"
	"github.com/KenCooper2022/youtube-audio-downloader/internal/adapters/rest"
	"github.com/KenCooper2022/youtube-audio-downloader/internal/adapters/sqlite"
	"github.com/KenCooper2022/youtube-audio-downloader/internal/adapters/youtube"
	"github.com/KenCooper2022/youtube-audio-downloader/internal/adapters/ytdlp"
	"github.com/KenCooper2022/youtube-audio-downloader/internal/core/ports"
	"github.com/KenCooper2022/youtube-audio-downloader/internal/core/services"
	"github.com/KenCooper2022/youtube-audio-downloader/internal/tagging"
	"github.com/KenCooper2022/youtube-audio-downloader/internal/worker"
)

func main() {
	// 1. Configuration (environment variables). The extraction binary and a
	// writable download directory are required; the search API key is not:
	// without it the subprocess fallback carries all searches.
	ytdlpPath := os.Getenv("YTDLP_PATH")
	if ytdlpPath == "" {
		log.Fatal("FATAL: YTDLP_PATH environment variable is required")
	}
	downloadDir := getenv("DOWNLOAD_DIR", "downloads")
	dbPath := getenv("DB_PATH", "library.db")
	apiKey := os.Getenv("YOUTUBE_API_KEY")
	if apiKey == "" {
		log.Println("WARN: YOUTUBE_API_KEY not set; search will use the yt-dlp fallback only")
	}

	if err := os.MkdirAll(downloadDir, 0o755); err != nil {
		log.Fatalf("FATAL: failed to create download directory: %v", err)
	}

	// 2. Driven adapters.
	db, err := sqlite.NewAdapter(dbPath)
	if err != nil {
		log.Fatalf("FATAL: failed to initialize database: %v", err)
	}
	defer db.Close()

	var trackCache ports.TrackCache = db.TrackCache()
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		redisCache, err := rediscache.New(context.Background(), addr)
		if err != nil {
			log.Printf("WARN: redis not available, using sqlite cache: %v", err)
		} else {
			defer redisCache.Close()
			trackCache = redisCache
		}
	}

	runner, err := ytdlp.NewRunner(ytdlpPath)
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}
	primary := youtube.NewClient(httpClient, "", apiKey)
	searcher := youtube.NewSearcher(primary, ytdlp.NewSearchFallback(runner))
	catalog := itunes.NewClient(httpClient, "")

	// 3. Core services.
	resolver := services.NewResolver(searcher, trackCache)
	finalizer := tagging.NewService(catalog, httpClient, downloadDir)
	pipeline := services.NewPipeline(ytdlp.NewEngine(runner), finalizer, downloadDir)
	library := services.NewLibrary(db, finalizer)

	retagPool := worker.NewPool(library, 100)
	retagPool.Start(2)
	defer retagPool.Stop()

	// 4. Driving adapter.
	handler := rest.NewHandler(rest.Config{
		Search:      searcher,
		Catalog:     catalog,
		Resolver:    resolver,
		Pipeline:    pipeline,
		Library:     library,
		RetagPool:   retagPool,
		DownloadDir: downloadDir,
		HTTPClient:  httpClient,
	})

	// 5. Start the server.
	port := getenv("PORT", "8080")
	log.Printf("API listening on http://localhost:%s", port)

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 15 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErr:
		if err != nil {
			log.Fatal(err)
		}
	case <-ctx.Done():
		log.Println("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown error: %v", err)
		}
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
