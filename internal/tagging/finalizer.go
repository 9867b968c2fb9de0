package tagging

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"

	id3v2 "github.com/bogem/id3v2/v2"

	"github.com/KenCooper2022/youtube-audio-downloader/internal/core/domain"
	"github.com/KenCooper2022/youtube-audio-downloader/internal/core/ports"
)

// Service implements ports.Finalizer on top of ID3v2 tags.
type Service struct {
	catalog     ports.CatalogProvider
	httpClient  *http.Client
	downloadDir string
}

var _ ports.Finalizer = (*Service)(nil)

// NewService constructs the finalizer. httpClient is used for cover art
// fetches.
func NewService(catalog ports.CatalogProvider, httpClient *http.Client, downloadDir string) *Service {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Service{
		catalog:     catalog,
		httpClient:  httpClient,
		downloadDir: downloadDir,
	}
}

// Finalize merges metadata, embeds tags and art, and renames the temp file
// to its final collision-safe name. Catalog and art failures degrade to
// heuristic metadata; only filesystem errors fail the request.
func (s *Service) Finalize(ctx context.Context, req ports.FinalizeRequest) (ports.FinalizeResult, error) {
	meta := s.resolveMetadata(ctx, req)

	if err := s.embed(ctx, req.TempPath, meta); err != nil {
		return ports.FinalizeResult{}, fmt.Errorf("tagging: %w", err)
	}

	stem := buildStem(meta.Artist, meta.Title, req.RawTitle, req.VideoID)
	finalPath := resolveCollision(s.downloadDir, stem, ".mp3")
	if err := os.Rename(req.TempPath, finalPath); err != nil {
		return ports.FinalizeResult{}, fmt.Errorf("tagging: rename: %w", err)
	}

	return ports.FinalizeResult{FinalPath: finalPath, Meta: meta}, nil
}

// Retag rewrites tags on an existing file in place, without renaming.
func (s *Service) Retag(ctx context.Context, req ports.FinalizeRequest) (domain.FinalMetadata, error) {
	meta := s.resolveMetadata(ctx, req)
	if err := s.embed(ctx, req.TempPath, meta); err != nil {
		return domain.FinalMetadata{}, fmt.Errorf("tagging: %w", err)
	}
	return meta, nil
}

func (s *Service) resolveMetadata(ctx context.Context, req ports.FinalizeRequest) domain.FinalMetadata {
	var match *domain.CatalogMatch
	if req.Known == nil {
		artistGuess, _ := ParseTitle(req.RawTitle)
		resolved, err := s.catalog.ResolveTrackMetadata(ctx, artistGuess, req.RawTitle)
		if err != nil {
			log.Printf("WARN tagging: catalog lookup failed, using heuristics: %v", err)
		} else {
			match = &resolved
		}
	}

	meta := Merge(req.RawTitle, req.ChannelTitle, match, req.Known)
	meta.FallbackArtURL = req.Thumbnail
	if meta.FallbackArtURL == "" && req.VideoID != "" {
		meta.FallbackArtURL = "https://i.ytimg.com/vi/" + req.VideoID + "/maxresdefault.jpg"
	}
	return meta
}

func (s *Service) embed(ctx context.Context, path string, meta domain.FinalMetadata) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("open tag: %w", err)
	}
	defer tag.Close()

	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	if meta.Title != "" {
		tag.SetTitle(meta.Title)
	}
	if meta.Artist != "" {
		tag.SetArtist(meta.Artist)
	}
	if meta.Album != "" {
		tag.SetAlbum(meta.Album)
	}
	if meta.Genre != "" {
		tag.SetGenre(meta.Genre)
	}
	if meta.Year != "" {
		tag.SetYear(meta.Year)
	}
	if meta.TrackNumber > 0 {
		tag.AddTextFrame(tag.CommonID("Track number/Position in set"), tag.DefaultEncoding(), strconv.Itoa(meta.TrackNumber))
	}

	if art, mime := s.fetchCoverArt(ctx, meta.CoverArtURL, meta.FallbackArtURL); art != nil {
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    mime,
			PictureType: id3v2.PTFrontCover,
			Description: "Front cover",
			Picture:     art,
		})
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("save tag: %w", err)
	}
	return nil
}
