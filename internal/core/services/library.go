package services

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/KenCooper2022/youtube-audio-downloader/internal/core/domain"
	"github.com/KenCooper2022/youtube-audio-downloader/internal/core/ports"
)

// Library maintains the persisted song collection: CRUD pass-throughs plus
// re-tagging of already-downloaded files.
type Library struct {
	repo      ports.SongRepository
	finalizer ports.Finalizer
}

// NewLibrary constructs a Library service.
func NewLibrary(repo ports.SongRepository, finalizer ports.Finalizer) *Library {
	return &Library{repo: repo, finalizer: finalizer}
}

func (l *Library) List(ctx context.Context) ([]domain.Song, error) {
	return l.repo.List(ctx)
}

func (l *Library) Get(ctx context.Context, id string) (domain.Song, error) {
	return l.repo.GetByID(ctx, id)
}

func (l *Library) Save(ctx context.Context, s domain.Song) (domain.Song, error) {
	if err := s.Validate(); err != nil {
		return domain.Song{}, err
	}
	return l.repo.Save(ctx, s)
}

func (l *Library) Delete(ctx context.Context, id string) error {
	song, err := l.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if song.FilePath != "" {
		if rmErr := os.Remove(song.FilePath); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			return fmt.Errorf("library: remove file: %w", rmErr)
		}
	}
	return l.repo.Delete(ctx, id)
}

// Clear drops every song record and its file.
func (l *Library) Clear(ctx context.Context) error {
	songs, err := l.repo.List(ctx)
	if err != nil {
		return err
	}
	for _, song := range songs {
		if song.FilePath == "" {
			continue
		}
		if rmErr := os.Remove(song.FilePath); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			return fmt.Errorf("library: remove file: %w", rmErr)
		}
	}
	return l.repo.Clear(ctx)
}

// Retag re-runs catalog resolution and tagging against the song's existing
// file, then persists the refreshed metadata. Audio is not re-acquired.
func (l *Library) Retag(ctx context.Context, id string) (domain.Song, error) {
	song, err := l.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Song{}, err
	}
	if _, err := os.Stat(song.FilePath); err != nil {
		return domain.Song{}, fmt.Errorf("library: %w: %v", domain.ErrNotFound, err)
	}

	meta, err := l.finalizer.Retag(ctx, ports.FinalizeRequest{
		TempPath:     song.FilePath,
		VideoID:      song.VideoID,
		RawTitle:     song.Title,
		ChannelTitle: song.Artist,
		Thumbnail:    song.Thumbnail,
	})
	if err != nil {
		return domain.Song{}, err
	}

	song.Title = meta.Title
	song.Artist = meta.Artist
	song.Album = meta.Album
	song.Genre = meta.Genre
	song.Year = meta.Year
	return l.repo.Save(ctx, song)
}

// RetagByID satisfies the background worker's Retagger interface.
func (l *Library) RetagByID(ctx context.Context, id string) error {
	_, err := l.Retag(ctx, id)
	return err
}
