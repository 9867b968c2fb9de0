// Package sqlite provides the SQLite-backed song repository and track
// resolution cache.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // driver

	"github.com/KenCooper2022/youtube-audio-downloader/internal/core/domain"
	"github.com/KenCooper2022/youtube-audio-downloader/internal/core/ports"
)

// Adapter implements the song repository over a SQLite database. The track
// cache lives in the same database; see TrackCache.
type Adapter struct {
	db *sql.DB
}

var _ ports.SongRepository = (*Adapter)(nil)

// NewAdapter opens the database and runs the schema migration.
func NewAdapter(storagePath string) (*Adapter, error) {
	db, err := sql.Open("sqlite3", storagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	adapter := &Adapter{db: db}
	if err := adapter.migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return adapter, nil
}

// Close ensures the DB connection is closed gracefully.
func (a *Adapter) Close() error {
	return a.db.Close()
}

func (a *Adapter) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS songs (
		id TEXT PRIMARY KEY,
		video_id TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL,
		artist TEXT,
		album TEXT,
		genre TEXT,
		year TEXT,
		thumbnail TEXT,
		file_path TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS track_cache (
		key TEXT PRIMARY KEY,
		artist_name TEXT NOT NULL,
		track_name TEXT NOT NULL,
		video_id TEXT,
		title TEXT,
		thumbnail TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := a.db.Exec(query)
	return err
}

// --- SongRepository ---

const songColumns = "id, video_id, title, artist, album, genre, year, thumbnail, file_path, created_at"

func (a *Adapter) List(ctx context.Context) ([]domain.Song, error) {
	rows, err := a.db.QueryContext(ctx, "SELECT "+songColumns+" FROM songs ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list songs: %w", err)
	}
	defer rows.Close()

	songs := []domain.Song{}
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, err
		}
		songs = append(songs, song)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate songs: %w", err)
	}
	return songs, nil
}

func (a *Adapter) GetByID(ctx context.Context, id string) (domain.Song, error) {
	row := a.db.QueryRowContext(ctx, "SELECT "+songColumns+" FROM songs WHERE id = ?", id)
	song, err := scanSong(row)
	if err == sql.ErrNoRows {
		return domain.Song{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Song{}, fmt.Errorf("failed to load song: %w", err)
	}
	return song, nil
}

func (a *Adapter) Save(ctx context.Context, s domain.Song) (domain.Song, error) {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO songs (id, video_id, title, artist, album, genre, year, thumbnail, file_path, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(video_id) DO UPDATE SET
			title=excluded.title,
			artist=excluded.artist,
			album=excluded.album,
			genre=excluded.genre,
			year=excluded.year,
			thumbnail=excluded.thumbnail,
			file_path=excluded.file_path;
	`
	if _, err := a.db.ExecContext(ctx, query,
		s.ID, s.VideoID, s.Title, s.Artist, s.Album, s.Genre, s.Year, s.Thumbnail, s.FilePath, s.CreatedAt,
	); err != nil {
		return domain.Song{}, fmt.Errorf("failed to save song %s: %w", s.VideoID, err)
	}

	// An upsert keeps the earlier row's id; read the row back.
	row := a.db.QueryRowContext(ctx, "SELECT "+songColumns+" FROM songs WHERE video_id = ?", s.VideoID)
	saved, err := scanSong(row)
	if err != nil {
		return domain.Song{}, fmt.Errorf("failed to read back song %s: %w", s.VideoID, err)
	}
	return saved, nil
}

func (a *Adapter) Delete(ctx context.Context, id string) error {
	res, err := a.db.ExecContext(ctx, "DELETE FROM songs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete song: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (a *Adapter) Clear(ctx context.Context) error {
	if _, err := a.db.ExecContext(ctx, "DELETE FROM songs"); err != nil {
		return fmt.Errorf("failed to clear songs: %w", err)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanSong(row scannable) (domain.Song, error) {
	var song domain.Song
	var artist, album, genre, year, thumbnail sql.NullString
	if err := row.Scan(
		&song.ID,
		&song.VideoID,
		&song.Title,
		&artist,
		&album,
		&genre,
		&year,
		&thumbnail,
		&song.FilePath,
		&song.CreatedAt,
	); err != nil {
		return domain.Song{}, err
	}
	song.Artist = artist.String
	song.Album = album.String
	song.Genre = genre.String
	song.Year = year.String
	song.Thumbnail = thumbnail.String
	return song, nil
}

// --- TrackCache ---

// TrackCache is the resolution memo table, a second port served from the
// same database file.
type TrackCache struct {
	db *sql.DB
}

var _ ports.TrackCache = (*TrackCache)(nil)

// TrackCache returns the cache view over the adapter's database.
func (a *Adapter) TrackCache() *TrackCache {
	return &TrackCache{db: a.db}
}

func (c *TrackCache) Get(ctx context.Context, key string) (domain.CacheEntry, error) {
	row := c.db.QueryRowContext(ctx,
		"SELECT key, artist_name, track_name, video_id, title, thumbnail FROM track_cache WHERE key = ?", key)

	var entry domain.CacheEntry
	var videoID, title, thumbnail sql.NullString
	if err := row.Scan(&entry.Key, &entry.ArtistName, &entry.TrackName, &videoID, &title, &thumbnail); err != nil {
		if err == sql.ErrNoRows {
			return domain.CacheEntry{}, domain.ErrNotFound
		}
		return domain.CacheEntry{}, fmt.Errorf("failed to load cache entry: %w", err)
	}
	entry.VideoID = videoID.String
	entry.Title = title.String
	entry.Thumbnail = thumbnail.String
	return entry, nil
}

func (c *TrackCache) Put(ctx context.Context, entry domain.CacheEntry) error {
	query := `
		INSERT INTO track_cache (key, artist_name, track_name, video_id, title, thumbnail)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			video_id=excluded.video_id,
			title=excluded.title,
			thumbnail=excluded.thumbnail;
	`
	if _, err := c.db.ExecContext(ctx, query,
		entry.Key, entry.ArtistName, entry.TrackName, entry.VideoID, entry.Title, entry.Thumbnail,
	); err != nil {
		return fmt.Errorf("failed to save cache entry: %w", err)
	}
	return nil
}

func (c *TrackCache) Delete(ctx context.Context, key string) error {
	if _, err := c.db.ExecContext(ctx, "DELETE FROM track_cache WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}
