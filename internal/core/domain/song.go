package domain

import (
	"errors"
	"strings"
	"time"
)

// Song is a persisted library record, unique on VideoID.
type Song struct {
	ID        string    `json:"id"`
	VideoID   string    `json:"videoId"`
	Title     string    `json:"title"`
	Artist    string    `json:"artist"`
	Album     string    `json:"album,omitempty"`
	Genre     string    `json:"genre,omitempty"`
	Year      string    `json:"year,omitempty"`
	Thumbnail string    `json:"thumbnail,omitempty"`
	FilePath  string    `json:"filePath"`
	CreatedAt time.Time `json:"createdAt"`
}

// Validate checks the fields a client must supply before a song can be saved.
func (s Song) Validate() error {
	var problems []string
	if strings.TrimSpace(s.VideoID) == "" {
		problems = append(problems, "videoId is required")
	}
	if strings.TrimSpace(s.Title) == "" {
		problems = append(problems, "title is required")
	}
	if strings.TrimSpace(s.FilePath) == "" {
		problems = append(problems, "filePath is required")
	}
	if len(problems) > 0 {
		return errors.New("domain: invalid song: " + strings.Join(problems, ", "))
	}
	return nil
}
