package tagging

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const maxFilenameLen = 100

var (
	forbiddenChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	whitespaceRuns = regexp.MustCompile(`\s+`)
)

// Sanitize makes a string safe as a filename stem: forbidden filesystem
// characters are stripped, whitespace runs collapse to single underscores,
// and the result is truncated to 100 characters. Idempotent.
func Sanitize(name string) string {
	cleaned := forbiddenChars.ReplaceAllString(name, "")
	cleaned = strings.TrimSpace(cleaned)
	cleaned = whitespaceRuns.ReplaceAllString(cleaned, "_")
	if len(cleaned) > maxFilenameLen {
		cleaned = cleaned[:maxFilenameLen]
	}
	return cleaned
}

// buildStem picks the filename stem: "artist - title" when both are known,
// else the raw title, else the video id.
func buildStem(artist, title, rawTitle, videoID string) string {
	if artist != "" && title != "" {
		return Sanitize(artist + " - " + title)
	}
	if rawTitle != "" {
		return Sanitize(rawTitle)
	}
	return Sanitize(videoID)
}

// resolveCollision returns the first free path, appending _1, _2, ... before
// the extension while the target exists.
func resolveCollision(dir, stem, ext string) string {
	candidate := filepath.Join(dir, stem+ext)
	for i := 1; ; i++ {
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
		candidate = filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, i, ext))
	}
}
