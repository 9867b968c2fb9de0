// Package tagging merges catalog metadata, title heuristics, and caller
// overrides into one record, embeds it into the audio file, and moves the
// file to its collision-safe final name.
package tagging

import (
	"strings"

	"github.com/KenCooper2022/youtube-audio-downloader/internal/core/domain"
)

// artistSeparators are tried in order against the raw title; the text
// before the first occurrence is the artist guess.
var artistSeparators = []string{" - ", " – ", " — ", " | ", " by "}

// genreKeywords maps keyword substrings to an inferred genre. Checked in
// order; first match wins.
var genreKeywords = []struct {
	genre    string
	keywords []string
}{
	{"Hip-Hop/Rap", []string{"hip hop", "hip-hop", "rap"}},
	{"Rock", []string{"rock"}},
	{"Pop", []string{"pop"}},
	{"Jazz", []string{"jazz"}},
	{"Classical", []string{"classical"}},
	{"Electronic", []string{"electronic", "edm"}},
	{"R&B/Soul", []string{"r&b", "soul"}},
	{"Country", []string{"country"}},
	{"Latin", []string{"latin", "reggaeton"}},
	{"Indie", []string{"indie"}},
}

// ParseTitle splits a raw video title into an artist guess and a track
// title. With no separator the artist is empty and the whole title is the
// track.
func ParseTitle(rawTitle string) (artist, title string) {
	for _, sep := range artistSeparators {
		if idx := strings.Index(rawTitle, sep); idx >= 0 {
			return strings.TrimSpace(rawTitle[:idx]), strings.TrimSpace(rawTitle[idx+len(sep):])
		}
	}
	return "", strings.TrimSpace(rawTitle)
}

// CleanChannelName strips platform suffixes from an uploader name so it can
// stand in as an artist.
func CleanChannelName(channel string) string {
	cleaned := strings.TrimSpace(channel)
	for _, suffix := range []string{" - Topic", "VEVO", " Official"} {
		cleaned = strings.TrimSuffix(cleaned, suffix)
	}
	return strings.TrimSpace(cleaned)
}

// InferGenre guesses a genre from keyword hits in the given text. Empty
// when nothing matches.
func InferGenre(text string) string {
	lower := strings.ToLower(text)
	for _, entry := range genreKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.genre
			}
		}
	}
	return ""
}

// yearOf extracts a 4-digit year from a catalog release date.
func yearOf(releaseDate string) string {
	if len(releaseDate) >= 4 && isDigits(releaseDate[:4]) {
		return releaseDate[:4]
	}
	return ""
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// Merge builds the final metadata record. A caller-supplied override wins
// outright; otherwise catalog fields win; title heuristics and genre
// inference supply whatever is still missing.
func Merge(rawTitle, channelTitle string, match *domain.CatalogMatch, known *domain.KnownMetadata) domain.FinalMetadata {
	if known != nil {
		return domain.FinalMetadata{
			Title:       known.Title,
			Artist:      known.Artist,
			Album:       known.Album,
			Genre:       known.Genre,
			Year:        known.Year,
			TrackNumber: known.TrackNumber,
			CoverArtURL: known.CoverArtURL,
		}
	}

	artistGuess, titleGuess := ParseTitle(rawTitle)
	if artistGuess == "" {
		artistGuess = CleanChannelName(channelTitle)
	}

	meta := domain.FinalMetadata{
		Title:  titleGuess,
		Artist: artistGuess,
		Genre:  InferGenre(rawTitle + " " + channelTitle),
	}

	if match != nil && match.Found {
		meta.Title = match.TrackName
		meta.Artist = match.ArtistName
		meta.Album = match.AlbumName
		meta.CoverArtURL = match.AlbumArtURL
		meta.TrackNumber = match.TrackNumber
		if match.Genre != "" {
			meta.Genre = match.Genre
		}
		if y := yearOf(match.ReleaseDate); y != "" {
			meta.Year = y
		}
	}
	return meta
}
