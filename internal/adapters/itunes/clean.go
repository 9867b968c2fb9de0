package itunes

import (
	"regexp"
	"strings"
)

// Video-platform decorations stripped from titles before matching. Cleaning
// is independent of the similarity scoring below.
var (
	bracketedNoiseRe = regexp.MustCompile(`(?i)[(\[][^)\]]*(official|video|audio|lyric|lyrics|visuali[sz]er|music video|hd|hq|4k|m/?v)[^)\]]*[)\]]`)
	hashtagRe        = regexp.MustCompile(`#\S+`)
	topicSuffixRe    = regexp.MustCompile(`(?i)\s*-\s*topic\s*$`)
	trailingNoiseRe  = regexp.MustCompile(`(?i)\s*[-|]\s*(official music video|official video|official audio|lyric video|lyrics|audio|full album|visuali[sz]er|hd|hq|4k)\s*$`)
	whitespaceRe     = regexp.MustCompile(`\s+`)
)

// CleanTitle strips the fixed set of platform decorations from a raw video
// title.
func CleanTitle(raw string) string {
	cleaned := bracketedNoiseRe.ReplaceAllString(raw, " ")
	cleaned = hashtagRe.ReplaceAllString(cleaned, " ")
	cleaned = topicSuffixRe.ReplaceAllString(cleaned, "")
	cleaned = trailingNoiseRe.ReplaceAllString(cleaned, "")
	cleaned = whitespaceRe.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

// SplitArtistTitle recovers an artist guess from a cleaned "Artist - Song"
// title, splitting on the first separator occurrence. Returns empty artist
// when no separator is present.
func SplitArtistTitle(cleaned string) (artist, song string) {
	if idx := strings.Index(cleaned, " - "); idx >= 0 {
		return strings.TrimSpace(cleaned[:idx]), strings.TrimSpace(cleaned[idx+3:])
	}
	return "", cleaned
}
