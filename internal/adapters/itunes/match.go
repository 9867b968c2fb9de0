package itunes

import "strings"

const (
	artistWeight  = 0.4
	titleWeight   = 0.6
	minMatchScore = 0.3
)

func trackMatchScore(artist, song string, candidate result) float64 {
	artistSim := similarity(artist, candidate.ArtistName)
	titleSim := similarity(song, candidate.TrackName)
	return artistWeight*artistSim + titleWeight*titleSim
}

// similarity scores two names in [0,1]: 1.0 for a case-insensitive trimmed
// match, 0.8 when one contains the other, otherwise the fraction of
// qualifying words (length > 2) of the shorter side that overlap a word of
// the other side, divided by the larger word count.
func similarity(a, b string) float64 {
	na := strings.ToLower(strings.TrimSpace(a))
	nb := strings.ToLower(strings.TrimSpace(b))
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1.0
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return 0.8
	}

	wordsA := qualifyingWords(na)
	wordsB := qualifyingWords(nb)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}

	shorter, longer := wordsA, wordsB
	if len(wordsB) < len(wordsA) {
		shorter, longer = wordsB, wordsA
	}

	matched := 0
	for _, w := range shorter {
		for _, v := range longer {
			if strings.Contains(w, v) || strings.Contains(v, w) {
				matched++
				break
			}
		}
	}

	larger := len(wordsA)
	if len(wordsB) > larger {
		larger = len(wordsB)
	}
	return float64(matched) / float64(larger)
}

func qualifyingWords(s string) []string {
	var out []string
	for _, w := range strings.Fields(s) {
		if len(w) > 2 {
			out = append(out, w)
		}
	}
	return out
}

// upgradeArtwork swaps the catalog's fixed-size thumbnail for the highest
// resolution variant it serves.
func upgradeArtwork(url string) string {
	if url == "" {
		return ""
	}
	return strings.Replace(url, "100x100bb", "600x600bb", 1)
}
