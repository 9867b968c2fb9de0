package domain

// SearchMode selects how a search query is augmented before hitting the
// video platform.
type SearchMode string

const (
	SearchModeAudio SearchMode = "audio"
	SearchModeLyric SearchMode = "lyric"
	SearchModeBoth  SearchMode = "both"
)

// QuerySuffix returns the platform-side augmentation for the mode. It is
// applied once, before the search provider chooses a path.
func (m SearchMode) QuerySuffix() string {
	switch m {
	case SearchModeAudio:
		return " official audio"
	case SearchModeLyric:
		return " lyric video"
	case SearchModeBoth:
		return " audio OR lyric video"
	}
	return ""
}

// SearchCandidate is one video returned by a search. Ephemeral; produced
// per call and never persisted.
type SearchCandidate struct {
	VideoID      string `json:"videoId"`
	Title        string `json:"title"`
	ChannelTitle string `json:"channelTitle"`
	PublishedAt  string `json:"publishedAt"`
	Thumbnail    string `json:"thumbnail"`
	Description  string `json:"description,omitempty"`
}

// ResolvedVideo is the outcome of matching a catalog track to a video.
type ResolvedVideo struct {
	VideoID   string `json:"videoId"`
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail"`
}
