package youtube

// Wire types for the YouTube Data API v3 search endpoint.

type searchResponse struct {
	Items []searchItem `json:"items"`
	Error *apiError    `json:"error,omitempty"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type searchItem struct {
	ID      itemID  `json:"id"`
	Snippet snippet `json:"snippet"`
}

type itemID struct {
	VideoID string `json:"videoId"`
}

type snippet struct {
	Title        string     `json:"title"`
	ChannelTitle string     `json:"channelTitle"`
	PublishedAt  string     `json:"publishedAt"`
	Description  string     `json:"description"`
	Thumbnails   thumbnails `json:"thumbnails"`
}

type thumbnails struct {
	Maxres  thumbnail `json:"maxres"`
	High    thumbnail `json:"high"`
	Medium  thumbnail `json:"medium"`
	Default thumbnail `json:"default"`
}

type thumbnail struct {
	URL string `json:"url"`
}

// bestURL prefers the highest-resolution variant, falling back through the
// lower ones, defaulting to empty.
func (t thumbnails) bestURL() string {
	for _, cand := range []string{t.Maxres.URL, t.High.URL, t.Medium.URL, t.Default.URL} {
		if cand != "" {
			return cand
		}
	}
	return ""
}
