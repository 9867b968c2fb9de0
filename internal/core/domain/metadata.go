package domain

// KnownMetadata is the caller-supplied override, e.g. from an already
// resolved album context. When present it wins outright and the catalog
// lookup is skipped entirely.
type KnownMetadata struct {
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	Album       string `json:"album,omitempty"`
	Genre       string `json:"genre,omitempty"`
	Year        string `json:"year,omitempty"`
	TrackNumber int    `json:"trackNumber,omitempty"`
	CoverArtURL string `json:"coverArtUrl,omitempty"`
}

// FinalMetadata is the merged record a file is tagged with. It is fully
// determined before the file is renamed.
type FinalMetadata struct {
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	Album       string `json:"album,omitempty"`
	Genre       string `json:"genre,omitempty"`
	Year        string `json:"year,omitempty"`
	TrackNumber int    `json:"trackNumber,omitempty"`
	CoverArtURL string `json:"coverArtUrl,omitempty"`
	// FallbackArtURL is used when CoverArtURL is absent or fails to fetch.
	// If both fail the file is tagged without an embedded image.
	FallbackArtURL string `json:"-"`
}
