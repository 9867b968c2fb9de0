package domain

// CatalogMatch is the best-scoring canonical track returned by the music
// catalog for an (artist, title) query. Found=false carries an otherwise
// empty payload and must never be cached.
type CatalogMatch struct {
	Found       bool   `json:"found"`
	TrackName   string `json:"trackName,omitempty"`
	ArtistName  string `json:"artistName,omitempty"`
	AlbumName   string `json:"albumName,omitempty"`
	AlbumArtURL string `json:"albumArtUrl,omitempty"`
	ReleaseDate string `json:"releaseDate,omitempty"`
	Genre       string `json:"genre,omitempty"`
	TrackNumber int    `json:"trackNumber,omitempty"`
	TrackCount  int    `json:"trackCount,omitempty"`
	DiscNumber  int    `json:"discNumber,omitempty"`
	DiscCount   int    `json:"discCount,omitempty"`
	DurationMs  int    `json:"durationMs,omitempty"`
	IsExplicit  bool   `json:"isExplicit,omitempty"`
	Collection  string `json:"collectionType,omitempty"`
	PreviewURL  string `json:"previewUrl,omitempty"`
}

// AlbumSummary is one album entry in a catalog album search.
type AlbumSummary struct {
	CollectionID int64  `json:"collectionId"`
	Name         string `json:"collectionName"`
	ArtistName   string `json:"artistName"`
	ArtworkURL   string `json:"artworkUrl,omitempty"`
	ReleaseDate  string `json:"releaseDate,omitempty"`
	Genre        string `json:"genre,omitempty"`
	TrackCount   int    `json:"trackCount,omitempty"`
}

// TrackSummary is one track of an album tracklist, in catalog order.
type TrackSummary struct {
	TrackID     int64  `json:"trackId"`
	Name        string `json:"trackName"`
	ArtistName  string `json:"artistName"`
	AlbumName   string `json:"collectionName"`
	TrackNumber int    `json:"trackNumber"`
	DurationMs  int    `json:"durationMs,omitempty"`
	PreviewURL  string `json:"previewUrl,omitempty"`
	ArtworkURL  string `json:"artworkUrl,omitempty"`
}

// CacheEntry is one row of the durable (artist, track) -> video memo table.
// An absent entry means "try again", never "known unavailable".
type CacheEntry struct {
	Key        string
	ArtistName string
	TrackName  string
	VideoID    string
	Title      string
	Thumbnail  string
}
