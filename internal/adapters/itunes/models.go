package itunes

// Wire types for the iTunes Search API.

type searchResponse struct {
	ResultCount int      `json:"resultCount"`
	Results     []result `json:"results"`
}

type result struct {
	WrapperType        string  `json:"wrapperType"`
	Kind               string  `json:"kind"`
	ArtistID           int64   `json:"artistId"`
	CollectionID       int64   `json:"collectionId"`
	TrackID            int64   `json:"trackId"`
	ArtistName         string  `json:"artistName"`
	CollectionName     string  `json:"collectionName"`
	CollectionType     string  `json:"collectionType"`
	TrackName          string  `json:"trackName"`
	ArtworkURL100      string  `json:"artworkUrl100"`
	ReleaseDate        string  `json:"releaseDate"`
	PrimaryGenreName   string  `json:"primaryGenreName"`
	TrackNumber        int     `json:"trackNumber"`
	TrackCount         int     `json:"trackCount"`
	DiscNumber         int     `json:"discNumber"`
	DiscCount          int     `json:"discCount"`
	TrackTimeMillis    int     `json:"trackTimeMillis"`
	TrackExplicitness  string  `json:"trackExplicitness"`
	CollectionPrice    float64 `json:"collectionPrice"`
	PreviewURL         string  `json:"previewUrl"`
	CollectionArtistID int64   `json:"collectionArtistId"`
}
