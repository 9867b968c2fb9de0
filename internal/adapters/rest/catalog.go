package rest

import (
	"log"
	"net/http"
	"strconv"

	"github.com/KenCooper2022/youtube-audio-downloader/internal/core/domain"
)

// AlbumArt handles GET /api/album-art?artist=&song=
func (h *Handler) AlbumArt(w http.ResponseWriter, r *http.Request) {
	match, ok := h.resolveCatalog(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"found":       match.Found,
		"albumArtUrl": match.AlbumArtURL,
		"albumName":   match.AlbumName,
	})
}

// SongMetadata handles GET /api/song-metadata?artist=&song=
func (h *Handler) SongMetadata(w http.ResponseWriter, r *http.Request) {
	match, ok := h.resolveCatalog(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, match)
}

// resolveCatalog is the shared pass-through to the catalog resolver. A
// transport failure degrades to found=false rather than an error status.
func (h *Handler) resolveCatalog(w http.ResponseWriter, r *http.Request) (domain.CatalogMatch, bool) {
	song := r.URL.Query().Get("song")
	if song == "" {
		writeError(w, http.StatusBadRequest, "song is required")
		return domain.CatalogMatch{}, false
	}
	artist := r.URL.Query().Get("artist")

	match, err := h.catalog.ResolveTrackMetadata(r.Context(), artist, song)
	if err != nil {
		log.Printf("WARN rest: catalog lookup failed: %v", err)
		return domain.CatalogMatch{Found: false}, true
	}
	return match, true
}

type albumSearchResponse struct {
	Results []domain.AlbumSummary `json:"results"`
}

// SearchAlbums handles GET /api/albums/search?q=
func (h *Handler) SearchAlbums(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}

	albums, err := h.catalog.SearchAlbums(r.Context(), query)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, albumSearchResponse{Results: albums})
}

type albumTrackEntry struct {
	domain.TrackSummary
	Available      bool   `json:"available"`
	YoutubeVideoID string `json:"youtubeVideoId,omitempty"`
	Thumbnail      string `json:"thumbnail,omitempty"`
}

type albumTracksResponse struct {
	Tracks []albumTrackEntry `json:"tracks"`
}

// AlbumTracks handles GET /api/albums/{collectionId}: the catalog tracklist
// joined with per-track video resolution.
func (h *Handler) AlbumTracks(w http.ResponseWriter, r *http.Request) {
	collectionID, err := strconv.ParseInt(r.PathValue("collectionId"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "collectionId must be an integer")
		return
	}

	tracks, err := h.catalog.GetAlbumTracks(r.Context(), collectionID)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	entries := make([]albumTrackEntry, 0, len(tracks))
	for _, track := range tracks {
		entry := albumTrackEntry{TrackSummary: track}
		resolved, err := h.resolver.Resolve(r.Context(), track.ArtistName, track.Name)
		if err != nil {
			log.Printf("WARN rest: video resolution failed for %q - %q: %v", track.ArtistName, track.Name, err)
		} else if resolved != nil {
			entry.Available = true
			entry.YoutubeVideoID = resolved.VideoID
			entry.Thumbnail = resolved.Thumbnail
		}
		entries = append(entries, entry)
	}
	writeJSON(w, http.StatusOK, albumTracksResponse{Tracks: entries})
}
