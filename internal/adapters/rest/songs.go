package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/KenCooper2022/youtube-audio-downloader/internal/core/domain"
	"github.com/KenCooper2022/youtube-audio-downloader/internal/worker"
)

// ListSongs handles GET /api/songs
func (h *Handler) ListSongs(w http.ResponseWriter, r *http.Request) {
	songs, err := h.library.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, songs)
}

// GetSong handles GET /api/songs/{id}
func (h *Handler) GetSong(w http.ResponseWriter, r *http.Request) {
	song, err := h.library.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "song not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, song)
}

// SaveSong handles POST /api/songs
func (h *Handler) SaveSong(w http.ResponseWriter, r *http.Request) {
	var song domain.Song
	if err := json.NewDecoder(r.Body).Decode(&song); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	saved, err := h.library.Save(r.Context(), song)
	if err != nil {
		if strings.HasPrefix(err.Error(), "domain: invalid song") {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

// DeleteSong handles DELETE /api/songs/{id}
func (h *Handler) DeleteSong(w http.ResponseWriter, r *http.Request) {
	if err := h.library.Delete(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "song not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearLibrary handles POST /api/library/clear
func (h *Handler) ClearLibrary(w http.ResponseWriter, r *http.Request) {
	if err := h.library.Clear(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RetagSong handles POST /api/songs/{id}/retag: re-runs catalog matching
// and tagging on the already-downloaded file without re-acquiring audio.
func (h *Handler) RetagSong(w http.ResponseWriter, r *http.Request) {
	song, err := h.library.Retag(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "song not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, song)
}

// RetagAll handles POST /api/library/retag-all. The work is queued onto the
// background pool; the response reports how many songs were enqueued.
func (h *Handler) RetagAll(w http.ResponseWriter, r *http.Request) {
	songs, err := h.library.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	queued := 0
	for _, song := range songs {
		if h.retagPool.Submit(worker.Job{SongID: song.ID}) {
			queued++
		}
	}
	writeJSON(w, http.StatusAccepted, map[string]int{"queued": queued})
}
