package rest

import (
	"net/http"

	"github.com/KenCooper2022/youtube-audio-downloader/internal/core/domain"
)

const searchResultLimit = 20

type searchResponse struct {
	Results []domain.SearchCandidate `json:"results"`
}

// Search handles GET /api/search?q=&type=
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}

	mode := domain.SearchMode(r.URL.Query().Get("type"))
	switch mode {
	case domain.SearchModeAudio, domain.SearchModeLyric, domain.SearchModeBoth, "":
	default:
		writeError(w, http.StatusBadRequest, "type must be one of audio, lyric, both")
		return
	}

	results, err := h.search.Search(r.Context(), query, mode, searchResultLimit)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, searchResponse{Results: results})
}
