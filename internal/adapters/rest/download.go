package rest

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/KenCooper2022/youtube-audio-downloader/internal/core/domain"
	"github.com/KenCooper2022/youtube-audio-downloader/internal/core/services"
)

type downloadRequest struct {
	VideoID       string                `json:"videoId"`
	Title         string                `json:"title"`
	Thumbnail     string                `json:"thumbnail"`
	ChannelTitle  string                `json:"channelTitle"`
	KnownMetadata *domain.KnownMetadata `json:"knownMetadata,omitempty"`
}

// Download handles POST /api/download. The response is a long-lived
// text/event-stream of progress events; the stream closes after the
// terminal event. Closing the connection cancels the request context and
// with it any running extraction subprocess.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	var req downloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.VideoID == "" {
		writeError(w, http.StatusBadRequest, "videoId is required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	stream := services.NewStream(func(event domain.ProgressEvent) {
		payload, err := json.Marshal(event)
		if err != nil {
			return
		}
		fmt.Fprintf(w, "data: %s\n\n", payload)
		flusher.Flush()
	})

	h.pipeline.Run(r.Context(), services.DownloadRequest{
		VideoID:      req.VideoID,
		Title:        req.Title,
		Thumbnail:    req.Thumbnail,
		ChannelTitle: req.ChannelTitle,
		Known:        req.KnownMetadata,
	}, stream)
}
