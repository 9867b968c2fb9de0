package rest

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// ServeFile handles GET /api/files/{filename}. Any resolved path escaping
// the download directory is rejected; this guard is a hard security
// invariant.
func (h *Handler) ServeFile(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("filename")
	path, ok := h.resolveDownloadPath(name)
	if !ok {
		writeError(w, http.StatusNotFound, "file not found")
		return
	}

	file, err := os.Open(path)
	if err != nil {
		writeError(w, http.StatusNotFound, "file not found")
		return
	}
	defer file.Close()

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(path)))
	io.Copy(w, file)
}

// resolveDownloadPath normalizes a client-supplied filename and confirms it
// stays inside the download directory.
func (h *Handler) resolveDownloadPath(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	baseDir, err := filepath.Abs(h.downloadDir)
	if err != nil {
		return "", false
	}
	resolved, err := filepath.Abs(filepath.Join(baseDir, name))
	if err != nil {
		return "", false
	}
	if resolved != baseDir && !strings.HasPrefix(resolved, baseDir+string(filepath.Separator)) {
		return "", false
	}
	if resolved == baseDir {
		return "", false
	}
	return resolved, true
}

// DownloadImage handles GET /api/download-image?url=&filename=, proxying an
// image URL as an attachment for cover-art export.
func (h *Handler) DownloadImage(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	filename := r.URL.Query().Get("filename")
	if rawURL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}
	if filename == "" {
		filename = "cover.jpg"
	}

	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		writeError(w, http.StatusBadRequest, "url must be http or https")
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, rawURL, nil)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid url")
		return
	}
	resp, err := h.httpClient.Do(req)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		writeError(w, http.StatusBadGateway, fmt.Sprintf("upstream status %d", resp.StatusCode))
		return
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(filename)))
	io.Copy(w, resp.Body)
}
