package handlers

import (
	"net/http"
	"time"
)

const (
	bannerMessage = "NewsPulse API is running!"
	apiVersion    = "1.0.0"
)

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

type bannerResponse struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

// Health — GET /health.
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "OK",
		Timestamp: h.now().UTC().Format(time.RFC3339Nano),
	})
}

// Banner — GET / (корень сервера, вне base path).
func (h *Handlers) Banner(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, bannerResponse{
		Message: bannerMessage,
		Version: apiVersion,
		Endpoints: map[string]string{
			"health":    h.BasePath + "/health",
			"news":      h.BasePath + "/news",
			"bookmarks": h.BasePath + "/bookmarks",
		},
	})
}
