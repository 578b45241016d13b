package handlers

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"

	"hr-assistant/internal/models"
)

// HealthCheckHandler godoc
// @Summary Health check
// @Description Returns server liveness
// @Tags general
// @Produce json
// @Success 200 {object} models.BasicResponse
// @Router /health [get]
func HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	response := models.BasicResponse{
		Message: "Server is healthy",
		Status:  "success",
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// NewHomeHandler serves the chat page from the static directory, falling
// back to a plain welcome line when no page is bundled.
// @Summary Home page
// @Description Serves the assistant chat page
// @Tags general
// @Produce text/html
// @Success 200 {string} string "chat page"
// @Router / [get]
func NewHomeHandler(staticDir string) http.HandlerFunc {
	index := filepath.Join(staticDir, "index.html")
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}

		if _, err := os.Stat(index); err == nil {
			http.ServeFile(w, r, index)
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("Welcome to the HR Assistant!\n"))
	}
}
