package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"hr-assistant/internal/handlers"
)

// Handlers groups everything the router needs. Documents may be nil when
// the registry backend is unavailable; its routes are then skipped.
type Handlers struct {
	Health http.HandlerFunc
	Home   http.HandlerFunc

	Chat      *handlers.ChatHandler
	Documents *handlers.DocumentsHandler
}

// RegisterRoutes sets up all application routes
func RegisterRoutes(router *mux.Router, h *Handlers, artifactsDir, staticDir string) {
	// Health endpoints
	router.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	router.HandleFunc("/llm/health", h.Chat.LLMHealth).Methods(http.MethodGet)

	// Chat endpoints
	router.HandleFunc("/chat", h.Chat.Chat).Methods(http.MethodPost, http.MethodOptions)
	router.HandleFunc("/chat/history", h.Chat.History).Methods(http.MethodGet)

	// Registry endpoints, only when the backing store is up
	if h.Documents != nil {
		router.HandleFunc("/documents", h.Documents.List).Methods(http.MethodGet)
		router.HandleFunc("/documents/stats", h.Documents.Stats).Methods(http.MethodGet)
	}

	// Original policy artifacts referenced by chat answers
	router.PathPrefix("/pdfs/").Handler(
		http.StripPrefix("/pdfs/", http.FileServer(http.Dir(artifactsDir))))

	// Frontend assets
	router.PathPrefix("/static/").Handler(
		http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))

	// Chat page
	router.HandleFunc("/", h.Home).Methods(http.MethodGet)
}
