package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"hr-assistant/internal/repositories"
)

// DocumentsHandler handles HTTP requests for the ingested-document registry
type DocumentsHandler struct {
	docRepo    repositories.DocumentRepository
	vectorRepo repositories.VectorRepository
	collection string
	logger     *log.Logger
}

// NewDocumentsHandler creates a new documents handler
func NewDocumentsHandler(
	docRepo repositories.DocumentRepository,
	vectorRepo repositories.VectorRepository,
	collection string,
	logger *log.Logger,
) *DocumentsHandler {
	return &DocumentsHandler{
		docRepo:    docRepo,
		vectorRepo: vectorRepo,
		collection: collection,
		logger:     logger,
	}
}

// DocumentListResponse wraps the registry listing
type DocumentListResponse struct {
	Documents []*repositories.Document `json:"documents"`
	Count     int                      `json:"count"`
}

// List returns every ingested document with its metadata
// @Summary List ingested documents
// @Description Get every document registered by the last ingestion run
// @Tags documents
// @Produce json
// @Success 200 {object} DocumentListResponse
// @Failure 500 {object} ErrorResponse
// @Router /documents [get]
func (h *DocumentsHandler) List(w http.ResponseWriter, r *http.Request) {
	docs, err := h.docRepo.List(r.Context())
	if err != nil {
		h.logger.Printf("Failed to list documents: %v", err)
		h.sendError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to list documents: %v", err))
		return
	}
	if docs == nil {
		docs = []*repositories.Document{}
	}

	h.sendJSON(w, http.StatusOK, DocumentListResponse{
		Documents: docs,
		Count:     len(docs),
	})
}

// CollectionStatsResponse reports the indexed-chunk count per collection
type CollectionStatsResponse struct {
	Collection    string `json:"collection"`
	ChunkCount    int    `json:"chunk_count"`
	DocumentCount int    `json:"document_count"`
}

// Stats returns the size of the retrieval index
// @Summary Collection statistics
// @Description Get chunk and document counts for the retrieval index
// @Tags documents
// @Produce json
// @Success 200 {object} CollectionStatsResponse
// @Failure 500 {object} ErrorResponse
// @Router /documents/stats [get]
func (h *DocumentsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.vectorRepo.GetCollectionStats(r.Context(), h.collection)
	if err != nil {
		h.logger.Printf("Failed to get collection stats: %v", err)
		h.sendError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to get collection stats: %v", err))
		return
	}

	docCount, err := h.docRepo.Count(r.Context())
	if err != nil {
		h.logger.Printf("Failed to count documents: %v", err)
		h.sendError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to count documents: %v", err))
		return
	}

	h.sendJSON(w, http.StatusOK, CollectionStatsResponse{
		Collection:    h.collection,
		ChunkCount:    stats.ChunkCount,
		DocumentCount: docCount,
	})
}

func (h *DocumentsHandler) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Printf("Failed to encode JSON: %v", err)
	}
}

func (h *DocumentsHandler) sendError(w http.ResponseWriter, status int, message string) {
	h.sendJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Status:  status,
	})
}
