package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"hr-assistant/internal/models"
)

// ChatService is the part of the question-answering pipeline the HTTP
// layer needs.
type ChatService interface {
	Answer(ctx context.Context, question string) *models.ChatAnswer
	History() []models.TranscriptEntry
}

// LLMHealthChecker reports whether the language-model backend is reachable.
type LLMHealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// ChatHandler handles HTTP requests for the assistant chat surface
type ChatHandler struct {
	chat   ChatService
	llm    LLMHealthChecker
	logger *log.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chat ChatService, llm LLMHealthChecker, logger *log.Logger) *ChatHandler {
	return &ChatHandler{
		chat:   chat,
		llm:    llm,
		logger: logger,
	}
}

// Chat handles one question from the frontend
// @Summary Ask the assistant a question
// @Description Answers a question about internal policies, with a reference file when the answer is grounded in a retrieved document
// @Tags chat
// @Accept json
// @Produce json
// @Param request body models.Question true "Question to answer"
// @Success 200 {object} models.ChatAnswer
// @Failure 400 {object} ErrorResponse
// @Router /chat [post]
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var request models.Question
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.sendError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	question := strings.TrimSpace(request.Question)
	if question == "" {
		h.sendError(w, http.StatusBadRequest, "Question is required")
		return
	}

	answer := h.chat.Answer(r.Context(), question)
	h.sendJSON(w, http.StatusOK, answer)
}

// HistoryResponse wraps the session transcript
type HistoryResponse struct {
	History []models.TranscriptEntry `json:"history"`
	Count   int                      `json:"count"`
}

// History returns the in-memory session transcript
// @Summary Session transcript
// @Description Returns every question/answer pair recorded since the server started
// @Tags chat
// @Produce json
// @Success 200 {object} HistoryResponse
// @Router /chat/history [get]
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	entries := h.chat.History()
	if entries == nil {
		entries = []models.TranscriptEntry{}
	}
	h.sendJSON(w, http.StatusOK, HistoryResponse{
		History: entries,
		Count:   len(entries),
	})
}

// LLMHealth checks whether the model backend is reachable
// @Summary Check LLM health
// @Description Check if the LLM backend (LM Studio) is available
// @Tags chat
// @Produce json
// @Success 200 {object} models.BasicResponse
// @Failure 503 {object} models.BasicResponse
// @Router /llm/health [get]
func (h *ChatHandler) LLMHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.llm.HealthCheck(r.Context()); err != nil {
		h.sendJSON(w, http.StatusServiceUnavailable, models.BasicResponse{
			Message: "LM Studio is not available: " + err.Error(),
			Status:  "error",
		})
		return
	}

	h.sendJSON(w, http.StatusOK, models.BasicResponse{
		Message: "LM Studio is available",
		Status:  "success",
	})
}

func (h *ChatHandler) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Printf("Failed to encode JSON: %v", err)
	}
}

func (h *ChatHandler) sendError(w http.ResponseWriter, status int, message string) {
	h.sendJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Status:  status,
	})
}

// ErrorResponse is the error envelope for all handlers
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}
