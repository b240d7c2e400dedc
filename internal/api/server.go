// Package api is the thin HTTP adapter over the dispatcher.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"devops-assistant/internal/common/logger"
	"devops-assistant/internal/dispatch"
)

// Server exposes the chat surface and the operational endpoints.
type Server struct {
	router         *chi.Mux
	dispatcher     *dispatch.Dispatcher
	requestTimeout time.Duration
	logger         logger.Logger
	version        string
}

func NewServer(d *dispatch.Dispatcher, requestTimeout time.Duration, version string, log logger.Logger) *Server {
	s := &Server{
		router:         chi.NewRouter(),
		dispatcher:     d,
		requestTimeout: requestTimeout,
		logger:         log.With(map[string]interface{}{"component": "api"}),
		version:        version,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Post("/api/v1/chat", s.handleChat)
	s.router.Get("/api/v1/chat/conversations", s.handleListConversations)
	s.router.Delete("/api/v1/chat/conversations/{id}", s.handleClearConversation)
	s.router.Get("/api/v1/intents", s.handleListIntents)
	s.router.Get("/health", s.handleHealth)
	s.router.Handle("/metrics", promhttp.Handler())
}

func (s *Server) Handler() http.Handler {
	return s.router
}

type chatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversationId,omitempty"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		s.writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	resp := s.dispatcher.HandleQuery(ctx, req.Message, req.ConversationID)
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListConversations(w http.ResponseWriter, r *http.Request) {
	ids, err := s.dispatcher.ListConversations(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("failed to list conversations", nil)
		s.writeError(w, http.StatusInternalServerError, "failed to list conversations")
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"conversations": ids})
}

func (s *Server) handleClearConversation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.dispatcher.Clear(r.Context(), id); err != nil {
		s.logger.WithError(err).Error("failed to clear conversation", map[string]interface{}{
			"conversationId": id,
		})
		s.writeError(w, http.StatusInternalServerError, "failed to clear conversation")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListIntents(w http.ResponseWriter, r *http.Request) {
	intents := make([]map[string]interface{}, 0)
	for _, meta := range s.dispatcher.Intents() {
		intents = append(intents, map[string]interface{}{
			"category":          meta.Category,
			"displayName":       meta.DisplayName,
			"description":       meta.Description,
			"requiresProject":   meta.RequiresProject,
			"requiresLLMFinish": meta.RequiresLLMFinish,
		})
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"intents": intents})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.version,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.WithError(err).Error("failed to encode response", nil)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
