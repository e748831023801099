package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/umbrellahq/onboard/internal/assistant"
	"github.com/umbrellahq/onboard/internal/session"
)

type chatRequest struct {
	Input string `json:"input"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.manager.CreateSession()
	if err != nil {
		s.logger.Error("create session failed", zap.Error(err))
		s.respondError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	s.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"id":      sess.ID,
		"profile": sess.Profile,
		"welcome": assistant.WelcomeMessage,
	})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.manager.Session(chi.URLParam(r, "id"))
	if !ok {
		s.respondError(w, http.StatusNotFound, "session not found")
		return
	}
	s.respondJSON(w, http.StatusOK, sess.Profile)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.manager.Session(chi.URLParam(r, "id"))
	if !ok {
		s.respondError(w, http.StatusNotFound, "session not found")
		return
	}
	s.respondJSON(w, http.StatusOK, sess.History())
}

// handleChat streams the assistant's answer as server-sent events: one
// "data:" line per fragment, an "event: error" on mid-stream failure, and
// "data: [DONE]" when the stream ends.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.manager.Session(chi.URLParam(r, "id"))
	if !ok {
		s.respondError(w, http.StatusNotFound, "session not found")
		return
	}
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Input == "" {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	stream, err := sess.Respond(r.Context(), req.Input)
	if err != nil {
		if errors.Is(err, session.ErrBusy) {
			s.respondError(w, http.StatusConflict, err.Error())
			return
		}
		s.logger.Error("respond failed", zap.Error(err))
		s.respondError(w, http.StatusBadGateway, err.Error())
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		s.respondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	for frag := range stream {
		if frag.Err != nil {
			s.logger.Warn("stream failed mid-way", zap.Error(frag.Err))
			fmt.Fprintf(w, "event: error\ndata: %s\n\n", frag.Err.Error())
			flusher.Flush()
			return
		}
		data, _ := json.Marshal(frag.Content)
		fmt.Fprintf(w, "data: %s\n\n", data)
		flusher.Flush()
	}
	fmt.Fprint(w, "data: [DONE]\n\n")
	flusher.Flush()
}

func (s *Server) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	s.manager.CloseSession(chi.URLParam(r, "id"))
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "closed"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{"status": "ok"}
	if base := s.manager.Base(); base != nil {
		status["chunks"] = base.Size()
		status["model"] = base.ModelName()
	}
	s.respondJSON(w, http.StatusOK, status)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response failed", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, msg string) {
	s.respondJSON(w, status, map[string]string{"error": msg})
}
