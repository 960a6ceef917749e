// Package httpapi serves the assistant over plain HTTP: a chat endpoint
// plus health and metrics.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	assistant "github.com/contoso-labs/handbook-assistant"
	"github.com/contoso-labs/handbook-assistant/common/logger"
)

const maxBodyBytes = 1 << 20

// Responder is the part of the assistant client the HTTP layer needs.
type Responder interface {
	Respond(ctx context.Context, sessionID, message string, useRetrieval bool) (*assistant.Result, error)
}

// SessionStore lets the session endpoints drop server-side history.
type SessionStore interface {
	Clear(sessionID string)
}

type Server struct {
	responder Responder
	sessions  SessionStore
	mux       *http.ServeMux
}

func NewServer(responder Responder, sessions SessionStore) *Server {
	s := &Server{responder: responder, sessions: sessions, mux: http.NewServeMux()}
	s.mux.HandleFunc("/chat", s.handleChat)
	s.mux.HandleFunc("/sessions", s.handleSessions)
	s.mux.HandleFunc("/sessions/", s.handleSession)
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.Handle("/metrics", promhttp.Handler())
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.mux.ServeHTTP(w, r) }

// ListenAndServe blocks until the context is cancelled, then shuts the
// server down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	logger.Infof("http server listening on %s", addr)
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

type chatRequest struct {
	SessionID    string `json:"session_id"`
	Message      string `json:"message"`
	UseRetrieval *bool  `json:"use_retrieval"`
}

type chatResponse struct {
	Reply     string   `json:"reply"`
	Sources   []string `json:"sources"`
	SessionID string   `json:"session_id"`
}

type errorResponse struct {
	ErrorKind string `json:"error_kind"`
	Message   string `json:"message"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "invalid_input", "use POST")
		return
	}
	var req chatRequest
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", "malformed JSON body")
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}
	useRetrieval := true
	if req.UseRetrieval != nil {
		useRetrieval = *req.UseRetrieval
	}

	result, err := s.responder.Respond(r.Context(), req.SessionID, req.Message, useRetrieval)
	if err != nil {
		var ae *assistant.Error
		if errors.As(err, &ae) {
			switch ae.Kind {
			case assistant.KindInvalidInput:
				writeError(w, http.StatusBadRequest, string(ae.Kind), ae.Message)
			default:
				writeError(w, http.StatusBadGateway, string(ae.Kind), ae.Message)
			}
			return
		}
		logger.Errorf("chat handler: %v", err)
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{
		Reply:     result.Reply,
		Sources:   result.Sources,
		SessionID: req.SessionID,
	})
}

// handleSessions mints a fresh session id for callers that want one up
// front instead of letting /chat mint it.
func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "invalid_input", "use POST")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"session_id": uuid.NewString()})
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "invalid_input", "use DELETE")
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/sessions/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "invalid_input", "missing session id")
		return
	}
	s.sessions.Clear(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Errorf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, kind, message string) {
	writeJSON(w, status, errorResponse{ErrorKind: kind, Message: message})
}
