// Package httpapi exposes the concierge over HTTP for the web chat UI:
// a turn endpoint, conversation inspection and reset, the quick-test
// prompts, and health.
package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/orderdesk/concierge/common/version"
	"github.com/orderdesk/concierge/internal/concierge/session"
)

// Service is the application surface the HTTP layer needs, kept small so
// handlers can be tested against a fake.
type Service interface {
	HandleTurn(ctx context.Context, conversationID, text string) (string, error)
	Greeting() string
	Prompts() map[string]string
	Reset(conversationID string) string
	Snapshot(conversationID string) *session.Session
}

// Server is the concierge HTTP server.
type Server struct {
	addr    string
	service Service
	mux     *http.ServeMux
	server  *http.Server
}

// turnRequest is the body of POST /api/turn. ConversationID may be empty
// on the first turn; the server assigns one.
type turnRequest struct {
	ConversationID string `json:"conversation_id"`
	Text           string `json:"text"`
}

// turnResponse is returned by POST /api/turn.
type turnResponse struct {
	ConversationID string `json:"conversation_id"`
	Reply          string `json:"reply"`
	State          string `json:"state"`
}

// healthResponse is returned by GET /healthz.
type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewServer creates and configures the HTTP server (does not start it).
func NewServer(addr string, service Service) *Server {
	mux := http.NewServeMux()
	s := &Server{
		addr:    addr,
		service: service,
		mux:     mux,
	}
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/api/turn", s.handleTurn)
	mux.HandleFunc("/api/prompts", s.handlePrompts)
	mux.HandleFunc("/api/conversations/", s.handleConversation)
	return s
}

// ServeHTTP implements http.Handler so the server can be tested without a
// live network listener (e.g. with httptest.NewRecorder).
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// The chat page is served from a different origin during development.
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.mux.ServeHTTP(w, r)
}

// Start begins listening in the background. Blocks until the listener is
// established so the caller knows the port is open before returning.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("http server: listen %s: %w", s.addr, err)
	}

	s.server = &http.Server{
		Handler:      s,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("http server listening", "addr", ln.Addr().String())
		if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			slog.Error("http server stopped", "err", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			slog.Warn("http server shutdown error", "err", err)
		}
	}()

	return nil
}

// Stop shuts down the HTTP server.
func (s *Server) Stop() {
	if s.server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		slog.Warn("http server shutdown error", "err", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Version: version.Version,
		Commit:  version.GitCommit,
	})
}

// handleTurn runs one turn. A missing conversation_id starts a new
// conversation with a server-assigned UUID, returned in the response so
// the client can continue it.
func (s *Server) handleTurn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	var req turnRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 16<<10)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "text is required"})
		return
	}
	if req.ConversationID == "" {
		req.ConversationID = uuid.NewString()
	}

	reply, err := s.service.HandleTurn(r.Context(), req.ConversationID, req.Text)
	if err != nil {
		slog.Error("turn failed", "conversation", req.ConversationID, "err", err)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "There was an error contacting the service."})
		return
	}

	state := ""
	if snap := s.service.Snapshot(req.ConversationID); snap != nil {
		state = string(snap.State)
	}
	writeJSON(w, http.StatusOK, turnResponse{
		ConversationID: req.ConversationID,
		Reply:          reply,
		State:          state,
	})
}

func (s *Server) handlePrompts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"greeting": s.service.Greeting(),
		"prompts":  s.service.Prompts(),
	})
}

// handleConversation serves GET (inspect) and DELETE (reset) on
// /api/conversations/{id}.
func (s *Server) handleConversation(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/conversations/")
	if id == "" || strings.Contains(id, "/") {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
		return
	}

	switch r.Method {
	case http.MethodGet:
		snap := s.service.Snapshot(id)
		if snap == nil {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown conversation"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"conversation_id": id,
			"state":           string(snap.State),
			"expecting":       string(snap.Expecting),
			"order":           snap.Order,
		})

	case http.MethodDelete:
		greeting := s.service.Reset(id)
		writeJSON(w, http.StatusOK, map[string]any{
			"conversation_id": id,
			"reply":           greeting,
		})

	default:
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
	}
}

// writeJSON serialises v as JSON and writes it to w with the given status code.
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("httpapi: failed to encode JSON response", "err", err)
	}
}
