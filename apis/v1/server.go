// Package v1 serves the agent over HTTP. Chat responses are streamed as
// newline-delimited JSON events.
package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/sumittt2004/agentforge/agents"
	logcontext "github.com/sumittt2004/agentforge/context"
	"github.com/sumittt2004/agentforge/log"
	"github.com/sumittt2004/agentforge/orm"
)

const (
	// SessionHeader carries the session id chosen for a chat request
	SessionHeader = "X-Session-ID"
	// RequestHeader carries the request id
	RequestHeader = "X-Request-ID"

	defaultSessionLimit = 50
)

// ChatRequest is the body of POST /v1/chat
type ChatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// Server exposes the agent operations as HTTP handlers
type Server struct {
	agent *agents.Agent
	store *orm.ConversationStore

	// OnChat runs after a chat stream has finished
	OnChat func(ctx context.Context, sessionID string)
}

// NewServer creates the API server
func NewServer(agent *agents.Agent, store *orm.ConversationStore) *Server {
	return &Server{agent: agent, store: store}
}

// Handler returns the routed handler wrapped with request tracking
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/chat", s.chat)
	mux.HandleFunc("GET /v1/sessions", s.listSessions)
	mux.HandleFunc("GET /v1/sessions/{id}", s.sessionInfo)
	mux.HandleFunc("DELETE /v1/sessions/{id}", s.clearSession)
	mux.HandleFunc("GET /v1/tools", s.listTools)
	return RequestID(mux)
}

func (s *Server) chat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}
	if req.SessionID == "" {
		req.SessionID = logcontext.NewSessionID()
	}

	log.Infof(ctx, "Chat request for session %s", req.SessionID)

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set(SessionHeader, req.SessionID)
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)
	enc := json.NewEncoder(w)
	for event := range s.agent.Chat(ctx, req.SessionID, req.Message) {
		if err := enc.Encode(event); err != nil {
			log.Warnf(ctx, "Client went away while streaming: %v", err)
			break
		}
		if flusher != nil {
			flusher.Flush()
		}
	}

	if s.OnChat != nil {
		s.OnChat(context.WithoutCancel(ctx), req.SessionID)
	}
}

func (s *Server) sessionInfo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	info, err := s.agent.SessionInfo(ctx, id)
	if err != nil {
		log.Errorf(ctx, "Failed to load session %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "failed to load session")
		return
	}
	if info == nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) clearSession(w http.ResponseWriter, r *http.Request) {
	cleared := s.agent.ClearHistory(r.Context(), r.PathValue("id"))
	status := http.StatusOK
	if !cleared {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, map[string]bool{"cleared": cleared})
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := defaultSessionLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	sessions, err := s.store.ListSessions(ctx, limit)
	if err != nil {
		log.Errorf(ctx, "Failed to list sessions: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list sessions")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"sessions": sessions})
}

func (s *Server) listTools(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"tools": s.agent.Tools()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
