// internal/server/server.go
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/xeipuuv/gojsonschema"

	"wellness-dashboard/internal/chatbot"
	wellnesserrors "wellness-dashboard/internal/common/errors"
	"wellness-dashboard/internal/common/logger"
	"wellness-dashboard/internal/dashboard"
	"wellness-dashboard/internal/store"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// chatRequestSchema validates the chat payload before it reaches the bot.
const chatRequestSchema = `{
	"type": "object",
	"properties": {
		"message": {"type": "string", "maxLength": 1000},
		"sessionId": {"type": "string", "maxLength": 64}
	},
	"required": ["message"],
	"additionalProperties": false
}`

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
}

type chatResponse struct {
	Reply     string `json:"reply"`
	SessionID string `json:"sessionId"`
}

// Server is the HTTP surface over the chatbot and dashboard aggregates. It is
// a thin driver: every chat outcome is a user-facing reply string, so chat
// requests only fail at the transport layer (bad JSON, schema violation).
type Server struct {
	bot     *chatbot.Bot
	stores  *store.Manager
	refresh RefreshFunc
	logger  logger.Logger

	schema *gojsonschema.Schema

	mu          sync.Mutex
	sessions    map[string]*chatbot.Session
	maxSessions int
}

// RefreshFunc reloads the snapshot from the backing source.
type RefreshFunc func(ctx context.Context) error

func New(bot *chatbot.Bot, stores *store.Manager, refresh RefreshFunc, maxSessions int, log logger.Logger) (*Server, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(chatRequestSchema))
	if err != nil {
		return nil, err
	}

	return &Server{
		bot:         bot,
		stores:      stores,
		refresh:     refresh,
		logger:      log.WithFields(map[string]interface{}{"component": "server"}),
		schema:      schema,
		sessions:    make(map[string]*chatbot.Session),
		maxSessions: maxSessions,
	}, nil
}

// Routes builds the API mux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("DELETE /api/chat/{session}", s.handleChatReset)
	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /api/departments", s.handleDepartments)
	mux.HandleFunc("GET /api/rankings", s.handleRankings)
	mux.HandleFunc("GET /api/correlations", s.handleCorrelations)
	mux.HandleFunc("GET /api/employees", s.handleEmployees)
	mux.HandleFunc("GET /api/employees/{id}", s.handleEmployee)
	mux.HandleFunc("POST /api/refresh", s.handleRefresh)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	return mux
}

// ==========================
// Chat
// ==========================

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var raw map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		s.writeError(w, wellnesserrors.NewInvalidRequestError("request body must be a JSON object"))
		return
	}

	result, err := s.schema.Validate(gojsonschema.NewGoLoader(raw))
	if err != nil {
		s.writeError(w, wellnesserrors.NewInvalidRequestError(err.Error()))
		return
	}
	if !result.Valid() {
		details := ""
		for i, desc := range result.Errors() {
			if i > 0 {
				details += "; "
			}
			details += desc.String()
		}
		s.writeError(w, wellnesserrors.NewInvalidRequestError(details))
		return
	}

	var req chatRequest
	if msg, ok := raw["message"].(string); ok {
		req.Message = msg
	}
	if id, ok := raw["sessionId"].(string); ok {
		req.SessionID = id
	}

	session, err := s.session(req.SessionID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	reply := s.bot.SubmitQuery(r.Context(), session, req.Message)

	s.writeJSON(w, http.StatusOK, chatResponse{
		Reply:     reply,
		SessionID: session.ID(),
	})
}

func (s *Server) handleChatReset(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("session")

	s.mu.Lock()
	session, ok := s.sessions[id]
	s.mu.Unlock()

	if !ok {
		s.writeStatusError(w, http.StatusNotFound,
			wellnesserrors.NewInvalidRequestError("unknown session: "+id))
		return
	}

	session.Reset()
	w.WriteHeader(http.StatusNoContent)
}

// session returns the existing session for id, or creates a new one when id
// is empty or unknown. The session map is capped; stale unknown IDs simply
// get a fresh conversation.
func (s *Server) session(id string) (*chatbot.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id != "" {
		if session, ok := s.sessions[id]; ok {
			return session, nil
		}
	}

	if s.maxSessions > 0 && len(s.sessions) >= s.maxSessions {
		return nil, wellnesserrors.NewInvalidRequestError("session limit reached, retry later")
	}

	session := chatbot.NewSession()
	s.sessions[session.ID()] = session
	return session, nil
}

// ==========================
// Dashboard
// ==========================

func (s *Server) handleSummary(w http.ResponseWriter, _ *http.Request) {
	summary, ok := dashboard.ComputeSummary(s.stores.Current())
	if !ok {
		s.writeError(w, wellnesserrors.NewDataUnavailableError("no employee data loaded"))
		return
	}
	s.writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleDepartments(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"departments": dashboard.DepartmentNames(s.stores.Current()),
	})
}

func (s *Server) handleRankings(w http.ResponseWriter, _ *http.Request) {
	snap := s.stores.Current()
	if snap == nil {
		s.writeError(w, wellnesserrors.NewDataUnavailableError("no employee data loaded"))
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"rankings": dashboard.Rankings(snap),
	})
}

func (s *Server) handleCorrelations(w http.ResponseWriter, _ *http.Request) {
	corr, ok := dashboard.ComputeCorrelations(s.stores.Current())
	if !ok {
		s.writeError(w, wellnesserrors.NewDataUnavailableError("not enough data for correlations"))
		return
	}
	s.writeJSON(w, http.StatusOK, corr)
}

func (s *Server) handleEmployees(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	req := dashboard.SearchRequest{
		Term:       q.Get("q"),
		Department: q.Get("department"),
		Offset:     parseIntParam(q.Get("offset"), 0),
		Limit:      parseIntParam(q.Get("limit"), defaultPageSize),
	}
	if req.Limit > maxPageSize {
		req.Limit = maxPageSize
	}

	s.writeJSON(w, http.StatusOK, dashboard.SearchEmployees(s.stores.Current(), req))
}

func (s *Server) handleEmployee(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	snap := s.stores.Current()
	if snap == nil {
		s.writeError(w, wellnesserrors.NewDataUnavailableError("no employee data loaded"))
		return
	}

	emp, ok := snap.EmployeeByID(id)
	if !ok {
		s.writeError(w, wellnesserrors.NewEmployeeNotFoundError(id))
		return
	}
	s.writeJSON(w, http.StatusOK, emp)
}

// ==========================
// Operations
// ==========================

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if s.refresh == nil {
		s.writeError(w, wellnesserrors.NewDataUnavailableError("refresh is not configured"))
		return
	}

	start := time.Now()
	if err := s.refresh(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}

	snap := s.stores.Current()
	s.logger.Info("manual refresh complete", map[string]interface{}{
		"employees":  snap.Len(),
		"durationMs": time.Since(start).Milliseconds(),
	})

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "refreshed",
		"employees": snap.Len(),
		"version":   snap.Version(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	status := map[string]interface{}{
		"status": "ok",
		"loaded": s.stores.Current() != nil,
	}
	s.writeJSON(w, http.StatusOK, status)
}

// ==========================
// Helpers
// ==========================

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("response encode failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status, body := wellnesserrors.ToHTTPError(err)
	s.writeJSON(w, status, body)
}

func (s *Server) writeStatusError(w http.ResponseWriter, status int, err error) {
	_, body := wellnesserrors.ToHTTPError(err)
	s.writeJSON(w, status, body)
}

func parseIntParam(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
