package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wellness-dashboard/internal/chatbot"
	wellnesserrors "wellness-dashboard/internal/common/errors"
	"wellness-dashboard/internal/common/logger"
	"wellness-dashboard/internal/models"
	"wellness-dashboard/internal/store"
)

// ==========================
// Test Helper Functions
// ==========================

func testSnapshot() *store.Snapshot {
	return store.NewSnapshot([]models.EmployeeRecord{
		{EmployeeID: "EMP001", Name: "Employee 1", Department: "Engineering", HeartRate: 96, SpO2: 93, StressScore: 82, Mood: models.MoodTense},
		{EmployeeID: "EMP002", Name: "Employee 2", Department: "Engineering", HeartRate: 88, SpO2: 94, StressScore: 78, Mood: models.MoodTense},
		{EmployeeID: "EMP003", Name: "Employee 3", Department: "Finance", HeartRate: 68, SpO2: 99, StressScore: 38, Mood: models.MoodRelaxed},
	})
}

func newTestServer(t *testing.T, snap *store.Snapshot, refresh RefreshFunc, maxSessions int) *Server {
	t.Helper()

	stores := store.NewManager()
	if snap != nil {
		stores.Swap(snap)
	}

	log := logger.NewTestLogger(t)
	bot := chatbot.New(chatbot.NewResources(), stores, log, chatbot.Options{})

	srv, err := New(bot, stores, refresh, maxSessions, log)
	require.NoError(t, err)
	return srv
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

// ==========================
// Chat endpoint
// ==========================

func TestHandleChat(t *testing.T) {
	srv := newTestServer(t, testSnapshot(), nil, 0)
	mux := srv.Routes()

	rec := doJSON(t, mux, http.MethodPost, "/api/chat", `{"message": "hi"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp chatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Hello! I'm the HR Wellness Assistant. How can I help you today?", resp.Reply)
	assert.NotEmpty(t, resp.SessionID)

	// The same session ID continues the conversation.
	rec = doJSON(t, mux, http.MethodPost, "/api/chat",
		`{"message": "Which department has the highest stress?", "sessionId": "`+resp.SessionID+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var second chatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))
	assert.Equal(t, resp.SessionID, second.SessionID)
	assert.Equal(t,
		"The department with the highest stress level is Engineering with an average stress score of 80.0/100.",
		second.Reply)
}

func TestHandleChat_InvalidRequests(t *testing.T) {
	srv := newTestServer(t, testSnapshot(), nil, 0)
	mux := srv.Routes()

	tests := []struct {
		name string
		body string
	}{
		{"malformed JSON", `{"message": `},
		{"missing message", `{"sessionId": "abc"}`},
		{"wrong message type", `{"message": 42}`},
		{"extra field", `{"message": "hi", "admin": true}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, mux, http.MethodPost, "/api/chat", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var body wellnesserrors.HTTPError
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, wellnesserrors.ErrCodeInvalidRequest, body.Code)
		})
	}
}

func TestHandleChat_EmptyMessageIsAnswered(t *testing.T) {
	// An empty message is a valid request; the bot answers with its prompt.
	srv := newTestServer(t, testSnapshot(), nil, 0)

	rec := doJSON(t, srv.Routes(), http.MethodPost, "/api/chat", `{"message": ""}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp chatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Please ask me a question about employee wellness or department statistics.", resp.Reply)
}

func TestHandleChat_SessionLimit(t *testing.T) {
	srv := newTestServer(t, testSnapshot(), nil, 1)
	mux := srv.Routes()

	rec := doJSON(t, mux, http.MethodPost, "/api/chat", `{"message": "hi"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, mux, http.MethodPost, "/api/chat", `{"message": "hi"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleChatReset(t *testing.T) {
	srv := newTestServer(t, testSnapshot(), nil, 0)
	mux := srv.Routes()

	rec := doJSON(t, mux, http.MethodPost, "/api/chat", `{"message": "hi"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp chatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	rec = doJSON(t, mux, http.MethodDelete, "/api/chat/"+resp.SessionID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, mux, http.MethodDelete, "/api/chat/nonexistent", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ==========================
// Dashboard endpoints
// ==========================

func TestHandleSummary(t *testing.T) {
	srv := newTestServer(t, testSnapshot(), nil, 0)

	rec := doJSON(t, srv.Routes(), http.MethodGet, "/api/summary", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var summary map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.EqualValues(t, 3, summary["totalEmployees"])
	assert.EqualValues(t, 2, summary["departmentCount"])
	assert.EqualValues(t, 2, summary["highStressCount"])
}

func TestHandleSummary_NoData(t *testing.T) {
	srv := newTestServer(t, nil, nil, 0)

	rec := doJSON(t, srv.Routes(), http.MethodGet, "/api/summary", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandleDepartments(t *testing.T) {
	srv := newTestServer(t, testSnapshot(), nil, 0)

	rec := doJSON(t, srv.Routes(), http.MethodGet, "/api/departments", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Departments []string `json:"departments"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"Engineering", "Finance"}, body.Departments)
}

func TestHandleRankings(t *testing.T) {
	srv := newTestServer(t, testSnapshot(), nil, 0)

	rec := doJSON(t, srv.Routes(), http.MethodGet, "/api/rankings", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Rankings []store.DepartmentStats `json:"rankings"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Rankings, 2)
	assert.Equal(t, "Finance", body.Rankings[0].Department)
	assert.Equal(t, "Engineering", body.Rankings[1].Department)
}

func TestHandleCorrelations_NotEnoughData(t *testing.T) {
	snap := store.NewSnapshot([]models.EmployeeRecord{
		{EmployeeID: "EMP001", Name: "Employee 1", Department: "HR", HeartRate: 70, SpO2: 98, StressScore: 30},
	})
	srv := newTestServer(t, snap, nil, 0)

	rec := doJSON(t, srv.Routes(), http.MethodGet, "/api/correlations", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandleEmployees(t *testing.T) {
	srv := newTestServer(t, testSnapshot(), nil, 0)
	mux := srv.Routes()

	rec := doJSON(t, mux, http.MethodGet, "/api/employees?q=employee+3", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Employees []models.EmployeeRecord `json:"employees"`
		Total     int                     `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Total)
	require.Len(t, body.Employees, 1)
	assert.Equal(t, "EMP003", body.Employees[0].EmployeeID)

	rec = doJSON(t, mux, http.MethodGet, "/api/employees?department=Engineering&limit=1&offset=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Total)
	require.Len(t, body.Employees, 1)
	assert.Equal(t, "EMP002", body.Employees[0].EmployeeID)
}

func TestHandleEmployeeByID(t *testing.T) {
	srv := newTestServer(t, testSnapshot(), nil, 0)
	mux := srv.Routes()

	rec := doJSON(t, mux, http.MethodGet, "/api/employees/EMP001", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var emp models.EmployeeRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &emp))
	assert.Equal(t, "Employee 1", emp.Name)

	rec = doJSON(t, mux, http.MethodGet, "/api/employees/EMP999", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ==========================
// Refresh and health
// ==========================

func TestHandleRefresh(t *testing.T) {
	var srv *Server
	refreshed := false
	refresh := func(_ context.Context) error {
		refreshed = true
		srv.stores.Swap(testSnapshot())
		return nil
	}

	srv = newTestServer(t, testSnapshot(), refresh, 0)

	rec := doJSON(t, srv.Routes(), http.MethodPost, "/api/refresh", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, refreshed)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "refreshed", body["status"])
	assert.EqualValues(t, 3, body["employees"])
	assert.NotEmpty(t, body["version"])
}

func TestHandleRefresh_NotConfigured(t *testing.T) {
	srv := newTestServer(t, testSnapshot(), nil, 0)

	rec := doJSON(t, srv.Routes(), http.MethodPost, "/api/refresh", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandleRefresh_Failure(t *testing.T) {
	refresh := func(_ context.Context) error {
		return wellnesserrors.NewSnapshotLoadFailedError(context.DeadlineExceeded)
	}
	srv := newTestServer(t, testSnapshot(), refresh, 0)

	rec := doJSON(t, srv.Routes(), http.MethodPost, "/api/refresh", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t, nil, nil, 0)

	rec := doJSON(t, srv.Routes(), http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, false, body["loaded"])
}
