package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worklog/internal/config"
	"worklog/internal/domain"
	apperrors "worklog/internal/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.NewConfig().Remote
	cfg.BaseURL = server.URL + "/"
	cfg.Token = "secret"
	cfg.MaxRetries = 2

	client := NewClient(cfg, nil)
	client.backoff = func(int) time.Duration { return time.Millisecond }
	return client
}

func TestClient_GetProjectByID(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/projects/p1", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		json.NewEncoder(w).Encode(map[string]string{
			"id":          "p1",
			"title":       "Site renewal",
			"companyName": "Acme",
		})
	})

	project, err := client.GetProjectByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", project.ID)
	assert.Equal(t, "Site renewal", project.Title)
	assert.Equal(t, "Acme", project.CompanyName)

	// Second lookup is served from cache
	_, err = client.GetProjectByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_GetProjectByID_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such project", http.StatusNotFound)
	})

	_, err := client.GetProjectByID(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))
}

func TestClient_CreateWorkLog(t *testing.T) {
	start := time.Date(2026, 3, 31, 9, 0, 0, 0, time.UTC)

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/work-logs", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("Idempotency-Key"))

		var body map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "p1", body["projectId"])
		assert.Equal(t, "2026-03-31T09:00:00Z", body["startTime"])

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"wl-1"}`))
	})

	id, err := client.CreateWorkLog(context.Background(), CreateWorkLogRequest{ProjectID: "p1", StartTime: start})
	require.NoError(t, err)
	assert.Equal(t, "wl-1", id)
}

func TestClient_CreateWorkLog_RetriesKeepIdempotencyKey(t *testing.T) {
	var (
		mu   sync.Mutex
		keys []string
	)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		keys = append(keys, r.Header.Get("Idempotency-Key"))
		attempt := len(keys)
		mu.Unlock()

		if attempt < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"id":"wl-1"}`))
	})

	id, err := client.CreateWorkLog(context.Background(), CreateWorkLogRequest{ProjectID: "p1", StartTime: time.Now()})
	require.NoError(t, err)
	assert.Equal(t, "wl-1", id)

	require.Len(t, keys, 3)
	assert.Equal(t, keys[0], keys[1])
	assert.Equal(t, keys[1], keys[2])
}

func TestClient_CreateWorkLog_MissingID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	_, err := client.CreateWorkLog(context.Background(), CreateWorkLogRequest{ProjectID: "p1"})
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypePersistence))
}

func TestClient_UpdateWorkLog(t *testing.T) {
	start := time.Date(2026, 3, 31, 9, 0, 0, 0, time.UTC)
	end := start.Add(8 * time.Hour)

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/work-logs/wl-1", r.URL.Path)

		var body map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "p1", body["projectId"])
		assert.Equal(t, "2026-03-31T17:00:00Z", body["endTime"])
		assert.Equal(t, "review", body["memo"])
		assert.Equal(t, float64(45), body["breakTime"])

		w.WriteHeader(http.StatusNoContent)
	})

	req := NewUpdateRequest(domain.WorkLogDraft{
		ProjectID: "p1",
		StartTime: &start,
		EndTime:   &end,
		BreakTime: 45*time.Minute + 30*time.Second,
		Memo:      "review",
	})
	require.NoError(t, client.UpdateWorkLog(context.Background(), "wl-1", req))
}

func TestClient_UpdateWorkLog_Failure(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	err := client.UpdateWorkLog(context.Background(), "wl-1", UpdateWorkLogRequest{ProjectID: "p1"})
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypePersistence, appErr.Type)
	status, _ := appErr.GetContext("status")
	assert.Equal(t, http.StatusInternalServerError, status)
	// One attempt plus two retries
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClient_ClientErrorsAreNotRetried(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "bad request", http.StatusBadRequest)
	})

	err := client.UpdateWorkLog(context.Background(), "wl-1", UpdateWorkLogRequest{})
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_ContextCancelled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	client.backoff = func(int) time.Duration { return time.Hour }

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := client.UpdateWorkLog(ctx, "wl-1", UpdateWorkLogRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewUpdateRequest_OmitsEmptyMemo(t *testing.T) {
	req := NewUpdateRequest(domain.WorkLogDraft{ProjectID: "p1"})

	data, err := json.Marshal(req)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "memo")
	assert.NotContains(t, string(data), "endTime")
	assert.Contains(t, string(data), `"breakTime":0`)
}
