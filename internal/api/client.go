package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"worklog/internal/config"
	"worklog/internal/domain"
	apperrors "worklog/internal/errors"
	"worklog/internal/logging"
)

// Client is the REST implementation of API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	maxRetries int
	backoff    func(attempt int) time.Duration
	cache      *ProjectCache
	logger     *slog.Logger
}

// NewClient creates a client from the remote configuration.
func NewClient(cfg config.RemoteConfig, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		maxRetries: cfg.MaxRetries,
		backoff:    backoff,
		cache:      NewProjectCache(cfg.ProjectCacheTTL),
		logger:     logging.OrDiscard(logger),
	}
}

// statusError is a non-2xx response after retries.
type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.status, e.body)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}, header http.Header) ([]byte, error) {
	var data []byte
	if body != nil {
		var err error
		data, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}
	}

	c.logger.Debug("work-log API request", "method", method, "path", path)

	var resp *http.Response
	requestStart := time.Now()
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := c.newRequest(ctx, method, path, data, header)
		if err != nil {
			return nil, err
		}

		resp, err = c.httpClient.Do(req)
		if err != nil {
			if attempt == c.maxRetries || ctx.Err() != nil {
				c.logger.Error("API request transport error", "method", method, "path", path, "error", err, "elapsed", time.Since(requestStart))
				return nil, fmt.Errorf("sending request: %w", err)
			}
			c.logger.Debug("API request transport error, retrying", "method", method, "path", path, "attempt", attempt+1, "error", err)
			if err := c.wait(ctx, attempt); err != nil {
				return nil, err
			}
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			if attempt == c.maxRetries {
				break
			}
			resp.Body.Close()
			c.logger.Debug("API request retryable error", "method", method, "path", path, "status", resp.StatusCode, "attempt", attempt+1)
			if err := c.wait(ctx, attempt); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	c.logger.Debug("work-log API response", "method", method, "path", path, "status", resp.StatusCode, "bytes", len(respBody), "elapsed", time.Since(requestStart))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("API request failed", "method", method, "path", path, "status", resp.StatusCode, "response", truncate(string(respBody), 200))
		return nil, &statusError{status: resp.StatusCode, body: truncate(string(respBody), 200)}
	}

	return respBody, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, data []byte, header http.Header) (*http.Request, error) {
	var reqBody io.Reader
	if data != nil {
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	for k, v := range header {
		req.Header[k] = v
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return req, nil
}

func (c *Client) wait(ctx context.Context, attempt int) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(c.backoff(attempt)):
		return nil
	}
}

func backoff(attempt int) time.Duration {
	return time.Duration(math.Pow(2, float64(attempt))) * time.Second
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// persistenceError wraps a request failure, keeping the HTTP status when known
func persistenceError(op string, err error) *apperrors.AppError {
	appErr := apperrors.NewPersistenceError(op, err)
	var se *statusError
	if errors.As(err, &se) {
		appErr.WithContext("status", se.status)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		appErr.WithContext("timeout", true)
	}
	return appErr
}

// GetProjectByID returns the project with the given ID, served from cache
// while fresh.
func (c *Client) GetProjectByID(ctx context.Context, id string) (*domain.Project, error) {
	if cached, ok := c.cache.Get(id); ok {
		return cached, nil
	}

	data, err := c.doRequest(ctx, http.MethodGet, "/projects/"+url.PathEscape(id), nil, nil)
	if err != nil {
		var se *statusError
		if errors.As(err, &se) && se.status == http.StatusNotFound {
			return nil, apperrors.NewNotFoundError("project", id)
		}
		return nil, persistenceError("get project", err)
	}

	var resp projectResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, persistenceError("get project", fmt.Errorf("parsing project response: %w", err))
	}

	project := resp.toDomain()
	c.cache.Set(*project)
	return project, nil
}

// CreateWorkLog creates a record and returns its ID. Retries within one call
// share an Idempotency-Key so the backend can drop duplicates.
func (c *Client) CreateWorkLog(ctx context.Context, req CreateWorkLogRequest) (string, error) {
	header := http.Header{}
	header.Set("Idempotency-Key", uuid.New().String())

	data, err := c.doRequest(ctx, http.MethodPost, "/work-logs", req, header)
	if err != nil {
		return "", persistenceError("create work log", err)
	}

	var created createWorkLogResponse
	if err := json.Unmarshal(data, &created); err != nil {
		return "", persistenceError("create work log", fmt.Errorf("parsing work log response: %w", err))
	}
	if created.ID == "" {
		return "", persistenceError("create work log", errors.New("response has no id"))
	}

	return created.ID, nil
}

// UpdateWorkLog overwrites the record with the given ID.
func (c *Client) UpdateWorkLog(ctx context.Context, id string, req UpdateWorkLogRequest) error {
	if _, err := c.doRequest(ctx, http.MethodPut, "/work-logs/"+url.PathEscape(id), req, nil); err != nil {
		return persistenceError("update work log", err).WithContext("work_log_id", id)
	}
	return nil
}
