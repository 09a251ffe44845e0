// Package gateway is the HTTP client for the remote task service. The rest
// of the application never sees transport detail; every call resolves to a
// typed payload or an *Error carrying the service's message.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/josephgoksu/taskdeck/models"
)

// Error is a failed gateway call: the service refused the request or the
// transport broke. It carries a human-readable message only; callers branch
// on success, never on status codes.
type Error struct {
	Op      string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// ListFilter narrows a list request server-side. Zero values mean no filter.
type ListFilter struct {
	Status models.StatusFilter
	Search string
}

// Client talks to the task service.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a gateway client. A non-positive timeout falls back to
// 30 seconds.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SetToken replaces the bearer token used on subsequent requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

// envelope is the service's uniform response shape.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *errorBody      `json:"error,omitempty"`
}

type errorBody struct {
	Message string `json:"message"`
}

type listTasksData struct {
	Tasks []models.Task `json:"tasks"`
	Total int           `json:"total"`
}

type taskData struct {
	Task models.Task `json:"task"`
}

// ListTasks fetches the caller's tasks, optionally filtered server-side.
func (c *Client) ListTasks(ctx context.Context, filter ListFilter) ([]models.Task, error) {
	q := url.Values{}
	if filter.Status != "" && filter.Status != models.FilterAll {
		q.Set("status", string(filter.Status))
	}
	if filter.Search != "" {
		q.Set("search", filter.Search)
	}
	path := "/api/tasks"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var data listTasksData
	if err := c.do(ctx, "list tasks", http.MethodGet, path, nil, &data); err != nil {
		return nil, err
	}
	return data.Tasks, nil
}

// CreateTask creates a task from the given fields and returns the
// server-confirmed task.
func (c *Client) CreateTask(ctx context.Context, fields models.TaskFields) (models.Task, error) {
	var data taskData
	if err := c.do(ctx, "create task", http.MethodPost, "/api/tasks", fields, &data); err != nil {
		return models.Task{}, err
	}
	return data.Task, nil
}

// UpdateTask applies a partial update and returns the server-confirmed task.
func (c *Client) UpdateTask(ctx context.Context, id int64, fields models.TaskFields) (models.Task, error) {
	var data taskData
	path := fmt.Sprintf("/api/tasks/%d", id)
	if err := c.do(ctx, "update task", http.MethodPut, path, fields, &data); err != nil {
		return models.Task{}, err
	}
	return data.Task, nil
}

// DeleteTask removes a task on the server.
func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/api/tasks/%d", id)
	return c.do(ctx, "delete task", http.MethodDelete, path, nil, nil)
}

// do performs one request/response round trip. A nil body sends no payload;
// a nil out discards the data field. Every failure path returns *Error.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &Error{Op: op, Message: fmt.Sprintf("encode request: %v", err)}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &Error{Op: op, Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Op: op, Message: err.Error()}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Op: op, Message: fmt.Sprintf("read response: %v", err)}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return &Error{Op: op, Message: fmt.Sprintf("malformed response (status %d)", resp.StatusCode)}
	}

	if !env.Success {
		msg := "request failed"
		if env.Error != nil && env.Error.Message != "" {
			msg = env.Error.Message
		}
		return &Error{Op: op, Message: msg}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &Error{Op: op, Message: fmt.Sprintf("decode response: %v", err)}
		}
	}
	return nil
}
