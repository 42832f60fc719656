package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrMalformedBody is returned when a successful response does not carry valid JSON
var ErrMalformedBody = errors.New("response body is not valid JSON")

// genericFailureMessage is reported when a failed response carries no message of its own
const genericFailureMessage = "Request failed"

// APIError is a failure reported by the server through a non-success status
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// Client handles communication with the API server
type Client struct {
	// Base URL of the API server, including any version prefix
	BaseURL string

	client *http.Client

	mu        sync.RWMutex
	authToken string
}

// NewClient creates a new API client. A nil httpClient uses one with no timeout,
// leaving failure detection to the transport.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		client:  httpClient,
	}
}

// SetAuthToken sets the bearer token attached to subsequent requests. An empty token disables the header.
func (c *Client) SetAuthToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.authToken = token
}

// AuthToken returns the bearer token currently in use
func (c *Client) AuthToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.authToken
}

// do issues a single request and returns the response body unchanged on success.
// Failed statuses become an *APIError carrying the server's message.
func (c *Client) do(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("error marshalling request: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if token := c.AuthToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	started := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		slog.Debug("API request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			slog.Warn("Failed to close response body", "error", err)
		}
	}(resp.Body)

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}

	slog.Debug("API request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(started),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    failureMessage(responseBody),
		}
	}

	if len(bytes.TrimSpace(responseBody)) == 0 {
		return nil, nil
	}
	if !json.Valid(responseBody) {
		return nil, ErrMalformedBody
	}

	return json.RawMessage(responseBody), nil
}

func failureMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return genericFailureMessage
	}
	if payload.Message != "" {
		return payload.Message
	}
	if payload.Error != "" {
		return payload.Error
	}
	return genericFailureMessage
}
