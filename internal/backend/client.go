package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

var (
	// ErrUnavailable wraps transport failures: DNS, refused, timeouts.
	ErrUnavailable = errors.New("maintenance api unavailable")
	// ErrMalformedResponse means the body was not the JSON we expected.
	ErrMalformedResponse = errors.New("malformed response from maintenance api")
)

// APIError is a non-2xx answer. Message is the API's own message when it
// sent one.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("maintenance api: %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("maintenance api: status %d", e.Status)
}

// Client talks to the maintenance REST API. It never retries; callers
// surface the failure.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req, nil
}

func (c *Client) jsonRequest(ctx context.Context, method, path string, payload any) (*http.Request, error) {
	if payload == nil {
		return c.newRequest(ctx, method, path, nil, "")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s %s: %w", method, path, err)
	}
	return c.newRequest(ctx, method, path, bytes.NewReader(body), "application/json")
}

// do sends req and returns the body of a 2xx response. Other statuses
// become *APIError with whatever message the body carried.
func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("[backend] %s %s: %v", req.Method, req.URL.Path, err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: messageFrom(body)}
		log.Printf("[backend] %s %s: %v", req.Method, req.URL.Path, apiErr)
		return nil, apiErr
	}
	return body, nil
}

func messageFrom(body []byte) string {
	var env struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &env) != nil {
		return ""
	}
	if env.Message != "" {
		return env.Message
	}
	return env.Error
}

func decode(body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

// unwrap returns the value under key when body is an object holding it,
// otherwise body itself. The API answers both {data: [...]} and [...].
func unwrap(body []byte, key string) json.RawMessage {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return trimmed
	}
	var env map[string]json.RawMessage
	if json.Unmarshal(trimmed, &env) != nil {
		return trimmed
	}
	if inner, ok := env[key]; ok && !bytes.Equal(bytes.TrimSpace(inner), []byte("null")) {
		return inner
	}
	return trimmed
}
