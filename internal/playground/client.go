package playground

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultBaseURL is the public Rust playground.
const DefaultBaseURL = "https://play.rust-lang.org"

// DefaultTimeout bounds each remote call.
const DefaultTimeout = 30 * time.Second

// ErrRequest matches every failure to talk to the playground.
var ErrRequest = errors.New("playground request failed")

// RequestError describes a failed playground call.
type RequestError struct {
	Op  string
	Err error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("playground %s: %v", e.Op, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

func (e *RequestError) Is(target error) bool { return target == ErrRequest }

// Runner is the playground surface the bot depends on.
type Runner interface {
	CreateShareLink(ctx context.Context, task Task) (string, error)
	Execute(ctx context.Context, task Task) (*ExecutionResult, error)
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets the HTTP client used for playground requests.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) { cl.httpClient = c }
}

// WithTimeout sets the per-call timeout. Zero disables it.
func WithTimeout(d time.Duration) ClientOption {
	return func(cl *Client) { cl.timeout = d }
}

// WithLogger sets the logger for the client.
func WithLogger(l *zap.Logger) ClientOption {
	return func(cl *Client) { cl.logger = l }
}

// Client talks to a playground instance over HTTP+JSON.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	logger     *zap.Logger
}

// NewClient creates a playground client for the given base URL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		timeout:    DefaultTimeout,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type gistRequest struct {
	Code string `json:"code"`
}

type gistResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CreateShareLink stores the task's code as a gist and returns a playground
// URL that opens it on the task's channel.
func (c *Client) CreateShareLink(ctx context.Context, task Task) (string, error) {
	var gist gistResponse
	if err := c.post(ctx, "/meta/gist/", gistRequest{Code: task.Code()}, &gist); err != nil {
		return "", &RequestError{Op: "share", Err: err}
	}
	if gist.ID == "" {
		return "", &RequestError{Op: "share", Err: errors.New("response has no gist id")}
	}
	return ShareLink(c.baseURL, task.Channel(), gist.ID), nil
}

// Execute compiles and runs the task. A failed build is a normal result.
func (c *Client) Execute(ctx context.Context, task Task) (*ExecutionResult, error) {
	var result ExecutionResult
	if err := c.post(ctx, "/execute", task, &result); err != nil {
		return nil, &RequestError{Op: "execute", Err: err}
	}
	return &result, nil
}

// ShareLink builds the playground URL for a stored gist.
func ShareLink(baseURL string, channel Channel, gistID string) string {
	return fmt.Sprintf("%s/?version=%s&mode=%s&edition=%s&gist=%s",
		strings.TrimRight(baseURL, "/"), channel, Mode, Edition, gistID)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	c.logger.Debug("playground call",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
