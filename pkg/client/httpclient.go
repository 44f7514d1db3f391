package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"sitekit/pkg/logger"
)

const (
	HeaderRequestID   = "X-Request-ID"
	HeaderContentType = "Content-Type"
	ContentTypeJSON   = "application/json"

	DefaultTimeout = 10 * time.Second
)

type HttpClient struct {
	BaseURL    string
	HTTPClient *http.Client
	Log        *logger.Logger
}

func NewHttpClient(baseURL string, timeout time.Duration, log *logger.Logger) *HttpClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = logger.Discard()
	}
	return &HttpClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		Log: log.Component("http_client"),
	}
}

type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	RequestID  string
}

func (r *Response) DecodeJSON(target any) error {
	return json.Unmarshal(r.Body, target)
}

func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// PostJSON marshals body, posts it to path and returns the raw response.
// Non-2xx statuses are not errors; only transport and encoding failures are.
func (c *HttpClient) PostJSON(ctx context.Context, path string, body any) (*Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, data)
}

func (c *HttpClient) GET(ctx context.Context, path string) (*Response, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

func (c *HttpClient) do(ctx context.Context, method, path string, body []byte) (*Response, error) {
	url := c.BaseURL + path
	requestID := uuid.NewString()

	var reqBody io.Reader
	if body != nil {
		reqBody = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set(HeaderContentType, ContentTypeJSON)
	}
	req.Header.Set(HeaderRequestID, requestID)

	c.Log.Debug("Sending request",
		"request_id", requestID,
		"method", method,
		"url", url,
		"body", string(body),
	)

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.Log.Debug("Request failed",
			"request_id", requestID,
			"error", err,
		)
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	c.Log.Debug("Received response",
		"request_id", requestID,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
		"body", string(respBody),
	)

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respBody,
		RequestID:  requestID,
	}, nil
}

func (c *HttpClient) WaitForHealthy(ctx context.Context, maxWait time.Duration) error {
	deadline := time.Now().Add(maxWait)
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for time.Now().Before(deadline) {
		resp, err := c.GET(ctx, "/health")
		if err == nil && resp.StatusCode == http.StatusOK {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}

	return fmt.Errorf("service did not become healthy within %v", maxWait)
}

type envelope struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// GetErrorMessage returns the "error" field of a JSON response body, or ""
// when the body is not JSON or carries no error text.
func GetErrorMessage(resp *Response) string {
	if resp == nil {
		return ""
	}
	var env envelope
	if err := resp.DecodeJSON(&env); err != nil {
		return ""
	}
	return strings.TrimSpace(env.Error)
}

// GetMessage returns the "message" field of a JSON response body, or "".
func GetMessage(resp *Response) string {
	if resp == nil {
		return ""
	}
	var env envelope
	if err := resp.DecodeJSON(&env); err != nil {
		return ""
	}
	return strings.TrimSpace(env.Message)
}
