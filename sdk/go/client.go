package reports

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pokereports/pokereports/internal/logx"
)

const (
	defaultBaseURL  = "http://localhost:8000"
	defaultTypesURL = "https://pokeapi.co/api/v2/type"
	userAgent       = "pokereports-go-sdk/1.0.0"

	// RequestIDHeader carries the per-request correlation id.
	RequestIDHeader = logx.RequestIDHeader
)

// Client is the main API client for the report service.
type Client struct {
	baseURL    *url.URL
	typesURL   string
	httpClient *http.Client
	userAgent  string
	logger     *slog.Logger

	// Service clients
	Report *ReportService
	Type   *TypeService
}

// NewClient creates a new report service client.
func NewClient(baseURL string, opts ...Option) *Client {
	parsedURL, err := url.Parse(baseURL)
	if err != nil || baseURL == "" {
		parsedURL, _ = url.Parse(defaultBaseURL)
	}

	// Ensure base URL ends without trailing slash for path joining
	parsedURL.Path = strings.TrimSuffix(parsedURL.Path, "/")

	// No timeout unless the caller asks for one.
	c := &Client{
		baseURL:    parsedURL,
		typesURL:   defaultTypesURL,
		httpClient: &http.Client{},
		userAgent:  userAgent,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.Report = &ReportService{client: c}
	c.Type = &TypeService{client: c}

	return c
}

// BaseURL returns the base URL requests are resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// ContextWithRequestID stores a request id that will be sent instead of a
// generated one. It is the same id the CLI tags its log lines with.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return logx.WithRequestID(ctx, requestID)
}

// requestIDFrom returns the id carried by ctx, or a fresh one for a call
// made outside any user action.
func requestIDFrom(ctx context.Context) string {
	if id := logx.RequestIDFromContext(ctx); id != "" {
		return id
	}
	return logx.NormalizeRequestID("")
}

// resolve turns an API path or an absolute URL into a request URL.
func (c *Client) resolve(target string) (*url.URL, error) {
	ref, err := url.Parse(target)
	if err != nil {
		return nil, err
	}
	if ref.IsAbs() {
		return ref, nil
	}
	// Host-relative links (e.g. download URLs) resolve against the server root.
	if strings.HasPrefix(target, "/") {
		return c.baseURL.ResolveReference(ref), nil
	}
	u := *c.baseURL
	u.Path = c.baseURL.Path + "/" + ref.Path
	u.RawPath = c.baseURL.EscapedPath() + "/" + ref.EscapedPath()
	u.RawQuery = ref.RawQuery
	return &u, nil
}

// doRequest performs an HTTP request and returns the raw response.
// Network failures are returned as *TransportError.
func (c *Client) doRequest(ctx context.Context, op, method, target string, body interface{}) (*http.Response, error) {
	u, err := c.resolve(target)
	if err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("invalid request url %q: %w", target, err)}
	}

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := requestIDFrom(ctx)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed",
			"op", op, "method", method, "url", u.String(), "request_id", requestID, "error", err)
		return nil, &TransportError{Op: op, Err: err}
	}

	c.logger.Debug("request completed",
		"op", op,
		"method", method,
		"url", u.String(),
		"status", resp.StatusCode,
		"latency_ms", time.Since(start).Milliseconds(),
		"request_id", requestID,
	)
	return resp, nil
}

// doBody performs a request, checks the status and returns the full response body.
func (c *Client) doBody(ctx context.Context, op, method, target string, body interface{}) ([]byte, error) {
	resp, err := c.doRequest(ctx, op, method, target, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, handleErrorResponse(op, resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: op, StatusCode: resp.StatusCode, Status: statusText(resp), Err: err}
	}
	return data, nil
}

// buildPath builds an API path from segments. Each segment is path-escaped.
func (c *Client) buildPath(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return strings.Join(escaped, "/")
}
