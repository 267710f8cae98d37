package sdk

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
)

// Client talks to a webrag server.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Option configures the Client.
type Option func(*Client)

// WithAPIKey sends the key as a Bearer token.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithHTTPClient replaces the default HTTP client.
// The default has no overall timeout so long ingestions and chat streams are bounded by ctx only.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a client for the server at baseURL (e.g. "http://localhost:8080").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Transport: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				ResponseHeaderTimeout: 10 * time.Minute,
				IdleConnTimeout:       90 * time.Second,
			},
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Ingest asks the server to ingest urls. mode may be empty to use the server default.
// When a fail-fast run is aborted the error is an *APIError whose Results hold the partial report.
func (c *Client) Ingest(ctx context.Context, urls []string, mode string) (IngestResponse, error) {
	var out IngestResponse
	if err := c.postJSON(ctx, "/api/v1/ingest", IngestRequest{URLs: urls, Mode: mode}, &out); err != nil {
		return IngestResponse{}, err
	}
	return out, nil
}

// Context returns the grounded prompt for query. limit 0 uses the server default.
func (c *Client) Context(ctx context.Context, query string, limit int) (ContextResponse, error) {
	var out ContextResponse
	if err := c.postJSON(ctx, "/api/v1/context", ContextRequest{Query: query, Limit: limit}, &out); err != nil {
		return ContextResponse{}, err
	}
	return out, nil
}

// Chat streams the answer to messages into w as it arrives.
func (c *Client) Chat(ctx context.Context, messages []Message, w io.Writer) (ChatInfo, error) {
	resp, err := c.do(ctx, http.MethodPost, "/api/v1/chat", map[string]any{"messages": messages})
	if err != nil {
		return ChatInfo{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return ChatInfo{}, decodeAPIError(resp)
	}

	info := ChatInfo{Degraded: resp.Header.Get("X-Context-Degraded") == "true"}
	n, err := io.Copy(w, resp.Body)
	info.Bytes = n
	if err != nil {
		return info, fmt.Errorf("read chat stream: %w", err)
	}
	return info, nil
}

// Health returns the server health. A degraded server answers 503 with the same body, which is not an error here.
func (c *Client) Health(ctx context.Context) (Health, error) {
	resp, err := c.do(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return Health{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusServiceUnavailable {
		return Health{}, decodeAPIError(resp)
	}
	var h Health
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		return Health{}, fmt.Errorf("decode health: %w", err)
	}
	return h, nil
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	resp, err := c.do(ctx, http.MethodPost, path, in)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return decodeAPIError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, in any) (*http.Response, error) {
	var body io.Reader = http.NoBody
	if in != nil {
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(in); err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = &buf
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return errors.Join(apiErr, fmt.Errorf("read error body: %w", err))
	}
	if len(data) > 0 && json.Unmarshal(data, apiErr) != nil {
		apiErr.Message = strings.TrimSpace(string(data))
	}
	return apiErr
}
