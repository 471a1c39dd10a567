// Package apiclient wraps the remote clinic API: identity calls used by the
// session layer and thin read wrappers used by the dashboard views.
//
// Every call is attempted exactly once. Transport failures and non-2xx
// responses are returned to the caller; nothing is retried or swallowed here.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"altheia/internal/logger"
)

const (
	defaultTimeout = 10 * time.Second
	// maxBodySize caps how much of a response is read.
	maxBodySize = 1 << 20
)

type Client struct {
	client *http.Client
	url    string
	log    *slog.Logger
}

type Option func(*options)

type options struct {
	timeout   time.Duration
	transport http.RoundTripper
	log       *slog.Logger
}

func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.transport = rt }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.log = l }
}

func New(baseURL string, opts ...Option) *Client {
	o := options{timeout: defaultTimeout, log: logger.Discard()}
	for _, opt := range opts {
		opt(&o)
	}

	return &Client{
		client: &http.Client{
			Timeout:   o.timeout,
			Transport: newLoggingTransport(o.transport, o.log),
		},
		url: strings.TrimRight(baseURL, "/"),
		log: o.log,
	}
}

// do sends one JSON request. in may be nil for bodyless calls, out may be
// nil when the response body is not needed.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request in JSON: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := TokenFromContext(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, respBody)
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
