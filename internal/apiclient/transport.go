package apiclient

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"altheia/internal/logger"
)

// loggingTransport forwards the request id and logs every call made to the
// clinic API.
type loggingTransport struct {
	next http.RoundTripper
	log  *slog.Logger
}

func newLoggingTransport(next http.RoundTripper, log *slog.Logger) *loggingTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &loggingTransport{next: next, log: log}
}

func (t *loggingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	ctx := r.Context()

	if reqID := logger.RequestIDFromContext(ctx); reqID != "" {
		r = r.Clone(ctx)
		r.Header.Set("X-Request-Id", reqID)
	}

	start := time.Now()
	t.log.DebugContext(ctx, "outgoing request", "request", fmt.Sprintf("%s %s", r.Method, r.URL.Redacted()))

	resp, err := t.next.RoundTrip(r)
	if err != nil {
		t.log.WarnContext(ctx, "request failed",
			"request", fmt.Sprintf("%s %s", r.Method, r.URL.Redacted()),
			"error", err,
		)
		return nil, fmt.Errorf("round trip: %w", err)
	}

	t.log.InfoContext(ctx, "api call",
		"request", fmt.Sprintf("%s %s", r.Method, r.URL.Path),
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return resp, nil
}
