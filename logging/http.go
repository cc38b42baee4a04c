package logging

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RequestIDHeader is attached to every outbound request so client-side
// entries can be correlated with server logs.
const RequestIDHeader = "X-Request-ID"

// loggingTransport records every request the client layer sends to the
// remote API, with timing and status.
type loggingTransport struct {
	base   http.RoundTripper
	logger *Logger
}

// Transport wraps base with outbound request logging. If base is nil,
// http.DefaultTransport is used.
func Transport(base http.RoundTripper, logger *Logger) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	if logger == nil {
		logger = Discard()
	}
	return &loggingTransport{base: base, logger: logger}
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	requestID := strings.TrimSpace(req.Header.Get(RequestIDHeader))
	if requestID == "" {
		requestID = strings.ToUpper(uuid.New().String())
		req.Header.Set(RequestIDHeader, requestID)
	}

	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	duration := time.Since(start).Milliseconds()

	logCtx := t.logger.WithRequestID(requestID).
		WithCategory("HTTP").
		WithField("method", req.Method).
		WithField("path", req.URL.Path).
		WithField("duration_ms", duration)

	if err != nil {
		logCtx.Error("request failed", err)
		return nil, err
	}

	logCtx.WithField("status", resp.StatusCode).Info("request completed")
	return resp, nil
}
