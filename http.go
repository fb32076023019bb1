package main

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

// logRoundTripper wraps an http.RoundTripper and logs every request and
// response at debug level so API traffic can be inspected with --debug.
type logRoundTripper struct {
	next   http.RoundTripper
	logger *log.Logger
}

func newLoggingTransport(next http.RoundTripper, logger *log.Logger) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &logRoundTripper{next: next, logger: logger}
}

func (l *logRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	l.logger.Debug("api request", "method", req.Method, "url", req.URL.String())

	start := time.Now()
	resp, err := l.next.RoundTrip(req)
	if err != nil {
		l.logger.Error("api request failed", "method", req.Method, "url", req.URL.String(), "error", err)
		return nil, err
	}

	l.logger.Debug("api response",
		"status", resp.Status,
		"duration", time.Since(start),
		"method", req.Method,
		"url", req.URL.String(),
	)

	return resp, nil
}
