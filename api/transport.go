package api

import (
	"log/slog"
	"net/http"
	"time"
)

// loggingTransport traces every round trip at debug level.
type loggingTransport struct {
	base   http.RoundTripper
	logger *slog.Logger
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		t.logger.Debug("http round trip failed",
			slog.String("method", req.Method),
			slog.String("host", req.URL.Host),
			slog.String("path", req.URL.Path),
			slog.Any("error", err))
		return nil, err
	}
	t.logger.Debug("http round trip",
		slog.String("method", req.Method),
		slog.String("host", req.URL.Host),
		slog.String("path", req.URL.Path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(start)))
	return resp, nil
}

// newLoggingClient wraps base's transport so that calls are traced.
func newLoggingClient(base *http.Client, logger *slog.Logger) *http.Client {
	client := *base
	rt := client.Transport
	if rt == nil {
		rt = http.DefaultTransport
	}
	client.Transport = &loggingTransport{base: rt, logger: logger}
	return &client
}
