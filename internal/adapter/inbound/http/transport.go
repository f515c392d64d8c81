package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/scenecast/scenecast/internal/domain/auth"
	"github.com/scenecast/scenecast/internal/domain/session"
	"github.com/scenecast/scenecast/internal/service"
)

// Transport is the inbound adapter exposing the control protocol over
// HTTP. Clients open a session with a handshake, then submit request
// envelopes with the session ID as a bearer token.
type Transport struct {
	requests      *service.RequestService
	sessions      *session.SessionService
	authenticator *auth.Authenticator
	server        *http.Server
	addr          string
	logger        *slog.Logger
	metrics       *Metrics
	sessionCount  func() float64
}

// Option is a functional option for configuring Transport.
type Option func(*Transport)

// WithAddr sets the listen address. Default is "127.0.0.1:4455"
// (localhost only).
func WithAddr(addr string) Option {
	return func(t *Transport) {
		t.addr = addr
	}
}

// WithLogger sets the logger for the transport.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Transport) {
		t.logger = logger
	}
}

// WithSessionCounter registers a gauge sampling the number of live
// sessions.
func WithSessionCounter(count func() float64) Option {
	return func(t *Transport) {
		t.sessionCount = count
	}
}

// NewTransport creates an HTTP transport for the given services.
func NewTransport(requests *service.RequestService, sessions *session.SessionService, authenticator *auth.Authenticator, opts ...Option) *Transport {
	t := &Transport{
		requests:      requests,
		sessions:      sessions,
		authenticator: authenticator,
		addr:          "127.0.0.1:4455",
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Handler builds the route table. Exposed separately from Start so
// tests can drive the transport through httptest.
func (t *Transport) Handler() http.Handler {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	t.metrics = NewMetrics(reg)

	if t.sessionCount != nil {
		reg.MustRegister(prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Namespace: "scenecast",
				Name:      "active_sessions",
				Help:      "Number of live sessions",
			},
			t.sessionCount,
		))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/session", t.handleHandshake)
	mux.HandleFunc("DELETE /api/v1/session", t.handleSessionDelete)
	mux.HandleFunc("POST /api/v1/rpc", t.handleRPC)
	mux.Handle("GET /health", healthHandler())
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{
		Registry: reg,
	}))

	return mux
}

// Start begins accepting connections. It blocks until the context is
// cancelled or the server fails.
func (t *Transport) Start(ctx context.Context) error {
	t.server = &http.Server{
		Addr:              t.addr,
		Handler:           t.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		t.logger.Info("starting HTTP server", "addr", t.addr)
		if err := t.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		t.logger.Info("context cancelled, shutting down HTTP server")
		return t.shutdown()
	case err := <-errCh:
		return err
	}
}

// shutdown performs graceful shutdown of the HTTP server.
func (t *Transport) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := t.server.Shutdown(ctx); err != nil {
		t.logger.Error("error during server shutdown", "error", err)
		return err
	}

	t.logger.Info("HTTP server shutdown complete")
	return nil
}

// Close gracefully shuts down the transport.
func (t *Transport) Close() error {
	if t.server == nil {
		return nil
	}
	return t.shutdown()
}
