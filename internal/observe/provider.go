package observe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// InitProvider registers a global meter provider backed by a Prometheus
// exporter. The returned function flushes and closes it.
func InitProvider() (shutdown func(context.Context) error, err error) {
	exp, err := promexporter.New()
	if err != nil {
		return nil, fmt.Errorf("creating prometheus exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exp))
	otel.SetMeterProvider(mp)

	return mp.Shutdown, nil
}

// MetricsServer serves the Prometheus scrape endpoint.
type MetricsServer struct {
	addr     string
	shutdown func(context.Context) error
}

// NewMetricsServer creates a worker serving /metrics on addr. shutdown is
// called once the server stops and may be nil.
func NewMetricsServer(addr string, shutdown func(context.Context) error) *MetricsServer {
	return &MetricsServer{addr: addr, shutdown: shutdown}
}

func (s *MetricsServer) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              s.addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		slog.InfoContext(ctx, "metrics server listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving metrics: %w", err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.WarnContext(ctx, "shutting down metrics server", "error", err)
		}
	}

	if s.shutdown != nil {
		if err := s.shutdown(context.Background()); err != nil {
			slog.WarnContext(ctx, "flushing meter provider", "error", err)
		}
	}
	return nil
}
