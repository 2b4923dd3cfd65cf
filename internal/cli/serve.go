package cli

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/aretw0/turing/pkg/adapters/file"
	turinghttp "github.com/aretw0/turing/pkg/adapters/http"
	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/adapters/redis"
	"github.com/aretw0/turing/pkg/metrics"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/aretw0/turing/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ServiceOptions selects the backing store and extras of a hosted service.
type ServiceOptions struct {
	RedisAddr   string // use Redis for sessions and locks when set
	SessionsDir string // use JSON files when set and Redis is not
	Metrics     bool   // expose Prometheus collectors on /metrics
	Logger      *slog.Logger
}

// Service is a session manager ready to be exposed by a driver.
type Service struct {
	Manager *session.Manager
	Handler http.Handler
	closers []io.Closer
}

// Close releases the store connections.
func (s *Service) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// NewService wires a session manager to its store and builds the HTTP handler.
func NewService(opts ServiceOptions) (*Service, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	svc := &Service{}
	mgrOpts := []session.Option{session.WithLogger(logger)}

	var store ports.SessionStore
	switch {
	case opts.RedisAddr != "":
		rs := redis.New(opts.RedisAddr, "", 0)
		store = rs
		svc.closers = append(svc.closers, rs)
		mgrOpts = append(mgrOpts, session.WithLocker(redis.NewLocker(rs.Client(), rs.Prefix())))
		logger.Info("using redis session store", "addr", opts.RedisAddr)
	case opts.SessionsDir != "":
		store = file.New(opts.SessionsDir)
		logger.Info("using file session store", "dir", opts.SessionsDir)
	default:
		store = memory.NewStore()
	}

	var httpOpts []turinghttp.Option
	httpOpts = append(httpOpts, turinghttp.WithLogger(logger))
	if opts.Metrics {
		reg := prometheus.NewRegistry()
		m, err := metrics.New(reg)
		if err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
		mgrOpts = append(mgrOpts, session.WithLifecycleHooks(m.Hooks()))
		httpOpts = append(httpOpts, turinghttp.WithMetricsHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	}

	svc.Manager = session.NewManager(store, mgrOpts...)
	svc.Handler = turinghttp.NewHandler(svc.Manager, httpOpts...)
	return svc, nil
}
