// Package app assembles the production plan service from its configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/kilianp07/powerplant/api/solve"
	"github.com/kilianp07/powerplant/app/plugins"
	"github.com/kilianp07/powerplant/config"
	"github.com/kilianp07/powerplant/core/dispatch"
	coremetrics "github.com/kilianp07/powerplant/core/metrics"
	coremon "github.com/kilianp07/powerplant/core/monitoring"
	coremqtt "github.com/kilianp07/powerplant/core/mqtt"
	"github.com/kilianp07/powerplant/infra/logger"
	"github.com/kilianp07/powerplant/infra/metrics"
	"github.com/kilianp07/powerplant/infra/monitoring"
	"github.com/kilianp07/powerplant/infra/mqtt"
	"github.com/kilianp07/powerplant/internal/eventbus"
)

const shutdownTimeout = 5 * time.Second

// Service wires the dispatch manager to the HTTP API, metrics and setpoint
// publication.
type Service struct {
	Manager  *dispatch.DispatchManager
	cfg      *config.Config
	sink     coremetrics.MetricsSink
	bus      eventbus.EventBus
	client   *mqtt.PahoClient
	handler  http.Handler
	log      logger.Logger
	promAddr string
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")
	if _, err := monitoring.Setup(cfg.Sentry); err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}

	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}

	var (
		publisher coremqtt.Client
		client    *mqtt.PahoClient
	)
	if cfg.SetpointsEnabled() {
		client, err = mqtt.NewPahoClient(cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("mqtt client: %w", err)
		}
		publisher = client
	}

	bus := eventbus.New()
	manager, err := dispatch.NewDispatchManager(
		dispatch.NewSolver(cfg.Solver),
		publisher,
		cfg.Solver.AckTimeout(),
		sink,
		bus,
		logger.New("dispatch"),
	)
	if err != nil {
		return nil, fmt.Errorf("dispatch manager: %w", err)
	}
	manager.SetLowerBound(cfg.Solver.LowerBound)

	var logs solve.LogQuerier
	if mc, ok := plugins.LogStoreConfig(cfg.Logging); ok {
		store, err := plugins.NewLogStore(mc)
		if err != nil {
			return nil, fmt.Errorf("log store: %w", err)
		}
		manager.SetLogStore(store)
		logs = store
	}

	svc := &Service{
		Manager:  manager,
		cfg:      cfg,
		sink:     sink,
		bus:      bus,
		client:   client,
		log:      logg,
		promAddr: cfg.Metrics.PrometheusPort,
	}
	svc.handler = solve.NewRouter(solve.RouterConfig{
		Solver: manager,
		Logs:   logs,
		Token:  cfg.HTTP.Token,
		Logger: logger.New("api"),
	})
	return svc, nil
}

// Handler returns the HTTP API of the service.
func (s *Service) Handler() http.Handler { return s.handler }

// Run serves the API until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	collectorDone := metrics.StartEventCollector(ctx, s.bus, s.sink)
	if s.promAddr != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promAddr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:              s.cfg.HTTP.Address,
		Handler:           s.handler,
		ReadTimeout:       s.cfg.HTTP.ReadTimeout(),
		ReadHeaderTimeout: s.cfg.HTTP.ReadTimeout(),
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("listening on %s", s.cfg.HTTP.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.log.Errorf("http shutdown: %v", err)
	}
	s.bus.Close()
	<-collectorDone
	return nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.client != nil {
		s.client.Disconnect()
	}
	if c, ok := s.sink.(interface{ Close() }); ok {
		c.Close()
	}
	coremon.Flush(shutdownTimeout)
	return s.Manager.Close()
}
