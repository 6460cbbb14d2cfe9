package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/CameronXie/grubdash/internal/api/rest"
	"github.com/CameronXie/grubdash/internal/api/rest/handlers"
	"github.com/CameronXie/grubdash/internal/api/rest/middlewares"
	"github.com/CameronXie/grubdash/internal/config"
	"github.com/CameronXie/grubdash/internal/events"
	"github.com/CameronXie/grubdash/internal/events/amqp"
	"github.com/CameronXie/grubdash/internal/idgen"
	"github.com/CameronXie/grubdash/internal/repository/memory"
	"github.com/CameronXie/grubdash/internal/service"
	"github.com/CameronXie/grubdash/internal/version"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(
		slog.String("version", version.Version),
	)
	logger.Info("api_starting")

	cfg, err := config.Load()
	if err != nil {
		logger.Error("config_load_failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("api_serve_failed", "error", err)
		os.Exit(1)
	}

	logger.Info("api_stopped")
}

// run wires the API and serves it until ctx is cancelled or the listener fails.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	enforcer, err := newEnforcer(cfg, logger)
	if err != nil {
		return err
	}

	publisher, closePublisher, err := newPublisher(cfg, logger)
	if err != nil {
		return err
	}
	defer closePublisher()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	metrics, err := middlewares.NewMetricsMiddleware(registry)
	if err != nil {
		return err
	}

	ids := idgen.NewUUIDGenerator()
	dishService := service.NewDishService(memory.NewDishRepository(), ids)
	orderService := service.NewOrderService(
		memory.NewOrderRepository(),
		ids,
		logger,
		service.WithPublisher(publisher),
		service.WithStatusNormalization(cfg.NormalizeOrderStatus),
	)

	router := rest.NewRouter(&rest.RouterConfig{
		DishHandler:     handlers.NewDishHandler(dishService, logger),
		OrderHandler:    handlers.NewOrderHandler(orderService, logger),
		OperationPolicy: middlewares.NewOperationPolicyMiddleware(enforcer, logger),
		Metrics:         metrics,
		MetricsHandler:  promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	})

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      middlewares.NewAccessLogMiddleware(logger).Handle(router),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("api_listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("api_shutting_down", "timeout", cfg.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// newPublisher returns the order event publisher and a func releasing its broker resources.
// Without AMQP_URL events are only logged.
func newPublisher(cfg *config.Config, logger *slog.Logger) (events.Publisher, func(), error) {
	if cfg.AMQPURL == "" {
		logger.Info("order events will be logged only")
		return events.NewLogPublisher(logger), func() {}, nil
	}

	publisher, conn, err := amqp.Dial(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("publishing order events", "exchange", cfg.AMQPExchange)

	return publisher, func() {
		if err := publisher.Close(); err != nil {
			logger.Error("failed to close amqp channel", "error", err)
		}

		if err := conn.Close(); err != nil {
			logger.Error("failed to close amqp connection", "error", err)
		}
	}, nil
}
