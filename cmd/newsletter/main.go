package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"newsletter_client/internal/api"
	"newsletter_client/internal/config"
	"newsletter_client/internal/eventloop"
	"newsletter_client/internal/metrics"
	"newsletter_client/internal/publisher"
	"newsletter_client/internal/service"
)

const usage = `usage: newsletter [-config path] <command> [flags]

commands:
  topics                              list the topic catalog
  preview -topics a,b                 show recent newsletters for topics
  subscribe -email E -topics a,b      subscribe to topics
  unsubscribe -token T [-yes]         show or confirm an unsubscribe link
  show -id ID                         show one newsletter
  health                              probe the API
`

type app struct {
	cfg       *config.Config
	loop      *eventloop.Loop
	client    *api.Client
	publisher service.Publisher
	recorder  metrics.Recorder
	logger    *slog.Logger
	out       io.Writer
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Usage = func() { fmt.Fprint(flag.CommandLine.Output(), usage) }
	flag.Parse()

	logger := setupLogger("info")

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	a := &app{
		cfg:      cfg,
		loop:     eventloop.New(64, logger),
		recorder: metrics.Nop{},
		logger:   logger,
		out:      os.Stdout,
	}
	defer a.loop.Stop()

	if cfg.Metrics.Addr != "" {
		stop := a.serveMetrics()
		defer stop()
	}

	if cfg.RabbitMQ.URL != "" {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			logger.Error("failed to connect to rabbitmq", "error", err)
			os.Exit(1)
		}
		defer rabbitMQ.Close()
		a.publisher = rabbitMQ
	}

	a.client = api.New(api.Config{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout,
		RateLimit: cfg.API.RateLimit,
		RateBurst: cfg.API.RateBurst,
	}, a.recorder, logger)

	if err := a.run(ctx, flag.Arg(0), flag.Args()[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		logger.Error("command failed", "command", flag.Arg(0), "error", err)
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "topics":
		return a.topics(ctx)
	case "preview":
		return a.preview(ctx, args)
	case "subscribe":
		return a.subscribe(ctx, args)
	case "unsubscribe":
		return a.unsubscribe(ctx, args)
	case "show":
		return a.show(ctx, args)
	case "health":
		return a.health(ctx)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

// serveMetrics exposes the client metrics for the lifetime of the command.
func (a *app) serveMetrics() func() {
	reg := prometheus.NewRegistry()
	a.recorder = metrics.NewCollector(reg)

	srv := &http.Server{
		Addr:              a.cfg.Metrics.Addr,
		Handler:           metrics.Handler(reg),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		a.logger.Info("serving metrics", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server error", "error", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

// runUntil steps the event loop until done reports true.
func (a *app) runUntil(ctx context.Context, done func() bool) error {
	for !done() {
		if err := a.loop.RunOne(ctx); err != nil {
			return fmt.Errorf("run event loop: %w", err)
		}
	}
	return nil
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stderr, opts)
	return slog.New(handler)
}
