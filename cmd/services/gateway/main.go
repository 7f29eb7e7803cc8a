package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/soltixdb/reportkit/internal/cache"
	"github.com/soltixdb/reportkit/internal/config"
	"github.com/soltixdb/reportkit/internal/datasource"
	"github.com/soltixdb/reportkit/internal/element"
	"github.com/soltixdb/reportkit/internal/expression"
	"github.com/soltixdb/reportkit/internal/format"
	"github.com/soltixdb/reportkit/internal/handlers"
	"github.com/soltixdb/reportkit/internal/logging"
	"github.com/soltixdb/reportkit/internal/models"
	"github.com/soltixdb/reportkit/internal/queue"
	"github.com/soltixdb/reportkit/internal/router"
	"github.com/soltixdb/reportkit/internal/session"
	"github.com/soltixdb/reportkit/internal/subscriber"
)

var (
	Version   = "dev"     // Injected via ldflags during build
	GitCommit = "unknown" // Injected via ldflags during build
	BuildTime = "unknown" // Injected via ldflags during build
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewFromConfig(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetGlobal(logger)
	logger.Info("Gateway service starting...",
		"version", Version, "commit", GitCommit, "build time", BuildTime)

	loc := cfg.Location()
	client := &fiber.Client{}

	// One session per namespace, all bound to the same local data sources
	namespaces := session.NewNamespaces()
	defer func() { _ = namespaces.Close() }()
	for _, ns := range cfg.DataSources.Namespaces {
		namespaces.Provide(ns, newSession(cfg, client, loc))
	}
	logger.Info("Namespaces provided",
		"namespaces", namespaces.Names(),
		"local_datasources", cfg.DataSources.Local,
		"upstream", cfg.Upstream.BaseURL)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Refetch events
	var publisher *queue.RefetchPublisher
	var listener *subscriber.RefetchListener
	if cfg.Events.Enabled {
		logger.Info("Connecting to Queue", "type", cfg.Queue.Type, "url", cfg.Queue.URL)
		pub, err := queue.NewPublisher(cfg.Queue)
		if err != nil {
			logger.Fatal("Failed to connect to Queue", "error", err)
		}
		publisher = queue.NewRefetchPublisher(pub, cfg.Events.Subject, cfg.Events.NodeID)
		defer func() { _ = publisher.Close() }()

		sub, err := subscriber.NewSubscriber(cfg.Queue, subscriber.Config{
			NodeID:        cfg.Events.NodeID,
			ConsumerGroup: cfg.Events.ConsumerGroup,
		})
		if err != nil {
			logger.Fatal("Failed to create subscriber", "error", err)
		}
		defer func() { _ = sub.Close() }()

		listener = subscriber.NewRefetchListener(namespaces, sub, cfg.Events.Subject)
		listener.OnApplied(func(ev models.RefetchEvent, bumped int) {
			logger.Debug("Refetch event applied",
				"event_id", ev.ID,
				"namespace", ev.Namespace,
				"origin", ev.Origin,
				"bumped", bumped)
		})
		if err := listener.Start(ctx); err != nil {
			logger.Fatal("Failed to subscribe to refetch events", "subject", cfg.Events.Subject, "error", err)
		}
		logger.Info("Refetch events enabled", "subject", cfg.Events.Subject, "node_id", cfg.Events.NodeID)
	} else {
		logger.Info("Refetch events disabled, refetch applies to this replica only")
	}

	if cfg.Auth.Enabled {
		logger.Info("API key authentication enabled", "num_keys", len(cfg.Auth.APIKeys))
	} else {
		logger.Warn("API key authentication DISABLED - all requests will be allowed")
	}

	resolver := expression.NewResolver(nil, loc)
	app := router.New(logger, handlers.Dependencies{
		Namespaces: namespaces,
		Resolver:   resolver,
		Formatter:  format.NewDispatcher(loc),
		Publisher:  publisher,
		ElementDefaults: element.Options{
			UseCount:            cfg.Element.UseCount,
			RemoveFilterOnEmpty: cfg.Element.RemoveFilterOnEmpty,
			Timeout:             cfg.Element.FetchTimeout,
		},
	}, *cfg)

	go func() {
		addr := cfg.GetServerAddress()
		logger.Info("Server listening", "address", addr)
		if err := app.Listen(addr); err != nil {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	if listener != nil {
		if err := listener.Stop(); err != nil {
			logger.Warn("Failed to stop refetch listener", "error", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}

func newSession(cfg *config.Config, client *fiber.Client, loc *time.Location) *session.Session {
	return session.New(session.Options{
		Host:   datasource.NewHost(cfg.DataSources.Local...),
		Client: client,
		HTTP: datasource.HTTPOptions{
			BaseURL: cfg.Upstream.BaseURL,
			Timeout: cfg.Upstream.Timeout,
			Headers: cfg.Upstream.Headers,
		},
		Cache: cache.Options{
			TTL:             cfg.Cache.TTL,
			CleanupInterval: cfg.Cache.CleanupInterval,
			Compress:        cfg.Cache.Compress,
		},
		Location: loc,
	})
}
