// Command fintrack serves the transaction tracker: the web pages, the
// form-encoded and JSON endpoints and the live-refresh websocket hub.
package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/amqp"
	"fintrack/internal/backend"
	"fintrack/internal/cache"
	"fintrack/internal/cli"
	httpserver "fintrack/internal/http"
	"fintrack/internal/rates"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger("fintrack")

	cfg, err := cli.LoadConfig()
	if err != nil {
		cli.Exit(logger, "Configuration invalid", err)
	}

	ctx, stop := cli.SignalContext()
	defer stop()

	st, err := backend.Open(cfg, logger.Logger)
	if err != nil {
		cli.Exit(logger, "Failed to open storage backend", err)
	}
	defer st.Close()

	var opts []httpserver.Option
	if cfg.OpenExchangeRatesAppID != "" {
		opts = append(opts, httpserver.WithRateFetcher(rates.NewClient(cfg.OpenExchangeRatesAppID)))
	}

	if cfg.AMQPURL != "" {
		broker, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			// Broker work degrades to inline fetches, not a hard failure.
			logger.Warn("Failed to connect to AMQP broker, continuing without it", "error", err)
		} else {
			defer broker.Close()
			opts = append(opts, httpserver.WithPublisher(broker))
		}
	}

	srv, err := httpserver.NewServer(cfg, st, opts...)
	if err != nil {
		cli.Exit(logger, "Failed to build server", err)
	}

	caches := cache.NewManager(srv.StatsCache())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("HTTP server listening", "addr", srv.Addr, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		caches.Run(gctx, time.Minute)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		cli.Exit(logger, "Server exited", err)
	}
	logger.Info("Server stopped")
}
