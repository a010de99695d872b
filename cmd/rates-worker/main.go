// Command rates-worker runs the background consumers: exchange rate
// refreshes and the optional spreadsheet mirror. Without a broker it
// still sweeps rates on the configured interval.
package main

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/amqp"
	"fintrack/internal/backend"
	"fintrack/internal/cli"
	"fintrack/internal/export"
	"fintrack/internal/rates"
	"fintrack/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger("rates-worker")

	cfg, err := cli.LoadConfig()
	if err != nil {
		cli.Exit(logger, "Configuration invalid", err)
	}
	if cfg.OpenExchangeRatesAppID == "" && !cfg.MirrorEnabled() {
		cli.Exit(logger, "Nothing to do", errors.New("no exchange rate app ID and no sheet mirror configured"))
	}

	ctx, stop := cli.SignalContext()
	defer stop()

	st, err := backend.Open(cfg, logger.Logger)
	if err != nil {
		cli.Exit(logger, "Failed to open storage backend", err)
	}
	defer st.Close()

	var broker *amqp.Client
	if cfg.AMQPURL != "" {
		broker, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			cli.Exit(logger, "Failed to connect to AMQP broker", err)
		}
		defer broker.Close()
	}

	g, gctx := errgroup.WithContext(ctx)

	if cfg.OpenExchangeRatesAppID != "" {
		ratesWorker := worker.NewRatesWorker(rates.NewClient(cfg.OpenExchangeRatesAppID), st, cfg.RateRefreshInterval)
		g.Go(func() error {
			return ratesWorker.Run(gctx)
		})
		if broker != nil {
			g.Go(func() error {
				return broker.ConsumeRateRefresh(gctx, func(msg *amqp.RateRefreshMessage) error {
					return ratesWorker.HandleRefreshMessage(gctx, msg)
				})
			})
		}
	}

	if cfg.MirrorEnabled() {
		if broker == nil {
			cli.Exit(logger, "Sheet mirror requires a broker", errors.New("AMQP_URL is not set"))
		}
		sheets, err := export.NewSheetsClient(ctx, cfg)
		if err != nil {
			cli.Exit(logger, "Failed to build sheets client", err)
		}
		mirrorWorker := worker.NewMirrorWorker(st, sheets)
		g.Go(func() error {
			return broker.ConsumeMirror(gctx, func(msg *amqp.MirrorMessage) error {
				return mirrorWorker.HandleMirrorMessage(gctx, msg)
			})
		})
	}

	logger.Info("Worker started",
		"rates_enabled", cfg.OpenExchangeRatesAppID != "",
		"mirror_enabled", cfg.MirrorEnabled(),
		"broker", broker != nil)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		cli.Exit(logger, "Worker exited", err)
	}
	logger.Info("Worker stopped")
}
