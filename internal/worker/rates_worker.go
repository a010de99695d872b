// Package worker holds the background consumers: the exchange rate
// refresher and the sheet mirror.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/store"
)

// RateSource fetches the current GBP exchange rate for a currency code.
type RateSource interface {
	Rate(ctx context.Context, code string) (float64, error)
}

// RatesWorker keeps stored currency rates fresh. It consumes per-currency
// refresh requests and periodically refreshes every stored currency as a
// backup in case messages are lost.
type RatesWorker struct {
	source   RateSource
	store    store.CurrencyStore
	interval time.Duration
}

func NewRatesWorker(source RateSource, currencies store.CurrencyStore, interval time.Duration) *RatesWorker {
	return &RatesWorker{
		source:   source,
		store:    currencies,
		interval: interval,
	}
}

// HandleRefreshMessage processes a single rate-refresh request.
func (w *RatesWorker) HandleRefreshMessage(ctx context.Context, msg *amqp.RateRefreshMessage) error {
	slog.InfoContext(ctx, "Processing rate refresh message",
		"message_id", msg.MessageID,
		"code", msg.Code)

	return w.refreshOne(ctx, msg.Code)
}

func (w *RatesWorker) refreshOne(ctx context.Context, code string) error {
	rate, err := w.source.Rate(ctx, code)
	if err != nil {
		return fmt.Errorf("fetch rate for %s: %w", code, err)
	}

	if err := w.store.UpdateCurrencyRate(ctx, code, rate); err != nil {
		return fmt.Errorf("store rate for %s: %w", code, err)
	}

	slog.InfoContext(ctx, "Refreshed exchange rate", "code", code, "rate", rate)
	return nil
}

// RefreshAll refreshes every stored currency. Per-currency failures are
// logged and skipped so one bad code does not block the rest.
func (w *RatesWorker) RefreshAll(ctx context.Context) error {
	currencies, err := w.store.ListCurrencies(ctx)
	if err != nil {
		return fmt.Errorf("list currencies: %w", err)
	}

	errorCount := 0
	for _, c := range currencies {
		if err := w.refreshOne(ctx, c.Code); err != nil {
			slog.ErrorContext(ctx, "Failed to refresh rate", "code", c.Code, "error", err)
			errorCount++
		}
	}

	slog.InfoContext(ctx, "Rate refresh sweep completed",
		"total", len(currencies),
		"errors", errorCount)
	return nil
}

// Run refreshes all rates immediately, then on every interval tick until
// the context is canceled.
func (w *RatesWorker) Run(ctx context.Context) error {
	if err := w.RefreshAll(ctx); err != nil {
		slog.ErrorContext(ctx, "Initial rate refresh failed", "error", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.RefreshAll(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic rate refresh failed", "error", err)
			}
		}
	}
}
