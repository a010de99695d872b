package worker

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/store/memory"
)

type fakeRateSource struct {
	rates map[string]float64
	calls []string
}

func (f *fakeRateSource) Rate(_ context.Context, code string) (float64, error) {
	f.calls = append(f.calls, code)
	rate, ok := f.rates[code]
	if !ok {
		return 0, fmt.Errorf("no rate for %s", code)
	}
	return rate, nil
}

type fakeAppender struct {
	appended []core.Transaction
	fail     bool
}

func (f *fakeAppender) Append(_ context.Context, tx core.Transaction) (string, error) {
	if f.fail {
		return "", errors.New("sheet unavailable")
	}
	f.appended = append(f.appended, tx)
	return fmt.Sprintf("2026 Transactions!A%d:G%d", len(f.appended), len(f.appended)), nil
}

func TestRatesWorkerHandleRefreshMessage(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	if _, err := st.CreateCurrency(ctx, core.Currency{Code: "USD", Rate: 1.0}); err != nil {
		t.Fatalf("CreateCurrency: %v", err)
	}

	src := &fakeRateSource{rates: map[string]float64{"USD": 1.27}}
	w := NewRatesWorker(src, st, 0)

	msg := amqp.NewRateRefreshMessage("USD")
	if err := w.HandleRefreshMessage(ctx, msg); err != nil {
		t.Fatalf("HandleRefreshMessage: %v", err)
	}

	currencies, _ := st.ListCurrencies(ctx)
	if len(currencies) != 1 || currencies[0].Rate != 1.27 {
		t.Fatalf("rate not stored: %+v", currencies)
	}
	if currencies[0].LastUpdated.IsZero() {
		t.Fatalf("LastUpdated not stamped")
	}
}

func TestRatesWorkerRefreshMessageSourceError(t *testing.T) {
	w := NewRatesWorker(&fakeRateSource{}, memory.New(), 0)
	msg := amqp.NewRateRefreshMessage("XYZ")
	if err := w.HandleRefreshMessage(context.Background(), msg); err == nil {
		t.Fatalf("expected error for unknown code")
	}
}

func TestRatesWorkerRefreshAllSkipsFailures(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	for _, code := range []string{"USD", "EUR", "JPY"} {
		if _, err := st.CreateCurrency(ctx, core.Currency{Code: code, Rate: 1.0}); err != nil {
			t.Fatalf("CreateCurrency %s: %v", code, err)
		}
	}

	// EUR is missing from the source; the sweep must still update the rest.
	src := &fakeRateSource{rates: map[string]float64{"USD": 1.27, "JPY": 190.5}}
	w := NewRatesWorker(src, st, 0)

	if err := w.RefreshAll(ctx); err != nil {
		t.Fatalf("RefreshAll: %v", err)
	}
	if len(src.calls) != 3 {
		t.Fatalf("calls = %v, want all three codes attempted", src.calls)
	}

	currencies, _ := st.ListCurrencies(ctx)
	got := map[string]float64{}
	for _, c := range currencies {
		got[c.Code] = c.Rate
	}
	if got["USD"] != 1.27 || got["JPY"] != 190.5 {
		t.Fatalf("rates not updated: %v", got)
	}
	if got["EUR"] != 1.0 {
		t.Fatalf("failed currency must keep its old rate, got %v", got["EUR"])
	}
}

func TestMirrorWorkerHandleMirrorMessage(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	date, _ := core.ParseDate("2026-02-10")
	id, err := st.CreateTransaction(ctx, core.Transaction{
		Date:     date,
		Category: "Food",
		Currency: "GBP",
		Amount:   core.Money{Cents: 500},
		Account:  "Bank",
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	sheet := &fakeAppender{}
	w := NewMirrorWorker(st, sheet)

	if err := w.HandleMirrorMessage(ctx, amqp.NewMirrorMessage(id)); err != nil {
		t.Fatalf("HandleMirrorMessage: %v", err)
	}
	if len(sheet.appended) != 1 || sheet.appended[0].ID != id {
		t.Fatalf("transaction not mirrored: %+v", sheet.appended)
	}
}

func TestMirrorWorkerDropsMissingTransaction(t *testing.T) {
	sheet := &fakeAppender{}
	w := NewMirrorWorker(memory.New(), sheet)

	// A vanished transaction is dropped without error so the message is acked.
	if err := w.HandleMirrorMessage(context.Background(), amqp.NewMirrorMessage(99)); err != nil {
		t.Fatalf("HandleMirrorMessage: %v", err)
	}
	if len(sheet.appended) != 0 {
		t.Fatalf("nothing should be mirrored")
	}
}

func TestMirrorWorkerAppendErrorRequeues(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	date, _ := core.ParseDate("2026-02-10")
	id, err := st.CreateTransaction(ctx, core.Transaction{
		Date:     date,
		Category: "Food",
		Currency: "GBP",
		Amount:   core.Money{Cents: 500},
		Account:  "Bank",
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	w := NewMirrorWorker(st, &fakeAppender{fail: true})
	if err := w.HandleMirrorMessage(ctx, amqp.NewMirrorMessage(id)); err == nil {
		t.Fatalf("append failure must surface so the message requeues")
	}
}
