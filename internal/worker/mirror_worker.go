package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"fintrack/internal/amqp"
	"fintrack/internal/export"
	"fintrack/internal/store"
)

// MirrorWorker copies transactions to the external spreadsheet. It looks
// each transaction up by ID so the mirror always reflects the stored row,
// not the message payload.
type MirrorWorker struct {
	store  store.TransactionStore
	sheets export.Appender
}

func NewMirrorWorker(transactions store.TransactionStore, sheets export.Appender) *MirrorWorker {
	return &MirrorWorker{
		store:  transactions,
		sheets: sheets,
	}
}

// HandleMirrorMessage processes a single sheet-mirror request. A
// transaction deleted before the message arrives is dropped, not retried.
func (w *MirrorWorker) HandleMirrorMessage(ctx context.Context, msg *amqp.MirrorMessage) error {
	slog.InfoContext(ctx, "Processing mirror message",
		"message_id", msg.MessageID,
		"transaction_id", msg.TransactionID)

	tx, err := w.store.GetTransaction(ctx, msg.TransactionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			slog.WarnContext(ctx, "Transaction gone before mirror, dropping message",
				"transaction_id", msg.TransactionID)
			return nil
		}
		return fmt.Errorf("get transaction %d: %w", msg.TransactionID, err)
	}

	ref, err := w.sheets.Append(ctx, tx)
	if err != nil {
		return fmt.Errorf("append to sheet: %w", err)
	}

	slog.InfoContext(ctx, "Mirrored transaction",
		"transaction_id", msg.TransactionID,
		"sheet_ref", ref)
	return nil
}
