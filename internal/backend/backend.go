// Package backend opens the storage backend named in the configuration.
package backend

import (
	"fmt"
	"log/slog"

	"fintrack/internal/config"
	"fintrack/internal/storage"
	"fintrack/internal/store"
	"fintrack/internal/store/memory"
)

type Type string

const (
	TypeSQLite Type = "sqlite"
	TypeMemory Type = "memory"
)

func (t Type) Valid() bool {
	return t == TypeSQLite || t == TypeMemory
}

// Open returns the configured store. The sqlite backend runs its
// migrations before returning; the memory backend starts seeded with
// the default categories.
func Open(cfg *config.Config, logger *slog.Logger) (store.Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch Type(cfg.DataBackend) {
	case TypeSQLite:
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite backend: %w", err)
		}
		logger.Info("Opened SQLite backend", "db_path", cfg.SQLiteDBPath)
		return repo, nil
	case TypeMemory:
		logger.Info("Opened in-memory backend")
		return memory.NewSeeded(), nil
	default:
		return nil, fmt.Errorf("unknown data backend %q", cfg.DataBackend)
	}
}
