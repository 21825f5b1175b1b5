package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jsamuelsen/quotekeeper/internal/ports"
)

// Supported drivers.
const (
	DriverMemory = "memory"
	DriverBadger = "badger"
	DriverSQLite = "sqlite"
)

// Config selects and locates the durable store.
type Config struct {
	Driver string
	Path   string
}

// Durable is a KeyValueStore that can also report its health.
type Durable interface {
	ports.KeyValueStore
	ports.HealthChecker
}

// Open returns the durable store named by cfg.Driver.
func Open(cfg Config, logger *slog.Logger) (Durable, error) {
	switch cfg.Driver {
	case DriverMemory, "":
		return NewMemory(), nil

	case DriverBadger:
		if err := ensureDir(cfg.Path); err != nil {
			return nil, err
		}

		return OpenBadger(cfg.Path, logger)

	case DriverSQLite:
		if err := ensureDir(filepath.Dir(cfg.Path)); err != nil {
			return nil, err
		}

		return OpenSQLite(cfg.Path, logger)

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

func ensureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating storage directory: %w", err)
	}

	return nil
}

// logFailure records a failed storage call on logger and returns err.
// Cancelled or expired contexts are expected during shutdown and log at debug.
func logFailure(ctx context.Context, logger *slog.Logger, driver, op, key string, err error) error {
	level := slog.LevelWarn
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		level = slog.LevelDebug
	}

	logger.Log(ctx, level, "storage call failed",
		slog.String("driver", driver),
		slog.String("op", op),
		slog.String("key", key),
		slog.Any("error", err),
	)

	return err
}
