package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
)

// Badger is a KeyValueStore backed by an embedded Badger database.
type Badger struct {
	db     *badger.DB
	logger *slog.Logger
}

// OpenBadger opens (or creates) a Badger database in dir.
// An empty dir opens an in-memory database.
func OpenBadger(dir string, logger *slog.Logger) (*Badger, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}

	opts.Logger = nil
	opts.SyncWrites = true
	opts.CompactL0OnClose = true

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("badger storage opened", slog.String("path", dir))

	return &Badger{db: db, logger: logger}, nil
}

// Get implements ports.KeyValueStore.
func (b *Badger) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, logFailure(ctx, b.logger, DriverBadger, "get", key, err)
	}

	var value []byte

	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}

		value, err = item.ValueCopy(nil)

		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false, nil
	}

	if err != nil {
		return "", false, logFailure(ctx, b.logger, DriverBadger, "get", key, fmt.Errorf("badger get %q: %w", key, err))
	}

	return string(value), true, nil
}

// Set implements ports.KeyValueStore.
func (b *Badger) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return logFailure(ctx, b.logger, DriverBadger, "set", key, err)
	}

	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(value))
	})
	if err != nil {
		return logFailure(ctx, b.logger, DriverBadger, "set", key, fmt.Errorf("badger set %q: %w", key, err))
	}

	return nil
}

// Delete implements ports.KeyValueStore.
func (b *Badger) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return logFailure(ctx, b.logger, DriverBadger, "delete", key, err)
	}

	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return logFailure(ctx, b.logger, DriverBadger, "delete", key, fmt.Errorf("badger delete %q: %w", key, err))
	}

	return nil
}

// Close flushes and closes the database.
func (b *Badger) Close() error {
	return b.db.Close()
}

// Name implements ports.HealthChecker.
func (b *Badger) Name() string { return "storage" }

// Check implements ports.HealthChecker.
func (b *Badger) Check(_ context.Context) error {
	if b.db.IsClosed() {
		return ErrClosed
	}

	return nil
}
