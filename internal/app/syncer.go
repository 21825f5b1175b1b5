package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jsamuelsen/quotekeeper/internal/ports"
)

// SyncResult summarizes one sync run.
type SyncResult struct {
	Pulled  int   `json:"pulled"`
	Added   int   `json:"added"`
	Pushed  int   `json:"pushed"`
	PullErr error `json:"-"`
	PushErr error `json:"-"`
}

// SyncerConfig configures a Syncer.
type SyncerConfig struct {
	Store  *QuoteStore
	Source ports.RemoteQuoteSource

	// Sink receives the full local list each run. Optional.
	Sink ports.RemoteQuoteSink

	Interval time.Duration
	Logger   *slog.Logger
}

// Syncer periodically pulls remote quotes into the store and pushes the
// local list back. Runs may overlap with manual runs; the add-only merge
// makes that harmless.
type Syncer struct {
	store    *QuoteStore
	source   ports.RemoteQuoteSource
	sink     ports.RemoteQuoteSink
	interval time.Duration
	logger   *slog.Logger
}

// NewSyncer creates a syncer. Store and Source are required.
func NewSyncer(cfg SyncerConfig) *Syncer {
	if cfg.Store == nil || cfg.Source == nil {
		panic("app: SyncerConfig requires Store and Source")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	interval := cfg.Interval
	if interval <= 0 {
		interval = 30 * time.Second
	}

	return &Syncer{
		store:    cfg.Store,
		source:   cfg.Source,
		sink:     cfg.Sink,
		interval: interval,
		logger:   logger.With(slog.String("component", "app.Syncer")),
	}
}

// Run syncs once immediately and then on every tick until ctx is cancelled.
func (s *Syncer) Run(ctx context.Context) error {
	s.logger.InfoContext(ctx, "syncer started", slog.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		_, _ = s.RunOnce(ctx)

		select {
		case <-ctx.Done():
			s.logger.InfoContext(ctx, "syncer stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// RunOnce pulls and pushes concurrently.
// The returned error is the pull failure, since only the pull can change local state.
func (s *Syncer) RunOnce(ctx context.Context) (SyncResult, error) {
	snapshot := s.store.Quotes(ctx)

	pull := func(ctx context.Context) (SyncResult, error) {
		remote, err := s.source.FetchQuotes(ctx)
		if err != nil {
			return SyncResult{}, err
		}

		reconciled, err := s.store.ReconcileWithRemote(ctx, remote)
		if err != nil {
			return SyncResult{Pulled: len(remote)}, err
		}

		return SyncResult{Pulled: len(remote), Added: reconciled.Added}, nil
	}

	push := func(ctx context.Context) (SyncResult, error) {
		if s.sink == nil {
			return SyncResult{}, nil
		}

		if err := s.sink.PushQuotes(ctx, snapshot); err != nil {
			return SyncResult{}, err
		}

		return SyncResult{Pushed: len(snapshot)}, nil
	}

	results := ParallelPartial(ctx, pull, push)

	result := SyncResult{
		Pulled:  results[0].Value.Pulled,
		Added:   results[0].Value.Added,
		Pushed:  results[1].Value.Pushed,
		PullErr: results[0].Err,
		PushErr: results[1].Err,
	}

	syncRuns.WithLabelValues(resultLabel(errors.Join(result.PullErr, result.PushErr))).Inc()

	attrs := []any{
		slog.Int("pulled", result.Pulled),
		slog.Int("added", result.Added),
		slog.Int("pushed", result.Pushed),
	}

	switch {
	case result.PullErr != nil:
		s.logger.WarnContext(ctx, "sync pull failed", append(attrs, slog.Any("error", result.PullErr))...)
	case result.PushErr != nil:
		s.logger.WarnContext(ctx, "sync push failed", append(attrs, slog.Any("error", result.PushErr))...)
	default:
		s.logger.DebugContext(ctx, "sync completed", attrs...)
	}

	return result, result.PullErr
}
