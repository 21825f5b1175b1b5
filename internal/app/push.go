package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/jsamuelsen/quotekeeper/internal/domain"
	"github.com/jsamuelsen/quotekeeper/internal/ports"
)

// ErrPusherClosed is returned by tasks started after Close.
var ErrPusherClosed = errors.New("app: pusher closed")

// PushOutcome describes how a single push to the remote ended.
type PushOutcome struct {
	Quote    domain.Quote
	Err      error
	Duration time.Duration
}

// PushObserver receives the outcome of every push task.
// Observers run on the task goroutine and must not block for long.
type PushObserver interface {
	PushFinished(ctx context.Context, outcome PushOutcome)
}

// PushObserverFunc adapts a function to PushObserver.
type PushObserverFunc func(ctx context.Context, outcome PushOutcome)

// PushFinished implements PushObserver.
func (f PushObserverFunc) PushFinished(ctx context.Context, outcome PushOutcome) {
	f(ctx, outcome)
}

// PushTask is a handle on one fire-and-forget push.
// Callers may ignore it; tests and the CLI wait on it.
type PushTask struct {
	quote domain.Quote
	done  chan struct{}
	err   error
}

func newFinishedTask(quote domain.Quote, err error) *PushTask {
	t := &PushTask{quote: quote, done: make(chan struct{}), err: err}
	close(t.done)

	return t
}

// Quote returns the quote being pushed.
func (t *PushTask) Quote() domain.Quote {
	return t.quote
}

// Done is closed when the push has finished.
func (t *PushTask) Done() <-chan struct{} {
	return t.done
}

// Err returns the push error. Only meaningful after Done is closed.
func (t *PushTask) Err() error {
	select {
	case <-t.done:
		return t.err
	default:
		return nil
	}
}

// Wait blocks until the push finishes or ctx ends.
func (t *PushTask) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return t.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PusherConfig configures a Pusher.
type PusherConfig struct {
	Sink ports.RemoteQuoteSink

	// Timeout bounds a single push including the rate limiter wait.
	Timeout time.Duration

	// Rate is pushes per second; zero means unlimited.
	Rate  float64
	Burst int

	Logger *slog.Logger
}

// Pusher runs push tasks against the remote sink.
type Pusher struct {
	sink    ports.RemoteQuoteSink
	timeout time.Duration
	limiter *rate.Limiter
	logger  *slog.Logger

	mu        sync.RWMutex
	observers []PushObserver
	closed    bool

	inflight sync.WaitGroup
}

// NewPusher creates a pusher. Sink is required.
func NewPusher(cfg PusherConfig) *Pusher {
	if cfg.Sink == nil {
		panic("app: PusherConfig.Sink is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	limit := rate.Inf
	if cfg.Rate > 0 {
		limit = rate.Limit(cfg.Rate)
	}

	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	return &Pusher{
		sink:    cfg.Sink,
		timeout: timeout,
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger.With(slog.String("component", "app.Pusher")),
	}
}

// Observe registers an observer for all future push outcomes.
func (p *Pusher) Observe(o PushObserver) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.observers = append(p.observers, o)
}

// Push starts a push of quote and returns immediately.
// The task outlives ctx cancellation but keeps its values.
// After Close the returned task is already finished with ErrPusherClosed.
func (p *Pusher) Push(ctx context.Context, quote domain.Quote) *PushTask {
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return newFinishedTask(quote, ErrPusherClosed)
	}

	p.inflight.Add(1)
	p.mu.RUnlock()

	task := &PushTask{quote: quote, done: make(chan struct{})}
	ctx = context.WithoutCancel(ctx)

	go func() {
		defer p.inflight.Done()
		defer close(task.done)

		start := time.Now()
		task.err = p.push(ctx, quote)

		outcome := PushOutcome{Quote: quote, Err: task.err, Duration: time.Since(start)}
		remotePushes.WithLabelValues(resultLabel(task.err)).Inc()

		if task.err != nil {
			p.logger.WarnContext(ctx, "push to remote failed",
				slog.String("quote_id", string(quote.ID)),
				slog.Any("error", task.err),
			)
		} else {
			p.logger.DebugContext(ctx, "pushed quote to remote",
				slog.String("quote_id", string(quote.ID)),
				slog.Duration("duration", outcome.Duration),
			)
		}

		p.notify(ctx, outcome)
	}()

	return task
}

func (p *Pusher) push(ctx context.Context, quote domain.Quote) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.limiter.Wait(ctx); err != nil {
		return domain.NewNetworkError("remote", "push quote", fmt.Sprintf("rate limiter: %v", err))
	}

	if err := p.sink.PushQuote(ctx, quote); err != nil {
		if domain.IsNetwork(err) {
			return err
		}

		return domain.NewNetworkError("remote", "push quote", err.Error())
	}

	return nil
}

func (p *Pusher) notify(ctx context.Context, outcome PushOutcome) {
	p.mu.RLock()
	observers := make([]PushObserver, len(p.observers))
	copy(observers, p.observers)
	p.mu.RUnlock()

	for _, o := range observers {
		o.PushFinished(ctx, outcome)
	}
}

// Wait blocks until in-flight pushes finish or ctx ends.
// Pushes started concurrently with Wait may or may not be waited for; use
// Close when shutting down.
func (p *Pusher) Wait(ctx context.Context) error {
	done := make(chan struct{})

	go func() {
		p.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting pushes and waits for in-flight ones like Wait.
// Calling it more than once is safe.
func (p *Pusher) Close(ctx context.Context) error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	return p.Wait(ctx)
}
