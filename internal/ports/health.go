package ports

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"
)

// ErrDuplicateChecker is returned when attempting to register a health checker
// with a name that is already registered.
var ErrDuplicateChecker = errors.New("duplicate health checker")

// HealthChecker is implemented by components that can report their health.
// Storage adapters register themselves with the HealthRegistry at startup.
//
// Example implementation:
//
//	func (b *Badger) Name() string { return "storage" }
//
//	func (b *Badger) Check(ctx context.Context) error {
//	    _, _, err := b.Get(ctx, KeyQuotes)
//	    return err
//	}
type HealthChecker interface {
	// Name returns a unique identifier for this health check.
	Name() string

	// Check returns an error if the component is unhealthy.
	// Implementations should respect context cancellation and deadlines.
	Check(ctx context.Context) error
}

// HealthRegistry aggregates health checks from multiple components.
type HealthRegistry interface {
	// Register adds a health checker to the registry.
	// Returns ErrDuplicateChecker if the name is taken.
	Register(checker HealthChecker) error

	// RegisterOptional adds a checker whose failure degrades but does not
	// fail the overall result.
	RegisterOptional(checker HealthChecker) error

	// CheckAll runs all registered health checks concurrently.
	CheckAll(ctx context.Context) *HealthResult
}

// HealthStatus represents the overall health state.
type HealthStatus string

const (
	// HealthStatusHealthy indicates all checks passed.
	HealthStatusHealthy HealthStatus = "healthy"

	// HealthStatusDegraded indicates only optional checks failed.
	HealthStatusDegraded HealthStatus = "degraded"

	// HealthStatusUnhealthy indicates at least one required check failed.
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthResult contains the aggregated health check results.
type HealthResult struct {
	Status    HealthStatus            `json:"status"`
	Checks    map[string]*CheckResult `json:"checks"`
	Timestamp time.Time               `json:"timestamp"`
}

// CheckResult contains the result of a single health check.
type CheckResult struct {
	Status   HealthStatus  `json:"status"`
	Message  string        `json:"message,omitempty"`
	Duration time.Duration `json:"duration"`
}

// DefaultHealthRegistry is a thread-safe implementation of HealthRegistry.
// A non-zero CheckTimeout bounds each individual check.
type DefaultHealthRegistry struct {
	CheckTimeout time.Duration

	mu      sync.RWMutex
	entries []registration
}

type registration struct {
	checker  HealthChecker
	optional bool
}

// NewHealthRegistry creates an empty registry.
func NewHealthRegistry() *DefaultHealthRegistry {
	return &DefaultHealthRegistry{}
}

// Register adds a required checker.
func (r *DefaultHealthRegistry) Register(checker HealthChecker) error {
	return r.add(registration{checker: checker})
}

// RegisterOptional adds a checker whose failure only degrades the result.
func (r *DefaultHealthRegistry) RegisterOptional(checker HealthChecker) error {
	return r.add(registration{checker: checker, optional: true})
}

func (r *DefaultHealthRegistry) add(reg registration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := reg.checker.Name()
	if slices.ContainsFunc(r.entries, func(e registration) bool { return e.checker.Name() == name }) {
		return fmt.Errorf("%w: %s", ErrDuplicateChecker, name)
	}

	r.entries = append(r.entries, reg)

	return nil
}

// CheckAll runs every check concurrently. A failed required check makes the
// result unhealthy; failed optional checks alone make it degraded.
func (r *DefaultHealthRegistry) CheckAll(ctx context.Context) *HealthResult {
	r.mu.RLock()
	entries := slices.Clone(r.entries)
	r.mu.RUnlock()

	outcomes := make([]*CheckResult, len(entries))

	var wg sync.WaitGroup
	for i, e := range entries {
		wg.Go(func() {
			outcomes[i] = r.run(ctx, e.checker)
		})
	}
	wg.Wait()

	result := &HealthResult{
		Status:    HealthStatusHealthy,
		Checks:    make(map[string]*CheckResult, len(entries)),
		Timestamp: time.Now(),
	}

	for i, e := range entries {
		outcome := outcomes[i]
		result.Checks[e.checker.Name()] = outcome

		switch {
		case outcome.Status == HealthStatusHealthy:
		case !e.optional:
			result.Status = HealthStatusUnhealthy
		case result.Status == HealthStatusHealthy:
			result.Status = HealthStatusDegraded
		}
	}

	return result
}

func (r *DefaultHealthRegistry) run(ctx context.Context, checker HealthChecker) *CheckResult {
	if r.CheckTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.CheckTimeout)
		defer cancel()
	}

	started := time.Now()
	err := checker.Check(ctx)
	outcome := &CheckResult{Status: HealthStatusHealthy, Duration: time.Since(started)}

	if err != nil {
		outcome.Status = HealthStatusUnhealthy
		outcome.Message = err.Error()
	}

	return outcome
}
