package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jsamuelsen/quotekeeper/internal/platform/logging"
)

// Mutations of the quote list run through Validate → Perform → Verify → Archive → Respond.
//
//   1. VALIDATE  - check inputs before any state changes
//   2. PERFORM   - build the new state (assign ids, normalize)
//   3. VERIFY    - confirm the new state holds the list invariants
//   4. ARCHIVE   - persist; Rollback runs if persisting fails
//   5. RESPOND   - return the result to the caller
//
// Nothing is visible to other callers until Archive succeeds.

// ExecutionStep represents a step in the mutation pipeline.
type ExecutionStep string

const (
	StepValidate ExecutionStep = "validate"
	StepPerform  ExecutionStep = "perform"
	StepVerify   ExecutionStep = "verify"
	StepArchive  ExecutionStep = "archive"
	StepRespond  ExecutionStep = "respond"
)

// ExecutionError wraps errors with the step where they occurred.
type ExecutionError struct {
	Step    ExecutionStep
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Step, e.Message, e.Cause)
	}

	return fmt.Sprintf("%s failed: %s", e.Step, e.Message)
}

// Unwrap returns the underlying cause so domain errors stay matchable.
func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

func newStepError(step ExecutionStep, message string, cause error) error {
	return &ExecutionError{Step: step, Message: message, Cause: cause}
}

// Executor runs mutations through the pipeline with step-level logging.
type Executor struct {
	logger *slog.Logger
}

// NewExecutor creates a new executor with the given logger.
func NewExecutor(logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}

	return &Executor{logger: logger}
}

// Operation defines the functions for each step of a mutation.
// Any step may be nil and is then skipped.
type Operation[I, P, O any] struct {
	// Name identifies this operation for logging.
	Name string

	Validate func(ctx context.Context, input I) error
	Perform  func(ctx context.Context, input I) (P, error)
	Verify   func(ctx context.Context, input I, performed P) error
	Archive  func(ctx context.Context, input I, performed P) error

	// Rollback undoes in-memory effects of a failed Archive.
	Rollback func(ctx context.Context, input I, performed P)

	Respond func(ctx context.Context, input I, performed P) (O, error)
}

// Execute runs op against input.
// Errors are *ExecutionError wrapping the step's cause.
func Execute[I, P, O any](ctx context.Context, exec *Executor, op Operation[I, P, O], input I) (O, error) {
	var zero O

	logger := logging.FromContextOr(ctx, exec.logger).With(slog.String("operation", op.Name))
	start := time.Now()

	if op.Validate != nil {
		if err := op.Validate(ctx, input); err != nil {
			logger.DebugContext(ctx, "validation rejected input", slog.Any("error", err))

			return zero, newStepError(StepValidate, "input validation failed", err)
		}
	}

	var performed P

	if op.Perform != nil {
		var err error

		performed, err = op.Perform(ctx, input)
		if err != nil {
			logger.ErrorContext(ctx, "perform failed", slog.Any("error", err))

			return zero, newStepError(StepPerform, "operation failed", err)
		}
	}

	if op.Verify != nil {
		if err := op.Verify(ctx, input, performed); err != nil {
			logger.ErrorContext(ctx, "verification failed", slog.Any("error", err))

			return zero, newStepError(StepVerify, "verification failed", err)
		}
	}

	if op.Archive != nil {
		if err := op.Archive(ctx, input, performed); err != nil {
			logger.ErrorContext(ctx, "archive failed", slog.Any("error", err))

			if op.Rollback != nil {
				op.Rollback(ctx, input, performed)
				logger.WarnContext(ctx, "rolled back in-memory state")
			}

			return zero, newStepError(StepArchive, "state persistence failed", err)
		}
	}

	var result O

	if op.Respond != nil {
		var err error

		result, err = op.Respond(ctx, input, performed)
		if err != nil {
			return zero, newStepError(StepRespond, "building response failed", err)
		}
	}

	logger.DebugContext(ctx, "operation completed", slog.Duration("duration", time.Since(start)))

	return result, nil
}

// GetExecutionStep extracts the step from an execution error.
func GetExecutionStep(err error) (ExecutionStep, bool) {
	var execErr *ExecutionError
	if errors.As(err, &execErr) {
		return execErr.Step, true
	}

	return "", false
}
