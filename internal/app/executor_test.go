package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute_RunsStepsInOrder(t *testing.T) {
	var steps []ExecutionStep

	op := Operation[int, int, string]{
		Name: "double",
		Validate: func(context.Context, int) error {
			steps = append(steps, StepValidate)
			return nil
		},
		Perform: func(_ context.Context, in int) (int, error) {
			steps = append(steps, StepPerform)
			return in * 2, nil
		},
		Verify: func(context.Context, int, int) error {
			steps = append(steps, StepVerify)
			return nil
		},
		Archive: func(context.Context, int, int) error {
			steps = append(steps, StepArchive)
			return nil
		},
		Respond: func(_ context.Context, _ int, p int) (string, error) {
			steps = append(steps, StepRespond)
			return "ok", nil
		},
	}

	result, err := Execute(context.Background(), NewExecutor(discardLogger()), op, 21)

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, []ExecutionStep{StepValidate, StepPerform, StepVerify, StepArchive, StepRespond}, steps)
}

func TestExecute_StepFailures(t *testing.T) {
	cause := errors.New("cause")

	tests := []struct {
		name         string
		op           Operation[int, int, int]
		expectedStep ExecutionStep
		wantRollback bool
	}{
		{
			name:         "validate",
			op:           Operation[int, int, int]{Validate: func(context.Context, int) error { return cause }},
			expectedStep: StepValidate,
		},
		{
			name:         "perform",
			op:           Operation[int, int, int]{Perform: func(context.Context, int) (int, error) { return 0, cause }},
			expectedStep: StepPerform,
		},
		{
			name:         "verify",
			op:           Operation[int, int, int]{Verify: func(context.Context, int, int) error { return cause }},
			expectedStep: StepVerify,
		},
		{
			name:         "archive triggers rollback",
			op:           Operation[int, int, int]{Archive: func(context.Context, int, int) error { return cause }},
			expectedStep: StepArchive,
			wantRollback: true,
		},
		{
			name:         "respond",
			op:           Operation[int, int, int]{Respond: func(context.Context, int, int) (int, error) { return 0, cause }},
			expectedStep: StepRespond,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rolledBack := false
			tt.op.Rollback = func(context.Context, int, int) { rolledBack = true }

			_, err := Execute(context.Background(), NewExecutor(nil), tt.op, 1)

			require.ErrorIs(t, err, cause)

			step, ok := GetExecutionStep(err)
			require.True(t, ok)
			assert.Equal(t, tt.expectedStep, step)
			assert.Equal(t, tt.wantRollback, rolledBack)
		})
	}
}

func TestGetExecutionStep_NonExecutionError(t *testing.T) {
	_, ok := GetExecutionStep(errors.New("plain"))
	assert.False(t, ok)
}
