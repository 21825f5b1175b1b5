package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotekeeper/internal/domain"
	"github.com/jsamuelsen/quotekeeper/internal/mocks"
)

// blockingSink waits for its context to end before returning.
type blockingSink struct{}

func (blockingSink) PushQuote(ctx context.Context, _ domain.Quote) error {
	<-ctx.Done()
	return ctx.Err()
}

func (blockingSink) PushQuotes(ctx context.Context, _ []domain.Quote) error {
	<-ctx.Done()
	return ctx.Err()
}

// gatedSink holds every push until release is closed.
type gatedSink struct {
	release chan struct{}
}

func (s gatedSink) PushQuote(context.Context, domain.Quote) error {
	<-s.release
	return nil
}

func (s gatedSink) PushQuotes(context.Context, []domain.Quote) error {
	<-s.release
	return nil
}

func TestNewPusher_PanicsWithoutSink(t *testing.T) {
	assert.Panics(t, func() {
		NewPusher(PusherConfig{})
	})
}

func TestPusher_Push(t *testing.T) {
	quote := domain.Quote{ID: "id-1", Text: "Ship it.", Category: "Motivation"}

	tests := []struct {
		name      string
		sinkErr   error
		errCheck  func(error) bool
		wantError bool
	}{
		{name: "success"},
		{
			name:      "network error is passed through",
			sinkErr:   domain.NewNetworkError("jsonplaceholder", "push quote", "HTTP 503"),
			errCheck:  domain.IsNetwork,
			wantError: true,
		},
		{
			name:      "other errors become network errors",
			sinkErr:   errors.New("boom"),
			errCheck:  domain.IsNetwork,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := mocks.NewMockRemoteQuotes(t)
			sink.EXPECT().PushQuote(mock.Anything, quote).Return(tt.sinkErr)

			pusher := NewPusher(PusherConfig{Sink: sink, Timeout: time.Second, Logger: discardLogger()})

			task := pusher.Push(context.Background(), quote)
			err := task.Wait(context.Background())

			assert.Equal(t, quote, task.Quote())

			if tt.wantError {
				require.Error(t, err)
				assert.True(t, tt.errCheck(err))
				assert.Equal(t, err, task.Err())
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestPusher_Push_OutlivesCallerCancellation(t *testing.T) {
	sink := mocks.NewMockRemoteQuotes(t)
	sink.EXPECT().PushQuote(mock.Anything, mock.Anything).Return(nil)

	pusher := NewPusher(PusherConfig{Sink: sink, Timeout: time.Second, Logger: discardLogger()})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	task := pusher.Push(ctx, domain.Quote{Text: "a", Category: "b"})

	require.NoError(t, task.Wait(context.Background()))
}

func TestPusher_Push_TimesOut(t *testing.T) {
	pusher := NewPusher(PusherConfig{Sink: blockingSink{}, Timeout: 20 * time.Millisecond, Logger: discardLogger()})

	task := pusher.Push(context.Background(), domain.Quote{Text: "a", Category: "b"})

	select {
	case <-task.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("push did not time out")
	}

	assert.True(t, domain.IsNetwork(task.Err()))
}

func TestPusher_ObserversSeeEveryOutcome(t *testing.T) {
	sink := mocks.NewMockRemoteQuotes(t)
	sink.EXPECT().PushQuote(mock.Anything, mock.Anything).Return(nil).Times(3)

	pusher := NewPusher(PusherConfig{Sink: sink, Timeout: time.Second, Rate: 1000, Burst: 3, Logger: discardLogger()})

	var seen atomic.Int32

	pusher.Observe(PushObserverFunc(func(context.Context, PushOutcome) { seen.Add(1) }))

	for range 3 {
		pusher.Push(context.Background(), domain.Quote{Text: "a", Category: "b"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	require.NoError(t, pusher.Wait(ctx))
	assert.Equal(t, int32(3), seen.Load())
}

func TestPusher_Close(t *testing.T) {
	t.Run("drains in-flight pushes", func(t *testing.T) {
		sink := gatedSink{release: make(chan struct{})}
		pusher := NewPusher(PusherConfig{Sink: sink, Timeout: 5 * time.Second, Logger: discardLogger()})
		task := pusher.Push(context.Background(), domain.Quote{Text: "a", Category: "b"})

		closed := make(chan error, 1)
		go func() { closed <- pusher.Close(context.Background()) }()

		select {
		case <-closed:
			t.Fatal("Close returned before the in-flight push finished")
		case <-time.After(50 * time.Millisecond):
		}

		close(sink.release)

		require.NoError(t, <-closed)
		assert.NoError(t, task.Err())
	})

	t.Run("rejects pushes after close", func(t *testing.T) {
		sink := mocks.NewMockRemoteQuotes(t)
		pusher := NewPusher(PusherConfig{Sink: sink, Logger: discardLogger()})

		var seen atomic.Int32

		pusher.Observe(PushObserverFunc(func(context.Context, PushOutcome) { seen.Add(1) }))

		require.NoError(t, pusher.Close(context.Background()))
		require.NoError(t, pusher.Close(context.Background()))

		quote := domain.Quote{Text: "late", Category: "b"}
		task := pusher.Push(context.Background(), quote)

		select {
		case <-task.Done():
		default:
			t.Fatal("task after close should already be finished")
		}

		require.ErrorIs(t, task.Err(), ErrPusherClosed)
		assert.Equal(t, quote, task.Quote())
		assert.Zero(t, seen.Load())
	})
}

func TestPushTask_ErrBeforeDone(t *testing.T) {
	task := &PushTask{done: make(chan struct{}), err: errors.New("not yet")}

	assert.NoError(t, task.Err())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, task.Wait(ctx), context.Canceled)
}
