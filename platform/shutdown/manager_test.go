package shutdown

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestManager_ShutdownRunsLIFOOnce(t *testing.T) {
	m := New(time.Second, zap.NewNop())

	var order []string
	m.Add("storage", func(ctx context.Context) error {
		order = append(order, "storage")
		return nil
	})
	m.Add("dispatcher", func(ctx context.Context) error {
		order = append(order, "dispatcher")
		return errors.New("still running")
	})
	m.Add("http", func(ctx context.Context) error {
		order = append(order, "http")
		return nil
	})

	m.Shutdown()
	m.Shutdown()

	require.Equal(t, []string{"http", "dispatcher", "storage"}, order)
}

func TestManager_WaitReturnsOnContextCancel(t *testing.T) {
	m := New(time.Second, zap.NewNop())
	called := make(chan struct{}, 1)
	m.Add("storage", func(ctx context.Context) error {
		called <- struct{}{}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m.Wait(ctx)

	select {
	case <-called:
	default:
		t.Fatal("shutdown function was not called")
	}
}

func TestStopWorker(t *testing.T) {
	t.Run("waits for worker", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			<-ctx.Done()
			close(done)
		}()

		require.NoError(t, StopWorker(cancel, done)(context.Background()))
	})

	t.Run("deadline exceeded", func(t *testing.T) {
		stopCtx, stop := context.WithTimeout(context.Background(), time.Millisecond)
		defer stop()

		err := StopWorker(func() {}, make(chan struct{}))(stopCtx)
		require.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
