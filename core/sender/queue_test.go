package sender

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnqueueRunsJob(t *testing.T) {
	q := New(Options{QueueSize: 4, Workers: 1})
	done := make(chan struct{})

	err := q.Enqueue(context.Background(), "send.text", func() error {
		close(done)
		return nil
	})
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job never executed")
	}
	q.Close()
}

func TestEnqueueAfterCloseFails(t *testing.T) {
	q := New(Options{QueueSize: 1, Workers: 1})
	q.Close()

	err := q.Enqueue(context.Background(), "send.text", func() error { return nil })
	assert.ErrorIs(t, err, ErrQueueClosed)
}

func TestEnqueueQueueFull(t *testing.T) {
	q := New(Options{QueueSize: 1, Workers: 1})
	defer q.Close()

	block := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	// Occupy the single worker.
	require.NoError(t, q.Enqueue(context.Background(), "send.text", func() error {
		defer wg.Done()
		<-block
		return nil
	}))

	// Fill the buffer, then one more must be rejected.
	var full bool
	for i := 0; i < 3; i++ {
		if err := q.Enqueue(context.Background(), "send.text", func() error { return nil }); err != nil {
			assert.ErrorIs(t, err, ErrQueueFull)
			full = true
			break
		}
	}
	close(block)
	wg.Wait()
	assert.True(t, full)
}

func TestNoRetryByDefault(t *testing.T) {
	q := New(Options{QueueSize: 4, Workers: 1, MaxRetries: 0})

	var attempts atomic.Int32
	require.NoError(t, q.Enqueue(context.Background(), "send.text", func() error {
		attempts.Add(1)
		return errors.New("gateway unavailable")
	}))
	q.Close()

	assert.Equal(t, int32(1), attempts.Load())
	assert.Equal(t, uint64(1), q.ErrorCount())
}

func TestNonRetryableErrorNotRetried(t *testing.T) {
	q := New(Options{QueueSize: 4, Workers: 1, MaxRetries: 3, RetryBackoff: time.Millisecond})

	var attempts atomic.Int32
	require.NoError(t, q.Enqueue(context.Background(), "send.text", func() error {
		attempts.Add(1)
		return errors.New("permanent failure")
	}))
	q.Close()

	// Plain errors are not transient, so only one attempt happens.
	assert.Equal(t, int32(1), attempts.Load())
}
