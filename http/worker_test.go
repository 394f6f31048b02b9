package http

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/freekieb7/rawhttp/test"
)

func TestWorkerPoolRunsAllJobs(t *testing.T) {
	var sum atomic.Int64
	pool := NewWorkerPool(4, 100, func(n int) {
		sum.Add(int64(n))
	})
	pool.Start()

	for i := 1; i <= 100; i++ {
		test.NoError(t, pool.Submit(i))
	}
	pool.Stop()

	test.Equal(t, int64(5050), sum.Load())
}

func TestWorkerPoolBoundedQueue(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var once sync.Once

	pool := NewWorkerPool(1, 1, func(n int) {
		once.Do(func() { close(started) })
		<-release
	})
	pool.Start()

	// The single worker holds the first job, the queue holds the second.
	test.NoError(t, pool.Submit(1))
	<-started
	test.NoError(t, pool.Submit(2))
	test.ErrorIs(t, pool.Submit(3), ErrPoolFull)

	close(release)
	pool.Stop()
}

func TestWorkerPoolSubmitAfterStop(t *testing.T) {
	pool := NewWorkerPool(2, 2, func(n int) {})
	pool.Start()
	pool.Stop()

	test.ErrorIs(t, pool.Submit(1), ErrPoolClosed)

	// Stopping twice is harmless.
	pool.Stop()
}
