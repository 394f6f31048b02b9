package http

import (
	"sync"
)

// WorkerPool runs a fixed number of workers fed from a bounded queue.
// Submit never blocks: a full queue is reported as ErrPoolFull.
type WorkerPool[T any] struct {
	jobs    chan T
	workers int
	handle  func(T)

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewWorkerPool[T any](workers, queueSize int, handle func(T)) *WorkerPool[T] {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}

	return &WorkerPool[T]{
		jobs:    make(chan T, queueSize),
		workers: workers,
		handle:  handle,
	}
}

func (wp *WorkerPool[T]) Start() {
	wp.wg.Add(wp.workers)
	for range wp.workers {
		go func() {
			defer wp.wg.Done()
			for job := range wp.jobs {
				wp.handle(job)
			}
		}()
	}
}

func (wp *WorkerPool[T]) Submit(job T) error {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	if wp.closed {
		return ErrPoolClosed
	}

	select {
	case wp.jobs <- job:
		return nil
	default:
		return ErrPoolFull
	}
}

// Stop rejects new jobs and waits until the queued ones are done.
func (wp *WorkerPool[T]) Stop() {
	wp.mu.Lock()
	if !wp.closed {
		wp.closed = true
		close(wp.jobs)
	}
	wp.mu.Unlock()

	wp.wg.Wait()
}
