package utils

import "sync"

// WorkerPool runs jobs on a bounded number of goroutines.
type WorkerPool struct {
	semaphore chan struct{}
	wg        sync.WaitGroup
}

// NewWorkerPool creates a WorkerPool with at most maxWorkers jobs in flight.
func NewWorkerPool(maxWorkers int) *WorkerPool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &WorkerPool{semaphore: make(chan struct{}, maxWorkers)}
}

// Submit enqueues a job, blocking while the pool is saturated.
func (wp *WorkerPool) Submit(job func()) {
	wp.wg.Add(1)
	wp.semaphore <- struct{}{}

	go func() {
		defer wp.wg.Done()
		defer func() { <-wp.semaphore }()
		job()
	}()
}

// Wait blocks until all submitted jobs have completed.
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

// MapOrdered applies fn to every item on a pool of maxWorkers goroutines and
// returns the results in input order, whatever order the jobs finish in.
// The first error by input position is returned alongside the results.
func MapOrdered[T, R any](maxWorkers int, items []T, fn func(T) (R, error)) ([]R, error) {
	results := make([]R, len(items))
	errs := make([]error, len(items))

	pool := NewWorkerPool(maxWorkers)
	for i, item := range items {
		i, item := i, item
		pool.Submit(func() {
			results[i], errs[i] = fn(item)
		})
	}
	pool.Wait()

	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}
	return results, nil
}

// OrderedSet is a thread-safe set of strings that remembers insertion order.
type OrderedSet struct {
	mu    sync.RWMutex
	seen  map[string]struct{}
	order []string
}

// NewOrderedSet creates an empty OrderedSet.
func NewOrderedSet() *OrderedSet {
	return &OrderedSet{seen: make(map[string]struct{})}
}

// Add returns true if the value was newly added, false if already present.
func (s *OrderedSet) Add(v string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.seen[v]; exists {
		return false
	}
	s.seen[v] = struct{}{}
	s.order = append(s.order, v)
	return true
}

// Size returns the number of distinct values.
func (s *OrderedSet) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Values returns a copy of the values in insertion order.
func (s *OrderedSet) Values() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}
