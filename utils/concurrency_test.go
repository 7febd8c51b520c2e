package utils

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderedSetNoDuplicates(t *testing.T) {
	s := NewOrderedSet()

	assert.True(t, s.Add("b"), "first Add should return true")
	assert.False(t, s.Add("b"), "second Add of same value should return false")
	assert.True(t, s.Add("a"))

	assert.Equal(t, 2, s.Size())
	assert.Equal(t, []string{"b", "a"}, s.Values())
}

func TestOrderedSetConcurrency(t *testing.T) {
	s := NewOrderedSet()
	var added int64

	pool := NewWorkerPool(10)
	for i := 0; i < 100; i++ {
		pool.Submit(func() {
			if s.Add("same") {
				atomic.AddInt64(&added, 1)
			}
		})
	}
	pool.Wait()

	assert.Equal(t, int64(1), added)
}

func TestWorkerPoolBoundsConcurrency(t *testing.T) {
	pool := NewWorkerPool(2)
	var inFlight, peak int64

	for i := 0; i < 8; i++ {
		pool.Submit(func() {
			n := atomic.AddInt64(&inFlight, 1)
			for {
				p := atomic.LoadInt64(&peak)
				if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt64(&inFlight, -1)
		})
	}
	pool.Wait()

	assert.LessOrEqual(t, peak, int64(2))
}

func TestMapOrderedPreservesInputOrder(t *testing.T) {
	items := []int{5, 1, 4, 2, 3}

	got, err := MapOrdered(3, items, func(n int) (int, error) {
		// later items finish first
		time.Sleep(time.Duration(n) * time.Millisecond)
		return n * 10, nil
	})

	require.NoError(t, err)
	assert.Equal(t, []int{50, 10, 40, 20, 30}, got)
}

func TestMapOrderedReturnsFirstErrorByPosition(t *testing.T) {
	errA := errors.New("a")
	errB := errors.New("b")

	_, err := MapOrdered(4, []string{"ok", "a", "b"}, func(s string) (string, error) {
		switch s {
		case "a":
			time.Sleep(10 * time.Millisecond)
			return "", errA
		case "b":
			return "", errB
		}
		return s, nil
	})

	assert.ErrorIs(t, err, errA)
}
