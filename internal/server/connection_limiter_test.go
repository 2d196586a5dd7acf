package server

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGlobalConnectionLimiter_AcquireRelease(t *testing.T) {
	l := NewGlobalConnectionLimiter(2)

	assert.True(t, l.Acquire())
	assert.True(t, l.Acquire())
	assert.False(t, l.Acquire(), "third acquire must fail at capacity")

	l.Release()
	assert.True(t, l.Acquire())
	assert.EqualValues(t, 2, l.Current())
	assert.EqualValues(t, 2, l.Max())
}

func TestGlobalConnectionLimiter_ConcurrentAcquire(t *testing.T) {
	const limit = 50
	l := NewGlobalConnectionLimiter(limit)

	var wg sync.WaitGroup
	acquired := make(chan bool, limit*2)
	for i := 0; i < limit*2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			acquired <- l.Acquire()
		}()
	}
	wg.Wait()
	close(acquired)

	successes := 0
	for ok := range acquired {
		if ok {
			successes++
		}
	}
	assert.Equal(t, limit, successes)
	assert.EqualValues(t, limit, l.Current())
}
