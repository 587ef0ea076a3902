package idalloc_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/emberlang/ember/internal/idalloc"
)

func TestAllocator_StartsAtOneAndIncrements(t *testing.T) {
	a := idalloc.New()
	assert.Equal(t, idalloc.ID(1), a.Next())
	assert.Equal(t, idalloc.ID(2), a.Next())
	assert.Equal(t, idalloc.ID(3), a.Next())
	assert.Equal(t, 3, a.Count())
}

func TestAllocator_ZeroValueStartsAtOne(t *testing.T) {
	var a idalloc.Allocator
	assert.Equal(t, idalloc.ID(1), a.Next())
}

func TestAllocator_Reset(t *testing.T) {
	a := idalloc.New()
	a.Next()
	a.Next()
	a.Reset()
	assert.Equal(t, 0, a.Count())
	assert.Equal(t, idalloc.ID(1), a.Next())
}

// Two distinct requests (two Allocators) never share an ID space, unlike
// a process-wide counter would.
func TestAllocator_IndependentAcrossInstances(t *testing.T) {
	a := idalloc.New()
	b := idalloc.New()
	a.Next()
	a.Next()
	assert.Equal(t, idalloc.ID(1), b.Next())
}

// Confirms the documented single-goroutine-per-request discipline holds
// when one goroutine makes every call: sequential reuse from the same
// goroutine across many IDs never panics.
func TestAllocator_SequentialUseFromOneGoroutine(t *testing.T) {
	a := idalloc.New()
	var wg sync.WaitGroup
	ids := make([]idalloc.ID, 100)
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := range ids {
			ids[i] = a.Next()
		}
	}()
	wg.Wait()
	for i, id := range ids {
		assert.Equal(t, idalloc.ID(i+1), id)
	}
}
