package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuotaAllocFree(t *testing.T) {
	q := NewQuota(100)
	assert.Equal(t, int64(100), q.Capacity())
	assert.Equal(t, int64(0), q.InUse())

	require.NoError(t, q.Alloc(40))
	assert.Equal(t, int64(40), q.InUse())

	require.NoError(t, q.Alloc(60))
	assert.Equal(t, int64(100), q.InUse())

	// Over capacity: fails and leaves the counter unchanged.
	err := q.Alloc(1)
	require.Error(t, err)
	var exceeded ErrQuotaExceeded
	require.ErrorAs(t, err, &exceeded)
	assert.Equal(t, int64(1), exceeded.Requested)
	assert.Equal(t, int64(100), exceeded.InUse)
	assert.Equal(t, int64(100), q.InUse())

	q.Free(100)
	assert.Equal(t, int64(0), q.InUse())
}

func TestQuotaForceAllocExceedsCapacity(t *testing.T) {
	q := NewQuota(10)

	// Forced allocation never fails, even past the nominal bound.
	assert.Equal(t, int64(25), q.ForceAlloc(25))
	assert.Equal(t, int64(25), q.InUse())

	// Try-allocation now fails while forced still succeeds.
	require.Error(t, q.Alloc(1))
	assert.Equal(t, int64(30), q.ForceAlloc(5))

	q.Free(30)
	assert.Equal(t, int64(0), q.InUse())
}

func TestQuotaSetCapacity(t *testing.T) {
	q := NewQuota(10)
	require.NoError(t, q.Alloc(10))
	require.Error(t, q.Alloc(1))

	q.SetCapacity(20)
	require.NoError(t, q.Alloc(10))
	assert.Equal(t, int64(20), q.InUse())
}

func TestQuotaConcurrentAlloc(t *testing.T) {
	const workers = 8
	const rounds = 1000

	q := NewQuota(int64(workers * rounds))
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < rounds; j++ {
				if err := q.Alloc(1); err != nil {
					t.Errorf("unexpected alloc failure: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(workers*rounds), q.InUse())
	require.Error(t, q.Alloc(1))
}
