// Package memory provides the shared admission counter for buffered
// change-capture data. Allocation comes in two tiers with distinct failure
// contracts: ForceAlloc never fails and may drive usage past the nominal
// capacity, Alloc fails once usage would exceed it.
package memory

import (
	"fmt"
	"sync/atomic"
)

// ErrQuotaExceeded is returned by Alloc when the requested bytes would push
// usage past the configured capacity. The counter is left unchanged.
type ErrQuotaExceeded struct {
	Requested int64
	InUse     int64
	Capacity  int64
}

func (e ErrQuotaExceeded) Error() string {
	return fmt.Sprintf("memory quota exceeded: requested %d, in use %d, capacity %d",
		e.Requested, e.InUse, e.Capacity)
}

// Quota is a process-wide byte counter shared by every producer of buffered
// change data. All methods are safe for concurrent use.
type Quota struct {
	inUse    atomic.Int64
	capacity atomic.Int64
}

// NewQuota creates a quota with the given capacity in bytes.
func NewQuota(capacity int64) *Quota {
	q := &Quota{}
	q.capacity.Store(capacity)
	return q
}

// Alloc reserves n bytes if the result stays within capacity. On failure the
// counter is unchanged and ErrQuotaExceeded is returned.
func (q *Quota) Alloc(n int64) error {
	capacity := q.capacity.Load()
	for {
		inUse := q.inUse.Load()
		if inUse+n > capacity {
			return ErrQuotaExceeded{Requested: n, InUse: inUse, Capacity: capacity}
		}
		if q.inUse.CompareAndSwap(inUse, inUse+n) {
			return nil
		}
	}
}

// ForceAlloc reserves n bytes unconditionally and returns the new usage.
// Committed-write data must never be dropped, so this path cannot fail;
// backpressure is an external policy.
func (q *Quota) ForceAlloc(n int64) int64 {
	return q.inUse.Add(n)
}

// Free releases n bytes previously reserved by Alloc or ForceAlloc.
func (q *Quota) Free(n int64) {
	q.inUse.Add(-n)
}

// InUse returns the current usage in bytes.
func (q *Quota) InUse() int64 {
	return q.inUse.Load()
}

// Capacity returns the nominal bound in bytes.
func (q *Quota) Capacity() int64 {
	return q.capacity.Load()
}

// SetCapacity adjusts the nominal bound. Usage already above the new bound
// stays allocated; only future Alloc calls observe the change.
func (q *Quota) SetCapacity(capacity int64) {
	q.capacity.Store(capacity)
}
