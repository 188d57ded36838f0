package raftstore

import "sync/atomic"

// ObserveID names one observation generation. IDs are minted from a
// process-global counter and never reused, so a stale id can always be told
// apart from the current one (the ABA guard in the CDC registry).
type ObserveID uint64

var observeIDAlloc atomic.Uint64

// NewObserveID returns the next globally unique observation id.
func NewObserveID() ObserveID {
	return ObserveID(observeIDAlloc.Add(1))
}

// ObserveHandle pairs an ObserveID with a flag the owning subscriber flips
// when it stops caring about further events.
type ObserveHandle struct {
	ID        ObserveID
	observing atomic.Bool
}

// NewObserveHandle creates a handle that is observing.
func NewObserveHandle() *ObserveHandle {
	h := &ObserveHandle{ID: NewObserveID()}
	h.observing.Store(true)
	return h
}

// IsObserving reports whether the subscriber still consumes events.
func (h *ObserveHandle) IsObserving() bool {
	return h.observing.Load()
}

// StopObserving marks the handle as no longer consuming events.
func (h *ObserveHandle) StopObserving() {
	h.observing.Store(false)
}

// ObserveLevel is the fidelity tier of captured command batches. Consumers
// at level All receive full command data; Resolver-level consumers only need
// enough to advance resolved timestamps.
type ObserveLevel int

const (
	ObserveLevelNone ObserveLevel = iota
	ObserveLevelResolver
	ObserveLevelAll
)

func (l ObserveLevel) String() string {
	switch l {
	case ObserveLevelNone:
		return "none"
	case ObserveLevelResolver:
		return "resolver"
	case ObserveLevelAll:
		return "all"
	default:
		return "unknown"
	}
}

// CmdObserveInfo carries the observation handles of the three consumer slots
// sharing the apply-path hook: change data capture, resolved timestamps, and
// point-in-time restore.
type CmdObserveInfo struct {
	CdcID  *ObserveHandle
	RtsID  *ObserveHandle
	PitrID *ObserveHandle
}

// NewCmdObserveInfo builds observe info from the three consumer handles.
func NewCmdObserveInfo(cdc, rts, pitr *ObserveHandle) *CmdObserveInfo {
	return &CmdObserveInfo{CdcID: cdc, RtsID: rts, PitrID: pitr}
}

// ObserveLevel returns the highest fidelity any observing consumer needs.
func (i *CmdObserveInfo) ObserveLevel() ObserveLevel {
	if i.CdcID.IsObserving() || i.PitrID.IsObserving() {
		return ObserveLevelAll
	}
	if i.RtsID.IsObserving() {
		return ObserveLevelResolver
	}
	return ObserveLevelNone
}
