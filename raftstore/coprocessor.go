package raftstore

import (
	"sort"

	"github.com/rohan-flutterint/tikv/storage"
)

// CmdObserver reacts to flushes of applied command batches. Invoked inline
// on apply threads; implementations must not block.
type CmdObserver interface {
	// OnFlushAppliedCmdBatch is invoked once per non-empty flush whose
	// batches share the given maximum observation level.
	OnFlushAppliedCmdBatch(maxLevel ObserveLevel, batches []*CmdBatch, engine storage.Engine)
}

// RoleObserver reacts to raft leadership transitions.
type RoleObserver interface {
	OnRoleChange(region *Region, change *RoleChange)
}

// RegionChangeObserver reacts to region lifecycle notifications.
type RegionChangeObserver interface {
	OnRegionChanged(region *Region, event RegionChangeEvent, role StateRole)
}

type cmdObserverEntry struct {
	priority int
	observer CmdObserver
}

type roleObserverEntry struct {
	priority int
	observer RoleObserver
}

type regionObserverEntry struct {
	priority int
	observer RegionChangeObserver
}

// CoprocessorHost owns the observer registries and fans replication events
// out to them in priority order (lower value dispatches first). Registration
// happens during startup, before events flow; dispatch itself takes no locks.
type CoprocessorHost struct {
	cmdObservers    []cmdObserverEntry
	roleObservers   []roleObserverEntry
	regionObservers []regionObserverEntry
}

// NewCoprocessorHost creates an empty host.
func NewCoprocessorHost() *CoprocessorHost {
	return &CoprocessorHost{}
}

// RegisterCmdObserver adds a command observer at the given priority.
func (h *CoprocessorHost) RegisterCmdObserver(priority int, o CmdObserver) {
	h.cmdObservers = append(h.cmdObservers, cmdObserverEntry{priority, o})
	sort.SliceStable(h.cmdObservers, func(i, j int) bool {
		return h.cmdObservers[i].priority < h.cmdObservers[j].priority
	})
}

// RegisterRoleObserver adds a role observer at the given priority.
func (h *CoprocessorHost) RegisterRoleObserver(priority int, o RoleObserver) {
	h.roleObservers = append(h.roleObservers, roleObserverEntry{priority, o})
	sort.SliceStable(h.roleObservers, func(i, j int) bool {
		return h.roleObservers[i].priority < h.roleObservers[j].priority
	})
}

// RegisterRegionChangeObserver adds a region change observer at the given
// priority.
func (h *CoprocessorHost) RegisterRegionChangeObserver(priority int, o RegionChangeObserver) {
	h.regionObservers = append(h.regionObservers, regionObserverEntry{priority, o})
	sort.SliceStable(h.regionObservers, func(i, j int) bool {
		return h.regionObservers[i].priority < h.regionObservers[j].priority
	})
}

// OnFlushAppliedCmdBatch dispatches a flush to every command observer.
// The apply pipeline guarantees batches is non-empty.
func (h *CoprocessorHost) OnFlushAppliedCmdBatch(maxLevel ObserveLevel, batches []*CmdBatch, engine storage.Engine) {
	for _, e := range h.cmdObservers {
		e.observer.OnFlushAppliedCmdBatch(maxLevel, batches, engine)
	}
}

// OnRoleChange dispatches a leadership transition to every role observer.
func (h *CoprocessorHost) OnRoleChange(region *Region, change *RoleChange) {
	for _, e := range h.roleObservers {
		e.observer.OnRoleChange(region, change)
	}
}

// OnRegionChanged dispatches a lifecycle notification to every region change
// observer.
func (h *CoprocessorHost) OnRegionChanged(region *Region, event RegionChangeEvent, role StateRole) {
	for _, e := range h.regionObservers {
		e.observer.OnRegionChanged(region, event, role)
	}
}
