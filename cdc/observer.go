// Package cdc implements the change-data-capture observation layer: a
// registry of subscribed regions and the hooks that turn replication events
// into ordered, quota-bounded tasks for the change-feed endpoint.
//
// The hooks run inline on apply threads and must not block; anything
// expensive (old-value resolution, serialization, delivery) is deferred into
// the scheduled task and evaluated by the endpoint consumer.
package cdc

import (
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/rohan-flutterint/tikv/memory"
	"github.com/rohan-flutterint/tikv/raftstore"
	"github.com/rohan-flutterint/tikv/storage"
	"github.com/rohan-flutterint/tikv/telemetry"
	"github.com/rohan-flutterint/tikv/worker"
	"github.com/rs/zerolog/log"
)

// Observer watches raftstore internal events for CDC:
//  1. applied command flushes,
//  2. raft role changes,
//  3. region lifecycle changes.
//
// Events for one region flow to the endpoint in observation order because
// the scheduler is FIFO.
type Observer struct {
	sched       *worker.Scheduler[Task]
	memoryQuota *memory.Quota

	// Region id -> current observation generation. Read on every hook
	// invocation across all apply threads, written only on subscription
	// churn.
	observeRegions *xsync.MapOf[uint64, raftstore.ObserveID]
}

// NewObserver creates an observer that sinks tasks into sched. sched must be
// FIFO: task ordering is the only ordering guarantee the feed gets.
func NewObserver(sched *worker.Scheduler[Task], quota *memory.Quota) *Observer {
	return &Observer{
		sched:          sched,
		memoryQuota:    quota,
		observeRegions: xsync.NewMapOf[uint64, raftstore.ObserveID](),
	}
}

// RegisterTo installs the observer into the coprocessor host. The command
// hook registers at priority 0 so CDC sees flushes ahead of the resolved-ts
// observer sharing the same mechanism.
func (o *Observer) RegisterTo(host *raftstore.CoprocessorHost) {
	host.RegisterCmdObserver(0, o)
	host.RegisterRoleObserver(100, o)
	host.RegisterRegionChangeObserver(100, o)
}

// SubscribeRegion installs id as the region's observation generation and
// returns the previously registered id, if any. Called by the subscription
// owner when capture starts.
func (o *Observer) SubscribeRegion(regionID uint64, id raftstore.ObserveID) (raftstore.ObserveID, bool) {
	prev, loaded := o.observeRegions.LoadAndStore(regionID, id)
	telemetry.RegionSubscribeTotal.With("subscribe", "ok").Inc()
	if loaded {
		return prev, true
	}
	return 0, false
}

// UnsubscribeRegion removes the region's entry only if the registered id
// equals id, returning the removed id on success. A mismatch means a newer
// subscription already replaced this generation and the call is a no-op.
func (o *Observer) UnsubscribeRegion(regionID uint64, id raftstore.ObserveID) (raftstore.ObserveID, bool) {
	var removed raftstore.ObserveID
	var ok bool
	o.observeRegions.Compute(regionID, func(old raftstore.ObserveID, loaded bool) (raftstore.ObserveID, bool) {
		if loaded && old == id {
			removed = old
			ok = true
			return old, true
		}
		// Keep the current entry; deleting an absent key is a no-op.
		return old, !loaded
	})
	if ok {
		telemetry.RegionSubscribeTotal.With("unsubscribe", "ok").Inc()
	} else {
		telemetry.RegionSubscribeTotal.With("unsubscribe", "stale").Inc()
	}
	return removed, ok
}

// IsSubscribed returns the region's current observation generation, if any.
func (o *Observer) IsSubscribed(regionID uint64) (raftstore.ObserveID, bool) {
	return o.observeRegions.Load(regionID)
}

// OnFlushAppliedCmdBatch implements raftstore.CmdObserver. Invoked once per
// non-empty flush of applied command batches sharing maxLevel.
func (o *Observer) OnFlushAppliedCmdBatch(maxLevel raftstore.ObserveLevel, batches []*raftstore.CmdBatch, engine storage.Engine) {
	if maxLevel < raftstore.ObserveLevelAll {
		telemetry.CapturedFlushTotal.With("below_level").Inc()
		return
	}

	filtered := make([]*raftstore.CmdBatch, 0, len(batches))
	for _, cb := range batches {
		if cb.Level == raftstore.ObserveLevelAll && !cb.IsEmpty() {
			filtered = append(filtered, cb)
		}
	}
	if len(filtered) == 0 {
		telemetry.CapturedFlushTotal.With("empty").Inc()
		return
	}

	// Snapshot now, before compaction or GC can reclaim the old values this
	// flush will need. The resolver holds the snapshot until the consumer is
	// done with the task.
	snap := engine.Snapshot()
	oldValue := func(key []byte, queryTS storage.TS, cache *OldValueCache, stats *storage.Statistics) ([]byte, error) {
		return GetOldValue(snap, key, queryTS, cache, stats)
	}

	var size int64
	for _, cb := range filtered {
		size += cb.Size()
	}
	// Committed data must reach the feed, so admission is forced. The free
	// obligation transfers to the consumer with the task.
	o.memoryQuota.ForceAlloc(size)

	telemetry.CapturedFlushTotal.With("delivered").Inc()
	telemetry.CapturedBytesTotal.Add(float64(size))
	telemetry.CapturedFlushBytes.Observe(float64(size))
	telemetry.CapturedFlushBatches.Observe(float64(len(filtered)))

	task := &MultiBatchTask{Batches: filtered, OldValue: oldValue, Size: size, snapshot: snap}
	if err := o.sched.Schedule(task); err != nil {
		log.Warn().Err(err).Msg("cdc schedule task failed")
		telemetry.ScheduleFailuresTotal.With(task.taskKind()).Inc()
		task.Close()
	}
}

// OnRoleChange implements raftstore.RoleObserver. Losing leadership of a
// subscribed region produces a deregister signal carrying the best-effort
// new leader; the registry itself is only mutated later, when the endpoint
// processes the signal and unsubscribes with the captured id.
func (o *Observer) OnRoleChange(region *raftstore.Region, change *raftstore.RoleChange) {
	if change.State == raftstore.StateLeader {
		return
	}
	observeID, ok := o.IsSubscribed(region.ID)
	if !ok {
		return
	}

	leaderID := raftstore.InvalidID
	if change.LeaderID != raftstore.InvalidID {
		leaderID = change.LeaderID
	} else if change.PrevLeadTransferee == change.Vote {
		// A follower that voted for the transfer target has very likely
		// elected it.
		leaderID = change.PrevLeadTransferee
	}

	var leader *raftstore.Peer
	if leaderID != raftstore.InvalidID {
		if p, found := region.GetPeer(leaderID); found {
			leader = &p
		}
	}

	task := &DeregisterTask{
		RegionID:  region.ID,
		ObserveID: observeID,
		Err:       ErrNotLeader{RegionID: region.ID, Leader: leader},
	}
	telemetry.DeregisterTotal.With("not_leader").Inc()
	if err := o.sched.Schedule(task); err != nil {
		log.Error().Err(err).Uint64("region_id", region.ID).Msg("cdc schedule deregister task failed")
		telemetry.ScheduleFailuresTotal.With(task.taskKind()).Inc()
	}
}

// OnRegionChanged implements raftstore.RegionChangeObserver. A subscribed
// region being destroyed, split, or merged away produces a deregister
// signal; everything else is ignored.
func (o *Observer) OnRegionChanged(region *raftstore.Region, event raftstore.RegionChangeEvent, _ raftstore.StateRole) {
	switch {
	case event.Kind == raftstore.RegionChangeDestroy:
	case event.Kind == raftstore.RegionChangeUpdate &&
		(event.Reason == raftstore.ChangeReasonSplit || event.Reason == raftstore.ChangeReasonCommitMerge):
	default:
		return
	}

	observeID, ok := o.IsSubscribed(region.ID)
	if !ok {
		return
	}

	task := &DeregisterTask{
		RegionID:  region.ID,
		ObserveID: observeID,
		Err:       ErrRegionNotFound{RegionID: region.ID},
	}
	telemetry.DeregisterTotal.With("region_not_found").Inc()
	if err := o.sched.Schedule(task); err != nil {
		log.Error().Err(err).Uint64("region_id", region.ID).Msg("cdc schedule deregister task failed")
		telemetry.ScheduleFailuresTotal.With(task.taskKind()).Inc()
	}
}

// QuotaInUse implements telemetry.StatsProvider.
func (o *Observer) QuotaInUse() int64 {
	return o.memoryQuota.InUse()
}

// QuotaCapacity implements telemetry.StatsProvider.
func (o *Observer) QuotaCapacity() int64 {
	return o.memoryQuota.Capacity()
}

// ObservedRegionCount implements telemetry.StatsProvider.
func (o *Observer) ObservedRegionCount() int {
	return o.observeRegions.Size()
}

// PendingTaskCount implements telemetry.StatsProvider.
func (o *Observer) PendingTaskCount() int {
	return o.sched.Pending()
}
