package cdc

import (
	"github.com/rohan-flutterint/tikv/memory"
	"github.com/rohan-flutterint/tikv/telemetry"
	"github.com/rohan-flutterint/tikv/worker"
	"github.com/rs/zerolog/log"
)

// TxnExtra carries old-value hints extracted from uncommitted transaction
// metadata. Purely an optimization for the resolver: dropping it never loses
// committed data.
type TxnExtra struct {
	// OldValues maps encoded keys to the value observed when the prewrite
	// was processed.
	OldValues map[string][]byte
	OnePC     bool
}

// IsEmpty reports whether the extra carries no hints.
func (e *TxnExtra) IsEmpty() bool {
	return len(e.OldValues) == 0
}

// Size returns the byte footprint used for quota accounting.
func (e *TxnExtra) Size() int64 {
	var size int64
	for k, v := range e.OldValues {
		size += int64(len(k) + len(v))
	}
	return size
}

// TxnExtraScheduler forwards old-value hints to the endpoint under try
// admission: over quota the hint is dropped, never the committed data that
// rides the forced path.
type TxnExtraScheduler struct {
	sched       *worker.Scheduler[Task]
	memoryQuota *memory.Quota
}

// NewTxnExtraScheduler creates a forwarder sharing the observer's scheduler
// and quota.
func NewTxnExtraScheduler(sched *worker.Scheduler[Task], quota *memory.Quota) *TxnExtraScheduler {
	return &TxnExtraScheduler{sched: sched, memoryQuota: quota}
}

// Schedule forwards the extra, or drops it silently under quota pressure.
func (s *TxnExtraScheduler) Schedule(extra TxnExtra) {
	if extra.IsEmpty() {
		return
	}
	size := extra.Size()
	if err := s.memoryQuota.Alloc(size); err != nil {
		log.Warn().Err(err).Int64("size", size).Msg("cdc txn extra is dropped, memory quota exceeded")
		telemetry.TxnExtraDroppedTotal.Inc()
		return
	}
	task := &TxnExtraTask{Extra: extra, Size: size}
	if err := s.sched.Schedule(task); err != nil {
		log.Warn().Err(err).Msg("cdc schedule txn extra failed")
		telemetry.ScheduleFailuresTotal.With(task.taskKind()).Inc()
		s.memoryQuota.Free(size)
	}
}
