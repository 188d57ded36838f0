package cdc

import (
	"github.com/rohan-flutterint/tikv/raftstore"
	"github.com/rohan-flutterint/tikv/storage"
)

// OldValueReader resolves the value a key held immediately before the write
// at queryTS. It is bound to a snapshot taken at capture time and evaluated
// later by the endpoint consumer, never on the apply path.
type OldValueReader func(key []byte, queryTS storage.TS, cache *OldValueCache, stats *storage.Statistics) ([]byte, error)

// Task is a unit of work handed to the endpoint through the FIFO scheduler.
type Task interface {
	taskKind() string
}

// MultiBatchTask delivers the command batches captured by one flush, in
// their original relative order, together with the old-value resolver bound
// to the flush-time snapshot. Size bytes were force-allocated against the
// memory quota at enqueue time; once the task is fully processed the
// consumer must free exactly that amount and call Close to release the
// snapshot, which pins engine history until then.
type MultiBatchTask struct {
	Batches  []*raftstore.CmdBatch
	OldValue OldValueReader
	Size     int64

	snapshot storage.Snapshot
}

func (*MultiBatchTask) taskKind() string { return "multi_batch" }

// Close releases the flush-time snapshot backing OldValue. Call exactly once
// after the task is processed; OldValue must not be used afterwards.
func (t *MultiBatchTask) Close() error {
	if t.snapshot == nil {
		return nil
	}
	snap := t.snapshot
	t.snapshot = nil
	return snap.Close()
}

// DeregisterTask asks the endpoint to tear down the subscription generation
// identified by ObserveID. Err is the structured reason surfaced to feed
// clients.
type DeregisterTask struct {
	RegionID  uint64
	ObserveID raftstore.ObserveID
	Err       error
}

func (*DeregisterTask) taskKind() string { return "deregister" }

// TxnExtraTask carries auxiliary old-value hints extracted from uncommitted
// transaction metadata. Size bytes were try-allocated; the consumer frees
// them after use.
type TxnExtraTask struct {
	Extra TxnExtra
	Size  int64
}

func (*TxnExtraTask) taskKind() string { return "txn_extra" }
