package raftstore

import (
	"testing"

	"github.com/rohan-flutterint/tikv/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testObserveInfo() *CmdObserveInfo {
	return NewCmdObserveInfo(NewObserveHandle(), NewObserveHandle(), NewObserveHandle())
}

func TestCmdBatchPushAndSize(t *testing.T) {
	info := testObserveInfo()
	cb := NewCmdBatch(info, 7)
	assert.True(t, cb.IsEmpty())
	assert.Equal(t, ObserveLevelAll, cb.Level)

	cb.Push(info, 7, Cmd{
		Index: 1,
		Term:  1,
		Requests: []Request{
			{Type: RequestPut, CF: storage.CFDefault, Key: []byte("key"), Value: []byte("value")},
			{Type: RequestDelete, CF: storage.CFDefault, Key: []byte("gone")},
		},
	})
	cb.Push(info, 7, Cmd{
		Index: 2,
		Term:  1,
		Requests: []Request{
			{Type: RequestDeleteRange, CF: storage.CFWrite, Key: []byte("a"), EndKey: []byte("z")},
		},
	})

	assert.Equal(t, 2, cb.Len())
	assert.False(t, cb.IsEmpty())
	// key+value + gone + a + z
	assert.Equal(t, int64(3+5+4+1+1), cb.Size())
}

func TestCmdBatchPushMismatchPanics(t *testing.T) {
	info := testObserveInfo()
	cb := NewCmdBatch(info, 7)

	assert.Panics(t, func() {
		cb.Push(info, 8, Cmd{Index: 1})
	})
	assert.Panics(t, func() {
		cb.Push(testObserveInfo(), 7, Cmd{Index: 1})
	})
}

func TestCmdBatchLevelSnapshotsObserveInfo(t *testing.T) {
	info := testObserveInfo()
	info.CdcID.StopObserving()
	info.PitrID.StopObserving()

	cb := NewCmdBatch(info, 1)
	require.Equal(t, ObserveLevelResolver, cb.Level)

	// The level is fixed at batch creation; later handle churn does not
	// retroactively change it.
	info.CdcID = NewObserveHandle()
	assert.Equal(t, ObserveLevelResolver, cb.Level)
}
