package raftstore

import (
	"testing"

	"github.com/rohan-flutterint/tikv/storage"
	"github.com/stretchr/testify/assert"
)

// recordingObserver appends its tag to a shared log on every dispatch.
type recordingObserver struct {
	tag string
	log *[]string
}

func (r *recordingObserver) OnFlushAppliedCmdBatch(ObserveLevel, []*CmdBatch, storage.Engine) {
	*r.log = append(*r.log, r.tag)
}

func (r *recordingObserver) OnRoleChange(*Region, *RoleChange) {
	*r.log = append(*r.log, r.tag)
}

func (r *recordingObserver) OnRegionChanged(*Region, RegionChangeEvent, StateRole) {
	*r.log = append(*r.log, r.tag)
}

func TestCoprocessorHostDispatchOrder(t *testing.T) {
	var calls []string
	host := NewCoprocessorHost()

	// Registered out of priority order on purpose.
	host.RegisterCmdObserver(100, &recordingObserver{tag: "rts", log: &calls})
	host.RegisterCmdObserver(0, &recordingObserver{tag: "cdc", log: &calls})
	host.RegisterCmdObserver(50, &recordingObserver{tag: "pitr", log: &calls})

	info := testObserveInfo()
	cb := NewCmdBatch(info, 1)
	host.OnFlushAppliedCmdBatch(ObserveLevelAll, []*CmdBatch{cb}, nil)
	assert.Equal(t, []string{"cdc", "pitr", "rts"}, calls)
}

func TestCoprocessorHostRoleAndRegionDispatch(t *testing.T) {
	var calls []string
	host := NewCoprocessorHost()

	host.RegisterRoleObserver(100, &recordingObserver{tag: "role-b", log: &calls})
	host.RegisterRoleObserver(0, &recordingObserver{tag: "role-a", log: &calls})
	host.RegisterRegionChangeObserver(0, &recordingObserver{tag: "region", log: &calls})

	region := &Region{ID: 1}
	host.OnRoleChange(region, NewRoleChange(StateFollower))
	host.OnRegionChanged(region, RegionChangeEvent{Kind: RegionChangeDestroy}, StateFollower)

	assert.Equal(t, []string{"role-a", "role-b", "region"}, calls)
}
