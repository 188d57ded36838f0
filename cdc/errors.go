package cdc

import (
	"fmt"

	"github.com/rohan-flutterint/tikv/raftstore"
)

// ErrNotLeader reports that the local replica lost leadership of a
// subscribed region. Leader carries the best-effort new leader, nil when
// unknown.
type ErrNotLeader struct {
	RegionID uint64
	Leader   *raftstore.Peer
}

func (e ErrNotLeader) Error() string {
	if e.Leader != nil {
		return fmt.Sprintf("region %d is not leader, new leader is peer %d on store %d",
			e.RegionID, e.Leader.ID, e.Leader.StoreID)
	}
	return fmt.Sprintf("region %d is not leader, new leader unknown", e.RegionID)
}

// ErrRegionNotFound reports that a subscribed region was destroyed, split,
// or merged away.
type ErrRegionNotFound struct {
	RegionID uint64
}

func (e ErrRegionNotFound) Error() string {
	return fmt.Sprintf("region %d not found", e.RegionID)
}
