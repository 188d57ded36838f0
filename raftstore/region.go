// Package raftstore defines the replication-layer types the CDC observation
// layer consumes: region and peer descriptors, raft role transitions, region
// lifecycle events, observation handles, and applied-command batches. The
// coprocessor host dispatches replication events to registered observers
// inline on the apply path.
package raftstore

// InvalidID marks an absent peer or leader identifier.
const InvalidID uint64 = 0

// RegionEpoch versions a region's key range and membership. Bumped on
// split/merge (Version) and on membership change (ConfVer).
type RegionEpoch struct {
	ConfVer uint64
	Version uint64
}

// Peer identifies one replica of a region on a specific store.
type Peer struct {
	ID      uint64
	StoreID uint64
}

// Region describes a contiguous key range managed as one replication group.
type Region struct {
	ID       uint64
	StartKey []byte
	EndKey   []byte
	Epoch    RegionEpoch
	Peers    []Peer
}

// GetPeer returns the peer with the given id from the region's peer list.
func (r *Region) GetPeer(id uint64) (Peer, bool) {
	for _, p := range r.Peers {
		if p.ID == id {
			return p, true
		}
	}
	return Peer{}, false
}

// StateRole is the raft role of the local replica.
type StateRole int

const (
	StateFollower StateRole = iota
	StateCandidate
	StateLeader
	StatePreCandidate
)

func (s StateRole) String() string {
	switch s {
	case StateFollower:
		return "follower"
	case StateCandidate:
		return "candidate"
	case StateLeader:
		return "leader"
	case StatePreCandidate:
		return "pre-candidate"
	default:
		return "unknown"
	}
}

// RoleChange reports a leadership transition observed by the local replica.
// LeaderID is InvalidID when the new leader is unknown; PrevLeadTransferee
// and Vote carry best-effort hints from the raft state machine.
type RoleChange struct {
	State              StateRole
	LeaderID           uint64
	PrevLeadTransferee uint64
	Vote               uint64
	Initialized        bool
	PeerID             uint64
}

// NewRoleChange returns a role change with no leader information, as raft
// reports it when only the role is known.
func NewRoleChange(state StateRole) *RoleChange {
	return &RoleChange{
		State:              state,
		LeaderID:           InvalidID,
		PrevLeadTransferee: InvalidID,
		Vote:               InvalidID,
		Initialized:        true,
		PeerID:             InvalidID,
	}
}

// RegionChangeKind is the kind of a region lifecycle notification.
type RegionChangeKind int

const (
	RegionChangeCreate RegionChangeKind = iota
	RegionChangeUpdate
	RegionChangeDestroy
)

// RegionChangeReason explains why a region was updated.
type RegionChangeReason int

const (
	ChangeReasonChangePeer RegionChangeReason = iota
	ChangeReasonSplit
	ChangeReasonPrepareMerge
	ChangeReasonCommitMerge
	ChangeReasonRollbackMerge
)

func (r RegionChangeReason) String() string {
	switch r {
	case ChangeReasonChangePeer:
		return "change-peer"
	case ChangeReasonSplit:
		return "split"
	case ChangeReasonPrepareMerge:
		return "prepare-merge"
	case ChangeReasonCommitMerge:
		return "commit-merge"
	case ChangeReasonRollbackMerge:
		return "rollback-merge"
	default:
		return "unknown"
	}
}

// RegionChangeEvent is a region lifecycle notification. Reason is only
// meaningful for RegionChangeUpdate.
type RegionChangeEvent struct {
	Kind   RegionChangeKind
	Reason RegionChangeReason
}
