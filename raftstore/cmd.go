package raftstore

import "fmt"

// RequestType is the kind of a single write inside an applied command.
type RequestType int

const (
	RequestPut RequestType = iota
	RequestDelete
	RequestDeleteRange
)

// Request is one write carried by an applied raft command.
type Request struct {
	Type  RequestType
	CF    string
	Key   []byte
	Value []byte
	// EndKey is set for RequestDeleteRange only.
	EndKey []byte
}

// Size returns the byte footprint used for quota accounting.
func (r *Request) Size() int64 {
	return int64(len(r.Key) + len(r.Value) + len(r.EndKey))
}

// Cmd is one applied raft command: its log position and the writes it
// carried.
type Cmd struct {
	Index    uint64
	Term     uint64
	Requests []Request
}

// Size returns the byte footprint of all requests in the command.
func (c *Cmd) Size() int64 {
	var size int64
	for i := range c.Requests {
		size += c.Requests[i].Size()
	}
	return size
}

// CmdBatch is an ordered run of applied commands for one region, captured at
// one observation level. Batches are created per flush and handed downstream
// whole; they are never split or reordered.
type CmdBatch struct {
	Level    ObserveLevel
	CdcID    ObserveID
	RtsID    ObserveID
	PitrID   ObserveID
	RegionID uint64
	Cmds     []Cmd
}

// NewCmdBatch opens a batch for the given region at the level the observe
// info currently requires.
func NewCmdBatch(info *CmdObserveInfo, regionID uint64) *CmdBatch {
	return &CmdBatch{
		Level:    info.ObserveLevel(),
		CdcID:    info.CdcID.ID,
		RtsID:    info.RtsID.ID,
		PitrID:   info.PitrID.ID,
		RegionID: regionID,
	}
}

// Push appends a command. The observe info and region must match the ones
// the batch was opened with; a mismatch means a stale batch is being reused
// across a subscription change, which would corrupt downstream ordering.
func (b *CmdBatch) Push(info *CmdObserveInfo, regionID uint64, cmd Cmd) {
	if info.CdcID.ID != b.CdcID || info.RtsID.ID != b.RtsID || info.PitrID.ID != b.PitrID {
		panic(fmt.Sprintf("cmd batch observe id mismatch: region %d", regionID))
	}
	if regionID != b.RegionID {
		panic(fmt.Sprintf("cmd batch region mismatch: %d != %d", regionID, b.RegionID))
	}
	b.Cmds = append(b.Cmds, cmd)
}

// Len returns the number of commands in the batch.
func (b *CmdBatch) Len() int {
	return len(b.Cmds)
}

// IsEmpty reports whether the batch carries no commands.
func (b *CmdBatch) IsEmpty() bool {
	return len(b.Cmds) == 0
}

// Size returns the byte footprint of the whole batch.
func (b *CmdBatch) Size() int64 {
	var size int64
	for i := range b.Cmds {
		size += b.Cmds[i].Size()
	}
	return size
}
