package storage

// TS is an MVCC timestamp issued by the cluster's timestamp oracle:
// a millisecond physical time in the high bits and a logical counter in the
// low tsLogicalBits.
type TS uint64

const tsLogicalBits = 18

// MaxTS is the largest representable timestamp.
const MaxTS TS = ^TS(0)

// ComposeTS builds a timestamp from physical milliseconds and a logical
// counter.
func ComposeTS(physicalMS int64, logical uint64) TS {
	return TS(uint64(physicalMS)<<tsLogicalBits | logical)
}

// Physical returns the millisecond component.
func (t TS) Physical() int64 {
	return int64(t >> tsLogicalBits)
}

// Logical returns the logical counter component.
func (t TS) Logical() uint64 {
	return uint64(t) & (1<<tsLogicalBits - 1)
}
