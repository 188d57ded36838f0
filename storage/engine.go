// Package storage abstracts the local storage engine underneath the
// replication layer: column-family reads, point-in-time snapshots, and the
// MVCC write records that old-value resolution decodes. The concrete engine
// is Pebble; everything above it programs against the interfaces here.
package storage

// Column families. Default holds full values keyed by start timestamp, Write
// holds commit records keyed by commit timestamp, Lock holds in-flight
// transaction locks.
const (
	CFDefault = "default"
	CFWrite   = "write"
	CFLock    = "lock"
)

// Engine is the local storage engine the apply pipeline writes into.
type Engine interface {
	// Snapshot returns a consistent point-in-time view. The caller owns the
	// snapshot and must Close it; data visible in it survives compaction and
	// GC until then.
	Snapshot() Snapshot
	Close() error
}

// Snapshot is a consistent read-only view of the engine.
type Snapshot interface {
	// Get returns the value for key in the given column family, or nil if
	// the key is absent.
	Get(cf string, key []byte) ([]byte, error)
	// Seek returns the first pair at or after key in the given column
	// family. ok is false when nothing remains.
	Seek(cf string, key []byte) (k, v []byte, ok bool, err error)
	Close() error
}
