package storage

import (
	"encoding/binary"
	"fmt"

	"github.com/rohan-flutterint/tikv/encoding"
)

// WriteType is the kind of a commit record in the write column family.
type WriteType uint8

const (
	WritePut WriteType = iota
	WriteDelete
	WriteRollback
	WriteLock
)

// WriteRecord is the commit record stored in the write CF at a key's commit
// timestamp. Small values are inlined as ShortValue; larger ones live in the
// default CF keyed by StartTS.
type WriteRecord struct {
	Type       WriteType `msgpack:"t"`
	StartTS    TS        `msgpack:"s"`
	ShortValue []byte    `msgpack:"v,omitempty"`
}

// Encode serializes the record for storage.
func (w *WriteRecord) Encode() ([]byte, error) {
	return encoding.Marshal(w)
}

// DecodeWriteRecord deserializes a write CF value.
func DecodeWriteRecord(data []byte) (*WriteRecord, error) {
	var w WriteRecord
	if err := encoding.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decode write record: %w", err)
	}
	return &w, nil
}

// EncodeWriteKey appends the commit timestamp to a user key, inverted so
// that newer versions of the same key sort first.
func EncodeWriteKey(key []byte, commitTS TS) []byte {
	out := make([]byte, 0, len(key)+8)
	out = append(out, key...)
	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], ^uint64(commitTS))
	return append(out, ts[:]...)
}

// DecodeWriteKey splits a write CF key into the user key and commit
// timestamp.
func DecodeWriteKey(encoded []byte) ([]byte, TS, error) {
	if len(encoded) < 8 {
		return nil, 0, fmt.Errorf("write key too short: %d bytes", len(encoded))
	}
	key := encoded[:len(encoded)-8]
	ts := TS(^binary.BigEndian.Uint64(encoded[len(encoded)-8:]))
	return key, ts, nil
}

// EncodeDefaultKey appends the start timestamp to a user key for the default
// CF, where full values of committed writes live.
func EncodeDefaultKey(key []byte, startTS TS) []byte {
	out := make([]byte, 0, len(key)+8)
	out = append(out, key...)
	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(startTS))
	return append(out, ts[:]...)
}
