package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *PebbleEngine {
	t.Helper()
	engine, err := OpenPebble(t.TempDir(), 8)
	require.NoError(t, err)
	t.Cleanup(func() { engine.Close() })
	return engine
}

func TestPebbleEnginePutGet(t *testing.T) {
	engine := newTestEngine(t)

	require.NoError(t, engine.Put(CFDefault, []byte("k1"), []byte("v1")))
	require.NoError(t, engine.Put(CFWrite, []byte("k1"), []byte("w1")))

	snap := engine.Snapshot()
	defer snap.Close()

	v, err := snap.Get(CFDefault, []byte("k1"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), v)

	// Same user key, different column family.
	v, err = snap.Get(CFWrite, []byte("k1"))
	require.NoError(t, err)
	assert.Equal(t, []byte("w1"), v)

	// Absent key returns nil without error.
	v, err = snap.Get(CFDefault, []byte("missing"))
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = snap.Get("raft", []byte("k1"))
	require.Error(t, err)
}

func TestPebbleSnapshotIsolation(t *testing.T) {
	engine := newTestEngine(t)

	require.NoError(t, engine.Put(CFDefault, []byte("k"), []byte("old")))

	snap := engine.Snapshot()
	defer snap.Close()

	// Writes after the snapshot are invisible to it.
	require.NoError(t, engine.Put(CFDefault, []byte("k"), []byte("new")))
	require.NoError(t, engine.Delete(CFDefault, []byte("k")))

	v, err := snap.Get(CFDefault, []byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("old"), v)
}

func TestPebbleSnapshotSeek(t *testing.T) {
	engine := newTestEngine(t)

	require.NoError(t, engine.Put(CFWrite, []byte("b"), []byte("vb")))
	require.NoError(t, engine.Put(CFWrite, []byte("d"), []byte("vd")))
	// Default CF entry must not leak into write CF iteration.
	require.NoError(t, engine.Put(CFDefault, []byte("c"), []byte("vc")))

	snap := engine.Snapshot()
	defer snap.Close()

	k, v, ok, err := snap.Seek(CFWrite, []byte("a"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("b"), k)
	assert.Equal(t, []byte("vb"), v)

	k, _, ok, err = snap.Seek(CFWrite, []byte("c"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("d"), k)

	_, _, ok, err = snap.Seek(CFWrite, []byte("e"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWriteKeyOrdering(t *testing.T) {
	engine := newTestEngine(t)

	key := []byte("row1")
	for _, ts := range []TS{10, 30, 20} {
		record := WriteRecord{Type: WritePut, StartTS: ts - 5, ShortValue: []byte{byte(ts)}}
		data, err := record.Encode()
		require.NoError(t, err)
		require.NoError(t, engine.Put(CFWrite, EncodeWriteKey(key, ts), data))
	}

	snap := engine.Snapshot()
	defer snap.Close()

	// Seeking at ts=25 must land on the newest version at or below it (20).
	k, v, ok, err := snap.Seek(CFWrite, EncodeWriteKey(key, 25))
	require.NoError(t, err)
	require.True(t, ok)

	userKey, commitTS, err := DecodeWriteKey(k)
	require.NoError(t, err)
	assert.Equal(t, key, userKey)
	assert.Equal(t, TS(20), commitTS)

	record, err := DecodeWriteRecord(v)
	require.NoError(t, err)
	assert.Equal(t, WritePut, record.Type)
	assert.Equal(t, TS(15), record.StartTS)

	// Seeking above the newest version finds it.
	k, _, ok, err = snap.Seek(CFWrite, EncodeWriteKey(key, MaxTS))
	require.NoError(t, err)
	require.True(t, ok)
	_, commitTS, err = DecodeWriteKey(k)
	require.NoError(t, err)
	assert.Equal(t, TS(30), commitTS)
}

func TestComposeTS(t *testing.T) {
	ts := ComposeTS(1234, 56)
	assert.Equal(t, int64(1234), ts.Physical())
	assert.Equal(t, uint64(56), ts.Logical())
}
