package storage

import (
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/rs/zerolog/log"
)

// Column family key prefixes inside the single Pebble keyspace
// (sorted so each family iterates as one contiguous range)
const (
	pebblePrefixDefault = "/d/"
	pebblePrefixLock    = "/l/"
	pebblePrefixWrite   = "/w/"
)

func cfPrefix(cf string) (string, error) {
	switch cf {
	case CFDefault:
		return pebblePrefixDefault, nil
	case CFLock:
		return pebblePrefixLock, nil
	case CFWrite:
		return pebblePrefixWrite, nil
	default:
		return "", fmt.Errorf("invalid cf name: %s", cf)
	}
}

// prefixUpperBound returns the exclusive upper bound for a CF prefix.
// Prefixes end in '/', so bumping the last byte is always valid.
func prefixUpperBound(prefix string) []byte {
	upper := []byte(prefix)
	upper[len(upper)-1]++
	return upper
}

// PebbleEngine implements Engine on top of a Pebble store.
type PebbleEngine struct {
	db   *pebble.DB
	path string
}

// Ensure PebbleEngine implements Engine
var _ Engine = (*PebbleEngine)(nil)

// OpenPebble opens (or creates) a Pebble-backed engine at path.
func OpenPebble(path string, cacheSizeMB int) (*PebbleEngine, error) {
	cache := pebble.NewCache(int64(cacheSizeMB) * 1024 * 1024)
	defer cache.Unref()

	db, err := pebble.Open(path, &pebble.Options{Cache: cache})
	if err != nil {
		return nil, fmt.Errorf("failed to open pebble at %s: %w", path, err)
	}

	log.Info().Str("path", path).Int("cache_mb", cacheSizeMB).Msg("Opened pebble engine")
	return &PebbleEngine{db: db, path: path}, nil
}

// Put writes a key into the given column family.
func (e *PebbleEngine) Put(cf string, key, value []byte) error {
	prefix, err := cfPrefix(cf)
	if err != nil {
		return err
	}
	return e.db.Set(append([]byte(prefix), key...), value, pebble.Sync)
}

// Delete removes a key from the given column family.
func (e *PebbleEngine) Delete(cf string, key []byte) error {
	prefix, err := cfPrefix(cf)
	if err != nil {
		return err
	}
	return e.db.Delete(append([]byte(prefix), key...), pebble.Sync)
}

// Snapshot returns a consistent point-in-time view of the engine.
func (e *PebbleEngine) Snapshot() Snapshot {
	return &pebbleSnapshot{snap: e.db.NewSnapshot()}
}

// Close closes the underlying Pebble store.
func (e *PebbleEngine) Close() error {
	return e.db.Close()
}

type pebbleSnapshot struct {
	snap *pebble.Snapshot
}

func (s *pebbleSnapshot) Get(cf string, key []byte) ([]byte, error) {
	prefix, err := cfPrefix(cf)
	if err != nil {
		return nil, err
	}

	value, closer, err := s.snap.Get(append([]byte(prefix), key...))
	if err == pebble.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("pebble get: %w", err)
	}
	defer closer.Close()

	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (s *pebbleSnapshot) Seek(cf string, key []byte) ([]byte, []byte, bool, error) {
	prefix, err := cfPrefix(cf)
	if err != nil {
		return nil, nil, false, err
	}

	iter, err := s.snap.NewIter(&pebble.IterOptions{
		LowerBound: append([]byte(prefix), key...),
		UpperBound: prefixUpperBound(prefix),
	})
	if err != nil {
		return nil, nil, false, fmt.Errorf("pebble iter: %w", err)
	}
	defer iter.Close()

	if !iter.First() {
		return nil, nil, false, iter.Error()
	}

	k := make([]byte, len(iter.Key())-len(prefix))
	copy(k, iter.Key()[len(prefix):])
	v, err := iter.ValueAndErr()
	if err != nil {
		return nil, nil, false, fmt.Errorf("pebble iter value: %w", err)
	}
	value := make([]byte, len(v))
	copy(value, v)
	return k, value, true, nil
}

func (s *pebbleSnapshot) Close() error {
	return s.snap.Close()
}
