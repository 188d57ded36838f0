package cdc

import (
	"bytes"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rohan-flutterint/tikv/storage"
	"github.com/rohan-flutterint/tikv/telemetry"
)

// OldValueCache remembers values already resolved during one flush so that
// hot keys touched by several commands only pay the snapshot read once.
type OldValueCache struct {
	cache *lru.Cache[string, []byte]
}

// NewOldValueCache creates a cache holding up to size resolved values.
func NewOldValueCache(size int) (*OldValueCache, error) {
	c, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, fmt.Errorf("create old value cache: %w", err)
	}
	return &OldValueCache{cache: c}, nil
}

// Len returns the number of cached entries.
func (c *OldValueCache) Len() int {
	return c.cache.Len()
}

func (c *OldValueCache) get(key string) ([]byte, bool) {
	v, ok := c.cache.Get(key)
	if ok {
		telemetry.OldValueCacheAccessTotal.With("hit").Inc()
	} else {
		telemetry.OldValueCacheAccessTotal.With("miss").Inc()
	}
	return v, ok
}

func (c *OldValueCache) put(key string, value []byte) {
	c.cache.Add(key, value)
}

// GetOldValue resolves the value key held immediately before the write
// committed at queryTS, reading from the snapshot captured when the flush
// was observed. Returns nil when the key had no live value. Read ops are
// accounted in stats.
func GetOldValue(snap storage.Snapshot, key []byte, queryTS storage.TS, cache *OldValueCache, stats *storage.Statistics) ([]byte, error) {
	cacheKey := string(storage.EncodeDefaultKey(key, queryTS))
	if v, ok := cache.get(cacheKey); ok {
		return v, nil
	}

	start := time.Now()
	defer func() {
		telemetry.OldValueResolveSeconds.Observe(time.Since(start).Seconds())
	}()

	// Walk versions newest-first, starting just below queryTS, skipping
	// records that carry no committed value.
	seekKey := storage.EncodeWriteKey(key, queryTS-1)
	// Last possible version of key; anything past it belongs to other keys.
	maxKey := storage.EncodeWriteKey(key, 0)
	for {
		encKey, encValue, ok, err := snap.Seek(storage.CFWrite, seekKey)
		stats.Write.Seek++
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}

		userKey, commitTS, err := storage.DecodeWriteKey(encKey)
		if err != nil {
			return nil, err
		}
		if !bytes.Equal(userKey, key) {
			stats.Write.OverSeekBound++
			if bytes.Compare(encKey, maxKey) > 0 {
				return nil, nil
			}
			// User keys are variable length, so versions of a longer key
			// sharing this prefix interleave with ours. Step past the
			// foreign entry and keep scanning.
			seekKey = append(append(make([]byte, 0, len(encKey)+1), encKey...), 0)
			continue
		}

		record, err := storage.DecodeWriteRecord(encValue)
		if err != nil {
			return nil, err
		}

		switch record.Type {
		case storage.WritePut:
			stats.Write.ProcessedKeys++
			value := record.ShortValue
			if value == nil {
				// Full value lives in the default CF at the start ts.
				value, err = snap.Get(storage.CFDefault, storage.EncodeDefaultKey(key, record.StartTS))
				stats.Data.Get++
				if err != nil {
					return nil, err
				}
			}
			cache.put(cacheKey, value)
			return value, nil
		case storage.WriteDelete:
			stats.Write.ProcessedKeys++
			cache.put(cacheKey, nil)
			return nil, nil
		default:
			// Rollback and lock records carry no value; step past them.
			if commitTS == 0 {
				return nil, nil
			}
			seekKey = storage.EncodeWriteKey(key, commitTS-1)
		}
	}
}
