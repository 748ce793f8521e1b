package oracle

import (
	"context"
	"errors"
	"log"
	"time"

	badger "github.com/dgraph-io/badger/v4"
)

// DefaultTTL is the cache entry lifetime spec.md §4.6 names (~24h).
const DefaultTTL = 24 * time.Hour

// BadgerCache is a Cache backed by an embedded badger KV store. Writes
// are idempotent (value fully determined by key) so no locking is
// needed beyond what badger itself provides.
type BadgerCache struct {
	db  *badger.DB
	ttl time.Duration
}

// OpenBadgerCache opens (creating if absent) a badger store at dir.
func OpenBadgerCache(dir string, ttl time.Duration) (*BadgerCache, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &BadgerCache{db: db, ttl: ttl}, nil
}

func (c *BadgerCache) Close() error { return c.db.Close() }

func (c *BadgerCache) Get(ctx context.Context, key string) ([]byte, bool) {
	var value []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			log.Printf("oracle: cache get error for %s: %v", key, err)
		}
		return nil, false
	}
	return value, true
}

func (c *BadgerCache) Set(ctx context.Context, key string, value []byte) {
	err := c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), value).WithTTL(c.ttl)
		return txn.SetEntry(entry)
	})
	if err != nil {
		log.Printf("oracle: cache set error for %s: %v", key, err)
	}
}

// MemoryCache is a deterministic in-memory Cache used by tests that
// need a real Cache implementation without a badger file on disk.
type MemoryCache struct {
	data map[string][]byte
}

// NewMemoryCache returns an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{data: make(map[string][]byte)}
}

func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool) {
	v, ok := c.data[key]
	return v, ok
}

func (c *MemoryCache) Set(ctx context.Context, key string, value []byte) {
	c.data[key] = value
}
