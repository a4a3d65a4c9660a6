package upload

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore keeps objects in process memory until their TTL elapses
type MemoryStore struct {
	cache *gocache.Cache
	ttl   time.Duration
}

// NewMemoryStore creates a new memory store
func NewMemoryStore(ttl time.Duration, cleanupInterval time.Duration) *MemoryStore {
	return &MemoryStore{
		cache: gocache.New(ttl, cleanupInterval),
		ttl:   ttl,
	}
}

// Put stores data under its content key
func (s *MemoryStore) Put(name string, data []byte) (Object, error) {
	obj := newObject(name, data, s.ttl)
	s.save(obj)
	return obj, nil
}

// save stores obj until its own expiry
func (s *MemoryStore) save(obj Object) {
	ttl := time.Until(obj.ExpiresAt)
	if ttl > s.ttl {
		ttl = s.ttl
	}
	if ttl <= 0 {
		return
	}
	s.cache.Set(obj.Key, obj, ttl)
}

// Get retrieves an object
func (s *MemoryStore) Get(key string) (Object, bool) {
	if val, found := s.cache.Get(key); found {
		return val.(Object), true
	}
	return Object{}, false
}

// Delete removes an object
func (s *MemoryStore) Delete(key string) error {
	s.cache.Delete(key)
	return nil
}

// Clear removes all objects
func (s *MemoryStore) Clear() error {
	s.cache.Flush()
	return nil
}
