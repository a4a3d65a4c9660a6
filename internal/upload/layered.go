package upload

import "time"

// LayeredStore checks memory first and falls back to disk
type LayeredStore struct {
	memory *MemoryStore
	disk   *DiskStore
}

// NewLayeredStore creates a new layered store
func NewLayeredStore(memoryTTL time.Duration, diskDir string, diskTTL time.Duration) *LayeredStore {
	return &LayeredStore{
		memory: NewMemoryStore(memoryTTL, 10*time.Minute),
		disk:   NewDiskStore(diskDir, diskTTL),
	}
}

// Put writes to disk, then memory
func (s *LayeredStore) Put(name string, data []byte) (Object, error) {
	obj, err := s.disk.Put(name, data)
	if err != nil {
		return Object{}, err
	}
	s.memory.save(obj)
	return obj, nil
}

// Get retrieves an object, promoting disk hits into memory
func (s *LayeredStore) Get(key string) (Object, bool) {
	if obj, found := s.memory.Get(key); found {
		return obj, true
	}

	if obj, found := s.disk.Get(key); found {
		s.memory.save(obj)
		return obj, true
	}

	return Object{}, false
}

// Delete removes an object from both layers
func (s *LayeredStore) Delete(key string) error {
	_ = s.memory.Delete(key)
	return s.disk.Delete(key)
}

// Clear removes all objects from both layers
func (s *LayeredStore) Clear() error {
	_ = s.memory.Clear()
	return s.disk.Clear()
}

// Sweep removes expired objects from disk
func (s *LayeredStore) Sweep() (int, error) {
	return s.disk.Sweep()
}
