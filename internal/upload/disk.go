package upload

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DiskStore persists objects as JSON envelopes carrying their expiry
type DiskStore struct {
	dir string
	ttl time.Duration
}

// NewDiskStore creates a new disk store
func NewDiskStore(dir string, ttl time.Duration) *DiskStore {
	return &DiskStore{
		dir: dir,
		ttl: ttl,
	}
}

// Put writes data under its content key
func (s *DiskStore) Put(name string, data []byte) (Object, error) {
	obj := newObject(name, data, s.ttl)
	if err := s.save(obj); err != nil {
		return Object{}, err
	}
	return obj, nil
}

func (s *DiskStore) save(obj Object) error {
	data, err := json.Marshal(obj)
	if err != nil {
		return fmt.Errorf("marshal object: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create upload dir: %w", err)
	}

	// Write then rename so readers never see a partial envelope
	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write upload file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close upload file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path(obj.Key)); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("rename upload file: %w", err)
	}
	return nil
}

// Get reads an object, removing it if it has expired
func (s *DiskStore) Get(key string) (Object, bool) {
	if !ValidKey(key) {
		return Object{}, false
	}
	path := s.path(key)

	data, err := os.ReadFile(path)
	if err != nil {
		return Object{}, false
	}

	var obj Object
	if err := json.Unmarshal(data, &obj); err != nil {
		return Object{}, false
	}

	if time.Now().After(obj.ExpiresAt) {
		_ = os.Remove(path)
		return Object{}, false
	}

	return obj, true
}

// Delete removes an object
func (s *DiskStore) Delete(key string) error {
	if !ValidKey(key) {
		return ErrInvalidKey
	}
	err := os.Remove(s.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Clear removes all stored files
func (s *DiskStore) Clear() error {
	return os.RemoveAll(s.dir)
}

// Sweep deletes expired envelopes and returns how many were removed
func (s *DiskStore) Sweep() (int, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read upload dir: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".upload") {
			continue
		}
		if _, ok := s.Get(strings.TrimSuffix(name, ".upload")); !ok {
			// Get removes expired files; unreadable ones are removed here
			if err := os.Remove(filepath.Join(s.dir, name)); err == nil || os.IsNotExist(err) {
				removed++
			}
		}
	}
	return removed, nil
}

func (s *DiskStore) path(key string) string {
	return filepath.Join(s.dir, key+".upload")
}
