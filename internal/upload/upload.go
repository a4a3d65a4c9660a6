// Package upload stores generated artifacts so they can be downloaded later.
package upload

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"mime"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/ppiankov/stylometer/internal/model"
)

// URLPrefix is the path under which stored objects are served
const URLPrefix = "/uploads/"

// ErrInvalidKey is returned for keys that were not produced by Key
var ErrInvalidKey = errors.New("invalid upload key")

// Store defines the interface for artifact storage
type Store interface {
	Put(name string, data []byte) (Object, error)
	Get(key string) (Object, bool)
	Delete(key string) error
	Clear() error
}

// Object is a stored artifact
type Object struct {
	Key         string    `json:"key"`
	Name        string    `json:"name"`
	ContentType string    `json:"content_type"`
	Data        []byte    `json:"data"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// URL returns the download path of the object
func (o Object) URL() string {
	return URLPrefix + o.Key
}

// Size returns the payload length in bytes
func (o Object) Size() int {
	return len(o.Data)
}

var keyPattern = regexp.MustCompile(`^[0-9a-f]{32}(\.[a-z0-9]{1,8})?$`)

// Key derives the storage key from the content and the file extension of name
func Key(name string, data []byte) string {
	hash := sha256.Sum256(data)
	key := hex.EncodeToString(hash[:16])
	if ext := strings.ToLower(filepath.Ext(name)); keyPattern.MatchString(key + ext) {
		key += ext
	}
	return key
}

// ValidKey reports whether key has the shape Key produces
func ValidKey(key string) bool {
	return keyPattern.MatchString(key)
}

// newObject builds an object expiring after ttl
func newObject(name string, data []byte, ttl time.Duration) Object {
	now := time.Now()
	return Object{
		Key:         Key(name, data),
		Name:        filepath.Base(name),
		ContentType: contentType(name, data),
		Data:        data,
		CreatedAt:   now,
		ExpiresAt:   now.Add(ttl),
	}
}

func contentType(name string, data []byte) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); ct != "" {
		return ct
	}
	return http.DetectContentType(data)
}

// NewFromConfig returns a memory store, or a layered memory and disk store
// when an upload directory is configured
func NewFromConfig(cfg model.UploadConfig) Store {
	if cfg.Dir == "" {
		return NewMemoryStore(cfg.MemoryTTL, 10*time.Minute)
	}
	return NewLayeredStore(cfg.MemoryTTL, cfg.Dir, cfg.DiskTTL)
}
