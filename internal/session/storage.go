package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gin-contrib/sessions"

	"altheia/internal/apiclient"
)

const (
	KeyUser        = "user"
	KeyAccessToken = "access_token"
)

// Storage is the client-local slot a Store persists into. Values are opaque
// strings; the Store owns their encoding.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

// Flusher is implemented by storages that buffer writes. The Store calls
// Flush once after every batch of mutations.
type Flusher interface {
	Flush() error
}

type MemoryStorage struct {
	mu        sync.Mutex
	data      map[string]string
	mutations int
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: map[string]string{}}
}

func (m *MemoryStorage) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}

func (m *MemoryStorage) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.mutations++
	return nil
}

func (m *MemoryStorage) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[key]; ok {
		delete(m.data, key)
		m.mutations++
	}
	return nil
}

// Mutations counts writes and deletions of present keys.
func (m *MemoryStorage) Mutations() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mutations
}

// FileStorage keeps the slots in one JSON document. Writes are buffered
// until Flush, which replaces the file atomically or removes it when no
// slots are left.
type FileStorage struct {
	path string

	mu   sync.Mutex
	data map[string]string
}

// OpenFileStorage loads path if it exists. An unreadable document is
// treated as empty and replaced on the next Flush.
func OpenFileStorage(path string) (*FileStorage, error) {
	fs := &FileStorage{path: path, data: map[string]string{}}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return fs, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}

	if err := json.Unmarshal(raw, &fs.data); err != nil || fs.data == nil {
		fs.data = map[string]string{}
	}

	return fs, nil
}

func (f *FileStorage) Get(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok
}

func (f *FileStorage) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
	return nil
}

func (f *FileStorage) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, key)
	return nil
}

func (f *FileStorage) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.data) == 0 {
		if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove session file: %w", err)
		}
		return nil
	}

	raw, err := json.Marshal(f.data)
	if err != nil {
		return fmt.Errorf("encode session file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".session-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write session file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close session file: %w", err)
	}

	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}

	return nil
}

// CookieStorage adapts a gin-contrib/sessions session. Values live in the
// browser's signed and encrypted session cookie. The cookie never outlives
// the access token it carries.
type CookieStorage struct {
	sess sessions.Session
	base sessions.Options
	now  func() time.Time
}

func NewCookieStorage(sess sessions.Session, base sessions.Options) *CookieStorage {
	return &CookieStorage{sess: sess, base: base, now: time.Now}
}

func (c *CookieStorage) Get(key string) (string, bool) {
	v, ok := c.sess.Get(key).(string)
	return v, ok
}

func (c *CookieStorage) Set(key, value string) error {
	c.sess.Set(key, value)
	return nil
}

func (c *CookieStorage) Delete(key string) error {
	c.sess.Delete(key)
	return nil
}

func (c *CookieStorage) Flush() error {
	opts := c.base
	if token, ok := c.Get(KeyAccessToken); ok {
		if exp, ok := apiclient.TokenExpiry(token); ok {
			remaining := int(exp.Sub(c.now()).Seconds())
			if remaining < 1 {
				remaining = -1
			}
			if opts.MaxAge <= 0 || remaining < opts.MaxAge {
				opts.MaxAge = remaining
			}
		}
	}
	c.sess.Options(opts)
	return c.sess.Save()
}
