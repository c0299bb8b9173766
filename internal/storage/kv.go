// Package storage provides the durable, origin-scoped key-value storage the
// client keeps its session in. It plays the role a browser's localStorage
// plays for a web client: string values under string keys, surviving process
// restarts, isolated per backend origin.
package storage

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

// ErrInvalidKey is returned for keys that cannot be stored safely.
var ErrInvalidKey = errors.New("storage: invalid key")

// KV is a durable string key-value store.
//
// Get reports ok=false for a missing key; a missing key is not an error.
// Remove of a missing key is a no-op.
type KV interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(key string) error
}

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

func validateKey(key string) error {
	if key == "" || key == "." || key == ".." || !keyPattern.MatchString(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// FileKV stores each key as a file inside a directory. Writes go to a
// temporary file which is then renamed over the target, so a reader never
// sees a half-written value.
type FileKV struct {
	dir string
	mu  sync.Mutex
}

// NewFileKV creates a FileKV rooted at dir. The directory is created lazily
// on the first write.
func NewFileKV(dir string) *FileKV {
	return &FileKV{dir: dir}
}

// OpenOrigin returns a FileKV scoped to the origin of baseURL under root.
// Two base URLs share storage exactly when their scheme, host and port match.
func OpenOrigin(root, baseURL string) (*FileKV, error) {
	slug, err := OriginSlug(baseURL)
	if err != nil {
		return nil, err
	}
	return NewFileKV(filepath.Join(root, slug)), nil
}

// OriginSlug turns the origin of rawURL into a directory name,
// e.g. "https://api.example.com:8443/api/" -> "https_api.example.com_8443".
func OriginSlug(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse origin %q: %w", rawURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("origin %q must be an absolute URL", rawURL)
	}

	port := u.Port()
	if port == "" {
		switch u.Scheme {
		case "https":
			port = "443"
		default:
			port = "80"
		}
	}

	host := strings.ToLower(u.Hostname())
	host = strings.NewReplacer(":", "-", "[", "", "]", "").Replace(host)
	return fmt.Sprintf("%s_%s_%s", strings.ToLower(u.Scheme), host, port), nil
}

// Dir returns the directory holding the keys.
func (f *FileKV) Dir() string {
	return f.dir
}

func (f *FileKV) path(key string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}
	return filepath.Join(f.dir, key), nil
}

// Get reads a key.
func (f *FileKV) Get(key string) (string, bool, error) {
	p, err := f.path(key)
	if err != nil {
		return "", false, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", key, err)
	}
	return string(data), true, nil
}

// Set writes a key with 0600 permissions.
func (f *FileKV) Set(key, value string) error {
	p, err := f.path(key)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(f.dir, 0o700); err != nil {
		return fmt.Errorf("create storage dir: %w", err)
	}

	tmp, err := os.CreateTemp(f.dir, "."+key+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", key, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("chmod %s: %w", key, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", key, err)
	}
	if err := os.Rename(tmpName, p); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("commit %s: %w", key, err)
	}
	return nil
}

// Remove deletes a key.
func (f *FileKV) Remove(key string) error {
	p, err := f.path(key)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

// MemoryKV is an in-memory KV for tests and for runs that must not touch disk.
type MemoryKV struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryKV creates an empty MemoryKV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string]string)}
}

// Get reads a key.
func (m *MemoryKV) Get(key string) (string, bool, error) {
	if err := validateKey(key); err != nil {
		return "", false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

// Set writes a key.
func (m *MemoryKV) Set(key, value string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// Remove deletes a key.
func (m *MemoryKV) Remove(key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// Len returns the number of stored keys.
func (m *MemoryKV) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}

var (
	_ KV = (*FileKV)(nil)
	_ KV = (*MemoryKV)(nil)
)
