// Package keystore implements the durable client keystore as a single JSON
// document on disk. Reads always hit the disk, so separate processes sharing
// a state directory observe each other's writes.
package keystore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/tnlabs/auth-client-kit/internal/core/domain"
	"github.com/tnlabs/auth-client-kit/internal/core/ports"
)

const stateFile = "state.json"

// File is a ports.Keystore backed by <dir>/state.json. Writes go through a
// temp file and rename so a crash never leaves a half-written document.
type File struct {
	path string
	mu   sync.Mutex
}

var _ ports.Keystore = (*File)(nil)

// NewFile creates the state directory if needed and returns a keystore
// rooted in it.
func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("keystore: create state dir: %w", err)
	}
	return &File{path: filepath.Join(dir, stateFile)}, nil
}

func (f *File) AccessToken() string {
	v, _ := f.Get(ports.KeyAccessToken)
	return v
}

func (f *File) SetAccessToken(token string) error {
	return f.Set(ports.KeyAccessToken, token)
}

func (f *File) RefreshToken() string {
	v, _ := f.Get(ports.KeyRefreshToken)
	return v
}

func (f *File) SetRefreshToken(token string) error {
	return f.Set(ports.KeyRefreshToken, token)
}

// User returns the cached user record, or false when the value is absent or
// does not parse. A corrupt record is treated the same as no record.
func (f *File) User() (domain.User, bool) {
	return GetJSON[domain.User](f, ports.KeyUser)
}

func (f *File) SetUser(u domain.User) error {
	return SetJSON(f, ports.KeyUser, u)
}

// ClearAuth removes exactly the three auth keys, leaving everything else
// (for example the stored theme) untouched.
func (f *File) ClearAuth() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	m := f.load()
	delete(m, ports.KeyAccessToken)
	delete(m, ports.KeyRefreshToken)
	delete(m, ports.KeyUser)
	return f.save(m)
}

func (f *File) Get(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	v, ok := f.load()[key]
	return v, ok
}

func (f *File) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	m := f.load()
	m[key] = value
	return f.save(m)
}

func (f *File) Remove(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	m := f.load()
	delete(m, key)
	return f.save(m)
}

// Clear wipes the whole document.
func (f *File) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("keystore: clear: %w", err)
	}
	return nil
}

func (f *File) load() map[string]string {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		return map[string]string{}
	}
	var m map[string]string
	if err := json.Unmarshal(raw, &m); err != nil || m == nil {
		return map[string]string{}
	}
	return m
}

func (f *File) save(m map[string]string) error {
	raw, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("keystore: encode state: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("keystore: write state: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("keystore: commit state: %w", err)
	}
	return nil
}

// GetJSON reads key from ks and decodes it into T. It returns false when the
// key is absent or the stored value does not parse.
func GetJSON[T any](ks ports.Keystore, key string) (T, bool) {
	var v T
	raw, ok := ks.Get(key)
	if !ok {
		return v, false
	}
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		var zero T
		return zero, false
	}
	return v, true
}

// SetJSON encodes v as JSON and stores it under key.
func SetJSON[T any](ks ports.Keystore, key string, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("keystore: encode %s: %w", key, err)
	}
	return ks.Set(key, string(raw))
}
