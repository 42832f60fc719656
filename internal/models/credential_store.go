package models

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Keys held in a credential store
const (
	TokenKey = "token"
	UserKey  = "user"
)

// CredentialStore is a small persistent string map holding the session credentials
type CredentialStore interface {
	// Get returns the stored value, or "" when the key is absent
	Get(key string) (string, error)
	Set(key, value string) error
	Remove(key string) error
}

// FileCredentialStore keeps each key in its own file inside Dir
type FileCredentialStore struct {
	Dir string
}

func NewFileCredentialStore(configDir string) *FileCredentialStore {
	return &FileCredentialStore{
		Dir: configDir,
	}
}

// Path returns the file holding key
func (s *FileCredentialStore) Path(key string) string {
	return filepath.Join(s.Dir, key)
}

func (s *FileCredentialStore) Get(key string) (string, error) {
	data, err := os.ReadFile(s.Path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return string(data), nil
}

// Set writes through a temporary file so a value is never half written
func (s *FileCredentialStore) Set(key, value string) error {
	if err := os.MkdirAll(s.Dir, 0700); err != nil {
		return fmt.Errorf("error creating credential directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.Dir, "."+key+"-*")
	if err != nil {
		return fmt.Errorf("error creating temporary credential file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(value); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("error writing %s: %w", key, err)
	}
	if err := tmp.Chmod(0600); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("error restricting %s permissions: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("error closing %s: %w", key, err)
	}

	return os.Rename(tmpName, s.Path(key))
}

func (s *FileCredentialStore) Remove(key string) error {
	if err := os.Remove(s.Path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// MemoryCredentialStore is an in-process CredentialStore
type MemoryCredentialStore struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemoryCredentialStore() *MemoryCredentialStore {
	return &MemoryCredentialStore{values: make(map[string]string)}
}

func (s *MemoryCredentialStore) Get(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[key], nil
}

func (s *MemoryCredentialStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *MemoryCredentialStore) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}
