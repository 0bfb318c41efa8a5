package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/tiller-tolbus/packrat/internal/core/ports/driven"
)

const (
	configFileName = "config.toml"
	defaultDirName = ".packrat"
	filePerms      = 0o600
	dirPerms       = 0o700
)

// ConfigStore is a TOML file-backed implementation of driven.ConfigStore.
// All reads and writes go through an in-memory map guarded by a mutex;
// Set persists to disk immediately.
type ConfigStore struct {
	mu   sync.RWMutex
	path string
	data map[string]any
}

var _ driven.ConfigStore = (*ConfigStore)(nil)

// NewConfigStore creates a ConfigStore rooted at the given directory.
// If dir is empty, the default ~/.packrat directory is used. The
// directory is created if it does not exist, and any existing
// config.toml is loaded.
func NewConfigStore(dir string) (*ConfigStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home directory: %w", err)
		}
		dir = filepath.Join(home, defaultDirName)
	}

	if err := os.MkdirAll(dir, dirPerms); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	s := &ConfigStore{
		path: filepath.Join(dir, configFileName),
		data: make(map[string]any),
	}

	if err := s.Load(); err != nil {
		return nil, err
	}

	return s, nil
}

// GetString returns the string value for key, or the empty string if
// the key is absent or holds a non-string value.
func (s *ConfigStore) GetString(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	if !ok {
		return ""
	}
	str, ok := v.(string)
	if !ok {
		return ""
	}
	return str
}

// GetInt returns the integer value for key, or zero if the key is
// absent or holds a non-numeric value. TOML integers unmarshal as
// int64, so both forms are accepted.
func (s *ConfigStore) GetInt(key string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

// GetBool returns the boolean value for key, or false if the key is
// absent or holds a non-boolean value.
func (s *ConfigStore) GetBool(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	if !ok {
		return false
	}
	b, ok := v.(bool)
	if !ok {
		return false
	}
	return b
}

// Set stores the value for key and persists the store to disk.
func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = value
	return s.save()
}

// Save writes the current settings to disk.
func (s *ConfigStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save()
}

// save writes the store contents to the config file. Caller must hold
// the write lock.
func (s *ConfigStore) save() error {
	data, err := toml.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	if err := os.WriteFile(s.path, data, filePerms); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// Load reads the config file from disk, replacing any in-memory
// settings. A missing file is not an error; the store starts empty.
func (s *ConfigStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.data = make(map[string]any)
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	var parsed map[string]any
	if err := toml.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	s.data = flattenMap("", parsed)
	return nil
}

// Path returns the location of the backing config file.
func (s *ConfigStore) Path() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.path
}

// flattenMap converts nested TOML tables into dot-separated keys so
// that [tokens] max_per_chunk is addressable as "tokens.max_per_chunk".
func flattenMap(prefix string, in map[string]any) map[string]any {
	out := make(map[string]any)
	for k, v := range in {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := v.(map[string]any); ok {
			for nk, nv := range flattenMap(key, nested) {
				out[nk] = nv
			}
			continue
		}
		out[key] = v
	}
	return out
}
