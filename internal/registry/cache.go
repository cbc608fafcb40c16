package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Cache persists the dataset metadata list as a single JSON file. Rows are
// never cached, only the list the UI shows on startup.
type Cache struct {
	mu   sync.Mutex
	path string
}

// NewCache creates a metadata cache backed by the given file path.
func NewCache(path string) *Cache {
	return &Cache{path: path}
}

// Load reads the cached metadata list. A missing file yields an empty
// list, not an error.
func (c *Cache) Load() ([]Metadata, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := os.ReadFile(c.path)
	if os.IsNotExist(err) {
		return []Metadata{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read metadata cache: %w", err)
	}

	var list []Metadata
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("decode metadata cache: %w", err)
	}
	return list, nil
}

// Save atomically replaces the cached metadata list.
func (c *Cache) Save(list []Metadata) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("encode metadata cache: %w", err)
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write metadata cache: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("replace metadata cache: %w", err)
	}
	return nil
}
