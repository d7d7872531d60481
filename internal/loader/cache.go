package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Cache maps lower-cased movie titles to movie ids and persists the
// mapping as a JSON sidecar file. It is owned exclusively by the
// loader for the duration of a run; flushing after every run (success
// or failure) is what makes re-runs resumable.
type Cache struct {
	path    string
	entries map[string]string
}

// LoadCache reads the cache at path, starting empty when the file does
// not exist yet.
func LoadCache(path string) (*Cache, error) {
	c := &Cache{
		path:    path,
		entries: make(map[string]string),
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read movie cache %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &c.entries); err != nil {
		return nil, fmt.Errorf("parse movie cache %s: %w", path, err)
	}
	return c, nil
}

// Get looks up the movie id for a title, case-insensitively.
func (c *Cache) Get(title string) (string, bool) {
	id, ok := c.entries[strings.ToLower(title)]
	return id, ok
}

// Put records the movie id for a title.
func (c *Cache) Put(title, id string) {
	c.entries[strings.ToLower(title)] = id
}

// Len returns the number of cached movies.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Flush writes the current mapping to disk, pretty-printed with
// non-ASCII characters preserved literally.
func (c *Cache) Flush() error {
	f, err := os.Create(c.path)
	if err != nil {
		return fmt.Errorf("create movie cache %s: %w", c.path, err)
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(c.entries); err != nil {
		f.Close()
		return fmt.Errorf("encode movie cache %s: %w", c.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close movie cache %s: %w", c.path, err)
	}
	return nil
}
