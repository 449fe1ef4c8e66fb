package internal

import (
	"crypto/md5"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	tt "github.com/gnolang/arbiter/internal/types"
)

const (
	cacheFileName = "check_cache.gob"
	cacheVersion  = 2

	DefaultCacheAge = 24 * time.Hour
)

// CacheEntry holds the diagnostics of one file together with everything
// that produced them: the checked content, its modification time and the
// active rule set.
type CacheEntry struct {
	Hash         string
	ModTime      time.Time
	RuleSet      string
	Diagnostics  []tt.Diagnostic
	CreatedAt    time.Time
	LastAccessed time.Time
}

// cacheFile is the on-disk layout. Files written with another version are
// discarded on load.
type cacheFile struct {
	Version int
	Entries map[string]CacheEntry
}

// Cache stores the diagnostics of previously checked files. An entry is
// reused only for the same content, modification time and rule set, and
// only while it is younger than the maximum age.
type Cache struct {
	CacheDir string

	mu      sync.Mutex
	entries map[string]CacheEntry
	maxAge  time.Duration
}

func NewCache(cacheDir string) (*Cache, error) {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	c := &Cache{
		CacheDir: cacheDir,
		entries:  make(map[string]CacheEntry),
		maxAge:   DefaultCacheAge,
	}
	if err := c.load(); err != nil {
		return nil, fmt.Errorf("failed to load cache: %w", err)
	}
	return c, nil
}

func (c *Cache) path() string {
	return filepath.Join(c.CacheDir, cacheFileName)
}

func (c *Cache) load() error {
	f, err := os.Open(c.path())
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open cache file: %w", err)
	}
	defer f.Close()

	var stored cacheFile
	if err := gob.NewDecoder(f).Decode(&stored); err != nil {
		return fmt.Errorf("failed to decode cache file: %w", err)
	}
	if stored.Version == cacheVersion && stored.Entries != nil {
		c.entries = stored.Entries
	}
	return nil
}

func (c *Cache) save() error {
	f, err := os.Create(c.path())
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(cacheFile{Version: cacheVersion, Entries: c.entries}); err != nil {
		return fmt.Errorf("failed to encode cache file: %w", err)
	}
	return nil
}

// Set records the diagnostics that ruleSet produced for content, the bytes
// read from filename. The hash is taken from content rather than from the
// file, so a later edit never inherits these diagnostics.
func (c *Cache) Set(filename, ruleSet string, content []byte, diags []tt.Diagnostic) error {
	info, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("failed to get file info: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	c.entries[filename] = CacheEntry{
		Hash:         contentHash(content),
		ModTime:      info.ModTime(),
		RuleSet:      ruleSet,
		Diagnostics:  diags,
		CreatedAt:    now,
		LastAccessed: now,
	}
	return c.save()
}

// Get returns the diagnostics recorded for filename under ruleSet. A stale
// entry is dropped.
func (c *Cache) Get(filename, ruleSet string) ([]tt.Diagnostic, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[filename]
	if !ok {
		return nil, false
	}
	if entry.RuleSet != ruleSet {
		return nil, false
	}
	if c.stale(filename, entry) {
		delete(c.entries, filename)
		return nil, false
	}

	entry.LastAccessed = time.Now()
	c.entries[filename] = entry
	return entry.Diagnostics, true
}

func (c *Cache) stale(filename string, entry CacheEntry) bool {
	if time.Since(entry.CreatedAt) > c.maxAge {
		return true
	}

	info, err := os.Stat(filename)
	if err != nil || !info.ModTime().Equal(entry.ModTime) {
		return true
	}
	content, err := os.ReadFile(filename)
	if err != nil {
		return true
	}
	return contentHash(content) != entry.Hash
}

func (c *Cache) SetMaxAge(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.maxAge = d
}

func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]CacheEntry)
	_ = c.save() // best effort, the in-memory state is already empty
}

func contentHash(content []byte) string {
	sum := md5.Sum(content)
	return hex.EncodeToString(sum[:])
}
