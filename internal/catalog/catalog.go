// Package catalog loads the prompt framework index and lazily parses
// per-framework documents into structured detail records.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/spf13/afero"

	"github.com/josephgoksu/PromptWing/models"
	"github.com/josephgoksu/PromptWing/types"
)

const (
	indexFilename = "frameworks_summary.json"
	documentsDir  = "frameworks"
)

// Catalog serves framework index entries and cached details. The default
// resource pack is embedded in the binary; an optional override directory
// with the same layout takes precedence when present.
type Catalog struct {
	overrideDir string
	fs          afero.Fs

	mu      sync.RWMutex
	index   []models.FrameworkIndexEntry
	cache   map[int]*models.FrameworkDetail
	watcher *watcher
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithOverrideDir points the catalog at a user-managed resource directory.
func WithOverrideDir(dir string) Option {
	return func(c *Catalog) { c.overrideDir = dir }
}

// WithFs substitutes the filesystem used for the override directory.
func WithFs(fs afero.Fs) Option {
	return func(c *Catalog) { c.fs = fs }
}

// New creates an uninitialized Catalog. Initialize must succeed before any
// other method is usable.
func New(opts ...Option) *Catalog {
	c := &Catalog{
		fs:    afero.NewOsFs(),
		cache: make(map[int]*models.FrameworkDetail),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Initialize loads the framework index. It returns false on failure and
// leaves the catalog unusable; callers must check before use. Calling it
// again performs a fresh load each time rather than short-circuiting; the
// index is small.
func (c *Catalog) Initialize() bool {
	raw, err := c.readResource(indexFilename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "catalog: failed to load framework index: %v\n", err)
		return false
	}

	var entries []models.FrameworkIndexEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		fmt.Fprintf(os.Stderr, "catalog: failed to parse framework index: %v\n", err)
		return false
	}

	// Enrich each entry with its derived document path.
	for i := range entries {
		entries[i].DocumentPath = path.Join(documentsDir, entries[i].Filename)
	}

	c.mu.Lock()
	c.index = entries
	c.mu.Unlock()
	return true
}

// Entries returns a copy of the index in catalog order.
func (c *Catalog) Entries() []models.FrameworkIndexEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.FrameworkIndexEntry, len(c.index))
	copy(out, c.index)
	return out
}

// Len reports the number of indexed frameworks.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.index)
}

// FindIDByName resolves a framework id from its native or English name.
// Exact matches win; otherwise both sides are normalized (lower-cased,
// whitespace/hyphen/underscore stripped) and checked for mutual substring
// containment. With duplicate-name catalogs the first match in index order
// is returned; there is no tie-break rule.
func (c *Catalog) FindIDByName(name, nameEn string) (int, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, e := range c.index {
		if (name != "" && (e.Name == name || e.NameEn == name)) ||
			(nameEn != "" && (e.Name == nameEn || e.NameEn == nameEn)) {
			return e.ID, true
		}
	}

	query := name
	if query == "" {
		query = nameEn
	}
	needle := normalizeName(query)
	if needle == "" {
		return 0, false
	}
	for _, e := range c.index {
		for _, candidate := range []string{e.Name, e.NameEn} {
			n := normalizeName(candidate)
			if n == "" {
				continue
			}
			if strings.Contains(n, needle) || strings.Contains(needle, n) {
				return e.ID, true
			}
		}
	}
	return 0, false
}

// normalizeName lower-cases and strips whitespace, hyphens, and
// underscores for fuzzy comparison.
func normalizeName(s string) string {
	s = strings.ToLower(s)
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '-', '_':
			return -1
		}
		return r
	}, s)
}

// LoadDetail returns the parsed detail for a framework id, from cache when
// available. Cache entries live for the process lifetime.
func (c *Catalog) LoadDetail(id int) (*models.FrameworkDetail, error) {
	c.mu.RLock()
	if detail, ok := c.cache[id]; ok {
		c.mu.RUnlock()
		return detail, nil
	}
	var entry *models.FrameworkIndexEntry
	for i := range c.index {
		if c.index[i].ID == id {
			entry = &c.index[i]
			break
		}
	}
	c.mu.RUnlock()

	if entry == nil {
		return nil, types.NewError(types.ErrNotFound, fmt.Sprintf("framework not found: %d", id))
	}

	raw, err := c.readResource(entry.DocumentPath)
	if err != nil {
		return nil, types.WrapError(types.ErrCatalog, fmt.Sprintf("failed to load framework document %s", entry.DocumentPath), err)
	}

	detail := ParseDetail(string(raw), *entry)

	c.mu.Lock()
	c.cache[id] = detail
	c.mu.Unlock()
	return detail, nil
}

// readResource reads a resource from the override directory when one is
// configured and the file exists there, otherwise from the embedded pack.
func (c *Catalog) readResource(relPath string) ([]byte, error) {
	if c.overrideDir != "" {
		overridePath := path.Join(c.overrideDir, relPath)
		if ok, _ := afero.Exists(c.fs, overridePath); ok {
			return afero.ReadFile(c.fs, overridePath)
		}
	}
	return resourceFS.ReadFile(path.Join("resources", relPath))
}

// invalidate drops every cached detail and reloads the index. Used by the
// override-directory watcher.
func (c *Catalog) invalidate() {
	c.mu.Lock()
	c.cache = make(map[int]*models.FrameworkDetail)
	c.mu.Unlock()
	c.Initialize()
}
