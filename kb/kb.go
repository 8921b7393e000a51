package kb

import (
	"fmt"
	"sort"
	"sync"

	"github.com/signalsfoundry/navhealth/model"
)

// Catalog is an in-memory, thread-safe registry of the constellation
// members under analysis. It maps satellite names to NORAD identifiers and
// carries the published service requirements used by the health aggregator.
type Catalog struct {
	mu sync.RWMutex

	entries map[string]*model.SatelliteEntry
}

// NewCatalog constructs an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{entries: make(map[string]*model.SatelliteEntry)}
}

// Add registers a satellite. It returns an error if the name is already
// present or the NORAD ID collides with an existing entry.
func (c *Catalog) Add(e *model.SatelliteEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[e.Name]; exists {
		return fmt.Errorf("satellite %q already registered", e.Name)
	}
	for _, other := range c.entries {
		if other.NoradID == e.NoradID {
			return fmt.Errorf("NORAD ID %d already registered as %q", e.NoradID, other.Name)
		}
	}
	c.entries[e.Name] = e
	return nil
}

// Get returns the entry with the given name, or nil if not found.
func (c *Catalog) Get(name string) *model.SatelliteEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[name]
}

// ByNoradID returns the entry with the given catalog number, or nil.
func (c *Catalog) ByNoradID(id int) *model.SatelliteEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, e := range c.entries {
		if e.NoradID == id {
			return e
		}
	}
	return nil
}

// List returns a snapshot of all entries sorted by name, so iteration order
// is stable across runs.
func (c *Catalog) List() []*model.SatelliteEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	res := make([]*model.SatelliteEntry, 0, len(c.entries))
	for _, e := range c.entries {
		res = append(res, e)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name < res[j].Name })
	return res
}

// ListActive returns the sorted subset of entries marked active. Inactive
// satellites stay in the catalog for element-history analysis but can be
// excluded from positioning-geometry runs.
func (c *Catalog) ListActive() []*model.SatelliteEntry {
	all := c.List()
	res := make([]*model.SatelliteEntry, 0, len(all))
	for _, e := range all {
		if e.Active {
			res = append(res, e)
		}
	}
	return res
}

// NameToNoradID returns the name→catalog-number table used when matching
// ephemeris text to known satellites.
func (c *Catalog) NameToNoradID() map[string]int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	m := make(map[string]int, len(c.entries))
	for name, e := range c.entries {
		m[name] = e.NoradID
	}
	return m
}

// Size returns the number of registered satellites.
func (c *Catalog) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
