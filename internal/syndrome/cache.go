package syndrome

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"qstack/internal/pauli"
)

// View exposes a cached table in the caller's generator order.
type View struct {
	Table *Table
	// perm[c] is the caller index of canonical generator c.
	perm []int
}

// Lookup permutes s from caller order into the table's order and looks it up.
func (v View) Lookup(s Syndrome) (pauli.String, bool) {
	if len(s) != len(v.perm) {
		return nil, false
	}
	canonical := make(Syndrome, len(s))
	for c, i := range v.perm {
		canonical[c] = s[i]
	}
	return v.Table.Lookup(canonical)
}

// Canonical sorts the bare generators of group. It returns the sorted list
// and perm with perm[c] the index in group of sorted entry c.
func Canonical(group []pauli.String) ([]pauli.String, []int) {
	perm := make([]int, len(group))
	keys := make([]string, len(group))
	for i, g := range group {
		perm[i] = i
		keys[i] = bare(g).Key()
	}
	sort.SliceStable(perm, func(a, b int) bool { return keys[perm[a]] < keys[perm[b]] })
	sorted := make([]pauli.String, len(group))
	for c, i := range perm {
		sorted[c] = bare(group[i])
	}
	return sorted, perm
}

// Stats counts cache activity.
type Stats struct {
	Hits     int64
	Builds   int64
	DiskHits int64
}

// Cache memoises tables by canonical generator set and weight bound.
//
// A Cache lives for one compile session and is safe for concurrent use.
// Each key is built at most once; later inserts for a known key are
// ignored.
type Cache struct {
	mu     sync.RWMutex
	tables map[string]*Table
	flight singleflight.Group
	store  *DiskStore

	hits     atomic.Int64
	builds   atomic.Int64
	diskHits atomic.Int64
}

// NewCache creates an empty cache. store may be nil.
func NewCache(store *DiskStore) *Cache {
	return &Cache{tables: make(map[string]*Table), store: store}
}

// View returns the table for group, building it on first use.
func (c *Cache) View(group []pauli.String, maxWeight int) (View, error) {
	sorted, perm := Canonical(group)
	key := tableKey(sorted, maxWeight)

	c.mu.RLock()
	t, ok := c.tables[key]
	c.mu.RUnlock()
	if ok {
		c.hits.Add(1)
		return View{Table: t, perm: perm}, nil
	}

	v, err, _ := c.flight.Do(key, func() (interface{}, error) {
		c.mu.RLock()
		t, ok := c.tables[key]
		c.mu.RUnlock()
		if ok {
			return t, nil
		}
		t, err := c.load(key, sorted, maxWeight)
		if err != nil {
			return nil, err
		}
		c.insert(t)
		return t, nil
	})
	if err != nil {
		return View{}, fmt.Errorf("syndrome table %s: %w", key, err)
	}
	return View{Table: v.(*Table), perm: perm}, nil
}

func (c *Cache) load(key string, sorted []pauli.String, maxWeight int) (*Table, error) {
	if c.store != nil {
		t, found, err := c.store.Get(key)
		if err != nil {
			return nil, err
		}
		if found {
			c.diskHits.Add(1)
			return t, nil
		}
	}
	t := Build(sorted, maxWeight)
	c.builds.Add(1)
	if c.store != nil {
		if err := c.store.Put(t); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// insert stores t unless its key is already present.
func (c *Cache) insert(t *Table) {
	c.mu.Lock()
	if _, ok := c.tables[t.Key]; !ok {
		c.tables[t.Key] = t
	}
	c.mu.Unlock()
}

// Len is the number of cached tables.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tables)
}

// Tables returns every cached table ordered by key.
func (c *Cache) Tables() []*Table {
	c.mu.RLock()
	out := make([]*Table, 0, len(c.tables))
	for _, t := range c.tables {
		out = append(out, t)
	}
	c.mu.RUnlock()
	sort.Slice(out, func(a, b int) bool { return out[a].Key < out[b].Key })
	return out
}

// Stats returns a snapshot of the counters.
func (c *Cache) Stats() Stats {
	return Stats{Hits: c.hits.Load(), Builds: c.builds.Load(), DiskHits: c.diskHits.Load()}
}
