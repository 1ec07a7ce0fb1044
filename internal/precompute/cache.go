// Package precompute renders every known reference once per build so that
// page translation can look references up instead of rendering them again.
package precompute

import (
	"encoding/json"
	"fmt"

	"github.com/swiftlang/swift-docc-sub005/internal/ledger"
	"github.com/swiftlang/swift-docc-sub005/internal/reference"
	"github.com/swiftlang/swift-docc-sub005/internal/render"
	"github.com/swiftlang/swift-docc-sub005/internal/semantic"
)

// Membership places a page in one topic group of a parent page.
type Membership struct {
	Parent semantic.Identifier `json:"parent"`
	Title  string              `json:"title"`
}

// Entry is everything precomputed for one identifier.
type Entry struct {
	Identifier    semantic.Identifier
	Reference     render.Reference
	Dependencies  ledger.Dependencies
	CanonicalPath []semantic.Identifier
	TaskGroups    []Membership
}

type entryJSON struct {
	Identifier    semantic.Identifier   `json:"identifier"`
	Reference     render.Persisted      `json:"reference"`
	Dependencies  ledger.Dependencies   `json:"dependencies"`
	CanonicalPath []semantic.Identifier `json:"canonicalPath,omitempty"`
	TaskGroups    []Membership          `json:"taskGroups,omitempty"`
}

func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal(entryJSON{
		Identifier:    e.Identifier,
		Reference:     render.Persisted{Reference: e.Reference},
		Dependencies:  e.Dependencies,
		CanonicalPath: e.CanonicalPath,
		TaskGroups:    e.TaskGroups,
	})
}

func (e *Entry) UnmarshalJSON(b []byte) error {
	var in entryJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	if in.Reference.Reference == nil {
		return fmt.Errorf("entry %s has no reference", in.Identifier)
	}
	*e = Entry{
		Identifier:    in.Identifier,
		Reference:     in.Reference.Reference,
		Dependencies:  in.Dependencies,
		CanonicalPath: in.CanonicalPath,
		TaskGroups:    in.TaskGroups,
	}
	return nil
}

// Store looks up precomputed entries. *Cache and the SQLite store both
// satisfy it.
type Store interface {
	Lookup(id semantic.Identifier) (Entry, bool)
}

// References adapts s to the reference lookup cache. A nil store yields a
// nil cache, so every lookup renders.
func References(s Store) reference.Cache {
	if s == nil {
		return nil
	}
	if c, ok := s.(reference.Cache); ok {
		return c
	}
	return storeCache{s}
}

type storeCache struct{ s Store }

func (c storeCache) Reference(id semantic.Identifier) (render.Reference, ledger.Dependencies, bool) {
	e, ok := c.s.Lookup(id)
	return e.Reference, e.Dependencies, ok
}

// Cache is an immutable identifier-keyed set of entries. It is safe for
// concurrent reads.
type Cache struct {
	entries map[semantic.Identifier]Entry
	order   []semantic.Identifier
}

// NewCache builds a cache from entries. Later entries for the same
// identifier are ignored.
func NewCache(entries []Entry) *Cache {
	c := &Cache{entries: make(map[semantic.Identifier]Entry, len(entries))}
	for _, e := range entries {
		if _, dup := c.entries[e.Identifier]; dup {
			continue
		}
		c.entries[e.Identifier] = e
		c.order = append(c.order, e.Identifier)
	}
	return c
}

func (c *Cache) Lookup(id semantic.Identifier) (Entry, bool) {
	if c == nil {
		return Entry{}, false
	}
	e, ok := c.entries[id]
	return e, ok
}

func (c *Cache) Reference(id semantic.Identifier) (render.Reference, ledger.Dependencies, bool) {
	e, ok := c.Lookup(id)
	return e.Reference, e.Dependencies, ok
}

// Entries returns every entry in build order.
func (c *Cache) Entries() []Entry {
	out := make([]Entry, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.entries[id])
	}
	return out
}

func (c *Cache) Len() int { return len(c.order) }
