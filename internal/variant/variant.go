// Package variant holds page data that can differ by source-language trait.
//
// A Collection carries one default value plus optional per-trait overrides.
// A Collection without overrides behaves exactly like a plain value.
package variant

import (
	"encoding/json"
	"reflect"
)

// Trait selects a variant. Today the only dimension is the interface language.
type Trait struct {
	InterfaceLanguage string `json:"interfaceLanguage"`
}

// Language returns the trait for a source-language identifier such as "swift" or "occ".
func Language(id string) Trait {
	return Trait{InterfaceLanguage: id}
}

// Override is one explicit per-trait value.
type Override[T any] struct {
	Trait Trait `json:"trait"`
	Value T     `json:"value"`
}

// Collection is a default value with zero or more trait-keyed overrides.
// The zero Collection holds the zero value of T and no overrides.
type Collection[T any] struct {
	defaultTrait Trait
	defaultValue T
	order        []Trait
	overrides    map[Trait]T
}

// New returns a collection whose default value is stored under defaultTrait.
func New[T any](defaultTrait Trait, value T) Collection[T] {
	return Collection[T]{defaultTrait: defaultTrait, defaultValue: value}
}

// Value returns a collection with no default trait and no overrides.
func Value[T any](value T) Collection[T] {
	return Collection[T]{defaultValue: value}
}

// DefaultTrait returns the trait the default value belongs to.
func (c Collection[T]) DefaultTrait() Trait { return c.defaultTrait }

// Default returns the default value.
func (c Collection[T]) Default() T { return c.defaultValue }

// Get returns the override for trait, or the default when there is none.
func (c Collection[T]) Get(trait Trait) T {
	if v, ok := c.overrides[trait]; ok {
		return v
	}
	return c.defaultValue
}

// HasOverride reports whether trait has an explicit override.
func (c Collection[T]) HasOverride(trait Trait) bool {
	_, ok := c.overrides[trait]
	return ok
}

// Set stores value for trait. Setting the default trait replaces the default.
func (c *Collection[T]) Set(trait Trait, value T) {
	if trait == c.defaultTrait {
		c.defaultValue = value
		return
	}
	if c.overrides == nil {
		c.overrides = make(map[Trait]T)
	}
	if _, ok := c.overrides[trait]; !ok {
		c.order = append(c.order, trait)
	}
	c.overrides[trait] = value
}

// Overrides returns the explicit overrides in the order they were first set.
func (c Collection[T]) Overrides() []Override[T] {
	if len(c.order) == 0 {
		return nil
	}
	out := make([]Override[T], 0, len(c.order))
	for _, t := range c.order {
		out = append(out, Override[T]{Trait: t, Value: c.overrides[t]})
	}
	return out
}

// Traits returns the default trait followed by every overridden trait.
func (c Collection[T]) Traits() []Trait {
	return append([]Trait{c.defaultTrait}, c.order...)
}

// Map applies f to the default value and to every override.
func Map[T, U any](c Collection[T], f func(T) U) Collection[U] {
	out := Collection[U]{defaultTrait: c.defaultTrait, defaultValue: f(c.defaultValue)}
	for _, t := range c.order {
		out.Set(t, f(c.overrides[t]))
	}
	return out
}

// FromTraits builds a collection by calling gen once per trait. The first trait
// holds the default. When every trait yields an equal value the result has no
// overrides; otherwise only values that differ from the default are stored.
func FromTraits[T any](traits []Trait, gen func(Trait) T) Collection[T] {
	if len(traits) == 0 {
		var zero T
		return Value(zero)
	}
	out := New(traits[0], gen(traits[0]))
	for _, t := range traits[1:] {
		if t == traits[0] {
			continue
		}
		v := gen(t)
		if reflect.DeepEqual(v, out.defaultValue) {
			continue
		}
		out.Set(t, v)
	}
	return out
}

type stored[T any] struct {
	DefaultTrait Trait         `json:"defaultTrait"`
	Default      T             `json:"default"`
	Overrides    []Override[T] `json:"overrides,omitempty"`
}

// MarshalJSON encodes the default, its trait and every override, so a decoded
// collection compares equal to the original.
func (c Collection[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(stored[T]{DefaultTrait: c.defaultTrait, Default: c.defaultValue, Overrides: c.Overrides()})
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Collection[T]) UnmarshalJSON(b []byte) error {
	var s stored[T]
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	out := New(s.DefaultTrait, s.Default)
	for _, o := range s.Overrides {
		out.Set(o.Trait, o.Value)
	}
	*c = out
	return nil
}
