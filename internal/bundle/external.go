package bundle

import (
	"fmt"
	"slices"
	"strings"

	"github.com/swiftlang/swift-docc-sub005/internal/ledger"
	"github.com/swiftlang/swift-docc-sub005/internal/render"
	"github.com/swiftlang/swift-docc-sub005/internal/semantic"
)

type externalEntry struct {
	ref  render.Reference
	deps ledger.Dependencies
}

// externalJSON is a reference built by another documentation set, with the
// dependencies recorded when it was built.
type externalJSON struct {
	Identifier   semantic.Identifier `json:"identifier"`
	Reference    render.Persisted    `json:"reference"`
	Dependencies ledger.Dependencies `json:"dependencies"`
}

// Externals holds references from separately built documentation sets. It
// implements reference.External.
type Externals map[semantic.Identifier]externalEntry

// Add registers ref as the rendered reference for id.
func (e Externals) Add(id semantic.Identifier, ref render.Reference, deps ledger.Dependencies) {
	e[id] = externalEntry{ref: ref, deps: deps}
}

// Lookup returns the reference registered for id.
func (e Externals) Lookup(id semantic.Identifier) (render.Reference, ledger.Dependencies, bool) {
	entry, ok := e[id]
	if !ok {
		return nil, ledger.Dependencies{}, false
	}
	return entry.ref, entry.deps, true
}

// Identifiers returns the registered identifiers in sorted order.
func (e Externals) Identifiers() []semantic.Identifier {
	ids := make([]semantic.Identifier, 0, len(e))
	for id := range e {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b semantic.Identifier) int {
		return strings.Compare(a.String(), b.String())
	})
	return ids
}

func (e Externals) add(in externalJSON) error {
	if in.Reference.Reference == nil {
		return fmt.Errorf("external %s has no reference", in.Identifier)
	}
	e.Add(in.Identifier, in.Reference.Reference, in.Dependencies)
	return nil
}
