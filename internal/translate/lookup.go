package translate

import (
	"github.com/swiftlang/swift-docc-sub005/internal/ledger"
	"github.com/swiftlang/swift-docc-sub005/internal/metrics"
	"github.com/swiftlang/swift-docc-sub005/internal/precompute"
	"github.com/swiftlang/swift-docc-sub005/internal/reference"
	"github.com/swiftlang/swift-docc-sub005/internal/render"
	"github.com/swiftlang/swift-docc-sub005/internal/semantic"
)

// ReferenceRecord is one looked-up reference with the dependencies that
// must travel with it.
type ReferenceRecord struct {
	Reference    render.Persisted    `json:"reference"`
	Dependencies ledger.Dependencies `json:"dependencies"`
	Source       reference.Source    `json:"source"`
}

// LookupReference returns the reference for id, from the environment's cache
// when it holds one and rendered on demand otherwise.
func LookupReference(env *Environment, id semantic.Identifier) ReferenceRecord {
	ref, deps, src := reference.Lookup(id, precompute.References(env.Cache), env.renderer, nil)
	env.Recorder.IncReferenceLookup(metrics.Source(src))
	return ReferenceRecord{Reference: render.Persisted{Reference: ref}, Dependencies: deps, Source: src}
}
