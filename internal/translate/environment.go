// Package translate turns semantic pages into render nodes. Each page gets
// its own Translator; the Environment they share is read-only.
package translate

import (
	"fmt"
	"log/slog"

	"github.com/swiftlang/swift-docc-sub005/internal/assets"
	"github.com/swiftlang/swift-docc-sub005/internal/curation"
	"github.com/swiftlang/swift-docc-sub005/internal/metrics"
	"github.com/swiftlang/swift-docc-sub005/internal/precompute"
	"github.com/swiftlang/swift-docc-sub005/internal/reference"
	"github.com/swiftlang/swift-docc-sub005/internal/semantic"
	"github.com/swiftlang/swift-docc-sub005/internal/topicgraph"
)

// Environment is the build state every page translation reads. Nothing in
// it is mutated during translation, so one Environment serves concurrent
// translators.
type Environment struct {
	Model     *semantic.Model
	Graph     *topicgraph.Graph
	Resolver  semantic.Resolver
	Curation  *curation.Automatic
	Assets    assets.Store
	Checksums *assets.ChecksumMemo
	External  reference.External
	Platforms semantic.CurrentPlatforms

	// Cache holds precomputed references. It may be nil.
	Cache precompute.Store
	// Memberships is used to tell which children are curated elsewhere when
	// Cache is nil or misses.
	Memberships map[semantic.Identifier][]precompute.Membership

	Recorder metrics.Recorder
	Logger   *slog.Logger

	renderer *reference.Renderer
}

// NewEnvironment fills in the derived fields of env: the automatic curation
// strategy, the checksum memo, the membership index and the reference
// renderer.
func NewEnvironment(env Environment) *Environment {
	e := env
	if e.Model == nil {
		e.Model = semantic.NewModel()
	}
	if e.Graph == nil {
		e.Graph = topicgraph.New()
	}
	if e.Curation == nil {
		e.Curation = curation.New(e.Graph)
	}
	if e.Checksums == nil && e.Assets != nil {
		e.Checksums = assets.NewChecksumMemo(e.Assets)
	}
	if e.Memberships == nil {
		e.Memberships = precompute.Memberships(e.Model, e.Resolver)
	}
	e.Recorder = metrics.OrNoop(e.Recorder)
	if e.Logger == nil {
		e.Logger = slog.Default()
	}
	e.renderer = &reference.Renderer{
		Model:     e.Model,
		Graph:     e.Graph,
		Resolver:  e.Resolver,
		Assets:    e.Assets,
		External:  e.External,
		Platforms: e.Platforms,
	}
	return &e
}

// Renderer returns the single-reference renderer built from the environment.
func (e *Environment) Renderer() *reference.Renderer { return e.renderer }

// memberships returns the topic groups that curate id, preferring the
// precomputed entry.
func (e *Environment) memberships(id semantic.Identifier) []precompute.Membership {
	if e.Cache != nil {
		if entry, ok := e.Cache.Lookup(id); ok {
			return entry.TaskGroups
		}
	}
	return e.Memberships[id]
}

// canonicalPath returns the breadcrumb path of id from the cache, or the
// shortest curation path in the topic graph.
func (e *Environment) canonicalPath(id semantic.Identifier) []semantic.Identifier {
	if e.Cache != nil {
		if entry, ok := e.Cache.Lookup(id); ok {
			return entry.CanonicalPath
		}
	}
	for _, p := range e.Graph.PathsToRoot(id) {
		if len(p) > 0 {
			return p
		}
	}
	return nil
}

// InvariantError reports malformed input that validation upstream should
// have rejected. It aborts the whole build.
type InvariantError struct {
	Identifier semantic.Identifier
	Message    string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violated translating %s: %s", e.Identifier, e.Message)
}
