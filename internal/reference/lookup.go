package reference

import (
	"github.com/swiftlang/swift-docc-sub005/internal/ledger"
	"github.com/swiftlang/swift-docc-sub005/internal/render"
	"github.com/swiftlang/swift-docc-sub005/internal/semantic"
)

// Cache returns previously rendered references. Implementations must be
// safe for concurrent reads and must never change an entry once returned.
type Cache interface {
	Reference(id semantic.Identifier) (render.Reference, ledger.Dependencies, bool)
}

// Source says where a looked-up reference came from.
type Source string

const (
	SourceCache  Source = "cache"
	SourceRender Source = "render"
)

// Lookup returns the cached reference for id when cache has one, and renders
// it otherwise. Cached topic references get the page's constraints attached
// here, since those are only known while rendering the referring page.
func Lookup(id semantic.Identifier, cache Cache, renderer *Renderer, constraints Constraints) (render.Reference, ledger.Dependencies, Source) {
	if cache != nil {
		if ref, deps, ok := cache.Reference(id); ok {
			if topic, isTopic := ref.(render.TopicReference); isTopic && len(constraints[id]) > 0 {
				topic.Conformance = Conformance(constraints[id])
				ref = topic
			}
			return ref, deps, SourceCache
		}
	}
	ref, deps := renderer.Render(id, constraints)
	return ref, deps, SourceRender
}
