package translate

import (
	"github.com/swiftlang/swift-docc-sub005/internal/metrics"
	"github.com/swiftlang/swift-docc-sub005/internal/precompute"
	"github.com/swiftlang/swift-docc-sub005/internal/reference"
	"github.com/swiftlang/swift-docc-sub005/internal/render"
	"github.com/swiftlang/swift-docc-sub005/internal/semantic"
)

// close fills node.References from everything the walk recorded.
//
// Topics the page mentions are looked up first. Their links and images join
// the page's own, and the topics they depend on are looked up too, but the
// dependencies of those are not followed further.
func (t *Translator) close(node *render.Node) {
	refs := make(map[string]render.Reference)
	cache := precompute.References(t.env.Cache)

	lookup := func(id semantic.Identifier) []semantic.Identifier {
		ref, deps, src := reference.Lookup(id, cache, t.env.renderer, t.ctx.constraints)
		t.env.Recorder.IncReferenceLookup(metrics.Source(src))
		refs[id.String()] = ref
		for _, l := range deps.Links {
			t.ctx.deps.AddLink(l)
		}
		for _, img := range deps.Images {
			t.ctx.deps.AddImage(img)
		}
		return deps.Topics
	}

	var next []semantic.Identifier
	for _, id := range t.ctx.deps.Topics() {
		next = append(next, lookup(id)...)
	}
	for _, id := range next {
		if _, done := refs[id.String()]; done {
			continue
		}
		ref, _, src := reference.Lookup(id, cache, t.env.renderer, t.ctx.constraints)
		t.env.Recorder.IncReferenceLookup(metrics.Source(src))
		refs[id.String()] = ref
	}

	for _, l := range t.ctx.deps.Links() {
		refs[l.Identifier] = l
	}
	for _, img := range t.ctx.deps.Images() {
		refs[img.Identifier] = img
	}
	for _, k := range t.ctx.videoOrder {
		refs[k] = t.ctx.videos[k]
	}
	for _, k := range t.ctx.fileOrder {
		refs[k] = t.ctx.files[k]
	}
	for _, k := range t.ctx.downloadOrder {
		refs[k] = t.ctx.downloads[k]
	}
	for _, k := range t.ctx.unresolvedKeys {
		if _, ok := refs[k]; !ok {
			refs[k] = t.ctx.unresolved[k]
		}
	}
	node.References = refs
}
