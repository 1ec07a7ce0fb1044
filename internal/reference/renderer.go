// Package reference renders the reference record for one identifier: the
// summary other pages show when they link to it.
package reference

import (
	"github.com/swiftlang/swift-docc-sub005/internal/assets"
	"github.com/swiftlang/swift-docc-sub005/internal/ledger"
	"github.com/swiftlang/swift-docc-sub005/internal/markup"
	"github.com/swiftlang/swift-docc-sub005/internal/render"
	"github.com/swiftlang/swift-docc-sub005/internal/semantic"
	"github.com/swiftlang/swift-docc-sub005/internal/topicgraph"
	"github.com/swiftlang/swift-docc-sub005/internal/variant"
)

// External looks up references that belong to separately built
// documentation sets. The returned dependencies were recorded when that
// reference was built.
type External interface {
	Lookup(id semantic.Identifier) (render.Reference, ledger.Dependencies, bool)
}

// Renderer renders reference records from read-only build state. It is safe
// for concurrent use once its fields are set.
type Renderer struct {
	Model     *semantic.Model
	Graph     *topicgraph.Graph
	Resolver  semantic.Resolver
	Assets    assets.Store
	External  External
	Platforms semantic.CurrentPlatforms
}

// Constraints maps identifiers to the generic constraints collected for them
// while rendering relationship sections.
type Constraints map[semantic.Identifier][]semantic.Constraint

// Render returns the reference record for id and the references that record
// depends on. It always produces a record; identifiers nothing knows about
// degrade to a topic titled with the identifier itself.
func (r *Renderer) Render(id semantic.Identifier, constraints Constraints) (render.Reference, ledger.Dependencies) {
	if id.Fragment == "" && r.Model != nil {
		if p, ok := r.Model.Page(id); ok {
			if title := Title(p); title.Default() != "" {
				return r.page(p, title, constraints[id])
			}
		}
	}

	if r.Model != nil {
		if title, ok := r.Model.Anchor(id); ok {
			return render.TopicReference{
				Identifier: id.String(),
				Title:      variant.Value(title),
				URL:        id.URL(),
				Kind:       render.KindSection,
			}, ledger.Dependencies{}
		}
	}

	if r.Graph != nil {
		if n, ok := r.Graph.Node(id); ok {
			return render.TopicReference{
				Identifier: id.String(),
				Title:      variant.Value(n.Title),
				URL:        id.URL(),
				Kind:       GraphKind(n.Kind),
				Role:       GraphRole(n.Kind),
			}, ledger.Dependencies{}
		}
	}

	if r.External != nil {
		if ref, deps, ok := r.External.Lookup(id); ok {
			collector := ledger.NewCollector()
			collector.Merge(deps)
			return ref, collector.Snapshot()
		}
	}

	return render.TopicReference{
		Identifier: id.String(),
		Title:      variant.Value(id.String()),
		URL:        id.URL(),
		Kind:       render.KindArticle,
	}, ledger.Dependencies{}
}

func (r *Renderer) page(p semantic.Page, title variant.Collection[string], constraints []semantic.Constraint) (render.Reference, ledger.Dependencies) {
	id := p.Reference()
	deps := ledger.NewCollector()
	compiler := markup.New(r.Resolver, r.Assets, id, deps)
	traits := semantic.Traits(p)

	ref := render.TopicReference{
		Identifier:  id.String(),
		Title:       title,
		Abstract:    variant.FromTraits(traits, func(t variant.Trait) []render.Inline { return abstractOf(compiler, p, t) }),
		URL:         id.URL(),
		Kind:        Kind(p),
		Role:        r.Role(p),
		IsBeta:      semantic.IsBeta(Availability(p), r.Platforms),
		Conformance: Conformance(constraints),
	}
	if s, ok := p.(*semantic.Symbol); ok {
		ref.Deprecated = !s.DeprecationSummary.IsEmpty() || semantic.IsDeprecated(s.Availability)
		if s.PropertyListKey != nil {
			ref.PropertyListKeyNames = &render.PropertyListKeyNames{
				RawKey:      s.PropertyListKey.RawKey,
				DisplayName: s.PropertyListKey.DisplayName,
			}
		}
	}
	return ref, deps.Snapshot()
}

func abstractOf(c *markup.Compiler, p semantic.Page, t variant.Trait) []render.Inline {
	switch n := p.(type) {
	case *semantic.Symbol:
		return c.Abstract(n.Abstract.Get(t), n.Discussion.Get(t))
	case *semantic.Article:
		return c.Abstract(n.Abstract, n.Discussion)
	case *semantic.Tutorial:
		if n.Intro != nil {
			return c.Inline(n.Intro.Content)
		}
	case *semantic.TutorialArticle:
		if n.Intro != nil {
			return c.Inline(n.Intro.Content)
		}
	case *semantic.Technology:
		if n.Intro != nil {
			return c.Inline(n.Intro.Content)
		}
	}
	return nil
}
