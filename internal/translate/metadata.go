package translate

import (
	"github.com/swiftlang/swift-docc-sub005/internal/render"
	"github.com/swiftlang/swift-docc-sub005/internal/semantic"
	"github.com/swiftlang/swift-docc-sub005/internal/variant"
)

// headingState is the eyebrow text of an article as its metadata is built.
// Each step can only move forward, and an explicit page kind ends it.
type headingState int

const (
	headingArticle headingState = iota
	headingAPICollection
	headingSampleCode
	headingExplicitArticle
)

func (s headingState) String() string {
	switch s {
	case headingAPICollection:
		return "API Collection"
	case headingSampleCode:
		return "Sample Code"
	}
	return "Article"
}

// roleHeading walks the heading states for an article: plain articles read
// "Article", articles whose topics curate a symbol read "API Collection",
// and a page-kind directive overrides both.
func (t *Translator) roleHeading(a *semantic.Article) string {
	state := headingArticle
	if t.env.renderer.CuratesSymbols(a) {
		state = headingAPICollection
	}
	switch a.PageKind {
	case semantic.PageKindSampleCode:
		state = headingSampleCode
	case semantic.PageKindArticle:
		state = headingExplicitArticle
	}
	return state.String()
}

// platforms renders availability for page metadata.
func (t *Translator) platforms(availability []semantic.Availability) []render.Platform {
	var out []render.Platform
	for _, a := range availability {
		p := render.Platform{
			Name:        a.Platform,
			Deprecated:  a.Deprecated != nil || a.UnconditionallyDeprecated,
			Unavailable: a.Unavailable,
			Beta:        semantic.IsPlatformBeta(a, t.env.Platforms),
		}
		if a.Introduced != nil {
			p.IntroducedAt = a.Introduced.String()
		}
		if a.Deprecated != nil {
			p.DeprecatedAt = a.Deprecated.String()
		}
		out = append(out, p)
	}
	return out
}

func platformNames(availability []semantic.Availability) []string {
	out := []string{}
	for _, a := range availability {
		if !a.Unavailable {
			out = append(out, a.Platform)
		}
	}
	return out
}

// hierarchy renders the page's breadcrumbs. Every breadcrumb becomes a
// topic reference of the page.
func (t *Translator) hierarchy() render.Hierarchy {
	path := t.env.canonicalPath(t.ctx.id)
	if len(path) == 0 {
		return render.Hierarchy{}
	}
	keys := make([]string, 0, len(path))
	for _, id := range path {
		keys = append(keys, t.ctx.addTopic(id))
	}
	return render.Hierarchy{Paths: [][]string{keys}}
}

// pageVariants lists the page's URL for each trait when it has more than
// one.
func (t *Translator) pageVariants() []render.PageVariant {
	if len(t.ctx.traits) < 2 {
		return nil
	}
	out := make([]render.PageVariant, 0, len(t.ctx.traits))
	for _, tr := range t.ctx.traits {
		out = append(out, render.PageVariant{Traits: []variant.Trait{tr}, Paths: []string{t.ctx.id.URL()}})
	}
	return out
}
