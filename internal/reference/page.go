package reference

import (
	"github.com/swiftlang/swift-docc-sub005/internal/markup"
	"github.com/swiftlang/swift-docc-sub005/internal/render"
	"github.com/swiftlang/swift-docc-sub005/internal/semantic"
	"github.com/swiftlang/swift-docc-sub005/internal/variant"
)

// Title returns the display title of a page. Symbols carry a per-language
// title; articles use their first heading; tutorials and overview pages use
// their intro. An empty default means no title could be computed.
func Title(p semantic.Page) variant.Collection[string] {
	return semantic.Walk[variant.Collection[string]](p, titleOf{trait: semantic.Traits(p)[0]})
}

type titleOf struct{ trait variant.Trait }

func (v titleOf) VisitSymbol(n *semantic.Symbol) variant.Collection[string] { return n.Title }

func (v titleOf) VisitArticle(n *semantic.Article) variant.Collection[string] {
	if n.Title != "" {
		return variant.New(v.trait, n.Title)
	}
	return variant.New(v.trait, markup.FirstHeading(n.Discussion))
}

func (v titleOf) VisitTutorial(n *semantic.Tutorial) variant.Collection[string] {
	return v.VisitIntro(n.Intro)
}

func (v titleOf) VisitTutorialArticle(n *semantic.TutorialArticle) variant.Collection[string] {
	return v.VisitIntro(n.Intro)
}

func (v titleOf) VisitTechnology(n *semantic.Technology) variant.Collection[string] {
	return v.VisitIntro(n.Intro)
}

func (v titleOf) VisitIntro(n *semantic.Intro) variant.Collection[string] {
	if n == nil {
		return variant.New(v.trait, "")
	}
	return variant.New(v.trait, n.Title)
}

func (v titleOf) VisitStep(*semantic.Step) variant.Collection[string] { return variant.New(v.trait, "") }

func (v titleOf) VisitAssessments(*semantic.Assessments) variant.Collection[string] {
	return variant.New(v.trait, "")
}

// Kind returns the render kind of a page.
func Kind(p semantic.Page) render.Kind {
	return semantic.Walk[render.Kind](p, kindOf{})
}

type kindOf struct{}

func (kindOf) VisitSymbol(*semantic.Symbol) render.Kind                   { return render.KindSymbol }
func (kindOf) VisitArticle(*semantic.Article) render.Kind                 { return render.KindArticle }
func (kindOf) VisitTutorial(*semantic.Tutorial) render.Kind               { return render.KindTutorial }
func (kindOf) VisitTutorialArticle(*semantic.TutorialArticle) render.Kind { return render.KindArticle }
func (kindOf) VisitTechnology(*semantic.Technology) render.Kind           { return render.KindOverview }
func (kindOf) VisitIntro(*semantic.Intro) render.Kind                     { return render.KindSection }
func (kindOf) VisitStep(*semantic.Step) render.Kind                       { return render.KindSection }
func (kindOf) VisitAssessments(*semantic.Assessments) render.Kind         { return render.KindSection }

// GraphKind maps a topic graph node kind to a render kind.
func GraphKind(kind string) render.Kind {
	switch kind {
	case "article", "tutorialArticle":
		return render.KindArticle
	case "tutorial":
		return render.KindTutorial
	case "technology":
		return render.KindOverview
	}
	return render.KindSymbol
}

// GraphRole maps a topic graph node kind to a role.
func GraphRole(kind string) string {
	switch kind {
	case "article", "tutorialArticle":
		return render.RoleArticle
	case "tutorial":
		return render.RoleProject
	case "technology":
		return render.RoleOverview
	case string(semantic.KindModule):
		return render.RoleCollection
	}
	return render.RoleSymbol
}

// Role derives the role of a page. Modules are collections, other symbols
// are symbols, and articles that curate symbols are collection groups. An
// explicit page-kind directive on an article overrides the structure.
func (r *Renderer) Role(p semantic.Page) string {
	return semantic.Walk[string](p, roleOf{r: r})
}

type roleOf struct{ r *Renderer }

func (v roleOf) VisitSymbol(n *semantic.Symbol) string {
	if n.Kind.Default().IsModule() {
		return render.RoleCollection
	}
	return render.RoleSymbol
}

func (v roleOf) VisitArticle(n *semantic.Article) string {
	switch n.PageKind {
	case semantic.PageKindSampleCode:
		return render.RoleSampleCode
	case semantic.PageKindArticle:
		return render.RoleArticle
	}
	if v.r.CuratesSymbols(n) {
		return render.RoleCollectionGroup
	}
	return render.RoleArticle
}

func (roleOf) VisitTutorial(*semantic.Tutorial) string               { return render.RoleProject }
func (roleOf) VisitTutorialArticle(*semantic.TutorialArticle) string { return render.RoleArticle }
func (roleOf) VisitTechnology(*semantic.Technology) string           { return render.RoleOverview }
func (roleOf) VisitIntro(*semantic.Intro) string                     { return "" }
func (roleOf) VisitStep(*semantic.Step) string                       { return "" }
func (roleOf) VisitAssessments(*semantic.Assessments) string         { return "" }

// CuratesSymbols reports whether any topic group of a links to a symbol.
func (r *Renderer) CuratesSymbols(a *semantic.Article) bool {
	if r.Resolver == nil || r.Model == nil {
		return false
	}
	for _, groups := range [][]semantic.TaskGroup{a.Topics, a.DirectiveGroups} {
		for _, g := range groups {
			for _, link := range g.Links {
				id, err := r.Resolver.Resolve(link, a.ID)
				if err != nil {
					continue
				}
				if p, ok := r.Model.Page(id); ok {
					if _, isSymbol := p.(*semantic.Symbol); isSymbol {
						return true
					}
				}
			}
		}
	}
	return false
}

// Availability returns the availability list of pages that have one.
func Availability(p semantic.Page) []semantic.Availability {
	switch n := p.(type) {
	case *semantic.Symbol:
		return n.Availability
	case *semantic.Article:
		return n.Availability
	}
	return nil
}
