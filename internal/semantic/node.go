package semantic

import "github.com/swiftlang/swift-docc-sub005/internal/variant"

// Markup is authored markdown source. The empty string means absent.
type Markup string

// IsEmpty reports whether m holds no content.
func (m Markup) IsEmpty() bool { return len(m) == 0 }

// Node is one node of the closed semantic tree. Only types in this package
// implement it; use Walk to dispatch on the concrete kind.
type Node interface {
	dispatch(d dispatcher)
}

// Page is a node that owns a documentation page.
type Page interface {
	Node
	Reference() Identifier
	SourceLanguages() []string
}

// Visitor has one method per node kind. Adding a kind adds a method here,
// which breaks every visitor until it handles the new kind.
type Visitor[R any] interface {
	VisitSymbol(*Symbol) R
	VisitArticle(*Article) R
	VisitTutorial(*Tutorial) R
	VisitTutorialArticle(*TutorialArticle) R
	VisitTechnology(*Technology) R
	VisitIntro(*Intro) R
	VisitStep(*Step) R
	VisitAssessments(*Assessments) R
}

type dispatcher interface {
	symbol(*Symbol)
	article(*Article)
	tutorial(*Tutorial)
	tutorialArticle(*TutorialArticle)
	technology(*Technology)
	intro(*Intro)
	step(*Step)
	assessments(*Assessments)
}

// Walk calls the visitor method matching n's concrete kind.
func Walk[R any](n Node, v Visitor[R]) R {
	a := &adapter[R]{v: v}
	n.dispatch(a)
	return a.out
}

type adapter[R any] struct {
	v   Visitor[R]
	out R
}

func (a *adapter[R]) symbol(n *Symbol)                   { a.out = a.v.VisitSymbol(n) }
func (a *adapter[R]) article(n *Article)                 { a.out = a.v.VisitArticle(n) }
func (a *adapter[R]) tutorial(n *Tutorial)               { a.out = a.v.VisitTutorial(n) }
func (a *adapter[R]) tutorialArticle(n *TutorialArticle) { a.out = a.v.VisitTutorialArticle(n) }
func (a *adapter[R]) technology(n *Technology)           { a.out = a.v.VisitTechnology(n) }
func (a *adapter[R]) intro(n *Intro)                     { a.out = a.v.VisitIntro(n) }
func (a *adapter[R]) step(n *Step)                       { a.out = a.v.VisitStep(n) }
func (a *adapter[R]) assessments(n *Assessments)         { a.out = a.v.VisitAssessments(n) }

// TaskGroup is an authored "Topics" or "See Also" group. Links are raw link
// destinations, resolved during translation.
type TaskGroup struct {
	Title    string   `json:"title"`
	Abstract Markup   `json:"abstract,omitempty"`
	Links    []string `json:"links"`
}

// Parameter documents one parameter of a symbol.
type Parameter struct {
	Name    string `json:"name"`
	Content Markup `json:"content"`
}

// DeclarationToken is one token of a declaration fragment. Identifier is set
// for type-identifier tokens that link to another page.
type DeclarationToken struct {
	Kind       string `json:"kind"`
	Text       string `json:"text"`
	Identifier string `json:"identifier,omitempty"`
}

// PropertyListKey is the raw key and display name of a property-list symbol.
type PropertyListKey struct {
	RawKey      string `json:"rawKey"`
	DisplayName string `json:"displayName,omitempty"`
}

// ConstraintKind is the relation a generic constraint expresses.
type ConstraintKind string

const (
	ConformanceConstraint ConstraintKind = "conformance"
	SuperclassConstraint  ConstraintKind = "superclass"
	SameTypeConstraint    ConstraintKind = "sameType"
)

// Constraint is one generic requirement, such as "Element conforms to Equatable".
type Constraint struct {
	Kind ConstraintKind `json:"kind"`
	LHS  string         `json:"lhs"`
	RHS  string         `json:"rhs"`
}

// RelationshipKind names a relationship section.
type RelationshipKind string

const (
	ConformsTo             RelationshipKind = "conformsTo"
	InheritsFrom           RelationshipKind = "inheritsFrom"
	InheritedBy            RelationshipKind = "inheritedBy"
	ConformingTypes        RelationshipKind = "conformingTypes"
	DefaultImplementations RelationshipKind = "defaultImplementations"
)

// Title is the section heading for the relationship kind.
func (k RelationshipKind) Title() string {
	switch k {
	case ConformsTo:
		return "Conforms To"
	case InheritsFrom:
		return "Inherits From"
	case InheritedBy:
		return "Inherited By"
	case ConformingTypes:
		return "Conforming Types"
	case DefaultImplementations:
		return "Default Implementations"
	}
	return string(k)
}

// RelationshipTarget is one destination of a relationship. Unresolved is set
// when the destination never resolved to a page.
type RelationshipTarget struct {
	Identifier  Identifier   `json:"identifier"`
	Unresolved  *Unresolved  `json:"unresolved,omitempty"`
	Constraints []Constraint `json:"constraints,omitempty"`
}

// RelationshipGroup lists the targets of one relationship kind.
type RelationshipGroup struct {
	Kind    RelationshipKind     `json:"kind"`
	Targets []RelationshipTarget `json:"targets"`
}

// Symbol is an API symbol page.
type Symbol struct {
	ID        Identifier
	Languages []string

	Kind          variant.Collection[SymbolKind]
	Title         variant.Collection[string]
	Abstract      variant.Collection[Markup]
	Discussion    variant.Collection[Markup]
	Declaration   variant.Collection[[]DeclarationToken]
	Parameters    variant.Collection[[]Parameter]
	Returns       variant.Collection[Markup]
	Relationships variant.Collection[[]RelationshipGroup]

	Availability       []Availability
	Topics             []TaskGroup
	SeeAlso            []TaskGroup
	DeprecationSummary Markup
	PropertyListKey    *PropertyListKey
	Module             string
	ExternalID         string
}

func (n *Symbol) dispatch(d dispatcher)     { d.symbol(n) }
func (n *Symbol) Reference() Identifier     { return n.ID }
func (n *Symbol) SourceLanguages() []string { return n.Languages }

// PageKind is an explicit page-kind directive on an article.
type PageKind string

const (
	PageKindNone       PageKind = ""
	PageKindArticle    PageKind = "article"
	PageKindSampleCode PageKind = "sampleCode"
)

// Article is a free-form conceptual page.
type Article struct {
	ID        Identifier
	Languages []string

	// Title is the text of the first heading.
	Title      string
	Abstract   Markup
	Discussion Markup

	Topics []TaskGroup
	// DirectiveGroups are topic groups generated by directives rather than
	// authored as a Topics section.
	DirectiveGroups []TaskGroup
	SeeAlso         []TaskGroup

	Availability []Availability
	PageKind     PageKind
	// CallToAction names a downloadable asset offered by sample-code pages.
	CallToAction string
}

func (n *Article) dispatch(d dispatcher)     { d.article(n) }
func (n *Article) Reference() Identifier     { return n.ID }
func (n *Article) SourceLanguages() []string { return n.Languages }

// Intro is the opening section of tutorials and overview pages.
type Intro struct {
	Title            string
	Content          Markup
	Image            string
	Video            string
	Poster           string
	EstimatedMinutes int
}

func (n *Intro) dispatch(d dispatcher) { d.intro(n) }

// Step is one step of a tutorial section.
type Step struct {
	Content Markup
	Caption Markup
	Media   string
	Code    string
}

func (n *Step) dispatch(d dispatcher) { d.step(n) }

// Choice is one answer of an assessment question.
type Choice struct {
	Content       Markup
	Correct       bool
	Justification Markup
}

// Question is one multiple-choice question.
type Question struct {
	Title   Markup
	Content Markup
	Choices []Choice
}

// Assessments is the quiz at the end of a tutorial.
type Assessments struct {
	Questions []Question
}

func (n *Assessments) dispatch(d dispatcher) { d.assessments(n) }

// TutorialSection is one titled group of steps.
type TutorialSection struct {
	Title   string
	Content Markup
	Media   string
	Steps   []*Step
}

// Tutorial is a step-by-step project page.
type Tutorial struct {
	ID           Identifier
	Intro        *Intro
	Sections     []TutorialSection
	Assessments  *Assessments
	ProjectFiles string
}

func (n *Tutorial) dispatch(d dispatcher)     { d.tutorial(n) }
func (n *Tutorial) Reference() Identifier     { return n.ID }
func (n *Tutorial) SourceLanguages() []string { return nil }

// TutorialArticle is a long-form article that belongs to a tutorial series.
type TutorialArticle struct {
	ID          Identifier
	Intro       *Intro
	Content     Markup
	Assessments *Assessments
}

func (n *TutorialArticle) dispatch(d dispatcher)     { d.tutorialArticle(n) }
func (n *TutorialArticle) Reference() Identifier     { return n.ID }
func (n *TutorialArticle) SourceLanguages() []string { return nil }

// Chapter groups tutorials inside a volume.
type Chapter struct {
	Name          string
	Content       Markup
	Image         string
	TutorialLinks []string
}

// Volume groups chapters of a technology overview.
type Volume struct {
	Name     string
	Chapters []Chapter
}

// Technology is the overview page of a tutorial series.
type Technology struct {
	ID      Identifier
	Intro   *Intro
	Volumes []Volume
}

func (n *Technology) dispatch(d dispatcher)     { d.technology(n) }
func (n *Technology) Reference() Identifier     { return n.ID }
func (n *Technology) SourceLanguages() []string { return nil }

// DefaultLanguage is assumed for pages that declare no source language.
const DefaultLanguage = "swift"

// Traits returns one trait per source language of p, in declaration order.
func Traits(p Page) []variant.Trait {
	langs := p.SourceLanguages()
	if len(langs) == 0 {
		return []variant.Trait{variant.Language(DefaultLanguage)}
	}
	out := make([]variant.Trait, 0, len(langs))
	for _, l := range langs {
		out = append(out, variant.Language(l))
	}
	return out
}
