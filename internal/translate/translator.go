package translate

import (
	"errors"
	"fmt"
	"time"

	"github.com/swiftlang/swift-docc-sub005/internal/reference"
	"github.com/swiftlang/swift-docc-sub005/internal/render"
	"github.com/swiftlang/swift-docc-sub005/internal/semantic"
	"github.com/swiftlang/swift-docc-sub005/internal/variant"
)

// Translator renders one page. It is not safe for concurrent use; create one
// per page.
type Translator struct {
	env *Environment
	ctx *pageContext
	// err is the first invariant violation hit while translating.
	err *InvariantError
}

// New returns a translator for the page identified by id.
func New(env *Environment, id semantic.Identifier) *Translator {
	return &Translator{env: env, ctx: newPageContext(env, id, nil)}
}

// invariant records a violation and returns it. Only the first one is kept;
// the arm that hits it returns early and Translate reports it.
func (t *Translator) invariant(format string, args ...any) error {
	if t.err == nil {
		t.err = &InvariantError{Identifier: t.ctx.id, Message: fmt.Sprintf(format, args...)}
	}
	return t.err
}

// Translate renders p and closes its reference table. The only error it
// returns is an *InvariantError; missing or partial data degrades instead.
func (t *Translator) Translate(p semantic.Page) (*render.Node, error) {
	start := time.Now()
	if p.Reference() != t.ctx.id {
		return nil, t.invariant("page %s does not match translator", p.Reference())
	}
	t.ctx.traits = semantic.Traits(p)

	frag := semantic.Walk[render.Fragment](p, visitor{t})
	if t.err != nil {
		return nil, t.err
	}
	node, ok := frag.(*render.Node)
	if !ok {
		return nil, t.invariant("page translated to %T", frag)
	}
	t.close(node)
	if missing := node.MissingReferences(); len(missing) > 0 {
		return nil, t.invariant("content references %v have no reference record", missing)
	}

	t.env.Recorder.IncPage(string(node.Kind))
	t.env.Recorder.ObservePageDuration(string(node.Kind), time.Since(start))
	return node, nil
}

// IsInvariant reports whether err is an invariant violation.
func IsInvariant(err error) bool {
	var ie *InvariantError
	return errors.As(err, &ie)
}

// visitor has one arm per semantic node kind.
type visitor struct{ t *Translator }

func (v visitor) VisitSymbol(n *semantic.Symbol) render.Fragment     { return v.t.symbol(n) }
func (v visitor) VisitArticle(n *semantic.Article) render.Fragment   { return v.t.article(n) }
func (v visitor) VisitTutorial(n *semantic.Tutorial) render.Fragment { return v.t.tutorial(n) }
func (v visitor) VisitTutorialArticle(n *semantic.TutorialArticle) render.Fragment {
	return v.t.tutorialArticle(n)
}
func (v visitor) VisitTechnology(n *semantic.Technology) render.Fragment { return v.t.technology(n) }
func (v visitor) VisitIntro(n *semantic.Intro) render.Fragment           { return v.t.intro(n, "") }
func (v visitor) VisitStep(n *semantic.Step) render.Fragment             { return v.t.step(n) }
func (v visitor) VisitAssessments(n *semantic.Assessments) render.Fragment {
	return v.t.assessments(n)
}

// newNode starts a page with the identity fields every page kind shares.
func (t *Translator) newNode(kind render.Kind) *render.Node {
	return &render.Node{
		Kind: kind,
		Identifier: render.PageIdentifier{
			URL:               t.ctx.id.URL(),
			InterfaceLanguage: t.ctx.traits[0].InterfaceLanguage,
		},
	}
}

// perTrait builds a variant collection over the page's traits.
func perTrait[T any](t *Translator, gen func(variant.Trait) T) variant.Collection[T] {
	return variant.FromTraits(t.ctx.traits, gen)
}

func (t *Translator) symbol(n *semantic.Symbol) *render.Node {
	c := t.ctx.compiler
	node := t.newNode(render.KindSymbol)
	node.Metadata = render.Metadata{
		Title:       n.Title,
		RoleHeading: variant.Map(n.Kind, semantic.SymbolKind.DisplayName),
		Role:        t.env.renderer.Role(n),
		SymbolKind:  variant.Map(n.Kind, func(k semantic.SymbolKind) string { return string(k) }),
		ExternalID:  n.ExternalID,
		Platforms:   t.platforms(n.Availability),
	}
	if n.Module != "" {
		node.Metadata.Modules = []render.Module{{Name: n.Module}}
	}
	node.Hierarchy = t.hierarchy()

	node.Abstract = perTrait(t, func(tr variant.Trait) []render.Inline { return c.Inline(n.Abstract.Get(tr)) })
	node.PrimaryContentSections = perTrait(t, func(tr variant.Trait) []render.Section { return t.symbolSections(n, tr) })
	node.RelationshipSections = perTrait(t, func(tr variant.Trait) []render.RelationshipsSection {
		return t.relationships(n.Relationships.Get(tr))
	})
	node.TopicSections = perTrait(t, func(tr variant.Trait) []render.TaskGroupSection {
		return t.topicSections(n, n.Topics, tr)
	})
	node.SeeAlsoSections = perTrait(t, func(tr variant.Trait) []render.TaskGroupSection {
		return t.seeAlsoSections(n.SeeAlso, tr)
	})
	if !n.DeprecationSummary.IsEmpty() {
		node.DeprecationSummary = variant.Value(c.Blocks(n.DeprecationSummary))
	}
	node.Variants = t.pageVariants()
	return node
}

func (t *Translator) symbolSections(n *semantic.Symbol, tr variant.Trait) []render.Section {
	c := t.ctx.compiler
	var sections []render.Section
	if tokens := n.Declaration.Get(tr); len(tokens) > 0 {
		sections = append(sections, render.DeclarationsSection{Declarations: []render.Declaration{{
			Languages: []string{tr.InterfaceLanguage},
			Platforms: platformNames(n.Availability),
			Tokens:    t.declarationTokens(tokens),
		}}})
	}
	if params := n.Parameters.Get(tr); len(params) > 0 {
		var out []render.Parameter
		for _, p := range params {
			out = append(out, render.Parameter{Name: p.Name, Content: c.Blocks(p.Content)})
		}
		sections = append(sections, render.ParametersSection{Parameters: out})
	}
	if returns := n.Returns.Get(tr); !returns.IsEmpty() {
		sections = append(sections, contentSection("Return Value", c.Blocks(returns)))
	}
	if discussion := n.Discussion.Get(tr); !discussion.IsEmpty() {
		sections = append(sections, contentSection("Discussion", c.Blocks(discussion)))
	}
	return sections
}

func contentSection(title string, blocks []render.Block) render.ContentSection {
	heading := render.Heading{Level: 2, Text: title, Anchor: semantic.URLReadableFragment(title)}
	return render.ContentSection{Content: append([]render.Block{heading}, blocks...)}
}

// declarationTokens links type identifiers that name a known identifier and
// strips the link from those that do not parse.
func (t *Translator) declarationTokens(tokens []semantic.DeclarationToken) []render.DeclarationToken {
	out := make([]render.DeclarationToken, 0, len(tokens))
	for _, tok := range tokens {
		rt := render.DeclarationToken{Kind: tok.Kind, Text: tok.Text}
		if tok.Identifier != "" {
			if id, err := semantic.ParseIdentifier(tok.Identifier); err == nil {
				rt.Identifier = t.ctx.addTopic(id)
			}
		}
		out = append(out, rt)
	}
	return out
}

// relationships renders relationship groups. Resolved targets become topic
// references and carry their constraints; unresolved ones become stand-ins.
func (t *Translator) relationships(groups []semantic.RelationshipGroup) []render.RelationshipsSection {
	var out []render.RelationshipsSection
	for _, g := range groups {
		var keys []string
		for _, target := range g.Targets {
			switch {
			case target.Unresolved != nil && target.Unresolved.Topic != "":
				keys = append(keys, t.ctx.addUnresolved(target.Unresolved.Topic, target.Unresolved.Title))
			case !target.Identifier.IsZero():
				keys = append(keys, t.ctx.addTopic(target.Identifier))
				if len(target.Constraints) > 0 {
					t.ctx.constraints[target.Identifier] = target.Constraints
				}
			}
		}
		if len(keys) == 0 {
			continue
		}
		out = append(out, render.RelationshipsSection{Type: string(g.Kind), Title: g.Kind.Title(), Identifiers: keys})
	}
	return out
}

func (t *Translator) article(n *semantic.Article) *render.Node {
	c := t.ctx.compiler
	node := t.newNode(render.KindArticle)
	node.Metadata = render.Metadata{
		Title:       reference.Title(n),
		RoleHeading: variant.Value(t.roleHeading(n)),
		Role:        t.env.renderer.Role(n),
		Platforms:   t.platforms(n.Availability),
	}
	node.Hierarchy = t.hierarchy()
	node.Abstract = variant.Value(c.Inline(n.Abstract))

	blocks := c.Blocks(n.Discussion)
	if n.Title == "" && len(blocks) > 0 {
		if h, ok := blocks[0].(render.Heading); ok && h.Level == 1 {
			blocks = blocks[1:]
		}
	}
	if len(blocks) > 0 {
		node.PrimaryContentSections = variant.Value([]render.Section{contentSection("Overview", blocks)})
	}

	groups := append(append([]semantic.TaskGroup(nil), n.Topics...), n.DirectiveGroups...)
	node.TopicSections = perTrait(t, func(tr variant.Trait) []render.TaskGroupSection {
		return t.topicSections(n, groups, tr)
	})
	node.SeeAlsoSections = perTrait(t, func(tr variant.Trait) []render.TaskGroupSection {
		return t.seeAlsoSections(n.SeeAlso, tr)
	})

	if n.PageKind == semantic.PageKindSampleCode && n.CallToAction != "" {
		if key, ok := t.registerDownload(n.CallToAction); ok {
			action := render.Ref(key, true)
			action.OverridingTitle = "Download"
			action.OverridingTitleInlineContent = []render.Inline{render.Text("Download")}
			node.SampleCodeDownload = &render.SampleDownload{Action: action, Kind: "sampleDownload"}
		}
	}
	node.Variants = t.pageVariants()
	return node
}
