// Package bundle loads a documentation set from its JSON description into
// the semantic model, topic graph and resolver a build runs against.
package bundle

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/swiftlang/swift-docc-sub005/internal/assets"
	"github.com/swiftlang/swift-docc-sub005/internal/reference"
	"github.com/swiftlang/swift-docc-sub005/internal/semantic"
	"github.com/swiftlang/swift-docc-sub005/internal/topicgraph"
	"github.com/swiftlang/swift-docc-sub005/internal/variant"
)

// Bundle is a loaded documentation set.
type Bundle struct {
	ID        string
	Model     *semantic.Model
	Graph     *topicgraph.Graph
	Resolver  *Resolver
	External  Externals
	Platforms semantic.CurrentPlatforms
	// Assets is nil when the bundle declares no asset directory.
	Assets *assets.Directory
}

// Identifiers lists everything a page can link to: pages in model order,
// then anchors, graph nodes without a page, and externals sorted by
// identifier. Each identifier appears once.
func (b *Bundle) Identifiers() []semantic.Identifier {
	seen := make(map[semantic.Identifier]bool)
	var out []semantic.Identifier
	add := func(ids []semantic.Identifier) {
		for _, id := range ids {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	add(b.Model.Identifiers())
	add(b.Model.Anchors())
	add(b.Graph.Identifiers())
	add(b.External.Identifiers())
	return out
}

// symbolDoc is the documentation of a symbol in one source language.
type symbolDoc struct {
	Title         string                       `json:"title"`
	Kind          semantic.SymbolKind          `json:"kind"`
	Abstract      semantic.Markup              `json:"abstract,omitempty"`
	Discussion    semantic.Markup              `json:"discussion,omitempty"`
	Declaration   []semantic.DeclarationToken  `json:"declaration,omitempty"`
	Parameters    []semantic.Parameter         `json:"parameters,omitempty"`
	Returns       semantic.Markup              `json:"returns,omitempty"`
	Relationships []semantic.RelationshipGroup `json:"relationships,omitempty"`
}

type symbolJSON struct {
	Identifier semantic.Identifier `json:"identifier"`
	Languages  []string            `json:"languages,omitempty"`
	// Docs is keyed by language. Languages without an entry use the first
	// language's documentation.
	Docs               map[string]symbolDoc      `json:"docs"`
	Availability       []semantic.Availability   `json:"availability,omitempty"`
	Topics             []semantic.TaskGroup      `json:"topics,omitempty"`
	SeeAlso            []semantic.TaskGroup      `json:"seeAlso,omitempty"`
	DeprecationSummary semantic.Markup           `json:"deprecationSummary,omitempty"`
	PropertyListKey    *semantic.PropertyListKey `json:"propertyListKey,omitempty"`
	Module             string                    `json:"module,omitempty"`
	ExternalID         string                    `json:"externalID,omitempty"`
	// MemberOf lists the symbols this one is declared in.
	MemberOf []semantic.Identifier `json:"memberOf,omitempty"`
}

type articleJSON struct {
	Identifier      semantic.Identifier     `json:"identifier"`
	Languages       []string                `json:"languages,omitempty"`
	Title           string                  `json:"title,omitempty"`
	Abstract        semantic.Markup         `json:"abstract,omitempty"`
	Discussion      semantic.Markup         `json:"discussion,omitempty"`
	Topics          []semantic.TaskGroup    `json:"topics,omitempty"`
	DirectiveGroups []semantic.TaskGroup    `json:"directiveGroups,omitempty"`
	SeeAlso         []semantic.TaskGroup    `json:"seeAlso,omitempty"`
	Availability    []semantic.Availability `json:"availability,omitempty"`
	PageKind        semantic.PageKind       `json:"pageKind,omitempty"`
	CallToAction    string                  `json:"callToAction,omitempty"`
}

type tutorialJSON struct {
	Identifier   semantic.Identifier        `json:"identifier"`
	Intro        *semantic.Intro            `json:"intro"`
	Sections     []semantic.TutorialSection `json:"sections,omitempty"`
	Assessments  *semantic.Assessments      `json:"assessments,omitempty"`
	ProjectFiles string                     `json:"projectFiles,omitempty"`
}

type tutorialArticleJSON struct {
	Identifier  semantic.Identifier   `json:"identifier"`
	Intro       *semantic.Intro       `json:"intro"`
	Content     semantic.Markup       `json:"content,omitempty"`
	Assessments *semantic.Assessments `json:"assessments,omitempty"`
}

type technologyJSON struct {
	Identifier semantic.Identifier `json:"identifier"`
	Intro      *semantic.Intro     `json:"intro"`
	Volumes    []semantic.Volume   `json:"volumes,omitempty"`
}

type anchorJSON struct {
	Identifier semantic.Identifier `json:"identifier"`
	Title      string              `json:"title"`
}

type nodeJSON struct {
	Identifier semantic.Identifier `json:"identifier"`
	Title      string              `json:"title"`
	Kind       string              `json:"kind"`
	Virtual    bool                `json:"virtual,omitempty"`
	Languages  []string            `json:"languages,omitempty"`
}

type edgeJSON struct {
	Parent semantic.Identifier `json:"parent"`
	Child  semantic.Identifier `json:"child"`
}

// File is the on-disk description of a bundle.
type File struct {
	ID               string                    `json:"id"`
	Platforms        semantic.CurrentPlatforms `json:"platforms,omitempty"`
	Symbols          []symbolJSON              `json:"symbols,omitempty"`
	Articles         []articleJSON             `json:"articles,omitempty"`
	Tutorials        []tutorialJSON            `json:"tutorials,omitempty"`
	TutorialArticles []tutorialArticleJSON     `json:"tutorialArticles,omitempty"`
	Technologies     []technologyJSON          `json:"technologies,omitempty"`
	Anchors          []anchorJSON              `json:"anchors,omitempty"`
	// Nodes adds graph nodes without a page, such as virtual groups.
	Nodes     []nodeJSON     `json:"nodes,omitempty"`
	Edges     []edgeJSON     `json:"edges,omitempty"`
	Externals []externalJSON `json:"externals,omitempty"`
	// Assets is a directory relative to the bundle file.
	Assets string `json:"assets,omitempty"`
}

// Load reads a bundle file. Files ending in .zst are zstd-compressed.
func Load(path string) (*Bundle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening bundle: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".zst") {
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("creating zstd reader: %w", err)
		}
		defer zr.Close()
		r = zr
	}

	var file File
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("decoding bundle %s: %w", path, err)
	}
	if file.Assets != "" && !filepath.IsAbs(file.Assets) {
		file.Assets = filepath.Join(filepath.Dir(path), file.Assets)
	}
	return file.Build()
}

// Build turns the file into a bundle. Pages become graph nodes, and authored
// topic groups become graph edges alongside the declared ones.
func (file *File) Build() (*Bundle, error) {
	if file.ID == "" {
		return nil, fmt.Errorf("bundle has no id")
	}
	b := &Bundle{
		ID:        file.ID,
		Model:     semantic.NewModel(),
		Graph:     topicgraph.New(),
		External:  make(Externals),
		Platforms: file.Platforms,
	}

	var pages []semantic.Page
	for _, s := range file.Symbols {
		sym, err := s.symbol()
		if err != nil {
			return nil, err
		}
		pages = append(pages, sym)
	}
	for _, a := range file.Articles {
		pages = append(pages, a.article())
	}
	for _, t := range file.Tutorials {
		pages = append(pages, &semantic.Tutorial{
			ID: t.Identifier, Intro: t.Intro, Sections: t.Sections, Assessments: t.Assessments, ProjectFiles: t.ProjectFiles,
		})
	}
	for _, t := range file.TutorialArticles {
		pages = append(pages, &semantic.TutorialArticle{
			ID: t.Identifier, Intro: t.Intro, Content: t.Content, Assessments: t.Assessments,
		})
	}
	for _, t := range file.Technologies {
		pages = append(pages, &semantic.Technology{ID: t.Identifier, Intro: t.Intro, Volumes: t.Volumes})
	}

	for _, p := range pages {
		if err := b.Model.Add(p); err != nil {
			return nil, fmt.Errorf("loading bundle %s: %w", file.ID, err)
		}
		b.Graph.Add(graphNode(p))
	}
	for _, a := range file.Anchors {
		b.Model.AddAnchor(a.Identifier, a.Title)
	}
	for _, n := range file.Nodes {
		b.Graph.Add(topicgraph.Node{ID: n.Identifier, Title: n.Title, Kind: n.Kind, Virtual: n.Virtual, Languages: n.Languages})
	}
	for _, e := range file.Externals {
		if err := b.External.add(e); err != nil {
			return nil, err
		}
	}

	b.Resolver = NewResolver(b.ID, b.Model, b.Graph, b.External)

	for _, s := range file.Symbols {
		for _, parent := range s.MemberOf {
			b.Graph.AddEdge(parent, s.Identifier)
		}
	}
	for _, e := range file.Edges {
		b.Graph.AddEdge(e.Parent, e.Child)
	}
	for _, p := range pages {
		for _, child := range b.curated(p) {
			b.Graph.AddEdge(p.Reference(), child)
		}
	}

	if file.Assets != "" {
		dir, err := assets.OpenDirectory(file.Assets)
		if err != nil {
			return nil, err
		}
		b.Assets = dir
	}
	return b, nil
}

// curated returns the pages p curates by hand, in authored order.
func (b *Bundle) curated(p semantic.Page) []semantic.Identifier {
	var links []string
	switch n := p.(type) {
	case *semantic.Symbol:
		for _, g := range n.Topics {
			links = append(links, g.Links...)
		}
	case *semantic.Article:
		for _, g := range append(append([]semantic.TaskGroup(nil), n.Topics...), n.DirectiveGroups...) {
			links = append(links, g.Links...)
		}
	case *semantic.Technology:
		for _, v := range n.Volumes {
			for _, c := range v.Chapters {
				links = append(links, c.TutorialLinks...)
			}
		}
	}
	var out []semantic.Identifier
	for _, link := range links {
		if id, err := b.Resolver.Resolve(link, p.Reference()); err == nil && id.Fragment == "" {
			out = append(out, id)
		}
	}
	return out
}

func (s symbolJSON) symbol() (*semantic.Symbol, error) {
	langs := s.Languages
	if len(langs) == 0 {
		langs = []string{semantic.DefaultLanguage}
	}
	first, ok := s.Docs[langs[0]]
	if !ok {
		return nil, fmt.Errorf("symbol %s has no documentation for %s", s.Identifier, langs[0])
	}
	doc := func(t variant.Trait) symbolDoc {
		if d, ok := s.Docs[t.InterfaceLanguage]; ok {
			return d
		}
		return first
	}

	traits := make([]variant.Trait, 0, len(langs))
	for _, l := range langs {
		traits = append(traits, variant.Language(l))
	}
	return &semantic.Symbol{
		ID:                 s.Identifier,
		Languages:          langs,
		Kind:               variant.FromTraits(traits, func(t variant.Trait) semantic.SymbolKind { return doc(t).Kind }),
		Title:              variant.FromTraits(traits, func(t variant.Trait) string { return doc(t).Title }),
		Abstract:           variant.FromTraits(traits, func(t variant.Trait) semantic.Markup { return doc(t).Abstract }),
		Discussion:         variant.FromTraits(traits, func(t variant.Trait) semantic.Markup { return doc(t).Discussion }),
		Declaration:        variant.FromTraits(traits, func(t variant.Trait) []semantic.DeclarationToken { return doc(t).Declaration }),
		Parameters:         variant.FromTraits(traits, func(t variant.Trait) []semantic.Parameter { return doc(t).Parameters }),
		Returns:            variant.FromTraits(traits, func(t variant.Trait) semantic.Markup { return doc(t).Returns }),
		Relationships:      variant.FromTraits(traits, func(t variant.Trait) []semantic.RelationshipGroup { return doc(t).Relationships }),
		Availability:       s.Availability,
		Topics:             s.Topics,
		SeeAlso:            s.SeeAlso,
		DeprecationSummary: s.DeprecationSummary,
		PropertyListKey:    s.PropertyListKey,
		Module:             s.Module,
		ExternalID:         s.ExternalID,
	}, nil
}

func (a articleJSON) article() *semantic.Article {
	return &semantic.Article{
		ID:              a.Identifier,
		Languages:       a.Languages,
		Title:           a.Title,
		Abstract:        a.Abstract,
		Discussion:      a.Discussion,
		Topics:          a.Topics,
		DirectiveGroups: a.DirectiveGroups,
		SeeAlso:         a.SeeAlso,
		Availability:    a.Availability,
		PageKind:        a.PageKind,
		CallToAction:    a.CallToAction,
	}
}

// graphNode describes p in the topic graph.
func graphNode(p semantic.Page) topicgraph.Node {
	n := topicgraph.Node{
		ID:        p.Reference(),
		Title:     reference.Title(p).Default(),
		Languages: p.SourceLanguages(),
	}
	switch page := p.(type) {
	case *semantic.Symbol:
		n.Kind = string(page.Kind.Default())
	case *semantic.Article:
		n.Kind = topicgraph.KindArticle
	case *semantic.Tutorial:
		n.Kind = topicgraph.KindTutorial
	case *semantic.TutorialArticle:
		n.Kind = topicgraph.KindTutorialArticle
	case *semantic.Technology:
		n.Kind = topicgraph.KindTechnology
	}
	return n
}
