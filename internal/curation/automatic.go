// Package curation derives topic groups from the topic graph for pages whose
// children are not curated by hand.
package curation

import (
	"slices"

	"github.com/swiftlang/swift-docc-sub005/internal/semantic"
	"github.com/swiftlang/swift-docc-sub005/internal/topicgraph"
	"github.com/swiftlang/swift-docc-sub005/internal/variant"
)

// Group is one titled, ordered list of identifiers.
type Group struct {
	Title      string
	References []semantic.Identifier
}

// groupOrder fixes the order groups appear in. Kinds not listed follow in
// the order they are first encountered.
var groupOrder = []string{
	topicgraph.KindArticle,
	topicgraph.KindTutorial,
	topicgraph.KindTutorialArticle,
	string(semantic.KindInit),
	string(semantic.KindDeinit),
	string(semantic.KindEnumCase),
	string(semantic.KindProperty),
	string(semantic.KindMethod),
	string(semantic.KindSubscript),
	string(semantic.KindTypeProperty),
	string(semantic.KindTypeMethod),
	string(semantic.KindTypeSubscript),
	string(semantic.KindOperator),
	string(semantic.KindAssociatedType),
	string(semantic.KindTypeAlias),
	string(semantic.KindClass),
	string(semantic.KindStruct),
	string(semantic.KindEnum),
	string(semantic.KindProtocol),
	string(semantic.KindFunc),
	string(semantic.KindVar),
	string(semantic.KindMacro),
	string(semantic.KindDictionary),
	string(semantic.KindDictionaryKey),
	string(semantic.KindHTTPRequest),
	string(semantic.KindExtension),
}

// GroupTitle returns the title of the automatic group for a node kind.
func GroupTitle(kind string) string {
	switch kind {
	case topicgraph.KindArticle, topicgraph.KindTutorialArticle:
		return "Articles"
	case topicgraph.KindTutorial:
		return "Tutorials"
	case topicgraph.KindTechnology:
		return "Technologies"
	}
	return semantic.SymbolKind(kind).GroupTitle()
}

// Automatic groups a node's children by kind.
type Automatic struct {
	graph *topicgraph.Graph
}

// New returns a strategy reading g.
func New(g *topicgraph.Graph) *Automatic {
	return &Automatic{graph: g}
}

// AvailableIn reports whether n exists for trait. Nodes without language data
// are available everywhere.
func AvailableIn(n topicgraph.Node, trait variant.Trait) bool {
	if len(n.Languages) == 0 || trait.InterfaceLanguage == "" {
		return true
	}
	return slices.Contains(n.Languages, trait.InterfaceLanguage)
}

// Topics groups the linkable children of id that exist for trait. Child order
// within a group is the graph's insertion order.
func (a *Automatic) Topics(id semantic.Identifier, trait variant.Trait) []Group {
	byKind := make(map[string][]semantic.Identifier)
	var extra []string
	for _, c := range a.graph.Children(id) {
		if !a.graph.IsLinkable(c) {
			continue
		}
		n, _ := a.graph.Node(c)
		if !AvailableIn(n, trait) {
			continue
		}
		if _, seen := byKind[n.Kind]; !seen && !slices.Contains(groupOrder, n.Kind) {
			extra = append(extra, n.Kind)
		}
		byKind[n.Kind] = append(byKind[n.Kind], c)
	}

	var groups []Group
	add := func(kind string) {
		if refs := byKind[kind]; len(refs) > 0 {
			groups = append(groups, Group{Title: GroupTitle(kind), References: refs})
		}
	}
	for _, k := range groupOrder {
		add(k)
	}
	for _, k := range extra {
		add(k)
	}
	return mergeByTitle(groups)
}

// SeeAlso returns the siblings of id from the first parent group that
// contains it, or nil when it has none.
func (a *Automatic) SeeAlso(id semantic.Identifier, trait variant.Trait) *Group {
	for _, p := range a.graph.Parents(id) {
		for _, g := range a.Topics(p, trait) {
			if !slices.Contains(g.References, id) {
				continue
			}
			var siblings []semantic.Identifier
			for _, r := range g.References {
				if r != id {
					siblings = append(siblings, r)
				}
			}
			if len(siblings) == 0 {
				return nil
			}
			return &Group{Title: g.Title, References: siblings}
		}
	}
	return nil
}

// mergeByTitle joins groups whose kinds share a title, such as articles and
// tutorial articles.
func mergeByTitle(groups []Group) []Group {
	var out []Group
	index := make(map[string]int)
	for _, g := range groups {
		if i, ok := index[g.Title]; ok {
			out[i].References = append(out[i].References, g.References...)
			continue
		}
		index[g.Title] = len(out)
		out = append(out, g)
	}
	return out
}
