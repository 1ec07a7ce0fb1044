// Package topicgraph is the curation hierarchy of a documentation set: which
// pages are children of which, independent of how each page renders.
package topicgraph

import (
	"slices"

	"github.com/swiftlang/swift-docc-sub005/internal/semantic"
)

// Node kinds for pages that are not symbols.
const (
	KindArticle         = "article"
	KindTutorial        = "tutorial"
	KindTutorialArticle = "tutorialArticle"
	KindTechnology      = "technology"
)

// Node is a vertex in the topic graph.
type Node struct {
	ID    semantic.Identifier
	Title string
	// Kind is a symbol kind identifier or one of the page kinds above.
	Kind string
	// Virtual nodes group other nodes but have no page of their own.
	Virtual bool
	// Languages lists the source languages the page is available in. Empty
	// means unknown.
	Languages []string
}

// Graph stores nodes and their parent/child edges in insertion order.
type Graph struct {
	nodes    map[semantic.Identifier]*Node
	order    []semantic.Identifier
	children map[semantic.Identifier][]semantic.Identifier
	parents  map[semantic.Identifier][]semantic.Identifier
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[semantic.Identifier]*Node),
		children: make(map[semantic.Identifier][]semantic.Identifier),
		parents:  make(map[semantic.Identifier][]semantic.Identifier),
	}
}

// Add inserts or replaces a node.
func (g *Graph) Add(n Node) {
	if _, ok := g.nodes[n.ID]; !ok {
		g.order = append(g.order, n.ID)
	}
	g.nodes[n.ID] = &n
}

// Identifiers returns every node identifier in insertion order.
func (g *Graph) Identifiers() []semantic.Identifier {
	return slices.Clone(g.order)
}

// AddEdge records child under parent. Repeated edges are ignored.
func (g *Graph) AddEdge(parent, child semantic.Identifier) {
	if slices.Contains(g.children[parent], child) {
		return
	}
	g.children[parent] = append(g.children[parent], child)
	g.parents[child] = append(g.parents[child], parent)
}

// Node returns the node for id.
func (g *Graph) Node(id semantic.Identifier) (Node, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// IsLinkable reports whether id is a node that has a page of its own.
func (g *Graph) IsLinkable(id semantic.Identifier) bool {
	n, ok := g.nodes[id]
	return ok && !n.Virtual
}

// Parents returns the parents of id in insertion order.
func (g *Graph) Parents(id semantic.Identifier) []semantic.Identifier {
	return slices.Clone(g.parents[id])
}

// Children returns the children of id, optionally restricted to kinds.
func (g *Graph) Children(of semantic.Identifier, kinds ...string) []semantic.Identifier {
	var out []semantic.Identifier
	for _, c := range g.children[of] {
		if len(kinds) > 0 {
			n, ok := g.nodes[c]
			if !ok || !slices.Contains(kinds, n.Kind) {
				continue
			}
		}
		out = append(out, c)
	}
	return out
}

// BreadthFirst visits root and its descendants level by level, each node
// once. Returning false from fn stops the traversal.
func (g *Graph) BreadthFirst(root semantic.Identifier, fn func(Node) bool) {
	seen := map[semantic.Identifier]bool{root: true}
	queue := []semantic.Identifier{root}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if n, ok := g.nodes[id]; ok && !fn(*n) {
			return
		}
		for _, c := range g.children[id] {
			if !seen[c] {
				seen[c] = true
				queue = append(queue, c)
			}
		}
	}
}

// PathsToRoot returns every curation path from a root down to id, excluding
// id itself. Shorter paths come first; ties keep parent insertion order.
func (g *Graph) PathsToRoot(id semantic.Identifier) [][]semantic.Identifier {
	var paths [][]semantic.Identifier
	var walk func(cur semantic.Identifier, suffix []semantic.Identifier, onPath map[semantic.Identifier]bool)
	walk = func(cur semantic.Identifier, suffix []semantic.Identifier, onPath map[semantic.Identifier]bool) {
		parents := g.parents[cur]
		if len(parents) == 0 {
			if len(suffix) > 0 {
				paths = append(paths, slices.Clone(suffix))
			}
			return
		}
		for _, p := range parents {
			if onPath[p] {
				continue
			}
			onPath[p] = true
			walk(p, append([]semantic.Identifier{p}, suffix...), onPath)
			delete(onPath, p)
		}
	}
	walk(id, nil, map[semantic.Identifier]bool{id: true})
	slices.SortStableFunc(paths, func(a, b []semantic.Identifier) int { return len(a) - len(b) })
	return paths
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }
