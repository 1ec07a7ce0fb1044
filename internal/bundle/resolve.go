package bundle

import (
	"path"
	"strings"

	"github.com/swiftlang/swift-docc-sub005/internal/semantic"
	"github.com/swiftlang/swift-docc-sub005/internal/topicgraph"
)

// Documentation roots tried for links that are not found relative to the
// linking page.
var roots = []string{"/documentation", "/tutorials"}

// Resolver resolves doc: links against one bundle. Relative links are tried
// against the linking page and each of its ancestors in turn; absolute
// doc:// links may also name external pages. It is safe for concurrent use
// once loading is done.
type Resolver struct {
	bundleID string
	model    *semantic.Model
	graph    *topicgraph.Graph
	external Externals
}

// NewResolver returns a resolver over the given pages, graph nodes and
// external references.
func NewResolver(bundleID string, model *semantic.Model, graph *topicgraph.Graph, external Externals) *Resolver {
	return &Resolver{bundleID: bundleID, model: model, graph: graph, external: external}
}

// Resolve implements semantic.Resolver.
func (r *Resolver) Resolve(link string, in semantic.Identifier) (semantic.Identifier, error) {
	if strings.HasPrefix(link, semantic.Scheme+"://") {
		id, err := semantic.ParseIdentifier(link)
		if err == nil && r.known(id) {
			return id, nil
		}
		return semantic.Identifier{}, &semantic.UnresolvedError{Link: link, Title: title(id.Path, id.Fragment)}
	}

	dest, ok := strings.CutPrefix(link, semantic.Scheme+":")
	if !ok {
		return semantic.Identifier{}, &semantic.UnresolvedError{Link: link}
	}
	p, frag, _ := strings.Cut(dest, "#")
	for _, candidate := range r.candidates(p, in) {
		id := semantic.NewIdentifier(r.bundleID, candidate, frag)
		if r.known(id) {
			return id, nil
		}
	}
	return semantic.Identifier{}, &semantic.UnresolvedError{Link: link, Title: title(p, frag)}
}

// candidates lists the paths a link path may refer to, most specific first.
func (r *Resolver) candidates(p string, in semantic.Identifier) []string {
	if p == "" {
		return []string{in.Path}
	}
	if strings.HasPrefix(p, "/") {
		out := []string{p}
		for _, root := range roots {
			out = append(out, root+p)
		}
		return out
	}

	var out []string
	if in.BundleID == r.bundleID {
		for scope := in.Path; scope != "/" && scope != "." && scope != ""; scope = path.Dir(scope) {
			out = append(out, scope+"/"+p)
		}
	}
	for _, root := range roots {
		out = append(out, root+"/"+p)
	}
	return out
}

func (r *Resolver) known(id semantic.Identifier) bool {
	if id.Fragment != "" {
		_, ok := r.model.Anchor(id)
		return ok
	}
	if _, ok := r.model.Page(id); ok {
		return true
	}
	if _, ok := r.graph.Node(id); ok {
		return true
	}
	_, ok := r.external[id]
	return ok
}

// title is the best-effort display text of a link that did not resolve.
func title(p, frag string) string {
	if frag != "" {
		return frag
	}
	if p == "" {
		return ""
	}
	return path.Base(p)
}
