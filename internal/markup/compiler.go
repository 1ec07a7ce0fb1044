// Package markup compiles authored markdown into render content. Every topic,
// link and image the content points at is recorded in a ledger.Collector.
package markup

import (
	"errors"
	"net/url"
	"strings"

	gm "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	gmparser "github.com/gomarkdown/markdown/parser"

	"github.com/swiftlang/swift-docc-sub005/internal/assets"
	"github.com/swiftlang/swift-docc-sub005/internal/ledger"
	"github.com/swiftlang/swift-docc-sub005/internal/render"
	"github.com/swiftlang/swift-docc-sub005/internal/semantic"
)

const extensions = gmparser.NoIntraEmphasis | gmparser.FencedCode | gmparser.Autolink |
	gmparser.Strikethrough | gmparser.SpaceHeadings

func parse(m semantic.Markup) ast.Node {
	return gm.Parse([]byte(m), gmparser.NewWithExtensions(extensions))
}

// Compiler converts markup authored on one page. Resolver and Assets may be
// nil, in which case every link and image is treated as missing.
type Compiler struct {
	resolver semantic.Resolver
	assets   assets.Store
	context  semantic.Identifier
	deps     *ledger.Collector
}

// New returns a compiler resolving links relative to context and recording
// what it touches in deps.
func New(resolver semantic.Resolver, store assets.Store, context semantic.Identifier, deps *ledger.Collector) *Compiler {
	return &Compiler{resolver: resolver, assets: store, context: context, deps: deps}
}

// Blocks compiles m into block content.
func (c *Compiler) Blocks(m semantic.Markup) []render.Block {
	if m.IsEmpty() {
		return nil
	}
	return c.blocks(parse(m).GetChildren())
}

// Inline compiles only the first paragraph of m.
func (c *Compiler) Inline(m semantic.Markup) []render.Inline {
	if m.IsEmpty() {
		return nil
	}
	for _, n := range parse(m).GetChildren() {
		if p, ok := n.(*ast.Paragraph); ok {
			return c.inlines(p.Children)
		}
	}
	return nil
}

// Abstract returns the authored abstract, or the first paragraph of the
// discussion when there is none.
func (c *Compiler) Abstract(abstract, discussion semantic.Markup) []render.Inline {
	if !abstract.IsEmpty() {
		return c.Inline(abstract)
	}
	return c.Inline(discussion)
}

func (c *Compiler) blocks(nodes []ast.Node) []render.Block {
	var out []render.Block
	for _, n := range nodes {
		switch n := n.(type) {
		case *ast.Paragraph:
			if content := c.inlines(n.Children); len(content) > 0 {
				out = append(out, render.Paragraph{InlineContent: content})
			}
		case *ast.Heading:
			text := plain(n)
			out = append(out, render.Heading{Level: n.Level, Text: text, Anchor: semantic.URLReadableFragment(text)})
		case *ast.CodeBlock:
			out = append(out, render.CodeListing{Syntax: string(n.Info), Code: codeLines(n.Literal)})
		case *ast.List:
			items := make([]render.ListItem, 0, len(n.Children))
			for _, item := range n.Children {
				items = append(items, render.ListItem{Content: c.blocks(item.GetChildren())})
			}
			if n.ListFlags&ast.ListTypeOrdered != 0 {
				out = append(out, render.OrderedList{Start: n.Start, Items: items})
			} else {
				out = append(out, render.UnorderedList{Items: items})
			}
		case *ast.BlockQuote:
			out = append(out, c.aside(n))
		case *ast.HorizontalRule:
			out = append(out, render.ThematicBreak{})
		}
	}
	return out
}

var asideStyles = []string{"Note", "Important", "Warning", "Tip", "Experiment", "Attention"}

func (c *Compiler) aside(n *ast.BlockQuote) render.Aside {
	content := c.blocks(n.Children)
	aside := render.Aside{Style: "note", Name: "Note", Content: content}
	if len(content) == 0 {
		return aside
	}
	p, ok := content[0].(render.Paragraph)
	if !ok || len(p.InlineContent) == 0 || p.InlineContent[0].Type != render.InlineText {
		return aside
	}
	first := p.InlineContent[0].Text
	for _, style := range asideStyles {
		rest, found := strings.CutPrefix(first, style+":")
		if !found {
			continue
		}
		inline := append([]render.Inline(nil), p.InlineContent...)
		if rest = strings.TrimLeft(rest, " "); rest == "" {
			inline = inline[1:]
		} else {
			inline[0] = render.Text(rest)
		}
		blocks := append([]render.Block(nil), content...)
		if len(inline) == 0 {
			blocks = blocks[1:]
		} else {
			blocks[0] = render.Paragraph{InlineContent: inline}
		}
		return render.Aside{Style: strings.ToLower(style), Name: style, Content: blocks}
	}
	return aside
}

func (c *Compiler) inlines(nodes []ast.Node) []render.Inline {
	var out []render.Inline
	for _, n := range nodes {
		out = append(out, c.inline(n)...)
	}
	return mergeText(out)
}

func (c *Compiler) inline(n ast.Node) []render.Inline {
	switch n := n.(type) {
	case *ast.Text:
		if s := strings.ReplaceAll(string(n.Literal), "\n", " "); s != "" {
			return []render.Inline{render.Text(s)}
		}
		return nil
	case *ast.Softbreak:
		return []render.Inline{render.Text(" ")}
	case *ast.Hardbreak:
		return []render.Inline{render.Text("\n")}
	case *ast.Code:
		return []render.Inline{render.Code(string(n.Literal))}
	case *ast.Emph:
		return wrap(render.Emphasis, c.inlines(n.Children))
	case *ast.Strong:
		return wrap(render.Strong, c.inlines(n.Children))
	case *ast.Del:
		return wrap(render.Strikethrough, c.inlines(n.Children))
	case *ast.Link:
		return c.link(n)
	case *ast.Image:
		return c.image(n)
	case *ast.HTMLSpan:
		return nil
	}
	return c.inlines(n.GetChildren())
}

func wrap(f func(...render.Inline) render.Inline, children []render.Inline) []render.Inline {
	if len(children) == 0 {
		return nil
	}
	return []render.Inline{f(children...)}
}

func (c *Compiler) link(n *ast.Link) []render.Inline {
	dest := string(n.Destination)
	text := c.inlines(n.Children)
	if u, err := url.Parse(dest); err == nil && u.Scheme != "" && u.Scheme != semantic.Scheme {
		return []render.Inline{c.externalLink(dest, text)}
	}

	id, err := c.resolve(dest)
	if err != nil {
		if len(text) > 0 {
			return text
		}
		var unresolved *semantic.UnresolvedError
		if errors.As(err, &unresolved) && unresolved.Title != "" {
			return []render.Inline{render.Text(unresolved.Title)}
		}
		return []render.Inline{render.Text(dest)}
	}

	c.deps.AddTopic(id)
	ref := render.Ref(id.String(), true)
	if title := render.PlainText(text); title != "" && title != dest {
		ref.OverridingTitle = title
		ref.OverridingTitleInlineContent = text
	}
	return []render.Inline{ref}
}

func (c *Compiler) resolve(dest string) (semantic.Identifier, error) {
	if c.resolver == nil {
		return semantic.Identifier{}, &semantic.UnresolvedError{Link: dest}
	}
	return c.resolver.Resolve(dest, c.context)
}

// externalLink records one link reference per URL. Later uses with other
// text point at the same record and carry their own overriding title.
func (c *Compiler) externalLink(dest string, text []render.Inline) render.Inline {
	title := render.PlainText(text)
	if title == "" {
		title = dest
		text = []render.Inline{render.Text(dest)}
	}
	ref := render.Ref(dest, true)
	if existing, ok := c.deps.Link(dest); ok {
		if existing.Title != title {
			ref.OverridingTitle = title
			ref.OverridingTitleInlineContent = text
		}
		return ref
	}
	c.deps.AddLink(render.LinkReference{Identifier: dest, Title: title, TitleInlineContent: text, URL: dest})
	return ref
}

func (c *Compiler) image(n *ast.Image) []render.Inline {
	if c.assets == nil {
		return nil
	}
	a, ok := c.assets.Resolve(string(n.Destination), c.context)
	if !ok || a.Kind != assets.KindImage {
		return nil
	}
	c.deps.AddImage(render.ImageReference{Identifier: a.Name, Alt: plain(n), Variants: a.RenderVariants()})
	return []render.Inline{render.Image(a.Name)}
}

func mergeText(in []render.Inline) []render.Inline {
	var out []render.Inline
	for _, x := range in {
		if n := len(out); n > 0 && x.Type == render.InlineText && out[n-1].Type == render.InlineText {
			out[n-1].Text += x.Text
			continue
		}
		out = append(out, x)
	}
	return out
}

func codeLines(literal []byte) []string {
	s := strings.TrimSuffix(string(literal), "\n")
	if s == "" {
		return []string{}
	}
	return strings.Split(s, "\n")
}

// plain concatenates the text of n and its descendants.
func plain(n ast.Node) string {
	var b strings.Builder
	ast.WalkFunc(n, func(node ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}
		switch node := node.(type) {
		case *ast.Text:
			b.Write(node.Literal)
		case *ast.Code:
			b.Write(node.Literal)
		}
		return ast.GoToNext
	})
	return strings.ReplaceAll(b.String(), "\n", " ")
}

// FirstHeading returns the text of the first heading in m.
func FirstHeading(m semantic.Markup) string {
	for _, n := range parse(m).GetChildren() {
		if h, ok := n.(*ast.Heading); ok {
			return plain(h)
		}
	}
	return ""
}

// PlainText returns the visible text of the first paragraph of m without
// resolving anything.
func PlainText(m semantic.Markup) string {
	for _, n := range parse(m).GetChildren() {
		if p, ok := n.(*ast.Paragraph); ok {
			return strings.TrimSpace(plain(p))
		}
	}
	return ""
}
