package translate

import (
	"slices"

	"github.com/swiftlang/swift-docc-sub005/internal/logfields"
	"github.com/swiftlang/swift-docc-sub005/internal/render"
	"github.com/swiftlang/swift-docc-sub005/internal/semantic"
	"github.com/swiftlang/swift-docc-sub005/internal/variant"
)

// resolve resolves an authored link once per page. Failures are logged and
// reported as false.
func (t *Translator) resolve(link string) (semantic.Identifier, bool) {
	if id, ok := t.ctx.links[link]; ok {
		return id, !id.IsZero()
	}
	var id semantic.Identifier
	if t.env.Resolver != nil {
		resolved, err := t.env.Resolver.Resolve(link, t.ctx.id)
		if err == nil {
			id = resolved
		} else {
			t.env.Recorder.IncDegraded("unresolved_link")
			t.env.Logger.Debug("dropping unresolved curation link",
				logfields.Link(link), logfields.Identifier(t.ctx.id.String()), logfields.Error(err))
		}
	}
	t.ctx.links[link] = id
	return id, !id.IsZero()
}

// availableIn reports whether target exists for trait. It is false only when
// the page has several variants and the target's known source languages
// exclude trait; missing language data keeps the target.
func (t *Translator) availableIn(target semantic.Identifier, tr variant.Trait) bool {
	if len(t.ctx.traits) < 2 {
		return true
	}
	var langs []string
	if p, ok := t.env.Model.Page(target); ok {
		langs = p.SourceLanguages()
	} else if n, ok := t.env.Graph.Node(target); ok {
		langs = n.Languages
	}
	return len(langs) == 0 || slices.Contains(langs, tr.InterfaceLanguage)
}

// curatedElsewhere reports whether a topic group on another page lists id.
func (t *Translator) curatedElsewhere(id semantic.Identifier) bool {
	for _, m := range t.env.memberships(id) {
		if m.Parent != t.ctx.id {
			return true
		}
	}
	return false
}

// authoredGroups renders authored task groups for trait. Every resolved link
// is added to curated, including ones hidden for this trait.
func (t *Translator) authoredGroups(groups []semantic.TaskGroup, tr variant.Trait, curated map[semantic.Identifier]bool) []render.TaskGroupSection {
	var out []render.TaskGroupSection
	for _, g := range groups {
		var keys []string
		for _, link := range g.Links {
			id, ok := t.resolve(link)
			if !ok {
				continue
			}
			if curated != nil {
				curated[id] = true
			}
			if !t.availableIn(id, tr) {
				continue
			}
			keys = append(keys, t.ctx.addTopic(id))
		}
		if len(keys) == 0 {
			continue
		}
		out = append(out, render.TaskGroupSection{
			Title:       g.Title,
			Abstract:    t.ctx.compiler.Inline(g.Abstract),
			Anchor:      semantic.URLReadableFragment(g.Title),
			Identifiers: keys,
		})
	}
	return out
}

// topicSections renders the Topics of a symbol or article for one trait.
//
// Symbols always get their remaining children grouped automatically, and an
// automatic group whose title matches an authored one is appended to it.
// Authored groups never list automatically found children, so the merge
// concatenates without removing duplicates. Articles are grouped
// automatically only when they curate nothing themselves.
func (t *Translator) topicSections(p semantic.Page, groups []semantic.TaskGroup, tr variant.Trait) []render.TaskGroupSection {
	automatic := false
	switch p.(type) {
	case *semantic.Symbol:
		automatic = true
	case *semantic.Article:
		automatic = len(groups) == 0
	default:
		t.invariant("only symbols and articles have topic groups, got %T", p)
		return nil
	}

	curated := make(map[semantic.Identifier]bool)
	sections := t.authoredGroups(groups, tr, curated)
	if !automatic {
		return sections
	}

	index := make(map[string]int, len(sections))
	for i, s := range sections {
		index[s.Title] = i
	}
	for _, g := range t.env.Curation.Topics(t.ctx.id, tr) {
		var keys []string
		for _, id := range g.References {
			if curated[id] || t.curatedElsewhere(id) {
				continue
			}
			keys = append(keys, t.ctx.addTopic(id))
		}
		if len(keys) == 0 {
			continue
		}
		if i, ok := index[g.Title]; ok {
			sections[i].Identifiers = append(sections[i].Identifiers, keys...)
			continue
		}
		index[g.Title] = len(sections)
		sections = append(sections, render.TaskGroupSection{
			Title:       g.Title,
			Anchor:      semantic.URLReadableFragment(g.Title),
			Identifiers: keys,
			Generated:   true,
		})
	}
	return sections
}

// seeAlsoSections renders authored See Also groups, or the page's siblings
// when none were authored.
func (t *Translator) seeAlsoSections(groups []semantic.TaskGroup, tr variant.Trait) []render.TaskGroupSection {
	if len(groups) > 0 {
		return t.authoredGroups(groups, tr, nil)
	}
	g := t.env.Curation.SeeAlso(t.ctx.id, tr)
	if g == nil {
		return nil
	}
	keys := make([]string, 0, len(g.References))
	for _, id := range g.References {
		keys = append(keys, t.ctx.addTopic(id))
	}
	return []render.TaskGroupSection{{
		Title:       g.Title,
		Anchor:      semantic.URLReadableFragment(g.Title),
		Identifiers: keys,
		Generated:   true,
	}}
}
