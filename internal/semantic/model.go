package semantic

import "fmt"

// Model holds every page of a documentation set plus the anchors declared
// inside them. It is built once and read concurrently afterwards.
type Model struct {
	pages   map[Identifier]Page
	order   []Identifier
	anchors map[Identifier]string
	// anchorOrder lists anchors in the order they were first added.
	anchorOrder []Identifier
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{
		pages:   make(map[Identifier]Page),
		anchors: make(map[Identifier]string),
	}
}

// Add registers p under its reference. Adding the same identifier twice is an
// error.
func (m *Model) Add(p Page) error {
	id := p.Reference()
	if _, ok := m.pages[id]; ok {
		return fmt.Errorf("duplicate page %s", id)
	}
	m.pages[id] = p
	m.order = append(m.order, id)
	return nil
}

// AddAnchor records a section heading inside an existing page.
func (m *Model) AddAnchor(id Identifier, title string) {
	if _, ok := m.anchors[id]; !ok {
		m.anchorOrder = append(m.anchorOrder, id)
	}
	m.anchors[id] = title
}

// Anchors returns every anchor identifier in insertion order.
func (m *Model) Anchors() []Identifier {
	return append([]Identifier(nil), m.anchorOrder...)
}

// Page returns the page for id. The match is exact: an identifier with a
// fragment names an anchor, not the page that contains it.
func (m *Model) Page(id Identifier) (Page, bool) {
	p, ok := m.pages[id]
	return p, ok
}

// Anchor returns the section title for an identifier with a fragment.
func (m *Model) Anchor(id Identifier) (string, bool) {
	title, ok := m.anchors[id]
	return title, ok
}

// Identifiers returns every page identifier in insertion order.
func (m *Model) Identifiers() []Identifier {
	return append([]Identifier(nil), m.order...)
}

// Len returns the number of pages.
func (m *Model) Len() int { return len(m.pages) }
