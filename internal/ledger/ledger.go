// Package ledger records which other references a rendered reference or page
// depends on.
package ledger

import (
	"github.com/swiftlang/swift-docc-sub005/internal/render"
	"github.com/swiftlang/swift-docc-sub005/internal/semantic"
)

// Dependencies are the topic, link and image references touched while
// rendering one reference record.
type Dependencies struct {
	Topics []semantic.Identifier   `json:"topics,omitempty"`
	Links  []render.LinkReference  `json:"links,omitempty"`
	Images []render.ImageReference `json:"images,omitempty"`
}

// IsEmpty reports whether d has no dependencies at all.
func (d Dependencies) IsEmpty() bool {
	return len(d.Topics) == 0 && len(d.Links) == 0 && len(d.Images) == 0
}

// Collector accumulates dependencies in encounter order. Topics are a set;
// links and images are keyed by their reference key and later records win,
// except that an empty title or alt text never replaces a set one.
// A Collector is not safe for concurrent use.
type Collector struct {
	topicSeen map[semantic.Identifier]struct{}
	topics    []semantic.Identifier

	links     map[string]render.LinkReference
	linkOrder []string

	images     map[string]render.ImageReference
	imageOrder []string
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{
		topicSeen: make(map[semantic.Identifier]struct{}),
		links:     make(map[string]render.LinkReference),
		images:    make(map[string]render.ImageReference),
	}
}

// AddTopic records id and reports whether it was new.
func (c *Collector) AddTopic(id semantic.Identifier) bool {
	if _, ok := c.topicSeen[id]; ok {
		return false
	}
	c.topicSeen[id] = struct{}{}
	c.topics = append(c.topics, id)
	return true
}

// AddLink records an external link reference.
func (c *Collector) AddLink(l render.LinkReference) {
	prev, ok := c.links[l.Identifier]
	if !ok {
		c.linkOrder = append(c.linkOrder, l.Identifier)
	} else if l.Title == "" {
		l.Title = prev.Title
		l.TitleInlineContent = prev.TitleInlineContent
	}
	c.links[l.Identifier] = l
}

// Link returns the link recorded under key.
func (c *Collector) Link(key string) (render.LinkReference, bool) {
	l, ok := c.links[key]
	return l, ok
}

// AddImage records an image reference.
func (c *Collector) AddImage(img render.ImageReference) {
	prev, ok := c.images[img.Identifier]
	if !ok {
		c.imageOrder = append(c.imageOrder, img.Identifier)
	} else if img.Alt == "" {
		img.Alt = prev.Alt
	}
	c.images[img.Identifier] = img
}

// Merge folds d into the collector.
func (c *Collector) Merge(d Dependencies) {
	for _, id := range d.Topics {
		c.AddTopic(id)
	}
	for _, l := range d.Links {
		c.AddLink(l)
	}
	for _, img := range d.Images {
		c.AddImage(img)
	}
}

// Topics returns the recorded topics in first-seen order.
func (c *Collector) Topics() []semantic.Identifier {
	return append([]semantic.Identifier(nil), c.topics...)
}

// Links returns the recorded links in first-seen order.
func (c *Collector) Links() []render.LinkReference {
	out := make([]render.LinkReference, 0, len(c.linkOrder))
	for _, k := range c.linkOrder {
		out = append(out, c.links[k])
	}
	return out
}

// Images returns the recorded images in first-seen order.
func (c *Collector) Images() []render.ImageReference {
	out := make([]render.ImageReference, 0, len(c.imageOrder))
	for _, k := range c.imageOrder {
		out = append(out, c.images[k])
	}
	return out
}

// Snapshot returns everything recorded so far. Empty lists are nil.
func (c *Collector) Snapshot() Dependencies {
	var d Dependencies
	if len(c.topics) > 0 {
		d.Topics = c.Topics()
	}
	if len(c.linkOrder) > 0 {
		d.Links = c.Links()
	}
	if len(c.imageOrder) > 0 {
		d.Images = c.Images()
	}
	return d
}
