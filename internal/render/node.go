package render

import (
	"encoding/json"
	"slices"

	"github.com/swiftlang/swift-docc-sub005/internal/variant"
)

// Kind is the page kind of a render node or topic reference.
type Kind string

const (
	KindSymbol   Kind = "symbol"
	KindArticle  Kind = "article"
	KindTutorial Kind = "project"
	KindSection  Kind = "section"
	KindOverview Kind = "overview"
)

// Role values for topic references and page metadata.
const (
	RoleSymbol          = "symbol"
	RoleCollection      = "collection"
	RoleCollectionGroup = "collectionGroup"
	RoleArticle         = "article"
	RoleSampleCode      = "sampleCode"
	RoleProject         = "project"
	RoleOverview        = "overview"
	RolePseudoSymbol    = "pseudoSymbol"
)

// SchemaVersion is the version of the render JSON format.
type SchemaVersion struct {
	Major int `json:"major"`
	Minor int `json:"minor"`
	Patch int `json:"patch"`
}

// CurrentSchemaVersion is stamped on every page this package encodes.
var CurrentSchemaVersion = SchemaVersion{Major: 0, Minor: 3, Patch: 0}

type PageIdentifier struct {
	URL               string `json:"url"`
	InterfaceLanguage string `json:"interfaceLanguage"`
}

type Module struct {
	Name string `json:"name"`
}

// Platform is one availability entry shown in page metadata.
type Platform struct {
	Name         string `json:"name"`
	IntroducedAt string `json:"introducedAt,omitempty"`
	DeprecatedAt string `json:"deprecatedAt,omitempty"`
	Deprecated   bool   `json:"deprecated,omitempty"`
	Unavailable  bool   `json:"unavailable,omitempty"`
	Beta         bool   `json:"beta,omitempty"`
}

type Metadata struct {
	Title                 variant.Collection[string]
	RoleHeading           variant.Collection[string]
	Role                  string
	SymbolKind            variant.Collection[string]
	ExternalID            string
	Modules               []Module
	Platforms             []Platform
	EstimatedTime         string
	Category              string
	CategoryPathComponent string
}

type Hierarchy struct {
	Paths [][]string `json:"paths"`
}

// PageVariant lists the URL paths of the page for a set of traits.
type PageVariant struct {
	Traits []variant.Trait `json:"traits"`
	Paths  []string        `json:"paths"`
}

// Node is one rendered page.
type Node struct {
	Kind       Kind
	Identifier PageIdentifier
	Metadata   Metadata
	Hierarchy  Hierarchy

	Abstract               variant.Collection[[]Inline]
	PrimaryContentSections variant.Collection[[]Section]
	TopicSections          variant.Collection[[]TaskGroupSection]
	SeeAlsoSections        variant.Collection[[]TaskGroupSection]
	RelationshipSections   variant.Collection[[]RelationshipsSection]
	DeprecationSummary     variant.Collection[[]Block]

	// Sections holds tutorial and overview sections.
	Sections           []Section
	SampleCodeDownload *SampleDownload

	References map[string]Reference
	Variants   []PageVariant
}

func (*Node) fragment() {}

type metadataWire struct {
	Title                 string     `json:"title"`
	RoleHeading           string     `json:"roleHeading,omitempty"`
	Role                  string     `json:"role,omitempty"`
	SymbolKind            string     `json:"symbolKind,omitempty"`
	ExternalID            string     `json:"externalID,omitempty"`
	Modules               []Module   `json:"modules,omitempty"`
	Platforms             []Platform `json:"platforms,omitempty"`
	EstimatedTime         string     `json:"estimatedTime,omitempty"`
	Category              string     `json:"category,omitempty"`
	CategoryPathComponent string     `json:"categoryPathComponent,omitempty"`
}

type nodeWire struct {
	SchemaVersion          SchemaVersion          `json:"schemaVersion"`
	Kind                   Kind                   `json:"kind"`
	Identifier             PageIdentifier         `json:"identifier"`
	Metadata               metadataWire           `json:"metadata"`
	Abstract               []Inline               `json:"abstract,omitempty"`
	Hierarchy              Hierarchy              `json:"hierarchy"`
	PrimaryContentSections []Section              `json:"primaryContentSections,omitempty"`
	Sections               []Section              `json:"sections"`
	TopicSections          []TaskGroupSection     `json:"topicSections,omitempty"`
	SeeAlsoSections        []TaskGroupSection     `json:"seeAlsoSections,omitempty"`
	RelationshipSections   []RelationshipsSection `json:"relationshipsSections,omitempty"`
	DeprecationSummary     []Block                `json:"deprecationSummary,omitempty"`
	SampleCodeDownload     *SampleDownload        `json:"sampleCodeDownload,omitempty"`
	References             map[string]any         `json:"references"`
	Variants               []PageVariant          `json:"variants,omitempty"`
	VariantOverrides       []VariantOverride      `json:"variantOverrides,omitempty"`
}

// MarshalJSON encodes the default variant of every field and collects the
// per-trait differences into variantOverrides patches.
func (n *Node) MarshalJSON() ([]byte, error) {
	var o overrides
	md := n.Metadata
	addOverrides(&o, "/metadata/title", md.Title)
	addOverrides(&o, "/metadata/roleHeading", md.RoleHeading)
	addOverrides(&o, "/metadata/symbolKind", md.SymbolKind)
	addOverrides(&o, "/abstract", n.Abstract)
	addOverrides(&o, "/primaryContentSections", n.PrimaryContentSections)
	addOverrides(&o, "/topicSections", n.TopicSections)
	addOverrides(&o, "/seeAlsoSections", n.SeeAlsoSections)
	addOverrides(&o, "/relationshipsSections", n.RelationshipSections)
	addOverrides(&o, "/deprecationSummary", n.DeprecationSummary)

	w := nodeWire{
		SchemaVersion: CurrentSchemaVersion,
		Kind:          n.Kind,
		Identifier:    n.Identifier,
		Metadata: metadataWire{
			Title:                 md.Title.Default(),
			RoleHeading:           md.RoleHeading.Default(),
			Role:                  md.Role,
			SymbolKind:            md.SymbolKind.Default(),
			ExternalID:            md.ExternalID,
			Modules:               md.Modules,
			Platforms:             md.Platforms,
			EstimatedTime:         md.EstimatedTime,
			Category:              md.Category,
			CategoryPathComponent: md.CategoryPathComponent,
		},
		Abstract:               n.Abstract.Default(),
		Hierarchy:              n.Hierarchy,
		PrimaryContentSections: n.PrimaryContentSections.Default(),
		Sections:               n.Sections,
		TopicSections:          n.TopicSections.Default(),
		SeeAlsoSections:        n.SeeAlsoSections.Default(),
		RelationshipSections:   n.RelationshipSections.Default(),
		DeprecationSummary:     n.DeprecationSummary.Default(),
		SampleCodeDownload:     n.SampleCodeDownload,
		References:             make(map[string]any, len(n.References)),
		Variants:               n.Variants,
	}
	if w.Sections == nil {
		w.Sections = []Section{}
	}
	if w.Hierarchy.Paths == nil {
		w.Hierarchy.Paths = [][]string{}
	}
	keys := make([]string, 0, len(n.References))
	for k := range n.References {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		w.References[k] = n.References[k].wire(&o, "/references/"+PointerEscape(k))
	}
	w.VariantOverrides = o.list()
	return json.Marshal(w)
}

// ReferenceKeys returns every reference key used by the page content, across
// all variants, sorted and without duplicates.
func (n *Node) ReferenceKeys() []string {
	var keys []string
	for _, p := range n.Hierarchy.Paths {
		keys = append(keys, p...)
	}
	for _, a := range values(n.Abstract) {
		keys = inlineKeys(keys, a)
	}
	for _, sections := range values(n.PrimaryContentSections) {
		for _, s := range sections {
			keys = s.keys(keys)
		}
	}
	for _, c := range []variant.Collection[[]TaskGroupSection]{n.TopicSections, n.SeeAlsoSections} {
		for _, groups := range values(c) {
			for _, g := range groups {
				keys = g.keys(keys)
			}
		}
	}
	for _, groups := range values(n.RelationshipSections) {
		for _, g := range groups {
			keys = append(keys, g.Identifiers...)
		}
	}
	for _, blocks := range values(n.DeprecationSummary) {
		keys = blockKeys(keys, blocks)
	}
	for _, s := range n.Sections {
		keys = s.keys(keys)
	}
	if n.SampleCodeDownload != nil {
		keys = inlineKeys(keys, []Inline{n.SampleCodeDownload.Action})
	}
	slices.Sort(keys)
	return slices.Compact(keys)
}

// MissingReferences returns the content keys with no entry in References.
func (n *Node) MissingReferences() []string {
	var missing []string
	for _, k := range n.ReferenceKeys() {
		if _, ok := n.References[k]; !ok {
			missing = append(missing, k)
		}
	}
	return missing
}

func values[T any](c variant.Collection[T]) []T {
	out := []T{c.Default()}
	for _, o := range c.Overrides() {
		out = append(out, o.Value)
	}
	return out
}
