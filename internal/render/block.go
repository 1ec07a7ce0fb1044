package render

import "encoding/json"

// Block is one block-level content node. Each implementation encodes its
// "type" discriminant itself.
type Block interface {
	BlockType() string
	keys(dst []string) []string
}

type Paragraph struct {
	InlineContent []Inline `json:"inlineContent"`
}

func (Paragraph) BlockType() string { return "paragraph" }

func (b Paragraph) keys(dst []string) []string { return inlineKeys(dst, b.InlineContent) }

func (b Paragraph) MarshalJSON() ([]byte, error) {
	type alias Paragraph
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{b.BlockType(), alias(b)})
}

type Heading struct {
	Level  int    `json:"level"`
	Text   string `json:"text"`
	Anchor string `json:"anchor,omitempty"`
}

func (Heading) BlockType() string { return "heading" }

func (Heading) keys(dst []string) []string { return dst }

func (b Heading) MarshalJSON() ([]byte, error) {
	type alias Heading
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{b.BlockType(), alias(b)})
}

type CodeListing struct {
	Syntax string   `json:"syntax,omitempty"`
	Code   []string `json:"code"`
}

func (CodeListing) BlockType() string { return "codeListing" }

func (CodeListing) keys(dst []string) []string { return dst }

func (b CodeListing) MarshalJSON() ([]byte, error) {
	type alias CodeListing
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{b.BlockType(), alias(b)})
}

type ListItem struct {
	Content []Block `json:"content"`
}

type UnorderedList struct {
	Items []ListItem `json:"items"`
}

func (UnorderedList) BlockType() string { return "unorderedList" }

func (b UnorderedList) keys(dst []string) []string { return itemKeys(dst, b.Items) }

func (b UnorderedList) MarshalJSON() ([]byte, error) {
	type alias UnorderedList
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{b.BlockType(), alias(b)})
}

type OrderedList struct {
	Start int        `json:"start,omitempty"`
	Items []ListItem `json:"items"`
}

func (OrderedList) BlockType() string { return "orderedList" }

func (b OrderedList) keys(dst []string) []string { return itemKeys(dst, b.Items) }

func (b OrderedList) MarshalJSON() ([]byte, error) {
	type alias OrderedList
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{b.BlockType(), alias(b)})
}

// Aside is a callout such as a note or warning.
type Aside struct {
	Style   string  `json:"style"`
	Name    string  `json:"name,omitempty"`
	Content []Block `json:"content"`
}

func (Aside) BlockType() string { return "aside" }

func (b Aside) keys(dst []string) []string { return blockKeys(dst, b.Content) }

func (b Aside) MarshalJSON() ([]byte, error) {
	type alias Aside
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{b.BlockType(), alias(b)})
}

type ThematicBreak struct{}

func (ThematicBreak) BlockType() string { return "thematicBreak" }

func (ThematicBreak) keys(dst []string) []string { return dst }

func (b ThematicBreak) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
	}{b.BlockType()})
}

// Step is one tutorial step. Media and Code are reference keys.
type Step struct {
	Content []Block `json:"content"`
	Caption []Block `json:"caption"`
	Media   string  `json:"media,omitempty"`
	Code    string  `json:"code,omitempty"`
}

func (Step) BlockType() string { return "step" }

func (Step) fragment() {}

func (b Step) keys(dst []string) []string {
	dst = blockKeys(dst, b.Content)
	dst = blockKeys(dst, b.Caption)
	return appendNonEmpty(dst, b.Media, b.Code)
}

func (b Step) MarshalJSON() ([]byte, error) {
	type alias Step
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{b.BlockType(), alias(b)})
}

// Para wraps inline content in a single paragraph.
func Para(content ...Inline) Paragraph { return Paragraph{InlineContent: content} }

// FirstParagraph returns the inline content of the first paragraph in blocks.
func FirstParagraph(blocks []Block) []Inline {
	for _, b := range blocks {
		if p, ok := b.(Paragraph); ok {
			return p.InlineContent
		}
	}
	return nil
}

func blockKeys(dst []string, blocks []Block) []string {
	for _, b := range blocks {
		dst = b.keys(dst)
	}
	return dst
}

func itemKeys(dst []string, items []ListItem) []string {
	for _, it := range items {
		dst = blockKeys(dst, it.Content)
	}
	return dst
}

func appendNonEmpty(dst []string, keys ...string) []string {
	for _, k := range keys {
		if k != "" {
			dst = append(dst, k)
		}
	}
	return dst
}
