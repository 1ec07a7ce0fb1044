// Package render defines the render tree: the per-page output document, its
// content nodes, and the reference records pages point at.
package render

// Inline is one inline content node. Type selects which fields are used.
type Inline struct {
	Type          string   `json:"type"`
	Text          string   `json:"text,omitempty"`
	Code          string   `json:"code,omitempty"`
	InlineContent []Inline `json:"inlineContent,omitempty"`

	// Reference and image nodes.
	Identifier                   string   `json:"identifier,omitempty"`
	IsActive                     *bool    `json:"isActive,omitempty"`
	OverridingTitle              string   `json:"overridingTitle,omitempty"`
	OverridingTitleInlineContent []Inline `json:"overridingTitleInlineContent,omitempty"`
}

// Inline node types.
const (
	InlineText          = "text"
	InlineEmphasis      = "emphasis"
	InlineStrong        = "strong"
	InlineCode          = "codeVoice"
	InlineStrikethrough = "strikethrough"
	InlineReference     = "reference"
	InlineImage         = "image"
)

func Text(s string) Inline { return Inline{Type: InlineText, Text: s} }

func Code(s string) Inline { return Inline{Type: InlineCode, Code: s} }

func Emphasis(children ...Inline) Inline {
	return Inline{Type: InlineEmphasis, InlineContent: children}
}

func Strong(children ...Inline) Inline {
	return Inline{Type: InlineStrong, InlineContent: children}
}

func Strikethrough(children ...Inline) Inline {
	return Inline{Type: InlineStrikethrough, InlineContent: children}
}

// Ref links to the reference stored under key.
func Ref(key string, active bool) Inline {
	return Inline{Type: InlineReference, Identifier: key, IsActive: &active}
}

// Image embeds the image reference stored under key.
func Image(key string) Inline {
	return Inline{Type: InlineImage, Identifier: key}
}

// PlainText flattens inline content to its visible text.
func PlainText(content []Inline) string {
	var out []byte
	for _, in := range content {
		out = appendPlain(out, in)
	}
	return string(out)
}

func appendPlain(dst []byte, in Inline) []byte {
	switch in.Type {
	case InlineText:
		dst = append(dst, in.Text...)
	case InlineCode:
		dst = append(dst, in.Code...)
	case InlineReference:
		dst = append(dst, in.OverridingTitle...)
	}
	for _, c := range in.InlineContent {
		dst = appendPlain(dst, c)
	}
	return dst
}

func inlineKeys(dst []string, content []Inline) []string {
	for _, in := range content {
		if (in.Type == InlineReference || in.Type == InlineImage) && in.Identifier != "" {
			dst = append(dst, in.Identifier)
		}
		dst = inlineKeys(dst, in.InlineContent)
		dst = inlineKeys(dst, in.OverridingTitleInlineContent)
	}
	return dst
}
