package render

import (
	"encoding/json"
	"fmt"

	"github.com/swiftlang/swift-docc-sub005/internal/variant"
)

// Reference is one entry of a page's reference table, keyed by Key.
type Reference interface {
	Key() string
	ReferenceType() string
	wire(o *overrides, path string) any
}

// Reference record types.
const (
	TypeTopic        = "topic"
	TypeLink         = "link"
	TypeImage        = "image"
	TypeVideo        = "video"
	TypeFile         = "file"
	TypeDownload     = "download"
	TypeUnresolvable = "unresolvable"
)

// Conformance describes the constraints under which a symbol is available
// or conforms to a protocol.
type Conformance struct {
	AvailabilityPrefix []Inline `json:"availabilityPrefix"`
	ConformancePrefix  []Inline `json:"conformancePrefix"`
	Constraints        []Inline `json:"constraints"`
}

type PropertyListKeyNames struct {
	RawKey      string `json:"rawKey"`
	DisplayName string `json:"displayName,omitempty"`
}

// TopicReference summarizes another page or a section of one.
type TopicReference struct {
	Identifier           string                       `json:"identifier"`
	Title                variant.Collection[string]   `json:"title"`
	Abstract             variant.Collection[[]Inline] `json:"abstract"`
	URL                  string                       `json:"url"`
	Kind                 Kind                         `json:"kind"`
	Role                 string                       `json:"role,omitempty"`
	IsBeta               bool                         `json:"beta,omitempty"`
	Deprecated           bool                         `json:"deprecated,omitempty"`
	Conformance          *Conformance                 `json:"conformance,omitempty"`
	PropertyListKeyNames *PropertyListKeyNames        `json:"propertyListKeyNames,omitempty"`
}

func (r TopicReference) Key() string           { return r.Identifier }
func (r TopicReference) ReferenceType() string { return TypeTopic }

func (r TopicReference) wire(o *overrides, path string) any {
	addOverrides(o, path+"/title", r.Title)
	addOverrides(o, path+"/abstract", r.Abstract)
	abstract := r.Abstract.Default()
	if abstract == nil {
		abstract = []Inline{}
	}
	return struct {
		Type                 string                `json:"type"`
		Identifier           string                `json:"identifier"`
		Title                string                `json:"title"`
		Abstract             []Inline              `json:"abstract"`
		URL                  string                `json:"url"`
		Kind                 Kind                  `json:"kind"`
		Role                 string                `json:"role,omitempty"`
		IsBeta               bool                  `json:"beta"`
		Deprecated           bool                  `json:"deprecated,omitempty"`
		Conformance          *Conformance          `json:"conformance,omitempty"`
		PropertyListKeyNames *PropertyListKeyNames `json:"propertyListKeyNames,omitempty"`
	}{TypeTopic, r.Identifier, r.Title.Default(), abstract, r.URL, r.Kind, r.Role, r.IsBeta, r.Deprecated, r.Conformance, r.PropertyListKeyNames}
}

// LinkReference is an external web link. Identifier is derived from the URL
// so every use of the same URL shares one record.
type LinkReference struct {
	Identifier         string   `json:"identifier"`
	Title              string   `json:"title"`
	TitleInlineContent []Inline `json:"titleInlineContent"`
	URL                string   `json:"url"`
}

func (r LinkReference) Key() string           { return r.Identifier }
func (r LinkReference) ReferenceType() string { return TypeLink }

func (r LinkReference) wire(*overrides, string) any {
	return struct {
		Type string `json:"type"`
		LinkReference
	}{TypeLink, r}
}

// AssetVariant is one concrete file of an asset, such as its 2x or dark
// appearance.
type AssetVariant struct {
	URL    string   `json:"url"`
	Traits []string `json:"traits"`
}

type ImageReference struct {
	Identifier string         `json:"identifier"`
	Alt        string         `json:"alt,omitempty"`
	Variants   []AssetVariant `json:"variants"`
}

func (r ImageReference) Key() string           { return r.Identifier }
func (r ImageReference) ReferenceType() string { return TypeImage }

func (r ImageReference) wire(*overrides, string) any {
	return struct {
		Type string `json:"type"`
		ImageReference
	}{TypeImage, r}
}

// VideoReference is a video asset. Poster is the key of its poster image.
type VideoReference struct {
	Identifier string         `json:"identifier"`
	Alt        string         `json:"alt,omitempty"`
	Variants   []AssetVariant `json:"variants"`
	Poster     string         `json:"poster,omitempty"`
}

func (r VideoReference) Key() string           { return r.Identifier }
func (r VideoReference) ReferenceType() string { return TypeVideo }

func (r VideoReference) wire(*overrides, string) any {
	return struct {
		Type string `json:"type"`
		VideoReference
	}{TypeVideo, r}
}

// FileReference embeds the content of a source file, one entry per line.
type FileReference struct {
	Identifier string   `json:"identifier"`
	FileName   string   `json:"fileName"`
	FileType   string   `json:"fileType"`
	Syntax     string   `json:"syntax"`
	Content    []string `json:"content"`
}

func (r FileReference) Key() string           { return r.Identifier }
func (r FileReference) ReferenceType() string { return TypeFile }

func (r FileReference) wire(*overrides, string) any {
	return struct {
		Type string `json:"type"`
		FileReference
	}{TypeFile, r}
}

// DownloadReference is a downloadable file with its SHA-512 checksum.
type DownloadReference struct {
	Identifier string `json:"identifier"`
	URL        string `json:"url"`
	Checksum   string `json:"checksum,omitempty"`
}

func (r DownloadReference) Key() string           { return r.Identifier }
func (r DownloadReference) ReferenceType() string { return TypeDownload }

func (r DownloadReference) wire(*overrides, string) any {
	return struct {
		Type string `json:"type"`
		DownloadReference
	}{TypeDownload, r}
}

// UnresolvedReference stands in for a target that never resolved.
type UnresolvedReference struct {
	Identifier string `json:"identifier"`
	Title      string `json:"title"`
}

func (r UnresolvedReference) Key() string           { return r.Identifier }
func (r UnresolvedReference) ReferenceType() string { return TypeUnresolvable }

func (r UnresolvedReference) wire(*overrides, string) any {
	return struct {
		Type string `json:"type"`
		UnresolvedReference
	}{TypeUnresolvable, r}
}

// Persisted wraps a Reference so it round-trips through encoding/json with
// its concrete type and every variant override intact.
type Persisted struct {
	Reference Reference
}

type persisted struct {
	Type         string               `json:"type"`
	Topic        *TopicReference      `json:"topic,omitempty"`
	Link         *LinkReference       `json:"link,omitempty"`
	Image        *ImageReference      `json:"image,omitempty"`
	Video        *VideoReference      `json:"video,omitempty"`
	File         *FileReference       `json:"file,omitempty"`
	Download     *DownloadReference   `json:"download,omitempty"`
	Unresolvable *UnresolvedReference `json:"unresolvable,omitempty"`
}

func (p Persisted) MarshalJSON() ([]byte, error) {
	if p.Reference == nil {
		return []byte("null"), nil
	}
	out := persisted{Type: p.Reference.ReferenceType()}
	switch r := p.Reference.(type) {
	case TopicReference:
		out.Topic = &r
	case LinkReference:
		out.Link = &r
	case ImageReference:
		out.Image = &r
	case VideoReference:
		out.Video = &r
	case FileReference:
		out.File = &r
	case DownloadReference:
		out.Download = &r
	case UnresolvedReference:
		out.Unresolvable = &r
	default:
		return nil, fmt.Errorf("unknown reference type %T", p.Reference)
	}
	return json.Marshal(out)
}

func (p *Persisted) UnmarshalJSON(b []byte) error {
	var in persisted
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	switch {
	case in.Topic != nil:
		p.Reference = *in.Topic
	case in.Link != nil:
		p.Reference = *in.Link
	case in.Image != nil:
		p.Reference = *in.Image
	case in.Video != nil:
		p.Reference = *in.Video
	case in.File != nil:
		p.Reference = *in.File
	case in.Download != nil:
		p.Reference = *in.Download
	case in.Unresolvable != nil:
		p.Reference = *in.Unresolvable
	case in.Type == "":
		p.Reference = nil
	default:
		return fmt.Errorf("reference of type %q has no payload", in.Type)
	}
	return nil
}

// EncodeReference serializes r for persistence.
func EncodeReference(r Reference) ([]byte, error) {
	return json.Marshal(Persisted{Reference: r})
}

// DecodeReference reverses EncodeReference.
func DecodeReference(b []byte) (Reference, error) {
	var p Persisted
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("decoding reference: %w", err)
	}
	if p.Reference == nil {
		return nil, fmt.Errorf("decoding reference: empty payload")
	}
	return p.Reference, nil
}
