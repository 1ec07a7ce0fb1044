package semantic

import (
	"fmt"
	"net/url"
	"strings"
)

// Scheme is the URI scheme of resolved documentation identifiers.
const Scheme = "doc"

// Identifier is a resolved handle to one documentation page or to an anchor
// inside one. It is comparable and safe to use as a map key.
type Identifier struct {
	BundleID string
	Path     string
	Fragment string
}

// NewIdentifier builds an identifier, normalizing the path to start with "/".
func NewIdentifier(bundleID, path, fragment string) Identifier {
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return Identifier{BundleID: bundleID, Path: path, Fragment: fragment}
}

// ParseIdentifier parses "doc://bundle/path#fragment".
func ParseIdentifier(s string) (Identifier, error) {
	u, err := url.Parse(s)
	if err != nil {
		return Identifier{}, fmt.Errorf("parsing identifier %q: %w", s, err)
	}
	if u.Scheme != Scheme || u.Host == "" {
		return Identifier{}, fmt.Errorf("identifier %q is not an absolute %s:// URI", s, Scheme)
	}
	return NewIdentifier(u.Host, u.Path, u.Fragment), nil
}

// String returns the absolute form, which is also the identifier's reference key.
func (id Identifier) String() string {
	s := Scheme + "://" + id.BundleID + id.Path
	if id.Fragment != "" {
		s += "#" + id.Fragment
	}
	return s
}

// URL returns the relative web URL for the page.
func (id Identifier) URL() string {
	u := strings.ToLower(id.Path)
	if id.Fragment != "" {
		u += "#" + URLReadableFragment(id.Fragment)
	}
	return u
}

// IsZero reports whether id is the zero identifier.
func (id Identifier) IsZero() bool { return id == Identifier{} }

// WithFragment returns a copy of id pointing at fragment.
func (id Identifier) WithFragment(fragment string) Identifier {
	id.Fragment = fragment
	return id
}

// WithoutFragment returns the page identifier that contains id.
func (id Identifier) WithoutFragment() Identifier {
	id.Fragment = ""
	return id
}

// AppendingPath returns a child identifier one path component deeper.
func (id Identifier) AppendingPath(component string) Identifier {
	return Identifier{BundleID: id.BundleID, Path: strings.TrimSuffix(id.Path, "/") + "/" + component}
}

// LastPathComponent returns the final path segment.
func (id Identifier) LastPathComponent() string {
	if i := strings.LastIndex(id.Path, "/"); i >= 0 {
		return id.Path[i+1:]
	}
	return id.Path
}

// MarshalText implements encoding.TextMarshaler.
func (id Identifier) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *Identifier) UnmarshalText(b []byte) error {
	parsed, err := ParseIdentifier(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// URLReadableFragment turns a heading or anchor name into a URL fragment.
func URLReadableFragment(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	lastDash := false
	for _, r := range s {
		switch {
		case r == ' ' || r == '\t' || r == '-':
			if !lastDash && b.Len() > 0 {
				b.WriteByte('-')
				lastDash = true
			}
		case r == '"' || r == '\'' || r == '`' || r == '#' || r == '%' || r == '?':
		default:
			b.WriteRune(r)
			lastDash = false
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// Unresolved is a reference that never resolved to a page. Title is the
// best-effort display text for it.
type Unresolved struct {
	Topic string `json:"topic"`
	Title string `json:"title,omitempty"`
}
