// Package assets resolves media and download files referenced by pages.
package assets

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/swiftlang/swift-docc-sub005/internal/render"
	"github.com/swiftlang/swift-docc-sub005/internal/semantic"
)

// Kind classifies an asset by how pages present it.
type Kind int

const (
	KindFile Kind = iota
	KindImage
	KindVideo
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindVideo:
		return "video"
	}
	return "file"
}

var (
	imageExtensions = []string{".png", ".jpg", ".jpeg", ".svg", ".gif", ".webp"}
	videoExtensions = []string{".mov", ".mp4", ".m4v"}
)

// Classify returns the kind of the named file based on its extension.
func Classify(name string) Kind {
	ext := strings.ToLower(filepath.Ext(name))
	switch {
	case slices.Contains(imageExtensions, ext):
		return KindImage
	case slices.Contains(videoExtensions, ext):
		return KindVideo
	}
	return KindFile
}

// Variant is one file of an asset for a display scale and appearance.
type Variant struct {
	Path   string
	URL    string
	Traits []string
}

// Asset is a resolved bundle resource with all of its variants. The first
// variant is the default.
type Asset struct {
	Name     string
	Kind     Kind
	Variants []Variant
}

// Path returns the file path of the default variant.
func (a Asset) Path() string {
	if len(a.Variants) == 0 {
		return ""
	}
	return a.Variants[0].Path
}

// URL returns the published URL of the default variant.
func (a Asset) URL() string {
	if len(a.Variants) == 0 {
		return ""
	}
	return a.Variants[0].URL
}

// Store resolves asset names authored in a page.
type Store interface {
	Resolve(name string, in semantic.Identifier) (Asset, bool)
	Read(a Asset) ([]byte, error)
}

// Directory is a Store backed by the files under one root directory. Files
// named like "figure@2x.png" or "figure~dark.png" are variants of
// "figure.png".
type Directory struct {
	root   string
	assets map[string]*Asset
}

// OpenDirectory indexes every file under root.
func OpenDirectory(root string) (*Directory, error) {
	d := &Directory{root: root, assets: make(map[string]*Asset)}
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		d.add(path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("indexing assets in %s: %w", root, err)
	}
	for _, a := range d.assets {
		slices.SortStableFunc(a.Variants, func(x, y Variant) int {
			return variantRank(x.Traits) - variantRank(y.Traits)
		})
	}
	return d, nil
}

func (d *Directory) add(path string) {
	file := filepath.Base(path)
	ext := filepath.Ext(file)
	base := strings.TrimSuffix(file, ext)

	scale := "1x"
	if i := strings.LastIndex(base, "@"); i >= 0 && strings.HasSuffix(base, "x") {
		scale = base[i+1:]
		base = base[:i]
	}
	appearance := "light"
	if trimmed, ok := strings.CutSuffix(base, "~dark"); ok {
		appearance = "dark"
		base = trimmed
	}

	name := base + ext
	kind := Classify(name)
	a, ok := d.assets[name]
	if !ok {
		a = &Asset{Name: name, Kind: kind}
		d.assets[name] = a
		if _, taken := d.assets[base]; !taken {
			d.assets[base] = a
		}
	}
	a.Variants = append(a.Variants, Variant{
		Path:   path,
		URL:    urlPrefix(kind) + file,
		Traits: []string{scale, appearance},
	})
}

func urlPrefix(k Kind) string {
	switch k {
	case KindImage:
		return "/images/"
	case KindVideo:
		return "/videos/"
	}
	return "/downloads/"
}

func variantRank(traits []string) int {
	rank := 0
	if slices.Contains(traits, "dark") {
		rank += 10
	}
	if !slices.Contains(traits, "1x") {
		rank++
	}
	return rank
}

// Resolve looks up name with or without its extension. Assets are shared by
// the whole bundle, so the page identifier does not narrow the lookup.
func (d *Directory) Resolve(name string, _ semantic.Identifier) (Asset, bool) {
	a, ok := d.assets[filepath.Base(name)]
	if !ok {
		return Asset{}, false
	}
	return *a, true
}

// Read returns the bytes of the default variant.
func (d *Directory) Read(a Asset) ([]byte, error) {
	data, err := os.ReadFile(a.Path())
	if err != nil {
		return nil, fmt.Errorf("reading asset %s: %w", a.Name, err)
	}
	return data, nil
}

// Len returns the number of distinct assets.
func (d *Directory) Len() int {
	seen := make(map[*Asset]bool)
	for _, a := range d.assets {
		seen[a] = true
	}
	return len(seen)
}

// RenderVariants returns the variants in render form.
func (a Asset) RenderVariants() []render.AssetVariant {
	out := make([]render.AssetVariant, 0, len(a.Variants))
	for _, v := range a.Variants {
		out = append(out, render.AssetVariant{URL: v.URL, Traits: v.Traits})
	}
	return out
}
