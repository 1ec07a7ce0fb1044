package translate

import (
	"path/filepath"
	"strings"

	"github.com/swiftlang/swift-docc-sub005/internal/assets"
	"github.com/swiftlang/swift-docc-sub005/internal/ledger"
	"github.com/swiftlang/swift-docc-sub005/internal/logfields"
	"github.com/swiftlang/swift-docc-sub005/internal/markup"
	"github.com/swiftlang/swift-docc-sub005/internal/reference"
	"github.com/swiftlang/swift-docc-sub005/internal/render"
	"github.com/swiftlang/swift-docc-sub005/internal/semantic"
	"github.com/swiftlang/swift-docc-sub005/internal/variant"
)

// pageContext is the mutable state of one page translation. Topics are an
// ordered set; every other reference kind is keyed by its reference key, so
// using an asset twice yields one record.
type pageContext struct {
	id     semantic.Identifier
	traits []variant.Trait

	deps     *ledger.Collector
	compiler *markup.Compiler

	videos     map[string]render.VideoReference
	videoOrder []string

	files     map[string]render.FileReference
	fileOrder []string

	downloads     map[string]render.DownloadReference
	downloadOrder []string

	unresolved     map[string]render.UnresolvedReference
	unresolvedKeys []string

	constraints reference.Constraints

	// links caches link resolution; a zero identifier marks a failure.
	links map[string]semantic.Identifier
}

func newPageContext(env *Environment, id semantic.Identifier, traits []variant.Trait) *pageContext {
	deps := ledger.NewCollector()
	return &pageContext{
		id:          id,
		traits:      traits,
		deps:        deps,
		compiler:    markup.New(env.Resolver, env.Assets, id, deps),
		videos:      make(map[string]render.VideoReference),
		files:       make(map[string]render.FileReference),
		downloads:   make(map[string]render.DownloadReference),
		unresolved:  make(map[string]render.UnresolvedReference),
		constraints: make(reference.Constraints),
		links:       make(map[string]semantic.Identifier),
	}
}

// addUnresolved records a stand-in for a target that never resolved and
// returns its reference key.
func (c *pageContext) addUnresolved(key, title string) string {
	if _, ok := c.unresolved[key]; !ok {
		c.unresolvedKeys = append(c.unresolvedKeys, key)
	} else if title == "" {
		return key
	}
	c.unresolved[key] = render.UnresolvedReference{Identifier: key, Title: title}
	return key
}

// resolveAsset looks name up in the asset store, recording a degraded
// lookup when it is missing.
func (t *Translator) resolveAsset(name string) (assets.Asset, bool) {
	if name == "" || t.env.Assets == nil {
		return assets.Asset{}, false
	}
	a, ok := t.env.Assets.Resolve(name, t.ctx.id)
	if !ok {
		t.env.Recorder.IncDegraded("missing_asset")
		t.env.Logger.Debug("asset not found", logfields.Asset(name), logfields.Identifier(t.ctx.id.String()))
	}
	return a, ok
}

// registerMedia registers an image or video and returns its reference key.
// Videos also register their poster image. Files that are neither are not
// media and are ignored.
func (t *Translator) registerMedia(name, poster string) (string, bool) {
	a, ok := t.resolveAsset(name)
	if !ok {
		return "", false
	}
	switch a.Kind {
	case assets.KindImage:
		t.ctx.deps.AddImage(render.ImageReference{Identifier: a.Name, Variants: a.RenderVariants()})
		return a.Name, true
	case assets.KindVideo:
		ref := render.VideoReference{Identifier: a.Name, Variants: a.RenderVariants()}
		if poster != "" {
			if key, ok := t.registerMedia(poster, ""); ok {
				ref.Poster = key
			}
		}
		if prev, seen := t.ctx.videos[a.Name]; !seen {
			t.ctx.videoOrder = append(t.ctx.videoOrder, a.Name)
		} else if ref.Poster == "" {
			ref.Poster = prev.Poster
		}
		t.ctx.videos[a.Name] = ref
		return a.Name, true
	}
	return "", false
}

// registerDownload registers a downloadable asset with its checksum. A
// failed checksum drops only this reference.
func (t *Translator) registerDownload(name string) (string, bool) {
	a, ok := t.resolveAsset(name)
	if !ok {
		return "", false
	}
	if _, seen := t.ctx.downloads[a.Name]; seen {
		return a.Name, true
	}
	memo := t.env.Checksums
	if memo == nil {
		memo = assets.NewChecksumMemo(t.env.Assets)
	}
	sum, err := memo.Checksum(a)
	if err != nil {
		t.env.Recorder.IncDegraded("checksum")
		t.env.Logger.Warn("dropping download", logfields.Asset(name), logfields.Error(err))
		return "", false
	}
	t.ctx.downloads[a.Name] = render.DownloadReference{Identifier: a.Name, URL: a.URL(), Checksum: sum}
	t.ctx.downloadOrder = append(t.ctx.downloadOrder, a.Name)
	return a.Name, true
}

// registerFile registers a source file whose lines are shown next to a
// tutorial step.
func (t *Translator) registerFile(name string) (string, bool) {
	a, ok := t.resolveAsset(name)
	if !ok {
		return "", false
	}
	if _, seen := t.ctx.files[a.Name]; seen {
		return a.Name, true
	}
	b, err := t.env.Assets.Read(a)
	if err != nil {
		t.env.Recorder.IncDegraded("file_read")
		t.env.Logger.Warn("dropping file", logfields.Asset(name), logfields.Error(err))
		return "", false
	}
	ext := strings.TrimPrefix(filepath.Ext(a.Name), ".")
	t.ctx.files[a.Name] = render.FileReference{
		Identifier: a.Name,
		FileName:   filepath.Base(a.Name),
		FileType:   ext,
		Syntax:     ext,
		Content:    strings.Split(strings.TrimSuffix(string(b), "\n"), "\n"),
	}
	t.ctx.fileOrder = append(t.ctx.fileOrder, a.Name)
	return a.Name, true
}

// addTopic records a topic reference the page points at and returns its key.
func (c *pageContext) addTopic(id semantic.Identifier) string {
	c.deps.AddTopic(id)
	return id.String()
}
