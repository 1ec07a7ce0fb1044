package cmd

import (
	"fmt"
	"log/slog"
	"maps"

	"github.com/spf13/cobra"

	"github.com/swiftlang/swift-docc-sub005/internal/assets"
	"github.com/swiftlang/swift-docc-sub005/internal/bundle"
	"github.com/swiftlang/swift-docc-sub005/internal/logfields"
	"github.com/swiftlang/swift-docc-sub005/internal/precompute"
	"github.com/swiftlang/swift-docc-sub005/internal/semantic"
	"github.com/swiftlang/swift-docc-sub005/internal/store"
	"github.com/swiftlang/swift-docc-sub005/internal/translate"
)

// workspace is a loaded bundle plus whatever precomputed references the
// command was pointed at.
type workspace struct {
	bundle *bundle.Bundle
	env    *translate.Environment
	db     *store.SQLite
}

// openWorkspace loads the bundle at path. The command's --cache and --store
// flags, when set, select a precomputed reference source; --store wins when
// both are given.
func openWorkspace(cmd *cobra.Command, path string) (*workspace, error) {
	b, err := bundle.Load(path)
	if err != nil {
		return nil, err
	}
	slog.Info("loaded bundle", logfields.Path(path), logfields.Count(b.Model.Len()))

	w := &workspace{bundle: b}

	var cache precompute.Store
	cachePath, _ := cmd.Flags().GetString("cache")
	storePath, _ := cmd.Flags().GetString("store")
	switch {
	case storePath != "":
		db, err := store.Open(storePath)
		if err != nil {
			return nil, err
		}
		if id, ok, err := db.Meta(store.MetaBundle); err == nil && ok && id != b.ID {
			db.Close()
			return nil, fmt.Errorf("store %s holds bundle %s, not %s", storePath, id, b.ID)
		}
		w.db = db
		cache = db
	case cachePath != "":
		c, err := precompute.Load(cachePath)
		if err != nil {
			return nil, err
		}
		slog.Debug("loaded precompute cache", logfields.Path(cachePath), logfields.Count(c.Len()))
		cache = c
	}

	w.env = translate.NewEnvironment(translate.Environment{
		Model:     b.Model,
		Graph:     b.Graph,
		Resolver:  b.Resolver,
		Assets:    assetStore(b),
		External:  b.External,
		Platforms: currentPlatforms(b),
		Cache:     cache,
		Recorder:  recorder,
		Logger:    slog.Default(),
	})
	return w, nil
}

func (w *workspace) Close() error {
	if w.db == nil {
		return nil
	}
	return w.db.Close()
}

// assetStore returns the bundle's asset directory, or nil when it has none.
func assetStore(b *bundle.Bundle) assets.Store {
	if b.Assets == nil {
		return nil
	}
	return b.Assets
}

// currentPlatforms overlays the configured platform versions on the bundle's.
func currentPlatforms(b *bundle.Bundle) semantic.CurrentPlatforms {
	out := make(semantic.CurrentPlatforms)
	maps.Copy(out, b.Platforms)
	maps.Copy(out, cfg.CurrentPlatforms())
	return out
}
