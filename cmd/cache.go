package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/swiftlang/swift-docc-sub005/internal/bundle"
	"github.com/swiftlang/swift-docc-sub005/internal/logfields"
	"github.com/swiftlang/swift-docc-sub005/internal/precompute"
	"github.com/swiftlang/swift-docc-sub005/internal/store"
	"github.com/swiftlang/swift-docc-sub005/internal/translate"
)

var precomputeCmd = &cobra.Command{
	Use:   "precompute <bundle>",
	Short: "Render every reference of a bundle ahead of conversion",
	Example: `  docrender precompute Kit.json.zst
  docrender precompute Kit.json --out refs.json.zst --store refs.db`,
	Args: cobra.ExactArgs(1),
	RunE: runPrecompute,
}

var clearCacheCmd = &cobra.Command{
	Use:   "clear-cache",
	Short: "Remove the default precompute cache and reference store",
	RunE:  runClearCache,
}

func init() {
	precomputeCmd.Flags().String("out", "", "cache file to write (default from config)")
	precomputeCmd.Flags().String("store", "", "also persist references to this SQLite database")
	precomputeCmd.Flags().Int("workers", 0, "parallel workers (default from config)")

	rootCmd.AddCommand(precomputeCmd)
	rootCmd.AddCommand(clearCacheCmd)
}

func runPrecompute(cmd *cobra.Command, args []string) error {
	b, err := bundle.Load(args[0])
	if err != nil {
		return err
	}

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = cfg.Cache.Path
	}
	storePath, _ := cmd.Flags().GetString("store")
	if storePath == "" {
		storePath = cfg.Cache.Store
	}
	workers, _ := cmd.Flags().GetInt("workers")
	if workers == 0 {
		workers = cfg.Workers
	}

	env := translate.NewEnvironment(translate.Environment{
		Model:     b.Model,
		Graph:     b.Graph,
		Resolver:  b.Resolver,
		Assets:    assetStore(b),
		External:  b.External,
		Platforms: currentPlatforms(b),
		Recorder:  recorder,
	})

	cache, err := precompute.Build(context.Background(), env.Renderer(), b.Identifiers(), precompute.Options{
		Workers:  workers,
		Recorder: recorder,
		Logger:   slog.Default(),
	})
	if err != nil {
		return err
	}

	if err := cache.Save(out); err != nil {
		return err
	}
	slog.Info("wrote precompute cache", logfields.Path(out), logfields.Count(cache.Len()))

	if storePath == "" {
		return nil
	}
	db, err := store.Open(storePath)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.Put(cache.Entries()); err != nil {
		return err
	}
	if err := db.SetMeta(store.MetaBundle, b.ID); err != nil {
		return err
	}
	n, err := db.Count()
	if err != nil {
		return err
	}
	slog.Info("persisted references", logfields.Path(storePath), logfields.Count(n))
	return nil
}

func runClearCache(cmd *cobra.Command, args []string) error {
	var errs []error
	for _, path := range []string{cfg.Cache.Path, cfg.Cache.Store} {
		if path == "" {
			continue
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, fmt.Errorf("removing %s: %w", path, err))
			continue
		}
		fmt.Println("removed", path)
	}
	return errors.Join(errs...)
}
