package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/swiftlang/swift-docc-sub005/internal/logfields"
	"github.com/swiftlang/swift-docc-sub005/internal/semantic"
	"github.com/swiftlang/swift-docc-sub005/internal/translate"
)

var convertCmd = &cobra.Command{
	Use:   "convert <bundle>",
	Short: "Translate bundle pages into render JSON files",
	Example: `  docrender convert Kit.json --out build
  docrender convert Kit.json --cache refs.json.zst --page doc://com.example/documentation/Kit`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().String("out", "build", "output directory")
	convertCmd.Flags().String("cache", "", "precompute cache file to read references from")
	convertCmd.Flags().String("store", "", "SQLite reference store to read references from")
	convertCmd.Flags().StringSlice("page", nil, "convert only these page identifiers")
	convertCmd.Flags().Int("workers", 0, "parallel workers (default from config)")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	w, err := openWorkspace(cmd, args[0])
	if err != nil {
		return err
	}
	defer w.Close()

	ids := w.bundle.Model.Identifiers()
	if pages, _ := cmd.Flags().GetStringSlice("page"); len(pages) > 0 {
		ids = ids[:0]
		for _, p := range pages {
			id, err := semantic.ParseIdentifier(p)
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
	}
	workers, _ := cmd.Flags().GetInt("workers")
	if workers == 0 {
		workers = cfg.Workers
	}

	conv := &translate.Converter{Env: w.env, Workers: workers}
	nodes, err := conv.ConvertAll(context.Background(), ids)
	if err != nil {
		return err
	}

	out, _ := cmd.Flags().GetString("out")
	for i, node := range nodes {
		path := outputPath(out, ids[i])
		if err := writeJSON(path, node); err != nil {
			return err
		}
		slog.Debug("wrote page", logfields.Identifier(ids[i].String()), logfields.Path(path))
	}
	fmt.Printf("converted %d pages into %s\n", len(nodes), out)
	return nil
}

// outputPath maps /documentation/Kit/Box to <dir>/documentation/kit/box.json.
func outputPath(dir string, id semantic.Identifier) string {
	p := strings.Trim(strings.ToLower(id.Path), "/")
	if p == "" {
		p = "index"
	}
	return filepath.Join(dir, filepath.FromSlash(p)+".json")
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
