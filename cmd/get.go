package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/swiftlang/swift-docc-sub005/internal/semantic"
	"github.com/swiftlang/swift-docc-sub005/internal/translate"
)

var getCmd = &cobra.Command{
	Use:   "get <bundle> <doc://bundle/path>",
	Short: "Print the reference record for one identifier",
	Example: `  docrender get Kit.json doc://com.example/documentation/Kit/Box
  docrender get Kit.json doc://com.example/documentation/Kit --store refs.db`,
	Args: cobra.ExactArgs(2),
	Run:  runGet,
}

func init() {
	getCmd.Flags().String("cache", "", "precompute cache file to read references from")
	getCmd.Flags().String("store", "", "SQLite reference store to read references from")
	getCmd.Flags().Bool("page", false, "print the whole render node instead of the reference")

	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) {
	id, err := semantic.ParseIdentifier(args[1])
	if err != nil {
		log.Fatalf("invalid identifier: %v", err)
	}

	w, err := openWorkspace(cmd, args[0])
	if err != nil {
		log.Fatalf("failed to load bundle: %v", err)
	}
	defer w.Close()

	var out any
	if page, _ := cmd.Flags().GetBool("page"); page {
		conv := &translate.Converter{Env: w.env, Workers: 1}
		node, err := conv.Convert(id)
		if err != nil {
			log.Fatalf("convert failed: %v", err)
		}
		out = node
	} else {
		out = translate.LookupReference(w.env, id)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(os.Stderr, "encoding output: %v\n", err)
		os.Exit(1)
	}
}
