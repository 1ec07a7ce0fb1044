package cmd

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/swiftlang/swift-docc-sub005/internal/config"
	"github.com/swiftlang/swift-docc-sub005/internal/mcp"
	"github.com/swiftlang/swift-docc-sub005/internal/metrics"
)

var (
	debug           bool
	metricsTextfile string

	cfg      *config.Config
	recorder metrics.Recorder = metrics.NoopRecorder{}
	promRec  *metrics.PrometheusRecorder
)

var rootCmd = &cobra.Command{
	Use:               "docrender",
	Short:             "Render documentation bundles into render JSON",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if promRec == nil {
			return nil
		}
		return promRec.WriteTextfile(metricsTextfile)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve <bundle>",
	Short: "Serve rendered pages and references over MCP stdio",
	Args:  cobra.ExactArgs(1),
	Run:   runServe,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("command failed: %v", err)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&metricsTextfile, "metrics-textfile", "", "write Prometheus metrics to this file on exit")

	serveCmd.Flags().String("cache", "", "precompute cache file to read references from")
	serveCmd.Flags().String("store", "", "SQLite reference store to read references from")

	rootCmd.AddCommand(serveCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if metricsTextfile != "" {
		promRec = metrics.NewPrometheusRecorder(nil)
		recorder = promRec
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) {
	w, err := openWorkspace(cmd, args[0])
	if err != nil {
		log.Fatalf("failed to load bundle: %v", err)
	}
	defer w.Close()

	server := mcp.NewServer(w.bundle, w.env)

	errCh := make(chan error)
	go func() { errCh <- server.Run() }()

	if err := waitForSignal(errCh); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func waitForSignal(errCh chan error) error {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigs:
		slog.Info("received signal", "signal", sig.String())
		return nil
	case err := <-errCh:
		return err
	}
}
