package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"giltrack/internal/config"
)

var version = "dev"

var (
	flagDB    string
	flagLog   string
	flagDebug bool
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	root := &cobra.Command{
		Use:   "giltrack",
		Short: "Track gil across characters and retainers",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogger(flagLog, flagDebug)
		},
	}
	root.Version = version
	root.SetVersionTemplate("{{.Version}}\n")

	root.PersistentFlags().StringVar(&flagDB, "db", cfg.DBPath, "SQLite database path")
	root.PersistentFlags().StringVar(&flagLog, "log", cfg.LogPath, "log file path (default: stderr only)")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", cfg.Debug, "enable debug logging")

	root.AddCommand(updateCmd())
	root.AddCommand(visitCmd())
	root.AddCommand(reportCmd())
	root.AddCommand(charactersCmd())
	root.AddCommand(aggregateCmd())
	root.AddCommand(versionCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// setupLogger configures structured logging to stderr, optionally teeing all
// levels into a log file.
func setupLogger(logPath string, debug bool) error {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	w := io.Writer(os.Stderr)
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		w = io.MultiWriter(os.Stderr, f)
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
	return nil
}
