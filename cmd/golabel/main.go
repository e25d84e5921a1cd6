package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/philipparndt/golabel/internal/config"
	"github.com/philipparndt/golabel/internal/logging"
	"github.com/philipparndt/golabel/version"
)

var (
	configPath string
	verbose    bool
	cfg        = config.Default()
)

var rootCmd = &cobra.Command{
	Use:   "golabel",
	Short: "A CLI tool for inspecting height maps and their label files",
	Long: `golabel inspects 2.5D height maps and the polygon labels drawn on them.
It reports surface and label measurements, renders labeled surfaces to PNG
and talks to the auto-label inference service.`,
	Version:       version.GetFullVersion(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		logging.SetLogger(logging.NewText(os.Stderr, level))

		path := configPath
		if path == "" {
			path = config.DefaultPath()
		}
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
