package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/philipparndt/golabel/internal/app"
	"github.com/philipparndt/golabel/internal/config"
	"github.com/philipparndt/golabel/internal/logging"
	"github.com/philipparndt/golabel/version"
)

var opts app.Options

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:     "golabel <heightmap>",
	Short:   "Label regions on 2.5D height maps",
	Long:    `GoLabel shows a height map as a 3D surface and lets you draw and auto-label polygons on it.`,
	Version: version.GetFullVersion(),
	Args:    cobra.ExactArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		opts.Heightmap = args[0]
		return app.Run(opts)
	},
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&opts.ProjectPath, "labels", "l", "", "label file (default <heightmap>.labels.json)")
	flags.StringVar(&opts.ImageID, "image-id", "", "image id sent to the inference service")
	flags.StringVarP(&opts.Feature, "feature", "f", "", "feature name of new labels")
	flags.StringVar(&opts.Color, "color", "", "feature colour as #rrggbb")
	flags.Float64Var(&opts.HeightScale, "height-scale", 10, "vertical exaggeration")
	flags.Float64Var(&opts.Size, "size", 100, "surface side length in world units")
	flags.BoolVarP(&opts.Watch, "watch", "w", true, "reload the height map when it changes")
	flags.BoolVar(&opts.Autosave, "autosave", false, "save the label file after every change")

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")
}

func setup() error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logging.SetLogger(logging.NewText(os.Stderr, level))

	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	opts.Config = cfg
	return nil
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
