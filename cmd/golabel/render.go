package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/philipparndt/golabel/internal/project"
	"github.com/philipparndt/golabel/internal/snapshot"
	"github.com/philipparndt/golabel/pkg/heightmap"
)

var (
	renderOutput  string
	renderWidth   int
	renderHeight  int
	renderYaw     float64
	renderPitch   float64
	renderOverlay string
)

var renderCmd = &cobra.Command{
	Use:   "render [heightmap]",
	Short: "Render a labeled height map to PNG",
	Long:  "Render the surface with its labels the way the viewer shows them and write the frame as PNG.",
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)
	addSurfaceFlags(renderCmd)

	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "render.png", "Output PNG file")
	renderCmd.Flags().IntVar(&renderWidth, "width", 1200, "Image width in pixels")
	renderCmd.Flags().IntVar(&renderHeight, "height", 800, "Image height in pixels")
	renderCmd.Flags().Float64Var(&renderYaw, "yaw", 0, "Camera yaw in degrees (0 = default view)")
	renderCmd.Flags().Float64Var(&renderPitch, "pitch", 0, "Camera elevation in degrees (0 = default view)")
	renderCmd.Flags().StringVar(&renderOverlay, "overlay", "", "Also write the flat label canvas to this PNG file")
}

func runRender(cmd *cobra.Command, args []string) error {
	filename := args[0]

	grid, err := heightmap.Load(filename)
	if err != nil {
		return err
	}
	file, err := project.Open(labelsPath, filename)
	if err != nil {
		return err
	}

	opts := snapshot.Options{
		Width:       renderWidth,
		Height:      renderHeight,
		Size:        surfaceSize,
		HeightScale: heightScale,
		Config:      cfg,
		Yaw:         renderYaw * math.Pi / 180,
		Pitch:       renderPitch * math.Pi / 180,
	}
	result, err := snapshot.Render(cmd.Context(), grid, file.Labels(), opts)
	if err != nil {
		return err
	}

	if err := snapshot.SavePNG(result.Image, renderOutput); err != nil {
		return fmt.Errorf("failed to write %s: %w", renderOutput, err)
	}
	fmt.Printf("Rendered %d label(s) to %s\n", len(file.Labels()), renderOutput)

	if renderOverlay != "" {
		if err := snapshot.SavePNG(result.Overlay, renderOverlay); err != nil {
			return fmt.Errorf("failed to write %s: %w", renderOverlay, err)
		}
		fmt.Printf("Label canvas written to %s\n", renderOverlay)
	}
	return nil
}
