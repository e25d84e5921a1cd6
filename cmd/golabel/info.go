package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/philipparndt/golabel/internal/project"
	"github.com/philipparndt/golabel/pkg/analysis"
	"github.com/philipparndt/golabel/pkg/heightmap"
	"github.com/philipparndt/golabel/pkg/mesh"
)

var (
	labelsPath  string
	surfaceSize float64
	heightScale float64
)

var infoCmd = &cobra.Command{
	Use:   "info [heightmap]",
	Short: "Display general information about a height map and its labels",
	Long:  "Show surface dimensions, triangle count and surface area, and the labeled area per feature.",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
	addSurfaceFlags(infoCmd)
}

// addSurfaceFlags registers the flags shared by commands that build a surface
func addSurfaceFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&labelsPath, "labels", "l", "", "label file (default <heightmap>.labels.json)")
	cmd.Flags().Float64Var(&surfaceSize, "size", 100, "surface side length in world units")
	cmd.Flags().Float64Var(&heightScale, "height-scale", 10, "vertical exaggeration")
}

func loadSurface(path string) (*heightmap.Grid, *mesh.Mesh, error) {
	grid, err := heightmap.Load(path)
	if err != nil {
		return nil, nil, err
	}
	m := mesh.Build(grid, mesh.Options{SizeX: surfaceSize, SizeY: surfaceSize, HeightScale: heightScale})
	return grid, m, nil
}

func runInfo(cmd *cobra.Command, args []string) error {
	filename := args[0]

	grid, m, err := loadSurface(filename)
	if err != nil {
		return err
	}
	labels, err := project.Open(labelsPath, filename)
	if err != nil {
		return err
	}

	result := analysis.AnalyzeSurface(m)

	fmt.Println("Height Map Information")
	fmt.Println("======================")
	fmt.Printf("File: %s\n", filename)
	fmt.Printf("Image ID: %s\n\n", labels.ImageID)

	fmt.Println("Surface Statistics:")
	fmt.Printf("  Grid: %d x %d\n", grid.Width, grid.Width)
	fmt.Printf("  Vertices: %d\n", result.VertexCount)
	fmt.Printf("  Triangles: %d\n", result.TriangleCount)
	fmt.Printf("  Surface Area: %.6f square units\n", result.SurfaceArea)
	fmt.Printf("  Heights: %.6f .. %.6f\n\n", result.MinHeight, result.MaxHeight)

	fmt.Println("Bounding Box:")
	fmt.Printf("  Min: %s\n", analysis.FormatVector(result.BoundingBox.Min))
	fmt.Printf("  Max: %s\n", analysis.FormatVector(result.BoundingBox.Max))
	fmt.Printf("  Diagonal: %.6f units\n\n", result.BoundingBox.Diagonal())

	side := float64(grid.Width)
	stats := analysis.AnalyzeLabels(labels.Labels(), side, side)

	fmt.Printf("Labels: %s\n", labels.Path)
	fmt.Printf("  Count: %d\n", len(stats.Labels))
	fmt.Printf("  Labeled Area: %s\n", analysis.FormatMeasurement(stats.TotalArea, "px²"))
	for _, name := range stats.Features() {
		fmt.Printf("  %s: %s\n", name, analysis.FormatMeasurement(stats.ByFeature[name], "px²"))
	}
	return nil
}
