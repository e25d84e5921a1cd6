package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/philipparndt/golabel/internal/project"
	"github.com/philipparndt/golabel/pkg/analysis"
	"github.com/philipparndt/golabel/pkg/heightmap"
)

var (
	labelCount    int
	labelLargest  bool
	labelSmallest bool
	labelMinArea  float64
	labelMaxArea  float64
)

var labelsCmd = &cobra.Command{
	Use:   "labels [heightmap]",
	Short: "List the labels of a height map",
	Long:  "Display every label with its area, perimeter and centroid in image pixels.",
	Args:  cobra.ExactArgs(1),
	RunE:  runLabels,
}

func init() {
	rootCmd.AddCommand(labelsCmd)

	labelsCmd.Flags().StringVarP(&labelsPath, "labels", "l", "", "label file (default <heightmap>.labels.json)")
	labelsCmd.Flags().IntVarP(&labelCount, "count", "n", 10, "Number of labels to display")
	labelsCmd.Flags().BoolVar(&labelLargest, "largest", false, "Show largest labels by area")
	labelsCmd.Flags().BoolVarP(&labelSmallest, "smallest", "s", false, "Show smallest labels by area")
	labelsCmd.Flags().Float64Var(&labelMinArea, "min-area", 0, "Only show labels with at least this area")
	labelsCmd.Flags().Float64Var(&labelMaxArea, "max-area", 0, "Only show labels with at most this area (0 = no limit)")
}

func runLabels(cmd *cobra.Command, args []string) error {
	filename := args[0]

	grid, err := heightmap.Load(filename)
	if err != nil {
		return err
	}
	file, err := project.Open(labelsPath, filename)
	if err != nil {
		return err
	}

	side := float64(grid.Width)
	result := analysis.AnalyzeLabels(file.Labels(), side, side)

	stats := result.Labels
	if labelMinArea > 0 || labelMaxArea > 0 {
		maxArea := labelMaxArea
		if maxArea <= 0 {
			maxArea = side * side
		}
		stats = analysis.FindLabelsByArea(result, labelMinArea, maxArea)
	}

	// Sort based on flags
	var title string
	switch {
	case labelLargest:
		stats = analysis.FindLargestLabels(&analysis.LabelResult{Labels: stats}, len(stats))
		title = fmt.Sprintf("Top %d Largest Labels", labelCount)
	case labelSmallest:
		sort.Slice(stats, func(i, j int) bool {
			return stats[i].Area < stats[j].Area
		})
		title = fmt.Sprintf("Top %d Smallest Labels", labelCount)
	default:
		title = fmt.Sprintf("First %d Labels", labelCount)
	}

	fmt.Println(title)
	fmt.Println("====================")
	fmt.Printf("Total labels: %d\n", len(result.Labels))
	fmt.Printf("Labeled area: %.2f px²\n\n", result.TotalArea)

	for i := 0; i < labelCount && i < len(stats); i++ {
		s := stats[i]
		kind := "add"
		if s.IsSubtract {
			kind = "subtract"
		}
		if s.IsAuto {
			kind += ", auto"
		}
		fmt.Printf("Label #%d (%s, %s):\n", s.ID, s.Feature, kind)
		fmt.Printf("  Points: %d\n", s.Points)
		fmt.Printf("  Area: %.2f px²\n", s.Area)
		fmt.Printf("  Perimeter: %.2f px\n", s.Perimeter)
		fmt.Printf("  Centroid: %s\n", analysis.FormatPoint(s.Centroid))
		fmt.Printf("  Bounds: %s - %s\n\n", analysis.FormatPoint(s.Min), analysis.FormatPoint(s.Max))
	}
	return nil
}
