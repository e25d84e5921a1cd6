package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/philipparndt/golabel/internal/labeling"
	"github.com/philipparndt/golabel/internal/logging"
	"github.com/philipparndt/golabel/internal/project"
	"github.com/philipparndt/golabel/pkg/analysis"
	"github.com/philipparndt/golabel/pkg/geometry"
	"github.com/philipparndt/golabel/pkg/infer"
)

var (
	autoX, autoY float64
	autoNegative bool
	autoSave     bool
	autoImageID  string
	autoURL      string
	autoFeature  string
	autoColor    string
)

var autolabelCmd = &cobra.Command{
	Use:   "autolabel [heightmap]",
	Short: "Ask the inference service for a label at one point",
	Long: `Send one auto-label click in normalized image coordinates (0..1, y down)
to the inference service and print the suggested polygons. With --save the
suggestions are appended to the label file.`,
	Args: cobra.ExactArgs(1),
	RunE: runAutolabel,
}

func init() {
	rootCmd.AddCommand(autolabelCmd)

	autolabelCmd.Flags().StringVarP(&labelsPath, "labels", "l", "", "label file (default <heightmap>.labels.json)")
	autolabelCmd.Flags().Float64Var(&autoX, "x", 0.5, "X coordinate of the click")
	autolabelCmd.Flags().Float64Var(&autoY, "y", 0.5, "Y coordinate of the click")
	autolabelCmd.Flags().BoolVar(&autoNegative, "negative", false, "Send a negative click")
	autolabelCmd.Flags().BoolVar(&autoSave, "save", false, "Append the suggestions to the label file")
	autolabelCmd.Flags().StringVar(&autoImageID, "image-id", "", "Image id (default from the label file)")
	autolabelCmd.Flags().StringVar(&autoURL, "url", "", "Inference service URL (default from config)")
	autolabelCmd.Flags().StringVarP(&autoFeature, "feature", "f", labeling.DefaultFeature.Name, "Feature of saved labels")
	autolabelCmd.Flags().StringVar(&autoColor, "color", labeling.DefaultFeature.Color, "Feature colour as #rrggbb")
}

func runAutolabel(cmd *cobra.Command, args []string) error {
	file, err := project.Open(labelsPath, args[0])
	if err != nil {
		return err
	}
	imageID := autoImageID
	if imageID == "" {
		imageID = file.ImageID
	}
	url := autoURL
	if url == "" {
		url = cfg.InferenceURL
	}

	polarity := infer.Positive
	if autoNegative {
		polarity = infer.Negative
	}
	client := infer.NewHTTPClient(url, cfg.Timeout())
	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout())
	defer cancel()

	resp, err := client.AutoLabel(ctx, infer.Request{
		ImageID:   imageID,
		X:         autoX,
		Y:         autoY,
		Polarity:  polarity,
		ImageType: cfg.ImageType,
	})
	if err != nil {
		return err
	}

	feature := file.Feature(autoFeature, autoColor)
	var polygons []*labeling.Label
	for _, contour := range resp.Contours {
		points := labeling.SimplifyContour(contour, cfg.SimplifyEpsilon, cfg.SimplifyFallback)
		if points == nil {
			continue
		}
		polygons = append(polygons, &labeling.Label{
			Points:      points,
			ShapeType:   labeling.ShapePolygon,
			IsAutoLabel: true,
			Feature:     feature,
		})
	}

	fmt.Printf("Auto Label (%s click at %s)\n", polarity, analysis.FormatPoint(geometry.NewPoint2D(autoX, autoY)))
	fmt.Println("====================")
	fmt.Printf("Contours: %d, usable polygons: %d\n\n", len(resp.Contours), len(polygons))
	for i, l := range polygons {
		fmt.Printf("Polygon %d: %d points\n", i+1, len(l.Points))
		for _, p := range l.Points {
			fmt.Printf("  %s\n", analysis.FormatPoint(p))
		}
	}

	if !autoSave {
		if err := client.AutoLabelReset(ctx, imageID); err != nil {
			logging.Logger().Warn("auto label reset failed", "error", err)
		}
		return nil
	}

	next := int64(1)
	for _, l := range file.Labels() {
		next = max(next, l.ID+1)
	}
	for _, l := range polygons {
		l.ID = next
		next++
		file.Append(l)
	}
	if err := file.Save(); err != nil {
		return err
	}
	if err := client.FinishAutoLabel(ctx); err != nil {
		logging.Logger().Warn("finish auto label failed", "error", err)
	}
	fmt.Printf("\nSaved %d label(s) to %s\n", len(polygons), file.Path)
	return nil
}
