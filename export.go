package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KennethOlivas/zen-draw-sub000/document"
	"github.com/KennethOlivas/zen-draw-sub000/export"
)

func newExportCommand() *cobra.Command {
	opts := export.DefaultOptions()
	cmd := &cobra.Command{
		Use:   "export <drawing.json> <output.svg|png|pdf>",
		Short: "Export a drawing to SVG, PNG or PDF",
		Long: `Export renders every element of a drawing with the same sketchy strokes
the editor shows. The output format follows the output file extension.`,
		Example: `  zendraw export diagram.json diagram.svg
  zendraw export diagram.json diagram.png --scale 2
  zendraw export diagram.json diagram.pdf --background transparent`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := document.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read drawing: %w", err)
			}
			if !cmd.Flags().Changed("background") {
				opts.Background = doc.BackgroundColor
			}
			if err := export.WriteFile(args[1], doc.Elements, opts); err != nil {
				return fmt.Errorf("failed to export: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&opts.Scale, "scale", opts.Scale, "Raster scale for PNG output")
	cmd.Flags().Float64Var(&opts.Padding, "padding", opts.Padding, "Padding around the drawing")
	cmd.Flags().StringVar(&opts.Background, "background", opts.Background, "Page color, or transparent (default: the drawing's background)")
	return cmd
}

func newThumbnailCommand() *cobra.Command {
	var size int
	cmd := &cobra.Command{
		Use:   "thumbnail <drawing.json> <output.png>",
		Short: "Render a small PNG preview of a drawing",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := document.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read drawing: %w", err)
			}
			f, err := os.Create(args[1])
			if err != nil {
				return err
			}
			if err := export.Thumbnail(f, doc.Elements, size, doc.BackgroundColor); err != nil {
				f.Close()
				os.Remove(args[1])
				return fmt.Errorf("failed to render thumbnail: %w", err)
			}
			return f.Close()
		},
	}
	cmd.Flags().IntVar(&size, "size", export.DefaultThumbnailSize, "Longest side in pixels")
	return cmd
}
