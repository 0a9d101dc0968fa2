package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/KennethOlivas/zen-draw-sub000/element"
)

const DefaultThumbnailSize = 256

// Thumbnail rasterises the SVG export so its longer side is size pixels.
// The rasteriser has no text support, so text elements are left out.
func Thumbnail(w io.Writer, elements []*element.Element, size int, background string) error {
	if size <= 0 {
		size = DefaultThumbnailSize
	}
	var buf bytes.Buffer
	if err := SVG(&buf, elements, Options{Padding: DefaultPadding, Background: background}); err != nil {
		return err
	}
	icon, err := oksvg.ReadIconStream(&buf, oksvg.IgnoreErrorMode)
	if err != nil {
		return fmt.Errorf("failed to parse svg: %w", err)
	}

	tw, th := fit(icon.ViewBox.W, icon.ViewBox.H, size)
	icon.SetTarget(0, 0, float64(tw), float64(th))
	rgba := image.NewRGBA(image.Rect(0, 0, tw, th))
	scanner := rasterx.NewScannerGV(tw, th, rgba, rgba.Bounds())
	raster := rasterx.NewDasher(tw, th, scanner)
	icon.Draw(raster, 1.0)

	if err := png.Encode(w, rgba); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

// fit scales (w, h) so the longer side is size, keeping the aspect ratio.
func fit(w, h float64, size int) (int, int) {
	if w <= 0 || h <= 0 {
		return size, size
	}
	aspect := w / h
	if aspect >= 1 {
		return size, max(1, int(float64(size)/aspect))
	}
	return max(1, int(float64(size)*aspect)), size
}
