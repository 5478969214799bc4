package export

import (
	"fmt"
	"image/png"
	"io"

	"InkBoard/internal/render"
	"InkBoard/internal/state"
	"InkBoard/internal/view"
)

// PNGMargin is the border kept around the content, in pixels.
const PNGMargin = 16.0

// PNG rasterizes items into a width×height image fitted to their extent.
func PNG(w io.Writer, items []state.Item, width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("png size %dx%d", width, height)
	}
	items = visible(items)
	for i := range items {
		items[i].Selected = false
	}

	v := view.New(view.DefaultMinZoom, view.DefaultMaxZoom)
	if box, ok := extent(items); ok {
		v.Fit(box, float64(width), float64(height), PNGMargin)
	}
	img := render.Rasterize(items, v, width, height)
	return png.Encode(w, img)
}
