// Package export writes the document to PDF, SVG and PNG.
package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"InkBoard/internal/geom"
	"InkBoard/internal/logging"
	"InkBoard/internal/state"
)

var ErrUnknownFormat = errors.New("unknown export format")

// Format is an output file type.
type Format string

const (
	FormatPDF Format = "pdf"
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// Default raster size for PNG files written by WriteFile.
const (
	DefaultPNGWidth  = 1600
	DefaultPNGHeight = 1200
)

// FormatFor picks a format from a file extension.
func FormatFor(path string) (Format, error) {
	switch f := Format(strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")); f {
	case FormatPDF, FormatSVG, FormatPNG:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}
}

// WriteFile exports items to path in the format named by its extension.
func WriteFile(path string, items []state.Item) (err error) {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	if err := Write(f, format, items); err != nil {
		return err
	}
	logging.For("export").Info("exported", "path", path, "format", format, "items", len(items))
	return nil
}

// Write exports items to w in format.
func Write(w io.Writer, format Format, items []state.Item) error {
	var err error
	switch format {
	case FormatPDF:
		err = PDF(w, items)
	case FormatSVG:
		err = SVG(w, items)
	case FormatPNG:
		err = PNG(w, items, DefaultPNGWidth, DefaultPNGHeight)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return fmt.Errorf("export %s: %w", format, err)
	}
	return nil
}

// visible drops hidden and empty items.
func visible(items []state.Item) []state.Item {
	out := make([]state.Item, 0, len(items))
	for _, it := range items {
		if it.Hidden || len(it.Geometry.Segments) == 0 {
			continue
		}
		out = append(out, it)
	}
	return out
}

// extent is the union of the items' control boxes grown by half their
// stroke width.
func extent(items []state.Item) (geom.Rect, bool) {
	var r geom.Rect
	ok := false
	for _, it := range items {
		b := it.Geometry.Bounds().Inflate(it.Style.Width/2, it.Style.Width/2)
		if !ok {
			r, ok = b, true
			continue
		}
		r = r.Union(b)
	}
	return r, ok
}

// fillOf resolves the fill color name an item is painted with, if any.
func fillOf(it state.Item) (string, bool) {
	if it.Style.Fill != "" {
		return it.Style.Fill, true
	}
	if it.Kind.Filled() && it.Style.Stroke == "" {
		return "black", true
	}
	return "", false
}

func strokeOf(it state.Item) (string, bool) {
	return it.Style.Stroke, it.Style.Stroke != "" && it.Style.Width > 0
}
