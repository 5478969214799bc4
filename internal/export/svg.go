package export

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"InkBoard/internal/state"

	"honnef.co/go/curve"
)

// SVGPrecision caps the digits written per coordinate.
const SVGPrecision = 3

// SVG writes items as one <path> each inside a viewBox covering them all.
func SVG(w io.Writer, items []state.Item) error {
	bw := bufio.NewWriter(w)
	items = visible(items)

	box, ok := extent(items)
	if !ok {
		fmt.Fprint(bw, `<svg xmlns="http://www.w3.org/2000/svg" width="0" height="0"/>`+"\n")
		return bw.Flush()
	}
	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%s %s %s %s" width="%s" height="%s">`+"\n",
		num(box.MinX()), num(box.MinY()), num(box.Width()), num(box.Height()), num(box.Width()), num(box.Height()))

	for _, it := range items {
		if err := writePath(bw, it); err != nil {
			return err
		}
	}
	fmt.Fprint(bw, "</svg>\n")
	return bw.Flush()
}

func writePath(w *bufio.Writer, it state.Item) error {
	fill := "none"
	if c, ok := fillOf(it); ok {
		fill = state.ColorString(state.MustColor(c))
	}
	fmt.Fprintf(w, `<path id="%s" fill="%s"`, attr(string(it.ID)), fill)
	if c, ok := strokeOf(it); ok {
		fmt.Fprintf(w, ` stroke="%s" stroke-width="%s" stroke-linecap="round" stroke-linejoin="round"`,
			state.ColorString(state.MustColor(c)), num(it.Style.Width))
	}
	fmt.Fprint(w, ` d="`)
	p := it.Geometry.Path()
	if err := p.WriteSVG(w, curve.SVGOptions{MaxPrecision: SVGPrecision}); err != nil {
		return fmt.Errorf("path %s: %w", it.ID, err)
	}
	_, err := fmt.Fprint(w, `"/>`+"\n")
	return err
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func attr(s string) string {
	var sb strings.Builder
	_ = xml.EscapeText(&sb, []byte(s))
	return sb.String()
}
