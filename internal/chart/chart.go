// Package chart renders the 7-day income series, as an SVG document for
// export and as a one-line sparkline for the terminal.
package chart

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Defaults for Line.
const (
	DefaultWidth  = 600
	DefaultHeight = 160
	DefaultColor  = "#0b76ff"
	Padding       = 12
)

// Point is a plotted position in SVG user units.
type Point struct {
	X, Y float64
}

// Options controls the drawing size and stroke color.
type Options struct {
	Width  float64
	Height float64
	Color  string
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.Color == "" {
		o.Color = DefaultColor
	}
	return o
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// norm maps v into [0,1] over [lo,hi]. A flat series and non-finite values
// sit at 0.5.
func norm(v, lo, hi float64) float64 {
	if hi == lo || !finite(v) {
		return 0.5
	}
	return math.Max(0, math.Min(1, (v-lo)/(hi-lo)))
}

// bounds ignores non-finite values; with none left both bounds are 0.
func bounds(data []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range data {
		if !finite(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo > hi {
		return 0, 0
	}
	return lo, hi
}

// Points lays data out inside the padded box. A single point is centered
// horizontally.
func Points(data []float64, opts Options) []Point {
	opts = opts.withDefaults()
	if len(data) == 0 {
		return nil
	}
	innerW := opts.Width - 2*Padding
	innerH := opts.Height - 2*Padding
	lo, hi := bounds(data)

	out := make([]Point, len(data))
	for i, v := range data {
		x := Padding + innerW/2
		if len(data) > 1 {
			x = Padding + float64(i)*innerW/float64(len(data)-1)
		}
		out[i] = Point{X: x, Y: Padding + (1-norm(v, lo, hi))*innerH}
	}
	return out
}

func coord(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// Path is the SVG path data of the line through pts.
func Path(pts []Point) string {
	var b strings.Builder
	for i, p := range pts {
		if i > 0 {
			b.WriteByte(' ')
		}
		cmd := "L"
		if i == 0 {
			cmd = "M"
		}
		fmt.Fprintf(&b, "%s %s %s", cmd, coord(p.X), coord(p.Y))
	}
	return b.String()
}

// AreaPath closes path along the bottom of the padded box.
func AreaPath(path string, opts Options) string {
	opts = opts.withDefaults()
	right := opts.Width - Padding
	bottom := opts.Height - Padding
	return fmt.Sprintf("%s L %s %s L %s %s Z", path, coord(right), coord(bottom), coord(Padding), coord(bottom))
}

// WriteSVG writes a standalone SVG line chart of data to w. An empty
// series renders a "No data" text element.
func WriteSVG(w io.Writer, data []float64, opts Options) error {
	opts = opts.withDefaults()
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="100%%" viewBox="0 0 %s %s" preserveAspectRatio="none">`+"\n",
		coord(opts.Width), coord(opts.Height))
	if len(data) == 0 {
		fmt.Fprintf(&b, `  <text x="%d" y="%d">No data</text>`+"\n", Padding, 2*Padding)
		b.WriteString("</svg>\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	pts := Points(data, opts)
	path := Path(pts)
	fmt.Fprintf(&b, `  <defs>
    <linearGradient id="gradArea" x1="0" x2="0" y1="0" y2="1">
      <stop offset="0%%" stop-color="%[1]s" stop-opacity="0.12"/>
      <stop offset="100%%" stop-color="%[1]s" stop-opacity="0"/>
    </linearGradient>
  </defs>
  <g>
    <path d="%[2]s" fill="url(#gradArea)" stroke="none"/>
    <path d="%[3]s" fill="none" stroke="%[1]s" stroke-width="2.5" stroke-linejoin="round" stroke-linecap="round"/>
`, opts.Color, AreaPath(path, opts), path)
	for _, p := range pts {
		fmt.Fprintf(&b, `    <circle cx="%s" cy="%s" r="3.25" fill="#fff" stroke="%s" stroke-width="2"/>`+"\n",
			coord(p.X), coord(p.Y), opts.Color)
	}
	b.WriteString("  </g>\n</svg>\n")
	_, err := io.WriteString(w, b.String())
	return err
}

var ticks = []rune("▁▂▃▄▅▆▇█")

// Sparkline renders data as one block character per value. A flat series
// is drawn at mid height.
func Sparkline(data []float64) string {
	if len(data) == 0 {
		return ""
	}
	lo, hi := bounds(data)
	out := make([]rune, len(data))
	for i, v := range data {
		idx := int(math.Round(norm(v, lo, hi) * float64(len(ticks)-1)))
		out[i] = ticks[idx]
	}
	return string(out)
}
