package render

import (
	"image/color"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg/draw"
)

// palette holds the colors shared by all figures.
var palette = [...]string{
	"rgb(255,255,106)",
	"rgb(31,120,180)",
	"rgb(178,223,138)",
	"rgb(51,160,44)",
	"rgb(251,154,153)",
	"rgb(207,233,252)",
	"rgb(188, 189, 34)",
	"rgb(23, 190, 207)",
	"rgb(240, 74, 62)",
	"rgb(23, 190, 207)",
}

// Algorithm describes how one range query algorithm is drawn.
type Algorithm struct {
	Key        string // suffix of the list column, e.g. "bundle"
	Label      string
	Color      color.NRGBA
	Symbol     int    // glyph index, see plotutil.Shape
	Macrobench string // rqalg value in macrobenchmark results, empty if not run there
}

// Glyph returns the point glyph of the algorithm.
func (a Algorithm) Glyph() draw.GlyphDrawer {
	return plotutil.Shape(a.Symbol)
}

// Algorithms returns the style table in legend order. Every call returns a
// new slice, so callers may modify it.
func Algorithms() []Algorithm {
	return []Algorithm{
		{Key: "rwlock", Label: "EBR-RQ", Color: mustParseRGB(palette[7]), Symbol: 1, Macrobench: "RQ_RWLOCK"},
		{Key: "lockfree", Label: "EBR-RQ-LF", Color: mustParseRGB(palette[1]), Symbol: 0, Macrobench: "RQ_LOCKFREE"},
		{Key: "rlu", Label: "RLU", Color: mustParseRGB(palette[4]), Symbol: 3, Macrobench: "RQ_RLU"},
		{Key: "bundle", Label: "Bundle", Color: mustParseRGB(palette[3]), Symbol: 2, Macrobench: "RQ_BUNDLE"},
		{Key: "rbundle", Label: "Bundle-restart", Color: mustParseRGB(palette[0]), Symbol: 5},
		{Key: "unsafe", Label: "Unsafe", Color: mustParseRGB(palette[5]), Symbol: 4, Macrobench: "RQ_UNSAFE"},
		{Key: "vcas", Label: "vCAS", Color: mustParseRGB(palette[6]), Symbol: 6},
		{Key: "tsbundle", Label: "Bundle-rqts", Color: mustParseRGB(palette[8]), Symbol: 7},
	}
}

// LookupAlgorithm finds the style of the algorithm with the given key.
func LookupAlgorithm(key string) (Algorithm, bool) {
	for _, a := range Algorithms() {
		if a.Key == key {
			return a, true
		}
	}
	return Algorithm{}, false
}

// Without returns the algorithms whose key is not in ignore.
func Without(algos []Algorithm, ignore ...string) []Algorithm {
	var out []Algorithm
outer:
	for _, a := range algos {
		for _, key := range ignore {
			if a.Key == key {
				continue outer
			}
		}
		out = append(out, a)
	}
	return out
}

// ParseRGB parses a color written as "rgb(r, g, b)".
func ParseRGB(s string) (color.NRGBA, error) {
	inner := strings.TrimSpace(s)
	if !strings.HasPrefix(inner, "rgb(") || !strings.HasSuffix(inner, ")") {
		return color.NRGBA{}, errors.Errorf("invalid color %q", s)
	}
	parts := strings.Split(inner[len("rgb("):len(inner)-1], ",")
	if len(parts) != 3 {
		return color.NRGBA{}, errors.Errorf("invalid color %q: want three components", s)
	}
	var rgb [3]uint8
	for i, p := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return color.NRGBA{}, errors.Errorf("invalid color %q: bad component %q", s, p)
		}
		rgb[i] = uint8(n)
	}
	return color.NRGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 0xff}, nil
}

func mustParseRGB(s string) color.NRGBA {
	c, err := ParseRGB(s)
	if err != nil {
		panic(err)
	}
	return c
}

// WithOpacity returns c with its alpha set to opacity, clamped to [0, 1].
func WithOpacity(c color.NRGBA, opacity float64) color.NRGBA {
	switch {
	case opacity < 0:
		opacity = 0
	case opacity > 1:
		opacity = 1
	}
	c.A = uint8(opacity*255 + 0.5)
	return c
}
