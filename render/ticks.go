package render

import (
	"math"
	"strconv"

	"gonum.org/v1/plot"
)

// SITicks labels the default tick positions with SI prefixes: 1500
// becomes "1.5k".
type SITicks struct {
	Unit string
}

func (t SITicks) Ticks(min, max float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(min, max)
	for i := range ticks {
		if ticks[i].Label != "" {
			ticks[i].Label = FormatSI(ticks[i].Value) + t.Unit
		}
	}
	return ticks
}

var siPrefixes = []struct {
	scale  float64
	prefix string
}{
	{1e12, "T"},
	{1e9, "G"},
	{1e6, "M"},
	{1e3, "k"},
}

// FormatSI formats v with four significant digits and an SI prefix.
func FormatSI(v float64) string {
	abs := math.Abs(v)
	for _, p := range siPrefixes {
		if abs >= p.scale {
			return strconv.FormatFloat(v/p.scale, 'g', 4, 64) + p.prefix
		}
	}
	return strconv.FormatFloat(v, 'g', 4, 64)
}
