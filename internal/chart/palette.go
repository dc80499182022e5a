package chart

import (
	"fmt"
	"math"
)

// Qualitative is the categorical palette used for continents.
var Qualitative = []string{
	"#636EFA", "#EF553B", "#00CC96", "#AB63FA", "#FFA15A",
	"#19D3F3", "#FF6692", "#B6E880", "#FF97FF", "#FECB52",
}

// CategoryColor returns the palette entry for a category index. Negative
// indexes map to a neutral grey.
func CategoryColor(index int) string {
	if index < 0 {
		return "#888888"
	}
	return Qualitative[index%len(Qualitative)]
}

// RGB is an 8-bit colour.
type RGB struct {
	R, G, B uint8
}

func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c RGB) CSS() string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
}

// Scale is a continuous colour scale sampled at evenly spaced stops.
type Scale []RGB

// Scales are the named diverging scales. Low values are red, high values blue.
var Scales = map[string]Scale{
	"RdBu": {
		{103, 0, 31}, {178, 24, 43}, {214, 96, 77}, {244, 165, 130}, {253, 219, 199},
		{247, 247, 247}, {209, 229, 240}, {146, 197, 222}, {67, 147, 195}, {33, 102, 172},
		{5, 48, 97},
	},
	"PiYG": {
		{142, 1, 82}, {197, 27, 125}, {222, 119, 174}, {241, 182, 218}, {253, 224, 239},
		{247, 247, 247}, {230, 245, 208}, {184, 225, 134}, {127, 188, 65}, {77, 146, 33},
		{39, 100, 25},
	},
}

// At interpolates the scale at t in [0, 1]. t is clamped.
func (s Scale) At(t float64) RGB {
	if len(s) == 0 {
		return RGB{}
	}
	if math.IsNaN(t) || t <= 0 {
		return s[0]
	}
	if t >= 1 {
		return s[len(s)-1]
	}
	pos := t * float64(len(s)-1)
	i := int(pos)
	frac := pos - float64(i)
	a, b := s[i], s[i+1]
	lerp := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*frac))
	}
	return RGB{lerp(a.R, b.R), lerp(a.G, b.G), lerp(a.B, b.B)}
}

// Plotly returns the scale as [[position, "rgb(...)"], ...].
func (s Scale) Plotly() [][2]any {
	out := make([][2]any, len(s))
	for i, c := range s {
		pos := 0.0
		if len(s) > 1 {
			pos = float64(i) / float64(len(s)-1)
		}
		out[i] = [2]any{pos, c.CSS()}
	}
	return out
}

// DivergingRange widens [lo, hi] so that mid sits exactly in the centre,
// which is how a colour axis with a fixed midpoint is laid out.
func DivergingRange(lo, hi, mid float64) (float64, float64) {
	half := math.Max(math.Abs(hi-mid), math.Abs(mid-lo))
	if half == 0 {
		half = 1
	}
	return mid - half, mid + half
}

// Diverging maps value onto the scale with mid at the centre.
func (s Scale) Diverging(value, lo, hi, mid float64) RGB {
	lo, hi = DivergingRange(lo, hi, mid)
	return s.At((value - lo) / (hi - lo))
}
