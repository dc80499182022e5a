package chart

import (
	"fmt"
	"math"

	"github.com/san-kum/gapdash/internal/gapminder"
	"github.com/san-kum/gapdash/internal/stats"
)

// Segment is one wedge of the sunburst. Continents have an empty Parent.
type Segment struct {
	ID     string  `json:"id"`
	Label  string  `json:"label"`
	Parent string  `json:"parent"`
	Value  int64   `json:"value"`
	Color  float64 `json:"color"`
}

// IsContinent reports whether the segment sits on the root ring.
func (s Segment) IsContinent() bool { return s.Parent == "" }

// SunburstSpec describes the population hierarchy for one year.
type SunburstSpec struct {
	Title      string    `json:"title"`
	Year       int       `json:"year"`
	Midpoint   float64   `json:"midpoint"`
	ColorScale string    `json:"colorScale"`
	CMin       float64   `json:"cmin"`
	CMax       float64   `json:"cmax"`
	Segments   []Segment `json:"segments"`
}

// Continents returns the root-ring segments in order.
func (s SunburstSpec) Continents() []Segment {
	var out []Segment
	for _, seg := range s.Segments {
		if seg.IsContinent() {
			out = append(out, seg)
		}
	}
	return out
}

// Children returns the country segments under a continent id.
func (s SunburstSpec) Children(parent string) []Segment {
	var out []Segment
	for _, seg := range s.Segments {
		if seg.Parent == parent && parent != "" {
			out = append(out, seg)
		}
	}
	return out
}

// Color maps a life expectancy onto the spec's diverging scale.
func (s SunburstSpec) Color(value float64) RGB {
	return Scales[s.ColorScale].Diverging(value, s.CMin, s.CMax, s.Midpoint)
}

// Sunburst builds the continent/country hierarchy for year. The colour
// midpoint is the population-weighted mean life expectancy of the year.
func Sunburst(ds *gapminder.Dataset, year int, opts Options) SunburstSpec {
	opts = opts.withDefaults()
	records := ds.RecordsForYear(year)

	spec := SunburstSpec{
		Title:      SunburstTitle(year),
		Year:       year,
		Midpoint:   Midpoint(records),
		ColorScale: opts.ColorScale,
		Segments:   make([]Segment, 0, len(records)+8),
	}
	if len(records) == 0 {
		return spec
	}

	type group struct {
		pop  int64
		life stats.Accumulator
		kids []Segment
	}
	groups := make(map[string]*group)
	var order []string

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, r := range records {
		g, ok := groups[r.Continent]
		if !ok {
			g = &group{}
			groups[r.Continent] = g
			order = append(order, r.Continent)
		}
		g.pop += r.Pop
		g.life.Observe(r.LifeExp, float64(r.Pop))
		g.kids = append(g.kids, Segment{
			ID:     r.Continent + "/" + r.Country,
			Label:  r.Country,
			Parent: r.Continent,
			Value:  r.Pop,
			Color:  r.LifeExp,
		})
		lo = math.Min(lo, r.LifeExp)
		hi = math.Max(hi, r.LifeExp)
	}
	spec.CMin, spec.CMax = lo, hi

	for _, name := range order {
		g := groups[name]
		spec.Segments = append(spec.Segments, Segment{
			ID:    name,
			Label: name,
			Value: g.pop,
			Color: g.life.Value(),
		})
	}
	for _, name := range order {
		spec.Segments = append(spec.Segments, groups[name].kids...)
	}

	return spec
}

// Midpoint returns Σ(lifeExp·pop)/Σpop over records, falling back to the
// plain mean when the total population is zero.
func Midpoint(records []gapminder.Record) float64 {
	values := make([]float64, len(records))
	weights := make([]float64, len(records))
	for i, r := range records {
		values[i] = r.LifeExp
		weights[i] = float64(r.Pop)
	}
	return stats.WeightedMean(values, weights)
}

// SunburstTitle formats the sunburst chart title.
func SunburstTitle(year int) string {
	return fmt.Sprintf("Population and life expectancy (Year: %d)", year)
}
