package chart

import (
	"fmt"
	"math"

	"github.com/san-kum/gapdash/internal/gapminder"
)

// Point is one country in the scatter chart.
type Point struct {
	Country string  `json:"country"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Pop     int64   `json:"pop"`
	Size    float64 `json:"size"`
}

// Trace groups the points of one continent.
type Trace struct {
	Name    string  `json:"name"`
	Color   string  `json:"color"`
	Opacity float64 `json:"opacity"`
	Points  []Point `json:"points"`
}

// Axis is the title and scale of one chart axis.
type Axis struct {
	Title string `json:"title"`
	Log   bool   `json:"log"`
}

// ScatterSpec describes the bubble chart for one year.
type ScatterSpec struct {
	Title        string  `json:"title"`
	Year         int     `json:"year"`
	Continent    string  `json:"continent,omitempty"`
	Traces       []Trace `json:"traces"`
	XAxis        Axis    `json:"xaxis"`
	YAxis        Axis    `json:"yaxis"`
	SizeMax      float64 `json:"sizeMax"`
	TransitionMs int     `json:"transitionMs"`
}

// Trace returns the trace for a continent.
func (s ScatterSpec) Trace(name string) (Trace, bool) {
	for _, t := range s.Traces {
		if t.Name == name {
			return t, true
		}
	}
	return Trace{}, false
}

// Len returns the number of points over all traces.
func (s ScatterSpec) Len() int {
	n := 0
	for _, t := range s.Traces {
		n += len(t.Points)
	}
	return n
}

// Scatter builds the bubble chart for year. A non-empty continent dims every
// trace whose name differs from it; a continent with no data in the year
// therefore dims them all. A year without records yields a spec with no
// traces.
func Scatter(ds *gapminder.Dataset, year int, continent string, opts Options) ScatterSpec {
	opts = opts.withDefaults()
	records := ds.RecordsForYear(year)

	var maxPop int64
	for _, r := range records {
		if r.Pop > maxPop {
			maxPop = r.Pop
		}
	}

	spec := ScatterSpec{
		Title:        ScatterTitle(year, continent),
		Year:         year,
		Continent:    continent,
		Traces:       make([]Trace, 0),
		XAxis:        Axis{Title: "gdpPercap", Log: true},
		YAxis:        Axis{Title: "lifeExp"},
		SizeMax:      opts.SizeMax,
		TransitionMs: opts.TransitionMs,
	}

	index := make(map[string]int)
	for _, r := range records {
		i, ok := index[r.Continent]
		if !ok {
			i = len(spec.Traces)
			index[r.Continent] = i
			spec.Traces = append(spec.Traces, Trace{
				Name:    r.Continent,
				Color:   CategoryColor(ds.ContinentIndex(r.Continent)),
				Opacity: traceOpacity(r.Continent, continent, opts.DimOpacity),
			})
		}
		spec.Traces[i].Points = append(spec.Traces[i].Points, Point{
			Country: r.Country,
			X:       r.GdpPercap,
			Y:       r.LifeExp,
			Pop:     r.Pop,
			Size:    MarkerSize(r.Pop, maxPop, opts.SizeMax),
		})
	}

	return spec
}

func traceOpacity(name, selected string, dim float64) float64 {
	if selected == "" || name == selected {
		return FullOpacity
	}
	return dim
}

// MarkerSize maps a population onto a diameter so that bubble area is
// proportional to population and the largest bubble is sizeMax.
func MarkerSize(pop, maxPop int64, sizeMax float64) float64 {
	if pop <= 0 || maxPop <= 0 {
		return 0
	}
	ratio := float64(pop) / float64(maxPop)
	if ratio > 1 {
		ratio = 1
	}
	return sizeMax * math.Sqrt(ratio)
}

// ScatterTitle formats the scatter chart title. The label is kept as plain
// text; markup escaping happens where a title is emitted.
func ScatterTitle(year int, continent string) string {
	title := fmt.Sprintf("Year: %d", year)
	if continent != "" {
		title += fmt.Sprintf(" (selected: %s)", continent)
	}
	return title
}
