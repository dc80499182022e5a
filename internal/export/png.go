package export

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/san-kum/gapdash/internal/chart"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ScatterPNG rasterizes the bubble chart. X values are plotted as log10 of
// GDP per capita and labelled back in dollars.
func ScatterPNG(w io.Writer, spec chart.ScatterSpec, width, height int) error {
	minX, maxX, minY, maxY, ok := bounds(spec)
	if !ok {
		return blankPNG(w, width, height)
	}

	series := make([]gochart.Series, 0, len(spec.Traces))
	for _, tr := range spec.Traces {
		if len(tr.Points) == 0 {
			continue
		}
		xs := make([]float64, 0, len(tr.Points))
		ys := make([]float64, 0, len(tr.Points))
		sizes := make([]float64, 0, len(tr.Points))
		for _, p := range tr.Points {
			if p.X <= 0 {
				continue
			}
			xs = append(xs, math.Log10(p.X))
			ys = append(ys, p.Y)
			sizes = append(sizes, math.Max(p.Size/2, 1.5))
		}
		if len(xs) == 0 {
			continue
		}

		dot := hexColor(tr.Color).WithAlpha(uint8(math.Round(tr.Opacity * 255)))
		series = append(series, gochart.ContinuousSeries{
			Name: tr.Name,
			Style: gochart.Style{
				StrokeWidth: gochart.Disabled,
				DotColor:    dot,
				DotWidthProvider: func(_, _ gochart.Range, index int, _, _ float64) float64 {
					return sizes[index]
				},
			},
			XValues: xs,
			YValues: ys,
		})
	}

	ticks := make([]gochart.Tick, 0)
	for _, v := range logTicks(minX, maxX) {
		ticks = append(ticks, gochart.Tick{Value: math.Log10(v), Label: formatGDP(v)})
	}

	graph := gochart.Chart{
		Title:  spec.Title,
		Width:  width,
		Height: height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: gochart.XAxis{
			Name:  spec.XAxis.Title,
			Range: &gochart.ContinuousRange{Min: minX, Max: maxX},
			Ticks: ticks,
		},
		YAxis: gochart.YAxis{
			Name:  spec.YAxis.Title,
			Range: &gochart.ContinuousRange{Min: minY, Max: maxY},
		},
		Series: series,
	}
	graph.Elements = []gochart.Renderable{gochart.Legend(&graph)}

	if err := graph.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("render png: %w", err)
	}
	return nil
}

// blankPNG writes a white image; the chart library refuses to render
// without series.
func blankPNG(w io.Writer, width, height int) error {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	return png.Encode(w, img)
}

func hexColor(hex string) drawing.Color {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return drawing.ColorBlack
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return drawing.ColorBlack
	}
	return drawing.Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}
