package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/gapdash/internal/chart"
)

// Scatter draws the bubble chart into a width x height cell canvas. Dimmed
// traces are drawn first in the muted colour so the selected continent
// stays on top.
func Scatter(spec chart.ScatterSpec, width, height int, theme Theme) string {
	c := NewCanvas(width, height)
	dotsW, dotsH := width*2, height*4

	minX, maxX, minY, maxY, ok := extent(spec)
	if !ok {
		return c.String() + "no data\n"
	}

	// colour index past the last trace
	axisColor := len(spec.Traces)
	c.DrawLine(0, 0, 0, dotsH-1, axisColor)
	c.DrawLine(0, dotsH-1, dotsW-1, dotsH-1, axisColor)

	maxR := float64(min(dotsW, dotsH)) / 12
	sizeMax := spec.SizeMax
	if sizeMax <= 0 {
		sizeMax = chart.DefaultSizeMax
	}

	order := make([]int, 0, len(spec.Traces))
	for i, tr := range spec.Traces {
		if tr.Opacity < chart.FullOpacity {
			order = append(order, i)
		}
	}
	for i, tr := range spec.Traces {
		if tr.Opacity >= chart.FullOpacity {
			order = append(order, i)
		}
	}

	for _, i := range order {
		for _, p := range spec.Traces[i].Points {
			if p.X <= 0 {
				continue
			}
			x := int((math.Log10(p.X) - minX) / (maxX - minX) * float64(dotsW-1))
			y := dotsH - 1 - int((p.Y-minY)/(maxY-minY)*float64(dotsH-1))
			c.Disc(x, y, p.Size/sizeMax*maxR, i)
		}
	}

	muted := lipgloss.NewStyle().Foreground(theme.Muted)
	out := c.Render(func(i int) lipgloss.Style {
		if i == axisColor {
			return muted
		}
		tr := spec.Traces[i]
		if tr.Opacity < chart.FullOpacity {
			return muted
		}
		return lipgloss.NewStyle().Foreground(lipgloss.Color(tr.Color))
	})

	axis := fmt.Sprintf("x: %s %s..%s   y: %s %.0f..%.0f",
		spec.XAxis.Title, gdpLabel(math.Pow(10, minX)), gdpLabel(math.Pow(10, maxX)),
		spec.YAxis.Title, minY, maxY)
	return out + muted.Render(axis) + "\n"
}

// Legend lists the traces with their colour, muted when dimmed.
func Legend(spec chart.ScatterSpec, theme Theme) string {
	parts := make([]string, 0, len(spec.Traces))
	for _, tr := range spec.Traces {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(tr.Color))
		if tr.Opacity < chart.FullOpacity {
			style = lipgloss.NewStyle().Foreground(theme.Muted)
		}
		parts = append(parts, style.Render("● "+tr.Name))
	}
	return strings.Join(parts, "  ")
}

func extent(spec chart.ScatterSpec) (minX, maxX, minY, maxY float64, ok bool) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, tr := range spec.Traces {
		for _, p := range tr.Points {
			if p.X <= 0 {
				continue
			}
			lx := math.Log10(p.X)
			minX, maxX = math.Min(minX, lx), math.Max(maxX, lx)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
			ok = true
		}
	}
	if !ok {
		return 0, 0, 0, 0, false
	}
	padX := math.Max((maxX-minX)*0.05, 0.1)
	padY := math.Max((maxY-minY)*0.05, 1)
	return minX - padX, maxX + padX, minY - padY, maxY + padY, true
}

func gdpLabel(v float64) string {
	if v >= 1000 {
		return fmt.Sprintf("%.0fk", v/1000)
	}
	return fmt.Sprintf("%.0f", v)
}
