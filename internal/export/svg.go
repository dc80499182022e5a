package export

import (
	"fmt"
	"html"
	"math"
	"strings"

	"github.com/san-kum/gapdash/internal/chart"
)

const (
	marginLeft   = 60.0
	marginRight  = 120.0
	marginTop    = 50.0
	marginBottom = 50.0
)

// ScatterSVG draws the bubble chart with a log x axis.
func ScatterSVG(spec chart.ScatterSpec, width, height int) string {
	w, h := float64(width), float64(height)
	plotW := w - marginLeft - marginRight
	plotH := h - marginTop - marginBottom

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="sans-serif">
<rect width="100%%" height="100%%" fill="#ffffff"/>
<text x="%.1f" y="28" font-size="18">%s</text>
`, width, height, width, height, marginLeft, html.EscapeString(spec.Title)))

	minX, maxX, minY, maxY, ok := bounds(spec)
	if !ok {
		sb.WriteString("</svg>")
		return sb.String()
	}

	px := func(gdp float64) float64 {
		return marginLeft + (math.Log10(gdp)-minX)/(maxX-minX)*plotW
	}
	py := func(life float64) float64 {
		return marginTop + plotH - (life-minY)/(maxY-minY)*plotH
	}

	// axes
	sb.WriteString(fmt.Sprintf(`<g stroke="#444" stroke-width="1">
<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>
<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>
</g>
`, marginLeft, marginTop+plotH, marginLeft+plotW, marginTop+plotH,
		marginLeft, marginTop, marginLeft, marginTop+plotH))

	sb.WriteString(`<g font-size="11" fill="#444">` + "\n")
	for _, tick := range logTicks(minX, maxX) {
		x := px(tick)
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" text-anchor="middle">%s</text>
`, x, marginTop+plotH+16, formatGDP(tick)))
	}
	for life := math.Ceil(minY/10) * 10; life <= maxY; life += 10 {
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" text-anchor="end">%.0f</text>
`, marginLeft-6, py(life)+4, life))
	}
	sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" text-anchor="middle">%s</text>
`, marginLeft+plotW/2, h-12, spec.XAxis.Title))
	sb.WriteString(fmt.Sprintf(`<text x="16" y="%.1f" transform="rotate(-90 16 %.1f)" text-anchor="middle">%s</text>
`, marginTop+plotH/2, marginTop+plotH/2, spec.YAxis.Title))
	sb.WriteString("</g>\n")

	for _, tr := range spec.Traces {
		sb.WriteString(fmt.Sprintf(`<g fill="%s" fill-opacity="%.2f" stroke="#2f4f4f" stroke-width="0.5" stroke-opacity="%.2f">
`, tr.Color, tr.Opacity, tr.Opacity))
		for _, p := range tr.Points {
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"><title>%s</title></circle>
`, px(p.X), py(p.Y), math.Max(p.Size/2, 1), html.EscapeString(p.Country)))
		}
		sb.WriteString("</g>\n")
	}

	// legend
	lx := w - marginRight + 16
	for i, tr := range spec.Traces {
		ly := marginTop + float64(i)*20
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="6" fill="%s" fill-opacity="%.2f"/>
<text x="%.1f" y="%.1f" font-size="12">%s</text>
`, lx, ly, tr.Color, tr.Opacity, lx+12, ly+4, html.EscapeString(tr.Name)))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// bounds returns log10 gdp and life expectancy extents with 5% padding.
func bounds(spec chart.ScatterSpec) (minX, maxX, minY, maxY float64, ok bool) {
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

func logTicks(minLog, maxLog float64) []float64 {
	var ticks []float64
	for e := math.Floor(minLog); e <= math.Ceil(maxLog); e++ {
		for _, m := range []float64{1, 2, 5} {
			v := m * math.Pow(10, e)
			if lv := math.Log10(v); lv >= minLog && lv <= maxLog {
				ticks = append(ticks, v)
			}
		}
	}
	return ticks
}

func formatGDP(v float64) string {
	switch {
	case v >= 1e6:
		return fmt.Sprintf("%gM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%gk", v/1e3)
	default:
		return fmt.Sprintf("%g", v)
	}
}

// SunburstSVG draws the two-ring hierarchy: continents inside, countries
// outside, angles proportional to population.
func SunburstSVG(spec chart.SunburstSpec, size int) string {
	s := float64(size)
	cx, cy := s/2, s/2+15
	inner, middle, outer := s*0.12, s*0.27, s*0.44

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="sans-serif">
<rect width="100%%" height="100%%" fill="#ffffff"/>
<text x="%.1f" y="24" font-size="16" text-anchor="middle">%s</text>
<g stroke="#ffffff" stroke-width="1">
`, size, size+30, size, size+30, cx, html.EscapeString(spec.Title)))

	var total int64
	for _, seg := range spec.Continents() {
		total += seg.Value
	}
	if total <= 0 {
		sb.WriteString("</g>\n</svg>")
		return sb.String()
	}

	angle := -math.Pi / 2
	for _, cont := range spec.Continents() {
		span := 2 * math.Pi * float64(cont.Value) / float64(total)
		sb.WriteString(arc(cx, cy, inner, middle, angle, angle+span,
			spec.Color(cont.Color).Hex(), cont.Label))

		kidAngle := angle
		for _, kid := range spec.Children(cont.ID) {
			kspan := 0.0
			if cont.Value > 0 {
				kspan = span * float64(kid.Value) / float64(cont.Value)
			}
			sb.WriteString(arc(cx, cy, middle, outer, kidAngle, kidAngle+kspan,
				spec.Color(kid.Color).Hex(), kid.Label))
			kidAngle += kspan
		}
		angle += span
	}
	sb.WriteString("</g>\n")

	sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-size="11" text-anchor="middle">mid %.1f</text>
`, cx, cy+4, spec.Midpoint))
	sb.WriteString("</svg>")
	return sb.String()
}

func arc(cx, cy, r0, r1, a0, a1 float64, fill, label string) string {
	if a1-a0 <= 0 {
		return ""
	}
	// a full circle cannot be expressed as a single arc
	if a1-a0 >= 2*math.Pi-1e-9 {
		a1 = a0 + 2*math.Pi - 1e-4
	}
	large := 0
	if a1-a0 > math.Pi {
		large = 1
	}
	x0, y0 := cx+r1*math.Cos(a0), cy+r1*math.Sin(a0)
	x1, y1 := cx+r1*math.Cos(a1), cy+r1*math.Sin(a1)
	x2, y2 := cx+r0*math.Cos(a1), cy+r0*math.Sin(a1)
	x3, y3 := cx+r0*math.Cos(a0), cy+r0*math.Sin(a0)

	return fmt.Sprintf(`<path fill="%s" d="M%.2f,%.2f A%.2f,%.2f 0 %d 1 %.2f,%.2f L%.2f,%.2f A%.2f,%.2f 0 %d 0 %.2f,%.2f Z"><title>%s</title></path>
`, fill, x0, y0, r1, r1, large, x1, y1, x2, y2, r0, r0, large, x3, y3, html.EscapeString(label))
}
