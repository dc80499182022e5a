package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/gapdash/internal/chart"
)

// RingLabels returns the continent labels of the sunburst's inner ring in
// display order.
func RingLabels(spec chart.SunburstSpec) []string {
	conts := spec.Continents()
	labels := make([]string, len(conts))
	for i, s := range conts {
		labels[i] = s.Label
	}
	return labels
}

// Ring lists the inner ring of the sunburst: population share as a bar and
// the weighted life expectancy as a swatch in the diverging scale, followed
// by the continent's life expectancy over the years when trends has it. The
// cursor row and the selected continent are highlighted.
func Ring(spec chart.SunburstSpec, trends map[string][]float64, selected string, cursor int, styles Styles, barWidth int) string {
	conts := spec.Continents()
	if len(conts) == 0 {
		return styles.Muted.Render("no data") + "\n"
	}

	var total int64
	nameW := 0
	for _, s := range conts {
		total += s.Value
		nameW = max(nameW, len(s.Label))
	}

	var b strings.Builder
	for i, s := range conts {
		share := 0.0
		if total > 0 {
			share = float64(s.Value) / float64(total)
		}

		marker := "  "
		if i == cursor {
			marker = styles.Cursor.Render("▸ ")
		}
		name := fmt.Sprintf("%-*s", nameW, s.Label)
		if s.Label == selected {
			name = styles.Selected.Render(name)
		} else {
			name = styles.Text.Render(name)
		}
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(spec.Color(s.Color).Hex())).Render("●")

		b.WriteString(fmt.Sprintf("%s%s %s %s %5.1f%%  %s %.1f",
			marker, swatch, name,
			styles.Muted.Render(ShareBar(share, barWidth)), share*100,
			styles.Muted.Render("life"), s.Color))
		if spark := Sparkline(trends[s.Label]); spark != "" {
			b.WriteString("  " + styles.Cursor.Render(spark))
		}
		b.WriteByte('\n')
	}
	b.WriteString(styles.Muted.Render(fmt.Sprintf("midpoint %.1f", spec.Midpoint)) + "\n")
	return b.String()
}
