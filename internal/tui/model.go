package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/gapdash/internal/chart"
	"github.com/san-kum/gapdash/internal/dashboard"
	"github.com/san-kum/gapdash/internal/gapminder"
	"github.com/san-kum/gapdash/internal/viz"
)

// Model drives one dashboard controller from the keyboard. Enter on a ring
// row is the terminal equivalent of clicking a sunburst segment.
type Model struct {
	ctrl   *dashboard.Controller
	ds     *gapminder.Dataset
	view   dashboard.View
	cursor int
	theme  viz.Theme
	styles viz.Styles
	trends map[string][]float64
	err    error

	width  int
	height int
}

func New(ds *gapminder.Dataset, ctrl *dashboard.Controller, theme viz.Theme) Model {
	return Model{
		ctrl:   ctrl,
		ds:     ds,
		view:   ctrl.View(),
		theme:  theme,
		styles: viz.NewStyles(theme),
		trends: continentTrends(ds),
		width:  100,
		height: 32,
	}
}

// continentTrends is the weighted life expectancy per year of each
// continent. The dataset never changes, so it is computed once.
func continentTrends(ds *gapminder.Dataset) map[string][]float64 {
	out := make(map[string][]float64, len(ds.Continents()))
	for _, c := range ds.Continents() {
		out[c] = chart.TrendValues(chart.Trend(ds, c))
	}
	return out
}

func (m Model) Init() tea.Cmd { return nil }

// Selection returns the controller state as last rendered.
func (m Model) Selection() dashboard.Selection { return m.view.Selection }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "left", "h":
		return m.stepYear(-1), nil
	case "right", "l":
		return m.stepYear(1), nil
	case "home":
		return m.dispatch(dashboard.YearChanged{Year: m.view.Years[0]}), nil
	case "end":
		return m.dispatch(dashboard.YearChanged{Year: m.view.Years[len(m.view.Years)-1]}), nil
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(viz.RingLabels(m.view.Sunburst))-1 {
			m.cursor++
		}
	case "enter", " ":
		labels := viz.RingLabels(m.view.Sunburst)
		if m.cursor < len(labels) {
			return m.dispatch(dashboard.SegmentClicked{Label: labels[m.cursor]}), nil
		}
	case "esc":
		if m.view.Selection.Filtered() {
			return m.dispatch(dashboard.SegmentClicked{Label: m.view.Selection.Continent}), nil
		}
	case "t":
		m.theme = viz.NextTheme(m.theme)
		m.styles = viz.NewStyles(m.theme)
	}
	return m, nil
}

func (m Model) stepYear(delta int) Model {
	years := m.view.Years
	i := 0
	for j, y := range years {
		if y == m.view.Selection.Year {
			i = j
		}
	}
	i += delta
	if i < 0 || i >= len(years) {
		return m
	}
	return m.dispatch(dashboard.YearChanged{Year: years[i]})
}

func (m Model) dispatch(ev dashboard.Event) Model {
	v, err := m.ctrl.Dispatch(ev)
	m.err = err
	if err == nil {
		m.view = v
	}
	if n := len(viz.RingLabels(m.view.Sunburst)); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
	return m
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("gapminder  "+m.view.Scatter.Title) + "\n")
	b.WriteString(m.timeline() + "\n\n")

	plotW := max(m.width-44, 30)
	plotH := max(m.height-18, 8)
	scatter := viz.Scatter(m.view.Scatter, plotW, plotH, m.theme) +
		viz.Legend(m.view.Scatter, m.theme)
	ring := m.styles.Text.Render(m.view.Sunburst.Title) + "\n\n" +
		viz.Ring(m.view.Sunburst, m.trends, m.view.Selection.Continent, m.cursor, m.styles, 10)

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.styles.Panel.Render(scatter), " ", m.styles.Panel.Render(ring)) + "\n")
	b.WriteString(m.trend(plotW) + "\n")

	if m.err != nil {
		b.WriteString(m.styles.Error.Render(m.err.Error()) + "\n")
	}
	b.WriteString(m.styles.KeyHint.Render("←→ year  ↑↓ continent  enter select  esc clear  t theme  q quit") + "\n")
	return b.String()
}

// timeline renders the year slider with the current year highlighted.
func (m Model) timeline() string {
	parts := make([]string, len(m.view.Years))
	for i, y := range m.view.Years {
		if y == m.view.Selection.Year {
			parts[i] = m.styles.Selected.Render(fmt.Sprintf("[%d]", y))
		} else {
			parts[i] = m.styles.Muted.Render(fmt.Sprintf(" %d ", y))
		}
	}
	return strings.Join(parts, "")
}

// trend plots the weighted life expectancy over all years for the current
// filter.
func (m Model) trend(width int) string {
	points := chart.Trend(m.ds, m.view.Selection.Continent)
	if len(points) < 2 {
		return m.styles.Muted.Render("trend: not enough years")
	}
	caption := "weighted life expectancy"
	if m.view.Selection.Filtered() {
		caption += " (" + m.view.Selection.Continent + ")"
	}
	return asciigraph.Plot(chart.TrendValues(points),
		asciigraph.Height(5),
		asciigraph.Width(width),
		asciigraph.Precision(1),
		asciigraph.Caption(caption),
	)
}

func Run(ds *gapminder.Dataset, ctrl *dashboard.Controller, theme viz.Theme) error {
	p := tea.NewProgram(New(ds, ctrl, theme), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
