package dashboard

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/san-kum/gapdash/internal/chart"
	"github.com/san-kum/gapdash/internal/gapminder"
	"github.com/san-kum/gapdash/internal/metrics"
)

// Selection is the session-scoped UI state. An empty Continent means no
// filter and is encoded as JSON null.
type Selection struct {
	Year      int
	Continent string
}

func (s Selection) Filtered() bool { return s.Continent != "" }

func (s Selection) MarshalJSON() ([]byte, error) {
	var continent *string
	if s.Continent != "" {
		continent = &s.Continent
	}
	return json.Marshal(struct {
		Year      int     `json:"year"`
		Continent *string `json:"continent"`
	}{s.Year, continent})
}

func (s Selection) String() string {
	if s.Continent == "" {
		return fmt.Sprintf("%d/unfiltered", s.Year)
	}
	return fmt.Sprintf("%d/%s", s.Year, s.Continent)
}

// View is everything a client needs to redraw after an event.
type View struct {
	Selection Selection          `json:"selection"`
	Years     []int              `json:"years"`
	Scatter   chart.ScatterSpec  `json:"-"`
	Sunburst  chart.SunburstSpec `json:"-"`
}

// Controller is the single dispatcher for one session. It is safe for
// concurrent use; events are applied one at a time.
type Controller struct {
	mu     sync.Mutex
	ds     *gapminder.Dataset
	opts   chart.Options
	logger *slog.Logger
	sel    Selection
}

type Option func(*Controller)

func WithChartOptions(opts chart.Options) Option {
	return func(c *Controller) { c.opts = opts }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithSelection starts the controller somewhere other than the earliest
// year. An unknown year is ignored.
func WithSelection(sel Selection) Option {
	return func(c *Controller) {
		if c.ds.HasYear(sel.Year) {
			c.sel.Year = sel.Year
		}
		c.sel.Continent = sel.Continent
	}
}

// New creates a controller over a shared, read-only dataset. The initial
// selection is the earliest year without a filter.
func New(ds *gapminder.Dataset, opts ...Option) *Controller {
	c := &Controller{
		ds:     ds,
		opts:   chart.DefaultOptions(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		sel:    Selection{Year: ds.MinYear()},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Selection returns the current state.
func (c *Controller) Selection() Selection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sel
}

// View recomputes both charts for the current state.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view()
}

// Dispatch applies one event and returns the recomputed view. An unknown
// year is rejected with ErrUnknownYear and leaves the state unchanged; a
// malformed click is a silent no-op.
func (c *Controller) Dispatch(ev Event) (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch e := ev.(type) {
	case YearChanged:
		if !c.ds.HasYear(e.Year) {
			metrics.Event(e.Kind(), metrics.OutcomeRejected)
			return c.view(), fmt.Errorf("%w: %d", gapminder.ErrUnknownYear, e.Year)
		}
		c.sel.Year = e.Year
		metrics.Event(e.Kind(), metrics.OutcomeApplied)
		c.logger.Debug("year changed", "selection", c.sel.String())

	case SegmentClicked:
		c.click(e.Label)

	case ClickPayload:
		label, err := ParseClick(e)
		if err != nil {
			metrics.Event(e.Kind(), metrics.OutcomeIgnored)
			c.logger.Debug("click ignored", "error", err)
			break
		}
		c.click(label)

	default:
		return c.view(), fmt.Errorf("dashboard: unsupported event %T", ev)
	}

	return c.view(), nil
}

func (c *Controller) click(label string) {
	if label == "" {
		metrics.Event("click", metrics.OutcomeIgnored)
		c.logger.Debug("click ignored", "error", gapminder.ErrMalformedClick)
		return
	}
	c.sel.Continent = Toggle(c.sel.Continent, label)
	metrics.Event("click", metrics.OutcomeApplied)
	c.logger.Debug("filter toggled", "label", label, "selection", c.sel.String())
}

func (c *Controller) view() View {
	start := time.Now()
	scatter := chart.Scatter(c.ds, c.sel.Year, c.sel.Continent, c.opts)
	metrics.Render("scatter", start)

	start = time.Now()
	sunburst := chart.Sunburst(c.ds, c.sel.Year, c.opts)
	metrics.Render("sunburst", start)

	return View{
		Selection: c.sel,
		Years:     c.ds.DistinctYears(),
		Scatter:   scatter,
		Sunburst:  sunburst,
	}
}
