package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/san-kum/gapdash/internal/dashboard"
)

const (
	DefaultWidth  = 960
	DefaultHeight = 600
)

var ErrUnsupported = errors.New("unsupported export")

// Renderer writes one chart of a view in one format.
type Renderer func(w io.Writer, v dashboard.View) error

type entry struct {
	render      Renderer
	contentType string
}

// Registry maps chart/format pairs to renderers.
type Registry struct {
	renderers map[string]entry
}

func key(chartName, format string) string {
	return chartName + "." + format
}

func NewRegistry() *Registry {
	r := &Registry{renderers: make(map[string]entry)}

	r.Register("scatter", "json", "application/json", func(w io.Writer, v dashboard.View) error {
		return writeJSON(w, v.Scatter.Figure())
	})
	r.Register("scatter", "svg", "image/svg+xml", func(w io.Writer, v dashboard.View) error {
		_, err := io.WriteString(w, ScatterSVG(v.Scatter, DefaultWidth, DefaultHeight))
		return err
	})
	r.Register("scatter", "png", "image/png", func(w io.Writer, v dashboard.View) error {
		return ScatterPNG(w, v.Scatter, DefaultWidth, DefaultHeight)
	})
	r.Register("scatter", "csv", "text/csv", func(w io.Writer, v dashboard.View) error {
		return ScatterCSV(w, v.Scatter)
	})

	r.Register("sunburst", "json", "application/json", func(w io.Writer, v dashboard.View) error {
		return writeJSON(w, v.Sunburst.Figure())
	})
	r.Register("sunburst", "svg", "image/svg+xml", func(w io.Writer, v dashboard.View) error {
		_, err := io.WriteString(w, SunburstSVG(v.Sunburst, DefaultHeight))
		return err
	})
	r.Register("sunburst", "csv", "text/csv", func(w io.Writer, v dashboard.View) error {
		return SunburstCSV(w, v.Sunburst)
	})

	return r
}

// Register adds or replaces a renderer.
func (r *Registry) Register(chartName, format, contentType string, fn Renderer) {
	r.renderers[key(chartName, format)] = entry{render: fn, contentType: contentType}
}

// Get returns the renderer and its content type.
func (r *Registry) Get(chartName, format string) (Renderer, string, error) {
	e, ok := r.renderers[key(chartName, format)]
	if !ok {
		return nil, "", fmt.Errorf("%w: %s.%s", ErrUnsupported, chartName, format)
	}
	return e.render, e.contentType, nil
}

// List returns the registered "chart.format" names, sorted.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.renderers))
	for name := range r.renderers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
