package chart

import "github.com/microcosm-cc/bluemonday"

// The browser library renders titles as markup, and the filter label comes
// straight from a client click.
var titlePolicy = bluemonday.StrictPolicy()

// Figure is a Plotly figure: the data traces plus the layout object. The
// schema is loose on the client side, so maps are used rather than a struct
// per attribute.
type Figure struct {
	Data   []map[string]any `json:"data"`
	Layout map[string]any   `json:"layout"`
}

func title(text string) map[string]any {
	return map[string]any{"text": titlePolicy.Sanitize(text)}
}

// Figure converts the scatter spec into a Plotly figure.
func (s ScatterSpec) Figure() Figure {
	data := make([]map[string]any, 0, len(s.Traces))
	for _, t := range s.Traces {
		n := len(t.Points)
		xs := make([]float64, n)
		ys := make([]float64, n)
		sizes := make([]float64, n)
		names := make([]string, n)
		pops := make([]int64, n)
		for i, p := range t.Points {
			xs[i], ys[i], sizes[i] = p.X, p.Y, p.Size
			names[i], pops[i] = p.Country, p.Pop
		}

		data = append(data, map[string]any{
			"type":        "scatter",
			"mode":        "markers",
			"name":        t.Name,
			"legendgroup": t.Name,
			"showlegend":  true,
			"x":           xs,
			"y":           ys,
			"hovertext":   names,
			"customdata":  pops,
			"hovertemplate": "<b>%{hovertext}</b><br>continent=" + t.Name +
				"<br>gdpPercap=%{x}<br>lifeExp=%{y}<br>pop=%{customdata}<extra></extra>",
			"marker": map[string]any{
				"color":    t.Color,
				"size":     sizes,
				"sizemode": "diameter",
				"opacity":  t.Opacity,
				"line":     map[string]any{"width": 0.5, "color": "DarkSlateGrey"},
			},
		})
	}

	xaxis := map[string]any{"title": title(s.XAxis.Title)}
	if s.XAxis.Log {
		xaxis["type"] = "log"
	}

	return Figure{
		Data: data,
		Layout: map[string]any{
			"title":      title(s.Title),
			"xaxis":      xaxis,
			"yaxis":      map[string]any{"title": title(s.YAxis.Title)},
			"legend":     map[string]any{"title": title("continent"), "itemsizing": "constant"},
			"transition": map[string]any{"duration": s.TransitionMs, "easing": "cubic-in-out"},
			"margin":     map[string]any{"t": 60, "l": 50, "r": 10, "b": 50},
		},
	}
}

// Figure converts the sunburst spec into a Plotly figure.
func (s SunburstSpec) Figure() Figure {
	n := len(s.Segments)
	ids := make([]string, n)
	labels := make([]string, n)
	parents := make([]string, n)
	values := make([]int64, n)
	colors := make([]float64, n)
	for i, seg := range s.Segments {
		ids[i], labels[i], parents[i] = seg.ID, seg.Label, seg.Parent
		values[i], colors[i] = seg.Value, seg.Color
	}

	return Figure{
		Data: []map[string]any{{
			"type":          "sunburst",
			"ids":           ids,
			"labels":        labels,
			"parents":       parents,
			"values":        values,
			"branchvalues":  "total",
			"hovertemplate": "<b>%{label}</b><br>pop=%{value}<br>lifeExp=%{color:.2f}<extra></extra>",
			"marker": map[string]any{
				"colors":     colors,
				"colorscale": Scales[s.ColorScale].Plotly(),
				"cmid":       s.Midpoint,
				"showscale":  true,
				"colorbar":   map[string]any{"title": title("lifeExp")},
			},
		}},
		Layout: map[string]any{
			"title":  title(s.Title),
			"margin": map[string]any{"t": 60, "l": 0, "r": 0, "b": 0},
		},
	}
}
