package chart

import (
	"strings"
	"testing"

	"github.com/san-kum/gapdash/internal/gapminder/gapmindertest"
)

func TestScatterOneTracePerContinent(t *testing.T) {
	ds := gapmindertest.Sample()
	spec := Scatter(ds, 1952, "", DefaultOptions())

	want := []string{"Asia", "Europe", "Africa", "Americas", "Oceania"}
	if len(spec.Traces) != len(want) {
		t.Fatalf("expected %d traces, got %d", len(want), len(spec.Traces))
	}
	for i, name := range want {
		if spec.Traces[i].Name != name {
			t.Errorf("trace %d: expected %s, got %s", i, name, spec.Traces[i].Name)
		}
	}

	if spec.Len() != len(ds.RecordsForYear(1952)) {
		t.Errorf("expected one point per record, got %d", spec.Len())
	}

	asia, _ := spec.Trace("Asia")
	if len(asia.Points) != 2 {
		t.Errorf("expected 2 Asian points, got %d", len(asia.Points))
	}
	if !spec.XAxis.Log {
		t.Error("expected log x axis")
	}
}

func TestScatterOpacity(t *testing.T) {
	ds := gapmindertest.Sample()

	tests := []struct {
		name      string
		continent string
		full      []string
	}{
		{"unfiltered", "", []string{"Asia", "Europe", "Africa", "Americas", "Oceania"}},
		{"europe", "Europe", []string{"Europe"}},
		{"stale label", "Atlantis", nil},
		{"country label", "China", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := Scatter(ds, 1957, tt.continent, DefaultOptions())
			full := make(map[string]bool)
			for _, n := range tt.full {
				full[n] = true
			}
			for _, tr := range spec.Traces {
				want := DefaultDimOpacity
				if full[tr.Name] {
					want = FullOpacity
				}
				if tr.Opacity != want {
					t.Errorf("trace %s: expected opacity %.1f, got %.1f", tr.Name, want, tr.Opacity)
				}
			}
		})
	}
}

func TestScatterCustomDimOpacity(t *testing.T) {
	opts := DefaultOptions()
	opts.DimOpacity = 0.25

	spec := Scatter(gapmindertest.Sample(), 1952, "Asia", opts)
	eu, _ := spec.Trace("Europe")
	if eu.Opacity != 0.25 {
		t.Errorf("expected 0.25, got %f", eu.Opacity)
	}
}

func TestScatterEmptyYear(t *testing.T) {
	spec := Scatter(gapmindertest.Sample(), 1800, "Asia", DefaultOptions())

	if len(spec.Traces) != 0 {
		t.Errorf("expected no traces, got %d", len(spec.Traces))
	}
	if spec.Traces == nil {
		t.Error("expected empty, non-nil traces")
	}
	fig := spec.Figure()
	if len(fig.Data) != 0 {
		t.Errorf("expected empty figure data, got %d", len(fig.Data))
	}
}

func TestScatterTitle(t *testing.T) {
	ds := gapmindertest.Sample()

	if got := Scatter(ds, 1952, "", DefaultOptions()).Title; got != "Year: 1952" {
		t.Errorf("unexpected title %q", got)
	}
	if got := Scatter(ds, 2007, "Asia", DefaultOptions()).Title; got != "Year: 2007 (selected: Asia)" {
		t.Errorf("unexpected title %q", got)
	}

	if got := Scatter(ds, 1952, "Cote d'Ivoire", DefaultOptions()).Title; got != "Year: 1952 (selected: Cote d'Ivoire)" {
		t.Errorf("expected label kept as plain text, got %q", got)
	}
}

func figureTitle(t *testing.T, f Figure) string {
	t.Helper()
	m, ok := f.Layout["title"].(map[string]any)
	if !ok {
		t.Fatalf("layout title has type %T", f.Layout["title"])
	}
	text, _ := m["text"].(string)
	return text
}

func TestScatterFigureTitleSanitized(t *testing.T) {
	ds := gapmindertest.Sample()

	got := figureTitle(t, Scatter(ds, 1952, "<b>Asia</b>", DefaultOptions()).Figure())
	if strings.Contains(got, "<") {
		t.Errorf("expected markup stripped, got %q", got)
	}
	if !strings.Contains(got, "Asia") {
		t.Errorf("expected label text kept, got %q", got)
	}

	got = figureTitle(t, Scatter(ds, 1952, "Cote d'Ivoire", DefaultOptions()).Figure())
	if !strings.Contains(got, "Cote d") || !strings.Contains(got, "Ivoire") {
		t.Errorf("expected label text kept, got %q", got)
	}
	if strings.Contains(got, "&amp;") {
		t.Errorf("label escaped twice: %q", got)
	}
}

func TestMarkerSize(t *testing.T) {
	const sizeMax = 55.0
	max := int64(1_000_000)

	prev := -1.0
	for _, pop := range []int64{0, 1, 1000, 250_000, 999_999, 1_000_000} {
		s := MarkerSize(pop, max, sizeMax)
		if s > sizeMax {
			t.Errorf("pop %d: size %f above cap", pop, s)
		}
		if s < prev {
			t.Errorf("pop %d: size %f not monotonic (prev %f)", pop, s, prev)
		}
		prev = s
	}

	if MarkerSize(max, max, sizeMax) != sizeMax {
		t.Error("largest population should get the cap")
	}
	if MarkerSize(250_000, max, sizeMax) != sizeMax/2 {
		t.Error("a quarter of the population should get half the diameter")
	}
	if MarkerSize(10, 0, sizeMax) != 0 {
		t.Error("expected 0 without a reference population")
	}
}

func TestScatterColorsStableAcrossYears(t *testing.T) {
	ds := gapmindertest.Sample()

	a, _ := Scatter(ds, 1952, "", DefaultOptions()).Trace("Oceania")
	b, _ := Scatter(ds, 2007, "", DefaultOptions()).Trace("Oceania")
	if a.Color != b.Color {
		t.Errorf("expected stable colour, got %s and %s", a.Color, b.Color)
	}
}

func TestScatterFigure(t *testing.T) {
	spec := Scatter(gapmindertest.Sample(), 1952, "Europe", DefaultOptions())
	fig := spec.Figure()

	if len(fig.Data) != len(spec.Traces) {
		t.Fatalf("expected %d traces, got %d", len(spec.Traces), len(fig.Data))
	}
	xaxis := fig.Layout["xaxis"].(map[string]any)
	if xaxis["type"] != "log" {
		t.Errorf("expected log axis, got %v", xaxis["type"])
	}
	tr := fig.Layout["transition"].(map[string]any)
	if tr["duration"] != DefaultTransitionMs {
		t.Errorf("expected transition %d, got %v", DefaultTransitionMs, tr["duration"])
	}

	for _, d := range fig.Data {
		marker := d["marker"].(map[string]any)
		want := DefaultDimOpacity
		if d["name"] == "Europe" {
			want = FullOpacity
		}
		if marker["opacity"] != want {
			t.Errorf("trace %v: expected opacity %v, got %v", d["name"], want, marker["opacity"])
		}
	}
}
