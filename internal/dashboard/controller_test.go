package dashboard_test

import (
	"encoding/json"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gapdash/internal/chart"
	"github.com/san-kum/gapdash/internal/dashboard"
	"github.com/san-kum/gapdash/internal/gapminder"
	"github.com/san-kum/gapdash/internal/gapminder/gapmindertest"
)

func opacities(spec chart.ScatterSpec) map[string]float64 {
	out := make(map[string]float64)
	for _, t := range spec.Traces {
		out[t.Name] = t.Opacity
	}
	return out
}

var _ = Describe("Controller", func() {
	var (
		ds   *gapminder.Dataset
		ctrl *dashboard.Controller
	)

	BeforeEach(func() {
		ds = gapmindertest.Sample()
		ctrl = dashboard.New(ds)
	})

	click := func(label string) dashboard.View {
		view, err := ctrl.Dispatch(dashboard.SegmentClicked{Label: label})
		Expect(err).NotTo(HaveOccurred())
		return view
	}

	Describe("initial state", func() {
		It("starts at the earliest year without a filter", func() {
			sel := ctrl.Selection()
			Expect(sel.Year).To(Equal(1952))
			Expect(sel.Filtered()).To(BeFalse())
		})

		It("renders every continent at full opacity", func() {
			for name, op := range opacities(ctrl.View().Scatter) {
				Expect(op).To(Equal(chart.FullOpacity), name)
			}
		})

		It("lists the dataset years", func() {
			Expect(ctrl.View().Years).To(Equal(gapmindertest.Years))
		})
	})

	Describe("clicking segments", func() {
		It("filters on the first click and clears on the second", func() {
			view := click("Asia")
			Expect(view.Selection.Continent).To(Equal("Asia"))

			view = click("Asia")
			Expect(view.Selection.Filtered()).To(BeFalse())
		})

		It("replaces a filter with a different label", func() {
			click("Asia")
			click("Europe")
			view := click("Asia")
			Expect(view.Selection.Continent).To(Equal("Asia"))
		})

		It("accepts country labels verbatim", func() {
			view := click("China")
			Expect(view.Selection.Continent).To(Equal("China"))
			Expect(view.Scatter.Title).To(ContainSubstring("(selected: China)"))
			for name, op := range opacities(view.Scatter) {
				Expect(op).To(Equal(chart.DefaultDimOpacity), name)
			}
		})

		It("keeps apostrophes in the title as plain text", func() {
			view := click("Cote d'Ivoire")
			Expect(view.Scatter.Title).To(HaveSuffix("(selected: Cote d'Ivoire)"))
		})

		It("ignores a click without a label", func() {
			click("Europe")
			view := click("")
			Expect(view.Selection.Continent).To(Equal("Europe"))
		})

		It("dims every group except the selected one", func() {
			view := click("Europe")
			ops := opacities(view.Scatter)
			Expect(ops).To(HaveKeyWithValue("Europe", chart.FullOpacity))
			for name, op := range ops {
				if name != "Europe" {
					Expect(op).To(Equal(chart.DefaultDimOpacity), name)
				}
			}
		})
	})

	Describe("raw click payloads", func() {
		DescribeTable("malformed payloads leave the state unchanged",
			func(payload string) {
				click("Africa")
				view, err := ctrl.Dispatch(dashboard.ClickPayload(payload))
				Expect(err).NotTo(HaveOccurred())
				Expect(view.Selection.Continent).To(Equal("Africa"))
			},
			Entry("empty", ""),
			Entry("not json", "{"),
			Entry("no points", `{}`),
			Entry("empty points", `{"points": []}`),
			Entry("point without label", `{"points": [{"value": 3}]}`),
			Entry("numeric label", `{"points": [{"label": 12}]}`),
			Entry("empty label", `{"points": [{"label": ""}]}`),
		)

		It("toggles on a well-formed payload", func() {
			payload := `{"points": [{"label": "Oceania", "parent": "", "value": 8691212}]}`
			view, err := ctrl.Dispatch(dashboard.ClickPayload(payload))
			Expect(err).NotTo(HaveOccurred())
			Expect(view.Selection.Continent).To(Equal("Oceania"))

			view, _ = ctrl.Dispatch(dashboard.ClickPayload(payload))
			Expect(view.Selection.Filtered()).To(BeFalse())
		})
	})

	Describe("changing the year", func() {
		It("keeps the continent filter", func() {
			click("Asia")
			view, err := ctrl.Dispatch(dashboard.YearChanged{Year: 2007})
			Expect(err).NotTo(HaveOccurred())
			Expect(view.Selection).To(Equal(dashboard.Selection{Year: 2007, Continent: "Asia"}))
			Expect(view.Scatter.Title).To(ContainSubstring("2007"))
			Expect(view.Sunburst.Year).To(Equal(2007))
		})

		It("rejects a year outside the dataset", func() {
			_, err := ctrl.Dispatch(dashboard.YearChanged{Year: 1960})
			Expect(errors.Is(err, gapminder.ErrUnknownYear)).To(BeTrue())
			Expect(ctrl.Selection().Year).To(Equal(1952))
		})

		It("keeps a filter that matches nothing in the new year", func() {
			sparse := gapminder.New([]gapminder.Record{
				{Country: "X", Continent: "Asia", Year: 1952, LifeExp: 40, Pop: 10, GdpPercap: 500},
				{Country: "Y", Continent: "Europe", Year: 1957, LifeExp: 60, Pop: 10, GdpPercap: 5000},
			})
			ctrl = dashboard.New(sparse)
			click("Asia")

			view, err := ctrl.Dispatch(dashboard.YearChanged{Year: 1957})
			Expect(err).NotTo(HaveOccurred())
			Expect(view.Selection.Continent).To(Equal("Asia"))
			Expect(opacities(view.Scatter)).To(HaveKeyWithValue("Europe", chart.DefaultDimOpacity))
		})
	})

	Describe("end to end", func() {
		It("highlights Asia and restores full opacity on the second click", func() {
			Expect(ctrl.Selection()).To(Equal(dashboard.Selection{Year: 1952}))

			view := click("Asia")
			for name, op := range opacities(view.Scatter) {
				if name == "Asia" {
					Expect(op).To(Equal(1.0))
				} else {
					Expect(op).To(Equal(0.1), name)
				}
			}

			view = click("Asia")
			Expect(view.Selection.Filtered()).To(BeFalse())
			for name, op := range opacities(view.Scatter) {
				Expect(op).To(Equal(1.0), name)
			}
		})
	})

	Describe("Selection JSON", func() {
		It("encodes an empty continent as null", func() {
			b, err := json.Marshal(dashboard.Selection{Year: 1952})
			Expect(err).NotTo(HaveOccurred())
			Expect(b).To(MatchJSON(`{"year": 1952, "continent": null}`))

			b, _ = json.Marshal(dashboard.Selection{Year: 1957, Continent: "Asia"})
			Expect(b).To(MatchJSON(`{"year": 1957, "continent": "Asia"}`))
		})
	})

	Describe("options", func() {
		It("honours a custom dim opacity and start selection", func() {
			opts := chart.DefaultOptions()
			opts.DimOpacity = 0.3
			ctrl = dashboard.New(ds,
				dashboard.WithChartOptions(opts),
				dashboard.WithSelection(dashboard.Selection{Year: 2007, Continent: "Europe"}),
			)
			view := ctrl.View()
			Expect(view.Selection.Year).To(Equal(2007))
			Expect(opacities(view.Scatter)).To(HaveKeyWithValue("Asia", 0.3))
		})
	})
})
