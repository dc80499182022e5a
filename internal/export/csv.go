package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/san-kum/gapdash/internal/chart"
	"github.com/san-kum/gapdash/internal/gapminder"
)

var recordHeader = []string{"country", "continent", "year", "lifeExp", "pop", "gdpPercap"}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RecordsCSV writes records with the same column names the dataset is
// loaded from, so the output parses back through gapminder.Parse.
func RecordsCSV(w io.Writer, records []gapminder.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(recordHeader); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.Country,
			r.Continent,
			strconv.Itoa(r.Year),
			formatFloat(r.LifeExp),
			strconv.FormatInt(r.Pop, 10),
			formatFloat(r.GdpPercap),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ScatterCSV flattens the traces back into records.
func ScatterCSV(w io.Writer, spec chart.ScatterSpec) error {
	records := make([]gapminder.Record, 0, spec.Len())
	for _, tr := range spec.Traces {
		for _, p := range tr.Points {
			records = append(records, gapminder.Record{
				Country:   p.Country,
				Continent: tr.Name,
				Year:      spec.Year,
				LifeExp:   p.Y,
				Pop:       p.Pop,
				GdpPercap: p.X,
			})
		}
	}
	return RecordsCSV(w, records)
}

// SunburstCSV writes one row per segment; color is the weighted life
// expectancy the segment is shaded by.
func SunburstCSV(w io.Writer, spec chart.SunburstSpec) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "label", "parent", "pop", "lifeExp"}); err != nil {
		return err
	}
	for _, s := range spec.Segments {
		row := []string{s.ID, s.Label, s.Parent, strconv.FormatInt(s.Value, 10), formatFloat(s.Color)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
