package gapminder

import "sort"

// Record is one country-year observation.
type Record struct {
	Country   string  `json:"country"`
	Continent string  `json:"continent"`
	Year      int     `json:"year"`
	LifeExp   float64 `json:"lifeExp"`
	Pop       int64   `json:"pop"`
	GdpPercap float64 `json:"gdpPercap"`
}

// Dataset is the immutable, in-memory table. All methods are safe for
// concurrent use because nothing writes to it after construction.
type Dataset struct {
	records    []Record
	byYear     map[int][]Record
	years      []int
	continents []string
}

// New indexes records into a Dataset. The slice is copied.
func New(records []Record) *Dataset {
	ds := &Dataset{
		records: make([]Record, len(records)),
		byYear:  make(map[int][]Record),
	}
	copy(ds.records, records)

	seenContinent := make(map[string]bool)
	for _, r := range ds.records {
		if _, ok := ds.byYear[r.Year]; !ok {
			ds.years = append(ds.years, r.Year)
		}
		ds.byYear[r.Year] = append(ds.byYear[r.Year], r)
		if !seenContinent[r.Continent] {
			seenContinent[r.Continent] = true
			ds.continents = append(ds.continents, r.Continent)
		}
	}
	sort.Ints(ds.years)
	return ds
}

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.records) }

// DistinctYears returns the years present, ascending and deduplicated.
func (d *Dataset) DistinctYears() []int {
	out := make([]int, len(d.years))
	copy(out, d.years)
	return out
}

// MinYear returns the earliest year, or 0 for an empty dataset.
func (d *Dataset) MinYear() int {
	if len(d.years) == 0 {
		return 0
	}
	return d.years[0]
}

// HasYear reports whether year has at least one record.
func (d *Dataset) HasYear(year int) bool {
	_, ok := d.byYear[year]
	return ok
}

// RecordsForYear returns the records of one year in load order. Unknown
// years yield an empty slice.
func (d *Dataset) RecordsForYear(year int) []Record {
	rs := d.byYear[year]
	out := make([]Record, len(rs))
	copy(out, rs)
	return out
}

// Continents returns the distinct continents in order of first appearance.
// The order is stable for the lifetime of the dataset, which makes it a
// good key for categorical colours.
func (d *Dataset) Continents() []string {
	out := make([]string, len(d.continents))
	copy(out, d.continents)
	return out
}

// ContinentIndex returns the position of continent in Continents, or -1.
func (d *Dataset) ContinentIndex(continent string) int {
	for i, c := range d.continents {
		if c == continent {
			return i
		}
	}
	return -1
}
