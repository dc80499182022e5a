package chart

import (
	"github.com/san-kum/gapdash/internal/gapminder"
	"github.com/san-kum/gapdash/internal/stats"
)

// TrendPoint is the population-weighted life expectancy of one year.
type TrendPoint struct {
	Year    int     `json:"year"`
	LifeExp float64 `json:"lifeExp"`
	Pop     int64   `json:"pop"`
}

// Trend computes the weighted life expectancy for every year, optionally
// restricted to one continent. Years with no matching records are left out.
func Trend(ds *gapminder.Dataset, continent string) []TrendPoint {
	var acc stats.Accumulator
	points := make([]TrendPoint, 0, len(ds.DistinctYears()))
	for _, year := range ds.DistinctYears() {
		acc.Reset()
		var pop int64
		for _, r := range ds.RecordsForYear(year) {
			if continent != "" && r.Continent != continent {
				continue
			}
			acc.Observe(r.LifeExp, float64(r.Pop))
			pop += r.Pop
		}
		if acc.Count() == 0 {
			continue
		}
		points = append(points, TrendPoint{Year: year, LifeExp: acc.Value(), Pop: pop})
	}
	return points
}

// TrendValues returns just the life expectancies, in year order.
func TrendValues(points []TrendPoint) []float64 {
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.LifeExp
	}
	return values
}
