// Package gapminder loads and serves the Gapminder five-year dataset.
//
// A [Dataset] is built once at startup by [Load] or [Parse] and is never
// mutated afterwards, so a single value can be shared by every session:
//
//	ds, err := gapminder.Load(ctx, gapminder.DefaultSource)
//	if errors.Is(err, gapminder.ErrDataUnavailable) {
//		// refuse to serve
//	}
//	for _, year := range ds.DistinctYears() {
//		records := ds.RecordsForYear(year)
//		...
//	}
package gapminder
