// Package stats holds the small aggregations the charts need.
package stats

// Mean returns the arithmetic mean of values, or 0 when empty.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// WeightedMean returns Σ(v·w)/Σw. When the weights sum to zero it falls
// back to the unweighted mean so a degenerate year still gets a centre.
// values and weights must have the same length; extra entries are ignored.
func WeightedMean(values, weights []float64) float64 {
	n := len(values)
	if len(weights) < n {
		n = len(weights)
	}
	if n == 0 {
		return 0
	}

	var num, den float64
	for i := 0; i < n; i++ {
		num += values[i] * weights[i]
		den += weights[i]
	}
	if den == 0 {
		return Mean(values[:n])
	}
	return num / den
}

// Accumulator builds a weighted mean incrementally.
type Accumulator struct {
	num, den float64
	sum      float64
	count    int
}

// Observe adds one value with its weight.
func (a *Accumulator) Observe(value, weight float64) {
	a.num += value * weight
	a.den += weight
	a.sum += value
	a.count++
}

// Value returns the weighted mean seen so far, with the same zero-weight
// fallback as WeightedMean.
func (a *Accumulator) Value() float64 {
	if a.count == 0 {
		return 0
	}
	if a.den == 0 {
		return a.sum / float64(a.count)
	}
	return a.num / a.den
}

// Weight returns the total weight observed.
func (a *Accumulator) Weight() float64 { return a.den }

// Count returns the number of observations.
func (a *Accumulator) Count() int { return a.count }

func (a *Accumulator) Reset() {
	*a = Accumulator{}
}
