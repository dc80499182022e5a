package chart

const (
	DefaultSizeMax      = 55.0
	DefaultDimOpacity   = 0.1
	DefaultTransitionMs = 500
	DefaultColorScale   = "RdBu"

	FullOpacity = 1.0
)

// Options tune rendering. The zero value is not useful; start from
// DefaultOptions.
type Options struct {
	// SizeMax is the largest rendered marker diameter, in pixels.
	SizeMax float64
	// DimOpacity is applied to every trace that does not match the filter.
	DimOpacity float64
	// TransitionMs is the animation length between two figures.
	TransitionMs int
	// ColorScale names the diverging scale of the sunburst.
	ColorScale string
}

// DefaultOptions returns the chart settings used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		SizeMax:      DefaultSizeMax,
		DimOpacity:   DefaultDimOpacity,
		TransitionMs: DefaultTransitionMs,
		ColorScale:   DefaultColorScale,
	}
}

func (o Options) withDefaults() Options {
	if o.SizeMax <= 0 {
		o.SizeMax = DefaultSizeMax
	}
	if o.DimOpacity < 0 || o.DimOpacity > 1 {
		o.DimOpacity = DefaultDimOpacity
	}
	if o.TransitionMs < 0 {
		o.TransitionMs = DefaultTransitionMs
	}
	if _, ok := Scales[o.ColorScale]; !ok {
		o.ColorScale = DefaultColorScale
	}
	return o
}
