// Package chart turns a dataset and a selection into chart specifications.
//
// The two generators are pure functions over an immutable dataset:
//
//   - [Scatter]: GDP per capita (log x) against life expectancy, one trace
//     per continent, bubble area proportional to population
//   - [Sunburst]: continent ring around country segments, sized by
//     population and coloured by life expectancy on a diverging scale
//     centred at the population-weighted mean
//
// Each spec can be converted into a Plotly figure with Figure, which is what
// the browser renders. The exporters and the terminal dashboard read the
// specs directly.
package chart
