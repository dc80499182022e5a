// Package export renders dashboard views to files: Plotly JSON, SVG, PNG and
// CSV, and keeps snapshot directories of saved views.
package export
