// Package viz draws dashboard views for the terminal: a Braille bubble
// chart, the continent ring of the sunburst, and the lipgloss themes both
// are styled with.
package viz
