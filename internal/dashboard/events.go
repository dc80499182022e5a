package dashboard

import (
	"encoding/json"
	"fmt"

	"github.com/san-kum/gapdash/internal/gapminder"
)

// Event is an input the controller reacts to.
type Event interface {
	Kind() string
}

// YearChanged is emitted by the year slider.
type YearChanged struct {
	Year int
}

func (YearChanged) Kind() string { return "year" }

// SegmentClicked carries the label of a clicked sunburst segment. Continent
// and country labels are treated alike. An empty label is ignored.
type SegmentClicked struct {
	Label string
}

func (SegmentClicked) Kind() string { return "click" }

// ClickPayload is a raw browser click event as produced by the charting
// library: {"points": [{"label": "Asia", ...}]}.
type ClickPayload []byte

func (ClickPayload) Kind() string { return "click" }

type clickData struct {
	Points []map[string]json.RawMessage `json:"points"`
}

// ParseClick extracts the label of the first clicked point. Anything
// without a non-empty string label is ErrMalformedClick.
func ParseClick(payload []byte) (string, error) {
	if len(payload) == 0 {
		return "", fmt.Errorf("%w: empty payload", gapminder.ErrMalformedClick)
	}

	var data clickData
	if err := json.Unmarshal(payload, &data); err != nil {
		return "", fmt.Errorf("%w: %v", gapminder.ErrMalformedClick, err)
	}
	if len(data.Points) == 0 {
		return "", fmt.Errorf("%w: no points", gapminder.ErrMalformedClick)
	}

	raw, ok := data.Points[0]["label"]
	if !ok {
		return "", fmt.Errorf("%w: point has no label", gapminder.ErrMalformedClick)
	}
	var label string
	if err := json.Unmarshal(raw, &label); err != nil {
		return "", fmt.Errorf("%w: label is not a string", gapminder.ErrMalformedClick)
	}
	if label == "" {
		return "", fmt.Errorf("%w: empty label", gapminder.ErrMalformedClick)
	}
	return label, nil
}

// Toggle applies the click rule to the current filter: the same label clears
// it, anything else replaces it.
func Toggle(current, label string) string {
	if label == current {
		return ""
	}
	return label
}
