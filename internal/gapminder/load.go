package gapminder

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultSource is the upstream five-year extract published with plotly's datasets.
const DefaultSource = "https://raw.githubusercontent.com/plotly/datasets/master/gapminderDataFiveYear.csv"

// DefaultTimeout bounds the startup fetch.
const DefaultTimeout = 30 * time.Second

var requiredColumns = []string{"country", "year", "pop", "continent", "lifeExp", "gdpPercap"}

type loadOptions struct {
	client  *http.Client
	timeout time.Duration
}

// LoadOption configures Load.
type LoadOption func(*loadOptions)

// WithHTTPClient sets the client used for http(s) sources.
func WithHTTPClient(c *http.Client) LoadOption {
	return func(o *loadOptions) { o.client = c }
}

// WithTimeout bounds the whole fetch. Zero or negative disables the bound.
func WithTimeout(d time.Duration) LoadOption {
	return func(o *loadOptions) { o.timeout = d }
}

// Load reads the dataset from an http(s) URL or a local file path. Every
// failure matches ErrDataUnavailable; there is no partial result.
func Load(ctx context.Context, source string, opts ...LoadOption) (*Dataset, error) {
	o := loadOptions{client: http.DefaultClient, timeout: DefaultTimeout}
	for _, fn := range opts {
		fn(&o)
	}

	if source == "" {
		return nil, &LoadError{Op: "resolve source", Err: errors.New("empty source")}
	}

	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	rc, err := open(ctx, source, o.client)
	if err != nil {
		return nil, &LoadError{Source: source, Op: "fetch", Err: err}
	}
	defer rc.Close()

	ds, err := Parse(rc)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.Source = source
			return nil, le
		}
		return nil, &LoadError{Source: source, Op: "parse", Err: err}
	}
	return ds, nil
}

func open(ctx context.Context, source string, client *http.Client) (io.ReadCloser, error) {
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		return os.Open(source)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return resp.Body, nil
}

// Parse reads a Gapminder CSV with a header row. Columns are matched by name.
func Parse(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, &LoadError{Op: "parse header", Err: errors.New("empty input")}
		}
		return nil, &LoadError{Op: "parse header", Err: err}
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, &LoadError{Op: "parse header", Err: fmt.Errorf("missing column %q", col)}
		}
	}

	var records []Record
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, &LoadError{Op: fmt.Sprintf("parse line %d", line), Err: err}
		}
		if len(row) == 1 && strings.TrimSpace(row[0]) == "" {
			continue
		}
		rec, err := parseRow(row, idx)
		if err != nil {
			return nil, &LoadError{Op: fmt.Sprintf("parse line %d", line), Err: err}
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, &LoadError{Op: "parse", Err: errors.New("no records")}
	}
	return New(records), nil
}

func parseRow(row []string, idx map[string]int) (Record, error) {
	field := func(name string) (string, error) {
		i := idx[name]
		if i >= len(row) {
			return "", fmt.Errorf("missing field %q", name)
		}
		return strings.TrimSpace(row[i]), nil
	}

	var rec Record
	var err error
	var s string

	if rec.Country, err = field("country"); err != nil {
		return rec, err
	}
	if rec.Continent, err = field("continent"); err != nil {
		return rec, err
	}

	if s, err = field("year"); err != nil {
		return rec, err
	}
	if rec.Year, err = strconv.Atoi(s); err != nil {
		return rec, fmt.Errorf("year: %w", err)
	}

	if s, err = field("pop"); err != nil {
		return rec, err
	}
	pop, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return rec, fmt.Errorf("pop: %w", err)
	}
	if pop < 0 || math.IsNaN(pop) || math.IsInf(pop, 0) {
		return rec, fmt.Errorf("pop: invalid value %q", s)
	}
	rec.Pop = int64(math.Round(pop))

	if s, err = field("lifeExp"); err != nil {
		return rec, err
	}
	if rec.LifeExp, err = strconv.ParseFloat(s, 64); err != nil {
		return rec, fmt.Errorf("lifeExp: %w", err)
	}

	if s, err = field("gdpPercap"); err != nil {
		return rec, err
	}
	if rec.GdpPercap, err = strconv.ParseFloat(s, 64); err != nil {
		return rec, fmt.Errorf("gdpPercap: %w", err)
	}

	return rec, nil
}
