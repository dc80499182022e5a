package export

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/san-kum/gapdash/internal/dashboard"
)

// Rendered is one chart file held in memory.
type Rendered struct {
	Name string
	Data []byte
}

// RenderAll renders every registered chart of v concurrently. Results
// follow List order; the first error wins.
func (r *Registry) RenderAll(ctx context.Context, v dashboard.View) ([]Rendered, error) {
	names := r.List()
	results := make([]Rendered, len(names))
	errs := make([]error, len(names))

	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func(idx int, name string) {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				errs[idx] = err
				return
			}

			chartName, format, _ := strings.Cut(name, ".")
			render, _, err := r.Get(chartName, format)
			if err != nil {
				errs[idx] = err
				return
			}
			var buf bytes.Buffer
			if err := render(&buf, v); err != nil {
				errs[idx] = fmt.Errorf("%s: %w", name, err)
				return
			}
			results[idx] = Rendered{Name: name, Data: buf.Bytes()}
		}(i, name)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
