// Package selftest runs one draw per available source over a fixed range
// and reports pass or fail for headless verification.
package selftest

import (
	"fmt"
	"io"

	"github.com/hashicorp/go-multierror"

	"github.com/Thiagojm/rng_sources/entropy"
)

// Generator is the subset of entropy.Generator the self-test needs.
type Generator interface {
	Availability() entropy.Availability
	Generate(src entropy.Source, lo, hi int64) (int64, error)
}

// Result is the outcome for one source.
type Result struct {
	Source    entropy.Source
	Available bool
	Value     int64
	Err       error
}

// Passed reports whether the source was available and produced a value.
func (r Result) Passed() bool { return r.Available && r.Err == nil }

// Run calls Generate once per available source over [lo, hi]. Unavailable
// sources are recorded but not invoked. The returned error aggregates every
// failure of an available source, including values outside the range.
func Run(g Generator, lo, hi int64) ([]Result, error) {
	avail := g.Availability()
	results := make([]Result, 0, len(entropy.All()))
	var merr *multierror.Error

	for _, src := range entropy.All() {
		r := Result{Source: src, Available: avail.Has(src)}
		if r.Available {
			r.Value, r.Err = g.Generate(src, lo, hi)
			if r.Err == nil && (r.Value < lo || r.Value > hi) {
				r.Err = fmt.Errorf("%s: value %d outside [%d, %d]", src, r.Value, lo, hi)
			}
			if r.Err != nil {
				merr = multierror.Append(merr, r.Err)
			}
		}
		results = append(results, r)
	}
	return results, merr.ErrorOrNil()
}

// Write prints one line per result.
func Write(w io.Writer, results []Result) {
	for _, r := range results {
		switch {
		case !r.Available:
			fmt.Fprintf(w, "%-18s (unsupported)\n", r.Source.String()+":")
		case r.Err != nil:
			fmt.Fprintf(w, "%-18s FAIL %v\n", r.Source.String()+":", r.Err)
		default:
			fmt.Fprintf(w, "%-18s ok %d\n", r.Source.String()+":", r.Value)
		}
	}
}
