// Package ui is the interactive terminal front end: pick an available
// source, enter the bounds, see the result.
package ui

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/Thiagojm/rng_sources/entropy"
)

// ErrNoSource is returned by Run when no source is available.
var ErrNoSource = errors.New("no entropy source available")

// Title is shown at the top of the form.
const Title = "Hardware-grade Random Number Generator"

// Defaults prefills the bound inputs.
type Defaults struct {
	Lo int64
	Hi int64
}

// SourceOptions returns one select option per available source. Unavailable
// sources are never offered.
func SourceOptions(a entropy.Availability) []huh.Option[entropy.Source] {
	var opts []huh.Option[entropy.Source]
	for _, src := range a.Available() {
		opts = append(opts, huh.NewOption(fmt.Sprintf("%s - %s", src, src.Description()), src))
	}
	return opts
}

// Describe lists every source with its state, for the form header.
func Describe(a entropy.Availability) string {
	var sb strings.Builder
	for _, src := range entropy.All() {
		state := "available"
		if !a.Has(src) {
			state = "unavailable"
		}
		fmt.Fprintf(&sb, "%s: %s\n", src, state)
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// ParseBound parses an int64 bound, tolerating surrounding spaces.
func ParseBound(s string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("not an integer: %q", s)
	}
	return v, nil
}

func validateBound(s string) error {
	_, err := ParseBound(s)
	return err
}

// ValidateBounds checks that both bounds parse and min <= max.
func ValidateBounds(loStr, hiStr string) error {
	lo, err := ParseBound(loStr)
	if err != nil {
		return fmt.Errorf("min: %w", err)
	}
	hi, err := ParseBound(hiStr)
	if err != nil {
		return err
	}
	if lo > hi {
		return fmt.Errorf("max must be >= min (%d)", lo)
	}
	return nil
}

// FormatResult renders the outcome of one Generate call.
func FormatResult(src entropy.Source, v int64, err error) string {
	if err != nil {
		return fmt.Sprintf("%s - Error: %v", src, err)
	}
	return fmt.Sprintf("%s - Result: %d", src, v)
}

// Run loops until the user declines to continue or aborts the form.
func Run(g *entropy.Generator, d Defaults, out io.Writer) error {
	avail := g.Availability()
	opts := SourceOptions(avail)
	if len(opts) == 0 {
		return ErrNoSource
	}

	src := opts[0].Value
	loStr := strconv.FormatInt(d.Lo, 10)
	hiStr := strconv.FormatInt(d.Hi, 10)

	for {
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewNote().Title(Title).Description(Describe(avail)),
				huh.NewSelect[entropy.Source]().
					Title("Source").
					Options(opts...).
					Value(&src),
				huh.NewInput().
					Title("Min").
					Value(&loStr).
					Validate(validateBound),
				huh.NewInput().
					Title("Max").
					Value(&hiStr).
					Validate(func(s string) error { return ValidateBounds(loStr, s) }),
			),
		)
		if err := form.Run(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return fmt.Errorf("form: %w", err)
		}

		lo, _ := ParseBound(loStr)
		hi, _ := ParseBound(hiStr)
		v, err := g.Generate(src, lo, hi)
		fmt.Fprintln(out, FormatResult(src, v, err))

		again := true
		if err := huh.NewConfirm().Title("Generate another?").Value(&again).Run(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return fmt.Errorf("confirm: %w", err)
		}
		if !again {
			return nil
		}
	}
}
