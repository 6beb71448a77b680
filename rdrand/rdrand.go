// Package rdrand reads random bytes from the x86-64 RDRAND instruction.
//
// RDRAND clears the carry flag when the on-chip conditioner has no value
// ready. Each 64-bit word is retried up to a fixed number of times before the
// read fails with ErrExhausted.
package rdrand

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// DefaultRetries is the per-word attempt cap.
const DefaultRetries = 10

var (
	// ErrUnsupported is returned when the CPU or build lacks RDRAND.
	ErrUnsupported = errors.New("rdrand: instruction not supported on this CPU/OS")
	// ErrExhausted is returned when every attempt for a word failed.
	ErrExhausted = errors.New("rdrand: retries exhausted")
)

// Step performs one RDRAND invocation and reports whether the carry flag
// was set.
type Step func() (uint64, bool)

// Detect reports whether this is a 64-bit x86 build on a CPU advertising
// RDRAND.
func Detect() (bool, error) { return supported(), nil }

// ReadBytes reads n bytes using the hardware instruction and DefaultRetries.
func ReadBytes(n int) ([]byte, error) {
	return Reader{}.ReadBytes(n)
}

// Reader concatenates RDRAND words into byte blocks.
type Reader struct {
	// Retries is the per-word attempt cap; DefaultRetries when <= 0.
	Retries int
	// Step replaces the hardware instruction when set.
	Step Step
	// OnRetry, when set, is called after each failed attempt.
	OnRetry func(attempt int)
}

// ReadBytes returns n bytes built from ceil(n/8) big-endian RDRAND words.
func (r Reader) ReadBytes(n int) ([]byte, error) {
	if n <= 0 {
		return nil, errors.New("n must be positive")
	}
	step := r.Step
	if step == nil {
		if !supported() {
			return nil, ErrUnsupported
		}
		step = hwStep
	}
	retries := r.Retries
	if retries <= 0 {
		retries = DefaultRetries
	}

	buf := make([]byte, (n+7)/8*8)
	for off := 0; off < n; off += 8 {
		w, err := r.word(step, retries)
		if err != nil {
			return nil, err
		}
		binary.BigEndian.PutUint64(buf[off:], w)
	}
	return buf[:n], nil
}

func (r Reader) word(step Step, retries int) (uint64, error) {
	for attempt := 1; attempt <= retries; attempt++ {
		if v, ok := step(); ok {
			return v, nil
		}
		if r.OnRetry != nil {
			r.OnRetry(attempt)
		}
	}
	return 0, fmt.Errorf("%w: carry flag clear %d times", ErrExhausted, retries)
}
