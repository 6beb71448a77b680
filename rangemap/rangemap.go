// Package rangemap maps uniformly random byte blocks onto inclusive integer
// ranges without modulo bias.
//
// A block of w bytes is read as a big-endian unsigned integer raw in
// [0, 2^(8w)). For a range of span values the largest multiple of span that
// fits the block width is limit = floor(2^(8w)/span)*span. Values of raw at or
// above limit are rejected and the caller draws a fresh block; accepted values
// map to lo + raw mod span, which is then exactly uniform.
package rangemap

import (
	"errors"
	"fmt"
	"math/big"
)

var (
	// ErrInvalidRange is returned when lo > hi.
	ErrInvalidRange = errors.New("invalid range")
	// ErrRejected signals that a sample fell at or above the uniform-coverage
	// limit and must be discarded and re-drawn.
	ErrRejected = errors.New("sample rejected")
	// ErrShortInput is returned when a block is too narrow to cover the range.
	ErrShortInput = errors.New("input too short for range")
	// ErrExhausted is returned by Draw when every round was rejected.
	ErrExhausted = errors.New("rejection rounds exhausted")
)

// DefaultMaxRounds bounds the rejection loop in Draw. Every round is accepted
// with probability above one half, so reaching it means the byte source is
// stuck rather than unlucky.
const DefaultMaxRounds = 1000

// Range is an inclusive integer interval [Lo, Hi].
type Range struct {
	Lo int64
	Hi int64
}

// Validate reports ErrInvalidRange when Lo > Hi.
func (r Range) Validate() error {
	if r.Lo > r.Hi {
		return fmt.Errorf("%w: min %d > max %d", ErrInvalidRange, r.Lo, r.Hi)
	}
	return nil
}

// Span returns Hi - Lo + 1. It is computed in arbitrary precision so the full
// int64 interval (span 2^64) is representable.
func (r Range) Span() *big.Int {
	s := new(big.Int).Sub(big.NewInt(r.Hi), big.NewInt(r.Lo))
	return s.Add(s, big.NewInt(1))
}

// ByteLen returns the number of random bytes needed to cover the range, i.e.
// ceil(log2(span)/8). A single-value range needs no bytes.
func (r Range) ByteLen() int {
	maxOffset := new(big.Int).Sub(r.Span(), big.NewInt(1))
	return (maxOffset.BitLen() + 7) / 8
}

// Limit returns floor(2^(8*width)/span)*span, the exclusive upper bound for
// accepted raw values drawn from a block of width bytes.
func Limit(width int, span *big.Int) *big.Int {
	total := new(big.Int).Lsh(big.NewInt(1), uint(8*width))
	q := new(big.Int).Quo(total, span)
	return q.Mul(q, span)
}

// Map maps raw onto [lo, hi]. It returns ErrRejected when raw, read as a
// big-endian integer, is at or above Limit(len(raw), span). A single-value
// range returns lo without looking at raw.
func Map(raw []byte, lo, hi int64) (int64, error) {
	r := Range{Lo: lo, Hi: hi}
	if err := r.Validate(); err != nil {
		return 0, err
	}
	if lo == hi {
		return lo, nil
	}
	if len(raw) < r.ByteLen() {
		return 0, fmt.Errorf("%w: have %d bytes, need %d", ErrShortInput, len(raw), r.ByteLen())
	}

	span := r.Span()
	v := new(big.Int).SetBytes(raw)
	if v.Cmp(Limit(len(raw), span)) >= 0 {
		return 0, ErrRejected
	}
	v.Mod(v, span)
	return v.Add(v, big.NewInt(lo)).Int64(), nil
}

// ByteReader returns n fresh random bytes.
type ByteReader func(n int) ([]byte, error)

// Draw reads ByteLen bytes from read and maps them onto r, re-drawing on
// rejection up to maxRounds times (DefaultMaxRounds when maxRounds <= 0).
// It returns the value and the number of reads performed. A single-value
// range performs no reads.
func Draw(read ByteReader, r Range, maxRounds int) (int64, int, error) {
	if err := r.Validate(); err != nil {
		return 0, 0, err
	}
	if r.Lo == r.Hi {
		return r.Lo, 0, nil
	}
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}

	n := r.ByteLen()
	for round := 1; round <= maxRounds; round++ {
		raw, err := read(n)
		if err != nil {
			return 0, round, err
		}
		v, err := Map(raw, r.Lo, r.Hi)
		if errors.Is(err, ErrRejected) {
			continue
		}
		if err != nil {
			return 0, round, err
		}
		return v, round, nil
	}
	return 0, maxRounds, fmt.Errorf("%w after %d rounds", ErrExhausted, maxRounds)
}
