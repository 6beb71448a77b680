package entropy

import (
	"errors"
	"log/slog"

	"github.com/Thiagojm/rng_sources/bitstream"
	"github.com/Thiagojm/rng_sources/cryptoapi"
	"github.com/Thiagojm/rng_sources/pool"
	"github.com/Thiagojm/rng_sources/rangemap"
	"github.com/Thiagojm/rng_sources/rdrand"
)

// ByteReader returns n random bytes.
type ByteReader = rangemap.ByteReader

// Generator produces random values from the sources marked available in its
// Availability snapshot. It holds no mutable state after construction and is
// safe for concurrent use.
type Generator struct {
	avail         Availability
	readers       [len(sourceTable)]ByteReader
	maxRounds     int
	rdrandRetries int
	logger        *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger used for retry, rejection and failure events.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithReader replaces the primitive behind src. The availability check still
// applies.
func WithReader(src Source, r ByteReader) Option {
	return func(g *Generator) {
		if src.Validate() == nil {
			g.readers[src] = r
		}
	}
}

// WithRdrandRetries sets the per-word RDRAND attempt cap.
func WithRdrandRetries(n int) Option {
	return func(g *Generator) { g.rdrandRetries = n }
}

// WithMaxRounds bounds the rejection-sampling loop of Generate.
func WithMaxRounds(n int) Option {
	return func(g *Generator) { g.maxRounds = n }
}

// New returns a Generator bound to avail.
func New(avail Availability, opts ...Option) *Generator {
	g := &Generator{
		avail:         avail,
		maxRounds:     rangemap.DefaultMaxRounds,
		rdrandRetries: rdrand.DefaultRetries,
		logger:        slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(g)
	}
	for _, src := range All() {
		if g.readers[src] == nil {
			g.readers[src] = g.primitive(src)
		}
	}
	return g
}

func (g *Generator) primitive(src Source) ByteReader {
	switch src {
	case EntropyPool:
		return pool.ReadBytes
	case PlatformCryptoAPI:
		return cryptoapi.ReadBytes
	case HardwareRdrand:
		return rdrand.Reader{
			Retries: g.rdrandRetries,
			OnRetry: func(attempt int) {
				g.logger.Debug("rdrand carry flag clear", "attempt", attempt)
			},
		}.ReadBytes
	default:
		return nil
	}
}

// Availability returns the snapshot the Generator was built with.
func (g *Generator) Availability() Availability { return g.avail }

// Reader returns a ByteReader for src. It fails with ErrCapabilityUnavailable
// when src is not marked available and wraps primitive errors in
// ErrPrimitiveFailure.
func (g *Generator) Reader(src Source) ByteReader {
	return func(n int) ([]byte, error) {
		if err := g.check(src, "read"); err != nil {
			return nil, err
		}
		b, err := g.readers[src](n)
		if err != nil {
			g.logger.Warn("primitive read failed", "source", src.Tag(), "bytes", n, "error", err)
			return nil, newError(src, "read", ErrPrimitiveFailure, err)
		}
		return b, nil
	}
}

// Generate returns a value uniformly distributed over [lo, hi] drawn from
// src. The range is checked first, then availability; a single-value range
// returns lo without touching the primitive.
func (g *Generator) Generate(src Source, lo, hi int64) (int64, error) {
	r := rangemap.Range{Lo: lo, Hi: hi}
	if err := r.Validate(); err != nil {
		return 0, newError(src, "generate", ErrInvalidRange, err)
	}
	if err := g.check(src, "generate"); err != nil {
		return 0, err
	}

	v, rounds, err := rangemap.Draw(g.Reader(src), r, g.maxRounds)
	if err != nil {
		var e *Error
		if errors.As(err, &e) {
			return 0, e
		}
		g.logger.Warn("generate failed", "source", src.Tag(), "lo", lo, "hi", hi, "rounds", rounds, "error", err)
		return 0, newError(src, "generate", ErrPrimitiveFailure, err)
	}
	if rounds > 1 {
		g.logger.Debug("samples rejected", "source", src.Tag(), "lo", lo, "hi", hi, "rejected", rounds-1)
	}
	return v, nil
}

// Bytes returns n raw bytes from src.
func (g *Generator) Bytes(src Source, n int) ([]byte, error) {
	return g.Reader(src)(n)
}

// Bits returns bitCount bits from src packed MSB-first, trailing bits zeroed.
func (g *Generator) Bits(src Source, bitCount int) ([]byte, error) {
	return bitstream.ReadBits(bitstream.ByteReader(g.Reader(src)), bitCount)
}

func (g *Generator) check(src Source, op string) error {
	if src.Validate() != nil || !g.avail.Has(src) {
		return newError(src, op, ErrCapabilityUnavailable, nil)
	}
	return nil
}
