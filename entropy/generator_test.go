package entropy

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Thiagojm/rng_sources/rangemap"
	"github.com/Thiagojm/rng_sources/stats"
)

var allAvailable = Availability{EntropyPool: true, PlatformCryptoAPI: true, HardwareRdrand: true}

// counting wraps r and counts calls.
func counting(r ByteReader) (ByteReader, *int) {
	var mu sync.Mutex
	calls := 0
	return func(n int) ([]byte, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		return r(n)
	}, &calls
}

func constant(b byte) ByteReader {
	return func(n int) ([]byte, error) {
		out := make([]byte, n)
		for i := range out {
			out[i] = b
		}
		return out, nil
	}
}

func TestGenerateStaysInRange(t *testing.T) {
	g := New(Availability{EntropyPool: true})
	ranges := []rangemap.Range{
		{Lo: 1, Hi: 6},
		{Lo: 0, Hi: 1},
		{Lo: -100, Hi: 100},
		{Lo: 1, Hi: 1 << 40},
		{Lo: math.MinInt64, Hi: math.MaxInt64},
		{Lo: -3, Hi: -3},
	}
	for _, r := range ranges {
		for i := 0; i < 500; i++ {
			v, err := g.Generate(EntropyPool, r.Lo, r.Hi)
			require.NoError(t, err)
			require.GreaterOrEqual(t, v, r.Lo)
			require.LessOrEqual(t, v, r.Hi)
		}
	}
}

func TestGenerateSingleValueSkipsPrimitive(t *testing.T) {
	read, calls := counting(constant(0))
	g := New(allAvailable, WithReader(PlatformCryptoAPI, read))
	for i := 0; i < 10; i++ {
		v, err := g.Generate(PlatformCryptoAPI, 7, 7)
		require.NoError(t, err)
		assert.Equal(t, int64(7), v)
	}
	assert.Zero(t, *calls)
}

func TestGenerateInvalidRange(t *testing.T) {
	read, calls := counting(constant(0))
	g := New(allAvailable, WithReader(EntropyPool, read))
	_, err := g.Generate(EntropyPool, 10, 5)
	assert.ErrorIs(t, err, ErrInvalidRange)
	assert.Zero(t, *calls)

	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, EntropyPool, e.Source)
}

func TestGenerateUnavailableSource(t *testing.T) {
	read, calls := counting(constant(0))
	avail := Availability{EntropyPool: true, PlatformCryptoAPI: false, HardwareRdrand: false}
	g := New(avail, WithReader(HardwareRdrand, read), WithReader(PlatformCryptoAPI, read))

	for _, src := range []Source{HardwareRdrand, PlatformCryptoAPI} {
		_, err := g.Generate(src, 1, 6)
		assert.ErrorIs(t, err, ErrCapabilityUnavailable)
		_, err = g.Generate(src, 3, 3)
		assert.ErrorIs(t, err, ErrCapabilityUnavailable)
		_, err = g.Bytes(src, 8)
		assert.ErrorIs(t, err, ErrCapabilityUnavailable)
	}
	assert.Zero(t, *calls)
}

func TestGenerateUnknownSource(t *testing.T) {
	g := New(allAvailable)
	_, err := g.Generate(Source(42), 1, 6)
	assert.ErrorIs(t, err, ErrCapabilityUnavailable)
}

func TestGeneratePrimitiveFailure(t *testing.T) {
	boom := errors.New("device busy")
	g := New(allAvailable, WithReader(HardwareRdrand, func(int) ([]byte, error) { return nil, boom }))
	_, err := g.Generate(HardwareRdrand, 1, 6)
	assert.ErrorIs(t, err, ErrPrimitiveFailure)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrCapabilityUnavailable)
}

func TestGenerateStuckPrimitiveFails(t *testing.T) {
	read, calls := counting(constant(0xFF))
	g := New(allAvailable, WithReader(EntropyPool, read), WithMaxRounds(20))
	_, err := g.Generate(EntropyPool, 1, 6)
	assert.ErrorIs(t, err, ErrPrimitiveFailure)
	assert.ErrorIs(t, err, rangemap.ErrExhausted)
	assert.Equal(t, 20, *calls)
}

func TestGenerateResamplesOnRejection(t *testing.T) {
	blocks := [][]byte{{0xFF}, {0xFC}, {0x02}}
	i := 0
	read := func(int) ([]byte, error) {
		b := blocks[i]
		i++
		return b, nil
	}
	g := New(allAvailable, WithReader(EntropyPool, read))
	v, err := g.Generate(EntropyPool, 1, 6)
	require.NoError(t, err)
	assert.Equal(t, int64(3), v)
	assert.Equal(t, 3, i)
}

func TestGenerateUniformEntropyPool(t *testing.T) {
	if testing.Short() {
		t.Skip("statistical test")
	}
	g := New(Availability{EntropyPool: true})
	const draws = 100_000
	values := make([]int64, draws)
	for i := range values {
		v, err := g.Generate(EntropyPool, 1, 6)
		require.NoError(t, err)
		values[i] = v
	}
	counts, err := stats.Counts(values, 1, 6)
	require.NoError(t, err)
	verdict := stats.Uniform(counts, 4.0)
	assert.True(t, verdict.Pass, "chi-squared %.2f exceeds %.2f", verdict.ChiSquare, verdict.Critical)
}

func TestGenerateAvoidsModuloBias(t *testing.T) {
	// Walk every byte value once per cycle. Naive modulo would give values 1-4
	// one extra hit per cycle; rejection keeps all six equal.
	next := 0
	read := func(n int) ([]byte, error) {
		out := make([]byte, n)
		for i := range out {
			out[i] = byte(next)
			next = (next + 1) % 256
		}
		return out, nil
	}
	g := New(allAvailable, WithReader(PlatformCryptoAPI, read))
	counts := make(map[int64]int)
	for i := 0; i < 252*10; i++ {
		v, err := g.Generate(PlatformCryptoAPI, 1, 6)
		require.NoError(t, err)
		counts[v]++
	}
	for v := int64(1); v <= 6; v++ {
		assert.Equal(t, 420, counts[v], "value %d", v)
	}
}

func TestGenerateConcurrent(t *testing.T) {
	g := New(Availability{EntropyPool: true})
	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				v, err := g.Generate(EntropyPool, 1, 100)
				if err != nil {
					errs <- err
					return
				}
				if v < 1 || v > 100 {
					errs <- errors.New("out of range")
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}
}

func TestBits(t *testing.T) {
	g := New(allAvailable, WithReader(EntropyPool, constant(0xFF)))
	b, err := g.Bits(EntropyPool, 10)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFF, 0xC0}, b)

	g = New(Availability{})
	_, err = g.Bits(EntropyPool, 10)
	assert.ErrorIs(t, err, ErrCapabilityUnavailable)
}

func TestBytesRealPool(t *testing.T) {
	g := New(Availability{EntropyPool: true})
	b, err := g.Bytes(EntropyPool, 16)
	require.NoError(t, err)
	assert.Len(t, b, 16)
}
