package selftest

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Thiagojm/rng_sources/entropy"
)

type fakeGenerator struct {
	avail  entropy.Availability
	values map[entropy.Source]int64
	errs   map[entropy.Source]error
	calls  []entropy.Source
}

func (f *fakeGenerator) Availability() entropy.Availability { return f.avail }

func (f *fakeGenerator) Generate(src entropy.Source, lo, hi int64) (int64, error) {
	f.calls = append(f.calls, src)
	return f.values[src], f.errs[src]
}

func TestRunSkipsUnavailable(t *testing.T) {
	g := &fakeGenerator{
		avail:  entropy.Availability{EntropyPool: true},
		values: map[entropy.Source]int64{entropy.EntropyPool: 4},
	}
	results, err := Run(g, 1, 9)
	require.NoError(t, err)
	assert.Equal(t, []entropy.Source{entropy.EntropyPool}, g.calls)
	require.Len(t, results, 3)
	assert.True(t, results[0].Passed())
	assert.False(t, results[1].Available)
	assert.False(t, results[2].Passed())

	var buf bytes.Buffer
	Write(&buf, results)
	assert.Equal(t, "Entropy pool:      ok 4\n"+
		"Windows CryptoAPI: (unsupported)\n"+
		"Intel/AMD RDRAND:  (unsupported)\n", buf.String())
}

func TestRunAggregatesFailures(t *testing.T) {
	busy := errors.New("busy")
	g := &fakeGenerator{
		avail:  entropy.Availability{EntropyPool: true, PlatformCryptoAPI: true, HardwareRdrand: true},
		values: map[entropy.Source]int64{entropy.EntropyPool: 5, entropy.PlatformCryptoAPI: 42},
		errs:   map[entropy.Source]error{entropy.HardwareRdrand: busy},
	}
	results, err := Run(g, 1, 9)
	require.Error(t, err)
	assert.ErrorIs(t, err, busy)
	assert.Contains(t, err.Error(), "2 errors occurred")
	assert.Contains(t, err.Error(), "value 42 outside [1, 9]")
	assert.True(t, results[0].Passed())
	assert.False(t, results[1].Passed())
	assert.False(t, results[2].Passed())
}

func TestRunWithRealGenerator(t *testing.T) {
	g := entropy.New(entropy.Availability{EntropyPool: true})
	results, err := Run(g, 1, 9)
	require.NoError(t, err)
	assert.True(t, results[0].Passed())
	assert.GreaterOrEqual(t, results[0].Value, int64(1))
	assert.LessOrEqual(t, results[0].Value, int64(9))
}
