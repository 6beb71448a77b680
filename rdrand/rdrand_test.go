package rdrand

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flaky fails the first n calls of every word, then returns v.
func flaky(fails int, v uint64) (Step, *int) {
	calls := 0
	pending := fails
	return func() (uint64, bool) {
		calls++
		if pending > 0 {
			pending--
			return 0, false
		}
		pending = fails
		return v, true
	}, &calls
}

func TestReaderConcatenatesWords(t *testing.T) {
	step, calls := flaky(0, 0x0102030405060708)
	b, err := Reader{Step: step}.ReadBytes(12)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8, 1, 2, 3, 4}, b)
	assert.Equal(t, 2, *calls)
}

func TestReaderRetriesTransientFailure(t *testing.T) {
	step, calls := flaky(9, 0xFF)
	var retried []int
	b, err := Reader{Step: step, OnRetry: func(a int) { retried = append(retried, a) }}.ReadBytes(8)
	require.NoError(t, err)
	assert.Equal(t, byte(0xFF), b[7])
	assert.Equal(t, 10, *calls)
	assert.Len(t, retried, 9)
}

func TestReaderExhausted(t *testing.T) {
	calls := 0
	never := func() (uint64, bool) { calls++; return 0, false }
	_, err := Reader{Step: never}.ReadBytes(8)
	assert.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, DefaultRetries, calls)

	calls = 0
	_, err = Reader{Step: never, Retries: 3}.ReadBytes(8)
	assert.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, 3, calls)
}

func TestReaderRejectsNonPositive(t *testing.T) {
	_, err := Reader{Step: func() (uint64, bool) { return 1, true }}.ReadBytes(0)
	assert.Error(t, err)
}

func TestHardware(t *testing.T) {
	ok, err := Detect()
	require.NoError(t, err)
	if !ok {
		_, err := ReadBytes(8)
		assert.ErrorIs(t, err, ErrUnsupported)
		return
	}
	b, err := ReadBytes(24)
	require.NoError(t, err)
	assert.Len(t, b, 24)
}
