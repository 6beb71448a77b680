package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounts(t *testing.T) {
	c, err := Counts([]int64{1, 2, 2, 6, 6, 6}, 1, 6)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 0, 0, 0, 3}, c)

	_, err = Counts([]int64{7}, 1, 6)
	assert.Error(t, err)
	_, err = Counts(nil, 6, 1)
	assert.Error(t, err)
	_, err = Counts(nil, math.MinInt64, math.MaxInt64)
	assert.Error(t, err)
}

func TestChiSquare(t *testing.T) {
	assert.Equal(t, 0.0, ChiSquare([]int{10, 10, 10}))
	// expected 10 per bucket: 25/10 + 25/10
	assert.InDelta(t, 5.0, ChiSquare([]int{15, 5}), 1e-9)
	// expected 10 per bucket: (4+4+0+1+1+0)/10
	assert.InDelta(t, 1.0, ChiSquare([]int{8, 12, 10, 9, 11, 10}), 1e-9)
	// expected 20 per bucket: (100+25+25+0+0+100+0)/20
	assert.InDelta(t, 12.5, ChiSquare([]int{30, 15, 25, 20, 20, 10, 20}), 1e-9)
	assert.Equal(t, 0.0, ChiSquare(nil))
}

func TestCritical(t *testing.T) {
	// Tabulated: df=5, p=0.001 -> 20.515; Wilson-Hilferty is within 2%.
	assert.InEpsilon(t, 20.515, Critical(5, 3.0902), 0.02)
	// df=99, p=0.05 -> 123.225
	assert.InEpsilon(t, 123.225, Critical(99, 1.6449), 0.01)
	assert.Equal(t, 0.0, Critical(0, 3))
}

func TestUniform(t *testing.T) {
	u := Uniform([]int{1000, 1000, 1000, 1000, 1000, 1000}, 3.09)
	assert.True(t, u.Pass)
	assert.Equal(t, 6000, u.Draws)

	// Modulo-biased counts over 1..6 from 256-value bytes, scaled up.
	biased := []int{43000, 43000, 43000, 43000, 42000, 42000}
	assert.False(t, Uniform(biased, 3.09).Pass)

	assert.True(t, Uniform([]int{5}, 3.09).Pass)
}

func TestCountOnes(t *testing.T) {
	assert.Equal(t, 16, CountOnes([]byte{0xFF, 0xFF}, 16))
	assert.Equal(t, 12, CountOnes([]byte{0xFF, 0xFF}, 12))
	assert.Equal(t, 1, CountOnes([]byte{0x80}, 1))
	assert.Equal(t, 0, CountOnes([]byte{0x7F}, 1))
	assert.Equal(t, 0, CountOnes(nil, 8))
	assert.Equal(t, 8, CountOnes([]byte{0xFF}, 64))
}

func TestCumulativeZ(t *testing.T) {
	rows := []ZRow{{Ones: 4}, {Ones: 4}, {Ones: 6}}
	require.NoError(t, CumulativeZ(rows, 8))
	assert.Equal(t, 4.0, rows[0].CumulativeMean)
	assert.Equal(t, 0.0, rows[0].ZScore)
	assert.InDelta(t, 14.0/3, rows[2].CumulativeMean, 1e-9)
	// sd = sqrt(2); z = (14/3 - 4) / (sqrt(2)/sqrt(3))
	assert.InDelta(t, (14.0/3-4)/(math.Sqrt2/math.Sqrt(3)), rows[2].ZScore, 1e-9)

	assert.Error(t, CumulativeZ(rows, 0))
}
