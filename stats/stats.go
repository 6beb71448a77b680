// Package stats holds the statistical checks run over generator output: a
// chi-squared uniformity test for integer draws and the cumulative z-score of
// ones counts for collected bit batches.
package stats

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
)

// MaxBuckets caps the range width accepted by Counts.
const MaxBuckets = 1 << 20

// Counts tallies values over [lo, hi]. Values outside the range are an error.
func Counts(values []int64, lo, hi int64) ([]int, error) {
	if lo > hi {
		return nil, fmt.Errorf("invalid range: min %d > max %d", lo, hi)
	}
	width := uint64(hi-lo) + 1
	if width == 0 || width > MaxBuckets {
		return nil, fmt.Errorf("range too wide to histogram: %d..%d", lo, hi)
	}
	counts := make([]int, width)
	for _, v := range values {
		if v < lo || v > hi {
			return nil, fmt.Errorf("value %d outside [%d, %d]", v, lo, hi)
		}
		counts[v-lo]++
	}
	return counts, nil
}

// ChiSquare returns the Pearson statistic of counts against a uniform
// expectation.
func ChiSquare(counts []int) float64 {
	total := 0
	for _, c := range counts {
		total += c
	}
	if total == 0 || len(counts) == 0 {
		return 0
	}
	expected := float64(total) / float64(len(counts))
	chi := 0.0
	for _, c := range counts {
		d := float64(c) - expected
		chi += d * d / expected
	}
	return chi
}

// Critical approximates the chi-squared quantile for df degrees of freedom
// at standard-normal deviate z (Wilson-Hilferty).
func Critical(df int, z float64) float64 {
	if df <= 0 {
		return 0
	}
	k := float64(df)
	a := 2 / (9 * k)
	return k * math.Pow(1-a+z*math.Sqrt(a), 3)
}

// Uniformity is the verdict of a chi-squared goodness-of-fit test.
type Uniformity struct {
	Draws     int
	Buckets   int
	ChiSquare float64
	Critical  float64
	Pass      bool
}

// Uniform tests counts against a uniform distribution at deviate z; z = 3.09
// is roughly p = 0.001.
func Uniform(counts []int, z float64) Uniformity {
	u := Uniformity{Buckets: len(counts), ChiSquare: ChiSquare(counts)}
	for _, c := range counts {
		u.Draws += c
	}
	u.Critical = Critical(len(counts)-1, z)
	u.Pass = len(counts) < 2 || u.ChiSquare <= u.Critical
	return u
}

// CountOnes returns the number of set bits in buf, considering only bitCount
// bits total (MSB-first), so unused trailing bits are not counted.
func CountOnes(buf []byte, bitCount int) int {
	if bitCount <= 0 || len(buf) == 0 {
		return 0
	}
	bytesUsed := (bitCount + 7) / 8
	if bytesUsed > len(buf) {
		bytesUsed = len(buf)
	}
	total := 0
	for i := 0; i < bytesUsed-1; i++ {
		total += bits.OnesCount8(buf[i])
	}
	usedBitsInLast := bitCount - (bytesUsed-1)*8
	if usedBitsInLast <= 0 || usedBitsInLast > 8 {
		usedBitsInLast = 8
	}
	mask := byte(0xFF) << (8 - usedBitsInLast)
	return total + bits.OnesCount8(buf[bytesUsed-1]&mask)
}

// ZRow is one row of a cumulative z-score series.
type ZRow struct {
	Label          string
	Ones           int
	CumulativeMean float64
	ZScore         float64
}

// CumulativeZ fills CumulativeMean and ZScore for rows of blockBits-bit
// samples:
//
//	expected mean = 0.5 * blockBits
//	expected sd   = sqrt(blockBits * 0.25)
//	z_i = (mean_i - expected mean) / (expected sd / sqrt(i))
func CumulativeZ(rows []ZRow, blockBits int) error {
	if blockBits <= 0 {
		return errors.New("blockBits must be > 0")
	}
	expectedMean := 0.5 * float64(blockBits)
	expectedStdDev := math.Sqrt(float64(blockBits) * 0.25)
	sum := 0
	for i := range rows {
		sum += rows[i].Ones
		n := float64(i + 1)
		cumMean := float64(sum) / n
		rows[i].CumulativeMean = cumMean
		rows[i].ZScore = (cumMean - expectedMean) / (expectedStdDev / math.Sqrt(n))
	}
	return nil
}
