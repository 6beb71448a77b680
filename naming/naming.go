// Package naming builds and parses the file names used for collected bit
// streams and distribution reports.
//
// Collected streams:
//
//	YYYYMMDDTHHMMSS_{source}_s{bits}_i{interval}
//
// Distribution reports:
//
//	YYYYMMDDTHHMMSS_{source}_r{lo}_{hi}_n{draws}
//
// where source is the entropy source tag (pool, capi, rdrand).
package naming

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Thiagojm/rng_sources/entropy"
)

const stampLayout = "20060102T150405"

// BuildBaseName builds the base name for a collected stream of bits-bit
// batches taken every intervalSeconds.
func BuildBaseName(now time.Time, src entropy.Source, bits int, intervalSeconds int) (string, error) {
	if err := src.Validate(); err != nil {
		return "", err
	}
	if bits <= 0 {
		return "", errors.New("bits must be > 0")
	}
	if intervalSeconds <= 0 {
		return "", errors.New("intervalSeconds must be > 0")
	}
	return fmt.Sprintf("%s_%s_s%d_i%d", now.Format(stampLayout), src.Tag(), bits, intervalSeconds), nil
}

// BuildReportName builds the base name for a distribution report of draws
// values over [lo, hi]. Negative bounds are written with an "m" prefix.
func BuildReportName(now time.Time, src entropy.Source, lo, hi int64, draws int) (string, error) {
	if err := src.Validate(); err != nil {
		return "", err
	}
	if lo > hi {
		return "", fmt.Errorf("invalid range: min %d > max %d", lo, hi)
	}
	if draws <= 0 {
		return "", errors.New("draws must be > 0")
	}
	return fmt.Sprintf("%s_%s_r%s_%s_n%d", now.Format(stampLayout), src.Tag(), bound(lo), bound(hi), draws), nil
}

func bound(v int64) string {
	if v < 0 {
		return "m" + strconv.FormatUint(uint64(-(v+1))+1, 10)
	}
	return strconv.FormatInt(v, 10)
}

// WithExt appends an extension to a base name. A leading dot on ext is
// accepted. Empty ext returns base.
func WithExt(base string, ext string) string {
	if ext == "" {
		return base
	}
	return base + "." + strings.TrimPrefix(ext, ".")
}

// JoinDir joins an optional directory with the file name.
func JoinDir(dir string, name string) string {
	if dir == "" {
		return name
	}
	return filepath.Join(dir, name)
}

// BuildBinCSVPaths builds full paths for the .bin and .csv files of a
// collected stream inside dir (dir may be empty).
func BuildBinCSVPaths(dir string, now time.Time, src entropy.Source, bits int, intervalSeconds int) (binPath string, csvPath string, err error) {
	base, err := BuildBaseName(now, src, bits, intervalSeconds)
	if err != nil {
		return "", "", err
	}
	return JoinDir(dir, WithExt(base, ".bin")), JoinDir(dir, WithExt(base, ".csv")), nil
}

var streamRe = regexp.MustCompile(`_([a-z]+)_s(\d+)_i(\d+)`)

// StreamName is what ParseBaseName recovers from a stream file path.
type StreamName struct {
	Source          entropy.Source
	Bits            int
	IntervalSeconds int
}

// ParseBaseName extracts the source, batch size and interval from a stream
// file path.
func ParseBaseName(path string) (StreamName, error) {
	base := filepath.Base(path)
	m := streamRe.FindStringSubmatch(base)
	if len(m) < 4 {
		return StreamName{}, fmt.Errorf("bit count and interval not found in file name: %s", base)
	}
	src, err := entropy.ParseSource(m[1])
	if err != nil {
		return StreamName{}, err
	}
	bits, err := strconv.Atoi(m[2])
	if err != nil {
		return StreamName{}, err
	}
	interval, err := strconv.Atoi(m[3])
	if err != nil {
		return StreamName{}, err
	}
	if bits <= 0 || interval <= 0 {
		return StreamName{}, fmt.Errorf("bit count and interval must be > 0: %s", base)
	}
	return StreamName{Source: src, Bits: bits, IntervalSeconds: interval}, nil
}
