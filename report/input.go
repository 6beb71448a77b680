package report

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math/bits"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Thiagojm/rng_sources/stats"
)

// ReadBin reads a .bin stream and returns one row per block of blockBits
// bits, labelled by block number. A partial trailing block is dropped since
// its ones count cannot be scored against blockBits.
func ReadBin(path string, blockBits int) ([]stats.ZRow, error) {
	if blockBits <= 0 || blockBits%8 != 0 {
		return nil, errors.New("block size must be a positive multiple of 8 bits for .bin files")
	}
	bytesPerBlock := blockBits / 8
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := bufio.NewReader(f)
	rows := make([]stats.ZRow, 0, 1024)
	buf := make([]byte, bytesPerBlock)
	for block := 1; ; block++ {
		_, err := io.ReadFull(reader, buf)
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		count := 0
		for _, b := range buf {
			count += bits.OnesCount8(b)
		}
		rows = append(rows, stats.ZRow{Label: strconv.Itoa(block), Ones: count})
	}
	return rows, nil
}

// ReadCSV reads a .csv stream of "timestamp,ones" records without header and
// labels rows with the time of day.
func ReadCSV(path string) ([]stats.ZRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	rows := make([]stats.ZRow, 0, len(records))
	for _, rec := range records {
		if len(rec) < 2 {
			continue
		}
		onesStr := strings.TrimSpace(rec[1])
		ones, err := strconv.Atoi(onesStr)
		if err != nil {
			return nil, fmt.Errorf("invalid ones value '%s': %w", onesStr, err)
		}
		rows = append(rows, stats.ZRow{Label: timeLabel(strings.TrimSpace(rec[0])), Ones: ones})
	}
	return rows, nil
}

// CSVTimeLayout is the timestamp layout written by the collector.
const CSVTimeLayout = "20060102T15:04:05"

// timeLabel parses the known timestamp layouts and returns HH:MM:SS, or s
// unchanged.
func timeLabel(s string) string {
	layouts := []string{
		CSVTimeLayout,
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006/01/02 15:04:05",
		"15:04:05",
		"15:04",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("15:04:05")
		}
	}
	return s
}
