// filetoexcel converts a collected .bin or .csv stream into a workbook with
// the cumulative z-score of ones counts and a line chart of it.
//
// Usage: filetoexcel <path-to-.bin-or-.csv>
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Thiagojm/rng_sources/naming"
	"github.com/Thiagojm/rng_sources/report"
	"github.com/Thiagojm/rng_sources/stats"
)

// run performs the end-to-end workflow: parse the name, read data, compute,
// and export. It returns the workbook path.
func run(filePath string) (string, error) {
	name, err := naming.ParseBaseName(filePath)
	if err != nil {
		return "", err
	}

	var rows []stats.ZRow
	var header string
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".bin":
		rows, err = report.ReadBin(filePath, name.Bits)
		header = report.SamplesHeader
	case ".csv":
		rows, err = report.ReadCSV(filePath)
		header = report.TimeHeader
	default:
		return "", fmt.Errorf("unsupported file type: %s", filepath.Ext(filePath))
	}
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", fmt.Errorf("no complete samples in %s", filepath.Base(filePath))
	}

	if err := stats.CumulativeZ(rows, name.Bits); err != nil {
		return "", err
	}
	out := report.XLSXPath(filePath)
	return out, report.WriteZScore(out, rows, name.Bits, name.IntervalSeconds, header)
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: filetoexcel <path-to-.bin-or-.csv>")
		os.Exit(2)
	}
	out, err := run(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	fmt.Println(out)
}
