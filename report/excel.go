// Package report reads collected bit streams and writes Excel workbooks for
// the z-score of ones counts and for the distribution of integer draws.
package report

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Thiagojm/rng_sources/stats"
)

const (
	// ZScoreSheet holds the cumulative z-score series.
	ZScoreSheet = "Zscore"
	// DistributionSheet holds the per-value histogram.
	DistributionSheet = "Distribution"

	// SamplesHeader labels rows read from .bin files.
	SamplesHeader = "samples"
	// TimeHeader labels rows read from .csv files.
	TimeHeader = "time"
)

// XLSXPath returns path with its extension replaced by .xlsx.
func XLSXPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".xlsx"
}

func newWorkbook(sheet string) (*excelize.File, error) {
	f := excelize.NewFile()
	if def := f.GetSheetName(0); def != sheet {
		if _, err := f.NewSheet(sheet); err != nil {
			_ = f.Close()
			return nil, err
		}
		f.DeleteSheet(def)
	}
	return f, nil
}

// WriteZScore writes rows to out with a line chart of the z-score. The title
// is the base name of out; firstHeader is SamplesHeader or TimeHeader.
func WriteZScore(out string, rows []stats.ZRow, blockBits, intervalSec int, firstHeader string) error {
	if len(rows) == 0 {
		return errors.New("no data to write")
	}
	f, err := newWorkbook(ZScoreSheet)
	if err != nil {
		return err
	}
	defer f.Close()

	s := ZScoreSheet
	_ = f.SetCellStr(s, "A1", firstHeader)
	_ = f.SetCellStr(s, "B1", "ones")
	_ = f.SetCellStr(s, "C1", "cumulative_mean")
	_ = f.SetCellStr(s, "D1", "z_test")
	for i, r := range rows {
		row := i + 2
		_ = f.SetCellStr(s, fmt.Sprintf("A%d", row), r.Label)
		_ = f.SetCellInt(s, fmt.Sprintf("B%d", row), r.Ones)
		_ = f.SetCellFloat(s, fmt.Sprintf("C%d", row), r.CumulativeMean, 6, 64)
		_ = f.SetCellFloat(s, fmt.Sprintf("D%d", row), r.ZScore, 6, 64)
	}

	endRow := len(rows) + 1
	chart := &excelize.Chart{
		Type: excelize.Line,
		Series: []excelize.ChartSeries{
			{
				Name:       fmt.Sprintf("%s!$D$1", s),
				Categories: fmt.Sprintf("%s!$A$2:$A$%d", s, endRow),
				Values:     fmt.Sprintf("%s!$D$2:$D$%d", s, endRow),
			},
		},
		Title:  []excelize.RichTextRun{{Text: strings.TrimSuffix(filepath.Base(out), filepath.Ext(out))}},
		Legend: excelize.ChartLegend{Position: "none"},
		XAxis:  excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: fmt.Sprintf("Number of Samples - one sample every %d second(s)", intervalSec)}}},
		YAxis:  excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: fmt.Sprintf("Z-score - Sample Size = %d bits", blockBits)}}, MajorGridLines: true},
	}
	if err := f.AddChart(s, "F2", chart); err != nil {
		return err
	}
	return f.SaveAs(out)
}

// Distribution is the input to WriteDistribution.
type Distribution struct {
	Source  string
	Lo      int64
	Counts  []int
	Verdict stats.Uniformity
}

// WriteDistribution writes one row per value with its observed and expected
// count, a summary block and a column chart of observed counts.
func WriteDistribution(out string, d Distribution) error {
	if len(d.Counts) == 0 {
		return errors.New("no data to write")
	}
	f, err := newWorkbook(DistributionSheet)
	if err != nil {
		return err
	}
	defer f.Close()

	s := DistributionSheet
	expected := float64(d.Verdict.Draws) / float64(len(d.Counts))
	_ = f.SetCellStr(s, "A1", "value")
	_ = f.SetCellStr(s, "B1", "observed")
	_ = f.SetCellStr(s, "C1", "expected")
	for i, c := range d.Counts {
		row := i + 2
		_ = f.SetCellValue(s, fmt.Sprintf("A%d", row), d.Lo+int64(i))
		_ = f.SetCellInt(s, fmt.Sprintf("B%d", row), c)
		_ = f.SetCellFloat(s, fmt.Sprintf("C%d", row), expected, 3, 64)
	}

	summary := [][2]any{
		{"source", d.Source},
		{"draws", d.Verdict.Draws},
		{"chi_square", d.Verdict.ChiSquare},
		{"critical", d.Verdict.Critical},
		{"uniform", d.Verdict.Pass},
	}
	for i, kv := range summary {
		_ = f.SetCellValue(s, fmt.Sprintf("E%d", i+1), kv[0])
		_ = f.SetCellValue(s, fmt.Sprintf("F%d", i+1), kv[1])
	}

	endRow := len(d.Counts) + 1
	chart := &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{
			{
				Name:       fmt.Sprintf("%s!$B$1", s),
				Categories: fmt.Sprintf("%s!$A$2:$A$%d", s, endRow),
				Values:     fmt.Sprintf("%s!$B$2:$B$%d", s, endRow),
			},
		},
		Title:  []excelize.RichTextRun{{Text: fmt.Sprintf("%s - %d draws", d.Source, d.Verdict.Draws)}},
		Legend: excelize.ChartLegend{Position: "none"},
		XAxis:  excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Value"}}},
		YAxis:  excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Count"}}, MajorGridLines: true},
	}
	if err := f.AddChart(s, "H2", chart); err != nil {
		return err
	}
	return f.SaveAs(out)
}
