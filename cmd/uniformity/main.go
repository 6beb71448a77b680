// uniformity draws n values from one source, runs a chi-squared
// goodness-of-fit test against the uniform distribution and optionally
// writes a workbook with the histogram.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Thiagojm/rng_sources/config"
	"github.com/Thiagojm/rng_sources/entropy"
	"github.com/Thiagojm/rng_sources/logging"
	"github.com/Thiagojm/rng_sources/naming"
	"github.com/Thiagojm/rng_sources/probe"
	"github.com/Thiagojm/rng_sources/report"
	"github.com/Thiagojm/rng_sources/stats"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	sourceFlag := flag.String("source", "pool", "source to test: pool|capi|rdrand")
	lo := flag.Int64("min", 1, "inclusive lower bound")
	hi := flag.Int64("max", 6, "inclusive upper bound")
	draws := flag.Int("n", 100_000, "number of draws")
	z := flag.Float64("z", 3.09, "standard-normal deviate for the critical value (3.09 ~ p=0.001)")
	xlsx := flag.Bool("xlsx", false, "write a distribution workbook to the output directory")
	outDir := flag.String("outdir", "", "output directory (default from config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *outDir == "" {
		*outDir = cfg.OutDir
	}
	if *draws <= 0 {
		log.Fatal("-n must be > 0")
	}
	if *lo > *hi {
		log.Fatalf("invalid range: min %d > max %d", *lo, *hi)
	}
	if uint64(*hi-*lo) >= stats.MaxBuckets {
		log.Fatalf("range %d..%d too wide to histogram", *lo, *hi)
	}
	src, err := entropy.ParseSource(*sourceFlag)
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("logging: %v", err)
	}
	gen := entropy.New(probe.Probe(),
		entropy.WithLogger(logger),
		entropy.WithRdrandRetries(cfg.RdrandRetries),
		entropy.WithMaxRounds(cfg.MaxRounds),
	)

	started := time.Now()
	values := make([]int64, *draws)
	for i := range values {
		v, err := gen.Generate(src, *lo, *hi)
		if err != nil {
			log.Fatalf("generate: %v", err)
		}
		values[i] = v
	}
	counts, err := stats.Counts(values, *lo, *hi)
	if err != nil {
		log.Fatal(err)
	}
	verdict := stats.Uniform(counts, *z)

	fmt.Printf("source:     %s\n", src)
	fmt.Printf("range:      [%d, %d]\n", *lo, *hi)
	fmt.Printf("draws:      %d in %s\n", verdict.Draws, time.Since(started).Round(time.Millisecond))
	fmt.Printf("chi-square: %.3f (df=%d, critical=%.3f)\n", verdict.ChiSquare, verdict.Buckets-1, verdict.Critical)
	if verdict.Pass {
		fmt.Println("verdict:    uniform")
	} else {
		fmt.Println("verdict:    NOT uniform")
	}

	if *xlsx {
		if err := os.MkdirAll(*outDir, 0o755); err != nil {
			log.Fatalf("creating outdir: %v", err)
		}
		base, err := naming.BuildReportName(started, src, *lo, *hi, *draws)
		if err != nil {
			log.Fatal(err)
		}
		out := naming.JoinDir(*outDir, naming.WithExt(base, ".xlsx"))
		d := report.Distribution{Source: src.String(), Lo: *lo, Counts: counts, Verdict: verdict}
		if err := report.WriteDistribution(out, d); err != nil {
			log.Fatalf("write workbook: %v", err)
		}
		fmt.Printf("workbook:   %s\n", out)
	}

	if !verdict.Pass {
		os.Exit(1)
	}
}
