// collect reads fixed-size bit batches from one entropy source at a fixed
// interval, appending the raw bytes to a .bin file and "timestamp,ones" rows
// to a .csv file named after the source, batch size and interval.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/Thiagojm/rng_sources/bitstream"
	"github.com/Thiagojm/rng_sources/config"
	"github.com/Thiagojm/rng_sources/entropy"
	"github.com/Thiagojm/rng_sources/naming"
	"github.com/Thiagojm/rng_sources/probe"
	"github.com/Thiagojm/rng_sources/report"
	"github.com/Thiagojm/rng_sources/stats"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	bitsFlag := flag.Int("bits", 2048, "number of bits per batch (required > 0)")
	intervalSec := flag.Int("interval", 1, "interval between batches in seconds (required > 0)")
	sourceFlag := flag.String("source", "pool", "source to read from: pool|capi|rdrand")
	outDir := flag.String("outdir", "", "output directory for files (default from config)")
	flag.Parse()

	if *bitsFlag <= 0 {
		log.Fatal("-bits must be > 0")
	}
	if *intervalSec <= 0 {
		log.Fatal("-interval must be > 0")
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *outDir == "" {
		*outDir = cfg.OutDir
	}

	src, err := entropy.ParseSource(*sourceFlag)
	if err != nil {
		log.Fatal(err)
	}
	gen := entropy.New(probe.Probe(), entropy.WithRdrandRetries(cfg.RdrandRetries))
	if !gen.Availability().Has(src) {
		log.Fatalf("%s not available on this host", src)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("creating outdir: %v", err)
	}

	startTime := time.Now()
	binPath, csvPath, err := naming.BuildBinCSVPaths(*outDir, startTime, src, *bitsFlag, *intervalSec)
	if err != nil {
		log.Fatalf("build filenames: %v", err)
	}

	binFile, err := os.OpenFile(binPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		log.Fatalf("open bin file: %v", err)
	}
	defer func() { _ = binFile.Close() }()
	binBuf := bufio.NewWriter(binFile)
	defer binBuf.Flush()

	csvFile, err := os.OpenFile(csvPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		log.Fatalf("open csv file: %v", err)
	}
	defer func() { _ = csvFile.Close() }()
	csvBuf := bufio.NewWriter(csvFile)
	defer csvBuf.Flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	bitCount := *bitsFlag
	interval := time.Duration(*intervalSec) * time.Second
	log.Printf("collecting %d bits every %s from %s", bitCount, interval.String(), src)

	sampleNum := 0
	var writeErr error
	err = bitstream.CollectBitsAtInterval(ctx, bitstream.ByteReader(gen.Reader(src)), bitCount, interval, func(batch []byte) {
		if writeErr != nil {
			return
		}
		if _, werr := binBuf.Write(batch); werr != nil {
			writeErr = fmt.Errorf("write bin: %w", werr)
			stop()
			return
		}
		_ = binBuf.Flush()

		ones := stats.CountOnes(batch, bitCount)
		sampleNum++
		ts := time.Now().Format(report.CSVTimeLayout)
		if _, werr := fmt.Fprintf(csvBuf, "%s,%d\n", ts, ones); werr != nil {
			writeErr = fmt.Errorf("write csv: %w", werr)
			stop()
			return
		}
		_ = csvBuf.Flush()

		fmt.Printf("sample %d: ones=%d/%d at %s\n", sampleNum, ones, bitCount, ts)
	})
	if writeErr != nil {
		log.Printf("%v", writeErr)
		return
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("read error: %v", err)
	}
}
