// rngbits reads a number of bits from one entropy source, once or at a fixed
// interval, and prints them as hex.
package main

import (
	"context"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/Thiagojm/rng_sources/bitstream"
	"github.com/Thiagojm/rng_sources/config"
	"github.com/Thiagojm/rng_sources/entropy"
	"github.com/Thiagojm/rng_sources/logging"
	"github.com/Thiagojm/rng_sources/probe"
)

// setup loads the config at configPath and builds a Generator over avail
// with the configured retry cap, round cap and logger writing to logOut.
func setup(configPath string, avail entropy.Availability, logOut io.Writer) (*config.Config, *entropy.Generator, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}
	logger, err := logging.New(logOut, cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, nil, fmt.Errorf("logging: %w", err)
	}
	gen := entropy.New(avail,
		entropy.WithLogger(logger),
		entropy.WithRdrandRetries(cfg.RdrandRetries),
		entropy.WithMaxRounds(cfg.MaxRounds),
	)
	return cfg, gen, nil
}

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	sourceFlag := flag.String("source", "pool", "source to read from: pool|capi|rdrand")
	bits := flag.Int("bits", 1024, "number of bits to read per batch")
	interval := flag.Duration("interval", 0, "interval between reads (e.g. 2s). 0 for one-shot")
	flag.Parse()

	src, err := entropy.ParseSource(*sourceFlag)
	if err != nil {
		log.Fatal(err)
	}
	_, gen, err := setup(*configPath, probe.Probe(), os.Stderr)
	if err != nil {
		log.Fatal(err)
	}
	if !gen.Availability().Has(src) {
		log.Fatalf("%s not available on this host", src)
	}

	if *interval == 0 {
		data, err := gen.Bits(src, *bits)
		if err != nil {
			log.Fatalf("read error: %v", err)
		}
		fmt.Printf("read %d bits (%d bytes)\n", *bits, len(data))
		fmt.Printf("%s\n", hex.EncodeToString(data))
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	log.Printf("reading %d bits every %s from %s. press Ctrl+C to stop...", *bits, interval.String(), src)
	err = bitstream.CollectBitsAtInterval(ctx, bitstream.ByteReader(gen.Reader(src)), *bits, *interval, func(b []byte) {
		fmt.Printf("%s  %d bits  %s\n", time.Now().Format(time.RFC3339), *bits, hex.EncodeToString(b))
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("collect error: %v", err)
	}
}
