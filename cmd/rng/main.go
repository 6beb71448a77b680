// rng draws random integers from the OS entropy pool, the Windows CryptoAPI
// or the RDRAND instruction. Without flags it opens an interactive form that
// only offers the sources available on this host.
//
//	rng                       interactive
//	rng -nogui                self-test, non-zero exit on failure
//	rng -source pool -min 1 -max 6 -n 10
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/Thiagojm/rng_sources/config"
	"github.com/Thiagojm/rng_sources/entropy"
	"github.com/Thiagojm/rng_sources/logging"
	"github.com/Thiagojm/rng_sources/probe"
	"github.com/Thiagojm/rng_sources/selftest"
	"github.com/Thiagojm/rng_sources/ui"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	nogui := flag.Bool("nogui", false, "run the headless self-test and exit")
	sourceFlag := flag.String("source", "", "draw without the form from: pool|capi|rdrand")
	minFlag := flag.Int64("min", 0, "inclusive lower bound (default from config)")
	maxFlag := flag.Int64("max", 0, "inclusive upper bound (default from config)")
	count := flag.Int("n", 1, "number of values to draw with -source")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "min":
			cfg.Range.Lo = *minFlag
		case "max":
			cfg.Range.Hi = *maxFlag
		}
	})

	logger, err := logging.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("logging: %v", err)
	}

	prober := probe.New()
	prober.Logger = logger
	avail := prober.Probe()
	gen := entropy.New(avail,
		entropy.WithLogger(logger),
		entropy.WithRdrandRetries(cfg.RdrandRetries),
		entropy.WithMaxRounds(cfg.MaxRounds),
	)

	if *nogui {
		results, err := selftest.Run(gen, cfg.SelfTest.Lo, cfg.SelfTest.Hi)
		selftest.Write(os.Stdout, results)
		if err != nil {
			fmt.Fprintln(os.Stderr, "self-test failed:", err)
			os.Exit(1)
		}
		return
	}

	if *sourceFlag != "" {
		src, err := entropy.ParseSource(*sourceFlag)
		if err != nil {
			log.Fatal(err)
		}
		if *count <= 0 {
			log.Fatal("-n must be > 0")
		}
		for i := 0; i < *count; i++ {
			v, err := gen.Generate(src, cfg.Range.Lo, cfg.Range.Hi)
			if err != nil {
				log.Fatalf("generate: %v", err)
			}
			fmt.Println(v)
		}
		return
	}

	if err := ui.Run(gen, ui.Defaults{Lo: cfg.Range.Lo, Hi: cfg.Range.Hi}, os.Stdout); err != nil {
		log.Fatal(err)
	}
}
