// rngprobe prints the host, CPU and entropy source availability as seen by
// the startup probe.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/Thiagojm/rng_sources/logging"
	"github.com/Thiagojm/rng_sources/probe"
)

func main() {
	verbose := flag.Bool("v", false, "log why each source was marked unavailable")
	flag.Parse()

	level := "warn"
	if *verbose {
		level = "debug"
	}
	logger, err := logging.New(os.Stderr, level, "text")
	if err != nil {
		log.Fatal(err)
	}

	p := probe.New()
	p.Logger = logger
	p.Report().Write(os.Stdout)
}
