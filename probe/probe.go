// Package probe determines once, at startup, which entropy sources are
// usable on the current host.
//
// Probing never fails: a detection error or panic marks the source
// unavailable and is logged at debug level.
package probe

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strings"

	"github.com/hashicorp/go-version"
	"github.com/klauspost/cpuid/v2"
	"github.com/shirou/gopsutil/host"

	"github.com/Thiagojm/rng_sources/cryptoapi"
	"github.com/Thiagojm/rng_sources/entropy"
	"github.com/Thiagojm/rng_sources/rdrand"
)

// MinWindowsVersion is the first Windows release whose CryptoAPI is used.
const MinWindowsVersion = "10.0"

// Detector reports whether a primitive is usable.
type Detector func() (bool, error)

// Prober holds the host hooks consulted by Probe. The zero value is not
// usable; start from New and override fields in tests.
type Prober struct {
	GOOS       string
	HostInfo   func() (*host.InfoStat, error)
	CryptoAPI  Detector
	Rdrand     Detector
	CPU        *cpuid.CPUInfo
	MinWindows string
	Logger     *slog.Logger
}

// New returns a Prober wired to the real host.
func New() *Prober {
	return &Prober{
		GOOS:       runtime.GOOS,
		HostInfo:   host.Info,
		CryptoAPI:  cryptoapi.Detect,
		Rdrand:     rdrand.Detect,
		CPU:        &cpuid.CPU,
		MinWindows: MinWindowsVersion,
		Logger:     slog.New(slog.DiscardHandler),
	}
}

// Probe returns the availability snapshot for the real host.
func Probe() entropy.Availability {
	return New().Probe()
}

// Probe returns the availability snapshot. The entropy pool is always
// available.
func (p *Prober) Probe() entropy.Availability {
	a := entropy.Availability{
		EntropyPool:       true,
		PlatformCryptoAPI: p.probeCryptoAPI(),
		HardwareRdrand:    p.probeRdrand(),
	}
	p.logger().Debug("probed entropy sources", "availability", a.String())
	return a
}

func (p *Prober) probeCryptoAPI() (ok bool) {
	defer p.guard(entropy.PlatformCryptoAPI, &ok)

	if p.GOOS != "windows" {
		p.unavailable(entropy.PlatformCryptoAPI, "not windows", "goos", p.GOOS)
		return false
	}
	if p.HostInfo == nil {
		p.unavailable(entropy.PlatformCryptoAPI, "no host info hook")
		return false
	}
	info, err := p.HostInfo()
	if err != nil {
		p.unavailable(entropy.PlatformCryptoAPI, "host info failed", "error", err)
		return false
	}
	atLeast, err := versionAtLeast(info.PlatformVersion, p.MinWindows)
	if err != nil || !atLeast {
		p.unavailable(entropy.PlatformCryptoAPI, "windows too old", "version", info.PlatformVersion, "error", err)
		return false
	}
	return p.detect(entropy.PlatformCryptoAPI, p.CryptoAPI)
}

func (p *Prober) probeRdrand() (ok bool) {
	defer p.guard(entropy.HardwareRdrand, &ok)
	return p.detect(entropy.HardwareRdrand, p.Rdrand)
}

func (p *Prober) detect(src entropy.Source, d Detector) bool {
	if d == nil {
		p.unavailable(src, "no detector")
		return false
	}
	ok, err := d()
	if err != nil {
		p.unavailable(src, "detection failed", "error", err)
		return false
	}
	if !ok {
		p.unavailable(src, "not detected")
	}
	return ok
}

func (p *Prober) guard(src entropy.Source, ok *bool) {
	if r := recover(); r != nil {
		p.unavailable(src, "detection panicked", "panic", r)
		*ok = false
	}
}

func (p *Prober) unavailable(src entropy.Source, reason string, args ...any) {
	p.logger().Debug("source unavailable", append([]any{"source", src.Tag(), "reason", reason}, args...)...)
}

func (p *Prober) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return p.Logger
}

// versionAtLeast compares the leading dotted version in platformVersion
// (e.g. "10.0.19045 Build 19045") against minimum.
func versionAtLeast(platformVersion, minimum string) (bool, error) {
	fields := strings.Fields(platformVersion)
	if len(fields) == 0 {
		return false, errors.New("empty platform version")
	}
	have, err := version.NewVersion(fields[0])
	if err != nil {
		return false, fmt.Errorf("parse platform version %q: %w", fields[0], err)
	}
	want, err := version.NewVersion(minimum)
	if err != nil {
		return false, fmt.Errorf("parse minimum version %q: %w", minimum, err)
	}
	return have.GreaterThanOrEqual(want), nil
}

// Report describes the host and the probe outcome.
type Report struct {
	OS              string
	Platform        string
	PlatformVersion string
	KernelArch      string
	CPUVendor       string
	CPUBrand        string
	CPURdrand       bool
	CPURdseed       bool
	Availability    entropy.Availability
}

// Report probes the host and gathers OS and CPU details alongside.
func (p *Prober) Report() Report {
	r := Report{OS: p.GOOS, Availability: p.Probe()}
	if p.HostInfo != nil {
		if info, err := p.HostInfo(); err == nil && info != nil {
			r.Platform = info.Platform
			r.PlatformVersion = info.PlatformVersion
			r.KernelArch = info.KernelArch
		} else if err != nil {
			p.logger().Debug("host info failed", "error", err)
		}
	}
	if p.CPU != nil {
		r.CPUVendor = p.CPU.VendorString
		r.CPUBrand = p.CPU.BrandName
		r.CPURdrand = p.CPU.Supports(cpuid.RDRAND)
		r.CPURdseed = p.CPU.Supports(cpuid.RDSEED)
	}
	return r
}

// Write prints the report, one field per line, followed by one line per
// source.
func (r Report) Write(w io.Writer) {
	fmt.Fprintf(w, "OS:        %s\n", r.OS)
	if r.Platform != "" {
		fmt.Fprintf(w, "Platform:  %s %s\n", r.Platform, r.PlatformVersion)
	}
	if r.KernelArch != "" {
		fmt.Fprintf(w, "Arch:      %s\n", r.KernelArch)
	}
	if r.CPUVendor != "" || r.CPUBrand != "" {
		fmt.Fprintf(w, "CPU:       %s (%s)\n", r.CPUBrand, r.CPUVendor)
		fmt.Fprintf(w, "CPU flags: rdrand=%t rdseed=%t\n", r.CPURdrand, r.CPURdseed)
	}
	for _, src := range entropy.All() {
		state := "unavailable"
		if r.Availability.Has(src) {
			state = "available"
		}
		fmt.Fprintf(w, "%-18s %s\n", src.String()+":", state)
	}
}
