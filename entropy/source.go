// Package entropy unifies the three supported randomness sources behind one
// Generate call and carries the availability snapshot and error taxonomy
// shared by every caller.
package entropy

import (
	"fmt"
	"strings"
)

// Source identifies one of the supported randomness primitives.
type Source int

const (
	// EntropyPool is the OS entropy pool (getrandom and friends).
	EntropyPool Source = iota
	// PlatformCryptoAPI is the Windows CryptoAPI (CryptGenRandom).
	PlatformCryptoAPI
	// HardwareRdrand is the x86-64 RDRAND instruction.
	HardwareRdrand
)

type sourceInfo struct {
	tag         string
	name        string
	description string
	aliases     []string
}

var sourceTable = [...]sourceInfo{
	EntropyPool: {
		tag:         "pool",
		name:        "Entropy pool",
		description: "getrandom / OS entropy pool - kernel entropy.",
		aliases:     []string{"entropy", "entropy-pool", "urandom", "os"},
	},
	PlatformCryptoAPI: {
		tag:         "capi",
		name:        "Windows CryptoAPI",
		description: "advapi32!CryptGenRandom (FIPS 140-2).",
		aliases:     []string{"cryptoapi", "crypto-api", "crypto"},
	},
	HardwareRdrand: {
		tag:         "rdrand",
		name:        "Intel/AMD RDRAND",
		description: "Hardware RNG instruction (x86-64).",
		aliases:     []string{"hardware", "hw"},
	},
}

// All returns every source in display order.
func All() []Source {
	return []Source{EntropyPool, PlatformCryptoAPI, HardwareRdrand}
}

// Validate checks whether s is one of the known sources.
func (s Source) Validate() error {
	if s >= 0 && int(s) < len(sourceTable) {
		return nil
	}
	return fmt.Errorf("invalid source: %d (allowed: pool, capi, rdrand)", int(s))
}

// String returns the display name.
func (s Source) String() string {
	if s.Validate() != nil {
		return fmt.Sprintf("Source(%d)", int(s))
	}
	return sourceTable[s].name
}

// Tag returns the short identifier used in flags and file names.
func (s Source) Tag() string {
	if s.Validate() != nil {
		return ""
	}
	return sourceTable[s].tag
}

// Description returns a one-line description of the primitive.
func (s Source) Description() string {
	if s.Validate() != nil {
		return ""
	}
	return sourceTable[s].description
}

// ParseSource resolves a tag, display name or alias, case-insensitively.
func ParseSource(v string) (Source, error) {
	key := strings.ToLower(strings.TrimSpace(v))
	for i, info := range sourceTable {
		if key == info.tag || key == strings.ToLower(info.name) {
			return Source(i), nil
		}
		for _, a := range info.aliases {
			if key == a {
				return Source(i), nil
			}
		}
	}
	return 0, fmt.Errorf("invalid source: %q (allowed: pool, capi, rdrand)", v)
}
