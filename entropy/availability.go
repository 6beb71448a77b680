package entropy

import (
	"fmt"
	"strings"
)

// Availability is the one-time snapshot of which sources may be used on this
// host. It is computed at startup and passed to whatever needs it.
type Availability struct {
	EntropyPool       bool
	PlatformCryptoAPI bool
	HardwareRdrand    bool
}

// Has reports whether s is marked available. Unknown sources never are.
func (a Availability) Has(s Source) bool {
	switch s {
	case EntropyPool:
		return a.EntropyPool
	case PlatformCryptoAPI:
		return a.PlatformCryptoAPI
	case HardwareRdrand:
		return a.HardwareRdrand
	default:
		return false
	}
}

// Available returns the available sources in display order.
func (a Availability) Available() []Source {
	var out []Source
	for _, s := range All() {
		if a.Has(s) {
			out = append(out, s)
		}
	}
	return out
}

func (a Availability) String() string {
	parts := make([]string, 0, len(All()))
	for _, s := range All() {
		parts = append(parts, fmt.Sprintf("%s=%t", s.Tag(), a.Has(s)))
	}
	return strings.Join(parts, " ")
}
