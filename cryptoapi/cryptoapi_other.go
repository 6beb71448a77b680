//go:build !windows

package cryptoapi

// Detect always reports false outside Windows.
func Detect() (bool, error) { return false, nil }

func genRandom([]byte) error { return ErrUnsupported }
