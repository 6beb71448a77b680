// Package pool reads random bytes from the operating system entropy pool:
// getrandom(2) on Linux and the platform's equivalent elsewhere.
package pool

import "errors"

// Detect always reports true: every supported OS exposes an entropy pool.
func Detect() (bool, error) { return true, nil }

// ReadBytes returns n bytes from the OS entropy pool.
func ReadBytes(n int) ([]byte, error) {
	if n <= 0 {
		return nil, errors.New("n must be positive")
	}
	buf := make([]byte, n)
	if err := fill(buf); err != nil {
		return nil, err
	}
	return buf, nil
}
