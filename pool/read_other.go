//go:build !linux

package pool

import (
	"crypto/rand"
	"fmt"
	"io"
)

// crypto/rand is backed by the platform entropy call (getentropy,
// arc4random_buf or ProcessPrng) on every non-Linux target.
func fill(b []byte) error {
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return fmt.Errorf("read entropy pool: %w", err)
	}
	return nil
}
