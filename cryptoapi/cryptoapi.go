// Package cryptoapi reads random bytes through the Windows CryptoAPI
// (advapi32 CryptGenRandom with an ephemeral verify-context provider). On
// other operating systems the package reports itself unavailable.
package cryptoapi

import "errors"

// ErrUnsupported is returned on platforms without the CryptoAPI.
var ErrUnsupported = errors.New("cryptoapi: not supported on this platform")

// ReadBytes returns n bytes from CryptGenRandom. A provider handle is
// acquired and released per call.
func ReadBytes(n int) ([]byte, error) {
	if n <= 0 {
		return nil, errors.New("n must be positive")
	}
	buf := make([]byte, n)
	if err := genRandom(buf); err != nil {
		return nil, err
	}
	return buf, nil
}
