//go:build windows

package cryptoapi

import (
	"fmt"

	"golang.org/x/sys/windows"
)

const acquireFlags = windows.CRYPT_VERIFYCONTEXT | windows.CRYPT_SILENT

// Detect reports whether a CryptoAPI provider handle can be acquired. It
// does not check the OS version; callers that require a minimum release
// check that separately.
func Detect() (bool, error) {
	var prov windows.Handle
	if err := windows.CryptAcquireContext(&prov, nil, nil, windows.PROV_RSA_FULL, acquireFlags); err != nil {
		return false, fmt.Errorf("CryptAcquireContext: %w", err)
	}
	_ = windows.CryptReleaseContext(prov, 0)
	return true, nil
}

func genRandom(buf []byte) error {
	var prov windows.Handle
	if err := windows.CryptAcquireContext(&prov, nil, nil, windows.PROV_RSA_FULL, acquireFlags); err != nil {
		return fmt.Errorf("CryptAcquireContext: %w", err)
	}
	defer func() { _ = windows.CryptReleaseContext(prov, 0) }()

	if err := windows.CryptGenRandom(prov, uint32(len(buf)), &buf[0]); err != nil {
		return fmt.Errorf("CryptGenRandom: %w", err)
	}
	return nil
}
