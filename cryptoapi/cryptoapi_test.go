package cryptoapi

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadBytes(t *testing.T) {
	ok, err := Detect()
	if runtime.GOOS != "windows" {
		require.NoError(t, err)
		assert.False(t, ok)
		_, err := ReadBytes(8)
		assert.ErrorIs(t, err, ErrUnsupported)
		return
	}
	if !ok {
		t.Skipf("CryptoAPI provider unavailable: %v", err)
	}
	b, err := ReadBytes(16)
	require.NoError(t, err)
	assert.Len(t, b, 16)
}

func TestReadBytesRejectsNonPositive(t *testing.T) {
	_, err := ReadBytes(0)
	assert.Error(t, err)
}
