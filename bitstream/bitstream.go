// Package bitstream turns a byte-oriented random source into bit-sized
// batches and runs periodic collection loops over it.
package bitstream

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ByteReader returns n random bytes.
type ByteReader func(n int) ([]byte, error)

// ReadBits reads bitCount bits from read and returns them packed MSB-first
// in each byte. The final byte may be partially filled; its unused trailing
// bits are zeroed.
func ReadBits(read ByteReader, bitCount int) ([]byte, error) {
	if bitCount <= 0 {
		return nil, errors.New("bitCount must be positive")
	}
	byteCount := (bitCount + 7) / 8
	data, err := read(byteCount)
	if err != nil {
		return nil, err
	}
	if len(data) != byteCount {
		return nil, fmt.Errorf("short read: got %d/%d bytes", len(data), byteCount)
	}
	Mask(data, bitCount)
	return data, nil
}

// Mask zeroes the bits of buf beyond bitCount, MSB-first.
func Mask(buf []byte, bitCount int) {
	extraBits := (8 - (bitCount % 8)) % 8
	if extraBits != 0 && len(buf) > 0 {
		buf[len(buf)-1] &= byte(0xFF << extraBits)
	}
}

// CollectBitsAtInterval reads bitCount bits every interval, invoking onBatch
// with the bytes each time. The first read happens immediately. It runs until
// ctx is cancelled or a read error occurs and returns that error.
func CollectBitsAtInterval(ctx context.Context, read ByteReader, bitCount int, interval time.Duration, onBatch func([]byte)) error {
	if read == nil {
		return errors.New("read must not be nil")
	}
	if bitCount <= 0 {
		return errors.New("bitCount must be positive")
	}
	if interval <= 0 {
		return errors.New("interval must be positive")
	}
	if onBatch == nil {
		return errors.New("onBatch callback must not be nil")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		b, err := ReadBits(read, bitCount)
		if err != nil {
			return err
		}
		onBatch(b)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
