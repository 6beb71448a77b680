//go:build amd64

package rdrand

import "golang.org/x/sys/cpu"

func supported() bool { return cpu.X86.HasRDRAND }

// rdrand64 executes RDRAND RAX and returns the value and the carry flag.
func rdrand64() (v uint64, ok bool)

func hwStep() (uint64, bool) { return rdrand64() }
