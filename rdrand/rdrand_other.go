//go:build !amd64

package rdrand

func supported() bool { return false }

func hwStep() (uint64, bool) { return 0, false }
