//go:build linux

package mmapfile

import (
	"math"
	"os"
	"syscall"
)

func openImpl(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() == 0 {
		return &File{}, nil
	}
	if info.Size() > math.MaxInt {
		return nil, os.ErrInvalid
	}

	mem, err := syscall.Mmap(int(f.Fd()), 0, int(info.Size()), syscall.PROT_READ, syscall.MAP_SHARED)
	if err != nil {
		return nil, err
	}

	return &File{
		Data:   mem,
		closer: func() error { return syscall.Munmap(mem) },
	}, nil
}
