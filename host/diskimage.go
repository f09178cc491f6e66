package host

import (
	"fmt"
	"os"

	"github.com/intuitionamiga/tcpu16/core"
)

// LoadProgram reads a bytecode image from disk, for cmd/tcpu.
func LoadProgram(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("host: reading program %q: %w", path, err)
	}
	return data, nil
}

// fileDisk is a core.DiskStorage backed by a host file: the image is
// read in full on open and written back in full on Sync, standing in
// for the mmap'd read-through backing spec.md §9's design note invites.
// A true mmap isn't worth the build-tag sprawl for a 1MiB disk image;
// read/modify/write-back gives an embedder the same pluggable-storage
// seam without it.
type fileDisk struct {
	path string
	data [core.DiskSize]byte
}

// OpenDiskImage loads a disk image file into a fileDisk backing. A
// missing file is treated as a fresh, zeroed disk at that path.
func OpenDiskImage(path string) (core.DiskStorage, error) {
	d := &fileDisk{path: path}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return d, nil
		}
		return nil, fmt.Errorf("host: reading disk image %q: %w", path, err)
	}
	n := copy(d.data[:], raw)
	if n < len(raw) {
		return nil, fmt.Errorf("host: disk image %q exceeds %d bytes", path, core.DiskSize)
	}
	return d, nil
}

func (d *fileDisk) Bytes() *[core.DiskSize]byte { return &d.data }

// Sync writes the disk's current contents back to its backing file.
func (d *fileDisk) Sync() error {
	if err := os.WriteFile(d.path, d.data[:], 0644); err != nil {
		return fmt.Errorf("host: writing disk image %q: %w", d.path, err)
	}
	return nil
}

// SyncDisk writes storage back to path if it came from OpenDiskImage;
// other core.DiskStorage implementations (e.g. the core's own in-heap
// one) have nothing to flush and are left alone.
func SyncDisk(storage core.DiskStorage) error {
	if d, ok := storage.(*fileDisk); ok {
		return d.Sync()
	}
	return nil
}
