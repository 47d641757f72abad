//go:build !tinygo

package hal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

const (
	hostFlashDefaultPath      = "ember.flash"
	hostFlashDefaultSizeBytes = 8 * 1024
	hostFlashEraseBlockBytes  = 4096
	hostFlashWriteBlockBytes  = 4
)

// HostFlash is a file-backed NOR block device: programming can only clear
// bits, erase rewrites a whole block to 0xFF. It implements
// tinyfs.BlockDevice so the same settings backend runs against it and
// against machine.Flash.
type HostFlash struct {
	mu      sync.Mutex
	f       *os.File
	size    uint32
	scratch [hostFlashEraseBlockBytes]byte
}

// NewHostFlash opens (or creates) the flash image at path. An empty path
// selects ember.flash in the working directory.
func NewHostFlash(path string) (*HostFlash, error) {
	if path == "" {
		path = hostFlashDefaultPath
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open flash image: %w", err)
	}

	size := uint32(hostFlashDefaultSizeBytes)
	st, err := f.Stat()
	if err == nil && st.Size() > 0 {
		size = uint32(st.Size())
	} else if err := fillFresh(f, size); err != nil {
		_ = f.Close()
		return nil, err
	}

	hf := &HostFlash{f: f, size: size}
	for i := range hf.scratch {
		hf.scratch[i] = 0xFF
	}
	return hf, nil
}

func fillFresh(f *os.File, size uint32) error {
	buf := make([]byte, size)
	for i := range buf {
		buf[i] = 0xFF
	}
	if _, err := f.WriteAt(buf, 0); err != nil {
		return fmt.Errorf("initialise flash image: %w", err)
	}
	return nil
}

func (f *HostFlash) Size() int64           { return int64(f.size) }
func (f *HostFlash) WriteBlockSize() int64 { return hostFlashWriteBlockBytes }
func (f *HostFlash) EraseBlockSize() int64 { return hostFlashEraseBlockBytes }

func (f *HostFlash) ReadAt(p []byte, off int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if off < 0 || off >= int64(f.size) {
		return 0, fmt.Errorf("flash read at %d: %w", off, os.ErrInvalid)
	}
	if max := int64(f.size) - off; int64(len(p)) > max {
		p = p[:max]
	}
	return f.f.ReadAt(p, off)
}

func (f *HostFlash) WriteAt(p []byte, off int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if off < 0 || off >= int64(f.size) {
		return 0, fmt.Errorf("flash write at %d: %w", off, os.ErrInvalid)
	}
	if max := int64(f.size) - off; int64(len(p)) > max {
		p = p[:max]
	}

	have := make([]byte, len(p))
	if _, err := f.f.ReadAt(have, off); err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("flash read before write at %d: %w", off, err)
	}
	for i := range p {
		if have[i]&p[i] != p[i] {
			return 0, ErrFlashWriteRequiresErase
		}
	}
	return f.f.WriteAt(p, off)
}

func (f *HostFlash) EraseBlocks(start, count int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	from := start * hostFlashEraseBlockBytes
	to := from + count*hostFlashEraseBlockBytes
	if from < 0 || to > int64(f.size) {
		return fmt.Errorf("flash erase blocks %d+%d: %w", start, count, os.ErrInvalid)
	}
	for off := from; off < to; off += hostFlashEraseBlockBytes {
		if _, err := f.f.WriteAt(f.scratch[:], off); err != nil {
			return fmt.Errorf("flash erase block at %d: %w", off, err)
		}
	}
	return nil
}

// Close releases the backing file.
func (f *HostFlash) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.f.Close()
}
