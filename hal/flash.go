package hal

import (
	"fmt"

	"tinygo.org/x/tinyfs"

	"ember/x/mathx"
)

// blockFlash adapts any tinyfs.BlockDevice into the Flash surface the
// settings engine uses. machine.Flash satisfies BlockDevice on TinyGo
// targets; the host supplies file- or memory-backed NOR devices.
type blockFlash struct {
	dev tinyfs.BlockDevice
}

// NewBlockFlash wraps a block device as a Flash region.
func NewBlockFlash(dev tinyfs.BlockDevice) Flash {
	return &blockFlash{dev: dev}
}

func (f *blockFlash) Read(addr uint32, buf []byte) error {
	if _, err := f.dev.ReadAt(buf, int64(addr)); err != nil {
		return fmt.Errorf("flash read at %d: %w", addr, err)
	}
	return nil
}

func (f *blockFlash) Write(addr uint32, buf []byte) error {
	if _, err := f.dev.WriteAt(buf, int64(addr)); err != nil {
		return fmt.Errorf("flash write at %d: %w", addr, err)
	}
	return nil
}

func (f *blockFlash) Erase(sectorAddr uint32) error {
	bs := f.dev.EraseBlockSize()
	if bs <= 0 {
		return ErrNotImplemented
	}
	if int64(sectorAddr)%bs != 0 {
		return fmt.Errorf("flash erase at %d: unaligned sector", sectorAddr)
	}
	if err := f.dev.EraseBlocks(int64(sectorAddr)/bs, 1); err != nil {
		return fmt.Errorf("flash erase at %d: %w", sectorAddr, err)
	}
	return nil
}

func (f *blockFlash) Align(v uint32) uint32 {
	return mathx.AlignUp(v, uint32(f.dev.WriteBlockSize()))
}

func (f *blockFlash) SectorSize() uint32 {
	return uint32(f.dev.EraseBlockSize())
}

type nullFlash struct{}

func (nullFlash) Read(addr uint32, buf []byte) error  { return nil }
func (nullFlash) Write(addr uint32, buf []byte) error { return nil }
func (nullFlash) Erase(sectorAddr uint32) error       { return nil }
func (nullFlash) Align(v uint32) uint32               { return v }
func (nullFlash) SectorSize() uint32                  { return 0 }
