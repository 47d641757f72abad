//go:build tinygo && baremetal && (rp2040 || rp2350)

package hal

import (
	"machine"
	"runtime"
	"unsafe"
)

// rp2HAL maps the HAL surface onto the RP2 machine package. The settings
// region is the last two erase blocks of the on-board flash.
type rp2HAL struct {
	flash Flash
	uart  *rp2UART
}

// New builds the RP2 HAL.
func New() HAL {
	return &rp2HAL{
		flash: NewBlockFlash(settingsRegion{}),
		uart:  newRP2UART(),
	}
}

func (h *rp2HAL) GPIO() GPIO   { return rp2GPIO{} }
func (h *rp2HAL) ADC() ADC     { return rp2ADC{} }
func (h *rp2HAL) UART() UART   { return h.uart }
func (h *rp2HAL) PWM() PWM     { return nullPWM{} }
func (h *rp2HAL) SPI() SPI     { return machine.SPI0 }
func (h *rp2HAL) Flash() Flash { return h.flash }
func (h *rp2HAL) Mem() Mem     { return rp2Mem{} }
func (h *rp2HAL) Power() Power { return rp2Power{} }

type rp2GPIO struct{}

func pinOf(port, pin uint32) machine.Pin {
	_ = port // single GPIO bank on RP2
	return machine.Pin(pin)
}

func (rp2GPIO) Read(port, pin uint32) bool {
	p := pinOf(port, pin)
	p.Configure(machine.PinConfig{Mode: machine.PinInput})
	return p.Get()
}

func (rp2GPIO) Set(port, pin uint32, active ActiveState) error {
	p := pinOf(port, pin)
	p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	p.Set(active == ActiveHigh)
	return nil
}

func (rp2GPIO) Reset(port, pin uint32, active ActiveState) error {
	p := pinOf(port, pin)
	p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	p.Set(active != ActiveHigh)
	return nil
}

type rp2ADC struct{}

func (rp2ADC) Open() error {
	machine.InitADC()
	return nil
}

func (rp2ADC) Read(port, pin uint32) uint32 {
	a := machine.ADC{Pin: pinOf(port, pin)}
	a.Configure(machine.ADCConfig{})
	// machine scales to 16 bits regardless of converter width.
	return uint32(a.Get() >> 4)
}

func (rp2ADC) BitWidth(port, pin uint32) uint32 { return 12 }
func (rp2ADC) RefVolts() float32                { return 3.3 }
func (rp2ADC) StartConversion()                 {}

// settingsRegion exposes the top two erase blocks of machine.Flash as a
// zero-based block device.
type settingsRegion struct{}

const settingsRegionBlocks = 2

func settingsBase() int64 {
	size := machine.Flash.Size()
	return size - settingsRegionBlocks*machine.Flash.EraseBlockSize()
}

func (settingsRegion) Size() int64 {
	return settingsRegionBlocks * machine.Flash.EraseBlockSize()
}

func (settingsRegion) WriteBlockSize() int64 { return machine.Flash.WriteBlockSize() }
func (settingsRegion) EraseBlockSize() int64 { return machine.Flash.EraseBlockSize() }

func (settingsRegion) ReadAt(p []byte, off int64) (int, error) {
	return machine.Flash.ReadAt(p, settingsBase()+off)
}

func (settingsRegion) WriteAt(p []byte, off int64) (int, error) {
	return machine.Flash.WriteAt(p, settingsBase()+off)
}

func (settingsRegion) EraseBlocks(start, count int64) error {
	base := settingsBase() / machine.Flash.EraseBlockSize()
	return machine.Flash.EraseBlocks(base+start, count)
}

type rp2Mem struct{}

func (rp2Mem) HeapInfo() HeapInfo {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return HeapInfo{Base: 0, End: uintptr(ms.HeapSys), Max: uintptr(ms.HeapInuse)}
}

func (rp2Mem) StackPointer() uintptr {
	var probe byte
	return uintptr(unsafe.Pointer(&probe))
}

type rp2Power struct{}

func (rp2Power) Reset() {
	machine.CPUReset()
}
