// Package hal is the only contact point between the application runtime and
// the hardware. Each concern is one small interface; platforms provide
// implementations behind build tags, and entries a platform does not supply
// are no-ops returning success.
package hal

import (
	"errors"

	"tinygo.org/x/drivers"
)

var ErrNotImplemented = errors.New("not implemented")

// ActiveState encodes whether a pin is active-high or active-low.
type ActiveState uint8

const (
	ActiveHigh ActiveState = iota
	ActiveLow
)

// GPIO provides digital pin access keyed by (port, pin).
type GPIO interface {
	Read(port, pin uint32) bool
	// Set drives the pin to its active level.
	Set(port, pin uint32, active ActiveState) error
	// Reset drives the pin to its inactive level.
	Reset(port, pin uint32, active ActiveState) error
}

// ADC provides raw analogue conversions. The application converts raw
// counts to volts as Vref × raw / (2^bits − 1).
type ADC interface {
	Open() error
	Read(port, pin uint32) uint32
	BitWidth(port, pin uint32) uint32
	RefVolts() float32
	StartConversion()
}

// UART provides transmit access to a serial port. Receive enters the
// application through the ISR byte path, not through this interface.
type UART interface {
	Open(handle uint32) error
	Send(handle uint32, s string) error
}

// PWM provides duty-cycle outputs.
type PWM interface {
	SetDuty(port, pin, duty uint32) error
}

// SPI is the transfer interface auxiliary SPI ports speak.
type SPI = drivers.SPI

// Flash provides raw access to the settings region of the non-volatile
// memory. Addresses are offsets into that region.
type Flash interface {
	Read(addr uint32, buf []byte) error
	Write(addr uint32, buf []byte) error
	Erase(sectorAddr uint32) error
	// Align rounds v up to the device's minimum programming granularity.
	Align(v uint32) uint32
	SectorSize() uint32
}

// HeapInfo reports the allocator's footprint.
type HeapInfo struct {
	Base uintptr
	End  uintptr
	Max  uintptr
}

// Mem exposes heap and stack diagnostics.
type Mem interface {
	HeapInfo() HeapInfo
	StackPointer() uintptr
}

// Power exposes the unconditional system reset.
type Power interface {
	Reset()
}

// HAL bundles the per-concern interfaces for one platform.
type HAL interface {
	GPIO() GPIO
	ADC() ADC
	UART() UART
	PWM() PWM
	SPI() SPI
	Flash() Flash
	Mem() Mem
	Power() Power
}
