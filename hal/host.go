//go:build !tinygo

package hal

import (
	"io"
	"os"
)

// hostHAL bundles the simulated devices the host build runs against.
type hostHAL struct {
	gpio  *VirtualGPIO
	adc   *VirtualADC
	uart  *WriterUART
	pwm   *VirtualPWM
	spi   LoopbackSPI
	flash Flash
	mem   hostMem
	power Power
}

func (h *hostHAL) GPIO() GPIO   { return h.gpio }
func (h *hostHAL) ADC() ADC     { return h.adc }
func (h *hostHAL) UART() UART   { return h.uart }
func (h *hostHAL) PWM() PWM     { return h.pwm }
func (h *hostHAL) SPI() SPI     { return h.spi }
func (h *hostHAL) Flash() Flash { return h.flash }
func (h *hostHAL) Mem() Mem     { return h.mem }
func (h *hostHAL) Power() Power { return h.power }

// NewHost builds the interactive host HAL: console on stdout, flash backed
// by the image file at flashPath.
func NewHost(flashPath string) (HAL, error) {
	dev, err := NewHostFlash(flashPath)
	if err != nil {
		return nil, err
	}
	return &hostHAL{
		gpio:  NewVirtualGPIO(),
		adc:   NewVirtualADC(),
		uart:  NewWriterUART(os.Stdout),
		pwm:   NewVirtualPWM(),
		flash: NewBlockFlash(dev),
		power: hostPower{},
	}, nil
}

// Sim is a fully in-memory HAL for tests, with the concrete devices
// exposed so tests can drive levels and inspect state.
type Sim struct {
	HAL
	GPIOSim  *VirtualGPIO
	ADCSim   *VirtualADC
	PWMSim   *VirtualPWM
	FlashDev *MemFlash
}

// NewSim builds a Sim: console captured into the writer, flash on a fresh
// MemFlash.
func NewSim(console io.Writer) *Sim {
	gpio := NewVirtualGPIO()
	adc := NewVirtualADC()
	pwm := NewVirtualPWM()
	dev := NewMemFlash(hostFlashDefaultSizeBytes)
	h := &hostHAL{
		gpio:  gpio,
		adc:   adc,
		uart:  NewWriterUART(console),
		pwm:   pwm,
		flash: NewBlockFlash(dev),
		power: simPower{},
	}
	return &Sim{HAL: h, GPIOSim: gpio, ADCSim: adc, PWMSim: pwm, FlashDev: dev}
}

// simPower logs the request instead of exiting, so tests stay alive.
type simPower struct{}

func (simPower) Reset() { println("reset requested") }
