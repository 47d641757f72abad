//go:build tinygo && !(rp2040 || rp2350)

package hal

// Unsupported TinyGo targets get the no-op HAL so the image still links.

type stubHAL struct{}

func New() HAL { return stubHAL{} }

func (stubHAL) GPIO() GPIO   { return nullGPIO{} }
func (stubHAL) ADC() ADC     { return nullADC{} }
func (stubHAL) UART() UART   { return nullUART{} }
func (stubHAL) PWM() PWM     { return nullPWM{} }
func (stubHAL) SPI() SPI     { return nil }
func (stubHAL) Flash() Flash { return nullFlash{} }
func (stubHAL) Mem() Mem     { return stubMem{} }
func (stubHAL) Power() Power { return stubPower{} }

type stubMem struct{}

func (stubMem) HeapInfo() HeapInfo    { return HeapInfo{} }
func (stubMem) StackPointer() uintptr { return 0 }

type stubPower struct{}

func (stubPower) Reset() {
	for {
	}
}
