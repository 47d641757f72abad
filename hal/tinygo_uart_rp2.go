//go:build tinygo && baremetal && (rp2040 || rp2350)

package hal

import (
	"machine"

	"github.com/jangala-dev/tinygo-uartx/uartx"
)

// rp2UART drives the console over uartx's IRQ-backed UART0. Received bytes
// are pumped into the application ISR path by the blocking reader loop in
// the platform glue (app.PumpConsole).
type rp2UART struct {
	u *uartx.UART
}

func newRP2UART() *rp2UART {
	return &rp2UART{u: uartx.UART0}
}

func (u *rp2UART) Open(handle uint32) error {
	_ = handle // single console port
	return u.u.Configure(uartx.UARTConfig{
		BaudRate: 115200,
		TX:       machine.UART0_TX_PIN,
		RX:       machine.UART0_RX_PIN,
	})
}

func (u *rp2UART) Send(handle uint32, s string) error {
	_, err := u.u.Write([]byte(s))
	return err
}

// Port exposes the underlying uartx device for the RX pump.
func (u *rp2UART) Port() *uartx.UART { return u.u }
