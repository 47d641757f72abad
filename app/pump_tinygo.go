//go:build tinygo

package app

import (
	"context"

	"github.com/jangala-dev/tinygo-uartx/uartx"

	"ember/hal"
)

// PumpConsole moves received console bytes from the IRQ-backed UART into
// the runtime's ISR path. Blocks forever; call from the platform main.
func PumpConsole(h hal.HAL) {
	type porter interface{ Port() *uartx.UART }
	p, ok := h.UART().(porter)
	if !ok {
		select {}
	}

	u := p.Port()
	for {
		b, err := u.ReadByte()
		if err != nil {
			_ = u.WaitReadable(context.Background())
			continue
		}
		ConsoleISRRead(b)
	}
}
