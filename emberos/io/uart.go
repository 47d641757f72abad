package io

import (
	"sync/atomic"

	"ember/emberos/event"
	"ember/emberos/fault"
)

// RcvdQueueSize is the UART receive ring capacity. Keystroke throughput
// cannot exceed this in steady state: the ISR claims slots and a full ring
// is a contract fault.
const RcvdQueueSize = 64

// UART binds a serial port into the IO universe as a text element: input
// drains the receive ring, output sends through the HAL.
type UART struct {
	IO
	Handle uint32

	rxRear  atomic.Uint32
	rxFront uint16
	rxBuf   [RcvdQueueSize]byte

	isrEnabled atomic.Bool
}

// ISRRead appends one received byte to the ring and posts a UART-input
// event. Runs in interrupt context; overflow loses data and is fatal.
func (u *UART) ISRRead(c byte) {
	pos := uint16(u.rxRear.Add(1)-1) % RcvdQueueSize
	next := (pos + 1) % RcvdQueueSize

	fault.Invariant(next != u.rxFront%RcvdQueueSize, fault.QueueOverflow)

	u.rxBuf[pos] = c

	if !u.isrEnabled.Load() {
		return
	}

	event.Post(event.ControlUARTInput, nil)
}

// Produce drains everything buffered so far into one text value. Only the
// owning task consumes; the ISR only advances the rear.
func (u *UART) Produce() Word {
	rear := uint16(u.rxRear.Load()) % RcvdQueueSize

	var out [RcvdQueueSize]byte
	cnt := 0
	for u.rxFront != rear {
		fault.Invariant(cnt <= RcvdQueueSize, fault.InvalidLength)
		out[cnt] = u.rxBuf[u.rxFront]
		u.rxFront = (u.rxFront + 1) % RcvdQueueSize
		cnt++
	}

	return TextWord(string(out[:cnt]))
}

func (u *UART) Consume(w Word) {
	_ = sys.UART().Send(u.Handle, w.Text)
}

func (u *UART) Init() {
	if u.guardInit() {
		return
	}

	u.rxRear.Store(0)
	u.rxFront = 0

	u.initInputInfo(ElemText, FamilyUART)
	u.initOutputInfo(ElemText, FamilyUART)

	err := sys.UART().Open(u.Handle)

	u.isrEnabled.Store(true)

	fault.Ensure(err == nil, fault.DeviceInitFailed)
}
