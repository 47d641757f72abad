package control

import (
	"fmt"
	"sync/atomic"

	"ember/emberos/event"
	"ember/emberos/fault"
	"ember/emberos/io"
	"ember/emberos/settings"
)

// EvtPrint mirrors every dispatched event onto the console, gated by the
// trace-mask setting (bit per event id). Disabled by default; useful when
// chasing event-flow problems in the field.
type EvtPrint struct {
	Base
	ConsoleID io.ID

	console io.Output

	traceMask atomic.Uint32
}

// NewEvtPrint builds the event tracer bound to the console element.
func NewEvtPrint(consoleID io.ID, enabled bool) *EvtPrint {
	e := &EvtPrint{
		Base:      Base{ControlName: "EvtPrint", On: enabled},
		ConsoleID: consoleID,
	}
	e.traceMask.Store(0xFFFFFFFF)
	return e
}

func (e *EvtPrint) InitControl() {
	e.console = io.OutputByID(e.ConsoleID)
}

func (e *EvtPrint) HandleEvent(evt event.Event) HandleStatus {
	if e.console == nil {
		return NotHandled
	}
	if e.traceMask.Load()&(1<<uint32(evt.ID)) == 0 {
		return NotHandled
	}

	info := event.GetQueueInfo(event.OwnerTask(evt.ID))
	str := fmt.Sprintf("evt id:%d, arg:%v, task:%d, size:%d\r\n",
		uint32(evt.ID), evt.Arg, uint32(evt.Task),
		info.RearPos-info.FrontPos+1)
	io.Set(e.console, str)

	return NotHandled
}

func (e *EvtPrint) GetParam(id settings.ID) (settings.Arg, error) {
	if id != settings.TraceMask {
		return settings.Arg{}, fault.UnknownType
	}
	return settings.Arg{U32: e.traceMask.Load()}, nil
}

func (e *EvtPrint) SetParam(id settings.ID, v settings.Arg, bootup bool) error {
	if id != settings.TraceMask {
		return fault.UnknownType
	}
	e.traceMask.Store(v.U32)
	return nil
}
