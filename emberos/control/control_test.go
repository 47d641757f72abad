package control

import (
	"testing"

	"ember/emberos/event"
	"ember/emberos/fault"
	"ember/emberos/settings"
	"ember/emberos/task"
)

func TestMain(m *testing.M) {
	fault.SetPolicy(fault.PolicyPropagate)
	m.Run()
}

// fake is a scriptable control for framework tests.
type fake struct {
	Base
	claims bool
	seen   []event.ID
	inited int
}

func (f *fake) InitControl() { f.inited++ }

func (f *fake) HandleEvent(e event.Event) HandleStatus {
	f.seen = append(f.seen, e.ID)
	if f.claims {
		return Handled
	}
	return NotHandled
}

func bind() {
	event.Init([]event.Binding{
		{Task: task.Control, Event: event.ControlUARTInput},
	})
}

func TestDisperseStopsAtFirstClaim(t *testing.T) {
	bind()
	a := &fake{Base: Base{ControlName: "alpha", On: true}, claims: true}
	b := &fake{Base: Base{ControlName: "beta", On: true}}
	Register([]Control{a, b})
	Open()

	DisperseEvent(event.Event{ID: event.ControlUARTInput, Task: task.Control})

	if len(a.seen) != 1 {
		t.Fatalf("first control saw %d events", len(a.seen))
	}
	if len(b.seen) != 0 {
		t.Fatal("walk continued past a claiming control")
	}
	if a.inited != 1 || b.inited != 1 {
		t.Fatal("init counts wrong")
	}
}

func TestDisperseSkipsDisabled(t *testing.T) {
	bind()
	a := &fake{Base: Base{ControlName: "alpha", On: false}}
	b := &fake{Base: Base{ControlName: "beta", On: true}}
	Register([]Control{a, b})

	DisperseEvent(event.Event{ID: event.ControlUARTInput, Task: task.Control})

	if len(a.seen) != 0 {
		t.Fatal("disabled control received an event")
	}
	if len(b.seen) != 1 {
		t.Fatal("enabled control missed the event")
	}
}

func TestByNamePrefixFirstMatchWins(t *testing.T) {
	a := &fake{Base: Base{ControlName: "CLI"}}
	b := &fake{Base: Base{ControlName: "CL"}}
	Register([]Control{a, b})

	if got := ByName("CLI"); got != Control(a) {
		t.Fatalf("ByName(CLI) = %v", got)
	}
	// "CLx" is prefixed by "CL" only; "CL" registered second still wins
	// since "CLI" does not prefix it.
	if got := ByName("CLx"); got != Control(b) {
		t.Fatalf("ByName(CLx) = %v", got)
	}
	if ByName("nope") != nil {
		t.Fatal("bogus name resolved")
	}
}

func TestListRendersState(t *testing.T) {
	a := &fake{Base: Base{ControlName: "alpha", On: true}}
	b := &fake{Base: Base{ControlName: "beta", On: false}}
	Register([]Control{a, b})

	want := "alpha: enabled\r\nbeta: disabled\r\n"
	if got := List(); got != want {
		t.Fatalf("List() = %q, want %q", got, want)
	}
}

func TestParamWalkStopsAtOwner(t *testing.T) {
	bind()
	tracer := NewEvtPrint(1, false)
	plain := &fake{Base: Base{ControlName: "plain", On: true}}
	Register([]Control{plain, tracer})

	if err := SetParam(settings.TraceMask, settings.Arg{U32: 0xAB}, false); err != nil {
		t.Fatal(err)
	}
	arg, err := GetParam(settings.TraceMask)
	if err != nil {
		t.Fatal(err)
	}
	if arg.U32 != 0xAB {
		t.Fatalf("trace mask = %#x", arg.U32)
	}

	// A setting no control owns reports clean defaults.
	arg, err = GetParam(settings.DeviceName)
	if err != nil || arg != (settings.Arg{}) {
		t.Fatalf("unowned walk: %+v, %v", arg, err)
	}
}
