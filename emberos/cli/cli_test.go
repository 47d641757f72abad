package cli_test

import (
	"bytes"
	"strings"
	"testing"

	"ember/emberos/cli"
	"ember/emberos/control"
	"ember/emberos/event"
	"ember/emberos/fault"
	"ember/emberos/io"
	"ember/emberos/task"
	"ember/hal"
)

func TestMain(m *testing.M) {
	fault.SetPolicy(fault.PolicyPropagate)
	m.Run()
}

type harness struct {
	buf     *bytes.Buffer
	console *io.UART
}

// newHarness wires a console-only IO universe with the CLI as the sole
// control and swallows the boot banner.
func newHarness(t *testing.T) *harness {
	t.Helper()

	event.Init([]event.Binding{
		{Task: task.Control, Event: event.ControlUARTInput},
		{Task: task.Control, Event: event.ControlUpdateCLIState},
		{Task: task.Control, Event: event.ControlCLIOutput},
	})

	buf := &bytes.Buffer{}
	sim := hal.NewSim(buf)
	console := &io.UART{IO: io.IO{ID: 1, Name: "console"}}
	io.Configure(sim.HAL, []io.Input{console}, []io.Output{console})
	io.Open()

	control.Register([]control.Control{cli.New(1, true)})
	control.Open()

	h := &harness{buf: buf, console: console}
	h.drain()
	buf.Reset()
	return h
}

// send feeds bytes through the ISR path and services the control task's
// ring until it drains, the way the run loop would.
func (h *harness) send(s string) {
	for i := 0; i < len(s); i++ {
		h.console.ISRRead(s[i])
	}
	h.drain()
}

func (h *harness) drain() {
	for {
		evt := event.Handle(task.Control)
		if evt.ID == event.NullEvent {
			return
		}
		control.DisperseEvent(evt)
	}
}

func (h *harness) out() string { return h.buf.String() }

func TestBannerAndFirstPrompt(t *testing.T) {
	event.Init([]event.Binding{
		{Task: task.Control, Event: event.ControlUARTInput},
		{Task: task.Control, Event: event.ControlUpdateCLIState},
		{Task: task.Control, Event: event.ControlCLIOutput},
	})
	buf := &bytes.Buffer{}
	sim := hal.NewSim(buf)
	console := &io.UART{IO: io.IO{ID: 1, Name: "console"}}
	io.Configure(sim.HAL, []io.Input{console}, []io.Output{console})
	io.Open()
	control.Register([]control.Control{cli.New(1, true)})
	control.Open()

	got := buf.String()
	if !strings.Contains(got, "Starting Command Line Interface:") {
		t.Fatalf("banner missing: %q", got)
	}
	if !strings.HasSuffix(got, "\r\n>") {
		t.Fatalf("no prompt after banner: %q", got)
	}
}

func TestEmptyDispatchRedrawsPrompt(t *testing.T) {
	h := newHarness(t)

	h.send("\r")

	out := h.out()
	if !strings.HasSuffix(out, "\r\n>") {
		t.Fatalf("prompt not redrawn: %q", out)
	}
	if strings.Contains(out, "Invalid") {
		t.Fatalf("empty line dispatched a command: %q", out)
	}
}

func TestCRLFPairDispatchesOnce(t *testing.T) {
	h := newHarness(t)

	h.send("help\r\n")

	out := h.out()
	if strings.Count(out, "help: lists all commands") != 1 {
		t.Fatalf("help ran %d times: %q",
			strings.Count(out, "help: lists all commands"), out)
	}
}

func TestHelpListsCommands(t *testing.T) {
	h := newHarness(t)

	h.send("help\r")

	out := h.out()
	for _, want := range []string{
		"help: lists all commands\r\n",
		"reboot: resets the system\r\n",
		"io-get: reads the given input\r\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("help output missing %q", want)
		}
	}
	if !strings.HasSuffix(out, "\r\n>") {
		t.Fatalf("no fresh prompt: %q", out)
	}
}

func TestInvalidCommand(t *testing.T) {
	h := newHarness(t)

	h.send("nosuch\r")

	out := h.out()
	if !strings.Contains(out, "Invalid Command\r\nPlease type 'help' for a list of commands\r\n") {
		t.Fatalf("missing invalid banner: %q", out)
	}
	if !strings.HasSuffix(out, "\r\n>") {
		t.Fatalf("no fresh prompt: %q", out)
	}
}

func TestCommandPrefixNeedsBoundary(t *testing.T) {
	h := newHarness(t)

	h.send("helpme\r")

	if !strings.Contains(h.out(), "Invalid Command") {
		t.Fatalf("helpme matched help: %q", h.out())
	}
}

func TestTabCompletesUniquePrefix(t *testing.T) {
	h := newHarness(t)

	h.send("h\t")
	if !strings.HasSuffix(h.out(), ">help") {
		t.Fatalf("tab did not complete: %q", h.out())
	}

	h.send("\r")
	if !strings.Contains(h.out(), "help: lists all commands") {
		t.Fatalf("completed command did not run: %q", h.out())
	}
}

func TestTabListsMultipleMatches(t *testing.T) {
	h := newHarness(t)

	h.send("io-\t")

	out := h.out()
	if !strings.Contains(out, "io-get io-set io-print io-quiet io-list ") {
		t.Fatalf("match list missing: %q", out)
	}
	if !strings.HasSuffix(out, ">io-") {
		t.Fatalf("prompt not redrawn with pending buffer: %q", out)
	}
	if strings.Contains(out, "Invalid") {
		t.Fatalf("tab ran a command: %q", out)
	}
}

func TestTabNoMatchIsNoop(t *testing.T) {
	h := newHarness(t)

	h.send("zz\t")

	if !strings.HasSuffix(h.out(), ">zz") {
		t.Fatalf("unexpected output: %q", h.out())
	}
}

func TestUpArrowRecallsAndReruns(t *testing.T) {
	h := newHarness(t)

	h.send("help\r")
	h.send("\x1b[A")

	out := h.out()
	if !strings.Contains(out, "B") {
		t.Fatal("no terminal response to the arrow")
	}
	if !strings.HasSuffix(out, ">help") {
		t.Fatalf("history not echoed: %q", out)
	}

	h.send("\r")
	if strings.Count(h.out(), "help: lists all commands") != 2 {
		t.Fatalf("recalled command did not rerun: %q", h.out())
	}
}

func TestUpArrowRecallsInvalidLine(t *testing.T) {
	h := newHarness(t)

	h.send("nosuch\r")
	h.send("\x1b[A\r")

	if strings.Count(h.out(), "Invalid Command") != 2 {
		t.Fatalf("history skipped invalid dispatch: %q", h.out())
	}
}

func TestDownArrowForcesEmptyDispatch(t *testing.T) {
	h := newHarness(t)

	h.send("\x1b[B")

	out := h.out()
	if !strings.HasSuffix(out, "\r\n>") {
		t.Fatalf("no prompt after down-arrow: %q", out)
	}
	if strings.Contains(out, "Invalid") {
		t.Fatalf("down-arrow dispatched text: %q", out)
	}
}

func TestBackspaceAtZeroRedrawsPrompt(t *testing.T) {
	h := newHarness(t)

	h.send("\x08")

	if !strings.HasSuffix(h.out(), "\r\n>") {
		t.Fatalf("prompt not redrawn: %q", h.out())
	}
}

func TestBackspaceEditsBuffer(t *testing.T) {
	h := newHarness(t)

	// "helpx" minus the x dispatches as help.
	h.send("helpx\x7f\r")

	if !strings.Contains(h.out(), "help: lists all commands") {
		t.Fatalf("edited line did not run: %q", h.out())
	}
}

func TestKeystrokesWhileBusyAreReplayed(t *testing.T) {
	h := newHarness(t)

	// Flip the CLI into ExecutingCommand by servicing only the first
	// input event, then land a second line while it is busy. The pending
	// input events must be re-posted and the line must run afterwards.
	for i := 0; i < len("help\r"); i++ {
		h.console.ISRRead("help\r"[i])
	}
	evt := event.Handle(task.Control)
	control.DisperseEvent(evt)

	h.send("nosuch\r")

	out := h.out()
	if !strings.Contains(out, "help: lists all commands") {
		t.Fatalf("first command lost: %q", out)
	}
	if !strings.Contains(out, "Invalid Command") {
		t.Fatalf("second line lost: %q", out)
	}
}

func TestArgumentTokenisation(t *testing.T) {
	h := newHarness(t)

	// control-list takes no args; control-on with none complains.
	h.send("control-on\r")
	if !strings.Contains(h.out(), "Invalid Number of Arguments") {
		t.Fatalf("argc check missing: %q", h.out())
	}

	h.buf.Reset()
	h.send("control-on CLI\r")
	if strings.Contains(h.out(), "Invalid") {
		t.Fatalf("good invocation rejected: %q", h.out())
	}
}
