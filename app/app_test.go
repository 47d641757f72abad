package app_test

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"ember/app"
	"ember/emberos/fault"
	"ember/hal"
)

// syncBuf is the console capture shared between the control task and the
// test goroutine.
type syncBuf struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuf) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuf) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

var (
	console = &syncBuf{}
	bootOne sync.Once
)

// boot runs the full two-phase start-up once for the whole test binary.
func boot(t *testing.T) {
	t.Helper()
	bootOne.Do(func() {
		sim := hal.NewSim(console)
		app.Run(sim.HAL)
	})

	select {
	case <-app.Running():
	case <-time.After(2 * time.Second):
		t.Fatal("open barrier never released the run phase")
	}

	// The boot defaults select the production reboot policy; tests want
	// propagation.
	fault.SetPolicy(fault.PolicyPropagate)
}

func (b *syncBuf) waitFor(t *testing.T, substr string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(b.String(), substr) {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("console never showed %q; got %q", substr, b.String())
}

func typeLine(line string) {
	for i := 0; i < len(line); i++ {
		app.ConsoleISRRead(line[i])
	}
	app.ConsoleISRRead('\r')
}

func TestBootReachesPrompt(t *testing.T) {
	boot(t)

	console.waitFor(t, "Starting Command Line Interface:")
	console.waitFor(t, ">")
}

func TestHelpOverTheWire(t *testing.T) {
	boot(t)
	console.waitFor(t, ">")

	typeLine("help")
	console.waitFor(t, "help: lists all commands\r\n")
}

func TestDeviceNameSettingRoundTrip(t *testing.T) {
	boot(t)
	console.waitFor(t, ">")

	typeLine("setting-set 1 rig-7")
	console.waitFor(t, ">")

	typeLine("setting-get 1")
	console.waitFor(t, "rig-7\r\n")

	if app.DeviceName() != "rig-7" {
		t.Fatalf("module-side name = %q", app.DeviceName())
	}
}

func TestVersionSettingIsReadOnly(t *testing.T) {
	boot(t)
	console.waitFor(t, ">")

	typeLine("setting-get 2")
	console.waitFor(t, "dev\r\n")

	before := app.DeviceName()
	typeLine("setting-set 2 hacked")
	console.waitFor(t, ">")
	if app.DeviceName() != before {
		t.Fatal("write leaked into another setting")
	}
}

func TestControlListOverTheWire(t *testing.T) {
	boot(t)
	console.waitFor(t, ">")

	typeLine("control-list")
	console.waitFor(t, "CLI: enabled\r\n")
	console.waitFor(t, "EvtPrint: disabled\r\n")
}
