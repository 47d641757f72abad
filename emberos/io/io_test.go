package io

import (
	"testing"

	"ember/emberos/event"
	"ember/emberos/fault"
	"ember/emberos/task"
	"ember/hal"
)

func TestMain(m *testing.M) {
	fault.SetPolicy(fault.PolicyPropagate)
	m.Run()
}

func testUniverse(t *testing.T) (*hal.Sim, *UART, *GPIOPin, *GPIOPin, *ADCChannel) {
	t.Helper()

	event.Init([]event.Binding{
		{Task: task.Control, Event: event.ControlUARTInput},
	})

	sim := hal.NewSim(nil)
	console := &UART{IO: IO{ID: 1, Name: "console"}}
	led := &GPIOPin{IO: IO{ID: 2, Name: "led"}, Port: 0, Pin: 25, Active: hal.ActiveHigh, AsOutput: true}
	button := &GPIOPin{IO: IO{ID: 3, Name: "button"}, Port: 0, Pin: 2, Active: hal.ActiveLow, AsInput: true}
	vsys := &ADCChannel{IO: IO{ID: 4, Name: "vsys"}, Port: 0, Pin: 29}

	Configure(sim.HAL,
		[]Input{console, button, vsys},
		[]Output{console, led})
	Open()
	return sim, console, led, button, vsys
}

func TestDirectionFusion(t *testing.T) {
	_, console, led, button, _ := testUniverse(t)

	if console.Direction != DirInputOutput {
		t.Fatalf("console direction = %v, want input+output", console.Direction)
	}
	if led.Direction != DirOutput {
		t.Fatalf("led direction = %v", led.Direction)
	}
	if button.Direction != DirInput {
		t.Fatalf("button direction = %v", button.Direction)
	}
}

func TestInitRunsOnce(t *testing.T) {
	_, console, _, _, _ := testUniverse(t)

	dir := console.Direction
	console.Init() // guarded re-entry
	if console.Direction != dir {
		t.Fatal("re-init changed state")
	}
}

func TestTypedGpioRoundTrip(t *testing.T) {
	sim, _, led, button, _ := testUniverse(t)

	Set(led, true)
	if !sim.GPIOSim.Level(0, 25) {
		t.Fatal("led not driven high")
	}
	Set(led, false)
	if sim.GPIOSim.Level(0, 25) {
		t.Fatal("led not driven low")
	}

	sim.GPIOSim.SetLevel(0, 2, true)
	if !Get[bool](button) {
		t.Fatal("button read low")
	}
}

func TestActiveLowOutput(t *testing.T) {
	sim, _, _, _, _ := testUniverse(t)
	lowLED := &GPIOPin{IO: IO{ID: 6, Name: "low-led"}, Port: 0, Pin: 7, Active: hal.ActiveLow, AsOutput: true}
	lowLED.Init()

	Set(lowLED, true)
	if sim.GPIOSim.Level(0, 7) {
		t.Fatal("active-low set should drive the pin low")
	}
}

func TestTypeMismatchFaults(t *testing.T) {
	_, _, _, button, _ := testUniverse(t)

	var err error
	func() {
		defer fault.Recover(&err)
		Get[uint32](button)
	}()
	if fault.Of(err) != fault.InvalidType {
		t.Fatalf("err = %v, want InvalidType", err)
	}
}

func TestADCVoltsConversion(t *testing.T) {
	sim, _, _, _, vsys := testUniverse(t)

	// Full scale reads the reference voltage.
	sim.ADCSim.SetRaw(0, 29, 1<<12-1)
	v := Get[float32](vsys)
	if v < 3.29 || v > 3.31 {
		t.Fatalf("full-scale volts = %f", v)
	}

	sim.ADCSim.SetRaw(0, 29, 0)
	if v := Get[float32](vsys); v != 0 {
		t.Fatalf("zero-scale volts = %f", v)
	}
}

func TestLookupByIDAndName(t *testing.T) {
	_, console, led, _, _ := testUniverse(t)

	if InputByID(1) != Input(console) {
		t.Fatal("input lookup by id failed")
	}
	if OutputByName("led") != Output(led) {
		t.Fatal("output lookup by name failed")
	}
	if ByName("nosuch") != nil {
		t.Fatal("bogus name resolved")
	}
	if ByID(99) != nil {
		t.Fatal("bogus id resolved")
	}
	if GetType(2) != FamilyGPIO {
		t.Fatalf("family = %v", GetType(2))
	}
}

func TestPrintFlagToggles(t *testing.T) {
	_, console, _, _, _ := testUniverse(t)

	b := ByID(1)
	if b == nil || b.PrintIO {
		t.Fatal("console should start quiet")
	}
	b.PrintIO = true
	if !console.Base().PrintIO {
		t.Fatal("flag did not propagate")
	}
	b.PrintIO = false
}

func TestUARTRingDrains(t *testing.T) {
	_, console, _, _, _ := testUniverse(t)

	for _, b := range []byte("help\r") {
		console.ISRRead(b)
	}
	got := Get[string](console)
	if got != "help\r" {
		t.Fatalf("drained %q", got)
	}

	if got := Get[string](console); got != "" {
		t.Fatalf("second drain = %q, want empty", got)
	}
}

func TestUARTRingOverflowFaults(t *testing.T) {
	_, console, _, _, _ := testUniverse(t)

	var err error
	func() {
		defer fault.Recover(&err)
		for i := 0; i < RcvdQueueSize+1; i++ {
			console.ISRRead('x')
		}
	}()
	if fault.Of(err) != fault.QueueOverflow {
		t.Fatalf("err = %v, want QueueOverflow", err)
	}
}
