// Package app wires the firmware together: it installs the build-time
// tables, binds the platform HAL into the runtime and drives the two-phase
// start-up through the task layer.
package app

import (
	"ember/emberos/control"
	"ember/emberos/event"
	"ember/emberos/fault"
	"ember/emberos/io"
	"ember/emberos/settings"
	"ember/emberos/task"
	"ember/hal"
)

var (
	sys hal.HAL

	// running is closed once the open task broadcasts the run phase.
	running = make(chan struct{})
)

// Run brings the device from reset to steady state: configure the module
// tables, create the tasks and start the scheduler. It returns immediately;
// Running reports when the run phase has begun.
func Run(h hal.HAL) {
	sys = h

	fault.SetResetHandler(h.Power().Reset)

	io.Configure(h, inputList, outputList)
	settings.Configure(settingsTable())
	settings.ConfigureBackend(h.Flash())
	control.Register(controlList())
	event.Init(eventBindings)
	task.Configure(taskTable())

	task.Init()
	task.Start()
}

// Running is closed once every task has passed the open barrier.
func Running() <-chan struct{} { return running }

// ConsoleISRRead feeds one received console byte into the runtime. The
// host's stdin pump and the UART IRQ path both land here.
func ConsoleISRRead(b byte) { Console.ISRRead(b) }
