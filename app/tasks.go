package app

import (
	"sync/atomic"

	"ember/emberos/control"
	"ember/emberos/event"
	"ember/emberos/kernel"
	"ember/emberos/task"
)

var openTerminate atomic.Bool

// TerminateOpenTask asks the parked open task to exit. Test use only: the
// flag is checked after a GlobalInvalid wake-up, which nothing sends during
// normal operation.
func TerminateOpenTask() {
	openTerminate.Store(true)
	task.SendSignal(task.Open, task.SignalGlobalInvalid)
}

// openTaskFunc runs the open phase: open every module, release the other
// tasks, collect their done-bits, then start the run phase and park.
func openTaskFunc(ctx *kernel.Context) {
	// Open time.
	setupOpen()

	task.Broadcast(task.SignalGlobalOpen, task.Open)

	requiredSigs := task.OpenBits()
	requiredSigs &^= task.OpenBit(task.Open) // own bit, nobody sends it
	for requiredSigs != 0 {
		receivedSigs := task.WaitAny(ctx)
		requiredSigs &^= receivedSigs
	}

	task.Broadcast(task.SignalGlobalRun, task.Open)
	close(running)

	// Run time: should not wake again.
	for {
		task.WaitStrict(ctx, task.SignalGlobalInvalid)

		if openTerminate.Load() {
			break
		}
	}
}

// controlTaskFunc services the controls framework: wait out the open
// phase, then forward every queued event until termination.
func controlTaskFunc(ctx *kernel.Context) {
	task.WaitStrict(ctx, task.SignalGlobalOpen)

	// Open time. The control task has no modules of its own yet.
	task.SendOpenSignal(task.Control)
	task.WaitStrict(ctx, task.SignalGlobalRun)

	// Run time.
	for {
		receivedSigs := task.WaitAny(ctx)

		if receivedSigs&uint32(task.SignalGlobalEvent) != 0 {
			handleEvents(task.Control)
		}

		if receivedSigs&uint32(task.SignalGlobalTerminate) != 0 {
			break
		}
	}
}

// handleEvents drains the task's ring and disperses each event.
func handleEvents(id task.ID) {
	evt := event.Handle(id)
	for evt.ID != event.NullEvent {
		control.DisperseEvent(evt)

		evt = event.Handle(id)
	}
}
