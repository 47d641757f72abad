// Package periodic schedules recurring callbacks at millisecond
// granularity. A single continuous kernel software timer drives the whole
// table; each entry fires when its own period has elapsed.
package periodic

import (
	"ember/emberos/fault"
	"ember/emberos/kernel"
)

// FidelityMs is the resolution of the backing timer.
const FidelityMs = 1

// ID names one periodic callback.
type ID uint8

const (
	// Heartbeat drives the steady-state liveness blink.
	Heartbeat ID = iota
	// AdcPoll triggers background ADC conversions.
	AdcPoll

	NumIDs
)

// CallbackFunc receives the current millisecond tick.
type CallbackFunc func(nowMs uint32)

type record struct {
	periodMs uint32
	callback CallbackFunc

	enabled    bool
	lastCallMs uint32
}

var table [NumIDs]record

var timerCreated bool

func callCallbacks(nowMs uint32) {
	for i := range table {
		r := &table[i]
		elapsed := nowMs-r.lastCallMs >= r.periodMs
		if r.enabled && elapsed {
			fault.Invariant(r.callback != nil, fault.InvalidPointer)
			r.lastCallMs = nowMs
			r.callback(nowMs)
		}
	}
}

func createTimer() {
	if timerCreated {
		return
	}
	err := kernel.TimerCreate(kernel.TimerPeriodic, callCallbacks, FidelityMs, true)
	fault.Invariant(err == nil, fault.InitFailed)
	timerCreated = true
}

func startTimer() {
	createTimer()
	if kernel.TimerIsRunning(kernel.TimerPeriodic) {
		return
	}
	kernel.TimerStart(kernel.TimerPeriodic)
}

func stopTimer() {
	createTimer()

	// Once the shared timer runs it is left running; disabled entries are
	// simply skipped on tick. Stopping here would starve the other
	// periodics between stop and the next start.
	if kernel.TimerIsRunning(kernel.TimerPeriodic) {
		return
	}
	kernel.TimerStop(kernel.TimerPeriodic)
}

// Create stores the period and callback. Redefining either field with a
// different value while the periodic is enabled is a contract fault.
func Create(id ID, periodMs uint32, fn CallbackFunc) {
	fault.Require(id < NumIDs, fault.InvalidID)
	fault.Require(periodMs > 0, fault.InvalidTime)
	fault.Require(fn != nil, fault.InvalidPointer)

	kernel.MutexTake(kernel.MutexPeriodic)
	defer kernel.MutexGive(kernel.MutexPeriodic)

	r := &table[id]
	if r.enabled {
		fault.Invariant(r.periodMs == periodMs, fault.TooManyAttempts)
		fault.Invariant(sameFunc(r.callback, fn), fault.TooManyAttempts)
	} else {
		r.periodMs = periodMs
		r.callback = fn
	}
}

// Start enables the periodic and ensures the shared timer runs.
func Start(id ID) {
	fault.Require(id < NumIDs, fault.InvalidID)
	fault.Require(table[id].callback != nil, fault.InvalidPointer)

	kernel.MutexTake(kernel.MutexPeriodic)
	defer kernel.MutexGive(kernel.MutexPeriodic)

	table[id].lastCallMs = kernel.NowMs()
	table[id].enabled = true
	startTimer()
}

// Stop disables the periodic. The shared timer keeps running for the
// benefit of any other enabled entry.
func Stop(id ID) {
	fault.Require(id < NumIDs, fault.InvalidID)

	kernel.MutexTake(kernel.MutexPeriodic)
	defer kernel.MutexGive(kernel.MutexPeriodic)

	table[id].enabled = false
	stopTimer()
}

// Period returns the configured period, for diagnostics and tests.
func Period(id ID) uint32 {
	fault.Require(id < NumIDs, fault.InvalidID)
	return table[id].periodMs
}

// Enabled reports whether the periodic is currently running.
func Enabled(id ID) bool {
	fault.Require(id < NumIDs, fault.InvalidID)
	return table[id].enabled
}

func sameFunc(a, b CallbackFunc) bool {
	// Function values are not comparable in Go; the redefinition check
	// compares identity through the pointer the runtime hands us.
	return funcPtr(a) == funcPtr(b)
}
