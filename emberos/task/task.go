// Package task owns the finite set of application tasks and the signalling
// protocol between them: broadcast and point-to-point signals, the
// open-phase barrier bits, and stack diagnostics.
package task

import (
	"fmt"

	"ember/emberos/fault"
	"ember/emberos/kernel"
)

// ID names one application task. The set is fixed at build time.
type ID uint8

const (
	// Open runs the open phase and owns the start-up barrier.
	Open ID = iota
	// Control services the controls framework's event queue.
	Control

	NumIDs
)

// Signal is a bitwise task notification. The low NumIDs bits are reserved
// for the per-task open done-bits aimed at the open task.
type Signal uint32

const (
	// SignalGlobalInvalid is a bit nothing sends in normal operation;
	// waiting on it parks a task until a test sends it.
	SignalGlobalInvalid Signal = 1 << 27
	// SignalGlobalOpen starts open-phase work.
	SignalGlobalOpen Signal = 1 << 28
	// SignalGlobalRun starts run-phase work.
	SignalGlobalRun Signal = 1 << 29
	// SignalGlobalEvent reports that a queued event awaits.
	SignalGlobalEvent Signal = 1 << 30
	// SignalGlobalTerminate requests a graceful exit (test use).
	SignalGlobalTerminate Signal = 1 << 31
)

const signalMask = uint32(SignalGlobalInvalid|SignalGlobalOpen|SignalGlobalRun|
	SignalGlobalEvent|SignalGlobalTerminate) | (1<<uint32(NumIDs) - 1)

// Priority orders task scheduling, highest first.
type Priority uint32

const (
	PriorityLowest Priority = iota
	PriorityLow
	PriorityMedium
	PriorityHigh
	PriorityHighest
)

// Func is a task entry point.
type Func func(ctx *kernel.Context)

// Desc declares one task in the build-time table.
type Desc struct {
	ID         ID
	Name       string
	Priority   Priority
	StackDepth uint32
	Entry      Func
}

type record struct {
	Desc
	openBit uint32
	handle  *kernel.Task
}

var (
	table  [NumIDs]record
	inited bool
)

// Configure installs the build-time task table. Every task gets the open
// done-bit matching its ordinal.
func Configure(descs []Desc) {
	fault.Require(len(descs) == int(NumIDs), fault.InvalidLength)
	for _, d := range descs {
		fault.Require(d.ID < NumIDs, fault.InvalidID)
		fault.Require(d.Entry != nil, fault.InvalidPointer)
		table[d.ID] = record{Desc: d, openBit: 1 << uint32(d.ID)}
	}
	inited = false
}

// Init creates every task through the kernel. Calling it twice is a
// contract fault.
func Init() {
	fault.Require(!inited, fault.TooManyAttempts)

	for i := range table {
		r := &table[i]
		fault.Require(r.Entry != nil, fault.InvalidPointer)
		h, err := kernel.CreateTask(r.Entry, uint32(r.ID), r.StackDepth, uint32(r.Priority))
		fault.Ensure(err == nil, fault.DeviceInitFailed)
		r.handle = h
	}

	inited = true
}

// Start hands the created tasks to the kernel scheduler.
func Start() { kernel.Start() }

// Num returns the number of tasks.
func Num() uint32 { return uint32(NumIDs) }

// Name returns the task's table name.
func Name(id ID) string {
	fault.Require(id < NumIDs, fault.InvalidID)
	return table[id].Name
}

// SendSignal sends a signal to one task.
func SendSignal(id ID, sig Signal) {
	fault.Require(id < NumIDs, fault.InvalidID)
	fault.Require(uint32(sig)&signalMask != 0, fault.InvalidSignal)
	table[id].handle.Send(uint32(sig))
}

// Broadcast fans a signal to every task except the caller.
func Broadcast(sig Signal, self ID) {
	fault.Require(uint32(sig)&signalMask != 0, fault.InvalidID)
	for i := range table {
		if table[i].ID != self {
			table[i].handle.Send(uint32(sig))
		}
	}
}

// SendOpenSignal reports the caller's open-phase completion to the open
// task using the caller's done-bit.
func SendOpenSignal(self ID) {
	fault.Require(self < NumIDs, fault.InvalidID)
	table[Open].handle.Send(table[self].openBit)
}

// WaitStrict loops on the kernel notification until the wanted bit is
// observed. Unrelated bits received while waiting are discarded.
func WaitStrict(ctx *kernel.Context, sig Signal) {
	fault.Require(uint32(sig)&signalMask != 0, fault.InvalidID)

	rcvd := ctx.WaitSignal()
	for rcvd&uint32(sig) == 0 {
		rcvd = ctx.WaitSignal()
	}
}

// WaitAny returns the raw signal set of the next notification.
func WaitAny(ctx *kernel.Context) uint32 { return ctx.WaitSignal() }

// OpenBits returns the barrier mask covering every task's done-bit.
func OpenBits() uint32 { return 1<<uint32(NumIDs) - 1 }

// OpenBit returns one task's done-bit.
func OpenBit(id ID) uint32 {
	fault.Require(id < NumIDs, fault.InvalidID)
	return table[id].openBit
}

// PrintMaximumStackUsage reports each task's deepest observed stack use.
// With dump set the painted stack contents are printed too, when the port
// exposes them.
func PrintMaximumStackUsage(dump bool) {
	for i := range table {
		r := &table[i]
		if r.handle == nil {
			continue
		}
		info := r.handle.Stack()
		fmt.Printf("Task %d Stack Usage:\r\n", uint32(r.ID))
		fmt.Printf("Stack %d Base           (addr): 0x%X\r\n", uint32(r.ID), uint64(info.Base))
		fmt.Printf("Stack %d Size          (bytes): %d\r\n", uint32(r.ID), info.Size)
		fmt.Printf("Stack %d Maximum Usage (bytes): %d\r\n", uint32(r.ID), info.HighWater)
		fmt.Printf("\r\n")
		if dump {
			dumpStack(info)
		}
	}
}

func dumpStack(info kernel.StackInfo) {
	// The kernel does not paint task stacks, so there is no region to show.
	fmt.Printf("Stack Dump:\r\n(no painted region on this port)\r\n")
}
