// Package event routes asynchronous events to their owning tasks through
// bounded lock-free rings. Producers run in interrupt or task context and
// claim slots with an atomic fetch-add; the owning task drains its ring
// under the event-handle mutex after a GlobalEvent signal.
package event

import (
	"sync/atomic"

	"ember/emberos/fault"
	"ember/emberos/kernel"
	"ember/emberos/task"
)

// QueueSize is the per-task ring capacity. It must evenly divide 2^16 so
// that the 16-bit claim counters stay consistent across wrap-around.
const QueueSize = 256

// ID names one event. The owner task of each ID is fixed at init.
type ID uint32

const (
	// NullEvent is the sentinel returned when a queue is empty.
	NullEvent ID = iota
	// ControlUARTInput reports buffered console bytes.
	ControlUARTInput
	// ControlUpdateCLIState advances the CLI state machine.
	ControlUpdateCLIState
	// ControlCLIOutput carries text to emit on the console.
	ControlCLIOutput

	NumEvents
)

// Event is a discriminated record: an id, the owning task derived from the
// id, and an opaque pointer-sized argument.
type Event struct {
	ID   ID
	Task task.ID
	Arg  any
}

// Binding associates one event with its owning task in the build-time list.
type Binding struct {
	Task  task.ID
	Event ID
}

// QueueInfo reports a ring's positions for diagnostics.
type QueueInfo struct {
	FrontPos uint16
	RearPos  uint16
}

var (
	queues [task.NumIDs][QueueSize]Event
	rears  [task.NumIDs]atomic.Uint32
	fronts [task.NumIDs]atomic.Uint32

	assoc [NumEvents]task.ID
)

// OwnerTask returns the task that owns the event ID. The association is a
// pure function decided at Init.
func OwnerTask(id ID) task.ID {
	fault.Require(id < NumEvents, fault.InvalidID)
	return assoc[id]
}

// GetQueueInfo returns the front and rear position of a task's ring.
func GetQueueInfo(id task.ID) QueueInfo {
	fault.Require(id < task.NumIDs, fault.IDNotFound)
	return QueueInfo{
		FrontPos: uint16(fronts[id].Load()) % QueueSize,
		RearPos:  uint16(rears[id].Load()) % QueueSize,
	}
}

// Post enqueues the event on its owner's ring and signals the owner. A full
// ring is a contract fault: data loss is not permitted.
func Post(id ID, arg any) {
	fault.Require(id != NullEvent && id < NumEvents, fault.InvalidID)

	owner := assoc[id]

	pos := uint16(rears[owner].Add(1)-1) % QueueSize
	next := (pos + 1) % QueueSize
	front := uint16(fronts[owner].Load()) % QueueSize
	fault.Invariant(next != front, fault.QueueOverflow)

	// The slot contents are published to the consumer by the signal send
	// below; the owner only reads behind the GlobalEvent notification.
	slot := &queues[owner][pos]
	slot.ID = id
	slot.Task = owner
	slot.Arg = arg

	task.SendSignal(owner, task.SignalGlobalEvent)
}

// Handle pops the next event from the task's ring, or NullEvent when the
// ring is empty. Only the owning task should call this; nested consumers
// are serialised by the event-handle mutex.
func Handle(id task.ID) Event {
	fault.Require(id < task.NumIDs, fault.IDNotFound)

	ret := Event{ID: NullEvent, Task: task.NumIDs, Arg: nil}

	kernel.MutexTake(kernel.MutexEventHandle)

	front := uint16(fronts[id].Load()) % QueueSize
	rear := uint16(rears[id].Load()) % QueueSize
	if front != rear {
		ret = queues[id][front]
		fronts[id].Add(1)
	}

	kernel.MutexGive(kernel.MutexEventHandle)

	fault.Ensure(ret.ID < NumEvents, fault.InvalidID)
	fault.Ensure(ret.Task <= task.NumIDs, fault.OperationFailed)

	return ret
}

// Init builds the event→task association from the build-time list and
// clears the rings. The claim counters rely on lock-free atomics, which the
// Go runtime guarantees on every supported target.
func Init(bindings []Binding) {
	for t := task.ID(0); t < task.NumIDs; t++ {
		fronts[t].Store(0)
		rears[t].Store(0)
		for i := range queues[t] {
			queues[t][i] = Event{ID: NullEvent, Task: t}
		}
	}

	for _, b := range bindings {
		fault.Require(b.Event < NumEvents, fault.InvalidID)
		fault.Require(b.Task < task.NumIDs, fault.InvalidID)
		assoc[b.Event] = b.Task
	}
}
