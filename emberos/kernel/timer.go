package kernel

import (
	"sync"
	"sync/atomic"
	"time"

	"ember/emberos/fault"
)

// TimerID names one of the fixed software timers.
type TimerID uint8

const (
	TimerPeriodic TimerID = iota

	numTimers
)

type timer struct {
	mu       sync.Mutex
	cb       func(nowMs uint32)
	periodMs uint32
	repeat   bool
	created  bool

	running atomic.Bool
	stop    chan struct{}
}

var timers [numTimers]timer

var epoch = time.Now()

// NowMs returns the monotonic millisecond tick.
func NowMs() uint32 {
	return uint32(time.Since(epoch).Milliseconds())
}

// TimerCreate stores the timer's callback and period. Millisecond
// resolution; repeat selects continuous operation.
func TimerCreate(id TimerID, cb func(nowMs uint32), periodMs uint32, repeat bool) error {
	if id >= numTimers {
		return fault.InvalidID
	}
	if cb == nil {
		return fault.InvalidPointer
	}
	if periodMs == 0 {
		return fault.InvalidTime
	}

	t := &timers[id]
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.created {
		return fault.TooManyAttempts
	}
	t.cb = cb
	t.periodMs = periodMs
	t.repeat = repeat
	t.created = true
	return nil
}

// TimerStart starts the timer. Starting a running timer is a no-op.
func TimerStart(id TimerID) error {
	if id >= numTimers {
		return fault.InvalidID
	}
	t := &timers[id]

	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.created {
		return fault.InitFailed
	}
	if !t.running.CompareAndSwap(false, true) {
		return nil
	}

	t.stop = make(chan struct{})
	go t.loop(t.stop)
	return nil
}

// TimerStop stops the timer. Stopping an idle timer is a no-op.
func TimerStop(id TimerID) error {
	if id >= numTimers {
		return fault.InvalidID
	}
	t := &timers[id]

	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running.CompareAndSwap(true, false) {
		return nil
	}
	close(t.stop)
	return nil
}

// TimerIsRunning reports whether the timer is active.
func TimerIsRunning(id TimerID) bool {
	if id >= numTimers {
		return false
	}
	return timers[id].running.Load()
}

func (t *timer) loop(stop chan struct{}) {
	tick := time.NewTicker(time.Duration(t.periodMs) * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case <-stop:
			return
		case <-tick.C:
			t.cb(NowMs())
			if !t.repeat {
				t.running.Store(false)
				return
			}
		}
	}
}
