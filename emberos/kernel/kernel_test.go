package kernel

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestSignalRoundTrip(t *testing.T) {
	got := make(chan uint32, 1)
	task, err := CreateTask(func(ctx *Context) {
		got <- ctx.WaitSignal()
	}, 0, 1024, 1)
	if err != nil {
		t.Fatal(err)
	}
	Start()

	task.Send(0x5)
	select {
	case s := <-got:
		if s != 0x5 {
			t.Fatalf("signal = %#x, want 0x5", s)
		}
	case <-time.After(time.Second):
		t.Fatal("task never woke")
	}
}

func TestSignalBitsAccumulate(t *testing.T) {
	release := make(chan struct{})
	got := make(chan uint32, 1)
	task, err := CreateTask(func(ctx *Context) {
		<-release
		got <- ctx.WaitSignal()
	}, 1, 1024, 1)
	if err != nil {
		t.Fatal(err)
	}
	Start()

	task.Send(0x1)
	task.Send(0x8)
	close(release)

	select {
	case s := <-got:
		if s != 0x9 {
			t.Fatalf("signal = %#x, want 0x9", s)
		}
	case <-time.After(time.Second):
		t.Fatal("task never woke")
	}
}

func TestQueuePassesItems(t *testing.T) {
	got := make(chan any, 1)
	task, err := CreateTask(func(ctx *Context) {
		got <- ctx.QueueRecv()
	}, 2, 1024, 1)
	if err != nil {
		t.Fatal(err)
	}
	Start()

	if err := QueueSend(task, "ping"); err != nil {
		t.Fatal(err)
	}
	select {
	case v := <-got:
		if v != "ping" {
			t.Fatalf("item = %v", v)
		}
	case <-time.After(time.Second):
		t.Fatal("queue item never arrived")
	}
}

func TestMutexSerialises(t *testing.T) {
	if err := MutexTake(MutexSettings); err != nil {
		t.Fatal(err)
	}

	entered := make(chan struct{})
	go func() {
		MutexTake(MutexSettings)
		close(entered)
		MutexGive(MutexSettings)
	}()

	select {
	case <-entered:
		t.Fatal("second take succeeded while held")
	case <-time.After(20 * time.Millisecond):
	}

	MutexGive(MutexSettings)
	select {
	case <-entered:
	case <-time.After(time.Second):
		t.Fatal("second take never ran")
	}
}

func TestMutexBadID(t *testing.T) {
	if err := MutexTake(MutexID(200)); err == nil {
		t.Fatal("expected an error")
	}
	if err := MutexGive(MutexID(200)); err == nil {
		t.Fatal("expected an error")
	}
}

func TestTimerFiresRepeatedly(t *testing.T) {
	var calls atomic.Uint32
	if err := TimerCreate(TimerPeriodic, func(nowMs uint32) {
		calls.Add(1)
	}, 1, true); err != nil {
		t.Fatal(err)
	}
	if err := TimerCreate(TimerPeriodic, func(nowMs uint32) {}, 1, true); err == nil {
		t.Fatal("second create should fail")
	}

	if err := TimerStart(TimerPeriodic); err != nil {
		t.Fatal(err)
	}
	if !TimerIsRunning(TimerPeriodic) {
		t.Fatal("timer should be running")
	}
	// Idempotent start.
	if err := TimerStart(TimerPeriodic); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(time.Second)
	for calls.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if calls.Load() < 3 {
		t.Fatalf("timer fired %d times", calls.Load())
	}

	if err := TimerStop(TimerPeriodic); err != nil {
		t.Fatal(err)
	}
	if TimerIsRunning(TimerPeriodic) {
		t.Fatal("timer should be stopped")
	}
}

func TestNowMsAdvances(t *testing.T) {
	a := NowMs()
	time.Sleep(5 * time.Millisecond)
	if b := NowMs(); b <= a {
		t.Fatalf("NowMs did not advance: %d -> %d", a, b)
	}
}
