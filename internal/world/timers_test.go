package world

import "testing"

func TestScheduleFiresAtVirtualTime(t *testing.T) {
	w := newTestWorld(t, nil)
	w.clearTimers()

	fired := false
	w.schedule(1.0, func(w *World) { fired = true })

	w.elapsed += 0.5
	w.drainTimers()
	if fired {
		t.Fatal("timer fired early")
	}

	w.elapsed += 0.5
	w.drainTimers()
	if !fired {
		t.Fatal("timer never fired")
	}
	if len(w.timers) != 0 {
		t.Fatalf("%d timers left after firing", len(w.timers))
	}
}

func TestTimersFireInOrder(t *testing.T) {
	w := newTestWorld(t, nil)
	w.clearTimers()

	var order []int
	w.schedule(2.0, func(w *World) { order = append(order, 2) })
	w.schedule(1.0, func(w *World) { order = append(order, 1) })
	w.schedule(3.0, func(w *World) { order = append(order, 3) })

	w.elapsed += 10
	w.drainTimers()

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Fatalf("fire order = %v, want [1 2 3]", order)
	}
}

func TestResetDiscardsPendingTimers(t *testing.T) {
	w := newTestWorld(t, nil)
	w.clearTimers()

	fired := false
	w.schedule(1.0, func(w *World) { fired = true })
	w.Reset()

	w.elapsed += 10
	w.drainTimers()

	if fired {
		t.Fatal("timer survived a session reset")
	}
}

func TestResetMidDrainInvalidatesLaterCallbacks(t *testing.T) {
	w := newTestWorld(t, nil)
	w.clearTimers()

	leaked := false
	w.schedule(1.0, func(w *World) { w.Reset() })
	w.schedule(2.0, func(w *World) { leaked = true })

	w.elapsed += 5
	w.drainTimers()

	if leaked {
		t.Fatal("callback from the old session ran after a mid-drain reset")
	}
}

func TestScheduleNegativeDelayFiresNextDrain(t *testing.T) {
	w := newTestWorld(t, nil)
	w.clearTimers()

	fired := false
	w.schedule(-3, func(w *World) { fired = true })
	w.drainTimers()

	if !fired {
		t.Fatal("negative delay did not fire on the next drain")
	}
}
