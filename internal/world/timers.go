package world

import "sort"

// deferred is one pending timer entry. Entries are compared against the
// simulation clock each tick rather than wall time so tests can advance
// virtual time and assert effects synchronously. The epoch stamp invalidates
// entries scheduled before a session reset.
type deferred struct {
	fireAt float64
	epoch  uint64
	fn     func(*World)
}

// schedule registers fn to run once the simulation clock passes delay
// seconds from now. Callbacks must re-check current state when they fire;
// the world may have changed (or the target entity died) in the interim.
func (w *World) schedule(delay float64, fn func(*World)) {
	if fn == nil {
		return
	}
	if delay < 0 {
		delay = 0
	}
	w.timers = append(w.timers, deferred{fireAt: w.elapsed + delay, epoch: w.epoch, fn: fn})
}

// drainTimers fires every due entry in fireAt order. Entries from older
// epochs are dropped unfired. Callbacks scheduling new timers during the
// drain take effect on a later tick.
func (w *World) drainTimers() {
	if len(w.timers) == 0 {
		return
	}
	due := make([]deferred, 0)
	keep := w.timers[:0]
	for _, entry := range w.timers {
		if entry.epoch != w.epoch {
			continue
		}
		if entry.fireAt <= w.elapsed {
			due = append(due, entry)
			continue
		}
		keep = append(keep, entry)
	}
	w.timers = keep
	if len(due) == 0 {
		return
	}
	sort.SliceStable(due, func(i, j int) bool { return due[i].fireAt < due[j].fireAt })
	for _, entry := range due {
		if entry.epoch != w.epoch {
			// A callback earlier in this drain reset the session.
			continue
		}
		entry.fn(w)
	}
}
