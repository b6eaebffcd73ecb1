package sim

import (
	"sync"
	"time"

	"arenafall/server/internal/world"
)

// Engine is the simulation core the loop drives. *world.World satisfies it.
type Engine interface {
	Step(tick uint64, dt float64, commands []world.Command)
	Snapshot() world.Snapshot
}

// LoopConfig tunes the command queue and tick orchestration.
type LoopConfig struct {
	TickRate        int
	CatchupMaxTicks int
	CommandCapacity int
}

// StepResult reports one completed tick to the AfterStep hook.
type StepResult struct {
	Tick         uint64
	Now          time.Time
	Delta        float64
	ClampedDelta bool
	Duration     time.Duration
	Snapshot     world.Snapshot
}

// LoopHooks let the host observe ticks without reaching into the engine.
type LoopHooks struct {
	AfterStep func(StepResult)
}

// Loop coordinates command ingestion and the fixed-timestep runner. Commands
// arrive from any goroutine; the engine itself is only touched on the loop
// goroutine.
type Loop struct {
	engine Engine
	config LoopConfig
	hooks  LoopHooks

	queueMu sync.Mutex
	queue   []world.Command
	dropped uint64

	tick uint64
}

// NewLoop wraps the engine with a staged command queue and tick runner.
func NewLoop(engine Engine, cfg LoopConfig, hooks LoopHooks) *Loop {
	if engine == nil {
		return nil
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = 60
	}
	if cfg.CommandCapacity <= 0 {
		cfg.CommandCapacity = 256
	}
	return &Loop{
		engine: engine,
		config: cfg,
		hooks:  hooks,
		queue:  make([]world.Command, 0, cfg.CommandCapacity),
	}
}

// Enqueue stages a command for the next tick. Returns false when the queue
// is saturated and the command was dropped.
func (l *Loop) Enqueue(cmd world.Command) bool {
	if l == nil {
		return false
	}
	l.queueMu.Lock()
	defer l.queueMu.Unlock()
	if len(l.queue) >= l.config.CommandCapacity {
		l.dropped++
		return false
	}
	l.queue = append(l.queue, cmd)
	return true
}

// Pending reports the number of staged commands.
func (l *Loop) Pending() int {
	if l == nil {
		return 0
	}
	l.queueMu.Lock()
	defer l.queueMu.Unlock()
	return len(l.queue)
}

func (l *Loop) drainCommands() []world.Command {
	l.queueMu.Lock()
	defer l.queueMu.Unlock()
	if len(l.queue) == 0 {
		return nil
	}
	drained := make([]world.Command, len(l.queue))
	copy(drained, l.queue)
	l.queue = l.queue[:0]
	return drained
}

// Advance executes a single simulation step using the staged commands.
func (l *Loop) Advance(now time.Time, dt float64) StepResult {
	if l == nil {
		return StepResult{}
	}
	l.tick++
	commands := l.drainCommands()
	start := time.Now()
	l.engine.Step(l.tick, dt, commands)
	return StepResult{
		Tick:     l.tick,
		Now:      now,
		Delta:    dt,
		Duration: time.Since(start),
		Snapshot: l.engine.Snapshot(),
	}
}

// Run drives the fixed-timestep loop until the stop channel closes. The
// delta handed to the engine is clamped to the catch-up bound so a stalled
// host process cannot tunnel entities through geometry.
func (l *Loop) Run(stop <-chan struct{}) {
	if l == nil {
		return
	}
	ticker := time.NewTicker(time.Second / time.Duration(l.config.TickRate))
	defer ticker.Stop()

	budget := 1.0 / float64(l.config.TickRate)
	maxDt := budget
	if l.config.CatchupMaxTicks > 1 {
		maxDt = budget * float64(l.config.CatchupMaxTicks)
	}

	last := time.Now()
	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			clamped := false
			if dt <= 0 {
				dt = budget
			} else if dt > maxDt {
				dt = maxDt
				clamped = true
			}
			last = now

			result := l.Advance(now, dt)
			result.ClampedDelta = clamped
			if l.hooks.AfterStep != nil {
				l.hooks.AfterStep(result)
			}
		}
	}
}
