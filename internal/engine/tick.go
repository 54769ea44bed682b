// Package engine provides the fixed-cadence loop that drives the game tick.
// Accrual does not depend on the cadence: every tick measures real elapsed
// time, so a slow or stalled loop only makes updates coarser.
package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultInterval is the reference cadence, 10 ticks per second.
const DefaultInterval = 100 * time.Millisecond

// Engine calls its layered callbacks on a fixed cadence.
type Engine struct {
	Interval     time.Duration // tick interval (default 100ms)
	AutosaveEach time.Duration // autosave cadence; 0 disables OnAutosave

	// Callbacks for each layer, populated during setup.
	OnTick     func(tick uint64) // every tick
	OnSecond   func(tick uint64) // once per second of ticks
	OnAutosave func(tick uint64) // every AutosaveEach worth of ticks

	mu      sync.Mutex
	tick    uint64
	running bool
	stop    chan struct{}
}

// NewEngine creates an engine with the default cadence.
func NewEngine() *Engine {
	return &Engine{
		Interval:     DefaultInterval,
		AutosaveEach: time.Minute,
	}
}

// Tick returns the number of completed ticks.
func (e *Engine) Tick() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tick
}

// Running reports whether Run is active.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// Run drives the loop until ctx is done or Stop is called.
func (e *Engine) Run(ctx context.Context) {
	if e.Interval <= 0 {
		e.Interval = DefaultInterval
	}

	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	e.stop = make(chan struct{})
	stop := e.stop
	e.mu.Unlock()

	slog.Info("engine started", "interval", e.Interval, "tick", e.Tick())

	ticker := time.NewTicker(e.Interval)
	defer ticker.Stop()

	defer func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
		slog.Info("engine stopped", "tick", e.Tick())
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			e.Step()
		}
	}
}

// Stop halts a running loop.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running && e.stop != nil {
		close(e.stop)
		e.stop = nil
	}
}

// Step advances the engine by one tick and fires the due callbacks.
func (e *Engine) Step() {
	e.mu.Lock()
	e.tick++
	tick := e.tick
	e.mu.Unlock()

	if e.OnTick != nil {
		e.OnTick(tick)
	}
	if n := e.every(time.Second); tick%n == 0 && e.OnSecond != nil {
		e.OnSecond(tick)
	}
	if e.AutosaveEach > 0 && e.OnAutosave != nil {
		if tick%e.every(e.AutosaveEach) == 0 {
			e.OnAutosave(tick)
		}
	}
}

// every converts a duration into a tick count, at least 1.
func (e *Engine) every(d time.Duration) uint64 {
	interval := e.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	n := uint64(d / interval)
	if n == 0 {
		n = 1
	}
	return n
}
