// Package engine provides the fixed-rate frame loop and the colony
// simulation it drives.
package engine

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// DefaultFrameRate is the number of frames per simulated second.
const DefaultFrameRate = 30

// Engine drives the simulation forward. Each frame advances the world by
// 1/FrameRate simulated seconds; Speed scales how fast frames arrive in
// wall-clock time.
type Engine struct {
	Frame     uint64 // Frame counter (monotonic, never resets)
	Second    uint64 // Simulated seconds elapsed
	FrameRate int

	// Callbacks populated during setup.
	OnFrame  func(dt float64)    // Every frame
	OnSecond func(second uint64) // Every FrameRate frames

	mu      sync.Mutex
	speed   float64 // 1.0 = real-time, 0 = paused
	running bool
	stop    chan struct{}
}

// NewEngine creates a simulation engine running at frameRate Hz.
func NewEngine(frameRate int) *Engine {
	if frameRate <= 0 {
		frameRate = DefaultFrameRate
	}
	return &Engine{
		FrameRate: frameRate,
		speed:     1.0,
	}
}

// Speed returns the current speed multiplier.
func (e *Engine) Speed() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.speed
}

// SetSpeed changes the speed multiplier. Zero or less pauses the loop.
func (e *Engine) SetSpeed(s float64) {
	e.mu.Lock()
	e.speed = s
	e.mu.Unlock()
	slog.Info("engine speed changed", "speed", s)
}

// Running reports whether Run is looping.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// Run starts the simulation loop. Blocks until Stop() is called.
func (e *Engine) Run() {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	e.stop = make(chan struct{})
	stop := e.stop
	e.mu.Unlock()

	slog.Info("simulation engine started", "second", e.Second, "frame_rate", e.FrameRate, "speed", e.Speed())
	interval := time.Second / time.Duration(e.FrameRate)

	for {
		select {
		case <-stop:
			slog.Info("simulation engine stopped", "second", e.Second, "frames", e.Frame)
			return
		default:
		}

		speed := e.Speed()
		if speed <= 0 {
			// Paused; check again shortly.
			sleepOrStop(stop, 100*time.Millisecond)
			continue
		}

		start := time.Now()
		e.Step()

		elapsed := time.Since(start)
		target := time.Duration(float64(interval) / speed)
		if elapsed < target {
			sleepOrStop(stop, target-elapsed)
		}
	}
}

func sleepOrStop(stop <-chan struct{}, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-stop:
	case <-t.C:
	}
}

// Stop halts the simulation loop.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running {
		return
	}
	e.running = false
	close(e.stop)
}

// Step advances the simulation by one frame.
func (e *Engine) Step() {
	e.Frame++
	if e.OnFrame != nil {
		e.OnFrame(1.0 / float64(e.FrameRate))
	}
	if e.Frame%uint64(e.FrameRate) == 0 {
		e.Second++
		if e.OnSecond != nil {
			e.OnSecond(e.Second)
		}
	}
}

// SimClock returns a human-readable simulated time.
func SimClock(second uint64) string {
	s := second % 60
	m := (second / 60) % 60
	h := (second / 3600) % 24
	day := second/86400 + 1
	return fmt.Sprintf("Day %d, %02d:%02d:%02d", day, h, m, s)
}
