package timectrl

import (
	"sync"
	"time"
)

// Clock exposes the controller's current sample time so consumers can
// depend on an abstraction rather than the concrete controller type.
type Clock interface {
	// Now returns the current sample time.
	Now() time.Time
}

// Mode describes how the TimeController advances the sample time.
type Mode int

const (
	// RealTime waits one wall-clock tick between samples.
	RealTime Mode = iota
	// Accelerated steps through samples as fast as the listeners can run,
	// still advancing the sample time by Tick each step.
	Accelerated
)

// TimeController drives the sampling loop: it advances a sample time by a
// fixed tick and notifies registered listeners on every step. The tracker's
// producer loop hangs off a listener.
type TimeController struct {
	mu        sync.RWMutex
	StartTime time.Time
	Tick      time.Duration
	Mode      Mode

	currentTime time.Time

	listeners []func(time.Time)

	stopOnce sync.Once
	stopped  chan struct{}
}

// NewTimeController constructs a controller.
func NewTimeController(start time.Time, tick time.Duration, mode Mode) *TimeController {
	return &TimeController{
		StartTime:   start,
		Tick:        tick,
		Mode:        mode,
		currentTime: start,
		stopped:     make(chan struct{}),
	}
}

// Now returns the current sample time. Implements Clock.
func (tc *TimeController) Now() time.Time {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return tc.currentTime
}

// SetTime overrides the current sample time. Intended for replays and tests.
func (tc *TimeController) SetTime(t time.Time) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.currentTime = t
}

// AddListener registers a callback invoked on every tick with the sample
// time. Listeners must be registered before Start.
func (tc *TimeController) AddListener(fn func(time.Time)) {
	tc.listeners = append(tc.listeners, fn)
}

// Start runs the controller for the specified sample-time duration in a
// separate goroutine and returns a channel that is closed when it finishes.
// A duration of zero runs until Stop is called.
func (tc *TimeController) Start(duration time.Duration) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)

		tc.mu.Lock()
		sampleTime := tc.StartTime
		tc.currentTime = sampleTime
		tc.mu.Unlock()

		var ticker *time.Ticker
		if tc.Mode == RealTime {
			ticker = time.NewTicker(tc.Tick)
			defer ticker.Stop()
		}

		elapsed := time.Duration(0)
		for {
			if duration > 0 && elapsed >= duration {
				return
			}

			if ticker != nil {
				select {
				case <-ticker.C:
				case <-tc.stopped:
					return
				}
			} else {
				select {
				case <-tc.stopped:
					return
				default:
				}
			}

			sampleTime = sampleTime.Add(tc.Tick)
			elapsed += tc.Tick

			tc.mu.Lock()
			tc.currentTime = sampleTime
			tc.mu.Unlock()

			for _, fn := range tc.listeners {
				fn(sampleTime)
			}
		}
	}()
	return done
}

// Stop signals a running controller to finish after the current step. Safe
// to call more than once.
func (tc *TimeController) Stop() {
	tc.stopOnce.Do(func() { close(tc.stopped) })
}
