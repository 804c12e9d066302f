package session

import (
	"context"
	"sync"
	"time"

	"github.com/groundsight/orbitcam/internal/logging"
	"github.com/groundsight/orbitcam/model"
)

// EventType indicates what kind of change happened in the session.
type EventType int

const (
	EventPositionAppended EventType = iota
)

// Event is emitted to subscribers when the session state changes.
type Event struct {
	Type   EventType
	Sample model.PositionSample
}

// Recorder receives tracking values for export as metrics. All methods are
// called with already-computed values; implementations must not block.
type Recorder interface {
	RecordCameraView(view model.CameraView)
	RecordRateSample(rate model.RateSample)
	SetHistoryLength(n int)
	SetTargetCount(n int)
}

// TrackingSession is the process-wide owner of the position history, the
// target set, and the latest camera pose and rate snapshot. One producer
// appends positions on a fixed interval while any number of readers take
// snapshots concurrently; a single lock guards all of it.
//
// The history is append-only: samples are never mutated after Append.
type TrackingSession struct {
	mu sync.RWMutex

	history []model.PositionSample
	targets model.TargetSet

	latestView model.CameraView
	hasView    bool
	latestRate model.RateSample
	hasRate    bool

	// focus mirrors the operator toggle from the simulation display.
	focus bool

	subs []func(Event)

	log     logging.Logger
	metrics Recorder
}

// Option customises session construction.
type Option func(*TrackingSession)

// WithLogger attaches a structured logger for session-level events.
func WithLogger(log logging.Logger) Option {
	return func(s *TrackingSession) {
		if log != nil {
			s.log = log
		}
	}
}

// WithRecorder attaches a metrics recorder that mirrors session state.
func WithRecorder(r Recorder) Option {
	return func(s *TrackingSession) {
		s.metrics = r
	}
}

// WithTargets seeds the session's target set.
func WithTargets(ts model.TargetSet) Option {
	return func(s *TrackingSession) {
		s.targets = ts.Clone()
	}
}

// New constructs an empty tracking session.
func New(opts ...Option) *TrackingSession {
	s := &TrackingSession{log: logging.Noop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Append records a new position sample and returns it. The sequence number
// is the 1-based position in the history. Subscribers are notified outside
// the lock to avoid deadlocks.
func (s *TrackingSession) Append(p model.GeoPoint, t time.Time) model.PositionSample {
	s.mu.Lock()
	sample := model.PositionSample{
		Seq:      len(s.history) + 1,
		Point:    p,
		Acquired: t,
	}
	s.history = append(s.history, sample)
	n := len(s.history)
	subs := append([]func(Event){}, s.subs...)
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.SetHistoryLength(n)
	}
	s.log.Debug(context.Background(), "position appended",
		logging.Int("seq", sample.Seq),
		logging.Float64("lat_deg", p.LatDeg),
		logging.Float64("lon_deg", p.LonDeg),
		logging.Float64("alt_km", p.AltKm),
	)

	event := Event{Type: EventPositionAppended, Sample: sample}
	for _, sub := range subs {
		sub(event)
	}
	return sample
}

// History returns a copy of the full position history in acquisition order.
func (s *TrackingSession) History() []model.PositionSample {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.PositionSample, len(s.history))
	copy(out, s.history)
	return out
}

// Len returns the number of recorded positions.
func (s *TrackingSession) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.history)
}

// LatestPosition returns the most recent sample, if any.
func (s *TrackingSession) LatestPosition() (model.PositionSample, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.history) == 0 {
		return model.PositionSample{}, false
	}
	return s.history[len(s.history)-1], true
}

// SetTargets replaces the session's target set.
func (s *TrackingSession) SetTargets(ts model.TargetSet) {
	s.mu.Lock()
	s.targets = ts.Clone()
	n := len(s.targets)
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.SetTargetCount(n)
	}
}

// Targets returns a copy of the current target set.
func (s *TrackingSession) Targets() model.TargetSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.targets.Clone()
}

// SetLatestView stores the most recently computed camera pose.
func (s *TrackingSession) SetLatestView(v model.CameraView) {
	s.mu.Lock()
	s.latestView = v
	s.hasView = true
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.RecordCameraView(v)
	}
}

// LatestView returns the most recent camera pose, if one has been computed.
func (s *TrackingSession) LatestView() (model.CameraView, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latestView, s.hasView
}

// SetLatestRate stores the most recently computed rate sample.
func (s *TrackingSession) SetLatestRate(r model.RateSample) {
	s.mu.Lock()
	s.latestRate = r
	s.hasRate = true
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.RecordRateSample(r)
	}
}

// LatestRate returns the most recent rate sample, if any.
func (s *TrackingSession) LatestRate() (model.RateSample, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latestRate, s.hasRate
}

// SetFocus toggles the operator focus flag.
func (s *TrackingSession) SetFocus(on bool) {
	s.mu.Lock()
	s.focus = on
	s.mu.Unlock()
}

// Focus reports the operator focus flag.
func (s *TrackingSession) Focus() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.focus
}

// Subscribe registers a callback for session events. It returns an
// unsubscribe function.
func (s *TrackingSession) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
	idx := len(s.subs) - 1

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if idx < 0 || idx >= len(s.subs) {
			return
		}
		s.subs = append(s.subs[:idx], s.subs[idx+1:]...)
		idx = -1
	}
}
