package main

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/groundsight/orbitcam/core"
	"github.com/groundsight/orbitcam/internal/logging"
	"github.com/groundsight/orbitcam/internal/observability"
	"github.com/groundsight/orbitcam/session"
)

// tracker owns one step of the producer loop: propagate, append, select a
// target, derive the camera pose, update rates.
type tracker struct {
	sess         *session.TrackingSession
	prop         core.Propagator
	rates        *core.RateTracker
	metrics      *observability.TrackerCollector
	log          logging.Logger
	rangeOffsetM float64
}

func newTracker(sess *session.TrackingSession, prop core.Propagator, rates *core.RateTracker, metrics *observability.TrackerCollector, log logging.Logger, rangeOffsetM float64) *tracker {
	if log == nil {
		log = logging.Noop()
	}
	return &tracker{
		sess:         sess,
		prop:         prop,
		rates:        rates,
		metrics:      metrics,
		log:          log,
		rangeOffsetM: rangeOffsetM,
	}
}

// step runs one sampling tick at sample time t. Propagation failures are
// counted and logged, never swallowed into fabricated positions.
func (tr *tracker) step(t time.Time) {
	started := time.Now()
	ctx, span := otel.Tracer("orbitcam/tracker").Start(context.Background(), "tracker.step")
	defer span.End()

	pos, err := tr.prop.Propagate(t)
	if err != nil {
		tr.metrics.IncPropagationFailure()
		tr.log.Error(ctx, "propagation failed", logging.String("error", err.Error()))
		return
	}
	sample := tr.sess.Append(pos, t)

	// With focus off the camera stares at its own ground track; with focus
	// on it tracks the nearest candidate target.
	target := pos.GroundProjection()
	if tr.sess.Focus() {
		selected, err := core.SelectNearestTarget(pos, tr.sess.Targets())
		if err != nil {
			tr.log.Error(ctx, "target selection failed", logging.String("error", err.Error()))
			return
		}
		target = selected
	}

	view := core.ComputeCameraView(pos, target, tr.rangeOffsetM)
	tr.sess.SetLatestView(view)

	rate, ok, err := tr.rates.Observe(view, t)
	if err != nil {
		tr.log.Warn(ctx, "rate computation failed", logging.String("error", err.Error()))
	} else if ok {
		tr.sess.SetLatestRate(rate)
	}

	tr.metrics.ObserveSampleDuration(time.Since(started).Seconds())
	span.SetAttributes(
		attribute.Int("sample.seq", sample.Seq),
		attribute.Float64("camera.heading_deg", view.HeadingDeg),
		attribute.Float64("camera.tilt_deg", view.TiltDeg),
	)

	tr.log.Info(ctx, "sample processed",
		logging.Int("seq", sample.Seq),
		logging.Float64("lat_deg", pos.LatDeg),
		logging.Float64("lon_deg", pos.LonDeg),
		logging.Float64("alt_km", pos.AltKm),
		logging.Float64("heading_deg", view.HeadingDeg),
		logging.Float64("tilt_deg", view.TiltDeg),
		logging.Float64("range_m", view.RangeM),
		logging.Any("target_visible", core.LineOfSight(pos, target)),
	)
}
