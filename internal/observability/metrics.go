package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/groundsight/orbitcam/model"
)

// TrackerCollector bundles Prometheus metrics for the tracking loop and
// mirrors the latest session values as gauges. It satisfies the session's
// Recorder interface.
type TrackerCollector struct {
	gatherer prometheus.Gatherer

	CameraHeading prometheus.Gauge
	CameraTilt    prometheus.Gauge
	CameraRange   prometheus.Gauge
	HeadingRate   prometheus.Gauge
	TiltRate      prometheus.Gauge
	EnergyUse     prometheus.Gauge

	HistoryLength prometheus.Gauge
	TargetCount   prometheus.Gauge

	PropagationFailures prometheus.Counter
	SampleDurations     prometheus.Histogram
}

// NewTrackerCollector registers tracker Prometheus metrics against the
// provided registerer, defaulting to the global Prometheus registry when
// nil. Re-registration of identical collectors is tolerated.
func NewTrackerCollector(reg prometheus.Registerer) (*TrackerCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	c := &TrackerCollector{gatherer: gatherer}

	gauges := []struct {
		target *prometheus.Gauge
		name   string
		help   string
	}{
		{&c.CameraHeading, "tracker_camera_heading_degrees", "Latest camera heading, degrees clockwise from true north."},
		{&c.CameraTilt, "tracker_camera_tilt_degrees", "Latest camera tilt from nadir, degrees."},
		{&c.CameraRange, "tracker_camera_range_metres", "Latest camera range along the line of sight, metres."},
		{&c.HeadingRate, "tracker_heading_rate_degrees_per_second", "Latest heading angular rate."},
		{&c.TiltRate, "tracker_tilt_rate_degrees_per_second", "Latest tilt angular rate."},
		{&c.EnergyUse, "tracker_energy_use_watts", "Estimated actuation power from the energy model."},
		{&c.HistoryLength, "tracker_position_history_length", "Number of samples in the append-only position history."},
		{&c.TargetCount, "tracker_target_set_size", "Number of candidate ground targets in the session."},
	}
	for _, g := range gauges {
		gauge, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
			Name: g.name,
			Help: g.help,
		}), g.name)
		if err != nil {
			return nil, err
		}
		*g.target = gauge
	}

	failures, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tracker_propagation_failures_total",
		Help: "Total number of failed orbital propagations.",
	}), "tracker_propagation_failures_total")
	if err != nil {
		return nil, err
	}
	c.PropagationFailures = failures

	durations, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "tracker_sample_processing_seconds",
		Help:    "Time spent processing one position sample end to end.",
		Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
	}), "tracker_sample_processing_seconds")
	if err != nil {
		return nil, err
	}
	c.SampleDurations = durations

	return c, nil
}

// RecordCameraView mirrors a computed camera pose into the pose gauges.
func (c *TrackerCollector) RecordCameraView(view model.CameraView) {
	if c == nil {
		return
	}
	c.CameraHeading.Set(view.HeadingDeg)
	c.CameraTilt.Set(view.TiltDeg)
	c.CameraRange.Set(view.RangeM)
}

// RecordRateSample mirrors a computed rate sample into the rate gauges.
func (c *TrackerCollector) RecordRateSample(rate model.RateSample) {
	if c == nil {
		return
	}
	c.HeadingRate.Set(rate.HeadingRateDegS)
	c.TiltRate.Set(rate.TiltRateDegS)
	c.EnergyUse.Set(rate.EnergyUseW)
}

// SetHistoryLength records the current position-history length.
func (c *TrackerCollector) SetHistoryLength(n int) {
	if c == nil {
		return
	}
	c.HistoryLength.Set(float64(n))
}

// SetTargetCount records the current target-set size.
func (c *TrackerCollector) SetTargetCount(n int) {
	if c == nil {
		return
	}
	c.TargetCount.Set(float64(n))
}

// IncPropagationFailure counts one failed propagation.
func (c *TrackerCollector) IncPropagationFailure() {
	if c == nil {
		return
	}
	c.PropagationFailures.Inc()
}

// ObserveSampleDuration records one end-to-end sample processing time.
func (c *TrackerCollector) ObserveSampleDuration(seconds float64) {
	if c == nil {
		return
	}
	c.SampleDurations.Observe(seconds)
}

// Handler exposes a ready-to-use /metrics handler.
func (c *TrackerCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}
