// Package config loads tracker runtime configuration from a YAML file and
// ORBITCAM_* environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the tracker's runtime configuration.
type Config struct {
	// Element set input. Line1/Line2 override the file lookup when set.
	TLEPath       string
	SatelliteName string
	TLELine1      string
	TLELine2      string

	// Producer loop.
	SampleInterval time.Duration
	RunDuration    time.Duration // zero runs until interrupted
	Accelerated    bool

	// Camera.
	RangeOffsetM float64

	// Target plan generation.
	PlanWindow   time.Duration
	PlanInterval time.Duration
	MaxShiftKm   float64
	ShiftProb    float64
	Seed         int64

	// Rate tracking.
	ShortestArcRates bool
	HeadingCoeffW    float64
	TiltCoeffW       float64

	// Observability.
	MetricsAddr string
}

// Load reads configuration from the given file path. An empty path falls
// back to orbitcam.yaml in the working directory or configs/, and a missing
// file there just yields the defaults. Environment variables with the
// ORBITCAM_ prefix override file values (dots become underscores).
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("tle.path", "configs/stations.tle")
	v.SetDefault("tle.satellite_name", "ISS (ZARYA)")
	v.SetDefault("tle.line1", "")
	v.SetDefault("tle.line2", "")

	v.SetDefault("tracker.sample_interval", "5s")
	v.SetDefault("tracker.run_duration", "0s")
	v.SetDefault("tracker.accelerated", false)
	v.SetDefault("tracker.range_offset_m", 0.0)
	v.SetDefault("tracker.shortest_arc_rates", false)

	v.SetDefault("energy.heading_coeff_w", 0.4)
	v.SetDefault("energy.tilt_coeff_w", 0.6)

	v.SetDefault("plan.window", "90m")
	v.SetDefault("plan.interval", "60s")
	v.SetDefault("plan.max_shift_km", 50.0)
	v.SetDefault("plan.shift_prob", 0.0)
	v.SetDefault("plan.seed", 42)

	v.SetDefault("metrics.addr", ":9184")

	v.SetEnvPrefix("ORBITCAM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("orbitcam")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("configs")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	cfg := Config{
		TLEPath:       v.GetString("tle.path"),
		SatelliteName: v.GetString("tle.satellite_name"),
		TLELine1:      v.GetString("tle.line1"),
		TLELine2:      v.GetString("tle.line2"),

		SampleInterval: v.GetDuration("tracker.sample_interval"),
		RunDuration:    v.GetDuration("tracker.run_duration"),
		Accelerated:    v.GetBool("tracker.accelerated"),
		RangeOffsetM:   v.GetFloat64("tracker.range_offset_m"),

		PlanWindow:   v.GetDuration("plan.window"),
		PlanInterval: v.GetDuration("plan.interval"),
		MaxShiftKm:   v.GetFloat64("plan.max_shift_km"),
		ShiftProb:    v.GetFloat64("plan.shift_prob"),
		Seed:         v.GetInt64("plan.seed"),

		ShortestArcRates: v.GetBool("tracker.shortest_arc_rates"),
		HeadingCoeffW:    v.GetFloat64("energy.heading_coeff_w"),
		TiltCoeffW:       v.GetFloat64("energy.tilt_coeff_w"),

		MetricsAddr: v.GetString("metrics.addr"),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.SampleInterval <= 0 {
		return fmt.Errorf("tracker.sample_interval must be positive, got %s", c.SampleInterval)
	}
	if c.PlanInterval <= 0 {
		return fmt.Errorf("plan.interval must be positive, got %s", c.PlanInterval)
	}
	if c.ShiftProb < 0 || c.ShiftProb > 1 {
		return fmt.Errorf("plan.shift_prob must be in [0, 1], got %g", c.ShiftProb)
	}
	if c.MaxShiftKm < 0 {
		return fmt.Errorf("plan.max_shift_km must be non-negative, got %g", c.MaxShiftKm)
	}
	if c.TLELine1 == "" && c.TLEPath == "" {
		return fmt.Errorf("either tle.path or tle.line1/tle.line2 must be set")
	}
	return nil
}
