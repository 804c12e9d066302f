package main

import (
	"context"
	"errors"
	"flag"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/groundsight/orbitcam/core"
	"github.com/groundsight/orbitcam/internal/config"
	"github.com/groundsight/orbitcam/internal/logging"
	"github.com/groundsight/orbitcam/internal/observability"
	"github.com/groundsight/orbitcam/internal/tle"
	"github.com/groundsight/orbitcam/session"
	"github.com/groundsight/orbitcam/timectrl"
)

func main() {
	configPath := flag.String("config", "", "path to an orbitcam config file (optional)")
	flag.Parse()

	log := logging.NewFromEnv()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath, log); err != nil {
		log.Error(context.Background(), "tracker failed", logging.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string, log logging.Logger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		return err
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdownTracing, log)

	collector, err := observability.NewTrackerCollector(nil)
	if err != nil {
		return err
	}

	line1, line2, err := elementLines(cfg)
	if err != nil {
		return err
	}
	prop, err := core.NewSGP4Propagator(line1, line2)
	if err != nil {
		return err
	}

	start := time.Now().UTC()
	rng := rand.New(rand.NewSource(cfg.Seed))
	targets, err := core.GenerateShiftedTargets(prop, start, cfg.PlanWindow, cfg.PlanInterval, cfg.MaxShiftKm, cfg.ShiftProb, rng)
	if err != nil {
		return err
	}

	sess := session.New(session.WithLogger(log), session.WithRecorder(collector))
	sess.SetTargets(targets)
	sess.SetFocus(true)

	wrap := core.WrapNaive
	if cfg.ShortestArcRates {
		wrap = core.WrapShortestArc
	}
	rates := core.NewRateTracker(wrap, core.EnergyModel{
		HeadingCoeff: cfg.HeadingCoeffW,
		TiltCoeff:    cfg.TiltCoeffW,
	})

	tr := newTracker(sess, prop, rates, collector, log, cfg.RangeOffsetM)

	mode := timectrl.RealTime
	if cfg.Accelerated {
		mode = timectrl.Accelerated
	}
	tc := timectrl.NewTimeController(start, cfg.SampleInterval, mode)
	tc.AddListener(tr.step)

	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())
	srv := &http.Server{Addr: cfg.MetricsAddr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(context.Background(), "metrics server failed", logging.String("error", err.Error()))
		}
	}()

	log.Info(ctx, "tracker starting",
		logging.String("satellite", cfg.SatelliteName),
		logging.Int("targets", len(targets)),
		logging.String("sample_interval", cfg.SampleInterval.String()),
		logging.String("metrics_addr", cfg.MetricsAddr),
	)

	done := tc.Start(cfg.RunDuration)
	select {
	case <-ctx.Done():
		log.Info(context.Background(), "shutting down")
		tc.Stop()
		<-done
	case <-done:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)

	log.Info(context.Background(), "tracker stopped", logging.Int("positions", sess.Len()))
	return nil
}

// elementLines resolves the TLE either inline from config or by looking the
// satellite up in the configured element file.
func elementLines(cfg config.Config) (string, string, error) {
	if cfg.TLELine1 != "" && cfg.TLELine2 != "" {
		return cfg.TLELine1, cfg.TLELine2, nil
	}
	sets, err := tle.ParseFile(cfg.TLEPath)
	if err != nil {
		return "", "", err
	}
	set, ok := tle.Find(sets, cfg.SatelliteName)
	if !ok {
		return "", "", errors.New("satellite " + cfg.SatelliteName + " not found in " + cfg.TLEPath)
	}
	return set.Line1, set.Line2, nil
}
