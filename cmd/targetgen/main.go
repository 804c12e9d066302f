// Command targetgen samples a satellite's ground track into a target plan
// and prints it as JSON, for feeding viewers or seeding tracker configs.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/groundsight/orbitcam/core"
	"github.com/groundsight/orbitcam/internal/tle"
)

func main() {
	tlePath := flag.String("tle", "configs/stations.tle", "path to a 3-line element file")
	name := flag.String("name", "ISS (ZARYA)", "satellite name to look up")
	startStr := flag.String("start", "", "plan start time, RFC 3339 (default: now)")
	window := flag.Duration("window", 90*time.Minute, "plan window")
	interval := flag.Duration("interval", time.Minute, "sampling interval")
	maxShiftKm := flag.Float64("max-shift-km", 0, "maximum lateral displacement in km")
	shiftProb := flag.Float64("shift-prob", 0, "per-point displacement probability")
	seed := flag.Int64("seed", 42, "random seed for displacement")
	flag.Parse()

	start := time.Now().UTC()
	if *startStr != "" {
		parsed, err := time.Parse(time.RFC3339, *startStr)
		if err != nil {
			fatalf("invalid -start: %v", err)
		}
		start = parsed.UTC()
	}

	sets, err := tle.ParseFile(*tlePath)
	if err != nil {
		fatalf("%v", err)
	}
	set, ok := tle.Find(sets, *name)
	if !ok {
		fatalf("satellite %q not found in %s", *name, *tlePath)
	}

	prop, err := core.NewSGP4Propagator(set.Line1, set.Line2)
	if err != nil {
		fatalf("%v", err)
	}

	rng := rand.New(rand.NewSource(*seed))
	targets, err := core.GenerateShiftedTargets(prop, start, *window, *interval, *maxShiftKm, *shiftProb, rng)
	if err != nil {
		fatalf("%v", err)
	}

	out := struct {
		Satellite string    `json:"satellite"`
		Start     time.Time `json:"start"`
		Interval  string    `json:"interval"`
		Targets   []point   `json:"targets"`
	}{
		Satellite: set.Name,
		Start:     start,
		Interval:  interval.String(),
		Targets:   make([]point, 0, len(targets)),
	}
	for _, t := range targets {
		out.Targets = append(out.Targets, point{Lat: t.LatDeg, Lon: t.LonDeg})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fatalf("encoding plan: %v", err)
	}
}

type point struct {
	Lat float64 `json:"lat_deg"`
	Lon float64 `json:"lon_deg"`
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "targetgen: "+format+"\n", args...)
	os.Exit(1)
}
