package main

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/signalsfoundry/rqz-planner/internal/logging"
)

func TestRun_AdHocZone(t *testing.T) {
	dir := t.TempDir()
	ps := params{
		outDir: dir,
		lat:    78.9429667,
		lon:    11.8554944,
		radius: 250,
		points: 12,
		name:   "test-zone",
	}

	if err := run(context.Background(), logging.Noop(), ps); err != nil {
		t.Fatalf("run error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "test-zone.txt"))
	if err != nil {
		t.Fatalf("text artifact missing: %v", err)
	}
	if lines := strings.Count(string(data), "\n"); lines != 13 {
		t.Errorf("text artifact has %d lines, want 13", lines)
	}
	if _, err := os.Stat(filepath.Join(dir, "test-zone.gpx")); err != nil {
		t.Errorf("track artifact missing: %v", err)
	}
}

func TestRun_ScenarioFile(t *testing.T) {
	dir := t.TempDir()
	scenario := filepath.Join(dir, "zones.yaml")
	doc := `
zones:
  - id: brandal-core
    center:
      lat_dms: "78:56:34.68"
      lon_dms: "11:51:19.78"
    radius_m: 900
    num_points: 12
    output: brandal
`
	if err := os.WriteFile(scenario, []byte(doc), 0o644); err != nil {
		t.Fatalf("write scenario: %v", err)
	}

	ps := params{zonesPath: scenario, outDir: dir}
	if err := run(context.Background(), logging.Noop(), ps); err != nil {
		t.Fatalf("run error: %v", err)
	}

	for _, name := range []string{"brandal.txt", "brandal.gpx"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("artifact %s missing: %v", name, err)
		}
	}
}

func TestRun_MissingCenter(t *testing.T) {
	ps := params{
		outDir: t.TempDir(),
		lat:    math.NaN(),
		lon:    math.NaN(),
		radius: 900,
		points: 12,
	}
	if err := run(context.Background(), logging.Noop(), ps); err == nil {
		t.Fatalf("expected an error without a centre")
	}
}

func TestResolveCenter_DMSOverridesDecimal(t *testing.T) {
	ps := params{
		lat:    1,
		lon:    2,
		latDMS: "78:56:34.68",
		lonDMS: "11:51:19.78",
	}
	center, err := resolveCenter(ps)
	if err != nil {
		t.Fatalf("resolveCenter error: %v", err)
	}
	if math.Abs(center.Lat-78.9429667) > 5e-7 || math.Abs(center.Lon-11.8554944) > 5e-7 {
		t.Errorf("centre = %v, want the DMS values", center)
	}
}

func TestResolveCenter_BadDMS(t *testing.T) {
	if _, err := resolveCenter(params{latDMS: "nope", lon: 2}); err == nil {
		t.Fatalf("expected an error for malformed DMS")
	}
}
