package core

import (
	"math"
	"strings"
	"testing"

	"github.com/signalsfoundry/rqz-planner/model"
	"github.com/signalsfoundry/rqz-planner/registry"
)

const yamlScenario = `
zones:
  - id: brandal-core
    name: Brandal mobile-no-go zone
    center:
      lat_dms: "78:56:34.68"
      lon_dms: "11:51:19.78"
    radius_m: 900
  - id: test-point
    center:
      lat: 78.9239722
      lon: 11.9233056
    radius_m: 250
    num_points: 36
    output: bedroom-circle
`

const jsonScenario = `{
  "zones": [
    {
      "id": "brandal-core",
      "center": {"lat_dms": "78:56:34.68", "lon_dms": "11:51:19.78"},
      "radius_m": 900
    }
  ]
}`

func TestLoadZoneScenario_YAML(t *testing.T) {
	reg := registry.New()

	scenario, err := LoadZoneScenario(reg, strings.NewReader(yamlScenario), FormatYAML)
	if err != nil {
		t.Fatalf("LoadZoneScenario error: %v", err)
	}
	if len(scenario.ZoneIDs) != 2 {
		t.Fatalf("loaded %d zones, want 2", len(scenario.ZoneIDs))
	}

	brandal, ok := reg.Zone("brandal-core")
	if !ok {
		t.Fatalf("zone brandal-core not registered")
	}
	if math.Abs(brandal.Spec.Center.Lat-78.9429667) > 5e-7 {
		t.Errorf("brandal latitude = %.7f, want 78.9429667", brandal.Spec.Center.Lat)
	}
	if brandal.Spec.NumPoints != model.DefaultNumPoints {
		t.Errorf("brandal num_points = %d, want default %d", brandal.Spec.NumPoints, model.DefaultNumPoints)
	}

	point, ok := reg.Zone("test-point")
	if !ok {
		t.Fatalf("zone test-point not registered")
	}
	if point.Spec.NumPoints != 36 {
		t.Errorf("test-point num_points = %d, want 36", point.Spec.NumPoints)
	}
	if point.OutputName() != "bedroom-circle" {
		t.Errorf("test-point output = %q, want bedroom-circle", point.OutputName())
	}
}

func TestLoadZoneScenario_JSON(t *testing.T) {
	reg := registry.New()

	scenario, err := LoadZoneScenario(reg, strings.NewReader(jsonScenario), FormatJSON)
	if err != nil {
		t.Fatalf("LoadZoneScenario error: %v", err)
	}
	if len(scenario.ZoneIDs) != 1 || scenario.ZoneIDs[0] != "brandal-core" {
		t.Fatalf("ZoneIDs = %v, want [brandal-core]", scenario.ZoneIDs)
	}
}

func TestLoadZoneScenario_Invalid(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"empty id", `{"zones": [{"center": {"lat": 1, "lon": 2}, "radius_m": 10}]}`},
		{"missing centre", `{"zones": [{"id": "z", "radius_m": 10}]}`},
		{"ambiguous centre", `{"zones": [{"id": "z", "center": {"lat": 1, "lat_dms": "1:2:3", "lon": 2}, "radius_m": 10}]}`},
		{"zero radius", `{"zones": [{"id": "z", "center": {"lat": 1, "lon": 2}, "radius_m": 0}]}`},
		{"zero num_points", `{"zones": [{"id": "z", "center": {"lat": 1, "lon": 2}, "radius_m": 10, "num_points": 0}]}`},
		{"negative num_points", `{"zones": [{"id": "z", "center": {"lat": 1, "lon": 2}, "radius_m": 10, "num_points": -4}]}`},
		{"duplicate id", `{"zones": [
			{"id": "z", "center": {"lat": 1, "lon": 2}, "radius_m": 10},
			{"id": "z", "center": {"lat": 1, "lon": 2}, "radius_m": 10}
		]}`},
		{"not json", `zones: nope:`},
	}
	for _, tc := range cases {
		reg := registry.New()
		if _, err := LoadZoneScenario(reg, strings.NewReader(tc.doc), FormatJSON); err == nil {
			t.Errorf("%s: expected an error", tc.name)
		}
	}
}

func TestLoadZoneScenario_NilRegistry(t *testing.T) {
	if _, err := LoadZoneScenario(nil, strings.NewReader(jsonScenario), FormatJSON); err == nil {
		t.Fatalf("expected an error for nil registry")
	}
}

func TestFormatForPath(t *testing.T) {
	if got := FormatForPath("configs/zones.json"); got != FormatJSON {
		t.Errorf("FormatForPath(.json) = %q, want json", got)
	}
	for _, path := range []string{"configs/zones.yaml", "configs/zones.yml", "zones"} {
		if got := FormatForPath(path); got != FormatYAML {
			t.Errorf("FormatForPath(%q) = %q, want yaml", path, got)
		}
	}
}
