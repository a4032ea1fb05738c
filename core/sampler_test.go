package core

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/signalsfoundry/rqz-planner/model"
)

var brandal = model.GeoPoint{Lat: 78.9429667, Lon: 11.8554944}

func TestGenerateCircle_CardinalityAndClosure(t *testing.T) {
	g := NewGeodesic(WGS84)
	spec := model.CircleSpec{Center: brandal, RadiusM: 900, NumPoints: 90}

	ring, err := GenerateCircle(g, spec)
	if err != nil {
		t.Fatalf("GenerateCircle error: %v", err)
	}
	if len(ring) != 91 {
		t.Fatalf("ring has %d points, want 91", len(ring))
	}
	if !ring.Closed() {
		t.Errorf("ring not closed: first %v, last %v", ring[0], ring[len(ring)-1])
	}
}

func TestGenerateCircle_Deterministic(t *testing.T) {
	g := NewGeodesic(WGS84)
	spec := model.CircleSpec{Center: brandal, RadiusM: 900, NumPoints: 90}

	a, err := GenerateCircle(g, spec)
	if err != nil {
		t.Fatalf("GenerateCircle error: %v", err)
	}
	b, err := GenerateCircle(g, spec)
	if err != nil {
		t.Fatalf("GenerateCircle error: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Errorf("identical specs produced different rings")
	}
}

// Every ring point must sit at the nominal radius when re-measured with the
// inverse solution. The 6-decimal coordinate rounding can move a point by
// ~0.11 m per coordinate, so the rounded ring is held to 0.25 m.
func TestGenerateCircle_DistanceInvariant(t *testing.T) {
	g := NewGeodesic(WGS84)
	spec := model.CircleSpec{Center: brandal, RadiusM: 900, NumPoints: 90}

	ring, err := GenerateCircle(g, spec)
	if err != nil {
		t.Fatalf("GenerateCircle error: %v", err)
	}
	for i, p := range ring {
		d, _, err := g.Inverse(spec.Center, p)
		if err != nil {
			t.Fatalf("Inverse at sample %d: %v", i, err)
		}
		if math.Abs(d-spec.RadiusM) > 0.25 {
			t.Errorf("sample %d sits at %.4f m, want %.0f m", i, d, spec.RadiusM)
		}
	}
}

// Unrounded engine output must hit the radius to sub-millimetre; the
// rounding step is the only precision ceiling.
func TestDirect_DistanceInvariantBeforeRounding(t *testing.T) {
	g := NewGeodesic(WGS84)

	for i := 0; i <= 90; i++ {
		bearing := float64(i) * 360.0 / 90.0
		p, err := g.Direct(brandal, 900, bearing)
		if err != nil {
			t.Fatalf("Direct at bearing %g: %v", bearing, err)
		}
		d, _, err := g.Inverse(brandal, p)
		if err != nil {
			t.Fatalf("Inverse at bearing %g: %v", bearing, err)
		}
		if math.Abs(d-900) > 0.001 {
			t.Errorf("bearing %g: distance %.6f m, want 900 m within 1 mm", bearing, d)
		}
	}
}

func TestGenerateCircle_CoordinatesRounded(t *testing.T) {
	g := NewGeodesic(WGS84)
	spec := model.CircleSpec{Center: brandal, RadiusM: 900, NumPoints: 12}

	ring, err := GenerateCircle(g, spec)
	if err != nil {
		t.Fatalf("GenerateCircle error: %v", err)
	}
	for i, p := range ring {
		if p.Lat != roundCoord(p.Lat) || p.Lon != roundCoord(p.Lon) {
			t.Errorf("sample %d not rounded to 6 decimals: %v", i, p)
		}
	}
}

func TestGenerateCircle_SinglePointRing(t *testing.T) {
	g := NewGeodesic(WGS84)
	spec := model.CircleSpec{Center: brandal, RadiusM: 900, NumPoints: 1}

	ring, err := GenerateCircle(g, spec)
	if err != nil {
		t.Fatalf("GenerateCircle error: %v", err)
	}
	if len(ring) != 2 {
		t.Fatalf("ring has %d points, want 2", len(ring))
	}
	if !ring.Closed() {
		t.Errorf("degenerate ring not closed: %v", ring)
	}
}

func TestGenerateCircle_TinyRadius(t *testing.T) {
	g := NewGeodesic(WGS84)
	spec := model.CircleSpec{Center: brandal, RadiusM: 1, NumPoints: 8}

	ring, err := GenerateCircle(g, spec)
	if err != nil {
		t.Fatalf("GenerateCircle error: %v", err)
	}
	if len(ring) != 9 {
		t.Fatalf("ring has %d points, want 9", len(ring))
	}
	if !ring.Closed() {
		t.Errorf("ring not closed")
	}
}

func TestGenerateCircle_InvalidSpecs(t *testing.T) {
	g := NewGeodesic(WGS84)

	cases := []struct {
		name string
		spec model.CircleSpec
	}{
		{"zero points", model.CircleSpec{Center: brandal, RadiusM: 900, NumPoints: 0}},
		{"negative points", model.CircleSpec{Center: brandal, RadiusM: 900, NumPoints: -3}},
		{"zero radius", model.CircleSpec{Center: brandal, RadiusM: 0, NumPoints: 90}},
		{"negative radius", model.CircleSpec{Center: brandal, RadiusM: -5, NumPoints: 90}},
		{"latitude out of range", model.CircleSpec{Center: model.GeoPoint{Lat: 95, Lon: 0}, RadiusM: 900, NumPoints: 90}},
		{"longitude out of range", model.CircleSpec{Center: model.GeoPoint{Lat: 0, Lon: 181}, RadiusM: 900, NumPoints: 90}},
	}
	for _, tc := range cases {
		if _, err := GenerateCircle(g, tc.spec); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("%s: error = %v, want ErrInvalidInput", tc.name, err)
		}
	}
}
