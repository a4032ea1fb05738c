package core

import (
	"fmt"
	"math"

	"github.com/signalsfoundry/rqz-planner/model"
)

// Coordinates are rounded to 6 decimal places (~0.11 m of latitude at the
// equator) before they reach any exporter. This is a deliberate precision
// ceiling applied uniformly to every sample, not a float-width artifact.
const coordDecimals = 1e6

func roundCoord(v float64) float64 {
	return math.Round(v*coordDecimals) / coordDecimals
}

// GenerateCircle samples spec.NumPoints+1 destinations at evenly spaced
// bearings (i*360/NumPoints for i = 0..NumPoints) around spec.Center and
// returns them in bearing order. Bearing 0 and bearing 360 resolve to the
// same destination, so the ring comes back explicitly closed. The result is
// deterministic for identical input.
func GenerateCircle(g Geodesic, spec model.CircleSpec) (model.PointRing, error) {
	if spec.NumPoints < 1 {
		return nil, fmt.Errorf("%w: num_points must be >= 1, got %d", ErrInvalidInput, spec.NumPoints)
	}
	if spec.RadiusM <= 0 {
		return nil, fmt.Errorf("%w: radius must be positive, got %g m", ErrInvalidInput, spec.RadiusM)
	}
	if !spec.Center.InRange() {
		return nil, fmt.Errorf("%w: centre (%g, %g) outside coordinate range", ErrInvalidInput, spec.Center.Lat, spec.Center.Lon)
	}

	ring := make(model.PointRing, 0, spec.NumPoints+1)
	for i := 0; i <= spec.NumPoints; i++ {
		bearing := float64(i) * 360.0 / float64(spec.NumPoints)
		p, err := g.Direct(spec.Center, spec.RadiusM, bearing)
		if err != nil {
			return nil, fmt.Errorf("sample %d (bearing %g): %w", i, bearing, err)
		}
		ring = append(ring, model.GeoPoint{
			Lat: roundCoord(p.Lat),
			Lon: roundCoord(p.Lon),
		})
	}
	return ring, nil
}
