package model

import "fmt"

// GeoPoint is a geographic coordinate in decimal degrees, WGS-84 convention.
// Latitude is positive north, longitude positive east. No wraparound
// normalization is performed on construction.
type GeoPoint struct {
	Lat float64
	Lon float64
}

// String formats the point the way zone artifacts name their centre,
// e.g. "78.943_11.855".
func (p GeoPoint) String() string {
	return fmt.Sprintf("%.3f_%.3f", p.Lat, p.Lon)
}

// InRange reports whether the point lies inside the conventional
// latitude/longitude bounds.
func (p GeoPoint) InRange() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

// PointRing is an ordered sequence of points approximating a circle.
// A well-formed ring carries num_points+1 entries with the first entry
// duplicated at the end, so the ring is explicitly closed.
type PointRing []GeoPoint

// Closed reports whether the ring's first and last points coincide.
func (r PointRing) Closed() bool {
	if len(r) < 2 {
		return false
	}
	return r[0] == r[len(r)-1]
}

// DefaultNumPoints is the sampling resolution used when a zone does not
// specify one: one point per 4 degrees of bearing.
const DefaultNumPoints = 90

// CircleSpec describes one circle to generate.
type CircleSpec struct {
	Center    GeoPoint
	RadiusM   float64
	NumPoints int
}
