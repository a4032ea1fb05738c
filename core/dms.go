package core

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/signalsfoundry/rqz-planner/model"
)

// DMS is a sexagesimal coordinate component. The sign of the whole value is
// carried on Degrees; Minutes and Seconds are magnitudes. Negative marks
// values in the (-1, 0) degree band, where zero degrees cannot carry the
// sign itself.
type DMS struct {
	Degrees  int
	Minutes  int
	Seconds  float64
	Negative bool
}

// Decimal converts the component to decimal degrees.
func (d DMS) Decimal() float64 {
	sign := 1.0
	deg := d.Degrees
	if deg < 0 {
		sign = -1
		deg = -deg
	}
	if d.Negative {
		sign = -1
	}
	return sign * (float64(deg) + float64(d.Minutes)/60 + d.Seconds/3600)
}

// PointFromDMS converts a latitude/longitude pair of DMS components to a
// decimal-degree point.
func PointFromDMS(lat, lon DMS) model.GeoPoint {
	return model.GeoPoint{Lat: lat.Decimal(), Lon: lon.Decimal()}
}

// ParseDMS parses a "D:M:S" string such as "78:56:34.68" or "-37:57:03.72".
// Degrees and minutes are integral; seconds may carry a fraction. A leading
// minus applies to the whole value, so "-0:30:0" parses to -0.5 degrees.
func ParseDMS(s string) (DMS, error) {
	trimmed := strings.TrimSpace(s)
	neg := strings.HasPrefix(trimmed, "-")
	parts := strings.Split(strings.TrimPrefix(trimmed, "-"), ":")
	if len(parts) != 3 {
		return DMS{}, fmt.Errorf("%w: DMS value %q must have the form D:M:S", ErrInvalidInput, s)
	}
	deg, err := strconv.Atoi(parts[0])
	if err != nil || deg < 0 {
		return DMS{}, fmt.Errorf("%w: degrees in %q must be a non-negative integer after the sign", ErrInvalidInput, s)
	}
	min, err := strconv.Atoi(parts[1])
	if err != nil {
		return DMS{}, fmt.Errorf("%w: minutes in %q: %v", ErrInvalidInput, s, err)
	}
	sec, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return DMS{}, fmt.Errorf("%w: seconds in %q: %v", ErrInvalidInput, s, err)
	}
	if min < 0 || min >= 60 || sec < 0 || sec >= 60 {
		return DMS{}, fmt.Errorf("%w: minutes and seconds in %q must be in [0, 60)", ErrInvalidInput, s)
	}
	if neg && deg > 0 {
		return DMS{Degrees: -deg, Minutes: min, Seconds: sec}, nil
	}
	return DMS{Degrees: deg, Minutes: min, Seconds: sec, Negative: neg}, nil
}
