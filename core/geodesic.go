package core

import (
	"fmt"
	"math"

	"github.com/signalsfoundry/rqz-planner/model"
)

// Ellipsoid is a reference ellipsoid given by its equatorial radius and
// inverse flattening.
type Ellipsoid struct {
	SemiMajorM    float64
	InvFlattening float64
}

// WGS84 is the reference model used for all zone computations.
var WGS84 = Ellipsoid{SemiMajorM: 6378137.0, InvFlattening: 298.257223563}

func (e Ellipsoid) flattening() float64 { return 1 / e.InvFlattening }

// semiMinorM is the polar radius b = a(1-f).
func (e Ellipsoid) semiMinorM() float64 { return e.SemiMajorM * (1 - e.flattening()) }

// Geodesic solves the direct and inverse geodesic problems on a reference
// ellipsoid using Vincenty's iterative formulae. The ellipsoid is fixed at
// construction; the solver itself is stateless.
type Geodesic struct {
	ell Ellipsoid
}

// NewGeodesic returns a solver bound to the given ellipsoid.
func NewGeodesic(ell Ellipsoid) Geodesic {
	return Geodesic{ell: ell}
}

const (
	// Convergence threshold on the iterated angle, in radians. 1e-12 is
	// roughly 0.006 mm on the WGS-84 ellipsoid.
	convergenceRad = 1e-12
	maxIterations  = 200
)

func toRadians(deg float64) float64 { return deg * math.Pi / 180 }
func toDegrees(rad float64) float64 { return rad * 180 / math.Pi }

// Direct computes the point reached by travelling distanceM metres from
// origin along the initial true bearing bearingDeg (degrees clockwise from
// north, taken modulo 360). Returns origin unchanged for a zero distance.
func (g Geodesic) Direct(origin model.GeoPoint, distanceM, bearingDeg float64) (model.GeoPoint, error) {
	if distanceM < 0 {
		return model.GeoPoint{}, fmt.Errorf("%w: distance must be non-negative, got %g m", ErrInvalidInput, distanceM)
	}
	if distanceM == 0 {
		return origin, nil
	}

	a := g.ell.SemiMajorM
	f := g.ell.flattening()
	b := g.ell.semiMinorM()

	sinAlpha1, cosAlpha1 := math.Sincos(toRadians(math.Mod(bearingDeg, 360)))

	tanU1 := (1 - f) * math.Tan(toRadians(origin.Lat))
	cosU1 := 1 / math.Sqrt(1+tanU1*tanU1)
	sinU1 := tanU1 * cosU1

	sigma1 := math.Atan2(tanU1, cosAlpha1)
	sinAlpha := cosU1 * sinAlpha1
	cosSqAlpha := 1 - sinAlpha*sinAlpha
	uSq := cosSqAlpha * (a*a - b*b) / (b * b)
	bigA := 1 + uSq/16384*(4096+uSq*(-768+uSq*(320-175*uSq)))
	bigB := uSq / 1024 * (256 + uSq*(-128+uSq*(74-47*uSq)))

	// Iterate the arc length sigma on the auxiliary sphere.
	sigma := distanceM / (b * bigA)
	var sinSigma, cosSigma, cos2SigmaM float64
	for i := 0; ; i++ {
		cos2SigmaM = math.Cos(2*sigma1 + sigma)
		sinSigma, cosSigma = math.Sincos(sigma)
		deltaSigma := bigB * sinSigma * (cos2SigmaM + bigB/4*(cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)-
			bigB/6*cos2SigmaM*(-3+4*sinSigma*sinSigma)*(-3+4*cos2SigmaM*cos2SigmaM)))
		next := distanceM/(b*bigA) + deltaSigma
		if math.Abs(next-sigma) < convergenceRad {
			sigma = next
			break
		}
		if i >= maxIterations {
			return model.GeoPoint{}, fmt.Errorf("%w: direct problem at bearing %g after %d iterations",
				ErrNoConvergence, bearingDeg, maxIterations)
		}
		sigma = next
	}
	cos2SigmaM = math.Cos(2*sigma1 + sigma)
	sinSigma, cosSigma = math.Sincos(sigma)

	tmp := sinU1*sinSigma - cosU1*cosSigma*cosAlpha1
	phi2 := math.Atan2(sinU1*cosSigma+cosU1*sinSigma*cosAlpha1,
		(1-f)*math.Sqrt(sinAlpha*sinAlpha+tmp*tmp))
	lambda := math.Atan2(sinSigma*sinAlpha1, cosU1*cosSigma-sinU1*sinSigma*cosAlpha1)
	c := f / 16 * cosSqAlpha * (4 + f*(4-3*cosSqAlpha))
	deltaLon := lambda - (1-c)*f*sinAlpha*
		(sigma+c*sinSigma*(cos2SigmaM+c*cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)))

	return model.GeoPoint{
		Lat: toDegrees(phi2),
		Lon: origin.Lon + toDegrees(deltaLon),
	}, nil
}

// Inverse computes the geodesic distance in metres and the initial true
// bearing in degrees from p1 to p2. Coincident points yield (0, 0).
func (g Geodesic) Inverse(p1, p2 model.GeoPoint) (distanceM, initialBearingDeg float64, err error) {
	a := g.ell.SemiMajorM
	f := g.ell.flattening()
	b := g.ell.semiMinorM()

	l := toRadians(p2.Lon - p1.Lon)

	tanU1 := (1 - f) * math.Tan(toRadians(p1.Lat))
	cosU1 := 1 / math.Sqrt(1+tanU1*tanU1)
	sinU1 := tanU1 * cosU1
	tanU2 := (1 - f) * math.Tan(toRadians(p2.Lat))
	cosU2 := 1 / math.Sqrt(1+tanU2*tanU2)
	sinU2 := tanU2 * cosU2

	lambda := l
	var sinLambda, cosLambda float64
	var sinSigma, cosSigma, sigma float64
	var sinAlpha, cosSqAlpha, cos2SigmaM float64
	for i := 0; ; i++ {
		sinLambda, cosLambda = math.Sincos(lambda)
		t1 := cosU2 * sinLambda
		t2 := cosU1*sinU2 - sinU1*cosU2*cosLambda
		sinSigma = math.Sqrt(t1*t1 + t2*t2)
		if sinSigma == 0 {
			// Coincident points.
			return 0, 0, nil
		}
		cosSigma = sinU1*sinU2 + cosU1*cosU2*cosLambda
		sigma = math.Atan2(sinSigma, cosSigma)
		sinAlpha = cosU1 * cosU2 * sinLambda / sinSigma
		cosSqAlpha = 1 - sinAlpha*sinAlpha
		if cosSqAlpha == 0 {
			// Equatorial line.
			cos2SigmaM = 0
		} else {
			cos2SigmaM = cosSigma - 2*sinU1*sinU2/cosSqAlpha
		}
		c := f / 16 * cosSqAlpha * (4 + f*(4-3*cosSqAlpha))
		next := l + (1-c)*f*sinAlpha*
			(sigma+c*sinSigma*(cos2SigmaM+c*cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)))
		if math.Abs(next-lambda) < convergenceRad {
			lambda = next
			break
		}
		if i >= maxIterations {
			return 0, 0, fmt.Errorf("%w: inverse problem between %v and %v after %d iterations",
				ErrNoConvergence, p1, p2, maxIterations)
		}
		lambda = next
	}

	uSq := cosSqAlpha * (a*a - b*b) / (b * b)
	bigA := 1 + uSq/16384*(4096+uSq*(-768+uSq*(320-175*uSq)))
	bigB := uSq / 1024 * (256 + uSq*(-128+uSq*(74-47*uSq)))
	deltaSigma := bigB * sinSigma * (cos2SigmaM + bigB/4*(cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)-
		bigB/6*cos2SigmaM*(-3+4*sinSigma*sinSigma)*(-3+4*cos2SigmaM*cos2SigmaM)))

	distanceM = b * bigA * (sigma - deltaSigma)
	bearing := math.Atan2(cosU2*sinLambda, cosU1*sinU2-sinU1*cosU2*cosLambda)
	initialBearingDeg = math.Mod(toDegrees(bearing)+360, 360)
	return distanceM, initialBearingDeg, nil
}
