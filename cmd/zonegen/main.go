package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/signalsfoundry/rqz-planner/core"
	"github.com/signalsfoundry/rqz-planner/internal/logging"
	"github.com/signalsfoundry/rqz-planner/internal/observability"
	"github.com/signalsfoundry/rqz-planner/internal/planner"
	"github.com/signalsfoundry/rqz-planner/model"
	"github.com/signalsfoundry/rqz-planner/registry"
)

type params struct {
	zonesPath string
	outDir    string

	lat    float64
	lon    float64
	latDMS string
	lonDMS string
	radius float64
	points int
	name   string

	author string
	email  string
}

func main() {
	var ps params
	flag.StringVar(&ps.zonesPath, "zones", "", "path to a zone scenario file (JSON or YAML); overrides the ad-hoc flags")
	flag.StringVar(&ps.outDir, "out", ".", "directory artifacts are written to")
	flag.Float64Var(&ps.lat, "lat", math.NaN(), "centre latitude in decimal degrees")
	flag.Float64Var(&ps.lon, "lon", math.NaN(), "centre longitude in decimal degrees")
	flag.StringVar(&ps.latDMS, "lat-dms", "", `centre latitude as "D:M:S", e.g. "78:56:34.68" (overrides -lat)`)
	flag.StringVar(&ps.lonDMS, "lon-dms", "", `centre longitude as "D:M:S" (overrides -lon)`)
	flag.Float64Var(&ps.radius, "radius", 0, "circle radius in metres")
	flag.IntVar(&ps.points, "points", model.DefaultNumPoints, "number of points on the circle")
	flag.StringVar(&ps.name, "name", "", "artifact base name (default derived from radius and centre)")
	flag.StringVar(&ps.author, "author", "", "author name carried into GPX metadata")
	flag.StringVar(&ps.email, "email", "", "author contact carried into GPX metadata")
	flag.Parse()

	log := logging.NewFromEnv()
	ctx := context.Background()

	shutdown, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		log.Error(ctx, "failed to initialise tracing", logging.Err(err))
		os.Exit(1)
	}

	code := 0
	if err := run(ctx, log, ps); err != nil {
		log.Error(ctx, "zone generation failed", logging.Err(err))
		code = 1
	}
	observability.ShutdownWithTimeout(ctx, shutdown, log)
	os.Exit(code)
}

func run(ctx context.Context, log logging.Logger, ps params) error {
	reg := registry.New()
	geo := core.NewGeodesic(core.WGS84)

	if ps.zonesPath != "" {
		f, err := os.Open(ps.zonesPath)
		if err != nil {
			return fmt.Errorf("open zone scenario: %w", err)
		}
		scenario, err := core.LoadZoneScenario(reg, f, core.FormatForPath(ps.zonesPath))
		f.Close()
		if err != nil {
			return err
		}
		log.Info(ctx, "zone scenario loaded",
			logging.String("path", ps.zonesPath),
			logging.Int("zones", len(scenario.ZoneIDs)),
		)
	} else {
		center, err := resolveCenter(ps)
		if err != nil {
			return err
		}
		if err := reg.AddZone(&model.Zone{
			ID:   "adhoc",
			Name: ps.name,
			Spec: model.CircleSpec{
				Center:    center,
				RadiusM:   ps.radius,
				NumPoints: ps.points,
			},
			Output: ps.name,
		}); err != nil {
			return err
		}
	}

	p := planner.New(geo, reg,
		planner.WithLogger(log),
		planner.WithOutputDir(ps.outDir),
		planner.WithAuthor(ps.author, ps.email),
	)
	_, err := p.RunAll(ctx)
	return err
}

// resolveCenter picks the centre from the ad-hoc flags, preferring the DMS
// forms when given.
func resolveCenter(ps params) (model.GeoPoint, error) {
	lat, lon := ps.lat, ps.lon
	if ps.latDMS != "" {
		parsed, err := core.ParseDMS(ps.latDMS)
		if err != nil {
			return model.GeoPoint{}, err
		}
		lat = parsed.Decimal()
	}
	if ps.lonDMS != "" {
		parsed, err := core.ParseDMS(ps.lonDMS)
		if err != nil {
			return model.GeoPoint{}, err
		}
		lon = parsed.Decimal()
	}
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return model.GeoPoint{}, fmt.Errorf("centre is required: set -lat/-lon or -lat-dms/-lon-dms, or use -zones")
	}
	return model.GeoPoint{Lat: lat, Lon: lon}, nil
}
