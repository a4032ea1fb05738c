// Package planner orchestrates the zone pipeline: sample the circle, record
// it in the registry, verify it against the inverse solution, and export
// both artifacts.
package planner

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/signalsfoundry/rqz-planner/core"
	"github.com/signalsfoundry/rqz-planner/internal/export"
	"github.com/signalsfoundry/rqz-planner/internal/logging"
	"github.com/signalsfoundry/rqz-planner/internal/observability"
	"github.com/signalsfoundry/rqz-planner/model"
	"github.com/signalsfoundry/rqz-planner/registry"
)

// ErrZoneNotFound marks a lookup of a zone ID the registry does not hold.
var ErrZoneNotFound = errors.New("zone not found")

// Artifacts are the files written for one zone.
type Artifacts struct {
	TextPath  string
	TrackPath string
}

// Planner runs the compute-and-export pipeline for registered zones.
type Planner struct {
	geo     core.Geodesic
	reg     *registry.Registry
	log     logging.Logger
	metrics *observability.ZoneCollector
	tracer  trace.Tracer
	outDir  string
	author  string
	email   string
}

// Option configures a Planner.
type Option func(*Planner)

// WithLogger sets the structured logger.
func WithLogger(log logging.Logger) Option {
	return func(p *Planner) { p.log = log }
}

// WithMetrics sets the metrics collector.
func WithMetrics(c *observability.ZoneCollector) Option {
	return func(p *Planner) { p.metrics = c }
}

// WithOutputDir sets the directory artifacts are written to. Defaults to the
// working directory.
func WithOutputDir(dir string) Option {
	return func(p *Planner) { p.outDir = dir }
}

// WithAuthor sets the author name and contact carried into GPX metadata.
func WithAuthor(name, email string) Option {
	return func(p *Planner) {
		p.author = name
		p.email = email
	}
}

// New constructs a planner over the given solver and registry.
func New(geo core.Geodesic, reg *registry.Registry, opts ...Option) *Planner {
	p := &Planner{
		geo:    geo,
		reg:    reg,
		log:    logging.Noop(),
		tracer: otel.Tracer("rqz-planner/planner"),
		outDir: ".",
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ComputeRing samples the circle for a registered zone, stores the ring in
// the registry, and returns it.
func (p *Planner) ComputeRing(ctx context.Context, zoneID string) (model.PointRing, error) {
	ctx, span := p.tracer.Start(ctx, "planner.ComputeRing",
		trace.WithAttributes(attribute.String("zone.id", zoneID)))
	defer span.End()

	zone, ok := p.reg.Zone(zoneID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrZoneNotFound, zoneID)
	}

	ring, err := core.GenerateCircle(p.geo, zone.Spec)
	if err != nil {
		return nil, fmt.Errorf("zone %q: %w", zoneID, err)
	}
	if err := p.reg.SetRing(zoneID, ring); err != nil {
		return nil, err
	}
	p.metrics.RecordRing()

	maxErr, err := p.VerifyRing(zone, ring)
	if err != nil {
		return nil, fmt.Errorf("zone %q: %w", zoneID, err)
	}
	p.log.Debug(ctx, "ring computed",
		logging.String("zone_id", zoneID),
		logging.Int("points", len(ring)),
		logging.Float64("radius_m", zone.Spec.RadiusM),
		logging.Float64("max_radius_error_m", maxErr),
	)
	return ring, nil
}

// VerifyRing re-measures every ring point against the zone centre with the
// inverse solution and returns the largest deviation from the nominal
// radius, in metres. With 6-decimal coordinate rounding the deviation stays
// within a couple of decimetres.
func (p *Planner) VerifyRing(zone *model.Zone, ring model.PointRing) (maxErrM float64, err error) {
	for i, pt := range ring {
		d, _, err := p.geo.Inverse(zone.Spec.Center, pt)
		if err != nil {
			return 0, fmt.Errorf("verify sample %d: %w", i, err)
		}
		if e := math.Abs(d - zone.Spec.RadiusM); e > maxErrM {
			maxErrM = e
		}
	}
	return maxErrM, nil
}

// ExportZone computes the zone's ring if needed and writes both artifacts.
// If the second write fails, the first is removed so a failed run never
// leaves a half-exported zone behind.
func (p *Planner) ExportZone(ctx context.Context, zoneID string) (Artifacts, error) {
	ctx, span := p.tracer.Start(ctx, "planner.ExportZone",
		trace.WithAttributes(attribute.String("zone.id", zoneID)))
	defer span.End()

	zone, ok := p.reg.Zone(zoneID)
	if !ok {
		return Artifacts{}, fmt.Errorf("%w: %q", ErrZoneNotFound, zoneID)
	}

	ring, ok := p.reg.Ring(zoneID)
	if !ok {
		var err error
		ring, err = p.ComputeRing(ctx, zoneID)
		if err != nil {
			return Artifacts{}, err
		}
	}

	name := zone.OutputName()
	textPath, err := export.WriteTextFile(p.outDir, name, ring)
	if err != nil {
		return Artifacts{}, fmt.Errorf("zone %q: %w", zoneID, err)
	}

	meta := export.TrackMeta{
		Name:        zone.Name,
		Author:      p.author,
		Email:       p.email,
		Description: zone.Description,
		RadiusM:     zone.Spec.RadiusM,
		CenterStr:   zone.Spec.Center.String(),
	}
	if meta.Name == "" {
		meta.Name = name
	}
	trackPath, err := export.WriteTrackFile(p.outDir, name, ring, meta)
	if err != nil {
		os.Remove(textPath)
		return Artifacts{}, fmt.Errorf("zone %q: %w", zoneID, err)
	}
	// Counted only once both artifacts are on disk, so a failed run never
	// inflates the export totals.
	p.metrics.RecordExport("txt")
	p.metrics.RecordExport("gpx")

	p.log.Info(ctx, "zone exported",
		logging.String("zone_id", zoneID),
		logging.String("text", textPath),
		logging.String("track", trackPath),
	)
	return Artifacts{TextPath: textPath, TrackPath: trackPath}, nil
}

// RunAll exports every registered zone in insertion order, stopping at the
// first failure.
func (p *Planner) RunAll(ctx context.Context) ([]Artifacts, error) {
	zones := p.reg.Zones()
	out := make([]Artifacts, 0, len(zones))
	for _, zone := range zones {
		artifacts, err := p.ExportZone(ctx, zone.ID)
		if err != nil {
			return out, err
		}
		out = append(out, artifacts)
	}
	return out, nil
}
