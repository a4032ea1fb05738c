package core

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/signalsfoundry/rqz-planner/model"
	"github.com/signalsfoundry/rqz-planner/registry"
)

// ZoneScenario is a small summary of what was loaded from a zone file.
// It's mainly useful for logging from main().
type ZoneScenario struct {
	ZoneIDs []string
}

// internal document shapes – kept unexported so we're free to evolve them.
type zoneScenarioDoc struct {
	Zones []zoneDoc `json:"zones" yaml:"zones"`
}

type zoneDoc struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Center      centerDoc `json:"center" yaml:"center"`
	RadiusM     float64   `json:"radius_m" yaml:"radius_m"`
	NumPoints   *int      `json:"num_points" yaml:"num_points"` // optional; defaults to 90
	Output      string    `json:"output" yaml:"output"`
	Description string    `json:"description" yaml:"description"`
}

// centerDoc accepts either decimal degrees or "D:M:S" strings, but not a
// mixture within one axis.
type centerDoc struct {
	Lat    *float64 `json:"lat" yaml:"lat"`
	Lon    *float64 `json:"lon" yaml:"lon"`
	LatDMS string   `json:"lat_dms" yaml:"lat_dms"`
	LonDMS string   `json:"lon_dms" yaml:"lon_dms"`
}

func (c centerDoc) resolve() (model.GeoPoint, error) {
	lat, err := resolveAxis(c.Lat, c.LatDMS, "lat")
	if err != nil {
		return model.GeoPoint{}, err
	}
	lon, err := resolveAxis(c.Lon, c.LonDMS, "lon")
	if err != nil {
		return model.GeoPoint{}, err
	}
	return model.GeoPoint{Lat: lat, Lon: lon}, nil
}

func resolveAxis(dd *float64, dms, axis string) (float64, error) {
	switch {
	case dd != nil && dms != "":
		return 0, fmt.Errorf("centre %s given both in decimal and DMS form", axis)
	case dd != nil:
		return *dd, nil
	case dms != "":
		parsed, err := ParseDMS(dms)
		if err != nil {
			return 0, fmt.Errorf("centre %s: %w", axis, err)
		}
		return parsed.Decimal(), nil
	default:
		return 0, fmt.Errorf("centre %s missing", axis)
	}
}

// ScenarioFormat selects the on-disk encoding of a zone file.
type ScenarioFormat string

const (
	FormatJSON ScenarioFormat = "json"
	FormatYAML ScenarioFormat = "yaml"
)

// FormatForPath picks the scenario format from a file extension, defaulting
// to YAML.
func FormatForPath(path string) ScenarioFormat {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// LoadZoneScenario reads zone definitions from r, registers them with reg,
// and returns a summary of what was loaded.
//
// It fails on decode errors and on structurally invalid zones (empty ID,
// missing centre, non-positive radius, explicit num_points below 1).
// Duplicate IDs surface as the same error AddZone reports for direct calls.
func LoadZoneScenario(reg *registry.Registry, r io.Reader, format ScenarioFormat) (*ZoneScenario, error) {
	if reg == nil {
		return nil, fmt.Errorf("LoadZoneScenario: registry is nil")
	}

	var payload zoneScenarioDoc
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&payload); err != nil {
			return nil, fmt.Errorf("LoadZoneScenario: decode failed: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&payload); err != nil {
			return nil, fmt.Errorf("LoadZoneScenario: decode failed: %w", err)
		}
	default:
		return nil, fmt.Errorf("LoadZoneScenario: unsupported format %q", format)
	}

	result := &ZoneScenario{
		ZoneIDs: make([]string, 0, len(payload.Zones)),
	}

	for _, doc := range payload.Zones {
		if doc.ID == "" {
			return nil, fmt.Errorf("LoadZoneScenario: zone with empty id")
		}
		center, err := doc.Center.resolve()
		if err != nil {
			return nil, fmt.Errorf("LoadZoneScenario: zone %q: %w", doc.ID, err)
		}
		if doc.RadiusM <= 0 {
			return nil, fmt.Errorf("LoadZoneScenario: zone %q: radius must be positive, got %g", doc.ID, doc.RadiusM)
		}
		numPoints := model.DefaultNumPoints
		if doc.NumPoints != nil {
			if *doc.NumPoints < 1 {
				return nil, fmt.Errorf("LoadZoneScenario: zone %q: num_points must be >= 1, got %d", doc.ID, *doc.NumPoints)
			}
			numPoints = *doc.NumPoints
		}

		zone := &model.Zone{
			ID:   doc.ID,
			Name: doc.Name,
			Spec: model.CircleSpec{
				Center:    center,
				RadiusM:   doc.RadiusM,
				NumPoints: numPoints,
			},
			Output:      doc.Output,
			Description: doc.Description,
		}
		if err := reg.AddZone(zone); err != nil {
			return nil, fmt.Errorf("LoadZoneScenario: %w", err)
		}
		result.ZoneIDs = append(result.ZoneIDs, doc.ID)
	}

	return result, nil
}
