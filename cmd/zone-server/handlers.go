package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/signalsfoundry/rqz-planner/core"
	"github.com/signalsfoundry/rqz-planner/internal/export"
	"github.com/signalsfoundry/rqz-planner/internal/logging"
	"github.com/signalsfoundry/rqz-planner/internal/observability"
	"github.com/signalsfoundry/rqz-planner/internal/planner"
	"github.com/signalsfoundry/rqz-planner/model"
	"github.com/signalsfoundry/rqz-planner/registry"
)

type server struct {
	log     logging.Logger
	reg     *registry.Registry
	geo     core.Geodesic
	planner *planner.Planner
	metrics *observability.ZoneCollector
	author  string
	email   string
}

func newServer(log logging.Logger, reg *registry.Registry, geo core.Geodesic, pl *planner.Planner, metrics *observability.ZoneCollector, author, email string) *server {
	return &server{
		log:     log,
		reg:     reg,
		geo:     geo,
		planner: pl,
		metrics: metrics,
		author:  author,
		email:   email,
	}
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /v1/zones", s.instrument("zones_list", s.handleListZones))
	mux.Handle("GET /v1/zones/{id}/track.gpx", s.instrument("zone_track", s.handleZoneTrack))
	mux.Handle("GET /v1/zones/{id}/points.txt", s.instrument("zone_points", s.handleZonePoints))
	mux.Handle("POST /v1/circle", s.instrument("circle", s.handleCircle))
	return s.withRequestID(mux)
}

func (s *server) instrument(name string, h http.HandlerFunc) http.Handler {
	return s.metrics.InstrumentHandler(name, h)
}

// withRequestID tags every request with a request_id and a request-scoped
// logger context.
func (s *server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ctx, id := logging.EnsureRequestID(req.Context())
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, req.WithContext(ctx))
	})
}

func (s *server) handleHealth(w http.ResponseWriter, req *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok\n"))
}

type zoneSummary struct {
	ID        string  `json:"id"`
	Name      string  `json:"name,omitempty"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	RadiusM   float64 `json:"radius_m"`
	NumPoints int     `json:"num_points"`
}

func (s *server) handleListZones(w http.ResponseWriter, req *http.Request) {
	zones := s.reg.Zones()
	out := make([]zoneSummary, 0, len(zones))
	for _, z := range zones {
		out = append(out, zoneSummary{
			ID:        z.ID,
			Name:      z.Name,
			Lat:       z.Spec.Center.Lat,
			Lon:       z.Spec.Center.Lon,
			RadiusM:   z.Spec.RadiusM,
			NumPoints: z.Spec.NumPoints,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// ringForZone returns the cached ring for a zone, computing and recording it
// on first use.
func (s *server) ringForZone(req *http.Request, id string) (model.PointRing, *model.Zone, error) {
	zone, ok := s.reg.Zone(id)
	if !ok {
		return nil, nil, planner.ErrZoneNotFound
	}
	if ring, ok := s.reg.Ring(id); ok {
		return ring, zone, nil
	}
	ring, err := s.planner.ComputeRing(req.Context(), id)
	if err != nil {
		return nil, nil, err
	}
	return ring, zone, nil
}

func (s *server) handleZoneTrack(w http.ResponseWriter, req *http.Request) {
	id := req.PathValue("id")
	ring, zone, err := s.ringForZone(req, id)
	if err != nil {
		s.writeError(w, req, err)
		return
	}

	meta := export.TrackMeta{
		Name:        zone.Name,
		Author:      s.author,
		Email:       s.email,
		Description: zone.Description,
		RadiusM:     zone.Spec.RadiusM,
		CenterStr:   zone.Spec.Center.String(),
	}
	if meta.Name == "" {
		meta.Name = zone.OutputName()
	}

	w.Header().Set("Content-Type", "application/gpx+xml; charset=utf-8")
	if err := export.EncodeTrack(w, export.BuildTrack(ring, meta)); err != nil {
		s.log.Warn(req.Context(), "track response aborted", logging.Err(err))
	}
}

func (s *server) handleZonePoints(w http.ResponseWriter, req *http.Request) {
	id := req.PathValue("id")
	ring, _, err := s.ringForZone(req, id)
	if err != nil {
		s.writeError(w, req, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := export.EncodeText(w, ring); err != nil {
		s.log.Warn(req.Context(), "points response aborted", logging.Err(err))
	}
}

type circleRequest struct {
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	RadiusM   float64 `json:"radius_m"`
	NumPoints int     `json:"num_points"`
	Name      string  `json:"name"`
}

// handleCircle computes an ad-hoc circle without registering a zone.
// The format query parameter selects gpx (default) or txt output.
func (s *server) handleCircle(w http.ResponseWriter, req *http.Request) {
	var body circleRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body: " + err.Error()})
		return
	}
	if body.NumPoints == 0 {
		body.NumPoints = model.DefaultNumPoints
	}

	spec := model.CircleSpec{
		Center:    model.GeoPoint{Lat: body.Lat, Lon: body.Lon},
		RadiusM:   body.RadiusM,
		NumPoints: body.NumPoints,
	}
	ring, err := core.GenerateCircle(s.geo, spec)
	if err != nil {
		s.writeError(w, req, err)
		return
	}
	s.metrics.RecordRing()

	name := body.Name
	if name == "" {
		name = "circle"
	}

	switch req.URL.Query().Get("format") {
	case "txt":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if err := export.EncodeText(w, ring); err != nil {
			s.log.Warn(req.Context(), "circle response aborted", logging.Err(err))
		}
	case "", "gpx":
		meta := export.TrackMeta{
			Name:      name,
			Author:    s.author,
			Email:     s.email,
			RadiusM:   spec.RadiusM,
			CenterStr: spec.Center.String(),
		}
		w.Header().Set("Content-Type", "application/gpx+xml; charset=utf-8")
		if err := export.EncodeTrack(w, export.BuildTrack(ring, meta)); err != nil {
			s.log.Warn(req.Context(), "circle response aborted", logging.Err(err))
		}
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unsupported format: " + req.URL.Query().Get("format")})
	}
}

func (s *server) writeError(w http.ResponseWriter, req *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, planner.ErrZoneNotFound):
		status = http.StatusNotFound
	case errors.Is(err, core.ErrInvalidInput):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		ctx, log := logging.WithRequestLogger(req.Context(), s.log)
		log.Error(ctx, "request failed", logging.Err(err))
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
