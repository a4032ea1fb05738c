package export

import (
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/signalsfoundry/rqz-planner/model"
)

// GPX 1.1, per https://www.topografix.com/GPX/1/1/. The document carries a
// metadata block, one track with one segment, and one trkpt per ring point
// with lat/lon as attributes, order preserved.
const (
	gpxNamespace = "http://www.topografix.com/GPX/1/1"
	gpxVersion   = "1.1"
	gpxCreator   = "rqz-planner"
)

type GPX struct {
	XMLName   xml.Name `xml:"gpx"`
	Namespace string   `xml:"xmlns,attr"`
	Version   string   `xml:"version,attr"`
	Creator   string   `xml:"creator,attr"`
	Metadata  Metadata `xml:"metadata"`
	Tracks    []Track  `xml:"trk"`
}

type Metadata struct {
	Name   string  `xml:"name,omitempty"`
	Desc   string  `xml:"desc,omitempty"`
	Author *Author `xml:"author,omitempty"`
}

type Author struct {
	Name  string `xml:"name,omitempty"`
	Email *Email `xml:"email,omitempty"`
}

// Email is split into id/domain attributes as the 1.1 schema requires.
type Email struct {
	ID     string `xml:"id,attr"`
	Domain string `xml:"domain,attr"`
}

type Track struct {
	Name     string         `xml:"name,omitempty"`
	Desc     string         `xml:"desc,omitempty"`
	Segments []TrackSegment `xml:"trkseg"`
}

type TrackSegment struct {
	Points []TrackPoint `xml:"trkpt"`
}

type TrackPoint struct {
	Lat string `xml:"lat,attr"`
	Lon string `xml:"lon,attr"`
}

// TrackMeta carries the descriptive fields embedded in the GPX document.
// The radius and centre string are presentation only; no consumer re-parses
// them.
type TrackMeta struct {
	Name        string
	Author      string
	Email       string // "id@domain" form
	Description string
	RadiusM     float64
	CenterStr   string
}

// BuildTrack assembles the GPX document for a ring.
func BuildTrack(ring model.PointRing, meta TrackMeta) *GPX {
	seg := TrackSegment{Points: make([]TrackPoint, 0, len(ring))}
	for _, p := range ring {
		seg.Points = append(seg.Points, TrackPoint{
			Lat: formatCoord(p.Lat),
			Lon: formatCoord(p.Lon),
		})
	}

	desc := meta.Description
	if desc == "" {
		desc = "Closed track delineating an exclusion zone around a fixed observation point."
	}

	doc := &GPX{
		Namespace: gpxNamespace,
		Version:   gpxVersion,
		Creator:   gpxCreator,
		Metadata: Metadata{
			Name: meta.Name,
			Desc: desc,
		},
		Tracks: []Track{{
			Name: "Delineation of " + meta.Name,
			Desc: fmt.Sprintf(
				"Computed as a perfect circle with radius %g m around centre %s, using Vincenty's formulae on the WGS-84 ellipsoid.",
				meta.RadiusM, meta.CenterStr),
			Segments: []TrackSegment{seg},
		}},
	}

	if meta.Author != "" {
		author := &Author{Name: meta.Author}
		if id, domain, ok := strings.Cut(meta.Email, "@"); ok {
			author.Email = &Email{ID: id, Domain: domain}
		}
		doc.Metadata.Author = author
	}
	return doc
}

// EncodeTrack writes the document as indented XML with a declaration.
func EncodeTrack(w io.Writer, doc *GPX) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if _, err := w.Write(out); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}

// WriteTrackFile saves the ring as "<name>.gpx" in dir, overwriting any
// existing file, and returns the path written.
func WriteTrackFile(dir, name string, ring model.PointRing, meta TrackMeta) (string, error) {
	if meta.Name == "" {
		meta.Name = name
	}
	path := filepath.Join(dir, name+".gpx")
	if err := writeFileAtomic(path, func(w io.Writer) error {
		return EncodeTrack(w, BuildTrack(ring, meta))
	}); err != nil {
		return "", err
	}
	return path, nil
}
