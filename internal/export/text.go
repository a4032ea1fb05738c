package export

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/signalsfoundry/rqz-planner/model"
)

func textPath(dir, name string) string {
	return filepath.Join(dir, name+".txt")
}

// formatCoord renders a coordinate with the shortest decimal representation
// that round-trips, so 78.943000 prints as "78.943".
func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// EncodeText writes one "lat, lon" line per ring point, in ring order.
// No header, no trailing metadata.
func EncodeText(w io.Writer, ring model.PointRing) error {
	for _, p := range ring {
		if _, err := fmt.Fprintf(w, "%s, %s\n", formatCoord(p.Lat), formatCoord(p.Lon)); err != nil {
			return err
		}
	}
	return nil
}

// WriteTextFile saves the ring as "<name>.txt" in dir, overwriting any
// existing file, and returns the path written.
func WriteTextFile(dir, name string, ring model.PointRing) (string, error) {
	path := textPath(dir, name)
	if err := writeFileAtomic(path, func(w io.Writer) error {
		return EncodeText(w, ring)
	}); err != nil {
		return "", err
	}
	return path, nil
}
