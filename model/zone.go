package model

import "fmt"

// Zone is a named exclusion zone definition: the circle to compute plus the
// presentation details carried into the exported artifacts.
type Zone struct {
	ID          string
	Name        string
	Spec        CircleSpec
	Output      string // base name for artifact files, without extension
	Description string // free text carried into the GPX metadata
}

// OutputName returns the artifact base name, falling back to the
// conventional "<radius>m_RQZ_Circle_w_Centre_<lat>_<lon>" form when the
// zone does not set one.
func (z *Zone) OutputName() string {
	if z.Output != "" {
		return z.Output
	}
	return fmt.Sprintf("%gm_RQZ_Circle_w_Centre_%s", z.Spec.RadiusM, z.Spec.Center)
}
