package core

import (
	"errors"
	"math"
	"testing"
)

func TestDMSDecimal(t *testing.T) {
	cases := []struct {
		name string
		dms  DMS
		want float64
	}{
		{"brandal latitude", DMS{Degrees: 78, Minutes: 56, Seconds: 34.68}, 78.9429667},
		{"brandal longitude", DMS{Degrees: 11, Minutes: 51, Seconds: 19.78}, 11.8554944},
		{"southern hemisphere", DMS{Degrees: -37, Minutes: 57, Seconds: 3.72}, -37.9510333},
		{"whole degrees", DMS{Degrees: 45}, 45},
		{"sub-degree south", DMS{Minutes: 30, Negative: true}, -0.5},
		{"sub-degree west", DMS{Minutes: 56, Seconds: 34.68, Negative: true}, -0.9429667},
	}
	for _, tc := range cases {
		if got := tc.dms.Decimal(); math.Abs(got-tc.want) > 5e-7 {
			t.Errorf("%s: Decimal() = %.7f, want %.7f", tc.name, got, tc.want)
		}
	}
}

func TestPointFromDMS(t *testing.T) {
	p := PointFromDMS(DMS{Degrees: 78, Minutes: 56, Seconds: 34.68}, DMS{Degrees: 11, Minutes: 51, Seconds: 19.78})
	if math.Abs(p.Lat-78.9429667) > 5e-7 || math.Abs(p.Lon-11.8554944) > 5e-7 {
		t.Errorf("PointFromDMS = %v, want (78.9429667, 11.8554944)", p)
	}
}

func TestParseDMS(t *testing.T) {
	got, err := ParseDMS("78:56:34.68")
	if err != nil {
		t.Fatalf("ParseDMS error: %v", err)
	}
	want := DMS{Degrees: 78, Minutes: 56, Seconds: 34.68}
	if got != want {
		t.Errorf("ParseDMS = %+v, want %+v", got, want)
	}

	neg, err := ParseDMS("-37:57:3.72")
	if err != nil {
		t.Fatalf("ParseDMS error: %v", err)
	}
	if neg.Degrees != -37 || neg.Decimal() >= 0 {
		t.Errorf("ParseDMS negative = %+v (decimal %.6f), want negative value", neg, neg.Decimal())
	}
}

// A leading minus on zero degrees must survive parsing: coordinates between
// 0 and -1 degrees carry their sign entirely in the minutes and seconds.
func TestParseDMS_SubDegreeNegative(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"-0:30:0", -0.5},
		{"-0:0:36", -0.01},
		{"-0:56:34.68", -0.9429667},
	}
	for _, tc := range cases {
		got, err := ParseDMS(tc.in)
		if err != nil {
			t.Fatalf("ParseDMS(%q) error: %v", tc.in, err)
		}
		if d := got.Decimal(); math.Abs(d-tc.want) > 5e-7 {
			t.Errorf("ParseDMS(%q).Decimal() = %.7f, want %.7f", tc.in, d, tc.want)
		}
	}
}

func TestParseDMS_Malformed(t *testing.T) {
	for _, s := range []string{"", "78:56", "78:56:34:68", "a:b:c", "78:75:10", "78:10:60"} {
		if _, err := ParseDMS(s); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("ParseDMS(%q) error = %v, want ErrInvalidInput", s, err)
		}
	}
}
