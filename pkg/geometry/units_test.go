package geometry

import (
	"math"
	"testing"
)

func TestToMillimeters(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{0.8, 800},    // meters path
		{800, 800},    // already millimeters
		{50, 50000},   // large meters value below the cut
		{100, 100},    // boundary sits on the millimeters branch
		{0.1, 100},    // 100mm door expressed in meters
		{1300, 1300},  // corridor threshold passes through
		{100.1, 100.1},
	}
	for _, c := range cases {
		got, ok := ToMillimeters(c.in)
		if !ok {
			t.Errorf("ToMillimeters(%g) reported unusable", c.in)
			continue
		}
		if got != c.want {
			t.Errorf("ToMillimeters(%g) = %g, want %g", c.in, got, c.want)
		}
	}
}

func TestToMillimeters_Unusable(t *testing.T) {
	for _, in := range []float64{0, math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, ok := ToMillimeters(in); ok {
			t.Errorf("ToMillimeters(%g) should be unusable", in)
		}
	}
}

func TestToMillimetersDeclared(t *testing.T) {
	// Declared units override the magnitude heuristic.
	if got, ok := ToMillimetersDeclared(90, UnitMillimeter); !ok || got != 90 {
		t.Errorf("declared mm: got %g, %v; want 90", got, ok)
	}
	if got, ok := ToMillimetersDeclared(0.9, UnitMeter); !ok || got != 900 {
		t.Errorf("declared m: got %g, %v; want 900", got, ok)
	}
	if got, ok := ToMillimetersDeclared(120, UnitMeter); !ok || got != 120000 {
		t.Errorf("declared m with large value: got %g, %v; want 120000", got, ok)
	}

	// Unknown unit falls back to the heuristic.
	if got, ok := ToMillimetersDeclared(90, UnitUnknown); !ok || got != 90000 {
		t.Errorf("heuristic fallback: got %g, %v; want 90000", got, ok)
	}

	if _, ok := ToMillimetersDeclared(0, UnitMillimeter); ok {
		t.Error("zero should be unusable regardless of declared unit")
	}
}
