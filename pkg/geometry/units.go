package geometry

import "math"

// Unit identifies a declared length unit on a property value.
type Unit uint8

const (
	UnitUnknown Unit = iota
	UnitMillimeter
	UnitMeter
)

// Values at or above this magnitude are taken to be millimeters already.
// Building models express door widths either in meters (0.9) or millimeters
// (900); no real clear width sits between 100mm and 100m, so the cut is safe.
const unitThreshold = 100

// ToMillimeters normalizes a raw length value to millimeters using the
// magnitude heuristic: values at or above the threshold pass through
// unchanged, anything else is treated as meters. Zero, NaN and infinities
// are unusable.
func ToMillimeters(v float64) (float64, bool) {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	if v >= unitThreshold {
		return v, true
	}
	return v * 1000, true
}

// ToMillimetersDeclared normalizes using the declared unit when the source
// model carries one, falling back to the magnitude heuristic otherwise.
func ToMillimetersDeclared(v float64, unit Unit) (float64, bool) {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	switch unit {
	case UnitMillimeter:
		return v, true
	case UnitMeter:
		return v * 1000, true
	default:
		return ToMillimeters(v)
	}
}
