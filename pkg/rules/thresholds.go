package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-egress/pkg/validation"
)

// Thresholds carries every numeric limit the checks compare against.
// Defaults encode the BR18 egress requirements this tool was written for; a
// YAML file can override any subset for other codes.
type Thresholds struct {
	DoorMinWidthMM     float64 `yaml:"door_min_width_mm" validate:"gt=0"`
	StairMinWidthMM    float64 `yaml:"stair_min_width_mm" validate:"gt=0"`
	CorridorMinWidthMM float64 `yaml:"corridor_min_width_mm" validate:"gt=0"`

	// StairWidthToleranceMM absorbs rounding in converted widths so a
	// nominally compliant flight does not fail on representation error.
	StairWidthToleranceMM float64 `yaml:"stair_width_tolerance_mm" validate:"gte=0"`

	// CorridorMinChecks is how many of the two corridor gates (width and
	// stair linkage) must hold. Two is the strict reading; one relaxes the
	// rule when surveying partial models.
	CorridorMinChecks int `yaml:"corridor_min_checks" validate:"min=1,max=2"`

	// ElongationRatio is the length over width ratio at which a space
	// counts as elongated, the shape of a true circulation corridor.
	ElongationRatio float64 `yaml:"elongation_ratio" validate:"gt=0"`

	// AdjacencyMarginMM expands space footprints for the centroid linkage
	// test; BoxToleranceMM expands door and opening boxes for the coarser
	// intersection fallbacks.
	AdjacencyMarginMM float64 `yaml:"adjacency_margin_mm" validate:"gt=0"`
	BoxToleranceMM    float64 `yaml:"box_tolerance_mm" validate:"gt=0"`

	// SideMarginMM is the depth of the strip hugging a footprint edge when
	// searching for an enclosing wall; WallSearchExpandMM grows the strip
	// outwards and along the edge.
	SideMarginMM       float64 `yaml:"side_margin_mm" validate:"gt=0"`
	WallSearchExpandMM float64 `yaml:"wall_search_expand_mm" validate:"gt=0"`

	// StoreySpanToleranceMM pads a flight's z-range when counting the
	// storey elevations it crosses.
	StoreySpanToleranceMM float64 `yaml:"storey_span_tolerance_mm" validate:"gte=0"`
}

// DefaultThresholds returns the BR18 limits.
func DefaultThresholds() Thresholds {
	return Thresholds{
		DoorMinWidthMM:        800,
		StairMinWidthMM:       1000,
		CorridorMinWidthMM:    1300,
		StairWidthToleranceMM: 1e-6,
		CorridorMinChecks:     2,
		ElongationRatio:       3,
		AdjacencyMarginMM:     500,
		BoxToleranceMM:        1000,
		SideMarginMM:          300,
		WallSearchExpandMM:    500,
		StoreySpanToleranceMM: 500,
	}
}

// LoadThresholds reads YAML overrides on top of the defaults. Keys absent
// from the file keep their default values.
func LoadThresholds(path string) (Thresholds, error) {
	t := DefaultThresholds()

	data, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("read thresholds: %w", err)
	}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return t, fmt.Errorf("parse thresholds: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, err
	}
	return t, nil
}

// Validate checks the field constraints.
func (t Thresholds) Validate() error {
	return validation.Struct(t)
}
