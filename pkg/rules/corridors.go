package rules

import (
	"fmt"
	"math"
	"time"

	"github.com/dd0wney/cluso-egress/pkg/model"
)

// CheckCorridors evaluates each corridor space against two gates: clear
// width and stair linkage. linked comes from the reachability search and
// roomLinks carries each corridor's door-graph degree; a corridor absent
// from either map counts as unlinked with zero neighbors.
func (c *Checker) CheckCorridors(corridors []*model.Element, linked map[string]bool, roomLinks map[string]int) []Record {
	records := make([]Record, 0, len(corridors))
	for _, sp := range corridors {
		records = append(records, c.checkCorridor(sp, linked[sp.ID], roomLinks[sp.ID]))
	}
	return records
}

func (c *Checker) checkCorridor(sp *model.Element, linked bool, roomLinks int) Record {
	width, length := c.corridorDimensions(sp)

	elongated := width > 0 && length >= c.t.ElongationRatio*width
	ratio := 0.0
	if width > 0 {
		ratio = length / width
	}

	rec := Record{
		ElementID:   sp.ID,
		Name:        sp.DisplayName(),
		Category:    CategoryCorridor,
		MeasuredMM:  width,
		ThresholdMM: c.t.CorridorMinWidthMM,
		Details: map[string]any{
			"length_mm":        length,
			"linked_to_stairs": linked,
			"elongated":        elongated,
			"ratio":            ratio,
			"room_links":       roomLinks,
		},
		CheckedAt: time.Now(),
	}

	checks := 0
	passed := []string{}
	if width >= c.t.CorridorMinWidthMM {
		checks++
		passed = append(passed, "width")
	} else {
		rec.Issues = append(rec.Issues, fmt.Sprintf("Width is %.0fmm", width))
	}
	if linked {
		checks++
		passed = append(passed, "stairs")
	} else {
		rec.Issues = append(rec.Issues, "Does not link to stairs via doors/openings")
	}
	rec.Details["checks_passed"] = passed

	if checks >= c.t.CorridorMinChecks {
		rec.Status = StatusPass
	} else {
		rec.Status = StatusFail
	}
	return rec
}

// corridorDimensions measures width and length from the footprint, falling
// back to a rectangle solved from area and perimeter quantities when the
// space carries no usable geometry. Both results are millimeters; zeros mean
// nothing could be measured.
func (c *Checker) corridorDimensions(sp *model.Element) (width, length float64) {
	if box, ok := c.geo.BoundingBox(sp); ok {
		l, w := box.Extents()
		if w > 0 {
			return w, l
		}
	}
	return c.inferredDimensions(sp)
}

// inferredDimensions solves w*l = A and 2*(w+l) = P for the narrow side.
// Area and perimeter arrive in whatever unit the exporter chose, so each is
// normalized by magnitude on its own dimension before solving.
func (c *Checker) inferredDimensions(sp *model.Element) (width, length float64) {
	area, okA := c.props.Raw(sp, areaCandidates)
	perimeter, okP := c.props.Raw(sp, perimeterCandidates)
	if !okA || !okP || area <= 0 || perimeter <= 0 {
		return 0, 0
	}

	areaM2 := area
	if areaM2 > 1000 { // square millimeters
		areaM2 /= 1e6
	}
	perimeterM := perimeter
	if perimeterM > 100 { // millimeters
		perimeterM /= 1000
	}

	s := perimeterM / 2
	disc := s*s - 4*areaM2
	if disc < 0 {
		disc = 0
	}
	w := (s - math.Sqrt(disc)) / 2
	if w <= 0 {
		return 0, 0
	}
	return w * 1000, (areaM2 / w) * 1000
}
