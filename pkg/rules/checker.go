package rules

import (
	"fmt"
	"time"

	"github.com/dd0wney/cluso-egress/pkg/geometry"
	"github.com/dd0wney/cluso-egress/pkg/model"
	"github.com/dd0wney/cluso-egress/pkg/props"
)

// Candidate property names per dimension, tried in order. Attribute matching
// is exact; property and quantity entries match by substring, which is why
// both the spaced and collapsed spellings appear.
var (
	doorWidthCandidates  = []string{"overallwidth", "width", "doorwidth"}
	stairWidthCandidates = []string{"actual run width", "actualrunwidth", "run width", "width", "tread"}
	areaCandidates       = []string{"area"}
	perimeterCandidates  = []string{"perimeter"}
)

// Checker runs the egress checks against one loaded model.
type Checker struct {
	store *model.Store
	geo   *geometry.Accessor
	props *props.Resolver
	t     Thresholds
}

// NewChecker creates a checker over the model, its derived geometry and the
// given thresholds.
func NewChecker(store *model.Store, geo *geometry.Accessor, res *props.Resolver, t Thresholds) *Checker {
	return &Checker{store: store, geo: geo, props: res, t: t}
}

// Thresholds returns the limits the checker runs with.
func (c *Checker) Thresholds() Thresholds {
	return c.t
}

// CheckDoors evaluates clear-width compliance for every door. doorRooms maps
// door IDs to the rooms the adjacency build linked them to and is carried
// through onto the records.
func (c *Checker) CheckDoors(doorRooms map[string][]string) []Record {
	doors := c.store.FindElementsByKind(model.KindDoor)
	records := make([]Record, 0, len(doors))
	for _, door := range doors {
		records = append(records, c.checkDoor(door, doorRooms[door.ID]))
	}
	return records
}

func (c *Checker) checkDoor(door *model.Element, rooms []string) Record {
	rec := Record{
		ElementID:   door.ID,
		Name:        door.DisplayName(),
		Category:    CategoryDoorWidth,
		ThresholdMM: c.t.DoorMinWidthMM,
		Rooms:       rooms,
		CheckedAt:   time.Now(),
	}

	width, ok := c.props.Numeric(door, doorWidthCandidates)
	if !ok {
		width, ok = c.openingProfileWidth(door)
	}

	switch {
	case !ok:
		rec.Status = StatusUnknown
		rec.Issues = append(rec.Issues, "width unknown")
	case width < c.t.DoorMinWidthMM:
		rec.Status = StatusFail
		rec.MeasuredMM = width
		rec.Issues = append(rec.Issues, fmt.Sprintf("width %.0fmm < %.0fmm", width, c.t.DoorMinWidthMM))
	default:
		rec.Status = StatusPass
		rec.MeasuredMM = width
	}
	return rec
}

// openingProfileWidth reads the clear width off the filled opening's
// rectangle profile. The Y dimension carries the width in the exports we
// see; X is usually the wall depth.
func (c *Checker) openingProfileWidth(door *model.Element) (float64, bool) {
	opening, ok := c.store.OpeningOf(door.ID)
	if !ok || opening.Profile == nil {
		return 0, false
	}
	if mm, ok := geometry.ToMillimeters(opening.Profile.YDim); ok {
		return mm, true
	}
	return geometry.ToMillimeters(opening.Profile.XDim)
}

// CheckFlights evaluates clear-width compliance for every stair flight.
func (c *Checker) CheckFlights() []Record {
	flights := c.store.FindElementsByKind(model.KindStairFlight)
	records := make([]Record, 0, len(flights))
	for _, flight := range flights {
		records = append(records, c.checkFlight(flight))
	}
	return records
}

func (c *Checker) checkFlight(flight *model.Element) Record {
	rec := Record{
		ElementID:   flight.ID,
		Name:        flight.DisplayName(),
		Category:    CategoryStairWidth,
		ThresholdMM: c.t.StairMinWidthMM,
		CheckedAt:   time.Now(),
	}

	width, ok := c.props.Numeric(flight, stairWidthCandidates)
	if !ok {
		width, ok = flightProfileWidth(flight)
	}

	switch {
	case !ok:
		rec.Status = StatusUnknown
		rec.Issues = append(rec.Issues, "width unknown")
	case width+c.t.StairWidthToleranceMM < c.t.StairMinWidthMM:
		rec.Status = StatusFail
		rec.MeasuredMM = width
		rec.Issues = append(rec.Issues, fmt.Sprintf("width %.0fmm < %.0fmm", width, c.t.StairMinWidthMM))
	default:
		rec.Status = StatusPass
		rec.MeasuredMM = width
	}
	return rec
}

// flightProfileWidth falls back to the flight's extrusion profile, taking
// the longer dimension as the run width.
func flightProfileWidth(flight *model.Element) (float64, bool) {
	if flight.Profile == nil {
		return 0, false
	}
	xd, okX := geometry.ToMillimeters(flight.Profile.XDim)
	yd, okY := geometry.ToMillimeters(flight.Profile.YDim)
	switch {
	case okX && okY:
		if xd > yd {
			return xd, true
		}
		return yd, true
	case okX:
		return xd, true
	case okY:
		return yd, true
	}
	return 0, false
}
