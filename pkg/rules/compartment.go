package rules

import (
	"sort"
	"time"

	"github.com/dd0wney/cluso-egress/pkg/classify"
	"github.com/dd0wney/cluso-egress/pkg/geometry"
	"github.com/dd0wney/cluso-egress/pkg/model"
)

// OffendingDoor is a stair entry door that fails a compartmentation
// expectation.
type OffendingDoor struct {
	DoorID  string   `json:"door_id"`
	Name    string   `json:"name,omitempty"`
	Reasons []string `json:"reasons"`
}

// CheckCompartmentation verifies, per stair flight, that the flight spans
// at least two storey elevations and that its entry doors sit in walls and
// do not swing into the stair. doorRooms and doorContainers come from the
// whole-model adjacency build.
func (c *Checker) CheckCompartmentation(doorRooms map[string][]string, doorContainers map[string][]model.Kind) []Record {
	flights := c.store.FindElementsByKind(model.KindStairFlight)
	records := make([]Record, 0, len(flights))
	if len(flights) == 0 {
		return records
	}

	elevations := c.storeyElevations()
	spaces := c.store.FindElementsByKind(model.KindSpace)
	doors := c.store.FindElementsByKind(model.KindDoor)

	for _, flight := range flights {
		records = append(records, c.checkCompartment(flight, elevations, spaces, doors, doorRooms, doorContainers))
	}
	return records
}

// storeyElevations collects storey elevations in millimeters, sorted. Zero
// is a legitimate ground-floor elevation and is kept as-is.
func (c *Checker) storeyElevations() []float64 {
	storeys := c.store.FindElementsByKind(model.KindStorey)
	elevations := make([]float64, 0, len(storeys))
	for _, st := range storeys {
		raw, ok := st.Elevation()
		if !ok {
			continue
		}
		if raw == 0 {
			elevations = append(elevations, 0)
			continue
		}
		if mm, ok := geometry.ToMillimeters(raw); ok {
			elevations = append(elevations, mm)
		}
	}
	sort.Float64s(elevations)
	return elevations
}

func (c *Checker) checkCompartment(flight *model.Element, elevations []float64, spaces, doors []*model.Element, doorRooms map[string][]string, doorContainers map[string][]model.Kind) Record {
	rec := Record{
		ElementID: flight.ID,
		Name:      flight.DisplayName(),
		Category:  CategoryCompartment,
		CheckedAt: time.Now(),
	}

	box, ok := c.geo.BoundingBox(flight)
	if !ok {
		rec.Status = StatusUnknown
		rec.Issues = append(rec.Issues, "no geometry found for stair flight")
		return rec
	}

	tol := c.t.StoreySpanToleranceMM
	crossed := 0
	for _, ev := range elevations {
		if ev >= box.MinZ-tol && ev <= box.MaxZ+tol {
			crossed++
		}
	}
	if crossed < 2 {
		rec.Issues = append(rec.Issues, "stair flight does not span multiple building storey elevations")
	}

	adjacent := c.adjacentDoors(flight, box, spaces, doors, doorRooms)

	var offenders []OffendingDoor
	for _, door := range adjacent {
		var reasons []string
		if !kindsContainWall(doorContainers[door.ID]) {
			reasons = append(reasons, "door not installed in wall")
		}
		switch classify.DoorSwing(door) {
		case classify.SwingToward:
			reasons = append(reasons, "door swings toward stair")
		case classify.SwingUnknown:
			reasons = append(reasons, "door swing unknown")
		}
		if len(reasons) > 0 {
			offenders = append(offenders, OffendingDoor{DoorID: door.ID, Name: door.DisplayName(), Reasons: reasons})
		}
	}

	rec.Details = map[string]any{
		"storeys_crossed": crossed,
		"adjacent_doors":  len(adjacent),
	}
	if len(offenders) > 0 {
		rec.Details["offending_doors"] = offenders
	}

	if len(rec.Issues) == 0 && len(offenders) == 0 {
		rec.Status = StatusPass
	} else {
		rec.Status = StatusFail
		for _, od := range offenders {
			rec.Issues = append(rec.Issues, od.Reasons...)
		}
	}
	return rec
}

// adjacentDoors finds the doors serving a flight: doors linked to a space
// that contains the flight centroid, tightened by proximity to the flight
// box. When the space route finds nothing, plain proximity over all linked
// doors is the fallback.
func (c *Checker) adjacentDoors(flight *model.Element, box geometry.BoundingBox, spaces, doors []*model.Element, doorRooms map[string][]string) []*model.Element {
	containing := make(map[string]bool)
	if centroid, ok := c.geo.Centroid(flight); ok {
		for _, sp := range spaces {
			spBox, ok := c.geo.BoundingBox(sp)
			if ok && spBox.Expand(c.t.AdjacencyMarginMM).ContainsXY(centroid.X, centroid.Y) {
				containing[sp.ID] = true
			}
		}
	}

	var adjacent []*model.Element
	for _, door := range doors {
		rooms, ok := doorRooms[door.ID]
		if !ok {
			continue
		}
		touches := false
		for _, room := range rooms {
			if containing[room] {
				touches = true
				break
			}
		}
		if touches && c.doorNearFlight(door, box) {
			adjacent = append(adjacent, door)
		}
	}
	if len(adjacent) > 0 {
		return adjacent
	}

	for _, door := range doors {
		if _, ok := doorRooms[door.ID]; !ok {
			continue
		}
		if c.doorNearFlight(door, box) {
			adjacent = append(adjacent, door)
		}
	}
	return adjacent
}

// doorNearFlight tests the door centroid against the flight's planar box
// plus the adjacency margin, and its height against the flight z-range plus
// the storey tolerance.
func (c *Checker) doorNearFlight(door *model.Element, flightBox geometry.BoundingBox) bool {
	centroid, ok := c.geo.Centroid(door)
	if !ok {
		return false
	}
	margin := c.t.AdjacencyMarginMM
	tol := c.t.StoreySpanToleranceMM
	return centroid.X >= flightBox.MinX-margin && centroid.X <= flightBox.MaxX+margin &&
		centroid.Y >= flightBox.MinY-margin && centroid.Y <= flightBox.MaxY+margin &&
		centroid.Z >= flightBox.MinZ-tol && centroid.Z <= flightBox.MaxZ+tol
}

func kindsContainWall(kinds []model.Kind) bool {
	for _, k := range kinds {
		if k == model.KindWall {
			return true
		}
	}
	return false
}
