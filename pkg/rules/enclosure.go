package rules

import (
	"fmt"
	"strings"
	"time"

	"github.com/dd0wney/cluso-egress/pkg/geometry"
	"github.com/dd0wney/cluso-egress/pkg/model"
)

type wallBox struct {
	storeyID string
	box      geometry.BoundingBox
}

var sideNames = [4]string{"left", "right", "top", "bottom"}

// sideStrips builds the four wall-search strips around a footprint. margin
// reaches into the footprint edge, expand reaches outwards and along it, so
// a wall touching or straddling the edge lands in the strip.
func sideStrips(box geometry.BoundingBox, margin, expand float64) [4]geometry.BoundingBox {
	return [4]geometry.BoundingBox{
		{MinX: box.MinX - expand, MinY: box.MinY - expand, MaxX: box.MinX + margin, MaxY: box.MaxY + expand},
		{MinX: box.MaxX - margin, MinY: box.MinY - expand, MaxX: box.MaxX + expand, MaxY: box.MaxY + expand},
		{MinX: box.MinX - expand, MinY: box.MaxY - margin, MaxX: box.MaxX + expand, MaxY: box.MaxY + expand},
		{MinX: box.MinX - expand, MinY: box.MinY - expand, MaxX: box.MaxX + expand, MaxY: box.MinY + margin},
	}
}

// CheckFlightEnclosure verifies each stair flight is hugged by walls on all
// four sides. Wall candidates are restricted to the flight's storey when
// containment is known; otherwise every wall is considered.
func (c *Checker) CheckFlightEnclosure() []Record {
	flights := c.store.FindElementsByKind(model.KindStairFlight)
	records := make([]Record, 0, len(flights))
	if len(flights) == 0 {
		return records
	}

	walls := c.wallBoxes()
	for _, flight := range flights {
		records = append(records, c.checkFlightEnclosure(flight, walls))
	}
	return records
}

func (c *Checker) wallBoxes() []wallBox {
	walls := c.store.FindElementsByKind(model.KindWall)
	boxes := make([]wallBox, 0, len(walls))
	for _, w := range walls {
		box, ok := c.geo.BoundingBox(w)
		if !ok {
			continue
		}
		storeyID := ""
		if st, ok := c.store.StoreyOf(w.ID); ok {
			storeyID = st.ID
		}
		boxes = append(boxes, wallBox{storeyID: storeyID, box: box})
	}
	return boxes
}

func (c *Checker) checkFlightEnclosure(flight *model.Element, walls []wallBox) Record {
	rec := Record{
		ElementID: flight.ID,
		Name:      flight.DisplayName(),
		Category:  CategoryFlightEnclosure,
		CheckedAt: time.Now(),
	}

	box, ok := c.geo.BoundingBox(flight)
	if !ok {
		rec.Status = StatusUnknown
		rec.Issues = append(rec.Issues, "no geometry found for stair flight")
		rec.Details = map[string]any{
			"sides_covered": 0,
			"missing_sides": append([]string(nil), sideNames[:]...),
		}
		return rec
	}

	candidates := c.candidateWalls(flight, walls)
	strips := sideStrips(box, c.t.SideMarginMM, c.t.WallSearchExpandMM)

	var covered [4]bool
	for _, wb := range candidates {
		for i := range strips {
			if !covered[i] && strips[i].IntersectsXY(wb.box, 0) {
				covered[i] = true
			}
		}
	}

	count, missing := tallySides(covered[:], sideNames[:])
	rec.Details = map[string]any{
		"sides_covered": count,
		"missing_sides": missing,
	}
	if count == len(sideNames) {
		rec.Status = StatusPass
	} else {
		rec.Status = StatusFail
		rec.Issues = append(rec.Issues, fmt.Sprintf("missing walls on sides: %s", strings.Join(missing, ", ")))
	}
	return rec
}

// candidateWalls scopes to the flight's storey, falling back to every wall
// when containment is missing or the storey holds no wall with geometry.
func (c *Checker) candidateWalls(flight *model.Element, walls []wallBox) []wallBox {
	storey, ok := c.store.StoreyOf(flight.ID)
	if !ok {
		return walls
	}
	var scoped []wallBox
	for _, wb := range walls {
		if wb.storeyID == storey.ID {
			scoped = append(scoped, wb)
		}
	}
	if len(scoped) == 0 {
		return walls
	}
	return scoped
}

func tallySides(covered []bool, names []string) (int, []string) {
	count := 0
	missing := []string{}
	for i, name := range names {
		if covered[i] {
			count++
		} else {
			missing = append(missing, name)
		}
	}
	return count, missing
}
