package rules

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dd0wney/cluso-egress/pkg/geometry"
	"github.com/dd0wney/cluso-egress/pkg/model"
)

// Staircase is a group of flights sharing one staircase identifier.
type Staircase struct {
	ID           string   `json:"id"`
	FlightIDs    []string `json:"flight_ids"`
	RunLabels    []string `json:"run_labels"`
	Standard3Run bool     `json:"standard_3_run"`
}

var stairIDPattern = regexp.MustCompile(`^(\d+)`)

// StaircaseGroups groups stair flights by the numeric identifier after the
// last "Stair:" token of the flight name, as in
// "Assembled Stair:Stair:1282665 Run 2". Flights without such an identifier
// are left out. Group order follows first appearance.
func (c *Checker) StaircaseGroups() []Staircase {
	flights := c.store.FindElementsByKind(model.KindStairFlight)
	groups := make(map[string]*Staircase)
	var order []string

	for _, fl := range flights {
		id, runLabel, ok := parseFlightName(fl.Name)
		if !ok {
			continue
		}
		g, exists := groups[id]
		if !exists {
			g = &Staircase{ID: id}
			groups[id] = g
			order = append(order, id)
		}
		g.FlightIDs = append(g.FlightIDs, fl.ID)
		g.RunLabels = append(g.RunLabels, runLabel)
	}

	out := make([]Staircase, 0, len(order))
	for _, id := range order {
		g := groups[id]
		g.Standard3Run = hasStandardRuns(g.RunLabels)
		out = append(out, *g)
	}
	return out
}

// parseFlightName extracts the staircase ID and the run label. The ID is
// the digit run right after the last "Stair:"; the run label is whatever
// follows the first "Run", or "unknown".
func parseFlightName(name string) (id, runLabel string, ok bool) {
	idx := strings.LastIndex(name, "Stair:")
	if idx < 0 {
		return "", "", false
	}
	tail := strings.TrimSpace(name[idx+len("Stair:"):])
	id = stairIDPattern.FindString(tail)
	if id == "" {
		return "", "", false
	}

	runLabel = "unknown"
	if runIdx := strings.Index(name, "Run"); runIdx >= 0 {
		if label := strings.TrimSpace(name[runIdx+len("Run"):]); label != "" {
			runLabel = label
		}
	}
	return id, runLabel, true
}

// hasStandardRuns reports whether the labels cover runs 1, 2 and 3, the
// layout of one staircase connecting two storeys.
func hasStandardRuns(labels []string) bool {
	tokens := make(map[string]bool, len(labels))
	for _, label := range labels {
		fields := strings.Fields(strings.ReplaceAll(label, ":", " "))
		if len(fields) > 0 {
			tokens[fields[0]] = true
		}
	}
	return tokens["1"] && tokens["2"] && tokens["3"]
}

// ExpectedStaircaseCount estimates how many flight groups a building with
// the given storey count should produce, three runs per staircase.
func ExpectedStaircaseCount(storeys int) int {
	if storeys >= 3 {
		return max(storeys-2, 0) * 3
	}
	return max(storeys-1, 0) * 3
}

// CheckStaircaseLayout reports each staircase group and whether it follows
// the standard three-run pattern.
func (c *Checker) CheckStaircaseLayout() []Record {
	groups := c.StaircaseGroups()
	records := make([]Record, 0, len(groups))
	for _, g := range groups {
		rec := Record{
			ElementID: g.ID,
			Category:  CategoryStaircaseLayout,
			Details: map[string]any{
				"flight_count":   len(g.FlightIDs),
				"run_labels":     g.RunLabels,
				"standard_3_run": g.Standard3Run,
			},
			CheckedAt: time.Now(),
		}
		if g.Standard3Run {
			rec.Status = StatusPass
		} else {
			rec.Status = StatusFail
			rec.Issues = append(rec.Issues, "does not follow the three-run pattern")
		}
		records = append(records, rec)
	}
	return records
}

// CheckGroupEnclosure verifies each staircase group is walled on its left,
// right and top sides. The group footprint prefers the union of associated
// stair-space boxes over the raw flight union: landing offsets make the
// flight union larger than the real shaft and fake open sides. stairSpaces
// maps stair space IDs to the flight IDs whose centroids identified them.
func (c *Checker) CheckGroupEnclosure(stairSpaces map[string][]string) []Record {
	groups := c.StaircaseGroups()
	records := make([]Record, 0, len(groups))
	if len(groups) == 0 {
		return records
	}

	flightSpaces := make(map[string][]string)
	for spaceID, flightIDs := range stairSpaces {
		for _, fid := range flightIDs {
			flightSpaces[fid] = append(flightSpaces[fid], spaceID)
		}
	}

	walls := c.wallBoxes()
	for _, g := range groups {
		records = append(records, c.checkGroupEnclosure(g, flightSpaces, walls))
	}
	return records
}

func (c *Checker) checkGroupEnclosure(g Staircase, flightSpaces map[string][]string, walls []wallBox) Record {
	rec := Record{
		ElementID: g.ID,
		Category:  CategoryGroupEnclosure,
		CheckedAt: time.Now(),
	}

	union, source := c.groupFootprint(g, flightSpaces)
	if source == "none" {
		rec.Status = StatusUnknown
		rec.Issues = append(rec.Issues, "no geometry found for staircase group")
		rec.Details = map[string]any{
			"sides_covered": 0,
			"missing_sides": append([]string(nil), sideNames[:3]...),
			"source":        source,
			"flight_count":  len(g.FlightIDs),
		}
		return rec
	}

	// The bottom side is the storey landing in the observed layouts, so
	// only left, right and top are required.
	strips := sideStrips(union, c.t.SideMarginMM, c.t.WallSearchExpandMM)
	var covered [3]bool
	for _, wb := range walls {
		for i := 0; i < len(covered); i++ {
			if !covered[i] && strips[i].IntersectsXY(wb.box, 0) {
				covered[i] = true
			}
		}
	}

	count, missing := tallySides(covered[:], sideNames[:3])
	rec.Details = map[string]any{
		"sides_covered": count,
		"missing_sides": missing,
		"source":        source,
		"flight_count":  len(g.FlightIDs),
	}
	if count == len(covered) {
		rec.Status = StatusPass
	} else {
		rec.Status = StatusFail
		rec.Issues = append(rec.Issues, fmt.Sprintf("missing walls on sides: %s", strings.Join(missing, ", ")))
	}
	return rec
}

// groupFootprint returns the union box for a staircase group and its source:
// "space_union", "flight_union" or "none".
func (c *Checker) groupFootprint(g Staircase, flightSpaces map[string][]string) (geometry.BoundingBox, string) {
	var union geometry.BoundingBox
	have := false

	merge := func(box geometry.BoundingBox) {
		if !have {
			union = box
			have = true
		} else {
			union = union.Union(box)
		}
	}

	seen := make(map[string]bool)
	for _, fid := range g.FlightIDs {
		for _, spaceID := range flightSpaces[fid] {
			if seen[spaceID] {
				continue
			}
			seen[spaceID] = true
			sp, err := c.store.GetElement(spaceID)
			if err != nil {
				continue
			}
			if box, ok := c.geo.BoundingBox(sp); ok {
				merge(box)
			}
		}
	}
	if have {
		return union, "space_union"
	}

	for _, fid := range g.FlightIDs {
		fl, err := c.store.GetElement(fid)
		if err != nil {
			continue
		}
		if box, ok := c.geo.BoundingBox(fl); ok {
			merge(box)
		}
	}
	if have {
		return union, "flight_union"
	}
	return geometry.BoundingBox{}, "none"
}
