package main

import (
	"fmt"

	"github.com/dd0wney/cluso-egress/pkg/validation"
)

// demoModel returns a small two-storey building: a fully walled stairwell
// with a standard three-run staircase, two compliant corridors leading to
// it, and doors that open away from the stair. Every check category has
// something to evaluate and every check passes, so running without a model
// file doubles as a smoke test of the whole pipeline.
func demoModel() *modelFile {
	mf := &modelFile{}

	el := func(id, kind, name string, box *boxEntry, attrs map[string]any) {
		mf.Elements = append(mf.Elements, elementEntry{
			ElementRecord: validation.ElementRecord{ID: id, Kind: kind, Name: name, Attributes: attrs},
			Box:           box,
		})
	}
	rel := func(kind, from, to string) {
		mf.Relations = append(mf.Relations, validation.RelationRecord{Kind: kind, FromID: from, ToID: to})
	}
	box := func(minX, minY, minZ, maxX, maxY, maxZ float64) *boxEntry {
		return &boxEntry{Min: [3]float64{minX, minY, minZ}, Max: [3]float64{maxX, maxY, maxZ}}
	}

	el("S0", "storey", "Ground Floor", nil, map[string]any{"Elevation": 0.0})
	el("S1", "storey", "First Floor", nil, map[string]any{"Elevation": 3000.0})

	el("R1", "space", "Stairwell", box(0, 0, 0, 3, 3, 3), nil)
	el("R2", "space", "Corridor West", box(3, 0, 0, 9, 1.5, 3), nil)
	el("R3", "space", "Corridor East", box(9, 0, 0, 15, 1.5, 3), nil)

	// Three runs of one staircase, overlapping in plan and spanning both
	// storey elevations.
	for i := 1; i <= 3; i++ {
		id := fmt.Sprintf("F%d", i)
		el(id, "stair_flight", fmt.Sprintf("Assembled Stair:Stair:412007 Run %d", i),
			box(0.4, 0.4, 0, 2.6, 2.6, 3), map[string]any{"ActualRunWidth": 1.2})
		rel("storey", "S0", id)
	}

	// Stairwell perimeter walls plus the wall between the corridors.
	for id, b := range map[string]*boxEntry{
		"WL": box(-0.2, -0.2, 0, 0, 3.2, 3),
		"WR": box(3, -0.2, 0, 3.2, 3.2, 3),
		"WT": box(-0.2, 3, 0, 3.2, 3.2, 3),
		"WB": box(-0.2, -0.2, 0, 3.2, 0, 3),
		"WM": box(9, -0.2, 0, 9.2, 1.7, 3),
	} {
		el(id, "wall", id, b, nil)
		rel("storey", "S0", id)
	}

	door := func(doorID, openingID, wallID, name, operation string, b *boxEntry) {
		mf.Elements = append(mf.Elements, elementEntry{
			ElementRecord: validation.ElementRecord{
				ID: doorID, Kind: "door", Name: name,
				Attributes: map[string]any{"OverallWidth": 0.9},
			},
			OperationType: operation,
			Box:           b,
		})
		el(openingID, "opening", name+" opening", b, nil)
		rel("fills", openingID, doorID)
		rel("voids", wallID, openingID)
	}
	door("D1", "O1", "WR", "Stair Entry", "SINGLE_SWING_OUT", box(2.9, 0.55, 0, 3.2, 0.95, 2.1))
	door("D2", "O2", "WM", "Corridor Door", "", box(8.9, 0.55, 0, 9.2, 0.95, 2.1))

	return mf
}
