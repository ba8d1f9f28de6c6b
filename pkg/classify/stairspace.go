package classify

import (
	"github.com/dd0wney/cluso-egress/pkg/geometry"
	"github.com/dd0wney/cluso-egress/pkg/model"
)

// Flight centroids within this distance of a space footprint associate the
// flight with that space.
const stairSpaceMarginMM = 300

// StairSpacesByGeometry identifies stair spaces by associating each stair
// flight centroid with the spaces whose expanded footprint contains it. This
// supplements name-based detection: spaces named like stairs are merged in
// even when no flight centroid lands inside them, with an empty flight list.
// The result maps space ID to the IDs of flights it hosts.
func StairSpacesByGeometry(store *model.Store, acc *geometry.Accessor) map[string][]string {
	spaces := store.FindElementsByKind(model.KindSpace)
	flights := store.FindElementsByKind(model.KindStairFlight)

	stairSpaces := make(map[string][]string)
	for _, fl := range flights {
		c, ok := acc.Centroid(fl)
		if !ok {
			continue
		}
		for _, sp := range spaces {
			box, ok := acc.BoundingBox(sp)
			if !ok {
				continue
			}
			if box.Expand(stairSpaceMarginMM).ContainsXY(c.X, c.Y) {
				stairSpaces[sp.ID] = append(stairSpaces[sp.ID], fl.ID)
			}
		}
	}

	for _, sp := range spaces {
		if ClassifySpace(sp) == RoleStair {
			if _, ok := stairSpaces[sp.ID]; !ok {
				stairSpaces[sp.ID] = nil
			}
		}
	}

	return stairSpaces
}
