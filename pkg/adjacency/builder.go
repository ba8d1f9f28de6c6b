package adjacency

import (
	"sort"

	"github.com/dd0wney/cluso-egress/pkg/classify"
	"github.com/dd0wney/cluso-egress/pkg/geometry"
	"github.com/dd0wney/cluso-egress/pkg/model"
)

// Default linkage margins in millimeters. The centroid margin absorbs the
// offset between a door's opening and the room volumes it connects; the box
// tolerance is wider because it backs the coarser intersection fallbacks.
const (
	DefaultCentroidMarginMM = 500
	DefaultBoxToleranceMM   = 1000
)

// Config carries the geometric tolerances for linkage detection.
type Config struct {
	// CentroidMarginMM expands each space footprint before testing whether
	// a door or opening centroid falls inside it.
	CentroidMarginMM float64
	// BoxToleranceMM expands door and opening boxes before intersecting
	// them with space footprints in the fallback strategies.
	BoxToleranceMM float64
}

func (c Config) withDefaults() Config {
	if c.CentroidMarginMM <= 0 {
		c.CentroidMarginMM = DefaultCentroidMarginMM
	}
	if c.BoxToleranceMM <= 0 {
		c.BoxToleranceMM = DefaultBoxToleranceMM
	}
	return c
}

// Result is the output of a linkage build.
type Result struct {
	// Graph links spaces that share a door. Every input space is a node,
	// including rooms no strategy could connect.
	Graph *Graph

	// DoorRooms maps each door with an opening to the spaces it touches,
	// sorted by ID. Two entries is the expected case; more happens in open
	// plans, zero means the linkage is unknown.
	DoorRooms map[string][]string

	// DoorContainers maps each door to the kinds of the elements its
	// opening cuts through, normally a single wall.
	DoorContainers map[string][]model.Kind

	// Unlinked lists doors that could not be connected to any space, either
	// because no opening is filled by them or because every strategy came
	// up empty. Order follows door registration order.
	Unlinked []string

	// DoorlessOpenings lists openings that no door fills. They cannot
	// contribute edges and usually indicate an incomplete model.
	DoorlessOpenings []string
}

// Builder derives room adjacency from doors and their openings.
type Builder struct {
	store *model.Store
	geo   *geometry.Accessor
	cfg   Config
}

// NewBuilder creates a builder over the given store and geometry accessor.
// Zero config fields fall back to the package defaults.
func NewBuilder(store *model.Store, geo *geometry.Accessor, cfg Config) *Builder {
	return &Builder{store: store, geo: geo, cfg: cfg.withDefaults()}
}

// Build computes the adjacency graph restricted to the given spaces.
//
// Each door is resolved to the set of those spaces it touches, trying
// strategies in order and accumulating across all of them:
//
//  1. opening centroid (or the door's own centroid when the opening has no
//     geometry) inside a space footprint expanded by CentroidMarginMM
//  2. door bounding box expanded by BoxToleranceMM intersecting a footprint
//  3. opening bounding box expanded the same way
//  4. explicit space-boundary relations recorded on the door
//
// Every pair of touched spaces becomes one undirected edge. Doors that touch
// nothing are reported in Unlinked rather than dropped silently.
func (b *Builder) Build(spaces []*model.Element) *Result {
	inScope := make(map[string]bool, len(spaces))
	boxes := make(map[string]geometry.BoundingBox, len(spaces))
	order := make([]string, 0, len(spaces))

	graph := NewGraph()
	for _, sp := range spaces {
		if sp == nil || inScope[sp.ID] {
			continue
		}
		inScope[sp.ID] = true
		order = append(order, sp.ID)
		graph.AddNode(sp.ID)
		if box, ok := b.geo.BoundingBox(sp); ok {
			boxes[sp.ID] = box
		}
	}

	res := &Result{
		Graph:          graph,
		DoorRooms:      make(map[string][]string),
		DoorContainers: make(map[string][]model.Kind),
	}

	for _, door := range b.store.FindElementsByKind(model.KindDoor) {
		opening, ok := b.store.OpeningOf(door.ID)
		if !ok {
			res.Unlinked = append(res.Unlinked, door.ID)
			continue
		}
		res.DoorContainers[door.ID] = classify.WallContainers(b.store, opening.ID)

		connected := b.touchedSpaces(door, opening, order, inScope, boxes)
		if len(connected) == 0 {
			res.Unlinked = append(res.Unlinked, door.ID)
		}
		sorted := append([]string(nil), connected...)
		sort.Strings(sorted)
		res.DoorRooms[door.ID] = sorted

		for i := 0; i < len(connected); i++ {
			for j := i + 1; j < len(connected); j++ {
				graph.AddEdge(connected[i], connected[j])
			}
		}
	}

	for _, opening := range b.store.FindElementsByKind(model.KindOpening) {
		if _, filled := b.store.FillerOf(opening.ID); !filled {
			res.DoorlessOpenings = append(res.DoorlessOpenings, opening.ID)
		}
	}

	return res
}

// touchedSpaces runs all linkage strategies for one door/opening pair and
// returns the de-duplicated spaces they reach, in scope order.
func (b *Builder) touchedSpaces(door, opening *model.Element, order []string, inScope map[string]bool, boxes map[string]geometry.BoundingBox) []string {
	var connected []string
	seen := make(map[string]bool)
	add := func(id string) {
		if !seen[id] {
			seen[id] = true
			connected = append(connected, id)
		}
	}

	centroid, haveCentroid := b.geo.Centroid(opening)
	if !haveCentroid {
		centroid, haveCentroid = b.geo.Centroid(door)
	}
	if haveCentroid {
		for _, sid := range order {
			box, ok := boxes[sid]
			if ok && box.Expand(b.cfg.CentroidMarginMM).ContainsXY(centroid.X, centroid.Y) {
				add(sid)
			}
		}
	}

	for _, el := range []*model.Element{door, opening} {
		box, ok := b.geo.BoundingBox(el)
		if !ok {
			continue
		}
		expanded := box.Expand(b.cfg.BoxToleranceMM)
		for _, sid := range order {
			spaceBox, ok := boxes[sid]
			if ok && expanded.IntersectsXY(spaceBox, 0) {
				add(sid)
			}
		}
	}

	for _, sid := range b.store.BoundarySpaces(door.ID) {
		if inScope[sid] {
			add(sid)
		}
	}

	return connected
}
