// Package egress computes stair reachability over the room adjacency graph.
// A corridor is linked when a door connects it to a stair space directly, or
// to another linked corridor. Traversal never crosses ordinary rooms, so a
// ward between two corridors does not make an escape route.
package egress

import (
	"sort"

	"github.com/dd0wney/cluso-egress/pkg/adjacency"
)

// Reachability is the result of a stair-linkage search.
type Reachability struct {
	// Linked has one entry per corridor, true when the corridor reaches a
	// stair through corridor-only hops. Corridors with no path are present
	// with false; stair spaces are never keys.
	Linked map[string]bool

	// Distances gives the corridor-to-corridor hop count from the nearest
	// stair-adjacent corridor. Only linked corridors have entries; a seed
	// corridor is at distance zero.
	Distances map[string]int

	// Seeds lists the corridors directly adjacent to a stair, sorted.
	Seeds []string
}

type bfsEntry struct {
	spaceID string
	hop     int
}

// LinkedCorridors performs a multi-source BFS from every corridor that
// shares a door with a stair space, expanding through corridor nodes only.
func LinkedCorridors(g *adjacency.Graph, stairIDs, corridorIDs []string) *Reachability {
	corridorSet := make(map[string]bool, len(corridorIDs))
	linked := make(map[string]bool, len(corridorIDs))
	for _, id := range corridorIDs {
		corridorSet[id] = true
		linked[id] = false
	}

	stairSet := make(map[string]bool, len(stairIDs))
	for _, id := range stairIDs {
		stairSet[id] = true
	}

	distances := make(map[string]int)
	var seeds []string
	var queue []bfsEntry

	for _, id := range corridorIDs {
		if linked[id] {
			continue
		}
		for _, nbr := range g.Neighbors(id) {
			if stairSet[nbr] {
				linked[id] = true
				distances[id] = 0
				seeds = append(seeds, id)
				queue = append(queue, bfsEntry{spaceID: id, hop: 0})
				break
			}
		}
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		nextHop := current.hop + 1
		for _, nbr := range g.Neighbors(current.spaceID) {
			if !corridorSet[nbr] || linked[nbr] {
				continue
			}
			linked[nbr] = true
			distances[nbr] = nextHop
			queue = append(queue, bfsEntry{spaceID: nbr, hop: nextHop})
		}
	}

	sort.Strings(seeds)
	return &Reachability{Linked: linked, Distances: distances, Seeds: seeds}
}
