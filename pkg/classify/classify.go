// Package classify assigns egress roles to building elements from their
// textual attributes and geometry. The roles drive which rules apply to a
// space and which nodes the reachability search may traverse.
package classify

import (
	"strings"

	"github.com/dd0wney/cluso-egress/pkg/model"
)

// SpaceRole is the egress role of a space.
type SpaceRole uint8

const (
	RoleOther SpaceRole = iota
	RoleCorridor
	RoleStair
)

// String returns the human-readable role name.
func (r SpaceRole) String() string {
	switch r {
	case RoleCorridor:
		return "corridor"
	case RoleStair:
		return "stair"
	default:
		return "other"
	}
}

var (
	corridorKeywords = []string{"hallway", "corridor", "passage", "circulation"}
	stairKeywords    = []string{"stair"}
)

// ClassifySpace assigns a role by case-insensitive substring match of the
// display name. Stair keywords win over corridor keywords, so a "Stair
// passage" counts as a stair. Every space gets exactly one role.
func ClassifySpace(sp *model.Element) SpaceRole {
	name := strings.ToLower(sp.DisplayName())
	if containsAny(name, stairKeywords...) {
		return RoleStair
	}
	if containsAny(name, corridorKeywords...) {
		return RoleCorridor
	}
	return RoleOther
}

// WallContainers returns the kinds of elements an opening voids. Entry doors
// are expected to sit in wall-class containers; anything else means the door
// is not a compartmentation boundary.
func WallContainers(store *model.Store, openingID string) []model.Kind {
	container, ok := store.VoidContainer(openingID)
	if !ok {
		return nil
	}
	return []model.Kind{container.Kind}
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
