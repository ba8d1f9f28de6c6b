package classify

import (
	"strings"

	"github.com/dd0wney/cluso-egress/pkg/model"
)

// SwingDirection is a door's swing relative to the space it serves.
type SwingDirection uint8

const (
	SwingUnknown SwingDirection = iota
	SwingAway
	SwingToward
)

// String returns the human-readable direction.
func (d SwingDirection) String() string {
	switch d {
	case SwingAway:
		return "away"
	case SwingToward:
		return "toward"
	default:
		return "unknown"
	}
}

// DoorSwing guesses the swing direction from a door's textual attributes.
// The operation type wins when it carries a directional hint; otherwise the
// remaining attributes are scanned together. Unknown is a common outcome
// and callers surface it as its own reportable reason so the door can be
// inspected.
func DoorSwing(door *model.Element) SwingDirection {
	if op := strings.ToLower(door.OperationType); op != "" {
		// "out" before "in": OUTSWING contains both.
		if strings.Contains(op, "out") {
			return SwingAway
		}
		if strings.Contains(op, "in") {
			return SwingToward
		}
	}

	var parts []string
	for _, s := range []string{door.PredefinedType, door.ObjectType, door.Name, door.Description, door.Tag} {
		if s != "" {
			parts = append(parts, strings.ToLower(s))
		}
	}
	txt := strings.Join(parts, " ")
	if txt == "" {
		return SwingUnknown
	}

	if containsAny(txt, "outward", "opens out", "opens away", "open out") {
		return SwingAway
	}
	if containsAny(txt, "inward", "opens in", "open in", "opens into", "into") {
		return SwingToward
	}
	if strings.Contains(txt, "swing") {
		if strings.Contains(txt, "out") {
			return SwingAway
		}
		if strings.Contains(txt, "in") {
			return SwingToward
		}
	}

	return SwingUnknown
}
