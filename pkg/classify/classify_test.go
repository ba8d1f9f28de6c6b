package classify

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/dd0wney/cluso-egress/pkg/model"
)

func space(name string) *model.Element {
	return &model.Element{ID: "sp-" + name, Kind: model.KindSpace, Name: name}
}

func TestClassifySpace(t *testing.T) {
	cases := []struct {
		name string
		want SpaceRole
	}{
		{"Hallway 2.01", RoleCorridor},
		{"West CORRIDOR", RoleCorridor},
		{"Main passage", RoleCorridor},
		{"Circulation zone A", RoleCorridor},
		{"Stairwell North", RoleStair},
		{"STAIR 3", RoleStair},
		{"Office 101", RoleOther},
		{"", RoleOther},
	}
	for _, c := range cases {
		if got := ClassifySpace(space(c.name)); got != c.want {
			t.Errorf("ClassifySpace(%q) = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestClassifySpace_StairPrecedence(t *testing.T) {
	// A name hitting both keyword sets resolves to stair, silently.
	if got := ClassifySpace(space("Stair corridor")); got != RoleStair {
		t.Errorf("ClassifySpace(stair corridor) = %v, want RoleStair", got)
	}
	if got := ClassifySpace(space("Circulation stairs")); got != RoleStair {
		t.Errorf("ClassifySpace(circulation stairs) = %v, want RoleStair", got)
	}
}

func TestClassifySpace_LongNameFallback(t *testing.T) {
	sp := &model.Element{ID: "sp-1", Kind: model.KindSpace, LongName: "Corridor"}
	if got := ClassifySpace(sp); got != RoleCorridor {
		t.Errorf("ClassifySpace with LongName only = %v, want RoleCorridor", got)
	}
}

// TestClassifyProperties verifies the classifier invariants over arbitrary
// names: totality, determinism, and stair precedence.
func TestClassifyProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	properties.Property("classification is total and deterministic", prop.ForAll(
		func(name string) bool {
			sp := space(name)
			role := ClassifySpace(sp)
			if role != RoleCorridor && role != RoleStair && role != RoleOther {
				return false
			}
			return ClassifySpace(sp) == role
		},
		gen.AnyString(),
	))

	properties.Property("stair keyword always wins", prop.ForAll(
		func(prefix, suffix string) bool {
			sp := space(prefix + "stair" + suffix)
			return ClassifySpace(sp) == RoleStair
		},
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}

func TestWallContainers(t *testing.T) {
	s := model.NewStore()
	for _, el := range []*model.Element{
		{ID: "wall-1", Kind: model.KindWall},
		{ID: "opening-1", Kind: model.KindOpening},
		{ID: "opening-2", Kind: model.KindOpening},
		{ID: "space-1", Kind: model.KindSpace},
		{ID: "opening-3", Kind: model.KindOpening},
	} {
		if err := s.AddElement(el); err != nil {
			t.Fatalf("AddElement: %v", err)
		}
	}
	if err := s.LinkVoid("wall-1", "opening-1"); err != nil {
		t.Fatalf("LinkVoid: %v", err)
	}
	// An opening voiding a non-wall element still reports that kind.
	if err := s.LinkVoid("space-1", "opening-3"); err != nil {
		t.Fatalf("LinkVoid: %v", err)
	}

	if got := WallContainers(s, "opening-1"); len(got) != 1 || got[0] != model.KindWall {
		t.Errorf("WallContainers(opening-1) = %v, want [wall]", got)
	}
	if got := WallContainers(s, "opening-2"); got != nil {
		t.Errorf("WallContainers(opening-2) = %v, want nil", got)
	}
	if got := WallContainers(s, "opening-3"); len(got) != 1 || got[0] != model.KindSpace {
		t.Errorf("WallContainers(opening-3) = %v, want [space]", got)
	}
}
