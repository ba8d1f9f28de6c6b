package geometry

import (
	"errors"
	"testing"

	"github.com/dd0wney/cluso-egress/pkg/model"
)

// stubTessellator serves canned meshes and records call counts per element.
type stubTessellator struct {
	meshes map[string][]Vertex
	calls  map[string]int
	fail   map[string]bool
	panics map[string]bool
}

func newStubTessellator() *stubTessellator {
	return &stubTessellator{
		meshes: make(map[string][]Vertex),
		calls:  make(map[string]int),
		fail:   make(map[string]bool),
		panics: make(map[string]bool),
	}
}

func (s *stubTessellator) Mesh(el *model.Element) ([]Vertex, error) {
	s.calls[el.ID]++
	if s.panics[el.ID] {
		panic("malformed solid")
	}
	if s.fail[el.ID] {
		return nil, errors.New("no shape representation")
	}
	return s.meshes[el.ID], nil
}

func TestAccessorBoundingBox(t *testing.T) {
	tess := newStubTessellator()
	tess.meshes["space-1"] = []Vertex{
		{X: 0, Y: 0, Z: 0},
		{X: 4, Y: 1.3, Z: 0},
		{X: 4, Y: 1.3, Z: 2.5},
	}
	a := NewAccessor(tess, NewCache())

	el := &model.Element{ID: "space-1", Kind: model.KindSpace}
	box, ok := a.BoundingBox(el)
	if !ok {
		t.Fatal("expected a bounding box")
	}
	want := BoundingBox{MinX: 0, MinY: 0, MinZ: 0, MaxX: 4000, MaxY: 1300, MaxZ: 2500}
	if box != want {
		t.Errorf("BoundingBox = %+v, want %+v", box, want)
	}
}

func TestAccessorCentroid(t *testing.T) {
	tess := newStubTessellator()
	tess.meshes["door-1"] = []Vertex{
		{X: 1, Y: 1, Z: 0},
		{X: 3, Y: 1, Z: 0},
		{X: 2, Y: 4, Z: 3},
	}
	a := NewAccessor(tess, NewCache())

	el := &model.Element{ID: "door-1", Kind: model.KindDoor}
	c, ok := a.Centroid(el)
	if !ok {
		t.Fatal("expected a centroid")
	}
	if c.X != 2000 || c.Y != 2000 || c.Z != 1000 {
		t.Errorf("Centroid = %+v, want (2000, 2000, 1000)", c)
	}
}

func TestAccessorCaching(t *testing.T) {
	tess := newStubTessellator()
	tess.meshes["space-1"] = []Vertex{{X: 0, Y: 0}, {X: 1, Y: 1}}
	cache := NewCache()
	a := NewAccessor(tess, cache)

	el := &model.Element{ID: "space-1", Kind: model.KindSpace}
	a.BoundingBox(el)
	a.Centroid(el)
	a.BoundingBox(el)

	if tess.calls["space-1"] != 1 {
		t.Errorf("expected 1 tessellation, got %d", tess.calls["space-1"])
	}
	stats := cache.Stats()
	if stats.Misses != 1 || stats.Hits != 2 {
		t.Errorf("cache stats = %+v, want 1 miss, 2 hits", stats)
	}
}

func TestAccessorFailureIsAbsence(t *testing.T) {
	tess := newStubTessellator()
	tess.fail["door-1"] = true
	cache := NewCache()
	a := NewAccessor(tess, cache)

	el := &model.Element{ID: "door-1", Kind: model.KindDoor}
	if _, ok := a.BoundingBox(el); ok {
		t.Error("failed tessellation should yield absence")
	}

	// Failures are cached too: the element is not re-tessellated.
	if _, ok := a.Centroid(el); ok {
		t.Error("failed tessellation should yield absence")
	}
	if tess.calls["door-1"] != 1 {
		t.Errorf("failure should be cached, got %d calls", tess.calls["door-1"])
	}
	if got := cache.Stats().Failures; got != 1 {
		t.Errorf("expected 1 recorded failure, got %d", got)
	}
}

func TestAccessorPanicIsAbsence(t *testing.T) {
	tess := newStubTessellator()
	tess.panics["wall-1"] = true
	a := NewAccessor(tess, NewCache())

	el := &model.Element{ID: "wall-1", Kind: model.KindWall}
	if _, ok := a.BoundingBox(el); ok {
		t.Error("panicking tessellation should yield absence")
	}
}

func TestAccessorEmptyMesh(t *testing.T) {
	tess := newStubTessellator()
	tess.meshes["space-1"] = nil
	a := NewAccessor(tess, NewCache())

	el := &model.Element{ID: "space-1", Kind: model.KindSpace}
	if _, ok := a.BoundingBox(el); ok {
		t.Error("empty mesh should yield absence")
	}
}

func TestCacheKeyIncludesKind(t *testing.T) {
	// Two elements sharing an identifier but not a kind must not collide.
	tess := newStubTessellator()
	tess.meshes["x"] = []Vertex{{X: 1, Y: 1}}
	a := NewAccessor(tess, NewCache())

	asSpace := &model.Element{ID: "x", Kind: model.KindSpace}
	asDoor := &model.Element{ID: "x", Kind: model.KindDoor}
	a.BoundingBox(asSpace)
	a.BoundingBox(asDoor)

	if tess.calls["x"] != 2 {
		t.Errorf("expected separate cache entries per kind, got %d calls", tess.calls["x"])
	}
}
