package geometry

import (
	"testing"
)

func TestBoundingBoxExpand(t *testing.T) {
	b := BoundingBox{MinX: 1000, MinY: 2000, MinZ: 0, MaxX: 3000, MaxY: 4000, MaxZ: 2500}
	e := b.Expand(500)

	if e.MinX != 500 || e.MinY != 1500 || e.MaxX != 3500 || e.MaxY != 4500 {
		t.Errorf("unexpected planar expansion: %+v", e)
	}
	if e.MinZ != 0 || e.MaxZ != 2500 {
		t.Errorf("z range should be unchanged: %+v", e)
	}
}

func TestBoundingBoxContainsXY(t *testing.T) {
	b := BoundingBox{MinX: 0, MinY: 0, MaxX: 1000, MaxY: 2000}

	if !b.ContainsXY(500, 1000) {
		t.Error("interior point should be contained")
	}
	if !b.ContainsXY(0, 0) || !b.ContainsXY(1000, 2000) {
		t.Error("boundary points should be contained")
	}
	if b.ContainsXY(1001, 1000) {
		t.Error("point past max x should not be contained")
	}
}

func TestBoundingBoxIntersectsXY(t *testing.T) {
	a := BoundingBox{MinX: 0, MinY: 0, MaxX: 1000, MaxY: 1000}
	b := BoundingBox{MinX: 1500, MinY: 0, MaxX: 2500, MaxY: 1000}

	if a.IntersectsXY(b, 0) {
		t.Error("separated boxes should not intersect without margin")
	}
	if a.IntersectsXY(b, 250) {
		t.Error("250mm margin should not close a 500mm gap")
	}
	if !a.IntersectsXY(b, 500) {
		t.Error("500mm margin should close a 500mm gap")
	}
	if !a.IntersectsXY(a, 0) {
		t.Error("box should intersect itself")
	}
}

func TestBoundingBoxUnion(t *testing.T) {
	a := BoundingBox{MinX: 0, MinY: 0, MinZ: 0, MaxX: 1000, MaxY: 1000, MaxZ: 100}
	b := BoundingBox{MinX: -500, MinY: 500, MinZ: 50, MaxX: 800, MaxY: 3000, MaxZ: 400}

	u := a.Union(b)
	want := BoundingBox{MinX: -500, MinY: 0, MinZ: 0, MaxX: 1000, MaxY: 3000, MaxZ: 400}
	if u != want {
		t.Errorf("Union = %+v, want %+v", u, want)
	}
}

func TestBoundingBoxExtents(t *testing.T) {
	b := BoundingBox{MinX: 0, MinY: 0, MaxX: 1300, MaxY: 5200}
	length, width := b.Extents()
	if length != 5200 || width != 1300 {
		t.Errorf("Extents = %g, %g; want 5200, 1300", length, width)
	}

	// Square boxes report the same value twice.
	sq := BoundingBox{MinX: 0, MinY: 0, MaxX: 900, MaxY: 900}
	length, width = sq.Extents()
	if length != 900 || width != 900 {
		t.Errorf("square Extents = %g, %g", length, width)
	}
}

func TestBoundingBoxCenterXY(t *testing.T) {
	b := BoundingBox{MinX: -1000, MinY: 0, MaxX: 1000, MaxY: 3000}
	x, y := b.CenterXY()
	if x != 0 || y != 1500 {
		t.Errorf("CenterXY = %g, %g; want 0, 1500", x, y)
	}
}
