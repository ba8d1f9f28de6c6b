// Package geometry derives planar bounding boxes and centroids from
// tessellated element meshes. All derived coordinates are in millimeters;
// tessellators produce vertices in the model's native unit (meters).
package geometry

// Vertex is a single tessellated mesh vertex in the model's native unit.
type Vertex struct {
	X, Y, Z float64
}

// BoundingBox is an axis-aligned box in millimeters. The planar x/y extent
// drives adjacency and width checks; the z range is kept for storey-span
// checks. A zero box is never a valid result: absence is signalled by the
// ok flag on the accessor methods.
type BoundingBox struct {
	MinX, MinY, MinZ float64
	MaxX, MaxY, MaxZ float64
}

// Centroid is the arithmetic mean of an element's mesh vertices, in
// millimeters. It is a fallback locator, not a true center of mass.
type Centroid struct {
	X, Y, Z float64
}

// Expand grows the planar extent by margin on every side. The z range is
// unchanged.
func (b BoundingBox) Expand(margin float64) BoundingBox {
	return BoundingBox{
		MinX: b.MinX - margin,
		MinY: b.MinY - margin,
		MinZ: b.MinZ,
		MaxX: b.MaxX + margin,
		MaxY: b.MaxY + margin,
		MaxZ: b.MaxZ,
	}
}

// ContainsXY reports whether the planar extent contains the point.
func (b BoundingBox) ContainsXY(x, y float64) bool {
	return x >= b.MinX && x <= b.MaxX && y >= b.MinY && y <= b.MaxY
}

// IntersectsXY reports whether the planar extents overlap, allowing a gap
// of up to margin between them.
func (b BoundingBox) IntersectsXY(o BoundingBox, margin float64) bool {
	return b.MinX-margin <= o.MaxX && b.MaxX+margin >= o.MinX &&
		b.MinY-margin <= o.MaxY && b.MaxY+margin >= o.MinY
}

// Union returns the smallest box covering both.
func (b BoundingBox) Union(o BoundingBox) BoundingBox {
	return BoundingBox{
		MinX: minf(b.MinX, o.MinX),
		MinY: minf(b.MinY, o.MinY),
		MinZ: minf(b.MinZ, o.MinZ),
		MaxX: maxf(b.MaxX, o.MaxX),
		MaxY: maxf(b.MaxY, o.MaxY),
		MaxZ: maxf(b.MaxZ, o.MaxZ),
	}
}

// Extents returns the planar extents ordered longer first.
func (b BoundingBox) Extents() (length, width float64) {
	dx := b.MaxX - b.MinX
	dy := b.MaxY - b.MinY
	if dx >= dy {
		return dx, dy
	}
	return dy, dx
}

// CenterXY returns the planar center point.
func (b BoundingBox) CenterXY() (x, y float64) {
	return (b.MinX + b.MaxX) / 2, (b.MinY + b.MaxY) / 2
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
