package geometry

import (
	"fmt"
	"sync"

	"github.com/dd0wney/cluso-egress/pkg/model"
)

// Vertices arrive in meters; every derived coordinate is millimeters.
const metersToMillimeters = 1000

// Tessellator turns an element's shape representation into mesh vertices.
// Implementations wrap the host model toolkit and are free to fail or panic
// on malformed geometry; the accessor absorbs both.
type Tessellator interface {
	Mesh(el *model.Element) ([]Vertex, error)
}

// cacheKey identifies one element's derived geometry within a run.
type cacheKey struct {
	kind model.Kind
	id   string
}

type cacheEntry struct {
	box      BoundingBox
	centroid Centroid
	ok       bool
}

// Cache holds derived geometry for the duration of one analysis run. Entries
// are immutable once written, so concurrent readers only ever race on
// idempotent writes.
type Cache struct {
	mu      sync.RWMutex
	entries map[cacheKey]cacheEntry

	hits     int
	misses   int
	failures int
}

// CacheStats reports cache effectiveness for one run.
type CacheStats struct {
	Hits     int
	Misses   int
	Failures int
}

// NewCache creates an empty per-run geometry cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[cacheKey]cacheEntry)}
}

func (c *Cache) get(key cacheKey) (cacheEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	return e, ok
}

func (c *Cache) put(key cacheKey, e cacheEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = e
	c.misses++
	if !e.ok {
		c.failures++
	}
}

func (c *Cache) recordHit() {
	c.mu.Lock()
	c.hits++
	c.mu.Unlock()
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return CacheStats{Hits: c.hits, Misses: c.misses, Failures: c.failures}
}

// Len returns the number of cached elements.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Accessor derives bounding boxes and centroids from tessellated meshes,
// caching per element. Derivation failures are absences, never errors:
// callers fall back or skip per their own rules.
type Accessor struct {
	tess  Tessellator
	cache *Cache
}

// NewAccessor creates an accessor over a tessellator and a per-run cache.
func NewAccessor(tess Tessellator, cache *Cache) *Accessor {
	return &Accessor{tess: tess, cache: cache}
}

// BoundingBox returns the element's planar bounding box in millimeters.
func (a *Accessor) BoundingBox(el *model.Element) (BoundingBox, bool) {
	e := a.lookup(el)
	return e.box, e.ok
}

// Centroid returns the mean of the element's mesh vertices in millimeters.
func (a *Accessor) Centroid(el *model.Element) (Centroid, bool) {
	e := a.lookup(el)
	return e.centroid, e.ok
}

// CacheStats exposes the underlying cache counters.
func (a *Accessor) CacheStats() CacheStats {
	return a.cache.Stats()
}

func (a *Accessor) lookup(el *model.Element) cacheEntry {
	key := cacheKey{kind: el.Kind, id: el.ID}
	if e, ok := a.cache.get(key); ok {
		a.cache.recordHit()
		return e
	}
	e := a.derive(el)
	a.cache.put(key, e)
	return e
}

// derive tessellates once and computes both box and centroid from the same
// vertex slice.
func (a *Accessor) derive(el *model.Element) cacheEntry {
	verts, err := a.safeMesh(el)
	if err != nil || len(verts) == 0 {
		return cacheEntry{}
	}

	box := BoundingBox{
		MinX: verts[0].X, MinY: verts[0].Y, MinZ: verts[0].Z,
		MaxX: verts[0].X, MaxY: verts[0].Y, MaxZ: verts[0].Z,
	}
	var sumX, sumY, sumZ float64
	for _, v := range verts {
		box.MinX = minf(box.MinX, v.X)
		box.MinY = minf(box.MinY, v.Y)
		box.MinZ = minf(box.MinZ, v.Z)
		box.MaxX = maxf(box.MaxX, v.X)
		box.MaxY = maxf(box.MaxY, v.Y)
		box.MaxZ = maxf(box.MaxZ, v.Z)
		sumX += v.X
		sumY += v.Y
		sumZ += v.Z
	}

	n := float64(len(verts))
	return cacheEntry{
		box: BoundingBox{
			MinX: box.MinX * metersToMillimeters,
			MinY: box.MinY * metersToMillimeters,
			MinZ: box.MinZ * metersToMillimeters,
			MaxX: box.MaxX * metersToMillimeters,
			MaxY: box.MaxY * metersToMillimeters,
			MaxZ: box.MaxZ * metersToMillimeters,
		},
		centroid: Centroid{
			X: sumX / n * metersToMillimeters,
			Y: sumY / n * metersToMillimeters,
			Z: sumZ / n * metersToMillimeters,
		},
		ok: true,
	}
}

// safeMesh calls the tessellator with panic absorption. Host toolkits throw
// on malformed solids; a bad element must not take the run down.
func (a *Accessor) safeMesh(el *model.Element) (verts []Vertex, err error) {
	defer func() {
		if r := recover(); r != nil {
			verts = nil
			err = fmt.Errorf("tessellation panic: %v", r)
		}
	}()
	return a.tess.Mesh(el)
}
