// Package model holds the in-memory projection of a building model that one
// analysis run works against. Loaders populate a Store with elements and the
// relations between them (door fills opening, opening voids wall, storey
// contains element); the analysis stages only ever read from it.
package model

import (
	"sync"
)

// Store is the in-memory building model store
type Store struct {
	// Core data structures
	elements map[string]*Element

	// Indexes for fast lookups
	byKind map[Kind][]string // kind -> element IDs

	// Relation tables
	fills       map[string]string   // opening ID -> door ID (filler)
	filledBy    map[string]string   // door ID -> opening ID
	voidedBy    map[string]string   // opening ID -> container element ID
	voidings    map[string][]string // container ID -> opening IDs
	containment map[string][]string // storey ID -> contained element IDs
	storeyOf    map[string]string   // element ID -> storey ID
	boundaries  map[string][]string // element ID -> space IDs it bounds

	// Concurrency control
	mu sync.RWMutex
}

// Statistics tracks model statistics
type Statistics struct {
	ElementCount  int
	ByKind        map[Kind]int
	FillCount     int
	VoidCount     int
	BoundaryCount int
}

// NewStore creates an empty model store
func NewStore() *Store {
	return &Store{
		elements:    make(map[string]*Element),
		byKind:      make(map[Kind][]string),
		fills:       make(map[string]string),
		filledBy:    make(map[string]string),
		voidedBy:    make(map[string]string),
		voidings:    make(map[string][]string),
		containment: make(map[string][]string),
		storeyOf:    make(map[string]string),
		boundaries:  make(map[string][]string),
	}
}

// AddElement registers an element in the store
func (s *Store) AddElement(el *Element) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if el.ID == "" {
		return NewError("AddElement").Element(el.ID).Cause(ErrInvalidID).Err()
	}
	if _, exists := s.elements[el.ID]; exists {
		return NewError("AddElement").Element(el.ID).Cause(ErrDuplicateElement).Err()
	}

	s.elements[el.ID] = el
	s.byKind[el.Kind] = append(s.byKind[el.Kind], el.ID)

	return nil
}

// GetElement retrieves an element by ID
func (s *Store) GetElement(id string) (*Element, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	el, exists := s.elements[id]
	if !exists {
		return nil, ElementNotFoundError(id)
	}

	return el.Clone(), nil
}

// FindElementsByKind returns all elements of a kind, in registration order
func (s *Store) FindElementsByKind(kind Kind) []*Element {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byKind[kind]
	elements := make([]*Element, 0, len(ids))
	for _, id := range ids {
		if el, exists := s.elements[id]; exists {
			elements = append(elements, el.Clone())
		}
	}

	return elements
}

// LinkFill records that a door fills an opening. Each opening takes exactly
// one filler.
func (s *Store) LinkFill(openingID, doorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	opening, exists := s.elements[openingID]
	if !exists {
		return NewError("LinkFill").Element(openingID).Cause(ErrElementNotFound).Err()
	}
	door, exists := s.elements[doorID]
	if !exists {
		return NewError("LinkFill").Element(doorID).Cause(ErrElementNotFound).Err()
	}
	if opening.Kind != KindOpening {
		return NewError("LinkFill").Element(openingID).Context("expected opening").Cause(ErrKindMismatch).Err()
	}
	if door.Kind != KindDoor {
		return NewError("LinkFill").Element(doorID).Context("expected door").Cause(ErrKindMismatch).Err()
	}
	if _, exists := s.fills[openingID]; exists {
		return NewError("LinkFill").Relation().Context("opening already filled").Cause(ErrRelationExists).Err()
	}

	s.fills[openingID] = doorID
	s.filledBy[doorID] = openingID

	return nil
}

// LinkVoid records that an opening voids a container element (usually a wall).
// Each opening voids exactly one container; a container may host many openings.
func (s *Store) LinkVoid(containerID, openingID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.elements[containerID]; !exists {
		return NewError("LinkVoid").Element(containerID).Cause(ErrElementNotFound).Err()
	}
	opening, exists := s.elements[openingID]
	if !exists {
		return NewError("LinkVoid").Element(openingID).Cause(ErrElementNotFound).Err()
	}
	if opening.Kind != KindOpening {
		return NewError("LinkVoid").Element(openingID).Context("expected opening").Cause(ErrKindMismatch).Err()
	}
	if _, exists := s.voidedBy[openingID]; exists {
		return NewError("LinkVoid").Relation().Context("opening already voids a container").Cause(ErrRelationExists).Err()
	}

	s.voidedBy[openingID] = containerID
	s.voidings[containerID] = append(s.voidings[containerID], openingID)

	return nil
}

// AssignStorey records that a storey contains an element
func (s *Store) AssignStorey(storeyID, elementID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	storey, exists := s.elements[storeyID]
	if !exists {
		return NewError("AssignStorey").Element(storeyID).Cause(ErrElementNotFound).Err()
	}
	if storey.Kind != KindStorey {
		return NewError("AssignStorey").Element(storeyID).Context("expected storey").Cause(ErrKindMismatch).Err()
	}
	if _, exists := s.elements[elementID]; !exists {
		return NewError("AssignStorey").Element(elementID).Cause(ErrElementNotFound).Err()
	}

	s.containment[storeyID] = append(s.containment[storeyID], elementID)
	s.storeyOf[elementID] = storeyID

	return nil
}

// LinkBoundary records that an element sits on a space's boundary. Exporters
// emit these relations alongside fills and voids; the graph builder uses them
// as an extra door-to-room strategy.
func (s *Store) LinkBoundary(spaceID, elementID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	space, exists := s.elements[spaceID]
	if !exists {
		return NewError("LinkBoundary").Element(spaceID).Cause(ErrElementNotFound).Err()
	}
	if space.Kind != KindSpace {
		return NewError("LinkBoundary").Element(spaceID).Context("expected space").Cause(ErrKindMismatch).Err()
	}
	if _, exists := s.elements[elementID]; !exists {
		return NewError("LinkBoundary").Element(elementID).Cause(ErrElementNotFound).Err()
	}

	for _, existing := range s.boundaries[elementID] {
		if existing == spaceID {
			return nil
		}
	}
	s.boundaries[elementID] = append(s.boundaries[elementID], spaceID)

	return nil
}

// BoundarySpaces returns the IDs of spaces an element bounds
func (s *Store) BoundarySpaces(elementID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.boundaries[elementID]
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

// FillerOf returns the door that fills an opening
func (s *Store) FillerOf(openingID string) (*Element, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doorID, exists := s.fills[openingID]
	if !exists {
		return nil, false
	}
	door, exists := s.elements[doorID]
	if !exists {
		return nil, false
	}
	return door.Clone(), true
}

// OpeningOf returns the opening a door fills
func (s *Store) OpeningOf(doorID string) (*Element, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	openingID, exists := s.filledBy[doorID]
	if !exists {
		return nil, false
	}
	opening, exists := s.elements[openingID]
	if !exists {
		return nil, false
	}
	return opening.Clone(), true
}

// VoidContainer returns the element an opening voids
func (s *Store) VoidContainer(openingID string) (*Element, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	containerID, exists := s.voidedBy[openingID]
	if !exists {
		return nil, false
	}
	container, exists := s.elements[containerID]
	if !exists {
		return nil, false
	}
	return container.Clone(), true
}

// OpeningsIn returns the openings hosted by a container element
func (s *Store) OpeningsIn(containerID string) []*Element {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.voidings[containerID]
	openings := make([]*Element, 0, len(ids))
	for _, id := range ids {
		if el, exists := s.elements[id]; exists {
			openings = append(openings, el.Clone())
		}
	}
	return openings
}

// StoreyOf returns the storey containing an element
func (s *Store) StoreyOf(elementID string) (*Element, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	storeyID, exists := s.storeyOf[elementID]
	if !exists {
		return nil, false
	}
	storey, exists := s.elements[storeyID]
	if !exists {
		return nil, false
	}
	return storey.Clone(), true
}

// ElementsInStorey returns the elements a storey contains
func (s *Store) ElementsInStorey(storeyID string) []*Element {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.containment[storeyID]
	elements := make([]*Element, 0, len(ids))
	for _, id := range ids {
		if el, exists := s.elements[id]; exists {
			elements = append(elements, el.Clone())
		}
	}
	return elements
}

// GetStatistics returns model statistics
func (s *Store) GetStatistics() Statistics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byKind := make(map[Kind]int, len(s.byKind))
	for kind, ids := range s.byKind {
		byKind[kind] = len(ids)
	}

	boundaryCount := 0
	for _, ids := range s.boundaries {
		boundaryCount += len(ids)
	}

	return Statistics{
		ElementCount:  len(s.elements),
		ByKind:        byKind,
		FillCount:     len(s.fills),
		VoidCount:     len(s.voidedBy),
		BoundaryCount: boundaryCount,
	}
}
