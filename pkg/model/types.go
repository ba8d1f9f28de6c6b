package model

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

// Kind identifies the building element classes the engine understands.
type Kind uint8

const (
	KindSpace Kind = iota
	KindDoor
	KindWall
	KindStairFlight
	KindStorey
	KindOpening
)

// String returns the human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindSpace:
		return "space"
	case KindDoor:
		return "door"
	case KindWall:
		return "wall"
	case KindStairFlight:
		return "stair_flight"
	case KindStorey:
		return "storey"
	case KindOpening:
		return "opening"
	default:
		return "unknown"
	}
}

// KindFromString parses a kind name as produced by String.
func KindFromString(s string) (Kind, bool) {
	switch s {
	case "space":
		return KindSpace, true
	case "door":
		return KindDoor, true
	case "wall":
		return KindWall, true
	case "stair_flight":
		return KindStairFlight, true
	case "storey":
		return KindStorey, true
	case "opening":
		return KindOpening, true
	default:
		return 0, false
	}
}

// ValueType represents the type of an attribute value
type ValueType uint8

const (
	TypeString ValueType = iota
	TypeInt
	TypeFloat
	TypeBool
)

// Value represents a typed attribute value
type Value struct {
	Type ValueType
	Data []byte
}

// Helper functions to create typed values
func StringValue(s string) Value {
	return Value{Type: TypeString, Data: []byte(s)}
}

func IntValue(i int64) Value {
	data := make([]byte, 8)
	binary.LittleEndian.PutUint64(data, uint64(i))
	return Value{Type: TypeInt, Data: data}
}

func FloatValue(f float64) Value {
	data := make([]byte, 8)
	binary.LittleEndian.PutUint64(data, math.Float64bits(f))
	return Value{Type: TypeFloat, Data: data}
}

func BoolValue(b bool) Value {
	data := []byte{0}
	if b {
		data[0] = 1
	}
	return Value{Type: TypeBool, Data: data}
}

// Decode methods
func (v Value) AsString() (string, error) {
	if v.Type != TypeString {
		return "", fmt.Errorf("value is not a string")
	}
	return string(v.Data), nil
}

func (v Value) AsInt() (int64, error) {
	if v.Type != TypeInt {
		return 0, fmt.Errorf("value is not an int")
	}
	return int64(binary.LittleEndian.Uint64(v.Data)), nil
}

func (v Value) AsFloat() (float64, error) {
	if v.Type != TypeFloat {
		return 0, fmt.Errorf("value is not a float")
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(v.Data)), nil
}

func (v Value) AsBool() (bool, error) {
	if v.Type != TypeBool {
		return false, fmt.Errorf("value is not a bool")
	}
	return v.Data[0] == 1, nil
}

// Numeric returns the value as a float64 when it carries either an int or a
// float. Attribute tables mix both, so width resolution goes through here.
func (v Value) Numeric() (float64, bool) {
	switch v.Type {
	case TypeFloat:
		f, err := v.AsFloat()
		return f, err == nil
	case TypeInt:
		i, err := v.AsInt()
		return float64(i), err == nil
	default:
		return 0, false
	}
}

// QuantityKind distinguishes measured quantity categories.
type QuantityKind uint8

const (
	QuantityLength QuantityKind = iota
	QuantityArea
	QuantityVolume
	QuantityCount
)

// Quantity is a single measured value from a quantity set.
type Quantity struct {
	Kind  QuantityKind
	Value float64
}

// PropertySet is a named collection of attribute values attached to an element.
type PropertySet struct {
	Name    string
	Entries map[string]Value
}

// QuantitySet is a named collection of measured quantities attached to an element.
type QuantitySet struct {
	Name    string
	Entries map[string]Quantity
}

// RectProfile is a rectangular extrusion profile carried by the source
// model, in the source unit. Openings and stair flights expose one when
// their shape is a simple extrusion; width fallbacks read it.
type RectProfile struct {
	XDim, YDim float64
}

// Element represents one building element in the analysis model.
// IDs are the source model's globally unique identifiers and are treated
// as opaque, stable strings.
type Element struct {
	ID   string
	Kind Kind

	Name           string
	LongName       string
	ObjectType     string
	Description    string
	Tag            string
	OperationType  string
	PredefinedType string

	// Attributes holds direct scalar attributes (widths, elevations, flags).
	// Lookup is case-insensitive; keys keep their source spelling.
	Attributes map[string]Value

	PropertySets []PropertySet
	QuantitySets []QuantitySet

	Profile *RectProfile
}

// DisplayName returns the best available human-readable name.
func (e *Element) DisplayName() string {
	if e.Name != "" {
		return e.Name
	}
	return e.LongName
}

// Attribute looks up a direct attribute by case-insensitive name.
func (e *Element) Attribute(name string) (Value, bool) {
	for k, v := range e.Attributes {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return Value{}, false
}

// Elevation returns the storey elevation attribute when present.
func (e *Element) Elevation() (float64, bool) {
	v, ok := e.Attribute("elevation")
	if !ok {
		return 0, false
	}
	return v.Numeric()
}

// Clone creates a deep copy of an element
func (e *Element) Clone() *Element {
	clone := &Element{
		ID:             e.ID,
		Kind:           e.Kind,
		Name:           e.Name,
		LongName:       e.LongName,
		ObjectType:     e.ObjectType,
		Description:    e.Description,
		Tag:            e.Tag,
		OperationType:  e.OperationType,
		PredefinedType: e.PredefinedType,
	}
	if e.Profile != nil {
		p := *e.Profile
		clone.Profile = &p
	}
	if e.Attributes != nil {
		clone.Attributes = make(map[string]Value, len(e.Attributes))
		for k, v := range e.Attributes {
			clone.Attributes[k] = v
		}
	}
	if e.PropertySets != nil {
		clone.PropertySets = make([]PropertySet, len(e.PropertySets))
		for i, ps := range e.PropertySets {
			cp := PropertySet{Name: ps.Name, Entries: make(map[string]Value, len(ps.Entries))}
			for k, v := range ps.Entries {
				cp.Entries[k] = v
			}
			clone.PropertySets[i] = cp
		}
	}
	if e.QuantitySets != nil {
		clone.QuantitySets = make([]QuantitySet, len(e.QuantitySets))
		for i, qs := range e.QuantitySets {
			cp := QuantitySet{Name: qs.Name, Entries: make(map[string]Quantity, len(qs.Entries))}
			for k, v := range qs.Entries {
				cp.Entries[k] = v
			}
			clone.QuantitySets[i] = cp
		}
	}
	return clone
}
