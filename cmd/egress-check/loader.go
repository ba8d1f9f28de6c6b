package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dd0wney/cluso-egress/pkg/geometry"
	"github.com/dd0wney/cluso-egress/pkg/logging"
	"github.com/dd0wney/cluso-egress/pkg/metrics"
	"github.com/dd0wney/cluso-egress/pkg/model"
	"github.com/dd0wney/cluso-egress/pkg/validation"
)

// modelFile is the JSON interchange format for a building model. Element
// geometry is an axis-aligned box with vertices in meters; attribute values
// follow the declared unit, or the magnitude heuristic when none is given.
type modelFile struct {
	Unit      string                      `json:"unit,omitempty"`
	Elements  []elementEntry              `json:"elements"`
	Relations []validation.RelationRecord `json:"relations,omitempty"`
}

type elementEntry struct {
	validation.ElementRecord
	LongName      string    `json:"long_name,omitempty"`
	ObjectType    string    `json:"object_type,omitempty"`
	OperationType string    `json:"operation_type,omitempty"`
	Box           *boxEntry `json:"box,omitempty"`
}

// boxEntry is an axis-aligned box in meters, corners as [x, y, z].
type boxEntry struct {
	Min [3]float64 `json:"min"`
	Max [3]float64 `json:"max"`
}

// vertices spans the box with four corners. That is enough for the
// geometry accessor: the bounding box is exact and the centroid lands on
// the box center.
func (b *boxEntry) vertices() []geometry.Vertex {
	return []geometry.Vertex{
		{X: b.Min[0], Y: b.Min[1], Z: b.Min[2]},
		{X: b.Max[0], Y: b.Min[1], Z: b.Min[2]},
		{X: b.Max[0], Y: b.Max[1], Z: b.Max[2]},
		{X: b.Min[0], Y: b.Max[1], Z: b.Max[2]},
	}
}

func (m *modelFile) unit() geometry.Unit {
	switch m.Unit {
	case "mm", "millimeter", "millimetre":
		return geometry.UnitMillimeter
	case "m", "meter", "metre":
		return geometry.UnitMeter
	default:
		return geometry.UnitUnknown
	}
}

func readModelFile(path string) (*modelFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	var mf modelFile
	if err := json.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("parse model: %w", err)
	}
	if len(mf.Elements) == 0 {
		return nil, fmt.Errorf("model has no elements")
	}
	return &mf, nil
}

// boxTessellator serves the box meshes captured from the model file.
type boxTessellator struct {
	meshes map[string][]geometry.Vertex
}

func (t *boxTessellator) Mesh(el *model.Element) ([]geometry.Vertex, error) {
	verts, ok := t.meshes[el.ID]
	if !ok {
		return nil, fmt.Errorf("no geometry for %s", el.ID)
	}
	return verts, nil
}

// assembleModel validates the file records and builds the in-memory store
// plus the tessellator backing it. Invalid records are logged, counted and
// skipped; only a model with no usable elements at all is an error.
func assembleModel(mf *modelFile, log logging.Logger, reg *metrics.Registry) (*model.Store, *boxTessellator, error) {
	store := model.NewStore()
	tess := &boxTessellator{meshes: make(map[string][]geometry.Vertex, len(mf.Elements))}

	accepted := 0
	for i := range mf.Elements {
		entry := &mf.Elements[i]
		if err := addElement(store, tess, entry); err != nil {
			reg.RecordRejectedRecord("element")
			log.Warn("rejecting element record",
				logging.String("id", entry.ID), logging.Error(err))
			continue
		}
		accepted++
	}
	if accepted == 0 {
		return nil, nil, fmt.Errorf("no valid elements in model")
	}

	linked := 0
	for i := range mf.Relations {
		rel := &mf.Relations[i]
		if err := linkRelation(store, rel); err != nil {
			reg.RecordRejectedRecord("relation")
			log.Warn("rejecting relation record",
				logging.String("kind", rel.Kind),
				logging.String("from", rel.FromID),
				logging.String("to", rel.ToID),
				logging.Error(err))
			continue
		}
		linked++
	}

	log.Info("model assembled",
		logging.Int("elements", accepted),
		logging.Int("relations", linked),
		logging.Int("rejected_elements", len(mf.Elements)-accepted),
		logging.Int("rejected_relations", len(mf.Relations)-linked))
	return store, tess, nil
}

func addElement(store *model.Store, tess *boxTessellator, entry *elementEntry) error {
	if err := validation.ValidateElementRecord(&entry.ElementRecord); err != nil {
		return err
	}
	el, err := buildElement(entry)
	if err != nil {
		return err
	}
	if err := store.AddElement(el); err != nil {
		return err
	}
	if entry.Box != nil {
		tess.meshes[entry.ID] = entry.Box.vertices()
	}
	return nil
}

func buildElement(entry *elementEntry) (*model.Element, error) {
	kind, ok := model.KindFromString(entry.Kind)
	if !ok {
		return nil, fmt.Errorf("unknown kind %q", entry.Kind)
	}
	el := &model.Element{
		ID:            entry.ID,
		Kind:          kind,
		Name:          entry.Name,
		LongName:      entry.LongName,
		ObjectType:    entry.ObjectType,
		OperationType: entry.OperationType,
	}
	if len(entry.Attributes) > 0 {
		el.Attributes = make(map[string]model.Value, len(entry.Attributes))
		for k, v := range entry.Attributes {
			val, ok := attrValue(v)
			if !ok {
				return nil, fmt.Errorf("attribute %q has unsupported type %T", k, v)
			}
			el.Attributes[k] = val
		}
	}
	return el, nil
}

// attrValue converts a decoded JSON attribute to a typed model value.
// encoding/json yields float64 for every number.
func attrValue(v any) (model.Value, bool) {
	switch val := v.(type) {
	case float64:
		return model.FloatValue(val), true
	case string:
		return model.StringValue(val), true
	case bool:
		return model.BoolValue(val), true
	default:
		return model.Value{}, false
	}
}

// linkRelation applies one relation to the store. Direction follows the
// source model: fills goes opening to door, voids container to opening,
// storey storey to element, bounds space to element.
func linkRelation(store *model.Store, rel *validation.RelationRecord) error {
	if err := validation.ValidateRelationRecord(rel); err != nil {
		return err
	}
	switch rel.Kind {
	case "fills":
		return store.LinkFill(rel.FromID, rel.ToID)
	case "voids":
		return store.LinkVoid(rel.FromID, rel.ToID)
	case "storey":
		return store.AssignStorey(rel.FromID, rel.ToID)
	case "bounds":
		return store.LinkBoundary(rel.FromID, rel.ToID)
	default:
		return fmt.Errorf("unknown relation kind %q", rel.Kind)
	}
}
