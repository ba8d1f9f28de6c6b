// Package props resolves numeric dimensions from building elements. The same
// semantic dimension ("door width") is modeled inconsistently across
// exporters: sometimes a direct attribute, sometimes a named property in a
// property set, sometimes a measured quantity. The resolver layers those
// sources and returns the first usable value in millimeters.
package props

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/dd0wney/cluso-egress/pkg/geometry"
	"github.com/dd0wney/cluso-egress/pkg/model"
)

// Resolver resolves numeric element properties to millimeters. When the
// source model declares a project length unit the resolver uses it; absent
// that it falls back to the magnitude heuristic.
type Resolver struct {
	unit geometry.Unit
}

// NewResolver creates a resolver. Pass geometry.UnitUnknown when the model
// carries no usable unit declaration.
func NewResolver(unit geometry.Unit) *Resolver {
	return &Resolver{unit: unit}
}

// Numeric resolves the first usable value for any of the candidate names,
// normalized to millimeters. Search order: direct attributes (exact
// case-insensitive name), property set entries (name contains candidate),
// quantity set entries (name contains candidate). Zero values are skipped;
// exhausting every source yields absent.
func (r *Resolver) Numeric(el *model.Element, candidates []string) (float64, bool) {
	return r.resolve(el, candidates, r.normalize)
}

// Raw resolves like Numeric but skips unit normalization. Areas and
// perimeters are not lengths, so the millimeter heuristic would mangle them;
// callers normalize per their own dimension.
func (r *Resolver) Raw(el *model.Element, candidates []string) (float64, bool) {
	return r.resolve(el, candidates, usable)
}

func (r *Resolver) resolve(el *model.Element, candidates []string, norm func(float64) (float64, bool)) (float64, bool) {
	lowered := make([]string, len(candidates))
	for i, c := range candidates {
		lowered[i] = strings.ToLower(c)
	}

	strategies := []func(*model.Element, []string, func(float64) (float64, bool)) (float64, bool){
		r.fromAttributes,
		r.fromPropertySets,
		r.fromQuantitySets,
	}
	for _, strategy := range strategies {
		if v, ok := strategy(el, lowered, norm); ok {
			return v, true
		}
	}
	return 0, false
}

func (r *Resolver) fromAttributes(el *model.Element, candidates []string, norm func(float64) (float64, bool)) (float64, bool) {
	for _, name := range candidates {
		v, ok := el.Attribute(name)
		if !ok {
			continue
		}
		raw, ok := rawNumeric(v)
		if !ok {
			continue
		}
		if out, ok := norm(raw); ok {
			return out, true
		}
	}
	return 0, false
}

func (r *Resolver) fromPropertySets(el *model.Element, candidates []string, norm func(float64) (float64, bool)) (float64, bool) {
	for _, ps := range el.PropertySets {
		for _, name := range sortedKeys(ps.Entries) {
			if !containsAny(strings.ToLower(name), candidates) {
				continue
			}
			raw, ok := rawNumeric(ps.Entries[name])
			if !ok {
				continue
			}
			if out, ok := norm(raw); ok {
				return out, true
			}
		}
	}
	return 0, false
}

func (r *Resolver) fromQuantitySets(el *model.Element, candidates []string, norm func(float64) (float64, bool)) (float64, bool) {
	for _, qs := range el.QuantitySets {
		names := make([]string, 0, len(qs.Entries))
		for name := range qs.Entries {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if !containsAny(strings.ToLower(name), candidates) {
				continue
			}
			if out, ok := norm(qs.Entries[name].Value); ok {
				return out, true
			}
		}
	}
	return 0, false
}

func (r *Resolver) normalize(v float64) (float64, bool) {
	return geometry.ToMillimetersDeclared(v, r.unit)
}

// usable rejects values no dimension can carry.
func usable(v float64) (float64, bool) {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// rawNumeric extracts a raw number from a value. Text values that parse as
// numbers count: exporters routinely write dimensions as strings.
func rawNumeric(v model.Value) (float64, bool) {
	if f, ok := v.Numeric(); ok {
		return f, true
	}
	if s, err := v.AsString(); err == nil {
		f, perr := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if perr == nil {
			return f, true
		}
	}
	return 0, false
}

func containsAny(name string, candidates []string) bool {
	for _, c := range candidates {
		if strings.Contains(name, c) {
			return true
		}
	}
	return false
}

func sortedKeys(m map[string]model.Value) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
