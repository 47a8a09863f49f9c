package model

import (
	"go.uber.org/zap"

	"github.com/meshgrid/stepmesh/step"
)

// QuantityKind declares how a quantity value is to be interpreted. It
// follows the quantity entity's own declared kind.
type QuantityKind uint8

const (
	QuantityNone QuantityKind = iota // plain property or unrecognized quantity
	QuantityLength
	QuantityArea
	QuantityVolume
	QuantityCount
	QuantityWeight
)

func (k QuantityKind) String() string {
	switch k {
	case QuantityLength:
		return "length"
	case QuantityArea:
		return "area"
	case QuantityVolume:
		return "volume"
	case QuantityCount:
		return "count"
	case QuantityWeight:
		return "weight"
	}
	return "none"
}

// Property is one named value within a property set. Typed wrappers around
// the nominal value (IFCLENGTHMEASURE(...) and friends) are unwrapped one
// level; Quantity records the declared kind for quantity entities.
type Property struct {
	Name     string
	Value    AttributeValue
	Quantity QuantityKind
}

// PropertySet is an ordered, named collection of properties attached to an
// element. Never mutated after construction.
type PropertySet struct {
	Name       string
	Properties []Property
	ID         step.EntityID
}

// BuildProperties walks every defines-by-properties relationship and
// attaches the referenced property and quantity sets to their elements.
// Malformed definitions are skipped with a debug log; recognized data is
// never silently coerced or dropped.
func (m *Model) BuildProperties() (map[step.EntityID][]PropertySet, error) {
	out := make(map[step.EntityID][]PropertySet)

	for _, relID := range m.FindByType("IFCRELDEFINESBYPROPERTIES") {
		rel, err := m.Get(relID)
		if err != nil || len(rel.Attrs) < 6 {
			Logger().Debug("skipping property relationship",
				zap.Uint32("entity", uint32(relID)), zap.Error(err))
			continue
		}
		objects, ok := rel.Attrs[4].AsList()
		if !ok {
			continue
		}
		defRef, ok := rel.Attrs[5].AsRef()
		if !ok {
			continue
		}
		pset, ok := m.propertySet(defRef)
		if !ok {
			continue
		}
		for _, obj := range objects {
			if elem, ok := obj.AsRef(); ok {
				out[elem] = append(out[elem], pset)
			}
		}
	}

	m.mu.Lock()
	m.properties = out
	m.mu.Unlock()
	return out, nil
}

// propertySet decodes one property definition entity into a PropertySet.
// Both IFCPROPERTYSET and IFCELEMENTQUANTITY are supported.
func (m *Model) propertySet(id step.EntityID) (PropertySet, bool) {
	def, err := m.Get(id)
	if err != nil {
		Logger().Debug("skipping undecodable property definition",
			zap.Uint32("entity", uint32(id)), zap.Error(err))
		return PropertySet{}, false
	}

	var listIdx int
	switch def.Type {
	case "IFCPROPERTYSET":
		listIdx = 4
	case "IFCELEMENTQUANTITY":
		listIdx = 5
	default:
		return PropertySet{}, false
	}
	if len(def.Attrs) <= listIdx {
		return PropertySet{}, false
	}

	pset := PropertySet{ID: id}
	if name, ok := def.Attrs[2].AsString(); ok {
		pset.Name = name
	}
	items, ok := def.Attrs[listIdx].AsList()
	if !ok {
		return PropertySet{}, false
	}
	for _, item := range items {
		ref, ok := item.AsRef()
		if !ok {
			continue
		}
		if prop, ok := m.property(ref); ok {
			pset.Properties = append(pset.Properties, prop)
		}
	}
	return pset, true
}

// property decodes one property or quantity entity.
func (m *Model) property(id step.EntityID) (Property, bool) {
	ent, err := m.Get(id)
	if err != nil || len(ent.Attrs) == 0 {
		return Property{}, false
	}

	var prop Property
	if name, ok := ent.Attrs[0].AsString(); ok {
		prop.Name = name
	}

	switch ent.Type {
	case "IFCPROPERTYSINGLEVALUE":
		if len(ent.Attrs) < 3 {
			return Property{}, false
		}
		prop.Value = ent.Attrs[2].Inner()
		return prop, true

	case "IFCQUANTITYLENGTH":
		prop.Quantity = QuantityLength
	case "IFCQUANTITYAREA":
		prop.Quantity = QuantityArea
	case "IFCQUANTITYVOLUME":
		prop.Quantity = QuantityVolume
	case "IFCQUANTITYCOUNT":
		prop.Quantity = QuantityCount
	case "IFCQUANTITYWEIGHT":
		prop.Quantity = QuantityWeight

	default:
		// Unrecognized quantity kinds are retained as untyped scalars so
		// downstream consumers see no silent data loss.
		if v, ok := firstScalar(ent.Attrs); ok {
			prop.Value = v
			return prop, true
		}
		return Property{}, false
	}

	// Recognized quantities carry their value at index 3.
	if len(ent.Attrs) < 4 {
		return Property{}, false
	}
	prop.Value = ent.Attrs[3].Inner()
	return prop, true
}

// firstScalar finds the first numeric attribute past the name/description
// slots, for quantity entities whose exact type we do not know.
func firstScalar(attrs []AttributeValue) (AttributeValue, bool) {
	for i := 2; i < len(attrs); i++ {
		v := attrs[i].Inner()
		if _, ok := v.AsFloat(); ok {
			return v, true
		}
	}
	return AttributeValue{}, false
}
