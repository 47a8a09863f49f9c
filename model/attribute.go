package model

import (
	"github.com/meshgrid/stepmesh/step"
)

// AttrKind discriminates the closed AttributeValue variant set.
type AttrKind uint8

const (
	AttrNull AttrKind = iota
	AttrDerived
	AttrRef
	AttrString
	AttrInt
	AttrFloat
	AttrEnum
	AttrList
	AttrTyped
)

func (k AttrKind) String() string {
	switch k {
	case AttrNull:
		return "null"
	case AttrDerived:
		return "derived"
	case AttrRef:
		return "reference"
	case AttrString:
		return "string"
	case AttrInt:
		return "integer"
	case AttrFloat:
		return "float"
	case AttrEnum:
		return "enum"
	case AttrList:
		return "list"
	case AttrTyped:
		return "typed value"
	}
	return "unknown"
}

// AttributeValue is one decoded attribute. Lists and typed values nest
// arbitrarily. An AttributeValue never holds a resolved reference to another
// decoded entity, only an EntityID: reference cycles stay ordinary data
// instead of object-graph cycles, and dereferencing goes through the Model.
type AttributeValue struct {
	List  []AttributeValue
	Str   string
	Float float64
	Int   int64
	Ref   step.EntityID
	Kind  AttrKind
}

// attrFromToken maps one structural token to an attribute value. The mapping
// is purely structural; type names carry no semantics here.
func attrFromToken(tok step.Token) AttributeValue {
	switch tok.Kind {
	case step.TokenNull:
		return AttributeValue{Kind: AttrNull}
	case step.TokenDerived:
		return AttributeValue{Kind: AttrDerived}
	case step.TokenRef:
		return AttributeValue{Kind: AttrRef, Ref: tok.Ref}
	case step.TokenString:
		return AttributeValue{Kind: AttrString, Str: tok.Str}
	case step.TokenInt:
		return AttributeValue{Kind: AttrInt, Int: tok.Int}
	case step.TokenFloat:
		return AttributeValue{Kind: AttrFloat, Float: tok.Float}
	case step.TokenEnum:
		return AttributeValue{Kind: AttrEnum, Str: tok.Str}
	case step.TokenList:
		return AttributeValue{Kind: AttrList, List: attrsFromTokens(tok.List)}
	case step.TokenTyped:
		return AttributeValue{Kind: AttrTyped, Str: tok.Str, List: attrsFromTokens(tok.List)}
	}
	return AttributeValue{Kind: AttrNull}
}

func attrsFromTokens(toks []step.Token) []AttributeValue {
	if len(toks) == 0 {
		return nil
	}
	out := make([]AttributeValue, len(toks))
	for i, tok := range toks {
		out[i] = attrFromToken(tok)
	}
	return out
}

// AsRef reports the referenced entity id when the value is a reference.
func (v AttributeValue) AsRef() (step.EntityID, bool) {
	if v.Kind == AttrRef {
		return v.Ref, true
	}
	return 0, false
}

// AsFloat reports the numeric value, accepting both float and integer forms.
func (v AttributeValue) AsFloat() (float64, bool) {
	switch v.Kind {
	case AttrFloat:
		return v.Float, true
	case AttrInt:
		return float64(v.Int), true
	}
	return 0, false
}

// AsInt reports the integer value.
func (v AttributeValue) AsInt() (int64, bool) {
	if v.Kind == AttrInt {
		return v.Int, true
	}
	return 0, false
}

// AsString reports the string value.
func (v AttributeValue) AsString() (string, bool) {
	if v.Kind == AttrString {
		return v.Str, true
	}
	return "", false
}

// AsEnum reports the enumeration name.
func (v AttributeValue) AsEnum() (string, bool) {
	if v.Kind == AttrEnum {
		return v.Str, true
	}
	return "", false
}

// AsList reports the nested values of a list.
func (v AttributeValue) AsList() ([]AttributeValue, bool) {
	if v.Kind == AttrList {
		return v.List, true
	}
	return nil, false
}

// Inner unwraps a typed value one level (IFCLENGTHMEASURE(2.5) -> 2.5).
// Non-typed values pass through unchanged.
func (v AttributeValue) Inner() AttributeValue {
	if v.Kind == AttrTyped && len(v.List) == 1 {
		return v.List[0]
	}
	return v
}

// IsNull reports whether the value is the null marker.
func (v AttributeValue) IsNull() bool {
	return v.Kind == AttrNull
}

// Equal reports deep structural equality of two attribute values.
func (v AttributeValue) Equal(o AttributeValue) bool {
	if v.Kind != o.Kind || v.Str != o.Str || v.Int != o.Int ||
		v.Float != o.Float || v.Ref != o.Ref || len(v.List) != len(o.List) {
		return false
	}
	for i := range v.List {
		if !v.List[i].Equal(o.List[i]) {
			return false
		}
	}
	return true
}
