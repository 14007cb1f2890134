package normalize

import (
	"encoding/json"
	"sort"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	KindScalar Kind = iota
	KindMapping
	KindSequence
)

// String makes Kind satisfy the fmt.Stringer interface.
func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindMapping:
		return "mapping"
	case KindSequence:
		return "sequence"
	default:
		return "unknown"
	}
}

// Value is an option value: a scalar text, a mapping of names to values, or an ordered
// sequence of values. The zero Value is the empty scalar.
type Value struct {
	kind    Kind
	text    string
	mapping Mapping
	items   []Value
}

// Mapping maps option (or attribute) names to values. Key order is irrelevant.
type Mapping map[string]Value

// Scalar returns a scalar value holding text.
func Scalar(text string) Value {
	return Value{kind: KindScalar, text: text}
}

// MappingValue returns a mapping value. A nil m is treated as an empty mapping.
func MappingValue(m Mapping) Value {
	if m == nil {
		m = Mapping{}
	}
	return Value{kind: KindMapping, mapping: m}
}

// Sequence returns a sequence value holding items in order.
func Sequence(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindSequence, items: items}
}

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// Text returns the scalar text, or "" for non-scalars.
func (v Value) Text() string { return v.text }

// Map returns the mapping, or nil for non-mappings.
func (v Value) Map() Mapping { return v.mapping }

// Items returns the sequence elements, or nil for non-sequences.
func (v Value) Items() []Value { return v.items }

// Len returns the number of mapping keys or sequence items; scalars report their text length.
func (v Value) Len() int {
	switch v.kind {
	case KindMapping:
		return len(v.mapping)
	case KindSequence:
		return len(v.items)
	default:
		return len(v.text)
	}
}

// IsEmpty reports whether v is falsy: an empty scalar, mapping or sequence.
// Whitespace-only text is not empty.
func (v Value) IsEmpty() bool {
	return v.Len() == 0
}

// Append returns a sequence with item added. Appending to a non-sequence starts a new
// sequence containing only item.
func (v Value) Append(items ...Value) Value {
	if v.kind != KindSequence {
		return Sequence(append([]Value(nil), items...)...)
	}
	next := make([]Value, 0, len(v.items)+len(items))
	next = append(next, v.items...)
	next = append(next, items...)
	return Sequence(next...)
}

// Get looks up key in a mapping value.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindMapping {
		return Value{}, false
	}
	child, ok := v.mapping[key]
	return child, ok
}

// Equal reports deep structural equality; mapping key order never matters.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindMapping:
		return v.mapping.Equal(other.mapping)
	case KindSequence:
		if len(v.items) != len(other.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(other.items[i]) {
				return false
			}
		}
		return true
	default:
		return v.text == other.text
	}
}

// Interface lowers v to plain Go values: string, map[string]any or []any.
func (v Value) Interface() any {
	switch v.kind {
	case KindMapping:
		return v.mapping.Interface()
	case KindSequence:
		out := make([]any, len(v.items))
		for i, item := range v.items {
			out[i] = item.Interface()
		}
		return out
	default:
		return v.text
	}
}

// MarshalJSON encodes v as its plain JSON shape.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// MarshalYAML implements yaml.Marshaler.
func (v Value) MarshalYAML() (interface{}, error) {
	return v.Interface(), nil
}

// Keys returns the mapping keys sorted.
func (m Mapping) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Equal reports deep equality of two mappings.
func (m Mapping) Equal(other Mapping) bool {
	if len(m) != len(other) {
		return false
	}
	for k, v := range m {
		ov, ok := other[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// Interface lowers m to map[string]any.
func (m Mapping) Interface() map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v.Interface()
	}
	return out
}

// FromInterface builds a Value from plain Go data produced by Interface or by decoding
// JSON/YAML. Numbers and booleans become their JSON text; nil becomes the empty scalar.
func FromInterface(data any) Value {
	switch d := data.(type) {
	case Value:
		return d
	case string:
		return Scalar(d)
	case map[string]any:
		m := make(Mapping, len(d))
		for k, child := range d {
			m[k] = FromInterface(child)
		}
		return MappingValue(m)
	case []any:
		items := make([]Value, len(d))
		for i, child := range d {
			items[i] = FromInterface(child)
		}
		return Sequence(items...)
	case []string:
		items := make([]Value, len(d))
		for i, child := range d {
			items[i] = Scalar(child)
		}
		return Sequence(items...)
	case nil:
		return Scalar("")
	default:
		raw, err := json.Marshal(d)
		if err != nil {
			return Scalar("")
		}
		return Scalar(string(raw))
	}
}
