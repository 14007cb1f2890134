package normalize

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/wazuh/ossec-hids/internal/conferr"
)

// Document is a normalized configuration: section name to section value. Duplicate
// sections hold a sequence of mappings, Merge and Last sections a single mapping.
// A Document returned by Transform is never modified afterwards.
type Document struct {
	sections Mapping
}

// NewDocument wraps an existing mapping. Nil yields an empty document.
func NewDocument(sections Mapping) *Document {
	if sections == nil {
		sections = Mapping{}
	}
	return &Document{sections: sections}
}

// Names returns the section names present in the document, sorted.
func (d *Document) Names() []string {
	return d.sections.Keys()
}

// Len returns the number of sections.
func (d *Document) Len() int {
	return len(d.sections)
}

// Section returns the value stored for name.
func (d *Document) Section(name string) (Value, bool) {
	v, ok := d.sections[name]
	return v, ok
}

// Mapping exposes the underlying section mapping. Callers must not modify it.
func (d *Document) Mapping() Mapping {
	return d.sections
}

// Select narrows the document to a section and optionally to one of its fields.
//
// An empty section returns the whole document. A section that is neither present nor
// declared fails with CodeUnknownSection, a declared but absent one with
// CodeSectionNotPresent, and a missing field with CodeUnknownField. For Duplicate
// sections the field is collected from every occurrence that sets it.
func (d *Document) Select(section, field string) (Value, error) {
	if section == "" {
		return MappingValue(d.sections), nil
	}

	value, ok := d.sections[section]
	if !ok {
		if Known(section) {
			return Value{}, conferr.New(conferr.CodeSectionNotPresent, conferr.KindSectionNotPresent, section)
		}
		return Value{}, conferr.New(conferr.CodeUnknownSection, conferr.KindUnknownSection, section)
	}
	if field == "" {
		return value, nil
	}

	switch value.Kind() {
	case KindMapping:
		if fv, ok := value.Get(field); ok {
			return fv, nil
		}
	case KindSequence:
		var found []Value
		for _, occurrence := range value.Items() {
			if fv, ok := occurrence.Get(field); ok {
				found = append(found, fv)
			}
		}
		if len(found) > 0 {
			return Sequence(found...), nil
		}
	}
	return Value{}, conferr.Newf(conferr.CodeUnknownField, conferr.KindUnknownField, "%s in %s", field, section)
}

// ToStruct converts the document into a protobuf Struct for canonical interchange.
func (d *Document) ToStruct() (*structpb.Struct, error) {
	s, err := structpb.NewStruct(d.sections.Interface())
	if err != nil {
		return nil, fmt.Errorf("failed to convert document to struct: %w", err)
	}
	return s, nil
}

// MarshalJSON encodes the document as a plain JSON object.
func (d *Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.sections.Interface())
}

// UnmarshalJSON loads a document previously encoded with MarshalJSON.
func (d *Document) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d.sections = FromInterface(raw).Map()
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d *Document) MarshalYAML() (interface{}, error) {
	return d.sections.Interface(), nil
}
