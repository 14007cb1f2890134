package normalize

import (
	"strings"

	"github.com/beevik/etree"
)

// ReadOption converts one option element of section into its name and value.
//
// The name is the element tag lower-cased. Four (section, option) pairs have dedicated
// readers; everything else follows the default rule:
//   - with attributes: a mapping of the attributes, plus every child element read
//     recursively under its own tag, or the element text under "item" when there are
//     no children
//   - without attributes: the raw element text
func ReadOption(section string, el *etree.Element) (string, Value) {
	name := strings.ToLower(el.Tag)

	switch {
	case section == SectionProfileList:
		return name, readProfileList(el)
	case section == SectionIntegrity && name == OptionIntegrityPaths:
		return name, readIntegrityPaths(el)
	case section == SectionCluster && name == OptionNodeList:
		return name, readNodeList(el)
	case section == SectionLabels && name == OptionLabel:
		return name, readLabel(el)
	}

	if len(el.Attr) == 0 {
		return name, Scalar(el.Text())
	}

	value := attributes(el)
	children := el.ChildElements()
	if len(children) == 0 {
		value[syntheticItemKey] = Scalar(el.Text())
		return name, MappingValue(value)
	}
	for _, child := range children {
		childName, childValue := ReadOption(strings.ToLower(child.Tag), child)
		value[childName] = childValue
	}
	return name, MappingValue(value)
}

// readProfileList reads an option of the profile-list section: attributes plus a
// "profiles" sequence holding the text of every descendant in pre-order.
func readProfileList(el *etree.Element) Value {
	if len(el.Attr) == 0 {
		return Scalar(el.Text())
	}
	value := attributes(el)
	if len(el.ChildElements()) > 0 {
		var profiles []Value
		collectDescendantText(el, &profiles)
		value[profilesKey] = Sequence(profiles...)
	}
	return MappingValue(value)
}

func collectDescendantText(el *etree.Element, out *[]Value) {
	for _, child := range el.ChildElements() {
		*out = append(*out, Scalar(child.Text()))
		collectDescendantText(child, out)
	}
}

// readIntegrityPaths splits a comma separated path list into one mapping per segment.
// Every segment produces an entry, blank ones included.
func readIntegrityPaths(el *etree.Element) Value {
	segments := strings.Split(el.Text(), ",")
	items := make([]Value, 0, len(segments))
	for _, segment := range segments {
		entry := attributes(el)
		entry[integrityPathKey] = Scalar(strings.TrimSpace(segment))
		items = append(items, MappingValue(entry))
	}
	return Sequence(items...)
}

// readNodeList returns the raw text of each child in document order.
func readNodeList(el *etree.Element) Value {
	children := el.ChildElements()
	items := make([]Value, 0, len(children))
	for _, child := range children {
		items = append(items, Scalar(child.Text()))
	}
	return Sequence(items...)
}

// readLabel returns {"value": text} with every attribute merged in.
func readLabel(el *etree.Element) Value {
	value := Mapping{labelValueKey: Scalar(el.Text())}
	for k, v := range attributes(el) {
		value[k] = v
	}
	return MappingValue(value)
}

func attributes(el *etree.Element) Mapping {
	m := make(Mapping, len(el.Attr)+1)
	for _, attr := range el.Attr {
		m[attributeKey(attr)] = Scalar(attr.Value)
	}
	return m
}

func attributeKey(attr etree.Attr) string {
	if attr.Space != "" {
		return attr.Space + ":" + attr.Key
	}
	return attr.Key
}
