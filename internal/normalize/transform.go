package normalize

import (
	"fmt"
	"maps"
	"strings"

	"github.com/beevik/etree"

	"github.com/wazuh/ossec-hids/internal/conferr"
	"github.com/wazuh/ossec-hids/pkg/logging"
)

// Warning is a non-fatal event raised while transforming, currently only the
// replacement of an earlier Last-policy section.
type Warning struct {
	Section string `json:"section" yaml:"section"`
	Message string `json:"message" yaml:"message"`
}

// FilterGroup is one agent configuration accumulator keyed by its filter attributes.
type FilterGroup struct {
	Filters map[string]string `json:"filters" yaml:"filters"`
	Config  *Document         `json:"config" yaml:"config"`
}

// Transform normalizes every ossec_config block under root into a single Document.
// root may be the ossec_config element itself or a wrapper holding several blocks.
func Transform(root *etree.Element) (*Document, []Warning, error) {
	if root == nil {
		return nil, nil, conferr.New(conferr.CodeMalformedSource, conferr.KindMalformedSource, "no XML root")
	}

	var blocks []*etree.Element
	if strings.EqualFold(root.Tag, managerConfigTag) {
		blocks = append(blocks, root)
	} else {
		for _, child := range root.ChildElements() {
			if strings.EqualFold(child.Tag, managerConfigTag) {
				blocks = append(blocks, child)
			}
		}
	}

	doc := Mapping{}
	var warnings []Warning
	for _, block := range blocks {
		w, err := transformBlock(block, doc)
		if err != nil {
			return nil, nil, err
		}
		warnings = append(warnings, w...)
	}
	return &Document{sections: doc}, warnings, nil
}

// TransformMultiFilter normalizes every agent_config element found anywhere under root,
// depth-first, grouping blocks whose attribute sets are equal.
func TransformMultiFilter(root *etree.Element) ([]FilterGroup, []Warning, error) {
	if root == nil {
		return nil, nil, conferr.New(conferr.CodeMalformedSource, conferr.KindMalformedSource, "no XML root")
	}

	groups := []FilterGroup{}
	var warnings []Warning
	var walkErr error

	walk(root, func(el *etree.Element) bool {
		if !strings.EqualFold(el.Tag, agentConfigTag) {
			return true
		}

		filters := make(map[string]string, len(el.Attr))
		for _, attr := range el.Attr {
			filters[attributeKey(attr)] = attr.Value
		}

		idx := -1
		for i := range groups {
			if maps.Equal(groups[i].Filters, filters) {
				idx = i
				break
			}
		}
		if idx == -1 {
			groups = append(groups, FilterGroup{Filters: filters, Config: &Document{sections: Mapping{}}})
			idx = len(groups) - 1
		}

		w, err := transformBlock(el, groups[idx].Config.sections)
		if err != nil {
			walkErr = err
			return false
		}
		warnings = append(warnings, w...)
		return true
	})

	if walkErr != nil {
		return nil, nil, walkErr
	}
	return groups, warnings, nil
}

// walk visits el and its descendants in pre-order until visit returns false.
func walk(el *etree.Element, visit func(*etree.Element) bool) bool {
	if !visit(el) {
		return false
	}
	for _, child := range el.ChildElements() {
		if !walk(child, visit) {
			return false
		}
	}
	return true
}

// transformBlock reads every section element of block into doc.
func transformBlock(block *etree.Element, doc Mapping) ([]Warning, error) {
	var warnings []Warning

	for _, sectionEl := range block.ChildElements() {
		name, err := sectionName(sectionEl)
		if err != nil {
			return nil, err
		}

		section := Mapping{}
		for _, optionEl := range sectionEl.ChildElements() {
			option, value := ReadOption(name, optionEl)
			if value.Kind() == KindSequence {
				for _, item := range value.Items() {
					insertOption(section, name, option, item)
				}
				continue
			}
			insertOption(section, name, option, value)
		}

		if mergeSection(doc, name, section) {
			msg := fmt.Sprintf("There are multiple %s sections in configuration. Using only last section.", name)
			logging.Warn("Normalize", "%s", msg)
			warnings = append(warnings, Warning{Section: name, Message: msg})
		}
	}
	return warnings, nil
}

func sectionName(el *etree.Element) (string, error) {
	if !strings.EqualFold(el.Tag, moduleWrapperTag) {
		return strings.ToLower(el.Tag), nil
	}
	attr := el.SelectAttr(moduleNameAttribute)
	if attr == nil {
		return "", conferr.Newf(conferr.CodeMalformedSource, conferr.KindMalformedSource,
			"<%s> element without a %q attribute", moduleWrapperTag, moduleNameAttribute)
	}
	return attr.Value, nil
}
