package rcl

import (
	"io"
	"regexp"
	"strings"
)

var (
	commentLine = regexp.MustCompile(`^\s*#`)
	// [name {TAG: v}] {TAG: v} [condition] [reference]
	titleLine = regexp.MustCompile(`^\s*\[(.*?)\]((?:\s*\{[^}]*\})*)\s*\[(.*?)\]\s*\[(.*)\]`)
	nameTag   = regexp.MustCompile(`\{\w+:\s+\S+\s*\S*\}`)
	checkLine = regexp.MustCompile(`^\s*(\w:.+)`)
	varLine   = regexp.MustCompile(`^\s*\$(\w+)=(.+)`)
)

// ControlList is a parsed system/windows audit policy file.
type ControlList struct {
	Vars     map[string]string `json:"vars" yaml:"vars"`
	Controls []ControlItem     `json:"controls" yaml:"controls"`
}

// ControlItem is one titled check block.
type ControlItem struct {
	Name      string   `json:"name" yaml:"name"`
	Condition string   `json:"condition,omitempty" yaml:"condition,omitempty"`
	Reference string   `json:"reference,omitempty" yaml:"reference,omitempty"`
	CIS       []string `json:"cis,omitempty" yaml:"cis,omitempty"`
	PCI       []string `json:"pci,omitempty" yaml:"pci,omitempty"`
	Checks    []string `json:"checks" yaml:"checks"`
}

// controlListParser holds the scan state: the variables seen so far, the sealed
// controls and the item currently being accumulated.
type controlListParser struct {
	result ControlList
	open   *ControlItem
}

// ParseControlList reads a control list from r.
//
// Lines are classified in order: comment, title, check, variable; anything else is
// ignored. Check lines seen before the first title have no item to attach to and are
// skipped. The last open item is always emitted, trailing blank line or not.
func ParseControlList(r io.Reader) (*ControlList, error) {
	p := &controlListParser{
		result: ControlList{Vars: map[string]string{}, Controls: []ControlItem{}},
	}

	if err := scanLines(r, p.consume); err != nil {
		return nil, err
	}

	p.sealCurrentItem()
	return &p.result, nil
}

func (p *controlListParser) consume(line string) {
	if commentLine.MatchString(line) {
		return
	}

	if m := titleLine.FindStringSubmatch(line); m != nil {
		p.sealCurrentItem()
		p.open = newControlItem(m[1], m[2], m[3], m[4])
		return
	}

	if m := checkLine.FindStringSubmatch(line); m != nil {
		if p.open != nil {
			p.open.Checks = append(p.open.Checks, m[1])
		}
		return
	}

	if m := varLine.FindStringSubmatch(line); m != nil {
		p.result.Vars[m[1]] = m[2]
	}
}

// sealCurrentItem appends the open item, if any, to the result.
func (p *controlListParser) sealCurrentItem() {
	if p.open == nil {
		return
	}
	p.result.Controls = append(p.result.Controls, *p.open)
	p.open = nil
}

func newControlItem(name, trailingTags, condition, reference string) *ControlItem {
	item := &ControlItem{
		Condition: condition,
		Reference: reference,
		Checks:    []string{},
	}

	if idx := strings.Index(name, "{"); idx >= 0 {
		item.Name = strings.TrimSpace(name[:idx])
	} else {
		item.Name = strings.TrimSpace(name)
	}

	for _, group := range nameTag.FindAllString(name+trailingTags, -1) {
		tag, value := splitTag(group)
		// A tag naming both frameworks lands in CIS only.
		switch {
		case strings.Contains(tag, "CIS"):
			item.CIS = append(item.CIS, value)
		case strings.Contains(tag, "PCI"):
			item.PCI = append(item.PCI, value)
		}
	}
	return item
}

// splitTag turns "{PCI_DSS: 2.2.4}" into ("PCI_DSS", "2.2.4").
func splitTag(group string) (string, string) {
	inner := strings.TrimSuffix(strings.TrimPrefix(group, "{"), "}")
	tag, value, _ := strings.Cut(inner, ":")
	if i := strings.LastIndex(value, ":"); i >= 0 {
		value = value[i+1:]
	}
	return tag, strings.TrimSpace(value)
}
