package normalize

// insertOption merges one option value into a section mapping being built.
//
// Empty values are dropped. An option already stored as a sequence grows by one item;
// any other existing value is overwritten. A first occurrence of a declared list option
// is stored as a one-element sequence.
func insertOption(section Mapping, sectionName, option string, value Value) {
	if value.IsEmpty() {
		return
	}

	if existing, ok := section[option]; ok {
		if existing.Kind() == KindSequence {
			section[option] = existing.Append(value)
		} else {
			section[option] = value
		}
		return
	}

	if Lookup(sectionName).IsListOption(option) {
		section[option] = Sequence(value)
		return
	}
	section[option] = value
}

// mergeSection folds a completed section mapping into doc according to the section's
// policy. It reports whether a Last-policy section replaced an earlier occurrence.
func mergeSection(doc Mapping, name string, section Mapping) bool {
	descriptor := Lookup(name)
	existing, present := doc[name]

	switch descriptor.Policy {
	case PolicyMerge:
		if !present || existing.Kind() != KindMapping {
			doc[name] = MappingValue(section)
			return false
		}
		stored := existing.Map()
		for option, value := range section {
			current, ok := stored[option]
			if ok && descriptor.IsListOption(option) {
				stored[option] = current.Append(itemsOf(value)...)
				continue
			}
			stored[option] = value
		}
		return false

	case PolicyLast:
		doc[name] = MappingValue(section)
		return present

	default:
		doc[name] = existing.Append(MappingValue(section))
		return false
	}
}

func itemsOf(v Value) []Value {
	if v.Kind() == KindSequence {
		return v.Items()
	}
	return []Value{v}
}
