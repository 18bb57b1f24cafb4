package content

// tagIndex precomputes the transitive closure of the tag hierarchy at
// load time, so lookups are read-only and safe under concurrency.
type tagIndex struct {
	expanded map[Tag]map[Tag]bool
}

func newTagIndex(hierarchy map[Tag][]Tag) *tagIndex {
	idx := &tagIndex{expanded: make(map[Tag]map[Tag]bool, len(hierarchy))}
	for parent := range hierarchy {
		idx.closure(parent, hierarchy)
	}
	return idx
}

func (idx *tagIndex) closure(tag Tag, hierarchy map[Tag][]Tag) map[Tag]bool {
	if set, ok := idx.expanded[tag]; ok {
		return set
	}
	set := map[Tag]bool{tag: true}
	// Mark before recursing so a cyclic hierarchy terminates.
	idx.expanded[tag] = set
	for _, child := range hierarchy[tag] {
		for t := range idx.closure(child, hierarchy) {
			set[t] = true
		}
	}
	return set
}

func (idx *tagIndex) expand(tag Tag) []Tag {
	set, ok := idx.expanded[tag]
	if !ok {
		return []Tag{tag}
	}
	out := make([]Tag, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	return out
}

func (idx *tagIndex) matches(target Tag, unitTags []Tag) bool {
	if target == TagMatchAll {
		return true
	}
	set, ok := idx.expanded[target]
	if !ok {
		for _, ut := range unitTags {
			if ut == target {
				return true
			}
		}
		return false
	}
	for _, ut := range unitTags {
		if set[ut] {
			return true
		}
	}
	return false
}

func (idx *tagIndex) canTarget(abilityTargets, unitTags []Tag) bool {
	if len(abilityTargets) == 0 {
		return true
	}
	for _, target := range abilityTargets {
		if idx.matches(target, unitTags) {
			return true
		}
	}
	return false
}
