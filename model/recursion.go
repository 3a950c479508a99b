package model

// markRecursiveMembers finds member edges that participate in a
// reference cycle which only passes through structures, unions, and
// their members. Such a cycle has no inherent indirection, so the
// generated representation must box the member to keep the type a
// finite size. Cycles that pass through a list, set, or map are already
// broken by the collection's own indirection and are not flagged.
func markRecursiveMembers(m *Model) map[ShapeID]bool {
	boxed := make(map[ShapeID]bool)

	for _, s := range m.shapes {
		if s.Kind != KindMember {
			continue
		}
		container := m.shapes[s.ID.Container()]
		if container == nil || (container.Kind != KindStructure && container.Kind != KindUnion) {
			continue
		}
		if reaches(m, m.shapes[s.Target], container.ID, make(map[ShapeID]bool)) {
			boxed[s.ID] = true
		}
	}

	return boxed
}

// reaches reports whether goal is reachable from start following only
// structure/union member edges.
func reaches(m *Model, start *Shape, goal ShapeID, seen map[ShapeID]bool) bool {
	if start == nil {
		return false
	}
	if start.ID == goal {
		return true
	}
	if seen[start.ID] {
		return false
	}
	seen[start.ID] = true

	switch start.Kind {
	case KindStructure, KindUnion:
		for _, name := range start.MemberNames {
			member := m.shapes[start.ID.WithMember(name)]
			if member != nil && reaches(m, m.shapes[member.Target], goal, seen) {
				return true
			}
		}
	}
	return false
}
