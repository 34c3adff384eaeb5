package tags

import "strings"

// Merge layers an increment onto the store.
//
// For each tag in the increment:
//   - If the tag exists and is writable, its value is replaced — except
//     when both old and new values are lists, which merge positionally:
//     increment elements overwrite by index, extra elements append, and
//     the element count only grows.
//   - If the tag is absent it is inserted only when allowNew is true or
//     the tag carries the internal namespace prefix, which is always
//     insertable regardless of the lock state.
//
// Tags holding SKIP or DELETE are never altered, regardless of the
// increment's content. Re-applying the same increment is idempotent for
// non-list tags; list merges only ever extend.
func (s *Store) Merge(inc *Store, allowNew bool) {
	for _, name := range inc.Names() {
		next := inc.Value(name)
		cur, exists := s.Get(name)
		if exists {
			if !s.Writable(name) {
				continue
			}
			if curList, ok := cur.List(); ok {
				if nextList, ok := next.List(); ok {
					s.Set(name, mergeLists(curList, nextList))
					continue
				}
			}
			s.Set(name, next)
			continue
		}
		if allowNew || strings.HasPrefix(name, InternalPrefix) {
			s.Set(name, next)
		}
	}
}

// mergeLists overwrites base elements by index and appends the
// increment's surplus. The base is not shrunk.
func mergeLists(base, inc []Value) Value {
	merged := append([]Value(nil), base...)
	for i, v := range inc {
		if i < len(merged) {
			merged[i] = v
		} else {
			merged = append(merged, v)
		}
	}
	return List(merged...)
}
