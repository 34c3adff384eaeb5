package tags

import "sort"

// Well-known control tags and namespaces.
const (
	// InternalPrefix marks tags used only for resolution bookkeeping.
	// They are always insertable regardless of the lock state and are
	// stripped before emission.
	InternalPrefix = "Extra:"

	// LockTag, when true, freezes the tag list: external increments may
	// only update existing tags, not add new ones. Scanner-extracted
	// metadata and internal tags bypass the lock.
	LockTag = "Script:LockTagList"
)

// Store is the working tag mapping for one output file. It is created
// per file, mutated only by Merge and the resolver, and discarded after
// the metadata tool call succeeds. Never shared across files.
type Store struct {
	m map[string]Value
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{m: make(map[string]Value)}
}

func (s *Store) Set(name string, v Value) { s.m[name] = v }

func (s *Store) Get(name string) (Value, bool) {
	v, ok := s.m[name]
	return v, ok
}

// Value returns the value for name, or the zero value when absent.
func (s *Store) Value(name string) Value {
	return s.m[name]
}

func (s *Store) Has(name string) bool {
	_, ok := s.m[name]
	return ok
}

func (s *Store) Delete(name string) { delete(s.m, name) }

func (s *Store) Len() int { return len(s.m) }

// Names returns all tag names in sorted order. Insertion order carries
// no meaning; sorting keeps emission deterministic.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.m))
	for name := range s.m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a deep-enough copy: list values share no backing array
// with the original.
func (s *Store) Clone() *Store {
	c := &Store{m: make(map[string]Value, len(s.m))}
	for name, v := range s.m {
		if elems, ok := v.List(); ok {
			v = List(append([]Value(nil), elems...)...)
		}
		c.m[name] = v
	}
	return c
}

// Writable reports whether a tag may be updated: it must be present and
// its current value must be neither SKIP nor DELETE. Merges and
// conditional rules consult this before touching a tag.
func (s *Store) Writable(name string) bool {
	v, ok := s.m[name]
	if !ok {
		return false
	}
	return !v.IsMarker(Skip) && !v.IsMarker(Delete)
}

// Locked reports the store-wide tag-list lock state.
func (s *Store) Locked() bool {
	b, _ := s.Value(LockTag).Bool()
	return b
}

// DeleteGroups removes every tag whose name starts with one of the
// given prefixes. Used to strip internal groups before emission.
func (s *Store) DeleteGroups(prefixes ...string) {
	for name := range s.m {
		for _, p := range prefixes {
			if len(name) >= len(p) && name[:len(p)] == p {
				delete(s.m, name)
				break
			}
		}
	}
}
