package cleaner

import (
	"encoding/json"
	"sort"
)

// Selection is an immutable set of transformation identifiers. Every update
// returns a new value and leaves the receiver untouched, so a Selection can be
// shared freely between goroutines.
//
// Names are stored as given: a Selection may hold identifiers outside the
// catalog, and those are only rejected when a pipeline is built from it.
type Selection struct {
	functions map[string]struct{}
	count     int
}

// EmptySelection returns a Selection with no entries.
func EmptySelection() Selection {
	return Selection{functions: map[string]struct{}{}}
}

// DefaultSelection returns a Selection holding only "trim".
func DefaultSelection() Selection {
	return NewSelection(Trim.String())
}

// AllSelection returns a Selection holding every catalog identifier.
func AllSelection() Selection {
	return NewSelection(Names()...)
}

// NewSelection returns a Selection holding the given names. Duplicates
// collapse into one entry.
func NewSelection(names ...string) Selection {
	s := Selection{functions: make(map[string]struct{}, len(names))}
	for _, name := range names {
		if _, ok := s.functions[name]; !ok {
			s.functions[name] = struct{}{}
			s.count++
		}
	}
	return s
}

func (s Selection) clone(extra int) Selection {
	c := Selection{functions: make(map[string]struct{}, len(s.functions)+extra), count: s.count}
	for name := range s.functions {
		c.functions[name] = struct{}{}
	}
	return c
}

// Insert returns a copy of s with name added. It returns s unchanged when
// name is already present.
func (s Selection) Insert(name string) Selection {
	if s.Contains(name) {
		return s
	}
	c := s.clone(1)
	c.functions[name] = struct{}{}
	c.count++
	return c
}

// Remove returns a copy of s without name. It returns s unchanged when name
// is absent.
func (s Selection) Remove(name string) Selection {
	if !s.Contains(name) {
		return s
	}
	c := s.clone(0)
	delete(c.functions, name)
	c.count--
	return c
}

// Toggle returns a copy of s with name removed if present, added otherwise.
func (s Selection) Toggle(name string) Selection {
	if s.Contains(name) {
		return s.Remove(name)
	}
	return s.Insert(name)
}

// Contains reports whether name is selected.
func (s Selection) Contains(name string) bool {
	_, ok := s.functions[name]
	return ok
}

// Len returns the number of selected names.
func (s Selection) Len() int {
	return s.count
}

// Names returns the selected names in the order a pipeline built from s
// would apply them: catalog entries by priority, then unknown names sorted.
func (s Selection) Names() []string {
	known := make([]Transformation, 0, len(s.functions))
	var unknown []string
	for name := range s.functions {
		if t, ok := ParseTransformation(name); ok {
			known = append(known, t)
		} else {
			unknown = append(unknown, name)
		}
	}
	sort.Slice(known, func(i, j int) bool { return known[i] < known[j] })
	sort.Strings(unknown)

	names := make([]string, 0, len(known)+len(unknown))
	for _, t := range known {
		names = append(names, t.String())
	}
	return append(names, unknown...)
}

// Equal reports whether s and other hold the same names.
func (s Selection) Equal(other Selection) bool {
	if s.count != other.count {
		return false
	}
	for name := range s.functions {
		if !other.Contains(name) {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the Selection as an array of names in pipeline order.
func (s Selection) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Names())
}

// UnmarshalJSON decodes an array of names.
func (s *Selection) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	*s = NewSelection(names...)
	return nil
}
