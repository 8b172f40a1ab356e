package cleaning

// DefaultMissingSentinelValues are the raw text forms treated as "no value".
// JSON null and absent cells are always missing regardless of this list.
var DefaultMissingSentinelValues = []string{"", "N/A", "null"}

// MissingSentinels is the explicit set of raw forms that mean "missing".
// Every stage asks this set instead of comparing literals.
type MissingSentinels struct {
	values map[string]struct{}
	order  []string
}

// NewMissingSentinels builds a sentinel set from the given text forms
func NewMissingSentinels(values ...string) MissingSentinels {
	s := MissingSentinels{values: make(map[string]struct{}, len(values))}
	for _, v := range values {
		if _, dup := s.values[v]; dup {
			continue
		}
		s.values[v] = struct{}{}
		s.order = append(s.order, v)
	}
	return s
}

// DefaultMissingSentinels returns the set {"", "N/A", "null"}
func DefaultMissingSentinels() MissingSentinels {
	return NewMissingSentinels(DefaultMissingSentinelValues...)
}

// IsMissing reports whether a cell is the typed missing marker or matches a sentinel
func (s MissingSentinels) IsMissing(v Value) bool {
	if v.IsMissing() {
		return true
	}
	if v.Type != ValueTypeString {
		return false
	}
	_, ok := s.values[v.StringVal]
	return ok
}

// Values returns the sentinel text forms in insertion order
func (s MissingSentinels) Values() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// CountMissing returns how many cells in values are missing
func (s MissingSentinels) CountMissing(values []Value) int {
	n := 0
	for _, v := range values {
		if s.IsMissing(v) {
			n++
		}
	}
	return n
}
