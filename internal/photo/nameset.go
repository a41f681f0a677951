package photo

import (
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
)

// NameSet is an unordered set of photo names.
type NameSet = mapset.Set[string]

func NewNameSet(names ...string) NameSet {
	return mapset.NewThreadUnsafeSet(names...)
}

// Sorted returns the names in lexical order, for logging and tests.
func Sorted(s NameSet) []string {
	names := s.ToSlice()
	sort.Strings(names)
	return names
}
