// Package ordering implements drag-and-drop reordering of sibling records.
//
// A move removes one element and reinserts it at the index the drop target
// occupied, keeping every other element in its relative order. Moves only make
// sense inside one sibling scope: meals of one day or foods of one meal.
package ordering

import "fmt"

// Kind names a sibling scope.
type Kind string

const (
	// ScopeDay groups the meals of one user on one date.
	ScopeDay Kind = "day"
	// ScopeMeal groups the foods of one meal.
	ScopeMeal Kind = "meal"
	// ScopeSupplements groups a user's supplements.
	ScopeSupplements Kind = "supplements"
)

// Scope identifies one sibling group, e.g. {ScopeDay, "2024-06-10"}.
type Scope struct {
	Kind Kind
	Key  string
}

func (s Scope) String() string {
	return fmt.Sprintf("%s:%s", s.Kind, s.Key)
}

// Move returns a copy of items with active moved to the position over held.
// It reports false, and returns items unchanged, when either element is missing
// or active == over.
func Move[T comparable](items []T, active, over T) ([]T, bool) {
	from, to := -1, -1
	for i, it := range items {
		if it == active {
			from = i
		}
		if it == over {
			to = i
		}
	}
	if from < 0 || to < 0 || from == to {
		return items, false
	}

	out := make([]T, 0, len(items))
	out = append(out, items[:from]...)
	out = append(out, items[from+1:]...)

	out = append(out, active)
	copy(out[to+1:], out[to:len(out)-1])
	out[to] = active
	return out, true
}

// MoveInScope is Move guarded by scope: a drag whose source and target scopes
// differ is a no-op.
func MoveInScope[T comparable](items []T, source, target Scope, active, over T) ([]T, bool) {
	if source != target {
		return items, false
	}
	return Move(items, active, over)
}

// IsPermutation reports whether a and b contain the same elements with the same
// multiplicity.
func IsPermutation[T comparable](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[T]int, len(a))
	for _, x := range a {
		counts[x]++
	}
	for _, x := range b {
		counts[x]--
		if counts[x] < 0 {
			return false
		}
	}
	return true
}

// Indexes maps each element to its position; this is what gets persisted as
// order_index.
func Indexes[T comparable](items []T) map[T]int {
	idx := make(map[T]int, len(items))
	for i, it := range items {
		idx[it] = i
	}
	return idx
}
