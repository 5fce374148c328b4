// Package collection implements the saved and builder lists as immutable
// state transitions.
//
// Invariants held by every State produced here:
//   - Saved and Builder contain no two equal items (item.Equal).
//   - Every Builder item is also in Saved.
//
// Unsaving cascades into the builder; removing from the builder never touches
// Saved.
package collection

import "github.com/csheth/paperpin/internal/item"

// Direction moves a builder item earlier or later.
type Direction int

const (
	Earlier Direction = -1
	Later   Direction = 1
)

// Effects lists what the caller must do after a transition.
type Effects struct {
	Persist bool
	Refresh bool
}

// Any reports whether any effect is requested.
func (e Effects) Any() bool {
	return e.Persist || e.Refresh
}

var changed = Effects{Persist: true, Refresh: true}

// State holds both collections. The zero value is two empty lists.
type State struct {
	saved   []item.Item
	builder []item.Item
}

// NewState builds a State from loaded data, dropping duplicates and any
// builder item that is not saved.
func NewState(saved, builder []item.Item) State {
	s := State{saved: dedupe(saved)}
	for _, it := range dedupe(builder) {
		if item.Contains(s.saved, it) {
			s.builder = append(s.builder, it)
		}
	}
	return s
}

// Saved returns a copy of the saved list in save order.
func (s State) Saved() []item.Item {
	return clone(s.saved)
}

// Builder returns a copy of the builder list in user order.
func (s State) Builder() []item.Item {
	return clone(s.builder)
}

// IsSaved reports whether an equal item is saved.
func (s State) IsSaved(it item.Item) bool {
	return item.Contains(s.saved, it)
}

// InBuilder reports whether an equal item is in the builder.
func (s State) InBuilder(it item.Item) bool {
	return item.Contains(s.builder, it)
}

// ToggleSaved unsaves it when saved, removing it from the builder too, and
// appends it to Saved otherwise. It always requests persistence and refresh,
// except for invalid references which are ignored.
func (s State) ToggleSaved(it item.Item) (State, Effects) {
	if !item.Valid(it) {
		return s, Effects{}
	}
	if idx := item.IndexOf(s.saved, it); idx != item.NotFound {
		next := State{saved: removeAt(s.saved, idx), builder: clone(s.builder)}
		if bIdx := item.IndexOf(next.builder, it); bIdx != item.NotFound {
			next.builder = removeAt(next.builder, bIdx)
		}
		return next, changed
	}
	return State{saved: append(clone(s.saved), it), builder: clone(s.builder)}, changed
}

// AddToBuilder appends a saved item to the builder. Items already in the
// builder and items that are not saved leave the state untouched.
func (s State) AddToBuilder(it item.Item) (State, Effects) {
	if item.Contains(s.builder, it) || !item.Contains(s.saved, it) {
		return s, Effects{}
	}
	return State{saved: clone(s.saved), builder: append(clone(s.builder), it)}, changed
}

// RemoveFromBuilder drops the first equal builder item.
func (s State) RemoveFromBuilder(it item.Item) (State, Effects) {
	idx := item.IndexOf(s.builder, it)
	if idx == item.NotFound {
		return s, Effects{}
	}
	return State{saved: clone(s.saved), builder: removeAt(s.builder, idx)}, changed
}

// MoveBuilderItem swaps it with its neighbour in the given direction. Missing
// items and moves past either end are no-ops; there is no wraparound.
func (s State) MoveBuilderItem(it item.Item, dir Direction) (State, Effects) {
	if dir != Earlier && dir != Later {
		return s, Effects{}
	}
	idx := item.IndexOf(s.builder, it)
	if idx == item.NotFound {
		return s, Effects{}
	}
	target := idx + int(dir)
	if target < 0 || target >= len(s.builder) {
		return s, Effects{}
	}
	builder := clone(s.builder)
	builder[idx], builder[target] = builder[target], builder[idx]
	return State{saved: clone(s.saved), builder: builder}, changed
}

func clone(list []item.Item) []item.Item {
	if len(list) == 0 {
		return nil
	}
	return append([]item.Item(nil), list...)
}

func removeAt(list []item.Item, idx int) []item.Item {
	out := make([]item.Item, 0, len(list)-1)
	out = append(out, list[:idx]...)
	return append(out, list[idx+1:]...)
}

func dedupe(list []item.Item) []item.Item {
	var out []item.Item
	for _, it := range list {
		if !item.Valid(it) || item.Contains(out, it) {
			continue
		}
		out = append(out, it)
	}
	return out
}
