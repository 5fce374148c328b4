package collection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csheth/paperpin/internal/item"
)

var (
	paper1   = item.NewPaper("p1")
	paper2   = item.NewPaper("p2")
	paper3   = item.NewPaper("p3")
	passage1 = item.NewPassage("p1", "Neural networks learn.")
)

func assertItems(t *testing.T, want, got []item.Item) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.True(t, item.Equal(want[i], got[i]), "element %d: want %#v got %#v", i, want[i], got[i])
	}
}

func saveAll(t *testing.T, s State, items ...item.Item) State {
	t.Helper()
	for _, it := range items {
		s, _ = s.ToggleSaved(it)
	}
	return s
}

func TestToggleSavedAppendsInSaveOrder(t *testing.T) {
	t.Parallel()

	s, fx := State{}.ToggleSaved(paper2)
	assert.Equal(t, Effects{Persist: true, Refresh: true}, fx)
	s, _ = s.ToggleSaved(passage1)
	s, _ = s.ToggleSaved(paper1)
	assertItems(t, []item.Item{paper2, passage1, paper1}, s.Saved())
}

func TestToggleSavedIsItsOwnInverse(t *testing.T) {
	t.Parallel()

	s := saveAll(t, State{}, paper1, paper2)
	before := s.Saved()

	s, _ = s.ToggleSaved(paper3)
	s, fx := s.ToggleSaved(paper3)
	assert.True(t, fx.Persist)
	assertItems(t, before, s.Saved())

	s, _ = s.ToggleSaved(paper1)
	s, _ = s.ToggleSaved(paper1)
	assertItems(t, []item.Item{paper2, paper1}, s.Saved())
}

func TestUnsaveCascadesToBuilder(t *testing.T) {
	t.Parallel()

	s := saveAll(t, State{}, paper1, passage1, paper2)
	s, _ = s.AddToBuilder(passage1)
	s, _ = s.AddToBuilder(paper2)

	s, fx := s.ToggleSaved(passage1)
	assert.True(t, fx.Persist && fx.Refresh)
	assertItems(t, []item.Item{paper1, paper2}, s.Saved())
	assertItems(t, []item.Item{paper2}, s.Builder())
	assert.False(t, s.InBuilder(passage1))
}

func TestRemoveFromBuilderKeepsSaved(t *testing.T) {
	t.Parallel()

	s := saveAll(t, State{}, paper1)
	s, _ = s.AddToBuilder(paper1)
	s, fx := s.RemoveFromBuilder(paper1)
	assert.True(t, fx.Persist)
	assert.Empty(t, s.Builder())
	assert.True(t, s.IsSaved(paper1))

	s, fx = s.RemoveFromBuilder(paper1)
	assert.False(t, fx.Any())
}

func TestAddToBuilderIsIdempotent(t *testing.T) {
	t.Parallel()

	s := saveAll(t, State{}, paper1, paper2)
	once, fx := s.AddToBuilder(paper1)
	assert.True(t, fx.Persist)
	twice, fx := once.AddToBuilder(paper1)
	assert.False(t, fx.Any())
	assertItems(t, once.Builder(), twice.Builder())
}

func TestAddToBuilderRejectsUnsaved(t *testing.T) {
	t.Parallel()

	s := saveAll(t, State{}, paper1)
	next, fx := s.AddToBuilder(paper2)
	assert.False(t, fx.Any())
	assert.Empty(t, next.Builder())
}

func TestMoveBuilderItem(t *testing.T) {
	t.Parallel()

	s := saveAll(t, State{}, paper1, paper2, paper3)
	for _, it := range []item.Item{paper1, paper2, paper3} {
		s, _ = s.AddToBuilder(it)
	}

	s, fx := s.MoveBuilderItem(paper3, Earlier)
	assert.True(t, fx.Persist)
	assertItems(t, []item.Item{paper1, paper3, paper2}, s.Builder())

	s, _ = s.MoveBuilderItem(paper1, Later)
	assertItems(t, []item.Item{paper3, paper1, paper2}, s.Builder())
	assertItems(t, []item.Item{paper1, paper2, paper3}, s.Saved())
}

func TestMoveBuilderItemBoundaries(t *testing.T) {
	t.Parallel()

	s := saveAll(t, State{}, paper1, paper2)
	s, _ = s.AddToBuilder(paper1)
	s, _ = s.AddToBuilder(paper2)
	before := s.Builder()

	next, fx := s.MoveBuilderItem(paper1, Earlier)
	assert.False(t, fx.Any())
	assertItems(t, before, next.Builder())

	next, fx = s.MoveBuilderItem(paper2, Later)
	assert.False(t, fx.Any())
	assertItems(t, before, next.Builder())

	next, fx = s.MoveBuilderItem(paper3, Later)
	assert.False(t, fx.Any())
	assertItems(t, before, next.Builder())

	next, fx = s.MoveBuilderItem(paper1, Direction(2))
	assert.False(t, fx.Any())
	assertItems(t, before, next.Builder())
}

func TestTransitionsDoNotMutateReceiver(t *testing.T) {
	t.Parallel()

	s := saveAll(t, State{}, paper1, paper2)
	s, _ = s.AddToBuilder(paper1)
	s, _ = s.AddToBuilder(paper2)

	_, _ = s.MoveBuilderItem(paper2, Earlier)
	_, _ = s.ToggleSaved(paper1)
	assertItems(t, []item.Item{paper1, paper2}, s.Builder())
	assertItems(t, []item.Item{paper1, paper2}, s.Saved())
}

func TestToggleSavedIgnoresInvalidItems(t *testing.T) {
	t.Parallel()

	s, fx := State{}.ToggleSaved(item.NewPaper(""))
	assert.False(t, fx.Any())
	assert.Empty(t, s.Saved())

	s, fx = s.ToggleSaved(item.NewPassage("p1", ""))
	assert.False(t, fx.Any())
	assert.Empty(t, s.Saved())
}

func TestNewStateNormalizes(t *testing.T) {
	t.Parallel()

	s := NewState(
		[]item.Item{paper1, passage1, paper1, item.NewPaper("")},
		[]item.Item{paper2, passage1, passage1},
	)
	assertItems(t, []item.Item{paper1, passage1}, s.Saved())
	assertItems(t, []item.Item{passage1}, s.Builder())
}
