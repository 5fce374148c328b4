package app

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csheth/paperpin/internal/collection"
	"github.com/csheth/paperpin/internal/corpus"
	"github.com/csheth/paperpin/internal/item"
	"github.com/csheth/paperpin/internal/store"
)

func testCorpus() *corpus.Index {
	return corpus.NewIndex([]corpus.Paper{
		{ID: "p1", Title: "Deep Learning Basics", Abstract: "Neural networks learn. Layers stack deep. Learning from neural data.", Keywords: []string{"neural", "learning"}},
		{ID: "p2", Title: "Ocean Biology", Abstract: "Fish swim deep. Whales sing.", Keywords: []string{"ocean"}},
		{ID: "p3", Title: "Neural Fish", Abstract: "Networks of neurons in ocean fish.", Keywords: []string{"neuroscience"}},
		{ID: "p4", Title: "Learning Recipes", Abstract: "Cooking for dinner.", Keywords: []string{"learning"}},
	})
}

func ids(papers []corpus.Paper) []string {
	out := make([]string, 0, len(papers))
	for _, p := range papers {
		out = append(out, p.ID)
	}
	return out
}

func TestOpenLoadsAndNormalizesSlots(t *testing.T) {
	t.Parallel()

	gw := store.NewMemory()
	require.NoError(t, gw.Save(store.Saved, []item.Item{item.NewPaper("p1"), item.NewPaper("gone"), item.NewPaper("p1")}))
	require.NoError(t, gw.Save(store.Builder, []item.Item{item.NewPaper("p2"), item.NewPaper("gone")}))

	a := Open(testCorpus(), gw, Options{})
	require.Len(t, a.Saved(), 2, "stale references stay stored")
	require.Len(t, a.Builder(), 1, "builder items must be saved")

	entries := a.SavedEntries()
	require.Len(t, entries, 1, "stale references are skipped when materialized")
	assert.Equal(t, "Deep Learning Basics", entries[0].Paper.Title)
}

func TestOpenSurvivesLoadFailure(t *testing.T) {
	t.Parallel()

	gw := store.NewMemory()
	gw.LoadErr = errors.New("unreadable")
	a := Open(nil, gw, Options{})
	assert.Empty(t, a.Saved())
	feed, more := a.Feed(1)
	assert.Empty(t, feed)
	assert.False(t, more)
	assert.Empty(t, a.Suggestions())
}

func TestUnsaveCascadesAndRecomputesSuggestions(t *testing.T) {
	t.Parallel()

	gw := store.NewMemory()
	a := Open(testCorpus(), gw, Options{})
	a.ToggleSaved(item.NewPaper("p2"))
	a.ToggleSaved(item.NewPaper("p1"))
	a.AddToBuilder(item.NewPaper("p2"))
	a.AddToBuilder(item.NewPaper("p1"))

	before := ids(a.Suggestions())
	require.NotEmpty(t, before)
	assert.Equal(t, "p4", before[0], "last builder item p1 drives suggestions")

	fx := a.ToggleSaved(item.NewPaper("p1"))
	assert.True(t, fx.Persist && fx.Refresh)
	assert.False(t, a.IsSaved(item.NewPaper("p1")))
	assert.False(t, a.InBuilder(item.NewPaper("p1")))

	after := ids(a.Suggestions())
	require.NotEmpty(t, after)
	assert.Equal(t, "p3", after[0], "p2 is now the context")
	assert.Contains(t, after, "p1", "unsaved paper is no longer excluded")

	builder, err := gw.Load(store.Builder)
	require.NoError(t, err)
	require.Len(t, builder, 1)
	assert.True(t, item.Equal(item.NewPaper("p2"), builder[0]))
}

func TestMoveMissingItemIsNoop(t *testing.T) {
	t.Parallel()

	gw := store.NewMemory()
	a := Open(testCorpus(), gw, Options{})
	a.ToggleSaved(item.NewPaper("p1"))
	a.AddToBuilder(item.NewPaper("p1"))
	saves := gw.Saves

	fx := a.MoveBuilderItem(item.NewPaper("p3"), collection.Later)
	assert.False(t, fx.Any())
	assert.Equal(t, saves, gw.Saves)
	assert.Len(t, a.Builder(), 1)
}

func TestPersistFailureKeepsMutation(t *testing.T) {
	t.Parallel()

	gw := store.NewMemory()
	a := Open(testCorpus(), gw, Options{})
	gw.SaveErr = errors.New("quota exceeded")

	a.ToggleSaved(item.NewPaper("p1"))
	assert.True(t, a.IsSaved(item.NewPaper("p1")))
	assert.EqualError(t, a.LastPersistError(), "quota exceeded")

	gw.SaveErr = nil
	a.ToggleSaved(item.NewPaper("p2"))
	assert.NoError(t, a.LastPersistError())
	saved, err := gw.Load(store.Saved)
	require.NoError(t, err)
	assert.Len(t, saved, 2)
}

func TestFocusAndRelated(t *testing.T) {
	t.Parallel()

	a := Open(testCorpus(), store.NewMemory(), Options{RelatedLimit: 2})
	assert.False(t, a.FocusPassage("Neural networks learn."), "passage needs a focused paper")
	assert.False(t, a.FocusPaper("missing"))

	require.True(t, a.FocusPaper("p1"))
	assert.Equal(t, []string{"Neural networks learn.", "Layers stack deep.", "Learning from neural data."}, a.Passages())
	assert.Empty(t, a.Related())

	// "learn." keeps its period, so only p3 matches by prose and p2 fills.
	require.True(t, a.FocusPassage("Neural networks learn."))
	assert.Equal(t, []string{"p3", "p2"}, ids(a.Related()))

	// p3 and p4 each match one keyword in prose; p4's "learning" tag adds two.
	require.True(t, a.FocusPassage("Learning from neural data."))
	assert.Equal(t, []string{"p4", "p3"}, ids(a.Related()), "tag match outranks prose match")

	require.True(t, a.FocusPaper("p2"))
	assert.Empty(t, a.Focus().PassageText, "changing paper clears the passage")
	assert.Empty(t, a.Related())
}

func TestFocusedPassageDrivesSuggestionsWhenBuilderEmpty(t *testing.T) {
	t.Parallel()

	a := Open(testCorpus(), store.NewMemory(), Options{})
	assert.Empty(t, a.Suggestions())

	a.FocusPaper("p2")
	a.FocusPassage("Fish swim deep.")
	got := ids(a.Suggestions())
	require.NotEmpty(t, got)
	assert.NotContains(t, got, "p2")
	assert.Equal(t, "p3", got[0])
}

func TestSwitchView(t *testing.T) {
	t.Parallel()

	a := Open(testCorpus(), store.NewMemory(), Options{})
	a.FocusPaper("p1")
	a.FocusPassage("Neural networks learn.")

	a.SwitchView(ViewSaved, "")
	assert.Equal(t, ViewSaved, a.View())
	assert.Empty(t, a.Focus().PaperID)
	assert.Empty(t, a.Related())

	a.SwitchView(ViewSaved, "p3")
	assert.Empty(t, a.Focus().PaperID, "saved view has no focus")

	a.SwitchView(ViewExplore, "p3")
	assert.Equal(t, "p3", a.Focus().PaperID)
	assert.Empty(t, a.Focus().PassageText)
}

func TestFeedPages(t *testing.T) {
	t.Parallel()

	var papers []corpus.Paper
	for i := 0; i < 23; i++ {
		papers = append(papers, corpus.Paper{ID: fmt.Sprintf("p%02d", i), Title: "T"})
	}
	a := Open(corpus.NewIndex(papers), nil, Options{})

	feed, more := a.Feed(1)
	assert.Len(t, feed, DefaultPageSize)
	assert.True(t, more)

	feed, more = a.Feed(3)
	assert.Len(t, feed, 23)
	assert.False(t, more)

	feed, _ = a.Feed(0)
	assert.Empty(t, feed)
}

func TestHasSuggestionContext(t *testing.T) {
	t.Parallel()

	a := Open(testCorpus(), store.NewMemory(), Options{})
	assert.False(t, a.HasSuggestionContext())

	a.ToggleSaved(item.NewPaper("p1"))
	a.AddToBuilder(item.NewPaper("p1"))
	assert.True(t, a.HasSuggestionContext())
}
