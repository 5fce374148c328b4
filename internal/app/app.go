// Package app holds the single owned application state: corpus, collections,
// selection and the derived related and suggestion lists.
package app

import (
	"log"

	"github.com/csheth/paperpin/internal/collection"
	"github.com/csheth/paperpin/internal/corpus"
	"github.com/csheth/paperpin/internal/item"
	"github.com/csheth/paperpin/internal/relevance"
	"github.com/csheth/paperpin/internal/store"
	"github.com/csheth/paperpin/internal/suggest"
)

// View is one of the two top-level screens.
type View int

const (
	ViewExplore View = iota
	ViewSaved
)

func (v View) String() string {
	switch v {
	case ViewExplore:
		return "Explore"
	case ViewSaved:
		return "Saved"
	default:
		return "Unknown"
	}
}

// DefaultPageSize is the number of feed papers revealed per page.
const DefaultPageSize = 10

// Options tunes paging and ranking. Zero values pick the defaults.
type Options struct {
	PageSize        int
	RelatedLimit    int
	SuggestionLimit int
	Fill            relevance.FillPolicy
}

// Entry is a stored item joined with its corpus paper.
type Entry struct {
	Item  item.Item
	Paper corpus.Paper
}

// App applies user actions, persists after every mutation and recomputes the
// derived lists.
type App struct {
	corpus   *corpus.Index
	gateway  store.Gateway
	resolver *suggest.Resolver
	pageSize int

	state collection.State
	focus suggest.Focus
	view  View

	related     []corpus.Paper
	suggestions []corpus.Paper
	persistErr  error
}

// Open loads both slots from gw and builds the initial views. Load failures
// are logged and treated as empty collections.
func Open(idx *corpus.Index, gw store.Gateway, opts Options) *App {
	if idx == nil {
		idx = corpus.NewIndex(nil)
	}
	resolver := suggest.NewResolver(idx)
	if opts.RelatedLimit > 0 {
		resolver.RelatedLimit = opts.RelatedLimit
	}
	if opts.SuggestionLimit > 0 {
		resolver.SuggestionLimit = opts.SuggestionLimit
	}
	if opts.Fill != nil {
		resolver.Fill = opts.Fill
	}
	a := &App{
		corpus:   idx,
		gateway:  gw,
		resolver: resolver,
		pageSize: opts.PageSize,
	}
	if a.pageSize <= 0 {
		a.pageSize = DefaultPageSize
	}
	a.state = collection.NewState(a.load(store.Saved), a.load(store.Builder))
	a.refresh()
	return a
}

func (a *App) load(slot store.Slot) []item.Item {
	if a.gateway == nil {
		return nil
	}
	items, err := a.gateway.Load(slot)
	if err != nil {
		log.Printf("[store] load %s: %v", slot, err)
		return nil
	}
	return items
}

// Corpus returns the loaded corpus.
func (a *App) Corpus() *corpus.Index { return a.corpus }

// View returns the active screen.
func (a *App) View() View { return a.view }

// Focus returns the current selection.
func (a *App) Focus() suggest.Focus { return a.focus }

// PageSize is the feed page length.
func (a *App) PageSize() int { return a.pageSize }

// LastPersistError is the error of the most recent failed write, cleared by
// the next successful one.
func (a *App) LastPersistError() error { return a.persistErr }

// ToggleSaved saves or unsaves it.
func (a *App) ToggleSaved(it item.Item) collection.Effects {
	next, fx := a.state.ToggleSaved(it)
	return a.apply(next, fx)
}

// AddToBuilder appends a saved item to the builder.
func (a *App) AddToBuilder(it item.Item) collection.Effects {
	next, fx := a.state.AddToBuilder(it)
	return a.apply(next, fx)
}

// RemoveFromBuilder drops it from the builder only.
func (a *App) RemoveFromBuilder(it item.Item) collection.Effects {
	next, fx := a.state.RemoveFromBuilder(it)
	return a.apply(next, fx)
}

// MoveBuilderItem moves it one step in dir.
func (a *App) MoveBuilderItem(it item.Item, dir collection.Direction) collection.Effects {
	next, fx := a.state.MoveBuilderItem(it, dir)
	return a.apply(next, fx)
}

func (a *App) apply(next collection.State, fx collection.Effects) collection.Effects {
	a.state = next
	if fx.Persist {
		a.persist()
	}
	if fx.Refresh {
		a.refresh()
	}
	return fx
}

func (a *App) persist() {
	if a.gateway == nil {
		return
	}
	a.persistErr = nil
	for _, slot := range store.Slots {
		list := a.state.Saved()
		if slot == store.Builder {
			list = a.state.Builder()
		}
		if err := a.gateway.Save(slot, list); err != nil {
			log.Printf("[store] save %s: %v", slot, err)
			a.persistErr = err
		}
	}
}

// FocusPaper shows the passages of the paper with id and clears the focused
// passage. Unknown ids are ignored.
func (a *App) FocusPaper(id string) bool {
	if _, ok := a.corpus.Lookup(id); !ok {
		return false
	}
	a.focus = suggest.Focus{PaperID: id}
	a.refresh()
	return true
}

// FocusPassage selects a passage of the focused paper.
func (a *App) FocusPassage(text string) bool {
	if a.focus.PaperID == "" || text == "" {
		return false
	}
	a.focus.PassageText = text
	a.refresh()
	return true
}

// SwitchView changes screen and clears the selection. Switching to the explore
// view focuses initialPaper when it names a known paper.
func (a *App) SwitchView(v View, initialPaper string) {
	a.view = v
	a.focus = suggest.Focus{}
	if v == ViewExplore {
		if _, ok := a.corpus.Lookup(initialPaper); ok {
			a.focus.PaperID = initialPaper
		}
	}
	a.refresh()
}

func (a *App) refresh() {
	a.related = a.resolver.Related(a.focus)
	a.suggestions = a.resolver.Live(a.state.Saved(), a.state.Builder(), a.focus)
}

// Related returns the papers related to the focused passage.
func (a *App) Related() []corpus.Paper { return a.related }

// Suggestions returns the live suggestions.
func (a *App) Suggestions() []corpus.Paper { return a.suggestions }

// HasSuggestionContext reports whether a context item with at least one
// keyword exists, which separates "no context" from "nothing left to suggest".
func (a *App) HasSuggestionContext() bool {
	ctx, ok := a.resolver.Context(a.state.Builder(), a.focus)
	return ok && len(a.resolver.Keywords(ctx)) > 0
}

// IsSaved reports whether it is saved.
func (a *App) IsSaved(it item.Item) bool { return a.state.IsSaved(it) }

// InBuilder reports whether it is in the builder.
func (a *App) InBuilder(it item.Item) bool { return a.state.InBuilder(it) }

// Saved returns the raw saved list, including items missing from the corpus.
func (a *App) Saved() []item.Item { return a.state.Saved() }

// Builder returns the raw builder list.
func (a *App) Builder() []item.Item { return a.state.Builder() }

// SavedEntries materializes the saved list in save order, skipping items
// whose paper is not in the corpus.
func (a *App) SavedEntries() []Entry { return a.entries(a.state.Saved()) }

// BuilderEntries materializes the builder list in user order.
func (a *App) BuilderEntries() []Entry { return a.entries(a.state.Builder()) }

func (a *App) entries(list []item.Item) []Entry {
	out := make([]Entry, 0, len(list))
	for _, it := range list {
		p, ok := a.corpus.Lookup(it.PaperID())
		if !ok {
			continue
		}
		out = append(out, Entry{Item: it, Paper: p})
	}
	return out
}

// FocusedPaper returns the paper whose passages are shown.
func (a *App) FocusedPaper() (corpus.Paper, bool) {
	if a.focus.PaperID == "" {
		return corpus.Paper{}, false
	}
	return a.corpus.Lookup(a.focus.PaperID)
}

// Passages returns the passages of the focused paper.
func (a *App) Passages() []string {
	p, ok := a.FocusedPaper()
	if !ok {
		return nil
	}
	return corpus.Passages(p)
}

// Feed returns the first pages*PageSize papers and whether more remain.
func (a *App) Feed(pages int) ([]corpus.Paper, bool) {
	papers := a.corpus.Papers()
	n := pages * a.pageSize
	if n < 0 {
		n = 0
	}
	if n >= len(papers) {
		return papers, false
	}
	return papers[:n], true
}
