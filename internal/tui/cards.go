package tui

import (
	"fmt"

	"github.com/csheth/paperpin/internal/app"
	"github.com/csheth/paperpin/internal/corpus"
	"github.com/csheth/paperpin/internal/item"
)

// card is one selectable entry in a column.
type card struct {
	title    string
	meta     string
	body     string
	paperID  string
	it       item.Item
	selected bool
}

func (c card) describe() string {
	if _, ok := c.it.(item.Passage); ok {
		return "passage"
	}
	return fmt.Sprintf("%q", c.title)
}

func paperCard(p corpus.Paper) card {
	return card{
		title:   p.Title,
		meta:    shortenList(p.Authors, authorsShown),
		body:    corpus.Snippet(p.Abstract, snippetLength),
		paperID: p.ID,
		it:      item.NewPaper(p.ID),
	}
}

func passageCard(paperID, text string) card {
	return card{
		body:    text,
		paperID: paperID,
		it:      item.NewPassage(paperID, text),
	}
}

func entryCard(e app.Entry) card {
	switch it := e.Item.(type) {
	case item.Passage:
		c := passageCard(it.ID, it.Text)
		c.title = e.Paper.Title
		c.meta = "Passage"
		return c
	default:
		return paperCard(e.Paper)
	}
}

func paperCards(papers []corpus.Paper) []card {
	cards := make([]card, 0, len(papers))
	for _, p := range papers {
		cards = append(cards, paperCard(p))
	}
	return cards
}

func entryCards(entries []app.Entry) []card {
	cards := make([]card, 0, len(entries))
	for _, e := range entries {
		cards = append(cards, entryCard(e))
	}
	return cards
}

// cards lists the entries of col in the active view.
func (m *model) cards(col column) []card {
	if m.app == nil {
		return nil
	}
	focus := m.app.Focus()
	switch m.app.View() {
	case app.ViewExplore:
		switch col {
		case columnLeft:
			feed, _ := m.app.Feed(m.feedPages)
			cards := paperCards(feed)
			for i := range cards {
				cards[i].selected = cards[i].paperID == focus.PaperID
			}
			return cards
		case columnMiddle:
			passages := m.app.Passages()
			cards := make([]card, 0, len(passages))
			for _, text := range passages {
				c := passageCard(focus.PaperID, text)
				c.selected = text == focus.PassageText
				cards = append(cards, c)
			}
			return cards
		case columnRight:
			return paperCards(m.app.Related())
		}
	case app.ViewSaved:
		switch col {
		case columnLeft:
			return entryCards(m.app.SavedEntries())
		case columnMiddle:
			return entryCards(m.app.BuilderEntries())
		case columnRight:
			return paperCards(m.app.Suggestions())
		}
	}
	return nil
}

// columnTitle is the header of col in the active view.
func (m *model) columnTitle(col column) string {
	titles := [columnCount]string{"Papers", "Passages", "Related Papers"}
	if m.app != nil && m.app.View() == app.ViewSaved {
		titles = [columnCount]string{"Saved", "Builder", "Live Suggestions"}
	}
	return titles[col]
}

// columnNotice is the text shown when col is empty, or under its cards.
func (m *model) columnNotice(col column, empty bool) string {
	if m.app == nil {
		return ""
	}
	focus := m.app.Focus()
	if m.app.View() == app.ViewSaved {
		if !empty {
			return ""
		}
		switch col {
		case columnLeft:
			return placeholderNoSaved
		case columnMiddle:
			return placeholderEmptyBuilder
		default:
			if !m.app.HasSuggestionContext() {
				return placeholderNoContext
			}
			return placeholderNoSuggestions
		}
	}
	switch col {
	case columnLeft:
		if empty {
			return placeholderNoPapers
		}
		if _, more := m.app.Feed(m.feedPages); more {
			return feedMoreNotice
		}
		return feedDoneNotice
	case columnMiddle:
		if !empty {
			return ""
		}
		if focus.PaperID == "" {
			return placeholderPickPaper
		}
		return placeholderNoPassages
	default:
		if !empty {
			return ""
		}
		if focus.PassageText == "" {
			return placeholderPickPassage
		}
		return placeholderNoRelated
	}
}
