package tui

import (
	"context"
	"fmt"
	"log"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/paperpin/internal/app"
	"github.com/csheth/paperpin/internal/collection"
	"github.com/csheth/paperpin/internal/corpus"
	"github.com/csheth/paperpin/internal/item"
	"github.com/csheth/paperpin/internal/store"
)

// Config wires runtime options into the TUI program.
type Config struct {
	CorpusPath string
	// LoadCorpus overrides loading CorpusPath from disk.
	LoadCorpus func(context.Context) (*corpus.Index, error)
	Gateway    store.Gateway
	Options    app.Options
}

// New returns a tea.Model ready to be mounted into a Program. The corpus is
// loaded in the background once the program starts.
func New(config Config) tea.Model {
	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return &model{
		config:      config,
		stage:       stageLoading,
		spinner:     spin,
		layout:      newPageLayout(),
		jobs:        newJobBus(),
		jobStates:   map[jobKind]jobSnapshot{},
		cursors:     map[app.View]*[columnCount]int{app.ViewExplore: {}, app.ViewSaved: {}},
		feedPages:   1,
		infoMessage: "Loading corpus…",
	}
}

type model struct {
	config  Config
	stage   stage
	spinner spinner.Model
	layout  pageLayout

	jobs      *jobBus
	jobStates map[jobKind]jobSnapshot

	app       *app.App
	column    column
	cursors   map[app.View]*[columnCount]int
	feedPages int

	helpVisible  bool
	infoMessage  string
	errorMessage string
}

type corpusLoadedMsg struct {
	index *corpus.Index
	err   error
}

func loadCorpusJob(config Config) jobRunner {
	load := config.LoadCorpus
	if load == nil {
		path := config.CorpusPath
		load = func(context.Context) (*corpus.Index, error) { return corpus.Load(path) }
	}
	return func(ctx context.Context) (tea.Msg, error) {
		idx, err := load(ctx)
		return corpusLoadedMsg{index: idx, err: err}, err
	}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.jobs.Start(jobKindLoad, loadCorpusJob(m.config)))
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.stage == stageLoading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.layout.Update(msg.Width, msg.Height)
		return m, nil
	case jobSignalMsg:
		m.trackJob(msg.Snapshot)
		return m, nil
	case jobResultEnvelope:
		m.trackJob(msg.Snapshot)
		if msg.Payload == nil {
			return m, nil
		}
		return m.Update(msg.Payload)
	case corpusLoadedMsg:
		m.handleCorpusLoaded(msg)
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.stage == stageLoading {
			if msg.String() == "q" {
				return m, tea.Quit
			}
			return m, nil
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *model) handleCorpusLoaded(msg corpusLoadedMsg) {
	idx := msg.index
	if msg.err != nil || idx == nil {
		if msg.err != nil {
			log.Printf("[corpus] %v", msg.err)
			m.errorMessage = fmt.Sprintf("Corpus unavailable: %v", msg.err)
		}
		idx = corpus.NewIndex(nil)
	}
	m.app = app.Open(idx, m.config.Gateway, m.config.Options)
	m.stage = stageBrowse
	m.infoMessage = fmt.Sprintf("Loaded %d papers. Press ? for keys.", idx.Len())
}

func (m *model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "q":
		return m, tea.Quit
	case "?":
		m.helpVisible = !m.helpVisible
	case "1":
		m.switchView(app.ViewExplore)
	case "2":
		m.switchView(app.ViewSaved)
	case "tab":
		if m.app.View() == app.ViewExplore {
			m.switchView(app.ViewSaved)
		} else {
			m.switchView(app.ViewExplore)
		}
	case "h", "left":
		if m.column > columnLeft {
			m.column--
		}
	case "l", "right":
		if m.column < columnRight {
			m.column++
		}
	case "j", "down":
		m.moveCursor(1)
	case "k", "up":
		m.moveCursor(-1)
	case "enter":
		m.activate()
	case "s":
		m.toggleSaved()
	case "a":
		m.addToBuilder()
	case "x":
		m.removeFromBuilder()
	case "K":
		m.moveBuilderItem(collection.Earlier)
	case "J":
		m.moveBuilderItem(collection.Later)
	}
	return m, nil
}

func (m *model) cursorsFor(v app.View) *[columnCount]int {
	c, ok := m.cursors[v]
	if !ok {
		c = &[columnCount]int{}
		m.cursors[v] = c
	}
	return c
}

func (m *model) cursor() int {
	return m.cursorsFor(m.app.View())[m.column]
}

func (m *model) setCursor(col column, pos int) {
	m.cursorsFor(m.app.View())[col] = pos
}

func (m *model) switchView(v app.View) {
	m.app.SwitchView(v, "")
	m.column = columnLeft
	if v == app.ViewExplore {
		c := m.cursorsFor(v)
		c[columnMiddle], c[columnRight] = 0, 0
	}
	m.clampCursors()
}

func (m *model) moveCursor(delta int) {
	cards := m.cards(m.column)
	if len(cards) == 0 {
		return
	}
	pos := m.cursor() + delta
	if pos < 0 {
		pos = 0
	}
	if pos >= len(cards) {
		pos = len(cards) - 1
	}
	m.setCursor(m.column, pos)

	if m.app.View() == app.ViewExplore && m.column == columnLeft && pos == len(cards)-1 {
		if _, more := m.app.Feed(m.feedPages); more {
			m.feedPages++
		}
	}
}

func (m *model) currentCard() (card, bool) {
	cards := m.cards(m.column)
	pos := m.cursor()
	if pos < 0 || pos >= len(cards) {
		return card{}, false
	}
	return cards[pos], true
}

func (m *model) activate() {
	c, ok := m.currentCard()
	if !ok {
		return
	}
	if m.app.View() == app.ViewSaved {
		m.openInExplore(c)
		return
	}
	switch m.column {
	case columnLeft, columnRight:
		if m.app.FocusPaper(c.paperID) {
			m.setCursor(columnMiddle, 0)
			m.setCursor(columnRight, 0)
			m.column = columnMiddle
			m.infoMessage = fmt.Sprintf("Showing passages of %s.", c.title)
		}
	case columnMiddle:
		if p, ok := c.it.(item.Passage); ok && m.app.FocusPassage(p.Text) {
			m.setCursor(columnRight, 0)
			m.column = columnRight
			m.infoMessage = "Showing papers related to the selected passage."
		}
	}
}

func (m *model) openInExplore(c card) {
	m.app.SwitchView(app.ViewExplore, c.paperID)
	cur := m.cursorsFor(app.ViewExplore)
	cur[columnMiddle], cur[columnRight] = 0, 0
	m.column = columnMiddle
	if p, ok := c.it.(item.Passage); ok && m.app.FocusPassage(p.Text) {
		for i, text := range m.app.Passages() {
			if text == p.Text {
				cur[columnMiddle] = i
				break
			}
		}
	}
	m.infoMessage = fmt.Sprintf("Opened %s.", c.title)
}

func (m *model) toggleSaved() {
	c, ok := m.currentCard()
	if !ok {
		return
	}
	m.app.ToggleSaved(c.it)
	if m.app.IsSaved(c.it) {
		m.infoMessage = fmt.Sprintf("Saved %s.", c.describe())
	} else {
		m.infoMessage = fmt.Sprintf("Removed %s from saved.", c.describe())
	}
	m.afterMutation()
}

func (m *model) addToBuilder() {
	c, ok := m.currentCard()
	if !ok {
		return
	}
	switch {
	case !m.app.IsSaved(c.it):
		m.infoMessage = "Save it first with s."
		return
	case m.app.InBuilder(c.it):
		m.infoMessage = "Already in the builder."
		return
	}
	m.app.AddToBuilder(c.it)
	m.infoMessage = fmt.Sprintf("Added %s to the builder.", c.describe())
	m.afterMutation()
}

func (m *model) removeFromBuilder() {
	c, ok := m.currentCard()
	if !ok {
		return
	}
	if !m.app.InBuilder(c.it) {
		m.infoMessage = "Not in the builder."
		return
	}
	m.app.RemoveFromBuilder(c.it)
	m.infoMessage = fmt.Sprintf("Removed %s from the builder.", c.describe())
	m.afterMutation()
}

func (m *model) moveBuilderItem(dir collection.Direction) {
	if m.app.View() != app.ViewSaved || m.column != columnMiddle {
		return
	}
	c, ok := m.currentCard()
	if !ok {
		return
	}
	if fx := m.app.MoveBuilderItem(c.it, dir); fx.Any() {
		// stale builder items are hidden, so follow the card rather than the index
		for i, moved := range m.cards(columnMiddle) {
			if item.Equal(moved.it, c.it) {
				m.setCursor(columnMiddle, i)
				break
			}
		}
		m.afterMutation()
	}
}

func (m *model) afterMutation() {
	m.clampCursors()
	if err := m.app.LastPersistError(); err != nil {
		m.errorMessage = fmt.Sprintf("Could not save changes: %v", err)
	} else {
		m.errorMessage = ""
	}
}

func (m *model) clampCursors() {
	for col := columnLeft; col < columnCount; col++ {
		n := len(m.cards(col))
		pos := m.cursorsFor(m.app.View())[col]
		switch {
		case n == 0:
			pos = 0
		case pos >= n:
			pos = n - 1
		case pos < 0:
			pos = 0
		}
		m.setCursor(col, pos)
	}
}
