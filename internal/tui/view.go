package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"github.com/csheth/paperpin/internal/app"
)

func (m *model) View() string {
	switch m.stage {
	case stageLoading:
		return m.viewLoading()
	case stageBrowse:
		return m.viewBrowse()
	default:
		return ""
	}
}

func (m *model) viewLoading() string {
	message := fmt.Sprintf("%s %s", m.spinner.View(), m.infoMessage)
	return joinNonEmpty([]string{m.heroView(), helperStyle.Render(message)})
}

func (m *model) viewBrowse() string {
	parts := []string{
		m.heroView(),
		m.tabsView(),
		m.columnsView(),
		m.sessionMeterView(),
	}
	if m.errorMessage != "" {
		parts = append(parts, errorStyle.Render(m.errorMessage))
	}
	if m.infoMessage != "" {
		parts = append(parts, helperStyle.Render(m.infoMessage))
	}
	if m.helpVisible {
		parts = append(parts, m.keyLegendView())
	}
	return joinNonEmpty(parts)
}

func (m *model) heroView() string {
	if m.layout.showLogo {
		return lipgloss.JoinVertical(lipgloss.Left, renderLogo(), taglineStyle.Render(heroTagline))
	}
	return lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("PaperPin"), taglineStyle.Render(heroTagline))
}

func (m *model) tabsView() string {
	views := []app.View{app.ViewExplore, app.ViewSaved}
	tabs := make([]string, 0, len(views))
	for i, v := range views {
		label := fmt.Sprintf("%d %s", i+1, v)
		if v == m.app.View() {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *model) columnsView() string {
	gutter := strings.Repeat(" ", columnGutter)
	cols := make([]string, 0, 2*int(columnCount)-1)
	for col := columnLeft; col < columnCount; col++ {
		if col > columnLeft {
			cols = append(cols, gutter)
		}
		cols = append(cols, m.renderColumn(col))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func (m *model) renderColumn(col column) string {
	width := m.layout.textWidth()
	cards := m.cards(col)
	focused := col == m.column
	cursor := m.cursorsFor(m.app.View())[col]

	rendered := make([]string, 0, len(cards))
	for i, c := range cards {
		rendered = append(rendered, m.renderCard(c, width, focused && i == cursor))
	}
	notice := m.columnNotice(col, len(cards) == 0)

	header := sectionHeaderStyle.Render(fmt.Sprintf("%s (%d)", m.columnTitle(col), len(cards)))
	bodyHeight := m.layout.bodyHeight()
	if notice != "" && len(cards) > 0 {
		bodyHeight--
	}
	body := windowCards(rendered, cursor, bodyHeight)
	if notice != "" {
		body = joinLines(body, helperStyle.Render(wordwrap.String(notice, width)))
	}

	style := columnStyle
	if focused {
		style = focusedColumnStyle
	}
	return style.
		Width(m.layout.columnWidth - 2).
		Height(m.layout.columnHeight - 2).
		MaxHeight(m.layout.columnHeight).
		Render(joinLines(header, body))
}

func (m *model) renderCard(c card, width int, active bool) string {
	var lines []string
	if c.title != "" {
		title := wordwrap.String(c.title, width-2)
		if c.selected {
			lines = append(lines, selectedTitleStyle.Render(title))
		} else {
			lines = append(lines, cardTitleStyle.Render(title))
		}
	}
	if c.meta != "" {
		lines = append(lines, helperStyle.Render(truncate.StringWithTail(c.meta, uint(width-2), "…")))
	}
	if c.body != "" {
		body := wordwrap.String(c.body, width-2)
		if c.title == "" && c.selected {
			body = selectedTitleStyle.Render(body)
		}
		lines = append(lines, body)
	}
	if badges := m.badges(c); badges != "" {
		lines = append(lines, badgeStyle.Render(badges))
	}

	style := cardStyle
	if active {
		style = activeCardStyle
	}
	return style.Render(strings.Join(lines, "\n"))
}

func (m *model) badges(c card) string {
	var out []string
	if m.app.IsSaved(c.it) {
		out = append(out, "saved")
	}
	if m.app.InBuilder(c.it) {
		out = append(out, "in builder")
	}
	if len(out) == 0 {
		return ""
	}
	return "[" + strings.Join(out, "] [") + "]"
}

func (m *model) sessionMeterView() string {
	stats := []string{
		fmt.Sprintf("View %s", m.app.View()),
		fmt.Sprintf("Corpus %d", m.app.Corpus().Len()),
		fmt.Sprintf("Saved %d", len(m.app.Saved())),
		fmt.Sprintf("Builder %d", len(m.app.Builder())),
	}
	stats = append(stats, m.jobStatusBadges()...)
	return statusBarStyle.Render(strings.Join(stats, "  •  "))
}

type keyHint struct {
	Key         string
	Description string
}

func (m *model) keyLegendView() string {
	hints := []keyHint{
		{"1/2", "Explore or Saved"},
		{"tab", "Next view"},
		{"h/l", "Column"},
		{"j/k", "Move cursor"},
		{"enter", "Open"},
		{"s", "Save or unsave"},
		{"a", "Add to builder"},
		{"x", "Remove from builder"},
		{"K/J", "Move builder item"},
		{"?", "Toggle keys"},
		{"q", "Quit"},
	}
	rows := []string{sectionHeaderStyle.Render("Keys")}
	const columns = 3
	for i := 0; i < len(hints); i += columns {
		end := i + columns
		if end > len(hints) {
			end = len(hints)
		}
		var cells []string
		for _, hint := range hints[i:end] {
			key := keyStyle.Render(hint.Key)
			desc := keyDescStyle.Width(22).Render(" " + hint.Description)
			cells = append(cells, lipgloss.JoinHorizontal(lipgloss.Top, key, desc))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return legendBoxStyle.Render(strings.Join(rows, "\n"))
}

func joinLines(parts ...string) string {
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		filtered = append(filtered, part)
	}
	return strings.Join(filtered, "\n")
}

func renderLogo() string {
	if len(logoArtLines) == 0 {
		return ""
	}
	width := logoWidth()
	height := len(logoArtLines) + 1

	type cell struct {
		r     rune
		style lipgloss.Style
	}

	grid := make([][]cell, height)
	for i := range grid {
		grid[i] = make([]cell, width)
	}

	// shadow first, offset down and right
	for y, line := range logoArtLines {
		for x, r := range []rune(line) {
			if r == ' ' {
				continue
			}
			if y+1 < height && x+1 < width {
				grid[y+1][x+1] = cell{r: r, style: logoShadowStyle}
			}
		}
	}
	for y, line := range logoArtLines {
		for x, r := range []rune(line) {
			if r == ' ' || x >= width {
				continue
			}
			grid[y][x] = cell{r: r, style: logoFaceStyle}
		}
	}

	lines := make([]string, height)
	for y, row := range grid {
		var b strings.Builder
		for _, c := range row {
			if c.r == 0 {
				b.WriteRune(' ')
				continue
			}
			b.WriteString(c.style.Render(string(c.r)))
		}
		lines[y] = b.String()
	}
	return logoContainerStyle.Render(strings.Join(lines, "\n"))
}

var (
	titleStyle         = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).Underline(true)
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helperStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	heroAccentColor        = lipgloss.Color("#ff8c00")
	heroEmberColor         = lipgloss.Color("#2b1400")
	heroTextColor          = lipgloss.Color("#fff4d0")
	heroSecondaryTextColor = lipgloss.Color("#ffb347")
	mutedBorderColor       = lipgloss.Color("#56526e")

	taglineStyle       = lipgloss.NewStyle().Foreground(heroSecondaryTextColor).Italic(true)
	statusBarStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6")).Padding(0, 1)
	keyStyle           = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffd166")).Padding(0, 1)
	keyDescStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0def4"))
	legendBoxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(mutedBorderColor).Padding(1, 2)
	tabStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Padding(0, 2)
	activeTabStyle     = lipgloss.NewStyle().Bold(true).Foreground(heroTextColor).Background(heroEmberColor).Padding(0, 2)
	columnStyle        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(mutedBorderColor).Padding(0, 1)
	focusedColumnStyle = columnStyle.Copy().BorderForeground(heroAccentColor)
	cardStyle          = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(mutedBorderColor).PaddingLeft(1)
	activeCardStyle    = lipgloss.NewStyle().Border(lipgloss.ThickBorder(), false, false, false, true).BorderForeground(heroAccentColor).PaddingLeft(1)
	cardTitleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("147"))
	selectedTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#bde0fe"))
	badgeStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#a3be8c")).Italic(true)
	logoFaceStyle      = lipgloss.NewStyle().Bold(true).Foreground(heroTextColor).Background(heroEmberColor)
	logoShadowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#110600"))
	logoContainerStyle = lipgloss.NewStyle().Padding(0, 1)
	logoArtLines       = []string{
		"██████╗    █████╗   ██████╗   ███████╗  ██████╗   ██████╗   ██╗  ███╗   ██╗  ",
		"██╔══██╗  ██╔══██╗  ██╔══██╗  ██╔════╝  ██╔══██╗  ██╔══██╗  ██║  ████╗  ██║  ",
		"██████╔╝  ███████║  ██████╔╝  █████╗    ██████╔╝  ██████╔╝  ██║  ██╔██╗ ██║  ",
		"██╔═══╝   ██╔══██║  ██╔═══╝   ██╔══╝    ██╔══██╗  ██╔═══╝   ██║  ██║╚██╗██║  ",
		"██║       ██║  ██║  ██║       ███████╗  ██║  ██║  ██║       ██║  ██║ ╚████║  ",
		"╚═╝       ╚═╝  ╚═╝  ╚═╝       ╚══════╝  ╚═╝  ╚═╝  ╚═╝       ╚═╝  ╚═╝  ╚═══╝  ",
	}
)
