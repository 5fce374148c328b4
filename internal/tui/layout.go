package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type pageLayout struct {
	windowWidth  int
	windowHeight int
	columnWidth  int
	columnHeight int
	showLogo     bool
}

func newPageLayout() pageLayout {
	l := pageLayout{}
	l.Update(120, 32)
	return l
}

// Update splits the window into three equal columns below the hero, tabs and
// status lines.
func (l *pageLayout) Update(width, height int) {
	l.windowWidth = width
	l.windowHeight = height
	l.showLogo = width >= logoWidth()+4 && height >= 40

	l.columnWidth = (width - 2*columnGutter) / int(columnCount)
	if l.columnWidth < minColumnWidth {
		l.columnWidth = minColumnWidth
	}

	heroHeight := 2
	if l.showLogo {
		heroHeight = len(logoArtLines) + 2
	}
	// tabs, status and message lines plus the blank separators between parts
	chrome := heroHeight + 7
	l.columnHeight = height - chrome
	if l.columnHeight < 8 {
		l.columnHeight = 8
	}
}

// textWidth is the usable width inside a bordered, padded column.
func (l pageLayout) textWidth() int {
	w := l.columnWidth - 4
	if w < 10 {
		w = 10
	}
	return w
}

// bodyHeight is the number of card lines a column can show under its header.
func (l pageLayout) bodyHeight() int {
	h := l.columnHeight - 3
	if h < 3 {
		h = 3
	}
	return h
}

func logoWidth() int {
	width := 0
	for _, line := range logoArtLines {
		if w := lipgloss.Width(line); w > width {
			width = w
		}
	}
	return width + 1
}

// windowCards joins rendered cards so that the card at cursor is fully
// visible within height lines, scrolling from the top as little as possible.
func windowCards(cards []string, cursor, height int) string {
	if len(cards) == 0 {
		return ""
	}
	if cursor < 0 {
		cursor = 0
	}
	if cursor >= len(cards) {
		cursor = len(cards) - 1
	}
	heights := make([]int, len(cards))
	for i, c := range cards {
		heights[i] = lipgloss.Height(c) + 1
	}

	start := 0
	used := 0
	for i := 0; i <= cursor; i++ {
		used += heights[i]
	}
	for used > height && start < cursor {
		used -= heights[start]
		start++
	}

	var lines []string
	for i := start; i < len(cards); i++ {
		next := strings.Split(cards[i], "\n")
		if len(lines)+len(next) > height && i > start {
			break
		}
		lines = append(lines, next...)
		lines = append(lines, "")
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

func joinNonEmpty(parts []string) string {
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		filtered = append(filtered, part)
	}
	return strings.Join(filtered, "\n\n")
}

func shortenList(items []string, limit int) string {
	if len(items) <= limit {
		return strings.Join(items, ", ")
	}
	return strings.Join(items[:limit], ", ") + "…"
}
