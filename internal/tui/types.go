package tui

type stage int

const (
	stageLoading stage = iota
	stageBrowse
)

type column int

const (
	columnLeft column = iota
	columnMiddle
	columnRight
	columnCount
)

const heroTagline = "Pin papers and passages, then build on them."

const (
	snippetLength  = 120
	minColumnWidth = 24
	columnGutter   = 1
	authorsShown   = 3
)

const (
	placeholderNoPapers      = "No papers available."
	placeholderPickPaper     = "Click a paper on the left to see its passages."
	placeholderNoPassages    = "No passages found in this paper's text."
	placeholderPickPassage   = "Click a passage to see related papers."
	placeholderNoRelated     = "No related papers found for this passage."
	placeholderNoSaved       = "No items saved yet."
	placeholderEmptyBuilder  = "Add items from your saved list."
	placeholderNoContext     = "Not enough context for suggestions."
	placeholderNoSuggestions = "No new suggestions found."
	feedMoreNotice           = "Scroll to load more..."
	feedDoneNotice           = "All papers loaded."
)
