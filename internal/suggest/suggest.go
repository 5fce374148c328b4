// Package suggest turns the reader's current context into scorer inputs for
// related papers and live suggestions.
package suggest

import (
	"strings"
	"unicode/utf8"

	"github.com/csheth/paperpin/internal/corpus"
	"github.com/csheth/paperpin/internal/item"
	"github.com/csheth/paperpin/internal/relevance"
)

const (
	DefaultRelatedLimit    = 10
	DefaultSuggestionLimit = 5

	minTokenLen     = 4
	passageTokenCap = 5
)

// Focus is the paper and passage currently inspected in the explore view.
// Either field may be empty.
type Focus struct {
	PaperID     string
	PassageText string
}

// Resolver computes related papers and live suggestions over a corpus.
type Resolver struct {
	Corpus          *corpus.Index
	RelatedLimit    int
	SuggestionLimit int
	Fill            relevance.FillPolicy
}

// NewResolver returns a Resolver with the default limits and corpus-order fill.
func NewResolver(idx *corpus.Index) *Resolver {
	return &Resolver{
		Corpus:          idx,
		RelatedLimit:    DefaultRelatedLimit,
		SuggestionLimit: DefaultSuggestionLimit,
		Fill:            relevance.CorpusOrder{},
	}
}

// Related ranks papers for the focused passage, excluding its own paper.
// Without a focused passage the result is empty.
func (r *Resolver) Related(focus Focus) []corpus.Paper {
	if focus.PassageText == "" {
		return nil
	}
	exclude := map[string]bool{}
	if focus.PaperID != "" {
		exclude[focus.PaperID] = true
	}
	return relevance.Rank(PassageKeywords(focus.PassageText), exclude, r.Corpus.Papers(), r.RelatedLimit, r.Fill)
}

// Live ranks suggestions for the last builder item, or for the focused passage
// when the builder is empty. Papers referenced by saved, builder or the focus
// are excluded. No context or no keywords yields an empty list.
func (r *Resolver) Live(saved, builder []item.Item, focus Focus) []corpus.Paper {
	ctx, ok := r.Context(builder, focus)
	if !ok {
		return nil
	}
	keywords := r.Keywords(ctx)
	if len(keywords) == 0 {
		return nil
	}
	exclude := map[string]bool{}
	for _, id := range item.PaperIDs(saved) {
		exclude[id] = true
	}
	for _, id := range item.PaperIDs(builder) {
		exclude[id] = true
	}
	if focus.PaperID != "" {
		exclude[focus.PaperID] = true
	}
	return relevance.Rank(keywords, exclude, r.Corpus.Papers(), r.SuggestionLimit, r.Fill)
}

// Context picks the item suggestions are computed from. A focused passage only
// counts when its source paper is in the corpus.
func (r *Resolver) Context(builder []item.Item, focus Focus) (item.Item, bool) {
	if len(builder) > 0 {
		return builder[len(builder)-1], true
	}
	if focus.PassageText == "" || focus.PaperID == "" {
		return nil, false
	}
	if _, ok := r.Corpus.Lookup(focus.PaperID); !ok {
		return nil, false
	}
	return item.NewPassage(focus.PaperID, focus.PassageText), true
}

// Keywords derives the query for a context item. Papers contribute their own
// keywords and long title tokens; passages contribute their leading long
// tokens and, when the source paper is known, its long title tokens.
func (r *Resolver) Keywords(ctx item.Item) []string {
	var keywords []string
	switch it := ctx.(type) {
	case item.Paper:
		p, ok := r.Corpus.Lookup(it.ID)
		if !ok {
			return nil
		}
		keywords = append(append(keywords, p.Keywords...), TitleKeywords(p.Title)...)
	case item.Passage:
		keywords = PassageKeywords(it.Text)
		if p, ok := r.Corpus.Lookup(it.ID); ok {
			keywords = append(keywords, TitleKeywords(p.Title)...)
		}
	}
	return unique(keywords)
}

// PassageKeywords returns the first five lowercased whitespace tokens of text
// longer than three characters.
func PassageKeywords(text string) []string {
	tokens := longTokens(text)
	if len(tokens) > passageTokenCap {
		tokens = tokens[:passageTokenCap]
	}
	return tokens
}

// TitleKeywords returns every lowercased whitespace token of title longer than
// three characters.
func TitleKeywords(title string) []string {
	return longTokens(title)
}

func longTokens(text string) []string {
	var out []string
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		if utf8.RuneCountInString(tok) >= minTokenLen {
			out = append(out, tok)
		}
	}
	return out
}

func unique(list []string) []string {
	seen := make(map[string]bool, len(list))
	out := make([]string, 0, len(list))
	for _, s := range list {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
