// Package corpus loads the read-only set of papers a reader browses.
package corpus

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Paper is one corpus record.
type Paper struct {
	ID       string   `json:"id" yaml:"id"`
	Title    string   `json:"title" yaml:"title"`
	Authors  []string `json:"authors" yaml:"authors"`
	Abstract string   `json:"abstract" yaml:"abstract"`
	FullText string   `json:"fullText,omitempty" yaml:"fullText,omitempty"`
	Keywords []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	PDFPath  string   `json:"pdfPath,omitempty" yaml:"pdfPath,omitempty"`
	URL      string   `json:"url,omitempty" yaml:"url,omitempty"`
}

// Index looks papers up by id while keeping corpus order.
type Index struct {
	papers []Paper
	byID   map[string]int
}

// NewIndex builds an Index over papers. Later duplicates of an id are ignored.
func NewIndex(papers []Paper) *Index {
	idx := &Index{byID: make(map[string]int, len(papers))}
	for _, p := range papers {
		if _, ok := idx.byID[p.ID]; ok {
			continue
		}
		idx.byID[p.ID] = len(idx.papers)
		idx.papers = append(idx.papers, p)
	}
	return idx
}

// Papers returns the corpus in load order.
func (i *Index) Papers() []Paper {
	if i == nil {
		return nil
	}
	return i.papers
}

// Len reports the number of papers.
func (i *Index) Len() int {
	if i == nil {
		return 0
	}
	return len(i.papers)
}

// Lookup returns the paper with the given id.
func (i *Index) Lookup(id string) (Paper, bool) {
	if i == nil {
		return Paper{}, false
	}
	pos, ok := i.byID[id]
	if !ok {
		return Paper{}, false
	}
	return i.papers[pos], true
}

// Passages splits the paper's full text, or its abstract when there is no
// full text, into sentence-level passages.
func Passages(p Paper) []string {
	text := p.FullText
	if strings.TrimSpace(text) == "" {
		text = p.Abstract
	}
	return SplitSentences(text)
}

// SplitSentences cuts text after every run of '.', '!' or '?'. Text without
// any terminator is returned as a single sentence.
func SplitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	var sentences []string
	start := 0
	for i := 0; i < len(text); {
		if !isTerminator(text[i]) {
			_, size := utf8.DecodeRuneInString(text[i:])
			i += size
			continue
		}
		end := i + 1
		for end < len(text) && isTerminator(text[end]) {
			end++
		}
		if segment := strings.TrimSpace(text[start:end]); segment != "" && !onlyPunctuation(segment) {
			sentences = append(sentences, segment)
		}
		start = end
		for start < len(text) {
			next, size := utf8.DecodeRuneInString(text[start:])
			if !unicode.IsSpace(next) {
				break
			}
			start += size
		}
		i = start
	}
	if start < len(text) {
		if segment := strings.TrimSpace(text[start:]); segment != "" {
			sentences = append(sentences, segment)
		}
	}
	return sentences
}

func isTerminator(b byte) bool {
	return b == '.' || b == '!' || b == '?'
}

func onlyPunctuation(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isTerminator(s[i]) {
			return false
		}
	}
	return true
}

// Snippet returns the first limit runes of text followed by "..." when text is
// longer.
func Snippet(text string, limit int) string {
	runes := []rune(text)
	if limit <= 0 || len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
