// Package item defines the references a reader can save: whole papers and
// single passages inside a paper.
package item

// Kind names the variant of an Item on the wire.
type Kind string

const (
	KindPaper   Kind = "paper"
	KindPassage Kind = "passage"
)

// NotFound is returned by IndexOf when no element matches.
const NotFound = -1

// Item is a closed sum type implemented only by Paper and Passage.
type Item interface {
	Kind() Kind
	PaperID() string
	isItem()
}

// Paper references a whole paper.
type Paper struct {
	ID string
}

// Passage references one sentence-level excerpt of a paper, identified by its
// exact text.
type Passage struct {
	ID   string
	Text string
}

// NewPaper returns a paper reference.
func NewPaper(paperID string) Paper {
	return Paper{ID: paperID}
}

// NewPassage returns a passage reference.
func NewPassage(paperID, text string) Passage {
	return Passage{ID: paperID, Text: text}
}

func (Paper) Kind() Kind          { return KindPaper }
func (p Paper) PaperID() string   { return p.ID }
func (Paper) isItem()             {}
func (Passage) Kind() Kind        { return KindPassage }
func (p Passage) PaperID() string { return p.ID }
func (Passage) isItem()           {}

// Equal reports whether a and b reference the same paper or the same passage.
// References with an empty paper id, or passages with empty text, never match.
func Equal(a, b Item) bool {
	switch x := a.(type) {
	case Paper:
		y, ok := b.(Paper)
		return ok && x.ID != "" && x.ID == y.ID
	case Passage:
		y, ok := b.(Passage)
		return ok && x.ID != "" && x.Text != "" && x.ID == y.ID && x.Text == y.Text
	default:
		return false
	}
}

// Valid reports whether it carries the fields equality needs.
func Valid(it Item) bool {
	return Equal(it, it)
}

// IndexOf returns the index of the first element of list equal to target, or
// NotFound.
func IndexOf(list []Item, target Item) int {
	for i, candidate := range list {
		if Equal(candidate, target) {
			return i
		}
	}
	return NotFound
}

// Contains reports whether list holds an element equal to target.
func Contains(list []Item, target Item) bool {
	return IndexOf(list, target) != NotFound
}

// PaperIDs returns the distinct paper ids referenced by list in first-seen
// order.
func PaperIDs(list []Item) []string {
	seen := map[string]bool{}
	ids := make([]string, 0, len(list))
	for _, it := range list {
		id := it.PaperID()
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}
