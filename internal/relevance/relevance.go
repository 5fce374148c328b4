// Package relevance ranks papers against a keyword set by counting substring
// overlaps, padding short results with unscored papers.
package relevance

import (
	"math/rand"
	"sort"
	"strings"

	"github.com/csheth/paperpin/internal/corpus"
)

const (
	proseWeight = 1
	tagWeight   = 2
)

// Scored pairs a ranked paper with its score. Fill entries score 0.
type Scored struct {
	Paper corpus.Paper
	Score int
}

// FillPolicy picks up to n papers from the zero-score candidates, which are
// given in corpus order.
type FillPolicy interface {
	Fill(candidates []corpus.Paper, n int) []corpus.Paper
}

// CorpusOrder fills from the front of the corpus. It is the default.
type CorpusOrder struct{}

func (CorpusOrder) Fill(candidates []corpus.Paper, n int) []corpus.Paper {
	if n > len(candidates) {
		n = len(candidates)
	}
	return candidates[:n]
}

// Random fills with a shuffled selection drawn from Source.
type Random struct {
	Source *rand.Rand
}

func (r Random) Fill(candidates []corpus.Paper, n int) []corpus.Paper {
	shuffled := append([]corpus.Paper(nil), candidates...)
	shuffle := rand.Shuffle
	if r.Source != nil {
		shuffle = r.Source.Shuffle
	}
	shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	return CorpusOrder{}.Fill(shuffled, n)
}

// Rank returns at most limit papers from papers, best first, skipping ids in
// exclude. A nil fill uses CorpusOrder.
func Rank(keywords []string, exclude map[string]bool, papers []corpus.Paper, limit int, fill FillPolicy) []corpus.Paper {
	scored := RankScored(keywords, exclude, papers, limit, fill)
	if len(scored) == 0 {
		return nil
	}
	out := make([]corpus.Paper, len(scored))
	for i, s := range scored {
		out[i] = s.Paper
	}
	return out
}

// RankScored is Rank with the score of every returned paper.
func RankScored(keywords []string, exclude map[string]bool, papers []corpus.Paper, limit int, fill FillPolicy) []Scored {
	if limit <= 0 {
		return nil
	}
	if fill == nil {
		fill = CorpusOrder{}
	}
	query := normalize(keywords)

	var hits []Scored
	var misses []corpus.Paper
	for _, p := range papers {
		if exclude[p.ID] {
			continue
		}
		if s := score(query, p); s > 0 {
			hits = append(hits, Scored{Paper: p, Score: s})
		} else {
			misses = append(misses, p)
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })

	if len(hits) < limit && len(misses) > 0 {
		for _, p := range fill.Fill(misses, limit-len(hits)) {
			hits = append(hits, Scored{Paper: p})
		}
	}
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}

// Score adds one point for every keyword found in the paper's title, abstract
// or keywords, and two for every paper keyword containing one of keywords.
// Matching is case-insensitive substring containment.
func Score(keywords []string, p corpus.Paper) int {
	return score(normalize(keywords), p)
}

func score(query []string, p corpus.Paper) int {
	if len(query) == 0 {
		return 0
	}
	text := strings.ToLower(p.Title + " " + p.Abstract + " " + strings.Join(p.Keywords, " "))
	total := 0
	for _, kw := range query {
		if strings.Contains(text, kw) {
			total += proseWeight
		}
	}
	for _, tag := range p.Keywords {
		tag = strings.ToLower(tag)
		for _, kw := range query {
			if strings.Contains(tag, kw) {
				total += tagWeight
				break
			}
		}
	}
	return total
}

func normalize(keywords []string) []string {
	seen := make(map[string]bool, len(keywords))
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" || seen[kw] {
			continue
		}
		seen[kw] = true
		out = append(out, kw)
	}
	return out
}
