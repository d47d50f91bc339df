package monitor

import (
	ahocorasick "github.com/cloudflare/ahocorasick"
)

// termWeight is the fixed contribution of one lexicon term occurrence.
const termWeight = 0.2

// negationWindow is how many runes may separate a negation marker from the
// negative term it suppresses.
const negationWindow = 2

// LexiconScorer scores text by weighted lexicon matches with simple negation
// suppression. Candidate terms are found in a single Aho-Corasick pass;
// per-occurrence weighting then walks only the terms actually present.
type LexiconScorer struct {
	matcher   *ahocorasick.Matcher
	terms     [][]rune
	posCount  int
	negations [][]rune
}

var _ Scorer = (*LexiconScorer)(nil)

func NewLexiconScorer(lex *Lexicon) *LexiconScorer {
	patterns := make([]string, 0, len(lex.Positive)+len(lex.Negative))
	terms := make([][]rune, 0, cap(patterns))

	for _, w := range lex.Positive {
		if n := NormalizeText(w); n != "" {
			patterns = append(patterns, n)
			terms = append(terms, []rune(n))
		}
	}
	posCount := len(patterns)
	for _, w := range lex.Negative {
		if n := NormalizeText(w); n != "" {
			patterns = append(patterns, n)
			terms = append(terms, []rune(n))
		}
	}

	negations := make([][]rune, 0, len(lex.Negations))
	for _, w := range lex.Negations {
		if n := NormalizeText(w); n != "" {
			negations = append(negations, []rune(n))
		}
	}

	return &LexiconScorer{
		matcher:   ahocorasick.NewStringMatcher(patterns),
		terms:     terms,
		posCount:  posCount,
		negations: negations,
	}
}

// Score returns a sentiment score in [-1, 1] for the given text.
func (s *LexiconScorer) Score(text string) float64 {
	normalized := NormalizeText(text)
	hits := s.matcher.Match([]byte(normalized))
	if len(hits) == 0 {
		return 0
	}

	runes := []rune(normalized)
	score := 0.0

	for _, idx := range hits {
		term := s.terms[idx]
		for _, off := range occurrences(runes, term) {
			if idx < s.posCount {
				score += termWeight
				continue
			}
			if !s.negatedAt(runes, off) {
				score -= termWeight
			}
		}
	}

	return clamp(score, -1, 1)
}

// negatedAt reports whether a negation marker ends within negationWindow
// runes before the term occurrence at off.
func (s *LexiconScorer) negatedAt(runes []rune, off int) bool {
	for _, marker := range s.negations {
		for gap := 0; gap <= negationWindow; gap++ {
			start := off - gap - len(marker)
			if start < 0 {
				continue
			}
			if runesEqual(runes[start:start+len(marker)], marker) {
				return true
			}
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func runesEqual(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
