package monitor

import (
	ahocorasick "github.com/cloudflare/ahocorasick"
)

// Risk reasons for the non-rule branches of the decision ladder.
const (
	ReasonHighRiskNegative  = "high-risk negative, weighted source or sensitive term"
	ReasonSuspectedNegative = "suspected negative/controversial"
	ReasonRoutineMention    = "routine mention"
)

// weightedSourceThreshold is the source weight at or above which a strongly
// negative item escalates to critical.
const weightedSourceThreshold = 80

// Classifier combines a match result, sentiment score and source weight into
// a risk level and a human-readable reason. The decision order is a
// tie-break policy, not a scored sum: an advanced rule always wins.
type Classifier struct {
	sensitive *ahocorasick.Matcher
	hasTerms  bool
}

func NewClassifier(lex *Lexicon) *Classifier {
	patterns := make([]string, 0, len(lex.Sensitive))
	for _, w := range lex.Sensitive {
		if n := NormalizeText(w); n != "" {
			patterns = append(patterns, n)
		}
	}
	return &Classifier{
		sensitive: ahocorasick.NewStringMatcher(patterns),
		hasTerms:  len(patterns) > 0,
	}
}

// Run classifies a matched item. Callers must not invoke it for unmatched
// items; an unmatched item simply does not exist for that client.
func (c *Classifier) Run(itemText string, match *MatchResult, sourceWeight int, sentiment float64) (int, string) {
	if match != nil && match.Advanced != nil {
		return match.Advanced.RiskLevel, match.Advanced.RuleName
	}

	if sentiment < -0.3 && (sourceWeight >= weightedSourceThreshold || c.sensitiveHit(itemText)) {
		return RiskCritical, ReasonHighRiskNegative
	}

	if sentiment < -0.1 {
		return RiskWarning, ReasonSuspectedNegative
	}

	return RiskRoutine, ReasonRoutineMention
}

func (c *Classifier) sensitiveHit(itemText string) bool {
	if !c.hasTerms {
		return false
	}
	normalized := NormalizeText(itemText)
	if normalized == "" {
		return false
	}
	return len(c.sensitive.Match([]byte(normalized))) > 0
}

// BuildMatchDetail renders the persisted explanation for a classification.
func BuildMatchDetail(match *MatchResult, reason string) MatchDetail {
	detail := MatchDetail{Reason: reason}
	if match == nil {
		return detail
	}
	detail.MatchedBrand = match.MatchedBrand
	if match.Advanced != nil {
		detail.RuleName = match.Advanced.RuleName
		detail.HitWords = match.Advanced.HitWords
	}
	return detail
}
