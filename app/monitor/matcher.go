package monitor

import "strings"

// Matcher decides whether one content item concerns one client and which
// rule fired. Matching is case-insensitive substring matching over the
// normalized item text; proximity distances are rune offsets in that text.
type Matcher struct{}

func NewMatcher() *Matcher {
	return &Matcher{}
}

// Run matches itemText against a client configuration. It returns nil when
// the item does not concern the client. Exclusion keywords veto the item
// before anything else is considered. Advanced rules are evaluated in
// configured order and the first rule whose precondition holds wins; later
// rules are not evaluated.
func (m *Matcher) Run(itemText string, cfg ClientConfig) *MatchResult {
	text := NormalizeText(itemText)

	for _, kw := range cfg.ExcludeKeywords {
		if kw != "" && strings.Contains(text, NormalizeText(kw)) {
			return nil
		}
	}

	matchedBrand := ""
	for _, kw := range cfg.BrandKeywords {
		if kw != "" && strings.Contains(text, NormalizeText(kw)) {
			matchedBrand = kw
			break
		}
	}

	var advanced *AdvancedHit
	runes := []rune(text)
	for _, rule := range cfg.AdvancedRules {
		if hit := m.evalRule(runes, rule); hit != nil {
			advanced = hit
			break
		}
	}

	if matchedBrand == "" && advanced == nil {
		return nil
	}

	return &MatchResult{MatchedBrand: matchedBrand, Advanced: advanced}
}

// evalRule checks one advanced rule: every must_contain term present, then
// at least one nearby_words term within max_distance runes of any
// must_contain occurrence. The minimum offset difference across all
// occurrence pairs decides.
func (m *Matcher) evalRule(runes []rune, rule AdvancedRule) *AdvancedHit {
	mustOffsets := make([]int, 0, 4)
	hitWords := make([]string, 0, len(rule.MustContain))

	for _, term := range rule.MustContain {
		offs := occurrences(runes, []rune(NormalizeText(term)))
		if len(offs) == 0 {
			return nil
		}
		mustOffsets = append(mustOffsets, offs...)
		hitWords = append(hitWords, term)
	}

	nearbyHit := ""
	for _, term := range rule.NearbyWords {
		offs := occurrences(runes, []rune(NormalizeText(term)))
		if len(offs) == 0 {
			continue
		}
		if minPairDistance(mustOffsets, offs) <= rule.MaxDistance {
			nearbyHit = term
			break
		}
	}
	if nearbyHit == "" {
		return nil
	}

	return &AdvancedHit{
		RuleName:  rule.Name,
		RiskLevel: rule.RiskLevel,
		HitWords:  append(hitWords, nearbyHit),
	}
}

// occurrences returns the starting rune offsets of every occurrence of term
// in runes. An empty term yields no occurrences.
func occurrences(runes, term []rune) []int {
	if len(term) == 0 || len(term) > len(runes) {
		return nil
	}
	var offs []int
	for i := 0; i+len(term) <= len(runes); i++ {
		if runesEqual(runes[i:i+len(term)], term) {
			offs = append(offs, i)
		}
	}
	return offs
}

func minPairDistance(a, b []int) int {
	best := int(^uint(0) >> 1)
	for _, x := range a {
		for _, y := range b {
			d := x - y
			if d < 0 {
				d = -d
			}
			if d < best {
				best = d
			}
		}
	}
	return best
}
