package monitor

import (
	"testing"
)

func TestClassifier_Run_AdvancedRuleWins(t *testing.T) {
	classifier := NewClassifier(DefaultLexicon())

	match := &MatchResult{
		Advanced: &AdvancedHit{RuleName: "exec-arrest", RiskLevel: RiskCritical},
	}

	// A fired rule decides the level outright, even for positive sentiment
	// from a low-weight source.
	level, reason := classifier.Run("great news all around", match, DefaultSourceWeight, 0.5)
	if level != RiskCritical {
		t.Errorf("Expected risk level %d from the rule, got %d", RiskCritical, level)
	}
	if reason != "exec-arrest" {
		t.Errorf("Expected rule name as reason, got %q", reason)
	}
}

func TestClassifier_Run_NegativeWeightedSource(t *testing.T) {
	classifier := NewClassifier(DefaultLexicon())

	match := &MatchResult{MatchedBrand: "acmetech"}

	level, reason := classifier.Run("acmetech news", match, 100, -0.4)
	if level != RiskCritical {
		t.Errorf("Expected risk level %d for strongly negative weighted source, got %d", RiskCritical, level)
	}
	if reason != ReasonHighRiskNegative {
		t.Errorf("Unexpected reason: %q", reason)
	}
}

func TestClassifier_Run_NegativeSensitiveTerm(t *testing.T) {
	classifier := NewClassifier(DefaultLexicon())

	match := &MatchResult{MatchedBrand: "acmetech"}

	// Low weight source, but the text carries a sensitive term.
	level, _ := classifier.Run("acmetech 被起诉", match, DefaultSourceWeight, -0.4)
	if level != RiskCritical {
		t.Errorf("Expected risk level %d for sensitive term hit, got %d", RiskCritical, level)
	}
}

func TestClassifier_Run_NegativeWithoutEscalation(t *testing.T) {
	classifier := NewClassifier(DefaultLexicon())

	match := &MatchResult{MatchedBrand: "acmetech"}

	// Strongly negative, but neither a weighted source nor a sensitive term.
	level, reason := classifier.Run("acmetech news", match, DefaultSourceWeight, -0.4)
	if level != RiskWarning {
		t.Errorf("Expected risk level %d, got %d", RiskWarning, level)
	}
	if reason != ReasonSuspectedNegative {
		t.Errorf("Unexpected reason: %q", reason)
	}
}

func TestClassifier_Run_MildlyNegative(t *testing.T) {
	classifier := NewClassifier(DefaultLexicon())

	match := &MatchResult{MatchedBrand: "acmetech"}

	level, reason := classifier.Run("acmetech news", match, 100, -0.2)
	if level != RiskWarning {
		t.Errorf("Expected risk level %d for mildly negative sentiment, got %d", RiskWarning, level)
	}
	if reason != ReasonSuspectedNegative {
		t.Errorf("Unexpected reason: %q", reason)
	}
}

func TestClassifier_Run_Routine(t *testing.T) {
	classifier := NewClassifier(DefaultLexicon())

	match := &MatchResult{MatchedBrand: "acmetech"}

	level, reason := classifier.Run("acmetech news", match, 100, 0.0)
	if level != RiskRoutine {
		t.Errorf("Expected risk level %d for neutral sentiment, got %d", RiskRoutine, level)
	}
	if reason != ReasonRoutineMention {
		t.Errorf("Unexpected reason: %q", reason)
	}
}

func TestBuildMatchDetail(t *testing.T) {
	match := &MatchResult{
		MatchedBrand: "acmetech",
		Advanced: &AdvancedHit{
			RuleName: "exec-arrest",
			HitWords: []string{"ceo", "arrested"},
		},
	}

	detail := BuildMatchDetail(match, "exec-arrest")
	if detail.MatchedBrand != "acmetech" {
		t.Errorf("Expected matched brand in detail, got %q", detail.MatchedBrand)
	}
	if detail.RuleName != "exec-arrest" {
		t.Errorf("Expected rule name in detail, got %q", detail.RuleName)
	}
	if len(detail.HitWords) != 2 {
		t.Errorf("Expected hit words in detail, got %v", detail.HitWords)
	}
	if detail.Reason != "exec-arrest" {
		t.Errorf("Expected reason in detail, got %q", detail.Reason)
	}
}
