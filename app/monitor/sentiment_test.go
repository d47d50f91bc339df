package monitor

import (
	"math"
	"testing"
)

func floatNear(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestLexiconScorer_Score_Neutral(t *testing.T) {
	scorer := NewLexiconScorer(DefaultLexicon())

	if score := scorer.Score("今天天气不错"); score != 0 {
		t.Errorf("Expected 0 for text without lexicon terms, got %f", score)
	}
}

func TestLexiconScorer_Score_SingleNegative(t *testing.T) {
	scorer := NewLexiconScorer(DefaultLexicon())

	score := scorer.Score("公司宣布裁员")
	if !floatNear(score, -0.2) {
		t.Errorf("Expected -0.2 for one negative term, got %f", score)
	}
}

func TestLexiconScorer_Score_PositiveAccumulates(t *testing.T) {
	scorer := NewLexiconScorer(DefaultLexicon())

	score := scorer.Score("股价大涨 技术突破")
	if !floatNear(score, 0.4) {
		t.Errorf("Expected 0.4 for two positive terms, got %f", score)
	}
}

func TestLexiconScorer_Score_MixedTerms(t *testing.T) {
	scorer := NewLexiconScorer(DefaultLexicon())

	score := scorer.Score("利好消息之后宣布裁员")
	if !floatNear(score, 0.0) {
		t.Errorf("Expected positive and negative terms to cancel, got %f", score)
	}
}

func TestLexiconScorer_Score_NegationSuppressesNegative(t *testing.T) {
	scorer := NewLexiconScorer(DefaultLexicon())

	// The negation marker directly precedes the negative term.
	score := scorer.Score("用户表示不失望")
	if !floatNear(score, 0.0) {
		t.Errorf("Expected negation to suppress the negative term, got %f", score)
	}
}

func TestLexiconScorer_Score_NegationWindowLimit(t *testing.T) {
	scorer := NewLexiconScorer(DefaultLexicon())

	// Three runes between marker and term exceeds the window, so the
	// negative term counts.
	score := scorer.Score("不是说很失望")
	if !floatNear(score, -0.2) {
		t.Errorf("Expected negation beyond window to have no effect, got %f", score)
	}
}

func TestLexiconScorer_Score_EnglishNegation(t *testing.T) {
	scorer := NewLexiconScorer(DefaultLexicon())

	score := scorer.Score("no fraud was found")
	if !floatNear(score, 0.0) {
		t.Errorf("Expected 'no fraud' to be suppressed, got %f", score)
	}
}

func TestLexiconScorer_Score_Clamped(t *testing.T) {
	scorer := NewLexiconScorer(DefaultLexicon())

	score := scorer.Score("暴跌 亏损 裁员 调查 罚款 爆炸 骗子 维权")
	if !floatNear(score, -1.0) {
		t.Errorf("Expected score clamped to -1, got %f", score)
	}
}

func TestLexiconScorer_Score_RepeatedOccurrences(t *testing.T) {
	scorer := NewLexiconScorer(DefaultLexicon())

	// The same term twice counts twice.
	score := scorer.Score("裁员 裁员")
	if !floatNear(score, -0.4) {
		t.Errorf("Expected both occurrences to count, got %f", score)
	}
}

func TestLexiconScorer_Score_BlankLexiconTermsIgnored(t *testing.T) {
	scorer := NewLexiconScorer(&Lexicon{
		Positive:  []string{"   ", "大涨"},
		Negative:  []string{"", "裁员"},
		Negations: []string{"  "},
	})

	// Whitespace-only entries normalize to nothing and must not become
	// patterns that match everywhere.
	if score := scorer.Score("今天天气不错"); score != 0 {
		t.Errorf("Expected 0 for text without real lexicon terms, got %f", score)
	}
	if score := scorer.Score("公司宣布裁员"); !floatNear(score, -0.2) {
		t.Errorf("Expected -0.2 from the surviving negative term, got %f", score)
	}
	if score := scorer.Score("股价大涨"); !floatNear(score, 0.2) {
		t.Errorf("Expected 0.2 from the surviving positive term, got %f", score)
	}
}
