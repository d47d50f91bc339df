package monitor

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultSourceWeight is the weight of any source without an explicit tier.
const DefaultSourceWeight = 30

// Lexicon is the immutable word configuration consumed by the sentiment
// scorer, the risk classifier and the cluster extraction. It is loaded once
// at startup and never mutated afterwards.
type Lexicon struct {
	Positive      []string       `yaml:"positive"`
	Negative      []string       `yaml:"negative"`
	Negations     []string       `yaml:"negations"`
	Sensitive     []string       `yaml:"sensitive"`
	TopicKeywords []string       `yaml:"topic_keywords"`
	SourceWeights map[string]int `yaml:"source_weights"`
}

// DefaultLexicon returns the built-in word lists. The source tiers mirror the
// S/A/B/C grading of the monitored portals (100/80/50/30).
func DefaultLexicon() *Lexicon {
	return &Lexicon{
		Positive: []string{
			"惊喜", "遥遥领先", "利好", "大涨", "突破", "首发", "新高", "获批", "增长",
			"breakthrough", "record high", "launch",
		},
		Negative: []string{
			"失望", "垃圾", "维权", "黑屏", "卡顿", "骗子", "爆炸", "暴跌", "裁员", "亏损", "调查", "罚款",
			"scandal", "lawsuit", "layoff", "fraud", "arrested",
		},
		Negations: []string{"不", "没", "无", "非", "not", "no"},
		Sensitive: []string{
			"起诉", "倒闭", "造假", "丑闻", "被查", "爆雷", "跑路",
			"bankrupt", "indicted", "recall",
		},
		TopicKeywords: []string{
			"价格", "质量", "售后", "安全", "裁员", "高管", "竞品", "监管",
			"price", "quality", "safety", "executive", "regulation",
		},
		SourceWeights: map[string]int{
			"微博热搜":  100,
			"央视新闻":  100,
			"人民日报":  100,
			"CCTV":  100,
			"Weibo": 100,
			"36氪":   80,
			"36Kr":  80,
			"虎嗅":    80,
			"钛媒体":   80,
			"头条号":   80,
			"财联社":   80,
			"百度风云榜": 50,
			"微信公众号": 50,
		},
	}
}

// LoadLexicon reads a YAML lexicon file and overlays it on the defaults.
// Omitted sections keep their built-in values.
func LoadLexicon(path string) (*Lexicon, error) {
	lex := DefaultLexicon()
	if path == "" {
		return lex, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lexicon file: %w", err)
	}

	var override Lexicon
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("failed to parse lexicon YAML: %w", err)
	}

	if len(override.Positive) > 0 {
		lex.Positive = override.Positive
	}
	if len(override.Negative) > 0 {
		lex.Negative = override.Negative
	}
	if len(override.Negations) > 0 {
		lex.Negations = override.Negations
	}
	if len(override.Sensitive) > 0 {
		lex.Sensitive = override.Sensitive
	}
	if len(override.TopicKeywords) > 0 {
		lex.TopicKeywords = override.TopicKeywords
	}
	if len(override.SourceWeights) > 0 {
		lex.SourceWeights = override.SourceWeights
	}

	return lex, nil
}

// SourceWeight returns the trust tier of a source, defaulting to the lowest
// tier for unknown sources.
func (l *Lexicon) SourceWeight(source string) int {
	if w, ok := l.SourceWeights[source]; ok {
		return w
	}
	return DefaultSourceWeight
}
