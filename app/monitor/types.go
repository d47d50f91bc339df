package monitor

import (
	"encoding/json"
	"time"
)

// Client status values
const (
	StatusDisabled = 0
	StatusActive   = 1
)

// Clean status values for mentions
const (
	CleanStatusUncleaned = "uncleaned"
	CleanStatusCleaned   = "cleaned"
	CleanStatusDiscarded = "discarded"
	CleanStatusArchived  = "archived"
)

// Risk levels
const (
	RiskPositive = 0
	RiskRoutine  = 1
	RiskWarning  = 2
	RiskCritical = 3
)

// AdvancedRule is an ordered precondition stronger than a plain keyword hit.
// All MustContain terms must be present, and at least one NearbyWords term
// must occur within MaxDistance runes of a MustContain occurrence.
type AdvancedRule struct {
	Name        string   `json:"rule_name" yaml:"rule_name"`
	MustContain []string `json:"must_contain" yaml:"must_contain"`
	NearbyWords []string `json:"nearby_words" yaml:"nearby_words"`
	MaxDistance int      `json:"max_distance" yaml:"max_distance"`
	RiskLevel   int      `json:"risk_level" yaml:"risk_level"`
}

// MatchLogic bundles the matching configuration of a client.
type MatchLogic struct {
	BrandKeywords   []string       `json:"brand_keywords"`
	ExcludeKeywords []string       `json:"exclude_keywords"`
	AdvancedRules   []AdvancedRule `json:"advanced_rules"`
}

// ClientConfig is the per-client matching configuration. The ID is assigned
// on creation and never changes.
type ClientConfig struct {
	ID              string         `json:"client_id"`
	Name            string         `json:"name"`
	Industry        string         `json:"industry"`
	Status          int            `json:"status"`
	BrandKeywords   []string       `json:"brand_keywords"`
	ExcludeKeywords []string       `json:"exclude_keywords"`
	AdvancedRules   []AdvancedRule `json:"advanced_rules"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// ClientPatch carries the updatable fields of a client. Nil pointers leave
// the corresponding field untouched.
type ClientPatch struct {
	Name     *string     `json:"name"`
	Industry *string     `json:"industry"`
	Status   *int        `json:"status"`
	Logic    *MatchLogic `json:"logic"`
}

// AdvancedHit records which advanced rule fired for an item.
type AdvancedHit struct {
	RuleName  string   `json:"rule_name"`
	RiskLevel int      `json:"risk_level"`
	HitWords  []string `json:"hit_words"`
}

// MatchResult is the outcome of matching one item against one client.
// Either MatchedBrand or Advanced (or both) is populated.
type MatchResult struct {
	MatchedBrand string       `json:"matched_brand"`
	Advanced     *AdvancedHit `json:"advanced,omitempty"`
}

// MatchDetail is the persisted explanation of a classification outcome.
type MatchDetail struct {
	MatchedBrand string   `json:"matched_brand,omitempty"`
	RuleName     string   `json:"rule_name,omitempty"`
	HitWords     []string `json:"hit_words,omitempty"`
	Reason       string   `json:"reason"`
}

// Mention is one classified occurrence of a harvested item, either scoped to
// a client or in the unattributed global pool (empty ClientID).
type Mention struct {
	ID             int64     `json:"id"`
	ClientID       string    `json:"client_id,omitempty"`
	Source         string    `json:"source"`
	Title          string    `json:"title"`
	ContentText    string    `json:"content_text"`
	URL            string    `json:"url"`
	PublishTime    time.Time `json:"publish_time"`
	SentimentScore float64   `json:"sentiment_score"`
	RiskLevel      int       `json:"risk_level"`
	MatchDetail    string    `json:"match_detail"`
	CleanStatus    string    `json:"clean_status"`
	ContentHash    string    `json:"content_hash"`
	IsDuplicate    bool      `json:"is_duplicate"`
	CreatedAt      time.Time `json:"created_at"`
}

// SummaryText accepts either a plain string or a structured object with a
// "fact" field, as produced by the harvester collaborators.
type SummaryText string

func (s *SummaryText) UnmarshalJSON(data []byte) error {
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		*s = SummaryText(plain)
		return nil
	}

	var structured struct {
		Fact string `json:"fact"`
	}
	if err := json.Unmarshal(data, &structured); err != nil {
		return err
	}
	*s = SummaryText(structured.Fact)
	return nil
}

// RawItem is one harvested content item as delivered by a harvester.
// PublishTime is epoch seconds; zero means unknown and defaults to ingestion
// time.
type RawItem struct {
	Title       string      `json:"title"`
	Summary     SummaryText `json:"summary"`
	Source      string      `json:"source"`
	URL         string      `json:"url"`
	PublishTime int64       `json:"publish_time"`
}

// Text returns the flattened item text used for matching and scoring.
func (r RawItem) Text() string {
	if r.Summary == "" {
		return r.Title
	}
	return r.Title + " " + string(r.Summary)
}

// Alert is a mention with risk level >= 2, surfaced synchronously from
// ingestion for downstream notification.
type Alert struct {
	Client string `json:"client"`
	Level  int    `json:"level"`
	Title  string `json:"title"`
	Reason string `json:"reason"`
}

// IngestResult summarizes one processed batch. ProcessedCount is the number
// of client-scoped mentions persisted.
type IngestResult struct {
	ProcessedCount int     `json:"processed_count"`
	Alerts         []Alert `json:"alerts"`
}

// TrendPoint is one day of the dashboard trend series.
type TrendPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// SentimentDistribution is the 3-bucket sentiment breakdown of a window.
type SentimentDistribution struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

// OpinionCluster is one extracted topic with its share of risky mentions.
type OpinionCluster struct {
	Keyword    string  `json:"keyword"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// DashboardStats is the aggregate view served to dashboards.
type DashboardStats struct {
	TotalCount24h int                   `json:"total_count_24h"`
	VelocityPct   float64               `json:"velocity_pct"`
	RiskCount24h  int                   `json:"risk_count_24h"`
	AlertLevel    int                   `json:"alert_level"`
	Trend         []TrendPoint          `json:"trend"`
	Sentiment     SentimentDistribution `json:"sentiment"`
	Clusters      []OpinionCluster      `json:"clusters"`
}

// LibraryFilter selects mentions for the global content library view.
type LibraryFilter struct {
	SearchText  string
	Sources     []string
	CleanStatus []string
	TimeRange   string // 24h, 48h, 7d or empty for all
	Page        int
	PageSize    int
}

// LibraryPage is one page of the content library.
type LibraryPage struct {
	Items []Mention `json:"items"`
	Total int       `json:"total"`
	Page  int       `json:"page"`
}

// BlacklistedSource is a source excluded from ingestion.
type BlacklistedSource struct {
	SourceName string    `json:"source_name"`
	Category   string    `json:"category"`
	Reason     string    `json:"reason"`
	AddedBy    string    `json:"added_by"`
	CreatedAt  time.Time `json:"created_at"`
}
