package monitor

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// StatsService computes the dashboard aggregates over persisted mentions.
// All extraction here is heuristic summarization, deterministic for
// identical input data.
type StatsService struct {
	mentions MentionStore
	lexicon  *Lexicon
}

func NewStatsService(mentions MentionStore, lexicon *Lexicon) *StatsService {
	return &StatsService{mentions: mentions, lexicon: lexicon}
}

// Run computes dashboard stats, filtered by clientID when non-empty.
func (s *StatsService) Run(clientID string) (DashboardStats, error) {
	var stats DashboardStats

	now := time.Now().UTC()
	past24h := now.Add(-24 * time.Hour)
	past48h := now.Add(-48 * time.Hour)
	past7d := now.Add(-7 * 24 * time.Hour)

	total, err := s.mentions.Count(clientID, past24h, now)
	if err != nil {
		return stats, fmt.Errorf("failed to count mentions: %w", err)
	}
	stats.TotalCount24h = total

	prev, err := s.mentions.Count(clientID, past48h, past24h)
	if err != nil {
		return stats, fmt.Errorf("failed to count previous window: %w", err)
	}
	if total == 0 && prev == 0 {
		// A fresh system has no velocity, not a -100% drop.
		stats.VelocityPct = 0
	} else {
		if prev == 0 {
			prev = 1
		}
		stats.VelocityPct = math.Round(float64(total-prev)/float64(prev)*1000) / 10
	}

	risky, err := s.mentions.CountRisky(clientID, past24h, now)
	if err != nil {
		return stats, fmt.Errorf("failed to count risky mentions: %w", err)
	}
	stats.RiskCount24h = risky
	stats.AlertLevel = alertLevel(risky)

	trend, err := s.mentions.DailyCounts(clientID, 7)
	if err != nil {
		return stats, fmt.Errorf("failed to compute trend: %w", err)
	}
	stats.Trend = trend

	pos, neu, neg, err := s.mentions.SentimentBuckets(clientID, past24h, now)
	if err != nil {
		return stats, fmt.Errorf("failed to compute sentiment distribution: %w", err)
	}
	stats.Sentiment = SentimentDistribution{Positive: pos, Neutral: neu, Negative: neg}

	titles, err := s.mentions.RiskyTitles(clientID, past7d, 500)
	if err != nil {
		return stats, fmt.Errorf("failed to load risky titles: %w", err)
	}
	stats.Clusters = s.extractClusters(titles)

	return stats, nil
}

// alertLevel derives the coarse 1-5 dashboard alert level from the count of
// risk_level >= 2 mentions in the last 24 hours.
func alertLevel(riskCount int) int {
	switch {
	case riskCount == 0:
		return 1
	case riskCount <= 2:
		return 2
	case riskCount <= 5:
		return 3
	case riskCount <= 10:
		return 4
	default:
		return 5
	}
}

// extractClusters counts topic keyword occurrences across risky titles and
// returns the top 3 as labeled percentages. This is keyword frequency, not a
// clustering algorithm; ties break on keyword order for determinism.
func (s *StatsService) extractClusters(titles []string) []OpinionCluster {
	if len(titles) == 0 {
		return []OpinionCluster{}
	}

	counts := make(map[string]int, len(s.lexicon.TopicKeywords))
	for _, title := range titles {
		normalized := NormalizeText(title)
		for _, kw := range s.lexicon.TopicKeywords {
			if strings.Contains(normalized, NormalizeText(kw)) {
				counts[kw]++
			}
		}
	}

	clusters := make([]OpinionCluster, 0, len(counts))
	for kw, n := range counts {
		clusters = append(clusters, OpinionCluster{
			Keyword:    kw,
			Count:      n,
			Percentage: math.Round(float64(n)/float64(len(titles))*1000) / 10,
		})
	}

	sort.Slice(clusters, func(i, j int) bool {
		if clusters[i].Count != clusters[j].Count {
			return clusters[i].Count > clusters[j].Count
		}
		return clusters[i].Keyword < clusters[j].Keyword
	})

	if len(clusters) > 3 {
		clusters = clusters[:3]
	}
	return clusters
}
