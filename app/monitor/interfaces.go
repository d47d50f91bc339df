package monitor

import "time"

// ClientStore is the persistence surface the registry and pipeline need for
// client configurations.
type ClientStore interface {
	Insert(c ClientConfig) error
	Update(c ClientConfig) error
	Delete(clientID string) error
	GetByID(clientID string) (*ClientConfig, error)
	GetByName(name string) (*ClientConfig, error)
	List() ([]ClientConfig, error)
	ListActive() ([]ClientConfig, error)
}

// MentionStore is the persistence surface for mentions. Insert returns false
// without error when a uniqueness constraint rejected the row, which is the
// compare-and-insert primitive behind the dedup invariants.
type MentionStore interface {
	Insert(m Mention) (bool, error)
	GetGlobalByURL(url string) (*Mention, error)
	GetGlobalByHash(hash string) (*Mention, error)
	HasClientMention(clientID, url string) (bool, error)
	ListGlobalSince(from time.Time, limit int) ([]Mention, error)
	Count(clientID string, from, to time.Time) (int, error)
	CountRisky(clientID string, from, to time.Time) (int, error)
	SentimentBuckets(clientID string, from, to time.Time) (pos, neu, neg int, err error)
	DailyCounts(clientID string, days int) ([]TrendPoint, error)
	RiskyTitles(clientID string, from time.Time, limit int) ([]string, error)
}

// BlacklistStore answers which sources are excluded from ingestion.
type BlacklistStore interface {
	ListSources() ([]string, error)
}

// Scorer turns text into a sentiment score in [-1, 1]. Implementations may
// substitute a statistical or model-based scorer; only the numeric output is
// consumed.
type Scorer interface {
	Score(text string) float64
}
