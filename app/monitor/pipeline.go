package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Pipeline orchestrates one ingestion batch: fingerprint and dedup into the
// global pool, evaluate every active client against every item, persist
// matched mentions and collect alerts. It is safe to re-run a batch; the
// dedup checks make re-ingestion idempotent.
type Pipeline struct {
	clients     ClientStore
	mentions    MentionStore
	blacklist   BlacklistStore
	matcher     *Matcher
	classifier  *Classifier
	scorer      Scorer
	lexicon     *Lexicon
	workerCount int
}

func NewPipeline(clients ClientStore, mentions MentionStore, blacklist BlacklistStore,
	scorer Scorer, lexicon *Lexicon, workerCount int) *Pipeline {
	if workerCount < 1 {
		workerCount = 1
	}
	return &Pipeline{
		clients:     clients,
		mentions:    mentions,
		blacklist:   blacklist,
		matcher:     NewMatcher(),
		classifier:  NewClassifier(lexicon),
		scorer:      scorer,
		lexicon:     lexicon,
		workerCount: workerCount,
	}
}

// Ingest processes one harvested batch to completion. A failure on a single
// item is logged and skipped; it never aborts the remaining batch. The
// returned error covers only batch-level failures (loading the client
// snapshot or the blacklist).
func (p *Pipeline) Ingest(ctx context.Context, batch []RawItem) (IngestResult, error) {
	result := IngestResult{Alerts: []Alert{}}

	// Configuration snapshot, read-shared for the whole batch. Clients are
	// not expected to change mid-batch.
	activeClients, err := p.clients.ListActive()
	if err != nil {
		return result, fmt.Errorf("failed to load active clients: %w", err)
	}

	blocked, err := p.blockedSources()
	if err != nil {
		return result, fmt.Errorf("failed to load source blacklist: %w", err)
	}

	for _, item := range batch {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if blocked[item.Source] {
			slog.Debug("Source blacklisted, skipping item", "source", item.Source, "url", item.URL)
			continue
		}

		if err := p.processItem(item, activeClients, &result); err != nil {
			slog.Error("Item processing failed, continuing batch", "url", item.URL, "error", err)
		}
	}

	return result, nil
}

func (p *Pipeline) processItem(item RawItem, clients []ClientConfig, result *IngestResult) error {
	text := item.Text()
	hash := Fingerprint(text)
	sentiment := p.scorer.Score(text)

	publishTime := time.Unix(item.PublishTime, 0).UTC()
	if item.PublishTime <= 0 {
		publishTime = time.Now().UTC()
	}

	if err := p.dedupGlobal(item, text, hash, sentiment, publishTime); err != nil {
		return err
	}

	// Matching a single item against all clients is read-only against the
	// snapshot; fan it out across a bounded worker pool. Persistence below
	// stays serialized to honor the uniqueness invariants.
	matches := make([]*MatchResult, len(clients))
	sem := make(chan struct{}, p.workerCount)
	var wg sync.WaitGroup
	for i := range clients {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			matches[i] = p.matcher.Run(text, clients[i])
		}(i)
	}
	wg.Wait()

	for i, match := range matches {
		if match == nil {
			continue
		}
		client := clients[i]

		exists, err := p.mentions.HasClientMention(client.ID, item.URL)
		if err != nil {
			slog.Error("Client dedup check failed", "client", client.Name, "url", item.URL, "error", err)
			continue
		}
		if exists {
			continue
		}

		level, reason := p.classifier.Run(text, match, p.lexicon.SourceWeight(item.Source), sentiment)
		detail, err := json.Marshal(BuildMatchDetail(match, reason))
		if err != nil {
			slog.Error("Failed to marshal match detail", "client", client.Name, "error", err)
			continue
		}

		inserted, err := p.mentions.Insert(Mention{
			ClientID:       client.ID,
			Source:         item.Source,
			Title:          item.Title,
			ContentText:    string(item.Summary),
			URL:            item.URL,
			PublishTime:    publishTime,
			SentimentScore: sentiment,
			RiskLevel:      level,
			MatchDetail:    string(detail),
			CleanStatus:    CleanStatusUncleaned,
			ContentHash:    hash,
		})
		if err != nil {
			slog.Error("Failed to persist client mention", "client", client.Name, "url", item.URL, "error", err)
			continue
		}
		if !inserted {
			// Raced against a concurrent writer; the row exists now, which
			// is exactly the state the invariant needs.
			continue
		}

		result.ProcessedCount++

		if level >= RiskWarning {
			result.Alerts = append(result.Alerts, Alert{
				Client: client.Name,
				Level:  level,
				Title:  item.Title,
				Reason: reason,
			})
		}
	}

	return nil
}

// dedupGlobal maintains the global pool: uniqueness first by url, then by
// content hash. A hash duplicate under a new url is still inserted, flagged
// is_duplicate, so volume metrics can reflect the noise.
func (p *Pipeline) dedupGlobal(item RawItem, text, hash string, sentiment float64, publishTime time.Time) error {
	byURL, err := p.mentions.GetGlobalByURL(item.URL)
	if err != nil {
		return fmt.Errorf("failed to check global url dedup: %w", err)
	}
	if byURL != nil {
		return nil
	}

	isDuplicate := false
	byHash, err := p.mentions.GetGlobalByHash(hash)
	if err != nil {
		return fmt.Errorf("failed to check global hash dedup: %w", err)
	}
	if byHash != nil {
		isDuplicate = true
	}

	inserted, err := p.mentions.Insert(Mention{
		Source:         item.Source,
		Title:          item.Title,
		ContentText:    string(item.Summary),
		URL:            item.URL,
		PublishTime:    publishTime,
		SentimentScore: sentiment,
		RiskLevel:      RiskPositive,
		MatchDetail:    "{}",
		CleanStatus:    CleanStatusUncleaned,
		ContentHash:    hash,
		IsDuplicate:    isDuplicate,
	})
	if err != nil {
		return fmt.Errorf("failed to insert global mention: %w", err)
	}
	if !inserted {
		// A concurrent writer inserted the same url between the check and
		// the insert; treat as duplicate, which a re-check would confirm.
		slog.Debug("Global insert raced, treating as duplicate", "url", item.URL)
	}

	return nil
}

// Rescan re-evaluates the recent global pool against a single client. Used
// after a client configuration change so existing coverage reflects the new
// keywords and rules. Returns the number of newly attributed mentions.
func (p *Pipeline) Rescan(ctx context.Context, clientID string, window time.Duration, limit int) (int, error) {
	client, err := p.clients.GetByID(clientID)
	if err != nil {
		return 0, fmt.Errorf("failed to load client: %w", err)
	}
	if client == nil {
		return 0, ErrClientNotFound
	}
	if client.Status != StatusActive {
		// Disabling removes a client from matching without deleting history.
		return 0, nil
	}

	pool, err := p.mentions.ListGlobalSince(time.Now().UTC().Add(-window), limit)
	if err != nil {
		return 0, fmt.Errorf("failed to load global pool: %w", err)
	}

	attributed := 0
	for _, m := range pool {
		select {
		case <-ctx.Done():
			return attributed, ctx.Err()
		default:
		}

		text := m.Title + " " + m.ContentText
		match := p.matcher.Run(text, *client)
		if match == nil {
			continue
		}

		exists, err := p.mentions.HasClientMention(client.ID, m.URL)
		if err != nil {
			slog.Error("Client dedup check failed during rescan", "client", client.Name, "url", m.URL, "error", err)
			continue
		}
		if exists {
			continue
		}

		level, reason := p.classifier.Run(text, match, p.lexicon.SourceWeight(m.Source), m.SentimentScore)
		detail, err := json.Marshal(BuildMatchDetail(match, reason))
		if err != nil {
			slog.Error("Failed to marshal match detail", "client", client.Name, "error", err)
			continue
		}

		inserted, err := p.mentions.Insert(Mention{
			ClientID:       client.ID,
			Source:         m.Source,
			Title:          m.Title,
			ContentText:    m.ContentText,
			URL:            m.URL,
			PublishTime:    m.PublishTime,
			SentimentScore: m.SentimentScore,
			RiskLevel:      level,
			MatchDetail:    string(detail),
			CleanStatus:    CleanStatusUncleaned,
			ContentHash:    m.ContentHash,
		})
		if err != nil {
			slog.Error("Failed to persist rescanned mention", "client", client.Name, "url", m.URL, "error", err)
			continue
		}
		if inserted {
			attributed++
		}
	}

	return attributed, nil
}

func (p *Pipeline) blockedSources() (map[string]bool, error) {
	sources, err := p.blacklist.ListSources()
	if err != nil {
		return nil, err
	}
	blocked := make(map[string]bool, len(sources))
	for _, s := range sources {
		blocked[s] = true
	}
	return blocked, nil
}
