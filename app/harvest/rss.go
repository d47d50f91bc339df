package harvest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/2008zhum-boop/radar-ai/app/monitor"
)

const fetchTimeout = 30 * time.Second

// Harvester fetches RSS/Atom feeds and converts their entries into raw items
// for the ingestion pipeline.
type Harvester struct {
	httpClient   *http.Client
	gofeedParser *gofeed.Parser
	userAgent    string
}

func NewHarvester(httpClient *http.Client, userAgent string) *Harvester {
	return &Harvester{
		httpClient:   httpClient,
		gofeedParser: gofeed.NewParser(),
		userAgent:    userAgent,
	}
}

// Run fetches the feed at src.URL and returns its entries attributed to
// src.Name.
func (h *Harvester) Run(ctx context.Context, src Source) ([]monitor.RawItem, error) {
	data, err := h.fetch(ctx, src.URL)
	if err != nil {
		return nil, err
	}
	return h.parse(data, src.Name)
}

func (h *Harvester) fetch(ctx context.Context, url string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", h.userAgent)

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected HTTP status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read feed body: %w", err)
	}

	return data, nil
}

func (h *Harvester) parse(data []byte, sourceName string) ([]monitor.RawItem, error) {
	feed, err := h.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	items := make([]monitor.RawItem, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil || item.Link == "" {
			continue
		}

		raw := monitor.RawItem{
			Title:   item.Title,
			Summary: monitor.SummaryText(item.Description),
			Source:  sourceName,
			URL:     item.Link,
		}

		if item.PublishedParsed != nil {
			raw.PublishTime = item.PublishedParsed.Unix()
		}

		items = append(items, raw)
	}

	return items, nil
}
