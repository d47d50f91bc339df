package harvest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Tech News</title>
    <item>
      <title>AcmeTech releases new phone</title>
      <link>https://example.com/a</link>
      <description>Launch event summary</description>
      <pubDate>Mon, 01 Sep 2025 10:00:00 GMT</pubDate>
    </item>
    <item>
      <title>No link item</title>
      <description>Should be skipped</description>
    </item>
    <item>
      <title>Market overview</title>
      <link>https://example.com/b</link>
    </item>
  </channel>
</rss>`

func TestHarvester_Run(t *testing.T) {
	var gotUserAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(sampleRSS))
	}))
	defer server.Close()

	harvester := NewHarvester(server.Client(), "Radar AI/test")

	items, err := harvester.Run(context.Background(), Source{Name: "Tech News", URL: server.URL})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if gotUserAgent != "Radar AI/test" {
		t.Errorf("Expected configured user agent, got %q", gotUserAgent)
	}

	// The item without a link is dropped.
	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(items))
	}

	first := items[0]
	if first.Title != "AcmeTech releases new phone" {
		t.Errorf("Unexpected title: %q", first.Title)
	}
	if first.URL != "https://example.com/a" {
		t.Errorf("Unexpected url: %q", first.URL)
	}
	if first.Source != "Tech News" {
		t.Errorf("Expected items attributed to the source name, got %q", first.Source)
	}
	if string(first.Summary) != "Launch event summary" {
		t.Errorf("Unexpected summary: %q", first.Summary)
	}
	if first.PublishTime == 0 {
		t.Error("Expected parsed publish time")
	}

	if items[1].PublishTime != 0 {
		t.Errorf("Expected zero publish time when pubDate is missing, got %d", items[1].PublishTime)
	}
}

func TestHarvester_Run_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	harvester := NewHarvester(server.Client(), "Radar AI/test")

	if _, err := harvester.Run(context.Background(), Source{Name: "broken", URL: server.URL}); err == nil {
		t.Error("Expected error for non-200 response")
	}
}

func TestHarvester_Run_InvalidFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not xml at all"))
	}))
	defer server.Close()

	harvester := NewHarvester(server.Client(), "Radar AI/test")

	if _, err := harvester.Run(context.Background(), Source{Name: "broken", URL: server.URL}); err == nil {
		t.Error("Expected error for unparseable feed")
	}
}

func TestLoadSources(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.yml")
	content := `sources:
  - name: Tech News
    url: https://example.com/feed
  - name: 36氪
    url: https://36kr.com/feed
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	sources, err := LoadSources(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(sources) != 2 {
		t.Fatalf("Expected 2 sources, got %d", len(sources))
	}
	if sources[0].Name != "Tech News" || sources[0].URL != "https://example.com/feed" {
		t.Errorf("Unexpected source: %+v", sources[0])
	}
}

func TestLoadSources_MissingField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.yml")
	if err := os.WriteFile(path, []byte("sources:\n  - name: incomplete\n"), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	if _, err := LoadSources(path); err == nil {
		t.Error("Expected error for source without url")
	}
}

func TestLoadSources_MissingFile(t *testing.T) {
	if _, err := LoadSources("/nonexistent/sources.yml"); err == nil {
		t.Error("Expected error for missing file")
	}
}
