package database

import (
	"testing"

	"github.com/2008zhum-boop/radar-ai/app/monitor"
)

func TestBlacklistRepository_AddListRemove(t *testing.T) {
	repo := NewBlacklistRepository(setupTestDB(t))

	err := repo.Add(monitor.BlacklistedSource{
		SourceName: "spamsite",
		Category:   "content farm",
		Reason:     "low quality reposts",
		AddedBy:    "ops",
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	sources, err := repo.List()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(sources) != 1 || sources[0].SourceName != "spamsite" {
		t.Fatalf("Unexpected list: %+v", sources)
	}
	if sources[0].Category != "content farm" {
		t.Errorf("Expected category roundtrip, got %q", sources[0].Category)
	}

	names, err := repo.ListSources()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(names) != 1 || names[0] != "spamsite" {
		t.Errorf("Unexpected names: %v", names)
	}

	if err := repo.Remove("spamsite"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	names, err = repo.ListSources()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("Expected empty blacklist after removal, got %v", names)
	}
}

func TestBlacklistRepository_Add_Upsert(t *testing.T) {
	repo := NewBlacklistRepository(setupTestDB(t))

	if err := repo.Add(monitor.BlacklistedSource{SourceName: "spamsite", Reason: "first"}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := repo.Add(monitor.BlacklistedSource{SourceName: "spamsite", Reason: "second"}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	sources, err := repo.List()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(sources) != 1 {
		t.Fatalf("Expected a single row after re-adding, got %d", len(sources))
	}
	if sources[0].Reason != "second" {
		t.Errorf("Expected refreshed reason, got %q", sources[0].Reason)
	}
}

func TestBlacklistRepository_Remove_Missing(t *testing.T) {
	repo := NewBlacklistRepository(setupTestDB(t))

	if err := repo.Remove("unknown"); err == nil {
		t.Error("Expected error removing a source that is not blacklisted")
	}
}
