package monitor

import (
	"errors"
	"testing"
)

type fakeClientStore struct {
	clients map[string]ClientConfig
}

func newFakeClientStore() *fakeClientStore {
	return &fakeClientStore{clients: make(map[string]ClientConfig)}
}

func (s *fakeClientStore) Insert(c ClientConfig) error {
	s.clients[c.ID] = c
	return nil
}

func (s *fakeClientStore) Update(c ClientConfig) error {
	if _, ok := s.clients[c.ID]; !ok {
		return ErrClientNotFound
	}
	s.clients[c.ID] = c
	return nil
}

func (s *fakeClientStore) Delete(clientID string) error {
	if _, ok := s.clients[clientID]; !ok {
		return ErrClientNotFound
	}
	delete(s.clients, clientID)
	return nil
}

func (s *fakeClientStore) GetByID(clientID string) (*ClientConfig, error) {
	if c, ok := s.clients[clientID]; ok {
		return &c, nil
	}
	return nil, nil
}

func (s *fakeClientStore) GetByName(name string) (*ClientConfig, error) {
	for _, c := range s.clients {
		if c.Name == name {
			return &c, nil
		}
	}
	return nil, nil
}

func (s *fakeClientStore) List() ([]ClientConfig, error) {
	out := make([]ClientConfig, 0, len(s.clients))
	for _, c := range s.clients {
		out = append(out, c)
	}
	return out, nil
}

func (s *fakeClientStore) ListActive() ([]ClientConfig, error) {
	var out []ClientConfig
	for _, c := range s.clients {
		if c.Status == StatusActive {
			out = append(out, c)
		}
	}
	return out, nil
}

func TestRegistry_Create(t *testing.T) {
	registry := NewRegistry(newFakeClientStore())

	id, err := registry.Create("AcmeTech", "consumer electronics", MatchLogic{
		BrandKeywords: []string{"acmetech"},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if id == "" {
		t.Fatal("Expected a generated client id")
	}

	client, err := registry.Get(id)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if client.Name != "AcmeTech" {
		t.Errorf("Expected name 'AcmeTech', got %q", client.Name)
	}
	if client.Status != StatusActive {
		t.Errorf("Expected new client to be active, got status %d", client.Status)
	}
}

func TestRegistry_Create_DuplicateName(t *testing.T) {
	registry := NewRegistry(newFakeClientStore())

	if _, err := registry.Create("AcmeTech", "", MatchLogic{}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	_, err := registry.Create("AcmeTech", "", MatchLogic{})
	if !errors.Is(err, ErrDuplicateName) {
		t.Errorf("Expected ErrDuplicateName, got %v", err)
	}
}

func TestRegistry_Create_InvalidRule(t *testing.T) {
	registry := NewRegistry(newFakeClientStore())

	tests := []struct {
		name string
		rule AdvancedRule
	}{
		{"empty must_contain", AdvancedRule{Name: "r", NearbyWords: []string{"x"}, MaxDistance: 10, RiskLevel: 2}},
		{"non-positive distance", AdvancedRule{Name: "r", MustContain: []string{"a"}, NearbyWords: []string{"x"}, MaxDistance: 0, RiskLevel: 2}},
		{"risk out of range", AdvancedRule{Name: "r", MustContain: []string{"a"}, NearbyWords: []string{"x"}, MaxDistance: 10, RiskLevel: 4}},
	}

	for _, tt := range tests {
		_, err := registry.Create("Client-"+tt.name, "", MatchLogic{AdvancedRules: []AdvancedRule{tt.rule}})
		if !errors.Is(err, ErrInvalidRule) {
			t.Errorf("%s: expected ErrInvalidRule, got %v", tt.name, err)
		}
	}
}

func TestRegistry_Update_ByID(t *testing.T) {
	registry := NewRegistry(newFakeClientStore())

	id, err := registry.Create("AcmeTech", "", MatchLogic{BrandKeywords: []string{"acmetech"}})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	industry := "automotive"
	client, err := registry.Update(id, "", ClientPatch{Industry: &industry})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if client.Industry != "automotive" {
		t.Errorf("Expected updated industry, got %q", client.Industry)
	}
	if len(client.BrandKeywords) != 1 {
		t.Errorf("Expected untouched brand keywords, got %v", client.BrandKeywords)
	}
}

func TestRegistry_Update_ByNameFallback(t *testing.T) {
	registry := NewRegistry(newFakeClientStore())

	id, err := registry.Create("AcmeTech", "", MatchLogic{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	status := StatusDisabled
	client, err := registry.Update("", "AcmeTech", ClientPatch{Status: &status})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if client.ID != id {
		t.Errorf("Expected name lookup to resolve the same client, got %q", client.ID)
	}
	if client.Status != StatusDisabled {
		t.Errorf("Expected disabled status, got %d", client.Status)
	}
}

func TestRegistry_Update_NotFound(t *testing.T) {
	registry := NewRegistry(newFakeClientStore())

	_, err := registry.Update("missing", "", ClientPatch{})
	if !errors.Is(err, ErrClientNotFound) {
		t.Errorf("Expected ErrClientNotFound, got %v", err)
	}
}

func TestRegistry_Update_NameCollision(t *testing.T) {
	registry := NewRegistry(newFakeClientStore())

	if _, err := registry.Create("AcmeTech", "", MatchLogic{}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	id, err := registry.Create("OtherCorp", "", MatchLogic{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	name := "AcmeTech"
	_, err = registry.Update(id, "", ClientPatch{Name: &name})
	if !errors.Is(err, ErrDuplicateName) {
		t.Errorf("Expected ErrDuplicateName on rename collision, got %v", err)
	}
}

func TestRegistry_Delete_NotFound(t *testing.T) {
	registry := NewRegistry(newFakeClientStore())

	err := registry.Delete("missing")
	if !errors.Is(err, ErrClientNotFound) {
		t.Errorf("Expected ErrClientNotFound, got %v", err)
	}
}
