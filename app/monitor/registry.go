package monitor

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Registry manages per-client matching configuration. All writes are
// validated here, so readers can trust stored rules without re-checking.
type Registry struct {
	store ClientStore
}

func NewRegistry(store ClientStore) *Registry {
	return &Registry{store: store}
}

// Create registers a new client and returns its generated id. Names must be
// unique; a collision is rejected with ErrDuplicateName and no state change.
func (r *Registry) Create(name, industry string, logic MatchLogic) (string, error) {
	if name == "" {
		return "", fmt.Errorf("client name is required")
	}
	if err := validateLogic(logic); err != nil {
		return "", err
	}

	existing, err := r.store.GetByName(name)
	if err != nil {
		return "", fmt.Errorf("failed to check existing client: %w", err)
	}
	if existing != nil {
		return "", fmt.Errorf("client %q: %w", name, ErrDuplicateName)
	}

	now := time.Now().UTC()
	client := ClientConfig{
		ID:              uuid.NewString(),
		Name:            name,
		Industry:        industry,
		Status:          StatusActive,
		BrandKeywords:   logic.BrandKeywords,
		ExcludeKeywords: logic.ExcludeKeywords,
		AdvancedRules:   logic.AdvancedRules,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := r.store.Insert(client); err != nil {
		return "", fmt.Errorf("failed to insert client: %w", err)
	}

	return client.ID, nil
}

// Update applies a patch to an existing client. The target is resolved by id
// first, falling back to exact name match only when no id is supplied, so
// upserts from a form that does not yet know the generated id stay
// idempotent.
func (r *Registry) Update(clientID, name string, patch ClientPatch) (*ClientConfig, error) {
	client, err := r.resolve(clientID, name)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil && *patch.Name != client.Name {
		other, err := r.store.GetByName(*patch.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to check name collision: %w", err)
		}
		if other != nil && other.ID != client.ID {
			return nil, fmt.Errorf("client %q: %w", *patch.Name, ErrDuplicateName)
		}
		client.Name = *patch.Name
	}
	if patch.Industry != nil {
		client.Industry = *patch.Industry
	}
	if patch.Status != nil {
		if *patch.Status != StatusActive && *patch.Status != StatusDisabled {
			return nil, fmt.Errorf("invalid status %d", *patch.Status)
		}
		client.Status = *patch.Status
	}
	if patch.Logic != nil {
		if err := validateLogic(*patch.Logic); err != nil {
			return nil, err
		}
		client.BrandKeywords = patch.Logic.BrandKeywords
		client.ExcludeKeywords = patch.Logic.ExcludeKeywords
		client.AdvancedRules = patch.Logic.AdvancedRules
	}

	client.UpdatedAt = time.Now().UTC()

	if err := r.store.Update(*client); err != nil {
		return nil, fmt.Errorf("failed to update client: %w", err)
	}

	return client, nil
}

// Delete removes a client and cascades to its mentions, matching the
// reference behavior of deleting classification history outright.
func (r *Registry) Delete(clientID string) error {
	client, err := r.store.GetByID(clientID)
	if err != nil {
		return fmt.Errorf("failed to get client: %w", err)
	}
	if client == nil {
		return fmt.Errorf("client %q: %w", clientID, ErrClientNotFound)
	}

	if err := r.store.Delete(clientID); err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}

	return nil
}

func (r *Registry) Get(clientID string) (*ClientConfig, error) {
	client, err := r.store.GetByID(clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	if client == nil {
		return nil, fmt.Errorf("client %q: %w", clientID, ErrClientNotFound)
	}
	return client, nil
}

func (r *Registry) List() ([]ClientConfig, error) {
	clients, err := r.store.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, nil
}

func (r *Registry) resolve(clientID, name string) (*ClientConfig, error) {
	if clientID != "" {
		client, err := r.store.GetByID(clientID)
		if err != nil {
			return nil, fmt.Errorf("failed to get client: %w", err)
		}
		if client == nil {
			return nil, fmt.Errorf("client %q: %w", clientID, ErrClientNotFound)
		}
		return client, nil
	}

	if name != "" {
		client, err := r.store.GetByName(name)
		if err != nil {
			return nil, fmt.Errorf("failed to get client by name: %w", err)
		}
		if client == nil {
			return nil, fmt.Errorf("client %q: %w", name, ErrClientNotFound)
		}
		return client, nil
	}

	return nil, fmt.Errorf("client id or name is required: %w", ErrClientNotFound)
}

func validateLogic(logic MatchLogic) error {
	for i, rule := range logic.AdvancedRules {
		if len(rule.MustContain) == 0 {
			return fmt.Errorf("rule %d (%s) has no must_contain terms: %w", i, rule.Name, ErrInvalidRule)
		}
		if rule.MaxDistance <= 0 {
			return fmt.Errorf("rule %d (%s) has non-positive max_distance: %w", i, rule.Name, ErrInvalidRule)
		}
		if rule.RiskLevel < RiskPositive || rule.RiskLevel > RiskCritical {
			return fmt.Errorf("rule %d (%s) has risk_level outside 0..3: %w", i, rule.Name, ErrInvalidRule)
		}
	}
	return nil
}
