package encounters

import (
	"context"
	"sync"

	"github.com/KirkDiggler/rpg-encounter/internal/entities"
	"github.com/KirkDiggler/rpg-encounter/internal/errors"
	"github.com/KirkDiggler/rpg-encounter/internal/pkg/clock"
)

// InMemoryRepository implements Repository using in-memory storage
type InMemoryRepository struct {
	mu    sync.RWMutex
	store map[string]*entities.Encounter
	clock clock.Clock
}

// NewInMemory creates a new in-memory repository
func NewInMemory(c clock.Clock) *InMemoryRepository {
	if c == nil {
		c = clock.New()
	}
	return &InMemoryRepository{
		store: make(map[string]*entities.Encounter),
		clock: c,
	}
}

// Create stores an encounter
func (r *InMemoryRepository) Create(_ context.Context, input *CreateInput) (*CreateOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := validateEncounter(input.Encounter); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.store[input.Encounter.ID]; exists {
		return nil, errors.AlreadyExistsf("encounter %s already exists", input.Encounter.ID)
	}

	enc := input.Encounter.Clone()
	now := r.clock.Now().Unix()
	enc.CreatedAt = now
	enc.UpdatedAt = now
	r.store[enc.ID] = enc

	return &CreateOutput{Encounter: enc.Clone()}, nil
}

// Get retrieves an encounter by ID
func (r *InMemoryRepository) Get(_ context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.EncounterID == "" {
		return nil, errors.InvalidArgument("encounter ID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	enc, exists := r.store[input.EncounterID]
	if !exists {
		return nil, errors.EncounterNotFound(input.EncounterID)
	}

	// Return a copy to prevent external modification
	return &GetOutput{Encounter: enc.Clone()}, nil
}

// Update replaces an encounter, checking the turn pointer when asked
func (r *InMemoryRepository) Update(_ context.Context, input *UpdateInput) (*UpdateOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := validateEncounter(input.Encounter); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.store[input.Encounter.ID]
	if !exists {
		return nil, errors.EncounterNotFound(input.Encounter.ID)
	}
	if err := checkUpdate(existing, input); err != nil {
		return nil, err
	}

	enc := input.Encounter.Clone()
	enc.CreatedAt = existing.CreatedAt
	enc.UpdatedAt = r.clock.Now().Unix()
	r.store[enc.ID] = enc

	return &UpdateOutput{Encounter: enc.Clone()}, nil
}
