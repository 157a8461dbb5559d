package character

import (
	"context"
	"sync"

	"github.com/KirkDiggler/rpg-encounter/internal/entities"
	"github.com/KirkDiggler/rpg-encounter/internal/errors"
	"github.com/KirkDiggler/rpg-encounter/internal/pkg/clock"
)

// InMemoryRepository implements Repository for tests and single-process runs
type InMemoryRepository struct {
	mu     sync.RWMutex
	store  map[string]*entities.Actor
	byGame map[string][]string
	clock  clock.Clock
}

// NewInMemory creates a new in-memory repository
func NewInMemory(c clock.Clock) *InMemoryRepository {
	if c == nil {
		c = clock.New()
	}
	return &InMemoryRepository{
		store:  make(map[string]*entities.Actor),
		byGame: make(map[string][]string),
		clock:  c,
	}
}

// Create stores a new actor
func (r *InMemoryRepository) Create(_ context.Context, input CreateInput) (*CreateOutput, error) {
	if err := validateActor(input.Actor); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.store[input.Actor.ID]; exists {
		return nil, errors.AlreadyExistsf("actor with ID %s already exists", input.Actor.ID)
	}

	actor := input.Actor.Clone()
	now := r.clock.Now().Unix()
	actor.CreatedAt = now
	actor.UpdatedAt = now

	r.store[actor.ID] = actor
	if actor.GameID != "" {
		r.byGame[actor.GameID] = append(r.byGame[actor.GameID], actor.ID)
	}

	return &CreateOutput{Actor: actor.Clone()}, nil
}

// Get retrieves an actor by ID
func (r *InMemoryRepository) Get(_ context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errActorIDEmpty)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	actor, exists := r.store[input.ID]
	if !exists {
		return nil, errors.ActorNotFound(input.ID)
	}

	// Return a copy to prevent external modification
	return &GetOutput{Actor: actor.Clone()}, nil
}

// Update replaces an existing actor
func (r *InMemoryRepository) Update(_ context.Context, input UpdateInput) (*UpdateOutput, error) {
	if err := validateActor(input.Actor); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.store[input.Actor.ID]
	if !exists {
		return nil, errors.ActorNotFound(input.Actor.ID)
	}

	actor := input.Actor.Clone()
	actor.CreatedAt = existing.CreatedAt
	actor.UpdatedAt = r.clock.Now().Unix()

	if existing.GameID != actor.GameID {
		r.byGame[existing.GameID] = removeID(r.byGame[existing.GameID], actor.ID)
		if actor.GameID != "" {
			r.byGame[actor.GameID] = append(r.byGame[actor.GameID], actor.ID)
		}
	}
	r.store[actor.ID] = actor

	return &UpdateOutput{Actor: actor.Clone()}, nil
}

// UpdateHP sets current hit points, clamped to [0, hpMax]
func (r *InMemoryRepository) UpdateHP(_ context.Context, input UpdateHPInput) (*UpdateHPOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errActorIDEmpty)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	actor, exists := r.store[input.ID]
	if !exists {
		return nil, errors.ActorNotFound(input.ID)
	}

	clampHP(actor, input.HPCurrent)
	actor.UpdatedAt = r.clock.Now().Unix()

	return &UpdateHPOutput{Actor: actor.Clone()}, nil
}

// ListByGameID returns the actors of one game in insertion order
func (r *InMemoryRepository) ListByGameID(
	_ context.Context,
	input ListByGameIDInput,
) (*ListByGameIDOutput, error) {
	if input.GameID == "" {
		return nil, errors.InvalidArgument(errGameIDEmpty)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.byGame[input.GameID]
	actors := make([]*entities.Actor, 0, len(ids))
	for _, id := range ids {
		if input.Limit > 0 && len(actors) >= input.Limit {
			break
		}
		if actor, ok := r.store[id]; ok {
			actors = append(actors, actor.Clone())
		}
	}

	return &ListByGameIDOutput{Actors: actors}, nil
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
