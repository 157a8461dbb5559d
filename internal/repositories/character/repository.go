// Package character provides the interface for actor persistence
package character

//go:generate mockgen -destination=mock/mock_repository.go -package=charactermock github.com/KirkDiggler/rpg-encounter/internal/repositories/character Repository

import (
	"context"

	"github.com/KirkDiggler/rpg-encounter/internal/entities"
	"github.com/KirkDiggler/rpg-encounter/internal/errors"
)

// Repository defines the interface for actor persistence
type Repository interface {
	// Create stores a new actor
	// Returns errors.InvalidArgument for validation failures
	// Returns errors.AlreadyExists if an actor with the same ID exists
	// Returns errors.Internal for storage failures
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves an actor by ID
	// Returns errors.InvalidArgument for empty IDs
	// Returns errors.NotFound with ReasonActorNotFound if the actor doesn't exist
	// Returns errors.Internal for storage failures
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Update replaces an existing actor
	// Returns errors.InvalidArgument for validation failures
	// Returns errors.NotFound with ReasonActorNotFound if the actor doesn't exist
	// Returns errors.Internal for storage failures
	Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error)

	// UpdateHP sets current hit points, clamped to [0, hpMax]
	// Returns errors.NotFound with ReasonActorNotFound if the actor doesn't exist
	// Returns errors.Internal for storage failures
	UpdateHP(ctx context.Context, input UpdateHPInput) (*UpdateHPOutput, error)

	// ListByGameID returns the actors of one game in insertion order
	// Returns errors.InvalidArgument for empty game IDs
	// Returns errors.Internal for storage failures
	ListByGameID(ctx context.Context, input ListByGameIDInput) (*ListByGameIDOutput, error)
}

// CreateInput defines the input for creating an actor
type CreateInput struct {
	Actor *entities.Actor
}

// CreateOutput defines the output for creating an actor
type CreateOutput struct {
	Actor *entities.Actor
}

// GetInput defines the input for getting an actor
type GetInput struct {
	ID string
}

// GetOutput defines the output for getting an actor
type GetOutput struct {
	Actor *entities.Actor
}

// UpdateInput defines the input for updating an actor
type UpdateInput struct {
	Actor *entities.Actor
}

// UpdateOutput defines the output for updating an actor
type UpdateOutput struct {
	Actor *entities.Actor
}

// UpdateHPInput defines the input for a hit point write
type UpdateHPInput struct {
	ID        string
	HPCurrent int
}

// UpdateHPOutput defines the output for a hit point write
type UpdateHPOutput struct {
	Actor *entities.Actor
}

// ListByGameIDInput defines the input for listing a game's actors
type ListByGameIDInput struct {
	GameID string
	// Limit caps the result; zero means no limit
	Limit int
}

// ListByGameIDOutput defines the output for listing a game's actors
type ListByGameIDOutput struct {
	Actors []*entities.Actor
}

const (
	errActorNil     = "actor cannot be nil"
	errActorIDEmpty = "actor ID cannot be empty"
	errGameIDEmpty  = "game ID cannot be empty"
)

func validateActor(actor *entities.Actor) error {
	if actor == nil {
		return errors.InvalidArgument(errActorNil)
	}
	if actor.ID == "" {
		return errors.InvalidArgument(errActorIDEmpty)
	}
	return nil
}

func clampHP(actor *entities.Actor, hp int) {
	actor.HPCurrent = max(0, min(hp, actor.HPMax))
}
