// Package encounters provides storage for encounter turn state
package encounters

//go:generate mockgen -destination=mock/mock_repository.go -package=encountermock github.com/KirkDiggler/rpg-encounter/internal/repositories/encounters Repository

import (
	"context"

	"github.com/KirkDiggler/rpg-encounter/internal/entities"
	"github.com/KirkDiggler/rpg-encounter/internal/errors"
)

// Repository defines the storage interface for encounters
type Repository interface {
	// Create stores a new encounter
	// Returns errors.InvalidArgument for validation failures
	// Returns errors.AlreadyExists if the ID is taken
	Create(ctx context.Context, input *CreateInput) (*CreateOutput, error)

	// Get retrieves an encounter by ID
	// Returns errors.NotFound with ReasonEncounterNotFound if it doesn't exist
	Get(ctx context.Context, input *GetInput) (*GetOutput, error)

	// Update replaces an encounter. When ExpectedRoundIndex is set the write
	// only happens if the stored pointer still matches it.
	// Returns errors.NotFound with ReasonEncounterNotFound if it doesn't exist
	// Returns errors.Aborted with ReasonPointerConflict on a pointer mismatch
	// Returns errors.FailedPrecondition with ReasonEncounterEnded when the
	// stored encounter has ended and the write would reopen it
	Update(ctx context.Context, input *UpdateInput) (*UpdateOutput, error)
}

// CreateInput defines the request for storing an encounter
type CreateInput struct {
	Encounter *entities.Encounter
}

// CreateOutput defines the response for storing an encounter
type CreateOutput struct {
	Encounter *entities.Encounter
}

// GetInput defines the request for retrieving an encounter
type GetInput struct {
	EncounterID string
}

// GetOutput defines the response for retrieving an encounter
type GetOutput struct {
	Encounter *entities.Encounter
}

// UpdateInput defines the request for updating an encounter
type UpdateInput struct {
	Encounter *entities.Encounter
	// ExpectedRoundIndex guards the turn pointer (optional)
	ExpectedRoundIndex *int
}

// UpdateOutput defines the response for updating an encounter
type UpdateOutput struct {
	Encounter *entities.Encounter
}

func validateEncounter(enc *entities.Encounter) error {
	if enc == nil {
		return errors.InvalidArgument("encounter is required")
	}
	if enc.ID == "" {
		return errors.InvalidArgument("encounter ID is required")
	}
	if enc.RoundIndex < 0 {
		return errors.InvalidArgumentf("round index %d must not be negative", enc.RoundIndex)
	}
	return nil
}

// checkUpdate guards a write against the stored record. Ended is terminal.
func checkUpdate(existing *entities.Encounter, input *UpdateInput) error {
	if existing.State == entities.EncounterStateEnded && input.Encounter.State != entities.EncounterStateEnded {
		return errors.EncounterEnded(existing.ID)
	}
	if input.ExpectedRoundIndex != nil && existing.RoundIndex != *input.ExpectedRoundIndex {
		return errors.PointerConflict(existing.ID, *input.ExpectedRoundIndex, existing.RoundIndex)
	}
	return nil
}
