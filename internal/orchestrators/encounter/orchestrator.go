// Package encounter runs the encounter state machine: initiative, turn
// advancement and the NPC decide-then-resolve loop.
package encounter

//go:generate mockgen -destination=mock/mock_service.go -package=encountermock github.com/KirkDiggler/rpg-encounter/internal/orchestrators/encounter Service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/rpg-encounter/internal/content"
	"github.com/KirkDiggler/rpg-encounter/internal/engine/combat"
	"github.com/KirkDiggler/rpg-encounter/internal/engine/initiative"
	"github.com/KirkDiggler/rpg-encounter/internal/engine/variants"
	"github.com/KirkDiggler/rpg-encounter/internal/entities"
	"github.com/KirkDiggler/rpg-encounter/internal/errors"
	"github.com/KirkDiggler/rpg-encounter/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-encounter/internal/pkg/rng"
	"github.com/KirkDiggler/rpg-encounter/internal/repositories/character"
	"github.com/KirkDiggler/rpg-encounter/internal/repositories/encounters"
	"github.com/KirkDiggler/rpg-encounter/internal/services/decision"
)

// OptionsPath is where player turn menus are served
const OptionsPath = "/api/encounter/options"

// endRetries bounds End's reloads when a turn lands between its read and write
const endRetries = 3

// Service defines the interface for encounter operations
type Service interface {
	// CreateFromTemplate expands one template into NPCs and opens an
	// encounter whose turn order is the instances in creation order.
	// Returns errors.NotFound with ReasonTemplateNotFound if the template is missing
	CreateFromTemplate(ctx context.Context, input *CreateFromTemplateInput) (*CreateFromTemplateOutput, error)

	// CreateRandom picks seeded templates from the monster document, persists
	// one varied NPC per pick and rolls initiative with the same seed
	CreateRandom(ctx context.Context, input *CreateRandomInput) (*CreateRandomOutput, error)

	// Start rolls initiative for the encounter's game pool and resets the
	// turn pointer.
	// Returns errors.NotFound with ReasonEncounterNotFound
	// Returns errors.FailedPrecondition with ReasonEncounterEnded
	Start(ctx context.Context, input *StartInput) (*StartOutput, error)

	// Advance takes the current turn. Player turns return a menu pointer
	// without mutating anything; NPC turns decide, resolve and move the
	// pointer.
	// Returns errors.FailedPrecondition with ReasonEmptyTurnOrder,
	// ReasonEncounterEnded or ReasonUnknownActorKind
	// Returns errors.NotFound with ReasonEncounterNotFound or ReasonActorNotFound
	// Returns errors.Aborted with ReasonPointerConflict if another writer
	// moved the pointer first
	Advance(ctx context.Context, input *AdvanceInput) (*AdvanceOutput, error)

	// GetTurnOrder returns the order, pointer, round and current actor
	GetTurnOrder(ctx context.Context, input *GetTurnOrderInput) (*GetTurnOrderOutput, error)

	// PlayerOptions lists what a player may do on their turn
	PlayerOptions(ctx context.Context, input *PlayerOptionsInput) (*PlayerOptionsOutput, error)

	// End moves the encounter to its terminal state
	End(ctx context.Context, input *EndInput) (*EndOutput, error)
}

// Config holds the dependencies for the encounter orchestrator
type Config struct {
	EncounterRepo encounters.Repository
	CharacterRepo character.Repository
	Catalog       content.Catalog
	Expander      variants.Expander
	Decider       decision.Service
	Resolver      combat.Resolver
	// EventBus receives a turn-log subscription (optional)
	EventBus events.EventBus
	// IDGenerator for encounter ids (optional, defaults to enc_<uuid>)
	IDGenerator idgen.Generator
	// GameIDGenerator for random encounters without a game (optional)
	GameIDGenerator idgen.Generator
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.EncounterRepo == nil {
		vb.RequiredField("EncounterRepo")
	}
	if c.CharacterRepo == nil {
		vb.RequiredField("CharacterRepo")
	}
	if c.Catalog == nil {
		vb.RequiredField("Catalog")
	}
	if c.Expander == nil {
		vb.RequiredField("Expander")
	}
	if c.Decider == nil {
		vb.RequiredField("Decider")
	}
	if c.Resolver == nil {
		vb.RequiredField("Resolver")
	}

	return vb.Build()
}

type orchestrator struct {
	encounterRepo encounters.Repository
	characterRepo character.Repository
	catalog       content.Catalog
	expander      variants.Expander
	decider       decision.Service
	resolver      combat.Resolver
	idGen         idgen.Generator
	gameIDGen     idgen.Generator
	locks         *keyedMutex
}

// NewOrchestrator creates a new encounter orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	idGen := cfg.IDGenerator
	if idGen == nil {
		idGen = idgen.NewUUID("enc")
	}
	gameIDGen := cfg.GameIDGenerator
	if gameIDGen == nil {
		gameIDGen = idgen.NewShort("game_test")
	}

	if cfg.EventBus != nil {
		subscribeTurnLog(cfg.EventBus)
	}

	return &orchestrator{
		encounterRepo: cfg.EncounterRepo,
		characterRepo: cfg.CharacterRepo,
		catalog:       cfg.Catalog,
		expander:      cfg.Expander,
		decider:       cfg.Decider,
		resolver:      cfg.Resolver,
		idGen:         idGen,
		gameIDGen:     gameIDGen,
		locks:         newKeyedMutex(),
	}, nil
}

// Start rolls initiative for the encounter's game pool
func (o *orchestrator) Start(ctx context.Context, input *StartInput) (*StartOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.EncounterID == "" {
		return nil, errors.InvalidArgument("encounter ID is required")
	}

	unlock := o.locks.Lock(input.EncounterID)
	defer unlock()

	enc, err := o.loadEncounter(ctx, input.EncounterID)
	if err != nil {
		return nil, err
	}
	if enc.State == entities.EncounterStateEnded {
		return nil, errors.EncounterEnded(enc.ID)
	}

	return o.start(ctx, enc, input.Seed)
}

// start must be called with the encounter lock held
func (o *orchestrator) start(ctx context.Context, enc *entities.Encounter, seed string) (*StartOutput, error) {
	if seed == "" {
		seed = rng.NewSeed()
	}

	pool, err := o.characterRepo.ListByGameID(ctx, character.ListByGameIDInput{GameID: enc.GameID})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list actors for game %s", enc.GameID)
	}

	entries, err := initiative.Roll(rng.Derive(seed, "init"), pool.Actors)
	if err != nil {
		return nil, err
	}

	expected := enc.RoundIndex
	next := enc.Clone()
	next.TurnOrder = initiative.Order(entries)
	next.RoundIndex = 0
	next.Round = 1
	next.State = entities.EncounterStateRunning
	next.Seed = seed

	updated, err := o.encounterRepo.Update(ctx, &encounters.UpdateInput{
		Encounter:          next,
		ExpectedRoundIndex: &expected,
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "initiative rolled",
		"encounter_id", enc.ID,
		"game_id", enc.GameID,
		"seed", seed,
		"actors", len(entries))

	return &StartOutput{
		Encounter:  updated.Encounter,
		Seed:       seed,
		Initiative: entries,
		TurnOrder:  updated.Encounter.TurnOrder,
	}, nil
}

// Advance takes the current turn
func (o *orchestrator) Advance(ctx context.Context, input *AdvanceInput) (*AdvanceOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.EncounterID == "" {
		return nil, errors.InvalidArgument("encounter ID is required")
	}

	unlock := o.locks.Lock(input.EncounterID)
	defer unlock()

	enc, err := o.loadEncounter(ctx, input.EncounterID)
	if err != nil {
		return nil, err
	}
	if enc.State == entities.EncounterStateEnded {
		return nil, errors.EncounterEnded(enc.ID)
	}
	if len(enc.TurnOrder) == 0 {
		return nil, errors.EmptyTurnOrder(enc.ID)
	}

	index := enc.TurnIndex()
	actorID := enc.TurnOrder[index]

	actorOut, err := o.characterRepo.Get(ctx, character.GetInput{ID: actorID})
	if err != nil {
		return nil, err
	}
	actor := actorOut.Actor

	switch actor.Kind {
	case entities.ActorKindPlayer:
		slog.InfoContext(ctx, "waiting for player",
			"encounter_id", enc.ID,
			"actor_id", actor.ID,
			"round", enc.Round)
		return &AdvanceOutput{
			Mode:            TurnModePlayer,
			Actor:           actor,
			OptionsEndpoint: optionsEndpoint(enc.ID, actor.ID),
			Encounter:       enc,
		}, nil
	case entities.ActorKindNPC:
		return o.runNPCTurn(ctx, enc, index, actor, input)
	default:
		return nil, errors.UnknownActorKind(actor.ID, string(actor.Kind))
	}
}

func (o *orchestrator) runNPCTurn(
	ctx context.Context,
	enc *entities.Encounter,
	index int,
	actor *entities.Actor,
	input *AdvanceInput,
) (*AdvanceOutput, error) {
	decided, err := o.decider.Decide(ctx, &decision.DecideInput{
		EncounterID: enc.ID,
		ActorID:     actor.ID,
		Context:     input.Context,
	})
	if err != nil {
		return nil, err
	}
	action := decided.Result.Decision.Action

	pool, err := o.characterRepo.ListByGameID(ctx, character.ListByGameIDInput{GameID: enc.GameID})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list actors for game %s", enc.GameID)
	}

	resolveInput := &combat.ResolveInput{
		Action: action,
		Actor:  actor,
		Pool:   pool.Actors,
	}
	if enc.Seed != "" {
		// one stream per turn keeps a seeded encounter replayable
		resolveInput.Roller = rng.Derive(enc.Seed, fmt.Sprintf("r%d_t%d", enc.Round, index))
	}

	resolved, err := o.resolver.Resolve(ctx, resolveInput)
	if err != nil {
		return nil, err
	}

	expected := enc.RoundIndex
	next := enc.Clone()
	next.RoundIndex = (index + 1) % len(enc.TurnOrder)
	if next.RoundIndex == 0 {
		next.Round++
	}

	updated, err := o.encounterRepo.Update(ctx, &encounters.UpdateInput{
		Encounter:          next,
		ExpectedRoundIndex: &expected,
	})
	if err != nil {
		return nil, err
	}

	refreshed, err := o.characterRepo.ListByGameID(ctx, character.ListByGameIDInput{GameID: enc.GameID})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list actors for game %s", enc.GameID)
	}

	slog.InfoContext(ctx, "npc turn executed",
		"encounter_id", enc.ID,
		"actor_id", actor.ID,
		"action", action.Type,
		"fallback", decided.Result.IsFallback(),
		"round", updated.Encounter.Round,
		"round_index", updated.Encounter.RoundIndex)

	return &AdvanceOutput{
		Mode:         TurnModeNPC,
		Actor:        actor,
		Decision:     decided.Result,
		ActionResult: resolved.Result,
		Actors:       refreshed.Actors,
		Encounter:    updated.Encounter,
	}, nil
}

// GetTurnOrder returns the current turn state
func (o *orchestrator) GetTurnOrder(ctx context.Context, input *GetTurnOrderInput) (*GetTurnOrderOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	enc, err := o.loadEncounter(ctx, input.EncounterID)
	if err != nil {
		return nil, err
	}

	current, _ := enc.CurrentActorID()
	return &GetTurnOrderOutput{
		Encounter:      enc,
		CurrentActorID: current,
	}, nil
}

// PlayerOptions lists what a player may do on their turn
func (o *orchestrator) PlayerOptions(ctx context.Context, input *PlayerOptionsInput) (*PlayerOptionsOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("encounterId", input.EncounterID, vb)
	errors.ValidateRequired("actorId", input.ActorID, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	if _, err := o.loadEncounter(ctx, input.EncounterID); err != nil {
		return nil, err
	}

	actorOut, err := o.characterRepo.Get(ctx, character.GetInput{ID: input.ActorID})
	if err != nil {
		return nil, err
	}

	return &PlayerOptionsOutput{
		Actor:   actorOut.Actor,
		Options: playerOptions(actorOut.Actor),
	}, nil
}

func playerOptions(actor *entities.Actor) []PlayerOption {
	options := []PlayerOption{
		{ID: entities.ActionTypeAttack, Label: "Attack (melee or ranged, by weapon)"},
		{ID: entities.ActionTypeMove, Label: "Move"},
	}
	if len(actor.Inventory) > 0 {
		options = append(options, PlayerOption{ID: entities.ActionTypeUseItem, Label: "Use an item"})
	}
	return append(options, PlayerOption{ID: entities.ActionTypeEndTurn, Label: "End turn"})
}

// End moves the encounter to its terminal state
func (o *orchestrator) End(ctx context.Context, input *EndInput) (*EndOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.EncounterID == "" {
		return nil, errors.InvalidArgument("encounter ID is required")
	}

	unlock := o.locks.Lock(input.EncounterID)
	defer unlock()

	for attempt := 0; ; attempt++ {
		enc, err := o.loadEncounter(ctx, input.EncounterID)
		if err != nil {
			return nil, err
		}
		if enc.State == entities.EncounterStateEnded {
			return &EndOutput{Encounter: enc}, nil
		}

		// another process may move the pointer between load and write
		expected := enc.RoundIndex
		next := enc.Clone()
		next.State = entities.EncounterStateEnded
		updated, err := o.encounterRepo.Update(ctx, &encounters.UpdateInput{
			Encounter:          next,
			ExpectedRoundIndex: &expected,
		})
		if errors.HasReason(err, errors.ReasonPointerConflict) && attempt < endRetries {
			continue
		}
		if err != nil {
			return nil, err
		}

		slog.InfoContext(ctx, "encounter ended",
			"encounter_id", enc.ID,
			"round", enc.Round)

		return &EndOutput{Encounter: updated.Encounter}, nil
	}
}

func (o *orchestrator) loadEncounter(ctx context.Context, encounterID string) (*entities.Encounter, error) {
	if encounterID == "" {
		return nil, errors.InvalidArgument("encounter ID is required")
	}
	out, err := o.encounterRepo.Get(ctx, &encounters.GetInput{EncounterID: encounterID})
	if err != nil {
		return nil, err
	}
	return out.Encounter, nil
}

func optionsEndpoint(encounterID, actorID string) string {
	return fmt.Sprintf("%s?encounterId=%s&actorId=%s",
		OptionsPath, url.QueryEscape(encounterID), url.QueryEscape(actorID))
}
