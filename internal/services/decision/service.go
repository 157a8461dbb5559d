// Package decision asks the oracle what an NPC should do and guarantees a
// usable answer.
package decision

//go:generate mockgen -destination=mock/mock_service.go -package=decisionmock github.com/KirkDiggler/rpg-encounter/internal/services/decision Service

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/KirkDiggler/rpg-encounter/internal/clients/oracle"
	"github.com/KirkDiggler/rpg-encounter/internal/entities"
	"github.com/KirkDiggler/rpg-encounter/internal/errors"
	"github.com/KirkDiggler/rpg-encounter/internal/repositories/character"
	"github.com/KirkDiggler/rpg-encounter/internal/repositories/encounters"
)

// MaxSceneActors caps how many actors are described to the oracle
const MaxSceneActors = 60

// Fallback diagnostics
const (
	WarningInvalidResponse = "AI response invalid, used fallback"
	WarningInvalidTarget   = "AI target invalid, used fallback"

	explanationInvalidResponse = "AI returned invalid response; fallback to end_turn"
	explanationInvalidTarget   = "AI chose invalid target; fallback to end_turn"
)

// Service produces a validated decision for one actor
type Service interface {
	// Decide never fails because of what the oracle said; a malformed
	// or unsafe answer is replaced by the end_turn fallback.
	// Returns errors.NotFound with ReasonEncounterNotFound or ReasonActorNotFound
	// Returns errors.Unavailable with ReasonOracleUnavailable when the oracle
	// cannot be reached
	Decide(ctx context.Context, input *DecideInput) (*DecideOutput, error)
}

// DecideInput defines the input for a decision
type DecideInput struct {
	EncounterID string
	ActorID     string
	// Context is passed through to the oracle untouched (optional)
	Context json.RawMessage
}

// DecideOutput defines the output for a decision
type DecideOutput struct {
	Result *entities.DecisionResult
}

// Config contains the service's dependencies
type Config struct {
	EncounterRepo encounters.Repository
	CharacterRepo character.Repository
	Oracle        oracle.Client
}

// Validate validates the config
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.EncounterRepo == nil {
		vb.RequiredField("EncounterRepo")
	}
	if c.CharacterRepo == nil {
		vb.RequiredField("CharacterRepo")
	}
	if c.Oracle == nil {
		vb.RequiredField("Oracle")
	}

	return vb.Build()
}

type service struct {
	encounterRepo encounters.Repository
	characterRepo character.Repository
	oracle        oracle.Client
	systemPrompt  string
}

// NewService creates a new decision service
func NewService(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	prompt, err := buildSystemPrompt()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build system prompt")
	}

	return &service{
		encounterRepo: cfg.EncounterRepo,
		characterRepo: cfg.CharacterRepo,
		oracle:        cfg.Oracle,
		systemPrompt:  prompt,
	}, nil
}

func (s *service) Decide(ctx context.Context, input *DecideInput) (*DecideOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("encounterId", input.EncounterID, vb)
	errors.ValidateRequired("actorId", input.ActorID, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	encOut, err := s.encounterRepo.Get(ctx, &encounters.GetInput{EncounterID: input.EncounterID})
	if err != nil {
		return nil, err
	}
	enc := encOut.Encounter

	actorOut, err := s.characterRepo.Get(ctx, character.GetInput{ID: input.ActorID})
	if err != nil {
		return nil, err
	}
	actor := actorOut.Actor

	listOut, err := s.characterRepo.ListByGameID(ctx, character.ListByGameIDInput{
		GameID: enc.GameID,
		Limit:  MaxSceneActors,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list actors for game %s", enc.GameID)
	}
	scene := buildScene(listOut.Actors)

	user, err := buildUserPayload(scene, actor, enc, input.Context)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build oracle payload")
	}

	reply, err := s.oracle.Complete(ctx, &oracle.CompleteInput{System: s.systemPrompt, User: user})
	if err != nil {
		return nil, err
	}

	result := evaluate(reply.Text, scene)
	if result.IsFallback() {
		slog.WarnContext(ctx, "oracle decision replaced by fallback",
			"encounter_id", enc.ID,
			"actor_id", actor.ID,
			"warning", result.Warning,
			"raw", reply.Text)
	} else {
		slog.InfoContext(ctx, "oracle decision accepted",
			"encounter_id", enc.ID,
			"actor_id", actor.ID,
			"action", result.Decision.Action.Type,
			"target_id", result.Decision.Action.Target())
	}

	return &DecideOutput{Result: result}, nil
}

// evaluate turns raw oracle text into a decision, substituting the
// fallback when the text is unusable
func evaluate(raw string, scene []sceneActor) *entities.DecisionResult {
	decision, ok := parseDecision(raw)
	if !ok {
		return &entities.DecisionResult{
			Decision: entities.FallbackDecision(explanationInvalidResponse),
			Warning:  WarningInvalidResponse,
			Raw:      raw,
		}
	}

	if target := decision.Action.Target(); target != "" && !inScene(scene, target) {
		return &entities.DecisionResult{
			Decision: entities.FallbackDecision(explanationInvalidTarget),
			Warning:  WarningInvalidTarget,
			Raw:      raw,
		}
	}

	return &entities.DecisionResult{Decision: decision, Raw: raw}
}
