// Package combat resolves validated actions against the combat rules.
package combat

//go:generate mockgen -destination=mock/mock_resolver.go -package=combatmock github.com/KirkDiggler/rpg-encounter/internal/engine/combat Resolver

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/core"
	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/rpg-encounter/internal/entities"
	"github.com/KirkDiggler/rpg-encounter/internal/errors"
	"github.com/KirkDiggler/rpg-encounter/internal/repositories/character"
)

// Event types published after resolution
const (
	EventAttack  = "combat.attack"
	EventEndTurn = "combat.end_turn"
)

// Rule failures reported in Result.Error. These are outcomes, not errors.
const (
	ErrTargetNotFound    = "target not found"
	ErrUnsupportedAction = "unsupported action"
)

const (
	attackDie        = 20
	defaultDamageDie = 8
)

// Resolver applies one action for one actor
type Resolver interface {
	// Resolve never fails on rule outcomes (miss, bad target, unsupported
	// type); those are reported in Result.Error.
	// Returns an error only when the roller or the hit point write fails.
	Resolve(ctx context.Context, input *ResolveInput) (*ResolveOutput, error)
}

// ResolveInput defines the input for resolving an action
type ResolveInput struct {
	Action entities.Action
	Actor  *entities.Actor
	// Pool is the set of actors an attack may target
	Pool []*entities.Actor
	// Roller overrides the resolver's default roller for this call
	Roller dice.Roller
}

// ResolveOutput defines the output for resolving an action
type ResolveOutput struct {
	Result *Result
}

// Result is the observable outcome of an action
type Result struct {
	Log         string `json:"log,omitempty"`
	Hit         *bool  `json:"hit,omitempty"`
	Damage      *int   `json:"damage,omitempty"`
	TargetID    string `json:"targetId,omitempty"`
	AttackRoll  int    `json:"attackRoll,omitempty"`
	AttackTotal int    `json:"attackTotal,omitempty"`
	TargetHP    *int   `json:"targetHp,omitempty"`
	Error       string `json:"error,omitempty"`
}

// Config contains the resolver's dependencies
type Config struct {
	CharacterRepo character.Repository
	EventBus      events.EventBus
	// Roller is used when a call supplies none (optional, defaults to
	// dice.DefaultRoller)
	Roller dice.Roller
}

// Validate validates the config
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.CharacterRepo == nil {
		vb.RequiredField("CharacterRepo")
	}
	if c.EventBus == nil {
		vb.RequiredField("EventBus")
	}

	return vb.Build()
}

type resolver struct {
	characterRepo character.Repository
	eventBus      events.EventBus
	roller        dice.Roller
}

// NewResolver creates a new action resolver
func NewResolver(cfg *Config) (Resolver, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	roller := cfg.Roller
	if roller == nil {
		roller = dice.DefaultRoller
	}

	return &resolver{
		characterRepo: cfg.CharacterRepo,
		eventBus:      cfg.EventBus,
		roller:        roller,
	}, nil
}

func (r *resolver) Resolve(ctx context.Context, input *ResolveInput) (*ResolveOutput, error) {
	if input == nil || input.Actor == nil {
		return nil, errors.InvalidArgument("actor is required")
	}

	roller := input.Roller
	if roller == nil {
		roller = r.roller
	}

	var (
		result *Result
		err    error
	)
	switch input.Action.Type {
	case entities.ActionTypeEndTurn:
		result = r.endTurn(ctx, input.Actor)
	case entities.ActionTypeAttack:
		result, err = r.attack(ctx, roller, input)
	default:
		result = &Result{Error: ErrUnsupportedAction}
	}
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "resolved action",
		"actor_id", input.Actor.ID,
		"action", input.Action.Type,
		"log", result.Log,
		"error", result.Error)

	return &ResolveOutput{Result: result}, nil
}

func (r *resolver) endTurn(ctx context.Context, actor *entities.Actor) *Result {
	r.publish(ctx, EventEndTurn, wrapActor(actor), nil, nil)
	return &Result{Log: fmt.Sprintf("%s ends their turn.", actor.Name)}
}

func (r *resolver) attack(ctx context.Context, roller dice.Roller, input *ResolveInput) (*Result, error) {
	actor := input.Actor
	action := input.Action

	target := findActor(input.Pool, action.Target())
	if target == nil {
		return &Result{Error: ErrTargetNotFound}, nil
	}

	strMod := entities.AbilityModifier(actor.Strength())
	atkMod := strMod
	if v, ok := action.IntParam("atkMod"); ok {
		atkMod = v
	}

	roll, err := roller.Roll(attackDie)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to roll attack for %s", actor.ID)
	}
	total := roll + atkMod
	hit := total >= target.ArmorClass()

	result := &Result{
		Hit:         &hit,
		TargetID:    target.ID,
		AttackRoll:  roll,
		AttackTotal: total,
	}

	damage := 0
	if hit {
		die := defaultDamageDie
		if v, ok := action.IntParam("dmgDie"); ok && v > 0 {
			die = v
		}
		dmgRoll, err := roller.Roll(die)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to roll damage for %s", actor.ID)
		}
		damage = max(1, dmgRoll+strMod)

		out, err := r.characterRepo.UpdateHP(ctx, character.UpdateHPInput{
			ID:        target.ID,
			HPCurrent: max(0, target.HPCurrent-damage),
		})
		if err != nil {
			slog.ErrorContext(ctx, "failed to write target hit points",
				"target_id", target.ID,
				"error", err.Error())
			return nil, errors.Wrapf(err, "failed to apply damage to %s", target.ID)
		}
		hp := out.Actor.HPCurrent
		target.HPCurrent = hp
		result.TargetHP = &hp
		result.Log = fmt.Sprintf("%s attacks %s (roll %d%+d => %d) hits for %d",
			actor.Name, target.Name, roll, strMod, total, damage)
	} else {
		result.Log = fmt.Sprintf("%s attacks %s (roll %d%+d => %d) missed",
			actor.Name, target.Name, roll, strMod, total)
	}
	result.Damage = &damage

	r.publish(ctx, EventAttack, wrapActor(actor), wrapActor(target), map[string]interface{}{
		"hit":    hit,
		"damage": damage,
		"roll":   roll,
		"total":  total,
	})

	return result, nil
}

// publish never fails the action; subscribers only observe
func (r *resolver) publish(ctx context.Context, eventType string, source, target core.Entity, data map[string]interface{}) {
	evt := events.NewGameEvent(eventType, source, target)
	for k, v := range data {
		evt.Context().Set(k, v)
	}
	if err := r.eventBus.Publish(ctx, evt); err != nil {
		slog.WarnContext(ctx, "failed to publish combat event",
			"event", eventType,
			"error", err.Error())
	}
}

func findActor(pool []*entities.Actor, id string) *entities.Actor {
	if id == "" {
		return nil
	}
	for _, a := range pool {
		if a != nil && a.ID == id {
			return a
		}
	}
	return nil
}
