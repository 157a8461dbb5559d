package encounter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KirkDiggler/rpg-encounter/internal/engine/variants"
	"github.com/KirkDiggler/rpg-encounter/internal/entities"
	"github.com/KirkDiggler/rpg-encounter/internal/errors"
	"github.com/KirkDiggler/rpg-encounter/internal/pkg/rng"
	"github.com/KirkDiggler/rpg-encounter/internal/repositories/character"
	"github.com/KirkDiggler/rpg-encounter/internal/repositories/encounters"
)

// CreateFromTemplate expands one template into an encounter
func (o *orchestrator) CreateFromTemplate(
	ctx context.Context,
	input *CreateFromTemplateInput,
) (*CreateFromTemplateOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("gameId", input.GameID, vb)
	errors.ValidateRequired("templateId", input.TemplateID, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	tpl, err := o.catalog.FindTemplate(ctx, input.TemplateID)
	if err != nil {
		return nil, err
	}

	opts := input.Options
	if opts.Count == 0 {
		opts.Count = 1
	}
	expanded, err := o.expander.Expand(ctx, &variants.ExpandInput{Template: tpl, Options: opts})
	if err != nil {
		return nil, err
	}

	turnOrder := make([]string, 0, len(expanded.Instances))
	for _, inst := range expanded.Instances {
		turnOrder = append(turnOrder, inst.InstanceID)
	}

	created, err := o.encounterRepo.Create(ctx, &encounters.CreateInput{Encounter: &entities.Encounter{
		ID:        o.idGen.Generate(),
		GameID:    input.GameID,
		Round:     0,
		TurnOrder: turnOrder,
		State:     entities.EncounterStateRunning,
		Seed:      expanded.Seed,
	}})
	if err != nil {
		return nil, err
	}

	actors := make([]*entities.Actor, 0, len(expanded.Instances))
	for _, inst := range expanded.Instances {
		out, err := o.characterRepo.Create(ctx, character.CreateInput{Actor: inst.ToActor(input.GameID)})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to store instance %s", inst.InstanceID)
		}
		actors = append(actors, out.Actor)
	}

	slog.InfoContext(ctx, "encounter created from template",
		"encounter_id", created.Encounter.ID,
		"game_id", input.GameID,
		"template_id", tpl.TemplateID(),
		"count", len(actors),
		"seed", expanded.Seed)

	return &CreateFromTemplateOutput{
		Encounter: created.Encounter,
		Instances: expanded.Instances,
		Actors:    actors,
		Seed:      expanded.Seed,
	}, nil
}

// CreateRandom builds a seeded test encounter from random templates
func (o *orchestrator) CreateRandom(ctx context.Context, input *CreateRandomInput) (*CreateRandomOutput, error) {
	if input == nil {
		input = &CreateRandomInput{}
	}

	minEnemies := input.MinEnemies
	if minEnemies == 0 {
		minEnemies = DefaultMinEnemies
	}
	maxEnemies := input.MaxEnemies
	if maxEnemies == 0 {
		maxEnemies = DefaultMaxEnemies
	}
	maxEnemies = max(maxEnemies, minEnemies)

	vb := errors.NewValidationBuilder()
	errors.ValidateRange("minEnemies", minEnemies, 1, variants.MaxCount, vb)
	errors.ValidateRange("maxEnemies", maxEnemies, 1, variants.MaxCount, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	seed := input.Seed
	if seed == "" {
		seed = rng.NewSeed()
	}
	stream := rng.New(seed)

	count := minEnemies
	if minEnemies != maxEnemies {
		count = stream.IntRange(minEnemies, maxEnemies)
	}

	templates, err := o.catalog.Templates(ctx)
	if err != nil {
		return nil, err
	}
	if len(templates) == 0 {
		return nil, errors.TemplateNotFoundf("no templates in monster document")
	}

	picks := make([]*entities.Template, count)
	for i := range picks {
		picks[i] = templates[stream.Intn(len(templates))]
	}

	gameID := input.GameID
	if gameID == "" {
		gameID = o.gameIDGen.Generate()
	}

	instances := make([]*entities.Instance, 0, count)
	for i, tpl := range picks {
		out, err := o.expander.Expand(ctx, &variants.ExpandInput{
			Template: tpl,
			Options: variants.Options{
				Count:        1,
				Seed:         rng.DeriveSeed(seed, fmt.Sprintf("gen_%d", i)),
				VaryAllStats: true,
				HPScale:      &variants.HPScale{Proportional: true},
			},
		})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to expand template %s", tpl.TemplateID())
		}
		instances = append(instances, out.Instances...)
	}

	created, err := o.encounterRepo.Create(ctx, &encounters.CreateInput{Encounter: &entities.Encounter{
		ID:        o.idGen.Generate(),
		GameID:    gameID,
		Round:     0,
		TurnOrder: []string{},
		State:     entities.EncounterStateRunning,
		Seed:      seed,
	}})
	if err != nil {
		return nil, err
	}
	enc := created.Encounter

	actors := make([]*entities.Actor, 0, len(instances))
	for _, inst := range instances {
		out, err := o.characterRepo.Create(ctx, character.CreateInput{Actor: inst.ToActor(gameID)})
		if err != nil {
			// skip the actor, keep the encounter
			slog.WarnContext(ctx, "failed to store random encounter actor",
				"encounter_id", enc.ID,
				"instance_id", inst.InstanceID,
				"template_id", inst.TemplateID,
				"error", err.Error())
			continue
		}
		actors = append(actors, out.Actor)
	}

	unlock := o.locks.Lock(enc.ID)
	defer unlock()

	started, err := o.start(ctx, enc, seed)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "random encounter created",
		"encounter_id", enc.ID,
		"game_id", gameID,
		"created", len(actors),
		"seed", seed)

	return &CreateRandomOutput{
		Encounter:  started.Encounter,
		GameID:     gameID,
		Created:    len(actors),
		Actors:     actors,
		Initiative: started.Initiative,
		TurnOrder:  started.TurnOrder,
		Seed:       seed,
	}, nil
}
