// Package mocks provides mock expectation helpers for common testing patterns
package mocks

import (
	"go.uber.org/mock/gomock"

	contentmock "github.com/KirkDiggler/rpg-encounter/internal/content/mock"
	"github.com/KirkDiggler/rpg-encounter/internal/engine/combat"
	combatmock "github.com/KirkDiggler/rpg-encounter/internal/engine/combat/mock"
	"github.com/KirkDiggler/rpg-encounter/internal/engine/variants"
	variantsmock "github.com/KirkDiggler/rpg-encounter/internal/engine/variants/mock"
	"github.com/KirkDiggler/rpg-encounter/internal/entities"
	"github.com/KirkDiggler/rpg-encounter/internal/services/decision"
	decisionmock "github.com/KirkDiggler/rpg-encounter/internal/services/decision/mock"
)

// Decided builds an accepted decision; an empty target leaves targetId unset
func Decided(actionType entities.ActionType, target string) *decision.DecideOutput {
	action := entities.Action{Type: actionType}
	if target != "" {
		action.TargetID = &target
	}
	return &decision.DecideOutput{Result: &entities.DecisionResult{
		Decision: &entities.Decision{Action: action},
		Raw:      "{}",
	}}
}

// ExpectEndTurns makes the next n NPC turns end without effect
func ExpectEndTurns(ctx any, decider *decisionmock.MockService, resolver *combatmock.MockResolver, n int) {
	decider.EXPECT().
		Decide(ctx, gomock.Any()).
		Return(Decided(entities.ActionTypeEndTurn, ""), nil).
		Times(n)
	resolver.EXPECT().
		Resolve(ctx, gomock.Any()).
		Return(&combat.ResolveOutput{Result: &combat.Result{}}, nil).
		Times(n)
}

// ExpectTemplateExpansion sets up a catalog lookup followed by one expansion
func ExpectTemplateExpansion(
	ctx any,
	catalog *contentmock.MockCatalog,
	expander *variantsmock.MockExpander,
	tpl *entities.Template,
	opts variants.Options,
	out *variants.ExpandOutput,
) {
	catalog.EXPECT().
		FindTemplate(ctx, tpl.ID).
		Return(tpl, nil)
	expander.EXPECT().
		Expand(ctx, &variants.ExpandInput{Template: tpl, Options: opts}).
		Return(out, nil)
}
