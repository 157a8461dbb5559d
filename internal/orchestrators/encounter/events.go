package encounter

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/rpg-encounter/internal/engine/combat"
)

const turnLogPriority = 100

// subscribeTurnLog writes every resolved combat action to the log
func subscribeTurnLog(bus events.EventBus) {
	for _, eventType := range []string{combat.EventAttack, combat.EventEndTurn} {
		bus.SubscribeFunc(eventType, turnLogPriority, logCombatEvent)
	}
}

func logCombatEvent(ctx context.Context, event events.Event) error {
	attrs := []any{"event", event.Type()}
	if src := event.Source(); src != nil {
		attrs = append(attrs, "actor_id", src.GetID())
	}
	if tgt := event.Target(); tgt != nil {
		attrs = append(attrs, "target_id", tgt.GetID())
	}
	slog.InfoContext(ctx, "combat event", attrs...)
	return nil
}
