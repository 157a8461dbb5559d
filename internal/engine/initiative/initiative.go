// Package initiative rolls and orders combat turn order.
package initiative

import (
	"sort"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/rpg-encounter/internal/entities"
	"github.com/KirkDiggler/rpg-encounter/internal/errors"
)

// Entry is one actor's initiative breakdown
type Entry struct {
	ActorID   string             `json:"id"`
	Name      string             `json:"name"`
	Kind      entities.ActorKind `json:"kind"`
	Dexterity int                `json:"dexterity"`
	Roll      int                `json:"roll"`
	Modifier  int                `json:"mod"`
	Total     int                `json:"total"`
}

// Roll draws one d20 per actor in the given order and returns the entries
// sorted by total, then dexterity (both descending), then actor id.
func Roll(roller dice.Roller, actors []*entities.Actor) ([]*Entry, error) {
	if roller == nil {
		return nil, errors.InvalidArgument("roller is required")
	}

	entries := make([]*Entry, 0, len(actors))
	for _, actor := range actors {
		if actor == nil {
			continue
		}
		roll, err := roller.Roll(20)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to roll initiative for %s", actor.ID)
		}
		dex := actor.Dexterity()
		mod := entities.AbilityModifier(dex)
		entries = append(entries, &Entry{
			ActorID:   actor.ID,
			Name:      actor.Name,
			Kind:      actor.Kind,
			Dexterity: dex,
			Roll:      roll,
			Modifier:  mod,
			Total:     roll + mod,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		if a.Dexterity != b.Dexterity {
			return a.Dexterity > b.Dexterity
		}
		return a.ActorID < b.ActorID
	})

	return entries, nil
}

// Order extracts the actor ids in turn order
func Order(entries []*Entry) []string {
	order := make([]string, len(entries))
	for i, e := range entries {
		order[i] = e.ActorID
	}
	return order
}
