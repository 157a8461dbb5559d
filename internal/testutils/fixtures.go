package testutils

import (
	"encoding/json"

	"github.com/KirkDiggler/rpg-encounter/internal/entities"
)

// TestGameID is the game shared by the default fixtures
const TestGameID = "game-test-001"

// NewTestPlayer creates a player actor with sensible defaults
func NewTestPlayer(id string) *entities.Actor {
	return &entities.Actor{
		ID:        id,
		GameID:    TestGameID,
		Kind:      entities.ActorKindPlayer,
		Name:      "Aria",
		HPCurrent: 12,
		HPMax:     12,
		AC:        14,
		Stats:     map[string]int{"strength": 12, "dexterity": 14},
		Inventory: []string{"potion-of-healing"},
	}
}

// NewTestNPC creates an NPC actor with sensible defaults
func NewTestNPC(id string) *entities.Actor {
	return &entities.Actor{
		ID:        id,
		GameID:    TestGameID,
		Kind:      entities.ActorKindNPC,
		Name:      "Goblin",
		HPCurrent: 7,
		HPMax:     7,
		AC:        13,
		Stats:     map[string]int{"strength": 14, "dexterity": 10},
		Inventory: []string{},
	}
}

// GoblinTemplateJSON is a minimal monster template document entry
const GoblinTemplateJSON = `{"id":"goblin","name":"Goblin","stats":{"strength":10,"dexterity":14},"hp":{"max":7},"ac":13}`

// NewGoblinTemplate normalizes GoblinTemplateJSON
func NewGoblinTemplate() *entities.Template {
	tpl, err := entities.NormalizeTemplate(json.RawMessage(GoblinTemplateJSON))
	if err != nil {
		panic(err)
	}
	return tpl
}
