package encounter

import (
	"encoding/json"

	"github.com/KirkDiggler/rpg-encounter/internal/engine/combat"
	"github.com/KirkDiggler/rpg-encounter/internal/engine/initiative"
	"github.com/KirkDiggler/rpg-encounter/internal/engine/variants"
	"github.com/KirkDiggler/rpg-encounter/internal/entities"
)

// TurnMode tells the caller what Advance did
type TurnMode string

// Turn modes
const (
	// TurnModePlayer means the current actor waits for player input; nothing
	// was mutated
	TurnModePlayer TurnMode = "player_turn"
	// TurnModeNPC means an NPC decided, acted and the pointer moved on
	TurnModeNPC TurnMode = "npc_executed"
)

// Random encounter size defaults
const (
	DefaultMinEnemies = 1
	DefaultMaxEnemies = 3
)

// StartInput defines the request for rolling initiative
type StartInput struct {
	EncounterID string
	// Seed makes the rolls reproducible (optional, random when empty)
	Seed string
}

// StartOutput defines the response for rolling initiative
type StartOutput struct {
	Encounter  *entities.Encounter
	Seed       string
	Initiative []*initiative.Entry
	TurnOrder  []string
}

// AdvanceInput defines the request for taking the current turn
type AdvanceInput struct {
	EncounterID string
	// Context is passed through to the decision oracle (optional)
	Context json.RawMessage
}

// AdvanceOutput defines the response for taking the current turn
type AdvanceOutput struct {
	Mode TurnMode
	// Actor is the actor whose turn was taken
	Actor *entities.Actor
	// OptionsEndpoint is set for player turns
	OptionsEndpoint string
	// Decision and ActionResult are set for NPC turns
	Decision     *entities.DecisionResult
	ActionResult *combat.Result
	// Actors is the refreshed game pool after an NPC turn
	Actors    []*entities.Actor
	Encounter *entities.Encounter
}

// GetTurnOrderInput defines the request for reading turn state
type GetTurnOrderInput struct {
	EncounterID string
}

// GetTurnOrderOutput defines the response for reading turn state
type GetTurnOrderOutput struct {
	Encounter      *entities.Encounter
	CurrentActorID string
}

// CreateFromTemplateInput defines the request for an encounter built from
// one template
type CreateFromTemplateInput struct {
	GameID     string
	TemplateID string
	Options    variants.Options
}

// CreateFromTemplateOutput defines the response for an encounter built from
// one template
type CreateFromTemplateOutput struct {
	Encounter *entities.Encounter
	Instances []*entities.Instance
	Actors    []*entities.Actor
	Seed      string
}

// CreateRandomInput defines the request for a random test encounter
type CreateRandomInput struct {
	// GameID is generated when empty
	GameID     string
	MinEnemies int
	MaxEnemies int
	Seed       string
}

// CreateRandomOutput defines the response for a random test encounter
type CreateRandomOutput struct {
	Encounter  *entities.Encounter
	GameID     string
	Created    int
	Actors     []*entities.Actor
	Initiative []*initiative.Entry
	TurnOrder  []string
	Seed       string
}

// PlayerOption is one entry of the player turn menu
type PlayerOption struct {
	ID    entities.ActionType `json:"id"`
	Label string              `json:"label"`
}

// PlayerOptionsInput defines the request for a player's turn menu
type PlayerOptionsInput struct {
	EncounterID string
	ActorID     string
}

// PlayerOptionsOutput defines the response for a player's turn menu
type PlayerOptionsOutput struct {
	Actor   *entities.Actor
	Options []PlayerOption
}

// EndInput defines the request for ending an encounter
type EndInput struct {
	EncounterID string
}

// EndOutput defines the response for ending an encounter
type EndOutput struct {
	Encounter *entities.Encounter
}
