package decision

import (
	"encoding/json"
	"strings"

	"github.com/invopop/jsonschema"

	"github.com/KirkDiggler/rpg-encounter/internal/entities"
)

const instructions = `You are a TTRPG combat decision engine. You will receive a compact "scene" (list of actors) and "actor" (the controlled actor).
Return ONLY a single JSON object (no markdown, no extra text) that validates against this JSON schema:
`

const guidance = `
Prefer simple, safe actions. If uncertain, choose {"action":{"type":"end_turn"}}.
Use the actor's stats (strength, dexterity, constitution) and the target's AC and hit points to decide.
Keep explanations to one or two sentences and the output machine-parseable.`

// buildSystemPrompt embeds the decision schema reflected from the entity
// the reply is decoded into
func buildSystemPrompt() (string, error) {
	reflector := &jsonschema.Reflector{
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	schema := reflector.Reflect(&entities.Decision{})

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(instructions)
	b.Write(data)
	b.WriteString(guidance)
	return b.String(), nil
}

// sceneActor is the compact actor view sent to the oracle
type sceneActor struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Kind      entities.ActorKind `json:"kind"`
	HPCurrent int                `json:"hpCurrent"`
	HPMax     int                `json:"hpMax"`
	AC        int                `json:"ac"`
	Stats     map[string]int     `json:"stats"`
}

func toSceneActor(a *entities.Actor) sceneActor {
	stats := a.Stats
	if stats == nil {
		stats = map[string]int{}
	}
	return sceneActor{
		ID:        a.ID,
		Name:      a.Name,
		Kind:      a.Kind,
		HPCurrent: a.HPCurrent,
		HPMax:     a.HPMax,
		AC:        a.AC,
		Stats:     stats,
	}
}

func buildScene(actors []*entities.Actor) []sceneActor {
	if len(actors) > MaxSceneActors {
		actors = actors[:MaxSceneActors]
	}
	scene := make([]sceneActor, 0, len(actors))
	for _, a := range actors {
		scene = append(scene, toSceneActor(a))
	}
	return scene
}

func inScene(scene []sceneActor, id string) bool {
	for _, a := range scene {
		if a.ID == id {
			return true
		}
	}
	return false
}

type userPayload struct {
	Scene     []sceneActor     `json:"scene"`
	Actor     sceneActor       `json:"actor"`
	Encounter encounterSummary `json:"encounter"`
	Context   json.RawMessage  `json:"context"`
}

type encounterSummary struct {
	ID        string   `json:"id"`
	TurnOrder []string `json:"turnOrder"`
}

func buildUserPayload(scene []sceneActor, actor *entities.Actor, enc *entities.Encounter, extra json.RawMessage) (string, error) {
	self := toSceneActor(actor)
	for _, a := range scene {
		if a.ID == actor.ID {
			self = a
			break
		}
	}

	turnOrder := enc.TurnOrder
	if turnOrder == nil {
		turnOrder = []string{}
	}
	if len(extra) == 0 || string(extra) == "null" {
		extra = json.RawMessage(`{}`)
	}

	data, err := json.Marshal(userPayload{
		Scene:     scene,
		Actor:     self,
		Encounter: encounterSummary{ID: enc.ID, TurnOrder: turnOrder},
		Context:   extra,
	})
	if err != nil {
		return "", err
	}
	return string(data), nil
}
