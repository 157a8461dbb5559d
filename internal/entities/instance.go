package entities

import "encoding/json"

// DefaultInstanceName is used for templates without a name
const DefaultInstanceName = "Monstre"

// HitPoints holds current and maximum hit points
type HitPoints struct {
	Current int `json:"current"`
	Max     int `json:"max"`
}

// Instance is one procedurally varied monster expanded from a Template.
// HP.Current equals HP.Max at creation.
type Instance struct {
	InstanceID string          `json:"instanceId"`
	TemplateID string          `json:"templateId"`
	Name       string          `json:"name"`
	Stats      map[string]int  `json:"stats"`
	HP         HitPoints       `json:"hp"`
	AC         *int            `json:"ac,omitempty"`
	Abilities  json.RawMessage `json:"abilities,omitempty"`
	Raw        json.RawMessage `json:"raw,omitempty"`
}

// ToActor converts the instance into an NPC actor record for gameID.
// AC falls back to DefaultArmorClass and hit points are clamped to the
// actor invariants.
func (i *Instance) ToActor(gameID string) *Actor {
	ac := DefaultArmorClass
	if i.AC != nil {
		ac = *i.AC
	}

	stats := make(map[string]int, len(i.Stats))
	for k, v := range i.Stats {
		stats[k] = v
	}

	hpMax := max(1, i.HP.Max)
	hpCurrent := i.HP.Current
	if hpCurrent < 0 || hpCurrent > hpMax {
		hpCurrent = hpMax
	}

	name := i.Name
	if name == "" {
		name = i.TemplateID
	}
	if name == "" {
		name = DefaultInstanceName
	}

	return &Actor{
		ID:        i.InstanceID,
		GameID:    gameID,
		Kind:      ActorKindNPC,
		Name:      name,
		HPCurrent: hpCurrent,
		HPMax:     hpMax,
		AC:        ac,
		Stats:     stats,
		Inventory: []string{},
	}
}
