package entities

import (
	"encoding/json"
	"math"
	"strings"
)

// DefaultArmorClass applies to actors with no positive armor class
const DefaultArmorClass = 10

// DefaultAbilityScore applies to any missing ability score
const DefaultAbilityScore = 10

// ActorKind distinguishes player-controlled from engine-controlled actors
type ActorKind string

// Actor kinds
const (
	ActorKindPlayer ActorKind = "PLAYER"
	ActorKindNPC    ActorKind = "NPC"
)

// ParseActorKind maps stored kind strings onto ActorKind. PJ and MONSTRE are
// accepted as aliases for PLAYER and NPC; any other value is returned as-is
// (uppercased) so callers can reject it.
func ParseActorKind(s string) ActorKind {
	switch k := strings.ToUpper(strings.TrimSpace(s)); k {
	case "PJ", string(ActorKindPlayer):
		return ActorKindPlayer
	case "MONSTRE", string(ActorKindNPC):
		return ActorKindNPC
	default:
		return ActorKind(k)
	}
}

// Actor is a participant record stored by the character repository
type Actor struct {
	ID        string         `json:"id"`
	GameID    string         `json:"gameId"`
	Kind      ActorKind      `json:"kind"`
	Name      string         `json:"name"`
	HPCurrent int            `json:"hpCurrent"`
	HPMax     int            `json:"hpMax"`
	AC        int            `json:"ac"`
	Stats     map[string]int `json:"stats"`
	Inventory []string       `json:"inventory"`
	CreatedAt int64          `json:"createdAt,omitempty"`
	UpdatedAt int64          `json:"updatedAt,omitempty"`
}

// UnmarshalJSON normalizes kind aliases on the way in
func (a *Actor) UnmarshalJSON(data []byte) error {
	type alias Actor
	var raw alias
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*a = Actor(raw)
	a.Kind = ParseActorKind(string(a.Kind))
	return nil
}

// Stat returns the first present score among keys, else DefaultAbilityScore
func (a *Actor) Stat(keys ...string) int {
	for _, k := range keys {
		if v, ok := a.Stats[k]; ok {
			return v
		}
	}
	return DefaultAbilityScore
}

// Dexterity reads "dexterity" then "dex"
func (a *Actor) Dexterity() int {
	return a.Stat("dexterity", "dex")
}

// Strength reads "strength" then "str"
func (a *Actor) Strength() int {
	return a.Stat("strength", "str")
}

// ArmorClass returns AC, treating non-positive values as DefaultArmorClass
func (a *Actor) ArmorClass() int {
	if a.AC <= 0 {
		return DefaultArmorClass
	}
	return a.AC
}

// Clone returns a deep copy
func (a *Actor) Clone() *Actor {
	if a == nil {
		return nil
	}
	c := *a
	if a.Stats != nil {
		c.Stats = make(map[string]int, len(a.Stats))
		for k, v := range a.Stats {
			c.Stats[k] = v
		}
	}
	if a.Inventory != nil {
		c.Inventory = append([]string(nil), a.Inventory...)
	}
	return &c
}

// AbilityModifier returns floor((score-10)/2)
func AbilityModifier(score int) int {
	return int(math.Floor(float64(score-10) / 2))
}
