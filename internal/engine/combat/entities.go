package combat

import (
	"github.com/KirkDiggler/rpg-toolkit/core"

	"github.com/KirkDiggler/rpg-encounter/internal/entities"
)

// Entity types carried on published events
const (
	EntityTypePlayer = "player"
	EntityTypeNPC    = "npc"
)

// ActorEntity wraps entities.Actor to implement core.Entity
type ActorEntity struct {
	*entities.Actor
}

var _ core.Entity = (*ActorEntity)(nil)

// GetID returns the actor's ID
func (a *ActorEntity) GetID() string {
	return a.ID
}

// GetType maps the actor kind onto an entity type
func (a *ActorEntity) GetType() string {
	if a.Kind == entities.ActorKindPlayer {
		return EntityTypePlayer
	}
	return EntityTypeNPC
}

func wrapActor(actor *entities.Actor) *ActorEntity {
	if actor == nil {
		return nil
	}
	return &ActorEntity{Actor: actor}
}
