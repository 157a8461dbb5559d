package entities

// EncounterState is the lifecycle state of an encounter
type EncounterState string

// Encounter states
const (
	EncounterStateCreated EncounterState = "created"
	EncounterStateRunning EncounterState = "running"
	EncounterStateEnded   EncounterState = "ended"
)

// Encounter tracks the round counter and the round-robin pointer into a
// fixed turn order. RoundIndex stays in [0, len(TurnOrder)).
type Encounter struct {
	ID         string         `json:"id"`
	GameID     string         `json:"gameId"`
	Round      int            `json:"round"`
	RoundIndex int            `json:"roundIndex"`
	TurnOrder  []string       `json:"turnOrder"`
	State      EncounterState `json:"state"`
	Seed       string         `json:"seed,omitempty"`
	CreatedAt  int64          `json:"createdAt,omitempty"`
	UpdatedAt  int64          `json:"updatedAt,omitempty"`
}

// CurrentActorID returns the actor whose turn it is
func (e *Encounter) CurrentActorID() (string, bool) {
	if len(e.TurnOrder) == 0 {
		return "", false
	}
	return e.TurnOrder[e.TurnIndex()], true
}

// TurnIndex folds RoundIndex into [0, len(TurnOrder)); zero for an empty order
func (e *Encounter) TurnIndex() int {
	n := len(e.TurnOrder)
	if n == 0 {
		return 0
	}
	return ((e.RoundIndex % n) + n) % n
}

// Clone returns a deep copy
func (e *Encounter) Clone() *Encounter {
	if e == nil {
		return nil
	}
	c := *e
	if e.TurnOrder != nil {
		c.TurnOrder = append([]string(nil), e.TurnOrder...)
	}
	return &c
}
