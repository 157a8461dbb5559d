package entities

import "math"

// ActionType is a combat action an actor may take
type ActionType string

// Action types understood by the decision schema
const (
	ActionTypeAttack  ActionType = "attack"
	ActionTypeMove    ActionType = "move"
	ActionTypeCast    ActionType = "cast"
	ActionTypeUseItem ActionType = "use_item"
	ActionTypeSpecial ActionType = "special"
	ActionTypeEndTurn ActionType = "end_turn"
)

// ActionTypes lists every valid action type
var ActionTypes = []ActionType{
	ActionTypeAttack,
	ActionTypeMove,
	ActionTypeCast,
	ActionTypeUseItem,
	ActionTypeSpecial,
	ActionTypeEndTurn,
}

// Valid reports whether t is a known action type
func (t ActionType) Valid() bool {
	for _, known := range ActionTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Action is what an actor does on its turn
type Action struct {
	Type     ActionType             `json:"type" jsonschema:"required,enum=attack,enum=move,enum=cast,enum=use_item,enum=special,enum=end_turn"`
	TargetID *string                `json:"targetId,omitempty" jsonschema:"description=actor id from the scene or null"`
	Params   map[string]interface{} `json:"params,omitempty" jsonschema:"description=optional parameters such as dmgDie atkMod distance spellName"`
}

// Target returns the target id or an empty string
func (a *Action) Target() string {
	if a.TargetID == nil {
		return ""
	}
	return *a.TargetID
}

// IntParam reads an integral numeric parameter
func (a *Action) IntParam(key string) (int, bool) {
	v, ok := a.Params[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return int(math.Floor(n)), true
	case int:
		return n, true
	case int64:
		return int(n), true
	default:
		return 0, false
	}
}

// Decision is the structured answer expected from the decision oracle
type Decision struct {
	Action      Action   `json:"action" jsonschema:"required"`
	Explanation string   `json:"explanation,omitempty" jsonschema:"description=short explanation of the choice"`
	Confidence  *float64 `json:"confidence,omitempty" jsonschema:"minimum=0,maximum=1"`
}

// FallbackDecision is the canonical safe decision: end the turn with zero
// confidence
func FallbackDecision(explanation string) *Decision {
	zero := 0.0
	return &Decision{
		Action:      Action{Type: ActionTypeEndTurn},
		Explanation: explanation,
		Confidence:  &zero,
	}
}

// DecisionResult carries the decision plus diagnostics. Warning is set only
// when the fallback replaced the oracle answer.
type DecisionResult struct {
	Decision *Decision `json:"ai"`
	Warning  string    `json:"warning,omitempty"`
	Raw      string    `json:"raw"`
}

// IsFallback reports whether the oracle answer was discarded
func (r *DecisionResult) IsFallback() bool {
	return r.Warning != ""
}
