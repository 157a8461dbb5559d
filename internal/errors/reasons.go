package errors

import "errors"

// Reason narrows a Code down to a specific engine failure so callers can
// branch on it without string matching.
type Reason string

// Engine failure reasons
const (
	ReasonRemoteFetch       Reason = "REMOTE_FETCH"
	ReasonTemplateNotFound  Reason = "TEMPLATE_NOT_FOUND"
	ReasonEmptyTurnOrder    Reason = "EMPTY_TURN_ORDER"
	ReasonUnknownActorKind  Reason = "UNKNOWN_ACTOR_KIND"
	ReasonActorNotFound     Reason = "ACTOR_NOT_FOUND"
	ReasonEncounterNotFound Reason = "ENCOUNTER_NOT_FOUND"
	ReasonEncounterEnded    Reason = "ENCOUNTER_ENDED"
	ReasonOracleUnavailable Reason = "ORACLE_UNAVAILABLE"
	ReasonPointerConflict   Reason = "POINTER_CONFLICT"
)

// String returns the string representation of the reason
func (r Reason) String() string {
	return string(r)
}

// RemoteFetchf reports that the remote document store could not be read
func RemoteFetchf(cause error, format string, args ...any) *Error {
	return recode(cause, CodeUnavailable, format, args...).WithReason(ReasonRemoteFetch)
}

// TemplateNotFoundf reports that no template or candidate path resolved
func TemplateNotFoundf(format string, args ...any) *Error {
	return NotFoundf(format, args...).WithReason(ReasonTemplateNotFound)
}

// EmptyTurnOrder reports an advance on an encounter with no initiative rolled
func EmptyTurnOrder(encounterID string) *Error {
	return FailedPreconditionf("turn order is empty").
		WithReason(ReasonEmptyTurnOrder).
		WithMeta("encounter_id", encounterID)
}

// UnknownActorKind reports an actor whose kind is neither player nor NPC
func UnknownActorKind(actorID, kind string) *Error {
	return FailedPreconditionf("unknown actor kind %q", kind).
		WithReason(ReasonUnknownActorKind).
		WithMeta("actor_id", actorID)
}

// ActorNotFound reports a missing character record
func ActorNotFound(actorID string) *Error {
	return NotFoundf("actor %s not found", actorID).
		WithReason(ReasonActorNotFound).
		WithMeta("actor_id", actorID)
}

// EncounterNotFound reports a missing encounter record
func EncounterNotFound(encounterID string) *Error {
	return NotFoundf("encounter %s not found", encounterID).
		WithReason(ReasonEncounterNotFound).
		WithMeta("encounter_id", encounterID)
}

// OracleUnavailable reports that the decision oracle could not be reached or
// answered with a non-success status
func OracleUnavailable(cause error) *Error {
	return recode(cause, CodeUnavailable, "decision oracle unavailable").WithReason(ReasonOracleUnavailable)
}

// EncounterEnded reports an operation on an encounter that already ended
func EncounterEnded(encounterID string) *Error {
	return FailedPreconditionf("encounter %s has ended", encounterID).
		WithReason(ReasonEncounterEnded).
		WithMeta("encounter_id", encounterID)
}

// PointerConflict reports a turn pointer write that lost a race
func PointerConflict(encounterID string, expected, actual int) *Error {
	return Abortedf("encounter %s turn pointer moved from %d to %d", encounterID, expected, actual).
		WithReason(ReasonPointerConflict).
		WithMeta("encounter_id", encounterID)
}

// GetReason extracts the outermost reason from an error chain
func GetReason(err error) Reason {
	var customErr *Error
	for err != nil {
		if !errors.As(err, &customErr) {
			return ""
		}
		if customErr.Reason != "" {
			return customErr.Reason
		}
		err = customErr.Cause
	}
	return ""
}

// HasReason checks whether any error in the chain carries the reason
func HasReason(err error, reason Reason) bool {
	for err != nil {
		var customErr *Error
		if !errors.As(err, &customErr) {
			return false
		}
		if customErr.Reason == reason {
			return true
		}
		err = customErr.Cause
	}
	return false
}
