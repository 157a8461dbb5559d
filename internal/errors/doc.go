// Package errors is the encounter engine's error taxonomy.
//
// An *Error carries a Code, which decides the HTTP or gRPC status, and for
// engine failures a Reason naming the exact condition. Handlers branch on
// the code; callers that need more precision branch on the reason:
//
//	err := errors.EncounterEnded(encounterID)
//	errors.IsFailedPrecondition(err)                    // true
//	errors.HasReason(err, errors.ReasonEncounterEnded)  // true
//
// Wrap adds context and keeps the code, reason and metadata underneath.
// Anything that is not an *Error surfaces as CodeInternal.
//
// Repositories report NotFound and AlreadyExists. Orchestrators report
// InvalidArgument for bad input and FailedPrecondition for encounter state.
// Oracle and archive failures are Unavailable. A malformed oracle decision
// is never an error; the decision service turns it into end_turn.
package errors
