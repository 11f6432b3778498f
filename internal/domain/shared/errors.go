package shared

import "fmt"

// DomainError is the base error type for all domain errors
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// CallerError indicates a malformed or invalid request (missing field, bad
// enum value). Maps to HTTP 400. The handler emits an error event to the
// calling character.
type CallerError struct {
	*DomainError
	Field string
}

func NewCallerError(field, message string) *CallerError {
	return &CallerError{
		DomainError: &DomainError{Message: fmt.Sprintf("%s: %s", field, message)},
		Field:       field,
	}
}

// AuthorizationError indicates the actor may not act on the target ship. Maps to 403.
type AuthorizationError struct {
	*DomainError
	ActorID  string
	TargetID string
}

func NewAuthorizationError(actorID, targetID string) *AuthorizationError {
	return &AuthorizationError{
		DomainError: &DomainError{Message: fmt.Sprintf("actor %s is not authorized to act on %s", actorID, targetID)},
		ActorID:     actorID,
		TargetID:    targetID,
	}
}

// RateLimitError indicates the caller exceeded its per-method call budget. Maps to 429.
type RateLimitError struct {
	*DomainError
	CharacterID string
	Method      string
}

func NewRateLimitError(characterID, method string) *RateLimitError {
	return &RateLimitError{
		DomainError: &DomainError{Message: fmt.Sprintf("rate limit exceeded for %s on %s", characterID, method)},
		CharacterID: characterID,
		Method:      method,
	}
}

// StateConflictError indicates the request does not match persisted state
// (no active combat in the sector, stale round number). Maps to 409. No error
// event is emitted for these.
type StateConflictError struct {
	*DomainError
}

func NewStateConflictError(message string) *StateConflictError {
	return &StateConflictError{DomainError: &DomainError{Message: message}}
}

// DataIntegrityError indicates persisted state that violates an invariant
// (missing ship template, orphan reference). Maps to 500; logged, never
// crashes the handler pool.
type DataIntegrityError struct {
	*DomainError
}

func NewDataIntegrityError(message string) *DataIntegrityError {
	return &DataIntegrityError{DomainError: &DomainError{Message: message}}
}

// SectorUnavailableError indicates a sector row could not be loaded.
type SectorUnavailableError struct {
	*DomainError
	SectorID int
}

func NewSectorUnavailableError(sectorID int) *SectorUnavailableError {
	return &SectorUnavailableError{
		DomainError: &DomainError{Message: fmt.Sprintf("sector %d is not loadable", sectorID)},
		SectorID:    sectorID,
	}
}

// TransientStorageError indicates a retryable persistence failure
// (optimistic-version miss, connection blip). Retried with backoff; surfaced
// as a StateConflictError after exhaustion.
type TransientStorageError struct {
	*DomainError
	Cause error
}

func NewTransientStorageError(message string, cause error) *TransientStorageError {
	return &TransientStorageError{
		DomainError: &DomainError{Message: message},
		Cause:       cause,
	}
}

func (e *TransientStorageError) Unwrap() error {
	return e.Cause
}

// Validation error

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// StatusCode maps a domain error to its HTTP-equivalent status for the
// response envelope and for direct error events.
func StatusCode(err error) int {
	switch err.(type) {
	case *CallerError, *ValidationError:
		return 400
	case *AuthorizationError:
		return 403
	case *RateLimitError:
		return 429
	case *StateConflictError:
		return 409
	case *DataIntegrityError, *SectorUnavailableError:
		return 500
	case *TransientStorageError:
		return 409
	default:
		return 500
	}
}
