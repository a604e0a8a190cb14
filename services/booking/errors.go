package booking

import "fmt"

// ValidationError reports missing or malformed required fields. The caller
// can recover by correcting its input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s", e.Message)
}

func NewValidationError(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ConflictError reports that a requested slot is already held or booked.
// The caller can recover by choosing another slot.
type ConflictError struct {
	ServiceID       string
	ConflictingTime string
	Detail          string
}

func (e *ConflictError) Error() string {
	if e.ConflictingTime != "" {
		return fmt.Sprintf("conflict: slot unavailable at %s (%s)", e.ConflictingTime, e.Detail)
	}
	return fmt.Sprintf("conflict: %s", e.Detail)
}

// InvalidTransitionError reports a status move the state machine rejects.
// It usually means the caller acted on a stale view of the booking.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition from %q to %q", e.From, e.To)
}

// NotFoundError reports an unknown booking or hold id.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// UpstreamError reports a failed collaborator call (tenant, identity,
// persistence). Callers should treat it as retryable; it must never be
// silently interpreted as "no conflict".
type UpstreamError struct {
	Collaborator string
	Err          error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Collaborator, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
