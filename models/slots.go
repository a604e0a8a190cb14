package models

// SlotCandidate is one proposed (service, staff, time) entry to be checked
// against the hold/booking universe. EligibleStaff is consulted only when the
// staff assignment is AnyStaff: it is the pool of staff ids able to perform
// the service at the branch.
type SlotCandidate struct {
	ServiceID     string          `json:"serviceId"`
	Staff         StaffAssignment `json:"staff,omitempty"`
	Start         int             `json:"start"`
	Duration      int             `json:"duration"`
	EligibleStaff []string        `json:"eligibleStaff,omitempty"`
}

// Range returns the candidate's minute interval.
func (c SlotCandidate) Range() TimeRange {
	return TimeRange{Start: c.Start, Duration: c.Duration}
}

// SlotCheckResult reports the availability verdict for one candidate.
type SlotCheckResult struct {
	ServiceID       string `json:"serviceId"`
	HeldByOther     bool   `json:"heldByOther"`
	ConflictingTime string `json:"conflictingTime,omitempty"`
	Detail          string `json:"detail,omitempty"`
}
