package booking

import (
	"time"

	"salonbook/models"
)

// claim is one existing occupation of staff time: a held service from another
// session or a service line on a blocking booking.
type claim struct {
	staff  models.StaffAssignment
	rng    models.TimeRange
	source string // "hold" or "booking"
}

// collectClaims flattens the non-expired foreign holds and the blocking
// bookings for one branch into the conflict universe. The requester's own
// session never conflicts with itself.
func collectClaims(holds []models.Hold, bookings []models.Booking, branchID, ownSession string, now time.Time) []claim {
	var claims []claim
	for _, h := range holds {
		if h.SessionID == ownSession || h.BranchID != branchID || !h.Live(now) {
			continue
		}
		for _, hs := range h.Services {
			claims = append(claims, claim{staff: hs.Staff, rng: hs.Range(), source: "hold"})
		}
	}
	for _, b := range bookings {
		if b.BranchID != branchID || !b.Status.Blocks() {
			continue
		}
		for _, svc := range b.Services {
			claims = append(claims, claim{staff: svc.Staff, rng: svc.Range(), source: "booking"})
		}
	}
	return claims
}

// checkCandidate applies the conflict rules for one candidate against the
// claim universe.
//
// Specific staff: a conflict exists when an overlapping claim names the same
// staff member, or when the overlapping claim is staff-unassigned — the
// ambiguous case is treated as a possible conflict, erring toward blocking
// rather than risking a double-booking.
//
// Any available: the shared pool model. Each overlapping unassigned claim
// consumes one unit of the eligible pool (its eventual staff member is
// unknown), each overlapping claim naming an eligible staff member removes
// that member. The slot is free iff the pool retains at least one unit.
func checkCandidate(c models.SlotCandidate, claims []claim) models.SlotCheckResult {
	result := models.SlotCheckResult{ServiceID: c.ServiceID}
	cRange := c.Range()

	if !c.Staff.IsAny() {
		for _, cl := range claims {
			if !cRange.Overlaps(cl.rng) {
				continue
			}
			if cl.staff.Same(c.Staff) {
				return conflictResult(c, cl, "staff member already claimed")
			}
			if cl.staff.IsAny() {
				return conflictResult(c, cl, "overlapping unassigned claim may need this staff member")
			}
		}
		return result
	}

	// Any-available: count pool consumption by overlapping claims.
	eligible := make(map[string]bool, len(c.EligibleStaff))
	for _, id := range c.EligibleStaff {
		eligible[id] = true
	}

	occupiedNamed := make(map[string]bool)
	anyCount := 0
	var firstOverlap *claim
	for i, cl := range claims {
		if !cRange.Overlaps(cl.rng) {
			continue
		}
		if firstOverlap == nil {
			firstOverlap = &claims[i]
		}
		if cl.staff.IsAny() {
			anyCount++
		} else if eligible[string(cl.staff)] {
			occupiedNamed[string(cl.staff)] = true
		}
	}

	if len(c.EligibleStaff) == 0 {
		// Without a known pool any overlap must be assumed to exhaust it.
		if firstOverlap != nil {
			return conflictResult(c, *firstOverlap, "no eligible staff pool known for overlapping claim")
		}
		return result
	}

	if len(c.EligibleStaff)-len(occupiedNamed)-anyCount <= 0 {
		return conflictResult(c, *firstOverlap, "all eligible staff consumed by overlapping claims")
	}
	return result
}

func conflictResult(c models.SlotCandidate, cl claim, detail string) models.SlotCheckResult {
	return models.SlotCheckResult{
		ServiceID:       c.ServiceID,
		HeldByOther:     true,
		ConflictingTime: cl.rng.Label(),
		Detail:          detail + " (" + cl.source + ")",
	}
}

// CheckAvailability evaluates every candidate against the non-expired foreign
// holds and blocking bookings for a branch, returning one verdict per
// candidate. It is pure once its inputs are fetched.
func CheckAvailability(
	candidates []models.SlotCandidate,
	holds []models.Hold,
	bookings []models.Booking,
	branchID, ownSession string,
	now time.Time,
) []models.SlotCheckResult {
	claims := collectClaims(holds, bookings, branchID, ownSession, now)
	results := make([]models.SlotCheckResult, 0, len(candidates))
	for _, c := range candidates {
		results = append(results, checkCandidate(c, claims))
	}
	return results
}

// FirstConflict runs the checker and converts the first conflicting candidate
// into a ConflictError for the server-side create path.
func FirstConflict(
	candidates []models.SlotCandidate,
	holds []models.Hold,
	bookings []models.Booking,
	branchID, ownSession string,
	now time.Time,
) error {
	for _, res := range CheckAvailability(candidates, holds, bookings, branchID, ownSession, now) {
		if res.HeldByOther {
			return &ConflictError{
				ServiceID:       res.ServiceID,
				ConflictingTime: res.ConflictingTime,
				Detail:          res.Detail,
			}
		}
	}
	return nil
}
