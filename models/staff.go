package models

// AnyStaff is the sentinel assignment meaning "assign any eligible staff member later".
const AnyStaff StaffAssignment = "any"

// StaffAssignment is either a concrete staff id or the AnyStaff sentinel.
// The empty string is treated the same as AnyStaff: the slot has no concrete owner yet.
type StaffAssignment string

// IsAny reports whether the assignment has no concrete staff member.
func (s StaffAssignment) IsAny() bool {
	return s == AnyStaff || s == ""
}

// Is reports whether the assignment names the given concrete staff id.
func (s StaffAssignment) Is(staffID string) bool {
	return !s.IsAny() && string(s) == staffID
}

// Same reports whether two assignments name the same concrete staff member.
// Assignments without a concrete staff member never compare equal here;
// ambiguity is handled by the availability policy, not by equality.
func (s StaffAssignment) Same(other StaffAssignment) bool {
	return !s.IsAny() && !other.IsAny() && s == other
}
