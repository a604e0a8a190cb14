package models

// Notification recipient roles.
const (
	RecipientCustomer = "customer"
	RecipientStaff    = "staff"
	RecipientAdmin    = "admin"
	RecipientOwner    = "owner"
)

// Notification template kinds.
const (
	TemplateBookingCreated    = "booking_created"
	TemplateBookingAssigned   = "booking_assigned"
	TemplateAssignmentNeeded  = "assignment_needed"
	TemplateBookingTransition = "booking_transition"
)

// NotificationIntent describes who must be told what after a workflow event.
// Delivery and retry belong to the notification collaborator; intents are
// best-effort side effects and never roll back the booking they describe.
type NotificationIntent struct {
	RecipientRole string            `json:"recipientRole"`
	RecipientID   string            `json:"recipientId"`
	TemplateKind  string            `json:"templateKind"`
	Payload       map[string]string `json:"payload,omitempty"`
}
