package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	bookingRepo "salonbook/database/repository/booking"
	"salonbook/models"
	"salonbook/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// lockTTL bounds how long the advisory lock for a (salon, branch, date)
// combination may outlive a crashed writer.
const lockTTL = 15 * time.Second

// CreateBooking validates the request, re-checks availability against the
// persisted hold/booking universe under an advisory lock, persists the
// booking, releases the creating session's holds, and emits notification
// intents. Notification delivery is best-effort and never rolls back the
// booking.
func (s *DefaultBookingWorkflowService) CreateBooking(ctx context.Context, req models.CreateBookingRequest) (*models.Booking, []models.NotificationIntent, error) {
	logger := utils.GetLogger()

	if err := validateCreateRequest(req); err != nil {
		return nil, nil, err
	}

	salon, err := s.TenantSvc.GetSalon(ctx, req.SalonID)
	if err != nil {
		return nil, nil, &UpstreamError{Collaborator: "tenant", Err: err}
	}
	if salon == nil {
		return nil, nil, &NotFoundError{Resource: "salon", ID: req.SalonID}
	}
	if !salon.Active {
		return nil, nil, NewValidationError("salon %s is not active", req.SalonID)
	}

	now := time.Now()
	services := make([]models.BookingService, 0, len(req.Services))
	candidates := make([]models.SlotCandidate, 0, len(req.Services))
	for _, in := range req.Services {
		services = append(services, models.BookingService{
			ServiceID:   in.ServiceID,
			ServiceName: in.ServiceName,
			Staff:       in.Staff,
			Start:       in.Start,
			Duration:    in.Duration,
			Price:       in.Price,
			Approval:    InitialApproval(in.Staff),
		})
		candidates = append(candidates, models.SlotCandidate{
			ServiceID:     in.ServiceID,
			Staff:         in.Staff,
			Start:         in.Start,
			Duration:      in.Duration,
			EligibleStaff: in.EligibleStaff,
		})
	}

	booking := &models.Booking{
		ID:        uuid.New().String(),
		Code:      GenerateBookingCode(s.CodePrefix, now),
		SalonID:   req.SalonID,
		BranchID:  req.BranchID,
		Customer:  req.Customer,
		Date:      req.Date,
		Services:  services,
		Status:    InitialStatus(services),
		Source:    req.Source,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// Serialize the re-check + insert per contended combination. Disjoint
	// combinations proceed in parallel.
	lock := &models.BookingLock{
		ID:        bookingRepo.LockID(req.SalonID, req.BranchID, req.Date),
		ExpiresAt: now.Add(lockTTL),
	}
	if err := s.LockRepo.Acquire(ctx, lock); err != nil {
		if errors.Is(err, bookingRepo.ErrLockHeld) {
			return nil, nil, &ConflictError{Detail: "another booking for this slot is being finalized, retry shortly"}
		}
		return nil, nil, &UpstreamError{Collaborator: "persistence", Err: err}
	}
	defer func() {
		if err := s.LockRepo.Release(context.WithoutCancel(ctx), lock.ID); err != nil {
			logger.Warn("failed to release booking lock", zap.String("lockId", lock.ID), zap.Error(err))
		}
	}()

	holds, err := s.Holds.ListActive(ctx, req.SalonID, req.Date)
	if err != nil {
		return nil, nil, &UpstreamError{Collaborator: "hold store", Err: err}
	}

	err = s.Repo.CreateWithRecheck(ctx, booking, func(existing []models.Booking) error {
		return FirstConflict(candidates, holds, existing, req.BranchID, req.SessionID, time.Now())
	})
	if err != nil {
		var conflict *ConflictError
		if errors.As(err, &conflict) {
			return nil, nil, conflict
		}
		return nil, nil, &UpstreamError{Collaborator: "persistence", Err: err}
	}

	// The durable booking supersedes the session's soft holds.
	if req.SessionID != "" {
		if err := s.Holds.ReleaseAll(ctx, req.SessionID); err != nil {
			logger.Warn("failed to release session holds after booking",
				zap.String("sessionId", req.SessionID), zap.Error(err))
		}
	}

	intents := buildCreationIntents(booking, salon)
	if err := s.NotificationSvc.Dispatch(ctx, intents); err != nil {
		logger.Warn("notification dispatch failed", zap.String("bookingId", booking.ID), zap.Error(err))
	}

	logger.Info("booking created",
		zap.String("bookingId", booking.ID),
		zap.String("code", booking.Code),
		zap.String("status", string(booking.Status)))
	return booking, intents, nil
}

func validateCreateRequest(req models.CreateBookingRequest) error {
	switch {
	case req.SalonID == "":
		return NewValidationError("salonId is required")
	case req.BranchID == "":
		return NewValidationError("branchId is required")
	case req.Customer.Name == "":
		return NewValidationError("customer name is required")
	case len(req.Services) == 0:
		return NewValidationError("at least one service is required")
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		return NewValidationError("date must be YYYY-MM-DD, got %q", req.Date)
	}
	for _, svc := range req.Services {
		if svc.ServiceID == "" {
			return NewValidationError("every service needs a serviceId")
		}
		if svc.Duration <= 0 {
			return NewValidationError("service %s needs a positive duration", svc.ServiceID)
		}
		if svc.Start < 0 || svc.Start+svc.Duration > 24*60 {
			return NewValidationError("service %s time is outside the day", svc.ServiceID)
		}
		if svc.Price < 0 {
			return NewValidationError("service %s price cannot be negative", svc.ServiceID)
		}
	}
	return nil
}

// buildCreationIntents computes the notification fan-out set: the customer
// always, each distinct assigned staff member with only their services, the
// branch admin when distinct from the owner, and the owner always.
func buildCreationIntents(b *models.Booking, salon *models.Salon) []models.NotificationIntent {
	base := map[string]string{
		"bookingId":   b.ID,
		"bookingCode": b.Code,
		"date":        b.Date,
	}
	payload := func(extra map[string]string) map[string]string {
		p := make(map[string]string, len(base)+len(extra))
		for k, v := range base {
			p[k] = v
		}
		for k, v := range extra {
			p[k] = v
		}
		return p
	}

	customerID := b.Customer.AccountID
	if customerID == "" {
		customerID = b.Customer.Email
	}

	var intents []models.NotificationIntent
	intents = append(intents, models.NotificationIntent{
		RecipientRole: models.RecipientCustomer,
		RecipientID:   customerID,
		TemplateKind:  models.TemplateBookingCreated,
		Payload:       payload(map[string]string{"status": b.Status.CustomerVisible()}),
	})

	// One notification per distinct staff member, listing only their services.
	servicesByStaff := make(map[string][]string)
	for _, svc := range b.Services {
		if svc.Staff.IsAny() {
			continue
		}
		servicesByStaff[string(svc.Staff)] = append(servicesByStaff[string(svc.Staff)], svc.ServiceID)
	}
	for _, staffID := range b.AssignedStaff() {
		intents = append(intents, models.NotificationIntent{
			RecipientRole: models.RecipientStaff,
			RecipientID:   staffID,
			TemplateKind:  models.TemplateBookingAssigned,
			Payload:       payload(map[string]string{"services": strings.Join(servicesByStaff[staffID], ",")}),
		})
	}

	adminKind := models.TemplateBookingCreated
	if hasUnassigned(b.Services) {
		adminKind = models.TemplateAssignmentNeeded
	}
	if adminID := salon.BranchAdmin(b.BranchID); adminID != "" && adminID != salon.OwnerID {
		intents = append(intents, models.NotificationIntent{
			RecipientRole: models.RecipientAdmin,
			RecipientID:   adminID,
			TemplateKind:  adminKind,
			Payload:       payload(nil),
		})
	}
	intents = append(intents, models.NotificationIntent{
		RecipientRole: models.RecipientOwner,
		RecipientID:   salon.OwnerID,
		TemplateKind:  adminKind,
		Payload:       payload(nil),
	})
	return intents
}

func hasUnassigned(services []models.BookingService) bool {
	for _, svc := range services {
		if svc.Approval == models.ApprovalNeedsAssignment {
			return true
		}
	}
	return false
}

// TransitionBooking applies a requested move. Per-service actions first
// mutate that service's approval state, then the aggregate status implied by
// all services is validated against the transition table.
func (s *DefaultBookingWorkflowService) TransitionBooking(ctx context.Context, bookingID string, req models.TransitionRequest, actor models.Actor) (*models.Booking, error) {
	booking, err := s.Repo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, &NotFoundError{Resource: "booking", ID: bookingID}
		}
		return nil, &UpstreamError{Collaborator: "persistence", Err: err}
	}

	current := booking.Status
	var next models.BookingStatus

	if req.ServiceID != "" || req.Action != "" {
		next, err = s.applyServiceAction(booking, req, actor)
		if err != nil {
			return nil, err
		}
		// A service action may leave the aggregate unchanged (e.g. the second
		// of three acceptances); only an actual move is checked against the table.
		if next != current {
			if !CanTransition(current, next) {
				return nil, &InvalidTransitionError{From: string(current), To: string(next)}
			}
			booking.Status = next
		}
	} else {
		next = req.Status
		if next == "" {
			return nil, NewValidationError("either a status or a per-service action is required")
		}
		if next == models.StatusAwaitingStaffApproval && current == models.StatusPending && !anyAssigned(booking.Services) {
			return nil, NewValidationError("cannot route to staff approval: no service has an assigned staff member")
		}
		// Explicit status requests always face the table; self-transitions are
		// not listed there and fail rather than silently re-persisting.
		if !CanTransition(current, next) {
			return nil, &InvalidTransitionError{From: string(current), To: string(next)}
		}
		booking.Status = next
	}

	booking.UpdatedAt = time.Now()
	if err := s.Repo.Update(ctx, booking); err != nil {
		return nil, &UpstreamError{Collaborator: "persistence", Err: err}
	}

	intents := buildTransitionIntents(booking, actor)
	if err := s.NotificationSvc.Dispatch(ctx, intents); err != nil {
		utils.GetLogger().Warn("notification dispatch failed",
			zap.String("bookingId", booking.ID), zap.Error(err))
	}
	return booking, nil
}

// applyServiceAction mutates one service line and returns the aggregate
// status the booking should move to.
func (s *DefaultBookingWorkflowService) applyServiceAction(booking *models.Booking, req models.TransitionRequest, actor models.Actor) (models.BookingStatus, error) {
	if req.ServiceID == "" {
		return "", NewValidationError("serviceId is required for per-service actions")
	}
	idx := -1
	for i := range booking.Services {
		if booking.Services[i].ServiceID == req.ServiceID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return "", &NotFoundError{Resource: "booking service", ID: req.ServiceID}
	}
	svc := &booking.Services[idx]
	now := time.Now()

	switch req.Action {
	case models.ActionAccept, models.ActionReject:
		if actor.Role == models.RecipientStaff && !svc.Staff.Is(actor.ID) {
			return "", NewValidationError("staff %s is not assigned to service %s", actor.ID, req.ServiceID)
		}
		if svc.Approval != models.ApprovalPending {
			return "", &InvalidTransitionError{From: string(svc.Approval), To: string(models.ApprovalAccepted)}
		}
		if req.Action == models.ActionAccept {
			svc.Approval = models.ApprovalAccepted
		} else {
			svc.Approval = models.ApprovalRejected
		}
		svc.ActedBy = actor.ID
		svc.ActedAt = &now

	case models.ActionAssign:
		if actor.Role != models.RecipientAdmin && actor.Role != models.RecipientOwner {
			return "", NewValidationError("only an admin can assign staff")
		}
		if req.Staff.IsAny() {
			return "", NewValidationError("a concrete staff member is required for assignment")
		}
		if svc.Approval != models.ApprovalNeedsAssignment && svc.Approval != models.ApprovalRejected {
			return "", &InvalidTransitionError{From: string(svc.Approval), To: string(models.ApprovalPending)}
		}
		svc.Staff = req.Staff
		svc.Approval = models.ApprovalPending
		svc.ActedBy = actor.ID
		svc.ActedAt = &now

	case models.ActionComplete:
		if booking.Status != models.StatusConfirmed {
			return "", &InvalidTransitionError{From: string(booking.Status), To: string(models.StatusCompleted)}
		}
		svc.Completed = true
		svc.CompletedBy = actor.ID
		svc.CompletedAt = &now
		if allCompleted(booking.Services) {
			return models.StatusCompleted, nil
		}
		return booking.Status, nil

	default:
		return "", NewValidationError("unknown action %q", req.Action)
	}

	return AggregateStatus(booking.Services), nil
}

func anyAssigned(services []models.BookingService) bool {
	for _, svc := range services {
		if !svc.Staff.IsAny() {
			return true
		}
	}
	return false
}

func allCompleted(services []models.BookingService) bool {
	for _, svc := range services {
		if !svc.Completed {
			return false
		}
	}
	return true
}

// buildTransitionIntents tells the customer (projected label only) and the
// acting side's counterpart about a status change.
func buildTransitionIntents(b *models.Booking, actor models.Actor) []models.NotificationIntent {
	customerID := b.Customer.AccountID
	if customerID == "" {
		customerID = b.Customer.Email
	}
	intents := []models.NotificationIntent{{
		RecipientRole: models.RecipientCustomer,
		RecipientID:   customerID,
		TemplateKind:  models.TemplateBookingTransition,
		Payload: map[string]string{
			"bookingId":   b.ID,
			"bookingCode": b.Code,
			"status":      b.Status.CustomerVisible(),
		},
	}}
	// Staff actions surface to the owner/admin side for oversight.
	if actor.Role == models.RecipientStaff {
		intents = append(intents, models.NotificationIntent{
			RecipientRole: models.RecipientOwner,
			RecipientID:   "", // resolved by the notification collaborator per salon
			TemplateKind:  models.TemplateBookingTransition,
			Payload: map[string]string{
				"bookingId":   b.ID,
				"bookingCode": b.Code,
				"status":      string(b.Status),
				"salonId":     b.SalonID,
			},
		})
	}
	return intents
}

// CheckSlots runs the availability check against the current hold/booking
// universe without taking any lock. The result is advisory: the create path
// re-checks under the advisory lock before persisting.
func (s *DefaultBookingWorkflowService) CheckSlots(ctx context.Context, salonID, branchID, date, sessionID string, candidates []models.SlotCandidate) ([]models.SlotCheckResult, error) {
	if salonID == "" || branchID == "" || date == "" {
		return nil, NewValidationError("salonId, branchId and date are required")
	}
	holds, err := s.Holds.ListActive(ctx, salonID, date)
	if err != nil {
		return nil, &UpstreamError{Collaborator: "hold store", Err: err}
	}
	bookings, err := s.Repo.ListBlocking(ctx, salonID, branchID, date)
	if err != nil {
		return nil, &UpstreamError{Collaborator: "persistence", Err: err}
	}
	return CheckAvailability(candidates, holds, bookings, branchID, sessionID, time.Now()), nil
}

// GetBooking retrieves a booking by id.
func (s *DefaultBookingWorkflowService) GetBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	booking, err := s.Repo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, &NotFoundError{Resource: "booking", ID: bookingID}
		}
		return nil, &UpstreamError{Collaborator: "persistence", Err: err}
	}
	return booking, nil
}

// GetBookingByCode retrieves a booking by its human-readable code.
func (s *DefaultBookingWorkflowService) GetBookingByCode(ctx context.Context, code string) (*models.Booking, error) {
	booking, err := s.Repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, &NotFoundError{Resource: "booking", ID: code}
		}
		return nil, &UpstreamError{Collaborator: "persistence", Err: err}
	}
	return booking, nil
}

// ListBookings returns every booking for a salon/branch/date.
func (s *DefaultBookingWorkflowService) ListBookings(ctx context.Context, salonID, branchID, date string) ([]models.Booking, error) {
	if salonID == "" || branchID == "" || date == "" {
		return nil, NewValidationError("salonId, branchId and date are required")
	}
	bookings, err := s.Repo.ListByBranchDate(ctx, salonID, branchID, date)
	if err != nil {
		return nil, &UpstreamError{Collaborator: "persistence", Err: err}
	}
	return bookings, nil
}
