package booking

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	bookingRepo "salonbook/database/repository/booking"
	"salonbook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockBookingRepo struct {
	GetByIDFunc          func(ctx context.Context, bookingID string) (*models.Booking, error)
	GetByCodeFunc        func(ctx context.Context, code string) (*models.Booking, error)
	ListBlockingFunc     func(ctx context.Context, salonID, branchID, date string) ([]models.Booking, error)
	ListByBranchDateFunc func(ctx context.Context, salonID, branchID, date string) ([]models.Booking, error)
	UpdateFunc           func(ctx context.Context, booking *models.Booking) error
	CreateFunc           func(ctx context.Context, booking *models.Booking, verify func([]models.Booking) error) error
}

func (m *mockBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	return m.GetByIDFunc(ctx, id)
}
func (m *mockBookingRepo) GetByCode(ctx context.Context, code string) (*models.Booking, error) {
	return m.GetByCodeFunc(ctx, code)
}
func (m *mockBookingRepo) ListBlocking(ctx context.Context, salonID, branchID, date string) ([]models.Booking, error) {
	return m.ListBlockingFunc(ctx, salonID, branchID, date)
}
func (m *mockBookingRepo) ListByBranchDate(ctx context.Context, salonID, branchID, date string) ([]models.Booking, error) {
	return m.ListByBranchDateFunc(ctx, salonID, branchID, date)
}
func (m *mockBookingRepo) Update(ctx context.Context, booking *models.Booking) error {
	return m.UpdateFunc(ctx, booking)
}
func (m *mockBookingRepo) CreateWithRecheck(ctx context.Context, booking *models.Booking, verify func([]models.Booking) error) error {
	return m.CreateFunc(ctx, booking, verify)
}

type mockLockRepo struct {
	AcquireFunc func(ctx context.Context, lock *models.BookingLock) error
	ReleaseFunc func(ctx context.Context, lockID string) error
}

func (m *mockLockRepo) Acquire(ctx context.Context, lock *models.BookingLock) error {
	return m.AcquireFunc(ctx, lock)
}
func (m *mockLockRepo) Release(ctx context.Context, lockID string) error {
	return m.ReleaseFunc(ctx, lockID)
}

type mockHoldRepo struct {
	CreateFunc     func(ctx context.Context, hold *models.Hold) error
	ReleaseFunc    func(ctx context.Context, holdID, sessionID string) error
	ReleaseAllFunc func(ctx context.Context, sessionID string) error
	ListActiveFunc func(ctx context.Context, salonID, date string) ([]models.Hold, error)
	ReapFunc       func(ctx context.Context, salonID, date, holdID string) error
}

func (m *mockHoldRepo) Create(ctx context.Context, hold *models.Hold) error {
	return m.CreateFunc(ctx, hold)
}
func (m *mockHoldRepo) Release(ctx context.Context, holdID, sessionID string) error {
	return m.ReleaseFunc(ctx, holdID, sessionID)
}
func (m *mockHoldRepo) ReleaseAll(ctx context.Context, sessionID string) error {
	return m.ReleaseAllFunc(ctx, sessionID)
}
func (m *mockHoldRepo) ListActive(ctx context.Context, salonID, date string) ([]models.Hold, error) {
	return m.ListActiveFunc(ctx, salonID, date)
}
func (m *mockHoldRepo) Reap(ctx context.Context, salonID, date, holdID string) error {
	return m.ReapFunc(ctx, salonID, date, holdID)
}
func (m *mockHoldRepo) Subscribe(ctx context.Context, salonID, date string, fn func()) (func(), error) {
	return func() {}, nil
}

type mockTenantService struct {
	GetSalonFunc func(ctx context.Context, salonID string) (*models.Salon, error)
}

func (m *mockTenantService) GetSalon(ctx context.Context, salonID string) (*models.Salon, error) {
	return m.GetSalonFunc(ctx, salonID)
}
func (m *mockTenantService) Invalidate(ctx context.Context, salonID string) error { return nil }

type mockNotifier struct {
	dispatched [][]models.NotificationIntent
	err        error
}

func (m *mockNotifier) Dispatch(ctx context.Context, intents []models.NotificationIntent) error {
	m.dispatched = append(m.dispatched, intents)
	return m.err
}

func activeSalon() *models.Salon {
	return &models.Salon{
		ID:      "salon1",
		Name:    "Shear Genius",
		OwnerID: "owner1",
		Active:  true,
		Branches: []models.Branch{
			{ID: "branch1", Name: "Downtown", AdminID: "admin1"},
		},
	}
}

func validCreateRequest() models.CreateBookingRequest {
	return models.CreateBookingRequest{
		SalonID:   "salon1",
		BranchID:  "branch1",
		Date:      "2026-09-01",
		SessionID: "sess1",
		Customer:  models.CustomerInfo{Name: "Dana", AccountID: "cust1"},
		Services: []models.BookingServiceInput{
			{ServiceID: "cut", ServiceName: "Haircut", Staff: "alice", Start: 600, Duration: 30, Price: 40},
			{ServiceID: "color", ServiceName: "Coloring", Staff: models.AnyStaff, Start: 630, Duration: 60, Price: 90,
				EligibleStaff: []string{"alice", "bob"}},
		},
	}
}

func newTestService() (*DefaultBookingWorkflowService, *mockBookingRepo, *mockLockRepo, *mockHoldRepo, *mockNotifier) {
	repo := &mockBookingRepo{
		CreateFunc: func(ctx context.Context, booking *models.Booking, verify func([]models.Booking) error) error {
			return verify(nil)
		},
	}
	locks := &mockLockRepo{
		AcquireFunc: func(ctx context.Context, lock *models.BookingLock) error { return nil },
		ReleaseFunc: func(ctx context.Context, lockID string) error { return nil },
	}
	holds := &mockHoldRepo{
		ListActiveFunc: func(ctx context.Context, salonID, date string) ([]models.Hold, error) { return nil, nil },
		ReleaseAllFunc: func(ctx context.Context, sessionID string) error { return nil },
	}
	notifier := &mockNotifier{}
	svc := &DefaultBookingWorkflowService{
		Repo:     repo,
		LockRepo: locks,
		Holds:    holds,
		TenantSvc: &mockTenantService{
			GetSalonFunc: func(ctx context.Context, salonID string) (*models.Salon, error) {
				return activeSalon(), nil
			},
		},
		NotificationSvc: notifier,
		CodePrefix:      "BK",
	}
	return svc, repo, locks, holds, notifier
}

func TestCreateBookingHappyPath(t *testing.T) {
	svc, _, _, _, notifier := newTestService()
	var releasedSession string
	svc.Holds.(*mockHoldRepo).ReleaseAllFunc = func(ctx context.Context, sessionID string) error {
		releasedSession = sessionID
		return nil
	}

	booking, intents, err := svc.CreateBooking(context.Background(), validCreateRequest())
	require.NoError(t, err)
	require.NotNil(t, booking)

	assert.NotEmpty(t, booking.ID)
	assert.Regexp(t, regexp.MustCompile(`^BK\d{14}$`), booking.Code)
	assert.Equal(t, models.StatusAwaitingStaffApproval, booking.Status)
	assert.Equal(t, models.ApprovalPending, booking.Services[0].Approval)
	assert.Equal(t, models.ApprovalNeedsAssignment, booking.Services[1].Approval)

	// Successful creation supersedes the session's holds.
	assert.Equal(t, "sess1", releasedSession)

	// Fan-out: customer, assigned staff, branch admin (distinct from owner), owner.
	require.Len(t, intents, 4)
	roles := make(map[string]string)
	for _, in := range intents {
		roles[in.RecipientRole] = in.RecipientID
	}
	assert.Equal(t, "cust1", roles[models.RecipientCustomer])
	assert.Equal(t, "alice", roles[models.RecipientStaff])
	assert.Equal(t, "admin1", roles[models.RecipientAdmin])
	assert.Equal(t, "owner1", roles[models.RecipientOwner])

	require.Len(t, notifier.dispatched, 1)
}

func TestCreateBookingConflictRejected(t *testing.T) {
	svc, repo, _, holds, _ := newTestService()

	// Another session holds alice for an overlapping slot.
	holds.ListActiveFunc = func(ctx context.Context, salonID, date string) ([]models.Hold, error) {
		return []models.Hold{{
			ID: "h1", SalonID: "salon1", BranchID: "branch1", Date: "2026-09-01",
			SessionID: "other", Status: models.HoldStatusActive,
			ExpiresAt: time.Now().Add(time.Minute),
			Services: []models.HeldService{
				{ServiceID: "cut", Staff: "alice", Start: 615, Duration: 30},
			},
		}}, nil
	}
	repo.CreateFunc = func(ctx context.Context, booking *models.Booking, verify func([]models.Booking) error) error {
		return verify(nil)
	}

	_, _, err := svc.CreateBooking(context.Background(), validCreateRequest())
	require.Error(t, err)
	var conflict *ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "cut", conflict.ServiceID)
}

func TestCreateBookingLockContention(t *testing.T) {
	svc, _, locks, _, _ := newTestService()
	locks.AcquireFunc = func(ctx context.Context, lock *models.BookingLock) error {
		return bookingRepo.ErrLockHeld
	}

	_, _, err := svc.CreateBooking(context.Background(), validCreateRequest())
	var conflict *ConflictError
	require.True(t, errors.As(err, &conflict))
}

func TestCreateBookingReleasesLock(t *testing.T) {
	svc, _, locks, _, _ := newTestService()
	var released string
	locks.ReleaseFunc = func(ctx context.Context, lockID string) error {
		released = lockID
		return nil
	}

	_, _, err := svc.CreateBooking(context.Background(), validCreateRequest())
	require.NoError(t, err)
	assert.Equal(t, bookingRepo.LockID("salon1", "branch1", "2026-09-01"), released)
}

func TestCreateBookingTenantGate(t *testing.T) {
	t.Run("directory failure is upstream, never a silent pass", func(t *testing.T) {
		svc, _, _, _, _ := newTestService()
		svc.TenantSvc = &mockTenantService{
			GetSalonFunc: func(ctx context.Context, salonID string) (*models.Salon, error) {
				return nil, errors.New("directory down")
			},
		}
		_, _, err := svc.CreateBooking(context.Background(), validCreateRequest())
		var upstream *UpstreamError
		require.True(t, errors.As(err, &upstream))
	})

	t.Run("unknown salon", func(t *testing.T) {
		svc, _, _, _, _ := newTestService()
		svc.TenantSvc = &mockTenantService{
			GetSalonFunc: func(ctx context.Context, salonID string) (*models.Salon, error) {
				return nil, nil
			},
		}
		_, _, err := svc.CreateBooking(context.Background(), validCreateRequest())
		var notFound *NotFoundError
		require.True(t, errors.As(err, &notFound))
	})

	t.Run("inactive salon", func(t *testing.T) {
		svc, _, _, _, _ := newTestService()
		svc.TenantSvc = &mockTenantService{
			GetSalonFunc: func(ctx context.Context, salonID string) (*models.Salon, error) {
				salon := activeSalon()
				salon.Active = false
				return salon, nil
			},
		}
		_, _, err := svc.CreateBooking(context.Background(), validCreateRequest())
		var validation *ValidationError
		require.True(t, errors.As(err, &validation))
	})
}

func TestCreateBookingValidation(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	cases := []struct {
		name   string
		mutate func(*models.CreateBookingRequest)
	}{
		{"missing salon", func(r *models.CreateBookingRequest) { r.SalonID = "" }},
		{"missing branch", func(r *models.CreateBookingRequest) { r.BranchID = "" }},
		{"missing customer name", func(r *models.CreateBookingRequest) { r.Customer.Name = "" }},
		{"no services", func(r *models.CreateBookingRequest) { r.Services = nil }},
		{"bad date", func(r *models.CreateBookingRequest) { r.Date = "01-09-2026" }},
		{"zero duration", func(r *models.CreateBookingRequest) { r.Services[0].Duration = 0 }},
		{"past midnight", func(r *models.CreateBookingRequest) { r.Services[0].Start = 23 * 60; r.Services[0].Duration = 120 }},
		{"negative price", func(r *models.CreateBookingRequest) { r.Services[0].Price = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validCreateRequest()
			tc.mutate(&req)
			_, _, err := svc.CreateBooking(context.Background(), req)
			var validation *ValidationError
			require.True(t, errors.As(err, &validation), "expected validation error, got %v", err)
		})
	}
}

func TestCreateBookingNotificationFailureDoesNotFail(t *testing.T) {
	svc, _, _, _, notifier := newTestService()
	notifier.err = errors.New("fcm down")

	booking, _, err := svc.CreateBooking(context.Background(), validCreateRequest())
	require.NoError(t, err)
	assert.NotNil(t, booking)
}

func transitionFixture(status models.BookingStatus, services ...models.BookingService) *models.Booking {
	return &models.Booking{
		ID: "b1", Code: "BK202609010001",
		SalonID: "salon1", BranchID: "branch1", Date: "2026-09-01",
		Customer: models.CustomerInfo{Name: "Dana", AccountID: "cust1"},
		Services: services,
		Status:   status,
	}
}

func newTransitionService(b *models.Booking) (*DefaultBookingWorkflowService, *mockBookingRepo) {
	svc, repo, _, _, _ := newTestService()
	repo.GetByIDFunc = func(ctx context.Context, id string) (*models.Booking, error) {
		if id == b.ID {
			return b, nil
		}
		return nil, bookingRepo.ErrNotFound
	}
	repo.UpdateFunc = func(ctx context.Context, booking *models.Booking) error { return nil }
	return svc, repo
}

func TestTransitionBookingStaffAccept(t *testing.T) {
	b := transitionFixture(models.StatusAwaitingStaffApproval,
		models.BookingService{ServiceID: "cut", Staff: "alice", Approval: models.ApprovalPending},
		models.BookingService{ServiceID: "color", Staff: "bob", Approval: models.ApprovalPending},
	)
	svc, _ := newTransitionService(b)

	updated, err := svc.TransitionBooking(context.Background(), "b1",
		models.TransitionRequest{ServiceID: "cut", Action: models.ActionAccept},
		models.Actor{ID: "alice", Role: models.RecipientStaff})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPartiallyApproved, updated.Status)
	assert.Equal(t, models.ApprovalAccepted, updated.Services[0].Approval)
	assert.Equal(t, "alice", updated.Services[0].ActedBy)

	updated, err = svc.TransitionBooking(context.Background(), "b1",
		models.TransitionRequest{ServiceID: "color", Action: models.ActionAccept},
		models.Actor{ID: "bob", Role: models.RecipientStaff})
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, updated.Status)
}

func TestTransitionBookingStaffCannotActForOthers(t *testing.T) {
	b := transitionFixture(models.StatusAwaitingStaffApproval,
		models.BookingService{ServiceID: "cut", Staff: "alice", Approval: models.ApprovalPending},
	)
	svc, _ := newTransitionService(b)

	_, err := svc.TransitionBooking(context.Background(), "b1",
		models.TransitionRequest{ServiceID: "cut", Action: models.ActionAccept},
		models.Actor{ID: "bob", Role: models.RecipientStaff})
	var validation *ValidationError
	require.True(t, errors.As(err, &validation))
}

func TestTransitionBookingRejectDominates(t *testing.T) {
	b := transitionFixture(models.StatusPartiallyApproved,
		models.BookingService{ServiceID: "cut", Staff: "alice", Approval: models.ApprovalAccepted},
		models.BookingService{ServiceID: "color", Staff: "bob", Approval: models.ApprovalPending},
	)
	svc, _ := newTransitionService(b)

	updated, err := svc.TransitionBooking(context.Background(), "b1",
		models.TransitionRequest{ServiceID: "color", Action: models.ActionReject},
		models.Actor{ID: "bob", Role: models.RecipientStaff})
	require.NoError(t, err)
	assert.Equal(t, models.StatusStaffRejected, updated.Status)
}

func TestTransitionBookingAssign(t *testing.T) {
	b := transitionFixture(models.StatusStaffRejected,
		models.BookingService{ServiceID: "cut", Staff: "alice", Approval: models.ApprovalRejected},
	)
	svc, _ := newTransitionService(b)

	t.Run("staff cannot assign", func(t *testing.T) {
		_, err := svc.TransitionBooking(context.Background(), "b1",
			models.TransitionRequest{ServiceID: "cut", Action: models.ActionAssign, Staff: "bob"},
			models.Actor{ID: "alice", Role: models.RecipientStaff})
		var validation *ValidationError
		require.True(t, errors.As(err, &validation))
	})

	t.Run("admin reassigns a rejected service", func(t *testing.T) {
		updated, err := svc.TransitionBooking(context.Background(), "b1",
			models.TransitionRequest{ServiceID: "cut", Action: models.ActionAssign, Staff: "bob"},
			models.Actor{ID: "admin1", Role: models.RecipientAdmin})
		require.NoError(t, err)
		assert.Equal(t, models.StatusAwaitingStaffApproval, updated.Status)
		assert.True(t, updated.Services[0].Staff.Is("bob"))
		assert.Equal(t, models.ApprovalPending, updated.Services[0].Approval)
	})
}

func TestTransitionBookingComplete(t *testing.T) {
	b := transitionFixture(models.StatusConfirmed,
		models.BookingService{ServiceID: "cut", Staff: "alice", Approval: models.ApprovalAccepted},
		models.BookingService{ServiceID: "color", Staff: "bob", Approval: models.ApprovalAccepted},
	)
	svc, _ := newTransitionService(b)

	updated, err := svc.TransitionBooking(context.Background(), "b1",
		models.TransitionRequest{ServiceID: "cut", Action: models.ActionComplete},
		models.Actor{ID: "alice", Role: models.RecipientStaff})
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, updated.Status, "booking stays confirmed until every service is done")

	updated, err = svc.TransitionBooking(context.Background(), "b1",
		models.TransitionRequest{ServiceID: "color", Action: models.ActionComplete},
		models.Actor{ID: "bob", Role: models.RecipientStaff})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, updated.Status)
}

func TestTransitionBookingCompleteRequiresConfirmed(t *testing.T) {
	b := transitionFixture(models.StatusAwaitingStaffApproval,
		models.BookingService{ServiceID: "cut", Staff: "alice", Approval: models.ApprovalPending},
	)
	svc, _ := newTransitionService(b)

	_, err := svc.TransitionBooking(context.Background(), "b1",
		models.TransitionRequest{ServiceID: "cut", Action: models.ActionComplete},
		models.Actor{ID: "alice", Role: models.RecipientStaff})
	var transition *InvalidTransitionError
	require.True(t, errors.As(err, &transition))
}

func TestTransitionBookingWholeStatus(t *testing.T) {
	t.Run("cancel from confirmed", func(t *testing.T) {
		b := transitionFixture(models.StatusConfirmed,
			models.BookingService{ServiceID: "cut", Staff: "alice", Approval: models.ApprovalAccepted})
		svc, _ := newTransitionService(b)

		updated, err := svc.TransitionBooking(context.Background(), "b1",
			models.TransitionRequest{Status: models.StatusCanceled},
			models.Actor{ID: "admin1", Role: models.RecipientAdmin})
		require.NoError(t, err)
		assert.Equal(t, models.StatusCanceled, updated.Status)
	})

	t.Run("self-transitions are rejected, not silently applied", func(t *testing.T) {
		for _, status := range []models.BookingStatus{models.StatusCanceled, models.StatusConfirmed} {
			b := transitionFixture(status,
				models.BookingService{ServiceID: "cut", Staff: "alice", Approval: models.ApprovalAccepted})
			svc, repo := newTransitionService(b)
			updated := false
			repo.UpdateFunc = func(ctx context.Context, booking *models.Booking) error {
				updated = true
				return nil
			}

			_, err := svc.TransitionBooking(context.Background(), "b1",
				models.TransitionRequest{Status: status},
				models.Actor{ID: "admin1", Role: models.RecipientAdmin})
			var transition *InvalidTransitionError
			require.True(t, errors.As(err, &transition), "%s -> %s should fail", status, status)
			assert.False(t, updated, "a rejected transition must not persist")
		}
	})

	t.Run("terminal status admits nothing", func(t *testing.T) {
		b := transitionFixture(models.StatusCanceled,
			models.BookingService{ServiceID: "cut", Staff: "alice", Approval: models.ApprovalAccepted})
		svc, _ := newTransitionService(b)

		_, err := svc.TransitionBooking(context.Background(), "b1",
			models.TransitionRequest{Status: models.StatusConfirmed},
			models.Actor{ID: "admin1", Role: models.RecipientAdmin})
		var transition *InvalidTransitionError
		require.True(t, errors.As(err, &transition))
	})

	t.Run("pending cannot route to approval without any assignment", func(t *testing.T) {
		b := transitionFixture(models.StatusPending,
			models.BookingService{ServiceID: "cut", Staff: models.AnyStaff, Approval: models.ApprovalNeedsAssignment})
		svc, _ := newTransitionService(b)

		_, err := svc.TransitionBooking(context.Background(), "b1",
			models.TransitionRequest{Status: models.StatusAwaitingStaffApproval},
			models.Actor{ID: "admin1", Role: models.RecipientAdmin})
		var validation *ValidationError
		require.True(t, errors.As(err, &validation))
	})
}

func TestTransitionBookingNotFound(t *testing.T) {
	b := transitionFixture(models.StatusPending)
	svc, _ := newTransitionService(b)

	_, err := svc.TransitionBooking(context.Background(), "missing",
		models.TransitionRequest{Status: models.StatusCanceled},
		models.Actor{ID: "admin1", Role: models.RecipientAdmin})
	var notFound *NotFoundError
	require.True(t, errors.As(err, &notFound))
}

func TestGenerateBookingCodeFormat(t *testing.T) {
	now := time.Date(2026, 9, 1, 14, 0, 0, 0, time.UTC)
	code := GenerateBookingCode("BK", now)
	assert.Regexp(t, regexp.MustCompile(`^BK2026090114\d{4}$`), code)
}
