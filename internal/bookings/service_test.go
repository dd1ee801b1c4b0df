package bookings

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"venuepass/internal/capacity"
	"venuepass/internal/exhibitions"
	"venuepass/internal/locks"
	"venuepass/internal/notifications"
	"venuepass/internal/pricing"
	"venuepass/internal/shared/utils/apperrors"
	"venuepass/internal/venues"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeBookingRepo struct {
	mu         sync.Mutex
	bookings   map[uuid.UUID]*Booking
	createErr  error
	payments   []string
	cancelled  []uuid.UUID
	failStatus string // payment status whose update should fail
	paymentErr error
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[uuid.UUID]*Booking)}
}

func (f *fakeBookingRepo) Create(ctx context.Context, booking *Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	copied := *booking
	f.bookings[booking.ID] = &copied
	return nil
}

func (f *fakeBookingRepo) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	booking, ok := f.bookings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *booking
	return &copied, nil
}

func (f *fakeBookingRepo) GetByRef(ctx context.Context, ref string) (*Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, booking := range f.bookings {
		if booking.BookingRef == ref {
			copied := *booking
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeBookingRepo) GetBySession(ctx context.Context, sessionID string, limit, offset int) ([]Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Booking
	for _, booking := range f.bookings {
		if booking.SessionID == sessionID {
			out = append(out, *booking)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) UpdatePayment(ctx context.Context, id uuid.UUID, paymentStatus string, paidAt *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failStatus != "" && paymentStatus == f.failStatus {
		return f.paymentErr
	}
	f.payments = append(f.payments, paymentStatus)
	if booking, ok := f.bookings[id]; ok {
		booking.PaymentStatus = paymentStatus
		booking.PaidAt = paidAt
	}
	return nil
}

func (f *fakeBookingRepo) Cancel(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelled = append(f.cancelled, id)
	if booking, ok := f.bookings[id]; ok {
		booking.Cancel()
		booking.Seats = nil
	}
	return nil
}

func (f *fakeBookingRepo) BookedSeats(ctx context.Context, slotID uuid.UUID, visitDate time.Time) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var labels []string
	for _, booking := range f.bookings {
		if !booking.IsConfirmed() || booking.TimeSlotID != slotID {
			continue
		}
		for _, seat := range booking.Seats {
			labels = append(labels, seat.Label())
		}
	}
	return labels, nil
}

type fakeLockService struct {
	locks.Service
	lock *locks.SeatLock

	mu       sync.Mutex
	released []string
}

func (f *fakeLockService) VerifySeatLock(ctx context.Context, lockID string) (*locks.SeatLock, error) {
	if f.lock == nil || f.lock.LockID != lockID {
		return nil, nil
	}
	copied := *f.lock
	return &copied, nil
}

func (f *fakeLockService) ReleaseSeatLock(ctx context.Context, lockID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.released = append(f.released, lockID)
}

type fakeCapacityService struct {
	capacity.Service
	commitErr  error
	releaseErr error

	mu       sync.Mutex
	commits  []int
	releases []int
}

func (f *fakeCapacityService) Commit(ctx context.Context, slotID uuid.UUID, date time.Time, ticketCount int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.commitErr != nil {
		return f.commitErr
	}
	f.commits = append(f.commits, ticketCount)
	return nil
}

func (f *fakeCapacityService) Release(ctx context.Context, slotID uuid.UUID, date time.Time, ticketCount int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.releaseErr != nil {
		return f.releaseErr
	}
	f.releases = append(f.releases, ticketCount)
	return nil
}

type fakePricingService struct {
	pricing.Service
	prices []pricing.TicketPricing
}

func (f *fakePricingService) ResolveSlotPricing(ctx context.Context, exhibitionID uuid.UUID, date time.Time, slotID uuid.UUID) ([]pricing.TicketPricing, error) {
	return f.prices, nil
}

type fakeExhibitionService struct {
	exhibitions.Service
	exhibition *exhibitions.Exhibition
}

func (f *fakeExhibitionService) GetBookableExhibition(ctx context.Context, id uuid.UUID) (*exhibitions.Exhibition, error) {
	return f.exhibition, nil
}

type fakeVenueService struct {
	venues.Service
	rows []venues.SeatRow
}

func (f *fakeVenueService) GetSeatingPlan(ctx context.Context, venueID uuid.UUID) ([]venues.SeatRow, error) {
	return f.rows, nil
}

type fakeTicketProducer struct {
	mu     sync.Mutex
	events []*notifications.TicketIssuedEvent
}

func (f *fakeTicketProducer) PublishTicketIssued(ctx context.Context, event *notifications.TicketIssuedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func (f *fakeTicketProducer) Close() error { return nil }

type bookingFixture struct {
	repo       *fakeBookingRepo
	locks      *fakeLockService
	capacity   *fakeCapacityService
	pricing    *fakePricingService
	exhibition *fakeExhibitionService
	venue      *fakeVenueService
	producer   *fakeTicketProducer
	service    Service

	exhibitionID uuid.UUID
	venueID      uuid.UUID
	slotID       uuid.UUID
	visitDate    time.Time
}

func newBookingFixture(seated bool) *bookingFixture {
	f := &bookingFixture{
		repo:         newFakeBookingRepo(),
		capacity:     &fakeCapacityService{},
		producer:     &fakeTicketProducer{},
		exhibitionID: uuid.New(),
		venueID:      uuid.New(),
		slotID:       uuid.New(),
		visitDate:    time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC),
	}
	f.locks = &fakeLockService{}
	f.exhibition = &fakeExhibitionService{exhibition: &exhibitions.Exhibition{
		ID:      f.exhibitionID,
		VenueID: f.venueID,
		Seated:  seated,
		Active:  true,
	}}
	f.venue = &fakeVenueService{rows: []venues.SeatRow{
		{VenueID: f.venueID, Name: "A", SeatCount: 12, Category: "premium", Price: 45},
		{VenueID: f.venueID, Name: "B", SeatCount: 14, Category: "standard", Price: 35},
	}}
	f.pricing = &fakePricingService{prices: []pricing.TicketPricing{
		{TicketType: "ADULT", Price: 18},
		{TicketType: "CHILD", Price: 8},
	}}
	f.service = NewService(f.repo, f.locks, f.capacity, f.pricing, f.exhibition, f.venue, f.producer)
	return f
}

func (f *bookingFixture) holdSeats(sessionID string, seats []string) *locks.SeatLock {
	lock := &locks.SeatLock{
		LockID:       uuid.NewString(),
		SessionID:    sessionID,
		ExhibitionID: f.exhibitionID,
		TimeSlotID:   f.slotID,
		VisitDate:    f.visitDate,
		Seats:        seats,
		CreatedAt:    time.Now(),
		ExpiresAt:    time.Now().Add(10 * time.Minute),
	}
	f.locks.lock = lock
	return lock
}

func (f *bookingFixture) holdQuantity(sessionID string, quantity int) *locks.SeatLock {
	lock := f.holdSeats(sessionID, nil)
	lock.Quantity = quantity
	return lock
}

func TestConfirmBookingSeated(t *testing.T) {
	t.Run("confirms, settles payment and commits capacity", func(t *testing.T) {
		f := newBookingFixture(true)
		lock := f.holdSeats("session-1", []string{"A1", "B2"})

		resp, err := f.service.ConfirmBooking(context.Background(), "session-1", ConfirmBookingRequest{
			LockID:        lock.LockID,
			PaymentMethod: "CARD",
		})

		require.NoError(t, err)
		assert.Equal(t, 2, resp.TotalTickets)
		assert.Equal(t, 80.0, resp.TotalPrice)
		assert.Equal(t, StatusConfirmed, resp.Status)
		assert.Equal(t, PaymentCompleted, resp.Payment.Status)
		assert.Regexp(t, `^VP-\d{8}-[A-Z]{6}$`, resp.BookingRef)

		assert.Equal(t, []int{2}, f.capacity.commits)
		require.Len(t, f.producer.events, 1)
		assert.Equal(t, []string{"A1", "B2"}, f.producer.events[0].Seats)
	})

	t.Run("expired or missing lock aborts before any write", func(t *testing.T) {
		f := newBookingFixture(true)

		_, err := f.service.ConfirmBooking(context.Background(), "session-1", ConfirmBookingRequest{
			LockID:        uuid.NewString(),
			PaymentMethod: "CARD",
		})

		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindLockNotFound))
		assert.Empty(t, f.repo.bookings)
		assert.Empty(t, f.capacity.commits)
	})

	t.Run("lock owned by another session is rejected", func(t *testing.T) {
		f := newBookingFixture(true)
		lock := f.holdSeats("session-1", []string{"A1"})

		_, err := f.service.ConfirmBooking(context.Background(), "session-2", ConfirmBookingRequest{
			LockID:        lock.LockID,
			PaymentMethod: "CARD",
		})

		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthorized))
	})

	t.Run("seat label outside the venue rows is rejected", func(t *testing.T) {
		f := newBookingFixture(true)
		lock := f.holdSeats("session-1", []string{"A13"}) // row A has 12 seats

		_, err := f.service.ConfirmBooking(context.Background(), "session-1", ConfirmBookingRequest{
			LockID:        lock.LockID,
			PaymentMethod: "CARD",
		})

		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	})

	t.Run("duplicate seat insert surfaces as a conflict", func(t *testing.T) {
		f := newBookingFixture(true)
		f.repo.createErr = ErrSeatAlreadyBooked
		lock := f.holdSeats("session-1", []string{"A1"})

		_, err := f.service.ConfirmBooking(context.Background(), "session-1", ConfirmBookingRequest{
			LockID:        lock.LockID,
			PaymentMethod: "CARD",
		})

		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
	})

	t.Run("payment record failure unwinds the booking", func(t *testing.T) {
		f := newBookingFixture(true)
		f.repo.failStatus = PaymentCompleted
		f.repo.paymentErr = errors.New("connection reset")
		lock := f.holdSeats("session-1", []string{"A1", "B2"})

		_, err := f.service.ConfirmBooking(context.Background(), "session-1", ConfirmBookingRequest{
			LockID:        lock.LockID,
			PaymentMethod: "CARD",
		})

		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindInternal))

		require.Len(t, f.repo.cancelled, 1)
		assert.Contains(t, f.repo.payments, PaymentRefunded)
		assert.Empty(t, f.capacity.commits)

		labels, err := f.service.BookedSeats(context.Background(), f.slotID, f.visitDate)
		require.NoError(t, err)
		assert.Empty(t, labels)
	})

	t.Run("capacity conflict after payment unwinds the booking", func(t *testing.T) {
		f := newBookingFixture(true)
		f.capacity.commitErr = apperrors.Conflict("insufficient capacity for this time slot", nil)
		lock := f.holdSeats("session-1", []string{"A1"})

		_, err := f.service.ConfirmBooking(context.Background(), "session-1", ConfirmBookingRequest{
			LockID:        lock.LockID,
			PaymentMethod: "CARD",
		})

		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))

		require.Len(t, f.repo.cancelled, 1)
		assert.Contains(t, f.repo.payments, PaymentRefunded)
		booking, err := f.repo.GetByID(context.Background(), f.repo.cancelled[0])
		require.NoError(t, err)
		assert.True(t, booking.IsCancelled())
	})
}

func TestConfirmBookingGeneralAdmission(t *testing.T) {
	t.Run("prices ticket lines against resolved tiers", func(t *testing.T) {
		f := newBookingFixture(false)
		lock := f.holdQuantity("session-1", 3)

		resp, err := f.service.ConfirmBooking(context.Background(), "session-1", ConfirmBookingRequest{
			LockID:        lock.LockID,
			PaymentMethod: "CARD",
			Tickets: []TicketLine{
				{TicketType: "ADULT", Quantity: 2},
				{TicketType: "CHILD", Quantity: 1},
			},
		})

		require.NoError(t, err)
		assert.Equal(t, 3, resp.TotalTickets)
		assert.Equal(t, 44.0, resp.TotalPrice)
		assert.Equal(t, []int{3}, f.capacity.commits)
	})

	t.Run("ticket count must match the locked quantity", func(t *testing.T) {
		f := newBookingFixture(false)
		lock := f.holdQuantity("session-1", 3)

		_, err := f.service.ConfirmBooking(context.Background(), "session-1", ConfirmBookingRequest{
			LockID:        lock.LockID,
			PaymentMethod: "CARD",
			Tickets:       []TicketLine{{TicketType: "ADULT", Quantity: 2}},
		})

		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	})

	t.Run("unpriced ticket type is rejected", func(t *testing.T) {
		f := newBookingFixture(false)
		lock := f.holdQuantity("session-1", 1)

		_, err := f.service.ConfirmBooking(context.Background(), "session-1", ConfirmBookingRequest{
			LockID:        lock.LockID,
			PaymentMethod: "CARD",
			Tickets:       []TicketLine{{TicketType: "STUDENT", Quantity: 1}},
		})

		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	})
}

func TestCancelBooking(t *testing.T) {
	confirm := func(t *testing.T, f *bookingFixture) *Booking {
		t.Helper()
		lock := f.holdSeats("session-1", []string{"A1"})
		resp, err := f.service.ConfirmBooking(context.Background(), "session-1", ConfirmBookingRequest{
			LockID:        lock.LockID,
			PaymentMethod: "CARD",
		})
		require.NoError(t, err)
		booking, err := f.service.GetBookingByRef(context.Background(), resp.BookingRef)
		require.NoError(t, err)
		return booking
	}

	t.Run("cancelling frees the seats and the committed capacity", func(t *testing.T) {
		f := newBookingFixture(true)
		booking := confirm(t, f)

		require.NoError(t, f.service.CancelBooking(context.Background(), "session-1", booking.ID))

		labels, err := f.service.BookedSeats(context.Background(), f.slotID, f.visitDate)
		require.NoError(t, err)
		assert.Empty(t, labels)
		assert.Equal(t, []int{1}, f.capacity.releases)
	})

	t.Run("release failure does not block the cancellation", func(t *testing.T) {
		f := newBookingFixture(true)
		booking := confirm(t, f)
		f.capacity.releaseErr = errors.New("connection refused")

		require.NoError(t, f.service.CancelBooking(context.Background(), "session-1", booking.ID))

		got, err := f.service.GetBooking(context.Background(), booking.ID)
		require.NoError(t, err)
		assert.True(t, got.IsCancelled())
	})

	t.Run("only the owning session may cancel", func(t *testing.T) {
		f := newBookingFixture(true)
		booking := confirm(t, f)

		err := f.service.CancelBooking(context.Background(), "session-2", booking.ID)

		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthorized))
	})

	t.Run("double cancel is rejected", func(t *testing.T) {
		f := newBookingFixture(true)
		booking := confirm(t, f)

		require.NoError(t, f.service.CancelBooking(context.Background(), "session-1", booking.ID))
		err := f.service.CancelBooking(context.Background(), "session-1", booking.ID)

		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	})
}

func TestSplitSeatLabel(t *testing.T) {
	tests := []struct {
		label   string
		row     string
		number  int
		wantErr bool
	}{
		{label: "A1", row: "A", number: 1},
		{label: "B12", row: "B", number: 12},
		{label: "AA7", row: "AA", number: 7},
		{label: "12", wantErr: true},
		{label: "A", wantErr: true},
		{label: "A1B", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			row, number, err := splitSeatLabel(tt.label)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.row, row)
			assert.Equal(t, tt.number, number)
		})
	}
}
