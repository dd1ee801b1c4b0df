package bookings

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"
	"unicode"

	"venuepass/internal/capacity"
	"venuepass/internal/exhibitions"
	"venuepass/internal/locks"
	"venuepass/internal/notifications"
	"venuepass/internal/pricing"
	"venuepass/internal/shared/utils/apperrors"
	"venuepass/internal/venues"
	"venuepass/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service interface {
	// ConfirmBooking turns a live seat lock into a durable booking: verify
	// the lock, price the tickets, take payment, commit capacity, then issue
	// the ticket event. The lock release at the end is fire-and-forget.
	ConfirmBooking(ctx context.Context, sessionID string, req ConfirmBookingRequest) (*BookingConfirmationResponse, error)

	GetBooking(ctx context.Context, bookingID uuid.UUID) (*Booking, error)
	GetBookingByRef(ctx context.Context, ref string) (*Booking, error)
	GetSessionBookings(ctx context.Context, sessionID string, limit, offset int) ([]Booking, error)
	CancelBooking(ctx context.Context, sessionID string, bookingID uuid.UUID) error

	// BookedSeats implements the booked-seat overlay for seat availability.
	BookedSeats(ctx context.Context, slotID uuid.UUID, visitDate time.Time) ([]string, error)
}

type service struct {
	repo              Repository
	lockService       locks.Service
	capacityService   capacity.Service
	pricingService    pricing.Service
	exhibitionService exhibitions.Service
	venueService      venues.Service
	producer          notifications.TicketProducer
}

func NewService(
	repo Repository,
	lockService locks.Service,
	capacityService capacity.Service,
	pricingService pricing.Service,
	exhibitionService exhibitions.Service,
	venueService venues.Service,
	producer notifications.TicketProducer,
) Service {
	return &service{
		repo:              repo,
		lockService:       lockService,
		capacityService:   capacityService,
		pricingService:    pricingService,
		exhibitionService: exhibitionService,
		venueService:      venueService,
		producer:          producer,
	}
}

func (s *service) ConfirmBooking(ctx context.Context, sessionID string, req ConfirmBookingRequest) (*BookingConfirmationResponse, error) {
	lock, err := s.lockService.VerifySeatLock(ctx, req.LockID)
	if err != nil {
		return nil, err
	}
	if lock == nil {
		return nil, apperrors.LockNotFound("lock expired or not found, please re-select your seats")
	}
	if lock.SessionID != sessionID {
		return nil, apperrors.Unauthorized("lock belongs to a different session")
	}

	exhibition, err := s.exhibitionService.GetBookableExhibition(ctx, lock.ExhibitionID)
	if err != nil {
		return nil, err
	}

	booking := &Booking{
		SessionID:     sessionID,
		ExhibitionID:  lock.ExhibitionID,
		TimeSlotID:    lock.TimeSlotID,
		VisitDate:     lock.VisitDate,
		Status:        StatusConfirmed,
		PaymentStatus: PaymentPending,
		PaymentMethod: req.PaymentMethod,
		TransactionID: generateTransactionID(),
	}

	if exhibition.Seated {
		if len(lock.Seats) == 0 {
			return nil, apperrors.Validation("lock holds no seats for a seated exhibition", nil)
		}
		seats, total, err := s.priceSeats(ctx, exhibition.VenueID, lock)
		if err != nil {
			return nil, err
		}
		booking.Seats = seats
		booking.TotalTickets = len(seats)
		booking.TotalPrice = total
	} else {
		tickets, total, err := s.priceTickets(ctx, lock, req.Tickets)
		if err != nil {
			return nil, err
		}
		booking.Tickets = tickets
		booking.TotalTickets = lock.TicketCount()
		booking.TotalPrice = total
	}

	booking.BookingRef, err = generateBookingReference()
	if err != nil {
		return nil, apperrors.Internal("failed to generate booking reference", err)
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		if errors.Is(err, ErrSeatAlreadyBooked) {
			return nil, apperrors.Conflict("seats unavailable", map[string]interface{}{
				"seats": lock.Seats,
			})
		}
		return nil, apperrors.Internal("failed to create booking", err)
	}

	// Mock payment gateway: always settles. A real integration would pend
	// here until the gateway callback.
	booking.MarkPaid()
	if err := s.repo.UpdatePayment(ctx, booking.ID, PaymentCompleted, booking.PaidAt); err != nil {
		// The booking row and its seat rows already exist; unwind them or
		// the seats stay blocked with no capacity ever committed.
		s.unwindBooking(ctx, booking)
		return nil, apperrors.Internal("failed to record payment", err)
	}

	// Payment succeeded; consume durable capacity. On a full slot the
	// booking is unwound and the payment refunded.
	if err := s.capacityService.Commit(ctx, lock.TimeSlotID, lock.VisitDate, booking.TotalTickets); err != nil {
		s.unwindBooking(ctx, booking)
		return nil, err
	}

	logger.GetDefault().LogBookingConfirmed(ctx, booking.ID.String(), booking.ExhibitionID.String(), sessionID)

	s.publishTicketIssued(ctx, booking, lock)

	go s.lockService.ReleaseSeatLock(context.WithoutCancel(ctx), req.LockID)

	return toConfirmationResponse(booking), nil
}

func (s *service) priceSeats(ctx context.Context, venueID uuid.UUID, lock *locks.SeatLock) ([]BookingSeat, float64, error) {
	rows, err := s.venueService.GetSeatingPlan(ctx, venueID)
	if err != nil {
		return nil, 0, err
	}

	priceByRow := make(map[string]float64, len(rows))
	seatsByRow := make(map[string]int, len(rows))
	for _, row := range rows {
		priceByRow[row.Name] = row.Price
		seatsByRow[row.Name] = row.SeatCount
	}

	seats := make([]BookingSeat, 0, len(lock.Seats))
	total := 0.0
	for _, label := range lock.Seats {
		rowName, number, err := splitSeatLabel(label)
		if err != nil {
			return nil, 0, apperrors.Validation("invalid seat label", map[string]interface{}{"seat": label})
		}
		maxSeats, ok := seatsByRow[rowName]
		if !ok || number < 1 || number > maxSeats {
			return nil, 0, apperrors.Validation("unknown seat for this venue", map[string]interface{}{"seat": label})
		}

		price := priceByRow[rowName]
		total += price
		seats = append(seats, BookingSeat{
			TimeSlotID: lock.TimeSlotID,
			VisitDate:  lock.VisitDate,
			RowName:    rowName,
			SeatNumber: number,
			Price:      price,
		})
	}

	return seats, total, nil
}

func (s *service) priceTickets(ctx context.Context, lock *locks.SeatLock, lines []TicketLine) ([]BookingTicket, float64, error) {
	if len(lines) == 0 {
		return nil, 0, apperrors.Validation("ticket lines are required for general admission bookings", nil)
	}

	prices, err := s.pricingService.ResolveSlotPricing(ctx, lock.ExhibitionID, lock.VisitDate, lock.TimeSlotID)
	if err != nil {
		return nil, 0, err
	}
	priceByType := make(map[string]float64, len(prices))
	for _, p := range prices {
		priceByType[p.TicketType] = p.Price
	}

	tickets := make([]BookingTicket, 0, len(lines))
	total := 0.0
	count := 0
	for _, line := range lines {
		price, ok := priceByType[line.TicketType]
		if !ok {
			return nil, 0, apperrors.Validation("no price configured for ticket type", map[string]interface{}{
				"ticket_type": line.TicketType,
			})
		}
		total += price * float64(line.Quantity)
		count += line.Quantity
		tickets = append(tickets, BookingTicket{
			TicketType: line.TicketType,
			Quantity:   line.Quantity,
			UnitPrice:  price,
		})
	}

	if count != lock.TicketCount() {
		return nil, 0, apperrors.Validation("ticket quantities do not match the lock", map[string]interface{}{
			"locked":    lock.TicketCount(),
			"requested": count,
		})
	}

	return tickets, total, nil
}

// unwindBooking compensates a booking whose capacity commit failed after
// payment. Failures here are logged; the booking stays visible as cancelled.
func (s *service) unwindBooking(ctx context.Context, booking *Booking) {
	if err := s.repo.Cancel(ctx, booking.ID); err != nil {
		logger.GetDefault().ErrorWithContext(ctx, "failed to cancel booking after capacity conflict", err, map[string]interface{}{
			"booking_id": booking.ID.String(),
		})
		return
	}
	if err := s.repo.UpdatePayment(ctx, booking.ID, PaymentRefunded, nil); err != nil {
		logger.GetDefault().ErrorWithContext(ctx, "failed to refund payment after capacity conflict", err, map[string]interface{}{
			"booking_id": booking.ID.String(),
		})
	}
}

func (s *service) publishTicketIssued(ctx context.Context, booking *Booking, lock *locks.SeatLock) {
	event := notifications.NewTicketIssuedEvent(booking.ID, booking.BookingRef, booking.SessionID)
	event.ExhibitionID = booking.ExhibitionID
	event.TimeSlotID = booking.TimeSlotID
	event.VisitDate = booking.VisitDate.Format("2006-01-02")
	event.TicketCount = booking.TotalTickets
	event.Seats = lock.Seats
	event.TotalPrice = booking.TotalPrice

	if err := s.producer.PublishTicketIssued(ctx, event); err != nil {
		// Ticket issuance is async by contract; the booking stands.
		logger.GetDefault().ErrorWithContext(ctx, "failed to publish ticket event", err, map[string]interface{}{
			"booking_ref": booking.BookingRef,
		})
	}
}

func (s *service) GetBooking(ctx context.Context, bookingID uuid.UUID) (*Booking, error) {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("booking not found")
		}
		return nil, apperrors.Internal("failed to load booking", err)
	}
	return booking, nil
}

func (s *service) GetBookingByRef(ctx context.Context, ref string) (*Booking, error) {
	booking, err := s.repo.GetByRef(ctx, ref)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("booking not found")
		}
		return nil, apperrors.Internal("failed to load booking", err)
	}
	return booking, nil
}

func (s *service) GetSessionBookings(ctx context.Context, sessionID string, limit, offset int) ([]Booking, error) {
	bookings, err := s.repo.GetBySession(ctx, sessionID, limit, offset)
	if err != nil {
		return nil, apperrors.Internal("failed to load bookings", err)
	}
	return bookings, nil
}

func (s *service) CancelBooking(ctx context.Context, sessionID string, bookingID uuid.UUID) error {
	booking, err := s.GetBooking(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking.SessionID != sessionID {
		return apperrors.Unauthorized("booking belongs to a different session")
	}
	if booking.IsCancelled() {
		return apperrors.Validation("booking is already cancelled", nil)
	}

	if err := s.repo.Cancel(ctx, bookingID); err != nil {
		return apperrors.Internal("failed to cancel booking", err)
	}

	// Return the committed capacity alongside the freed seats so the two
	// ledgers stay aligned. The cancellation stands even if this fails.
	if err := s.capacityService.Release(ctx, booking.TimeSlotID, booking.VisitDate, booking.TotalTickets); err != nil {
		logger.GetDefault().ErrorWithContext(ctx, "failed to release capacity after cancellation", err, map[string]interface{}{
			"booking_id": bookingID.String(),
		})
	}

	logger.GetDefault().LogBookingCancelled(ctx, bookingID.String())
	return nil
}

func (s *service) BookedSeats(ctx context.Context, slotID uuid.UUID, visitDate time.Time) ([]string, error) {
	return s.repo.BookedSeats(ctx, slotID, visitDate)
}

func generateBookingReference() (string, error) {
	timestamp := time.Now().Format("20060102")

	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	randomPart := make([]byte, 6)
	for i := range randomPart {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(letters))))
		if err != nil {
			return "", err
		}
		randomPart[i] = letters[num.Int64()]
	}

	return fmt.Sprintf("VP-%s-%s", timestamp, string(randomPart)), nil
}

func generateTransactionID() string {
	timestamp := time.Now().Unix()
	shortUUID := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("TXN_%d_%s", timestamp, strings.ToUpper(shortUUID))
}

// splitSeatLabel breaks "A12" into its row name and seat number.
func splitSeatLabel(label string) (string, int, error) {
	split := len(label)
	for i, r := range label {
		if unicode.IsDigit(r) {
			split = i
			break
		}
	}
	if split == 0 || split == len(label) {
		return "", 0, fmt.Errorf("malformed seat label %q", label)
	}

	number := 0
	for _, r := range label[split:] {
		if !unicode.IsDigit(r) {
			return "", 0, fmt.Errorf("malformed seat label %q", label)
		}
		number = number*10 + int(r-'0')
	}

	return label[:split], number, nil
}
