package bookings

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrSeatAlreadyBooked surfaces the unique index on
// (time_slot_id, visit_date, row_name, seat_number). Two bookings for the
// same seat can both pass the lock check; only one survives this insert.
var ErrSeatAlreadyBooked = errors.New("seat already booked")

type Repository interface {
	Create(ctx context.Context, booking *Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetByRef(ctx context.Context, ref string) (*Booking, error)
	GetBySession(ctx context.Context, sessionID string, limit, offset int) ([]Booking, error)
	UpdatePayment(ctx context.Context, id uuid.UUID, paymentStatus string, paidAt *time.Time) error

	// Cancel flips the booking to CANCELLED and removes its seat rows so the
	// seats can be sold again.
	Cancel(ctx context.Context, id uuid.UUID) error

	// BookedSeats returns the seat labels held by confirmed bookings for a
	// (slot, date). Cancelled bookings free their seats.
	BookedSeats(ctx context.Context, slotID uuid.UUID, visitDate time.Time) ([]string, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, booking *Booking) error {
	err := r.db.WithContext(ctx).Create(booking).Error
	if err != nil && isSeatUniqueViolation(err) {
		return ErrSeatAlreadyBooked
	}
	return err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).
		Preload("Tickets").
		Preload("Seats").
		Where("id = ?", id).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *repository) GetByRef(ctx context.Context, ref string) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).
		Preload("Tickets").
		Preload("Seats").
		Where("booking_ref = ?", ref).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *repository) GetBySession(ctx context.Context, sessionID string, limit, offset int) ([]Booking, error) {
	if limit <= 0 {
		limit = 10
	}

	var bookings []Booking
	err := r.db.WithContext(ctx).
		Preload("Tickets").
		Preload("Seats").
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&bookings).Error
	return bookings, err
}

func (r *repository) Cancel(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&Booking{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"status":       StatusCancelled,
				"cancelled_at": now,
				"updated_at":   now,
			}).Error
		if err != nil {
			return err
		}

		return tx.Where("booking_id = ?", id).Delete(&BookingSeat{}).Error
	})
}

func (r *repository) UpdatePayment(ctx context.Context, id uuid.UUID, paymentStatus string, paidAt *time.Time) error {
	updates := map[string]interface{}{
		"payment_status": paymentStatus,
		"updated_at":     time.Now(),
	}
	if paidAt != nil {
		updates["paid_at"] = *paidAt
	}

	return r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) BookedSeats(ctx context.Context, slotID uuid.UUID, visitDate time.Time) ([]string, error) {
	type seatRow struct {
		RowName    string
		SeatNumber int
	}

	var rows []seatRow
	err := r.db.WithContext(ctx).
		Model(&BookingSeat{}).
		Select("booking_seats.row_name, booking_seats.seat_number").
		Joins("JOIN bookings ON bookings.id = booking_seats.booking_id").
		Where("booking_seats.time_slot_id = ? AND booking_seats.visit_date = ? AND bookings.status = ?",
			slotID, visitDate.Format("2006-01-02"), StatusConfirmed).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	labels := make([]string, 0, len(rows))
	for _, row := range rows {
		seat := BookingSeat{RowName: row.RowName, SeatNumber: row.SeatNumber}
		labels = append(labels, seat.Label())
	}
	return labels, nil
}

func isSeatUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "unique_seat_per_slot_date")
}
