package capacity

import (
	"context"
	"errors"
	"time"

	"venuepass/internal/shared/utils/apperrors"
	"venuepass/internal/slots"
	"venuepass/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CapacityCheck is the read-side answer for a requested ticket count.
type CapacityCheck struct {
	Available bool `json:"available"`
	Remaining int  `json:"remaining"`
}

type Service interface {
	// CheckSlotCapacity reads the current remaining capacity for (slot, date).
	// A missing ledger row means nothing has been committed yet.
	CheckSlotCapacity(ctx context.Context, slotID uuid.UUID, date time.Time, requiredCount int) (*CapacityCheck, error)

	// Commit durably consumes capacity. Invoked only after payment success.
	// The increment is atomic and capacity-bounded at the storage layer; on
	// a full slot it returns a conflict, never a partial commit.
	Commit(ctx context.Context, slotID uuid.UUID, date time.Time, ticketCount int) error

	// Release returns committed capacity after a booking cancellation.
	// Together with Commit it keeps this package the only booked_count
	// writer. A missing or underfilled ledger row is logged, not an error:
	// the cancellation stands either way.
	Release(ctx context.Context, slotID uuid.UUID, date time.Time, ticketCount int) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CheckSlotCapacity(ctx context.Context, slotID uuid.UUID, date time.Time, requiredCount int) (*CapacityCheck, error) {
	if requiredCount < 0 {
		return nil, apperrors.Validation("required count must not be negative", nil)
	}

	slot, err := s.repo.GetSlot(ctx, slotID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("time slot not found")
		}
		return nil, apperrors.Internal("failed to load time slot", err)
	}

	capacity := slot.Capacity
	booked := 0

	row, err := s.repo.GetAvailabilityRow(ctx, slotID, date)
	if err != nil {
		return nil, apperrors.Internal("failed to load slot availability", err)
	}
	if row != nil {
		capacity = row.AvailableCapacity
		booked = row.BookedCount
	}

	remaining := capacity - booked
	if remaining < 0 {
		remaining = 0
	}

	return &CapacityCheck{
		Available: remaining >= requiredCount,
		Remaining: remaining,
	}, nil
}

func (s *service) Commit(ctx context.Context, slotID uuid.UUID, date time.Time, ticketCount int) error {
	if ticketCount <= 0 {
		return apperrors.Validation("ticket count must be positive", nil)
	}

	// Fast path: the ledger row already exists
	ok, err := s.repo.TryIncrementBooked(ctx, slotID, date, ticketCount)
	if err != nil {
		return apperrors.Internal("failed to commit capacity", err)
	}
	if ok {
		s.logCommit(ctx, slotID, date, ticketCount)
		return nil
	}

	row, err := s.repo.GetAvailabilityRow(ctx, slotID, date)
	if err != nil {
		return apperrors.Internal("failed to load slot availability", err)
	}
	if row != nil {
		// The row may have been created by a concurrent commit after our
		// first update matched nothing; retry the bounded increment before
		// calling the slot full.
		return s.retryIncrement(ctx, slotID, date, ticketCount)
	}

	// Lazily create the ledger row for this (slot, date)
	slot, err := s.repo.GetSlot(ctx, slotID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("time slot not found")
		}
		return apperrors.Internal("failed to load time slot", err)
	}

	if ticketCount > slot.Capacity {
		return insufficientCapacity(slotID, date, ticketCount)
	}

	inserted, err := s.repo.InsertRow(ctx, &slots.SlotAvailability{
		TimeSlotID:        slotID,
		VisitDate:         date,
		AvailableCapacity: slot.Capacity,
		BookedCount:       ticketCount,
	})
	if err != nil {
		return apperrors.Internal("failed to create slot availability", err)
	}
	if inserted {
		s.logCommit(ctx, slotID, date, ticketCount)
		return nil
	}

	// A concurrent commit created the row between our update and insert.
	return s.retryIncrement(ctx, slotID, date, ticketCount)
}

// retryIncrement runs the bounded increment once more against a row a
// concurrent commit created. A refusal here means the slot really is full.
func (s *service) retryIncrement(ctx context.Context, slotID uuid.UUID, date time.Time, ticketCount int) error {
	ok, err := s.repo.TryIncrementBooked(ctx, slotID, date, ticketCount)
	if err != nil {
		return apperrors.Internal("failed to commit capacity", err)
	}
	if !ok {
		return insufficientCapacity(slotID, date, ticketCount)
	}
	s.logCommit(ctx, slotID, date, ticketCount)
	return nil
}

func (s *service) Release(ctx context.Context, slotID uuid.UUID, date time.Time, ticketCount int) error {
	if ticketCount <= 0 {
		return apperrors.Validation("ticket count must be positive", nil)
	}

	ok, err := s.repo.DecrementBooked(ctx, slotID, date, ticketCount)
	if err != nil {
		return apperrors.Internal("failed to release capacity", err)
	}
	if !ok {
		// No ledger row, or fewer commits than we were asked to return.
		logger.GetDefault().ErrorWithContext(ctx, "capacity release found no matching ledger row", nil, map[string]interface{}{
			"slot_id": slotID.String(),
			"date":    date.Format("2006-01-02"),
			"tickets": ticketCount,
		})
		return nil
	}

	logger.GetDefault().LogCapacityReleased(ctx, slotID.String(), date.Format("2006-01-02"), ticketCount)
	return nil
}

func insufficientCapacity(slotID uuid.UUID, date time.Time, requested int) error {
	return apperrors.Conflict("insufficient capacity for this time slot", map[string]interface{}{
		"slot_id":   slotID.String(),
		"date":      date.Format("2006-01-02"),
		"requested": requested,
	})
}

func (s *service) logCommit(ctx context.Context, slotID uuid.UUID, date time.Time, ticketCount int) {
	remaining := -1
	if check, err := s.CheckSlotCapacity(ctx, slotID, date, 0); err == nil {
		remaining = check.Remaining
	}
	logger.GetDefault().LogCapacityCommitted(ctx, slotID.String(), date.Format("2006-01-02"), ticketCount, remaining)
}
