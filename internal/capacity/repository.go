package capacity

import (
	"context"
	"errors"
	"time"

	"venuepass/internal/slots"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	GetSlot(ctx context.Context, slotID uuid.UUID) (*slots.TimeSlot, error)
	GetAvailabilityRow(ctx context.Context, slotID uuid.UUID, date time.Time) (*slots.SlotAvailability, error)

	// TryIncrementBooked performs the single authoritative capacity consume:
	// a conditional UPDATE that only lands when the increment stays within
	// the row's capacity. Returns false when no row matched, either because
	// the row does not exist or the slot is too full.
	TryIncrementBooked(ctx context.Context, slotID uuid.UUID, date time.Time, count int) (bool, error)

	// InsertRow lazily creates the (slot, date) ledger row. Returns false
	// when a concurrent writer created it first.
	InsertRow(ctx context.Context, row *slots.SlotAvailability) (bool, error)

	// DecrementBooked returns previously committed capacity. The guard keeps
	// booked_count from going negative; returns false when no row matched.
	DecrementBooked(ctx context.Context, slotID uuid.UUID, date time.Time, count int) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetSlot(ctx context.Context, slotID uuid.UUID) (*slots.TimeSlot, error) {
	var slot slots.TimeSlot
	err := r.db.WithContext(ctx).First(&slot, "id = ?", slotID).Error
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *repository) GetAvailabilityRow(ctx context.Context, slotID uuid.UUID, date time.Time) (*slots.SlotAvailability, error) {
	var row slots.SlotAvailability
	err := r.db.WithContext(ctx).
		Where("time_slot_id = ? AND visit_date = ?", slotID, date.Format("2006-01-02")).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *repository) TryIncrementBooked(ctx context.Context, slotID uuid.UUID, date time.Time, count int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&slots.SlotAvailability{}).
		Where("time_slot_id = ? AND visit_date = ? AND booked_count + ? <= available_capacity",
			slotID, date.Format("2006-01-02"), count).
		Updates(map[string]interface{}{
			"booked_count": gorm.Expr("booked_count + ?", count),
			"updated_at":   time.Now().UTC(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) DecrementBooked(ctx context.Context, slotID uuid.UUID, date time.Time, count int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&slots.SlotAvailability{}).
		Where("time_slot_id = ? AND visit_date = ? AND booked_count >= ?",
			slotID, date.Format("2006-01-02"), count).
		Updates(map[string]interface{}{
			"booked_count": gorm.Expr("booked_count - ?", count),
			"updated_at":   time.Now().UTC(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) InsertRow(ctx context.Context, row *slots.SlotAvailability) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "time_slot_id"}, {Name: "visit_date"}},
			DoNothing: true,
		}).
		Create(row)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
