package slots

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	CreateSlot(ctx context.Context, slot *TimeSlot) error
	GetSlotByID(ctx context.Context, id uuid.UUID) (*TimeSlot, error)

	// GetDateSpecificSlots returns active dated slots inside [start, end].
	GetDateSpecificSlots(ctx context.Context, exhibitionID uuid.UUID, start, end time.Time) ([]TimeSlot, error)

	// GetSlotsForDate returns every active slot whose schedule could cover
	// the date: pinned to it, recurring on its weekday, or daily.
	GetSlotsForDate(ctx context.Context, exhibitionID uuid.UUID, date time.Time) ([]TimeSlot, error)

	// GetAvailabilityRow returns the ledger row for (slot, date), or nil
	// when none has been created yet.
	GetAvailabilityRow(ctx context.Context, slotID uuid.UUID, date time.Time) (*SlotAvailability, error)

	// GetBookedCountsByDate sums durable booked counts per date across the
	// exhibition's slots in [start, end].
	GetBookedCountsByDate(ctx context.Context, exhibitionID uuid.UUID, start, end time.Time) (map[string]int, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateSlot(ctx context.Context, slot *TimeSlot) error {
	return r.db.WithContext(ctx).Create(slot).Error
}

func (r *repository) GetSlotByID(ctx context.Context, id uuid.UUID) (*TimeSlot, error) {
	var slot TimeSlot
	err := r.db.WithContext(ctx).First(&slot, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *repository) GetDateSpecificSlots(ctx context.Context, exhibitionID uuid.UUID, start, end time.Time) ([]TimeSlot, error) {
	var slots []TimeSlot
	err := r.db.WithContext(ctx).
		Where("exhibition_id = ? AND active = ? AND slot_date IS NOT NULL AND slot_date BETWEEN ? AND ?",
			exhibitionID, true, start.Format("2006-01-02"), end.Format("2006-01-02")).
		Order("slot_date ASC, start_time ASC").
		Find(&slots).Error
	return slots, err
}

func (r *repository) GetSlotsForDate(ctx context.Context, exhibitionID uuid.UUID, date time.Time) ([]TimeSlot, error) {
	var slots []TimeSlot
	dow := int(date.Weekday())
	err := r.db.WithContext(ctx).
		Where("exhibition_id = ? AND active = ?", exhibitionID, true).
		Where("slot_date = ? OR (slot_date IS NULL AND day_of_week = ?) OR (slot_date IS NULL AND day_of_week IS NULL)",
			date.Format("2006-01-02"), dow).
		Order("start_time ASC").
		Find(&slots).Error
	return slots, err
}

func (r *repository) GetAvailabilityRow(ctx context.Context, slotID uuid.UUID, date time.Time) (*SlotAvailability, error) {
	var row SlotAvailability
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

func (r *repository) GetBookedCountsByDate(ctx context.Context, exhibitionID uuid.UUID, start, end time.Time) (map[string]int, error) {
	var rows []struct {
		VisitDate time.Time
		Booked    int
	}
	err := r.db.WithContext(ctx).
		Table("slot_availabilities sa").
		Select("sa.visit_date, SUM(sa.booked_count) AS booked").
		Joins("JOIN time_slots ts ON ts.id = sa.time_slot_id").
		Where("ts.exhibition_id = ? AND sa.visit_date BETWEEN ? AND ?",
			exhibitionID, start.Format("2006-01-02"), end.Format("2006-01-02")).
		Group("sa.visit_date").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.VisitDate.Format("2006-01-02")] = row.Booked
	}
	return counts, nil
}
