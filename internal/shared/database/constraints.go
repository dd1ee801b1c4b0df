package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds database constraints critical for concurrency control.
// The seat uniqueness constraint is the authoritative backstop for seat
// exclusivity: locks reduce contention, this constraint prevents double sells.
func MigrateConstraints(db *gorm.DB) error {
	// One committed booking per (slot, date, seat)
	err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS unique_seat_per_slot_date
		ON booking_seats (time_slot_id, visit_date, row_name, seat_number);
	`).Error
	if err != nil {
		return err
	}

	// One capacity ledger row per (slot, date)
	err = db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS unique_slot_availability
		ON slot_availabilities (time_slot_id, visit_date);
	`).Error
	if err != nil {
		return err
	}

	// booked_count can never exceed the per-date capacity
	err = db.Exec(`
		ALTER TABLE slot_availabilities
		DROP CONSTRAINT IF EXISTS chk_booked_within_capacity;
	`).Error
	if err != nil {
		return err
	}
	err = db.Exec(`
		ALTER TABLE slot_availabilities
		ADD CONSTRAINT chk_booked_within_capacity
		CHECK (booked_count >= 0 AND booked_count <= available_capacity);
	`).Error
	if err != nil {
		return err
	}

	// Index for availability aggregation queries
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_slot_availability_date
		ON slot_availabilities (visit_date);
	`).Error
	if err != nil {
		return err
	}

	return nil
}
