package locks

import (
	"time"

	"github.com/google/uuid"
)

// SeatLock is a short-lived reservation held in Redis. Locks are advisory:
// they reduce contention and give early feedback, but the capacity commit
// remains the authoritative oversell gate. Expiry is passive; expired locks
// simply stop being returned.
type SeatLock struct {
	LockID       string    `json:"lock_id"`
	SessionID    string    `json:"session_id"`
	ExhibitionID uuid.UUID `json:"exhibition_id"`
	TimeSlotID   uuid.UUID `json:"time_slot_id"`
	VisitDate    time.Time `json:"visit_date"`

	// Seats holds row-qualified labels ("A1", "B12") for seated exhibitions.
	// Quantity is used instead for general admission holds.
	Seats    []string `json:"seats,omitempty"`
	Quantity int      `json:"quantity,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsExpired reports whether the lock's window has passed.
func (l *SeatLock) IsExpired() bool {
	return !l.ExpiresAt.After(time.Now())
}

// TicketCount returns the number of admissions this lock covers.
func (l *SeatLock) TicketCount() int {
	if len(l.Seats) > 0 {
		return len(l.Seats)
	}
	return l.Quantity
}
