package locks

import "time"

type LockResponse struct {
	LockID       string    `json:"lock_id"`
	SessionID    string    `json:"session_id"`
	ExhibitionID string    `json:"exhibition_id"`
	TimeSlotID   string    `json:"time_slot_id"`
	VisitDate    string    `json:"visit_date"`
	Seats        []string  `json:"seats,omitempty"`
	Quantity     int       `json:"quantity,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
	TTLSeconds   int       `json:"ttl_seconds"`
}

type VerifyLockResponse struct {
	Valid bool          `json:"valid"`
	Lock  *LockResponse `json:"lock,omitempty"`
}

func toLockResponse(lock *SeatLock) *LockResponse {
	return &LockResponse{
		LockID:       lock.LockID,
		SessionID:    lock.SessionID,
		ExhibitionID: lock.ExhibitionID.String(),
		TimeSlotID:   lock.TimeSlotID.String(),
		VisitDate:    lock.VisitDate.Format("2006-01-02"),
		Seats:        lock.Seats,
		Quantity:     lock.Quantity,
		ExpiresAt:    lock.ExpiresAt,
		TTLSeconds:   int(time.Until(lock.ExpiresAt).Seconds()),
	}
}
