package seatmap

import "time"

// Seat statuses as reported to clients. Booked wins over locked, locked wins
// over free.
const (
	StatusAvailable = "AVAILABLE"
	StatusLocked    = "LOCKED"
	StatusBooked    = "BOOKED"
)

// SeatInfo is one seat in the resolved grid for an (exhibition, date, slot).
type SeatInfo struct {
	Label       string     `json:"label"`
	Row         string     `json:"row"`
	Number      int        `json:"number"`
	Category    string     `json:"category,omitempty"`
	Price       float64    `json:"price"`
	Status      string     `json:"status"`
	IsAvailable bool       `json:"is_available"`
	LockedUntil *time.Time `json:"locked_until,omitempty"`
}

type SeatMapResponse struct {
	ExhibitionID string     `json:"exhibition_id"`
	TimeSlotID   string     `json:"time_slot_id"`
	VisitDate    string     `json:"visit_date"`
	TotalSeats   int        `json:"total_seats"`
	Available    int        `json:"available"`
	Seats        []SeatInfo `json:"seats"`
}
