package slots

import "venuepass/internal/pricing"

// DateAvailability is the per-date aggregate of the range form.
type DateAvailability struct {
	Date        string `json:"date"`
	Capacity    int    `json:"capacity"`
	BookedCount int    `json:"booked_count"`
	IsFull      bool   `json:"is_full"`
}

// TimeSlotAvailability is the per-slot detail of the single-date form.
type TimeSlotAvailability struct {
	ID                string                  `json:"id"`
	StartTime         string                  `json:"start_time"`
	EndTime           string                  `json:"end_time"`
	TotalCapacity     int                     `json:"total_capacity"`
	AvailableCapacity int                     `json:"available_capacity"`
	BookedCount       int                     `json:"booked_count"`
	IsFull            bool                    `json:"is_full"`
	Pricing           []pricing.TicketPricing `json:"pricing"`
}
