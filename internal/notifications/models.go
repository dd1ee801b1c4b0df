package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Ticket event types
const (
	EventTicketIssued     = "TICKET_ISSUED"
	EventBookingCancelled = "BOOKING_CANCELLED"
)

// TicketIssuedEvent is emitted after a booking is confirmed and paid.
// Downstream consumers (ticket rendering, email dispatch) are outside this
// service; the event is the contract.
type TicketIssuedEvent struct {
	EventID      uuid.UUID `json:"event_id"`
	EventType    string    `json:"event_type"`
	BookingID    uuid.UUID `json:"booking_id"`
	BookingRef   string    `json:"booking_ref"`
	SessionID    string    `json:"session_id"`
	ExhibitionID uuid.UUID `json:"exhibition_id"`
	TimeSlotID   uuid.UUID `json:"time_slot_id"`
	VisitDate    string    `json:"visit_date"`
	TicketCount  int       `json:"ticket_count"`
	Seats        []string  `json:"seats,omitempty"`
	TotalPrice   float64   `json:"total_price"`
	IssuedAt     time.Time `json:"issued_at"`
}

func NewTicketIssuedEvent(bookingID uuid.UUID, bookingRef, sessionID string) *TicketIssuedEvent {
	return &TicketIssuedEvent{
		EventID:    uuid.New(),
		EventType:  EventTicketIssued,
		BookingID:  bookingID,
		BookingRef: bookingRef,
		SessionID:  sessionID,
		IssuedAt:   time.Now().UTC(),
	}
}

func (e *TicketIssuedEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// PartitionKey routes all events for one booking to the same partition so
// consumers see them in order.
func (e *TicketIssuedEvent) PartitionKey() string {
	return e.BookingID.String()
}
