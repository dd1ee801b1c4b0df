package bookings

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Booking statuses
const (
	StatusConfirmed = "CONFIRMED"
	StatusCancelled = "CANCELLED"
)

// Payment statuses
const (
	PaymentPending   = "PENDING"
	PaymentCompleted = "COMPLETED"
	PaymentFailed    = "FAILED"
	PaymentRefunded  = "REFUNDED"
)

// Booking is a confirmed visit: one exhibition, one slot, one date, one or
// more tickets. Payment is tracked inline since each booking carries exactly
// one payment attempt.
type Booking struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SessionID    string    `gorm:"index;not null" json:"session_id"`
	ExhibitionID uuid.UUID `gorm:"type:uuid;index;not null" json:"exhibition_id"`
	TimeSlotID   uuid.UUID `gorm:"type:uuid;index;not null" json:"time_slot_id"`
	VisitDate    time.Time `gorm:"type:date;not null" json:"visit_date"`
	TotalTickets int       `gorm:"not null" json:"total_tickets"`
	TotalPrice   float64   `gorm:"not null" json:"total_price"`
	Status       string    `gorm:"type:varchar(20);check:status IN ('CONFIRMED', 'CANCELLED');default:'CONFIRMED'" json:"status"`
	BookingRef   string    `gorm:"unique;not null" json:"booking_ref"`

	PaymentStatus string     `gorm:"type:varchar(20);check:payment_status IN ('PENDING', 'COMPLETED', 'FAILED', 'REFUNDED');default:'PENDING'" json:"payment_status"`
	PaymentMethod string     `gorm:"type:varchar(50)" json:"payment_method"`
	TransactionID string     `gorm:"unique" json:"transaction_id"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`

	// Relationships
	Tickets []BookingTicket `json:"tickets,omitempty" gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE;"`
	Seats   []BookingSeat   `json:"seats,omitempty" gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE;"`
}

// BookingTicket is one priced ticket line (type x quantity) on a booking.
type BookingTicket struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingID  uuid.UUID `gorm:"type:uuid;index;not null" json:"booking_id"`
	TicketType string    `gorm:"type:varchar(30);not null" json:"ticket_type"`
	Quantity   int       `gorm:"not null" json:"quantity"`
	UnitPrice  float64   `gorm:"not null" json:"unit_price"`
	CreatedAt  time.Time `json:"created_at"`
}

// BookingSeat pins one physical seat to a booking. The unique index over
// (time_slot_id, visit_date, row_name, seat_number) is the durable seat
// exclusivity guarantee; lock collisions only narrow the race window.
type BookingSeat struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingID  uuid.UUID `gorm:"type:uuid;index;not null" json:"booking_id"`
	TimeSlotID uuid.UUID `gorm:"type:uuid;not null" json:"time_slot_id"`
	VisitDate  time.Time `gorm:"type:date;not null" json:"visit_date"`
	RowName    string    `gorm:"not null" json:"row_name"`
	SeatNumber int       `gorm:"not null" json:"seat_number"`
	Price      float64   `gorm:"not null" json:"price"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Booking) TableName() string {
	return "bookings"
}

func (BookingTicket) TableName() string {
	return "booking_tickets"
}

func (BookingSeat) TableName() string {
	return "booking_seats"
}

func (b *Booking) IsConfirmed() bool {
	return b.Status == StatusConfirmed
}

func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

func (b *Booking) Cancel() {
	b.Status = StatusCancelled
	now := time.Now()
	b.CancelledAt = &now
	b.UpdatedAt = now
}

func (b *Booking) MarkPaid() {
	b.PaymentStatus = PaymentCompleted
	now := time.Now()
	b.PaidAt = &now
	b.UpdatedAt = now
}

// Label renders the seat as clients display it ("A12").
func (s *BookingSeat) Label() string {
	return s.RowName + strconv.Itoa(s.SeatNumber)
}
