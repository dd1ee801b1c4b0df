package bookings

type TicketLine struct {
	TicketType string `json:"ticket_type" binding:"required"`
	Quantity   int    `json:"quantity" binding:"required,min=1"`
}

type ConfirmBookingRequest struct {
	LockID        string       `json:"lock_id" binding:"required"`
	PaymentMethod string       `json:"payment_method" binding:"required"`
	Tickets       []TicketLine `json:"tickets" binding:"omitempty,dive"`
}
