package bookings

import "time"

type BookedSeatInfo struct {
	Label string  `json:"label"`
	Row   string  `json:"row"`
	Price float64 `json:"price"`
}

type TicketLineInfo struct {
	TicketType string  `json:"ticket_type"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
}

type PaymentInfo struct {
	Status        string     `json:"status"`
	Method        string     `json:"method"`
	TransactionID string     `json:"transaction_id"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
}

type BookingConfirmationResponse struct {
	BookingID    string           `json:"booking_id"`
	BookingRef   string           `json:"booking_ref"`
	Status       string           `json:"status"`
	ExhibitionID string           `json:"exhibition_id"`
	TimeSlotID   string           `json:"time_slot_id"`
	VisitDate    string           `json:"visit_date"`
	TotalTickets int              `json:"total_tickets"`
	TotalPrice   float64          `json:"total_price"`
	Seats        []BookedSeatInfo `json:"seats,omitempty"`
	Tickets      []TicketLineInfo `json:"tickets,omitempty"`
	Payment      PaymentInfo      `json:"payment"`
	CreatedAt    time.Time        `json:"created_at"`
}

func toConfirmationResponse(booking *Booking) *BookingConfirmationResponse {
	resp := &BookingConfirmationResponse{
		BookingID:    booking.ID.String(),
		BookingRef:   booking.BookingRef,
		Status:       booking.Status,
		ExhibitionID: booking.ExhibitionID.String(),
		TimeSlotID:   booking.TimeSlotID.String(),
		VisitDate:    booking.VisitDate.Format("2006-01-02"),
		TotalTickets: booking.TotalTickets,
		TotalPrice:   booking.TotalPrice,
		Payment: PaymentInfo{
			Status:        booking.PaymentStatus,
			Method:        booking.PaymentMethod,
			TransactionID: booking.TransactionID,
			PaidAt:        booking.PaidAt,
		},
		CreatedAt: booking.CreatedAt,
	}

	for _, seat := range booking.Seats {
		resp.Seats = append(resp.Seats, BookedSeatInfo{
			Label: seat.Label(),
			Row:   seat.RowName,
			Price: seat.Price,
		})
	}
	for _, ticket := range booking.Tickets {
		resp.Tickets = append(resp.Tickets, TicketLineInfo{
			TicketType: ticket.TicketType,
			Quantity:   ticket.Quantity,
			UnitPrice:  ticket.UnitPrice,
		})
	}

	return resp
}
