package pricing

type CreateTierRequest struct {
	ExhibitionID string  `json:"exhibition_id" binding:"required,uuid"`
	TicketType   string  `json:"ticket_type" binding:"required,min=1,max=40"`
	Label        string  `json:"label" binding:"omitempty,max=120"`
	Price        float64 `json:"price" binding:"required,min=0"`
}

type SetDynamicPriceRequest struct {
	ExhibitionID string  `json:"exhibition_id" binding:"required,uuid"`
	VisitDate    string  `json:"visit_date" binding:"required,datetime=2006-01-02"`
	TimeSlotID   string  `json:"time_slot_id" binding:"required,uuid"`
	TicketType   string  `json:"ticket_type" binding:"required,min=1,max=40"`
	Label        string  `json:"label" binding:"omitempty,max=120"`
	Price        float64 `json:"price" binding:"required,min=0"`
	IsActive     bool    `json:"is_active"`
}
