package capacity

type CheckCapacityRequest struct {
	TimeSlotID    string `json:"time_slot_id" binding:"required,uuid"`
	VisitDate     string `json:"visit_date" binding:"required,datetime=2006-01-02"`
	RequiredCount int    `json:"required_count" binding:"required,min=1"`
}

type CommitCapacityRequest struct {
	TimeSlotID  string `json:"time_slot_id" binding:"required,uuid"`
	VisitDate   string `json:"visit_date" binding:"required,datetime=2006-01-02"`
	TicketCount int    `json:"ticket_count" binding:"required,min=1"`
}
