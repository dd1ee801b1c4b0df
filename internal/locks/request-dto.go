package locks

type CreateLockRequest struct {
	ExhibitionID string   `json:"exhibition_id" binding:"required,uuid"`
	TimeSlotID   string   `json:"time_slot_id" binding:"required,uuid"`
	VisitDate    string   `json:"visit_date" binding:"required,datetime=2006-01-02"`
	Seats        []string `json:"seats" binding:"omitempty,max=10,dive,min=2"`
	Quantity     int      `json:"quantity" binding:"omitempty,min=1"`
}
