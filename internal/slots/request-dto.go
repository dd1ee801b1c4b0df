package slots

type CreateTimeSlotRequest struct {
	ExhibitionID string `json:"exhibition_id" binding:"omitempty,uuid"`
	Capacity     int    `json:"capacity" binding:"required,min=0"`
	SlotDate     string `json:"slot_date" binding:"omitempty,datetime=2006-01-02"`
	DayOfWeek    *int   `json:"day_of_week" binding:"omitempty,min=0,max=6"`
	StartTime    string `json:"start_time" binding:"required,datetime=15:04"`
	EndTime      string `json:"end_time" binding:"required,datetime=15:04"`
}
