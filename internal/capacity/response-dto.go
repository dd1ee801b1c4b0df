package capacity

type CommitCapacityResponse struct {
	TimeSlotID string `json:"time_slot_id"`
	VisitDate  string `json:"visit_date"`
	Committed  int    `json:"committed"`
}
