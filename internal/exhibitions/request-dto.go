package exhibitions

type CreateExhibitionRequest struct {
	VenueID     string `json:"venue_id" binding:"required,uuid"`
	Title       string `json:"title" binding:"required,min=2,max=200"`
	Description string `json:"description" binding:"omitempty,max=5000"`
	Seated      bool   `json:"seated"`
	StartsOn    string `json:"starts_on" binding:"omitempty,datetime=2006-01-02"`
	EndsOn      string `json:"ends_on" binding:"omitempty,datetime=2006-01-02"`
}
