package venues

type CreateVenueRequest struct {
	Name        string           `json:"name" binding:"required,min=2,max=120"`
	Description string           `json:"description" binding:"omitempty,max=2000"`
	Rows        []SeatRowRequest `json:"rows" binding:"omitempty,dive"`
}

type SeatRowRequest struct {
	Name      string  `json:"name" binding:"required,min=1,max=10"`
	SeatCount int     `json:"seat_count" binding:"required,min=1,max=200"`
	Category  string  `json:"category" binding:"omitempty,max=40"`
	Price     float64 `json:"price" binding:"omitempty,min=0"`
}
