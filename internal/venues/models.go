package venues

import (
	"time"

	"github.com/google/uuid"
)

// Venue owns the seating configuration used to expand seat grids.
type Venue struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null" json:"name"`
	Description string    `json:"description"`
	Seated      bool      `gorm:"default:false" json:"seated"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Rows []SeatRow `json:"rows,omitempty" gorm:"foreignKey:VenueID;constraint:OnDelete:CASCADE;"`
}

// SeatRow is one configured row of the venue's seat map: seats are derived
// as 1..SeatCount at query time, never stored individually.
type SeatRow struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	VenueID   uuid.UUID `gorm:"type:uuid;index;not null;uniqueIndex:idx_venue_row" json:"venue_id"`
	Name      string    `gorm:"not null;uniqueIndex:idx_venue_row" json:"name"`
	SeatCount int       `gorm:"not null" json:"seat_count"`
	Category  string    `json:"category"`
	Price     float64   `json:"price"`
	Position  int       `gorm:"not null" json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Venue) TableName() string {
	return "venues"
}

func (SeatRow) TableName() string {
	return "venue_seat_rows"
}
