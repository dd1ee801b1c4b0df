package exhibitions

import (
	"time"

	"github.com/google/uuid"
)

// Exhibition is a bookable item (exhibition or show) hosted at a venue.
type Exhibition struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	VenueID     uuid.UUID `gorm:"type:uuid;index;not null" json:"venue_id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	Seated      bool      `gorm:"default:false" json:"seated"`
	Active      bool      `gorm:"default:true;index" json:"active"`
	StartsOn    *time.Time `gorm:"type:date" json:"starts_on,omitempty"`
	EndsOn      *time.Time `gorm:"type:date" json:"ends_on,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Exhibition) TableName() string {
	return "exhibitions"
}

// IsBookable reports whether the exhibition accepts bookings at all.
func (e *Exhibition) IsBookable() bool {
	return e.Active
}
