package pricing

import (
	"time"

	"github.com/google/uuid"
)

// PricingTier is the default (exhibition, ticket type) price.
type PricingTier struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ExhibitionID uuid.UUID `gorm:"type:uuid;index;not null;uniqueIndex:idx_tier_ticket_type" json:"exhibition_id"`
	TicketType   string    `gorm:"not null;uniqueIndex:idx_tier_ticket_type" json:"ticket_type"`
	Label        string    `json:"label"`
	Price        float64   `gorm:"not null" json:"price"`
	Active       bool      `gorm:"default:true;index" json:"active"`
	ValidFrom    time.Time `json:"valid_from"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DynamicPrice overrides the default tier for one exact (exhibition, date, slot).
type DynamicPrice struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ExhibitionID uuid.UUID `gorm:"type:uuid;index;not null;uniqueIndex:idx_dynamic_price" json:"exhibition_id"`
	VisitDate    time.Time `gorm:"type:date;not null;uniqueIndex:idx_dynamic_price" json:"visit_date"`
	TimeSlotID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_dynamic_price" json:"time_slot_id"`
	TicketType   string    `gorm:"not null;uniqueIndex:idx_dynamic_price" json:"ticket_type"`
	Label        string    `json:"label"`
	Price        float64   `gorm:"not null" json:"price"`
	IsActive     bool      `gorm:"default:true;index" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (PricingTier) TableName() string {
	return "pricing_tiers"
}

func (DynamicPrice) TableName() string {
	return "dynamic_prices"
}

// TicketPricing is one resolved price line for a slot.
type TicketPricing struct {
	TicketType string  `json:"ticket_type"`
	Price      float64 `json:"price"`
	Label      string  `json:"label,omitempty"`
}
