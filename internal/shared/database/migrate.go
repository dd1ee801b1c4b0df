package database

import (
	"venuepass/internal/bookings"
	"venuepass/internal/exhibitions"
	"venuepass/internal/pricing"
	"venuepass/internal/slots"
	"venuepass/internal/venues"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&venues.Venue{},
		&venues.SeatRow{},
		&exhibitions.Exhibition{},
		&slots.TimeSlot{},
		&slots.SlotAvailability{},
		&pricing.PricingTier{},
		&pricing.DynamicPrice{},
		&bookings.Booking{},
		&bookings.BookingTicket{},
		&bookings.BookingSeat{},
	)
}
