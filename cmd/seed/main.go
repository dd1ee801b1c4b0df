package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"venuepass/internal/exhibitions"
	"venuepass/internal/pricing"
	"venuepass/internal/shared/config"
	"venuepass/internal/shared/database"
	"venuepass/internal/slots"
	"venuepass/internal/venues"
)

type Seeder struct {
	db *database.DB

	venueService      venues.Service
	exhibitionService exhibitions.Service
	slotService       slots.Service
	pricingService    pricing.Service
}

func main() {
	fmt.Println("🌱 Starting VenuePass Database Seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	pg := db.GetPostgreSQL()
	seeder := &Seeder{
		db:                db,
		venueService:      venues.NewService(venues.NewRepository(pg)),
		exhibitionService: exhibitions.NewService(exhibitions.NewRepository(pg)),
		slotService:       slots.NewService(slots.NewRepository(pg), cfg),
		pricingService:    pricing.NewService(pricing.NewRepository(pg)),
	}

	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in reverse dependency order.
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"booking_seats",
		"booking_tickets",
		"bookings",
		"slot_availabilities",
		"dynamic_prices",
		"pricing_tiers",
		"time_slots",
		"exhibitions",
		"venue_seat_rows",
		"venues",
	}

	for _, table := range tables {
		if err := s.db.GetPostgreSQL().Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
			return fmt.Errorf("failed to clean table %s: %w", table, err)
		}
		fmt.Printf("   Cleaned table: %s\n", table)
	}

	return nil
}

func (s *Seeder) SeedAll() error {
	ctx := context.Background()

	// Seated venue with a small row plan
	gallery, err := s.venueService.CreateVenue(ctx, venues.CreateVenueRequest{
		Name:        "Riverside Gallery Hall",
		Description: "Main exhibition hall with tiered seating for guided viewings",
		Rows: []venues.SeatRowRequest{
			{Name: "A", SeatCount: 12, Category: "front", Price: 45.00},
			{Name: "B", SeatCount: 14, Category: "standard", Price: 35.00},
			{Name: "C", SeatCount: 16, Category: "standard", Price: 35.00},
			{Name: "D", SeatCount: 18, Category: "rear", Price: 25.00},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create seated venue: %w", err)
	}
	fmt.Printf("   Created venue: %s\n", gallery.Name)

	// General admission venue, no seat rows
	pavilion, err := s.venueService.CreateVenue(ctx, venues.CreateVenueRequest{
		Name:        "Garden Pavilion",
		Description: "Open pavilion for walk-through exhibitions",
	})
	if err != nil {
		return fmt.Errorf("failed to create pavilion: %w", err)
	}
	fmt.Printf("   Created venue: %s\n", pavilion.Name)

	startsOn := time.Now().Format("2006-01-02")
	endsOn := time.Now().AddDate(0, 3, 0).Format("2006-01-02")

	seated, err := s.exhibitionService.CreateExhibition(ctx, exhibitions.CreateExhibitionRequest{
		VenueID:     gallery.ID.String(),
		Title:       "Masters of Light: A Retrospective",
		Description: "Guided seated viewings of the retrospective collection",
		Seated:      true,
		StartsOn:    startsOn,
		EndsOn:      endsOn,
	})
	if err != nil {
		return fmt.Errorf("failed to create seated exhibition: %w", err)
	}
	fmt.Printf("   Created exhibition: %s\n", seated.Title)

	general, err := s.exhibitionService.CreateExhibition(ctx, exhibitions.CreateExhibitionRequest{
		VenueID:     pavilion.ID.String(),
		Title:       "Botanical Forms",
		Description: "Walk-through exhibition in the garden pavilion",
		Seated:      false,
		StartsOn:    startsOn,
		EndsOn:      endsOn,
	})
	if err != nil {
		return fmt.Errorf("failed to create general exhibition: %w", err)
	}
	fmt.Printf("   Created exhibition: %s\n", general.Title)

	// Recurring daily slots for the seated exhibition
	for _, window := range [][2]string{{"10:00", "11:30"}, {"14:00", "15:30"}} {
		if _, err := s.slotService.CreateTimeSlot(ctx, slots.CreateTimeSlotRequest{
			ExhibitionID: seated.ID.String(),
			Capacity:     60,
			StartTime:    window[0],
			EndTime:      window[1],
		}); err != nil {
			return fmt.Errorf("failed to create recurring slot: %w", err)
		}
	}
	fmt.Println("   Created recurring slots for seated exhibition")

	// Weekend-only recurring slot plus one date-specific evening opening
	saturday := 6
	if _, err := s.slotService.CreateTimeSlot(ctx, slots.CreateTimeSlotRequest{
		ExhibitionID: general.ID.String(),
		Capacity:     200,
		DayOfWeek:    &saturday,
		StartTime:    "09:00",
		EndTime:      "18:00",
	}); err != nil {
		return fmt.Errorf("failed to create weekly slot: %w", err)
	}

	specialDate := time.Now().AddDate(0, 0, 14).Format("2006-01-02")
	special, err := s.slotService.CreateTimeSlot(ctx, slots.CreateTimeSlotRequest{
		ExhibitionID: general.ID.String(),
		Capacity:     80,
		SlotDate:     specialDate,
		StartTime:    "19:00",
		EndTime:      "22:00",
	})
	if err != nil {
		return fmt.Errorf("failed to create date-specific slot: %w", err)
	}
	fmt.Println("   Created slots for general exhibition")

	// Default pricing tiers
	tiers := []pricing.CreateTierRequest{
		{ExhibitionID: general.ID.String(), TicketType: "ADULT", Label: "Adult", Price: 18.00},
		{ExhibitionID: general.ID.String(), TicketType: "CHILD", Label: "Child (under 12)", Price: 8.00},
		{ExhibitionID: general.ID.String(), TicketType: "SENIOR", Label: "Senior (65+)", Price: 12.00},
	}
	for _, tier := range tiers {
		if _, err := s.pricingService.CreateTier(ctx, tier); err != nil {
			return fmt.Errorf("failed to create pricing tier: %w", err)
		}
	}
	fmt.Println("   Created default pricing tiers")

	// Dynamic override for the special evening opening
	if _, err := s.pricingService.SetDynamicPrice(ctx, pricing.SetDynamicPriceRequest{
		ExhibitionID: general.ID.String(),
		VisitDate:    specialDate,
		TimeSlotID:   special.ID.String(),
		TicketType:   "ADULT",
		Label:        "Evening Opening Adult",
		Price:        28.00,
		IsActive:     true,
	}); err != nil {
		return fmt.Errorf("failed to create dynamic price override: %w", err)
	}
	fmt.Println("   Created dynamic price override for evening opening")

	return nil
}
