package slots

import (
	"context"
	"errors"
	"sort"
	"time"

	"venuepass/internal/pricing"
	"venuepass/internal/shared/config"
	"venuepass/internal/shared/utils/apperrors"
	"venuepass/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PricingService resolves slot prices. Declared here so the availability
// calculator only depends on what it calls.
type PricingService interface {
	ResolveSlotPricing(ctx context.Context, exhibitionID uuid.UUID, date time.Time, slotID uuid.UUID) ([]pricing.TicketPricing, error)
}

type Service interface {
	SetPricingService(pricingService PricingService)

	// GetAvailableDates aggregates per-date capacity vs booked counts over
	// [start, end] (default today .. +AvailabilityWindowDays). Dates without
	// a configured slot are omitted: absence means nothing bookable exists.
	GetAvailableDates(ctx context.Context, exhibitionID uuid.UUID, start, end *time.Time) ([]DateAvailability, error)

	// GetTimeSlots resolves the slot set for one date with date-specific
	// schedules taking precedence over recurring ones, and attaches per-slot
	// remaining capacity and pricing.
	GetTimeSlots(ctx context.Context, exhibitionID uuid.UUID, date time.Time) ([]TimeSlotAvailability, error)

	// GetSlot fetches one slot by ID.
	GetSlot(ctx context.Context, slotID uuid.UUID) (*TimeSlot, error)

	CreateTimeSlot(ctx context.Context, req CreateTimeSlotRequest) (*TimeSlot, error)
}

type service struct {
	repo           Repository
	config         *config.Config
	pricingService PricingService
}

func NewService(repo Repository, cfg *config.Config) Service {
	return &service{
		repo:   repo,
		config: cfg,
	}
}

func (s *service) SetPricingService(pricingService PricingService) {
	s.pricingService = pricingService
}

func (s *service) GetAvailableDates(ctx context.Context, exhibitionID uuid.UUID, start, end *time.Time) ([]DateAvailability, error) {
	from := time.Now().UTC().Truncate(24 * time.Hour)
	if start != nil {
		from = *start
	}
	to := from.AddDate(0, 0, s.config.Booking.AvailabilityWindowDays)
	if end != nil {
		to = *end
	}
	if to.Before(from) {
		return nil, apperrors.Validation("end date must not precede start date", nil)
	}

	dated, err := s.repo.GetDateSpecificSlots(ctx, exhibitionID, from, to)
	if err != nil {
		return nil, apperrors.Internal("failed to load time slots", err)
	}

	capacityByDate := make(map[string]int)
	for _, slot := range dated {
		sch := slot.Schedule()
		if sch.Kind != ScheduleDateSpecific {
			continue
		}
		capacityByDate[sch.Date.Format("2006-01-02")] += slot.Capacity
	}

	bookedByDate, err := s.repo.GetBookedCountsByDate(ctx, exhibitionID, from, to)
	if err != nil {
		return nil, apperrors.Internal("failed to load booked counts", err)
	}

	result := make([]DateAvailability, 0, len(capacityByDate))
	for date, capacity := range capacityByDate {
		booked := bookedByDate[date]
		result = append(result, DateAvailability{
			Date:        date,
			Capacity:    capacity,
			BookedCount: booked,
			IsFull:      booked >= capacity,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Date < result[j].Date
	})

	return result, nil
}

func (s *service) GetTimeSlots(ctx context.Context, exhibitionID uuid.UUID, date time.Time) ([]TimeSlotAvailability, error) {
	candidates, err := s.repo.GetSlotsForDate(ctx, exhibitionID, date)
	if err != nil {
		return nil, apperrors.Internal("failed to load time slots", err)
	}

	resolved := resolveSlotSet(candidates, date)

	result := make([]TimeSlotAvailability, 0, len(resolved))
	for _, slot := range resolved {
		totalCapacity := slot.Capacity
		booked := 0

		row, err := s.repo.GetAvailabilityRow(ctx, slot.ID, date)
		if err != nil {
			return nil, apperrors.Internal("failed to load slot availability", err)
		}
		if row != nil {
			// Per-date override applies to this date only
			totalCapacity = row.AvailableCapacity
			booked = row.BookedCount
		}

		remaining := totalCapacity - booked
		if remaining < 0 {
			remaining = 0
		}

		entry := TimeSlotAvailability{
			ID:                slot.ID.String(),
			StartTime:         slot.StartTime,
			EndTime:           slot.EndTime,
			TotalCapacity:     totalCapacity,
			AvailableCapacity: remaining,
			BookedCount:       booked,
			IsFull:            remaining <= 0,
			Pricing:           []pricing.TicketPricing{},
		}

		if s.pricingService != nil {
			prices, err := s.pricingService.ResolveSlotPricing(ctx, exhibitionID, date, slot.ID)
			if err != nil {
				// Pricing degrades to empty, never fails availability
				logger.GetDefault().ErrorWithContext(ctx, "pricing resolution failed", err, map[string]interface{}{
					"slot_id": slot.ID.String(),
				})
			} else {
				entry.Pricing = prices
			}
		}

		result = append(result, entry)
	}

	return result, nil
}

// resolveSlotSet applies matching precedence: when any date-specific slot
// covers the date, recurring matches for the same date are suppressed.
func resolveSlotSet(candidates []TimeSlot, date time.Time) []TimeSlot {
	var dateSpecific, recurring []TimeSlot
	for _, slot := range candidates {
		sch := slot.Schedule()
		if !sch.Matches(date) {
			continue
		}
		if sch.Kind == ScheduleDateSpecific {
			dateSpecific = append(dateSpecific, slot)
		} else {
			recurring = append(recurring, slot)
		}
	}

	if len(dateSpecific) > 0 {
		return dateSpecific
	}
	return recurring
}

func (s *service) GetSlot(ctx context.Context, slotID uuid.UUID) (*TimeSlot, error) {
	slot, err := s.repo.GetSlotByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("time slot not found")
		}
		return nil, apperrors.Internal("failed to get time slot", err)
	}
	return slot, nil
}

func (s *service) CreateTimeSlot(ctx context.Context, req CreateTimeSlotRequest) (*TimeSlot, error) {
	if req.SlotDate != "" && req.DayOfWeek != nil {
		return nil, apperrors.Validation("a slot is either date-specific or recurring, not both", nil)
	}

	slot := &TimeSlot{
		Capacity:  req.Capacity,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Active:    true,
	}

	if req.ExhibitionID != "" {
		exhibitionID, err := uuid.Parse(req.ExhibitionID)
		if err != nil {
			return nil, apperrors.Validation("invalid exhibition ID", nil)
		}
		slot.ExhibitionID = &exhibitionID
	}

	if req.SlotDate != "" {
		slotDate, err := time.Parse("2006-01-02", req.SlotDate)
		if err != nil {
			return nil, apperrors.Validation("invalid slot date, expected YYYY-MM-DD", nil)
		}
		slot.SlotDate = &slotDate
	}
	if req.DayOfWeek != nil {
		if *req.DayOfWeek < 0 || *req.DayOfWeek > 6 {
			return nil, apperrors.Validation("day_of_week must be 0 (Sunday) .. 6 (Saturday)", nil)
		}
		slot.DayOfWeek = req.DayOfWeek
	}

	if err := s.repo.CreateSlot(ctx, slot); err != nil {
		return nil, apperrors.Internal("failed to create time slot", err)
	}

	return slot, nil
}
