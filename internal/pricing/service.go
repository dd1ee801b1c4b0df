package pricing

import (
	"context"
	"time"

	"venuepass/internal/shared/utils/apperrors"
	"venuepass/pkg/logger"

	"github.com/google/uuid"
)

type Service interface {
	// ResolveSlotPricing returns the active prices for (exhibition, date, slot):
	// dynamic overrides when any exist, default tiers otherwise, empty when
	// neither source has rows. An empty result means the slot is unbookable
	// for every ticket type, never free.
	ResolveSlotPricing(ctx context.Context, exhibitionID uuid.UUID, date time.Time, slotID uuid.UUID) ([]TicketPricing, error)

	CreateTier(ctx context.Context, req CreateTierRequest) (*PricingTier, error)
	SetDynamicPrice(ctx context.Context, req SetDynamicPriceRequest) (*DynamicPrice, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) ResolveSlotPricing(ctx context.Context, exhibitionID uuid.UUID, date time.Time, slotID uuid.UUID) ([]TicketPricing, error) {
	overrides, err := s.repo.GetActiveDynamicPrices(ctx, exhibitionID, date, slotID)
	if err != nil {
		// Degrade to the default tiers rather than failing the whole
		// availability query. A failed lookup must never invent a price.
		logger.GetDefault().ErrorWithContext(ctx, "dynamic price lookup failed", err, map[string]interface{}{
			"exhibition_id": exhibitionID.String(),
			"slot_id":       slotID.String(),
		})
	} else if len(overrides) > 0 {
		result := make([]TicketPricing, 0, len(overrides))
		for _, p := range overrides {
			result = append(result, TicketPricing{
				TicketType: p.TicketType,
				Price:      p.Price,
				Label:      p.Label,
			})
		}
		return result, nil
	}

	tiers, err := s.repo.GetActiveTiers(ctx, exhibitionID)
	if err != nil {
		logger.GetDefault().ErrorWithContext(ctx, "default tier lookup failed", err, map[string]interface{}{
			"exhibition_id": exhibitionID.String(),
		})
		return []TicketPricing{}, nil
	}

	result := make([]TicketPricing, 0, len(tiers))
	for _, t := range tiers {
		result = append(result, TicketPricing{
			TicketType: t.TicketType,
			Price:      t.Price,
			Label:      t.Label,
		})
	}
	return result, nil
}

func (s *service) CreateTier(ctx context.Context, req CreateTierRequest) (*PricingTier, error) {
	exhibitionID, err := uuid.Parse(req.ExhibitionID)
	if err != nil {
		return nil, apperrors.Validation("invalid exhibition ID", nil)
	}

	tier := &PricingTier{
		ExhibitionID: exhibitionID,
		TicketType:   req.TicketType,
		Label:        req.Label,
		Price:        req.Price,
		Active:       true,
		ValidFrom:    time.Now().UTC(),
	}

	if err := s.repo.CreateTier(ctx, tier); err != nil {
		return nil, apperrors.Internal("failed to create pricing tier", err)
	}

	return tier, nil
}

func (s *service) SetDynamicPrice(ctx context.Context, req SetDynamicPriceRequest) (*DynamicPrice, error) {
	exhibitionID, err := uuid.Parse(req.ExhibitionID)
	if err != nil {
		return nil, apperrors.Validation("invalid exhibition ID", nil)
	}
	slotID, err := uuid.Parse(req.TimeSlotID)
	if err != nil {
		return nil, apperrors.Validation("invalid time slot ID", nil)
	}
	visitDate, err := time.Parse("2006-01-02", req.VisitDate)
	if err != nil {
		return nil, apperrors.Validation("invalid visit date, expected YYYY-MM-DD", nil)
	}

	price := &DynamicPrice{
		ExhibitionID: exhibitionID,
		VisitDate:    visitDate,
		TimeSlotID:   slotID,
		TicketType:   req.TicketType,
		Label:        req.Label,
		Price:        req.Price,
		IsActive:     req.IsActive,
	}

	if err := s.repo.UpsertDynamicPrice(ctx, price); err != nil {
		return nil, apperrors.Internal("failed to set dynamic price", err)
	}

	return price, nil
}
