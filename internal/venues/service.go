package venues

import (
	"context"
	"errors"

	"venuepass/internal/shared/utils/apperrors"
	"venuepass/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service interface {
	CreateVenue(ctx context.Context, req CreateVenueRequest) (*Venue, error)
	GetVenue(ctx context.Context, id string) (*Venue, error)
	ListVenues(ctx context.Context) ([]Venue, error)

	// GetSeatingPlan resolves the configured rows for a venue. A venue with
	// no rows has no seat map: that is a not-found condition for seated
	// flows, never an empty grid.
	GetSeatingPlan(ctx context.Context, venueID uuid.UUID) ([]SeatRow, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateVenue(ctx context.Context, req CreateVenueRequest) (*Venue, error) {
	venue := &Venue{
		Name:        req.Name,
		Description: req.Description,
		Seated:      len(req.Rows) > 0,
	}

	seen := make(map[string]bool)
	for i, row := range req.Rows {
		if seen[row.Name] {
			return nil, apperrors.Validation("duplicate row name in seating plan", map[string]string{"row": row.Name})
		}
		seen[row.Name] = true

		venue.Rows = append(venue.Rows, SeatRow{
			Name:      row.Name,
			SeatCount: row.SeatCount,
			Category:  row.Category,
			Price:     row.Price,
			Position:  i + 1,
		})
	}

	if err := s.repo.CreateVenue(ctx, venue); err != nil {
		logger.GetDefault().ErrorWithContext(ctx, "failed to create venue", err, map[string]interface{}{"name": req.Name})
		return nil, apperrors.Internal("failed to create venue", err)
	}

	return venue, nil
}

func (s *service) GetVenue(ctx context.Context, id string) (*Venue, error) {
	venueID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperrors.Validation("invalid venue ID", nil)
	}

	venue, err := s.repo.GetVenueByID(ctx, venueID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("venue not found")
		}
		return nil, apperrors.Internal("failed to get venue", err)
	}

	return venue, nil
}

func (s *service) ListVenues(ctx context.Context) ([]Venue, error) {
	venues, err := s.repo.ListVenues(ctx)
	if err != nil {
		return nil, apperrors.Internal("failed to list venues", err)
	}
	return venues, nil
}

func (s *service) GetSeatingPlan(ctx context.Context, venueID uuid.UUID) ([]SeatRow, error) {
	rows, err := s.repo.GetSeatRows(ctx, venueID)
	if err != nil {
		return nil, apperrors.Internal("failed to load seating plan", err)
	}
	if len(rows) == 0 {
		return nil, apperrors.NotFound("venue has no seating configuration")
	}
	return rows, nil
}
