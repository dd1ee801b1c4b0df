package exhibitions

import (
	"context"
	"errors"
	"time"

	"venuepass/internal/shared/constants"
	"venuepass/internal/shared/utils/apperrors"
	"venuepass/pkg/cache"
	"venuepass/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service interface {
	SetCacheService(cacheService cache.Service)
	CreateExhibition(ctx context.Context, req CreateExhibitionRequest) (*Exhibition, error)
	GetExhibition(ctx context.Context, id string) (*Exhibition, error)
	ListExhibitions(ctx context.Context) ([]Exhibition, error)

	// GetBookableExhibition resolves an exhibition that accepts bookings;
	// inactive or unknown IDs are not-found for booking flows.
	GetBookableExhibition(ctx context.Context, id uuid.UUID) (*Exhibition, error)
}

type service struct {
	repo         Repository
	cacheService cache.Service
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) CreateExhibition(ctx context.Context, req CreateExhibitionRequest) (*Exhibition, error) {
	venueID, err := uuid.Parse(req.VenueID)
	if err != nil {
		return nil, apperrors.Validation("invalid venue ID", nil)
	}

	exhibition := &Exhibition{
		VenueID:     venueID,
		Title:       req.Title,
		Description: req.Description,
		Seated:      req.Seated,
		Active:      true,
	}

	if req.StartsOn != "" {
		startsOn, err := time.Parse("2006-01-02", req.StartsOn)
		if err != nil {
			return nil, apperrors.Validation("invalid starts_on date, expected YYYY-MM-DD", nil)
		}
		exhibition.StartsOn = &startsOn
	}
	if req.EndsOn != "" {
		endsOn, err := time.Parse("2006-01-02", req.EndsOn)
		if err != nil {
			return nil, apperrors.Validation("invalid ends_on date, expected YYYY-MM-DD", nil)
		}
		exhibition.EndsOn = &endsOn
	}

	if err := s.repo.Create(ctx, exhibition); err != nil {
		return nil, apperrors.Internal("failed to create exhibition", err)
	}

	s.invalidateCache(ctx)
	return exhibition, nil
}

func (s *service) GetExhibition(ctx context.Context, id string) (*Exhibition, error) {
	exhibitionID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperrors.Validation("invalid exhibition ID", nil)
	}

	cacheKey := constants.CACHE_KEY_EXHIBITION_DETAIL + id
	if s.cacheService != nil {
		var cached Exhibition
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	exhibition, err := s.repo.GetByID(ctx, exhibitionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("exhibition not found")
		}
		return nil, apperrors.Internal("failed to get exhibition", err)
	}

	if s.cacheService != nil {
		if err := s.cacheService.Set(ctx, cacheKey, exhibition, constants.TTL_STATIC_MEDIUM); err != nil {
			logger.GetDefault().DebugWithContext(ctx, "failed to cache exhibition", map[string]interface{}{"key": cacheKey, "error": err.Error()})
		}
	}

	return exhibition, nil
}

func (s *service) ListExhibitions(ctx context.Context) ([]Exhibition, error) {
	exhibitions, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, apperrors.Internal("failed to list exhibitions", err)
	}
	return exhibitions, nil
}

func (s *service) GetBookableExhibition(ctx context.Context, id uuid.UUID) (*Exhibition, error) {
	exhibition, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("exhibition not found")
		}
		return nil, apperrors.Internal("failed to get exhibition", err)
	}
	if !exhibition.IsBookable() {
		return nil, apperrors.NotFound("exhibition is not open for booking")
	}
	return exhibition, nil
}

func (s *service) invalidateCache(ctx context.Context) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.DeletePattern(ctx, constants.PATTERN_INVALIDATE_EXHIBITION_ALL); err != nil {
		logger.GetDefault().DebugWithContext(ctx, "failed to invalidate exhibition cache", map[string]interface{}{"error": err.Error()})
	}
}
