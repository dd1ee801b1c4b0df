package venues

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	CreateVenue(ctx context.Context, venue *Venue) error
	GetVenueByID(ctx context.Context, id uuid.UUID) (*Venue, error)
	GetSeatRows(ctx context.Context, venueID uuid.UUID) ([]SeatRow, error)
	ListVenues(ctx context.Context) ([]Venue, error)
	DeleteVenue(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateVenue(ctx context.Context, venue *Venue) error {
	return r.db.WithContext(ctx).Create(venue).Error
}

func (r *repository) GetVenueByID(ctx context.Context, id uuid.UUID) (*Venue, error) {
	var venue Venue
	err := r.db.WithContext(ctx).
		Preload("Rows", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&venue, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &venue, nil
}

func (r *repository) GetSeatRows(ctx context.Context, venueID uuid.UUID) ([]SeatRow, error) {
	var rows []SeatRow
	err := r.db.WithContext(ctx).
		Where("venue_id = ?", venueID).
		Order("position ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) ListVenues(ctx context.Context) ([]Venue, error) {
	var venues []Venue
	err := r.db.WithContext(ctx).Order("name ASC").Find(&venues).Error
	return venues, err
}

func (r *repository) DeleteVenue(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&Venue{}, "id = ?", id).Error
}
