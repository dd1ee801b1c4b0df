package pricing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	GetActiveDynamicPrices(ctx context.Context, exhibitionID uuid.UUID, date time.Time, slotID uuid.UUID) ([]DynamicPrice, error)
	GetActiveTiers(ctx context.Context, exhibitionID uuid.UUID) ([]PricingTier, error)
	CreateTier(ctx context.Context, tier *PricingTier) error
	UpsertDynamicPrice(ctx context.Context, price *DynamicPrice) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetActiveDynamicPrices(ctx context.Context, exhibitionID uuid.UUID, date time.Time, slotID uuid.UUID) ([]DynamicPrice, error) {
	var prices []DynamicPrice
	err := r.db.WithContext(ctx).
		Where("exhibition_id = ? AND visit_date = ? AND time_slot_id = ? AND is_active = ?",
			exhibitionID, date.Format("2006-01-02"), slotID, true).
		Order("ticket_type ASC").
		Find(&prices).Error
	return prices, err
}

func (r *repository) GetActiveTiers(ctx context.Context, exhibitionID uuid.UUID) ([]PricingTier, error) {
	var tiers []PricingTier
	err := r.db.WithContext(ctx).
		Where("exhibition_id = ? AND active = ? AND valid_from <= ?", exhibitionID, true, time.Now().UTC()).
		Order("ticket_type ASC").
		Find(&tiers).Error
	return tiers, err
}

func (r *repository) CreateTier(ctx context.Context, tier *PricingTier) error {
	return r.db.WithContext(ctx).Create(tier).Error
}

func (r *repository) UpsertDynamicPrice(ctx context.Context, price *DynamicPrice) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "exhibition_id"}, {Name: "visit_date"}, {Name: "time_slot_id"}, {Name: "ticket_type"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"price", "label", "is_active", "updated_at"}),
		}).
		Create(price).Error
}
