package exhibitions

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, exhibition *Exhibition) error
	GetByID(ctx context.Context, id uuid.UUID) (*Exhibition, error)
	ListActive(ctx context.Context) ([]Exhibition, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, exhibition *Exhibition) error {
	return r.db.WithContext(ctx).Create(exhibition).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Exhibition, error) {
	var exhibition Exhibition
	err := r.db.WithContext(ctx).First(&exhibition, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &exhibition, nil
}

func (r *repository) ListActive(ctx context.Context) ([]Exhibition, error) {
	var exhibitions []Exhibition
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("title ASC").
		Find(&exhibitions).Error
	return exhibitions, err
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&Exhibition{}).Where("id = ?", id).Updates(updates).Error
}
