package pricing

import (
	"context"
	"errors"
	"testing"
	"time"

	"venuepass/internal/shared/utils/apperrors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepository struct {
	overrides    []DynamicPrice
	overridesErr error
	tiers        []PricingTier
	tiersErr     error

	createdTiers []PricingTier
	upserted     []DynamicPrice
}

func (f *fakeRepository) GetActiveDynamicPrices(ctx context.Context, exhibitionID uuid.UUID, date time.Time, slotID uuid.UUID) ([]DynamicPrice, error) {
	if f.overridesErr != nil {
		return nil, f.overridesErr
	}
	return f.overrides, nil
}

func (f *fakeRepository) GetActiveTiers(ctx context.Context, exhibitionID uuid.UUID) ([]PricingTier, error) {
	if f.tiersErr != nil {
		return nil, f.tiersErr
	}
	return f.tiers, nil
}

func (f *fakeRepository) CreateTier(ctx context.Context, tier *PricingTier) error {
	f.createdTiers = append(f.createdTiers, *tier)
	return nil
}

func (f *fakeRepository) UpsertDynamicPrice(ctx context.Context, price *DynamicPrice) error {
	f.upserted = append(f.upserted, *price)
	return nil
}

func defaultTiers() []PricingTier {
	return []PricingTier{
		{TicketType: "ADULT", Price: 18, Label: "Adult"},
		{TicketType: "CHILD", Price: 8, Label: "Child"},
		{TicketType: "SENIOR", Price: 12, Label: "Senior"},
	}
}

func TestResolveSlotPricing(t *testing.T) {
	exhibitionID := uuid.New()
	slotID := uuid.New()
	visitDate := time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC)

	t.Run("default tiers when no overrides exist", func(t *testing.T) {
		svc := NewService(&fakeRepository{tiers: defaultTiers()})

		result, err := svc.ResolveSlotPricing(context.Background(), exhibitionID, visitDate, slotID)

		require.NoError(t, err)
		require.Len(t, result, 3)
		assert.Equal(t, TicketPricing{TicketType: "ADULT", Price: 18, Label: "Adult"}, result[0])
	})

	t.Run("overrides replace the tier set entirely", func(t *testing.T) {
		svc := NewService(&fakeRepository{
			tiers: defaultTiers(),
			overrides: []DynamicPrice{
				{TicketType: "ADULT", Price: 28, Label: "Evening adult"},
			},
		})

		result, err := svc.ResolveSlotPricing(context.Background(), exhibitionID, visitDate, slotID)

		require.NoError(t, err)
		require.Len(t, result, 1)
		assert.Equal(t, 28.0, result[0].Price)
		assert.Equal(t, "Evening adult", result[0].Label)
	})

	t.Run("no pricing rows at all means empty, not free", func(t *testing.T) {
		svc := NewService(&fakeRepository{})

		result, err := svc.ResolveSlotPricing(context.Background(), exhibitionID, visitDate, slotID)

		require.NoError(t, err)
		assert.Empty(t, result)
		assert.NotNil(t, result)
	})

	t.Run("failed override lookup falls back to default tiers", func(t *testing.T) {
		svc := NewService(&fakeRepository{
			overridesErr: errors.New("connection refused"),
			tiers:        defaultTiers(),
		})

		result, err := svc.ResolveSlotPricing(context.Background(), exhibitionID, visitDate, slotID)

		require.NoError(t, err)
		assert.Len(t, result, 3)
	})

	t.Run("failed tier lookup degrades to empty", func(t *testing.T) {
		svc := NewService(&fakeRepository{
			tiersErr: errors.New("connection refused"),
		})

		result, err := svc.ResolveSlotPricing(context.Background(), exhibitionID, visitDate, slotID)

		require.NoError(t, err)
		assert.Empty(t, result)
		assert.NotNil(t, result)
	})
}

func TestCreateTier(t *testing.T) {
	t.Run("persists an active tier", func(t *testing.T) {
		repo := &fakeRepository{}
		svc := NewService(repo)

		tier, err := svc.CreateTier(context.Background(), CreateTierRequest{
			ExhibitionID: uuid.NewString(),
			TicketType:   "ADULT",
			Label:        "Adult",
			Price:        18,
		})

		require.NoError(t, err)
		assert.True(t, tier.Active)
		assert.Len(t, repo.createdTiers, 1)
	})

	t.Run("rejects a malformed exhibition ID", func(t *testing.T) {
		svc := NewService(&fakeRepository{})

		_, err := svc.CreateTier(context.Background(), CreateTierRequest{
			ExhibitionID: "not-a-uuid",
			TicketType:   "ADULT",
			Price:        18,
		})

		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	})
}

func TestSetDynamicPrice(t *testing.T) {
	repo := &fakeRepository{}
	svc := NewService(repo)

	price, err := svc.SetDynamicPrice(context.Background(), SetDynamicPriceRequest{
		ExhibitionID: uuid.NewString(),
		TimeSlotID:   uuid.NewString(),
		VisitDate:    "2025-06-07",
		TicketType:   "ADULT",
		Label:        "Evening adult",
		Price:        28,
		IsActive:     true,
	})

	require.NoError(t, err)
	assert.Equal(t, "2025-06-07", price.VisitDate.Format("2006-01-02"))
	assert.Len(t, repo.upserted, 1)

	_, err = svc.SetDynamicPrice(context.Background(), SetDynamicPriceRequest{
		ExhibitionID: uuid.NewString(),
		TimeSlotID:   uuid.NewString(),
		VisitDate:    "07/06/2025",
		TicketType:   "ADULT",
		Price:        28,
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}
