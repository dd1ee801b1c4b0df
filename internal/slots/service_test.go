package slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"venuepass/internal/pricing"
	"venuepass/internal/shared/config"
	"venuepass/internal/shared/utils/apperrors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeRepository struct {
	slots  []TimeSlot
	rows   map[string]*SlotAvailability
	booked map[string]int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		rows:   make(map[string]*SlotAvailability),
		booked: make(map[string]int),
	}
}

func availabilityKey(slotID uuid.UUID, date time.Time) string {
	return slotID.String() + ":" + date.Format("2006-01-02")
}

func (f *fakeRepository) CreateSlot(ctx context.Context, slot *TimeSlot) error {
	if slot.ID == uuid.Nil {
		slot.ID = uuid.New()
	}
	f.slots = append(f.slots, *slot)
	return nil
}

func (f *fakeRepository) GetSlotByID(ctx context.Context, id uuid.UUID) (*TimeSlot, error) {
	for i := range f.slots {
		if f.slots[i].ID == id {
			slot := f.slots[i]
			return &slot, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) GetDateSpecificSlots(ctx context.Context, exhibitionID uuid.UUID, start, end time.Time) ([]TimeSlot, error) {
	var out []TimeSlot
	for _, slot := range f.slots {
		if slot.SlotDate == nil || slot.SlotDate.Before(start) || slot.SlotDate.After(end) {
			continue
		}
		out = append(out, slot)
	}
	return out, nil
}

func (f *fakeRepository) GetSlotsForDate(ctx context.Context, exhibitionID uuid.UUID, date time.Time) ([]TimeSlot, error) {
	return f.slots, nil
}

func (f *fakeRepository) GetAvailabilityRow(ctx context.Context, slotID uuid.UUID, date time.Time) (*SlotAvailability, error) {
	row, ok := f.rows[availabilityKey(slotID, date)]
	if !ok {
		return nil, nil
	}
	copied := *row
	return &copied, nil
}

func (f *fakeRepository) GetBookedCountsByDate(ctx context.Context, exhibitionID uuid.UUID, start, end time.Time) (map[string]int, error) {
	return f.booked, nil
}

type fakePricing struct {
	prices []pricing.TicketPricing
	err    error
}

func (f *fakePricing) ResolveSlotPricing(ctx context.Context, exhibitionID uuid.UUID, date time.Time, slotID uuid.UUID) ([]pricing.TicketPricing, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.prices, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Booking: config.BookingConfig{AvailabilityWindowDays: 90},
	}
}

func dailySlot(capacity int, start, end string) TimeSlot {
	return TimeSlot{ID: uuid.New(), Capacity: capacity, StartTime: start, EndTime: end, Active: true}
}

func weeklySlot(capacity int, weekday int) TimeSlot {
	return TimeSlot{ID: uuid.New(), Capacity: capacity, DayOfWeek: &weekday, StartTime: "10:00", EndTime: "12:00", Active: true}
}

func datedSlot(capacity int, date time.Time) TimeSlot {
	return TimeSlot{ID: uuid.New(), Capacity: capacity, SlotDate: &date, StartTime: "18:00", EndTime: "20:00", Active: true}
}

func TestGetTimeSlots(t *testing.T) {
	exhibitionID := uuid.New()
	saturday := time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC) // a Saturday
	sunday := saturday.AddDate(0, 0, 1)

	t.Run("date-specific slots suppress recurring ones", func(t *testing.T) {
		repo := newFakeRepository()
		daily := dailySlot(60, "10:00", "11:30")
		weekly := weeklySlot(200, int(time.Saturday))
		evening := datedSlot(80, saturday)
		repo.slots = []TimeSlot{daily, weekly, evening}

		svc := NewService(repo, testConfig())

		result, err := svc.GetTimeSlots(context.Background(), exhibitionID, saturday)

		require.NoError(t, err)
		require.Len(t, result, 1)
		assert.Equal(t, evening.ID.String(), result[0].ID)
		assert.Equal(t, 80, result[0].TotalCapacity)
	})

	t.Run("recurring slots serve dates without an override", func(t *testing.T) {
		repo := newFakeRepository()
		daily := dailySlot(60, "10:00", "11:30")
		weekly := weeklySlot(200, int(time.Saturday))
		evening := datedSlot(80, saturday)
		repo.slots = []TimeSlot{daily, weekly, evening}

		svc := NewService(repo, testConfig())

		result, err := svc.GetTimeSlots(context.Background(), exhibitionID, sunday)

		require.NoError(t, err)
		require.Len(t, result, 1)
		assert.Equal(t, daily.ID.String(), result[0].ID)
	})

	t.Run("weekly slot matches only its weekday", func(t *testing.T) {
		repo := newFakeRepository()
		weekly := weeklySlot(200, int(time.Saturday))
		repo.slots = []TimeSlot{weekly}

		svc := NewService(repo, testConfig())

		onSaturday, err := svc.GetTimeSlots(context.Background(), exhibitionID, saturday)
		require.NoError(t, err)
		assert.Len(t, onSaturday, 1)

		onSunday, err := svc.GetTimeSlots(context.Background(), exhibitionID, sunday)
		require.NoError(t, err)
		assert.Empty(t, onSunday)
	})

	t.Run("ledger row overrides nominal capacity for its date", func(t *testing.T) {
		repo := newFakeRepository()
		daily := dailySlot(60, "10:00", "11:30")
		repo.slots = []TimeSlot{daily}
		repo.rows[availabilityKey(daily.ID, saturday)] = &SlotAvailability{
			TimeSlotID:        daily.ID,
			VisitDate:         saturday,
			AvailableCapacity: 40,
			BookedCount:       35,
		}

		svc := NewService(repo, testConfig())

		withRow, err := svc.GetTimeSlots(context.Background(), exhibitionID, saturday)
		require.NoError(t, err)
		require.Len(t, withRow, 1)
		assert.Equal(t, 40, withRow[0].TotalCapacity)
		assert.Equal(t, 35, withRow[0].BookedCount)
		assert.Equal(t, 5, withRow[0].AvailableCapacity)
		assert.False(t, withRow[0].IsFull)

		withoutRow, err := svc.GetTimeSlots(context.Background(), exhibitionID, sunday)
		require.NoError(t, err)
		require.Len(t, withoutRow, 1)
		assert.Equal(t, 60, withoutRow[0].TotalCapacity)
		assert.Equal(t, 0, withoutRow[0].BookedCount)
		assert.Equal(t, 60, withoutRow[0].AvailableCapacity)
	})

	t.Run("a sold out slot reports full with zero remaining", func(t *testing.T) {
		repo := newFakeRepository()
		daily := dailySlot(60, "10:00", "11:30")
		repo.slots = []TimeSlot{daily}
		repo.rows[availabilityKey(daily.ID, saturday)] = &SlotAvailability{
			TimeSlotID:        daily.ID,
			VisitDate:         saturday,
			AvailableCapacity: 60,
			BookedCount:       60,
		}

		svc := NewService(repo, testConfig())

		result, err := svc.GetTimeSlots(context.Background(), exhibitionID, saturday)

		require.NoError(t, err)
		require.Len(t, result, 1)
		assert.True(t, result[0].IsFull)
		assert.Equal(t, 0, result[0].AvailableCapacity)
	})

	t.Run("pricing attaches resolved lines", func(t *testing.T) {
		repo := newFakeRepository()
		repo.slots = []TimeSlot{dailySlot(60, "10:00", "11:30")}

		svc := NewService(repo, testConfig())
		svc.SetPricingService(&fakePricing{prices: []pricing.TicketPricing{
			{TicketType: "ADULT", Price: 18},
			{TicketType: "CHILD", Price: 8},
		}})

		result, err := svc.GetTimeSlots(context.Background(), exhibitionID, saturday)

		require.NoError(t, err)
		require.Len(t, result, 1)
		require.Len(t, result[0].Pricing, 2)
		assert.Equal(t, "ADULT", result[0].Pricing[0].TicketType)
	})

	t.Run("pricing failure degrades to empty instead of failing availability", func(t *testing.T) {
		repo := newFakeRepository()
		repo.slots = []TimeSlot{dailySlot(60, "10:00", "11:30")}

		svc := NewService(repo, testConfig())
		svc.SetPricingService(&fakePricing{err: errors.New("pricing store down")})

		result, err := svc.GetTimeSlots(context.Background(), exhibitionID, saturday)

		require.NoError(t, err)
		require.Len(t, result, 1)
		assert.Empty(t, result[0].Pricing)
		assert.NotNil(t, result[0].Pricing)
	})
}

func TestGetAvailableDates(t *testing.T) {
	exhibitionID := uuid.New()
	first := time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC)
	second := first.AddDate(0, 0, 3)

	t.Run("aggregates dated capacity per date in order", func(t *testing.T) {
		repo := newFakeRepository()
		repo.slots = []TimeSlot{
			datedSlot(80, second),
			datedSlot(80, first),
			datedSlot(40, first),
			dailySlot(60, "10:00", "11:30"), // recurring, not part of the dated aggregate
		}
		repo.booked = map[string]int{
			first.Format("2006-01-02"):  120,
			second.Format("2006-01-02"): 10,
		}

		svc := NewService(repo, testConfig())

		start, end := first, second
		result, err := svc.GetAvailableDates(context.Background(), exhibitionID, &start, &end)

		require.NoError(t, err)
		require.Len(t, result, 2)

		assert.Equal(t, first.Format("2006-01-02"), result[0].Date)
		assert.Equal(t, 120, result[0].Capacity)
		assert.Equal(t, 120, result[0].BookedCount)
		assert.True(t, result[0].IsFull)

		assert.Equal(t, second.Format("2006-01-02"), result[1].Date)
		assert.Equal(t, 80, result[1].Capacity)
		assert.Equal(t, 10, result[1].BookedCount)
		assert.False(t, result[1].IsFull)
	})

	t.Run("dates without dated slots are omitted", func(t *testing.T) {
		repo := newFakeRepository()
		repo.slots = []TimeSlot{datedSlot(80, first)}

		svc := NewService(repo, testConfig())

		start, end := first, second
		result, err := svc.GetAvailableDates(context.Background(), exhibitionID, &start, &end)

		require.NoError(t, err)
		require.Len(t, result, 1)
		assert.Equal(t, first.Format("2006-01-02"), result[0].Date)
	})

	t.Run("inverted range is rejected", func(t *testing.T) {
		svc := NewService(newFakeRepository(), testConfig())

		start, end := second, first
		_, err := svc.GetAvailableDates(context.Background(), exhibitionID, &start, &end)

		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	})
}

func TestGetSlot(t *testing.T) {
	repo := newFakeRepository()
	slot := dailySlot(60, "10:00", "11:30")
	repo.slots = []TimeSlot{slot}

	svc := NewService(repo, testConfig())

	t.Run("returns the slot by ID", func(t *testing.T) {
		got, err := svc.GetSlot(context.Background(), slot.ID)
		require.NoError(t, err)
		assert.Equal(t, slot.ID, got.ID)
	})

	t.Run("unknown ID is not found", func(t *testing.T) {
		_, err := svc.GetSlot(context.Background(), uuid.New())
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
	})
}

func TestCreateTimeSlot(t *testing.T) {
	t.Run("rejects a slot that is both dated and recurring", func(t *testing.T) {
		svc := NewService(newFakeRepository(), testConfig())
		dow := int(time.Monday)

		_, err := svc.CreateTimeSlot(context.Background(), CreateTimeSlotRequest{
			Capacity:  60,
			StartTime: "10:00",
			EndTime:   "11:30",
			SlotDate:  "2025-06-07",
			DayOfWeek: &dow,
		})

		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	})

	t.Run("rejects an out of range weekday", func(t *testing.T) {
		svc := NewService(newFakeRepository(), testConfig())
		dow := 7

		_, err := svc.CreateTimeSlot(context.Background(), CreateTimeSlotRequest{
			Capacity:  60,
			StartTime: "10:00",
			EndTime:   "11:30",
			DayOfWeek: &dow,
		})

		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	})

	t.Run("creates a dated slot with the date parsed", func(t *testing.T) {
		repo := newFakeRepository()
		svc := NewService(repo, testConfig())

		slot, err := svc.CreateTimeSlot(context.Background(), CreateTimeSlotRequest{
			Capacity:  80,
			StartTime: "18:00",
			EndTime:   "20:00",
			SlotDate:  "2025-06-07",
		})

		require.NoError(t, err)
		require.NotNil(t, slot.SlotDate)
		assert.Equal(t, ScheduleDateSpecific, slot.Schedule().Kind)
		assert.True(t, slot.Active)
	})
}

func TestScheduleMatching(t *testing.T) {
	saturday := time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		slot    TimeSlot
		date    time.Time
		matches bool
	}{
		{name: "daily matches any date", slot: dailySlot(60, "10:00", "11:30"), date: saturday, matches: true},
		{name: "weekly matches its weekday", slot: weeklySlot(200, int(time.Saturday)), date: saturday, matches: true},
		{name: "weekly misses other weekdays", slot: weeklySlot(200, int(time.Saturday)), date: saturday.AddDate(0, 0, 2), matches: false},
		{name: "dated matches its date", slot: datedSlot(80, saturday), date: saturday, matches: true},
		{name: "dated misses other dates", slot: datedSlot(80, saturday), date: saturday.AddDate(0, 0, 1), matches: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.matches, tt.slot.Schedule().Matches(tt.date))
		})
	}
}
