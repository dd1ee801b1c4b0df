package locks

import (
	"context"
	"sync"
	"testing"
	"time"

	"venuepass/internal/shared/utils/apperrors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLockStore reproduces the acquire script's all-or-nothing semantics in
// memory: the whole check-and-set runs under one mutex, exactly as the Lua
// script runs atomically inside Redis.
type fakeLockStore struct {
	mu        sync.Mutex
	locks     map[string]*SeatLock
	seatOwner map[string]string // seat key -> lock id
}

func newFakeLockStore() *fakeLockStore {
	return &fakeLockStore{
		locks:     make(map[string]*SeatLock),
		seatOwner: make(map[string]string),
	}
}

func seatKey(slotID uuid.UUID, date time.Time, label string) string {
	return slotID.String() + ":" + date.Format("2006-01-02") + ":" + label
}

func (f *fakeLockStore) AcquireLock(ctx context.Context, lock *SeatLock, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, label := range lock.Seats {
		if _, held := f.seatOwner[seatKey(lock.TimeSlotID, lock.VisitDate, label)]; held {
			return &ErrSeatTaken{Seat: label}
		}
	}

	copied := *lock
	f.locks[lock.LockID] = &copied
	for _, label := range lock.Seats {
		f.seatOwner[seatKey(lock.TimeSlotID, lock.VisitDate, label)] = lock.LockID
	}
	return nil
}

func (f *fakeLockStore) GetLock(ctx context.Context, lockID string) (*SeatLock, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	lock, ok := f.locks[lockID]
	if !ok {
		return nil, ErrLockNotFound
	}
	copied := *lock
	return &copied, nil
}

func (f *fakeLockStore) ReleaseLock(ctx context.Context, lockID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	lock, ok := f.locks[lockID]
	if !ok {
		return 0, ErrLockNotFound
	}
	for _, label := range lock.Seats {
		delete(f.seatOwner, seatKey(lock.TimeSlotID, lock.VisitDate, label))
	}
	delete(f.locks, lockID)
	return len(lock.Seats), nil
}

func (f *fakeLockStore) ActiveSeatLocks(ctx context.Context, slotID uuid.UUID, date time.Time) (map[string]time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	locked := make(map[string]time.Time)
	now := time.Now()
	for _, lock := range f.locks {
		if lock.TimeSlotID != slotID || !lock.ExpiresAt.After(now) {
			continue
		}
		for _, label := range lock.Seats {
			locked[label] = lock.ExpiresAt
		}
	}
	return locked, nil
}

func (f *fakeLockStore) SessionLocks(ctx context.Context, sessionID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var ids []string
	for id, lock := range f.locks {
		if lock.SessionID == sessionID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *fakeLockStore) PreloadScripts(ctx context.Context) error { return nil }

// fixedLayout reports a static label -> isAvailable map.
type fixedLayout struct {
	availability map[string]bool
}

func (l *fixedLayout) SeatAvailability(ctx context.Context, exhibitionID uuid.UUID, visitDate time.Time, slotID uuid.UUID) (map[string]bool, error) {
	return l.availability, nil
}

func newLockService(store Repository, availability map[string]bool) Service {
	svc := NewService(store, 10*time.Minute, 10)
	svc.SetLayoutService(&fixedLayout{availability: availability})
	return svc
}

func TestCreateSeatLock(t *testing.T) {
	exhibitionID := uuid.New()
	slotID := uuid.New()
	visitDate := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("locks requested seats with ten minute expiry", func(t *testing.T) {
		svc := newLockService(newFakeLockStore(), map[string]bool{"A1": true, "A2": true})

		before := time.Now()
		lock, err := svc.CreateSeatLock(context.Background(), "session-1", exhibitionID, visitDate, slotID, []string{"A1", "A2"}, 0)

		require.NoError(t, err)
		assert.Equal(t, []string{"A1", "A2"}, lock.Seats)
		assert.Equal(t, "session-1", lock.SessionID)
		assert.Equal(t, 2, lock.TicketCount())
		assert.WithinDuration(t, before.Add(10*time.Minute), lock.ExpiresAt, 2*time.Second)
	})

	t.Run("unavailable seats conflict and are named", func(t *testing.T) {
		svc := newLockService(newFakeLockStore(), map[string]bool{"A1": true, "A2": false, "A3": false})

		_, err := svc.CreateSeatLock(context.Background(), "session-1", exhibitionID, visitDate, slotID, []string{"A1", "A2", "A3"}, 0)

		require.Error(t, err)
		require.True(t, apperrors.IsKind(err, apperrors.KindConflict))
		appErr := apperrors.From(err)
		details, ok := appErr.Details.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, []string{"A2", "A3"}, details["seats"])
	})

	t.Run("unknown seat is a validation error", func(t *testing.T) {
		svc := newLockService(newFakeLockStore(), map[string]bool{"A1": true})

		_, err := svc.CreateSeatLock(context.Background(), "session-1", exhibitionID, visitDate, slotID, []string{"Z99"}, 0)

		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	})

	t.Run("rejects more seats than the per-lock cap", func(t *testing.T) {
		availability := make(map[string]bool)
		var seats []string
		for _, label := range []string{"A1", "A2", "A3", "A4", "A5", "A6", "A7", "A8", "A9", "A10", "A11"} {
			availability[label] = true
			seats = append(seats, label)
		}
		svc := newLockService(newFakeLockStore(), availability)

		_, err := svc.CreateSeatLock(context.Background(), "session-1", exhibitionID, visitDate, slotID, seats, 0)

		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	})

	t.Run("rejects duplicate seats", func(t *testing.T) {
		svc := newLockService(newFakeLockStore(), map[string]bool{"A1": true})

		_, err := svc.CreateSeatLock(context.Background(), "session-1", exhibitionID, visitDate, slotID, []string{"A1", "A1"}, 0)

		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	})

	t.Run("quantity hold skips the seat layout", func(t *testing.T) {
		svc := NewService(newFakeLockStore(), 10*time.Minute, 10)

		lock, err := svc.CreateSeatLock(context.Background(), "session-1", exhibitionID, visitDate, slotID, nil, 4)

		require.NoError(t, err)
		assert.Empty(t, lock.Seats)
		assert.Equal(t, 4, lock.TicketCount())
	})

	t.Run("seats and quantity together are rejected", func(t *testing.T) {
		svc := newLockService(newFakeLockStore(), map[string]bool{"A1": true})

		_, err := svc.CreateSeatLock(context.Background(), "session-1", exhibitionID, visitDate, slotID, []string{"A1"}, 2)

		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	})
}

// Two sessions race for seat A1: the store admits exactly one, the loser gets
// a conflict naming the seat.
func TestCreateSeatLockConcurrentExclusivity(t *testing.T) {
	exhibitionID := uuid.New()
	slotID := uuid.New()
	visitDate := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	svc := newLockService(newFakeLockStore(), map[string]bool{"A1": true})

	type outcome struct {
		lock *SeatLock
		err  error
	}
	results := make(chan outcome, 2)

	var wg sync.WaitGroup
	for _, session := range []string{"session-a", "session-b"} {
		wg.Add(1)
		go func(session string) {
			defer wg.Done()
			lock, err := svc.CreateSeatLock(context.Background(), session, exhibitionID, visitDate, slotID, []string{"A1"}, 0)
			results <- outcome{lock: lock, err: err}
		}(session)
	}
	wg.Wait()
	close(results)

	winners, losers := 0, 0
	for res := range results {
		if res.err == nil {
			winners++
			assert.Equal(t, []string{"A1"}, res.lock.Seats)
			continue
		}
		losers++
		require.True(t, apperrors.IsKind(res.err, apperrors.KindConflict))
		details, ok := apperrors.From(res.err).Details.(map[string]interface{})
		require.True(t, ok)
		assert.Contains(t, details["seats"], "A1")
	}

	assert.Equal(t, 1, winners)
	assert.Equal(t, 1, losers)
}

func TestVerifySeatLock(t *testing.T) {
	exhibitionID := uuid.New()
	slotID := uuid.New()
	visitDate := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("returns the live lock unchanged", func(t *testing.T) {
		svc := newLockService(newFakeLockStore(), map[string]bool{"B2": true})
		created, err := svc.CreateSeatLock(context.Background(), "session-1", exhibitionID, visitDate, slotID, []string{"B2"}, 0)
		require.NoError(t, err)

		verified, err := svc.VerifySeatLock(context.Background(), created.LockID)

		require.NoError(t, err)
		require.NotNil(t, verified)
		assert.Equal(t, created.LockID, verified.LockID)
		assert.Equal(t, []string{"B2"}, verified.Seats)
	})

	t.Run("missing lock verifies to nil", func(t *testing.T) {
		svc := newLockService(newFakeLockStore(), nil)

		lock, err := svc.VerifySeatLock(context.Background(), uuid.NewString())

		require.NoError(t, err)
		assert.Nil(t, lock)
	})

	t.Run("expired lock verifies to nil regardless of creation time", func(t *testing.T) {
		store := newFakeLockStore()
		svc := newLockService(store, nil)

		expired := &SeatLock{
			LockID:       uuid.NewString(),
			SessionID:    "session-1",
			ExhibitionID: exhibitionID,
			TimeSlotID:   slotID,
			VisitDate:    visitDate,
			Seats:        []string{"B2"},
			CreatedAt:    time.Now().Add(-11 * time.Minute),
			ExpiresAt:    time.Now().Add(-time.Minute),
		}
		require.NoError(t, store.AcquireLock(context.Background(), expired, time.Minute))

		lock, err := svc.VerifySeatLock(context.Background(), expired.LockID)

		require.NoError(t, err)
		assert.Nil(t, lock)
	})
}

func TestReleaseSeatLock(t *testing.T) {
	exhibitionID := uuid.New()
	slotID := uuid.New()
	visitDate := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("released seats become lockable again", func(t *testing.T) {
		svc := newLockService(newFakeLockStore(), map[string]bool{"C3": true})

		first, err := svc.CreateSeatLock(context.Background(), "session-1", exhibitionID, visitDate, slotID, []string{"C3"}, 0)
		require.NoError(t, err)

		svc.ReleaseSeatLock(context.Background(), first.LockID)

		second, err := svc.CreateSeatLock(context.Background(), "session-2", exhibitionID, visitDate, slotID, []string{"C3"}, 0)
		require.NoError(t, err)
		assert.NotEqual(t, first.LockID, second.LockID)
	})

	t.Run("releasing an unknown lock is silent", func(t *testing.T) {
		svc := newLockService(newFakeLockStore(), nil)

		svc.ReleaseSeatLock(context.Background(), uuid.NewString())
	})
}

func TestActiveSeatLocks(t *testing.T) {
	exhibitionID := uuid.New()
	slotID := uuid.New()
	visitDate := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	svc := newLockService(newFakeLockStore(), map[string]bool{"A1": true, "A2": true})

	lock, err := svc.CreateSeatLock(context.Background(), "session-1", exhibitionID, visitDate, slotID, []string{"A1", "A2"}, 0)
	require.NoError(t, err)

	locked, err := svc.ActiveSeatLocks(context.Background(), slotID, visitDate)

	require.NoError(t, err)
	require.Len(t, locked, 2)
	assert.Equal(t, lock.ExpiresAt.Unix(), locked["A1"].Unix())
	assert.Equal(t, lock.ExpiresAt.Unix(), locked["A2"].Unix())
}
