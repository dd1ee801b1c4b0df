package locks

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"venuepass/internal/shared/utils/apperrors"
	"venuepass/pkg/logger"

	"github.com/google/uuid"
)

// LayoutService is the slice of the seat layout resolver the lock manager
// needs. Defined locally so locks and seatmap can reference each other
// without an import cycle; wiring happens at router setup.
type LayoutService interface {
	// SeatAvailability returns label -> isAvailable for every seat the venue
	// defines for this (exhibition, date, slot).
	SeatAvailability(ctx context.Context, exhibitionID uuid.UUID, visitDate time.Time, slotID uuid.UUID) (map[string]bool, error)
}

type Service interface {
	CreateSeatLock(ctx context.Context, sessionID string, exhibitionID uuid.UUID, visitDate time.Time, slotID uuid.UUID, seats []string, quantity int) (*SeatLock, error)

	// VerifySeatLock returns the live lock, or nil without error when the
	// lock is absent or expired. Callers treat nil as "lock gone" and
	// restart seat selection.
	VerifySeatLock(ctx context.Context, lockID string) (*SeatLock, error)

	// ReleaseSeatLock is best-effort cleanup. Failures are logged and
	// swallowed; expiry remains the authoritative backstop.
	ReleaseSeatLock(ctx context.Context, lockID string)

	// ActiveSeatLocks exposes live locked seats for availability queries.
	ActiveSeatLocks(ctx context.Context, slotID uuid.UUID, visitDate time.Time) (map[string]time.Time, error)

	SetLayoutService(layout LayoutService)
	PreloadScripts(ctx context.Context) error
}

type service struct {
	repo     Repository
	layout   LayoutService
	ttl      time.Duration
	maxSeats int
}

func NewService(repo Repository, ttl time.Duration, maxSeats int) Service {
	return &service{
		repo:     repo,
		ttl:      ttl,
		maxSeats: maxSeats,
	}
}

func (s *service) SetLayoutService(layout LayoutService) {
	s.layout = layout
}

func (s *service) CreateSeatLock(ctx context.Context, sessionID string, exhibitionID uuid.UUID, visitDate time.Time, slotID uuid.UUID, seats []string, quantity int) (*SeatLock, error) {
	if sessionID == "" {
		return nil, apperrors.Validation("session ID is required", nil)
	}
	if len(seats) == 0 && quantity <= 0 {
		return nil, apperrors.Validation("either seats or a positive quantity is required", nil)
	}
	if len(seats) > 0 && quantity > 0 {
		return nil, apperrors.Validation("seats and quantity are mutually exclusive", nil)
	}
	if len(seats) > s.maxSeats {
		return nil, apperrors.Validation(fmt.Sprintf("cannot lock more than %d seats at once", s.maxSeats), map[string]interface{}{
			"max_seats": s.maxSeats,
		})
	}
	if dup := firstDuplicate(seats); dup != "" {
		return nil, apperrors.Validation("duplicate seat in request", map[string]interface{}{"seat": dup})
	}

	if len(seats) > 0 {
		if s.layout == nil {
			return nil, apperrors.Internal("seat layout service not configured", nil)
		}

		availability, err := s.layout.SeatAvailability(ctx, exhibitionID, visitDate, slotID)
		if err != nil {
			return nil, err
		}

		var unknown, unavailable []string
		for _, label := range seats {
			avail, exists := availability[label]
			switch {
			case !exists:
				unknown = append(unknown, label)
			case !avail:
				unavailable = append(unavailable, label)
			}
		}
		if len(unknown) > 0 {
			sort.Strings(unknown)
			return nil, apperrors.Validation("unknown seats for this venue", map[string]interface{}{
				"seats": unknown,
			})
		}
		if len(unavailable) > 0 {
			sort.Strings(unavailable)
			logger.GetDefault().LogLockConflict(ctx, sessionID, slotID.String(), unavailable)
			return nil, apperrors.Conflict("seats unavailable", map[string]interface{}{
				"seats": unavailable,
			})
		}
	}

	now := time.Now()
	lock := &SeatLock{
		LockID:       uuid.NewString(),
		SessionID:    sessionID,
		ExhibitionID: exhibitionID,
		TimeSlotID:   slotID,
		VisitDate:    visitDate,
		Seats:        seats,
		Quantity:     quantity,
		CreatedAt:    now,
		ExpiresAt:    now.Add(s.ttl),
	}

	if err := s.repo.AcquireLock(ctx, lock, s.ttl); err != nil {
		var taken *ErrSeatTaken
		if errors.As(err, &taken) {
			// Lost the race between the availability check and the acquire.
			logger.GetDefault().LogLockConflict(ctx, sessionID, slotID.String(), []string{taken.Seat})
			return nil, apperrors.Conflict("seats unavailable", map[string]interface{}{
				"seats": []string{taken.Seat},
			})
		}
		return nil, apperrors.Conflict("lock creation failed", map[string]interface{}{
			"reason": "storage error, please retry",
		})
	}

	logger.GetDefault().LogLockCreated(ctx, lock.LockID, sessionID, slotID.String(), lock.TicketCount())
	return lock, nil
}

func (s *service) VerifySeatLock(ctx context.Context, lockID string) (*SeatLock, error) {
	lock, err := s.repo.GetLock(ctx, lockID)
	if err != nil {
		if errors.Is(err, ErrLockNotFound) {
			return nil, nil
		}
		return nil, apperrors.Internal("failed to verify lock", err)
	}
	if lock.IsExpired() {
		return nil, nil
	}
	return lock, nil
}

func (s *service) ReleaseSeatLock(ctx context.Context, lockID string) {
	released, err := s.repo.ReleaseLock(ctx, lockID)
	if err != nil {
		if !errors.Is(err, ErrLockNotFound) {
			logger.GetDefault().ErrorWithContext(ctx, "lock release failed", err, map[string]interface{}{
				"lock_id": lockID,
			})
		}
		return
	}
	logger.GetDefault().LogLockReleased(ctx, lockID, released)
}

func (s *service) ActiveSeatLocks(ctx context.Context, slotID uuid.UUID, visitDate time.Time) (map[string]time.Time, error) {
	locked, err := s.repo.ActiveSeatLocks(ctx, slotID, visitDate)
	if err != nil {
		return nil, apperrors.Internal("failed to read active locks", err)
	}
	return locked, nil
}

func (s *service) PreloadScripts(ctx context.Context) error {
	return s.repo.PreloadScripts(ctx)
}

func firstDuplicate(labels []string) string {
	seen := make(map[string]struct{}, len(labels))
	for _, label := range labels {
		if _, ok := seen[label]; ok {
			return label
		}
		seen[label] = struct{}{}
	}
	return ""
}
