package seatmap

import (
	"context"
	"fmt"
	"time"

	"venuepass/internal/exhibitions"
	"venuepass/internal/shared/utils/apperrors"
	"venuepass/internal/venues"

	"github.com/google/uuid"
)

// LockReader reads live seat locks. Implemented by the lock manager and
// wired in at router setup to keep the packages decoupled.
type LockReader interface {
	ActiveSeatLocks(ctx context.Context, slotID uuid.UUID, visitDate time.Time) (map[string]time.Time, error)
}

// BookedSeatSource reads durably booked seat labels for a (slot, date).
// Implemented by the bookings repository.
type BookedSeatSource interface {
	BookedSeats(ctx context.Context, slotID uuid.UUID, visitDate time.Time) ([]string, error)
}

type Service interface {
	// GetSeatAvailability expands the venue's seat rows into a full grid and
	// overlays durable bookings and live locks on top.
	GetSeatAvailability(ctx context.Context, exhibitionID uuid.UUID, visitDate time.Time, slotID uuid.UUID) (*SeatMapResponse, error)

	// SeatAvailability is the reduced label -> isAvailable view the lock
	// manager uses to validate create requests.
	SeatAvailability(ctx context.Context, exhibitionID uuid.UUID, visitDate time.Time, slotID uuid.UUID) (map[string]bool, error)

	SetLockReader(locks LockReader)
	SetBookedSeatSource(booked BookedSeatSource)
}

type service struct {
	exhibitionService exhibitions.Service
	venueService      venues.Service
	locks             LockReader
	booked            BookedSeatSource
}

func NewService(exhibitionService exhibitions.Service, venueService venues.Service) Service {
	return &service{
		exhibitionService: exhibitionService,
		venueService:      venueService,
	}
}

func (s *service) SetLockReader(locks LockReader) {
	s.locks = locks
}

func (s *service) SetBookedSeatSource(booked BookedSeatSource) {
	s.booked = booked
}

func (s *service) GetSeatAvailability(ctx context.Context, exhibitionID uuid.UUID, visitDate time.Time, slotID uuid.UUID) (*SeatMapResponse, error) {
	exhibition, err := s.exhibitionService.GetBookableExhibition(ctx, exhibitionID)
	if err != nil {
		return nil, err
	}
	if !exhibition.Seated {
		return nil, apperrors.NotFound("exhibition has no seat map, use slot capacity instead")
	}

	rows, err := s.venueService.GetSeatingPlan(ctx, exhibition.VenueID)
	if err != nil {
		return nil, err
	}

	bookedSet, err := s.bookedLabels(ctx, slotID, visitDate)
	if err != nil {
		return nil, err
	}

	var lockedSet map[string]time.Time
	if s.locks != nil {
		lockedSet, err = s.locks.ActiveSeatLocks(ctx, slotID, visitDate)
		if err != nil {
			return nil, err
		}
	}

	seats := make([]SeatInfo, 0, totalSeatCount(rows))
	available := 0
	for _, row := range rows {
		for n := 1; n <= row.SeatCount; n++ {
			label := fmt.Sprintf("%s%d", row.Name, n)
			seat := SeatInfo{
				Label:    label,
				Row:      row.Name,
				Number:   n,
				Category: row.Category,
				Price:    row.Price,
			}

			if _, isBooked := bookedSet[label]; isBooked {
				seat.Status = StatusBooked
			} else if until, isLocked := lockedSet[label]; isLocked {
				seat.Status = StatusLocked
				u := until
				seat.LockedUntil = &u
			} else {
				seat.Status = StatusAvailable
				seat.IsAvailable = true
				available++
			}

			seats = append(seats, seat)
		}
	}

	return &SeatMapResponse{
		ExhibitionID: exhibitionID.String(),
		TimeSlotID:   slotID.String(),
		VisitDate:    visitDate.Format("2006-01-02"),
		TotalSeats:   len(seats),
		Available:    available,
		Seats:        seats,
	}, nil
}

func (s *service) SeatAvailability(ctx context.Context, exhibitionID uuid.UUID, visitDate time.Time, slotID uuid.UUID) (map[string]bool, error) {
	seatMap, err := s.GetSeatAvailability(ctx, exhibitionID, visitDate, slotID)
	if err != nil {
		return nil, err
	}

	availability := make(map[string]bool, len(seatMap.Seats))
	for _, seat := range seatMap.Seats {
		availability[seat.Label] = seat.IsAvailable
	}
	return availability, nil
}

func (s *service) bookedLabels(ctx context.Context, slotID uuid.UUID, visitDate time.Time) (map[string]struct{}, error) {
	set := make(map[string]struct{})
	if s.booked == nil {
		return set, nil
	}

	labels, err := s.booked.BookedSeats(ctx, slotID, visitDate)
	if err != nil {
		return nil, apperrors.Internal("failed to read booked seats", err)
	}
	for _, label := range labels {
		set[label] = struct{}{}
	}
	return set, nil
}

func totalSeatCount(rows []venues.SeatRow) int {
	total := 0
	for _, row := range rows {
		total += row.SeatCount
	}
	return total
}
