package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"courtbook/database"
	facilityRepo "courtbook/database/repository/facility"
	"courtbook/models"
	"courtbook/utils"
)

// DefaultBookingService answers slot listings and forwards reservation
// operations to the manager.
type DefaultBookingService struct {
	Facilities facilityRepo.FacilityRepository
	Generator  SlotGenerator
	Engine     AvailabilityEngine
	ReservationManager
	Clock utils.Clock
}

// ListSlots returns the court's bookable-or-booked slots on date, generating
// them on first access. Past dates are empty and today's list starts at the
// first slot that has not begun.
func (s *DefaultBookingService) ListSlots(ctx context.Context, courtID, date string) ([]models.TimeSlot, error) {
	now := s.Clock.Now()
	if _, err := time.ParseInLocation(utils.DateLayout, date, now.Location()); err != nil {
		return nil, ErrInvalidDate
	}

	court, err := s.Facilities.GetCourtByID(ctx, courtID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrCourtNotFound
		}
		return nil, err
	}
	facility, err := s.Facilities.GetFacilityByID(ctx, court.FacilityID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrFacilityNotFound
		}
		return nil, err
	}

	today := now.Format(utils.DateLayout)
	if date < today {
		return []models.TimeSlot{}, nil
	}

	slots, err := s.Generator.Generate(ctx, *facility, *court, date)
	if err != nil {
		return nil, fmt.Errorf("failed to generate slots: %w", err)
	}
	slots, err = s.Engine.Normalize(ctx, slots)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize slots: %w", err)
	}

	if date != today {
		return slots, nil
	}
	nowMin := utils.MinuteOfDay(now)
	upcoming := make([]models.TimeSlot, 0, len(slots))
	for _, ts := range slots {
		if ts.Start >= nowMin {
			upcoming = append(upcoming, ts)
		}
	}
	return upcoming, nil
}
