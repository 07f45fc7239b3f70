package booking

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	reservationRepo "courtbook/database/repository/reservation"
	timeslotRepo "courtbook/database/repository/timeslot"
	"courtbook/models"
	"courtbook/utils"
)

// DefaultSlotGenerator persists the slots BuildSlotBoundaries lays out for a
// court, leaving existing slots untouched.
type DefaultSlotGenerator struct {
	Slots        timeslotRepo.TimeSlotRepository
	Reservations reservationRepo.ReservationRepository
	Engine       AvailabilityEngine
	Clock        utils.Clock
	Logger       *zap.Logger
}

func (g *DefaultSlotGenerator) Generate(ctx context.Context, facility models.Facility, court models.Court, date string) ([]models.TimeSlot, error) {
	now := g.Clock.Now()
	if date < now.Format(utils.DateLayout) {
		return []models.TimeSlot{}, nil
	}

	existing, err := g.Slots.GetByCourtAndDate(ctx, court.ID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load slots for court %s on %s: %w", court.ID, date, err)
	}
	have := make(map[int]struct{}, len(existing))
	for _, ts := range existing {
		have[ts.Start] = struct{}{}
	}

	created := 0
	for _, b := range BuildSlotBoundaries(facility.Hours(), date, now) {
		if _, ok := have[b.Start]; ok {
			continue
		}
		startAt, err := utils.At(date, b.Start, now.Location())
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDate, err)
		}
		booked, err := g.Reservations.ExistsActiveAt(ctx, court.ID, date, b.Start)
		if err != nil {
			return nil, fmt.Errorf("failed to check reservations for %s %s@%d: %w", court.ID, date, b.Start, err)
		}

		slot := models.TimeSlot{
			ID:          uuid.New().String(),
			CourtID:     court.ID,
			FacilityID:  facility.ID,
			Date:        date,
			Start:       b.Start,
			End:         b.End,
			IsAvailable: !booked && startAt.After(now),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		inserted, err := g.Slots.Upsert(ctx, slot)
		if err != nil {
			return nil, fmt.Errorf("failed to persist slot %s %s@%d: %w", court.ID, date, b.Start, err)
		}
		if inserted {
			created++
		}
	}

	if created == 0 {
		return existing, nil
	}

	g.logger().Debug("generated slots",
		zap.String("courtID", court.ID),
		zap.String("date", date),
		zap.Int("created", created))
	utils.Count(ctx, utils.SlotsGenerated, int64(created), "")

	if g.Engine != nil {
		if err := g.Engine.RollupCourt(ctx, court.ID); err != nil {
			g.logger().Warn("court rollup after generation failed", zap.String("courtID", court.ID), zap.Error(err))
		}
	}

	slots, err := g.Slots.GetByCourtAndDate(ctx, court.ID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to reload slots for court %s on %s: %w", court.ID, date, err)
	}
	return slots, nil
}

func (g *DefaultSlotGenerator) logger() *zap.Logger {
	if g.Logger == nil {
		return zap.NewNop()
	}
	return g.Logger
}
