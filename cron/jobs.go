package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	facilityRepo "courtbook/database/repository/facility"
	timeslotRepo "courtbook/database/repository/timeslot"
	"courtbook/services/booking"
	"courtbook/utils"
)

// Jobs holds the periodic maintenance work. Each method is safe to run
// concurrently with live traffic.
type Jobs struct {
	Facilities facilityRepo.FacilityRepository
	Slots      timeslotRepo.TimeSlotRepository
	Generator  booking.SlotGenerator
	Engine     booking.AvailabilityEngine
	Clock      utils.Clock
	Logger     *zap.Logger
}

// PregenerateSlots materializes the slots of every court for today and the
// following days-1 dates. It returns how many slots exist across that window.
func (j *Jobs) PregenerateSlots(ctx context.Context, days int) (int, error) {
	if days <= 0 {
		days = 1
	}
	facilities, err := j.Facilities.ListFacilities(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list facilities: %w", err)
	}

	now := j.Clock.Now()
	total := 0
	for _, facility := range facilities {
		courts, err := j.Facilities.ListCourtsByFacility(ctx, facility.ID)
		if err != nil {
			return total, fmt.Errorf("failed to list courts of %s: %w", facility.ID, err)
		}
		for _, court := range courts {
			for d := 0; d < days; d++ {
				date := now.AddDate(0, 0, d).Format(utils.DateLayout)
				slots, err := j.Generator.Generate(ctx, facility, court, date)
				if err != nil {
					return total, fmt.Errorf("failed to generate %s on %s: %w", court.ID, date, err)
				}
				total += len(slots)
			}
		}
	}
	j.logger().Info("slots pregenerated", zap.Int("days", days), zap.Int("slots", total))
	return total, nil
}

// PruneElapsedSlots deletes slots that have ended. Reservations keep their
// denormalized copy of the slot.
func (j *Jobs) PruneElapsedSlots(ctx context.Context) (int64, error) {
	now := j.Clock.Now()
	n, err := j.Slots.DeleteElapsed(ctx, now.Format(utils.DateLayout), utils.WholeMinuteOfDay(now))
	if err != nil {
		return 0, fmt.Errorf("failed to prune slots: %w", err)
	}
	j.logger().Info("elapsed slots pruned", zap.Int64("deleted", n))
	return n, nil
}

// RefreshAvailability flips today's slots that have ended since they were
// last written and recomputes every court rollup.
func (j *Jobs) RefreshAvailability(ctx context.Context) (int, error) {
	today := j.Clock.Now().Format(utils.DateLayout)
	slots, err := j.Slots.ListByDate(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("failed to list today's slots: %w", err)
	}

	before := make(map[string]bool, len(slots))
	for _, s := range slots {
		before[s.ID] = s.IsAvailable
	}
	refreshed, err := j.Engine.Normalize(ctx, slots)
	if err != nil {
		return 0, fmt.Errorf("failed to normalize slots: %w", err)
	}
	changed := 0
	for _, s := range refreshed {
		if before[s.ID] != s.IsAvailable {
			changed++
		}
	}

	courts, err := j.Facilities.ListCourts(ctx)
	if err != nil {
		return changed, fmt.Errorf("failed to list courts: %w", err)
	}
	for _, court := range courts {
		if err := j.Engine.RollupCourt(ctx, court.ID); err != nil {
			j.logger().Warn("court rollup failed", zap.String("courtID", court.ID), zap.Error(err))
		}
	}
	j.logger().Info("availability refreshed", zap.Int("changed", changed), zap.Int("courts", len(courts)))
	return changed, nil
}

func (j *Jobs) logger() *zap.Logger {
	if j.Logger == nil {
		return utils.GetLogger()
	}
	return j.Logger
}

// runWithTimeout bounds one job run.
func runWithTimeout(ctx context.Context, d time.Duration, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()
	return fn(ctx)
}
