package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"courtbook/database"
	facilityRepo "courtbook/database/repository/facility"
	reservationRepo "courtbook/database/repository/reservation"
	timeslotRepo "courtbook/database/repository/timeslot"
	"courtbook/models"
	"courtbook/utils"
)

// DefaultAvailabilityEngine derives slot availability as "not ended and not
// reserved" and keeps each court's rollup flag in step with its slots.
type DefaultAvailabilityEngine struct {
	Slots        timeslotRepo.TimeSlotRepository
	Reservations reservationRepo.ReservationRepository
	Courts       facilityRepo.FacilityRepository
	Tx           database.TxRunner
	Publisher    SlotPublisher
	Clock        utils.Clock
	Retry        RetryPolicy
	Logger       *zap.Logger
}

func (e *DefaultAvailabilityEngine) Recompute(ctx context.Context, slotID string) (*models.TimeSlot, bool, error) {
	var (
		slot    models.TimeSlot
		changed bool
	)
	err := e.Retry.run(ctx, func() error {
		changed = false
		return e.Tx.WithTransaction(ctx, func(txCtx context.Context) error {
			current, err := e.Slots.GetByID(txCtx, slotID)
			if err != nil {
				if errors.Is(err, database.ErrNotFound) {
					return ErrSlotNotFound
				}
				return err
			}
			reserved, err := e.Reservations.ExistsActiveForSlot(txCtx, slotID)
			if err != nil {
				return err
			}

			slot = *current
			desired := !reserved && !elapsed(slot, e.Clock.Now())
			if slot.IsAvailable == desired {
				return nil
			}
			ok, err := e.Slots.SetAvailability(txCtx, slotID, slot.IsAvailable, desired)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: slot %s changed during recompute", database.ErrTransient, slotID)
			}
			slot.IsAvailable = desired
			changed = true
			return nil
		})
	})
	if err != nil {
		return nil, false, err
	}

	if changed {
		e.logger().Debug("slot availability changed",
			zap.String("slotID", slot.ID),
			zap.Bool("isAvailable", slot.IsAvailable))
		e.Propagate(ctx, slot)
	}
	return &slot, changed, nil
}

func (e *DefaultAvailabilityEngine) Propagate(ctx context.Context, slot models.TimeSlot) {
	if err := e.RollupCourt(ctx, slot.CourtID); err != nil {
		e.logger().Warn("court rollup failed", zap.String("courtID", slot.CourtID), zap.Error(err))
	}
	if e.Publisher != nil {
		e.Publisher.PublishSlotUpdate(slot)
	}
}

func (e *DefaultAvailabilityEngine) RollupCourt(ctx context.Context, courtID string) error {
	now := e.Clock.Now()
	available, err := e.Slots.HasUpcomingAvailable(ctx, courtID, now.Format(utils.DateLayout), utils.WholeMinuteOfDay(now))
	if err != nil {
		return fmt.Errorf("failed to scan slots of court %s: %w", courtID, err)
	}
	changed, err := e.Courts.SetCourtAvailability(ctx, courtID, available)
	if err != nil {
		return fmt.Errorf("failed to store availability of court %s: %w", courtID, err)
	}
	if changed {
		e.logger().Debug("court availability changed", zap.String("courtID", courtID), zap.Bool("isAvailable", available))
	}
	return nil
}

func (e *DefaultAvailabilityEngine) Normalize(ctx context.Context, slots []models.TimeSlot) ([]models.TimeSlot, error) {
	now := e.Clock.Now()
	out := make([]models.TimeSlot, 0, len(slots))
	for _, ts := range slots {
		stale, err := e.isStale(ctx, ts, now)
		if err != nil {
			return nil, err
		}
		if !stale {
			out = append(out, ts)
			continue
		}
		updated, _, err := e.Recompute(ctx, ts.ID)
		if err != nil {
			if errors.Is(err, ErrSlotNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, *updated)
	}
	return out, nil
}

// isStale checks a stored flag without writing. Only unavailable slots that
// have not ended need a reservation lookup.
func (e *DefaultAvailabilityEngine) isStale(ctx context.Context, ts models.TimeSlot, now time.Time) (bool, error) {
	if elapsed(ts, now) {
		return ts.IsAvailable, nil
	}
	if ts.IsAvailable {
		return false, nil
	}
	reserved, err := e.Reservations.ExistsActiveForSlot(ctx, ts.ID)
	if err != nil {
		return false, err
	}
	return !reserved, nil
}

func (e *DefaultAvailabilityEngine) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}
