package booking

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"courtbook/database"
	reservationRepo "courtbook/database/repository/reservation"
	timeslotRepo "courtbook/database/repository/timeslot"
	"courtbook/models"
	"courtbook/utils"
)

const defaultMaxActive = 2

// DefaultReservationManager books and releases slots. Every check and write of
// one operation runs in a single transaction; conflicting transactions are
// retried under Retry.
type DefaultReservationManager struct {
	Slots        timeslotRepo.TimeSlotRepository
	Reservations reservationRepo.ReservationRepository
	Tx           database.TxRunner
	Engine       AvailabilityEngine
	Clock        utils.Clock
	Retry        RetryPolicy
	MaxActive    int
	Logger       *zap.Logger
}

func (m *DefaultReservationManager) Create(ctx context.Context, actor models.Actor, slotID string) (*models.Reservation, error) {
	if actor.UserID == "" {
		return nil, ErrForbidden
	}

	var (
		reservation models.Reservation
		slot        models.TimeSlot
	)
	err := m.Retry.run(ctx, func() error {
		return m.Tx.WithTransaction(ctx, func(txCtx context.Context) error {
			now := m.Clock.Now()
			today, nowMin := now.Format(utils.DateLayout), utils.WholeMinuteOfDay(now)

			current, err := m.Slots.GetByID(txCtx, slotID)
			if err != nil {
				if errors.Is(err, database.ErrNotFound) {
					return ErrSlotNotFound
				}
				return err
			}
			if !current.IsAvailable || elapsed(*current, now) {
				return ErrSlotUnavailable
			}

			active, err := m.Reservations.CountUpcomingActiveByUser(txCtx, actor.UserID, today, nowMin)
			if err != nil {
				return err
			}
			if active >= m.maxActive() {
				return ErrCapacityExceeded
			}

			clash, err := m.Reservations.ExistsActiveForUserAt(txCtx, actor.UserID, current.Date, current.Start)
			if err != nil {
				return err
			}
			if clash {
				return ErrDuplicateTimeConflict
			}

			claimed, err := m.Slots.SetAvailability(txCtx, current.ID, true, false)
			if err != nil {
				return err
			}
			if !claimed {
				return ErrSlotUnavailable
			}
			if err := m.Reservations.LockUser(txCtx, actor.UserID); err != nil {
				return err
			}

			reservation = models.Reservation{
				ID:         uuid.New().String(),
				UserID:     actor.UserID,
				TimeSlotID: current.ID,
				CourtID:    current.CourtID,
				FacilityID: current.FacilityID,
				Date:       current.Date,
				Start:      current.Start,
				End:        current.End,
				CreatedAt:  now,
			}
			if err := m.Reservations.Create(txCtx, &reservation); err != nil {
				if errors.Is(err, database.ErrDuplicateKey) {
					return ErrSlotUnavailable
				}
				return err
			}

			slot = *current
			slot.IsAvailable = false
			return nil
		})
	})
	if err != nil {
		utils.Count(ctx, utils.ReservationsRejected, 1, rejectReason(err))
		return nil, err
	}

	m.logger().Info("reservation created",
		zap.String("reservationID", reservation.ID),
		zap.String("userID", reservation.UserID),
		zap.String("slotID", reservation.TimeSlotID))
	utils.Count(ctx, utils.ReservationsCreated, 1, "")

	if m.Engine != nil {
		m.Engine.Propagate(ctx, slot)
	}
	return &reservation, nil
}

func (m *DefaultReservationManager) Cancel(ctx context.Context, actor models.Actor, reservationID string) (*models.Reservation, error) {
	var (
		reservation models.Reservation
		cancelled   bool
	)
	err := m.Retry.run(ctx, func() error {
		cancelled = false
		return m.Tx.WithTransaction(ctx, func(txCtx context.Context) error {
			current, err := m.load(txCtx, actor, reservationID)
			if err != nil {
				return err
			}
			reservation = *current
			if reservation.IsCancelled {
				return nil
			}

			at := m.Clock.Now()
			ok, err := m.Reservations.MarkCancelled(txCtx, reservation.ID, actor.UserID, at)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			if err := m.Reservations.LockUser(txCtx, reservation.UserID); err != nil {
				return err
			}
			reservation.IsCancelled = true
			reservation.CancelledAt = &at
			reservation.CancelledBy = actor.UserID
			cancelled = true
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	if cancelled {
		m.logger().Info("reservation cancelled",
			zap.String("reservationID", reservation.ID),
			zap.String("cancelledBy", actor.UserID))
		utils.Count(ctx, utils.ReservationsCancelled, 1, "cancel")
		m.release(ctx, reservation.TimeSlotID)
	}
	return &reservation, nil
}

func (m *DefaultReservationManager) Delete(ctx context.Context, actor models.Actor, reservationID string) error {
	if !actor.Staff {
		return ErrForbidden
	}

	var reservation models.Reservation
	err := m.Retry.run(ctx, func() error {
		return m.Tx.WithTransaction(ctx, func(txCtx context.Context) error {
			current, err := m.load(txCtx, actor, reservationID)
			if err != nil {
				return err
			}
			if err := m.Reservations.Delete(txCtx, current.ID); err != nil {
				if errors.Is(err, database.ErrNotFound) {
					return ErrReservationNotFound
				}
				return err
			}
			if err := m.Reservations.LockUser(txCtx, current.UserID); err != nil {
				return err
			}
			reservation = *current
			return nil
		})
	})
	if err != nil {
		return err
	}

	m.logger().Info("reservation deleted",
		zap.String("reservationID", reservation.ID),
		zap.String("deletedBy", actor.UserID))
	if reservation.Active() {
		utils.Count(ctx, utils.ReservationsCancelled, 1, "delete")
		m.release(ctx, reservation.TimeSlotID)
	}
	return nil
}

func (m *DefaultReservationManager) Get(ctx context.Context, actor models.Actor, reservationID string) (*models.Reservation, error) {
	return m.load(ctx, actor, reservationID)
}

func (m *DefaultReservationManager) ListForActor(ctx context.Context, actor models.Actor) ([]models.Reservation, error) {
	if actor.Staff {
		return m.Reservations.ListAll(ctx)
	}
	if actor.UserID == "" {
		return nil, ErrForbidden
	}
	return m.Reservations.ListByUser(ctx, actor.UserID)
}

func (m *DefaultReservationManager) load(ctx context.Context, actor models.Actor, reservationID string) (*models.Reservation, error) {
	reservation, err := m.Reservations.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	if !actor.CanActOn(reservation.UserID) {
		return nil, ErrForbidden
	}
	return reservation, nil
}

// release recomputes a slot after its reservation ended. The reservation
// change is already committed, so failures are only logged.
func (m *DefaultReservationManager) release(ctx context.Context, slotID string) {
	if m.Engine == nil {
		return
	}
	if _, _, err := m.Engine.Recompute(ctx, slotID); err != nil && !errors.Is(err, ErrSlotNotFound) {
		m.logger().Warn("slot recompute after release failed", zap.String("slotID", slotID), zap.Error(err))
	}
}

func (m *DefaultReservationManager) maxActive() int {
	if m.MaxActive <= 0 {
		return defaultMaxActive
	}
	return m.MaxActive
}

func (m *DefaultReservationManager) logger() *zap.Logger {
	if m.Logger == nil {
		return zap.NewNop()
	}
	return m.Logger
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, ErrSlotNotFound):
		return "slot_not_found"
	case errors.Is(err, ErrSlotUnavailable):
		return "slot_unavailable"
	case errors.Is(err, ErrCapacityExceeded):
		return "capacity"
	case errors.Is(err, ErrDuplicateTimeConflict):
		return "duplicate_time"
	case errors.Is(err, ErrStoreUnavailable):
		return "store_unavailable"
	default:
		return "error"
	}
}
