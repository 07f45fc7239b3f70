package memory

import (
	"context"
	"sort"
	"time"

	"courtbook/database"
	"courtbook/models"
)

type reservations struct{ s *Store }

func (r *reservations) Create(ctx context.Context, reservation *models.Reservation) error {
	defer r.s.lock(ctx)()
	if _, ok := r.s.reservations[reservation.ID]; ok {
		return database.ErrDuplicateKey
	}
	if reservation.Active() {
		for _, existing := range r.s.reservations {
			if !existing.Active() {
				continue
			}
			if existing.TimeSlotID == reservation.TimeSlotID {
				return database.ErrDuplicateKey
			}
			if existing.UserID == reservation.UserID && existing.Date == reservation.Date && existing.Start == reservation.Start {
				return database.ErrDuplicateKey
			}
		}
	}
	r.s.reservations[reservation.ID] = *reservation
	return nil
}

func (r *reservations) GetByID(ctx context.Context, id string) (*models.Reservation, error) {
	defer r.s.lock(ctx)()
	reservation, ok := r.s.reservations[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &reservation, nil
}

func (r *reservations) ListByUser(ctx context.Context, userID string) ([]models.Reservation, error) {
	return r.filter(ctx, func(res models.Reservation) bool { return res.UserID == userID })
}

func (r *reservations) ListAll(ctx context.Context) ([]models.Reservation, error) {
	return r.filter(ctx, func(models.Reservation) bool { return true })
}

func (r *reservations) filter(ctx context.Context, keep func(models.Reservation) bool) ([]models.Reservation, error) {
	defer r.s.lock(ctx)()
	out := []models.Reservation{}
	for _, res := range r.s.reservations {
		if keep(res) {
			out = append(out, res)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *reservations) ExistsActiveForSlot(ctx context.Context, slotID string) (bool, error) {
	return r.any(ctx, func(res models.Reservation) bool { return res.TimeSlotID == slotID })
}

func (r *reservations) ExistsActiveAt(ctx context.Context, courtID, date string, start int) (bool, error) {
	return r.any(ctx, func(res models.Reservation) bool {
		return res.CourtID == courtID && res.Date == date && res.Start == start
	})
}

func (r *reservations) ExistsActiveForUserAt(ctx context.Context, userID, date string, start int) (bool, error) {
	return r.any(ctx, func(res models.Reservation) bool {
		return res.UserID == userID && res.Date == date && res.Start == start
	})
}

func (r *reservations) any(ctx context.Context, match func(models.Reservation) bool) (bool, error) {
	defer r.s.lock(ctx)()
	for _, res := range r.s.reservations {
		if res.Active() && match(res) {
			return true, nil
		}
	}
	return false, nil
}

func (r *reservations) CountUpcomingActiveByUser(ctx context.Context, userID, today string, nowMinute int) (int, error) {
	defer r.s.lock(ctx)()
	n := 0
	for _, res := range r.s.reservations {
		if res.UserID == userID && res.Active() && upcoming(res.Date, res.End, today, nowMinute) {
			n++
		}
	}
	return n, nil
}

func (r *reservations) MarkCancelled(ctx context.Context, id, cancelledBy string, at time.Time) (bool, error) {
	defer r.s.lock(ctx)()
	res, ok := r.s.reservations[id]
	if !ok || !res.Active() {
		return false, nil
	}
	res.IsCancelled = true
	res.CancelledAt = &at
	res.CancelledBy = cancelledBy
	r.s.reservations[id] = res
	return true, nil
}

func (r *reservations) Delete(ctx context.Context, id string) error {
	defer r.s.lock(ctx)()
	if _, ok := r.s.reservations[id]; !ok {
		return database.ErrNotFound
	}
	delete(r.s.reservations, id)
	return nil
}

func (r *reservations) LockUser(ctx context.Context, userID string) error {
	defer r.s.lock(ctx)()
	r.s.locks[userID]++
	return nil
}

func (r *reservations) EnsureIndexes(context.Context) error { return nil }
