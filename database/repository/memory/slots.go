package memory

import (
	"context"
	"sort"
	"time"

	"courtbook/database"
	"courtbook/models"
)

type slots struct{ s *Store }

func (r *slots) Upsert(ctx context.Context, slot models.TimeSlot) (bool, error) {
	defer r.s.lock(ctx)()
	for _, existing := range r.s.slots {
		if existing.CourtID == slot.CourtID && existing.Date == slot.Date && existing.Start == slot.Start {
			return false, nil
		}
	}
	if _, ok := r.s.slots[slot.ID]; ok {
		return false, database.ErrDuplicateKey
	}
	r.s.slots[slot.ID] = slot
	return true, nil
}

func (r *slots) GetByID(ctx context.Context, id string) (*models.TimeSlot, error) {
	defer r.s.lock(ctx)()
	slot, ok := r.s.slots[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &slot, nil
}

func (r *slots) GetByCourtAndDate(ctx context.Context, courtID, date string) ([]models.TimeSlot, error) {
	return r.filter(ctx, func(ts models.TimeSlot) bool { return ts.CourtID == courtID && ts.Date == date })
}

func (r *slots) ListByDate(ctx context.Context, date string) ([]models.TimeSlot, error) {
	return r.filter(ctx, func(ts models.TimeSlot) bool { return ts.Date == date })
}

func (r *slots) filter(ctx context.Context, keep func(models.TimeSlot) bool) ([]models.TimeSlot, error) {
	defer r.s.lock(ctx)()
	out := []models.TimeSlot{}
	for _, ts := range r.s.slots {
		if keep(ts) {
			out = append(out, ts)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CourtID != out[j].CourtID {
			return out[i].CourtID < out[j].CourtID
		}
		return out[i].Start < out[j].Start
	})
	return out, nil
}

func (r *slots) SetAvailability(ctx context.Context, id string, from, to bool) (bool, error) {
	defer r.s.lock(ctx)()
	slot, ok := r.s.slots[id]
	if !ok || slot.IsAvailable != from {
		return false, nil
	}
	slot.IsAvailable = to
	slot.UpdatedAt = time.Now()
	r.s.slots[id] = slot
	return true, nil
}

func (r *slots) HasUpcomingAvailable(ctx context.Context, courtID, today string, nowMinute int) (bool, error) {
	defer r.s.lock(ctx)()
	for _, ts := range r.s.slots {
		if ts.CourtID == courtID && ts.IsAvailable && upcoming(ts.Date, ts.End, today, nowMinute) {
			return true, nil
		}
	}
	return false, nil
}

func (r *slots) DeleteElapsed(ctx context.Context, today string, nowMinute int) (int64, error) {
	defer r.s.lock(ctx)()
	var n int64
	for id, ts := range r.s.slots {
		if !upcoming(ts.Date, ts.End, today, nowMinute) {
			delete(r.s.slots, id)
			n++
		}
	}
	return n, nil
}

func (r *slots) EnsureIndexes(context.Context) error { return nil }
