package memory

import (
	"context"
	"sort"
	"time"

	"courtbook/database"
	"courtbook/models"
)

type facilities struct{ s *Store }

func (r *facilities) CreateFacility(ctx context.Context, facility *models.Facility) error {
	defer r.s.lock(ctx)()
	if _, ok := r.s.facilities[facility.ID]; ok {
		return database.ErrDuplicateKey
	}
	r.s.facilities[facility.ID] = *facility
	return nil
}

func (r *facilities) UpdateFacility(ctx context.Context, facility *models.Facility) error {
	defer r.s.lock(ctx)()
	existing, ok := r.s.facilities[facility.ID]
	if !ok {
		return database.ErrNotFound
	}
	facility.CreatedAt = existing.CreatedAt
	r.s.facilities[facility.ID] = *facility
	return nil
}

func (r *facilities) GetFacilityByID(ctx context.Context, id string) (*models.Facility, error) {
	defer r.s.lock(ctx)()
	facility, ok := r.s.facilities[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &facility, nil
}

func (r *facilities) ListFacilities(ctx context.Context) ([]models.Facility, error) {
	defer r.s.lock(ctx)()
	out := make([]models.Facility, 0, len(r.s.facilities))
	for _, f := range r.s.facilities {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *facilities) CreateCourt(ctx context.Context, court *models.Court) error {
	defer r.s.lock(ctx)()
	if _, ok := r.s.courts[court.ID]; ok {
		return database.ErrDuplicateKey
	}
	r.s.courts[court.ID] = *court
	return nil
}

func (r *facilities) GetCourtByID(ctx context.Context, id string) (*models.Court, error) {
	defer r.s.lock(ctx)()
	court, ok := r.s.courts[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &court, nil
}

func (r *facilities) ListCourts(ctx context.Context) ([]models.Court, error) {
	return r.listCourts(ctx, func(models.Court) bool { return true })
}

func (r *facilities) ListCourtsByFacility(ctx context.Context, facilityID string) ([]models.Court, error) {
	return r.listCourts(ctx, func(c models.Court) bool { return c.FacilityID == facilityID })
}

func (r *facilities) listCourts(ctx context.Context, keep func(models.Court) bool) ([]models.Court, error) {
	defer r.s.lock(ctx)()
	out := []models.Court{}
	for _, c := range r.s.courts {
		if keep(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *facilities) SetCourtAvailability(ctx context.Context, courtID string, available bool) (bool, error) {
	defer r.s.lock(ctx)()
	court, ok := r.s.courts[courtID]
	if !ok || court.IsAvailable == available {
		return false, nil
	}
	court.IsAvailable = available
	court.UpdatedAt = time.Now()
	r.s.courts[courtID] = court
	return true, nil
}

func (r *facilities) EnsureIndexes(context.Context) error { return nil }
