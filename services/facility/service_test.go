package facility

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courtbook/database/repository/memory"
	"courtbook/models"
	"courtbook/services/booking"
	"courtbook/utils"
)

type mapCache struct {
	mu          sync.Mutex
	listing     []models.FacilityDetail
	ok          bool
	invalidated int
}

func (c *mapCache) Get(context.Context) ([]models.FacilityDetail, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.listing, c.ok
}

func (c *mapCache) Set(_ context.Context, listing []models.FacilityDetail) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listing, c.ok = listing, true
}

func (c *mapCache) Invalidate(context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listing, c.ok = nil, false
	c.invalidated++
}

func newService() (*DefaultFacilityService, *mapCache) {
	cache := &mapCache{}
	return &DefaultFacilityService{
		Repo:  memory.New().Facilities(),
		Cache: cache,
		Clock: utils.NewManualClock(time.Date(2030, 1, 10, 7, 0, 0, 0, time.UTC)),
	}, cache
}

func validInput() models.FacilityInput {
	return models.FacilityInput{
		Name:                "Riverside",
		FacilityType:        "Tennis Court",
		OpeningTime:         "08:00",
		ClosingTime:         "20:00",
		SlotDurationMinutes: 60,
	}
}

func TestCreateFacility_ParsesHours(t *testing.T) {
	svc, _ := newService()
	f, err := svc.CreateFacility(context.Background(), validInput())
	require.NoError(t, err)
	assert.NotEmpty(t, f.ID)
	assert.Equal(t, 480, f.OpeningTime)
	assert.Equal(t, 1200, f.ClosingTime)
	assert.Equal(t, 60, f.SlotDuration)
}

func TestCreateFacility_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(in *models.FacilityInput)
		wantErr error
	}{
		{name: "missing name", mutate: func(in *models.FacilityInput) { in.Name = "" }, wantErr: booking.ErrInvalidFacility},
		{name: "zero duration", mutate: func(in *models.FacilityInput) { in.SlotDurationMinutes = 0 }, wantErr: booking.ErrInvalidFacility},
		{name: "malformed opening", mutate: func(in *models.FacilityInput) { in.OpeningTime = "8am" }, wantErr: booking.ErrInvalidFacilityHours},
		{name: "closing before opening", mutate: func(in *models.FacilityInput) { in.ClosingTime = "07:00" }, wantErr: booking.ErrInvalidFacilityHours},
		{name: "equal hours", mutate: func(in *models.FacilityInput) { in.ClosingTime = "08:00" }, wantErr: booking.ErrInvalidFacilityHours},
		{name: "duration over window", mutate: func(in *models.FacilityInput) { in.SlotDurationMinutes = 721 }, wantErr: booking.ErrInvalidFacilityHours},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newService()
			in := validInput()
			tt.mutate(&in)
			_, err := svc.CreateFacility(context.Background(), in)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, booking.IsValidation(err))
		})
	}
}

func TestCreateFacility_WholeWindowSlot(t *testing.T) {
	svc, _ := newService()
	in := validInput()
	in.SlotDurationMinutes = 720
	_, err := svc.CreateFacility(context.Background(), in)
	assert.NoError(t, err)
}

func TestUpdateFacility(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	f, err := svc.CreateFacility(ctx, validInput())
	require.NoError(t, err)

	in := validInput()
	in.OpeningTime = "06:30"
	in.SlotDurationMinutes = 30
	updated, err := svc.UpdateFacility(ctx, f.ID, in)
	require.NoError(t, err)
	assert.Equal(t, 390, updated.OpeningTime)
	assert.Equal(t, 30, updated.SlotDuration)

	_, err = svc.UpdateFacility(ctx, "missing", validInput())
	assert.ErrorIs(t, err, booking.ErrFacilityNotFound)
}

func TestCreateCourtAndGetFacility(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	f, err := svc.CreateFacility(ctx, validInput())
	require.NoError(t, err)

	court, err := svc.CreateCourt(ctx, f.ID, models.CourtInput{Name: "Court 1"})
	require.NoError(t, err)
	assert.Equal(t, f.ID, court.FacilityID)

	_, err = svc.CreateCourt(ctx, "missing", models.CourtInput{Name: "Court 1"})
	assert.ErrorIs(t, err, booking.ErrFacilityNotFound)

	_, err = svc.CreateCourt(ctx, f.ID, models.CourtInput{})
	assert.ErrorIs(t, err, booking.ErrInvalidFacility)

	detail, err := svc.GetFacility(ctx, f.ID)
	require.NoError(t, err)
	require.Len(t, detail.Courts, 1)
	assert.Equal(t, court.ID, detail.Courts[0].ID)

	_, err = svc.GetFacility(ctx, "missing")
	assert.True(t, booking.IsNotFound(err))
}

func TestListFacilities_UsesCacheUntilWrite(t *testing.T) {
	svc, cache := newService()
	ctx := context.Background()
	f, err := svc.CreateFacility(ctx, validInput())
	require.NoError(t, err)

	listing, err := svc.ListFacilities(ctx)
	require.NoError(t, err)
	require.Len(t, listing, 1)
	assert.Empty(t, listing[0].Courts)
	_, cached := cache.Get(ctx)
	assert.True(t, cached)

	_, err = svc.CreateCourt(ctx, f.ID, models.CourtInput{Name: "Court 1"})
	require.NoError(t, err)
	_, cached = cache.Get(ctx)
	assert.False(t, cached)

	listing, err = svc.ListFacilities(ctx)
	require.NoError(t, err)
	require.Len(t, listing[0].Courts, 1)
	assert.Equal(t, 2, cache.invalidated)
}
