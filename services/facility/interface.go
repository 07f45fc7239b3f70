package facility

import (
	"context"

	"courtbook/models"
)

// FacilityService manages facility configuration and the courts under it.
type FacilityService interface {
	CreateFacility(ctx context.Context, input models.FacilityInput) (*models.Facility, error)
	UpdateFacility(ctx context.Context, id string, input models.FacilityInput) (*models.Facility, error)
	CreateCourt(ctx context.Context, facilityID string, input models.CourtInput) (*models.Court, error)
	ListFacilities(ctx context.Context) ([]models.FacilityDetail, error)
	GetFacility(ctx context.Context, id string) (*models.FacilityDetail, error)
}

// ListingCache holds the rendered facility listing between writes.
type ListingCache interface {
	Get(ctx context.Context) ([]models.FacilityDetail, bool)
	Set(ctx context.Context, listing []models.FacilityDetail)
	Invalidate(ctx context.Context)
}
