// File: database/repository/facility/interface.go
package facilityRepo

import (
	"context"

	"courtbook/database"
	"courtbook/models"

	"go.mongodb.org/mongo-driver/mongo"
)

type FacilityRepository interface {
	CreateFacility(ctx context.Context, facility *models.Facility) error
	UpdateFacility(ctx context.Context, facility *models.Facility) error
	GetFacilityByID(ctx context.Context, id string) (*models.Facility, error)
	ListFacilities(ctx context.Context) ([]models.Facility, error)

	CreateCourt(ctx context.Context, court *models.Court) error
	GetCourtByID(ctx context.Context, id string) (*models.Court, error)
	ListCourts(ctx context.Context) ([]models.Court, error)
	ListCourtsByFacility(ctx context.Context, facilityID string) ([]models.Court, error)
	// SetCourtAvailability stores the rollup flag and reports whether it changed.
	SetCourtAvailability(ctx context.Context, courtID string, available bool) (bool, error)

	EnsureIndexes(ctx context.Context) error
}

type mongoFacilityRepo struct {
	facilities *mongo.Collection
	courts     *mongo.Collection
}

// NewMongoFacilityRepo constructs a new MongoDB FacilityRepository.
func NewMongoFacilityRepo() FacilityRepository {
	db := database.DB()
	return &mongoFacilityRepo{
		facilities: db.Collection("facilities"),
		courts:     db.Collection("courts"),
	}
}
