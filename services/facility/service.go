package facility

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"courtbook/database"
	facilityRepo "courtbook/database/repository/facility"
	"courtbook/models"
	"courtbook/services/booking"
	"courtbook/utils"
)

var validate = validator.New()

// DefaultFacilityService implements FacilityService. Cache is optional.
type DefaultFacilityService struct {
	Repo   facilityRepo.FacilityRepository
	Cache  ListingCache
	Clock  utils.Clock
	Logger *zap.Logger
}

func (s *DefaultFacilityService) CreateFacility(ctx context.Context, input models.FacilityInput) (*models.Facility, error) {
	opening, closing, err := parseHours(input)
	if err != nil {
		return nil, err
	}
	now := s.Clock.Now()
	facility := &models.Facility{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(input.Name),
		Description:  input.Description,
		FacilityType: input.FacilityType,
		OpeningTime:  opening,
		ClosingTime:  closing,
		SlotDuration: input.SlotDurationMinutes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Repo.CreateFacility(ctx, facility); err != nil {
		return nil, fmt.Errorf("failed to create facility: %w", err)
	}
	s.invalidate(ctx)
	s.logger().Info("facility created", zap.String("facilityID", facility.ID), zap.String("name", facility.Name))
	return facility, nil
}

// UpdateFacility replaces a facility's configuration. Slots already generated
// keep their boundaries; new hours apply to dates generated afterwards.
func (s *DefaultFacilityService) UpdateFacility(ctx context.Context, id string, input models.FacilityInput) (*models.Facility, error) {
	opening, closing, err := parseHours(input)
	if err != nil {
		return nil, err
	}
	facility, err := s.Repo.GetFacilityByID(ctx, id)
	if err != nil {
		return nil, notFound(err, booking.ErrFacilityNotFound)
	}
	facility.Name = strings.TrimSpace(input.Name)
	facility.Description = input.Description
	facility.FacilityType = input.FacilityType
	facility.OpeningTime = opening
	facility.ClosingTime = closing
	facility.SlotDuration = input.SlotDurationMinutes
	facility.UpdatedAt = s.Clock.Now()

	if err := s.Repo.UpdateFacility(ctx, facility); err != nil {
		return nil, notFound(err, booking.ErrFacilityNotFound)
	}
	s.invalidate(ctx)
	s.logger().Info("facility updated", zap.String("facilityID", facility.ID))
	return facility, nil
}

func (s *DefaultFacilityService) CreateCourt(ctx context.Context, facilityID string, input models.CourtInput) (*models.Court, error) {
	if err := validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %s", booking.ErrInvalidFacility, describe(err))
	}
	if _, err := s.Repo.GetFacilityByID(ctx, facilityID); err != nil {
		return nil, notFound(err, booking.ErrFacilityNotFound)
	}
	court := &models.Court{
		ID:          uuid.New().String(),
		FacilityID:  facilityID,
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		UpdatedAt:   s.Clock.Now(),
	}
	if err := s.Repo.CreateCourt(ctx, court); err != nil {
		return nil, fmt.Errorf("failed to create court: %w", err)
	}
	s.invalidate(ctx)
	s.logger().Info("court created", zap.String("courtID", court.ID), zap.String("facilityID", facilityID))
	return court, nil
}

func (s *DefaultFacilityService) ListFacilities(ctx context.Context) ([]models.FacilityDetail, error) {
	if s.Cache != nil {
		if listing, ok := s.Cache.Get(ctx); ok {
			return listing, nil
		}
	}

	facilities, err := s.Repo.ListFacilities(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list facilities: %w", err)
	}
	courts, err := s.Repo.ListCourts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list courts: %w", err)
	}
	byFacility := make(map[string][]models.Court)
	for _, c := range courts {
		byFacility[c.FacilityID] = append(byFacility[c.FacilityID], c)
	}

	listing := make([]models.FacilityDetail, 0, len(facilities))
	for _, f := range facilities {
		fc := byFacility[f.ID]
		if fc == nil {
			fc = []models.Court{}
		}
		listing = append(listing, models.FacilityDetail{Facility: f, Courts: fc})
	}

	if s.Cache != nil {
		s.Cache.Set(ctx, listing)
	}
	return listing, nil
}

func (s *DefaultFacilityService) GetFacility(ctx context.Context, id string) (*models.FacilityDetail, error) {
	facility, err := s.Repo.GetFacilityByID(ctx, id)
	if err != nil {
		return nil, notFound(err, booking.ErrFacilityNotFound)
	}
	courts, err := s.Repo.ListCourtsByFacility(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list courts: %w", err)
	}
	return &models.FacilityDetail{Facility: *facility, Courts: courts}, nil
}

func (s *DefaultFacilityService) invalidate(ctx context.Context) {
	if s.Cache != nil {
		s.Cache.Invalidate(ctx)
	}
}

func (s *DefaultFacilityService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// parseHours validates input and converts its "HH:MM" hours to minutes.
func parseHours(input models.FacilityInput) (int, int, error) {
	if err := validate.Struct(input); err != nil {
		return 0, 0, fmt.Errorf("%w: %s", booking.ErrInvalidFacility, describe(err))
	}
	opening, err := utils.ParseClock(input.OpeningTime)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: openingTime: %v", booking.ErrInvalidFacilityHours, err)
	}
	closing, err := utils.ParseClock(input.ClosingTime)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: closingTime: %v", booking.ErrInvalidFacilityHours, err)
	}
	if opening >= closing {
		return 0, 0, fmt.Errorf("%w: openingTime must be before closingTime", booking.ErrInvalidFacilityHours)
	}
	if input.SlotDurationMinutes > closing-opening {
		return 0, 0, fmt.Errorf("%w: slotDurationMinutes exceeds the opening window", booking.ErrInvalidFacilityHours)
	}
	return opening, closing, nil
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, ", ")
}

func notFound(err, sentinel error) error {
	if errors.Is(err, database.ErrNotFound) {
		return sentinel
	}
	return err
}
