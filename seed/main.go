// Command seed populates demo facilities and courts, lays out their slots for
// the coming week and books a share of them for demo users.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"time"

	"courtbook/config"
	"courtbook/cron"
	"courtbook/database"
	facilityRepo "courtbook/database/repository/facility"
	"courtbook/database/repository/memory"
	reservationRepo "courtbook/database/repository/reservation"
	timeslotRepo "courtbook/database/repository/timeslot"
	"courtbook/models"
	"courtbook/services/booking"
	"courtbook/services/facility"
	"courtbook/utils"

	"go.uber.org/zap"
)

var demoFacilities = []models.FacilityInput{
	{
		Name:                "Basketball Court",
		Description:         "Indoor basketball court with 6 hoops, suitable for team practice or casual games.",
		FacilityType:        "Basketball",
		OpeningTime:         "09:00",
		ClosingTime:         "17:00",
		SlotDurationMinutes: 60,
	},
	{
		Name:                "Tennis Court",
		Description:         "Outdoor tennis court with professional-grade surface, available for singles or doubles matches.",
		FacilityType:        "Tennis",
		OpeningTime:         "09:00",
		ClosingTime:         "17:00",
		SlotDurationMinutes: 60,
	},
	{
		Name:                "Swimming Pool",
		Description:         "Olympic-sized swimming pool with 8 lanes, heated and available for team practice or recreational swimming.",
		FacilityType:        "Swimming",
		OpeningTime:         "09:00",
		ClosingTime:         "17:00",
		SlotDurationMinutes: 60,
	},
	{
		Name:                "Football Field",
		Description:         "Regulation-size football field with natural grass, perfect for team practice or matches.",
		FacilityType:        "Football",
		OpeningTime:         "09:00",
		ClosingTime:         "17:00",
		SlotDurationMinutes: 60,
	},
}

type publisher struct{}

func (publisher) PublishSlotUpdate(models.TimeSlot) {}

func main() {
	inMemory := flag.Bool("memory", false, "seed an in-memory store and print a summary instead of writing to MongoDB")
	courts := flag.Int("courts", 2, "courts per facility")
	days := flag.Int("days", 7, "days of slots to generate")
	booked := flag.Float64("booked", 0.25, "share of slots booked for demo users")
	flag.Parse()

	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	var stores booking.Stores
	if *inMemory {
		store := memory.New()
		stores = booking.Stores{
			Facilities:   store.Facilities(),
			Slots:        store.Slots(),
			Reservations: store.Reservations(),
			Tx:           store,
		}
	} else {
		database.InitDB()
		defer database.CloseDB(context.Background())
		stores = booking.Stores{
			Facilities:   facilityRepo.NewMongoFacilityRepo(),
			Slots:        timeslotRepo.NewMongoTimeSlotRepo(),
			Reservations: reservationRepo.NewMongoReservationRepo(),
			Tx:           database.NewMongoTxRunner(),
		}
		for _, repo := range []interface {
			EnsureIndexes(context.Context) error
		}{stores.Facilities, stores.Slots, stores.Reservations} {
			if err := repo.EnsureIndexes(context.Background()); err != nil {
				logger.Fatal("seed: failed to create indexes", zap.Error(err))
			}
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	clock := utils.NewSystemClock(config.Location())
	stack := booking.NewStack(stores, publisher{}, clock, booking.DefaultRetryPolicy(), config.AppConfig.MaxActiveReservations, logger)
	facilities := &facility.DefaultFacilityService{Repo: stores.Facilities, Clock: clock, Logger: logger}

	if err := seedFacilities(ctx, facilities, *courts, logger); err != nil {
		logger.Fatal("seed: failed to create facilities", zap.Error(err))
	}

	jobs := &cron.Jobs{
		Facilities: stores.Facilities,
		Slots:      stores.Slots,
		Generator:  stack.Generator,
		Engine:     stack.Engine,
		Clock:      clock,
		Logger:     logger,
	}
	total, err := jobs.PregenerateSlots(ctx, *days)
	if err != nil {
		logger.Fatal("seed: failed to generate slots", zap.Error(err))
	}

	reserved, err := bookDemoSlots(ctx, stores, stack.Manager, clock, *days, *booked, logger)
	if err != nil {
		logger.Fatal("seed: failed to book demo slots", zap.Error(err))
	}

	fmt.Printf("Test data setup complete: %d slots, %d reserved\n", total, reserved)
}

// seedFacilities creates every demo facility that does not exist yet, by name.
func seedFacilities(ctx context.Context, svc *facility.DefaultFacilityService, courts int, logger *zap.Logger) error {
	existing, err := svc.ListFacilities(ctx)
	if err != nil {
		return err
	}
	have := make(map[string]bool, len(existing))
	for _, f := range existing {
		have[f.Name] = true
	}

	for _, input := range demoFacilities {
		if have[input.Name] {
			continue
		}
		created, err := svc.CreateFacility(ctx, input)
		if err != nil {
			return err
		}
		for i := 1; i <= courts; i++ {
			if _, err := svc.CreateCourt(ctx, created.ID, models.CourtInput{Name: fmt.Sprintf("%s %d", input.FacilityType, i)}); err != nil {
				return err
			}
		}
		logger.Info("created facility", zap.String("name", created.Name), zap.Int("courts", courts))
	}
	return nil
}

// bookDemoSlots reserves roughly share of the open slots, each for a new demo
// user so the per-user limit never applies.
func bookDemoSlots(ctx context.Context, stores booking.Stores, manager booking.ReservationManager, clock utils.Clock, days int, share float64, logger *zap.Logger) (int, error) {
	if share <= 0 {
		return 0, nil
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	reserved := 0
	for d := 0; d < days; d++ {
		date := clock.Now().AddDate(0, 0, d).Format(utils.DateLayout)
		slots, err := stores.Slots.ListByDate(ctx, date)
		if err != nil {
			return reserved, err
		}
		for _, slot := range slots {
			if !slot.IsAvailable || rng.Float64() >= share {
				continue
			}
			actor := models.Actor{UserID: fmt.Sprintf("demo-%s-%d-%d", date, slot.Start, reserved)}
			if _, err := manager.Create(ctx, actor, slot.ID); err != nil {
				if booking.IsConflict(err) {
					continue
				}
				return reserved, err
			}
			reserved++
		}
	}
	logger.Info("booked demo slots", zap.Int("reserved", reserved))
	return reserved, nil
}
