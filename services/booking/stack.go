package booking

import (
	"go.uber.org/zap"

	"courtbook/database"
	facilityRepo "courtbook/database/repository/facility"
	reservationRepo "courtbook/database/repository/reservation"
	timeslotRepo "courtbook/database/repository/timeslot"
	"courtbook/utils"
)

// Stores groups the persistence a booking pipeline runs on.
type Stores struct {
	Facilities   facilityRepo.FacilityRepository
	Slots        timeslotRepo.TimeSlotRepository
	Reservations reservationRepo.ReservationRepository
	Tx           database.TxRunner
}

// Stack is a fully wired booking pipeline.
type Stack struct {
	Engine    *DefaultAvailabilityEngine
	Generator *DefaultSlotGenerator
	Manager   *DefaultReservationManager
	Service   *DefaultBookingService
}

// NewStack wires generator, engine, manager and listing over stores.
// maxActive <= 0 falls back to 2.
func NewStack(stores Stores, publisher SlotPublisher, clock utils.Clock, retry RetryPolicy, maxActive int, logger *zap.Logger) *Stack {
	if maxActive <= 0 {
		maxActive = 2
	}
	engine := &DefaultAvailabilityEngine{
		Slots:        stores.Slots,
		Reservations: stores.Reservations,
		Courts:       stores.Facilities,
		Tx:           stores.Tx,
		Publisher:    publisher,
		Clock:        clock,
		Retry:        retry,
		Logger:       logger,
	}
	generator := &DefaultSlotGenerator{
		Slots:        stores.Slots,
		Reservations: stores.Reservations,
		Engine:       engine,
		Clock:        clock,
		Logger:       logger,
	}
	manager := &DefaultReservationManager{
		Slots:        stores.Slots,
		Reservations: stores.Reservations,
		Tx:           stores.Tx,
		Engine:       engine,
		Clock:        clock,
		Retry:        retry,
		MaxActive:    maxActive,
		Logger:       logger,
	}
	return &Stack{
		Engine:    engine,
		Generator: generator,
		Manager:   manager,
		Service: &DefaultBookingService{
			Facilities:         stores.Facilities,
			Generator:          generator,
			Engine:             engine,
			ReservationManager: manager,
			Clock:              clock,
		},
	}
}
