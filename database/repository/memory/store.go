// File: database/repository/memory/store.go

// Package memory keeps every repository in process memory. It backs the
// service tests and the seed program's dry runs, and mirrors the unique
// indexes and transaction semantics of the Mongo repositories.
package memory

import (
	"context"
	"fmt"
	"sync"

	"courtbook/database"
	facilityRepo "courtbook/database/repository/facility"
	reservationRepo "courtbook/database/repository/reservation"
	timeslotRepo "courtbook/database/repository/timeslot"
	"courtbook/models"
)

type txKey struct{}

// Store holds all collections behind one mutex. Transactions hold the mutex
// for their whole duration and roll back on error.
type Store struct {
	mu sync.Mutex

	facilities   map[string]models.Facility
	courts       map[string]models.Court
	slots        map[string]models.TimeSlot
	reservations map[string]models.Reservation
	locks        map[string]int

	failCommits int
	commits     int
}

func New() *Store {
	return &Store{
		facilities:   map[string]models.Facility{},
		courts:       map[string]models.Court{},
		slots:        map[string]models.TimeSlot{},
		reservations: map[string]models.Reservation{},
		locks:        map[string]int{},
	}
}

func (s *Store) Facilities() facilityRepo.FacilityRepository {
	return &facilities{s: s}
}

func (s *Store) Slots() timeslotRepo.TimeSlotRepository {
	return &slots{s: s}
}

func (s *Store) Reservations() reservationRepo.ReservationRepository {
	return &reservations{s: s}
}

// FailNextCommits makes the next n transactions roll back with a transient
// error after fn succeeds.
func (s *Store) FailNextCommits(n int) {
	s.mu.Lock()
	s.failCommits = n
	s.mu.Unlock()
}

// Commits returns how many transactions committed.
func (s *Store) Commits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commits
}

func (s *Store) WithTransaction(ctx context.Context, fn func(txCtx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		s.restore(snap)
		return err
	}
	if s.failCommits > 0 {
		s.failCommits--
		s.restore(snap)
		return fmt.Errorf("%w: injected commit failure", database.ErrTransient)
	}
	s.commits++
	return nil
}

// lock takes the store mutex unless ctx already runs inside a transaction.
func (s *Store) lock(ctx context.Context) func() {
	if inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func inTx(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(*Store)
	return ok
}

type snapshot struct {
	facilities   map[string]models.Facility
	courts       map[string]models.Court
	slots        map[string]models.TimeSlot
	reservations map[string]models.Reservation
	locks        map[string]int
}

func (s *Store) snapshot() snapshot {
	return snapshot{
		facilities:   copyMap(s.facilities),
		courts:       copyMap(s.courts),
		slots:        copyMap(s.slots),
		reservations: copyMap(s.reservations),
		locks:        copyMap(s.locks),
	}
}

func (s *Store) restore(snap snapshot) {
	s.facilities = snap.facilities
	s.courts = snap.courts
	s.slots = snap.slots
	s.reservations = snap.reservations
	s.locks = snap.locks
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// upcoming reports whether an interval on date ending at end has not ended by
// nowMinute on today.
func upcoming(date string, end int, today string, nowMinute int) bool {
	return date > today || (date == today && end > nowMinute)
}
