package booking

import "errors"

var (
	ErrSlotNotFound        = errors.New("time slot not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrCourtNotFound       = errors.New("court not found")
	ErrFacilityNotFound    = errors.New("facility not found")

	ErrSlotUnavailable       = errors.New("time slot is not available")
	ErrCapacityExceeded      = errors.New("active reservation limit reached")
	ErrDuplicateTimeConflict = errors.New("user already holds a reservation at this time")

	ErrInvalidDate          = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidFacility      = errors.New("invalid facility configuration")
	ErrInvalidFacilityHours = errors.New("invalid facility operating hours")

	ErrForbidden = errors.New("not allowed to act on this reservation")

	// ErrStoreUnavailable is returned once transient store errors outlast the
	// retry budget.
	ErrStoreUnavailable = errors.New("store unavailable, try again later")
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrSlotNotFound) ||
		errors.Is(err, ErrReservationNotFound) ||
		errors.Is(err, ErrCourtNotFound) ||
		errors.Is(err, ErrFacilityNotFound)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrSlotUnavailable) ||
		errors.Is(err, ErrCapacityExceeded) ||
		errors.Is(err, ErrDuplicateTimeConflict)
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrInvalidFacility) ||
		errors.Is(err, ErrInvalidFacilityHours)
}

func IsAuthorization(err error) bool {
	return errors.Is(err, ErrForbidden)
}
