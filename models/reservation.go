package models

import "time"

// Reservation binds one user to one time slot. Slot details are denormalized
// so the record stays readable after the slot is pruned.
type Reservation struct {
	ID          string     `bson:"id" json:"id"`
	UserID      string     `bson:"userId" json:"userId"`
	TimeSlotID  string     `bson:"timeSlotId" json:"timeSlotId"`
	CourtID     string     `bson:"courtId" json:"courtId"`
	FacilityID  string     `bson:"facilityId" json:"facilityId"`
	Date        string     `bson:"date" json:"date"`
	Start       int        `bson:"start" json:"start"`
	End         int        `bson:"end" json:"end"`
	CreatedAt   time.Time  `bson:"createdAt" json:"createdAt"`
	IsCancelled bool       `bson:"isCancelled" json:"isCancelled"`
	CancelledAt *time.Time `bson:"cancelledAt,omitempty" json:"cancelledAt,omitempty"`
	CancelledBy string     `bson:"cancelledBy,omitempty" json:"cancelledBy,omitempty"`
}

// Active reports whether the reservation still holds its slot.
func (r Reservation) Active() bool {
	return !r.IsCancelled
}

// CreateReservationRequest is the booking payload.
type CreateReservationRequest struct {
	TimeSlotID string `json:"timeSlotId" binding:"required"`
}
