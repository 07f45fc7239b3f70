package models

import "time"

// TimeSlot is a fixed bookable interval on one court for one date. It is
// unique on (courtId, date, start).
type TimeSlot struct {
	ID          string    `bson:"id" json:"id"`
	CourtID     string    `bson:"courtId" json:"courtId"`
	FacilityID  string    `bson:"facilityId" json:"facilityId"`
	Date        string    `bson:"date" json:"date"`   // e.g., "2025-02-25"
	Start       int       `bson:"start" json:"start"` // minutes from midnight (e.g., 540 for 9:00 AM)
	End         int       `bson:"end" json:"end"`     // minutes from midnight (e.g., 600 for 10:00 AM)
	IsAvailable bool      `bson:"isAvailable" json:"isAvailable"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

// SlotBoundary is one computed [Start, End) interval, before persistence.
type SlotBoundary struct {
	Start int
	End   int
}
