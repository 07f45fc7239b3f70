package models

import "time"

// Facility is a sports venue whose operating hours drive slot generation.
type Facility struct {
	ID           string    `bson:"id" json:"id"`
	Name         string    `bson:"name" json:"name"`
	Description  string    `bson:"description" json:"description"`
	FacilityType string    `bson:"facilityType" json:"facilityType"` // e.g. "Basketball Court", "Tennis Court"
	OpeningTime  int       `bson:"openingTime" json:"openingTime"`   // minutes from midnight (e.g., 480 for 8:00 AM)
	ClosingTime  int       `bson:"closingTime" json:"closingTime"`   // minutes from midnight (e.g., 1200 for 8:00 PM)
	SlotDuration int       `bson:"slotDurationMinutes" json:"slotDurationMinutes"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

// OperatingHours is the subset of a facility needed to lay out slots.
type OperatingHours struct {
	Opening      int
	Closing      int
	SlotDuration int
}

func (f Facility) Hours() OperatingHours {
	return OperatingHours{Opening: f.OpeningTime, Closing: f.ClosingTime, SlotDuration: f.SlotDuration}
}

// Court is a bookable resource owned by one facility. IsAvailable is a rollup
// of its upcoming slots and is never used to authorize a booking.
type Court struct {
	ID          string    `bson:"id" json:"id"`
	FacilityID  string    `bson:"facilityId" json:"facilityId"`
	Name        string    `bson:"name" json:"name"`
	Description string    `bson:"description" json:"description"`
	IsAvailable bool      `bson:"isAvailable" json:"isAvailable"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

// FacilityDetail is a facility with its courts, as listed to clients.
type FacilityDetail struct {
	Facility `bson:",inline"`
	Courts   []Court `json:"courts"`
}

// FacilityInput is the validated configuration payload for a facility.
type FacilityInput struct {
	Name                string `json:"name" binding:"required" validate:"required,max=100"`
	Description         string `json:"description" validate:"max=2000"`
	FacilityType        string `json:"facilityType" validate:"max=50"`
	OpeningTime         string `json:"openingTime" binding:"required" validate:"required"` // "HH:MM"
	ClosingTime         string `json:"closingTime" binding:"required" validate:"required"` // "HH:MM"
	SlotDurationMinutes int    `json:"slotDurationMinutes" binding:"required" validate:"gt=0"`
}

// CourtInput is the payload for adding a court to a facility.
type CourtInput struct {
	Name        string `json:"name" binding:"required" validate:"required,max=100"`
	Description string `json:"description" validate:"max=2000"`
}
