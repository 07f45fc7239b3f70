package models

// SlotEventType tags slot availability messages on the wire.
const SlotEventType = "timeslot_update"

// SlotEvent is the payload delivered to subscribers when a slot's
// availability changes.
type SlotEvent struct {
	Type        string `json:"type"`
	SlotID      string `json:"slot_id"`
	IsAvailable bool   `json:"is_available"`
}

func NewSlotEvent(slot TimeSlot) SlotEvent {
	return SlotEvent{Type: SlotEventType, SlotID: slot.ID, IsAvailable: slot.IsAvailable}
}
