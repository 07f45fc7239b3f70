package notification

import (
	"context"

	"courtbook/models"
)

// NotificationService fans slot availability changes out to live subscribers.
type NotificationService interface {
	// PublishSlotUpdate announces slot's current availability on its court
	// and facility topics.
	PublishSlotUpdate(slot models.TimeSlot)
	// Publish delivers event to the channels subscribed to topic on this
	// instance only.
	Publish(topic Topic, event models.SlotEvent)
	// Open registers a new subscriber channel that is released when ctx ends.
	Open(ctx context.Context) *Channel
}

// Broadcaster carries slot events to every instance, including this one.
type Broadcaster interface {
	Broadcast(ctx context.Context, topic Topic, event models.SlotEvent) error
}
