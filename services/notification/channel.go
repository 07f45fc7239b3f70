package notification

import (
	"errors"
	"sync"

	"courtbook/models"
)

var ErrChannelClosed = errors.New("subscription channel closed")

// Channel is one subscriber's connection to the hub. Events is closed by the
// hub once the channel is deregistered from every topic.
type Channel struct {
	hub       *Hub
	events    chan models.SlotEvent
	done      chan struct{}
	closeOnce sync.Once
}

func newChannel(h *Hub, buffer int) *Channel {
	return &Channel{
		hub:    h,
		events: make(chan models.SlotEvent, buffer),
		done:   make(chan struct{}),
	}
}

func (c *Channel) Subscribe(topic Topic) error {
	if err := topic.Validate(); err != nil {
		return err
	}
	return c.hub.request(func(ack chan error) command {
		return command{kind: cmdSubscribe, ch: c, topic: topic, ack: ack}
	}, c.done)
}

func (c *Channel) Unsubscribe(topic Topic) error {
	return c.hub.request(func(ack chan error) command {
		return command{kind: cmdUnsubscribe, ch: c, topic: topic, ack: ack}
	}, c.done)
}

// Events delivers slot events for every subscribed topic.
func (c *Channel) Events() <-chan models.SlotEvent {
	return c.events
}

// Done is closed when Close is called.
func (c *Channel) Done() <-chan struct{} {
	return c.done
}

// Close deregisters the channel from every topic. It is safe to call more
// than once and from any goroutine.
func (c *Channel) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.hub.send(command{kind: cmdClose, ch: c})
	})
}
