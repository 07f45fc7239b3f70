package notification

import (
	"context"
	"time"

	"go.uber.org/zap"

	"courtbook/models"
	"courtbook/utils"
)

const (
	defaultChannelBuffer = 16
	defaultInboxSize     = 1024
	broadcastTimeout     = 2 * time.Second
)

type commandKind int

const (
	cmdOpen commandKind = iota
	cmdSubscribe
	cmdUnsubscribe
	cmdClose
	cmdCount
)

type command struct {
	kind  commandKind
	ch    *Channel
	topic Topic
	ack   chan error
	count chan int
}

type envelope struct {
	topic Topic
	event models.SlotEvent
}

// Hub owns the topic registry. Only the Run goroutine reads or writes it;
// everything else talks to it through the control and inbox channels.
type Hub struct {
	control       chan command
	inbox         chan envelope
	outbound      chan envelope
	done          chan struct{}
	channelBuffer int
	broadcaster   Broadcaster
	logger        *zap.Logger
}

type Option func(*Hub)

// WithBroadcaster routes PublishSlotUpdate through b instead of delivering
// locally. b is expected to echo events back into Publish. Broadcasts run on
// their own goroutine so publishers never wait on b.
func WithBroadcaster(b Broadcaster) Option {
	return func(h *Hub) { h.broadcaster = b }
}

// WithChannelBuffer sets how many undelivered events a subscriber may queue
// before further events are dropped.
func WithChannelBuffer(n int) Option {
	return func(h *Hub) {
		if n > 0 {
			h.channelBuffer = n
		}
	}
}

func NewHub(logger *zap.Logger, opts ...Option) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Hub{
		control:       make(chan command),
		inbox:         make(chan envelope, defaultInboxSize),
		outbound:      make(chan envelope, defaultInboxSize),
		done:          make(chan struct{}),
		channelBuffer: defaultChannelBuffer,
		logger:        logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run serves the hub until ctx ends, then closes every open channel.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	if h.broadcaster != nil {
		go h.forward(ctx)
	}

	topics := make(map[Topic]map[*Channel]struct{})
	members := make(map[*Channel]map[Topic]struct{})

	drop := func(ch *Channel) {
		for t := range members[ch] {
			delete(topics[t], ch)
			if len(topics[t]) == 0 {
				delete(topics, t)
			}
		}
		delete(members, ch)
		close(ch.events)
	}

	for {
		select {
		case <-ctx.Done():
			for ch := range members {
				drop(ch)
			}
			h.logger.Info("notification hub stopped")
			return

		case cmd := <-h.control:
			switch cmd.kind {
			case cmdOpen:
				members[cmd.ch] = make(map[Topic]struct{})
			case cmdSubscribe:
				subs, ok := members[cmd.ch]
				if !ok {
					cmd.ack <- ErrChannelClosed
					continue
				}
				if topics[cmd.topic] == nil {
					topics[cmd.topic] = make(map[*Channel]struct{})
				}
				topics[cmd.topic][cmd.ch] = struct{}{}
				subs[cmd.topic] = struct{}{}
				cmd.ack <- nil
			case cmdUnsubscribe:
				subs, ok := members[cmd.ch]
				if !ok {
					cmd.ack <- ErrChannelClosed
					continue
				}
				delete(subs, cmd.topic)
				delete(topics[cmd.topic], cmd.ch)
				if len(topics[cmd.topic]) == 0 {
					delete(topics, cmd.topic)
				}
				cmd.ack <- nil
			case cmdClose:
				if _, ok := members[cmd.ch]; ok {
					drop(cmd.ch)
				}
			case cmdCount:
				cmd.count <- len(topics[cmd.topic])
			}

		case env := <-h.inbox:
			dropped := 0
			for ch := range topics[env.topic] {
				select {
				case ch.events <- env.event:
				default:
					dropped++
				}
			}
			if dropped > 0 {
				h.logger.Debug("slow subscribers missed an event",
					zap.String("topic", env.topic.String()),
					zap.Int("dropped", dropped))
				utils.Count(context.Background(), utils.NotificationsDropped, int64(dropped), "slow_subscriber")
			}
		}
	}
}

// Open returns a channel registered with the hub. The channel is closed when
// ctx ends; if the hub has already stopped it is returned closed.
func (h *Hub) Open(ctx context.Context) *Channel {
	ch := newChannel(h, h.channelBuffer)
	if !h.send(command{kind: cmdOpen, ch: ch}) {
		ch.closeOnce.Do(func() { close(ch.done) })
		close(ch.events)
		return ch
	}
	go func() {
		select {
		case <-ctx.Done():
			ch.Close()
		case <-ch.done:
		}
	}()
	return ch
}

// Publish queues event for local delivery without blocking. Events are
// dropped when the inbox is full.
func (h *Hub) Publish(topic Topic, event models.SlotEvent) {
	select {
	case h.inbox <- envelope{topic: topic, event: event}:
	default:
		h.logger.Warn("notification inbox full, dropping event", zap.String("topic", topic.String()))
		utils.Count(context.Background(), utils.NotificationsDropped, 1, "inbox_full")
	}
}

// PublishSlotUpdate announces slot on its court and facility topics. With a
// broadcaster the event is queued for forward; a full queue delivers locally.
func (h *Hub) PublishSlotUpdate(slot models.TimeSlot) {
	event := models.NewSlotEvent(slot)
	for _, topic := range []Topic{CourtTopic(slot.CourtID, slot.Date), FacilityTopic(slot.FacilityID, slot.Date)} {
		if topic.ID == "" {
			continue
		}
		if h.broadcaster == nil {
			h.Publish(topic, event)
			continue
		}
		select {
		case h.outbound <- envelope{topic: topic, event: event}:
		default:
			h.logger.Warn("broadcast queue full, delivering locally", zap.String("topic", topic.String()))
			h.Publish(topic, event)
		}
	}
}

// forward drains the outbound queue into the broadcaster until ctx ends.
func (h *Hub) forward(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case env := <-h.outbound:
			bctx, cancel := context.WithTimeout(ctx, broadcastTimeout)
			err := h.broadcaster.Broadcast(bctx, env.topic, env.event)
			cancel()
			if err != nil {
				h.logger.Warn("broadcast failed, delivering locally", zap.String("topic", env.topic.String()), zap.Error(err))
				h.Publish(env.topic, env.event)
			}
		}
	}
}

// SubscriberCount returns how many channels are subscribed to topic, or 0
// once the hub has stopped.
func (h *Hub) SubscriberCount(topic Topic) int {
	reply := make(chan int, 1)
	if !h.send(command{kind: cmdCount, topic: topic, count: reply}) {
		return 0
	}
	select {
	case n := <-reply:
		return n
	case <-h.done:
		return 0
	}
}

func (h *Hub) send(cmd command) bool {
	select {
	case h.control <- cmd:
		return true
	case <-h.done:
		return false
	}
}

// request sends a command carrying an ack and waits for the reply.
func (h *Hub) request(build func(ack chan error) command, closed <-chan struct{}) error {
	select {
	case <-closed:
		return ErrChannelClosed
	default:
	}
	ack := make(chan error, 1)
	if !h.send(build(ack)) {
		return ErrChannelClosed
	}
	select {
	case err := <-ack:
		return err
	case <-h.done:
		return ErrChannelClosed
	}
}
