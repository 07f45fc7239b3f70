package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"courtbook/models"
	"courtbook/utils"
)

// RedisBroadcaster publishes slot events on Redis pub/sub so that every
// instance's relay sees them.
type RedisBroadcaster struct {
	client *redis.Client
}

func NewRedisBroadcaster(client *redis.Client) *RedisBroadcaster {
	return &RedisBroadcaster{client: client}
}

func (b *RedisBroadcaster) Broadcast(ctx context.Context, topic Topic, event models.SlotEvent) error {
	channel, payload, err := encodeMessage(topic, event)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, channel, payload).Err()
}

// RedisRelay feeds events received from Redis into the local hub.
type RedisRelay struct {
	client *redis.Client
	hub    NotificationService
	logger *zap.Logger
}

func NewRedisRelay(client *redis.Client, hub NotificationService, logger *zap.Logger) *RedisRelay {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisRelay{client: client, hub: hub, logger: logger}
}

// Run relays until ctx ends or the subscription fails.
func (r *RedisRelay) Run(ctx context.Context) error {
	sub := r.client.PSubscribe(ctx, utils.SlotChannelPrefix+"*")
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("redis relay subscribe failed: %w", err)
	}
	r.logger.Info("redis relay subscribed", zap.String("pattern", utils.SlotChannelPrefix+"*"))

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return fmt.Errorf("redis relay channel closed")
			}
			topic, event, err := decodeMessage(msg.Channel, msg.Payload)
			if err != nil {
				r.logger.Warn("dropping malformed slot message", zap.String("channel", msg.Channel), zap.Error(err))
				continue
			}
			r.hub.Publish(topic, event)
		}
	}
}

func encodeMessage(topic Topic, event models.SlotEvent) (string, string, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode slot event: %w", err)
	}
	return utils.SlotChannelPrefix + topic.String(), string(payload), nil
}

func decodeMessage(channel, payload string) (Topic, models.SlotEvent, error) {
	if !strings.HasPrefix(channel, utils.SlotChannelPrefix) {
		return Topic{}, models.SlotEvent{}, fmt.Errorf("unexpected channel %q", channel)
	}
	topic, err := ParseTopic(strings.TrimPrefix(channel, utils.SlotChannelPrefix))
	if err != nil {
		return Topic{}, models.SlotEvent{}, err
	}
	var event models.SlotEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return Topic{}, models.SlotEvent{}, fmt.Errorf("failed to decode slot event: %w", err)
	}
	if event.SlotID == "" {
		return Topic{}, models.SlotEvent{}, fmt.Errorf("slot event without slot id")
	}
	return topic, event, nil
}
