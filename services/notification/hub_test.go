package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courtbook/models"
)

const waitFor = time.Second

func startHub(t *testing.T, opts ...Option) (*Hub, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	h := NewHub(nil, opts...)
	go h.Run(ctx)
	t.Cleanup(cancel)
	return h, cancel
}

func receive(t *testing.T, ch *Channel) models.SlotEvent {
	t.Helper()
	select {
	case ev, ok := <-ch.Events():
		require.True(t, ok, "events channel closed")
		return ev
	case <-time.After(waitFor):
		t.Fatal("timed out waiting for event")
		return models.SlotEvent{}
	}
}

func assertNoEvent(t *testing.T, ch *Channel) {
	t.Helper()
	select {
	case ev := <-ch.Events():
		t.Fatalf("unexpected event %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_DeliversToSubscribedTopicOnly(t *testing.T) {
	h, _ := startHub(t)
	topic := CourtTopic("court-1", "2030-01-10")
	other := CourtTopic("court-2", "2030-01-10")

	ch := h.Open(context.Background())
	defer ch.Close()
	require.NoError(t, ch.Subscribe(topic))

	h.Publish(other, models.SlotEvent{Type: models.SlotEventType, SlotID: "x", IsAvailable: true})
	h.Publish(topic, models.SlotEvent{Type: models.SlotEventType, SlotID: "s1", IsAvailable: false})

	ev := receive(t, ch)
	assert.Equal(t, "s1", ev.SlotID)
	assert.False(t, ev.IsAvailable)
	assertNoEvent(t, ch)
}

func TestHub_UnsubscribeStopsDelivery(t *testing.T) {
	h, _ := startHub(t)
	topic := CourtTopic("court-1", "2030-01-10")

	ch := h.Open(context.Background())
	defer ch.Close()
	require.NoError(t, ch.Subscribe(topic))
	assert.Equal(t, 1, h.SubscriberCount(topic))

	require.NoError(t, ch.Unsubscribe(topic))
	assert.Equal(t, 0, h.SubscriberCount(topic))

	h.Publish(topic, models.SlotEvent{SlotID: "s1"})
	assertNoEvent(t, ch)
}

func TestChannel_CloseIsIdempotentAndDeregisters(t *testing.T) {
	h, _ := startHub(t)
	court := CourtTopic("court-1", "2030-01-10")
	facility := FacilityTopic("fac-1", "2030-01-10")

	ch := h.Open(context.Background())
	require.NoError(t, ch.Subscribe(court))
	require.NoError(t, ch.Subscribe(facility))

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ch.Close()
		}()
	}
	wg.Wait()

	assert.Eventually(t, func() bool {
		return h.SubscriberCount(court) == 0 && h.SubscriberCount(facility) == 0
	}, waitFor, 5*time.Millisecond)

	_, open := <-ch.Events()
	assert.False(t, open)
	assert.ErrorIs(t, ch.Subscribe(court), ErrChannelClosed)
}

func TestChannel_ContextEndReleasesSubscriptions(t *testing.T) {
	h, _ := startHub(t)
	topic := FacilityTopic("fac-1", "2030-01-10")

	ctx, cancel := context.WithCancel(context.Background())
	ch := h.Open(ctx)
	require.NoError(t, ch.Subscribe(topic))
	require.Equal(t, 1, h.SubscriberCount(topic))

	cancel()

	assert.Eventually(t, func() bool { return h.SubscriberCount(topic) == 0 }, waitFor, 5*time.Millisecond)
	select {
	case <-ch.Done():
	case <-time.After(waitFor):
		t.Fatal("channel not closed after context end")
	}
}

func TestHub_SlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	h, _ := startHub(t, WithChannelBuffer(1))
	slowTopic := CourtTopic("court-1", "2030-01-10")
	markerTopic := CourtTopic("court-2", "2030-01-10")

	slow := h.Open(context.Background())
	defer slow.Close()
	require.NoError(t, slow.Subscribe(slowTopic))

	marker := h.Open(context.Background())
	defer marker.Close()
	require.NoError(t, marker.Subscribe(markerTopic))

	for i := 0; i < 5; i++ {
		h.Publish(slowTopic, models.SlotEvent{SlotID: "s1", IsAvailable: i%2 == 0})
	}
	// The inbox is FIFO, so the marker arrives after all five were handled.
	h.Publish(markerTopic, models.SlotEvent{SlotID: "marker"})
	assert.Equal(t, "marker", receive(t, marker).SlotID)

	assert.Equal(t, "s1", receive(t, slow).SlotID)
	assertNoEvent(t, slow)

	h.Publish(slowTopic, models.SlotEvent{SlotID: "s2"})
	assert.Equal(t, "s2", receive(t, slow).SlotID)
}

func TestHub_StopClosesChannels(t *testing.T) {
	h, stop := startHub(t)
	topic := CourtTopic("court-1", "2030-01-10")

	ch := h.Open(context.Background())
	require.NoError(t, ch.Subscribe(topic))

	stop()

	select {
	case _, open := <-ch.Events():
		assert.False(t, open)
	case <-time.After(waitFor):
		t.Fatal("events not closed on hub stop")
	}

	late := h.Open(context.Background())
	_, open := <-late.Events()
	assert.False(t, open)
	assert.ErrorIs(t, late.Subscribe(topic), ErrChannelClosed)
	late.Close()
	assert.Equal(t, 0, h.SubscriberCount(topic))
}

func TestHub_PublishSlotUpdateReachesCourtAndFacilityTopics(t *testing.T) {
	h, _ := startHub(t)
	slot := models.TimeSlot{ID: "s1", CourtID: "court-1", FacilityID: "fac-1", Date: "2030-01-10", IsAvailable: true}

	courtCh := h.Open(context.Background())
	defer courtCh.Close()
	require.NoError(t, courtCh.Subscribe(CourtTopic("court-1", "2030-01-10")))

	facilityCh := h.Open(context.Background())
	defer facilityCh.Close()
	require.NoError(t, facilityCh.Subscribe(FacilityTopic("fac-1", "2030-01-10")))

	h.PublishSlotUpdate(slot)

	want := models.SlotEvent{Type: models.SlotEventType, SlotID: "s1", IsAvailable: true}
	assert.Equal(t, want, receive(t, courtCh))
	assert.Equal(t, want, receive(t, facilityCh))
}

type recordingBroadcaster struct {
	mu     sync.Mutex
	topics []Topic
	err    error
}

func (b *recordingBroadcaster) Broadcast(_ context.Context, topic Topic, _ models.SlotEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.topics = append(b.topics, topic)
	return b.err
}

func (b *recordingBroadcaster) seen() []Topic {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Topic(nil), b.topics...)
}

func TestHub_BroadcasterReplacesLocalDelivery(t *testing.T) {
	b := &recordingBroadcaster{}
	h, _ := startHub(t, WithBroadcaster(b))
	topic := CourtTopic("court-1", "2030-01-10")

	ch := h.Open(context.Background())
	defer ch.Close()
	require.NoError(t, ch.Subscribe(topic))

	h.PublishSlotUpdate(models.TimeSlot{ID: "s1", CourtID: "court-1", FacilityID: "fac-1", Date: "2030-01-10"})

	assert.Eventually(t, func() bool { return len(b.seen()) == 2 }, waitFor, 5*time.Millisecond)
	assert.Equal(t, []Topic{topic, FacilityTopic("fac-1", "2030-01-10")}, b.seen())
	assertNoEvent(t, ch)
}

type blockingBroadcaster struct {
	recordingBroadcaster
	release chan struct{}
}

func (b *blockingBroadcaster) Broadcast(ctx context.Context, topic Topic, event models.SlotEvent) error {
	select {
	case <-b.release:
	case <-ctx.Done():
		return ctx.Err()
	}
	return b.recordingBroadcaster.Broadcast(ctx, topic, event)
}

func TestHub_PublishSlotUpdateDoesNotWaitForBroadcaster(t *testing.T) {
	b := &blockingBroadcaster{release: make(chan struct{})}
	h, _ := startHub(t, WithBroadcaster(b))

	returned := make(chan struct{})
	go func() {
		h.PublishSlotUpdate(models.TimeSlot{ID: "s1", CourtID: "court-1", FacilityID: "fac-1", Date: "2030-01-10"})
		close(returned)
	}()
	select {
	case <-returned:
	case <-time.After(waitFor):
		t.Fatal("PublishSlotUpdate blocked on the broadcaster")
	}
	assert.Empty(t, b.seen())

	close(b.release)
	assert.Eventually(t, func() bool { return len(b.seen()) == 2 }, waitFor, 5*time.Millisecond)
	assert.Equal(t, []Topic{CourtTopic("court-1", "2030-01-10"), FacilityTopic("fac-1", "2030-01-10")}, b.seen())
}

func TestHub_BroadcastFailureFallsBackToLocal(t *testing.T) {
	b := &recordingBroadcaster{err: errors.New("redis down")}
	h, _ := startHub(t, WithBroadcaster(b))
	topic := CourtTopic("court-1", "2030-01-10")

	ch := h.Open(context.Background())
	defer ch.Close()
	require.NoError(t, ch.Subscribe(topic))

	h.PublishSlotUpdate(models.TimeSlot{ID: "s1", CourtID: "court-1", FacilityID: "fac-1", Date: "2030-01-10"})
	assert.Equal(t, "s1", receive(t, ch).SlotID)
}
