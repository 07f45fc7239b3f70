package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courtbook/models"
	"courtbook/utils"
)

func TestEncodeDecodeMessage(t *testing.T) {
	topic := FacilityTopic("fac-1", "2030-01-10")
	event := models.SlotEvent{Type: models.SlotEventType, SlotID: "s1", IsAvailable: true}

	channel, payload, err := encodeMessage(topic, event)
	require.NoError(t, err)
	assert.Equal(t, utils.SlotChannelPrefix+"facility:fac-1:2030-01-10", channel)
	assert.JSONEq(t, `{"type":"timeslot_update","slot_id":"s1","is_available":true}`, payload)

	gotTopic, gotEvent, err := decodeMessage(channel, payload)
	require.NoError(t, err)
	assert.Equal(t, topic, gotTopic)
	assert.Equal(t, event, gotEvent)
}

func TestDecodeMessage_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		channel string
		payload string
	}{
		{name: "foreign channel", channel: "other:court:c1:2030-01-10", payload: `{"slot_id":"s1"}`},
		{name: "bad topic", channel: utils.SlotChannelPrefix + "court:c1", payload: `{"slot_id":"s1"}`},
		{name: "bad json", channel: utils.SlotChannelPrefix + "court:c1:2030-01-10", payload: `{`},
		{name: "missing slot", channel: utils.SlotChannelPrefix + "court:c1:2030-01-10", payload: `{"is_available":true}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := decodeMessage(tt.channel, tt.payload)
			assert.Error(t, err)
		})
	}
}
