package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopic_RoundTrip(t *testing.T) {
	topic := CourtTopic("8d0f6a4e-0c53-4f0e-9a57-0f0d2f1d5b11", "2030-01-10")
	parsed, err := ParseTopic(topic.String())
	require.NoError(t, err)
	assert.Equal(t, topic, parsed)
}

func TestParseTopic_Rejects(t *testing.T) {
	for _, in := range []string{
		"",
		"court",
		"court:abc",
		"court::2030-01-10",
		"room:abc:2030-01-10",
		"court:abc:10-01-2030",
		"court:abc:",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseTopic(in)
			assert.Error(t, err)
		})
	}
}
