package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.FixedZone("EST", -5*3600))

	msg, err := newMessage(BookingCreated, "booking:7", map[string]any{"status": "pending"}, now)
	require.NoError(t, err)

	assert.Equal(t, "booking:7", string(msg.Key))
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "event_type", msg.Headers[1].Key)
	assert.Equal(t, BookingCreated, string(msg.Headers[1].Value))

	var env Envelope
	require.NoError(t, json.Unmarshal(msg.Value, &env))
	assert.Equal(t, BookingCreated, env.EventType)
	assert.Equal(t, string(msg.Headers[0].Value), env.EventID)
	assert.Equal(t, now.UTC(), env.OccurredAt)

	_, err = uuid.Parse(env.EventID)
	assert.NoError(t, err)
}
