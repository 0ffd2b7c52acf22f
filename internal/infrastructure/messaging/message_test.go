package messaging

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateBackoff(t *testing.T) {
	cfg := BackoffConfig{Initial: time.Second, Max: time.Minute, Multiplier: 2}

	tests := []struct {
		retries int
		want    time.Duration
	}{
		{0, time.Second},
		{1, 2 * time.Second},
		{3, 8 * time.Second},
		{5, 32 * time.Second},
		{6, time.Minute},
		{100, time.Minute},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, cfg.CalculateBackoff(tt.retries), "retries=%d", tt.retries)
	}
}

func TestIndexSyncMessagePayload(t *testing.T) {
	msg, err := NewMessage("m1", MsgTypeIndexSync, &IndexSyncMessage{
		AnimalID: "a1",
		Op:       IndexOpUpsert,
	})
	require.NoError(t, err)

	msg.SetMetadata("request_id", "r1")
	assert.Equal(t, "r1", msg.GetMetadata("request_id"))
	assert.Empty(t, msg.GetMetadata("missing"))

	var decoded IndexSyncMessage
	require.NoError(t, msg.UnmarshalPayload(&decoded))
	assert.Equal(t, "a1", decoded.AnimalID)
	assert.Equal(t, IndexOpUpsert, decoded.Op)
}

func TestDLQStreamName(t *testing.T) {
	assert.Equal(t, "dlq:stream:index:sync", StreamIndexSync.DLQStream())
}
