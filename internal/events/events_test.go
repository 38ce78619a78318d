package events_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dukerupert/wagsales/internal"
	"github.com/dukerupert/wagsales/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderPayload struct {
	Number string `json:"number"`
	Total  string `json:"total"`
}

func TestEnvelopeRoundTrip(t *testing.T) {
	now := time.Date(2025, 3, 10, 15, 0, 0, 0, time.FixedZone("BRT", -3*3600))

	env, err := events.NewEnvelope(events.TypeOrderPlaced, "WS-ABC", orderPayload{Number: "WS-ABC", Total: "154.90"}, now)
	require.NoError(t, err)

	assert.NotEmpty(t, env.ID)
	assert.Equal(t, events.TypeOrderPlaced, env.Type)
	assert.Equal(t, "WS-ABC", env.Key)
	assert.Equal(t, time.UTC, env.OccurredAt.Location())

	got, err := events.Decode[orderPayload](env)
	require.NoError(t, err)
	assert.Equal(t, orderPayload{Number: "WS-ABC", Total: "154.90"}, got)
}

func TestNewEnvelope_UnencodablePayload(t *testing.T) {
	_, err := events.NewEnvelope(events.TypeOrderPlaced, "", make(chan int), time.Now())
	assert.Error(t, err)
}

func TestRecordingPublisher(t *testing.T) {
	p := &events.RecordingPublisher{}
	env, err := events.NewEnvelope(events.TypeOrderPlaced, "k", orderPayload{}, time.Now())
	require.NoError(t, err)

	require.NoError(t, p.Publish(context.Background(), env))
	assert.Len(t, p.Published(), 1)

	p.Err = errors.New("broker down")
	assert.Error(t, p.Publish(context.Background(), env))
	assert.Len(t, p.Published(), 1)
}

func TestNewPublisher(t *testing.T) {
	p, err := events.NewPublisher(internal.EventsConfig{})
	require.NoError(t, err)
	assert.IsType(t, events.NoopPublisher{}, p)

	p, err = events.NewPublisher(internal.EventsConfig{Driver: "kafka", KafkaBrokers: "localhost:9092", Subject: "orders.placed"})
	require.NoError(t, err)
	assert.IsType(t, &events.KafkaPublisher{}, p)
	assert.NoError(t, p.Close())

	_, err = events.NewPublisher(internal.EventsConfig{Driver: "sqs"})
	assert.Error(t, err)
}
