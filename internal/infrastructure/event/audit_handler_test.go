package event

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestAuditLogHandler_Handle(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	handler := NewAuditLogHandler(zap.New(core))

	event := newTestEvent("RequestSubmitted")
	err := handler.Handle(context.Background(), event)

	require.NoError(t, err)
	require.Equal(t, 1, logs.Len())

	entry := logs.All()[0]
	assert.Equal(t, "domain event", entry.Message)

	fields := entry.ContextMap()
	assert.Equal(t, "RequestSubmitted", fields["event_type"])
	assert.Equal(t, "TestAggregate", fields["aggregate_type"])
	assert.Equal(t, event.EventID().String(), fields["event_id"])
}

func TestAuditLogHandler_ReceivesAllEventTypes(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	handler := NewAuditLogHandler(zap.New(core))

	bus := NewInMemoryEventBus(zap.NewNop())
	bus.Subscribe(handler)

	err := bus.Publish(context.Background(),
		newTestEvent("RequestSubmitted"),
		newTestEvent("BoardVoteCast"),
		newTestEvent("UserDeleted"),
	)

	require.NoError(t, err)
	assert.Equal(t, 3, logs.Len())
}

func TestAuditLogHandler_EventTypes(t *testing.T) {
	handler := NewAuditLogHandler(zap.NewNop())
	assert.Empty(t, handler.EventTypes())
}
