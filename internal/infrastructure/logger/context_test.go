package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func observedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return zap.New(core), logs
}

func TestWithContext(t *testing.T) {
	log, _ := observedLogger()

	ctx := WithContext(context.Background(), log)
	assert.Same(t, log, FromContext(ctx))
}

func TestFromContext_NoLogger(t *testing.T) {
	log := FromContext(context.Background())

	require.NotNil(t, log)
	// The fallback must swallow writes instead of panicking
	log.Info("ignored")
}

func TestWithRequestID(t *testing.T) {
	log, logs := observedLogger()

	ctx, reqLog := WithRequestID(context.Background(), log, "req-123")

	assert.Equal(t, "req-123", GetRequestID(ctx))
	assert.Same(t, reqLog, FromContext(ctx))

	reqLog.Info("handling")
	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "req-123", entries[0].ContextMap()["request_id"])
}

func TestWithUserID(t *testing.T) {
	log, logs := observedLogger()

	ctx, userLog := WithUserID(context.Background(), log, "user-42")

	assert.Equal(t, "user-42", GetUserID(ctx))

	userLog.Info("acting")
	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "user-42", entries[0].ContextMap()["user_id"])
}

func TestGetRequestID_Empty(t *testing.T) {
	assert.Empty(t, GetRequestID(context.Background()))
	assert.Empty(t, GetUserID(context.Background()))
}

func TestContextIDs_Compose(t *testing.T) {
	log, logs := observedLogger()

	ctx, reqLog := WithRequestID(context.Background(), log, "req-123")
	ctx, userLog := WithUserID(ctx, reqLog, "user-42")

	assert.Equal(t, "req-123", GetRequestID(ctx))
	assert.Equal(t, "user-42", GetUserID(ctx))

	userLog.Info("acting")
	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-123", fields["request_id"])
	assert.Equal(t, "user-42", fields["user_id"])
}
