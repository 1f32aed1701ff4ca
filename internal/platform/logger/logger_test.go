package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromContext_ReturnsStoredLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := zap.New(core).With(zap.String("request_id", "req-1"))

	ctx := WithContext(context.Background(), l)
	FromContext(ctx).Info("hello")

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "req-1", entries[0].ContextMap()["request_id"])
	}
}

func TestFromContext_FallsBackToGlobal(t *testing.T) {
	assert.Same(t, zap.L(), FromContext(context.Background()))
	assert.Equal(t, context.Background(), WithContext(context.Background(), nil))
}

func TestNew_BuildsForBothEnvironments(t *testing.T) {
	for _, env := range []string{"development", "production"} {
		l, err := New(env, "service-payment")
		assert.NoError(t, err, env)
		assert.NotNil(t, l, env)
	}
}
