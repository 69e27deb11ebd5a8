package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextRoundTrip(t *testing.T) {
	ctx := context.Background()

	assert.Empty(t, GetNotificationID(ctx))
	assert.Empty(t, GetDeviceID(ctx))

	ctx = WithNotificationID(ctx, "notif-1")
	ctx = WithDeviceID(ctx, "device-1")

	assert.Equal(t, "notif-1", GetNotificationID(ctx))
	assert.Equal(t, "device-1", GetDeviceID(ctx))
}

func TestContextHook_Run(t *testing.T) {
	tests := []struct {
		name      string
		setupCtx  func() context.Context
		wantKeys  []string
		wantEmpty []string
	}{
		{
			name: "both ids",
			setupCtx: func() context.Context {
				ctx := WithNotificationID(context.Background(), "notif-1")
				return WithDeviceID(ctx, "device-1")
			},
			wantKeys: []string{"notification_id", "device_id"},
		},
		{
			name: "only notification_id",
			setupCtx: func() context.Context {
				return WithNotificationID(context.Background(), "notif-1")
			},
			wantKeys:  []string{"notification_id"},
			wantEmpty: []string{"device_id"},
		},
		{
			name:      "no context values",
			setupCtx:  context.Background,
			wantEmpty: []string{"notification_id", "device_id"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := zerolog.New(&buf).Hook(ContextHook{})
			logger.Info().Ctx(tt.setupCtx()).Msg("test")

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

			for _, key := range tt.wantKeys {
				assert.Contains(t, entry, key)
			}
			for _, key := range tt.wantEmpty {
				assert.NotContains(t, entry, key)
			}
		})
	}
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf)

	logger := Component("badge")
	logger.Info().Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "badge", entry["cmp"])
	assert.Equal(t, "hello", entry["message"])
}
