package push

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/colonyops/lifeline/internal/core/notify"
)

// DeviceIDStore persists the stable per-install device id, satisfied by
// the local cache.
type DeviceIDStore interface {
	DeviceID(ctx context.Context) (string, error)
	SetDeviceID(ctx context.Context, id string) error
}

// EnsureRegistered registers the push token with the server under this
// install's device id, generating and persisting the id on first use.
// Called on startup and whenever the provider rotates the token. The
// device id in use is returned.
func EnsureRegistered(ctx context.Context, store notify.Store, ids DeviceIDStore, token string) (string, error) {
	deviceID, err := ids.DeviceID(ctx)
	if err != nil {
		return "", fmt.Errorf("load device id: %w", err)
	}
	if deviceID == "" {
		deviceID = uuid.NewString()
		if err := ids.SetDeviceID(ctx, deviceID); err != nil {
			return "", fmt.Errorf("persist device id: %w", err)
		}
	}

	err = store.RegisterDevice(ctx, notify.Device{
		Token:    token,
		Type:     notify.DeviceWeb,
		DeviceID: deviceID,
	})
	if err != nil {
		return "", fmt.Errorf("register device: %w", err)
	}

	return deviceID, nil
}
