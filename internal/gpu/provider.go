package gpu

import (
	"errors"

	"github.com/gogpu/wgpu/hal"
)

// ErrNoHAL is returned when a device provider does not expose HAL types.
var ErrNoHAL = errors.New("gpu: provider does not expose a HAL device")

// halProvider is implemented by host device providers (e.g., gogpu) that
// give direct access to their hal.Device.
type halProvider interface {
	HalDevice() any
}

// DeviceFromProvider extracts the hal.Device shared by a host provider.
func DeviceFromProvider(provider any) (hal.Device, error) {
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHAL
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, ErrNoHAL
	}
	return device, nil
}
