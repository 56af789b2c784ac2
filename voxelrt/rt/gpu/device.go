package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// NewHeadlessDevice acquires a device and queue without a surface. The caller
// releases the device.
func NewHeadlessDevice() (*wgpu.Device, *wgpu.Queue, error) {
	instance := wgpu.CreateInstance(nil)
	defer instance.Release()

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("request adapter: %w", err)
	}
	defer adapter.Release()

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Octree Bake Device",
	})
	if err != nil {
		return nil, nil, fmt.Errorf("request device: %w", err)
	}
	return device, device.GetQueue(), nil
}
