// Package gpu provides the wgpu render backend for paint.Editor.
//
// The backend mirrors layer surfaces into textures and runs the composite,
// selection and present passes on the GPU. Document content stays on the
// CPU; brush stamping is never moved to the device.
//
// If the host application already owns a device (e.g. a gogpu window), share
// it instead of opening a second one:
//
//	backend, err := gpu.FromProvider(app, 800, 600)
//	if err != nil {
//	    backend, err = render.NewSoftwareBackend(800, 600)
//	}
//	ed, err := paint.New(800, 600, paint.WithBackend(backend))
//
// Usage without a host device:
//
//	backend, err := gpu.New(800, 600) // opens a Vulkan device
package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	_ "github.com/gogpu/wgpu/hal/vulkan"

	gpuimpl "github.com/gogpu/paint/internal/gpu"
	"github.com/gogpu/paint/render"
)

// ErrNoAdapter is returned by New when no usable GPU is found.
var ErrNoAdapter = errors.New("gpu: no GPU adapter found")

// ErrNotHALProvider is returned by FromProvider for providers that do not
// expose HAL types.
var ErrNotHALProvider = errors.New("gpu: provider does not expose HAL device and queue")

// New opens a device on the Vulkan HAL backend and creates a backend for a
// width by height canvas. Closing the backend releases the device.
func New(width, height int) (render.Backend, error) {
	api, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, fmt.Errorf("%w: vulkan backend not available", ErrNoAdapter)
	}
	instance, err := api.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("gpu: create instance: %w", err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoAdapter
	}
	selected := &adapters[0]
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}

	open, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("gpu: open device: %w", err)
	}
	release := func() {
		open.Device.Destroy()
		instance.Destroy()
	}
	b, err := gpuimpl.New(open.Device, open.Queue, width, height, gpuimpl.WithRelease(release))
	if err != nil {
		release()
		return nil, err
	}
	return b, nil
}

// FromDevice creates a backend on a device owned by the caller.
func FromDevice(device hal.Device, queue hal.Queue, width, height int) (render.Backend, error) {
	return gpuimpl.New(device, queue, width, height)
}

// FromProvider creates a backend on a shared device. The provider must
// implement HalDevice() any and HalQueue() any returning hal.Device and
// hal.Queue; a render.DeviceHandle from gogpu does.
func FromProvider(provider any, width, height int) (render.Backend, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNotHALProvider
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNotHALProvider)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNotHALProvider)
	}
	if h, ok := provider.(render.DeviceHandle); ok && render.IsSoftwareAdapter(h) {
		return nil, fmt.Errorf("%w: software adapter", ErrNoAdapter)
	}
	return FromDevice(device, queue, width, height)
}

// ValidateShaders compiles the backend's WGSL with naga. Hosts can call it
// at startup to fail early on drivers that reject translated shaders.
func ValidateShaders() error { return gpuimpl.ValidateShaders() }
