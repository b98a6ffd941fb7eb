package wgpu

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/core"

	"github.com/veilgpu/veil/backend"
	"github.com/veilgpu/veil/profile"
)

// ErrNoGPU is returned when no suitable GPU adapter is available.
var ErrNoGPU = errors.New("wgpu: no GPU adapter available")

// Backend probes the real GPU through gogpu/wgpu.
//
// The probe manages its own instance, adapter, device, and queue
// unless a host device is shared via SetDeviceProvider.
type Backend struct {
	mu sync.RWMutex

	// GPU resources
	instance *core.Instance
	adapter  core.AdapterID
	device   core.DeviceID
	queue    core.QueueID

	// Shared host device, if any. When set the probe does not create
	// its own device and does not drop the provider's on Close.
	provider gpucontext.DeviceProvider

	// Probed values
	info   *GPUInfo
	limits gputypes.Limits

	// State
	initialized bool
	haveLimits  bool
}

// init registers the probe on package import.
func init() {
	backend.Register(backend.BackendWGPU, func() backend.Backend {
		return &Backend{}
	})
}

// NewBackend creates a new hardware probe.
// The probe must be initialized with Init() before use.
func NewBackend() *Backend {
	return &Backend{}
}

// Name returns the backend identifier.
func (b *Backend) Name() string {
	return backend.BackendWGPU
}

// SetDeviceProvider shares a host application's GPU device with the
// probe. Must be called before Init; calls after Init are ignored.
func (b *Backend) SetDeviceProvider(p gpucontext.DeviceProvider) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.initialized {
		return
	}
	b.provider = p
}

// Init initializes the probe by creating GPU resources.
// This includes creating an instance, requesting an adapter, and,
// when no host device is shared, creating a device to read limits.
//
// Returns an error if GPU initialization fails.
func (b *Backend) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.initialized {
		return nil
	}

	// Step 1: Create Instance
	desc := &gputypes.InstanceDescriptor{
		Backends: gputypes.BackendsPrimary,
		Flags:    0,
	}
	b.instance = core.NewInstance(desc)

	// Step 2: Request Adapter (prefer high performance GPU)
	adapterID, err := b.instance.RequestAdapter(&gputypes.RequestAdapterOptions{
		PowerPreference: gputypes.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNoGPU, err)
	}
	b.adapter = adapterID

	b.info, err = getGPUInfo(adapterID)
	if err != nil {
		_ = releaseAdapter(adapterID)
		b.adapter = core.AdapterID{}
		return fmt.Errorf("adapter info failed: %w", err)
	}

	// Step 3: Create Device, unless the host shares one.
	if b.provider == nil {
		deviceID, err := createDevice(adapterID, "veil-probe-device")
		if err != nil {
			return fmt.Errorf("device creation failed: %w", err)
		}
		b.device = deviceID

		queueID, err := getDeviceQueue(deviceID)
		if err != nil {
			_ = releaseDevice(deviceID)
			b.device = core.DeviceID{}
			return fmt.Errorf("queue retrieval failed: %w", err)
		}
		b.queue = queueID

		// Step 4: Read device limits once; queries answer from the copy.
		limits, err := core.GetDeviceLimits(deviceID)
		if err != nil {
			log.Printf("wgpu: failed to read device limits: %v", err)
		} else {
			b.limits = limits
			b.haveLimits = true
		}
	}

	b.initialized = true
	return nil
}

// Close releases all probe resources.
// The probe should not be used after Close is called.
func (b *Backend) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return
	}

	// Release resources in reverse order of creation.
	// A shared host device is never dropped here.

	if !b.device.IsZero() {
		if err := releaseDevice(b.device); err != nil {
			log.Printf("wgpu: error releasing device: %v", err)
		}
		b.device = core.DeviceID{}
	}

	if !b.adapter.IsZero() {
		if err := releaseAdapter(b.adapter); err != nil {
			log.Printf("wgpu: error releasing adapter: %v", err)
		}
		b.adapter = core.AdapterID{}
	}

	b.instance = nil
	b.queue = core.QueueID{}
	b.info = nil
	b.haveLimits = false
	b.initialized = false
}

// Info returns the probed GPU information, or nil before Init.
func (b *Backend) Info() *GPUInfo {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.info
}

// RealString answers identity-string queries from the adapter info.
// wgpu has no GL version string, so version queries report not-found.
func (b *Backend) RealString(name profile.StringName) (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.initialized || b.info == nil {
		return "", false
	}

	switch name {
	case profile.StringVendor, profile.StringUnmaskedVendor:
		return b.info.Vendor, b.info.Vendor != ""
	case profile.StringRenderer, profile.StringUnmaskedRenderer:
		return b.info.Name, b.info.Name != ""
	default:
		return "", false
	}
}

// RealInteger answers limit queries from the device limits.
// wgpu exposes a single 2D texture dimension cap, which bounds the
// GL texture, cube map, and renderbuffer sizes alike.
func (b *Backend) RealInteger(p profile.Param) (int64, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.initialized || !b.haveLimits {
		return 0, false
	}

	switch p {
	case profile.ParamMaxTextureSize,
		profile.ParamMaxCubeMapTextureSize,
		profile.ParamMaxRenderbufferSize:
		return int64(b.limits.MaxTextureDimension2D), true
	default:
		return 0, false
	}
}

// RealFloat reports not-found; wgpu exposes no float-valued GL limits.
func (b *Backend) RealFloat(profile.Param) (float64, bool) {
	return 0, false
}

// RealShaderPrecision reports not-found. WGSL fixes precision per type
// and has no per-adapter range/precision format to report.
func (b *Backend) RealShaderPrecision(profile.ShaderStage, profile.PrecisionLevel) (profile.Precision, bool) {
	return profile.Precision{}, false
}

// RealExtensions reports nil; wgpu features do not map onto the GL
// extension namespace.
func (b *Backend) RealExtensions(profile.APIGeneration) []string {
	return nil
}

// Interface compliance check.
var _ backend.Backend = (*Backend)(nil)
