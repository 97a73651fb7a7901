package gpu

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/taa/render"
)

// DefaultMaxTextureSize is the WebGPU default for maxTextureDimension2D,
// used when the host does not report its device limits.
const DefaultMaxTextureSize = 8192

// ErrNilDevice is returned when a TextureAllocator has no device.
var ErrNilDevice = errors.New("gpu: nil HAL device")

// TextureAllocator creates render.Textures on a host-owned hal.Device.
// Each texture is created together with a default full view, the way the
// resolve pass binds history images.
//
// TextureAllocator is safe for concurrent use; the device is never
// destroyed by it.
type TextureAllocator struct {
	device  hal.Device
	maxSize uint32

	mu   sync.Mutex
	live int
}

// NewTextureAllocator wraps device. maxTextureSize of zero selects
// DefaultMaxTextureSize.
func NewTextureAllocator(device hal.Device, maxTextureSize uint32) *TextureAllocator {
	if maxTextureSize == 0 {
		maxTextureSize = DefaultMaxTextureSize
	}
	return &TextureAllocator{device: device, maxSize: maxTextureSize}
}

// Capabilities implements render.CapabilityReporter.
func (a *TextureAllocator) Capabilities() render.DeviceCapabilities {
	return render.DeviceCapabilities{
		MaxTextureSize:          a.maxSize,
		SupportsStorageTextures: true,
		DeviceName:              "hal",
	}
}

// Live returns the number of textures created and not yet destroyed.
func (a *TextureAllocator) Live() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.live
}

// CreateTexture implements render.TextureAllocator.
func (a *TextureAllocator) CreateTexture(desc render.TextureDescriptor) (render.Texture, error) {
	if a.device == nil {
		return nil, ErrNilDevice
	}

	mips, samples := desc.MipLevelCount, desc.SampleCount
	if mips == 0 {
		mips = 1
	}
	if samples == 0 {
		samples = 1
	}

	tex, err := a.device.CreateTexture(&hal.TextureDescriptor{
		Label:         desc.Label,
		Size:          hal.Extent3D{Width: desc.Width, Height: desc.Height, DepthOrArrayLayers: 1},
		MipLevelCount: mips,
		SampleCount:   samples,
		Dimension:     gputypes.TextureDimension2D,
		Format:        desc.Format,
		Usage:         halUsage(desc.Usage),
	})
	if err != nil {
		return nil, fmt.Errorf("create texture %q: %w", desc.Label, err)
	}

	view, err := a.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label: desc.Label + "_view",
	})
	if err != nil {
		a.device.DestroyTexture(tex)
		return nil, fmt.Errorf("create texture view %q: %w", desc.Label, err)
	}

	a.mu.Lock()
	a.live++
	a.mu.Unlock()

	logger().Debug("gpu: texture created",
		"label", desc.Label, "width", desc.Width, "height", desc.Height, "format", desc.Format)

	return &halTexture{
		alloc:  a,
		tex:    tex,
		view:   view,
		label:  desc.Label,
		width:  desc.Width,
		height: desc.Height,
		format: desc.Format,
	}, nil
}

func halUsage(u render.TextureUsage) gputypes.TextureUsage {
	var out gputypes.TextureUsage
	if u.Has(render.TextureUsageCopySrc) {
		out |= gputypes.TextureUsageCopySrc
	}
	if u.Has(render.TextureUsageCopyDst) {
		out |= gputypes.TextureUsageCopyDst
	}
	if u.Has(render.TextureUsageTextureBinding) {
		out |= gputypes.TextureUsageTextureBinding
	}
	if u.Has(render.TextureUsageStorageBinding) {
		out |= gputypes.TextureUsageStorageBinding
	}
	if u.Has(render.TextureUsageRenderAttachment) {
		out |= gputypes.TextureUsageRenderAttachment
	}
	return out
}

// halTexture is a hal.Texture plus its default view.
type halTexture struct {
	alloc  *TextureAllocator
	tex    hal.Texture
	view   hal.TextureView
	label  string
	width  uint32
	height uint32
	format gputypes.TextureFormat
}

func (t *halTexture) Label() string                  { return t.label }
func (t *halTexture) Width() uint32                  { return t.width }
func (t *halTexture) Height() uint32                 { return t.height }
func (t *halTexture) Format() gputypes.TextureFormat { return t.format }

// Native returns the hal.Texture, or nil after Destroy.
func (t *halTexture) Native() any {
	if t.tex == nil {
		return nil
	}
	return t.tex
}

// NativeView returns the hal.TextureView, or nil after Destroy.
func (t *halTexture) NativeView() any {
	if t.view == nil {
		return nil
	}
	return t.view
}

// Destroy releases the view, then the texture.
func (t *halTexture) Destroy() {
	if t.tex == nil {
		return
	}
	device := t.alloc.device
	if t.view != nil {
		device.DestroyTextureView(t.view)
		t.view = nil
	}
	device.DestroyTexture(t.tex)
	t.tex = nil

	t.alloc.mu.Lock()
	t.alloc.live--
	t.alloc.mu.Unlock()
}
