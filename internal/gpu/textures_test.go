package gpu

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/taa/render"
)

// newNoopDevice opens the first adapter of the noop HAL backend.
func newNoopDevice(t *testing.T) hal.Device {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		t.Fatal("noop backend has no adapters")
	}
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() {
		openDev.Device.Destroy()
		instance.Destroy()
	})
	return openDev.Device
}

func TestTextureAllocatorCreateDestroy(t *testing.T) {
	a := NewTextureAllocator(newNoopDevice(t), 0)

	desc := render.DefaultTextureDescriptor(1920, 1080, gputypes.TextureFormatRGBA16Float)
	desc.Label = "camera_1_color_history_0"
	desc.Usage |= render.TextureUsageStorageBinding | render.TextureUsageCopyDst

	tex, err := a.CreateTexture(desc)
	if err != nil {
		t.Fatalf("CreateTexture: %v", err)
	}
	if tex.Width() != 1920 || tex.Height() != 1080 {
		t.Errorf("size = %dx%d, want 1920x1080", tex.Width(), tex.Height())
	}
	if tex.Label() != desc.Label {
		t.Errorf("Label() = %q, want %q", tex.Label(), desc.Label)
	}
	if _, ok := tex.Native().(hal.Texture); !ok {
		t.Errorf("Native() = %T, want hal.Texture", tex.Native())
	}
	if _, ok := tex.NativeView().(hal.TextureView); !ok {
		t.Errorf("NativeView() = %T, want hal.TextureView", tex.NativeView())
	}
	if a.Live() != 1 {
		t.Errorf("Live() = %d, want 1", a.Live())
	}

	tex.Destroy()
	tex.Destroy()
	if a.Live() != 0 {
		t.Errorf("Live() = %d after destroy, want 0", a.Live())
	}
	if tex.Native() != nil || tex.NativeView() != nil {
		t.Error("handles should be nil after Destroy")
	}
}

func TestTextureAllocatorNilDevice(t *testing.T) {
	a := NewTextureAllocator(nil, 0)
	_, err := a.CreateTexture(render.DefaultTextureDescriptor(4, 4, gputypes.TextureFormatR16Float))
	if !errors.Is(err, ErrNilDevice) {
		t.Errorf("err = %v, want ErrNilDevice", err)
	}
}

func TestTextureAllocatorCapabilities(t *testing.T) {
	tests := []struct {
		max  uint32
		want uint32
	}{
		{0, DefaultMaxTextureSize},
		{4096, 4096},
	}
	for _, tt := range tests {
		a := NewTextureAllocator(nil, tt.max)
		if got := a.Capabilities().MaxTextureSize; got != tt.want {
			t.Errorf("NewTextureAllocator(_, %d).MaxTextureSize = %d, want %d", tt.max, got, tt.want)
		}
	}
}

func TestHalUsage(t *testing.T) {
	tests := []struct {
		in   render.TextureUsage
		want gputypes.TextureUsage
	}{
		{0, 0},
		{render.TextureUsageCopySrc, gputypes.TextureUsageCopySrc},
		{render.TextureUsageCopyDst, gputypes.TextureUsageCopyDst},
		{render.TextureUsageTextureBinding, gputypes.TextureUsageTextureBinding},
		{render.TextureUsageStorageBinding, gputypes.TextureUsageStorageBinding},
		{render.TextureUsageRenderAttachment, gputypes.TextureUsageRenderAttachment},
		{
			render.TextureUsageTextureBinding | render.TextureUsageRenderAttachment,
			gputypes.TextureUsageTextureBinding | gputypes.TextureUsageRenderAttachment,
		},
	}
	for _, tt := range tests {
		if got := halUsage(tt.in); got != tt.want {
			t.Errorf("halUsage(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
