// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// DeviceHandle provides GPU device access from the host renderer.
//
// The host owns the device: taa RECEIVES it and never creates one. The
// host implements DeviceHandle (usually a gogpu context) and, to let taa
// allocate history textures directly, also exposes HalDevice() any
// returning a hal.Device.
//
// DeviceHandle is an alias for gpucontext.DeviceProvider so any provider
// from the gpucontext ecosystem can be passed unchanged.
type DeviceHandle = gpucontext.DeviceProvider

// TextureDescriptor describes parameters for creating a texture.
// This mirrors the WebGPU GPUTextureDescriptor specification.
type TextureDescriptor struct {
	// Label is an optional debug label for the texture.
	Label string

	// Width is the texture width in pixels.
	Width uint32

	// Height is the texture height in pixels.
	Height uint32

	// MipLevelCount is the number of mipmap levels.
	// Use 1 for no mipmaps.
	MipLevelCount uint32

	// SampleCount is the number of samples for multisampling.
	// Use 1 for no multisampling.
	SampleCount uint32

	// Format is the texture pixel format.
	Format gputypes.TextureFormat

	// Usage specifies how the texture will be used.
	Usage TextureUsage
}

// TextureUsage specifies how a texture can be used.
// These flags can be combined with bitwise OR.
type TextureUsage uint32

const (
	// TextureUsageCopySrc allows the texture to be used as a copy source.
	TextureUsageCopySrc TextureUsage = 1 << iota

	// TextureUsageCopyDst allows the texture to be used as a copy destination.
	TextureUsageCopyDst

	// TextureUsageTextureBinding allows the texture to be used in a texture binding.
	TextureUsageTextureBinding

	// TextureUsageStorageBinding allows the texture to be used in a storage binding.
	TextureUsageStorageBinding

	// TextureUsageRenderAttachment allows the texture to be used as a render attachment.
	TextureUsageRenderAttachment
)

// Has reports whether all flags in f are set.
func (u TextureUsage) Has(f TextureUsage) bool {
	return u&f == f
}

// Texture is a GPU image owned by whoever allocated it.
type Texture interface {
	// Label returns the debug label given at creation.
	Label() string

	// Width returns the texture width in pixels.
	Width() uint32

	// Height returns the texture height in pixels.
	Height() uint32

	// Format returns the texture pixel format.
	Format() gputypes.TextureFormat

	// Native returns the backend handle (a hal.Texture for the HAL
	// allocator, a []byte for the memory allocator).
	Native() any

	// NativeView returns the backend's default full-texture view, or nil
	// if the backend has no views. The view is owned by the texture.
	NativeView() any

	// Destroy releases the texture and its default view. Destroy is
	// idempotent.
	Destroy()
}

// TextureAllocator creates textures on behalf of the host.
type TextureAllocator interface {
	CreateTexture(desc TextureDescriptor) (Texture, error)
}

// CapabilityReporter is implemented by allocators that know their device
// limits. Callers check for it with a type assertion.
type CapabilityReporter interface {
	Capabilities() DeviceCapabilities
}

// DefaultTextureDescriptor returns a TextureDescriptor with sensible defaults.
// Only Width, Height, and Format need to be set.
func DefaultTextureDescriptor(width, height uint32, format gputypes.TextureFormat) TextureDescriptor {
	return TextureDescriptor{
		Width:         width,
		Height:        height,
		MipLevelCount: 1,
		SampleCount:   1,
		Format:        format,
		Usage:         TextureUsageTextureBinding | TextureUsageRenderAttachment,
	}
}

// DeviceCapabilities describes the capabilities of a GPU device.
type DeviceCapabilities struct {
	// MaxTextureSize is the maximum texture dimension supported.
	// Zero means unknown.
	MaxTextureSize uint32

	// SupportsStorageTextures indicates if storage textures are supported.
	SupportsStorageTextures bool

	// VendorName is the GPU vendor name.
	VendorName string

	// DeviceName is the GPU device name.
	DeviceName string
}

// Fits reports whether a width x height texture is within the device
// limits. Unknown limits always fit.
func (c DeviceCapabilities) Fits(width, height uint32) bool {
	if c.MaxTextureSize == 0 {
		return true
	}
	return width <= c.MaxTextureSize && height <= c.MaxTextureSize
}
