// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"
)

// ErrUnsupportedFormat is returned for texture formats the memory
// allocator cannot size.
var ErrUnsupportedFormat = errors.New("render: unsupported texture format")

// ErrTextureTooLarge is returned when a texture exceeds the allocator's
// maximum dimension.
var ErrTextureTooLarge = errors.New("render: texture exceeds maximum size")

// MemoryAllocator is a CPU-backed TextureAllocator.
//
// It backs each texture with a zeroed byte slice. Headless hosts, tools
// and tests use it where no GPU device is available.
//
// MemoryAllocator is safe for concurrent use.
type MemoryAllocator struct {
	mu        sync.Mutex
	maxSize   uint32
	created   int
	destroyed int
	liveBytes uint64
}

// MemoryStats reports allocation counters of a MemoryAllocator.
type MemoryStats struct {
	Created   int
	Destroyed int
	Live      int
	LiveBytes uint64
}

// String returns a human-readable summary.
func (s MemoryStats) String() string {
	return fmt.Sprintf("Memory[%d live, %d created, %d destroyed, %d KB]",
		s.Live, s.Created, s.Destroyed, s.LiveBytes/1024)
}

// NewMemoryAllocator creates a CPU allocator. A maxTextureSize of zero
// means no limit.
func NewMemoryAllocator(maxTextureSize uint32) *MemoryAllocator {
	return &MemoryAllocator{maxSize: maxTextureSize}
}

// Capabilities implements CapabilityReporter.
func (a *MemoryAllocator) Capabilities() DeviceCapabilities {
	return DeviceCapabilities{
		MaxTextureSize:          a.maxSize,
		SupportsStorageTextures: true,
		VendorName:              "cpu",
		DeviceName:              "memory",
	}
}

// CreateTexture implements TextureAllocator.
func (a *MemoryAllocator) CreateTexture(desc TextureDescriptor) (Texture, error) {
	if desc.Width == 0 || desc.Height == 0 {
		return nil, fmt.Errorf("render: create %q: zero size %dx%d", desc.Label, desc.Width, desc.Height)
	}
	if a.maxSize != 0 && (desc.Width > a.maxSize || desc.Height > a.maxSize) {
		return nil, fmt.Errorf("%w: %q is %dx%d, limit %d",
			ErrTextureTooLarge, desc.Label, desc.Width, desc.Height, a.maxSize)
	}
	bpp := BytesPerPixel(desc.Format)
	if bpp == 0 {
		return nil, fmt.Errorf("%w: %q format %v", ErrUnsupportedFormat, desc.Label, desc.Format)
	}

	size := uint64(desc.Width) * uint64(desc.Height) * uint64(bpp)

	a.mu.Lock()
	a.created++
	a.liveBytes += size
	a.mu.Unlock()

	return &memoryTexture{
		alloc:  a,
		label:  desc.Label,
		width:  desc.Width,
		height: desc.Height,
		format: desc.Format,
		pixels: make([]byte, size),
	}, nil
}

// Stats returns a snapshot of the allocation counters.
func (a *MemoryAllocator) Stats() MemoryStats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return MemoryStats{
		Created:   a.created,
		Destroyed: a.destroyed,
		Live:      a.created - a.destroyed,
		LiveBytes: a.liveBytes,
	}
}

func (a *MemoryAllocator) release(size uint64) {
	a.mu.Lock()
	a.destroyed++
	a.liveBytes -= size
	a.mu.Unlock()
}

// memoryTexture is a texture whose texels live in a Go byte slice.
type memoryTexture struct {
	alloc  *MemoryAllocator
	label  string
	width  uint32
	height uint32
	format gputypes.TextureFormat
	pixels []byte
}

func (t *memoryTexture) Label() string                  { return t.label }
func (t *memoryTexture) Width() uint32                  { return t.width }
func (t *memoryTexture) Height() uint32                 { return t.height }
func (t *memoryTexture) Format() gputypes.TextureFormat { return t.format }
func (t *memoryTexture) NativeView() any                { return nil }

// Native returns the texel storage, or nil after Destroy.
func (t *memoryTexture) Native() any {
	if t.pixels == nil {
		return nil
	}
	return t.pixels
}

func (t *memoryTexture) Destroy() {
	if t.pixels == nil {
		return
	}
	size := uint64(len(t.pixels))
	t.pixels = nil
	t.alloc.release(size)
}

// Pixels returns the texel storage of a texture created by a
// MemoryAllocator, or nil for any other texture.
func Pixels(tex Texture) []byte {
	if mt, ok := tex.(*memoryTexture); ok {
		return mt.pixels
	}
	return nil
}
