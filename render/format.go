// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import "github.com/gogpu/gputypes"

// BytesPerPixel returns the storage size of one texel, or 0 for formats
// the allocators in this module do not create.
func BytesPerPixel(format gputypes.TextureFormat) uint32 {
	switch format {
	case gputypes.TextureFormatR8Unorm:
		return 1
	case gputypes.TextureFormatR16Float:
		return 2
	case gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatBGRA8Unorm,
		gputypes.TextureFormatR32Float, gputypes.TextureFormatRG16Float:
		return 4
	case gputypes.TextureFormatRGBA16Float:
		return 8
	case gputypes.TextureFormatRGBA32Float:
		return 16
	default:
		return 0
	}
}

// TextureBytes returns the memory footprint of a single-mip texture.
func TextureBytes(width, height uint32, format gputypes.TextureFormat) uint64 {
	return uint64(width) * uint64(height) * uint64(BytesPerPixel(format))
}
