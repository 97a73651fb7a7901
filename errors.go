// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package taa

import (
	"errors"

	"github.com/gogpu/taa/internal/gpu"
)

// Errors returned by the temporal anti-aliasing core. All of them are
// recoverable: the affected camera renders without temporal accumulation
// for the frame and retries on the next one.
var (
	// ErrMissingResource is returned when the resolve shader cannot be
	// found or compiled. History buffers are left untouched.
	ErrMissingResource = errors.New("taa: resolve shader unavailable")

	// ErrInvalidFrustum is returned when a projection matrix decomposes
	// into non-finite or inverted side planes.
	ErrInvalidFrustum = errors.New("taa: invalid projection frustum")

	// ErrBufferAllocation is returned when history textures cannot be
	// allocated. The camera falls back to non-temporal rendering.
	ErrBufferAllocation = errors.New("taa: history buffer allocation failed")

	// ErrOutOfOrder is returned when a per-frame step is called in the
	// wrong phase.
	ErrOutOfOrder = errors.New("taa: frame step called out of order")

	// ErrTransientCamera is returned when persistent history is requested
	// for a camera that is not classified as primary.
	ErrTransientCamera = errors.New("taa: camera does not keep temporal history")

	// ErrInvalidSize is returned for zero-sized targets.
	ErrInvalidSize = errors.New("taa: invalid target size")

	// ErrMismatchedHistory is returned when colour and velocity history
	// are requested with different dimensions.
	ErrMismatchedHistory = errors.New("taa: colour and velocity history sizes differ")

	// ErrClosed is returned when using a closed Registry or Feature.
	ErrClosed = errors.New("taa: closed")

	// ErrNoHAL is returned by NewFromProvider when the device provider
	// does not expose a HAL device.
	ErrNoHAL = gpu.ErrNoHAL
)
