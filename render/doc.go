// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render defines the boundary between taa and the host renderer.
//
// # Key Principle
//
// taa RECEIVES GPU resources from the host, it does NOT create a device.
// The host passes a TextureAllocator (or a DeviceHandle that exposes a
// HAL device) and taa uses it to create and destroy the history textures
// it owns. Everything else, pass scheduling, command encoding and shader
// execution, stays with the host.
//
// # Core Interfaces
//
//   - DeviceHandle: GPU device access from the host (gpucontext.DeviceProvider)
//   - TextureAllocator: creates textures described by a TextureDescriptor
//   - Texture: an allocated image with its backend handle and default view
//   - CapabilityReporter: optional device limits
//
// # Allocators
//
//   - MemoryAllocator: CPU-backed textures for headless hosts and tools
//   - internal/gpu.TextureAllocator: wgpu/hal textures on a host device
//     (reached through taa.NewFromProvider)
package render
