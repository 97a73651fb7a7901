// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package taa implements the temporal accumulation core of a temporal
// anti-aliasing pass for a host renderer.
//
// # Overview
//
// taa does not draw. For every camera and frame it produces:
//   - a sub-pixel jittered projection matrix for geometry submission
//   - double-buffered history textures (colour, velocity magnitude and
//     optionally object id) with a reset signal when they are recreated
//   - a parameter block and shader keywords for the host's resolve shader
//
// The host records and submits all GPU work.
//
// # Quick Start
//
//	alloc := render.NewMemoryAllocator(8192) // or taa.NewFromProvider(device)
//	f := taa.New(alloc, taa.WithShaderLibrary(taa.ShaderMap{
//	    taa.ResolveShaderName: resolveWGSL,
//	}))
//	defer f.Close()
//
//	frame, err := f.BeginCamera(taa.Camera{ID: 1, Kind: taa.KindPrimary, View: view})
//	if err != nil {
//	    // render without temporal accumulation
//	}
//	drawScene(frame.Projection().Jittered)
//	err = frame.Resolve(func(in taa.ResolveInputs) error {
//	    return recordResolve(in)
//	})
//
// # Frame Protocol
//
// Each camera State runs the phases AwaitJitter, Jittered,
// BuffersEnsured, ParametersReady and Resolved in order. Calls out of
// order return ErrOutOfOrder. Ending a frame early still swaps history
// slots.
//
// # Matrix Conventions
//
// Projection decomposition is delegated to a Convention. OpenGL (clip z
// in [-1, 1]) and WebGPU (clip z in [0, 1]) are provided; both use
// column-major Mat4 values.
//
// # Configuration
//
// Settings load from TOML (LoadSettings) and overlay from the
// environment (Settings.ApplyEnv). Code configuration uses functional
// options.
//
// # Logging
//
// taa is silent by default. See SetLogger.
package taa
