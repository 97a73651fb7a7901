// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package taa

import (
	"encoding/binary"
	"math"
)

// Empirical bounds of the resolve parameters.
const (
	MinAntiFlicker     = 0.0
	MaxAntiFlicker     = 3.5
	MaxMotionRejection = 250.0

	// MinBaseBlend and MaxBaseBlend bound the history weight on a stable
	// pixel.
	MinBaseBlend = 0.6
	MaxBaseBlend = 0.95

	// PreviewHistorySharpening and PreviewAntiFlickerFactor replace the
	// user's settings on preview cameras.
	PreviewHistorySharpening = 0.25
	PreviewAntiFlickerFactor = 0.7

	maxTemporalContrast   = 0.7
	temporalContrastRange = 0.3
)

// FrameInputs is the per-frame state the parameter calculator reads in
// addition to Settings.
type FrameInputs struct {
	// Jitter is the offset applied to this frame's projection.
	Jitter Jitter

	// Width and Height are the colour history size.
	Width, Height int

	// Preview marks a scene-inspection camera.
	Preview bool

	// CameraVelocity is the world-space distance the camera moved since
	// the previous frame.
	CameraVelocity float32

	// ResetHistory is true on the frame history buffers were (re)created.
	ResetHistory bool
}

// ResolveParams is the parameter block bound to the resolve invocation.
type ResolveParams struct {
	// HistorySharpening is the effective sharpening, after the preview
	// override.
	HistorySharpening float32

	// AntiFlicker is in [MinAntiFlicker, MaxAntiFlicker].
	AntiFlicker float32

	// MotionRejection is in [0, MaxMotionRejection].
	MotionRejection float32

	// TemporalContrast is the contrast threshold below which anti-flicker
	// engages. It follows the user's AntiFlicker setting along a
	// smoothstep over [0.5, 1], also on preview cameras.
	TemporalContrast float32

	Filter FilterWeights
	Flags  ModeFlags

	// Jitter is (x, y, x/width, y/height).
	Jitter [4]float32

	// HistorySize is (width, height, 1/width, 1/height).
	HistorySize [4]float32

	// FrameInfo is (sharpen strength, 0, base blend, 1).
	FrameInfo [4]float32

	// ObjectID is (camera velocity, object-id rejection, 0, 0).
	ObjectID [4]float32

	// Scales are per-axis resolution scales, always 1.
	Scales [4]float32

	// ResetHistory tells the resolve stage to ignore history this frame.
	ResetHistory bool
}

// PostParameters returns (history sharpening, anti-flicker, motion
// rejection, temporal contrast).
func (p ResolveParams) PostParameters() [4]float32 {
	return [4]float32{p.HistorySharpening, p.AntiFlicker, p.MotionRejection, p.TemporalContrast}
}

// UniformFloats is the size of the uniform block in float32 words.
const UniformFloats = 32

// Uniform packs the block as eight vec4s: post parameters, filter
// weights, jitter, history size, frame info, object-id parameters,
// scales, and (flags, reset, 0, 0).
func (p ResolveParams) Uniform() [UniformFloats]float32 {
	var u [UniformFloats]float32
	for i, v := range [...][4]float32{
		p.PostParameters(),
		p.Filter.Packed(),
		p.Jitter,
		p.HistorySize,
		p.FrameInfo,
		p.ObjectID,
		p.Scales,
		{float32(p.Flags), boolFloat(p.ResetHistory), 0, 0},
	} {
		copy(u[i*4:], v[:])
	}
	return u
}

// Bytes returns Uniform encoded little-endian, ready for a buffer write.
func (p ResolveParams) Bytes() []byte {
	u := p.Uniform()
	buf := make([]byte, 4*len(u))
	for i, v := range u {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// ComputeParams derives the resolve parameter block. It is a pure
// function; out-of-range settings are clamped first.
func ComputeParams(s Settings, in FrameInputs) ResolveParams {
	s = s.Clamped()

	sharpening := s.HistorySharpening
	flicker := s.AntiFlicker
	if in.Preview {
		sharpening = PreviewHistorySharpening
		flicker = PreviewAntiFlickerFactor
	}

	r := s.MotionVectorRejection
	p := ResolveParams{
		HistorySharpening: sharpening,
		AntiFlicker:       lerp(MinAntiFlicker, MaxAntiFlicker, flicker),
		MotionRejection:   lerp(0, MaxMotionRejection, r*r*r),
		TemporalContrast:  maxTemporalContrast - lerp(0, temporalContrastRange, smoothstep(0.5, 1, s.AntiFlicker)),
		Filter:            FilterWeightsFor(s.Quality),
		Flags:             modeFlags(s),
		Jitter:            in.Jitter.Strength(in.Width, in.Height),
		FrameInfo:         [4]float32{s.SharpenStrength, 0, lerp(MinBaseBlend, MaxBaseBlend, s.BaseBlendFactor), 1},
		ObjectID:          [4]float32{in.CameraVelocity, s.ObjectIDRejection, 0, 0},
		Scales:            [4]float32{1, 1, 1, 1},
		ResetHistory:      in.ResetHistory,
	}
	if in.Width > 0 && in.Height > 0 {
		w, h := float32(in.Width), float32(in.Height)
		p.HistorySize = [4]float32{w, h, 1 / w, 1 / h}
	}
	return p
}

func lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// smoothstep is the cubic Hermite step between edge0 and edge1.
func smoothstep(edge0, edge1, x float32) float32 {
	t := clamp01((x - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}

func boolFloat(b bool) float32 {
	if b {
		return 1
	}
	return 0
}
