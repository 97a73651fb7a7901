// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package taa

import "github.com/chewxy/math32"

// SamplePeriod is the length of the jitter sequence in frames.
const SamplePeriod = 8

// Halton returns the radix inverse of index in the given base, the
// i-th element of the Van der Corput sequence. The result lies in [0, 1).
//
// Halton is a pure function; index <= 0 or base < 2 yields 0.
func Halton(index, base int) float32 {
	if index <= 0 || base < 2 {
		return 0
	}
	var result float32
	fraction := 1 / float32(base)
	for index > 0 {
		result += float32(index%base) * fraction
		index /= base
		fraction /= float32(base)
	}
	return result
}

// SampleIndex maps a frame counter to its position in the jitter sequence.
// Index 0 of the Halton sequence is skipped: a jitter of exactly zero
// followed by non-zero samples shows up as shadow-map shimmer.
func SampleIndex(frameIndex int) int {
	i := frameIndex % SamplePeriod
	if i < 0 {
		i += SamplePeriod
	}
	return i + 1
}

// Jitter is a sub-pixel projection offset in pixels. Each component lies
// in [-0.5, 0.5) before scaling.
type Jitter struct {
	X, Y float32
}

// IsZero reports whether the jitter leaves the projection unchanged.
func (j Jitter) IsZero() bool {
	return j.X == 0 && j.Y == 0
}

// Strength returns the jitter packed for the resolve shader:
// (x, y, x/width, y/height).
func (j Jitter) Strength(width, height int) [4]float32 {
	if width <= 0 || height <= 0 {
		return [4]float32{j.X, j.Y, 0, 0}
	}
	return [4]float32{j.X, j.Y, j.X / float32(width), j.Y / float32(height)}
}

// JitterAt returns the jitter for the given frame counter, using bases 2
// and 3 for the two axes and scaling by amount (clamped to [0, 1]).
// An amount of 0 disables jitter.
func JitterAt(frameIndex int, amount float32) Jitter {
	amount = clamp01(amount)
	if amount == 0 {
		return Jitter{}
	}
	i := SampleIndex(frameIndex)
	return Jitter{
		X: (Halton(i, 2) - 0.5) * amount,
		Y: (Halton(i, 3) - 0.5) * amount,
	}
}

// Sequence returns the full period of unscaled jitter offsets.
func Sequence() [SamplePeriod]Jitter {
	var seq [SamplePeriod]Jitter
	for n := range seq {
		seq[n] = JitterAt(n, 1)
	}
	return seq
}

func clamp01(v float32) float32 {
	switch {
	case math32.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
