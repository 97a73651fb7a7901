// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package taa

import (
	"github.com/chewxy/math32"
	"github.com/cwbudde/algo-vecmath"
)

// SampleOffsets is the resolve kernel footprint in pixels: the centre,
// the four orthogonal ("plus") neighbours, then the four diagonal
// ("cross") neighbours.
var SampleOffsets = [9][2]int{
	{0, 0},
	{0, 1}, {1, 0}, {-1, 0}, {0, -1},
	{-1, 1}, {1, -1}, {1, 1}, {-1, -1},
}

// filterFalloff is the exponent scale of the Gaussian fit to a
// Blackman-Harris window over a 3x3 footprint.
const filterFalloff = 2.29

// FilterWeights are the normalised reconstruction weights of the resolve
// kernel. Weights of inactive samples are zero and the active ones sum
// to one.
type FilterWeights struct {
	// Samples holds one weight per entry of SampleOffsets.
	Samples [9]float32

	// Center, Plus and Cross are the normalised weight of one sample of
	// each ring.
	Center, Plus, Cross float32

	// Total is the unnormalised sum over the active samples.
	Total float32
}

// Packed returns (center, plus, cross, total), the layout the resolve
// shader reads.
func (w FilterWeights) Packed() [4]float32 {
	return [4]float32{w.Center, w.Plus, w.Cross, w.Total}
}

// Sum returns the sum of the per-sample weights.
func (w FilterWeights) Sum() float32 {
	var s float32
	for _, v := range w.Samples {
		s += v
	}
	return s
}

// FilterWeightsFor returns the kernel for a quality tier. Diagonal
// samples only contribute at QualityHigh.
//
// The weights ignore the current jitter offset; they are a function of
// the tier alone.
func FilterWeightsFor(q Quality) FilterWeights {
	n := len(SampleOffsets)
	falloff := make([]float64, n)
	mask := make([]float64, n)
	for i, o := range SampleOffsets {
		d2 := o[0]*o[0] + o[1]*o[1]
		falloff[i] = float64(math32.Exp(-filterFalloff * float32(d2)))
		if d2 < 2 || q == QualityHigh {
			mask[i] = 1
		}
	}

	raw := make([]float64, n)
	vecmath.MulBlock(raw, falloff, mask)

	var total float64
	for _, v := range raw {
		total += v
	}

	var w FilterWeights
	for i, v := range raw {
		w.Samples[i] = float32(v / total)
	}
	w.Center = w.Samples[0]
	w.Plus = w.Samples[1]
	w.Cross = float32(falloff[len(falloff)-1] / total)
	w.Total = float32(total)
	return w
}
