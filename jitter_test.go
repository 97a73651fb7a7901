// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package taa

import (
	"testing"

	"github.com/chewxy/math32"
)

func TestHalton(t *testing.T) {
	tests := []struct {
		index, base int
		want        float32
	}{
		{1, 2, 0.5},
		{2, 2, 0.25},
		{3, 2, 0.75},
		{4, 2, 0.125},
		{5, 2, 0.625},
		{1, 3, 1.0 / 3},
		{2, 3, 2.0 / 3},
		{3, 3, 1.0 / 9},
		{4, 3, 4.0 / 9},
		{8, 3, 8.0 / 9},
		{0, 2, 0},
		{-3, 2, 0},
		{5, 1, 0},
	}
	for _, tt := range tests {
		if got := Halton(tt.index, tt.base); !approx(got, tt.want, 1e-6) {
			t.Errorf("Halton(%d, %d) = %v, want %v", tt.index, tt.base, got, tt.want)
		}
	}
}

func TestHaltonRange(t *testing.T) {
	for _, base := range []int{2, 3} {
		for i := 1; i <= 4096; i++ {
			v := Halton(i, base)
			if v < 0 || v >= 1 {
				t.Fatalf("Halton(%d, %d) = %v, outside [0, 1)", i, base, v)
			}
		}
	}
}

func TestSampleIndex(t *testing.T) {
	tests := []struct {
		frame, want int
	}{
		{0, 1},
		{1, 2},
		{7, 8},
		{8, 1},
		{15, 8},
		{-1, 8},
		{-8, 1},
	}
	for _, tt := range tests {
		if got := SampleIndex(tt.frame); got != tt.want {
			t.Errorf("SampleIndex(%d) = %d, want %d", tt.frame, got, tt.want)
		}
	}
}

func TestJitterAt(t *testing.T) {
	tests := []struct {
		name   string
		frame  int
		amount float32
		want   Jitter
	}{
		{"first frame", 0, 1, Jitter{0, 1.0/3 - 0.5}},
		{"second frame", 1, 1, Jitter{-0.25, 2.0/3 - 0.5}},
		{"half amount", 2, 0.5, Jitter{0.125, (1.0/9 - 0.5) * 0.5}},
		{"wraps", 8, 1, Jitter{0, 1.0/3 - 0.5}},
		{"disabled", 3, 0, Jitter{}},
		{"clamped above", 1, 4, Jitter{-0.25, 2.0/3 - 0.5}},
		{"negative disables", 1, -1, Jitter{}},
		{"NaN disables", 1, math32.NaN(), Jitter{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := JitterAt(tt.frame, tt.amount)
			if !approx(got.X, tt.want.X, 1e-6) || !approx(got.Y, tt.want.Y, 1e-6) {
				t.Errorf("JitterAt(%d, %v) = %+v, want %+v", tt.frame, tt.amount, got, tt.want)
			}
		})
	}
}

func TestSequenceDeterministic(t *testing.T) {
	a, b := Sequence(), Sequence()
	if a != b {
		t.Fatal("Sequence() differs between calls")
	}
	seen := make(map[Jitter]bool)
	for n, j := range a {
		if j.X < -0.5 || j.X >= 0.5 || j.Y < -0.5 || j.Y >= 0.5 {
			t.Errorf("sample %d = %+v outside [-0.5, 0.5)", n, j)
		}
		if seen[j] {
			t.Errorf("sample %d = %+v repeats within one period", n, j)
		}
		seen[j] = true
	}
}

func TestJitterStrength(t *testing.T) {
	j := Jitter{X: 0.25, Y: -0.5}
	got := j.Strength(100, 50)
	want := [4]float32{0.25, -0.5, 0.0025, -0.01}
	for i := range got {
		assertApprox(t, "Strength", got[i], want[i], 1e-7)
	}
	if s := j.Strength(0, 0); s[2] != 0 || s[3] != 0 {
		t.Errorf("Strength(0, 0) = %v, want zero texel terms", s)
	}
	if !(Jitter{}).IsZero() || j.IsZero() {
		t.Error("IsZero mismatch")
	}
}
