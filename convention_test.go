// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package taa

import (
	"testing"

	"github.com/chewxy/math32"
)

var conventions = []Convention{OpenGL, WebGPU}

func TestConventionPerspectiveRoundTrip(t *testing.T) {
	frusta := []Frustum{
		testFrustum(),
		{Left: -0.1, Right: 0.1, Bottom: -0.0563, Top: 0.0563, Near: 0.1, Far: 1000},
		{Left: -2, Right: 1, Bottom: -1, Top: 3, Near: 1, Far: 50},
	}
	for _, conv := range conventions {
		for _, f := range frusta {
			t.Run(conv.Name(), func(t *testing.T) {
				got := conv.DecomposePerspective(conv.Perspective(f))
				assertFrustum(t, got, f, 1e-4*math32.Max(1, f.Near))
			})
		}
	}
}

func TestConventionOrthographicRoundTrip(t *testing.T) {
	frusta := []Frustum{
		{Left: -8, Right: 8, Bottom: -4.5, Top: 4.5, Near: 0.3, Far: 100},
		{Left: 0, Right: 640, Bottom: 0, Top: 480, Near: -1, Far: 1},
	}
	for _, conv := range conventions {
		for _, f := range frusta {
			t.Run(conv.Name(), func(t *testing.T) {
				got := conv.DecomposeOrthographic(conv.Orthographic(f))
				assertFrustum(t, got, f, 1e-3)
			})
		}
	}
}

func TestConventionDepthRange(t *testing.T) {
	f := testFrustum()
	tests := []struct {
		conv      Convention
		nearClip  float32
		zeroToOne bool
	}{
		{OpenGL, -1, false},
		{WebGPU, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.conv.Name(), func(t *testing.T) {
			if tt.conv.ZeroToOne() != tt.zeroToOne {
				t.Errorf("ZeroToOne() = %v, want %v", tt.conv.ZeroToOne(), tt.zeroToOne)
			}
			m := tt.conv.Perspective(f)
			// A point on the near plane (view z = -near) maps to the near
			// clip depth; on the far plane to 1.
			for _, c := range []struct {
				z, want float32
			}{{-f.Near, tt.nearClip}, {-f.Far, 1}} {
				clipZ := m.At(2, 2)*c.z + m.At(2, 3)
				clipW := m.At(3, 2) * c.z
				assertApprox(t, "ndc z", clipZ/clipW, c.want, 1e-3)
			}
		})
	}
}

func TestConventionInfiniteFar(t *testing.T) {
	near := float32(0.1)
	tests := []struct {
		conv Convention
		m22  float32
		m23  float32
	}{
		{OpenGL, -1, -2 * near},
		{WebGPU, -1, -near},
	}
	for _, tt := range tests {
		t.Run(tt.conv.Name(), func(t *testing.T) {
			m := tt.conv.Perspective(testFrustum())
			m.Set(2, 2, tt.m22)
			m.Set(2, 3, tt.m23)
			f := tt.conv.DecomposePerspective(m)
			assertApprox(t, "Near", f.Near, near, 1e-6)
			if !math32.IsInf(f.Far, 0) {
				t.Errorf("Far = %v, want infinity", f.Far)
			}
		})
	}
}
