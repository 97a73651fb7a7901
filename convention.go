// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package taa

// Convention builds and decomposes projection matrices for one graphics
// API. Conventions differ in clip-space depth range; all of them use
// right-handed view space and column-major Mat4 storage.
//
// The jitterer only talks to a Convention, so supporting a new target
// API means adding an implementation here and nothing else.
type Convention interface {
	// Name identifies the convention in logs.
	Name() string

	// Perspective builds an off-centre perspective matrix. Side planes
	// are measured on the near plane.
	Perspective(f Frustum) Mat4

	// Orthographic builds an off-centre orthographic matrix.
	Orthographic(f Frustum) Mat4

	// DecomposePerspective recovers the frustum of a matrix built by
	// Perspective. A far plane at infinity decomposes to +Inf or -Inf.
	DecomposePerspective(m Mat4) Frustum

	// DecomposeOrthographic recovers the frustum of a matrix built by
	// Orthographic.
	DecomposeOrthographic(m Mat4) Frustum

	// ZeroToOne reports whether clip-space depth spans [0, 1].
	ZeroToOne() bool
}

// Built-in conventions.
var (
	// OpenGL maps view depth to clip z in [-1, 1].
	OpenGL Convention = glConvention{}

	// WebGPU maps view depth to clip z in [0, 1], the convention used by
	// WebGPU, Vulkan, Metal and Direct3D.
	WebGPU Convention = zeroToOneConvention{}
)

type glConvention struct{}

func (glConvention) Name() string    { return "opengl" }
func (glConvention) ZeroToOne() bool { return false }

func (glConvention) Perspective(f Frustum) Mat4 {
	var m Mat4
	w, h, d := f.Width(), f.Height(), f.Far-f.Near
	m.Set(0, 0, 2*f.Near/w)
	m.Set(0, 2, (f.Right+f.Left)/w)
	m.Set(1, 1, 2*f.Near/h)
	m.Set(1, 2, (f.Top+f.Bottom)/h)
	m.Set(2, 2, -(f.Far+f.Near)/d)
	m.Set(2, 3, -2*f.Far*f.Near/d)
	m.Set(3, 2, -1)
	return m
}

func (glConvention) Orthographic(f Frustum) Mat4 {
	var m Mat4
	w, h, d := f.Width(), f.Height(), f.Far-f.Near
	m.Set(0, 0, 2/w)
	m.Set(0, 3, -(f.Right+f.Left)/w)
	m.Set(1, 1, 2/h)
	m.Set(1, 3, -(f.Top+f.Bottom)/h)
	m.Set(2, 2, -2/d)
	m.Set(2, 3, -(f.Far+f.Near)/d)
	m.Set(3, 3, 1)
	return m
}

func (glConvention) DecomposePerspective(m Mat4) Frustum {
	m22, m23 := m.At(2, 2), m.At(2, 3)
	near := m23 / (m22 - 1)
	far := m23 / (m22 + 1)
	return perspectiveSides(m, near, far)
}

func (glConvention) DecomposeOrthographic(m Mat4) Frustum {
	m22, m23 := m.At(2, 2), m.At(2, 3)
	f := orthographicSides(m)
	f.Near = (m23 + 1) / m22
	f.Far = (m23 - 1) / m22
	return f
}

type zeroToOneConvention struct{}

func (zeroToOneConvention) Name() string    { return "webgpu" }
func (zeroToOneConvention) ZeroToOne() bool { return true }

func (zeroToOneConvention) Perspective(f Frustum) Mat4 {
	var m Mat4
	w, h, d := f.Width(), f.Height(), f.Far-f.Near
	m.Set(0, 0, 2*f.Near/w)
	m.Set(0, 2, (f.Right+f.Left)/w)
	m.Set(1, 1, 2*f.Near/h)
	m.Set(1, 2, (f.Top+f.Bottom)/h)
	m.Set(2, 2, -f.Far/d)
	m.Set(2, 3, -f.Far*f.Near/d)
	m.Set(3, 2, -1)
	return m
}

func (zeroToOneConvention) Orthographic(f Frustum) Mat4 {
	var m Mat4
	w, h, d := f.Width(), f.Height(), f.Far-f.Near
	m.Set(0, 0, 2/w)
	m.Set(0, 3, -(f.Right+f.Left)/w)
	m.Set(1, 1, 2/h)
	m.Set(1, 3, -(f.Top+f.Bottom)/h)
	m.Set(2, 2, -1/d)
	m.Set(2, 3, -f.Near/d)
	m.Set(3, 3, 1)
	return m
}

func (zeroToOneConvention) DecomposePerspective(m Mat4) Frustum {
	m22, m23 := m.At(2, 2), m.At(2, 3)
	near := m23 / m22
	far := m23 / (m22 + 1)
	return perspectiveSides(m, near, far)
}

func (zeroToOneConvention) DecomposeOrthographic(m Mat4) Frustum {
	m22, m23 := m.At(2, 2), m.At(2, 3)
	f := orthographicSides(m)
	f.Near = m23 / m22
	f.Far = (m23 - 1) / m22
	return f
}

// perspectiveSides recovers the near-plane side bounds shared by every
// perspective convention: only the depth row differs between APIs.
func perspectiveSides(m Mat4, near, far float32) Frustum {
	m00, m02 := m.At(0, 0), m.At(0, 2)
	m11, m12 := m.At(1, 1), m.At(1, 2)
	return Frustum{
		Left:   near * (m02 - 1) / m00,
		Right:  near * (m02 + 1) / m00,
		Bottom: near * (m12 - 1) / m11,
		Top:    near * (m12 + 1) / m11,
		Near:   near,
		Far:    far,
	}
}

func orthographicSides(m Mat4) Frustum {
	m00, m03 := m.At(0, 0), m.At(0, 3)
	m11, m13 := m.At(1, 1), m.At(1, 3)
	return Frustum{
		Left:   (-1 - m03) / m00,
		Right:  (1 - m03) / m00,
		Bottom: (-1 - m13) / m11,
		Top:    (1 - m13) / m11,
	}
}
