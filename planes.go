// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package taa

import "github.com/chewxy/math32"

// Plane is a world-space plane in Hessian normal form. Points p with
// Normal·p + Distance >= 0 lie on the inner side.
type Plane struct {
	Normal   [3]float32
	Distance float32
}

// SignedDistance returns the signed distance from p to the plane.
func (p Plane) SignedDistance(v [3]float32) float32 {
	return p.Normal[0]*v[0] + p.Normal[1]*v[1] + p.Normal[2]*v[2] + p.Distance
}

// Valid reports whether the plane has a unit normal and a finite distance.
func (p Plane) Valid() bool {
	if !finite(p.Distance) {
		return false
	}
	n := p.Normal
	l := n[0]*n[0] + n[1]*n[1] + n[2]*n[2]
	return finite(l) && math32.Abs(l-1) < 1e-3
}

// Frustum plane indices, in the order ExtractPlanes returns them.
const (
	PlaneLeft = iota
	PlaneRight
	PlaneBottom
	PlaneTop
	PlaneNear
	PlaneFar
)

// FrustumPlanes holds the six world-space planes of a camera frustum.
type FrustumPlanes [6]Plane

// Far returns the far plane.
func (fp *FrustumPlanes) Far() Plane { return fp[PlaneFar] }

// FarDistance returns the distance from eye to the far plane, or false
// if the far plane is degenerate.
func (fp *FrustumPlanes) FarDistance(eye [3]float32) (float32, bool) {
	far := fp.Far()
	if !far.Valid() {
		return 0, false
	}
	d := math32.Abs(far.SignedDistance(eye))
	if !finite(d) || d == 0 {
		return 0, false
	}
	return d, true
}

// ExtractPlanes returns the frustum planes of a view-projection matrix
// (Gribb/Hartmann). Planes whose normal has zero length, such as the far
// plane of an infinite projection, are left unnormalised and report
// Valid() == false.
func ExtractPlanes(viewProj Mat4, conv Convention) FrustumPlanes {
	r0, r1, r2, r3 := viewProj.Row(0), viewProj.Row(1), viewProj.Row(2), viewProj.Row(3)

	near := add4(r3, r2)
	if conv != nil && conv.ZeroToOne() {
		near = r2
	}

	raw := [6][4]float32{
		PlaneLeft:   add4(r3, r0),
		PlaneRight:  sub4(r3, r0),
		PlaneBottom: add4(r3, r1),
		PlaneTop:    sub4(r3, r1),
		PlaneNear:   near,
		PlaneFar:    sub4(r3, r2),
	}

	var planes FrustumPlanes
	for i, v := range raw {
		planes[i] = normalizePlane(v)
	}
	return planes
}

func normalizePlane(v [4]float32) Plane {
	l := math32.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	if l == 0 || !finite(l) {
		return Plane{Normal: [3]float32{v[0], v[1], v[2]}, Distance: v[3]}
	}
	return Plane{
		Normal:   [3]float32{v[0] / l, v[1] / l, v[2] / l},
		Distance: v[3] / l,
	}
}

func add4(a, b [4]float32) [4]float32 {
	return [4]float32{a[0] + b[0], a[1] + b[1], a[2] + b[2], a[3] + b[3]}
}

func sub4(a, b [4]float32) [4]float32 {
	return [4]float32{a[0] - b[0], a[1] - b[1], a[2] - b[2], a[3] - b[3]}
}
