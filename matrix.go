// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package taa

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Mat4 is a 4x4 float32 matrix stored in column-major order:
// element (row, col) lives at index col*4+row. This is the layout GPU
// uniform buffers expect.
type Mat4 [16]float32

// Identity4 returns the 4x4 identity matrix.
func Identity4() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// At returns the element at the given row and column.
func (m Mat4) At(row, col int) float32 {
	return m[col*4+row]
}

// Set assigns the element at the given row and column.
func (m *Mat4) Set(row, col int, v float32) {
	m[col*4+row] = v
}

// Row returns the given row as a 4-vector.
func (m Mat4) Row(row int) [4]float32 {
	return [4]float32{m[row], m[4+row], m[8+row], m[12+row]}
}

// Mul returns m * o.
func (m Mat4) Mul(o Mat4) Mat4 {
	var r Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m.At(row, k) * o.At(k, col)
			}
			r.Set(row, col, sum)
		}
	}
	return r
}

// IsFinite reports whether every element is neither NaN nor infinite.
func (m Mat4) IsFinite() bool {
	for _, v := range m {
		if !finite(v) {
			return false
		}
	}
	return true
}

// String returns the matrix in row-major reading order.
func (m Mat4) String() string {
	return fmt.Sprintf("[%g %g %g %g; %g %g %g %g; %g %g %g %g; %g %g %g %g]",
		m.At(0, 0), m.At(0, 1), m.At(0, 2), m.At(0, 3),
		m.At(1, 0), m.At(1, 1), m.At(1, 2), m.At(1, 3),
		m.At(2, 0), m.At(2, 1), m.At(2, 2), m.At(2, 3),
		m.At(3, 0), m.At(3, 1), m.At(3, 2), m.At(3, 3))
}

// Frustum describes a view volume by its side planes and depth range.
// For perspective projections the side planes are measured on the near
// plane; for orthographic projections they are view-space extents.
type Frustum struct {
	Left, Right float32
	Bottom, Top float32
	Near, Far   float32
}

// Width returns Right - Left.
func (f Frustum) Width() float32 { return f.Right - f.Left }

// Height returns Top - Bottom.
func (f Frustum) Height() float32 { return f.Top - f.Bottom }

// Offset returns the frustum with its side planes shifted by (dx, dy).
func (f Frustum) Offset(dx, dy float32) Frustum {
	f.Left += dx
	f.Right += dx
	f.Bottom += dy
	f.Top += dy
	return f
}

// sidesValid reports whether the side planes are finite and not inverted.
func (f Frustum) sidesValid() bool {
	if !finite(f.Left) || !finite(f.Right) || !finite(f.Bottom) || !finite(f.Top) {
		return false
	}
	return f.Right > f.Left && f.Top > f.Bottom
}

// depthValid reports whether the depth range can be used to build a
// projection without producing NaN or infinity.
func (f Frustum) depthValid() bool {
	return finite(f.Near) && finite(f.Far) && f.Far != f.Near
}

func finite(v float32) bool {
	return !math32.IsNaN(v) && !math32.IsInf(v, 0)
}
