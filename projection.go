// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package taa

import (
	"fmt"

	"github.com/chewxy/math32"
)

// FallbackFarRatio scales the near plane to obtain a far plane when a
// perspective projection has an infinite far plane and the host supplied
// no usable frustum planes.
const FallbackFarRatio = 1e5

// View is the per-frame camera input to the jitterer.
type View struct {
	// Projection is the camera's unjittered projection matrix.
	Projection Mat4

	// Orthographic selects the orthographic reconstruction path.
	Orthographic bool

	// Width and Height are the render target size in pixels.
	Width, Height int

	// Planes are the camera's world-space frustum planes, computed by the
	// host with its finite far clip distance. Optional.
	Planes *FrustumPlanes

	// Eye is the camera's world-space position, used with Planes.
	Eye [3]float32
}

// Projection is the result of jittering a camera projection.
type Projection struct {
	// Unjittered is the input projection, unchanged.
	Unjittered Mat4

	// Jittered is the projection to use for geometry submission.
	Jittered Mat4

	// Jitter is the offset actually applied, zero when frozen.
	Jitter Jitter

	// FarSubstituted reports that the far plane was replaced by a finite
	// fallback before reconstruction.
	FarSubstituted bool
}

// Jitterer applies sub-pixel jitter to projection matrices.
//
// A Jitterer is not safe for concurrent use; each camera state owns one.
type Jitterer struct {
	conv   Convention
	frozen bool
}

// NewJitterer creates a jitterer for the given matrix convention.
// A nil convention selects WebGPU.
func NewJitterer(conv Convention) *Jitterer {
	if conv == nil {
		conv = WebGPU
	}
	return &Jitterer{conv: conv}
}

// Convention returns the matrix convention in use.
func (j *Jitterer) Convention() Convention { return j.conv }

// SetFrozen enables or disables frozen mode. A frozen jitterer returns
// the unjittered projection and reports zero jitter, which keeps frame
// captures and debuggers stable.
func (j *Jitterer) SetFrozen(frozen bool) { j.frozen = frozen }

// Frozen reports whether frozen mode is enabled.
func (j *Jitterer) Frozen() bool { return j.frozen }

// Jitter offsets the projection in v by jit pixels.
//
// The near and far planes of the input are preserved, except that an
// infinite perspective far plane is replaced by a finite one (see
// FallbackFarRatio). A zero jitter returns the input matrix unchanged.
// On error the returned Projection still carries the unjittered matrix
// in both fields so callers can render without jitter.
func (j *Jitterer) Jitter(v View, jit Jitter) (Projection, error) {
	out := Projection{Unjittered: v.Projection, Jittered: v.Projection}

	if v.Width <= 0 || v.Height <= 0 {
		return out, fmt.Errorf("%w: %dx%d", ErrInvalidSize, v.Width, v.Height)
	}
	if !v.Projection.IsFinite() {
		return out, fmt.Errorf("%w: non-finite projection", ErrInvalidFrustum)
	}
	if j.frozen || jit.IsZero() {
		return out, nil
	}

	var (
		m   Mat4
		sub bool
		err error
	)
	if v.Orthographic {
		m, err = j.jitterOrthographic(v, jit)
	} else {
		m, sub, err = j.jitterPerspective(v, jit)
	}
	if err != nil {
		return out, err
	}

	out.Jittered = m
	out.Jitter = jit
	out.FarSubstituted = sub
	return out, nil
}

func (j *Jitterer) jitterOrthographic(v View, jit Jitter) (Mat4, error) {
	f := j.conv.DecomposeOrthographic(v.Projection)
	if !f.sidesValid() || !f.depthValid() {
		return Mat4{}, fmt.Errorf("%w: orthographic %+v", ErrInvalidFrustum, f)
	}

	// One pixel spans Width()/pixels in view units.
	dx := jit.X * f.Width() / float32(v.Width)
	dy := jit.Y * f.Height() / float32(v.Height)

	m := j.conv.Orthographic(f.Offset(dx, dy))
	if !m.IsFinite() {
		return Mat4{}, fmt.Errorf("%w: orthographic reconstruction", ErrInvalidFrustum)
	}
	return m, nil
}

func (j *Jitterer) jitterPerspective(v View, jit Jitter) (Mat4, bool, error) {
	f := j.conv.DecomposePerspective(v.Projection)
	if !f.sidesValid() || !finite(f.Near) || f.Near <= 0 {
		return Mat4{}, false, fmt.Errorf("%w: perspective %+v", ErrInvalidFrustum, f)
	}

	horizontal := math32.Abs(f.Left) + math32.Abs(f.Right)
	vertical := math32.Abs(f.Top) + math32.Abs(f.Bottom)
	f = f.Offset(
		jit.X*horizontal/float32(v.Width),
		jit.Y*vertical/float32(v.Height),
	)

	sub := false
	if !finite(f.Far) || f.Far <= f.Near {
		f.Far = fallbackFar(v, f.Near)
		sub = true
		Logger().Debug("taa: substituted far plane",
			"far", f.Far, "near", f.Near, "convention", j.conv.Name())
	}

	m := j.conv.Perspective(f)
	if !m.IsFinite() {
		return Mat4{}, sub, fmt.Errorf("%w: perspective reconstruction", ErrInvalidFrustum)
	}
	return m, sub, nil
}

// fallbackFar picks a finite far distance for a projection whose far
// plane decomposed to infinity.
func fallbackFar(v View, near float32) float32 {
	if v.Planes != nil {
		if d, ok := v.Planes.FarDistance(v.Eye); ok && d > near {
			return d
		}
	}
	return near * FallbackFarRatio
}
