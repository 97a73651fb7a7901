// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package taa

import (
	"errors"
	"sync"
	"testing"

	"github.com/chewxy/math32"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/taa/render"
)

var errInjected = errors.New("injected allocation failure")

// countingAllocator wraps a MemoryAllocator, counts CreateTexture calls
// and can be told to fail.
type countingAllocator struct {
	*render.MemoryAllocator

	mu      sync.Mutex
	calls   int
	failing bool
	failAt  int // fail only the failAt-th call when > 0
	labels  []string
}

func newCountingAllocator(maxSize uint32) *countingAllocator {
	return &countingAllocator{MemoryAllocator: render.NewMemoryAllocator(maxSize)}
}

func (a *countingAllocator) CreateTexture(desc render.TextureDescriptor) (render.Texture, error) {
	a.mu.Lock()
	a.calls++
	failing := a.failing || a.calls == a.failAt
	a.labels = append(a.labels, desc.Label)
	a.mu.Unlock()
	if failing {
		return nil, errInjected
	}
	return a.MemoryAllocator.CreateTexture(desc)
}

func (a *countingAllocator) setFailing(f bool) {
	a.mu.Lock()
	a.failing = f
	a.mu.Unlock()
}

func (a *countingAllocator) Calls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls
}

func colorSpec(w, h uint32) BufferSpec {
	return BufferSpec{Width: w, Height: h, Format: gputypes.TextureFormatRGBA16Float}
}

func velocitySpec(w, h uint32) BufferSpec {
	return BufferSpec{Width: w, Height: h, Format: gputypes.TextureFormatR16Float}
}

func approx(a, b, eps float32) bool {
	return math32.Abs(a-b) <= eps
}

func assertApprox(t *testing.T, name string, got, want, eps float32) {
	t.Helper()
	if !approx(got, want, eps) {
		t.Errorf("%s = %v, want %v (±%v)", name, got, want, eps)
	}
}

func assertFrustum(t *testing.T, got, want Frustum, eps float32) {
	t.Helper()
	assertApprox(t, "Left", got.Left, want.Left, eps)
	assertApprox(t, "Right", got.Right, want.Right, eps)
	assertApprox(t, "Bottom", got.Bottom, want.Bottom, eps)
	assertApprox(t, "Top", got.Top, want.Top, eps)
	assertApprox(t, "Near", got.Near, want.Near, eps)
	assertApprox(t, "Far", got.Far, want.Far, math32.Max(eps, 1e-3*math32.Abs(want.Far)))
}

// testFrustum is an off-centre perspective frustum measured at near 0.1.
func testFrustum() Frustum {
	return Frustum{Left: -0.08, Right: 0.1, Bottom: -0.05, Top: 0.06, Near: 0.1, Far: 500}
}

func testView(conv Convention, w, h int) View {
	return View{Projection: conv.Perspective(testFrustum()), Width: w, Height: h}
}
