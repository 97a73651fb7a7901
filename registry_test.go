// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package taa

import (
	"errors"
	"slices"
	"sync"
	"testing"

	"github.com/gogpu/taa/render"
)

func TestRegistryAcquire(t *testing.T) {
	r := NewRegistry(newCountingAllocator(0))

	a, err := r.Acquire(7, KindPrimary)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	b, err := r.Acquire(7, KindPrimary)
	if err != nil || a != b {
		t.Errorf("second Acquire returned a different state")
	}
	if a.Label() != "camera_7" {
		t.Errorf("Label = %q", a.Label())
	}
	if st, ok := r.Lookup(7); !ok || st != a {
		t.Error("Lookup should find the acquired state")
	}
	if _, ok := r.Lookup(8); ok {
		t.Error("Lookup must not create state")
	}
	if r.Len() != 1 {
		t.Errorf("Len = %d, want 1", r.Len())
	}
}

func TestRegistryCameraKinds(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		kind    CameraKind
		wantErr bool
	}{
		{"primary", nil, KindPrimary, false},
		{"transient", nil, KindTransient, true},
		{"preview default", nil, KindPreview, true},
		{"preview enabled", []Option{WithPreviewHistory(true)}, KindPreview, false},
		{"transient with preview history", []Option{WithPreviewHistory(true)}, KindTransient, true},
		{"unknown kind", nil, CameraKind(9), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry(newCountingAllocator(0), tt.opts...)
			_, err := r.Acquire(1, tt.kind)
			if tt.wantErr {
				if !errors.Is(err, ErrTransientCamera) {
					t.Errorf("Acquire = %v, want ErrTransientCamera", err)
				}
				if r.Len() != 0 {
					t.Error("rejected camera must not get state")
				}
				return
			}
			if err != nil {
				t.Errorf("Acquire = %v", err)
			}
		})
	}
}

func TestRegistryReleaseAndClose(t *testing.T) {
	alloc := newCountingAllocator(0)
	r := NewRegistry(alloc)

	for _, id := range []CameraID{3, 1, 2} {
		st, err := r.Acquire(id, KindPrimary)
		if err != nil {
			t.Fatal(err)
		}
		runFrame(t, st, testView(WebGPU, 16, 16), DefaultSettings())
	}
	if got := r.IDs(); !slices.Equal(got, []CameraID{1, 2, 3}) {
		t.Errorf("IDs = %v", got)
	}
	perCamera := 2 * (render.TextureBytes(16, 16, DefaultColorFormat) + render.TextureBytes(16, 16, DefaultVelocityFormat))
	if got := r.HistoryBytes(); got != 3*perCamera {
		t.Errorf("HistoryBytes = %d, want %d", got, 3*perCamera)
	}

	if !r.Release(2) {
		t.Error("Release(2) = false")
	}
	if r.Release(2) {
		t.Error("second Release(2) = true")
	}
	if live := alloc.Stats().Live; live != 8 {
		t.Errorf("live textures = %d, want 8", live)
	}

	if err := r.Close(); err != nil {
		t.Fatal(err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("second Close = %v", err)
	}
	if alloc.Stats().Live != 0 || r.Len() != 0 {
		t.Errorf("after Close live=%d len=%d", alloc.Stats().Live, r.Len())
	}
	if _, err := r.Acquire(1, KindPrimary); !errors.Is(err, ErrClosed) {
		t.Errorf("Acquire after Close = %v, want ErrClosed", err)
	}
}

func TestRegistryConcurrent(t *testing.T) {
	alloc := newCountingAllocator(0)
	r := NewRegistry(alloc)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			id := CameraID(g)
			for i := 0; i < 20; i++ {
				st, err := r.Acquire(id, KindPrimary)
				if err != nil {
					t.Error(err)
					return
				}
				if _, err := st.BeginFrame(testView(WebGPU, 8, 8), DefaultSettings()); err != nil {
					t.Error(err)
					return
				}
				if _, err := st.EnsureBuffers(colorSpec(8, 8), velocitySpec(8, 8), BufferSpec{}); err != nil {
					t.Error(err)
					return
				}
				if err := st.EndFrame(); err != nil {
					t.Error(err)
					return
				}
				if i%5 == 4 {
					r.Release(id)
				}
			}
		}(g)
	}
	wg.Wait()

	if r.Len() != 0 {
		t.Errorf("Len = %d, want 0", r.Len())
	}
	if live := alloc.Stats().Live; live != 0 {
		t.Errorf("live textures = %d, want 0", live)
	}
}

func TestRegistryHistoryBytesConcurrent(t *testing.T) {
	r := NewRegistry(newCountingAllocator(0))
	st, err := r.Acquire(1, KindPrimary)
	if err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			size := uint32(16 << (i % 2))
			if _, err := st.BeginFrame(testView(WebGPU, int(size), int(size)), DefaultSettings()); err != nil {
				t.Error(err)
				return
			}
			if _, err := st.EnsureBuffers(colorSpec(size, size), velocitySpec(size, size), BufferSpec{}); err != nil {
				t.Error(err)
				return
			}
			if err := st.EndFrame(); err != nil {
				t.Error(err)
				return
			}
		}
	}()

	limit := 2 * (render.TextureBytes(32, 32, DefaultColorFormat) + render.TextureBytes(32, 32, DefaultVelocityFormat))
	for {
		select {
		case <-done:
			if got := r.HistoryBytes(); got != limit {
				t.Errorf("HistoryBytes = %d, want %d", got, limit)
			}
			return
		default:
		}
		if got := r.HistoryBytes(); got > limit {
			t.Errorf("HistoryBytes = %d, above %d", got, limit)
			<-done
			return
		}
	}
}
