// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package taa

import (
	"fmt"
	"sort"
	"sync"

	"github.com/gogpu/taa/render"
)

// CameraID identifies a camera across frames.
type CameraID uint64

// CameraKind classifies a camera for history allocation.
type CameraKind int

const (
	// KindPrimary cameras render the main output and keep history.
	KindPrimary CameraKind = iota

	// KindPreview cameras render scene-inspection views. They keep
	// history only with WithPreviewHistory(true) and always use the
	// preview parameter overrides.
	KindPreview

	// KindTransient cameras (reflection probes, thumbnails) never keep
	// history.
	KindTransient
)

// String returns the kind name.
func (k CameraKind) String() string {
	switch k {
	case KindPrimary:
		return "primary"
	case KindPreview:
		return "preview"
	case KindTransient:
		return "transient"
	default:
		return fmt.Sprintf("CameraKind(%d)", int(k))
	}
}

// Registry maps cameras to their temporal state. States are created on
// first use and live until Release or Close; the host must release a
// camera when it is destroyed.
//
// Registry methods are safe for concurrent use. Release and Close wait
// for a camera's frame started by Feature.BeginCamera to end before
// destroying its history, so they must not be called from the goroutine
// holding that frame open. The returned States are not safe for
// concurrent use.
type Registry struct {
	mu     sync.Mutex
	alloc  render.TextureAllocator
	cfg    config
	states map[CameraID]*State
	closed bool
}

// NewRegistry creates an empty registry allocating history from alloc.
// WithConvention and WithPreviewHistory apply; other options are
// ignored.
func NewRegistry(alloc render.TextureAllocator, opts ...Option) *Registry {
	return newRegistry(alloc, newConfig(opts))
}

func newRegistry(alloc render.TextureAllocator, cfg config) *Registry {
	return &Registry{
		alloc:  alloc,
		cfg:    cfg,
		states: make(map[CameraID]*State),
	}
}

// Acquire returns the state of camera id, creating it on first use.
// Cameras that do not keep history get ErrTransientCamera.
func (r *Registry) Acquire(id CameraID, kind CameraKind) (*State, error) {
	switch kind {
	case KindPrimary:
	case KindPreview:
		if !r.cfg.previewHistory {
			return nil, fmt.Errorf("%w: camera %d is %s", ErrTransientCamera, id, kind)
		}
	default:
		return nil, fmt.Errorf("%w: camera %d is %s", ErrTransientCamera, id, kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrClosed
	}
	if st, ok := r.states[id]; ok {
		return st, nil
	}
	st := NewState(fmt.Sprintf("camera_%d", id), r.alloc, r.cfg.conv)
	r.states[id] = st
	Logger().Info("taa: camera state created", "camera", uint64(id), "kind", kind.String())
	return st, nil
}

// Lookup returns the state of camera id without creating it.
func (r *Registry) Lookup(id CameraID) (*State, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.states[id]
	return st, ok
}

// Release destroys the state and history of camera id. It reports
// whether the camera had state.
func (r *Registry) Release(id CameraID) bool {
	r.mu.Lock()
	st, ok := r.states[id]
	delete(r.states, id)
	r.mu.Unlock()

	if !ok {
		return false
	}
	st.retire()
	Logger().Info("taa: camera state released", "camera", uint64(id))
	return true
}

// Len returns the number of live camera states.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.states)
}

// IDs returns the live camera ids in ascending order.
func (r *Registry) IDs() []CameraID {
	r.mu.Lock()
	ids := make([]CameraID, 0, len(r.states))
	for id := range r.states {
		ids = append(ids, id)
	}
	r.mu.Unlock()

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// HistoryBytes returns the history memory held by all cameras. It may
// run while cameras render.
func (r *Registry) HistoryBytes() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total uint64
	for _, st := range r.states {
		total += st.history.Bytes()
	}
	return total
}

// Close releases every camera. Later calls to Acquire return ErrClosed.
// Close is idempotent.
func (r *Registry) Close() error {
	r.mu.Lock()
	states := r.states
	r.states = make(map[CameraID]*State)
	r.closed = true
	r.mu.Unlock()

	for _, st := range states {
		st.retire()
	}
	return nil
}
