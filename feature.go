// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package taa

import (
	"fmt"
	"sync"

	"github.com/chewxy/math32"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/taa/internal/gpu"
	"github.com/gogpu/taa/render"
)

// Camera is the per-frame host input for one camera.
type Camera struct {
	ID   CameraID
	Kind CameraKind
	View View

	// ColorFormat overrides the colour history format for this camera.
	ColorFormat gputypes.TextureFormat
}

// Feature drives temporal anti-aliasing for every camera of a host
// renderer. The host calls BeginCamera once per camera per frame, renders
// geometry with the returned projection, then calls Frame.Resolve or
// Frame.Skip.
//
// Feature methods are safe for concurrent use across different cameras.
// A second BeginCamera for a camera waits until its previous frame ends,
// and Release and Close wait for the in-flight frames of the cameras they
// destroy, so none of them may be called by the goroutine holding that
// frame open.
type Feature struct {
	cfg      config
	registry *Registry
	program  *resolveProgram

	mu       sync.RWMutex
	settings Settings
	closed   bool
}

// New creates a Feature that allocates history textures from alloc.
func New(alloc render.TextureAllocator, opts ...Option) *Feature {
	cfg := newConfig(opts)
	return &Feature{
		cfg:      cfg,
		registry: newRegistry(alloc, cfg),
		program:  newResolveProgram(cfg.shaders, cfg.compile),
		settings: cfg.settings,
	}
}

// NewFromProvider creates a Feature that allocates history textures on
// the HAL device shared by a host device provider. Providers that do not
// expose HAL access return ErrNoHAL.
func NewFromProvider(provider gpucontext.DeviceProvider, opts ...Option) (*Feature, error) {
	if provider == nil {
		return nil, ErrNoHAL
	}
	device, err := gpu.DeviceFromProvider(provider)
	if err != nil {
		return nil, err
	}
	alloc := gpu.NewTextureAllocator(device, gpu.DefaultMaxTextureSize)
	return New(alloc, opts...), nil
}

// Settings returns the current settings.
func (f *Feature) Settings() Settings {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.settings
}

// SetSettings replaces the settings from the next BeginCamera on. Invalid
// settings are rejected and the old ones kept.
func (f *Feature) SetSettings(s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	f.mu.Lock()
	f.settings = s
	f.mu.Unlock()
	return nil
}

// Registry returns the camera registry.
func (f *Feature) Registry() *Registry { return f.registry }

// historySpecs returns the colour, velocity and object-id specs of a
// camera.
func (f *Feature) historySpecs(c Camera) (color, velocity, objectID BufferSpec) {
	w, h := uint32(c.View.Width), uint32(c.View.Height)
	format := c.ColorFormat
	if format == gputypes.TextureFormatUndefined {
		format = f.cfg.colorFormat
	}
	color = BufferSpec{Width: w, Height: h, Format: format}
	velocity = BufferSpec{Width: w, Height: h, Format: f.cfg.velocityFormat}
	if s := f.cfg.objectIDScale; s > 0 {
		objectID = BufferSpec{
			Width:  max(1, uint32(math32.Ceil(float32(w)*s))),
			Height: max(1, uint32(math32.Ceil(float32(h)*s))),
			Format: f.cfg.objectIDFormat,
		}
	}
	return color, velocity, objectID
}

// BeginCamera starts a frame for camera c: it jitters the projection,
// ensures history buffers and computes the resolve parameters.
//
// On error the camera renders this frame without temporal accumulation
// using its unjittered projection, including the frame on which history
// allocation first fails. Transient cameras always get
// ErrTransientCamera; allocation failures return ErrBufferAllocation and
// put the camera into fallback until allocation succeeds.
func (f *Feature) BeginCamera(c Camera) (*Frame, error) {
	f.mu.RLock()
	settings, closed := f.settings, f.closed
	f.mu.RUnlock()
	if closed {
		return nil, ErrClosed
	}

	// A state retired by a concurrent Release is replaced on the next
	// Acquire.
	var st *State
	for {
		var err error
		if st, err = f.registry.Acquire(c.ID, c.Kind); err != nil {
			return nil, err
		}
		if st.claim() {
			break
		}
	}

	proj, err := st.BeginFrame(c.View, settings)
	if err != nil {
		st.unclaim()
		return nil, err
	}

	color, velocity, objectID := f.historySpecs(c)
	if _, err := st.EnsureBuffers(color, velocity, objectID); err != nil {
		_ = st.EndFrame()
		st.unclaim()
		return nil, err
	}
	params, err := st.PrepareParams(c.Kind == KindPreview)
	if err != nil {
		_ = st.EndFrame()
		st.unclaim()
		return nil, err
	}

	return &Frame{
		feature:    f,
		camera:     c.ID,
		state:      st,
		projection: proj,
		params:     params,
	}, nil
}

// Release destroys the state and history of a camera. Call it when the
// host destroys the camera.
func (f *Feature) Release(id CameraID) bool {
	return f.registry.Release(id)
}

// Close releases every camera. Later calls to BeginCamera return
// ErrClosed.
func (f *Feature) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return f.registry.Close()
}

// ResolveInputs is everything the host needs to record the resolve pass
// of one camera.
type ResolveInputs struct {
	Camera CameraID

	// Previous textures are sampled as history; Next textures are
	// written. The object-id pair is nil when object-id history is
	// disabled.
	PreviousColor, NextColor       render.Texture
	PreviousVelocity, NextVelocity render.Texture
	PreviousObjectID, NextObjectID render.Texture

	// SPIRV is the compiled resolve shader.
	SPIRV []uint32

	// Params is bound as the resolve uniform block; Keywords select the
	// shader variant.
	Params   ResolveParams
	Keywords []string

	// SeedHistory asks the host to copy the current frame into both
	// history slots before resolving, because their content is undefined.
	SeedHistory bool
}

// Frame is one camera's frame between BeginCamera and Resolve or Skip.
type Frame struct {
	feature    *Feature
	camera     CameraID
	state      *State
	projection Projection
	params     ResolveParams
	done       bool
}

// Projection returns the jittered and unjittered projections. Use
// Jittered for geometry submission.
func (fr *Frame) Projection() Projection { return fr.projection }

// Params returns the resolve parameter block.
func (fr *Frame) Params() ResolveParams { return fr.params }

// State returns the camera state.
func (fr *Frame) State() *State { return fr.state }

// Resolve hands the resolve inputs to record, then swaps history.
//
// If the resolve shader is unavailable, record is not called, history is
// left untouched and an error wrapping ErrMissingResource is returned.
// If record fails, or is nil, the frame is skipped and history is
// reseeded on the next resolve. Slots are swapped in every case.
func (fr *Frame) Resolve(record func(ResolveInputs) error) error {
	if fr.done {
		return fmt.Errorf("%w: frame already ended", ErrOutOfOrder)
	}
	fr.done = true
	defer fr.state.unclaim()

	if record == nil {
		return fr.state.EndFrame()
	}

	spirv, err := fr.feature.program.load()
	if err != nil {
		_ = fr.state.EndFrame()
		return err
	}

	h := fr.state.History()
	in := ResolveInputs{
		Camera:           fr.camera,
		PreviousColor:    h.Previous(GroupColor),
		NextColor:        h.Next(GroupColor),
		PreviousVelocity: h.Previous(GroupVelocity),
		NextVelocity:     h.Next(GroupVelocity),
		PreviousObjectID: h.Previous(GroupObjectID),
		NextObjectID:     h.Next(GroupObjectID),
		SPIRV:            spirv,
		Params:           fr.params,
		Keywords:         fr.params.Flags.Keywords(),
		SeedHistory:      fr.params.ResetHistory,
	}
	if err := record(in); err != nil {
		_ = fr.state.EndFrame()
		return fmt.Errorf("taa: record resolve: %w", err)
	}

	if err := fr.state.MarkResolved(); err != nil {
		return err
	}
	return fr.state.EndFrame()
}

// Skip ends the frame without resolving. History slots are still
// swapped.
func (fr *Frame) Skip() error {
	if fr.done {
		return fmt.Errorf("%w: frame already ended", ErrOutOfOrder)
	}
	fr.done = true
	defer fr.state.unclaim()
	return fr.state.EndFrame()
}
