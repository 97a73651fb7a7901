// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package taa

import (
	"errors"
	"fmt"
	"sync"

	"github.com/chewxy/math32"

	"github.com/gogpu/taa/render"
)

// Phase is a step of the per-frame temporal protocol.
type Phase int

const (
	// PhaseAwaitJitter is the idle phase between frames.
	PhaseAwaitJitter Phase = iota

	// PhaseJittered means the frame's projection is ready.
	PhaseJittered

	// PhaseBuffersEnsured means history matches the target size.
	PhaseBuffersEnsured

	// PhaseParametersReady means the resolve parameter block is ready.
	PhaseParametersReady

	// PhaseResolved means the resolve stage consumed Previous and wrote
	// Next.
	PhaseResolved
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseAwaitJitter:
		return "await-jitter"
	case PhaseJittered:
		return "jittered"
	case PhaseBuffersEnsured:
		return "buffers-ensured"
	case PhaseParametersReady:
		return "parameters-ready"
	case PhaseResolved:
		return "resolved"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// State is the temporal state of one camera.
//
// A frame runs BeginFrame, EnsureBuffers, PrepareParams, MarkResolved and
// EndFrame in that order. A step called in any other phase returns
// ErrOutOfOrder and leaves the state unchanged. EndFrame may be called
// from any phase after BeginFrame: it abandons the remaining steps but
// still swaps history slots, so slot parity always follows the frame
// counter.
//
// State is not safe for concurrent use. Feature serialises each camera's
// frames against Registry.Release and Registry.Close.
type State struct {
	label    string
	jitterer *Jitterer
	history  *HistoryBuffers

	// frameMu is held by Feature from BeginCamera until the frame ends.
	frameMu sync.Mutex
	retired bool

	phase      Phase
	frameIndex int
	frames     uint64

	settings   Settings
	view       View
	projection Projection
	params     ResolveParams

	resetHistory bool
	fallback     bool

	eye      [3]float32
	hasEye   bool
	velocity float32
}

// NewState creates the state of one camera. Its history textures are
// allocated from alloc and labelled with label. A nil conv selects
// WebGPU.
func NewState(label string, alloc render.TextureAllocator, conv Convention) *State {
	return &State{
		label:    label,
		jitterer: NewJitterer(conv),
		history:  NewHistoryBuffers(alloc, label),
	}
}

func (s *State) outOfOrder(op string) error {
	return fmt.Errorf("%w: %s in phase %s", ErrOutOfOrder, op, s.phase)
}

// BeginFrame advances the jitter sequence and jitters the camera
// projection. The returned projection is used for geometry submission.
//
// While the state is in fallback, or when the projection cannot be
// decomposed, the frame is rendered unjittered and BeginFrame still
// succeeds. Zero-sized targets return ErrInvalidSize.
func (s *State) BeginFrame(v View, settings Settings) (Projection, error) {
	if s.phase != PhaseAwaitJitter {
		return Projection{}, s.outOfOrder("BeginFrame")
	}
	if v.Width <= 0 || v.Height <= 0 {
		return Projection{}, fmt.Errorf("%w: %dx%d", ErrInvalidSize, v.Width, v.Height)
	}
	settings = settings.Clamped()

	amount := settings.JitterAmount
	if s.fallback {
		amount = 0
	}
	proj, err := s.jitterer.Jitter(v, JitterAt(s.frameIndex, amount))
	if err != nil {
		if !errors.Is(err, ErrInvalidFrustum) {
			return Projection{}, err
		}
		Logger().Warn("taa: rendering unjittered", "camera", s.label, "err", err)
		proj = Projection{Unjittered: v.Projection, Jittered: v.Projection}
	}

	if s.hasEye {
		dx := v.Eye[0] - s.eye[0]
		dy := v.Eye[1] - s.eye[1]
		dz := v.Eye[2] - s.eye[2]
		s.velocity = math32.Sqrt(dx*dx + dy*dy + dz*dz)
	}
	s.eye = v.Eye
	s.hasEye = true

	s.settings = settings
	s.view = v
	s.projection = proj
	s.phase = PhaseJittered
	return proj, nil
}

// EnsureBuffers makes the history textures match the given specs and
// reports whether history was reset. See HistoryBuffers.EnsureAll.
//
// An allocation failure puts the state into fallback: history is
// released and the following frames render without jitter until
// allocation succeeds again. The failing frame was jittered by
// BeginFrame, so its Projection is reset to the unjittered matrix, which
// the caller renders with before ending the frame with EndFrame.
func (s *State) EnsureBuffers(color, velocity, objectID BufferSpec) (bool, error) {
	if s.phase != PhaseJittered {
		return false, s.outOfOrder("EnsureBuffers")
	}
	created, err := s.history.EnsureAll(color, velocity, objectID)
	if err != nil {
		if errors.Is(err, ErrBufferAllocation) {
			if !s.fallback {
				Logger().Warn("taa: history unavailable, rendering without temporal accumulation",
					"camera", s.label, "err", err)
			}
			s.fallback = true
			s.history.Release()
			u := s.projection.Unjittered
			s.projection = Projection{Unjittered: u, Jittered: u}
		}
		return false, err
	}
	if s.fallback {
		Logger().Info("taa: history restored", "camera", s.label)
		s.fallback = false
	}

	// A reset survives skipped frames until a resolve has seeded history.
	s.resetHistory = s.resetHistory || created
	s.phase = PhaseBuffersEnsured

	Logger().Debug("taa: buffers ensured", "camera", s.label,
		"width", color.Width, "height", color.Height, "reset", s.resetHistory)
	return s.resetHistory, nil
}

// PrepareParams computes the resolve parameter block for this frame.
// preview applies the preview-camera overrides.
func (s *State) PrepareParams(preview bool) (ResolveParams, error) {
	if s.phase != PhaseBuffersEnsured {
		return ResolveParams{}, s.outOfOrder("PrepareParams")
	}
	spec := s.history.Spec(GroupColor)
	s.params = ComputeParams(s.settings, FrameInputs{
		Jitter:         s.projection.Jitter,
		Width:          int(spec.Width),
		Height:         int(spec.Height),
		Preview:        preview,
		CameraVelocity: s.velocity,
		ResetHistory:   s.resetHistory,
	})
	s.phase = PhaseParametersReady
	return s.params, nil
}

// MarkResolved records that the resolve stage has written Next. It
// consumes the reset flag.
func (s *State) MarkResolved() error {
	if s.phase != PhaseParametersReady {
		return s.outOfOrder("MarkResolved")
	}
	s.resetHistory = false
	s.phase = PhaseResolved
	return nil
}

// EndFrame swaps history slots and advances the frame counter. Ending a
// frame before PhaseResolved skips its temporal contribution.
func (s *State) EndFrame() error {
	if s.phase == PhaseAwaitJitter {
		return s.outOfOrder("EndFrame")
	}
	if s.phase != PhaseResolved {
		Logger().Debug("taa: frame skipped", "camera", s.label, "phase", s.phase.String())
	}
	s.history.Swap()
	s.frameIndex = (s.frameIndex + 1) % SamplePeriod
	s.frames++
	s.phase = PhaseAwaitJitter
	return nil
}

// claim waits for the camera's in-flight frame to end and holds the
// camera until unclaim. It reports false, holding nothing, if the state
// was retired by its registry in the meantime.
func (s *State) claim() bool {
	s.frameMu.Lock()
	if s.retired {
		s.frameMu.Unlock()
		return false
	}
	return true
}

func (s *State) unclaim() { s.frameMu.Unlock() }

// retire waits for the in-flight frame, then releases the state for good.
func (s *State) retire() {
	s.frameMu.Lock()
	defer s.frameMu.Unlock()
	s.retired = true
	s.Release()
}

// Release destroys the history textures and returns the state to the
// idle phase. The frame counter is kept.
func (s *State) Release() {
	s.history.Release()
	s.resetHistory = false
	s.fallback = false
	s.phase = PhaseAwaitJitter
}

// Label returns the label used for logs and texture names.
func (s *State) Label() string { return s.label }

// Phase returns the current phase.
func (s *State) Phase() Phase { return s.phase }

// FrameIndex returns the position in the jitter sequence, in [0, 8).
func (s *State) FrameIndex() int { return s.frameIndex }

// Frames returns the number of frames ended.
func (s *State) Frames() uint64 { return s.frames }

// Projection returns the projection of the current frame.
func (s *State) Projection() Projection { return s.projection }

// Params returns the last computed parameter block.
func (s *State) Params() ResolveParams { return s.params }

// History returns the camera's history buffers.
func (s *State) History() *HistoryBuffers { return s.history }

// Jitterer returns the camera's projection jitterer.
func (s *State) Jitterer() *Jitterer { return s.jitterer }

// ResetHistory reports whether history must be reseeded before it is
// trusted.
func (s *State) ResetHistory() bool { return s.resetHistory }

// Fallback reports whether the camera renders without temporal
// accumulation because history could not be allocated.
func (s *State) Fallback() bool { return s.fallback }

// CameraVelocity returns the distance the camera eye moved between the
// last two frames.
func (s *State) CameraVelocity() float32 { return s.velocity }
