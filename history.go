// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package taa

import (
	"fmt"
	"sync/atomic"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/taa/render"
)

// Group identifies one double-buffered history channel.
type Group int

const (
	// GroupColor is the resolved colour history.
	GroupColor Group = iota

	// GroupVelocity is the per-pixel motion-vector magnitude history. It
	// always matches the colour history size.
	GroupVelocity

	// GroupObjectID is the object-tag history used for disocclusion
	// rejection. Its size and format are independent of colour.
	GroupObjectID

	groupCount
)

// String returns the group name used in texture labels.
func (g Group) String() string {
	switch g {
	case GroupColor:
		return "color"
	case GroupVelocity:
		return "velocity"
	case GroupObjectID:
		return "object_id"
	default:
		return fmt.Sprintf("Group(%d)", int(g))
	}
}

func (g Group) valid() bool { return g >= 0 && g < groupCount }

// Default history formats.
const (
	DefaultColorFormat    = gputypes.TextureFormatRGBA16Float
	DefaultVelocityFormat = gputypes.TextureFormatR16Float
	DefaultObjectIDFormat = gputypes.TextureFormatR16Float
)

// historyUsage lets the resolve pass sample the previous slot, write the
// next one as storage or attachment, and lets the host seed by copy.
const historyUsage = render.TextureUsageTextureBinding |
	render.TextureUsageStorageBinding |
	render.TextureUsageRenderAttachment |
	render.TextureUsageCopySrc |
	render.TextureUsageCopyDst

// BufferSpec is the size and format of one history group.
type BufferSpec struct {
	Width, Height uint32
	Format        gputypes.TextureFormat
}

// IsZero reports whether s requests no buffers.
func (s BufferSpec) IsZero() bool {
	return s.Width == 0 && s.Height == 0
}

type bufferPair struct {
	spec BufferSpec
	tex  [2]render.Texture
}

func (p *bufferPair) allocated() bool {
	return p.tex[0] != nil && p.tex[1] != nil
}

func (p *bufferPair) release() {
	for i, t := range p.tex {
		if t != nil {
			t.Destroy()
			p.tex[i] = nil
		}
	}
	p.spec = BufferSpec{}
}

// HistoryBuffers owns the ping-pong history textures of one camera.
//
// Each frame the resolve stage samples Previous and writes Next, then the
// caller calls Swap. Reading Next as history, or writing Previous, in the
// same frame is a protocol error.
//
// HistoryBuffers is not safe for concurrent use.
type HistoryBuffers struct {
	alloc render.TextureAllocator
	label string
	pairs [groupCount]bufferPair

	read, write int
	swaps       int

	// bytes mirrors the allocated pairs for readers on other goroutines.
	bytes atomic.Uint64
}

// NewHistoryBuffers creates an empty history set. label prefixes the
// debug labels of every texture.
func NewHistoryBuffers(alloc render.TextureAllocator, label string) *HistoryBuffers {
	return &HistoryBuffers{
		alloc: alloc,
		label: label,
		read:  1,
		write: 0,
	}
}

// Ensure makes group g match spec. When the existing pair differs in
// size or format, or is missing, both textures are released and
// reallocated and Ensure returns true. A matching pair is left alone and
// Ensure returns false.
//
// On failure the group is left empty, so the next call retries.
func (h *HistoryBuffers) Ensure(g Group, spec BufferSpec) (bool, error) {
	if !g.valid() {
		return false, fmt.Errorf("taa: unknown history group %d", int(g))
	}
	if spec.Width == 0 || spec.Height == 0 {
		return false, fmt.Errorf("%w: %s history %dx%d", ErrInvalidSize, g, spec.Width, spec.Height)
	}

	p := &h.pairs[g]
	if p.allocated() && p.spec == spec {
		return false, nil
	}
	h.drop(p)

	if cr, ok := h.alloc.(render.CapabilityReporter); ok {
		if !cr.Capabilities().Fits(spec.Width, spec.Height) {
			return false, fmt.Errorf("%w: %s history %dx%d exceeds device limit",
				ErrBufferAllocation, g, spec.Width, spec.Height)
		}
	}

	for i := range p.tex {
		desc := render.TextureDescriptor{
			Label:         fmt.Sprintf("%s_%s_history_%d", h.label, g, i),
			Width:         spec.Width,
			Height:        spec.Height,
			MipLevelCount: 1,
			SampleCount:   1,
			Format:        spec.Format,
			Usage:         historyUsage,
		}
		tex, err := h.alloc.CreateTexture(desc)
		if err != nil {
			p.release()
			return false, fmt.Errorf("%w: %s: %w", ErrBufferAllocation, desc.Label, err)
		}
		p.tex[i] = tex
	}
	p.spec = spec
	h.bytes.Add(pairBytes(spec))

	Logger().Info("taa: history allocated",
		"label", h.label, "group", g.String(),
		"width", spec.Width, "height", spec.Height, "format", spec.Format)
	return true, nil
}

// EnsureAll ensures the three history groups and reports whether any of
// them was (re)allocated. Colour and velocity must share dimensions. A
// zero objectID spec disables the object-id group and frees its buffers.
func (h *HistoryBuffers) EnsureAll(color, velocity, objectID BufferSpec) (bool, error) {
	if color.Width != velocity.Width || color.Height != velocity.Height {
		return false, fmt.Errorf("%w: color %dx%d, velocity %dx%d", ErrMismatchedHistory,
			color.Width, color.Height, velocity.Width, velocity.Height)
	}

	reset := false
	for _, e := range []struct {
		g    Group
		spec BufferSpec
	}{
		{GroupColor, color},
		{GroupVelocity, velocity},
		{GroupObjectID, objectID},
	} {
		if e.g == GroupObjectID && e.spec.IsZero() {
			h.drop(&h.pairs[GroupObjectID])
			continue
		}
		created, err := h.Ensure(e.g, e.spec)
		if err != nil {
			return reset, err
		}
		reset = reset || created
	}
	return reset, nil
}

// Previous returns the slot holding last frame's history for g, or nil
// if g is not allocated.
func (h *HistoryBuffers) Previous(g Group) render.Texture {
	if !g.valid() {
		return nil
	}
	return h.pairs[g].tex[h.read]
}

// Next returns the slot the resolve stage writes for g this frame, or nil
// if g is not allocated.
func (h *HistoryBuffers) Next(g Group) render.Texture {
	if !g.valid() {
		return nil
	}
	return h.pairs[g].tex[h.write]
}

// Allocated reports whether both slots of g exist.
func (h *HistoryBuffers) Allocated(g Group) bool {
	return g.valid() && h.pairs[g].allocated()
}

// Spec returns the current spec of g; zero if not allocated.
func (h *HistoryBuffers) Spec(g Group) BufferSpec {
	if !g.valid() {
		return BufferSpec{}
	}
	return h.pairs[g].spec
}

// Swap exchanges the read and write roles. Call once per frame, after
// the resolve stage (or after skipping it).
func (h *HistoryBuffers) Swap() {
	h.read = h.write
	h.write = 1 - h.write
	h.swaps++
}

// ReadSlot returns the index of the Previous slot.
func (h *HistoryBuffers) ReadSlot() int { return h.read }

// WriteSlot returns the index of the Next slot.
func (h *HistoryBuffers) WriteSlot() int { return h.write }

// Swaps returns how many times Swap has been called.
func (h *HistoryBuffers) Swaps() int { return h.swaps }

// Bytes returns the memory held by all allocated history textures. It
// is safe to call while another goroutine runs the camera's frame.
func (h *HistoryBuffers) Bytes() uint64 {
	return h.bytes.Load()
}

// drop releases p and removes it from the byte total.
func (h *HistoryBuffers) drop(p *bufferPair) {
	if p.allocated() {
		h.bytes.Add(-pairBytes(p.spec))
	}
	p.release()
}

func pairBytes(spec BufferSpec) uint64 {
	return 2 * render.TextureBytes(spec.Width, spec.Height, spec.Format)
}

// Release destroys every history texture. Slot roles are kept.
func (h *HistoryBuffers) Release() {
	released := false
	for i := range h.pairs {
		if h.pairs[i].allocated() {
			released = true
		}
		h.drop(&h.pairs[i])
	}
	if released {
		Logger().Info("taa: history released", "label", h.label)
	}
}
