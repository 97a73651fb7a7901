// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package taa

import (
	"fmt"
	"strings"
)

// Quality selects the resolve shader variant.
type Quality int

const (
	// QualityLow samples the centre and four orthogonal neighbours with a
	// cheaper history clamp.
	QualityLow Quality = iota

	// QualityMedium is the default.
	QualityMedium

	// QualityHigh adds the four diagonal neighbours and allows anti-ringing.
	QualityHigh
)

// String returns the lower-case quality name.
func (q Quality) String() string {
	switch q {
	case QualityLow:
		return "low"
	case QualityMedium:
		return "medium"
	case QualityHigh:
		return "high"
	default:
		return fmt.Sprintf("Quality(%d)", int(q))
	}
}

// Valid reports whether q is a known tier.
func (q Quality) Valid() bool {
	return q >= QualityLow && q <= QualityHigh
}

// MarshalText implements encoding.TextMarshaler.
func (q Quality) MarshalText() ([]byte, error) {
	if !q.Valid() {
		return nil, fmt.Errorf("taa: invalid quality %d", int(q))
	}
	return []byte(q.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Names are matched
// case-insensitively.
func (q *Quality) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "low":
		*q = QualityLow
	case "medium", "":
		*q = QualityMedium
	case "high":
		*q = QualityHigh
	default:
		return fmt.Errorf("taa: unknown quality %q", text)
	}
	return nil
}

// ModeFlags are the discrete resolve-shader switches derived from
// Settings.
type ModeFlags uint8

const (
	// FlagBilinearHistory samples history bilinearly instead of with the
	// sharpening filter.
	FlagBilinearHistory ModeFlags = 1 << iota

	// FlagAntiRinging clamps sharpened history against its neighbourhood.
	FlagAntiRinging

	// FlagMotionRejection rejects history by velocity-magnitude change.
	FlagMotionRejection

	// FlagLowQuality, FlagMediumQuality and FlagHighQuality are mutually
	// exclusive.
	FlagLowQuality
	FlagMediumQuality
	FlagHighQuality
)

var flagKeywords = []struct {
	flag    ModeFlags
	keyword string
}{
	{FlagBilinearHistory, "FORCE_BILINEAR_HISTORY"},
	{FlagAntiRinging, "ANTI_RINGING"},
	{FlagMotionRejection, "ENABLE_MV_REJECTION"},
	{FlagLowQuality, "LOW_QUALITY"},
	{FlagMediumQuality, "MEDIUM_QUALITY"},
	{FlagHighQuality, "HIGH_QUALITY"},
}

// Has reports whether every flag in f is set.
func (m ModeFlags) Has(f ModeFlags) bool { return m&f == f }

// Keywords returns the shader keywords enabled by m, in a fixed order.
func (m ModeFlags) Keywords() []string {
	var out []string
	for _, fk := range flagKeywords {
		if m.Has(fk.flag) {
			out = append(out, fk.keyword)
		}
	}
	return out
}

// String returns the enabled keywords joined by '|'.
func (m ModeFlags) String() string {
	kw := m.Keywords()
	if len(kw) == 0 {
		return "none"
	}
	return strings.Join(kw, "|")
}

// modeFlags translates user settings into shader switches. The switches
// follow the user's settings even for preview cameras.
func modeFlags(s Settings) ModeFlags {
	var m ModeFlags
	if s.HistorySharpening == 0 {
		m |= FlagBilinearHistory
	}
	if s.HistorySharpening != 0 && s.AntiRinging && s.Quality == QualityHigh {
		m |= FlagAntiRinging
	}
	if s.MotionVectorRejection > 0 {
		m |= FlagMotionRejection
	}
	switch s.Quality {
	case QualityLow:
		m |= FlagLowQuality
	case QualityHigh:
		m |= FlagHighQuality
	default:
		m |= FlagMediumQuality
	}
	return m
}
