// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package taa

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"
)

// DefaultEnvPrefix is the environment prefix used by the probe tool.
const DefaultEnvPrefix = "TAA_"

// Settings are the user-tunable resolve parameters.
//
// Settings can be decoded from TOML (see LoadSettings) and overlaid from
// the environment (see Settings.ApplyEnv); field names in both follow the
// struct tags.
type Settings struct {
	// Quality selects the resolve variant.
	Quality Quality `toml:"quality" env:"QUALITY"`

	// SharpenStrength is the post-resolve sharpening amount, in [0, 2].
	SharpenStrength float32 `toml:"sharpen_strength" env:"SHARPEN_STRENGTH"`

	// HistorySharpening controls the history reconstruction filter.
	// 0 forces bilinear history sampling.
	HistorySharpening float32 `toml:"history_sharpening" env:"HISTORY_SHARPENING"`

	// MotionVectorRejection rejects history where velocity changes.
	// 0 disables rejection.
	MotionVectorRejection float32 `toml:"motion_vector_rejection" env:"MOTION_VECTOR_REJECTION"`

	// AntiFlicker suppresses flicker of thin, high-contrast features.
	AntiFlicker float32 `toml:"anti_flicker" env:"ANTI_FLICKER"`

	// BaseBlendFactor is how much of the history is kept on a stable pixel.
	BaseBlendFactor float32 `toml:"base_blend_factor" env:"BASE_BLEND_FACTOR"`

	// JitterAmount scales the projection jitter; 0 disables jitter.
	JitterAmount float32 `toml:"jitter_amount" env:"JITTER_AMOUNT"`

	// ObjectIDRejection rejects history where the object tag changes.
	ObjectIDRejection float32 `toml:"object_id_rejection" env:"OBJECT_ID_REJECTION"`

	// AntiRinging clamps sharpened history. Only honoured at QualityHigh.
	AntiRinging bool `toml:"anti_ringing" env:"ANTI_RINGING"`
}

// DefaultSettings returns the settings used when none are supplied.
func DefaultSettings() Settings {
	return Settings{
		Quality:               QualityMedium,
		SharpenStrength:       0.5,
		HistorySharpening:     0.35,
		MotionVectorRejection: 0,
		AntiFlicker:           0.5,
		BaseBlendFactor:       0.875,
		JitterAmount:          1,
		ObjectIDRejection:     0,
		AntiRinging:           false,
	}
}

type settingRange struct {
	name     string
	value    float32
	min, max float32
}

func (s Settings) ranges() []settingRange {
	return []settingRange{
		{"sharpen_strength", s.SharpenStrength, 0, 2},
		{"history_sharpening", s.HistorySharpening, 0, 1},
		{"motion_vector_rejection", s.MotionVectorRejection, 0, 1},
		{"anti_flicker", s.AntiFlicker, 0, 1},
		{"base_blend_factor", s.BaseBlendFactor, 0, 1},
		{"jitter_amount", s.JitterAmount, 0, 1},
		{"object_id_rejection", s.ObjectIDRejection, 0, 1},
	}
}

// Validate reports every out-of-range field.
func (s Settings) Validate() error {
	var errs []error
	if !s.Quality.Valid() {
		errs = append(errs, fmt.Errorf("taa: quality %d out of range", int(s.Quality)))
	}
	for _, r := range s.ranges() {
		if !finite(r.value) || r.value < r.min || r.value > r.max {
			errs = append(errs, fmt.Errorf("taa: %s = %v, want [%v, %v]", r.name, r.value, r.min, r.max))
		}
	}
	return errors.Join(errs...)
}

// Clamped returns s with every field forced into its valid range.
// Unknown quality tiers become QualityMedium and NaN becomes the lower
// bound.
func (s Settings) Clamped() Settings {
	if !s.Quality.Valid() {
		s.Quality = QualityMedium
	}
	s.SharpenStrength = clamp(s.SharpenStrength, 0, 2)
	s.HistorySharpening = clamp01(s.HistorySharpening)
	s.MotionVectorRejection = clamp01(s.MotionVectorRejection)
	s.AntiFlicker = clamp01(s.AntiFlicker)
	s.BaseBlendFactor = clamp01(s.BaseBlendFactor)
	s.JitterAmount = clamp01(s.JitterAmount)
	s.ObjectIDRejection = clamp01(s.ObjectIDRejection)
	return s
}

// ParseSettings decodes TOML on top of DefaultSettings. Unknown keys are
// rejected.
func ParseSettings(data []byte) (Settings, error) {
	s := DefaultSettings()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return Settings{}, fmt.Errorf("taa: decode settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// LoadSettings reads a TOML settings file.
func LoadSettings(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("taa: read settings: %w", err)
	}
	s, err := ParseSettings(data)
	if err != nil {
		return Settings{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// ApplyEnv overlays environment variables named prefix+TAG (for example
// TAA_ANTI_FLICKER) onto s. Unset variables leave fields unchanged.
func (s *Settings) ApplyEnv(prefix string) error {
	next := *s
	if err := env.ParseWithOptions(&next, env.Options{Prefix: prefix}); err != nil {
		return fmt.Errorf("taa: settings environment: %w", err)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*s = next
	return nil
}

// EncodeTOML encodes s as a TOML document that ParseSettings accepts.
func (s Settings) EncodeTOML() ([]byte, error) {
	return toml.Marshal(s)
}

func clamp(v, lo, hi float32) float32 {
	switch {
	case !finite(v), v < lo:
		return lo
	case v > hi:
		return hi
	}
	return v
}
