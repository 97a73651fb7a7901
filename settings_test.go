// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package taa

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chewxy/math32"
)

func TestDefaultSettingsValid(t *testing.T) {
	if err := DefaultSettings().Validate(); err != nil {
		t.Errorf("DefaultSettings().Validate() = %v", err)
	}
}

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Settings)
		field  string
	}{
		{"quality", func(s *Settings) { s.Quality = Quality(5) }, "quality"},
		{"sharpen", func(s *Settings) { s.SharpenStrength = 2.5 }, "sharpen_strength"},
		{"negative flicker", func(s *Settings) { s.AntiFlicker = -0.1 }, "anti_flicker"},
		{"NaN jitter", func(s *Settings) { s.JitterAmount = math32.NaN() }, "jitter_amount"},
		{"blend", func(s *Settings) { s.BaseBlendFactor = 1.01 }, "base_blend_factor"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.modify(&s)
			err := s.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.field) {
				t.Errorf("Validate() = %v, want error naming %s", err, tt.field)
			}
			if err := s.Clamped().Validate(); err != nil {
				t.Errorf("Clamped().Validate() = %v", err)
			}
		})
	}
}

func TestParseSettings(t *testing.T) {
	doc := `
quality = "high"
anti_flicker = 0.9
history_sharpening = 0.0
anti_ringing = true
`
	s, err := ParseSettings([]byte(doc))
	if err != nil {
		t.Fatalf("ParseSettings: %v", err)
	}
	if s.Quality != QualityHigh || s.AntiFlicker != 0.9 || s.HistorySharpening != 0 || !s.AntiRinging {
		t.Errorf("ParseSettings = %+v", s)
	}
	// Unset keys keep their defaults.
	if s.JitterAmount != DefaultSettings().JitterAmount {
		t.Errorf("JitterAmount = %v, want default", s.JitterAmount)
	}
}

func TestParseSettingsErrors(t *testing.T) {
	tests := []struct {
		name, doc string
	}{
		{"unknown key", "sharpness = 1"},
		{"bad quality", `quality = "ultra"`},
		{"out of range", "anti_flicker = 3"},
		{"syntax", "anti_flicker = "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseSettings([]byte(tt.doc)); err == nil {
				t.Error("ParseSettings should fail")
			}
		})
	}
}

func TestLoadSettingsRoundTrip(t *testing.T) {
	want := DefaultSettings()
	want.Quality = QualityLow
	want.MotionVectorRejection = 0.25
	want.ObjectIDRejection = 0.5

	data, err := want.EncodeTOML()
	if err != nil {
		t.Fatalf("EncodeTOML: %v", err)
	}
	if !strings.Contains(string(data), `quality = 'low'`) && !strings.Contains(string(data), `quality = "low"`) {
		t.Errorf("encoded quality missing:\n%s", data)
	}

	path := filepath.Join(t.TempDir(), "taa.toml")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	got, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if got != want {
		t.Errorf("LoadSettings = %+v, want %+v", got, want)
	}

	if _, err := LoadSettings(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("LoadSettings of a missing file should fail")
	}
}

func TestSettingsApplyEnv(t *testing.T) {
	t.Setenv("TAATEST_QUALITY", "high")
	t.Setenv("TAATEST_ANTI_FLICKER", "0.25")
	t.Setenv("TAATEST_ANTI_RINGING", "true")

	s := DefaultSettings()
	if err := s.ApplyEnv("TAATEST_"); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if s.Quality != QualityHigh || s.AntiFlicker != 0.25 || !s.AntiRinging {
		t.Errorf("ApplyEnv = %+v", s)
	}
	if s.HistorySharpening != DefaultSettings().HistorySharpening {
		t.Errorf("unset variable changed HistorySharpening to %v", s.HistorySharpening)
	}
}

func TestSettingsApplyEnvInvalid(t *testing.T) {
	t.Setenv("TAABAD_JITTER_AMOUNT", "4")

	s := DefaultSettings()
	if err := s.ApplyEnv("TAABAD_"); err == nil {
		t.Fatal("ApplyEnv should reject out-of-range values")
	}
	if s != DefaultSettings() {
		t.Error("failed ApplyEnv must leave settings unchanged")
	}
}
