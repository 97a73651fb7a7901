// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package taa

import "github.com/gogpu/gputypes"

// Option configures a Feature or Registry during creation.
//
// Example:
//
//	f := taa.New(alloc,
//	    taa.WithSettings(settings),
//	    taa.WithShaderLibrary(taa.ShaderMap{taa.ResolveShaderName: src}),
//	)
type Option func(*config)

// config holds optional configuration.
type config struct {
	settings       Settings
	conv           Convention
	shaders        ShaderLibrary
	compile        ShaderCompiler
	previewHistory bool
	colorFormat    gputypes.TextureFormat
	velocityFormat gputypes.TextureFormat
	objectIDFormat gputypes.TextureFormat
	objectIDScale  float32
}

// defaultConfig returns the default options.
func defaultConfig() config {
	return config{
		settings:       DefaultSettings(),
		conv:           WebGPU,
		colorFormat:    DefaultColorFormat,
		velocityFormat: DefaultVelocityFormat,
		objectIDFormat: DefaultObjectIDFormat,
	}
}

func newConfig(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithSettings sets the initial settings. Out-of-range values are
// clamped.
func WithSettings(s Settings) Option {
	return func(c *config) {
		c.settings = s.Clamped()
	}
}

// WithConvention sets the projection matrix convention of the host.
// The default is WebGPU.
func WithConvention(conv Convention) Option {
	return func(c *config) {
		if conv != nil {
			c.conv = conv
		}
	}
}

// WithShaderLibrary sets where the resolve shader source is looked up.
// Without a library every resolve fails with ErrMissingResource.
func WithShaderLibrary(lib ShaderLibrary) Option {
	return func(c *config) {
		c.shaders = lib
	}
}

// WithShaderCompiler replaces the WGSL compiler. The default compiles
// with naga.
func WithShaderCompiler(compile ShaderCompiler) Option {
	return func(c *config) {
		c.compile = compile
	}
}

// WithPreviewHistory lets preview cameras keep temporal history. By
// default only primary cameras do.
func WithPreviewHistory(enabled bool) Option {
	return func(c *config) {
		c.previewHistory = enabled
	}
}

// WithColorFormat sets the default colour history format. A camera may
// override it.
func WithColorFormat(f gputypes.TextureFormat) Option {
	return func(c *config) {
		c.colorFormat = f
	}
}

// WithVelocityFormat sets the velocity-magnitude history format.
func WithVelocityFormat(f gputypes.TextureFormat) Option {
	return func(c *config) {
		c.velocityFormat = f
	}
}

// WithObjectIDFormat sets the object-id history format.
func WithObjectIDFormat(f gputypes.TextureFormat) Option {
	return func(c *config) {
		c.objectIDFormat = f
	}
}

// WithObjectIDScale enables object-id history at scale times the colour
// resolution. 0, the default, disables it.
func WithObjectIDScale(scale float32) Option {
	return func(c *config) {
		c.objectIDScale = clamp(scale, 0, 1)
	}
}
