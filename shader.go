// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package taa

import (
	"fmt"
	"sync"

	"github.com/gogpu/taa/internal/gpu"
)

// ResolveShaderName is the library key of the resolve shader.
const ResolveShaderName = "taa_resolve"

// ShaderLibrary looks up WGSL shader sources by name. The host owns the
// sources; taa only compiles and hands them back.
type ShaderLibrary interface {
	Shader(name string) (wgsl string, ok bool)
}

// ShaderMap is a ShaderLibrary backed by a map.
type ShaderMap map[string]string

// Shader implements ShaderLibrary. Empty sources count as missing.
func (m ShaderMap) Shader(name string) (string, bool) {
	src, ok := m[name]
	return src, ok && src != ""
}

// ShaderCompiler turns WGSL source into SPIR-V words.
type ShaderCompiler func(wgsl string) ([]uint32, error)

// resolveProgram compiles the resolve shader on first use and caches the
// result. Failures are not cached: the next frame retries, and only the
// first failure of a run is logged.
type resolveProgram struct {
	mu      sync.Mutex
	lib     ShaderLibrary
	compile ShaderCompiler
	spirv   []uint32
	failing bool
}

func newResolveProgram(lib ShaderLibrary, compile ShaderCompiler) *resolveProgram {
	if compile == nil {
		compile = func(src string) ([]uint32, error) {
			return gpu.CompileWGSL(ResolveShaderName, src)
		}
	}
	return &resolveProgram{lib: lib, compile: compile}
}

// load returns the SPIR-V of the resolve shader, or an error wrapping
// ErrMissingResource.
func (p *resolveProgram) load() ([]uint32, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.spirv != nil {
		return p.spirv, nil
	}
	if p.lib == nil {
		return nil, p.fail(fmt.Errorf("%w: no shader library", ErrMissingResource))
	}
	src, ok := p.lib.Shader(ResolveShaderName)
	if !ok {
		return nil, p.fail(fmt.Errorf("%w: %q not found", ErrMissingResource, ResolveShaderName))
	}
	words, err := p.compile(src)
	if err != nil {
		return nil, p.fail(fmt.Errorf("%w: %w", ErrMissingResource, err))
	}
	if p.failing {
		Logger().Info("taa: resolve shader available again")
	}
	p.spirv = words
	p.failing = false
	return words, nil
}

func (p *resolveProgram) fail(err error) error {
	if !p.failing {
		Logger().Warn("taa: resolve skipped", "err", err)
		p.failing = true
	}
	return err
}
