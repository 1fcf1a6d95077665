// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/naga"
)

//go:embed shaders/quad.wgsl
var quadShaderSource string

//go:embed shaders/blend.wgsl
var blendShaderSource string

//go:embed shaders/stencil.wgsl
var stencilShaderSource string

// shaderSources maps each pipeline to its WGSL source.
var shaderSources = map[string]*string{
	"quad":    &quadShaderSource,
	"blend":   &blendShaderSource,
	"stencil": &stencilShaderSource,
}

// shaderSource returns the WGSL source of a pipeline.
func shaderSource(name string) (string, error) {
	src, ok := shaderSources[name]
	if !ok || *src == "" {
		return "", fmt.Errorf("gpu: %s shader source is empty", name)
	}
	return *src, nil
}

// compileSPIRV translates WGSL to SPIR-V words with naga.
// SPIR-V is little-endian 32-bit words.
func compileSPIRV(wgsl string) ([]uint32, error) {
	b, err := naga.Compile(wgsl)
	if err != nil {
		return nil, fmt.Errorf("gpu: compile shader: %w", err)
	}
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = uint32(b[i*4]) |
			uint32(b[i*4+1])<<8 |
			uint32(b[i*4+2])<<16 |
			uint32(b[i*4+3])<<24
	}
	return words, nil
}

// ValidateShaders compiles every embedded shader ahead of device use and
// returns the first failure.
func ValidateShaders() error {
	for _, name := range []string{"quad", "blend", "stencil"} {
		src, err := shaderSource(name)
		if err != nil {
			return err
		}
		if _, err := compileSPIRV(src); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}
