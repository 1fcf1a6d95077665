// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import "fmt"

// Pass identifies one stage of a frame.
type Pass uint8

// Passes in execution order.
const (
	PassBrush Pass = iota
	PassComposite
	PassSelection
	PassPresent

	passCount
)

var passNames = [passCount]string{
	PassBrush:     "brush",
	PassComposite: "composite",
	PassSelection: "selection",
	PassPresent:   "present",
}

// Passes returns every pass in the order a frame runs them.
func Passes() []Pass {
	return []Pass{PassBrush, PassComposite, PassSelection, PassPresent}
}

// String implements fmt.Stringer.
func (p Pass) String() string {
	if p < passCount {
		return passNames[p]
	}
	return fmt.Sprintf("Pass(%d)", p)
}

// Bind group indices shared by all pipelines.
const (
	GroupDiffuse  = 0 // diffuse texture + sampler
	GroupSecond   = 1 // bottom layer, stencil mask or frame uniforms
	GroupUniforms = 2 // pass uniforms
)

// Bindings inside a texture group.
const (
	BindingTexture = 0
	BindingSampler = 1
)
