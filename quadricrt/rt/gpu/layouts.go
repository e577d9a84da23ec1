package gpu

import (
	"fmt"

	"github.com/gekko3d/raystack/quadricrt/rt/uniform"
)

// TextureSlot binds a texture uniform to the next binding after the sampler.
type TextureSlot struct {
	Name string
	Cube bool
}

// ProgramLayout is the bind group shape shared by a program's WGSL and its Go side:
// binding 0 is the uniform buffer, binding 1 a filtering sampler, then Textures in order.
type ProgramLayout struct {
	Uniforms *Layout
	Textures []TextureSlot
}

const (
	UniformBinding      = 0
	SamplerBinding      = 1
	FirstTextureBinding = 2
)

var (
	sceneMembers = []Member{
		{"time", uniform.KindFloat},
		{"quadricCount", uniform.KindInt},
		{"lightCount", uniform.KindInt},
	}
	cameraMembers = []Member{
		{"position", uniform.KindVec3},
		{"viewProjMatrix", uniform.KindMat4},
		{"rayDirMatrix", uniform.KindMat4},
	}
	quadricMembers = []Member{
		{"surface", uniform.KindMat4},
		{"clipper", uniform.KindMat4},
		{"baseColor", uniform.KindVec3},
		{"checkerBoard", uniform.KindInt},
		{"reflection", uniform.KindFloat},
		{"transmission", uniform.KindFloat},
		{"mu", uniform.KindFloat},
	}
	lightMembers = []Member{
		{"position", uniform.KindVec4},
		{"powerDensity", uniform.KindVec3},
	}
)

// StandardLayouts returns the layouts of the textured, trace and show programs.
// maxQuadrics and maxLights must match the sizes baked into the trace source.
func StandardLayouts(maxQuadrics, maxLights int) (map[string]ProgramLayout, error) {
	textured, err := NewLayout().Struct("camera", cameraMembers...).Build()
	if err != nil {
		return nil, fmt.Errorf("textured layout: %w", err)
	}
	trace, err := NewLayout().
		Struct("scene", sceneMembers...).
		Struct("camera", cameraMembers...).
		Array("quadrics", maxQuadrics, quadricMembers...).
		Array("lights", maxLights, lightMembers...).
		Build()
	if err != nil {
		return nil, fmt.Errorf("trace layout: %w", err)
	}
	show, err := NewLayout().Struct("scene", sceneMembers...).Build()
	if err != nil {
		return nil, fmt.Errorf("show layout: %w", err)
	}
	return map[string]ProgramLayout{
		"textured": {Uniforms: textured, Textures: []TextureSlot{{Name: "material.colorTexture"}}},
		"trace":    {Uniforms: trace, Textures: []TextureSlot{{Name: "material.envTexture", Cube: true}}},
		"show":     {Uniforms: show, Textures: []TextureSlot{{Name: "material.traceTexture"}}},
	}, nil
}
