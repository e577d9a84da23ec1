// Package uniform models named shader parameters and the entities that supply them.
//
// A Provider owns a Block of typed values under a namespace. When asked, it writes every value
// into one or more Sinks (a program's pending uniform table) under a resolved name of the form
// "namespace.param", or "namespace[i].param" for indexed providers such as quadrics and lights.
package uniform

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

type Kind int

const (
	KindFloat Kind = iota
	KindInt
	KindVec3
	KindVec4
	KindMat4
	KindTexture
)

func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "f32"
	case KindInt:
		return "i32"
	case KindVec3:
		return "vec3<f32>"
	case KindVec4:
		return "vec4<f32>"
	case KindMat4:
		return "mat4x4<f32>"
	case KindTexture:
		return "texture"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Value is a single typed uniform value.
type Value interface {
	Kind() Kind
}

type Float float32
type Int int32
type Vec3 mgl32.Vec3
type Vec4 mgl32.Vec4
type Mat4 mgl32.Mat4

func (Float) Kind() Kind { return KindFloat }
func (Int) Kind() Kind   { return KindInt }
func (Vec3) Kind() Kind  { return KindVec3 }
func (Vec4) Kind() Kind  { return KindVec4 }
func (Mat4) Kind() Kind  { return KindMat4 }

// TextureHandle is a backend texture that can be bound by name.
type TextureHandle interface {
	ID() uuid.UUID
}

type Texture struct {
	Handle TextureHandle
}

func (Texture) Kind() Kind { return KindTexture }

// Bool encodes a flag the way the shaders read it: 1 for true, 0 for false.
func Bool(b bool) Int {
	if b {
		return 1
	}
	return 0
}

// Sink receives resolved uniform values, overwriting any previous value under the same name.
type Sink interface {
	SetUniform(name string, v Value)
}

// Provider is anything that can push its uniforms into programs.
type Provider interface {
	SetUniforms(targets []Sink)
}

// Gather pushes every provider into every target, in slice order.
func Gather(targets []Sink, providers []Provider) {
	for _, p := range providers {
		p.SetUniforms(targets)
	}
}
