package core

import (
	"errors"

	"github.com/gekko3d/raystack/quadricrt/rt/uniform"
	"github.com/go-gl/mathgl/mgl32"
)

// ErrResourceCreation marks a program, texture or geometry that failed to build.
// Scene construction aborts when it sees one.
var ErrResourceCreation = errors.New("resource creation failed")

// ErrSceneDisposed is returned by Draw after Dispose.
var ErrSceneDisposed = errors.New("scene disposed")

// Program is a compiled shader program that collects named uniforms before each draw.
type Program interface {
	uniform.Sink
	Name() string
}

// ProgramDesc describes a program built from a vertex and a fragment source.
// Offscreen programs render into the backend's intermediate target instead of the screen.
type ProgramDesc struct {
	Name      string
	Vertex    string
	Fragment  string
	Offscreen bool
}

// Geometry binds itself and issues a draw using the given program's pending uniforms.
type Geometry interface {
	Draw(p Program) error
}

// Surface is the output the frame is presented to.
type Surface interface {
	Viewport(width, height int)
	Clear(color mgl32.Vec4)
}

// Backend builds GPU resources for a scene.
type Backend interface {
	Program(desc ProgramDesc) (Program, error)
	FullscreenQuad() (Geometry, error)
	TextureCube(paths []string) (uniform.TextureHandle, error)
	// RenderTarget is the intermediate image written by offscreen programs.
	RenderTarget() uniform.TextureHandle
	Surface() Surface
}

type releaser interface {
	Release()
}

func release(resources ...any) {
	for _, r := range resources {
		if rel, ok := r.(releaser); ok && rel != nil {
			rel.Release()
		}
	}
}
