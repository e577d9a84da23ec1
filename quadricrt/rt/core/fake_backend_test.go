package core

import (
	"errors"
	"fmt"

	"github.com/gekko3d/raystack/quadricrt/rt/uniform"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// recorder collects backend events in the order they happen.
type recorder struct {
	events []string
}

func (r *recorder) add(format string, args ...any) {
	r.events = append(r.events, fmt.Sprintf(format, args...))
}

type fakeProgram struct {
	name     string
	desc     ProgramDesc
	table    *uniform.Table
	rec      *recorder
	released bool
	// uniforms seen at each draw, by name count
	drawnWith []int
}

func (p *fakeProgram) Name() string { return p.name }

func (p *fakeProgram) SetUniform(name string, v uniform.Value) {
	p.table.SetUniform(name, v)
}

func (p *fakeProgram) Release() { p.released = true }

type fakeGeometry struct {
	rec      *recorder
	err      error
	released bool
}

func (g *fakeGeometry) Draw(p Program) error {
	if g.err != nil {
		return g.err
	}
	fp := p.(*fakeProgram)
	fp.drawnWith = append(fp.drawnWith, fp.table.Len())
	g.rec.add("draw:%s", p.Name())
	return nil
}

func (g *fakeGeometry) Release() { g.released = true }

type fakeTexture struct {
	id       uuid.UUID
	paths    []string
	released bool
}

func (t *fakeTexture) ID() uuid.UUID { return t.id }
func (t *fakeTexture) Release()      { t.released = true }

type fakeSurface struct {
	rec           *recorder
	width, height int
	clear         mgl32.Vec4
	clears        int
}

func (s *fakeSurface) Viewport(w, h int) {
	s.width, s.height = w, h
	s.rec.add("viewport:%dx%d", w, h)
}

func (s *fakeSurface) Clear(c mgl32.Vec4) {
	s.clear = c
	s.clears++
	s.rec.add("clear")
}

type fakeBackend struct {
	rec      *recorder
	programs map[string]*fakeProgram
	order    []string
	geometry *fakeGeometry
	env      *fakeTexture
	target   *fakeTexture
	surface  *fakeSurface

	failProgram string
	failTexture bool
}

func newFakeBackend() *fakeBackend {
	rec := &recorder{}
	return &fakeBackend{
		rec:      rec,
		programs: make(map[string]*fakeProgram),
		target:   &fakeTexture{id: uuid.New()},
		surface:  &fakeSurface{rec: rec},
	}
}

var errCompile = errors.New("compile error")

func (b *fakeBackend) Program(desc ProgramDesc) (Program, error) {
	if desc.Name == b.failProgram {
		return nil, errCompile
	}
	p := &fakeProgram{name: desc.Name, desc: desc, table: uniform.NewTable(), rec: b.rec}
	b.programs[desc.Name] = p
	b.order = append(b.order, desc.Name)
	return p, nil
}

func (b *fakeBackend) FullscreenQuad() (Geometry, error) {
	b.geometry = &fakeGeometry{rec: b.rec}
	return b.geometry, nil
}

func (b *fakeBackend) TextureCube(paths []string) (uniform.TextureHandle, error) {
	if b.failTexture {
		return nil, errors.New("missing face")
	}
	b.env = &fakeTexture{id: uuid.New(), paths: paths}
	return b.env, nil
}

func (b *fakeBackend) RenderTarget() uniform.TextureHandle { return b.target }

func (b *fakeBackend) Surface() Surface { return b.surface }
