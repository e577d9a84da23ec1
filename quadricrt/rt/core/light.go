package core

import (
	"github.com/gekko3d/raystack/quadricrt/rt/uniform"
	"github.com/go-gl/mathgl/mgl32"
)

const lightNamespace = "lights"

type LightKind int

const (
	LightDirectional LightKind = iota
	LightPoint
)

func (k LightKind) String() string {
	if k == LightDirectional {
		return "directional"
	}
	return "point"
}

// Light is a directional (Position.W == 0) or point (Position.W == 1) light source.
// The w component is the only kind discriminator; the shader reads it the same way.
type Light struct {
	*uniform.Block

	index int

	Position     mgl32.Vec4
	PowerDensity mgl32.Vec3
}

func NewLight(index int) *Light {
	l := &Light{
		Block: uniform.NewIndexedBlock(lightNamespace, index),
		index: index,
	}
	l.publish()
	return l
}

func (l *Light) Slot() int { return l.index }

// Kind classifies the light by its homogeneous position.
func (l *Light) Kind() LightKind {
	if l.Position.W() == 0 {
		return LightDirectional
	}
	return LightPoint
}

// SetDirection makes l a directional light shining from dir.
func (l *Light) SetDirection(dir mgl32.Vec3) {
	l.Position = dir.Vec4(0)
}

// SetPoint makes l a point light at pos.
func (l *Light) SetPoint(pos mgl32.Vec3) {
	l.Position = pos.Vec4(1)
}

func (l *Light) publish() {
	l.Set("position", uniform.Vec4(l.Position))
	l.Set("powerDensity", uniform.Vec3(l.PowerDensity))
}

func (l *Light) SetUniforms(targets []uniform.Sink) {
	l.publish()
	l.Block.SetUniforms(targets)
}
