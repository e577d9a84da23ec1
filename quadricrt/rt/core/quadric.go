package core

import (
	"github.com/gekko3d/raystack/quadricrt/rt/uniform"
	"github.com/go-gl/mathgl/mgl32"
)

const quadricNamespace = "quadrics"

// ClippedQuadric is a ray-traceable implicit surface p^T S p = 0, restricted to the region where
// p^T C p <= 0 for its clipper C. Points are homogeneous column vectors.
type ClippedQuadric struct {
	*uniform.Block

	index int

	// Canonical coefficients, before any model transform.
	canonicalSurface mgl32.Mat4
	canonicalClipper mgl32.Mat4

	surface mgl32.Mat4
	clipper mgl32.Mat4

	model    mgl32.Mat4
	modelInv mgl32.Mat4

	BaseColor    mgl32.Vec3
	CheckerBoard bool
	Reflection   float32
	Transmission float32
	// Mu is the index of refraction. It is not validated.
	Mu float32
}

// NewClippedQuadric creates an empty quadric in the given slot. The slot never changes.
func NewClippedQuadric(index int) *ClippedQuadric {
	q := &ClippedQuadric{
		Block:    uniform.NewIndexedBlock(quadricNamespace, index),
		index:    index,
		model:    mgl32.Ident4(),
		modelInv: mgl32.Ident4(),
		Mu:       1,
	}
	q.publish()
	return q
}

func (q *ClippedQuadric) Slot() int { return q.index }

// MakePlane sets the canonical shape to the plane y = 0 with an always-true clipper
// and resets the model transform.
func (q *ClippedQuadric) MakePlane() {
	q.SetCanonical(
		mgl32.Mat4{
			0, 0, 0, 0,
			0, 0, 0, 0.5,
			0, 0, 0, 0,
			0, 0.5, 0, 0,
		},
		alwaysInside(),
	)
}

// MakeUnitSphere sets the canonical shape to x^2 + y^2 + z^2 = 1 with an always-true clipper
// and resets the model transform.
func (q *ClippedQuadric) MakeUnitSphere() {
	q.SetCanonical(mgl32.Diag4(mgl32.Vec4{1, 1, 1, -1}), alwaysInside())
}

// SetCanonical replaces the shape definition and resets the model transform.
func (q *ClippedQuadric) SetCanonical(surface, clipper mgl32.Mat4) {
	q.canonicalSurface = surface
	q.canonicalClipper = clipper
	q.model = mgl32.Ident4()
	q.modelInv = mgl32.Ident4()
	q.surface = surface
	q.clipper = clipper
}

// Transform right-multiplies the model transform by m and re-derives the coefficients from the
// canonical shape: Q' = (M^-1)^T Q M^-1.
func (q *ClippedQuadric) Transform(m mgl32.Mat4) {
	q.SetTransform(q.model.Mul4(m))
}

// SetTransform replaces the model transform outright.
func (q *ClippedQuadric) SetTransform(m mgl32.Mat4) {
	q.model = m
	q.modelInv = m.Inv()
	q.rederive()
}

func (q *ClippedQuadric) rederive() {
	inv := q.modelInv
	invT := inv.Transpose()
	q.surface = invT.Mul4(q.canonicalSurface).Mul4(inv)
	q.clipper = invT.Mul4(q.canonicalClipper).Mul4(inv)
}

func (q *ClippedQuadric) Surface() mgl32.Mat4  { return q.surface }
func (q *ClippedQuadric) Clipper() mgl32.Mat4  { return q.clipper }
func (q *ClippedQuadric) Model() mgl32.Mat4    { return q.model }
func (q *ClippedQuadric) ModelInv() mgl32.Mat4 { return q.modelInv }

// Center is the image of the canonical origin under the model transform.
func (q *ClippedQuadric) Center() mgl32.Vec3 {
	return q.model.Col(3).Vec3()
}

// Evaluate returns p^T S p for a world-space point; zero on the surface.
func (q *ClippedQuadric) Evaluate(p mgl32.Vec3) float32 {
	h := p.Vec4(1)
	return h.Dot(q.surface.Mul4x1(h))
}

// Clips reports whether a world-space point lies outside the clipping region.
func (q *ClippedQuadric) Clips(p mgl32.Vec3) bool {
	h := p.Vec4(1)
	return h.Dot(q.clipper.Mul4x1(h)) > 0
}

func (q *ClippedQuadric) publish() {
	q.Set("surface", uniform.Mat4(q.surface))
	q.Set("clipper", uniform.Mat4(q.clipper))
	q.Set("baseColor", uniform.Vec3(q.BaseColor))
	q.Set("checkerBoard", uniform.Bool(q.CheckerBoard))
	q.Set("reflection", uniform.Float(q.Reflection))
	q.Set("transmission", uniform.Float(q.Transmission))
	q.Set("mu", uniform.Float(q.Mu))
}

func (q *ClippedQuadric) SetUniforms(targets []uniform.Sink) {
	q.publish()
	q.Block.SetUniforms(targets)
}

func alwaysInside() mgl32.Mat4 {
	return mgl32.Mat4{
		0, 0, 0, 0,
		0, 0, 0, 0,
		0, 0, 0, 0,
		0, 0, 0, -1,
	}
}
