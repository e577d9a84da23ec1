package core

import (
	"math"

	"github.com/gekko3d/raystack/quadricrt/rt/input"
	"github.com/gekko3d/raystack/quadricrt/rt/uniform"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	maxPitch       = math.Pi / 2
	shiftSpeedGain = 4
)

// PerspectiveCamera is a Y-up fly camera. Its view, projection and ray matrices are derived in
// Update and cannot be set directly.
type PerspectiveCamera struct {
	*uniform.Block

	Position    mgl32.Vec3
	Yaw         float32
	Pitch       float32
	Roll        float32
	Fov         float32 // vertical, radians
	Near        float32
	Far         float32
	Speed       float32
	Sensitivity float32

	aspect float32

	view       mgl32.Mat4
	projection mgl32.Mat4
	viewProj   mgl32.Mat4
	rayDir     mgl32.Mat4

	ahead mgl32.Vec3
	right mgl32.Vec3
	up    mgl32.Vec3
}

func NewPerspectiveCamera() *PerspectiveCamera {
	c := &PerspectiveCamera{
		Block:       uniform.NewBlock("camera"),
		Fov:         1.0,
		Near:        0.1,
		Far:         1000,
		Speed:       2.5,
		Sensitivity: 0.002,
		aspect:      1,
	}
	c.Update()
	return c
}

func (c *PerspectiveCamera) AspectRatio() float32 { return c.aspect }

// SetAspectRatio only stores the ratio; call Update to apply it.
func (c *PerspectiveCamera) SetAspectRatio(ratio float32) {
	c.aspect = ratio
}

func (c *PerspectiveCamera) rotation() mgl32.Mat4 {
	return mgl32.HomogRotate3DY(c.Yaw).
		Mul4(mgl32.HomogRotate3DX(c.Pitch)).
		Mul4(mgl32.HomogRotate3DZ(c.Roll))
}

// Update re-derives every matrix from position, orientation and aspect ratio.
func (c *PerspectiveCamera) Update() {
	rot := c.rotation()
	camToWorld := mgl32.Translate3D(c.Position.X(), c.Position.Y(), c.Position.Z()).Mul4(rot)

	c.view = camToWorld.Inv()
	c.projection = mgl32.Perspective(c.Fov, c.aspect, c.Near, c.Far)
	c.viewProj = c.projection.Mul4(c.view)
	// Drop the translation so NDC maps to a world-space direction.
	c.rayDir = c.viewProj.Mul4(mgl32.Translate3D(c.Position.X(), c.Position.Y(), c.Position.Z())).Inv()

	c.setBasis(rot)

	c.Set("position", uniform.Vec3(c.Position))
	c.Set("viewProjMatrix", uniform.Mat4(c.viewProj))
	c.Set("rayDirMatrix", uniform.Mat4(c.rayDir))
}

func (c *PerspectiveCamera) setBasis(rot mgl32.Mat4) {
	c.ahead = rot.Mul4x1(mgl32.Vec4{0, 0, -1, 0}).Vec3()
	c.right = rot.Mul4x1(mgl32.Vec4{1, 0, 0, 0}).Vec3()
	c.up = mgl32.Vec3{0, 1, 0}
}

// Move integrates input over dt and calls Update. Keys it does not know are ignored.
func (c *PerspectiveCamera) Move(dt float32, in input.State) {
	if in.Dragging {
		c.Yaw -= float32(in.MouseDeltaX) * c.Sensitivity
		c.Pitch -= float32(in.MouseDeltaY) * c.Sensitivity
		c.Pitch = mgl32.Clamp(c.Pitch, -maxPitch, maxPitch)
		// Translate along this frame's heading.
		c.setBasis(c.rotation())
	}

	speed := c.Speed
	if in.Pressed(input.KeyShift) {
		speed *= shiftSpeedGain
	}
	step := speed * dt

	if in.Pressed(input.KeyW) {
		c.Position = c.Position.Add(c.ahead.Mul(step))
	}
	if in.Pressed(input.KeyS) {
		c.Position = c.Position.Sub(c.ahead.Mul(step))
	}
	if in.Pressed(input.KeyD) {
		c.Position = c.Position.Add(c.right.Mul(step))
	}
	if in.Pressed(input.KeyA) {
		c.Position = c.Position.Sub(c.right.Mul(step))
	}
	if in.Pressed(input.KeyE) {
		c.Position = c.Position.Add(c.up.Mul(step))
	}
	if in.Pressed(input.KeyQ) {
		c.Position = c.Position.Sub(c.up.Mul(step))
	}

	c.Update()
}

func (c *PerspectiveCamera) View() mgl32.Mat4         { return c.view }
func (c *PerspectiveCamera) Projection() mgl32.Mat4   { return c.projection }
func (c *PerspectiveCamera) ViewProj() mgl32.Mat4     { return c.viewProj }
func (c *PerspectiveCamera) RayDirMatrix() mgl32.Mat4 { return c.rayDir }
func (c *PerspectiveCamera) Ahead() mgl32.Vec3        { return c.ahead }
func (c *PerspectiveCamera) Right() mgl32.Vec3        { return c.right }

// RayDirection returns the normalized world-space direction through an NDC point.
func (c *PerspectiveCamera) RayDirection(ndcX, ndcY float32) mgl32.Vec3 {
	h := c.rayDir.Mul4x1(mgl32.Vec4{ndcX, ndcY, 1, 1})
	return h.Vec3().Mul(1 / h.W()).Normalize()
}
