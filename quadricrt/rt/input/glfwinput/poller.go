// Package glfwinput fills input.State from a GLFW window.
package glfwinput

import (
	"github.com/gekko3d/raystack/quadricrt/rt/input"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// Window is the subset of *glfw.Window the poller reads.
type Window interface {
	GetKey(key glfw.Key) glfw.Action
	GetMouseButton(button glfw.MouseButton) glfw.Action
	GetCursorPos() (x, y float64)
}

// Poller turns GLFW key and cursor state into an input.State each frame.
type Poller struct {
	window  Window
	lastX   float64
	lastY   float64
	havePos bool
}

func NewPoller(w Window) *Poller {
	return &Poller{window: w}
}

// Poll reads the current device state. glfw.PollEvents must already have run this frame.
func (p *Poller) Poll() input.State {
	var s input.State
	for key, glfwKey := range keyToGlfw {
		if p.window.GetKey(glfwKey) == glfw.Press {
			s.Press(key)
		}
	}

	x, y := p.window.GetCursorPos()
	if p.havePos {
		s.MouseDeltaX = x - p.lastX
		s.MouseDeltaY = y - p.lastY
	}
	p.lastX, p.lastY, p.havePos = x, y, true

	s.Dragging = p.window.GetMouseButton(glfw.MouseButtonLeft) == glfw.Press
	return s
}

var keyToGlfw = map[input.Key]glfw.Key{
	input.KeyA:       glfw.KeyA,
	input.KeyD:       glfw.KeyD,
	input.KeyE:       glfw.KeyE,
	input.KeyQ:       glfw.KeyQ,
	input.KeyS:       glfw.KeyS,
	input.KeyW:       glfw.KeyW,
	input.KeySpace:   glfw.KeySpace,
	input.KeyEscape:  glfw.KeyEscape,
	input.KeyTab:     glfw.KeyTab,
	input.KeyShift:   glfw.KeyLeftShift,
	input.KeyControl: glfw.KeyLeftControl,
	input.KeyUp:      glfw.KeyUp,
	input.KeyDown:    glfw.KeyDown,
	input.KeyLeft:    glfw.KeyLeft,
	input.KeyRight:   glfw.KeyRight,
}
