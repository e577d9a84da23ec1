package core

import (
	"fmt"
	"math"

	"github.com/gekko3d/raystack"
	"github.com/gekko3d/raystack/quadricrt/rt/input"
	"github.com/gekko3d/raystack/quadricrt/rt/shaders"
	"github.com/gekko3d/raystack/quadricrt/rt/uniform"
	"github.com/go-gl/mathgl/mgl32"
)

type State int

const (
	StateConstructing State = iota
	StateReady
	StateUpdating
	StateDrawing
	StateDisposed
)

func (s State) String() string {
	switch s {
	case StateConstructing:
		return "constructing"
	case StateReady:
		return "ready"
	case StateUpdating:
		return "updating"
	case StateDrawing:
		return "drawing"
	case StateDisposed:
		return "disposed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

const (
	glassSphereCount  = 4
	glassOrbitRadius  = 2
	glassBaseMu       = 1.3
	glassMuStep       = 0.2
	defaultQuadricMu  = 1.5
	floorHeight       = -2
	envTextureParam   = "envTexture"
	traceTextureParam = "traceTexture"
)

// DefaultClearColor is the background the frame is cleared to.
var DefaultClearColor = mgl32.Vec4{0.3, 0.0, 0.3, 1.0}

// Orbit places an object on a horizontal circle; the angle at time t is t + Phase.
type Orbit struct {
	Center mgl32.Vec3
	Radius float32
	Phase  float32
}

func (o Orbit) At(t float32) mgl32.Vec3 {
	a := float64(t + o.Phase)
	return o.Center.Add(mgl32.Vec3{
		o.Radius * float32(math.Cos(a)),
		0,
		o.Radius * float32(math.Sin(a)),
	})
}

type orbiter struct {
	quadric *ClippedQuadric
	orbit   Orbit
}

// Scene owns the quadrics, lights, camera and game objects, and drives them once per frame:
// Update then Draw, strictly alternating, on one goroutine.
type Scene struct {
	*uniform.Block

	log     raystack.Logger
	surface Surface

	// Programs in registration order. The trace program precedes the show program.
	Programs        []Program
	TexturedProgram Program
	TraceProgram    Program
	ShowProgram     Program

	QuadGeometry Geometry
	EnvTexture   uniform.TextureHandle

	TraceMaterial *Material
	ShowMaterial  *Material
	GameObjects   []*GameObject

	Camera *PerspectiveCamera

	Quadrics     []*ClippedQuadric
	Lights       []*Light
	Floor        *ClippedQuadric
	GlassSpheres []*ClippedQuadric
	orbits       []orbiter

	ClearColor mgl32.Vec4

	state State
	time  float32
}

// NewScene builds every program, texture and geometry through b and defines the reference scene.
// Any resource failure aborts construction with an error wrapping ErrResourceCreation.
func NewScene(b Backend, cfg raystack.Config, log raystack.Logger) (*Scene, error) {
	cfg.Normalize()
	s := &Scene{
		Block:      uniform.NewBlock("scene"),
		log:        raystack.OrNop(log),
		surface:    b.Surface(),
		ClearColor: DefaultClearColor,
		state:      StateConstructing,
	}

	if err := s.buildResources(b, cfg); err != nil {
		s.Dispose()
		return nil, err
	}

	s.Camera = NewPerspectiveCamera()
	s.Camera.Speed = cfg.CameraSpeed
	s.Camera.Position = mgl32.Vec3{0, 1.5, 6}
	s.Camera.Pitch = -0.3
	s.Camera.Update()

	s.define()

	// Registration: every program learns every uniform once, up front.
	uniform.Gather(s.sinks(), s.providers())

	s.state = StateReady
	s.log.Debugf("scene ready: %d programs, %d quadrics, %d lights", len(s.Programs), len(s.Quadrics), len(s.Lights))
	return s, nil
}

func (s *Scene) buildResources(b Backend, cfg raystack.Config) error {
	var err error
	programs := []struct {
		desc ProgramDesc
		dst  *Program
	}{
		{ProgramDesc{Name: "textured", Vertex: shaders.TexturedWGSL, Fragment: shaders.TexturedWGSL}, &s.TexturedProgram},
		{ProgramDesc{Name: "trace", Vertex: shaders.QuadWGSL, Fragment: shaders.Trace(cfg.MaxQuadrics, cfg.MaxLights), Offscreen: true}, &s.TraceProgram},
		{ProgramDesc{Name: "show", Vertex: shaders.QuadWGSL, Fragment: shaders.ShowWGSL}, &s.ShowProgram},
	}
	for _, p := range programs {
		*p.dst, err = b.Program(p.desc)
		if err != nil {
			return fmt.Errorf("%w: program %q: %w", ErrResourceCreation, p.desc.Name, err)
		}
		s.Programs = append(s.Programs, *p.dst)
	}

	s.QuadGeometry, err = b.FullscreenQuad()
	if err != nil {
		return fmt.Errorf("%w: quad geometry: %w", ErrResourceCreation, err)
	}

	s.EnvTexture, err = b.TextureCube(cfg.EnvPaths())
	if err != nil {
		return fmt.Errorf("%w: environment cube map: %w", ErrResourceCreation, err)
	}

	s.TraceMaterial = NewMaterial(s.TraceProgram)
	s.TraceMaterial.SetTexture(envTextureParam, s.EnvTexture)
	s.ShowMaterial = NewMaterial(s.ShowProgram)
	s.ShowMaterial.SetTexture(traceTextureParam, b.RenderTarget())

	s.GameObjects = append(s.GameObjects,
		NewGameObject("traceQuad", NewMesh(s.TraceMaterial, s.QuadGeometry)),
		NewGameObject("showQuad", NewMesh(s.ShowMaterial, s.QuadGeometry)),
	)
	for _, g := range s.GameObjects {
		s.log.Debugf("game object %s (%s) -> program %s", g.Name, g.ID, g.Mesh.Material.Program.Name())
	}
	return nil
}

// define creates the floor, the orbiting glass spheres and the two lights.
func (s *Scene) define() {
	s.Floor = s.CreateClippedQuadric()
	s.Floor.MakePlane()
	s.Floor.Transform(mgl32.Translate3D(0, floorHeight, 0))
	s.Floor.CheckerBoard = true

	for i := 0; i < glassSphereCount; i++ {
		glass := s.CreateGlass(2 * math.Pi / glassSphereCount * float32(i))
		glass.Mu = glassBaseMu + glassMuStep*float32(i)
		s.GlassSpheres = append(s.GlassSpheres, glass)
	}
	s.animate(0)

	dir := s.CreateLight()
	dir.Position = mgl32.Vec4{1, 1, 1, 0}
	dir.PowerDensity = mgl32.Vec3{4, 4, 4}

	point := s.CreateLight()
	point.Position = mgl32.Vec4{0, 8, 0, 1}
	point.PowerDensity = mgl32.Vec3{16, 16, 16}
}

// CreateClippedQuadric appends a quadric in the next free slot with default parameters.
func (s *Scene) CreateClippedQuadric() *ClippedQuadric {
	q := NewClippedQuadric(len(s.Quadrics))
	q.BaseColor = mgl32.Vec3{1, 1, 1}
	q.Reflection = 0
	q.Transmission = 0
	q.Mu = defaultQuadricMu
	q.CheckerBoard = false
	s.Quadrics = append(s.Quadrics, q)
	s.log.Debugf("quadric %d created", q.Slot())
	return q
}

// CreateGlass creates a reflective, transmissive unit sphere orbiting the origin at the given phase.
func (s *Scene) CreateGlass(phase float32) *ClippedQuadric {
	q := s.CreateClippedQuadric()
	q.MakeUnitSphere()
	q.Reflection = 1
	q.Transmission = 1
	s.orbits = append(s.orbits, orbiter{
		quadric: q,
		orbit:   Orbit{Radius: glassOrbitRadius, Phase: phase},
	})
	return q
}

// CreateLight appends a light in the next free slot with zero power and position.
func (s *Scene) CreateLight() *Light {
	l := NewLight(len(s.Lights))
	s.Lights = append(s.Lights, l)
	s.log.Debugf("light %d created", l.Slot())
	return l
}

// OrbitOf returns the orbit driving q, if any.
func (s *Scene) OrbitOf(q *ClippedQuadric) (Orbit, bool) {
	for _, o := range s.orbits {
		if o.quadric == q {
			return o.orbit, true
		}
	}
	return Orbit{}, false
}

func (s *Scene) State() State  { return s.state }
func (s *Scene) Time() float32 { return s.time }

// Resize applies new surface dimensions to the viewport and the camera.
func (s *Scene) Resize(width, height int) {
	s.surface.Viewport(width, height)
	if height > 0 {
		s.Camera.SetAspectRatio(float32(width) / float32(height))
	}
	s.Camera.Update()
}

// animate recomputes orbiting transforms absolutely from t.
func (s *Scene) animate(t float32) {
	for _, o := range s.orbits {
		p := o.orbit.At(t)
		o.quadric.MakeUnitSphere()
		o.quadric.Transform(mgl32.Translate3D(p.X(), p.Y(), p.Z()))
	}
}

// Update advances the scene to total time t. dt drives camera movement only; neither value is
// validated.
func (s *Scene) Update(dt, t float32, in input.State) {
	if s.state == StateDisposed {
		s.log.Warnf("update on disposed scene ignored")
		return
	}
	s.time = t
	s.animate(t)

	s.surface.Clear(s.ClearColor)

	s.Camera.Move(dt, in)

	for _, g := range s.GameObjects {
		g.Update()
	}
	s.state = StateUpdating
}

// Draw draws every game object in order with the camera, scene, quadric and light uniforms.
func (s *Scene) Draw() error {
	if s.state == StateDisposed {
		return ErrSceneDisposed
	}
	providers := s.providers()
	for i, g := range s.GameObjects {
		if err := g.Draw(providers); err != nil {
			return fmt.Errorf("draw %d: %w", i, err)
		}
	}
	s.state = StateDrawing
	return nil
}

// Frame runs Update followed by Draw.
func (s *Scene) Frame(dt, t float32, in input.State) error {
	s.Update(dt, t, in)
	return s.Draw()
}

// Dispose releases backend resources. It is safe to call more than once.
func (s *Scene) Dispose() {
	if s.state == StateDisposed {
		return
	}
	for _, p := range s.Programs {
		release(p)
	}
	if s.QuadGeometry != nil {
		release(s.QuadGeometry)
	}
	if s.EnvTexture != nil {
		release(s.EnvTexture)
	}
	s.state = StateDisposed
}

func (s *Scene) publish() {
	s.Set("time", uniform.Float(s.time))
	s.Set("quadricCount", uniform.Int(len(s.Quadrics)))
	s.Set("lightCount", uniform.Int(len(s.Lights)))
}

func (s *Scene) SetUniforms(targets []uniform.Sink) {
	s.publish()
	s.Block.SetUniforms(targets)
}

// providers lists the uniform sources in draw order: scene, camera, quadrics, lights.
func (s *Scene) providers() []uniform.Provider {
	out := make([]uniform.Provider, 0, 2+len(s.Quadrics)+len(s.Lights))
	out = append(out, s, s.Camera)
	for _, q := range s.Quadrics {
		out = append(out, q)
	}
	for _, l := range s.Lights {
		out = append(out, l)
	}
	return out
}

func (s *Scene) sinks() []uniform.Sink {
	out := make([]uniform.Sink, len(s.Programs))
	for i, p := range s.Programs {
		out[i] = p
	}
	return out
}
