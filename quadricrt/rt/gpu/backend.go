package gpu

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/raystack"
	"github.com/gekko3d/raystack/quadricrt/rt/core"
	"github.com/gekko3d/raystack/quadricrt/rt/uniform"
	"github.com/go-gl/mathgl/mgl32"
)

// ErrNoFrame is returned by draws issued outside BeginFrame/EndFrame.
var ErrNoFrame = errors.New("gpu: no frame in progress")

// Backend implements core.Backend on a WebGPU device and window surface.
// It is also the core.Surface: Viewport reconfigures the swapchain and Clear
// sets the color every render pass starts from.
type Backend struct {
	Device  *wgpu.Device
	Queue   *wgpu.Queue
	Adapter *wgpu.Adapter
	Screen  *wgpu.Surface
	Config  *wgpu.SurfaceConfiguration
	// Timer, when set, brackets the recording of every pass.
	Timer   PassTimer

	log     raystack.Logger
	layouts map[string]ProgramLayout
	sampler *wgpu.Sampler
	target  *RenderTarget
	clear   wgpu.Color

	frameTex  *wgpu.Texture
	frameView *wgpu.TextureView
	encoder   *wgpu.CommandEncoder
}

// PassTimer is told when a program's pass starts and stops recording.
type PassTimer interface {
	BeginPass(program string)
	EndPass(program string)
}

var (
	_ core.Backend = (*Backend)(nil)
	_ core.Surface = (*Backend)(nil)
)

// NewBackend prepares shared resources. The surface must already be configured with config.
func NewBackend(device *wgpu.Device, adapter *wgpu.Adapter, screen *wgpu.Surface, config *wgpu.SurfaceConfiguration, cfg raystack.Config, log raystack.Logger) (*Backend, error) {
	cfg.Normalize()
	layouts, err := StandardLayouts(cfg.MaxQuadrics, cfg.MaxLights)
	if err != nil {
		return nil, err
	}
	sampler, err := device.CreateSampler(&wgpu.SamplerDescriptor{
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MinFilter:     wgpu.FilterModeLinear,
		MagFilter:     wgpu.FilterModeLinear,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("sampler: %w", err)
	}
	b := &Backend{
		Device:  device,
		Queue:   device.GetQueue(),
		Adapter: adapter,
		Screen:  screen,
		Config:  config,
		log:     raystack.OrNop(log),
		layouts: layouts,
		sampler: sampler,
		target:  newRenderTarget(device),
		clear:   wgpu.Color{R: 0, G: 0, B: 0, A: 1},
	}
	if err := b.target.Resize(config.Width, config.Height); err != nil {
		b.Release()
		return nil, fmt.Errorf("trace target: %w", err)
	}
	return b, nil
}

func (b *Backend) Program(desc core.ProgramDesc) (core.Program, error) {
	layout, ok := b.layouts[desc.Name]
	if !ok {
		return nil, fmt.Errorf("no bind group layout for program %q", desc.Name)
	}
	p, err := b.newProgram(desc, layout)
	if err != nil {
		return nil, err
	}
	b.log.Debugf("program %s ready (%d uniform bytes, %d textures)", desc.Name, layout.Uniforms.Size(), len(layout.Textures))
	return p, nil
}

func (b *Backend) FullscreenQuad() (core.Geometry, error) {
	return &Quad{backend: b}, nil
}

func (b *Backend) TextureCube(paths []string) (uniform.TextureHandle, error) {
	faces, err := LoadCubeFaces(paths)
	if err != nil {
		return nil, err
	}
	tex, err := newCubeTexture(b.Device, b.Queue, "Environment", faces)
	if err != nil {
		return nil, err
	}
	b.log.Debugf("environment cube map loaded (%dpx faces)", faces[0].Bounds().Dx())
	return tex, nil
}

func (b *Backend) RenderTarget() uniform.TextureHandle { return b.target }

func (b *Backend) Surface() core.Surface { return b }

// Viewport reconfigures the swapchain and the trace target. Zero sizes are ignored.
func (b *Backend) Viewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	b.Config.Width = uint32(width)
	b.Config.Height = uint32(height)
	b.Screen.Configure(b.Adapter, b.Device, b.Config)
	if err := b.target.Resize(uint32(width), uint32(height)); err != nil {
		b.log.Errorf("resize trace target to %dx%d: %v", width, height, err)
	}
}

func (b *Backend) Clear(c mgl32.Vec4) {
	b.clear = wgpu.Color{R: float64(c[0]), G: float64(c[1]), B: float64(c[2]), A: float64(c[3])}
}

// BeginFrame acquires the next swapchain image and opens a command encoder.
func (b *Backend) BeginFrame() error {
	if b.encoder != nil {
		return errors.New("gpu: frame already in progress")
	}
	tex, err := b.Screen.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("acquire surface texture: %w", err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return fmt.Errorf("surface view: %w", err)
	}
	encoder, err := b.Device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		tex.Release()
		return fmt.Errorf("command encoder: %w", err)
	}
	b.frameTex, b.frameView, b.encoder = tex, view, encoder
	return nil
}

// EndFrame submits the recorded passes and presents the image.
func (b *Backend) EndFrame() error {
	if b.encoder == nil {
		return ErrNoFrame
	}
	defer b.endFrame()
	cmd, err := b.encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("finish encoder: %w", err)
	}
	defer cmd.Release()
	b.Queue.Submit(cmd)
	b.Screen.Present()
	return nil
}

func (b *Backend) endFrame() {
	if b.encoder != nil {
		b.encoder.Release()
		b.encoder = nil
	}
	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	if b.frameTex != nil {
		b.frameTex.Release()
		b.frameTex = nil
	}
}

func (b *Backend) Release() {
	b.endFrame()
	if b.target != nil {
		b.target.Release()
	}
	if b.sampler != nil {
		b.sampler.Release()
		b.sampler = nil
	}
}
