package app

import (
	"fmt"

	"github.com/gekko3d/raystack"
	"github.com/gekko3d/raystack/quadricrt/rt/core"
	"github.com/gekko3d/raystack/quadricrt/rt/gpu"
	"github.com/gekko3d/raystack/quadricrt/rt/input"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

type App struct {
	Window   *glfw.Window
	Instance *wgpu.Instance
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Surface  *wgpu.Surface
	Config   *wgpu.SurfaceConfiguration

	Backend  *gpu.Backend
	Scene    *core.Scene
	Profiler *FrameProfiler
	Stats    *FrameStats

	Settings raystack.Config
	Log      raystack.Logger
}

func NewApp(window *glfw.Window, cfg raystack.Config, log raystack.Logger) *App {
	cfg.Normalize()
	return &App{
		Window:   window,
		Settings: cfg,
		Log:      raystack.OrNop(log),
		Profiler: NewFrameProfiler(),
		Stats:    &FrameStats{},
	}
}

func (a *App) Init() error {
	a.Instance = wgpu.CreateInstance(nil)
	a.Surface = a.Instance.CreateSurface(GetSurfaceDescriptor(a.Window))

	adapter, err := a.Instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: a.Surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return fmt.Errorf("request adapter: %w", err)
	}
	a.Adapter = adapter

	a.Device, err = adapter.RequestDevice(nil)
	if err != nil {
		return fmt.Errorf("request device: %w", err)
	}

	width, height := a.Window.GetFramebufferSize()
	caps := a.Surface.GetCapabilities(adapter)
	a.Config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	a.Surface.Configure(adapter, a.Device, a.Config)

	a.Backend, err = gpu.NewBackend(a.Device, adapter, a.Surface, a.Config, a.Settings, a.Log)
	if err != nil {
		return fmt.Errorf("gpu backend: %w", err)
	}
	a.Backend.Timer = a.Profiler
	a.Scene, err = core.NewScene(a.Backend, a.Settings, a.Log)
	if err != nil {
		return err
	}
	a.Scene.Resize(width, height)
	a.Log.Infof("scene ready: %d quadrics, %d lights, surface %dx%d %v",
		len(a.Scene.Quadrics), len(a.Scene.Lights), width, height, a.Config.Format)
	return nil
}

// Resize is wired to the framebuffer size callback.
func (a *App) Resize(w, h int) {
	if a.Scene == nil || w <= 0 || h <= 0 {
		return
	}
	a.Scene.Resize(w, h)
}

// Frame runs one update and one render of the scene.
// A failed frame is logged and skipped; the next frame starts clean.
func (a *App) Frame(dt, t float32, in input.State) {
	stop := a.Profiler.Measure(&a.Profiler.Update)
	a.Scene.Update(dt, t, in)
	stop()

	if err := a.Backend.BeginFrame(); err != nil {
		a.Log.Errorf("begin frame: %v", err)
		return
	}
	if err := a.Scene.Draw(); err != nil {
		a.Log.Errorf("draw: %v", err)
	}
	stop = a.Profiler.Measure(&a.Profiler.Present)
	err := a.Backend.EndFrame()
	stop()
	if err != nil {
		a.Log.Errorf("end frame: %v", err)
		return
	}

	if a.Stats.Tick(float64(dt)) && a.Log.DebugEnabled() {
		a.Profiler.ObserveScene(a.Scene)
		a.Log.Debugf("%.1f FPS\n%s", a.Stats.FPS, a.Profiler.Report())
	}
}

func (a *App) Release() {
	if a.Scene != nil {
		a.Scene.Dispose()
	}
	if a.Backend != nil {
		a.Backend.Release()
	}
	if a.Device != nil {
		a.Device.Release()
	}
	if a.Adapter != nil {
		a.Adapter.Release()
	}
	if a.Surface != nil {
		a.Surface.Release()
	}
	if a.Instance != nil {
		a.Instance.Release()
	}
}

func GetSurfaceDescriptor(w *glfw.Window) *wgpu.SurfaceDescriptor {
	return wgpuglfw.GetSurfaceDescriptor(w)
}
