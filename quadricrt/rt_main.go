package main

import (
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/gekko3d/raystack"
	"github.com/gekko3d/raystack/quadricrt/rt/app"
	"github.com/gekko3d/raystack/quadricrt/rt/input/glfwinput"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	cfg := raystack.DefaultConfig()
	cfg.BindFlags(flag.CommandLine)
	flag.Parse()
	cfg.Normalize()

	log := raystack.NewDefaultLogger("quadricrt", cfg.Debug)
	log.Debugf("config: %s", cfg.String())

	if err := glfw.Init(); err != nil {
		log.Errorf("glfw init: %v", err)
		os.Exit(1)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	window, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		log.Errorf("create window: %v", err)
		os.Exit(1)
	}
	defer window.Destroy()

	application := app.NewApp(window, cfg, log)
	if err := application.Init(); err != nil {
		log.Errorf("init: %v", err)
		application.Release()
		os.Exit(1)
	}
	defer application.Release()

	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		application.Resize(width, height)
	})
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			w.SetShouldClose(true)
		}
	})

	poller := glfwinput.NewPoller(window)
	clock := &raystack.FrameClock{}
	for !window.ShouldClose() {
		glfw.PollEvents()
		dt, t := clock.Tick(time.Now())
		application.Frame(dt, t, poller.Poll())
	}
}
