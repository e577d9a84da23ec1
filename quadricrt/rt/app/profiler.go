package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/gekko3d/raystack/quadricrt/rt/core"
	"github.com/gekko3d/raystack/quadricrt/rt/gpu"
)

// FrameProfiler splits a frame into the scene update, one entry per
// recorded pass (trace, then show) and the submit/present step.
type FrameProfiler struct {
	Update  time.Duration
	Present time.Duration
	Passes  map[string]time.Duration

	Quadrics int
	Lights   int

	passOrder []string
	started   map[string]time.Time
	now       func() time.Time
}

var _ gpu.PassTimer = (*FrameProfiler)(nil)

func NewFrameProfiler() *FrameProfiler {
	return &FrameProfiler{
		Passes:  make(map[string]time.Duration),
		started: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Measure starts timing into d and returns the function that stops it.
func (p *FrameProfiler) Measure(d *time.Duration) func() {
	start := p.now()
	return func() { *d = p.now().Sub(start) }
}

func (p *FrameProfiler) BeginPass(program string) {
	p.started[program] = p.now()
	if _, seen := p.Passes[program]; !seen {
		p.Passes[program] = 0
		p.passOrder = append(p.passOrder, program)
	}
}

func (p *FrameProfiler) EndPass(program string) {
	start, ok := p.started[program]
	if !ok {
		return
	}
	p.Passes[program] = p.now().Sub(start)
	delete(p.started, program)
}

// PassOrder lists pass names in the order they were first recorded.
func (p *FrameProfiler) PassOrder() []string { return p.passOrder }

// PassTotal sums the recording time of every pass.
func (p *FrameProfiler) PassTotal() time.Duration {
	var total time.Duration
	for _, d := range p.Passes {
		total += d
	}
	return total
}

// ObserveScene records how many quadrics and lights the scene holds.
func (p *FrameProfiler) ObserveScene(s *core.Scene) {
	p.Quadrics = len(s.Quadrics)
	p.Lights = len(s.Lights)
}

// Reset zeroes the timings and keeps the pass order.
func (p *FrameProfiler) Reset() {
	p.Update = 0
	p.Present = 0
	for k := range p.Passes {
		p.Passes[k] = 0
	}
}

func ms(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000.0
}

func (p *FrameProfiler) Report() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "scene: %d quadrics, %d lights\n", p.Quadrics, p.Lights)
	fmt.Fprintf(&sb, "  %-8s %.2f ms\n", "update", ms(p.Update))
	for _, name := range p.passOrder {
		fmt.Fprintf(&sb, "  %-8s %.2f ms\n", name, ms(p.Passes[name]))
	}
	fmt.Fprintf(&sb, "  %-8s %.2f ms\n", "present", ms(p.Present))
	return sb.String()
}

// FrameStats averages the frame rate over one-second windows.
type FrameStats struct {
	FPS    float64
	frames int
	window float64
}

// Tick accounts for one frame of dt seconds and reports whether FPS was refreshed.
func (s *FrameStats) Tick(dt float64) bool {
	if dt <= 0 {
		return false
	}
	s.frames++
	s.window += dt
	if s.window < 1.0 {
		return false
	}
	s.FPS = float64(s.frames) / s.window
	s.frames = 0
	s.window = 0
	return true
}
