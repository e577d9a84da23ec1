package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/raystack/quadricrt/rt/core"
)

// quadVertices is the vertex count of the two triangles generated in quad.wgsl.
const quadVertices = 6

// Quad is a fullscreen quad. Its corners come from the vertex index, so it owns no buffers.
type Quad struct {
	backend *Backend
}

var _ core.Geometry = (*Quad)(nil)

// Draw records one render pass that covers the program's target with the quad.
func (q *Quad) Draw(p core.Program) error {
	prog, ok := p.(*Program)
	if !ok {
		return fmt.Errorf("gpu: cannot draw program %s of type %T", p.Name(), p)
	}
	b := q.backend
	if b.encoder == nil {
		return ErrNoFrame
	}
	if b.Timer != nil {
		b.Timer.BeginPass(prog.name)
		defer b.Timer.EndPass(prog.name)
	}
	view := b.frameView
	if prog.offscreen {
		view = b.target.View()
	}
	if view == nil {
		return fmt.Errorf("gpu: program %s has no render target", prog.name)
	}
	bg, err := prog.prepare()
	if err != nil {
		return err
	}

	pass := b.encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: prog.name + " Pass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: b.clear,
		}},
	})
	pass.SetPipeline(prog.pipeline)
	pass.SetBindGroup(0, bg, nil)
	pass.Draw(quadVertices, 1, 0, 0)
	if err := pass.End(); err != nil {
		return fmt.Errorf("gpu: %s pass: %w", prog.name, err)
	}
	return nil
}

// Release is a no-op; the quad owns no GPU memory.
func (q *Quad) Release() {}
