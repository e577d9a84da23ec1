package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/raystack"
	"github.com/gekko3d/raystack/quadricrt/rt/core"
	"github.com/gekko3d/raystack/quadricrt/rt/shaders"
	"github.com/gekko3d/raystack/quadricrt/rt/uniform"
)

// Program is a render pipeline with an explicit bind group layout and a uniform
// buffer filled from the values collected since the last draw.
type Program struct {
	name      string
	offscreen bool
	layout    ProgramLayout
	log       raystack.Logger

	device   *wgpu.Device
	queue    *wgpu.Queue
	sampler  *wgpu.Sampler
	module   []*wgpu.ShaderModule
	bgl      *wgpu.BindGroupLayout
	pl       *wgpu.PipelineLayout
	pipeline *wgpu.RenderPipeline
	buffer   *wgpu.Buffer

	pending   *uniform.Table
	textures  []boundTexture
	bindGroup *wgpu.BindGroup
	boundGens []uint64
	bound     []boundTexture
	unknown   map[string]bool
}

var _ core.Program = (*Program)(nil)

func (p *Program) Name() string { return p.name }

// Offscreen reports whether the program renders into the trace target.
func (p *Program) Offscreen() bool { return p.offscreen }

// Pending exposes the values that will be packed at the next draw.
func (p *Program) Pending() *uniform.Table { return p.pending }

// SetUniform records a value for the next draw. Names the program does not declare
// are reported once at debug level and otherwise dropped.
func (p *Program) SetUniform(name string, v uniform.Value) {
	if tex, ok := v.(uniform.Texture); ok {
		for i, slot := range p.layout.Textures {
			if slot.Name != name {
				continue
			}
			bt, ok := tex.Handle.(boundTexture)
			if !ok {
				p.log.Warnf("program %s: texture %s has no GPU view", p.name, name)
				return
			}
			p.textures[i] = bt
			return
		}
		p.reportUnknown(name)
		return
	}
	if _, ok := p.layout.Uniforms.Lookup(name); !ok {
		p.reportUnknown(name)
		return
	}
	p.pending.SetUniform(name, v)
}

func (p *Program) reportUnknown(name string) {
	if p.unknown[name] {
		return
	}
	p.unknown[name] = true
	p.log.Debugf("program %s: ignoring uniform %s", p.name, name)
}

// prepare uploads the pending uniforms and returns a bind group matching the current textures.
func (p *Program) prepare() (*wgpu.BindGroup, error) {
	data, err := p.layout.Uniforms.Pack(p.pending)
	if err != nil {
		p.log.Warnf("program %s: %v", p.name, err)
	}
	p.queue.WriteBuffer(p.buffer, 0, data)

	if p.bindGroup != nil && !p.texturesChanged() {
		return p.bindGroup, nil
	}
	entries := []wgpu.BindGroupEntry{
		{Binding: UniformBinding, Buffer: p.buffer, Size: uint64(p.layout.Uniforms.Size())},
		{Binding: SamplerBinding, Sampler: p.sampler},
	}
	for i, tex := range p.textures {
		if tex == nil || tex.View() == nil {
			return nil, fmt.Errorf("program %s: texture %s is not bound", p.name, p.layout.Textures[i].Name)
		}
		entries = append(entries, wgpu.BindGroupEntry{Binding: uint32(FirstTextureBinding + i), TextureView: tex.View()})
	}
	bg, err := p.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   p.name + " BG",
		Layout:  p.bgl,
		Entries: entries,
	})
	if err != nil {
		return nil, fmt.Errorf("program %s: bind group: %w", p.name, err)
	}
	if p.bindGroup != nil {
		p.bindGroup.Release()
	}
	p.bindGroup = bg
	p.bound = append(p.bound[:0], p.textures...)
	p.boundGens = p.boundGens[:0]
	for _, tex := range p.textures {
		p.boundGens = append(p.boundGens, tex.Generation())
	}
	return bg, nil
}

func (p *Program) texturesChanged() bool {
	if len(p.bound) != len(p.textures) {
		return true
	}
	for i, tex := range p.textures {
		if tex != p.bound[i] || tex.Generation() != p.boundGens[i] {
			return true
		}
	}
	return false
}

func (p *Program) Release() {
	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
	if p.buffer != nil {
		p.buffer.Release()
		p.buffer = nil
	}
	if p.pipeline != nil {
		p.pipeline.Release()
		p.pipeline = nil
	}
	if p.pl != nil {
		p.pl.Release()
		p.pl = nil
	}
	if p.bgl != nil {
		p.bgl.Release()
		p.bgl = nil
	}
	for _, m := range p.module {
		m.Release()
	}
	p.module = nil
}

func bindGroupLayoutEntries(l ProgramLayout) []wgpu.BindGroupLayoutEntry {
	visibility := wgpu.ShaderStageVertex | wgpu.ShaderStageFragment
	entries := []wgpu.BindGroupLayoutEntry{
		{
			Binding:    UniformBinding,
			Visibility: visibility,
			Buffer: wgpu.BufferBindingLayout{
				Type:             wgpu.BufferBindingTypeUniform,
				MinBindingSize:   uint64(l.Uniforms.Size()),
				HasDynamicOffset: false,
			},
		},
		{
			Binding:    SamplerBinding,
			Visibility: wgpu.ShaderStageFragment,
			Sampler:    wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingTypeFiltering},
		},
	}
	for i, slot := range l.Textures {
		dim := wgpu.TextureViewDimension2D
		if slot.Cube {
			dim = wgpu.TextureViewDimensionCube
		}
		entries = append(entries, wgpu.BindGroupLayoutEntry{
			Binding:    uint32(FirstTextureBinding + i),
			Visibility: wgpu.ShaderStageFragment,
			Texture: wgpu.TextureBindingLayout{
				SampleType:    wgpu.TextureSampleTypeFloat,
				ViewDimension: dim,
				Multisampled:  false,
			},
		})
	}
	return entries
}

func (b *Backend) newProgram(desc core.ProgramDesc, layout ProgramLayout) (prog *Program, err error) {
	p := &Program{
		name:      desc.Name,
		offscreen: desc.Offscreen,
		layout:    layout,
		log:       b.log,
		device:    b.Device,
		queue:     b.Queue,
		sampler:   b.sampler,
		pending:   uniform.NewTable(),
		textures:  make([]boundTexture, len(layout.Textures)),
		unknown:   make(map[string]bool),
	}
	defer func() {
		if err != nil {
			p.Release()
		}
	}()

	vs, err := b.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          desc.Name + " VS",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: desc.Vertex},
	})
	if err != nil {
		return nil, fmt.Errorf("vertex shader: %w", err)
	}
	p.module = append(p.module, vs)
	fs, err := b.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          desc.Name + " FS",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: desc.Fragment},
	})
	if err != nil {
		return nil, fmt.Errorf("fragment shader: %w", err)
	}
	p.module = append(p.module, fs)

	p.bgl, err = b.Device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   desc.Name + " BGL",
		Entries: bindGroupLayoutEntries(layout),
	})
	if err != nil {
		return nil, err
	}
	p.pl, err = b.Device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            desc.Name + " Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{p.bgl},
	})
	if err != nil {
		return nil, err
	}

	format := b.Config.Format
	if desc.Offscreen {
		format = TargetFormat
	}
	p.pipeline, err = b.Device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  desc.Name + " Pipeline",
		Layout: p.pl,
		Vertex: wgpu.VertexState{
			Module:     vs,
			EntryPoint: shaders.VertexEntry,
		},
		Fragment: &wgpu.FragmentState{
			Module:     fs,
			EntryPoint: shaders.FragmentEntry,
			Targets: []wgpu.ColorTargetState{{
				Format:    format,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology: wgpu.PrimitiveTopologyTriangleList,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, err
	}

	p.buffer, err = b.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: desc.Name + " Uniforms",
		Size:  uint64(layout.Uniforms.Size()),
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}
