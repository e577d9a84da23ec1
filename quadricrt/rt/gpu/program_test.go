package gpu

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/raystack"
	"github.com/gekko3d/raystack/quadricrt/rt/uniform"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTexture struct {
	id  uuid.UUID
	gen uint64
}

func (s *stubTexture) ID() uuid.UUID           { return s.id }
func (s *stubTexture) View() *wgpu.TextureView { return nil }
func (s *stubTexture) Generation() uint64      { return s.gen }

type plainHandle struct{ id uuid.UUID }

func (h plainHandle) ID() uuid.UUID { return h.id }

func newDetachedProgram(t *testing.T, name string, log raystack.Logger) *Program {
	t.Helper()
	layouts, err := StandardLayouts(2, 1)
	require.NoError(t, err)
	l := layouts[name]
	return &Program{
		name:     name,
		layout:   l,
		log:      log,
		pending:  uniform.NewTable(),
		textures: make([]boundTexture, len(l.Textures)),
		unknown:  make(map[string]bool),
	}
}

func TestProgram_SetUniformRoutesByLayout(t *testing.T) {
	var out bytes.Buffer
	log := raystack.NewLoggerTo("gpu", true, &out, &out)
	p := newDetachedProgram(t, "show", log)

	p.SetUniform("scene.time", uniform.Float(2))
	p.SetUniform("camera.position", uniform.Vec3{1, 2, 3})
	p.SetUniform("camera.position", uniform.Vec3{1, 2, 3})

	assert.Equal(t, []string{"scene.time"}, p.Pending().Names())
	assert.Equal(t, 1, strings.Count(out.String(), "ignoring uniform camera.position"))

	env := &stubTexture{id: uuid.New()}
	p.SetUniform("material.envTexture", uniform.Texture{Handle: env})
	assert.Nil(t, p.textures[0])

	target := &stubTexture{id: uuid.New()}
	p.SetUniform("material.traceTexture", uniform.Texture{Handle: target})
	assert.Same(t, target, p.textures[0])
	assert.Equal(t, "show", p.Name())
}

func TestProgram_TextureWithoutView(t *testing.T) {
	var out bytes.Buffer
	p := newDetachedProgram(t, "trace", raystack.NewLoggerTo("", false, &out, &out))
	p.SetUniform("material.envTexture", uniform.Texture{Handle: plainHandle{uuid.New()}})
	assert.Nil(t, p.textures[0])
	assert.Contains(t, out.String(), "has no GPU view")
}

func TestProgram_TexturesChanged(t *testing.T) {
	p := newDetachedProgram(t, "show", raystack.NewNopLogger())
	target := &stubTexture{id: uuid.New()}
	p.SetUniform("material.traceTexture", uniform.Texture{Handle: target})
	assert.True(t, p.texturesChanged())

	p.bound = []boundTexture{target}
	p.boundGens = []uint64{0}
	assert.False(t, p.texturesChanged())

	target.gen++
	assert.True(t, p.texturesChanged())

	p.boundGens[0] = target.gen
	other := &stubTexture{id: uuid.New()}
	p.SetUniform("material.traceTexture", uniform.Texture{Handle: other})
	assert.True(t, p.texturesChanged())
}

func TestBindGroupLayoutEntries(t *testing.T) {
	layouts, err := StandardLayouts(2, 1)
	require.NoError(t, err)

	entries := bindGroupLayoutEntries(layouts["trace"])
	require.Len(t, entries, 3)
	assert.Equal(t, uint32(UniformBinding), entries[0].Binding)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, entries[0].Buffer.Type)
	assert.Equal(t, uint64(layouts["trace"].Uniforms.Size()), entries[0].Buffer.MinBindingSize)
	assert.Equal(t, wgpu.SamplerBindingTypeFiltering, entries[1].Sampler.Type)
	assert.Equal(t, wgpu.TextureViewDimensionCube, entries[2].Texture.ViewDimension)

	entries = bindGroupLayoutEntries(layouts["show"])
	assert.Equal(t, wgpu.TextureViewDimension2D, entries[2].Texture.ViewDimension)
}

func writePNG(t *testing.T, path string, w, h int, c color.Color) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestLoadCubeFaces(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i, name := range raystack.DefaultEnvFaces {
		p := filepath.Join(dir, name)
		size := 8
		if i == 3 {
			size = 4
		}
		writePNG(t, p, size, size, color.RGBA{R: uint8(40 * i), G: 10, B: 200, A: 255})
		paths = append(paths, p)
	}

	faces, err := LoadCubeFaces(paths)
	require.NoError(t, err)
	for i, f := range faces {
		require.NotNil(t, f, "face %d", i)
		assert.Equal(t, image.Rect(0, 0, 8, 8), f.Bounds())
	}
	assert.Equal(t, color.RGBA{R: 80, G: 10, B: 200, A: 255}, faces[2].RGBAAt(3, 3))
	// The smaller face is upscaled; a flat color stays flat.
	up := faces[3].RGBAAt(5, 5)
	assert.InDelta(t, 120, up.R, 1)
	assert.InDelta(t, 10, up.G, 1)
	assert.InDelta(t, 200, up.B, 1)
}

func TestLoadCubeFaces_Errors(t *testing.T) {
	_, err := LoadCubeFaces([]string{"a.png"})
	assert.Error(t, err)

	dir := t.TempDir()
	paths := make([]string, 6)
	for i := range paths {
		paths[i] = filepath.Join(dir, raystack.DefaultEnvFaces[i])
	}
	_, err = LoadCubeFaces(paths)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fnx.png")

	bad := filepath.Join(dir, "fnx.png")
	require.NoError(t, os.WriteFile(bad, []byte("not an image"), 0o644))
	_, err = LoadCubeFaces(paths)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode face")
}
