package gpu

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/gekko3d/raystack/quadricrt/rt/uniform"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func offsetOf(t *testing.T, l *Layout, name string) int {
	t.Helper()
	f, ok := l.Lookup(name)
	require.True(t, ok, name)
	return f.Offset
}

func readFloat(buf []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
}

func TestStandardLayouts_TraceOffsets(t *testing.T) {
	layouts, err := StandardLayouts(16, 8)
	require.NoError(t, err)
	trace := layouts["trace"].Uniforms

	cases := map[string]int{
		"scene.time":               0,
		"scene.quadricCount":       4,
		"scene.lightCount":         8,
		"camera.position":          16,
		"camera.viewProjMatrix":    32,
		"camera.rayDirMatrix":      96,
		"quadrics[0].surface":      160,
		"quadrics[0].clipper":      224,
		"quadrics[0].baseColor":    288,
		"quadrics[0].checkerBoard": 300,
		"quadrics[0].reflection":   304,
		"quadrics[0].transmission": 308,
		"quadrics[0].mu":           312,
		"quadrics[1].surface":      320,
		"quadrics[15].mu":          160 + 15*160 + 152,
		"lights[0].position":       2720,
		"lights[0].powerDensity":   2736,
		"lights[7].powerDensity":   2720 + 7*32 + 16,
	}
	for name, want := range cases {
		assert.Equal(t, want, offsetOf(t, trace, name), name)
	}
	assert.Equal(t, 2720+8*32, trace.Size())
	assert.Len(t, trace.Fields(), 3+3+16*7+8*2)
}

func TestStandardLayouts_ShowAndTextured(t *testing.T) {
	layouts, err := StandardLayouts(4, 2)
	require.NoError(t, err)

	show := layouts["show"]
	assert.Equal(t, 16, show.Uniforms.Size())
	require.Len(t, show.Textures, 1)
	assert.Equal(t, "material.traceTexture", show.Textures[0].Name)
	assert.False(t, show.Textures[0].Cube)

	textured := layouts["textured"]
	assert.Equal(t, 144, textured.Uniforms.Size())
	assert.Equal(t, 80, offsetOf(t, textured.Uniforms, "camera.rayDirMatrix"))

	trace := layouts["trace"]
	assert.True(t, trace.Textures[0].Cube)
	assert.Equal(t, 160+4*160+2*32, trace.Uniforms.Size())
	_, ok := trace.Uniforms.Lookup("quadrics[4].surface")
	assert.False(t, ok)
}

func TestLayout_Rejects(t *testing.T) {
	_, err := NewLayout().Struct("material", Member{"envTexture", uniform.KindTexture}).Build()
	assert.Error(t, err)

	_, err = NewLayout().
		Struct("camera", Member{"position", uniform.KindVec3}).
		Struct("camera", Member{"position", uniform.KindVec3}).
		Build()
	assert.Error(t, err)
}

func TestLayout_EmptyIsNonZero(t *testing.T) {
	l, err := NewLayout().Build()
	require.NoError(t, err)
	assert.Equal(t, 16, l.Size())
}

func TestLayout_Pack(t *testing.T) {
	layouts, err := StandardLayouts(2, 1)
	require.NoError(t, err)
	trace := layouts["trace"].Uniforms

	m := mgl32.Translate3D(1, 2, 3)
	tbl := uniform.NewTable()
	tbl.SetUniform("scene.time", uniform.Float(1.5))
	tbl.SetUniform("scene.quadricCount", uniform.Int(2))
	tbl.SetUniform("camera.position", uniform.Vec3{0, 1.5, 6})
	tbl.SetUniform("quadrics[1].surface", uniform.Mat4(m))
	tbl.SetUniform("quadrics[1].checkerBoard", uniform.Bool(true))
	tbl.SetUniform("lights[0].position", uniform.Vec4{1, 1, 1, 0})
	tbl.SetUniform("not.declared", uniform.Float(9))

	buf, err := trace.Pack(tbl)
	require.NoError(t, err)
	require.Len(t, buf, trace.Size())

	assert.Equal(t, float32(1.5), readFloat(buf, 0))
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(buf[4:]))
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(buf[8:]))
	assert.Equal(t, float32(6), readFloat(buf, 16+8))

	surface := offsetOf(t, trace, "quadrics[1].surface")
	// Column-major: the translation sits in floats 12..14.
	assert.Equal(t, float32(1), readFloat(buf, surface+12*4))
	assert.Equal(t, float32(3), readFloat(buf, surface+14*4))
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(buf[offsetOf(t, trace, "quadrics[1].checkerBoard"):]))

	light := offsetOf(t, trace, "lights[0].position")
	assert.Equal(t, float32(1), readFloat(buf, light))
	assert.Equal(t, float32(0), readFloat(buf, light+12))
}

func TestLayout_PackReportsKindMismatch(t *testing.T) {
	l, err := NewLayout().Struct("scene", sceneMembers...).Build()
	require.NoError(t, err)

	tbl := uniform.NewTable()
	tbl.SetUniform("scene.time", uniform.Int(3))
	tbl.SetUniform("scene.lightCount", uniform.Int(2))

	buf, err := l.Pack(tbl)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scene.time")
	assert.Equal(t, float32(0), readFloat(buf, 0))
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(buf[8:]))
}
