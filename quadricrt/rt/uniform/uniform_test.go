package uniform

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTexture struct{ id uuid.UUID }

func (f fakeTexture) ID() uuid.UUID { return f.id }

func TestBlock_ResolveNames(t *testing.T) {
	cam := NewBlock("camera")
	assert.Equal(t, "camera.position", cam.Resolve("position"))
	_, indexed := cam.Index()
	assert.False(t, indexed)

	q := NewIndexedBlock("quadrics", 3)
	idx, indexed := q.Index()
	assert.True(t, indexed)
	assert.Equal(t, 3, idx)
	assert.Equal(t, "quadrics[3]", q.Prefix())
	assert.Equal(t, "quadrics[3].surface", q.Resolve("surface"))
}

func TestBlock_NegativeIndexPanics(t *testing.T) {
	assert.Panics(t, func() { NewIndexedBlock("lights", -1) })
}

func TestBlock_SetKeepsOrderAndOverwrites(t *testing.T) {
	b := NewBlock("material")
	b.Set("a", Float(1))
	b.Set("b", Int(2))
	b.Set("a", Float(3))

	assert.Equal(t, []string{"a", "b"}, b.Names())
	assert.Equal(t, 2, b.Len())
	v, ok := b.Get("a")
	require.True(t, ok)
	assert.Equal(t, Float(3), v)
}

func TestBlock_SetUniformsIntoManyTargets(t *testing.T) {
	tex := fakeTexture{id: uuid.New()}
	b := NewBlock("material")
	b.Set("envTexture", Texture{Handle: tex})
	b.Set("tint", Vec3(mgl32.Vec3{1, 0, 0}))

	t1, t2 := NewTable(), NewTable()
	b.SetUniforms([]Sink{t1, t2})

	for _, tbl := range []*Table{t1, t2} {
		assert.Equal(t, []string{"material.envTexture", "material.tint"}, tbl.Names())
		v, ok := tbl.Get("material.envTexture")
		require.True(t, ok)
		assert.Equal(t, KindTexture, v.Kind())
		assert.Equal(t, tex.ID(), v.(Texture).Handle.ID())
	}
}

func TestGather_IndexQualifiedNamesNeverCollide(t *testing.T) {
	var providers []Provider
	for i := 0; i < 4; i++ {
		b := NewIndexedBlock("quadrics", i)
		b.Set("mu", Float(1.3+0.2*float32(i)))
		providers = append(providers, b)
	}
	tbl := NewTable()
	Gather([]Sink{tbl}, providers)

	assert.Equal(t, 4, tbl.Len())
	assert.Equal(t, 4, tbl.Writes())
	v, _ := tbl.Get("quadrics[2].mu")
	assert.InDelta(t, 1.7, float32(v.(Float)), 1e-6)
}

func TestTable_Reset(t *testing.T) {
	tbl := NewTable()
	tbl.SetUniform("x.y", Float(1))
	tbl.SetUniform("x.y", Float(2))
	assert.Equal(t, 1, tbl.Len())
	assert.Equal(t, 2, tbl.Writes())

	tbl.Reset()
	assert.Zero(t, tbl.Len())
	_, ok := tbl.Get("x.y")
	assert.False(t, ok)

	var zero Table
	zero.SetUniform("a.b", Int(1))
	assert.Equal(t, 1, zero.Len())
}

func TestKinds(t *testing.T) {
	cases := []struct {
		v    Value
		want Kind
		name string
	}{
		{Float(0), KindFloat, "f32"},
		{Bool(true), KindInt, "i32"},
		{Vec3{}, KindVec3, "vec3<f32>"},
		{Vec4{}, KindVec4, "vec4<f32>"},
		{Mat4(mgl32.Ident4()), KindMat4, "mat4x4<f32>"},
		{Texture{}, KindTexture, "texture"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.v.Kind())
		assert.Equal(t, c.name, c.want.String())
	}
	assert.Equal(t, Int(0), Bool(false))
}
