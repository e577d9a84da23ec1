package gpu

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/gekko3d/raystack/quadricrt/rt/uniform"
)

// Member is one field of a WGSL struct in a uniform buffer.
type Member struct {
	Name string
	Kind uniform.Kind
}

// Field is a member placed at a byte offset, addressed by its resolved uniform name.
type Field struct {
	Name   string
	Kind   uniform.Kind
	Offset int
}

// Layout maps resolved uniform names to offsets in a WGSL uniform buffer.
type Layout struct {
	fields []Field
	byName map[string]int
	size   int
}

func alignOf(k uniform.Kind) int {
	switch k {
	case uniform.KindFloat, uniform.KindInt:
		return 4
	default:
		return 16
	}
}

func sizeOf(k uniform.Kind) int {
	switch k {
	case uniform.KindFloat, uniform.KindInt:
		return 4
	case uniform.KindVec3:
		return 12
	case uniform.KindVec4:
		return 16
	case uniform.KindMat4:
		return 64
	}
	return 0
}

func roundUp(align, n int) int {
	return (n + align - 1) / align * align
}

// LayoutBuilder appends structs and struct arrays following WGSL uniform address-space rules:
// every struct starts on a 16-byte boundary and array strides are multiples of 16.
type LayoutBuilder struct {
	l      *Layout
	offset int
	err    error
}

func NewLayout() *LayoutBuilder {
	return &LayoutBuilder{l: &Layout{byName: make(map[string]int)}}
}

func (b *LayoutBuilder) place(prefix string, start int, members []Member) int {
	cur := start
	structAlign := 4
	for _, m := range members {
		if m.Kind == uniform.KindTexture {
			b.fail(fmt.Errorf("gpu: texture %q cannot live in a uniform buffer", prefix+"."+m.Name))
			continue
		}
		a := alignOf(m.Kind)
		if a > structAlign {
			structAlign = a
		}
		cur = roundUp(a, cur)
		name := prefix + "." + m.Name
		if _, dup := b.l.byName[name]; dup {
			b.fail(fmt.Errorf("gpu: duplicate uniform %q", name))
		}
		b.l.byName[name] = len(b.l.fields)
		b.l.fields = append(b.l.fields, Field{Name: name, Kind: m.Kind, Offset: cur})
		cur += sizeOf(m.Kind)
	}
	return roundUp(structAlign, cur-start)
}

func (b *LayoutBuilder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Struct places one struct whose members resolve as "prefix.member".
func (b *LayoutBuilder) Struct(prefix string, members ...Member) *LayoutBuilder {
	start := roundUp(16, b.offset)
	size := b.place(prefix, start, members)
	b.offset = start + roundUp(16, size)
	return b
}

// Array places count structs whose members resolve as "prefix[i].member".
func (b *LayoutBuilder) Array(prefix string, count int, members ...Member) *LayoutBuilder {
	start := roundUp(16, b.offset)
	stride := 0
	for i := 0; i < count; i++ {
		size := b.place(fmt.Sprintf("%s[%d]", prefix, i), start+i*stride, members)
		if i == 0 {
			stride = roundUp(16, size)
		}
	}
	b.offset = start + count*stride
	return b
}

func (b *LayoutBuilder) Build() (*Layout, error) {
	if b.err != nil {
		return nil, b.err
	}
	b.l.size = roundUp(16, b.offset)
	if b.l.size == 0 {
		b.l.size = 16
	}
	return b.l, nil
}

// Size is the buffer size in bytes, never zero.
func (l *Layout) Size() int { return l.size }

func (l *Layout) Fields() []Field {
	out := make([]Field, len(l.fields))
	copy(out, l.fields)
	return out
}

func (l *Layout) Lookup(name string) (Field, bool) {
	i, ok := l.byName[name]
	if !ok {
		return Field{}, false
	}
	return l.fields[i], true
}

// Pack writes every value from tbl that the layout declares. Missing values stay zero.
// Values whose kind disagrees with the layout are skipped and reported.
func (l *Layout) Pack(tbl *uniform.Table) ([]byte, error) {
	buf := make([]byte, l.size)
	var mismatched []string
	for _, f := range l.fields {
		v, ok := tbl.Get(f.Name)
		if !ok {
			continue
		}
		if v.Kind() != f.Kind {
			mismatched = append(mismatched, fmt.Sprintf("%s (%s, want %s)", f.Name, v.Kind(), f.Kind))
			continue
		}
		putValue(buf[f.Offset:], v)
	}
	if len(mismatched) > 0 {
		return buf, fmt.Errorf("gpu: uniform kind mismatch: %s", strings.Join(mismatched, ", "))
	}
	return buf, nil
}

func putFloats(dst []byte, fs ...float32) {
	for i, f := range fs {
		binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(f))
	}
}

func putValue(dst []byte, v uniform.Value) {
	switch x := v.(type) {
	case uniform.Float:
		putFloats(dst, float32(x))
	case uniform.Int:
		binary.LittleEndian.PutUint32(dst, uint32(int32(x)))
	case uniform.Vec3:
		putFloats(dst, x[:]...)
	case uniform.Vec4:
		putFloats(dst, x[:]...)
	case uniform.Mat4:
		// mgl32 and WGSL are both column-major.
		putFloats(dst, x[:]...)
	}
}
