package uniform

import (
	"fmt"
)

const noIndex = -1

// Block is a namespaced, insertion-ordered parameter table. Entities embed one to become Providers.
type Block struct {
	namespace string
	index     int
	names     []string
	values    map[string]Value
}

func NewBlock(namespace string) *Block {
	return &Block{
		namespace: namespace,
		index:     noIndex,
		values:    make(map[string]Value),
	}
}

// NewIndexedBlock creates a block whose names resolve as "namespace[index].param".
// The index is fixed for the lifetime of the block.
func NewIndexedBlock(namespace string, index int) *Block {
	if index < 0 {
		panic(fmt.Sprintf("uniform: negative slot index %d for %q", index, namespace))
	}
	b := NewBlock(namespace)
	b.index = index
	return b
}

func (b *Block) Namespace() string { return b.namespace }

// Index returns the slot index and whether the block is indexed at all.
func (b *Block) Index() (int, bool) {
	return b.index, b.index != noIndex
}

// Prefix is the qualified namespace, e.g. "camera" or "quadrics[2]".
func (b *Block) Prefix() string {
	if b.index == noIndex {
		return b.namespace
	}
	return fmt.Sprintf("%s[%d]", b.namespace, b.index)
}

// Resolve returns the program-visible name of param.
func (b *Block) Resolve(param string) string {
	return b.Prefix() + "." + param
}

func (b *Block) Set(param string, v Value) {
	if _, ok := b.values[param]; !ok {
		b.names = append(b.names, param)
	}
	b.values[param] = v
}

func (b *Block) Get(param string) (Value, bool) {
	v, ok := b.values[param]
	return v, ok
}

// Names lists parameter names in the order they were first set.
func (b *Block) Names() []string {
	out := make([]string, len(b.names))
	copy(out, b.names)
	return out
}

func (b *Block) Len() int { return len(b.names) }

func (b *Block) SetUniforms(targets []Sink) {
	for _, param := range b.names {
		name := b.Resolve(param)
		v := b.values[param]
		for _, t := range targets {
			t.SetUniform(name, v)
		}
	}
}
