package core

import (
	"fmt"

	"github.com/gekko3d/raystack/quadricrt/rt/uniform"
	"github.com/google/uuid"
)

// Material pairs one program with its own parameters (textures, tints).
type Material struct {
	*uniform.Block
	Program Program
}

func NewMaterial(p Program) *Material {
	return &Material{
		Block:   uniform.NewBlock("material"),
		Program: p,
	}
}

// SetTexture binds a texture parameter, e.g. "envTexture".
func (m *Material) SetTexture(param string, tex uniform.TextureHandle) {
	m.Set(param, uniform.Texture{Handle: tex})
}

// Mesh is a material drawn with one geometry.
type Mesh struct {
	Material *Material
	Geometry Geometry
}

func NewMesh(mat *Material, geom Geometry) *Mesh {
	return &Mesh{Material: mat, Geometry: geom}
}

// Draw pushes the material's own uniforms and draws the geometry with its program.
func (m *Mesh) Draw() error {
	m.Material.SetUniforms([]uniform.Sink{m.Material.Program})
	return m.Geometry.Draw(m.Material.Program)
}

// GameObject owns one mesh and gets an Update and a Draw every frame.
type GameObject struct {
	ID   uuid.UUID
	Name string
	Mesh *Mesh
}

func NewGameObject(name string, mesh *Mesh) *GameObject {
	return &GameObject{
		ID:   uuid.New(),
		Name: name,
		Mesh: mesh,
	}
}

// Update is the per-object animation hook. It currently does nothing.
func (g *GameObject) Update() {}

// Draw gathers every provider into the mesh program, in order, then draws the mesh.
func (g *GameObject) Draw(providers []uniform.Provider) error {
	uniform.Gather([]uniform.Sink{g.Mesh.Material.Program}, providers)
	if err := g.Mesh.Draw(); err != nil {
		return fmt.Errorf("game object %s (%s): %w", g.Name, g.ID, err)
	}
	return nil
}
