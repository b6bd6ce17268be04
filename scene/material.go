package scene

import "github.com/achilleasa/raytra/types"

// Defines a Phong surface material. Materials are shared by reference
// between surfaces and are never modified while rendering.
type Material struct {
	// Diffuse color.
	Diffuse types.Vec3

	// Specular color.
	Specular types.Vec3

	// Mirror reflection coefficient.
	IdealSpecular types.Vec3

	// Phong exponent.
	Phong float32
}

// Create the material assigned to surfaces defined before any material.
func DefaultMaterial() *Material {
	return &Material{Phong: 1}
}

// Returns true if the material reflects incoming rays.
func (m *Material) IsReflective() bool {
	return !m.IdealSpecular.IsZero()
}
