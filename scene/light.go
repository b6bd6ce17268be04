package scene

import (
	"fmt"

	"github.com/achilleasa/raytra/types"
)

type LightType uint8

const (
	PointLightType LightType = iota
	SquareLightType
	AmbientLightType
)

func (lt LightType) String() string {
	switch lt {
	case PointLightType:
		return "point"
	case SquareLightType:
		return "square"
	case AmbientLightType:
		return "ambient"
	}
	return "unknown"
}

// The Light interface is implemented by all scene lights.
type Light interface {
	Type() LightType
}

// An omnidirectional light at a fixed position.
type PointLight struct {
	Position  types.Point
	Color     types.Vec3
	Intensity float32
}

// Create a point light.
func NewPointLight(position types.Point, color types.Vec3, intensity float32) *PointLight {
	return &PointLight{
		Position:  position,
		Color:     color,
		Intensity: intensity,
	}
}

func (l *PointLight) Type() LightType {
	return PointLightType
}

// A square area light that emits from one side of a planar patch.
type SquareLight struct {
	Center types.Point
	Normal types.Vec3
	Color  types.Vec3

	// The patch edge length.
	Size float32

	// The patch tangent axes.
	U types.Vec3
	V types.Vec3
}

// Create a square light centered at center. The u axis is projected onto
// the patch plane and the v axis is derived as normal x u.
func NewSquareLight(center types.Point, normal, u types.Vec3, size float32, color types.Vec3) (*SquareLight, error) {
	n := normal.Normalize()
	if n.IsZero() {
		return nil, fmt.Errorf("scene: square light normal must be non-zero")
	}

	uAxis := u.Sub(n.Mul(u.Dot(n))).Normalize()
	if uAxis.IsZero() {
		return nil, fmt.Errorf("scene: square light u axis must not be parallel to its normal")
	}

	if size <= 0 {
		return nil, fmt.Errorf("scene: square light size must be positive; got %f", size)
	}

	return &SquareLight{
		Center: center,
		Normal: n,
		Color:  color,
		Size:   size,
		U:      uAxis,
		V:      n.Cross(uAxis),
	}, nil
}

func (l *SquareLight) Type() LightType {
	return SquareLightType
}

// Get the sample point for cell (p, q) of an s x s grid over the patch.
// The jitter values (in [0, 1)) select the position inside the cell.
func (l *SquareLight) SamplePoint(p, q, s int, jitterU, jitterV float32) types.Point {
	cells := float32(s)
	du := ((float32(p)+jitterU)/cells - 0.5) * l.Size
	dv := ((float32(q)+jitterV)/cells - 0.5) * l.Size
	return l.Center.Add(l.U.Mul(du)).Add(l.V.Mul(dv))
}

// A constant light term applied to surfaces seen directly by the camera.
type AmbientLight struct {
	Color types.Vec3
}

func (l *AmbientLight) Type() LightType {
	return AmbientLightType
}
