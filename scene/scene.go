package scene

import (
	"bytes"
	"fmt"

	"github.com/achilleasa/raytra/bvh"
	"github.com/olekukonko/tablewriter"
)

// A scene description. Once handed to the renderer the scene is read-only.
type Scene struct {
	Camera *Camera

	Materials []*Material
	Surfaces  []Surface

	PointLights  []*PointLight
	SquareLights []*SquareLight
	Ambient      *AmbientLight
}

func NewScene() *Scene {
	return &Scene{
		Materials:    make([]*Material, 0),
		Surfaces:     make([]Surface, 0),
		PointLights:  make([]*PointLight, 0),
		SquareLights: make([]*SquareLight, 0),
	}
}

// Attach a camera to the scene.
func (s *Scene) SetCamera(camera *Camera) {
	s.Camera = camera
}

// Add a material to the scene.
func (s *Scene) AddMaterial(material *Material) error {
	for _, mat := range s.Materials {
		if mat == material {
			return fmt.Errorf("scene: material already added")
		}
	}
	s.Materials = append(s.Materials, material)
	return nil
}

// Add a surface to the scene. Its material must already be part of the scene.
func (s *Scene) AddSurface(surface Surface) error {
	if surface.Material() == nil {
		return fmt.Errorf("scene: no material assigned to %s", surface.Type())
	}
	for _, mat := range s.Materials {
		if mat == surface.Material() {
			s.Surfaces = append(s.Surfaces, surface)
			return nil
		}
	}

	return fmt.Errorf("scene: %s references unknown material; ensure that the material is added to the scene before adding the surface", surface.Type())
}

// Add a light to the scene. Adding an ambient light replaces the current one.
func (s *Scene) AddLight(light Light) error {
	switch l := light.(type) {
	case *PointLight:
		s.PointLights = append(s.PointLights, l)
	case *SquareLight:
		s.SquareLights = append(s.SquareLights, l)
	case *AmbientLight:
		s.Ambient = l
	default:
		return fmt.Errorf("scene: unsupported light type %T", light)
	}
	return nil
}

// Get the scene surfaces as a list of items that can be indexed by a BVH tree.
func (s *Scene) BoundedSurfaces() []bvh.Surface {
	list := make([]bvh.Surface, len(s.Surfaces))
	for index, surface := range s.Surfaces {
		list[index] = surface
	}
	return list
}

// Check that the scene can be rendered.
func (s *Scene) Validate() error {
	if s.Camera == nil {
		return fmt.Errorf("scene: no camera defined")
	}
	return s.Camera.Validate()
}

// Render scene contents as a table.
func (s *Scene) Stats() string {
	surfaceCounts := make(map[SurfaceType]int)
	for _, surface := range s.Surfaces {
		surfaceCounts[surface.Type()]++
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Asset Type", "Asset", "Count"})
	table.Append([]string{"Geometry", "---", fmt.Sprintf("%d", len(s.Surfaces))})
	for _, st := range []SurfaceType{SphereSurface, TriangleSurface, PlaneSurface} {
		table.Append([]string{"", st.String() + "s", fmt.Sprintf("%d", surfaceCounts[st])})
	}
	table.Append([]string{" ", " ", " "})
	table.Append([]string{"Lights", "---", fmt.Sprintf("%d", len(s.PointLights)+len(s.SquareLights))})
	table.Append([]string{"", "point", fmt.Sprintf("%d", len(s.PointLights))})
	table.Append([]string{"", "square", fmt.Sprintf("%d", len(s.SquareLights))})
	table.Append([]string{"", "ambient", fmt.Sprintf("%t", s.Ambient != nil)})
	table.Append([]string{" ", " ", " "})
	table.Append([]string{"Materials", "---", fmt.Sprintf("%d", len(s.Materials))})
	if s.Camera != nil {
		table.SetFooter([]string{"Frame", " ", fmt.Sprintf("%dx%d", s.Camera.FrameW, s.Camera.FrameH)})
	}

	table.Render()
	return buf.String()
}
