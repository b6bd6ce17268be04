package reader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/achilleasa/raytra/asset"
	"github.com/achilleasa/raytra/scene"
	"github.com/achilleasa/raytra/types"
)

func readPayload(name, payload string) (*scene.Scene, error) {
	res := asset.NewResourceFromStream(name, strings.NewReader(payload))
	defer res.Close()

	reader, err := readerFor(res)
	if err != nil {
		return nil, err
	}
	return reader.Read(res)
}

func TestSceneFileReader(t *testing.T) {
	payload := `
/ a test scene
s 0 0 0 1
m 0.5 0.1 0.1 0.4 0.4 0.4 20 0.2 0.2 0.2
s 2 0 0 0.5
t 0 0 -1 1 0 -1 0 1 -1
p 0 1 0 -1
c 0 0 5 0 0 -1 1 2 1 64 32
l p 0 5 5 1 1 1
l s 0 10 0 0 -1 0 1 0 0 2 0.9 0.9 0.9
l a 0.1 0.2 0.3
o ignored option
`
	sc, err := readPayload("embedded.scn", payload)
	if err != nil {
		t.Fatal(err)
	}

	if len(sc.Surfaces) != 4 {
		t.Fatalf("expected 4 surfaces; got %d", len(sc.Surfaces))
	}
	expTypes := []scene.SurfaceType{scene.SphereSurface, scene.SphereSurface, scene.TriangleSurface, scene.PlaneSurface}
	for index, expType := range expTypes {
		if st := sc.Surfaces[index].Type(); st != expType {
			t.Fatalf("expected surface %d to be a %s; got %s", index, expType, st)
		}
	}

	// The first sphere uses the default material; everything else the parsed one
	if mat := sc.Surfaces[0].Material(); !mat.Diffuse.IsZero() || mat.Phong != 1 {
		t.Fatalf("expected surface 0 to use the default material; got %+v", mat)
	}
	mat := sc.Surfaces[1].Material()
	expMat := scene.Material{
		Diffuse:       types.XYZ(0.5, 0.1, 0.1),
		Specular:      types.XYZ(0.4, 0.4, 0.4),
		Phong:         20,
		IdealSpecular: types.XYZ(0.2, 0.2, 0.2),
	}
	if *mat != expMat {
		t.Fatalf("expected material %+v; got %+v", expMat, *mat)
	}
	for _, surface := range sc.Surfaces[2:] {
		if surface.Material() != mat {
			t.Fatal("expected material to apply to all following surfaces")
		}
	}

	if sc.Camera == nil || sc.Camera.FrameW != 64 || sc.Camera.FrameH != 32 || sc.Camera.ImageW != 2 {
		t.Fatalf("unexpected camera %+v", sc.Camera)
	}
	if len(sc.PointLights) != 1 || sc.PointLights[0].Position != types.P(0, 5, 5) || sc.PointLights[0].Intensity != 1 {
		t.Fatalf("unexpected point lights %+v", sc.PointLights)
	}
	if len(sc.SquareLights) != 1 || sc.SquareLights[0].Size != 2 {
		t.Fatalf("unexpected square lights %+v", sc.SquareLights)
	}
	if sc.Ambient == nil || sc.Ambient.Color != types.XYZ(0.1, 0.2, 0.3) {
		t.Fatalf("unexpected ambient light %+v", sc.Ambient)
	}
}

func TestSceneFileReaderErrors(t *testing.T) {
	type spec struct {
		payload string
		expErr  string
	}

	cam := "c 0 0 5 0 0 -1 1 1 1 8 8\n"
	specs := []spec{
		{cam + "s 0 0 1", `[embedded.scn: 2] error: unsupported syntax for "s"; expected 4 arguments; got 3`},
		{cam + "l p 0 0 0 1 1", `[embedded.scn: 2] error: unsupported syntax for "l p"; expected 6 arguments; got 5`},
		{cam + "l x 0 0 0", `[embedded.scn: 2] error: unsupported light type "x"`},
		{cam + "s 0 0 0 -1", `[embedded.scn: 2] error: sphere radius must be positive; got -1`},
		{cam + "q 1 2 3", `[embedded.scn: 2] error: unsupported directive "q"`},
		{"s 0 0 0 1", `[embedded.scn: 0] error: scene should define exactly 1 camera; found 0`},
		{cam + cam, `[embedded.scn: 0] error: scene should define exactly 1 camera; found 2`},
		{"c 0 0 5 0 1 0 1 1 1 8 8", `[embedded.scn: 1] error: camera: view direction [0 1 0] is parallel to the up axis`},
		{"c 0 0 5 0 0 -1 1 1 1 0 8", `[embedded.scn: 1] error: camera resolution must be at least 1x1; got 0x8`},
		{"c 0 0 5 0 0 -1 1 1 1 8.5 8", `[embedded.scn: 1] error: camera resolution must be a whole number of pixels; got 8.5x8`},
		{"c 0 0 5 0 0 -1 1 1 1 8 40000", `[embedded.scn: 1] error: camera resolution must not exceed 32768x32768; got 8x40000`},
		{"c 0 0 5 0 0 -1 1 1 1 1e12 8", `[embedded.scn: 1] error: camera resolution must not exceed 32768x32768; got 1e+12x8`},
	}

	for index, s := range specs {
		_, err := readPayload("embedded.scn", s.payload)
		if err == nil || err.Error() != s.expErr {
			t.Fatalf("[spec %d] expected error:\n%s\ngot:\n%v", index, s.expErr, err)
		}
	}
}

func TestWavefrontReader(t *testing.T) {
	payload := `
# a unit quad and a triangle using negative indices
mtllib scene.mtl
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vn 0 0 1
f 1//1 2//1 3//1 4//1
v 2 0 0
v 3 0 0
v 3 1 0
f -3 -2 -1
`
	sc, err := readPayload("mesh.obj", payload)
	if err != nil {
		t.Fatal(err)
	}

	if len(sc.Surfaces) != 3 {
		t.Fatalf("expected 3 triangles; got %d", len(sc.Surfaces))
	}
	if sc.Camera != nil {
		t.Fatal("expected obj scene not to define a camera")
	}

	tri := sc.Surfaces[1].(*scene.Triangle)
	expVerts := [3]types.Point{types.P(0, 0, 0), types.P(1, 1, 0), types.P(0, 1, 0)}
	if tri.Vertices != expVerts {
		t.Fatalf("expected second fan triangle to have vertices %v; got %v", expVerts, tri.Vertices)
	}

	tri = sc.Surfaces[2].(*scene.Triangle)
	if tri.Vertices[0] != types.P(2, 0, 0) {
		t.Fatalf("expected negative index to resolve to (2, 0, 0); got %v", tri.Vertices[0])
	}
}

func TestWavefrontReaderErrors(t *testing.T) {
	type spec struct {
		payload string
		expErr  string
	}
	specs := []spec{
		{"v 1 2", `[mesh.obj: 1] error: unsupported syntax for "v"; expected 3 arguments; got 2`},
		{"v 0 0 0\nf 1 2", `[mesh.obj: 2] error: unsupported syntax for "f"; expected at least 3 arguments; got 2`},
		{"v 0 0 0\nf 1 2 3", `[mesh.obj: 2] error: could not parse vertex coord for face argument 1: index out of bounds`},
	}

	for index, s := range specs {
		_, err := readPayload("mesh.obj", s.payload)
		if err == nil || err.Error() != s.expErr {
			t.Fatalf("[spec %d] expected error:\n%s\ngot:\n%v", index, s.expErr, err)
		}
	}
}

func TestSceneWithMeshReference(t *testing.T) {
	dir := t.TempDir()
	writeFile := func(name, data string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(data), 0644); err != nil {
			t.Fatal(err)
		}
	}

	writeFile("scene.scn", "c 0 0 5 0 0 -1 1 1 1 8 8\nm 1 0 0 0 0 0 1 0 0 0\nw tri.obj\n")
	writeFile("tri.obj", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n")
	writeFile("broken.scn", "c 0 0 5 0 0 -1 1 1 1 8 8\nw broken.obj\n")
	writeFile("broken.obj", "v 0 0 0\nf 1 2 9\n")

	sc, err := ReadScene(filepath.Join(dir, "scene.scn"))
	if err != nil {
		t.Fatal(err)
	}
	if len(sc.Surfaces) != 1 || sc.Surfaces[0].Material().Diffuse != types.XYZ(1, 0, 0) {
		t.Fatalf("expected a single red triangle; got %d surfaces", len(sc.Surfaces))
	}

	_, err = ReadScene(filepath.Join(dir, "broken.scn"))
	if err == nil {
		t.Fatal("expected an error for a broken mesh reference")
	}
	errLines := strings.Split(err.Error(), "\n")
	if len(errLines) != 2 || !strings.HasSuffix(errLines[0], "index out of bounds") || !strings.HasPrefix(errLines[1], "referenced from") {
		t.Fatalf("expected error with an include stack frame; got:\n%v", err)
	}

	if _, err = ReadScene(filepath.Join(dir, "scene.png")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
