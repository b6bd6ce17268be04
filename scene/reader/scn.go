package reader

import (
	"bufio"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/achilleasa/raytra/asset"
	"github.com/achilleasa/raytra/log"
	"github.com/achilleasa/raytra/scene"
)

// Reads the line-oriented text scene format. Each line starts with a
// directive; materials apply to all geometry defined after them.
//
//	/ comment
//	s x y z r                                   sphere
//	t x1 y1 z1 x2 y2 z2 x3 y3 z3                triangle
//	p nx ny nz d                                plane
//	c x y z vx vy vz d iw ih pw ph              camera
//	l p x y z r g b                             point light
//	l s x y z nx ny nz ux uy uz len r g b       square light
//	l a r g b                                   ambient light
//	m dr dg db sr sg sb phong ir ig ib          material
//	w file.obj                                  wavefront mesh
type sceneFileReader struct {
	logger log.Logger

	sc          *scene.Scene
	curMaterial *scene.Material
	cameras     int

	errStack errorStack
}

func newSceneFileReader() *sceneFileReader {
	return &sceneFileReader{
		logger: log.New("scene reader"),
	}
}

// Read scene definition from a resource.
func (r *sceneFileReader) Read(res *asset.Resource) (*scene.Scene, error) {
	start := time.Now()
	r.logger.Noticef(`parsing scene from "%s"`, res.Path())

	r.sc = scene.NewScene()
	r.curMaterial = scene.DefaultMaterial()
	if err := r.sc.AddMaterial(r.curMaterial); err != nil {
		return nil, err
	}
	r.cameras = 0

	err := r.parse(res)
	if err != nil {
		return nil, err
	}

	if r.cameras != 1 {
		return nil, r.errStack.emit(res.Path(), 0, "scene should define exactly 1 camera; found %d", r.cameras)
	}

	r.logger.Noticef(
		"parsed scene in %d ms: %d surfaces, %d point lights, %d square lights",
		time.Since(start).Nanoseconds()/1e6, len(r.sc.Surfaces), len(r.sc.PointLights), len(r.sc.SquareLights),
	)
	return r.sc, nil
}

func (r *sceneFileReader) parse(res *asset.Resource) error {
	var lineNum int = 0
	var err error

	scanner := bufio.NewScanner(res)
	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "/") || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		switch lineTokens[0] {
		case "s":
			err = r.parseSphere(lineTokens)
		case "t":
			err = r.parseTriangle(lineTokens)
		case "p":
			err = r.parsePlane(lineTokens)
		case "c":
			err = r.parseCamera(lineTokens)
		case "l":
			err = r.parseLight(lineTokens)
		case "m":
			err = r.parseMaterial(lineTokens)
		case "w":
			err = r.parseMesh(res, lineNum, lineTokens)
		case "o":
			r.logger.Debugf("[%s: %d] ignoring options directive", res.Path(), lineNum)
		default:
			err = fmt.Errorf("unsupported directive %q", lineTokens[0])
		}

		if err != nil {
			// Errors from included files are already decorated
			if lineTokens[0] == "w" {
				return err
			}
			return r.errStack.emit(res.Path(), lineNum, "%s", err.Error())
		}
	}

	if err = scanner.Err(); err != nil {
		return r.errStack.emit(res.Path(), lineNum, "%s", err.Error())
	}

	return nil
}

func (r *sceneFileReader) parseSphere(lineTokens []string) error {
	vals, err := parseFloats(lineTokens, 1, 4)
	if err != nil {
		return err
	}
	if vals[3] <= 0 {
		return fmt.Errorf("sphere radius must be positive; got %v", vals[3])
	}
	return r.sc.AddSurface(scene.NewSphere(pointAt(vals, 0), vals[3], r.curMaterial))
}

func (r *sceneFileReader) parseTriangle(lineTokens []string) error {
	vals, err := parseFloats(lineTokens, 1, 9)
	if err != nil {
		return err
	}
	return r.sc.AddSurface(scene.NewTriangle(pointAt(vals, 0), pointAt(vals, 3), pointAt(vals, 6), r.curMaterial))
}

func (r *sceneFileReader) parsePlane(lineTokens []string) error {
	vals, err := parseFloats(lineTokens, 1, 4)
	if err != nil {
		return err
	}
	normal := vec3At(vals, 0)
	if normal.IsZero() {
		return fmt.Errorf("plane normal must be non-zero")
	}
	return r.sc.AddSurface(scene.NewPlane(normal, vals[3], r.curMaterial))
}

func (r *sceneFileReader) parseCamera(lineTokens []string) error {
	vals, err := parseFloats(lineTokens, 1, 11)
	if err != nil {
		return err
	}
	frameW, frameH := vals[9], vals[10]
	switch {
	case frameW < 1 || frameH < 1:
		return fmt.Errorf("camera resolution must be at least 1x1; got %vx%v", frameW, frameH)
	case frameW > float32(scene.MaxFrameDim) || frameH > float32(scene.MaxFrameDim):
		return fmt.Errorf("camera resolution must not exceed %dx%d; got %vx%v", scene.MaxFrameDim, scene.MaxFrameDim, frameW, frameH)
	case frameW != float32(math.Trunc(float64(frameW))) || frameH != float32(math.Trunc(float64(frameH))):
		return fmt.Errorf("camera resolution must be a whole number of pixels; got %vx%v", frameW, frameH)
	}

	cam, err := scene.NewCamera(pointAt(vals, 0), vec3At(vals, 3), vals[6], vals[7], vals[8], uint32(frameW), uint32(frameH))
	if err != nil {
		return err
	}
	r.sc.SetCamera(cam)
	r.cameras++
	return nil
}

func (r *sceneFileReader) parseLight(lineTokens []string) error {
	if len(lineTokens) < 2 {
		return fmt.Errorf(`unsupported syntax for "l"; expected a light type`)
	}

	switch lineTokens[1] {
	case "p":
		vals, err := parseFloats(lineTokens, 2, 6)
		if err != nil {
			return err
		}
		return r.sc.AddLight(scene.NewPointLight(pointAt(vals, 0), vec3At(vals, 3), 1))
	case "s":
		vals, err := parseFloats(lineTokens, 2, 13)
		if err != nil {
			return err
		}
		light, err := scene.NewSquareLight(pointAt(vals, 0), vec3At(vals, 3), vec3At(vals, 6), vals[9], vec3At(vals, 10))
		if err != nil {
			return err
		}
		return r.sc.AddLight(light)
	case "a":
		vals, err := parseFloats(lineTokens, 2, 3)
		if err != nil {
			return err
		}
		if r.sc.Ambient != nil {
			r.logger.Warning("scene defines more than one ambient light; using the last one")
		}
		return r.sc.AddLight(&scene.AmbientLight{Color: vec3At(vals, 0)})
	}

	return fmt.Errorf("unsupported light type %q", lineTokens[1])
}

func (r *sceneFileReader) parseMaterial(lineTokens []string) error {
	vals, err := parseFloats(lineTokens, 1, 10)
	if err != nil {
		return err
	}

	r.curMaterial = &scene.Material{
		Diffuse:       vec3At(vals, 0),
		Specular:      vec3At(vals, 3),
		Phong:         vals[6],
		IdealSpecular: vec3At(vals, 7),
	}
	return r.sc.AddMaterial(r.curMaterial)
}

// Load the triangles of a wavefront file referenced by the scene. Relative
// paths are resolved against the scene file location.
func (r *sceneFileReader) parseMesh(res *asset.Resource, lineNum int, lineTokens []string) error {
	if len(lineTokens) < 2 {
		return r.errStack.emit(res.Path(), lineNum, `unsupported syntax for "w"; expected 1 argument; got 0`)
	}

	meshRes, err := asset.NewResource(strings.Join(lineTokens[1:], " "), res)
	if err != nil {
		return r.errStack.emit(res.Path(), lineNum, "%s", err.Error())
	}
	defer meshRes.Close()

	r.errStack.push(fmt.Sprintf("referenced from %s:%d [%s]", res.Path(), lineNum, lineTokens[0]))
	triangles, err := newWavefrontParser(r.logger, &r.errStack).parse(meshRes, r.curMaterial)
	r.errStack.pop()
	if err != nil {
		return err
	}

	for _, tri := range triangles {
		if err = r.sc.AddSurface(tri); err != nil {
			return r.errStack.emit(res.Path(), lineNum, "%s", err.Error())
		}
	}

	r.logger.Infof("loaded %d triangles from %s", len(triangles), meshRes.Path())
	return nil
}
